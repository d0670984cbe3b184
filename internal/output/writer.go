// Package output serializes lookup results to CSV or pretty-printed
// JSON, chosen by the destination filename suffix.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TomasB/ipresolve/internal/lookup"
)

// WriteFile writes results to the given path, as CSV when the path ends
// in .csv and as a pretty-printed JSON array otherwise. The file is
// written to a temporary sibling first and renamed into place, so a
// failed write never leaves a partial output file behind.
func WriteFile(path string, results []lookup.Result) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, path, results); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}

// Write renders results to w in the format implied by path.
func Write(w io.Writer, path string, results []lookup.Result) error {
	if strings.HasSuffix(path, ".csv") {
		return WriteCSV(w, results)
	}
	return WriteJSON(w, results)
}

// WriteJSON writes results as a pretty-printed JSON array.
func WriteJSON(w io.Writer, results []lookup.Result) error {
	if results == nil {
		results = []lookup.Result{}
	}
	raw, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	raw = append(raw, '\n')
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// WriteCSV writes results with a header row in result field order, one
// row per result, null fields as empty cells.
func WriteCSV(w io.Writer, results []lookup.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(lookup.FieldNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write(result.CSVRow()); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", result.IPAddress, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}
