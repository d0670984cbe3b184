package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TomasB/ipresolve/internal/data"
	"github.com/TomasB/ipresolve/internal/lookup"
)

func sampleResults() []lookup.Result {
	found := lookup.Merge("8.8.8.8",
		data.ASNRecord{Number: 15169, Organization: "Google LLC"},
		data.CityRecord{
			City:       "Mountain View",
			Country:    "United States",
			CountryISO: "US",
			Latitude:   37.386,
			Longitude:  -122.0838,
		})
	private := lookup.Result{IPAddress: "10.0.0.1"}
	return []lookup.Result{found, private}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse written CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	header := strings.Join(records[0], ",")
	wantHeader := "ip_address,asn,organization,location_string,city,subdivision,country,subdivision_iso,country_iso,latitude,longitude"
	if header != wantHeader {
		t.Errorf("unexpected header:\ngot  %s\nwant %s", header, wantHeader)
	}

	if records[1][0] != "8.8.8.8" || records[1][1] != "15169" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	for i, cell := range records[2][1:] {
		if cell != "" {
			t.Errorf("expected empty cell %d for private address, got %q", i+1, cell)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded []lookup.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to parse written JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 results, got %d", len(decoded))
	}
	if decoded[0].IPAddress != "8.8.8.8" {
		t.Errorf("expected first ip 8.8.8.8, got %q", decoded[0].IPAddress)
	}
	if decoded[1].ASN != nil {
		t.Error("expected null asn for private address")
	}
	if !strings.Contains(buf.String(), "\n  {") {
		t.Error("expected pretty-printed output")
	}
}

func TestWriteJSON_EmptyResults(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("expected empty JSON array, got %q", got)
	}
}

func TestWriteFile_FormatBySuffix(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out.csv")
	if err := WriteFile(csvPath, sampleResults()); err != nil {
		t.Fatalf("WriteFile csv failed: %v", err)
	}
	csvData, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(csvData), "ip_address,") {
		t.Error("expected CSV output for .csv suffix")
	}

	jsonPath := filepath.Join(dir, "out.json")
	if err := WriteFile(jsonPath, sampleResults()); err != nil {
		t.Fatalf("WriteFile json failed: %v", err)
	}
	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(jsonData), "[") {
		t.Error("expected JSON output for non-.csv suffix")
	}
}

func TestWriteFile_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := WriteFile(path, sampleResults()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list output dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.json" {
		t.Errorf("expected only out.json in output dir, got %v", entries)
	}
}
