package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/TomasB/ipresolve/internal/config"
	"github.com/TomasB/ipresolve/internal/data"
	"github.com/TomasB/ipresolve/internal/lookup"
	"github.com/TomasB/ipresolve/internal/output"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dbDir      string
	inputFile  string
	outputPath string
	workers    int
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "ipresolve [flags] ADDRESS...",
		Short:   "Resolve IP addresses to ownership and location using local GeoLite2 databases",
		Long: `ipresolve looks up IP addresses in local GeoLite2 ASN and City databases
and reports the owning network (ASN, organization) and approximate
location (city, subdivision, country, coordinates) for each address.

Addresses are given as arguments or read one per line from a file.
Results are written as a pretty-printed JSON array, or as CSV when the
output path ends in .csv.`,
		Version:      version,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			return runLookup(cfg, opts.inputFile, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to YAML config file")
	pf.StringVarP(&opts.dbDir, "db-dir", "d", "", "directory containing "+config.ASNFileName+" and "+config.CityFileName)
	pf.IntVarP(&opts.workers, "workers", "n", lookup.DefaultWorkers, "number of concurrent lookup workers")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	f := cmd.Flags()
	f.StringVarP(&opts.inputFile, "input", "i", "", "file with one IP address per line")
	f.StringVarP(&opts.outputPath, "output", "o", "", "output file; .csv selects CSV, anything else JSON (stdout when omitted)")

	cmd.AddCommand(newServeCommand(opts))

	return cmd
}

// resolveConfig layers the optional config file, the environment, and
// any explicitly set flags, in that order of increasing precedence.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("db-dir") {
		cfg.DatabaseDir = opts.dbDir
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if f := flags.Lookup("output"); f != nil && f.Changed {
		cfg.Output = opts.outputPath
	}
	return cfg, nil
}

func runLookup(cfg config.Config, inputFile string, args []string) error {
	addresses := append([]string{}, args...)
	if inputFile != "" {
		fromFile, err := readAddressFile(inputFile)
		if err != nil {
			return err
		}
		addresses = append(addresses, fromFile...)
	}
	if len(addresses) == 0 {
		return errors.New("no addresses given; pass them as arguments or with --input")
	}

	asnPath, cityPath, err := cfg.DatabasePaths()
	if err != nil {
		return err
	}
	reader, err := data.NewMmdbReader(asnPath, cityPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	slog.Debug("databases loaded", "asn", asnPath, "city", cityPath)

	service := lookup.NewService(reader)

	var results []lookup.Result
	if len(addresses) == 1 {
		// Interactive single lookup, no pool.
		result, err := service.Lookup(addresses[0])
		if err != nil {
			slog.Error("address lookup failed", "address", addresses[0], "error", err)
		} else {
			results = []lookup.Result{result}
		}
	} else {
		results = lookup.NewBatch(service, cfg.Workers, nil).Process(addresses)
	}

	if cfg.Output == "" {
		return output.WriteJSON(os.Stdout, results)
	}
	if err := output.WriteFile(cfg.Output, results); err != nil {
		return err
	}
	slog.Info("results written", "path", cfg.Output, "count", len(results))
	return nil
}

// readAddressFile reads one address per line, skipping blank lines.
func readAddressFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var addresses []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		address := strings.TrimSpace(scanner.Text())
		if address == "" {
			continue
		}
		addresses = append(addresses, address)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return addresses, nil
}

// setupLogging installs a JSON slog handler writing to stderr, so log
// lines never mix with results on stdout.
func setupLogging(level string) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: getLogLevel(level),
	}))
	slog.SetDefault(logger)
}

// getLogLevel converts string log level to slog.Level
func getLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
