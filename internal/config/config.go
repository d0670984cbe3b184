// Package config holds the tool configuration and database discovery.
// Values are layered: built-in defaults, then an optional YAML file,
// then environment variables; command-line flags override all of these
// at the call site.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Expected database filenames inside the database directory.
const (
	ASNFileName  = "GeoLite2-ASN.mmdb"
	CityFileName = "GeoLite2-City.mmdb"
)

// defaultSearchPath lists the platform-standard GeoIP directories
// checked in order when no database directory is configured.
var defaultSearchPath = []string{
	"/usr/share/GeoIP",
	"/var/lib/GeoIP",
	"/usr/local/share/GeoIP",
}

// Config represents the complete tool configuration.
type Config struct {
	DatabaseDir string `yaml:"database_dir"`
	Workers     int    `yaml:"workers"`
	Output      string `yaml:"output"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers:  4,
		LogLevel: "info",
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the configuration.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv("IPRESOLVE_DB_DIR"); dir != "" {
		c.DatabaseDir = dir
	}
	if workers := os.Getenv("IPRESOLVE_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n >= 1 {
			c.Workers = n
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// DatabasePaths resolves the ASN and City database file paths. With a
// configured directory both files must exist there; otherwise the
// standard search path is walked and the first directory holding both
// files wins. Failure here means no lookups can run at all.
func (c Config) DatabasePaths() (asnPath, cityPath string, err error) {
	if c.DatabaseDir != "" {
		asnPath, cityPath = databasePair(c.DatabaseDir)
		if err := checkReadable(asnPath, cityPath); err != nil {
			return "", "", fmt.Errorf("database directory %s: %w", c.DatabaseDir, err)
		}
		return asnPath, cityPath, nil
	}

	for _, dir := range defaultSearchPath {
		asnPath, cityPath = databasePair(dir)
		if checkReadable(asnPath, cityPath) == nil {
			return asnPath, cityPath, nil
		}
	}
	return "", "", fmt.Errorf("no usable database directory found (searched %v); set --db-dir or IPRESOLVE_DB_DIR", defaultSearchPath)
}

func databasePair(dir string) (string, string) {
	return filepath.Join(dir, ASNFileName), filepath.Join(dir, CityFileName)
}

func checkReadable(paths ...string) error {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("database file not readable: %w", err)
		}
		f.Close()
	}
	return nil
}
