// ABOUTME: Healthboard configuration management with backend selection.
// ABOUTME: Handles settings, defaults, and the table source factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/healthboard/internal/storage"
)

// Backend names.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// DefaultListen is the HTTP listen address used when none is configured.
const DefaultListen = ":8050"

// Config stores healthboard configuration.
type Config struct {
	// Backend selects where the table is read from: "csv" (default) or "sqlite".
	Backend string `json:"backend,omitempty"`

	// DataFile is the CSV file read by the csv backend.
	// Supports ~ expansion. Defaults to health.csv in DataDir.
	DataFile string `json:"data_file,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts health.db here. Defaults to ~/.local/share/health.
	DataDir string `json:"data_dir,omitempty"`

	// Listen is the HTTP listen address for serve.
	Listen string `json:"listen,omitempty"`

	// Owner personalises the dashboard heading.
	Owner string `json:"owner,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	// CacheDir holds the on-disk render cache. Defaults to ~/.cache/healthboard.
	CacheDir string `json:"cache_dir,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "csv".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendCSV
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDataFile returns the CSV data file with ~ expanded.
func (c *Config) GetDataFile() string {
	if c.DataFile == "" {
		return storage.CSVPath(c.GetDataDir())
	}
	return ExpandPath(c.DataFile)
}

// GetDBPath returns the SQLite database path.
func (c *Config) GetDBPath() string {
	return storage.DBPath(c.GetDataDir())
}

// GetListen returns the HTTP listen address.
func (c *Config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

// GetLogLevel returns the log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetLogFormat returns the log format, defaulting to "text".
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return "text"
	}
	return c.LogFormat
}

// GetCacheDir returns the render cache directory with ~ expanded,
// defaulting to the standard XDG cache directory.
func (c *Config) GetCacheDir() string {
	if c.CacheDir != "" {
		return ExpandPath(c.CacheDir)
	}
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, _ := os.UserHomeDir()
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, "healthboard")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenSource creates a table Source based on the configured backend.
func (c *Config) OpenSource() (storage.Source, error) {
	switch backend := c.GetBackend(); backend {
	case BackendCSV:
		return storage.NewCSVSource(c.GetDataFile()), nil
	case BackendSQLite:
		return storage.Open(c.GetDBPath())
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthboard", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
