package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Defaults applied when the file leaves a field empty.
const (
	DefaultStoragePath   = "./data"
	DefaultRemoteURL     = "https://api.jsonbin.io/v3"
	DefaultBinName       = "300-workout-tracker"
	DefaultRemoteTimeout = 10
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Remote    RemoteConfig    `yaml:"remote"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// CatalogConfig points at the program file. An empty path selects the built-in program.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// RemoteConfig describes the JSONBin-compatible mirror. Sync is off without an API key.
type RemoteConfig struct {
	URL            string `yaml:"url"`
	APIKey         string `yaml:"api_key"`
	BinID          string `yaml:"bin_id"`
	BinName        string `yaml:"bin_name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Enabled reports whether remote sync is configured.
func (r RemoteConfig) Enabled() bool {
	return r.APIKey != ""
}

// Timeout is the per-request remote timeout.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix THREEHUNDRED_ and underscore-separated paths:
//
//	THREEHUNDRED_SERVER_HOST, THREEHUNDRED_SERVER_PORT, THREEHUNDRED_CATALOG_PATH,
//	THREEHUNDRED_STORAGE_DRIVER, THREEHUNDRED_STORAGE_PATH,
//	THREEHUNDRED_DB_HOST, THREEHUNDRED_DB_PORT, THREEHUNDRED_DB_NAME,
//	THREEHUNDRED_DB_USER, THREEHUNDRED_DB_PASSWORD, THREEHUNDRED_DB_SSLMODE,
//	THREEHUNDRED_REMOTE_URL, THREEHUNDRED_REMOTE_API_KEY, THREEHUNDRED_REMOTE_BIN_ID
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("THREEHUNDRED_SERVER_HOST", &cfg.Server.Host)
	setInt("THREEHUNDRED_SERVER_PORT", &cfg.Server.Port)
	setString("THREEHUNDRED_CATALOG_PATH", &cfg.Catalog.Path)
	setString("THREEHUNDRED_STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("THREEHUNDRED_STORAGE_PATH", &cfg.Storage.Path)
	setString("THREEHUNDRED_DB_HOST", &cfg.Database.Host)
	setInt("THREEHUNDRED_DB_PORT", &cfg.Database.Port)
	setString("THREEHUNDRED_DB_NAME", &cfg.Database.Name)
	setString("THREEHUNDRED_DB_USER", &cfg.Database.User)
	setString("THREEHUNDRED_DB_PASSWORD", &cfg.Database.Password)
	setString("THREEHUNDRED_DB_SSLMODE", &cfg.Database.SSLMode)
	setString("THREEHUNDRED_REMOTE_URL", &cfg.Remote.URL)
	setString("THREEHUNDRED_REMOTE_API_KEY", &cfg.Remote.APIKey)
	setString("THREEHUNDRED_REMOTE_BIN_ID", &cfg.Remote.BinID)
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}
	if c.Remote.URL == "" {
		c.Remote.URL = DefaultRemoteURL
	}
	if c.Remote.BinName == "" {
		c.Remote.BinName = DefaultBinName
	}
	if c.Remote.TimeoutSeconds == 0 {
		c.Remote.TimeoutSeconds = DefaultRemoteTimeout
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	if c.Remote.TimeoutSeconds < 0 {
		return fmt.Errorf("remote.timeout_seconds must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
