// Package config loads the service configuration from YAML with RECOVERY_*
// environment overrides, and watches the file for engine changes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Engine    EngineConfig    `yaml:"engine"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// TailscaleConfig enables the tsnet listener. When enabled the API is only
// reachable over the tailnet.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// EngineConfig holds the analysis settings. Timezone is reloaded at runtime.
type EngineConfig struct {
	Timezone    string `yaml:"timezone"`
	UserID      int    `yaml:"user_id"`
	CatalogPath string `yaml:"catalog_path"`
}

// Location resolves the configured IANA zone. validate has already checked it.
func (e EngineConfig) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix RECOVERY_ and underscore-separated paths:
//
//	RECOVERY_SERVER_HOST, RECOVERY_SERVER_PORT,
//	RECOVERY_DB_HOST, RECOVERY_DB_PORT, RECOVERY_DB_NAME,
//	RECOVERY_DB_USER, RECOVERY_DB_PASSWORD, RECOVERY_DB_SSLMODE,
//	RECOVERY_AUTH_API_KEY,
//	RECOVERY_TAILSCALE_ENABLED, RECOVERY_TAILSCALE_HOSTNAME, RECOVERY_TAILSCALE_STATE_DIR,
//	RECOVERY_TIMEZONE, RECOVERY_USER_ID, RECOVERY_CATALOG_PATH
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
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.Timezone == "" {
		cfg.Engine.Timezone = "UTC"
	}
	if cfg.Engine.UserID == 0 {
		cfg.Engine.UserID = 1
	}
	if cfg.Engine.CatalogPath == "" {
		cfg.Engine.CatalogPath = "data/catalog.db"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "recovery"
	}
	if cfg.Tailscale.StateDir == "" {
		cfg.Tailscale.StateDir = "tsnet-state"
	}
}

func applyEnvOverrides(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(&cfg.Server.Host, "RECOVERY_SERVER_HOST")
	setInt(&cfg.Server.Port, "RECOVERY_SERVER_PORT")
	setString(&cfg.Database.Host, "RECOVERY_DB_HOST")
	setInt(&cfg.Database.Port, "RECOVERY_DB_PORT")
	setString(&cfg.Database.Name, "RECOVERY_DB_NAME")
	setString(&cfg.Database.User, "RECOVERY_DB_USER")
	setString(&cfg.Database.Password, "RECOVERY_DB_PASSWORD")
	setString(&cfg.Database.SSLMode, "RECOVERY_DB_SSLMODE")
	setString(&cfg.Auth.APIKey, "RECOVERY_AUTH_API_KEY")
	if v := os.Getenv("RECOVERY_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	setString(&cfg.Tailscale.Hostname, "RECOVERY_TAILSCALE_HOSTNAME")
	setString(&cfg.Tailscale.StateDir, "RECOVERY_TAILSCALE_STATE_DIR")
	setString(&cfg.Engine.Timezone, "RECOVERY_TIMEZONE")
	setInt(&cfg.Engine.UserID, "RECOVERY_USER_ID")
	setString(&cfg.Engine.CatalogPath, "RECOVERY_CATALOG_PATH")
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
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
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if _, err := time.LoadLocation(c.Engine.Timezone); err != nil {
		return fmt.Errorf("engine.timezone %q: %w", c.Engine.Timezone, err)
	}
	if c.Engine.UserID < 1 {
		return fmt.Errorf("engine.user_id must be positive")
	}
	return nil
}
