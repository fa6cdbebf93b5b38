package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Turnover TurnoverConfig `yaml:"turnover"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// TurnoverConfig holds the bed turnover sweeper configuration.
type TurnoverConfig struct {
	Enabled                bool          `yaml:"enabled"`
	SweepIntervalSeconds   int           `yaml:"sweep_interval_seconds"`
	SweepInterval          time.Duration `yaml:"-"` // Ignored by YAML parser
	DefaultCleaningMinutes int           `yaml:"default_cleaning_minutes"`
	DefaultCleaning        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in defaults for unset or invalid values.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Turnover.SweepIntervalSeconds <= 0 {
		cfg.Turnover.SweepIntervalSeconds = 5
	}
	cfg.Turnover.SweepInterval = time.Duration(cfg.Turnover.SweepIntervalSeconds) * time.Second

	if cfg.Turnover.DefaultCleaningMinutes <= 0 {
		cfg.Turnover.DefaultCleaningMinutes = 30
	}
	cfg.Turnover.DefaultCleaning = time.Duration(cfg.Turnover.DefaultCleaningMinutes) * time.Minute
}
