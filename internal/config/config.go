// Package config defines all configuration structures for steeldex.  No I/O
// or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds the embedded catalog store parameters.  The catalog
// is a single sqlite file; Path is the only required setting.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	BusyTimeout     time.Duration `mapstructure:"busy_timeout"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
}

// RedisConfig holds the lookup-cache connection parameters.  The cache is
// optional; an empty Addr disables it.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// LookupConfig holds the AI-fallback grade lookup endpoint.  The service is
// an external collaborator consulted when a grade is entirely unknown; empty
// Endpoint disables it.
type LookupConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SourceConfig describes one delimited-file source feeding the sync
// pipeline.
type SourceConfig struct {
	Tag     string `mapstructure:"tag"`
	Path    string `mapstructure:"path"`
	Comma   string `mapstructure:"comma"` // field delimiter, default ","
	Country string `mapstructure:"country"`
}

// SyncConfig holds the resolution-run parameters.
type SyncConfig struct {
	ReportDir        string         `mapstructure:"report_dir"`
	TolerancePercent float64        `mapstructure:"tolerance_percent"`
	Sources          []SourceConfig `mapstructure:"sources"`
}

// LogConfig holds logging parameters.
type LogConfig struct {
	Level      string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format     string `mapstructure:"format"` // "json" | "console"
	OutputPath string `mapstructure:"output_path"`
}

// MetricsConfig holds prometheus exposure parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration aggregate.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Validate checks cross-field consistency after defaults are applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release, or test", c.Server.Mode)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Sync.TolerancePercent < 0 || c.Sync.TolerancePercent > 100 {
		return fmt.Errorf("sync.tolerance_percent %.1f out of range [0,100]", c.Sync.TolerancePercent)
	}
	for i, s := range c.Sync.Sources {
		if s.Tag == "" {
			return fmt.Errorf("sync.sources[%d].tag is required", i)
		}
		if s.Path == "" {
			return fmt.Errorf("sync.sources[%d].path is required", i)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn, or error", c.Log.Level)
	}
	return nil
}
