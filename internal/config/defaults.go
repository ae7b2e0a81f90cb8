package config

import "time"

// Default values applied to unset fields before validation.
const (
	DefaultServerPort       = 8270
	DefaultServerMode       = "release"
	DefaultReadTimeout      = 15 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultDatabasePath     = "steeldex.db"
	DefaultBusyTimeout      = 5 * time.Second
	DefaultMaxOpenConns     = 1
	DefaultRedisTimeout     = 3 * time.Second
	DefaultLookupTTL        = 24 * time.Hour
	DefaultLookupTimeout    = 20 * time.Second
	DefaultRedisKeyPrefix   = "steeldex:"
	DefaultReportDir        = "reports"
	DefaultTolerancePercent = 50.0
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsNamespace = "steeldex"
)

// ApplyDefaults fills zero-valued fields with platform defaults.  Explicit
// zero values a caller actually wants (e.g. redis db 0) survive because the
// defaults below only touch fields whose zero value is never meaningful.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = DefaultBusyTimeout
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultMaxOpenConns
	}

	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultLookupTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	if cfg.Lookup.Timeout == 0 {
		cfg.Lookup.Timeout = DefaultLookupTimeout
	}

	if cfg.Sync.ReportDir == "" {
		cfg.Sync.ReportDir = DefaultReportDir
	}
	if cfg.Sync.TolerancePercent == 0 {
		cfg.Sync.TolerancePercent = DefaultTolerancePercent
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
