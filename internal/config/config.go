// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Data      DataConfig
	Check     CheckConfig
	Scheduler SchedulerConfig
	Security  SecurityConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests. Rechecks run
	// inside a request, so it must cover a full season check (default: 5m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// DatabaseConfig holds report storage settings.
type DatabaseConfig struct {
	// Driver is one of postgres, sqlite, memory (default: memory)
	Driver string `env:"DB_DRIVER" default:"memory"`

	// URL is the PostgreSQL connection string or the SQLite file path.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// DataConfig locates season definitions and snapshots.
type DataConfig struct {
	// SeasonsDir holds one definition file per season (default: seasons)
	SeasonsDir string `env:"DATA_SEASONS_DIR" default:"seasons"`

	// Root is the base of relative snapshot directories (default: data)
	Root string `env:"DATA_ROOT" default:"data"`

	// Encoding of the CSV exports: latin1, windows-1252, utf-8 (default: latin1)
	Encoding string `env:"DATA_ENCODING" default:"latin1"`

	// Cache enables the JSON table cache in snapshot directories (default: false)
	Cache bool `env:"DATA_CACHE" default:"false"`
}

// CheckConfig holds settings of season checks.
type CheckConfig struct {
	// BaseURL of the result site links point to
	BaseURL string `env:"CHECK_BASE_URL" default:"https://www.turnier.de/sport/"`

	// ContactURL is linked from internal errors, e.g. a mailto: URL
	ContactURL string `env:"CHECK_CONTACT_URL"`

	// TimeZone that export timestamps are read in (default: Europe/Berlin)
	TimeZone string `env:"CHECK_TIMEZONE" default:"Europe/Berlin"`

	MaxConcurrent int           `env:"CHECK_MAX_CONCURRENT" default:"2"`
	MaxWaitTime   time.Duration `env:"CHECK_MAX_WAIT_TIME" default:"30s"`
	Timeout       time.Duration `env:"CHECK_TIMEOUT" default:"5m"`
}

// SchedulerConfig holds periodic recheck settings.
type SchedulerConfig struct {
	Enabled  bool          `env:"SCHEDULER_ENABLED" default:"true"`
	Interval time.Duration `env:"SCHEDULER_INTERVAL" default:"1h"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// APIKeys is a comma-separated list of keys accepted for rechecks.
	// Empty leaves rechecks open.
	APIKeys []string `env:"API_KEYS"`

	// AllowedOrigins is a comma-separated list of origins allowed to call the API
	AllowedOrigins []string `env:"CORS_ORIGINS"`

	// RecheckPerMinute limits rechecks per client IP (default: 6)
	RecheckPerMinute int `env:"RECHECK_PER_MINUTE" default:"6"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Location returns the configured time zone.
func (c *CheckConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}
