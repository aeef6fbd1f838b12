// Package config provides centralized configuration management for the
// explorer. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Sources  SourcesConfig
	Fetch    FetchConfig
	Database DatabaseConfig
	Export   ExportConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SourcesConfig says where episode documents come from. Exactly one of
// Locations or File may be set.
type SourcesConfig struct {
	// Locations is a comma-separated list of source locations
	Locations []string `env:"EPISODE_SOURCES"`

	// File is a YAML manifest of named sources
	File string `env:"SOURCES_FILE"`

	// ReloadInterval makes the server reload every source periodically; 0 loads once (default: 0s)
	ReloadInterval time.Duration `env:"RELOAD_INTERVAL" default:"0s"`
}

// FetchConfig holds settings for retrieving remote sources.
type FetchConfig struct {
	// Timeout bounds each HTTP fetch; 0 disables the client timeout (default: 0s)
	Timeout time.Duration `env:"FETCH_TIMEOUT" default:"0s"`

	// UserAgent is sent with every HTTP fetch
	UserAgent string `env:"FETCH_USER_AGENT" default:"episode-explorer/1.0"`

	// MaxConcurrent caps parallel source fetches; 0 is unlimited (default: 0)
	MaxConcurrent int `env:"FETCH_MAX_CONCURRENT" default:"0"`
}

// DatabaseConfig holds database connection settings. The database is only
// needed when a source location uses the postgres: scheme.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// ExportConfig holds CSV export settings for the CLI and terminal UI.
type ExportConfig struct {
	// Dir is where doctor_who_episodes.csv is written (default: .)
	Dir string `env:"EXPORT_DIR" default:"."`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// ReloadAPIKey, when set, is required on POST /reload
	ReloadAPIKey string `env:"RELOAD_API_KEY"`

	// ReloadPerMinute limits POST /reload per client IP; 0 disables (default: 10)
	ReloadPerMinute int `env:"RELOAD_RATE_LIMIT" default:"10"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File receives log output from the terminal UI; empty discards it
	File string `env:"LOG_FILE"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
