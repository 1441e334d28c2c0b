// Package config loads the newsroom API settings from environment variables.
// Every value has a default except the database URL, and the whole set is
// validated on startup so misconfiguration fails before the server binds.
package config

import (
	"net"
	"strconv"
	"time"
	_ "time/tzdata" // QUERY_TIMEZONE must resolve in minimal images
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Query    QueryConfig
	Press    PressConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds each request, database work included.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the store: postgres or sqlite.
	Driver string `env:"DB_DRIVER" default:"postgres"`

	// URL is the connection string, or a file / file::memory: URL for sqlite.
	// DATABASE_URL and DB_URL are both accepted.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"20"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"4"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// Migrate applies the embedded schema migrations at startup.
	Migrate bool `env:"DB_MIGRATE" default:"true"`
}

// QueryConfig holds list paging and date interpretation settings.
type QueryConfig struct {
	// DefaultLimit is the page size when a request gives none.
	DefaultLimit int `env:"QUERY_DEFAULT_LIMIT" default:"10"`

	// MaxLimit caps the page size a request may ask for.
	MaxLimit int `env:"QUERY_MAX_LIMIT" default:"100"`

	// TimeZone is the IANA zone begin/end dates are read in.
	TimeZone string `env:"QUERY_TIMEZONE" default:"UTC"`
}

// PressConfig holds the publisher directory source.
type PressConfig struct {
	// File is a YAML, JSON or TOML press list; empty uses the built-in one.
	File string `env:"PRESS_FILE"`
}

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the allowance per client IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// CORSOrigins lists origins allowed to call the API; empty disables CORS.
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
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

// Location returns the zone date filters are interpreted in.
// Validate has already rejected unknown zones.
func (c *QueryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
