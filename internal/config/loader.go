package config

import (
	"fmt"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables, applies defaults
// for unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// loadStruct walks v depth-first and fills every field that carries an env
// tag. Nested structs are config sections.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != timeType {
			if err := loadStruct(fv); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}

		value, err := envValue(field.Tag, name)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, value, err)
		}
	}

	return nil
}

// envValue resolves one field: the primary variable, then envAlt, then the
// default. A required field with neither variable set is an error.
func envValue(tag reflect.StructTag, name string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	if alt := tag.Get("envAlt"); alt != "" {
		if v := os.Getenv(alt); v != "" {
			return v, nil
		}
	}
	if tag.Get("required") == "true" {
		return "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return tag.Get("default"), nil
}

// setField parses value into field according to the field's type.
func setField(field reflect.Value, value string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))

	case field.Kind() == reflect.String:
		field.SetString(value)

	case field.Kind() == reflect.Int || field.Kind() == reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}

	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER (%q) must be one of: postgres, sqlite", c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Query
	if c.Query.DefaultLimit <= 0 {
		errs = append(errs, "QUERY_DEFAULT_LIMIT must be positive")
	}
	if c.Query.MaxLimit < c.Query.DefaultLimit {
		errs = append(errs, fmt.Sprintf("QUERY_MAX_LIMIT (%d) must be >= QUERY_DEFAULT_LIMIT (%d)",
			c.Query.MaxLimit, c.Query.DefaultLimit))
	}
	if _, err := time.LoadLocation(c.Query.TimeZone); err != nil {
		errs = append(errs, fmt.Sprintf("QUERY_TIMEZONE (%q) is not a known time zone", c.Query.TimeZone))
	}

	// Rate limit
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Security
	for _, cidr := range c.Security.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil && net.ParseIP(cidr) == nil {
			errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES entry %q is not a CIDR or IP", cidr))
		}
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The database URL is masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Addr: %q}, ", c.Server.Addr())
	fmt.Fprintf(&b, "Database: {Driver: %q, URL: [MASKED], MaxConns: %d, MinConns: %d, Migrate: %v}, ",
		c.Database.Driver, c.Database.MaxConns, c.Database.MinConns, c.Database.Migrate)
	fmt.Fprintf(&b, "Query: {DefaultLimit: %d, MaxLimit: %d, TimeZone: %q}, ",
		c.Query.DefaultLimit, c.Query.MaxLimit, c.Query.TimeZone)
	fmt.Fprintf(&b, "Press: {File: %q}, ", c.Press.File)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
