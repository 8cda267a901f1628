package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads the configuration from the environment, fills in defaults and
// validates the result.
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

// loadStruct walks the sections of v and sets every field tagged with env.
func loadStruct(v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		field, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fv); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}
		value, ok := lookup(name, field.Tag.Get("envAlt"))
		if !ok {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}
		if err := set(fv.Addr().Interface(), value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, value, err)
		}
	}
	return nil
}

// lookup returns the first non-empty value of the named variables.
func lookup(names ...string) (string, bool) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			return v, true
		}
	}
	return "", false
}

// set parses value into the field ptr points to.
func set(ptr any, value string) error {
	switch p := ptr.(type) {
	case *string:
		*p = value
	case *int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		*p = n
	case *bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		*p = b
	case *time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		*p = d
	case *[]string:
		*p = splitList(value)
	default:
		return fmt.Errorf("unsupported field type %T", ptr)
	}
	return nil
}

// splitList splits a comma-separated value and drops empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	validEncodings = map[string]bool{
		"latin1": true, "latin-1": true, "iso-8859-1": true, "iso8859-1": true,
		"windows-1252": true, "cp1252": true, "utf-8": true, "utf8": true,
	}
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"text": true, "json": true}
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	db := c.Database
	switch db.Driver {
	case "postgres", "sqlite":
		if db.URL == "" {
			add("DATABASE_URL is required for DB_DRIVER=%s", db.Driver)
		}
	case "memory":
	default:
		add("DB_DRIVER (%q) must be one of: postgres, sqlite, memory", db.Driver)
	}
	if db.MaxConns <= 0 {
		add("DB_MAX_CONNS must be positive")
	}
	if db.MinConns < 0 {
		add("DB_MIN_CONNS must be non-negative")
	}
	if db.MaxConns < db.MinConns {
		add("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", db.MaxConns, db.MinConns)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		add("SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 {
		add("SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		add("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	if c.Data.SeasonsDir == "" {
		add("DATA_SEASONS_DIR is required")
	}
	if !validEncodings[strings.ToLower(c.Data.Encoding)] {
		add("DATA_ENCODING (%q) must be one of: latin1, windows-1252, utf-8", c.Data.Encoding)
	}

	if u, err := url.Parse(c.Check.BaseURL); err != nil || u.Scheme == "" || !strings.HasSuffix(c.Check.BaseURL, "/") {
		add("CHECK_BASE_URL (%q) must be an absolute URL ending in /", c.Check.BaseURL)
	}
	if _, err := c.Check.Location(); err != nil {
		add("CHECK_TIMEZONE (%q) is not a known time zone", c.Check.TimeZone)
	}
	if c.Check.MaxConcurrent <= 0 {
		add("CHECK_MAX_CONCURRENT must be positive")
	}
	if c.Check.MaxWaitTime <= 0 {
		add("CHECK_MAX_WAIT_TIME must be positive")
	}
	if c.Check.Timeout <= 0 {
		add("CHECK_TIMEOUT must be positive")
	}

	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		add("SCHEDULER_INTERVAL must be positive when the scheduler is enabled")
	}
	if c.Security.RecheckPerMinute <= 0 {
		add("RECHECK_PER_MINUTE must be positive")
	}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		add("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		add("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if len(errs) > 0 {
		return errors.New("validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}
