package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Load reads configuration from environment variables, applies defaults
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := fill(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// fill walks the nested config structs and sets every field tagged env.
func fill(v reflect.Value) error {
	for i := 0; i < v.NumField(); i++ {
		field, fv := v.Type().Field(i), v.Field(i)
		switch {
		case !fv.CanSet():
		case field.Type.Kind() == reflect.Struct:
			if err := fill(fv); err != nil {
				return err
			}
		case field.Tag.Get("env") != "":
			raw, ok, err := setting(field.Tag)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := parseInto(fv, raw, field.Tag.Get("unit")); err != nil {
				return fmt.Errorf("invalid value for %s=%q: %w", field.Tag.Get("env"), raw, err)
			}
		}
	}
	return nil
}

// setting resolves the raw value of a field from its tags: the env
// variable, then envAlt, then default. ok is false when none gives a value.
func setting(tag reflect.StructTag) (string, bool, error) {
	name := tag.Get("env")
	for _, key := range []string{name, tag.Get("envAlt")} {
		if key == "" {
			continue
		}
		if v := os.Getenv(key); v != "" {
			return v, true, nil
		}
	}
	if tag.Get("required") == "true" {
		return "", false, fmt.Errorf("required environment variable %s is not set", name)
	}
	def := tag.Get("default")
	return def, def != "", nil
}

// parseInto converts raw to the type of fv. Integer fields tagged
// unit:"bytes" accept a size suffix; see ParseBytes.
func parseInto(fv reflect.Value, raw, unit string) error {
	if unit == "bytes" {
		n, err := ParseBytes(raw)
		if err != nil {
			return err
		}
		fv.SetInt(n)
		return nil
	}
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", fv.Type().Elem().Kind())
		}
		fv.Set(reflect.ValueOf(splitList(raw)))
	default:
		return fmt.Errorf("unsupported field type: %s", fv.Kind())
	}
	return nil
}

// splitList splits a comma separated list, dropping blank entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var byteUnits = []struct {
	suffix string
	mult   int64
}{
	// Longest suffixes first so "MiB" is not read as "B".
	{"KIB", 1 << 10}, {"MIB", 1 << 20}, {"GIB", 1 << 30},
	{"KB", 1000}, {"MB", 1000 * 1000}, {"GB", 1000 * 1000 * 1000},
	{"B", 1},
}

// ParseBytes parses a size such as "104857600", "100MB" or "64MiB".
func ParseBytes(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	mult := int64(1)
	for _, u := range byteUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			mult = u.mult
			break
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size: %d is negative", n)
	}
	return n * mult, nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

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

	// Processing
	if c.Processing.MaxFileSize <= 0 {
		errs = append(errs, "PROCESS_MAX_FILE_SIZE must be positive")
	}
	if c.Processing.MaxConcurrent <= 0 {
		errs = append(errs, "PROCESS_MAX_CONCURRENT must be positive")
	}
	if c.Processing.MaxWait <= 0 {
		errs = append(errs, "PROCESS_MAX_WAIT must be positive")
	}
	if c.Processing.RunTimeout <= 0 {
		errs = append(errs, "PROCESS_RUN_TIMEOUT must be positive")
	}
	if _, err := time.LoadLocation(c.Processing.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("PROCESS_TIMEZONE (%q) is not a known time zone", c.Processing.Timezone))
	}

	// Inbox
	if c.Inbox.Enabled && c.Inbox.Interval <= 0 {
		errs = append(errs, "INBOX_INTERVAL must be positive when the inbox is enabled")
	}

	// Storage
	switch strings.ToLower(c.Storage.Backend) {
	case "local":
		if c.Storage.LocalPath == "" {
			errs = append(errs, "STORAGE_LOCAL_PATH is required for the local backend")
		}
	case "azure":
		if c.Storage.AzureContainer == "" {
			errs = append(errs, "AZURE_STORAGE_CONTAINER is required for the azure backend")
		}
		if c.Storage.AzureConnectionString == "" && c.Storage.AzureAccountName == "" {
			errs = append(errs, "AZURE_STORAGE_CONNECTION_STRING or AZURE_STORAGE_ACCOUNT is required for the azure backend")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			errs = append(errs, "S3_BUCKET is required for the s3 backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_BACKEND (%q) must be one of: local, azure, s3", c.Storage.Backend))
	}

	// Database, only when loading is enabled
	if c.Database.Enabled() {
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
		if c.Database.Schema == "" {
			errs = append(errs, "DB_SCHEMA must not be empty")
		}
	}

	// Security
	if c.Security.RateLimitPerMinute < 0 {
		errs = append(errs, "RATE_LIMIT_PER_MINUTE must be non-negative")
	}
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
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

// String returns a representation of the config safe for logging. Secrets
// and the database URL are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Processing: {Remediate: %v, MaxFileSize: %d, MaxConcurrent: %d}, ",
		c.Processing.Remediate, c.Processing.MaxFileSize, c.Processing.MaxConcurrent)
	fmt.Fprintf(&b, "Storage: {Backend: %q}, ", c.Storage.Backend)
	db := "disabled"
	if c.Database.Enabled() {
		db = "[MASKED]"
	}
	fmt.Fprintf(&b, "Database: {URL: %s, Schema: %q}, ", db, c.Database.Schema)
	fmt.Fprintf(&b, "Security: {RequireAPIKey: %v, APIKeys: %d}, ", c.Security.RequireAPIKey, len(c.Security.APIKeys))
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
