// Package config loads filety's settings from environment variables with
// defaults, and validates them on startup so misconfiguration fails fast.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	Processing ProcessingConfig
	Inbox      InboxConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Security   SecurityConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"5m"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds the wait for in-flight runs on shutdown.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text or json.
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ProcessingConfig holds the settings of a processing run.
type ProcessingConfig struct {
	// Remediate enables value remediation during typing.
	Remediate bool `env:"PROCESS_REMEDIATE" default:"true"`

	// MaxFileSize caps raw and decompressed input size. Accepts suffixes
	// such as 100MB or 1GiB.
	MaxFileSize int64 `env:"PROCESS_MAX_FILE_SIZE" default:"100MB" unit:"bytes"`

	// MaxConcurrent is the number of runs allowed at once.
	MaxConcurrent int `env:"PROCESS_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a run waits for a free slot.
	MaxWait time.Duration `env:"PROCESS_MAX_WAIT" default:"30s"`

	// RunTimeout bounds a single run.
	RunTimeout time.Duration `env:"PROCESS_RUN_TIMEOUT" default:"5m"`

	// Timezone is used for backup folders and output timestamps.
	Timezone string `env:"PROCESS_TIMEZONE" default:"Europe/Rome"`
}

// InboxConfig holds the background inbox poller settings.
type InboxConfig struct {
	Enabled  bool          `env:"INBOX_ENABLED" default:"false"`
	Interval time.Duration `env:"INBOX_INTERVAL" default:"5m"`
}

// StorageConfig selects the object store.
type StorageConfig struct {
	// Backend is local, azure or s3.
	Backend   string `env:"STORAGE_BACKEND" default:"local"`
	LocalPath string `env:"STORAGE_LOCAL_PATH" default:"./data"`

	AzureConnectionString string `env:"AZURE_STORAGE_CONNECTION_STRING"`
	AzureAccountName      string `env:"AZURE_STORAGE_ACCOUNT"`
	AzureAccountKey       string `env:"AZURE_STORAGE_KEY"`
	AzureManagedIdentity  bool   `env:"AZURE_USE_MANAGED_IDENTITY" default:"false"`
	AzureContainer        string `env:"AZURE_STORAGE_CONTAINER"`
	AzureEndpoint         string `env:"AZURE_STORAGE_ENDPOINT"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envAlt:"AWS_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3UseSSL    bool   `env:"S3_USE_SSL" default:"true"`
	S3PathStyle bool   `env:"S3_PATH_STYLE" default:"false"`
}

// DatabaseConfig holds the optional PostgreSQL loader settings. Loading is
// disabled when URL is empty.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// Schema is where category tables live.
	Schema string `env:"DB_SCHEMA" default:"public"`

	// Replace empties the target table before each load.
	Replace bool `env:"DB_REPLACE" default:"false"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool { return c.URL != "" }

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies lists the proxy CIDRs whose forwarding headers are
	// believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey rejects API requests without a valid X-API-Key.
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is the comma-separated list of accepted keys.
	APIKeys []string `env:"API_KEYS"`

	// RateLimitPerMinute caps requests per client IP. Zero disables it.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" default:"100"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
