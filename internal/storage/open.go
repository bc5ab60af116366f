package storage

import (
	"fmt"
	"log/slog"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is "local", "azure" or "s3".
	Backend   string
	LocalPath string
	Azure     AzureBlobConfig
	S3        S3Config
}

// Open creates the backend named by cfg.Backend.
func Open(cfg Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalBackend(cfg.LocalPath, logger)
	case "azure":
		return NewAzureBlobBackend(cfg.Azure, logger)
	case "s3":
		return NewS3Backend(cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
