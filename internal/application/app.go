// Package application wires configuration into a ready-to-use processing
// service. The HTTP server and the command-line tool share it.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/filety/internal/admin"
	"github.com/JonMunkholm/filety/internal/archive"
	"github.com/JonMunkholm/filety/internal/config"
	"github.com/JonMunkholm/filety/internal/core"
	_ "github.com/JonMunkholm/filety/internal/core/categories" // register all categories
	"github.com/JonMunkholm/filety/internal/sink"
	"github.com/JonMunkholm/filety/internal/storage"
)

// App holds the service and the collaborators it was built from.
type App struct {
	Config  *config.Config
	Service *core.Service
	Logger  *slog.Logger

	Storage storage.Backend // nil without archive
	Archive *archive.Archive
	Pool    *pgxpool.Pool // nil without database
	Loader  *sink.Postgres
}

// Options selects which collaborators Build sets up.
type Options struct {
	// Archive opens the storage backend for backups, published output and
	// the inbox.
	Archive bool
	// Database connects to PostgreSQL when a URL is configured.
	Database bool
}

// Build creates the service described by cfg.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	loc, err := time.LoadLocation(cfg.Processing.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	svcOpts := []core.ServiceOption{core.WithLogger(logger)}

	if opts.Archive {
		backend, err := storage.Open(storageConfig(cfg.Storage), logger)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		app.Storage = backend
		app.Archive = archive.New(backend, archive.Config{Location: loc}, logger)
		svcOpts = append(svcOpts, core.WithArchive(app.Archive))
		logger.Info("storage opened", "backend", backend.Type())
	}

	if opts.Database && cfg.Database.Enabled() {
		pool, err := connect(ctx, &cfg.Database, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Pool = pool
		app.Loader = sink.NewPostgres(pool,
			sink.WithSchema(cfg.Database.Schema),
			sink.WithReplace(cfg.Database.Replace),
			sink.WithLogger(logger),
		)
		svcOpts = append(svcOpts, core.WithLoader(app.Loader))
	}

	app.Service = core.NewService(core.ServiceConfig{
		Remediate:     cfg.Processing.Remediate,
		MaxFileSize:   cfg.Processing.MaxFileSize,
		MaxConcurrent: cfg.Processing.MaxConcurrent,
		MaxWait:       cfg.Processing.MaxWait,
		RunTimeout:    cfg.Processing.RunTimeout,
	}, svcOpts...)

	logger.Info("categories registered",
		"count", core.CategoryCount(),
		"groups", len(core.Groups()),
	)
	return app, nil
}

// Resetter returns a resetter over whatever collaborators are configured.
func (a *App) Resetter() *admin.Resetter {
	r := &admin.Resetter{Logger: a.Logger}
	if a.Loader != nil {
		r.DB = a.Loader
	}
	if a.Archive != nil {
		r.Archive = a.Archive
	}
	return r
}

// Close releases the pool and the storage backend.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn("close storage", "error", err)
		}
	}
}

func storageConfig(c config.StorageConfig) storage.Config {
	return storage.Config{
		Backend:   strings.ToLower(c.Backend),
		LocalPath: c.LocalPath,
		Azure: storage.AzureBlobConfig{
			ConnectionString:   c.AzureConnectionString,
			AccountName:        c.AzureAccountName,
			AccountKey:         c.AzureAccountKey,
			UseManagedIdentity: c.AzureManagedIdentity,
			ContainerName:      c.AzureContainer,
			Endpoint:           c.AzureEndpoint,
		},
		S3: storage.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			UseSSL:    c.S3UseSSL,
			PathStyle: c.S3PathStyle,
		},
	}
}

func connect(ctx context.Context, c *config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(c.MaxConns)
	poolConfig.MinConns = int32(c.MinConns)
	poolConfig.MaxConnLifetime = c.MaxConnLifetime
	poolConfig.MaxConnIdleTime = c.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(c.URL); err == nil {
		logger.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"), "schema", c.Schema)
	} else {
		logger.Info("connected to database")
	}
	return pool, nil
}
