package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/filety/internal/application"
	"github.com/JonMunkholm/filety/internal/config"
	"github.com/JonMunkholm/filety/internal/logging"
	"github.com/JonMunkholm/filety/internal/web"
)

func main() {
	// Overload lets a local .env win over the inherited environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Backend,
		"database", cfg.Database.Enabled(),
		"max_concurrent", cfg.Processing.MaxConcurrent,
		"remediate", cfg.Processing.Remediate,
	)

	ctx := context.Background()
	app, err := application.Build(ctx, cfg, logger, application.Options{Archive: true, Database: true})
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := web.NewServer(app.Service, cfg)

	jobCtx, cancelJobs := context.WithCancel(ctx)
	if cfg.Inbox.Enabled {
		go app.Service.StartInboxScheduler(jobCtx, cfg.Inbox.Interval)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		limiter := app.Service.Limiter()
		if status := limiter.Status(); status.Active > 0 {
			logger.Info("waiting for runs to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				logger.Warn("runs did not complete in time", "error", err)
			} else {
				logger.Info("all runs completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		logger.Info("server stopped", "error", err)
	}
}
