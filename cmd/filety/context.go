package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filety/internal/application"
	"github.com/JonMunkholm/filety/internal/config"
	"github.com/JonMunkholm/filety/internal/logging"
)

type commandContext struct {
	envFile    *string
	jsonOutput *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(envFile *string, jsonOutput *bool) *commandContext {
	return &commandContext{envFile: envFile, jsonOutput: jsonOutput}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if path := strings.TrimSpace(*c.envFile); path != "" {
			if err := godotenv.Overload(path); err != nil {
				c.configErr = fmt.Errorf("load %s: %w", path, err)
				return
			}
		}
		c.config, c.configErr = config.Load()
	})
	return c.config, c.configErr
}

func (c *commandContext) json() bool {
	return c.jsonOutput != nil && *c.jsonOutput
}

// logger writes to stderr so stdout stays free for CSV and reports.
func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
}

// withApp builds the application, runs fn and releases it.
func (c *commandContext) withApp(cmd *cobra.Command, opts application.Options, fn func(*application.App) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	app, err := application.Build(cmd.Context(), cfg, c.logger(cmd, cfg), opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
