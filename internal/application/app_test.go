package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/filety/internal/config"
	"github.com/JonMunkholm/filety/internal/core"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Processing.MaxFileSize = 1 << 20
	cfg.Processing.Timezone = "Europe/Rome"
	cfg.Storage.Backend = "local"
	cfg.Storage.LocalPath = t.TempDir()
	return cfg
}

func TestBuild_Local(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t), quietLogger(), Options{Archive: true, Database: true})
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Archive)
	assert.Equal(t, "local", app.Storage.Type())
	assert.Nil(t, app.Pool, "no database URL configured")

	_, ok := core.Get("DMCO")
	assert.True(t, ok)

	results, err := app.Service.ProcessInbox(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)

	r := app.Resetter()
	assert.Nil(t, r.DB)
	require.NoError(t, r.Reset(context.Background(), "DMCO"))
}

func TestBuild_NoArchive(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t), quietLogger(), Options{})
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Archive)
	_, err = app.Service.ProcessInbox(context.Background())
	assert.ErrorIs(t, err, core.ErrNoArchive)
}

func TestBuild_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Processing.Timezone = "Mars/Olympus"
	_, err := Build(context.Background(), cfg, quietLogger(), Options{})
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Storage.Backend = "ftp"
	_, err = Build(context.Background(), cfg, quietLogger(), Options{Archive: true})
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Database.URL = "://bad"
	_, err = Build(context.Background(), cfg, quietLogger(), Options{Archive: true, Database: true})
	assert.Error(t, err)
}
