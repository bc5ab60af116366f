package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *LocalBackend {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b, err := NewLocalBackend(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestLocalBackend_BasicOperations(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	t.Run("Write and Read", func(t *testing.T) {
		require.NoError(t, b.Write(ctx, "test/data.csv", []byte("a,b\n1,2\n")))
		data, err := b.Read(ctx, "test/data.csv")
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(data))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, b.Write(ctx, "test/over.csv", []byte("old")))
		require.NoError(t, b.Write(ctx, "test/over.csv", []byte("new")))
		data, err := b.Read(ctx, "test/over.csv")
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("Read missing", func(t *testing.T) {
		_, err := b.Read(ctx, "test/missing.csv")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Exists and Delete", func(t *testing.T) {
		ok, err := b.Exists(ctx, "test/del.csv")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, b.Write(ctx, "test/del.csv", []byte("x")))
		ok, err = b.Exists(ctx, "test/del.csv")
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, b.Delete(ctx, "test/del.csv"))
		ok, err = b.Exists(ctx, "test/del.csv")
		require.NoError(t, err)
		assert.False(t, ok)

		// Deleting twice is not an error.
		assert.NoError(t, b.Delete(ctx, "test/del.csv"))
	})
}

func TestLocalBackend_List(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	for _, k := range []string{"inbox/DMCO/b.dat", "inbox/DMCO/a.dat", "inbox/S1cail/nav.csv", "other/x"} {
		require.NoError(t, b.Write(ctx, k, []byte("data")))
	}
	// Hidden files are in-flight writes and never listed.
	require.NoError(t, os.WriteFile(filepath.Join(b.BasePath(), "inbox", ".filety-1.tmp"), nil, 0o600))

	keys, err := b.List(ctx, "inbox/")
	require.NoError(t, err)
	assert.Equal(t, []string{"inbox/DMCO/a.dat", "inbox/DMCO/b.dat", "inbox/S1cail/nav.csv"}, keys)

	keys, err = b.List(ctx, "nothing-here/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalBackend_PathTraversal(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, "../../escape.csv", []byte("x")))
	_, err := os.Stat(filepath.Join(b.BasePath(), "_", "_", "escape.csv"))
	assert.NoError(t, err)

	require.NoError(t, b.Write(ctx, "/abs/file.csv", []byte("x")))
	ok, err := b.Exists(ctx, "abs/file.csv")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen(t *testing.T) {
	b, err := Open(Config{LocalPath: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.Equal(t, "local", b.Type())

	_, err = Open(Config{Backend: "ftp"}, nil)
	assert.Error(t, err)

	_, err = Open(Config{Backend: "s3"}, nil)
	assert.ErrorContains(t, err, "bucket")

	_, err = Open(Config{Backend: "azure"}, nil)
	assert.ErrorContains(t, err, "container")
}

func TestContentTypeOf(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"processed/DMCO/x.csv", "text/csv"},
		{"backup/2024/x.dat.gz", "application/gzip"},
		{"backup/2024/x.zst", "application/zstd"},
		{"backup/2024/x.dat", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, contentTypeOf(tt.key))
		})
	}
}
