package archive

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/filety/internal/core"
	"github.com/JonMunkholm/filety/internal/frame"
	"github.com/JonMunkholm/filety/internal/storage"
)

var registerOnce sync.Once

func registerCategories() {
	registerOnce.Do(func() {
		read := func(data []byte) (frame.Frame, error) {
			return core.ReadDelimitedBytes(data, core.DelimitedOptions{})
		}
		cols := []core.ColumnSpec{
			{Name: "id", Type: core.BoundedText{MaxLength: 8}},
			{Name: "kind", Type: core.BoundedText{MaxLength: 8}},
		}
		core.Register(core.Category{Name: "SPLIT", Columns: cols, SplitBy: []string{"kind"}, Read: read})
		core.Register(core.Category{Name: "FLAT", Columns: cols, Read: read})
	})
}

func newTestArchive(t *testing.T) (*Archive, storage.Backend) {
	t.Helper()
	registerCategories()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b, err := storage.NewLocalBackend(t.TempDir(), logger)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Location = time.UTC
	return New(b, cfg, logger), b
}

func testTable(t *testing.T, category string) core.Table {
	t.Helper()
	f, err := frame.FromRows([]string{"id", "kind"}, [][]frame.Cell{
		{frame.Text("1"), frame.Text("A")},
		{frame.Text("2"), frame.Text("B")},
		{frame.Text("3"), frame.Null(frame.KindText)},
		{frame.Text("4"), frame.Text("A")},
	})
	require.NoError(t, err)
	tbl, err := core.NewTable("extract.csv", category, f)
	require.NoError(t, err)
	return tbl
}

var at = time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)

func TestBackupRaw(t *testing.T) {
	a, b := newTestArchive(t)
	ctx := context.Background()

	key, err := a.BackupRaw(ctx, "dmco.dat", []byte("raw"), at)
	require.NoError(t, err)
	assert.Equal(t, "backup/2024/2024-03/2024-03-05/dmco-2024-03-05T14:30:15.dat", key)

	data, err := b.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "raw", string(data))

	key, err = a.BackupRaw(ctx, "noext", nil, at)
	require.NoError(t, err)
	assert.Equal(t, "backup/2024/2024-03/2024-03-05/noext-2024-03-05T14:30:15", key)
}

func TestBackupRaw_Location(t *testing.T) {
	registerCategories()
	b, err := storage.NewLocalBackend(t.TempDir(), nil)
	require.NoError(t, err)
	a := New(b, Config{}, nil)

	// 23:30 UTC is already the next day in Rome.
	key, err := a.BackupRaw(context.Background(), "f.dat", nil, time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "backup/2024/2024-03/2024-03-06/f-2024-03-06T00:30:00.dat", key)
}

func TestPublish_Flat(t *testing.T) {
	a, b := newTestArchive(t)
	ctx := context.Background()

	keys, err := a.Publish(ctx, testTable(t, "FLAT"), at)
	require.NoError(t, err)
	require.Equal(t, []string{"processed/FLAT/extract-2024-03-05T14:30:15.csv"}, keys)

	data, err := b.Read(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, "id,kind\n1,A\n2,B\n3,NULL\n4,A\n", string(data))
}

func TestPublish_Split(t *testing.T) {
	a, b := newTestArchive(t)
	ctx := context.Background()

	keys, err := a.Publish(ctx, testTable(t, "SPLIT"), at)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"processed/SPLIT/kind:A/extract-2024-03-05T14:30:15.csv",
		"processed/SPLIT/kind:B/extract-2024-03-05T14:30:15.csv",
		"processed/SPLIT/kind:NULL/extract-2024-03-05T14:30:15.csv",
	}, keys)

	data, err := b.Read(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, "id,kind\n1,A\n4,A\n", string(data))
}

func TestCurrent(t *testing.T) {
	a, _ := newTestArchive(t)
	ctx := context.Background()

	_, ok, err := a.LoadCurrent(ctx, "FLAT")
	require.NoError(t, err)
	assert.False(t, ok)

	key, err := a.SaveCurrent(ctx, testTable(t, "FLAT"))
	require.NoError(t, err)
	assert.Equal(t, "current/FLAT.csv", key)

	data, ok, err := a.LoadCurrent(ctx, "FLAT")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(data), "3,NULL\n")

	require.NoError(t, a.ClearCurrent(ctx, "FLAT"))
	_, ok, err = a.LoadCurrent(ctx, "FLAT")
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, a.ClearCurrent(ctx, "FLAT"))
}

func TestCollectAndRemove(t *testing.T) {
	a, b := newTestArchive(t)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, "inbox/DMCO/one.dat", []byte("1")))
	require.NoError(t, b.Write(ctx, "inbox/S1cail/nav.csv", []byte("2")))
	require.NoError(t, b.Write(ctx, "inbox/stray.txt", []byte("3")))
	require.NoError(t, b.Write(ctx, "inbox/DMCO/nested/deep.dat", []byte("4")))

	files, err := a.Collect(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, core.InboxFile{Key: "inbox/DMCO/one.dat", Name: "one.dat", Category: "DMCO", Data: []byte("1")}, files[0])
	assert.Equal(t, "S1cail", files[1].Category)

	require.NoError(t, a.Remove(ctx, files[0].Key))
	files, err = a.Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSplitExt(t *testing.T) {
	tests := []struct{ in, base, ext string }{
		{"a.csv", "a", ".csv"},
		{"a.tar.gz", "a.tar", ".gz"},
		{"noext", "noext", ""},
		{".hidden", ".hidden", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			base, ext := splitExt(tt.in)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.ext, ext)
		})
	}
}
