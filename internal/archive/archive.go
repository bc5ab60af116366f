// Package archive lays out filety's data on an object store: the inbox
// that extracts are delivered to, timestamped backups of raw inputs,
// processed CSV output and the accumulated table of each category.
//
// Layout, with the default prefixes:
//
//	inbox/<category>/<file>
//	backup/YYYY/YYYY-MM/YYYY-MM-DD/<file>-YYYY-MM-DDTHH:MM:SS<ext>
//	processed/<category>/[<column>:<value>/...]<file>-YYYY-MM-DDTHH:MM:SS.csv
//	current/<category>.csv
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/JonMunkholm/filety/internal/core"
	"github.com/JonMunkholm/filety/internal/frame"
	"github.com/JonMunkholm/filety/internal/storage"
)

// TimestampLayout is appended to backup and output file names.
const TimestampLayout = "2006-01-02T15:04:05"

// Config holds the key prefixes and output settings.
type Config struct {
	InboxPrefix     string
	BackupPrefix    string
	ProcessedPrefix string
	CurrentPrefix   string

	// Location is the zone used for timestamps and backup folders.
	Location *time.Location
}

// DefaultConfig returns the standard layout with timestamps in Europe/Rome.
func DefaultConfig() Config {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		loc = time.UTC
	}
	return Config{
		InboxPrefix:     "inbox",
		BackupPrefix:    "backup",
		ProcessedPrefix: "processed",
		CurrentPrefix:   "current",
		Location:        loc,
	}
}

// Archive implements core.Archive over a storage backend.
type Archive struct {
	backend storage.Backend
	cfg     Config
	logger  *slog.Logger
}

var _ core.Archive = (*Archive)(nil)

// New returns an archive over backend. Zero fields of cfg take their
// defaults.
func New(backend storage.Backend, cfg Config, logger *slog.Logger) *Archive {
	def := DefaultConfig()
	if cfg.InboxPrefix == "" {
		cfg.InboxPrefix = def.InboxPrefix
	}
	if cfg.BackupPrefix == "" {
		cfg.BackupPrefix = def.BackupPrefix
	}
	if cfg.ProcessedPrefix == "" {
		cfg.ProcessedPrefix = def.ProcessedPrefix
	}
	if cfg.CurrentPrefix == "" {
		cfg.CurrentPrefix = def.CurrentPrefix
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{
		backend: backend,
		cfg:     cfg,
		logger:  logger.With("component", "archive", "backend", backend.Type()),
	}
}

// BackupRaw stores data under the backup folder of the day of at.
func (a *Archive) BackupRaw(ctx context.Context, name string, data []byte, at time.Time) (string, error) {
	at = at.In(a.cfg.Location)
	base, ext := splitExt(path.Base(name))
	key := path.Join(
		a.cfg.BackupPrefix,
		at.Format("2006"),
		at.Format("2006-01"),
		at.Format("2006-01-02"),
		base+"-"+at.Format(TimestampLayout)+ext,
	)
	if err := a.backend.Write(ctx, key, data); err != nil {
		return "", fmt.Errorf("backup %s: %w", name, err)
	}
	a.logger.Info("raw input backed up", "key", key, "size", len(data))
	return key, nil
}

// Publish writes t as CSV. Categories with split columns get one file per
// distinct combination of split values, under a "column:value" folder for
// each column.
func (a *Archive) Publish(ctx context.Context, t core.Table, at time.Time) ([]string, error) {
	at = at.In(a.cfg.Location)
	base, _ := splitExt(path.Base(t.Name()))
	file := base + "-" + at.Format(TimestampLayout) + ".csv"
	dir := path.Join(a.cfg.ProcessedPrefix, t.Category().Name)

	splitBy := t.Category().SplitBy
	if len(splitBy) == 0 || t.Len() == 0 {
		key := path.Join(dir, file)
		if err := a.writeFrame(ctx, key, t.Frame()); err != nil {
			return nil, err
		}
		return []string{key}, nil
	}

	splits, err := t.Frame().SplitBy(frame.DefaultNull, splitBy...)
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", t.Name(), err)
	}
	keys := make([]string, 0, len(splits))
	for _, s := range splits {
		parts := make([]string, 0, len(s.Path)+2)
		parts = append(parts, dir)
		for _, p := range s.Path {
			parts = append(parts, safeSegment(p))
		}
		key := path.Join(append(parts, file)...)
		if err := a.writeFrame(ctx, key, s.Frame); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	a.logger.Info("table published", "table", t.Name(), "files", len(keys), "rows", t.Len())
	return keys, nil
}

// writeFrame stores f as CSV with frame.DefaultNull for missing cells, the
// token core.FromCSV reads back.
func (a *Archive) writeFrame(ctx context.Context, key string, f frame.Frame) error {
	var buf bytes.Buffer
	if err := frame.WriteCSV(&buf, f, frame.DefaultNull); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.backend.Write(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// LoadCurrent reads the accumulated table of category. The boolean is false
// when none has been saved yet.
func (a *Archive) LoadCurrent(ctx context.Context, category string) ([]byte, bool, error) {
	data, err := a.backend.Read(ctx, a.currentKey(category))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load current %s: %w", category, err)
	}
	return data, true, nil
}

// SaveCurrent replaces the accumulated table of t's category.
func (a *Archive) SaveCurrent(ctx context.Context, t core.Table) (string, error) {
	key := a.currentKey(t.Category().Name)
	if err := a.writeFrame(ctx, key, t.Frame()); err != nil {
		return "", err
	}
	a.logger.Info("accumulated table saved", "key", key, "rows", t.Len())
	return key, nil
}

// ClearCurrent deletes the accumulated table of a category, so the next
// inbox run starts from an empty table.
func (a *Archive) ClearCurrent(ctx context.Context, category string) error {
	key := a.currentKey(category)
	if err := a.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear current %s: %w", category, err)
	}
	a.logger.Info("accumulated table cleared", "key", key)
	return nil
}

func (a *Archive) currentKey(category string) string {
	return path.Join(a.cfg.CurrentPrefix, category+".csv")
}

// Collect reads every file delivered to the inbox. The category is the
// folder directly under the inbox prefix; files at other depths are
// skipped with a warning.
func (a *Archive) Collect(ctx context.Context) ([]core.InboxFile, error) {
	prefix := a.cfg.InboxPrefix + "/"
	keys, err := a.backend.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}

	files := make([]core.InboxFile, 0, len(keys))
	for _, key := range keys {
		category, name, ok := strings.Cut(strings.TrimPrefix(key, prefix), "/")
		if !ok || category == "" || name == "" || strings.Contains(name, "/") {
			a.logger.Warn("skipping inbox object outside a category folder", "key", key)
			continue
		}
		data, err := a.backend.Read(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read inbox %s: %w", key, err)
		}
		files = append(files, core.InboxFile{Key: key, Name: name, Category: category, Data: data})
	}
	return files, nil
}

// Remove deletes an inbox file.
func (a *Archive) Remove(ctx context.Context, key string) error {
	if err := a.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// splitExt splits a file name at its last dot. A leading dot is part of the
// base name.
func splitExt(name string) (string, string) {
	ext := path.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// safeSegment keeps a split value from introducing extra path levels.
func safeSegment(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(s)
}
