package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// LocalBackend stores objects as files under a base directory.
type LocalBackend struct {
	basePath string
	logger   *slog.Logger

	// Directories already created, to skip repeated MkdirAll calls.
	dirCache map[string]bool
	dirMu    sync.RWMutex
}

// NewLocalBackend creates the base directory if needed and returns a
// backend rooted at it.
func NewLocalBackend(basePath string, logger *slog.Logger) (*LocalBackend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}
	return &LocalBackend{
		basePath: absPath,
		logger:   logger.With("component", "local-storage"),
		dirCache: make(map[string]bool),
	}, nil
}

// Write writes data to a temporary file next to the target and renames it
// into place, so readers never see a partial object.
func (b *LocalBackend) Write(ctx context.Context, key string, data []byte) error {
	fullPath, err := b.validatePath(key)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	dir := filepath.Dir(fullPath)
	if err := b.ensureDir(dir); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".filety-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	b.logger.Debug("wrote file", "path", key, "size", len(data))
	return nil
}

func (b *LocalBackend) ensureDir(dir string) error {
	b.dirMu.RLock()
	exists := b.dirCache[dir]
	b.dirMu.RUnlock()
	if exists {
		return nil
	}

	b.dirMu.Lock()
	defer b.dirMu.Unlock()
	if b.dirCache[dir] {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	b.dirCache[dir] = true
	return nil
}

// Read reads the file at key.
func (b *LocalBackend) Read(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := b.validatePath(key)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// List walks the directory under prefix. Hidden files, including in-flight
// temporary files, are skipped.
func (b *LocalBackend) List(ctx context.Context, prefix string) ([]string, error) {
	searchPath, err := b.validatePath(prefix)
	if err != nil {
		return nil, fmt.Errorf("invalid prefix: %w", err)
	}

	var results []string
	err = filepath.WalkDir(searchPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(b.basePath, path)
		if err != nil {
			return err
		}
		results = append(results, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sort.Strings(results)
	return results, nil
}

// Delete removes the file at key.
func (b *LocalBackend) Delete(ctx context.Context, key string) error {
	fullPath, err := b.validatePath(key)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	b.logger.Debug("deleted file", "path", key)
	return nil
}

// Exists reports whether a file exists at key.
func (b *LocalBackend) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := b.validatePath(key)
	if err != nil {
		return false, fmt.Errorf("invalid path: %w", err)
	}

	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}

// Close is a no-op.
func (b *LocalBackend) Close() error { return nil }

// Type returns "local".
func (b *LocalBackend) Type() string { return "local" }

// BasePath returns the absolute base directory.
func (b *LocalBackend) BasePath() string { return b.basePath }

// sanitizePath strips leading slashes, parent references and NUL bytes.
func sanitizePath(path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.ReplaceAll(path, "..", "_")
	path = strings.ReplaceAll(path, "\x00", "")
	return path
}

// validatePath resolves key under the base path and rejects anything that
// would escape it.
func (b *LocalBackend) validatePath(key string) (string, error) {
	fullPath := filepath.Join(b.basePath, filepath.FromSlash(sanitizePath(key)))
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	rel, err := filepath.Rel(b.basePath, absPath)
	if err != nil {
		return "", errors.New("path traversal detected")
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("path traversal detected: path escapes base directory")
	}
	return absPath, nil
}
