// Package admin provides administrative operations on loaded data.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ResetTimeout is the maximum duration for reset operations.
const ResetTimeout = 30 * time.Second

// Truncater empties the database tables of categories.
type Truncater interface {
	Truncate(ctx context.Context, categories ...string) error
}

// CurrentClearer deletes the accumulated table of a category.
type CurrentClearer interface {
	ClearCurrent(ctx context.Context, category string) error
}

// Resetter clears what earlier runs left behind for a set of categories.
// Either collaborator may be nil.
type Resetter struct {
	DB      Truncater
	Archive CurrentClearer
	Logger  *slog.Logger
}

type resetFn func(ctx context.Context) error

// Reset empties the database tables and deletes the accumulated tables of
// the given categories. This is destructive; raw backups and published
// files are kept.
func (r *Resetter) Reset(ctx context.Context, categories ...string) error {
	if len(categories) == 0 {
		return errors.New("reset: no categories given")
	}
	if r.DB == nil && r.Archive == nil {
		return errors.New("reset: nothing to reset, no database or archive configured")
	}

	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	var resets []resetFn
	if r.DB != nil {
		resets = append(resets, func(ctx context.Context) error {
			return r.DB.Truncate(ctx, categories...)
		})
	}
	if r.Archive != nil {
		for _, c := range categories {
			resets = append(resets, func(ctx context.Context) error {
				return r.Archive.ClearCurrent(ctx, c)
			})
		}
	}

	if err := r.runResets(ctx, resets); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	r.logger().Info("categories reset", "categories", categories)
	return nil
}

func (r *Resetter) runResets(ctx context.Context, resets []resetFn) error {
	for _, reset := range resets {
		if err := reset(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resetter) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
