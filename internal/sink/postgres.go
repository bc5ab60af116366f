// Package sink loads processed tables into PostgreSQL.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/filety/internal/core"
)

// DefaultSchema is the schema tables are loaded into when none is set.
const DefaultSchema = "public"

// TxBeginner starts transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres loads each table into <schema>.<category> with COPY. The load
// is atomic per table.
type Postgres struct {
	db      TxBeginner
	schema  string
	replace bool
	logger  *slog.Logger
}

var _ core.Loader = (*Postgres)(nil)

// Option configures a Postgres loader.
type Option func(*Postgres)

// WithSchema sets the target schema.
func WithSchema(schema string) Option { return func(p *Postgres) { p.schema = schema } }

// WithReplace empties the target table inside the load transaction before
// copying.
func WithReplace(replace bool) Option { return func(p *Postgres) { p.replace = replace } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(p *Postgres) { p.logger = l } }

// NewPostgres creates a loader over db.
func NewPostgres(db TxBeginner, opts ...Option) *Postgres {
	p := &Postgres{db: db, schema: DefaultSchema, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Target returns the identifier of the table t is loaded into.
func (p *Postgres) Target(t core.Table) pgx.Identifier {
	return p.TargetFor(t.Category().Name)
}

// TargetFor returns the identifier of the table a category is loaded into.
func (p *Postgres) TargetFor(category string) pgx.Identifier {
	return pgx.Identifier{p.schema, ColumnName(category)}
}

// Truncate empties the tables of the given categories in one transaction.
func (p *Postgres) Truncate(ctx context.Context, categories ...string) error {
	if len(categories) == 0 {
		return nil
	}
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range categories {
		target := p.TargetFor(c).Sanitize()
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+target); err != nil {
			return fmt.Errorf("truncate %s: %w", target, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	p.logger.Info("tables truncated", "schema", p.schema, "count", len(categories))
	return nil
}

// Load copies every row of t and returns the number of rows written.
func (p *Postgres) Load(ctx context.Context, t core.Table) (int64, error) {
	start := time.Now()
	target := p.Target(t)
	f := t.Frame()

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	if p.replace {
		if _, err := tx.Exec(ctx, "DELETE FROM "+target.Sanitize()); err != nil {
			return 0, fmt.Errorf("clear %s: %w", target.Sanitize(), err)
		}
	}

	names := f.Columns()
	columns := make([]string, len(names))
	for i, n := range names {
		columns[i] = ColumnName(n)
	}

	n, err := tx.CopyFrom(ctx, target, columns, pgx.CopyFromSlice(f.Len(), func(i int) ([]any, error) {
		row := f.Row(i)
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = ToPgValue(c)
		}
		return values, nil
	}))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", target.Sanitize(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.logger.Info("table loaded",
		"table", t.Name(),
		"target", target.Sanitize(),
		"rows", n,
		"replace", p.replace,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n, nil
}
