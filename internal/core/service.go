package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/filety/internal/frame"
)

// DefaultRunTimeout is the maximum duration of a single run.
var DefaultRunTimeout = 5 * time.Minute

// InboxFile is a raw input waiting to be processed. Category is taken from
// the directory the file was delivered to.
type InboxFile struct {
	Key      string
	Name     string
	Category string
	Data     []byte
}

// Archive stores raw inputs and processed tables.
type Archive interface {
	// BackupRaw keeps a timestamped copy of a raw input.
	BackupRaw(ctx context.Context, name string, data []byte, at time.Time) (string, error)
	// Publish writes a processed table and returns the keys written.
	Publish(ctx context.Context, t Table, at time.Time) ([]string, error)
	// LoadCurrent returns the accumulated table of a category as CSV.
	LoadCurrent(ctx context.Context, category string) ([]byte, bool, error)
	// SaveCurrent replaces the accumulated table of its category.
	SaveCurrent(ctx context.Context, t Table) (string, error)
	// Collect lists the inbox.
	Collect(ctx context.Context) ([]InboxFile, error)
	// Remove deletes an inbox file.
	Remove(ctx context.Context, key string) error
}

// Loader loads a processed table into a database.
type Loader interface {
	Load(ctx context.Context, t Table) (int64, error)
}

// ServiceConfig holds the processing settings of a Service.
type ServiceConfig struct {
	Remediate     bool
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration
	RunTimeout    time.Duration
}

// Service runs tables through processing and hands the results to the
// archive and loader, when configured.
type Service struct {
	cfg     ServiceConfig
	limiter *RunLimiter
	archive Archive
	loader  Loader
	logger  *slog.Logger
	now     func() time.Time

	// inbox is held for a whole inbox pass.
	inbox sync.Mutex
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithArchive sets the archive used for backups and published output.
func WithArchive(a Archive) ServiceOption { return func(s *Service) { s.archive = a } }

// WithLoader sets the database loader.
func WithLoader(l Loader) ServiceOption { return func(s *Service) { s.loader = l } }

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption { return func(s *Service) { s.logger = l } }

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption { return func(s *Service) { s.now = now } }

// NewService creates a new Service instance.
func NewService(cfg ServiceConfig, opts ...ServiceOption) *Service {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}
	s := &Service{
		cfg:     cfg,
		limiter: NewRunLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limiter returns the run limiter, for status reporting and shutdown.
func (s *Service) Limiter() *RunLimiter { return s.limiter }

// Categories returns the registered categories.
func (s *Service) Categories() []Category { return All() }

// Request is one input to process.
type Request struct {
	Name     string
	Category string
	Data     []byte

	// Remediate overrides the configured remediation setting when set.
	Remediate *bool

	// DryRun processes without backing up, publishing or loading.
	DryRun bool
}

// Result describes a finished run.
type Result struct {
	RunID     string        `json:"run_id"`
	Name      string        `json:"name"`
	Category  string        `json:"category"`
	State     string        `json:"state"`
	FailedAt  string        `json:"failed_at,omitempty"`
	Rows      int           `json:"rows"`
	Typing    TypingReport  `json:"typing"`
	Warnings  []string      `json:"warnings,omitempty"`
	Published []string      `json:"published,omitempty"`
	Loaded    int64         `json:"loaded,omitempty"`
	Duration  time.Duration `json:"duration_ns"`

	// Table is the processed table; CSV its serialized form.
	Table Table  `json:"-"`
	CSV   []byte `json:"-"`
}

// Process runs one input end to end. The result is returned even on
// failure so callers can report how far processing got.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	runID := uuid.NewString()
	ctx = ContextWithRunID(ctx, runID)
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	logger := s.logger.With("run_id", runID, "file", req.Name, "category", req.Category)
	start := s.now()
	res := &Result{RunID: runID, Name: req.Name, Category: req.Category, State: StateNew.String()}

	remediate := s.cfg.Remediate
	if req.Remediate != nil {
		remediate = *req.Remediate
	}

	t, err := s.read(req)
	if err != nil {
		res.State = StateFailed.String()
		logger.Warn("read failed", "error", err)
		return res, err
	}

	out, err := NewProcessor(Options{Remediate: remediate, Logger: logger}).Process(t)
	res.fill(out)
	res.Duration = s.now().Sub(start)
	if err != nil {
		logger.Warn("processing failed", "stage", out.FailedAt, "error", err)
		return res, err
	}

	var buf bytes.Buffer
	if err := out.Table.WriteCSV(&buf, frame.DefaultNull); err != nil {
		return res, fmt.Errorf("serialize %q: %w", req.Name, err)
	}
	res.CSV = buf.Bytes()

	if !req.DryRun {
		if err := s.deliver(ctx, req, res); err != nil {
			logger.Error("delivery failed", "error", err)
			return res, err
		}
	}

	res.Duration = s.now().Sub(start)
	logger.Info("run complete", "rows", res.Rows, "published", len(res.Published), "loaded", res.Loaded, "duration", res.Duration)
	return res, nil
}

func (s *Service) read(req Request) (Table, error) {
	data, err := Decompress(req.Data, s.cfg.MaxFileSize)
	if err != nil {
		return Table{}, err
	}
	return ReadTable(req.Name, req.Category, data)
}

func (s *Service) deliver(ctx context.Context, req Request, res *Result) error {
	at := s.now()
	if s.archive != nil {
		if _, err := s.archive.BackupRaw(ctx, req.Name, req.Data, at); err != nil {
			return fmt.Errorf("backup %q: %w", req.Name, err)
		}
		keys, err := s.archive.Publish(ctx, res.Table, at)
		if err != nil {
			return fmt.Errorf("publish %q: %w", req.Name, err)
		}
		res.Published = keys
	}
	if s.loader != nil {
		n, err := s.loader.Load(ctx, res.Table)
		if err != nil {
			return fmt.Errorf("load %q: %w", req.Name, err)
		}
		res.Loaded = n
	}
	return nil
}

func (r *Result) fill(out Outcome) {
	r.State = out.State.String()
	if out.State == StateFailed {
		r.FailedAt = out.FailedAt.String()
	}
	r.Rows = out.Table.Len()
	r.Typing = out.Typing
	r.Warnings = out.Warnings
	r.Table = out.Table
}

// InboxResult is the outcome of one inbox file.
type InboxResult struct {
	File   string  `json:"file"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

var (
	// ErrNoArchive is returned by ProcessInbox when the service has no archive.
	ErrNoArchive = errors.New("no archive configured")

	// ErrInboxBusy is returned by ProcessInbox while another pass is running.
	ErrInboxBusy = errors.New("inbox pass already running")
)

// ProcessInbox processes every file in the archive inbox.
//
// Files are grouped by category. Each category's accumulated table is
// loaded, every new file is processed and combined into it, and the result
// replaces the accumulated table. A file that fails, or that shares rows
// with what was already accumulated, is left in the inbox and reported;
// the others are published and removed once the accumulated table is saved.
//
// Only one pass runs at a time; a call made while another pass is running
// returns ErrInboxBusy without touching the inbox.
func (s *Service) ProcessInbox(ctx context.Context) ([]InboxResult, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	if !s.inbox.TryLock() {
		return nil, ErrInboxBusy
	}
	defer s.inbox.Unlock()

	files, err := s.archive.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect inbox: %w", err)
	}

	byCategory := make(map[string][]InboxFile)
	for _, f := range files {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var results []InboxResult
	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.processCategory(ctx, category, byCategory[category])...)
	}
	return results, nil
}

func (s *Service) processCategory(ctx context.Context, category string, files []InboxFile) []InboxResult {
	logger := s.logger.With("category", category)
	results := make([]InboxResult, 0, len(files))
	failAll := func(err error) []InboxResult {
		for _, f := range files {
			results = append(results, InboxResult{File: f.Name, Error: err.Error()})
		}
		return results
	}

	current, err := s.loadCurrent(ctx, category)
	if err != nil {
		logger.Error("load accumulated table", "error", err)
		return failAll(err)
	}

	var done []InboxFile
	for _, f := range files {
		req := Request{Name: f.Name, Category: category, Data: f.Data, DryRun: true}
		res, err := s.Process(ctx, req)
		if err == nil {
			var combined Table
			if combined, err = Combine(current, res.Table); err == nil {
				err = s.deliver(ctx, req, res)
			}
			if err == nil {
				current = combined.Rename(category)
				done = append(done, f)
			}
		}
		ir := InboxResult{File: f.Name, Result: res}
		if err != nil {
			ir.Error = err.Error()
		}
		results = append(results, ir)
	}

	if len(done) == 0 {
		return results
	}
	if _, err := s.archive.SaveCurrent(ctx, current); err != nil {
		logger.Error("save accumulated table", "error", err)
		return results
	}
	for _, f := range done {
		if err := s.archive.Remove(ctx, f.Key); err != nil {
			logger.Warn("remove processed input", "key", f.Key, "error", err)
		}
	}
	logger.Info("inbox category processed", "files", len(files), "accepted", len(done), "rows", current.Len())
	return results
}

// loadCurrent returns the accumulated table of a category, or an empty one.
func (s *Service) loadCurrent(ctx context.Context, category string) (Table, error) {
	data, ok, err := s.archive.LoadCurrent(ctx, category)
	if err != nil {
		return Table{}, err
	}
	if !ok {
		s.logger.Warn("no accumulated table, starting empty", "category", category)
		t, err := EmptyTable(category)
		if err != nil {
			return Table{}, err
		}
		return t.Rename(category), nil
	}
	t, err := RestoreTable(category, data, s.logger.With("category", category))
	if err != nil {
		return Table{}, fmt.Errorf("accumulated table: %w", err)
	}
	return t, nil
}
