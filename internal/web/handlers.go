package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/filety/internal/core"
	"github.com/JonMunkholm/filety/internal/logging"
)

// handleHealth reports liveness and run capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":     "ok",
		"categories": core.CategoryCount(),
		"runs":       s.service.Limiter().Status(),
	})
}

// ColumnInfo describes one required column.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CategoryInfo describes a registered category.
type CategoryInfo struct {
	Name       string       `json:"name"`
	Group      string       `json:"group,omitempty"`
	Label      string       `json:"label,omitempty"`
	Columns    []ColumnInfo `json:"columns"`
	NaturalKey []string     `json:"natural_key,omitempty"`
	SplitBy    []string     `json:"split_by,omitempty"`
}

func categoryInfo(c core.Category) CategoryInfo {
	cols := make([]ColumnInfo, len(c.Columns))
	for i, col := range c.Columns {
		cols[i] = ColumnInfo{Name: col.Name, Type: col.Type.String()}
	}
	return CategoryInfo{
		Name:       c.Name,
		Group:      c.Group,
		Label:      c.Label,
		Columns:    cols,
		NaturalKey: c.NaturalKey,
		SplitBy:    c.SplitBy,
	}
}

// handleListCategories returns every registered category.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	all := s.service.Categories()
	out := make([]CategoryInfo, len(all))
	for i, c := range all {
		out[i] = categoryInfo(c)
	}
	writeJSON(w, out)
}

// handleProcess runs the posted file through its category and answers
// with the processed table as CSV.
//
// Query parameters:
//   - name: file name used for logs, backups and output (default "<category>.dat")
//   - remediate: override the configured remediation setting
//   - dry_run: process without storing or loading anything
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	req, err := s.readRequest(w, r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	if req.DryRun, err = boolParam(r, "dry_run"); err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	res, err := s.service.Process(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, res)
		return
	}

	logging.FromContext(r.Context()).Info("file processed",
		"run_id", res.RunID, "category", res.Category, "rows", res.Rows)

	base := strings.TrimSuffix(path.Base(req.Name), path.Ext(req.Name))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".csv"))
	w.Header().Set("X-Run-ID", res.RunID)
	w.Header().Set("X-Row-Count", strconv.Itoa(res.Rows))
	if len(res.Warnings) > 0 {
		w.Header().Set("X-Warning-Count", strconv.Itoa(len(res.Warnings)))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.CSV)
}

// handleValidate runs the posted file through its category without storing
// anything and answers with the run report.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, err := s.readRequest(w, r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	req.DryRun = true

	res, err := s.service.Process(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, res)
		return
	}
	writeJSON(w, res)
}

// handleRunInbox processes the archive inbox once.
func (s *Server) handleRunInbox(w http.ResponseWriter, r *http.Request) {
	results, err := s.service.ProcessInbox(r.Context())
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	writeJSON(w, map[string]any{
		"files":   len(results),
		"failed":  failed,
		"results": results,
	})
}

// readRequest validates the category and reads the body, capped at the
// configured maximum file size.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (core.Request, error) {
	category := chi.URLParam(r, "category")
	if _, err := core.Lookup(category); err != nil {
		return core.Request{}, err
	}

	remediate, err := boolParam(r, "remediate")
	if err != nil {
		return core.Request{}, err
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = category + ".dat"
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Processing.MaxFileSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return core.Request{}, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return core.Request{}, errEmptyBody
	}

	req := core.Request{Name: path.Base(name), Category: category, Data: data}
	if r.URL.Query().Has("remediate") {
		req.Remediate = &remediate
	}
	return req, nil
}

var errEmptyBody = errors.New("empty file: request body is empty")

// boolParam parses an optional boolean query parameter. A bare "?flag"
// counts as true.
func boolParam(r *http.Request, key string) (bool, error) {
	q := r.URL.Query()
	if !q.Has(key) {
		return false, nil
	}
	v := q.Get(key)
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &paramError{key: key, value: v}
	}
	return b, nil
}

type paramError struct{ key, value string }

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid query parameter %s=%q", e.key, e.value)
}
