package core

// errors.go defines the error kinds raised while processing a table.
//
// Every kind is fatal for the table it was raised on:
//   - cobol.FormatError: bytes do not match the record layout (raised by readers)
//   - SchemaError: a required column is absent from the input
//   - ValidationError: values, keys or row sets break a data rule
//   - DomainError: a category hook rejected the data
//
// ValidationError and DomainError raised inside the pipeline are re-issued
// with the table name set, so callers can use errors.As on the kind and
// still see which input failed.

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCategory is returned when a category name is not registered.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrCategoryMismatch is returned when combining tables of different categories.
	ErrCategoryMismatch = errors.New("category mismatch")
)

// SchemaError reports required columns missing from an input.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("file %q is missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}

// ColumnIssue lists the distinct values of a column that do not fit its type.
type ColumnIssue struct {
	Column string   `json:"column"`
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

// KeyCount is a natural key tuple and the number of rows carrying it.
type KeyCount struct {
	Key   []string `json:"key"`
	Count int      `json:"count"`
}

// ValidationError reports data that breaks a typing, key or overlap rule.
type ValidationError struct {
	Table      string
	Message    string
	Columns    []ColumnIssue
	Key        []string   // natural key columns, for key violations
	BlankKeys  int        // rows with a missing key value
	Duplicates []KeyCount // repeated key tuples
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Table != "" {
		fmt.Fprintf(&sb, "processing %q: ", e.Table)
	}
	sb.WriteString(e.Message)
	for _, c := range e.Columns {
		fmt.Fprintf(&sb, "\n\t%q (%s): %s", c.Column, c.Type, quoteAll(c.Values))
	}
	if e.BlankKeys > 0 {
		fmt.Fprintf(&sb, "\n\t%d rows with a blank value among %s", e.BlankKeys, quoteAll(e.Key))
	}
	for _, d := range e.Duplicates {
		fmt.Fprintf(&sb, "\n\t%s: %d rows", strings.Join(d.Key, "/"), d.Count)
	}
	return sb.String()
}

// DomainError reports a category-specific rule violation.
type DomainError struct {
	Table   string
	Message string
	Err     error
}

// Domainf builds a DomainError with a formatted message.
func Domainf(format string, args ...any) *DomainError {
	return &DomainError{Message: fmt.Sprintf(format, args...)}
}

func (e *DomainError) Error() string {
	msg := "domain check failed: " + e.Message
	if e.Table != "" {
		msg = fmt.Sprintf("processing %q: %s", e.Table, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DomainError) Unwrap() error { return e.Err }

// withTable re-issues validation and domain errors carrying the table name.
// A typed error wrapped by a hook keeps the hook's context and is prefixed
// with the table name instead. Other errors are returned unchanged.
func withTable(err error, table string) error {
	switch e := err.(type) {
	case *ValidationError:
		out := *e
		out.Table = table
		return &out
	case *DomainError:
		out := *e
		out.Table = table
		return &out
	}
	var ve *ValidationError
	var de *DomainError
	if errors.As(err, &ve) || errors.As(err, &de) {
		return fmt.Errorf("processing %q: %w", table, err)
	}
	return err
}

func quoteAll(values []string) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(q, ", ")
}
