package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/filety/internal/cobol"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "record length mismatch",
			err:      &cobol.FormatError{Got: 13, Want: 12, Reason: "input is not a whole number of records"},
			wantCode: "FMT001",
		},
		{
			name:     "field decode failure",
			err:      &cobol.FormatError{Field: "amount", Row: 2, Encoding: "packed(3,0)", Got: 2, Want: 2, Reason: "invalid sign nibble"},
			wantCode: "FMT002",
		},
		{
			name:     "invalid field declaration",
			err:      fmt.Errorf("binary(19): %w", cobol.ErrInvalidField),
			wantCode: "FMT003",
		},
		{
			name:     "missing columns",
			err:      &SchemaError{File: "a.csv", Missing: []string{"x"}},
			wantCode: "SCH001",
		},
		{
			name:     "inconsistent values",
			err:      &ValidationError{Message: "unable to set column types: values not consistent with column types"},
			wantCode: "VAL001",
		},
		{
			name:     "blank natural key",
			err:      &ValidationError{Message: "blank natural key values are not allowed"},
			wantCode: "VAL002",
		},
		{
			name:     "repeated natural key",
			err:      &ValidationError{Message: "repeated natural key: multiple rows"},
			wantCode: "VAL003",
		},
		{
			name:     "overlapping tables",
			err:      &ValidationError{Message: "tables share 2 rows; the same data is likely being loaded twice"},
			wantCode: "VAL004",
		},
		{
			name:     "domain rule",
			err:      Domainf("more than one nav date"),
			wantCode: "DOM001",
		},
		{
			name:     "unknown category wrapped",
			err:      fmt.Errorf("lookup: %w %q", ErrUnknownCategory, "XYZ"),
			wantCode: "CAT001",
		},
		{
			name:     "category mismatch",
			err:      ErrCategoryMismatch,
			wantCode: "CAT002",
		},
		{
			name:     "file too large",
			err:      ErrFileTooLarge,
			wantCode: "FILE001",
		},
		{
			name:     "ragged csv",
			err:      errors.New("invalid csv at line 3: wrong number of fields"),
			wantCode: "FILE002",
		},
		{
			name:     "empty file",
			err:      errors.New("empty file: no header row"),
			wantCode: "FILE003",
		},
		{
			name:     "too many runs",
			err:      ErrTooManyRuns,
			wantCode: "RUN001",
		},
		{
			name:     "cancelled",
			err:      context.Canceled,
			wantCode: "RUN002",
		},
		{
			name:     "timed out",
			err:      fmt.Errorf("load: %w", context.DeadlineExceeded),
			wantCode: "RUN003",
		},
		{
			name:     "inbox busy",
			err:      ErrInboxBusy,
			wantCode: "RUN005",
		},
		{
			name:     "unknown error falls back",
			err:      errors.New("random internal error xyz"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q (message %q)", got.Code, tt.wantCode, got.Message)
			}
			if tt.err != nil && got.Action == "" {
				t.Error("MapError() returned no action")
			}
		})
	}
}

func TestMapError_TableNameDoesNotChangeCode(t *testing.T) {
	err := withTable(&ValidationError{Message: "blank natural key values are not allowed"}, "dmco.dat")
	if got := MapError(err).Code; got != "VAL002" {
		t.Errorf("MapError() code = %q, want VAL002", got)
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrFileTooLarge)

	expected := "File exceeds the maximum size (Code: FILE001). Split the file or raise the configured limit"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: &SchemaError{File: "f", Missing: []string{"a"}}, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("read: %w", ErrTooManyRuns)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The system is busy processing other files" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrTooManyRuns) {
			t.Error("Unwrap() should return original error")
		}
	})
}
