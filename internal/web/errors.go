package web

// errors.go turns processing errors into JSON responses.
//
// Every failure answers with the same body: a fixed "Failed" status, the
// coded user message from core.MapError, a timestamp in the configured zone
// and, for data errors, the technical text describing what is wrong with
// the file. Other errors only expose the user message; their details stay
// in the server log, correlated by request id.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/filety/internal/cobol"
	"github.com/JonMunkholm/filety/internal/core"
)

// DatetimeLayout formats the datetime field of error responses.
const DatetimeLayout = "2006-01-02 15:04:05"

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Status   string `json:"status"` // always "Failed"
	Code     string `json:"code"`
	Message  string `json:"message"`
	Action   string `json:"action,omitempty"`
	Log      string `json:"log"`
	Datetime string `json:"datetime"`

	RunID    string             `json:"run_id,omitempty"`
	FailedAt string             `json:"failed_at,omitempty"`
	Typing   *core.TypingReport `json:"typing,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	var (
		maxBytes   *http.MaxBytesError
		format     *cobol.FormatError
		schema     *core.SchemaError
		validation *core.ValidationError
		domain     *core.DomainError
		param      *paramError
	)
	switch {
	case errors.Is(err, core.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyRuns), errors.Is(err, core.ErrNoArchive), errors.Is(err, core.ErrInboxBusy):
		return http.StatusServiceUnavailable
	case errors.As(err, &param), errors.Is(err, errEmptyBody):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &format), errors.As(err, &schema),
		errors.As(err, &validation), errors.As(err, &domain),
		errors.Is(err, core.ErrCategoryMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err with request context and writes the JSON error
// body. res may be nil when the failure happened before a run started.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, res *core.Result) {
	status := statusFor(err)
	if errors.As(err, new(*http.MaxBytesError)) {
		err = errors.Join(core.ErrFileTooLarge, err)
	}
	msg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	body := ErrorResponse{
		Status:   "Failed",
		Code:     msg.Code,
		Message:  msg.Message,
		Action:   msg.Action,
		Log:      msg.Message,
		Datetime: s.now().Format(DatetimeLayout),
	}
	if status == http.StatusUnprocessableEntity {
		body.Log = err.Error()
	}
	if res != nil {
		body.RunID = res.RunID
		body.FailedAt = res.FailedAt
		body.Warnings = res.Warnings
		if len(res.Typing.Inconsistent) > 0 {
			typing := res.Typing
			body.Typing = &typing
		}
	}
	writeJSONStatus(w, status, body)
}

func (s *Server) now() time.Time {
	return time.Now().In(s.location)
}
