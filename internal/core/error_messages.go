package core

// error_messages.go maps technical errors to coded, user-facing messages.
//
// When a run fails, the operator sees the message and a code they can
// quote; the technical error goes to the logs. Codes are grouped:
//
//	FMT001  Record length is not a multiple of the layout width
//	FMT002  A field could not be decoded
//	FMT003  A field declaration is invalid
//	SCH001  Required columns are missing
//	VAL001  Values do not fit their column types
//	VAL002  Blank natural key values
//	VAL003  Repeated natural key tuples
//	VAL004  Two tables share rows
//	DOM001  A category rule rejected the data
//	CAT001  Unknown category
//	CAT002  Tables of different categories combined
//	FILE001 File too large
//	FILE002 Invalid delimited text
//	FILE003 Empty file
//	RUN001  Too many concurrent runs
//	RUN002  Request cancelled
//	RUN003  Request timed out
//	RUN004  No archive is configured
//	RUN005  An inbox pass is already running
//	REQ001  Invalid request parameter
//	ERR000  Anything else; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains against the
// error text. The first match wins, so specific patterns come first.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Binary record decoding
	{
		pattern: "not a whole number of records",
		msg: UserMessage{
			Message: "The file length does not match the record layout",
			Action:  "Check that the file was transferred in binary mode and belongs to this category",
			Code:    "FMT001",
		},
	},
	{
		pattern: "format error",
		msg: UserMessage{
			Message: "A field could not be decoded",
			Action:  "Check that the file belongs to this category and is not truncated",
			Code:    "FMT002",
		},
	},
	{
		pattern: "invalid field declaration",
		msg: UserMessage{
			Message: "The record layout is misconfigured",
			Action:  "Contact support; the category definition needs fixing",
			Code:    "FMT003",
		},
	},

	// Schema
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "Required columns are missing from the file",
			Action:  "Check the header row against the category's column list",
			Code:    "SCH001",
		},
	},

	// Validation
	{
		pattern: "not consistent with column types",
		msg: UserMessage{
			Message: "Some values do not fit their column types",
			Action:  "Fix the listed values or process with remediation enabled",
			Code:    "VAL001",
		},
	},
	{
		pattern: "blank natural key",
		msg: UserMessage{
			Message: "Some rows have no value in a key column",
			Action:  "Fill in the key columns on every row",
			Code:    "VAL002",
		},
	},
	{
		pattern: "repeated natural key",
		msg: UserMessage{
			Message: "Several rows share the same key",
			Action:  "Remove the duplicated rows listed in the error",
			Code:    "VAL003",
		},
	},
	{
		pattern: "loaded twice",
		msg: UserMessage{
			Message: "The tables share rows",
			Action:  "Check that the same extract was not delivered twice",
			Code:    "VAL004",
		},
	},

	// Category rules
	{
		pattern: "domain check failed",
		msg: UserMessage{
			Message: "The data breaks a rule of its category",
			Action:  "Review the message and correct the source data",
			Code:    "DOM001",
		},
	},
	{
		pattern: "unknown category",
		msg: UserMessage{
			Message: "Unknown file category",
			Action:  "List the available categories and pick one of them",
			Code:    "CAT001",
		},
	},
	{
		pattern: "category mismatch",
		msg: UserMessage{
			Message: "Only tables of the same category can be combined",
			Action:  "Process each category separately",
			Code:    "CAT002",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size",
			Action:  "Split the file or raise the configured limit",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not valid delimited text",
			Action:  "Ensure every row has the same number of fields as the header",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Upload a file with a header row",
			Code:    "FILE003",
		},
	},

	// Runs
	{
		pattern: "too many concurrent runs",
		msg: UserMessage{
			Message: "The system is busy processing other files",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "RUN003",
		},
	},
	{
		pattern: "no archive configured",
		msg: UserMessage{
			Message: "Inbox processing is not available",
			Action:  "Configure a storage backend and restart the service",
			Code:    "RUN004",
		},
	},
	{
		pattern: "inbox pass already running",
		msg: UserMessage{
			Message: "The inbox is already being processed",
			Action:  "Wait for the current pass to finish and try again",
			Code:    "RUN005",
		},
	},
	{
		pattern: "invalid query parameter",
		msg: UserMessage{
			Message: "The request has an invalid parameter",
			Action:  "Use true or false for flag parameters",
			Code:    "REQ001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. If no
// pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original error, for logging
	User      UserMessage // Message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
