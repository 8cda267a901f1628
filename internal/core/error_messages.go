// Package core provides the rule engine for season match-record audits.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Operators quote the code when a run fails so the cause can be
// located in the logs quickly.
//
// # Snapshot Errors (INT001-FLD099)
//
// Both abort the whole run; the snapshot has to be fixed or re-downloaded:
//
//	INT001 - Data integrity: A record references an entity that does not exist
//	         Action: Re-download the season export, it is probably incomplete
//	         Match: errors.Is(err, ErrDataIntegrity)
//
//	FLD001 - Malformed field: A typed field has an unexpected value
//	         Action: Check the named table and row in the export
//	         Match: errors.Is(err, ErrMalformedField)
//
// # Input Errors (CSV001-CSV099)
//
//	CSV001 - Unreadable table: An export table could not be read
//	         Action: Check that the season data directory is complete
//	         Patterns: "read table", "missing table"
//
//	CSV002 - Encoding error: A table is not in the configured encoding
//	         Action: Set DATA_ENCODING to match the export
//	         Patterns: "encoding"
//
// # Lookup Errors (SEA001, REP001)
//
//	SEA001 - Season not found: No season with this key is configured
//	         Patterns: "season not found"
//
//	REP001 - Report not found: The season has not been checked yet
//	         Patterns: "report not found"
//
// # Run Errors (CHK001-CHK002)
//
//	CHK001 - Check running: A check of the season is in progress
//	         Patterns: "check already running"
//
//	CHK002 - Busy: All check slots are occupied
//	         Patterns: "too many concurrent checks"
//
// # Storage Errors (DB004-DB006)
//
//	DB004 - Connection refused: Unable to connect to database
//	DB006 - Timeout: Operation timed out
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs for
// the original technical error.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	integrityMessage = UserMessage{
		Message: "A record references an entity that does not exist",
		Action:  "Re-download the season export, it is probably incomplete",
		Code:    "INT001",
	}
	malformedMessage = UserMessage{
		Message: "A typed field has an unexpected value",
		Action:  "Check the named table and row in the export",
		Code:    "FLD001",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "season not found",
		msg: UserMessage{
			Message: "Season not found",
			Action:  "Verify the season key is correct",
			Code:    "SEA001",
		},
	},
	{
		pattern: "report not found",
		msg: UserMessage{
			Message: "No report for this season yet",
			Action:  "Trigger a recheck and try again",
			Code:    "REP001",
		},
	},
	{
		pattern: "check already running",
		msg: UserMessage{
			Message: "A check of this season is already running",
			Action:  "Wait for it to finish and reload the report",
			Code:    "CHK001",
		},
	},
	{
		pattern: "too many concurrent checks",
		msg: UserMessage{
			Message: "The server is busy checking other seasons",
			Action:  "Please try again in a few moments",
			Code:    "CHK002",
		},
	},
	{
		pattern: "missing table",
		msg: UserMessage{
			Message: "An export table could not be read",
			Action:  "Check that the season data directory is complete",
			Code:    "CSV001",
		},
	},
	{
		pattern: "read table",
		msg: UserMessage{
			Message: "An export table could not be read",
			Action:  "Check that the season data directory is complete",
			Code:    "CSV001",
		},
	},
	{
		pattern: "encoding",
		msg: UserMessage{
			Message: "A table is not in the configured encoding",
			Action:  "Set DATA_ENCODING to match the export",
			Code:    "CSV002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Structural snapshot errors are recognized by type, everything else by the
// first matching pattern. If nothing matches, ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch {
	case errors.Is(err, ErrDataIntegrity):
		return integrityMessage
	case errors.Is(err, ErrMalformedField):
		return malformedMessage
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

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
