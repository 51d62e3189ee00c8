package core

// error_messages.go maps internal errors to user-facing messages with
// codes for support reference.
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Import running elsewhere: the advisory lock is held
//	IMP002 - Empty shadow table: no documents were loaded, swap aborted
//	IMP003 - No decoder: none of ADDRESS_ENCODINGS is usable
//	IMP004 - Archive incomplete: road dictionary or building files missing
//	IMP005 - Download failed: registry returned a non-2xx status
//	IMP006 - Import running here: this process is already importing
//
// # Lookup Errors (QRY001-QRY099)
//
//	QRY001 - Query required: blank search query
//	QRY002 - State not found: no import has run for the month
//
// # Database Errors (DB004-DB007)
//
// Matched by message pattern:
//
//	DB004 - Connection refused
//	DB005 - Connection reset
//	DB006 - Timeout
//	DB007 - Deadlock
//
// # Request Errors (REQ001-REQ002)
//
//	REQ001 - Request cancelled ("context canceled")
//	REQ002 - Request timed out ("context deadline exceeded")
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the original error.
//
// Sentinel errors are matched with errors.Is before any pattern, so a
// wrapped sentinel keeps its code. Patterns are matched case-insensitively
// with strings.Contains; the first match wins.

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

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrLockNotAcquired, UserMessage{
		Message: "Another import is already running",
		Action:  "Wait for it to finish; the next run picks up from the saved state",
		Code:    "IMP001",
	}},
	{ErrShadowTableEmpty, UserMessage{
		Message: "The import produced no addresses",
		Action:  "Check that the registry archive for this month is complete",
		Code:    "IMP002",
	}},
	{ErrNoDecoder, UserMessage{
		Message: "No usable text encoding is configured",
		Action:  "Set ADDRESS_ENCODINGS to include euc-kr or utf-8",
		Code:    "IMP003",
	}},
	{ErrArchiveEntryMissing, UserMessage{
		Message: "The registry archive is missing required files",
		Action:  "Verify the archive contains road_code_total and build_ files",
		Code:    "IMP004",
	}},
	{ErrDownloadStatus, UserMessage{
		Message: "The registry download failed",
		Action:  "Check that the month is published and try again later",
		Code:    "IMP005",
	}},
	{ErrImportRunning, UserMessage{
		Message: "An import is already running on this server",
		Action:  "Check the import state for progress",
		Code:    "IMP006",
	}},
	{ErrQueryRequired, UserMessage{
		Message: "A search query is required",
		Action:  "Provide a non-empty query",
		Code:    "QRY001",
	}},
	{ErrStateNotFound, UserMessage{
		Message: "No import has been recorded for this month",
		Action:  "Run an import for the month first",
		Code:    "QRY002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("load: %w", ErrShadowTableEmpty))
//	// msg.Code == "IMP002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
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

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
