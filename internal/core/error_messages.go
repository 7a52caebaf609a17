// Package core is the filter-and-view-selection engine of the college explorer.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Notices shown next to the results carry these codes so a user can quote
// them when something looks wrong.
//
// Error codes are grouped by category:
//
// # Input Errors (INP001-INP099)
//
// Recoverable problems with values typed by the user. Processing continues
// with a substitute value.
//
//	INP001 - Invalid range: Range text is not "low-high"
//	         Action: Enter two numbers separated by a hyphen, e.g. 0.2-0.6
//	         Patterns: "invalid range"
//
//	INP002 - Invalid scale factor: Bubble scale factor is not a number
//	         Action: Enter a plain number such as 1 or 100000
//	         Patterns: "invalid scale factor"
//
//	INP003 - Invalid query: The request parameters could not be read
//	         Action: Reset the form and try again
//	         Patterns: "invalid query"
//
// # Configuration Errors (CFG001-CFG099)
//
// A selection named a column the current dataset cannot serve. The
// selection is reset to the mode default.
//
//	CFG001 - Column not in dataset: The column does not exist in this scope
//	         Action: Pick one of the listed columns
//	         Patterns: "not in dataset"
//
//	CFG002 - Wrong column type: A numeric column was expected and text found, or the reverse
//	         Action: Pick a column of the right kind
//	         Patterns: "wrong type"
//
//	CFG003 - Unknown mode: The visualization mode is not recognized
//	         Action: Choose one of the listed modes
//	         Patterns: "unknown mode"
//
// # Source Errors (SRC001-SRC099)
//
// Errors loading the dataset at startup.
//
//	SRC001 - Source unavailable: No source could provide the table
//	         Action: Check the data paths and URLs in the configuration
//	         Patterns: "source unavailable"
//
//	SRC002 - Invalid CSV: The file is not a valid CSV
//	         Action: Ensure the file is comma-separated with consistent columns
//	         Patterns: "invalid csv"
//
//	SRC003 - Empty table: The source returned no columns
//	         Action: Check that the file has a header row
//	         Patterns: "empty table"
//
//	SRC004 - Too large: The download exceeded the configured size limit
//	         Action: Raise DATA_MAX_DOWNLOAD_BYTES or use a local copy
//	         Patterns: "too large"
//
//	SRC005 - Connection refused: Unable to connect to the database
//	         Action: Please try again in a few moments
//	         Patterns: "connection refused"
//
// # Plot Errors (PLT001-PLT099)
//
//	PLT001 - Nothing to plot: No rows are left after filtering
//	         Action: Widen the filters or pick columns with fewer missing values
//	         Patterns: "no rows to plot"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout: Request timed out
//	         Action: Narrow the filters or try again
//	         Patterns: "context deadline exceeded", "timeout"
//
//	REQ003 - Rate limited: Too many requests
//	         Action: Please wait a moment before trying again
//	         Patterns: "rate limit"
//
//	REQ004 - Server busy: Too many plots are being drawn
//	         Action: Please try again in a moment
//	         Patterns: "too many plots"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. Multiple patterns can map to the same code
// (e.g., REQ002 matches both "context deadline exceeded" and "timeout").
package core

import (
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

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Input Errors (INP001-INP003)
	// =========================================================================
	{
		pattern: "invalid range",
		msg: UserMessage{
			Message: "Range is not in low-high form",
			Action:  "Enter two numbers separated by a hyphen, e.g. 0.2-0.6",
			Code:    "INP001",
		},
	},
	{
		pattern: "invalid scale factor",
		msg: UserMessage{
			Message: "Bubble scale factor is not a number",
			Action:  "Enter a plain number such as 1 or 100000",
			Code:    "INP002",
		},
	},
	{
		pattern: "invalid query",
		msg: UserMessage{
			Message: "The request parameters could not be read",
			Action:  "Reset the form and try again",
			Code:    "INP003",
		},
	},

	// =========================================================================
	// Configuration Errors (CFG001-CFG003)
	// =========================================================================
	{
		pattern: "not in dataset",
		msg: UserMessage{
			Message: "Column does not exist in this dataset",
			Action:  "Pick one of the listed columns",
			Code:    "CFG001",
		},
	},
	{
		pattern: "wrong type",
		msg: UserMessage{
			Message: "Column has the wrong type for this selection",
			Action:  "Pick a column of the right kind",
			Code:    "CFG002",
		},
	},
	{
		pattern: "unknown mode",
		msg: UserMessage{
			Message: "Visualization mode is not recognized",
			Action:  "Choose one of the listed modes",
			Code:    "CFG003",
		},
	},

	// =========================================================================
	// Source Errors (SRC001-SRC005)
	// =========================================================================
	{
		pattern: "source unavailable",
		msg: UserMessage{
			Message: "No data source could provide the table",
			Action:  "Check the data paths and URLs in the configuration",
			Code:    "SRC001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "SRC002",
		},
	},
	{
		pattern: "empty table",
		msg: UserMessage{
			Message: "The data source returned no columns",
			Action:  "Check that the file has a header row",
			Code:    "SRC003",
		},
	},
	{
		pattern: "too large",
		msg: UserMessage{
			Message: "Download exceeded the size limit",
			Action:  "Raise DATA_MAX_DOWNLOAD_BYTES or use a local copy",
			Code:    "SRC004",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "SRC005",
		},
	},

	// =========================================================================
	// Plot Errors (PLT001)
	// =========================================================================
	{
		pattern: "no rows to plot",
		msg: UserMessage{
			Message: "Nothing to plot",
			Action:  "Widen the filters or pick columns with fewer missing values",
			Code:    "PLT001",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ004)
	// =========================================================================
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
			Action:  "Narrow the filters or try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Narrow the filters or try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "too many plots",
		msg: UserMessage{
			Message: "Too many plots are being drawn",
			Action:  "Please try again in a moment",
			Code:    "REQ004",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := &ColumnError{Column: "size", Err: ErrColumnMissing}
//	msg := MapError(err)
//	// msg.Code == "CFG001"
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

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
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

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
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
