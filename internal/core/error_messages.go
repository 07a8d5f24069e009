// Package core provides the cleaning logic for tabular job datasets.
//
// # Error Codes Reference
//
// This file defines the error types returned by the loader and writer, and
// user-friendly messages with codes the CLI prints on failure.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Source not found: The input file does not exist or cannot be read
//	          Action: Check the --input path
//	          Patterns: "source not found"
//
//	FILE002 - Invalid CSV: The input file is not a valid CSV
//	          Action: Ensure the file is comma-separated with consistent columns
//	          Patterns: "invalid csv"
//
//	FILE003 - Empty file: The input file has no header row
//	          Action: Provide a CSV file with a header and data rows
//	          Patterns: "empty source"
//
//	FILE004 - Destination not writable: The cleaned file could not be written
//	          Action: Check that the output directory exists and is writable
//	          Patterns: "cannot write destination"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Run cancelled: The run was interrupted before the output was written
//	         Action: Run the command again
//	         Patterns: "context canceled"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Re-run with --log-level debug and check the log output
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySource is returned when the input has no header row.
var ErrEmptySource = errors.New("empty source: no header row")

// SourceNotFoundError is returned when the input path does not resolve to a
// readable file. Nothing has been processed when it is returned.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source not found: %s: %v", e.Path, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error {
	return e.Err
}

// DestinationWriteError is returned when the cleaned table cannot be written.
// No partial file is left at Path.
type DestinationWriteError struct {
	Path string
	Err  error
}

func (e *DestinationWriteError) Error() string {
	return fmt.Sprintf("cannot write destination %s: %v", e.Path, e.Err)
}

func (e *DestinationWriteError) Unwrap() error {
	return e.Err
}

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

var errorPatterns = []errorPattern{
	{
		pattern: "source not found",
		msg: UserMessage{
			Message: "The input file does not exist or cannot be read",
			Action:  "Check the --input path",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The input file is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty source",
		msg: UserMessage{
			Message: "The input file has no header row",
			Action:  "Provide a CSV file with a header and data rows",
			Code:    "FILE003",
		},
	},
	{
		pattern: "cannot write destination",
		msg: UserMessage{
			Message: "The cleaned file could not be written",
			Action:  "Check that the output directory exists and is writable",
			Code:    "FILE004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The run was interrupted before the output was written",
			Action:  "Run the command again",
			Code:    "RUN001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Re-run with --log-level debug and check the log output",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
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

// IsUserFacing returns true if the error maps to a known user-friendly message.
// Unknown errors get the generic ERR000 message and should be logged in full.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
