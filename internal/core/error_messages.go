// Error codes reference
//
// Every failure surfaced to API clients carries a code support staff can
// look up here. Classified data-access errors are mapped by kind first;
// anything else falls through to case-insensitive pattern matching on the
// error text.
//
// # Data-access errors
//
//	NF001  - Record not found (404)
//	NF002  - Referenced record not found (404)
//	CF001  - Record conflicts with existing data (409)
//	VAL001 - Value has the wrong type for its column (422)
//	VAL002 - Unknown column (422)
//	VAL003 - Read-only column (422)
//	VAL004 - Invalid filter (422)
//	ERR001 - Data operation failed (500)
//
// # Store errors (by pattern)
//
//	DB004 - Connection refused
//	DB005 - Connection reset
//	DB006 - Timeout
//	DB007 - Deadlock
//
// # Default
//
//	ERR000 - Unknown error; check the application logs
package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
	Status  int    // HTTP status the error maps to
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is consulted only for errors without a kind.
// First match wins.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
			Status:  http.StatusServiceUnavailable,
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
			Status:  http.StatusServiceUnavailable,
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Narrow the query or try again later",
			Code:    "DB006",
			Status:  http.StatusGatewayTimeout,
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Narrow the query or try again later",
			Code:    "DB006",
			Status:  http.StatusGatewayTimeout,
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
			Status:  http.StatusServiceUnavailable,
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
	Status:  http.StatusInternalServerError,
}

// MapError converts an error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var opErr *OpError
	column := ""
	if errors.As(err, &opErr) {
		column = opErr.Column
	}

	switch KindOf(err) {
	case ErrNotFound:
		if strings.Contains(err.Error(), "referenced") {
			return UserMessage{
				Message: "Referenced record does not exist",
				Action:  "Create the referenced record first or correct the reference",
				Code:    "NF002",
				Status:  http.StatusNotFound,
			}
		}
		return UserMessage{
			Message: "Record not found",
			Action:  "Verify the identifier or filters",
			Code:    "NF001",
			Status:  http.StatusNotFound,
		}

	case ErrConflict:
		return UserMessage{
			Message: "This record conflicts with existing data",
			Action:  "Check for duplicate values and references",
			Code:    "CF001",
			Status:  http.StatusConflict,
		}

	case ErrUnprocessable:
		return unprocessableMessage(err, column)

	case ErrInternal:
		// Connection-level causes get their specific code.
		if msg, ok := matchPattern(err); ok {
			return msg
		}
		return UserMessage{
			Message: "The data operation failed",
			Action:  "Please try again or contact support",
			Code:    "ERR001",
			Status:  http.StatusInternalServerError,
		}
	}

	if msg, ok := matchPattern(err); ok {
		return msg
	}
	return defaultMessage
}

func unprocessableMessage(err error, column string) UserMessage {
	text := err.Error()
	msg := UserMessage{Status: http.StatusUnprocessableEntity}

	switch {
	case strings.Contains(text, "unknown column"):
		msg.Message = "Unknown column"
		msg.Action = "Check the column names for this table"
		msg.Code = "VAL002"
	case strings.Contains(text, "read-only"):
		msg.Message = "This column cannot be changed"
		msg.Action = "Remove the column from the request"
		msg.Code = "VAL003"
	case strings.Contains(text, "filter"):
		msg.Message = "Invalid filter"
		msg.Action = "Provide at least one filter value with the column's type"
		msg.Code = "VAL004"
	default:
		msg.Message = "Invalid value type"
		msg.Action = "Send a value matching the column's type"
		msg.Code = "VAL001"
	}

	if column != "" {
		msg.Message = fmt.Sprintf("%s: %s", msg.Message, column)
	}
	return msg
}

func matchPattern(err error) (UserMessage, bool) {
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
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

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
