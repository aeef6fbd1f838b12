// Package app ties the loader and the view engine into one session that the
// presentation layers drive.
//
// # Error Codes Reference
//
// Fatal load errors are shown to users as a short message with a code they
// can quote when reporting a problem. The technical error is kept as Detail.
//
//	SRC001 - No sources: No episode sources are configured
//	         Action: Set EPISODE_SOURCES or SOURCES_FILE and reload
//	         Patterns: "no episode sources configured"
//
//	SRC002 - Missing episodes: A source is not an episode list
//	         Action: Check that every source has a top-level "episodes" array
//	         Patterns: `missing "episodes" array`
//
//	SRC003 - Invalid data: A source returned data that is not valid JSON
//	         Action: Check the source document for syntax errors
//	         Patterns: "invalid json"
//
//	SRC004 - Source not found: A source does not exist
//	         Action: Check the source location and reload
//	         Patterns: "status 404"
//
//	SRC005 - Source unavailable: A source answered with an error status
//	         Action: Try reloading in a few moments
//	         Patterns: "status "
//
//	SRC006 - Network error: A source could not be reached
//	         Action: Check your connection and reload
//	         Patterns: "connection refused", "no such host", "timeout",
//	         "deadline exceeded", "connection reset"
//
//	SRC007 - Not loaded: Episodes have not been loaded yet
//	         Action: Wait for the load to finish, or reload
//	         Patterns: "episodes are not loaded"
//
//	REQ001 - Bad request: A request parameter was not understood
//	         Action: Check the parameters and try again
//	         Patterns: "invalid request"
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Reload, and check the logs if it persists
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.
package app

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
	Detail  string // The technical error
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "A request parameter was not understood",
			Action:  "Check the parameters and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "no episode sources configured",
		msg: UserMessage{
			Message: "No episode sources are configured",
			Action:  "Set EPISODE_SOURCES or SOURCES_FILE and reload",
			Code:    "SRC001",
		},
	},
	{
		pattern: `missing "episodes" array`,
		msg: UserMessage{
			Message: "A source is not an episode list",
			Action:  `Check that every source has a top-level "episodes" array`,
			Code:    "SRC002",
		},
	},
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "A source returned data that is not valid JSON",
			Action:  "Check the source document for syntax errors",
			Code:    "SRC003",
		},
	},
	{
		pattern: "status 404",
		msg: UserMessage{
			Message: "A source does not exist",
			Action:  "Check the source location and reload",
			Code:    "SRC004",
		},
	},
	{
		pattern: "status ",
		msg: UserMessage{
			Message: "A source answered with an error status",
			Action:  "Try reloading in a few moments",
			Code:    "SRC005",
		},
	},
	{
		pattern: "episodes are not loaded",
		msg: UserMessage{
			Message: "Episodes have not been loaded yet",
			Action:  "Wait for the load to finish, or reload",
			Code:    "SRC007",
		},
	},
	{
		pattern: "connection refused",
		msg:     networkMessage,
	},
	{
		pattern: "connection reset",
		msg:     networkMessage,
	},
	{
		pattern: "no such host",
		msg:     networkMessage,
	},
	{
		pattern: "deadline exceeded",
		msg:     networkMessage,
	},
	{
		pattern: "timeout",
		msg:     networkMessage,
	},
}

var networkMessage = UserMessage{
	Message: "A source could not be reached",
	Action:  "Check your connection and reload",
	Code:    "SRC006",
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Reload, and check the logs if it persists",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. A nil
// error yields the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	msg := defaultMessage
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, strings.ToLower(ep.pattern)) {
			msg = ep.msg
			break
		}
	}
	msg.Detail = err.Error()
	return msg
}

// String formats the message for a single line of output:
// "Message (Code: XXX). Action".
func (m UserMessage) String() string {
	if m.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", m.Message, m.Code, m.Action)
}
