// Package firewall parses untrusted SQL text against the PostgreSQL
// dialect and either rewrites it into a safe, row-capped read-only form or
// rejects it with a typed error. It is purely syntactic: it never consults
// grants or table privileges, and it never whitelists a construct it does
// not recognize.
package firewall

import "fmt"

// Error codes returned by Validate.
const (
	CodeEmptySQL         = "EMPTY_SQL"
	CodeParseError       = "PARSE_ERROR"
	CodeBlockedStatement = "BLOCKED_STATEMENT"
	CodeNonSelect        = "NON_SELECT"
	CodeBlockedSubquery  = "BLOCKED_SUBQUERY"
	CodeBlockedFunction  = "BLOCKED_FUNCTION"
)

// maxErrorMessageLen bounds how much of a parser error message is kept, so
// a pathological input can't blow up a log line or an SSE error event.
const maxErrorMessageLen = 500

// RejectionError is returned by Validate when input SQL fails the firewall.
// Code is one of the Code* constants above.
type RejectionError struct {
	Code    string
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func reject(code, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > maxErrorMessageLen {
		msg = msg[:maxErrorMessageLen]
	}
	return &RejectionError{Code: code, Message: msg}
}
