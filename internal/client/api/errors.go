package api

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout      = errors.New("request timed out")
	ErrNetwork      = errors.New("network error")
	ErrAuthRequired = errors.New("authentication required")
)

// StatusError is returned for non-2xx responses. Message is the server's
// "message" field or a generic "HTTP error <status>" text.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

func newStatusError(status int, message, fallback string) *StatusError {
	if message == "" {
		message = fmt.Sprintf("%s %d", fallback, status)
	}
	return &StatusError{StatusCode: status, Message: message}
}
