package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures that happened before a response arrived.
	ErrTransport = errors.New("apiclient: transport failure")
	// ErrInvalidResponse marks a 2xx response whose body was not valid JSON.
	ErrInvalidResponse = errors.New("apiclient: response was not valid JSON")
)

// StatusError is returned for any non-2xx response. Message carries the
// trimmed response body, or "Error {status}" when the body was blank.
type StatusError struct {
	Method string
	Path   string
	Status int
	// Message is what the API sent back; it is safe to show to the admin.
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// NotFound reports whether the API answered 404.
func (e *StatusError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

func newStatusError(method, path string, status int, body []byte) *StatusError {
	msg := string(body)
	if msg == "" {
		msg = fmt.Sprintf("Error %d", status)
	}
	return &StatusError{Method: method, Path: path, Status: status, Message: msg}
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.NotFound()
}
