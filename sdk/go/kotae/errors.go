// Package kotae provides a Go client for the Kotae question-answering API.
package kotae

import "fmt"

// Error represents an error from the Kotae API with the HTTP status code
// and the server's error message.
type Error struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("kotae: %d: %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("kotae: %d: %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404.
func IsNotFound(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.StatusCode == 404
	}
	return false
}

// IsBadRequest returns true if the error is a 400.
func IsBadRequest(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.StatusCode == 400
	}
	return false
}

// IsRateLimited returns true if the error is a 429.
func IsRateLimited(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.StatusCode == 429
	}
	return false
}
