package query

import (
	"errors"
	"fmt"
)

// Kind classifies an orchestration failure. The HTTP boundary translates
// kinds to status codes in exactly one place; nothing else inspects error
// text to decide behavior.
type Kind string

const (
	// KindValidation: the question was missing or whitespace-only. Not
	// retried, nothing persisted.
	KindValidation Kind = "validation"

	// KindSearchUnavailable: the search gateway call failed (network, auth,
	// throttling). The request is abandoned; nothing persisted.
	KindSearchUnavailable Kind = "search_unavailable"

	// KindPersistence: the history write failed after an answer was
	// computed. The caller never sees the answer — every answer a caller
	// sees is backed by a history record.
	KindPersistence Kind = "persistence_failure"
)

// Error is the typed failure returned by the orchestrator.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("query: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or "" when err is not an
// orchestrator error.
func KindOf(err error) Kind {
	var qerr *Error
	if errors.As(err, &qerr) {
		return qerr.Kind
	}
	return ""
}
