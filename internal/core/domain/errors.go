package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrTemporary    = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// AdapterFailureKind distinguishes why an external call failed. The dispatch
// layer only needs "failed, trigger fallback", but the kind is kept for logs
// and metrics.
type AdapterFailureKind string

const (
	FailureTimeout     AdapterFailureKind = "timeout"
	FailureHTTPError   AdapterFailureKind = "http_error"
	FailureParseError  AdapterFailureKind = "parse_error"
	FailureUnavailable AdapterFailureKind = "unavailable"
)

// AdapterError wraps any failure of an external emotion/LLM service.
type AdapterError struct {
	Kind      AdapterFailureKind
	Operation string
	Status    int
	Err       error
}

func (e *AdapterError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: adapter %s (status %d): %v", e.Operation, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: adapter %s: %v", e.Operation, e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// NewAdapterError builds a typed adapter failure for the dispatch layer.
func NewAdapterError(kind AdapterFailureKind, operation string, status int, err error) *AdapterError {
	return &AdapterError{Kind: kind, Operation: operation, Status: status, Err: err}
}

// AdapterFailureOf extracts the failure kind from err, defaulting to
// unavailable for untyped errors.
func AdapterFailureOf(err error) AdapterFailureKind {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return FailureUnavailable
}
