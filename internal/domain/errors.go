package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNoSession      = errors.New("no active session")
)

// AuthError is a server-rejected authentication attempt: bad credentials on
// login, or an expired/invalid token pair on refresh.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication failed"
	}

	return e.Reason
}

// FieldError is a single server-sourced validation issue, surfaced verbatim
// for display next to the offending field.
type FieldError struct {
	Field string
	Issue string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}

	issues := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		issues[i] = f.Field + " " + f.Issue
	}

	return strings.Join(issues, "; ")
}

// FetchError wraps a transport-level failure: connection refused, timeout,
// or an unexpected server error with no usable body.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PaymentError carries the provider- or backend-reported decline reason
// where one exists, and a generic message otherwise.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string {
	if e.Message == "" {
		return "payment failed"
	}

	return e.Message
}

// BusinessRuleError marks an operation the client refuses to issue because
// it would violate a booking rule, e.g. paying a cancelled booking.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

var (
	ErrEmptySelection = &BusinessRuleError{Message: "at least one seat must be selected"}
	ErrNotCancellable = &BusinessRuleError{Message: "booking can no longer be cancelled"}
)
