package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotJSON            = errors.New("not a JSON")
	ErrInvalidValue       = errors.New("invalid value")
	ErrUnknownReference   = errors.New("unknown reference")
	ErrUnknownKind        = errors.New("unknown resource kind")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MissingFieldError reports a required field absent from a create payload.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "Missing " + e.Field
}

// ReferenceError reports a foreign key that does not resolve.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	return "Unknown " + e.Field
}

func (e *ReferenceError) Unwrap() error { return ErrUnknownReference }

// ValueError reports a field whose value has the wrong type or shape.
type ValueError struct {
	Field  string
	Reason string
}

func (e *ValueError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Invalid value: %s", e.Reason)
	}
	return fmt.Sprintf("Invalid %s: %s", e.Field, e.Reason)
}

func (e *ValueError) Unwrap() error { return ErrInvalidValue }
