// Package domainerrors defines the coded error type shared by services and the
// HTTP layer. Services return these; handlers translate codes to status codes.
package domainerrors

import (
	"errors"
	"fmt"
	"sort"
)

// Code classifies a domain error independently of any transport.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeValidation         Code = "validation_error"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnavailable        Code = "unavailable"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error is a coded error with an optional wrapped cause and per-field messages.
type Error struct {
	Code        Code
	Message     string
	FieldErrors map[string][]string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is / errors.As.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// NewFieldErrors creates a validation error carrying the offending fields.
func NewFieldErrors(msg string, fields map[string][]string) error {
	return &Error{Code: CodeValidation, Message: msg, FieldErrors: fields}
}

// HasCode reports whether any coded error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Fields returns the sorted names of the fields carried by a validation error.
func Fields(err error) []string {
	var de *Error
	if !errors.As(err, &de) || len(de.FieldErrors) == 0 {
		return nil
	}
	names := make([]string, 0, len(de.FieldErrors))
	for name := range de.FieldErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
