// Package errors defines the error taxonomy shared across the analysis
// pipeline: sentinel errors for programmatic matching and a ValidationError
// that carries per-field failure details back to the caller.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidInput is the root of the validation class: every error caused by
// caller input wraps it, so errors.Is(err, ErrInvalidInput) matches the whole
// class.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrEmptyCorpus       = fmt.Errorf("%w: corpus is empty", ErrInvalidInput)
	ErrDuplicateRecordID = fmt.Errorf("%w: duplicate record id", ErrInvalidInput)
	ErrDuplicateQuestion = fmt.Errorf("%w: duplicate question id", ErrInvalidInput)
	ErrDuplicateCode     = fmt.Errorf("%w: code already exists", ErrInvalidInput)
	ErrUnknownCode       = fmt.Errorf("%w: unknown code", ErrInvalidInput)
	ErrUnknownAnalyzer   = fmt.Errorf("%w: unknown analyzer kind", ErrInvalidInput)
	ErrBelowMinimum      = fmt.Errorf("%w: record count below analyzer minimum", ErrInvalidInput)
	ErrInvalidOption     = fmt.Errorf("%w: invalid analysis option", ErrInvalidInput)

	ErrInternal = errors.New("internal error")
)

// ValidationError holds per-field validation failure messages. It unwraps to
// Cause when one is set, otherwise to ErrInvalidInput, so callers can match
// either the specific sentinel or the whole class with errors.Is.
type ValidationError struct {
	Fields map[string]string
	Cause  error
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrInvalidInput
}

// NewValidation builds a single-field ValidationError.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Fields: map[string]string{field: fmt.Sprintf(format, args...)},
	}
}

// NewValidationWrap builds a single-field ValidationError that unwraps to the
// given sentinel.
func NewValidationWrap(cause error, field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Fields: map[string]string{field: fmt.Sprintf(format, args...)},
		Cause:  cause,
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
