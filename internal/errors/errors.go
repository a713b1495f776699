// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrRowTooShort      = errors.New("row too short to be a trade")
	ErrNoParsableRows   = errors.New("no parsable rows in input")
	ErrNothingPersisted = errors.New("no rows persisted")
	ErrTradeNotFound    = errors.New("trade not found")
	ErrRuleNotFound     = errors.New("trading rule not found")
	ErrNotAcknowledged  = errors.New("rule violations not acknowledged")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrSheetNotFound    = errors.New("worksheet not found")
)

// RowError reports that a raw input row could not be turned into a trade.
// The offending line is retained so the caller can display it.
type RowError struct {
	Line int // 1-based position in the input
	Raw  string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError creates a new RowError.
func NewRowError(line int, raw string, err error) *RowError {
	return &RowError{Line: line, Raw: raw, Err: err}
}

// ParseError reports that a mandatory field could not be normalized.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s from %q", e.Field, e.Value)
}

// NewParseError creates a new ParseError.
func NewParseError(field, value string) *ParseError {
	return &ParseError{Field: field, Value: value}
}

// ValidationError represents a validation error on user-supplied input.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// StoreError represents a persistence failure for one record.
type StoreError struct {
	Entity string
	ID     string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] %s: %v", e.Entity, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, id string, err error) *StoreError {
	return &StoreError{Entity: entity, ID: id, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
