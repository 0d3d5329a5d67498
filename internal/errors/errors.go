// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrUnknownStrategy  = errors.New("unknown strategy kind")
	ErrMissingStrike    = errors.New("spread is missing a strike leg")
	ErrNoMarketData     = errors.New("no market data available")
	ErrNoPositions      = errors.New("no positions found")
	ErrPositionNotFound = errors.New("position not found")
	ErrChainNotFound    = errors.New("chain not found")
	ErrPositionClosed   = errors.New("position is not open")
	ErrDatabaseError    = errors.New("database error")
	ErrConfigInvalid    = errors.New("invalid configuration")
)

// PositionError represents an error scoped to a single position, so one
// malformed record never aborts a batch risk refresh.
type PositionError struct {
	PositionID string
	Ticker     string
	Err        error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position %s (%s): %v", e.PositionID, e.Ticker, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

// NewPositionError creates a new PositionError.
func NewPositionError(id, ticker string, err error) *PositionError {
	return &PositionError{PositionID: id, Ticker: ticker, Err: err}
}

// ValidationError represents a validation error.
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

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
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
