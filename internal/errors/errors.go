// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrCalculation       = errors.New("payoff calculation failed")
	ErrStrategyNotFound  = errors.New("strategy not found")
	ErrInvalidStrategy   = errors.New("invalid strategy definition")
	ErrPresetNotFound    = errors.New("preset not found")
	ErrUnknownGreek      = errors.New("unknown greek")
	ErrScenarioNotFound  = errors.New("scenario not found")
	ErrScenarioExists    = errors.New("scenario name already in use")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
	ErrInputValidation   = errors.New("input validation failed")
)

// ValidationError reports an input that violates its constraint.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Unwrap returns the sentinel the error belongs to, ErrInvalidParameters
// unless set otherwise.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidParameters
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewInputError creates a ValidationError for user-supplied text.
func NewInputError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     ErrInputValidation,
	}
}

// CalculationError represents a failed payoff sample.
type CalculationError struct {
	StrategyID string
	StockPrice float64
	Err        error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation error [%s] at %.2f: %v", e.StrategyID, e.StockPrice, e.Err)
}

// Is reports ErrCalculation as a match so callers need not unwrap the cause.
func (e *CalculationError) Is(target error) bool {
	return target == ErrCalculation
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// NewCalculationError creates a new CalculationError.
func NewCalculationError(strategyID string, stockPrice float64, err error) *CalculationError {
	return &CalculationError{
		StrategyID: strategyID,
		StockPrice: stockPrice,
		Err:        err,
	}
}

// StrategyError represents a strategy definition that cannot be loaded.
type StrategyError struct {
	StrategyID string
	Reason     string
	Err        error
}

func (e *StrategyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("strategy error [%s]: %s: %v", e.StrategyID, e.Reason, e.Err)
	}
	return fmt.Sprintf("strategy error [%s]: %s", e.StrategyID, e.Reason)
}

func (e *StrategyError) Is(target error) bool {
	return target == ErrInvalidStrategy
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// NewStrategyError creates a new StrategyError.
func NewStrategyError(strategyID, reason string, err error) *StrategyError {
	return &StrategyError{
		StrategyID: strategyID,
		Reason:     reason,
		Err:        err,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Key      string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Key, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, key, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Key:      key,
		Message:  message,
		Err:      err,
	}
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
