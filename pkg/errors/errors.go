package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrExternal indicates a failure in an external collaborator
	ErrExternal = errors.New("external service error")

	// ErrRateLimitExceeded indicates API rate limit exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Orchestration errors
//
// These form the failure taxonomy of the analysis pipeline. Routing, scope and
// budget errors are fatal to the whole run; capability errors are recovered
// inside the specialist step that hit them.

var (
	// ErrRoutingFailure indicates the supervisor could not produce a routing decision
	ErrRoutingFailure = errors.New("routing failure")

	// ErrCapabilityUnavailable indicates a data capability failed or returned nothing
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrScopeViolation indicates an agent invoked a capability outside its permitted set
	ErrScopeViolation = errors.New("capability scope violation")

	// ErrStepBudgetExceeded indicates the pipeline hit its transition ceiling
	ErrStepBudgetExceeded = errors.New("step budget exceeded")

	// ErrReasoningEngine indicates a reasoning-engine call failed outright
	ErrReasoningEngine = errors.New("reasoning engine failure")
)

// Market-data provider errors

var (
	// ErrTickerNotFound indicates the data provider knows no such ticker
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrInvalidRange indicates an unsupported historical range was requested
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidInterval indicates an unsupported candle interval was requested
	ErrInvalidInterval = errors.New("invalid interval")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// MultiError wraps multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
}

// Add adds an error to the list
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ToError returns the MultiError as an error, or nil if no errors
func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// IsFatal reports whether err belongs to the fatal side of the pipeline
// taxonomy. Capability failures are recoverable; everything else in the
// taxonomy aborts the run.
func IsFatal(err error) bool {
	return Is(err, ErrRoutingFailure) ||
		Is(err, ErrScopeViolation) ||
		Is(err, ErrStepBudgetExceeded) ||
		Is(err, ErrReasoningEngine)
}
