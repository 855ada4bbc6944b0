package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeParse represents network text that violates the sentence grammar
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeNetwork represents referential problems inside a parsed network
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeSource represents failures reading network text
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind returns the error category. Promoted to every typed wrapper.
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Parse Errors

// ErrMalformedInput is returned when network text cannot be parsed.
// Sentence holds the offending sentence as it appeared in the input and
// Offset its byte position.
type ErrMalformedInput struct {
	*BaseError
	Sentence string
	Offset   int
	Reason   string
}

func NewMalformedInput(sentence string, offset int, reason string) *ErrMalformedInput {
	return &ErrMalformedInput{
		BaseError: NewBaseError(ErrorTypeParse, fmt.Sprintf("malformed sentence at offset %d (%s): %q", offset, reason, sentence), nil),
		Sentence:  sentence,
		Offset:    offset,
		Reason:    reason,
	}
}

// Network Errors

// ErrDanglingReference is returned when a person lists a connection that is
// not itself a member of the network
type ErrDanglingReference struct {
	*BaseError
	User       string
	Connection string
}

func NewDanglingReference(user, connection string) *ErrDanglingReference {
	return &ErrDanglingReference{
		BaseError:  NewBaseError(ErrorTypeNetwork, fmt.Sprintf("%s is connected to unknown user %s", user, connection), nil),
		User:       user,
		Connection: connection,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// Source Errors

// ErrSourceUnavailable is returned when network text cannot be read
type ErrSourceUnavailable struct {
	*BaseError
	Location string
}

func NewSourceUnavailable(location string, err error) *ErrSourceUnavailable {
	return &ErrSourceUnavailable{
		BaseError: NewBaseError(ErrorTypeSource, fmt.Sprintf("cannot read network source: %s", location), err),
		Location:  location,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error, or anything it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var kinded interface{ Kind() ErrorType }
	if errors.As(err, &kinded) {
		return kinded.Kind() == errType
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Bad input stays bad
	if IsErrorType(err, ErrorTypeParse) || IsErrorType(err, ErrorTypeConfig) {
		return false
	}
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	// Graph and source failures are usually transient I/O
	return IsErrorType(err, ErrorTypeGraph) || IsErrorType(err, ErrorTypeSource)
}
