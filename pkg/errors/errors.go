// Package errors provides custom error types for the campaigner client.
// They classify backend failures (transport, status, decoding), missing
// credentials and blocked login windows so callers can branch with
// errors.Is and errors.As instead of matching strings.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As re-export the standard library helpers so callers need one import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors
var (
	// ErrTransport indicates the request never produced an HTTP response
	ErrTransport = errors.New("transport failure")

	// ErrStatus indicates the backend answered with a non-2xx status
	ErrStatus = errors.New("unexpected status")

	// ErrMalformed indicates a response body that could not be decoded
	ErrMalformed = errors.New("malformed response")

	// ErrAuthRequired indicates a protected call was attempted without a token
	ErrAuthRequired = errors.New("auth token required")

	// ErrPopupBlocked indicates the login window could not be opened
	ErrPopupBlocked = errors.New("login popup blocked")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInFlight indicates an action was refused because one is already running
	ErrInFlight = errors.New("operation already in flight")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// TransportError wraps a network failure for a backend endpoint.
type TransportError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// APIError represents a non-2xx answer from the backend.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	return target == ErrStatus
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message}
}

// ParseError represents an error when decoding data formats
type ParseError struct {
	Format  string // "json", "yaml", "multipart"
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

// NewParseError creates a new ParseError
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{Format: format, Source: source, Message: message, Err: err}
}

// AuthRequiredError is returned before a protected request is issued when
// no bearer token is stored.
type AuthRequiredError struct {
	Operation string
}

// Error implements the error interface
func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("%s requires a stored auth token", e.Operation)
}

// Is implements errors.Is support
func (e *AuthRequiredError) Is(target error) bool {
	return target == ErrAuthRequired
}

// PopupBlockedError reports that the login window could not be opened.
type PopupBlockedError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *PopupBlockedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not open login window: %v", e.Err)
	}
	return "could not open login window"
}

// Unwrap implements errors.Unwrap
func (e *PopupBlockedError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PopupBlockedError) Is(target error) bool {
	return target == ErrPopupBlocked
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// IOError represents an error during local I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a network failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsStatus reports whether err is a non-2xx backend answer.
func IsStatus(err error) bool {
	return errors.Is(err, ErrStatus)
}

// IsMalformed reports whether err is a decoding failure.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// IsAuthRequired reports whether err means no token was stored.
func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

// IsPopupBlocked reports whether err means the login window did not open.
func IsPopupBlocked(err error) bool {
	return errors.Is(err, ErrPopupBlocked)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsBackendFailure reports whether err belongs to the categories that the
// chat surfaces as one generic message: transport, status or decoding.
func IsBackendFailure(err error) bool {
	return IsTransport(err) || IsStatus(err) || IsMalformed(err)
}

// WrapTransport wraps an error as a TransportError
func WrapTransport(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Endpoint: endpoint, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}
