// Package rerrors provides custom error types for rassist.
// These error types enable better error handling and more informative error messages
// throughout the application.
package rerrors

import (
	"fmt"
)

// AssistError is the base interface for all rassist errors
type AssistError interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

// baseError provides common functionality for all rassist errors
type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ProviderError represents a transport or remote failure while talking to the
// completion provider. It is surfaced verbatim to the caller; no local
// recovery or retry is attempted.
type ProviderError struct {
	baseError
	Endpoint string
}

// NewProviderError creates a new provider error
func NewProviderError(endpoint string, message string, cause error) *ProviderError {
	return &ProviderError{
		baseError: baseError{
			code:    "PROVIDER_ERROR",
			message: message,
			cause:   cause,
		},
		Endpoint: endpoint,
	}
}

// ConfigurationError represents errors in configuration files
type ConfigurationError struct {
	baseError
	Path string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(path string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			code:    "CONFIG_ERROR",
			message: message,
			cause:   cause,
		},
		Path: path,
	}
}

// ValidationError represents errors during validation
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new validation error
func NewValidationError(field string, message string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			code:    "VALIDATION_ERROR",
			message: message,
			cause:   cause,
		},
		Field: field,
	}
}

// ChunkError represents errors while resolving chunk option tables
type ChunkError struct {
	baseError
	Engine string
}

// NewChunkError creates a new chunk error
func NewChunkError(engine string, message string, cause error) *ChunkError {
	return &ChunkError{
		baseError: baseError{
			code:    "CHUNK_ERROR",
			message: message,
			cause:   cause,
		},
		Engine: engine,
	}
}
