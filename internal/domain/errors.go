package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches sentinel domain errors by code and message so wrapped copies still compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodePipeline      = "PIPELINE_ERROR"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuestion     = NewDomainError(ErrCodeValidation, "question cannot be empty")
	ErrEmptyDocument     = NewDomainError(ErrCodeValidation, "document text is empty or unreadable")
	ErrNoChunks          = NewDomainError(ErrCodeValidation, "no text chunks could be created from document")
	ErrMissingDocumentID = NewDomainError(ErrCodeValidation, "document id is required")
	ErrLengthMismatch    = NewDomainError(ErrCodeValidation, "chunks, vectors and metadata must have equal length")
	ErrDimensionMismatch = NewDomainError(ErrCodeValidation, "vector dimension does not match collection")
	ErrUnsupportedFormat = NewDomainError(ErrCodeValidation, "unsupported document format")
)

// Configuration errors
var (
	ErrNoCredential = NewDomainError(ErrCodeConfiguration, "LLM API key not set")
)

// Already exists errors
var (
	ErrDocumentAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "document already ingested")
)

// NewValidationError creates a validation error with a custom message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// NewConfigurationError creates a configuration error with a custom message.
func NewConfigurationError(message string) *DomainError {
	return NewDomainError(ErrCodeConfiguration, message)
}

// NewPipelineError wraps an unexpected orchestration failure.
func NewPipelineError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodePipeline, message, err)
}

// HasCode reports whether err (or anything it wraps) is a DomainError with the given code.
func HasCode(err error, code string) bool {
	var de *DomainError
	for err != nil {
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

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return HasCode(err, ErrCodeValidation)
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return HasCode(err, ErrCodeConfiguration)
}

// IsPipeline reports whether err is a pipeline error.
func IsPipeline(err error) bool {
	return HasCode(err, ErrCodePipeline)
}

// ServiceErrorKind classifies failures of an external dependency.
type ServiceErrorKind string

const (
	ServiceErrorUnauthorized      ServiceErrorKind = "unauthorized"
	ServiceErrorForbidden         ServiceErrorKind = "forbidden"
	ServiceErrorRateLimited       ServiceErrorKind = "rate_limited"
	ServiceErrorNotFound          ServiceErrorKind = "not_found"
	ServiceErrorServerError       ServiceErrorKind = "server_error"
	ServiceErrorUnexpectedStatus  ServiceErrorKind = "unexpected_status"
	ServiceErrorMalformedResponse ServiceErrorKind = "malformed_response"
	ServiceErrorTimeout           ServiceErrorKind = "timeout"
	ServiceErrorConnection        ServiceErrorKind = "connection"
)

// ServiceError reports a failed call to the embedding or completion service.
type ServiceError struct {
	Service    string
	Kind       ServiceErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s service error (%s)", e.Service, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s service error (%s, status %d)", e.Service, e.Kind, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same request may succeed later.
func (e *ServiceError) Retryable() bool {
	switch e.Kind {
	case ServiceErrorRateLimited, ServiceErrorServerError, ServiceErrorTimeout, ServiceErrorConnection:
		return true
	}
	return false
}

// AsServiceError extracts a ServiceError from err's chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
