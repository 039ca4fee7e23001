// Package errors provides standardized error handling for the submission pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Submission pipeline outcomes. Each pipeline stage failure maps to exactly
// one of these codes.
const (
	ErrCodeFormNotFound       ErrorCode = "FORM_NOT_FOUND"
	ErrCodeOriginRejected     ErrorCode = "ORIGIN_REJECTED"
	ErrCodeSchemaRejected     ErrorCode = "SCHEMA_REJECTED"
	ErrCodeCaptchaRejected    ErrorCode = "CAPTCHA_REJECTED"
	ErrCodeConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeTransportError     ErrorCode = "TRANSPORT_ERROR"
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// Captcha rejection reasons surfaced in StandardError.Details.
const (
	CaptchaReasonTokenMissing = "token missing"
	CaptchaReasonTokenInvalid = "token invalid"
	CaptchaReasonUnavailable  = "verification unavailable"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewFormNotFoundError creates a non-retryable unknown-form error.
func NewFormNotFoundError(formID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormNotFound,
		Message:   "Form not found",
		Details:   fmt.Sprintf("formId: %s", formID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOriginRejectedError creates a non-retryable origin authorization error.
// The offending host is carried in the details for diagnostics.
func NewOriginRejectedError(host string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOriginRejected,
		Message:   "Origin not allowed",
		Details:   fmt.Sprintf("origin: %s", host),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaRejectedError creates a non-retryable validation error listing
// every missing or empty required field.
func NewSchemaRejectedError(missingFields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaRejected,
		Message:   "Required fields missing",
		Details:   fmt.Sprintf("missing fields: %s", strings.Join(missingFields, ", ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"missingFields": missingFields},
		Timestamp: time.Now().UTC(),
	}
}

// NewCaptchaTokenMissingError creates a non-retryable captcha error for a
// request that omitted its token while verification is enabled.
func NewCaptchaTokenMissingError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCaptchaRejected,
		Message:   "CAPTCHA verification failed",
		Details:   CaptchaReasonTokenMissing,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCaptchaTokenInvalidError creates a non-retryable captcha error for a
// token the provider explicitly rejected.
func NewCaptchaTokenInvalidError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCaptchaRejected,
		Message:   "CAPTCHA verification failed",
		Details:   CaptchaReasonTokenInvalid,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCaptchaUnavailableError creates a retryable captcha error for a provider
// round-trip that failed or timed out. Infrastructure failure is never
// treated as verification success.
func NewCaptchaUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCaptchaRejected,
		Message:   "CAPTCHA verification unavailable",
		Details:   CaptchaReasonUnavailable,
		Retryable: true,
		Metadata:  map[string]interface{}{"cause": err.Error()},
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationError creates a non-retryable registry/configuration
// integrity error. These should be caught at startup validation; a
// request-time occurrence is an operator-facing bug.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationError,
		Message:   "Service misconfiguration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable mail delivery error. Full detail is
// kept for operators; clients only see a generic delivery failure.
func NewTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportError,
		Message:   "Message delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Normalize ensures any error is represented as a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// MissingFields extracts the missingFields metadata from a schema rejection,
// or nil for any other error.
func MissingFields(err error) []string {
	var stdErr *StandardError
	if !errors.As(err, &stdErr) || stdErr.Code != ErrCodeSchemaRejected {
		return nil
	}
	if fields, ok := stdErr.Metadata["missingFields"].([]string); ok {
		return fields
	}
	return nil
}
