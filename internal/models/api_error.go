package models

import (
	"fmt"
	"net/http"
)

// ErrorCode is a string type for consistent error codes.
type ErrorCode string

// Predefined error codes for common API errors.
const (
	// Generic
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeMethodNotAllowed    ErrorCode = "method_not_allowed"

	// Validation
	ErrorCodeInvalidFormat ErrorCode = "invalid_format"
	ErrorCodeBodyTooLarge  ErrorCode = "body_too_large"

	// Integrations
	ErrorCodeConfigurationMissing ErrorCode = "configuration_missing"
	ErrorCodeUpstreamError        ErrorCode = "upstream_error"
	ErrorCodeChannelUnavailable   ErrorCode = "channel_unavailable"
	ErrorCodeServiceUnavailable   ErrorCode = "service_unavailable"
)

type APIError struct {
	Message    string    `json:"error"`               // Human-readable error message
	Code       ErrorCode `json:"code"`                // Machine-readable error class
	Hint       string    `json:"hint,omitempty"`      // Optional: how to fix it
	RequestID  string    `json:"requestId,omitempty"` // Set by the responder
	Details    any       `json:"details,omitempty"`   // Optional: Additional details
	StatusCode int       `json:"-"`                   // HTTP status code
}

// Error makes APIError implement the error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithHint returns a copy of the error carrying a remediation hint.
func (e APIError) WithHint(hint string) APIError {
	e.Hint = hint
	return e
}

// NewAPIError is a constructor for APIError.
func NewAPIError(code ErrorCode, message string, details any, statusCode int) APIError {
	return APIError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: statusCode,
	}
}

func NewBadRequestError(message string) APIError {
	return NewAPIError(ErrorCodeBadRequest, message, nil, http.StatusBadRequest)
}

// NewConfigurationError reports a credential or URL that was never configured.
func NewConfigurationError(message string) APIError {
	return NewAPIError(ErrorCodeConfigurationMissing, message, nil, http.StatusInternalServerError)
}

// NewUpstreamError reports a failing vendor call; message keeps the vendor text.
func NewUpstreamError(message string) APIError {
	return NewAPIError(ErrorCodeUpstreamError, message, nil, http.StatusInternalServerError)
}
