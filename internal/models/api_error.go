package models

import (
	"fmt"
	"net/http"
)

// ErrorCode is a string type for consistent error codes.
type ErrorCode string

const (
	// Generic
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeForbidden           ErrorCode = "forbidden"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeMethodNotAllowed    ErrorCode = "method_not_allowed"

	// Authentication & Authorization
	ErrorCodeInvalidToken            ErrorCode = "invalid_token"
	ErrorCodeTokenExpired            ErrorCode = "token_expired"
	ErrorCodeInsufficientPermissions ErrorCode = "insufficient_permissions"
	ErrorCodeInvalidCredentials      ErrorCode = "invalid_credentials"

	// Validation
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeMissingParameter ErrorCode = "missing_parameter"
	ErrorCodeInvalidFormat    ErrorCode = "invalid_format"

	// Resource Specific
	ErrorCodeResourceNotFound  ErrorCode = "resource_not_found"
	ErrorCodeDuplicateResource ErrorCode = "duplicate_resource"

	// Backend API unreachable or failing
	ErrorCodeUpstream ErrorCode = "upstream_error"
)

type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	StatusCode int       `json:"-"`
}

// Error makes APIError implement the error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
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

// UpstreamAPIError translates a status returned by the backend API into the
// error sent to the dashboard. Server side failures become 502.
func UpstreamAPIError(status int, message string, details any) APIError {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return NewAPIError(ErrorCodeValidationFailed, message, details, http.StatusBadRequest)
	case http.StatusUnauthorized:
		return NewAPIError(ErrorCodeUnauthorized, message, details, http.StatusUnauthorized)
	case http.StatusForbidden:
		return NewAPIError(ErrorCodeForbidden, message, details, http.StatusForbidden)
	case http.StatusNotFound:
		return NewAPIError(ErrorCodeResourceNotFound, message, details, http.StatusNotFound)
	case http.StatusConflict:
		return NewAPIError(ErrorCodeDuplicateResource, message, details, http.StatusConflict)
	}
	return NewAPIError(ErrorCodeUpstream, message, details, http.StatusBadGateway)
}
