package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the node runtime.
type ErrorCode string

// Node construction error codes
const (
	ErrConfiguration ErrorCode = "CONFIGURATION"
	ErrCredential    ErrorCode = "CREDENTIAL"
	ErrNodeNotFound  ErrorCode = "NODE_NOT_FOUND"
)

// Upstream service error codes
const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrAuthentication     ErrorCode = "AUTHENTICATION"
	ErrRateLimit          ErrorCode = "RATE_LIMIT"
	ErrUpstreamTimeout    ErrorCode = "UPSTREAM_TIMEOUT"
	ErrUpstreamError      ErrorCode = "UPSTREAM_ERROR"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewConfigurationError 缺失或非法的节点输入。
func NewConfigurationError(format string, args ...any) *Error {
	return NewError(ErrConfiguration, fmt.Sprintf(format, args...))
}

// NewCredentialError 凭据槽无法解析或 API Key 无效。
func NewCredentialError(format string, args ...any) *Error {
	return NewError(ErrCredential, fmt.Sprintf(format, args...))
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error chain.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool { return GetErrorCode(err) == ErrConfiguration }

// IsCredentialError reports whether err is a CredentialError.
func IsCredentialError(err error) bool { return GetErrorCode(err) == ErrCredential }

// IsUpstreamError reports whether err originated from the reranking service.
func IsUpstreamError(err error) bool {
	switch GetErrorCode(err) {
	case ErrUpstreamError, ErrUpstreamTimeout, ErrAuthentication, ErrRateLimit,
		ErrServiceUnavailable, ErrInvalidRequest:
		return true
	}
	return false
}

// ErrorCodeFromStatus maps an upstream HTTP status to an ErrorCode.
func ErrorCodeFromStatus(status int) ErrorCode {
	switch {
	case status == 400 || status == 422:
		return ErrInvalidRequest
	case status == 401 || status == 403:
		return ErrAuthentication
	case status == 429:
		return ErrRateLimit
	case status == 504:
		return ErrUpstreamTimeout
	case status == 503:
		return ErrServiceUnavailable
	default:
		return ErrUpstreamError
	}
}
