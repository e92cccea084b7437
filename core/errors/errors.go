package errors

import "fmt"

type ErrorCode string

const (
	// Startup / infrastructure
	ErrConfiguration  ErrorCode = "CONFIGURATION_ERROR"
	ErrStorage        ErrorCode = "STORAGE_ERROR"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"

	// Credential vault
	ErrCorruption ErrorCode = "CORRUPTION_ERROR"

	// Caller input
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"

	// Calendar provider
	ErrUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrForbidden       ErrorCode = "FORBIDDEN"
	ErrUpstream        ErrorCode = "UPSTREAM_ERROR"

	// OAuth flow outcomes
	ErrAuthDenied          ErrorCode = "AUTH_DENIED"
	ErrAuthMissingCode     ErrorCode = "AUTH_MISSING_CODE"
	ErrTokenExchangeFailed ErrorCode = "TOKEN_EXCHANGE_FAILED"
)

// AppError is the error type every service returns. Code drives the HTTP
// status mapping in core/controller; Err keeps the underlying cause for logs
// and is never shown verbatim to end users.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether err is an *AppError carrying the given code.
func Is(err error, code ErrorCode) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Code == code
}
