package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeDuplicateEmail
	ErrorTypeInvalidCredentials
	ErrorTypeUnauthorized
	ErrorTypeNotFound
	ErrorTypeDatabase
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeDuplicateEmail:
		return "duplicate_email"
	case ErrorTypeInvalidCredentials:
		return "invalid_credentials"
	case ErrorTypeUnauthorized:
		return "unauthorized"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// HTTPStatus returns the status code the API answers with for this type
func (et ErrorType) HTTPStatus() int {
	switch et {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeDuplicateEmail:
		return http.StatusConflict
	case ErrorTypeInvalidCredentials, ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same type and code
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Type == appErr.Type && e.Code == appErr.Code
	}
	return false
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetContext retrieves context information from the error
func (e *AppError) GetContext(key string) (interface{}, bool) {
	if e.Context == nil {
		return nil, false
	}
	value, exists := e.Context[key]
	return value, exists
}
