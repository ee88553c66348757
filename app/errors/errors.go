package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewRequiredFieldError reports a missing or blank input field
func NewRequiredFieldError(field string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("%s is required", field),
		Code:    "VALIDATION_FAILED",
		Context: map[string]interface{}{
			"field": field,
		},
	}
}

// NewDuplicateEmailError creates an error for an already registered email
func NewDuplicateEmailError(email string) *AppError {
	return &AppError{
		Type:    ErrorTypeDuplicateEmail,
		Message: "user already exists",
		Code:    "DUPLICATE_EMAIL",
		Context: map[string]interface{}{
			"email": email,
		},
	}
}

// NewInvalidCredentialsError is returned for unknown emails and password
// mismatches alike.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidCredentials,
		Message: "invalid credentials",
		Code:    "INVALID_CREDENTIALS",
		Context: make(map[string]interface{}),
	}
}

// NewUnauthorizedError creates an error for a missing, malformed or expired token
func NewUnauthorizedError(reason string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: reason,
		Code:    "UNAUTHORIZED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns the message safe to show to an API caller
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeDuplicateEmail, ErrorTypeInvalidCredentials,
			ErrorTypeUnauthorized, ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return "Server error"
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// HTTPStatus returns the response status for err
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeDuplicateEmail, ErrorTypeInvalidCredentials,
			ErrorTypeUnauthorized, ErrorTypeNotFound:
			return false // caller errors
		default:
			return true
		}
	}
	return true
}
