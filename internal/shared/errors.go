package shared

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a domain error.
type ErrorType string

const (
	ErrorTypeUnauthenticated      ErrorType = "unauthenticated"
	ErrorTypeAuthenticationFailed ErrorType = "authentication_failed"
	ErrorTypeForbidden            ErrorType = "forbidden"
	ErrorTypeNotFound             ErrorType = "not_found"
	ErrorTypeConflict             ErrorType = "conflict"
	ErrorTypeValidation           ErrorType = "validation"
	ErrorTypeInternal             ErrorType = "internal"
	ErrorTypeExternal             ErrorType = "external"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same type.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail returns a copy of the error with an added detail.
// Package-level sentinels are never modified.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Type: e.Type, Message: e.Message, Err: e.Err, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

var (
	// Session errors
	ErrUnauthenticated      = NewDomainError(ErrorTypeUnauthenticated, "authentication required", nil)
	ErrInvalidRefreshToken  = NewDomainError(ErrorTypeUnauthenticated, "invalid refresh token", nil)
	ErrAuthenticationFailed = NewDomainError(ErrorTypeAuthenticationFailed, "authentication failed", nil)

	// Permission errors
	ErrForbidden = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)

	// Not found errors
	ErrUserNotFound        = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrChannelNotFound     = NewDomainError(ErrorTypeNotFound, "channel not found", nil)
	ErrLinkNotFound        = NewDomainError(ErrorTypeNotFound, "link not found", nil)
	ErrChannelLinkNotFound = NewDomainError(ErrorTypeNotFound, "channel link not found", nil)
	ErrMembershipNotFound  = NewDomainError(ErrorTypeNotFound, "membership not found", nil)

	// Conflict errors
	ErrDuplicateEmail       = NewDomainError(ErrorTypeConflict, "email already exists", nil)
	ErrDuplicateChannelName = NewDomainError(ErrorTypeConflict, "channel name already exists", nil)
	ErrAlreadyMember        = NewDomainError(ErrorTypeConflict, "user already holds this role", nil)
	ErrLastOwner            = NewDomainError(ErrorTypeConflict, "channel must keep at least one owner", nil)
	ErrLastSuperUser        = NewDomainError(ErrorTypeConflict, "at least one super user must remain", nil)
	ErrLastUser             = NewDomainError(ErrorTypeConflict, "at least one user must remain", nil)

	// Validation errors
	ErrInvalidInput = NewDomainError(ErrorTypeValidation, "invalid input", nil)

	// Internal errors
	ErrInternal          = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError     = NewDomainError(ErrorTypeInternal, "database error", nil)
	ErrTransactionFailed = NewDomainError(ErrorTypeInternal, "transaction failed", nil)

	// External errors
	ErrIdentityProvider = NewDomainError(ErrorTypeExternal, "identity provider error", nil)
)

func hasType(err error, errType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errType
	}
	return false
}

// IsUnauthenticatedError checks if an error means the caller has no valid session.
func IsUnauthenticatedError(err error) bool { return hasType(err, ErrorTypeUnauthenticated) }

// IsAuthenticationFailedError checks if an error is a failed login or refresh.
func IsAuthenticationFailedError(err error) bool {
	return hasType(err, ErrorTypeAuthenticationFailed)
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool { return hasType(err, ErrorTypeForbidden) }

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool { return hasType(err, ErrorTypeNotFound) }

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool { return hasType(err, ErrorTypeConflict) }

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool { return hasType(err, ErrorTypeValidation) }

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool { return hasType(err, ErrorTypeInternal) }

// IsExternalError checks if an error is an external error
func IsExternalError(err error) bool { return hasType(err, ErrorTypeExternal) }

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapExternal wraps an error as an external error
func WrapExternal(message string, err error) error {
	return NewDomainError(ErrorTypeExternal, message, err)
}
