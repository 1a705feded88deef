package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ServiceError is a domain error that carries the HTTP status it maps to
type ServiceError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a client error for bad input
func NewValidationError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// NewConflictError creates a client error for uniqueness violations
func NewConflictError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusConflict, Code: code, Message: message}
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusNotFound, Code: code, Message: message}
}

// NewUnauthorizedError creates an authentication error
func NewUnauthorizedError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusUnauthorized, Code: code, Message: message}
}

// NewForbiddenError creates an authorization error
func NewForbiddenError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusForbidden, Code: code, Message: message}
}

var (
	// ErrInvalidCredentials is shared by every login failure path so callers
	// cannot tell an unknown email from a wrong password.
	ErrInvalidCredentials = NewUnauthorizedError("INVALID_CREDENTIALS", "อีเมลหรือรหัสผ่านไม่ถูกต้อง")

	ErrTicketNotFound = NewNotFoundError("TICKET_NOT_FOUND", "Ticket not found")
	ErrUserNotFound   = NewNotFoundError("USER_NOT_FOUND", "User not found")
)

// isDuplicateKey matches unique-constraint violations from postgres, mysql and sqlite
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

// isForeignKeyViolation matches foreign-key violations from postgres, mysql and sqlite
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

// translateStoreError maps store-level failures onto the domain taxonomy.
// notFound is returned for missing records; anything unrecognised is wrapped.
func translateStoreError(err error, notFound *ServiceError, op string) error {
	var svcErr *ServiceError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &svcErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
