// Package domain holds the error taxonomy shared by every layer of the service.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError. Each kind maps to exactly one HTTP status at the boundary.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindUnknownState ErrorKind = "UNKNOWN_STATE"
	KindConflict     ErrorKind = "CONFLICT"
)

// AppError is a classified, user-visible error.
type AppError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError reports malformed input or a violated business rule on input data.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s with id=%s not found", entity, id)}
}

// NewForbiddenError reports an actor acting outside its permissions.
func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// NewInvalidStateError reports a lifecycle transition that is not allowed from the current state.
func NewInvalidStateError(from, to string) *AppError {
	return &AppError{
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("status already changed: cannot move from %s to %s", from, to),
	}
}

// NewUnknownStateError reports an unrecognised state filter token.
func NewUnknownStateError(state string) *AppError {
	return &AppError{Kind: KindUnknownState, Message: "Unknown state: " + state}
}

// NewConflictError reports a uniqueness or concurrency conflict.
func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of the first AppError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
