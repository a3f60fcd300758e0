package api

import "net/http"

// Error is a typed handler failure carrying the HTTP status it maps to.
// Form marks errors that originate from a submitted form field so the
// client can render them inline; it stays false when the failure has no
// form shape.
type Error struct {
	Status  int
	Message string
	Form    bool
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a typed error with an explicit status.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// ValidationError creates a 400 error tied to a form field.
func ValidationError(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Form: true}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Conflict creates a 409 error.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// Internal creates a 500 error.
func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// AsForm marks the error as form-originated and returns it.
func (e *Error) AsForm() *Error {
	e.Form = true
	return e
}
