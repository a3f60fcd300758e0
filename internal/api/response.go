// Package api defines the JSON response envelopes and the typed error
// model shared by all HTTP handlers and middleware.
package api

// SuccessResponse is the standard envelope for successful operations.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the standard envelope for failed operations.
type ErrorResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	IsFormError bool   `json:"isFormError,omitempty"`
}
