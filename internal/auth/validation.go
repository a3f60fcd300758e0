package auth

import (
	"regexp"

	"github.com/mwalczyk/webauth/internal/api"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{2,20}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Field-level form errors
var (
	errUsernameRequired = api.ValidationError("username is required")
	errUsernameInvalid  = api.ValidationError("username must be 2-20 characters, alphanumeric and underscore only")
	errPasswordRequired = api.ValidationError("password is required")
	errPasswordTooShort = api.ValidationError("password must be at least 6 characters")
	errPasswordTooLong  = api.ValidationError("password must not exceed 72 bytes")
	errEmailInvalid     = api.ValidationError("invalid email format")
)

func validateUsername(username string) *api.Error {
	if username == "" {
		return errUsernameRequired
	}
	if !usernamePattern.MatchString(username) {
		return errUsernameInvalid
	}
	return nil
}

func validatePassword(password string) *api.Error {
	if password == "" {
		return errPasswordRequired
	}
	if len(password) < MinPasswordLength {
		return errPasswordTooShort
	}
	// bcrypt only reads the first 72 bytes, so longer inputs are
	// rejected here instead of silently truncated at hashing.
	if len(password) > MaxPasswordBytes {
		return errPasswordTooLong
	}
	return nil
}

// validateEmail checks an optional email field; empty means absent.
// RFC 5321 caps the length at 254.
func validateEmail(email string) *api.Error {
	if email == "" {
		return nil
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return errEmailInvalid
	}
	return nil
}
