package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("object not found")
	// ErrAlreadyExists is returned on duplicate membership or follow edges.
	ErrAlreadyExists = errors.New("object already exists")
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrForbidden is returned when a user mutates an object they do not own.
	ErrForbidden = errors.New("operation is not allowed for this user")
	// ErrInvalidCredentials is returned on failed login attempts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed, missing or duplicate input. The
// message names the violated rule and is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
