package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRefreshFailed      = errors.New("token refresh failed")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrMissingToken       = errors.New("token is required")
	ErrUpstreamFailure    = errors.New("identity service request failed")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrLocaleNotFound     = errors.New("unsupported locale")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal server error")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap extracts the underlying wrapped error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
