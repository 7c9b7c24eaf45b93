package errors

import (
	"errors"
	"fmt"
)

// Common error types for the school administration service
var (
	// Session token errors
	ErrMalformedToken    = errors.New("malformed token")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrExpiredToken      = errors.New("token expired")
	ErrMissingCookie     = errors.New("session cookie missing")

	// Configuration errors
	ErrMissingSecret = errors.New("session secret not configured")
	ErrUnknownRole   = errors.New("unknown role")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserBlocked        = errors.New("user is blocked")
)

// Wrapf prefixes err with a formatted message. The result still matches err
// under Is. A nil err stays nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Reason returns a short label for a session rejection, used in logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case Is(err, ErrMissingCookie):
		return "missing_cookie"
	case Is(err, ErrExpiredToken):
		return "expired"
	case Is(err, ErrSignatureMismatch):
		return "signature"
	case Is(err, ErrMalformedToken):
		return "malformed"
	default:
		return "other"
	}
}
