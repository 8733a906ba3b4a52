package domain

import "errors"

var (
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAccessDenied           = errors.New("access denied")
	ErrNotFound               = errors.New("appointment not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidTimeRange       = errors.New("end time must be after start time")
	ErrInvalidInput           = errors.New("invalid input")
	ErrTooManyAttempts        = errors.New("too many login attempts, try again later")
)

// Code returns a stable, machine-readable code for err, used in GraphQL
// error extensions and metric labels.
func Code(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, ErrDuplicateEmail):
		return "DUPLICATE_EMAIL"
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrAuthenticationRequired):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrAccessDenied):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidTimeRange):
		return "INVALID_TIME_RANGE"
	case errors.Is(err, ErrInvalidInput):
		return "BAD_USER_INPUT"
	case errors.Is(err, ErrTooManyAttempts):
		return "TOO_MANY_ATTEMPTS"
	default:
		return "INTERNAL"
	}
}
