package graphql

import (
	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

const internalMessage = "internal server error"

// Error is a resolver error carrying a machine-readable code, rendered by the
// executor under errors[].extensions.code.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions implements gqlerrors.ExtendedError.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// presentError converts a service error into an *Error. Errors that do not
// map to a domain error are logged at error level and masked; domain errors
// are logged at info level.
func presentError(log zerolog.Logger, field string, err error) error {
	code := domain.Code(err)
	if code == "INTERNAL" {
		log.Error().Err(err).Str("field", field).Msg("graphql resolver failed")
		return &Error{Message: internalMessage, Code: code}
	}
	log.Info().Err(err).Str("field", field).Str("code", code).Msg("graphql resolver error")
	return &Error{Message: err.Error(), Code: code}
}
