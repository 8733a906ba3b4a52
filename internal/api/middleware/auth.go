package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

// Authenticator resolves a bearer token into a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth resolves the bearer token, if any, and attaches the user to the request
// context. A missing or invalid token leaves the request anonymous; handlers
// that need a user reject it themselves.
func Auth(authn Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				log.Debug().Str("path", c.Path()).Msg("malformed authorization header ignored")
				return next(c)
			}

			req := c.Request()
			user, err := authn.Authenticate(req.Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				return next(c)
			}

			c.SetRequest(req.WithContext(WithUser(req.Context(), user)))
			return next(c)
		}
	}
}
