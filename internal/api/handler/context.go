package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/schedulr/appointments-api/internal/api/middleware"
	"github.com/schedulr/appointments-api/internal/core/domain"
)

// currentUser returns the user attached by the Auth middleware, failing fast
// with ErrAuthenticationRequired for anonymous requests.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.UserFromContext(c.Request().Context())
	if user == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	return user, nil
}
