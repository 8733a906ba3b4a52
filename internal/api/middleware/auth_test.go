package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

type stubAuthenticator struct {
	users map[string]*domain.User
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

func runAuth(t *testing.T, header string) (*domain.User, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	authn := stubAuthenticator{users: map[string]*domain.User{
		"good": {ID: "u1", Role: domain.RoleUser},
	}}

	var seen *domain.User
	called := false
	handler := Auth(authn, zerolog.Nop())(func(c echo.Context) error {
		called = true
		seen = UserFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return seen, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	user, called := runAuth(t, "Bearer good")
	if !called {
		t.Fatalf("next not called")
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("expected user u1 in context, got %+v", user)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	user, _ := runAuth(t, "bearer good")
	if user == nil {
		t.Fatalf("expected user in context")
	}
}

func TestAuthMiddleware_AnonymousFallbacks(t *testing.T) {
	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Token good",
		"empty token":    "Bearer ",
		"invalid token":  "Bearer not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			user, called := runAuth(t, header)
			if !called {
				t.Fatalf("next must be called for anonymous requests")
			}
			if user != nil {
				t.Fatalf("expected anonymous context, got %+v", user)
			}
		})
	}
}
