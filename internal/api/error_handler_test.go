package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

func TestHTTPErrorHandler_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrDuplicateEmail, http.StatusConflict, "email already registered"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{fmt.Errorf("%w: invalid token", domain.ErrAuthenticationRequired), http.StatusUnauthorized, "authentication required"},
		{domain.ErrAccessDenied, http.StatusForbidden, "access denied"},
		{domain.ErrNotFound, http.StatusNotFound, "appointment not found"},
		{domain.ErrInvalidTimeRange, http.StatusUnprocessableEntity, "end time must be after start time"},
		{fmt.Errorf("%w: name is required", domain.ErrInvalidInput), http.StatusUnprocessableEntity, "invalid input: name is required"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many login attempts, try again later"},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["error"] != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body["error"])
			}
		})
	}
}
