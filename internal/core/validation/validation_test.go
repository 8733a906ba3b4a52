package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

type signup struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	if err := v.Validate(&signup{Email: "a@example.com", Password: "secret", Name: "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	v := New()
	err := v.Validate(&signup{Email: "nope", Password: "123"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	for _, want := range []string{"email must be a valid email", "password must be at least 6 characters", "name is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}
