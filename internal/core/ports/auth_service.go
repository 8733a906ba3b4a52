package ports

import (
	"context"
	"time"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

// RegisterInput carries the fields a new account is created from.
type RegisterInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// AuthService issues and verifies credentials.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate resolves a bearer token into the user it was issued for.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// LoginThrottle tracks failed logins per email.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
