package ports

import (
	"context"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

// UserService exposes account reads to an authenticated caller.
type UserService interface {
	// Me returns the caller's own record, or nil if it no longer exists.
	Me(ctx context.Context, caller *domain.User) (*domain.User, error)
	List(ctx context.Context, caller *domain.User) ([]*domain.User, error)
}
