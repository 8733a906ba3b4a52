package service

import (
	"context"
	"errors"

	"github.com/schedulr/appointments-api/internal/core/domain"
	"github.com/schedulr/appointments-api/internal/core/ports"
)

// UserService serves account reads.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Me(ctx context.Context, caller *domain.User) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	user, err := s.repo.FindByID(ctx, caller.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context, caller *domain.User) ([]*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if !caller.IsAdmin() {
		return nil, domain.ErrAccessDenied
	}
	return s.repo.List(ctx)
}
