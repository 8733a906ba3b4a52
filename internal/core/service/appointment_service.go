package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/core/domain"
	"github.com/schedulr/appointments-api/internal/core/ports"
	"github.com/schedulr/appointments-api/internal/core/validation"
)

// AppointmentService enforces ownership rules over the appointment store.
type AppointmentService struct {
	repo      ports.AppointmentRepository
	publisher ports.EventPublisher
	validate  *validation.Validator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAppointmentService returns an AppointmentService. publisher may be nil.
func NewAppointmentService(repo ports.AppointmentRepository, publisher ports.EventPublisher, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{
		repo:      repo,
		publisher: publisher,
		validate:  validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every appointment to admins and only their own to everyone else.
func (s *AppointmentService) List(ctx context.Context, caller *domain.User) ([]*domain.Appointment, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	filter := ports.AppointmentFilter{UserID: caller.ID}
	if caller.IsAdmin() {
		filter.UserID = ""
	}
	return s.repo.List(ctx, filter)
}

func (s *AppointmentService) ListMine(ctx context.Context, caller *domain.User) ([]*domain.Appointment, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.repo.List(ctx, ports.AppointmentFilter{UserID: caller.ID})
}

func (s *AppointmentService) Get(ctx context.Context, caller *domain.User, id string) (*domain.Appointment, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanBeAccessedBy(caller) {
		return nil, domain.ErrAccessDenied
	}
	return a, nil
}

func (s *AppointmentService) Create(ctx context.Context, caller *domain.User, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Description != nil && *in.Description == "" {
		in.Description = nil
	}
	if err := s.validate.Validate(&in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.StatusPending
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, in.Status)
	}
	if err := domain.ValidateTimeRange(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	a, err := s.repo.Create(ctx, &domain.Appointment{
		Title:       in.Title,
		Description: in.Description,
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		UserID:      caller.ID,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.ID).Msg("failed to create appointment")
		return nil, err
	}

	s.logger.Info().Str("appointment_id", a.ID).Str("user_id", caller.ID).Msg("appointment created")
	s.publish(domain.EventAppointmentCreated, a, caller)
	return a, nil
}

// Update overwrites only the fields set in patch. The merged appointment must
// still end after it starts.
func (s *AppointmentService) Update(ctx context.Context, caller *domain.User, id string, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	existing, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *patch.Status)
	}
	merged := patch.Apply(*existing)
	if err := domain.ValidateTimeRange(merged.StartTime, merged.EndTime); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, ownerGuard(caller), patch, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", id).Str("user_id", caller.ID).Msg("appointment updated")
	s.publish(domain.EventAppointmentUpdated, updated, caller)
	return updated, nil
}

func (s *AppointmentService) Delete(ctx context.Context, caller *domain.User, id string) (bool, error) {
	existing, err := s.Get(ctx, caller, id)
	if err != nil {
		return false, err
	}

	deleted, err := s.repo.Delete(ctx, id, ownerGuard(caller))
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info().Str("appointment_id", id).Str("user_id", caller.ID).Msg("appointment deleted")
		s.publish(domain.EventAppointmentDeleted, existing, caller)
	}
	return deleted, nil
}

// ownerGuard restricts repository writes to the caller's own records unless
// the caller is an admin.
func ownerGuard(caller *domain.User) string {
	if caller.IsAdmin() {
		return ""
	}
	return caller.ID
}

func (s *AppointmentService) publish(t domain.AppointmentEventType, a *domain.Appointment, actor *domain.User) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          t,
		AppointmentID: a.ID,
		ActorID:       actor.ID,
		Status:        a.Status,
		OccurredAt:    s.now().UTC(),
	})
}
