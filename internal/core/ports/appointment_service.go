package ports

import (
	"context"
	"time"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

// CreateAppointmentInput carries the fields of a new appointment. The time
// range is checked by domain.ValidateTimeRange, not by tags.
type CreateAppointmentInput struct {
	Title       string    `json:"title" validate:"required"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	// Status defaults to pending when empty.
	Status domain.AppointmentStatus `json:"status"`
}

// AppointmentService defines use-case operations on appointments. Every
// method takes the caller explicitly; a nil caller fails with
// domain.ErrAuthenticationRequired.
type AppointmentService interface {
	List(ctx context.Context, caller *domain.User) ([]*domain.Appointment, error)
	ListMine(ctx context.Context, caller *domain.User) ([]*domain.Appointment, error)
	Get(ctx context.Context, caller *domain.User, id string) (*domain.Appointment, error)
	Create(ctx context.Context, caller *domain.User, in CreateAppointmentInput) (*domain.Appointment, error)
	Update(ctx context.Context, caller *domain.User, id string, patch domain.AppointmentPatch) (*domain.Appointment, error)
	Delete(ctx context.Context, caller *domain.User, id string) (bool, error)
}

// EventPublisher hands appointment lifecycle events to the audit pipeline.
// Publish must not block the caller.
type EventPublisher interface {
	Publish(event domain.AppointmentEvent)
}
