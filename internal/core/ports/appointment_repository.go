package ports

import (
	"context"
	"time"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

// AppointmentFilter narrows a listing. UserID empty = all owners (admin).
type AppointmentFilter struct {
	UserID string
}

// AppointmentRepository defines persistence operations for appointments.
//
// Update and Delete accept an ownerID guard: when non-empty, the write only
// applies if the stored appointment is still owned by ownerID.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	// FindByID returns domain.ErrNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]*domain.Appointment, error)
	Update(ctx context.Context, id, ownerID string, patch domain.AppointmentPatch, updatedAt time.Time) (*domain.Appointment, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}
