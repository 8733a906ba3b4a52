package ports

import (
	"context"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

// AuditRepository persists appointment lifecycle events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event domain.AppointmentEvent) error
}
