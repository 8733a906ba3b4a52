package domain

import "time"

// AppointmentEventType names a lifecycle change recorded in the audit trail.
type AppointmentEventType string

const (
	EventAppointmentCreated AppointmentEventType = "created"
	EventAppointmentUpdated AppointmentEventType = "updated"
	EventAppointmentDeleted AppointmentEventType = "deleted"
)

// AppointmentEvent is an audit record of a successful appointment mutation.
type AppointmentEvent struct {
	ID            string
	Type          AppointmentEventType
	AppointmentID string
	ActorID       string
	Status        AppointmentStatus
	OccurredAt    time.Time
}
