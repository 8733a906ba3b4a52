package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment is owned by the user that created it.
type Appointment struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	StartTime   time.Time         `json:"startTime"`
	EndTime     time.Time         `json:"endTime"`
	UserID      string            `json:"userId"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ValidateTimeRange returns ErrInvalidTimeRange unless end is strictly after start.
func ValidateTimeRange(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

// OwnedBy reports whether userID owns the appointment.
func (a *Appointment) OwnedBy(userID string) bool {
	return a != nil && userID != "" && a.UserID == userID
}

// CanBeAccessedBy reports whether u may read or mutate the appointment.
func (a *Appointment) CanBeAccessedBy(u *User) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || a.OwnedBy(u.ID)
}

// AppointmentPatch carries a partial update. Nil fields are left untouched;
// an empty Description clears it.
type AppointmentPatch struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *AppointmentStatus
}

// Apply returns a copy of a with the patch fields overwritten.
func (p AppointmentPatch) Apply(a Appointment) Appointment {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		if *p.Description == "" {
			a.Description = nil
		} else {
			d := *p.Description
			a.Description = &d
		}
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		a.EndTime = *p.EndTime
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	return a
}

// Empty reports whether the patch changes nothing.
func (p AppointmentPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.StartTime == nil && p.EndTime == nil && p.Status == nil
}
