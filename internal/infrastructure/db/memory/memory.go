// Package memory implements the repositories in process memory. It backs the
// "memory" store driver used for local runs and tests; data is lost on exit.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schedulr/appointments-api/internal/core/domain"
	"github.com/schedulr/appointments-api/internal/core/ports"
)

var seq atomic.Int64

func nextID(prefix string) string {
	return prefix + strconv.FormatInt(seq.Add(1), 10)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneAppointment(a *domain.Appointment) *domain.Appointment {
	if a == nil {
		return nil
	}
	c := *a
	if a.Description != nil {
		d := *a.Description
		c.Description = &d
	}
	return &c
}

// UserRepository is a map-backed ports.UserRepository.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	u := cloneUser(user)
	u.ID = nextID("u")
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AppointmentRepository is a map-backed ports.AppointmentRepository.
type AppointmentRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Appointment
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{byID: make(map[string]*domain.Appointment)}
}

func (r *AppointmentRepository) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cloneAppointment(a)
	c.ID = nextID("a")
	r.byID[c.ID] = c
	return cloneAppointment(c), nil
}

func (r *AppointmentRepository) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneAppointment(a), nil
}

func (r *AppointmentRepository) List(_ context.Context, filter ports.AppointmentFilter) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range r.byID {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		out = append(out, cloneAppointment(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (r *AppointmentRepository) Update(_ context.Context, id, ownerID string, patch domain.AppointmentPatch, updatedAt time.Time) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || (ownerID != "" && a.UserID != ownerID) {
		return nil, domain.ErrNotFound
	}
	next := patch.Apply(*a)
	next.UpdatedAt = updatedAt
	r.byID[id] = cloneAppointment(&next)
	return cloneAppointment(&next), nil
}

func (r *AppointmentRepository) Delete(_ context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || (ownerID != "" && a.UserID != ownerID) {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

// AuditRepository keeps published events in insertion order.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.AppointmentEvent
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) InsertEvent(_ context.Context, event domain.AppointmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a snapshot of the recorded events.
func (r *AuditRepository) Events() []domain.AppointmentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AppointmentEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Ping always succeeds; it lets the memory store stand in for a database in
// readiness checks.
func Ping(context.Context) error { return nil }
