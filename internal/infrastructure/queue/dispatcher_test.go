package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AppointmentEvent
	err    error
}

func (r *recordingRepo) InsertEvent(_ context.Context, e domain.AppointmentEvent) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingRepo) snapshot() []domain.AppointmentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AppointmentEvent(nil), r.events...)
}

func TestDispatcher_PreservesPerAppointmentOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	types := []domain.AppointmentEventType{
		domain.EventAppointmentCreated,
		domain.EventAppointmentUpdated,
		domain.EventAppointmentDeleted,
	}
	for _, id := range []string{"a1", "a2", "a3"} {
		for _, typ := range types {
			d.Publish(domain.AppointmentEvent{ID: id + string(typ), Type: typ, AppointmentID: id, OccurredAt: time.Now()})
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(repo.snapshot()) < 9 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	d.Wait()

	got := repo.snapshot()
	if len(got) != 9 {
		t.Fatalf("expected 9 events, got %d", len(got))
	}
	seen := map[string][]domain.AppointmentEventType{}
	for _, e := range got {
		seen[e.AppointmentID] = append(seen[e.AppointmentID], e.Type)
	}
	for id, order := range seen {
		for i, typ := range types {
			if order[i] != typ {
				t.Fatalf("appointment %s: events out of order: %v", id, order)
			}
		}
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	// Queue before the workers start so the events are buffered at cancel time.
	d.Publish(domain.AppointmentEvent{ID: "1", AppointmentID: "a1"})
	d.Publish(domain.AppointmentEvent{ID: "2", AppointmentID: "a1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if n := len(repo.snapshot()); n != 2 {
		t.Fatalf("expected buffered events to be drained, got %d", n)
	}
}

func TestDispatcher_PublishDoesNotBlockWhenFull(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(domain.AppointmentEvent{AppointmentID: "a1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Publish blocked on a full queue")
	}
}

func TestDispatcher_RepositoryErrorsAreSwallowed(t *testing.T) {
	repo := &recordingRepo{err: errors.New("boom")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Publish(domain.AppointmentEvent{AppointmentID: "a1"})
	cancel()
	d.Wait()

	if n := len(repo.snapshot()); n != 0 {
		t.Fatalf("expected nothing recorded, got %d", n)
	}
}
