package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

const collectionAppointmentEvents = "appointment_events"

// AuditRepository writes appointment lifecycle events to the audit collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAppointmentEvents)}
}

// InsertEvent persists a single event. The event id doubles as _id so a
// replayed event is rejected rather than duplicated.
func (r *AuditRepository) InsertEvent(ctx context.Context, event domain.AppointmentEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"_id":            event.ID,
		"type":           string(event.Type),
		"appointment_id": event.AppointmentID,
		"actor_id":       event.ActorID,
		"status":         string(event.Status),
		"occurred_at":    event.OccurredAt.UTC(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
