package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schedulr/appointments-api/internal/core/domain"
	"github.com/schedulr/appointments-api/internal/core/ports"
)

const collectionAppointments = "appointments"

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

type appointmentDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description *string            `bson:"description,omitempty"`
	StartTime   time.Time          `bson:"start_time"`
	EndTime     time.Time          `bson:"end_time"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d appointmentDoc) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		StartTime:   d.StartTime.UTC(),
		EndTime:     d.EndTime.UTC(),
		UserID:      d.UserID.Hex(),
		Status:      domain.AppointmentStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create inserts a new appointment document.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(a.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: bad owner id %q: %w", a.UserID, err)
	}

	doc := appointmentDoc{
		ID:          primitive.NewObjectID(),
		Title:       a.Title,
		Description: a.Description,
		StartTime:   a.StartTime.UTC(),
		EndTime:     a.EndTime.UTC(),
		UserID:      owner,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves an appointment. Malformed ids are reported as not found.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc appointmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns appointments sorted by start time, optionally scoped to one owner.
func (r *AppointmentRepository) List(ctx context.Context, filter ports.AppointmentFilter) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.UserID != "" {
		owner, err := primitive.ObjectIDFromHex(filter.UserID)
		if err != nil {
			return []*domain.Appointment{}, nil
		}
		q["user_id"] = owner
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	var docs []appointmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	out := make([]*domain.Appointment, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Update applies the non-nil patch fields and stamps updated_at, returning the
// stored document after the write. An empty description is unset.
func (r *AppointmentRepository) Update(ctx context.Context, id, ownerID string, patch domain.AppointmentPatch, updatedAt time.Time) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, ok := guardedFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	set := bson.M{"updated_at": updatedAt.UTC()}
	unset := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			unset["description"] = ""
		} else {
			set["description"] = *patch.Description
		}
	}
	if patch.StartTime != nil {
		set["start_time"] = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		set["end_time"] = patch.EndTime.UTC()
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc appointmentDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the appointment and reports whether a document was deleted.
func (r *AppointmentRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, ok := guardedFilter(id, ownerID)
	if !ok {
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates the indexes the listing queries rely on.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_time", Value: 1}},
	})
	return err
}

func guardedFilter(id, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	filter := bson.M{"_id": oid}
	if ownerID != "" {
		owner, err := primitive.ObjectIDFromHex(ownerID)
		if err != nil {
			return nil, false
		}
		filter["user_id"] = owner
	}
	return filter, true
}
