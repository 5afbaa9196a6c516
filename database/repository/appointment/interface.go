// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookingbot/models"
)

type AppointmentRepository interface {
	// Create inserts appt. It returns models.ErrSlotTaken when another live
	// appointment of the tenant holds the same start, and nil when an
	// appointment with appt.ID already exists.
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListStarts returns the starts of non-cancelled appointments in [from, to).
	ListStarts(ctx context.Context, tenantID string, from, to time.Time) ([]time.Time, error)
	ListBetween(ctx context.Context, tenantID string, from, to time.Time) ([]models.Appointment, error)
	// Cancel marks the appointment cancelled and frees its slot.
	Cancel(ctx context.Context, id string) (*models.Appointment, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs an AppointmentRepository backed by the appointments collection.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	return &mongoAppointmentRepo{coll: db.Collection("appointments")}
}
