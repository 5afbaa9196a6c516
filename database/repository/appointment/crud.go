// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookingbot/models"
)

const opTimeout = 5 * time.Second

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if appt.SlotKey == "" {
		appt.SlotKey = models.SlotKeyFor(appt.Start)
	}
	_, err := r.coll.InsertOne(ctx, appt)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert appointment: %w", err)
	}

	// Either a retry of an insert that already went through, or a lost race for the slot.
	n, cerr := r.coll.CountDocuments(ctx, bson.M{"id": appt.ID})
	if cerr != nil {
		return fmt.Errorf("check duplicate appointment: %w", cerr)
	}
	if n > 0 {
		return nil
	}
	return models.ErrSlotTaken
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func liveBetween(tenantID string, from, to time.Time) bson.M {
	return bson.M{
		"tenantId": tenantID,
		"start":    bson.M{"$gte": from, "$lt": to},
		"status":   bson.M{"$ne": models.AppointmentCancelled},
	}
}

func (r *mongoAppointmentRepo) ListStarts(ctx context.Context, tenantID string, from, to time.Time) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"start": 1, "_id": 0})
	cursor, err := r.coll.Find(ctx, liveBetween(tenantID, from, to), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Start time.Time `bson:"start"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	starts := make([]time.Time, len(rows))
	for i, row := range rows {
		starts[i] = row.Start
	}
	return starts, nil
}

func (r *mongoAppointmentRepo) ListBetween(ctx context.Context, tenantID string, from, to time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"tenantId": tenantID, "start": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{
		"$set":   bson.M{"status": models.AppointmentCancelled},
		"$unset": bson.M{"slotKey": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return &appt, nil
}
