// File: database/repository/client/crud.go
package clientRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookingbot/models"
)

const opTimeout = 5 * time.Second

func (r *mongoClientRepo) Upsert(ctx context.Context, tenantID, phone, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id, err := r.upsertOnce(ctx, tenantID, phone, name)
	// Two first messages from the same phone can race on the unique
	// (tenantId, phone) index; the loser's retry finds the winner's record.
	if mongo.IsDuplicateKeyError(err) {
		id, err = r.upsertOnce(ctx, tenantID, phone, name)
	}
	if err != nil {
		return "", fmt.Errorf("upsert client: %w", err)
	}
	return id, nil
}

func (r *mongoClientRepo) upsertOnce(ctx context.Context, tenantID, phone, name string) (string, error) {
	now := time.Now().UTC()
	filter := bson.M{"tenantId": tenantID, "phone": phone}
	update := bson.M{
		"$set": bson.M{"name": name, "updatedAt": now},
		"$setOnInsert": bson.M{
			"id":        uuid.New().String(),
			"tenantId":  tenantID,
			"phone":     phone,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var client models.Client
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&client); err != nil {
		return "", err
	}
	return client.ID, nil
}

func (r *mongoClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var client models.Client
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}
