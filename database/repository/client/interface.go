// File: database/repository/client/interface.go
package clientRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"bookingbot/models"
)

type ClientRepository interface {
	// Upsert finds the client by (tenantID, phone), creating it when missing
	// and refreshing its name otherwise. It returns the client id.
	Upsert(ctx context.Context, tenantID, phone, name string) (string, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo constructs a ClientRepository backed by the clients collection.
func NewMongoClientRepo(db *mongo.Database) ClientRepository {
	return &mongoClientRepo{coll: db.Collection("clients")}
}
