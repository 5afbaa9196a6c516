// File: database/repository/service/interface.go
package serviceRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"bookingbot/models"
)

type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	// ListActive returns the tenant's bookable services in menu order.
	ListActive(ctx context.Context, tenantID string) ([]models.Service, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.Service, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo constructs a ServiceRepository backed by the services collection.
func NewMongoServiceRepo(db *mongo.Database) ServiceRepository {
	return &mongoServiceRepo{coll: db.Collection("services")}
}
