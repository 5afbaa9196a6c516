// File: database/repository/tenant/interface.go
package tenantRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"bookingbot/models"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	// GetActiveByChannel returns models.ErrTenantNotFound when no active tenant owns the channel.
	GetActiveByChannel(ctx context.Context, channelID string) (*models.Tenant, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoTenantRepo struct {
	coll *mongo.Collection
}

// NewMongoTenantRepo constructs a TenantRepository backed by the tenants collection.
func NewMongoTenantRepo(db *mongo.Database) TenantRepository {
	return &mongoTenantRepo{coll: db.Collection("tenants")}
}
