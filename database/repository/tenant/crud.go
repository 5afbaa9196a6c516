// File: database/repository/tenant/crud.go
package tenantRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookingbot/models"
)

const opTimeout = 5 * time.Second

func (r *mongoTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, tenant); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrChannelTaken
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (r *mongoTenantRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var tenant models.Tenant
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tenant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *mongoTenantRepo) GetActiveByChannel(ctx context.Context, channelID string) (*models.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var tenant models.Tenant
	err := r.coll.FindOne(ctx, bson.M{"channelId": channelID, "active": true}).Decode(&tenant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}
