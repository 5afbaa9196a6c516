// File: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the appointments collection.
func (r *mongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*opTimeout)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// At most one live appointment per tenant and start; cancelled
		// appointments drop slotKey and fall out of the index.
		{
			Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "slotKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_tenant_slot").
				SetPartialFilterExpression(bson.M{"slotKey": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("tenant_start_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
