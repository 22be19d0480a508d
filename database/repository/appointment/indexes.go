// FILE: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the appointments collection.
func (r *MongoAppointmentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on appointment ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary conflict-scan patterns: per-entity, per-day interval lookups.
		{
			Keys:    bson.D{{Key: "staffId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("staff_date_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "resourceId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("resource_date_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("client_date_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "branchId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("branch_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "recurringGroupId", Value: 1}},
			Options: options.Index().SetName("recurring_group_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
