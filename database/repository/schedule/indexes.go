// FILE: database/repository/schedule/indexes.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the schedule collections.
func (r *MongoScheduleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduleIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "staffId", Value: 1}, {Key: "branchId", Value: 1}, {Key: "overrideDate", Value: 1}},
			Options: options.Index().SetName("staff_branch_override_idx"),
		},
		{
			Keys:    bson.D{{Key: "staffId", Value: 1}, {Key: "branchId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index().SetName("staff_branch_day_idx"),
		},
	}
	if _, err := r.schedules.Indexes().CreateMany(ctx, scheduleIdx); err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}

	timeOffIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "staffId", Value: 1}, {Key: "status", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index().SetName("staff_status_range_idx"),
		},
	}
	if _, err := r.timeOff.Indexes().CreateMany(ctx, timeOffIdx); err != nil {
		return fmt.Errorf("failed to create time-off indexes: %w", err)
	}

	hoursIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "branchId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("branch_day_idx"),
		},
	}
	if _, err := r.branchHours.Indexes().CreateMany(ctx, hoursIdx); err != nil {
		return fmt.Errorf("failed to create branch hours indexes: %w", err)
	}
	return nil
}
