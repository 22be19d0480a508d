package scheduleRepo

import (
	"context"
	"time"

	"schedly/database"
	"schedly/models"
	"schedly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	schedulesCollection = "working_schedules"
	timeOffCollection   = "time_off"
	branchHoursColl     = "branch_hours"
)

// MongoScheduleRepo implements ScheduleRepository on MongoDB.
type MongoScheduleRepo struct {
	schedules   *mongo.Collection
	timeOff     *mongo.Collection
	branchHours *mongo.Collection
}

func NewMongoScheduleRepo() *MongoScheduleRepo {
	db := database.DB()
	return &MongoScheduleRepo{
		schedules:   db.Collection(schedulesCollection),
		timeOff:     db.Collection(timeOffCollection),
		branchHours: db.Collection(branchHoursColl),
	}
}

func (r *MongoScheduleRepo) FindWorkingSchedule(ctx context.Context, staffID, branchID, date string) (*models.WorkingSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Overrides are pinned to a single date and win outright.
	var sched models.WorkingSchedule
	err := r.schedules.FindOne(ctx, bson.M{
		"staffId":      staffID,
		"branchId":     branchID,
		"overrideDate": date,
	}).Decode(&sched)
	if err == nil {
		return &sched, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	weekday, err := utils.Weekday(date)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"staffId":      staffID,
		"branchId":     branchID,
		"dayOfWeek":    weekday,
		"overrideDate": bson.M{"$in": bson.A{nil, ""}},
		"startDate":    bson.M{"$lte": date},
		"$or": bson.A{
			bson.M{"endDate": bson.M{"$in": bson.A{nil, ""}}},
			bson.M{"endDate": bson.M{"$gte": date}},
		},
	}
	err = r.schedules.FindOne(ctx, filter).Decode(&sched)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

func (r *MongoScheduleRepo) FindApprovedTimeOff(ctx context.Context, staffID, date string) (*models.TimeOff, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var to models.TimeOff
	err := r.timeOff.FindOne(ctx, bson.M{
		"staffId":   staffID,
		"status":    models.TimeOffApproved,
		"startDate": bson.M{"$lte": date},
		"endDate":   bson.M{"$gte": date},
	}).Decode(&to)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &to, nil
}

func (r *MongoScheduleRepo) FindOperatingHours(ctx context.Context, branchID, date string) (*models.DayHours, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	weekday, err := utils.Weekday(date)
	if err != nil {
		return nil, err
	}

	var hours models.DayHours
	err = r.branchHours.FindOne(ctx, bson.M{
		"branchId":  branchID,
		"dayOfWeek": weekday,
	}).Decode(&hours)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hours, nil
}

func (r *MongoScheduleRepo) ListStaffForBranch(ctx context.Context, branchID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	raw, err := r.schedules.Distinct(ctx, "staffId", bson.M{"branchId": branchID})
	if err != nil {
		return nil, err
	}
	staff := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			staff = append(staff, s)
		}
	}
	return staff, nil
}
