package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"schedly/database"
	"schedly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const appointmentsCollection = "appointments"

// MongoAppointmentRepo implements AppointmentRepository on MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

func NewMongoAppointmentRepo() *MongoAppointmentRepo {
	return &MongoAppointmentRepo{
		coll: database.DB().Collection(appointmentsCollection),
	}
}

var activeStatuses = bson.A{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusArrived,
	models.StatusInProgress,
}

// overlapFilter matches active appointments on the given date whose half-open
// [startTime, endTime) interval intersects [start, end). Zero-padded "HH:MM"
// strings compare correctly as plain strings.
func overlapFilter(field, id, date, start, end string, excludeIDs []string) bson.M {
	filter := bson.M{
		field:       id,
		"date":      date,
		"status":    bson.M{"$in": activeStatuses},
		"startTime": bson.M{"$lt": end},
		"endTime":   bson.M{"$gt": start},
	}
	if len(excludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": excludeIDs}
	}
	return filter
}

// countCollisions re-checks every booking dimension of the appointment inside
// the transaction, so the insert and the check observe one snapshot. The
// record itself and the caller's excludeID (a reschedule predecessor) never
// count as collisions.
func (r *MongoAppointmentRepo) countCollisions(sc mongo.SessionContext, appt *models.Appointment, excludeID string) (int64, error) {
	excludes := []string{appt.ID}
	if excludeID != "" {
		excludes = append(excludes, excludeID)
	}

	dims := make([]bson.M, 0, 3)
	if appt.StaffID != "" {
		dims = append(dims, overlapFilter("staffId", appt.StaffID, appt.Date, appt.StartTime, appt.EndTime, excludes))
	}
	if appt.ResourceID != "" {
		dims = append(dims, overlapFilter("resourceId", appt.ResourceID, appt.Date, appt.StartTime, appt.EndTime, excludes))
	}
	dims = append(dims, overlapFilter("clientId", appt.ClientID, appt.Date, appt.StartTime, appt.EndTime, excludes))

	return r.coll.CountDocuments(sc, bson.M{"$or": dims})
}

// Create inserts the appointment inside a transaction that first re-counts
// overlapping active appointments for its staff, resource, and client. A
// non-zero count aborts with ErrSlotTaken.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment, excludeID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if appt.Status.Active() {
			n, err := r.countCollisions(sc, appt, excludeID)
			if err != nil {
				return fmt.Errorf("overlap re-check failed: %w", err)
			}
			if n > 0 {
				return ErrSlotTaken
			}
		}
		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotTaken {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointment transaction failed: %w", err)
	}
	return nil
}

// Update replaces the stored appointment document, guarding the overlap
// exclusion the same way Create does when the slot is still active.
func (r *MongoAppointmentRepo) Update(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if appt.Status.Active() {
			n, err := r.countCollisions(sc, appt, "")
			if err != nil {
				return fmt.Errorf("overlap re-check failed: %w", err)
			}
			if n > 0 {
				return ErrSlotTaken
			}
		}
		res, err := r.coll.ReplaceOne(sc, bson.M{"id": appt.ID}, appt)
		if err != nil {
			return fmt.Errorf("replace appointment failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotTaken || err == ErrNotFound {
			return err
		}
		return fmt.Errorf("appointment transaction failed: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) findActive(ctx context.Context, field, id, date string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		field:    id,
		"date":   date,
		"status": bson.M{"$in": activeStatuses},
	}
	cursor, err := r.coll.Find(ctx, filter)
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

func (r *MongoAppointmentRepo) FindActiveByStaff(ctx context.Context, staffID, date string) ([]models.Appointment, error) {
	return r.findActive(ctx, "staffId", staffID, date)
}

func (r *MongoAppointmentRepo) FindActiveByResource(ctx context.Context, resourceID, date string) ([]models.Appointment, error) {
	return r.findActive(ctx, "resourceId", resourceID, date)
}

func (r *MongoAppointmentRepo) FindActiveByClient(ctx context.Context, clientID, date string) ([]models.Appointment, error) {
	return r.findActive(ctx, "clientId", clientID, date)
}

func (r *MongoAppointmentRepo) FindByBranchDay(ctx context.Context, branchID, date string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"branchId": branchID, "date": date})
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

func (r *MongoAppointmentRepo) FindByRecurringGroup(ctx context.Context, groupID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"recurringGroupId": groupID})
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
