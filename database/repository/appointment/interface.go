package appointmentRepo

import (
	"context"
	"errors"

	"schedly/models"
)

// ErrSlotTaken is returned when the storage-level overlap guard rejects a
// write: another appointment claimed an overlapping interval between conflict
// detection and persistence.
var ErrSlotTaken = errors.New("overlapping appointment already persisted")

// ErrNotFound is returned when no appointment matches the given id.
var ErrNotFound = errors.New("appointment not found")

// AppointmentRepository persists appointments and answers the per-day,
// per-entity scans the scheduling engine runs its conflict checks over.
type AppointmentRepository interface {
	// Create persists a new appointment. Implementations must enforce the
	// overlap exclusion atomically and return ErrSlotTaken on a lost race.
	// excludeID names one existing appointment the guard ignores: the
	// predecessor during a reschedule, which stays active until the new
	// record is secured. Empty means no exclusion.
	Create(ctx context.Context, appt *models.Appointment, excludeID string) error
	// Update replaces an existing appointment, re-enforcing the overlap
	// exclusion when the appointment still holds an active status.
	Update(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)

	// The Find* methods return only appointments in an active status
	// (PENDING, CONFIRMED, ARRIVED, IN_PROGRESS) for the given date.
	FindActiveByStaff(ctx context.Context, staffID, date string) ([]models.Appointment, error)
	FindActiveByResource(ctx context.Context, resourceID, date string) ([]models.Appointment, error)
	FindActiveByClient(ctx context.Context, clientID, date string) ([]models.Appointment, error)

	FindByBranchDay(ctx context.Context, branchID, date string) ([]models.Appointment, error)
	FindByRecurringGroup(ctx context.Context, groupID string) ([]models.Appointment, error)
}
