package scheduling

import (
	"context"

	appointmentRepo "schedly/database/repository/appointment"
	scheduleRepo "schedly/database/repository/schedule"
	"schedly/models"
	"schedly/services/notification"
	"schedly/services/realtime"
)

// SchedulingService is the booking engine's full surface: availability
// browsing, conflict checking, and the appointment lifecycle.
type SchedulingService interface {
	GetAvailableSlots(ctx context.Context, req models.AvailabilityRequest) ([]models.TimeSlot, error)
	CheckSlotAvailability(ctx context.Context, cand models.CandidateSlot) ([]models.Conflict, error)

	CreateAppointment(ctx context.Context, input models.CreateAppointmentInput, actor string) (*models.CreateAppointmentResult, error)
	UpdateAppointment(ctx context.Context, id string, input models.UpdateAppointmentInput, actor string) (*models.Appointment, error)
	RescheduleAppointment(ctx context.Context, id string, input models.RescheduleInput, actor string) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	ListAppointmentsForDay(ctx context.Context, branchID, date string) ([]models.Appointment, error)

	ConfirmAppointment(ctx context.Context, id, actor string) (*models.Appointment, error)
	CancelAppointment(ctx context.Context, id, reason, actor string) (*models.Appointment, error)
	CheckIn(ctx context.Context, id, actor string) (*models.Appointment, error)
	Start(ctx context.Context, id, actor string) (*models.Appointment, error)
	Complete(ctx context.Context, id, actor string) (*models.Appointment, error)
	MarkNoShow(ctx context.Context, id, actor string) (*models.Appointment, error)
}

// DefaultSchedulingEngine implements SchedulingService against injected
// repositories and side-effect collaborators. Notifier and Broadcaster are
// optional; a nil collaborator is skipped.
type DefaultSchedulingEngine struct {
	Appointments appointmentRepo.AppointmentRepository
	Schedules    scheduleRepo.ScheduleRepository
	Notifier     notification.Dispatcher
	Broadcaster  realtime.Broadcaster

	// Granularity is the default minutes between candidate slot starts.
	Granularity int
	// ReminderOffsets are minutes before start for each queued reminder.
	ReminderOffsets []int
	// ReminderChannel is the default outbound channel for reminders.
	ReminderChannel string

	locks *slotLocks
}

const defaultGranularity = 30

func NewDefaultSchedulingEngine(
	appointments appointmentRepo.AppointmentRepository,
	schedules scheduleRepo.ScheduleRepository,
	notifier notification.Dispatcher,
	broadcaster realtime.Broadcaster,
) *DefaultSchedulingEngine {
	return &DefaultSchedulingEngine{
		Appointments:    appointments,
		Schedules:       schedules,
		Notifier:        notifier,
		Broadcaster:     broadcaster,
		Granularity:     defaultGranularity,
		ReminderOffsets: []int{24 * 60, 60},
		ReminderChannel: "sms",
		locks:           newSlotLocks(),
	}
}

func (se *DefaultSchedulingEngine) slotLocks() *slotLocks {
	if se.locks == nil {
		se.locks = newSlotLocks()
	}
	return se.locks
}

func (se *DefaultSchedulingEngine) granularity() int {
	if se.Granularity > 0 {
		return se.Granularity
	}
	return defaultGranularity
}
