package notification

import (
	"context"

	"schedly/models"
)

// Dispatcher hands reminder and confirmation work to the messaging layer.
// Calls are fire-and-forget from the scheduling engine's point of view: a
// dispatch failure must never roll back a booking.
type Dispatcher interface {
	// ScheduleReminder queues a reminder to fire offsetMinutes before the
	// appointment's start.
	ScheduleReminder(ctx context.Context, appt models.Appointment, channel string, offsetMinutes int) error
	// SendConfirmation queues an immediate booking confirmation.
	SendConfirmation(ctx context.Context, appt models.Appointment) error
}
