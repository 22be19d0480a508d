package scheduling

import (
	"context"
	"fmt"
	"time"

	"schedly/models"
)

// allowedTransitions is the appointment state machine. CANCELLED, NO_SHOW,
// and RESCHEDULED are reachable from any active state; RESCHEDULED is only
// set by RescheduleAppointment.
var allowedTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:    {models.StatusConfirmed, models.StatusArrived, models.StatusCancelled, models.StatusNoShow, models.StatusRescheduled},
	models.StatusConfirmed:  {models.StatusArrived, models.StatusCancelled, models.StatusNoShow, models.StatusRescheduled},
	models.StatusArrived:    {models.StatusInProgress, models.StatusCancelled, models.StatusNoShow, models.StatusRescheduled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled, models.StatusNoShow, models.StatusRescheduled},
}

func canTransition(from, to models.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transition moves an appointment to a new status. The slot itself does not
// move, so no conflict re-check is needed.
func (se *DefaultSchedulingEngine) transition(ctx context.Context, id string, to models.AppointmentStatus, actor, summary string, decorate func(*models.Appointment)) (*models.Appointment, error) {
	appt, err := se.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(appt.Status, to) {
		return nil, ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("cannot move from %s to %s", appt.Status, to),
		}
	}

	now := time.Now()
	appt.Status = to
	appt.UpdatedAt = now
	if decorate != nil {
		decorate(appt)
	}
	appt.ChangeHistory = append(appt.ChangeHistory, models.ChangeEntry{
		Timestamp: now,
		Actor:     actor,
		Summary:   summary,
	})

	if err := se.Appointments.Update(ctx, appt); err != nil {
		return nil, se.mapRepoError(err, appt)
	}
	return appt, nil
}

func (se *DefaultSchedulingEngine) ConfirmAppointment(ctx context.Context, id, actor string) (*models.Appointment, error) {
	appt, err := se.transition(ctx, id, models.StatusConfirmed, actor, "appointment confirmed", nil)
	if err != nil {
		return nil, err
	}
	se.emit(*appt, "appointment.updated")
	return appt, nil
}

func (se *DefaultSchedulingEngine) CancelAppointment(ctx context.Context, id, reason, actor string) (*models.Appointment, error) {
	appt, err := se.transition(ctx, id, models.StatusCancelled, actor, "appointment cancelled", func(a *models.Appointment) {
		now := time.Now()
		a.CancelReason = reason
		a.CancelledBy = actor
		a.CancelledAt = &now
	})
	if err != nil {
		return nil, err
	}
	se.emit(*appt, "appointment.cancelled")
	return appt, nil
}

func (se *DefaultSchedulingEngine) CheckIn(ctx context.Context, id, actor string) (*models.Appointment, error) {
	appt, err := se.transition(ctx, id, models.StatusArrived, actor, "client checked in", nil)
	if err != nil {
		return nil, err
	}
	se.emit(*appt, "appointment.updated")
	return appt, nil
}

func (se *DefaultSchedulingEngine) Start(ctx context.Context, id, actor string) (*models.Appointment, error) {
	appt, err := se.transition(ctx, id, models.StatusInProgress, actor, "service started", nil)
	if err != nil {
		return nil, err
	}
	se.emit(*appt, "appointment.updated")
	return appt, nil
}

func (se *DefaultSchedulingEngine) Complete(ctx context.Context, id, actor string) (*models.Appointment, error) {
	appt, err := se.transition(ctx, id, models.StatusCompleted, actor, "service completed", nil)
	if err != nil {
		return nil, err
	}
	se.emit(*appt, "appointment.updated")
	return appt, nil
}

func (se *DefaultSchedulingEngine) MarkNoShow(ctx context.Context, id, actor string) (*models.Appointment, error) {
	appt, err := se.transition(ctx, id, models.StatusNoShow, actor, "client did not show", nil)
	if err != nil {
		return nil, err
	}
	se.emit(*appt, "appointment.updated")
	return appt, nil
}
