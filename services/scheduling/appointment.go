package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appointmentRepo "schedly/database/repository/appointment"
	"schedly/models"
	"schedly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAppointment validates the input, runs conflict detection and the
// guarded insert as one serialized unit, then expands the recurring series
// and hands reminder scheduling to the notification collaborator.
func (se *DefaultSchedulingEngine) CreateAppointment(ctx context.Context, input models.CreateAppointmentInput, actor string) (*models.CreateAppointmentResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	endTime, err := utils.AddClock(input.StartTime, input.TotalDuration)
	if err != nil {
		return nil, ValidationError{Field: "startTime", Reason: err.Error()}
	}

	now := time.Now()
	status := models.StatusPending
	if input.StaffEntered {
		status = models.StatusConfirmed
	}

	appt := &models.Appointment{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		BranchID:      input.BranchID,
		ClientID:      input.ClientID,
		StaffID:       input.StaffID,
		ResourceID:    input.ResourceID,
		Date:          input.Date,
		StartTime:     input.StartTime,
		EndTime:       endTime,
		TotalDuration: input.TotalDuration,
		Services:      input.Services,
		Status:        status,
		Notes:         input.Notes,
		ChangeHistory: []models.ChangeEntry{{
			Timestamp: now,
			Actor:     actor,
			Summary:   "appointment created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.IsRecurring {
		// The series is keyed by its first appointment.
		appt.RecurringGroupID = appt.ID
	}

	release := se.slotLocks().acquire(
		staffKey(appt.StaffID, appt.Date),
		resourceKey(appt.ResourceID, appt.Date),
		clientKey(appt.ClientID, appt.Date),
	)
	err = se.persistGuarded(ctx, appt, "", false)
	release()
	if err != nil {
		return nil, err
	}

	result := &models.CreateAppointmentResult{Appointment: appt}
	if input.IsRecurring {
		result.Recurrence = se.expandSeries(ctx, appt, *input.Recurrence, actor)
	}

	se.notifyBooked(*appt)
	se.emit(*appt, "appointment.created")
	return result, nil
}

// UpdateAppointment merges a partial update into the stored record. Changes
// to date, time, staff, resource, or duration re-run conflict detection with
// the record itself excluded.
func (se *DefaultSchedulingEngine) UpdateAppointment(ctx context.Context, id string, input models.UpdateAppointmentInput, actor string) (*models.Appointment, error) {
	appt, err := se.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.Terminal() {
		return nil, ValidationError{Field: "status", Reason: fmt.Sprintf("appointment is %s and can no longer change", appt.Status)}
	}

	prevStaffKey := staffKey(appt.StaffID, appt.Date)
	prevResourceKey := resourceKey(appt.ResourceID, appt.Date)
	prevClientKey := clientKey(appt.ClientID, appt.Date)

	var changed []string
	slotChanged := false

	if input.Date != nil && *input.Date != appt.Date {
		if _, err := utils.ParseDate(*input.Date); err != nil {
			return nil, ValidationError{Field: "date", Reason: err.Error()}
		}
		appt.Date = *input.Date
		changed = append(changed, "date")
		slotChanged = true
	}
	if input.StartTime != nil && *input.StartTime != appt.StartTime {
		appt.StartTime = *input.StartTime
		changed = append(changed, "startTime")
		slotChanged = true
	}
	if input.StaffID != nil && *input.StaffID != appt.StaffID {
		appt.StaffID = *input.StaffID
		changed = append(changed, "staffId")
		slotChanged = true
	}
	if input.ResourceID != nil && *input.ResourceID != appt.ResourceID {
		appt.ResourceID = *input.ResourceID
		changed = append(changed, "resourceId")
		slotChanged = true
	}
	if input.TotalDuration != nil && *input.TotalDuration != appt.TotalDuration {
		if *input.TotalDuration <= 0 {
			return nil, ValidationError{Field: "totalDuration", Reason: "must be positive"}
		}
		appt.TotalDuration = *input.TotalDuration
		changed = append(changed, "totalDuration")
		slotChanged = true
	}
	if input.Services != nil {
		if len(*input.Services) == 0 {
			return nil, ValidationError{Field: "services", Reason: "at least one service is required"}
		}
		appt.Services = *input.Services
		changed = append(changed, "services")
	}
	if input.Notes != nil && *input.Notes != appt.Notes {
		appt.Notes = *input.Notes
		changed = append(changed, "notes")
	}

	if len(changed) == 0 {
		return appt, nil
	}

	if slotChanged {
		endTime, err := utils.AddClock(appt.StartTime, appt.TotalDuration)
		if err != nil {
			return nil, ValidationError{Field: "startTime", Reason: err.Error()}
		}
		appt.EndTime = endTime
	}

	appt.UpdatedAt = time.Now()
	appt.ChangeHistory = append(appt.ChangeHistory, models.ChangeEntry{
		Timestamp: appt.UpdatedAt,
		Actor:     actor,
		Summary:   "updated " + strings.Join(changed, ", "),
	})

	// Lock both the previous and the new booking dimensions; a move between
	// staff or dates must serialize against traffic on either side.
	release := se.slotLocks().acquire(
		prevStaffKey, prevResourceKey, prevClientKey,
		staffKey(appt.StaffID, appt.Date),
		resourceKey(appt.ResourceID, appt.Date),
		clientKey(appt.ClientID, appt.Date),
	)
	defer release()

	if slotChanged {
		if err := se.persistGuarded(ctx, appt, appt.ID, true); err != nil {
			return nil, err
		}
	} else {
		if err := se.Appointments.Update(ctx, appt); err != nil {
			return nil, se.mapRepoError(err, appt)
		}
	}

	se.emit(*appt, "appointment.updated")
	return appt, nil
}

// RescheduleAppointment books the new slot first and only then marks the
// original RESCHEDULED; a conflict on the new slot leaves the original
// completely untouched.
func (se *DefaultSchedulingEngine) RescheduleAppointment(ctx context.Context, id string, input models.RescheduleInput, actor string) (*models.Appointment, error) {
	orig, err := se.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !orig.Status.Active() {
		return nil, ValidationError{Field: "status", Reason: fmt.Sprintf("cannot reschedule a %s appointment", orig.Status)}
	}
	if _, err := utils.ParseDate(input.Date); err != nil {
		return nil, ValidationError{Field: "date", Reason: err.Error()}
	}

	staffID := orig.StaffID
	if input.StaffID != "" {
		staffID = input.StaffID
	}
	endTime, err := utils.AddClock(input.StartTime, orig.TotalDuration)
	if err != nil {
		return nil, ValidationError{Field: "startTime", Reason: err.Error()}
	}

	now := time.Now()
	status := models.StatusConfirmed
	if orig.Status == models.StatusPending {
		status = models.StatusPending
	}

	next := &models.Appointment{
		ID:               uuid.New().String(),
		CompanyID:        orig.CompanyID,
		BranchID:         orig.BranchID,
		ClientID:         orig.ClientID,
		StaffID:          staffID,
		ResourceID:       orig.ResourceID,
		Date:             input.Date,
		StartTime:        input.StartTime,
		EndTime:          endTime,
		TotalDuration:    orig.TotalDuration,
		Services:         orig.Services,
		Status:           status,
		Notes:            orig.Notes,
		RecurringGroupID: orig.RecurringGroupID,
		ChangeHistory: []models.ChangeEntry{{
			Timestamp: now,
			Actor:     actor,
			Summary:   "created by reschedule of " + orig.ID,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	release := se.slotLocks().acquire(
		staffKey(next.StaffID, next.Date),
		resourceKey(next.ResourceID, next.Date),
		clientKey(next.ClientID, next.Date),
		staffKey(orig.StaffID, orig.Date),
		resourceKey(orig.ResourceID, orig.Date),
		clientKey(orig.ClientID, orig.Date),
	)
	defer release()

	// The original stays active until the new slot is secured, so it is
	// excluded from detection and from the storage guard to allow
	// overlapping self-moves.
	if err := se.persistGuarded(ctx, next, orig.ID, false); err != nil {
		return nil, err
	}

	orig.Status = models.StatusRescheduled
	orig.RescheduledTo = next.ID
	orig.UpdatedAt = now
	orig.ChangeHistory = append(orig.ChangeHistory, models.ChangeEntry{
		Timestamp: now,
		Actor:     actor,
		Summary:   "rescheduled to " + next.ID,
	})
	if err := se.Appointments.Update(ctx, orig); err != nil {
		// Do not leave both records claiming a slot: withdraw the new one.
		next.Status = models.StatusCancelled
		next.CancelReason = "reschedule rollback"
		if rbErr := se.Appointments.Update(ctx, next); rbErr != nil {
			utils.GetLogger().Error("reschedule rollback failed",
				zap.String("appointmentId", next.ID), zap.Error(rbErr))
		}
		return nil, fmt.Errorf("failed to finalize reschedule: %w", err)
	}

	se.notifyBooked(*next)
	se.emit(*next, "appointment.rescheduled")
	return next, nil
}

func (se *DefaultSchedulingEngine) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := se.Appointments.GetByID(ctx, id)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, NotFoundError{Kind: "appointment", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (se *DefaultSchedulingEngine) ListAppointmentsForDay(ctx context.Context, branchID, date string) ([]models.Appointment, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, ValidationError{Field: "date", Reason: err.Error()}
	}
	return se.Appointments.FindByBranchDay(ctx, branchID, date)
}

// persistGuarded runs conflict detection and the guarded write as one unit.
// Callers hold the slot locks. A storage-level race (ErrSlotTaken) is retried
// once by re-running detection; the second loss surfaces as ConflictError.
func (se *DefaultSchedulingEngine) persistGuarded(ctx context.Context, appt *models.Appointment, excludeID string, update bool) error {
	cand := models.CandidateSlot{
		StaffID:              appt.StaffID,
		ResourceID:           appt.ResourceID,
		ClientID:             appt.ClientID,
		BranchID:             appt.BranchID,
		Date:                 appt.Date,
		StartTime:            appt.StartTime,
		TotalDuration:        appt.TotalDuration,
		ExcludeAppointmentID: excludeID,
	}
	if excludeID == "" {
		cand.ExcludeAppointmentID = appt.ID
	}

	for attempt := 0; ; attempt++ {
		conflicts, err := se.detectConflicts(ctx, cand)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ConflictError{Conflicts: conflicts}
		}

		if update {
			err = se.Appointments.Update(ctx, appt)
		} else {
			err = se.Appointments.Create(ctx, appt, excludeID)
		}
		if err == nil {
			return nil
		}
		if !errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return se.mapRepoError(err, appt)
		}
		if attempt >= 1 {
			// Second loss: report the race as an ordinary conflict.
			return ConflictError{Conflicts: []models.Conflict{raceConflict(appt)}}
		}
		utils.GetLogger().Debug("lost booking race, re-running detection",
			zap.String("appointmentId", appt.ID),
			zap.String("date", appt.Date))
	}
}

func raceConflict(appt *models.Appointment) models.Conflict {
	c := models.Conflict{
		Message: "slot was claimed by a concurrent booking",
		StaffID: appt.StaffID,
	}
	if appt.StaffID != "" {
		c.Kind = models.ConflictStaffUnavailable
	} else {
		c.Kind = models.ConflictClientDoubleBooking
	}
	return c
}

func (se *DefaultSchedulingEngine) mapRepoError(err error, appt *models.Appointment) error {
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return NotFoundError{Kind: "appointment", ID: appt.ID}
	}
	if errors.Is(err, appointmentRepo.ErrSlotTaken) {
		return ConcurrencyError{Key: appt.StaffID + ":" + appt.Date}
	}
	return err
}

func validateCreateInput(input models.CreateAppointmentInput) error {
	switch {
	case input.CompanyID == "":
		return ValidationError{Field: "companyId", Reason: "required"}
	case input.BranchID == "":
		return ValidationError{Field: "branchId", Reason: "required"}
	case input.ClientID == "":
		return ValidationError{Field: "clientId", Reason: "required"}
	case input.Date == "":
		return ValidationError{Field: "date", Reason: "required"}
	case input.StartTime == "":
		return ValidationError{Field: "startTime", Reason: "required"}
	case input.TotalDuration <= 0:
		return ValidationError{Field: "totalDuration", Reason: "must be positive"}
	case len(input.Services) == 0:
		return ValidationError{Field: "services", Reason: "at least one service is required"}
	}
	if _, err := utils.ParseDate(input.Date); err != nil {
		return ValidationError{Field: "date", Reason: err.Error()}
	}
	if _, err := utils.ParseClock(input.StartTime); err != nil {
		return ValidationError{Field: "startTime", Reason: err.Error()}
	}
	if input.IsRecurring {
		if input.Recurrence == nil {
			return ValidationError{Field: "recurrence", Reason: "required for recurring appointments"}
		}
		if input.Recurrence.Interval < 1 {
			return ValidationError{Field: "recurrence.interval", Reason: "must be at least 1"}
		}
		switch input.Recurrence.Type {
		case models.RecurDaily, models.RecurWeekly, models.RecurMonthly:
		default:
			return ValidationError{Field: "recurrence.type", Reason: "must be DAILY, WEEKLY, or MONTHLY"}
		}
	}
	return nil
}

// notifyBooked hands confirmation and reminder scheduling to the dispatcher.
// Failures are observability concerns, never booking failures.
func (se *DefaultSchedulingEngine) notifyBooked(appt models.Appointment) {
	if se.Notifier == nil {
		return
	}
	offsets := se.ReminderOffsets
	channel := se.ReminderChannel
	if channel == "" {
		channel = "sms"
	}
	go func() {
		ctx := context.Background()
		if err := se.Notifier.SendConfirmation(ctx, appt); err != nil {
			utils.GetLogger().Warn("confirmation dispatch failed",
				zap.String("appointmentId", appt.ID), zap.Error(err))
		}
		for _, offset := range offsets {
			if err := se.Notifier.ScheduleReminder(ctx, appt, channel, offset); err != nil {
				utils.GetLogger().Warn("reminder dispatch failed",
					zap.String("appointmentId", appt.ID),
					zap.Int("offsetMinutes", offset), zap.Error(err))
			}
		}
	}()
}

// emit broadcasts an appointment event; best effort.
func (se *DefaultSchedulingEngine) emit(appt models.Appointment, eventType string) {
	if se.Broadcaster == nil {
		return
	}
	event := models.RealtimeEvent{
		CompanyID: appt.CompanyID,
		BranchID:  appt.BranchID,
		Type:      eventType,
		Payload:   appt,
	}
	go func() {
		if err := se.Broadcaster.Emit(context.Background(), event); err != nil {
			utils.GetLogger().Debug("broadcast failed",
				zap.String("type", eventType), zap.Error(err))
		}
	}()
}
