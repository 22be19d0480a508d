package scheduling

import (
	"context"
	"fmt"

	"schedly/models"
)

// CheckSlotAvailability exposes conflict detection to callers in commit mode:
// an empty list means the candidate slot is bookable.
func (se *DefaultSchedulingEngine) CheckSlotAvailability(ctx context.Context, cand models.CandidateSlot) ([]models.Conflict, error) {
	return se.detectConflicts(ctx, cand)
}

// detectConflicts validates a fully-formed candidate against every booking
// dimension. The checks are independent and all of them run; conflicts
// accumulate rather than short-circuit.
func (se *DefaultSchedulingEngine) detectConflicts(ctx context.Context, cand models.CandidateSlot) ([]models.Conflict, error) {
	candidate, err := spanFrom(cand.StartTime, cand.TotalDuration)
	if err != nil {
		return nil, err
	}

	var conflicts []models.Conflict

	if cand.StaffID != "" {
		staffConflicts, err := se.checkStaff(ctx, cand, candidate)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, staffConflicts...)
	}

	if cand.ResourceID != "" {
		resourceConflicts, err := se.checkResource(ctx, cand, candidate)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, resourceConflicts...)
	}

	clientConflicts, err := se.checkClient(ctx, cand, candidate)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, clientConflicts...)

	hoursConflicts, err := se.checkBusinessHours(ctx, cand, candidate)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, hoursConflicts...)

	return conflicts, nil
}

// checkStaff verifies the staff member is working, not on time-off, that the
// candidate fits inside one contiguous working sub-window, and that no active
// appointment of theirs overlaps it.
func (se *DefaultSchedulingEngine) checkStaff(ctx context.Context, cand models.CandidateSlot, candidate span) ([]models.Conflict, error) {
	var conflicts []models.Conflict

	timeOff, err := se.Schedules.FindApprovedTimeOff(ctx, cand.StaffID, cand.Date)
	if err != nil {
		return nil, fmt.Errorf("time-off lookup failed: %w", err)
	}
	if timeOff != nil {
		conflicts = append(conflicts, models.Conflict{
			Kind:    models.ConflictStaffUnavailable,
			Message: fmt.Sprintf("staff member is on approved time off from %s to %s", timeOff.StartDate, timeOff.EndDate),
			StaffID: cand.StaffID,
		})
	}

	sched, err := se.Schedules.FindWorkingSchedule(ctx, cand.StaffID, cand.BranchID, cand.Date)
	if err != nil {
		return nil, fmt.Errorf("working schedule lookup failed: %w", err)
	}
	if sched == nil || !sched.IsWorking {
		conflicts = append(conflicts, models.Conflict{
			Kind:    models.ConflictStaffUnavailable,
			Message: "staff member is not working on this date",
			StaffID: cand.StaffID,
		})
	} else {
		windows, err := workingSubWindows(sched)
		if err != nil {
			return nil, err
		}
		fits := false
		for _, w := range windows {
			if w.contains(candidate) {
				fits = true
				break
			}
		}
		if !fits {
			conflicts = append(conflicts, models.Conflict{
				Kind:    models.ConflictStaffUnavailable,
				Message: "requested time is outside working hours",
				StaffID: cand.StaffID,
			})
		}
	}

	appts, err := se.Appointments.FindActiveByStaff(ctx, cand.StaffID, cand.Date)
	if err != nil {
		return nil, fmt.Errorf("staff appointment scan failed: %w", err)
	}
	for _, appt := range appts {
		if appt.ID == cand.ExcludeAppointmentID {
			continue
		}
		existing, err := appointmentSpan(appt)
		if err != nil {
			return nil, err
		}
		if existing.overlaps(candidate) {
			conflicts = append(conflicts, models.Conflict{
				Kind:                     models.ConflictStaffUnavailable,
				Message:                  fmt.Sprintf("staff member already booked %s-%s", appt.StartTime, appt.EndTime),
				StaffID:                  cand.StaffID,
				ConflictingAppointmentID: appt.ID,
			})
		}
	}

	return conflicts, nil
}

func (se *DefaultSchedulingEngine) checkResource(ctx context.Context, cand models.CandidateSlot, candidate span) ([]models.Conflict, error) {
	appts, err := se.Appointments.FindActiveByResource(ctx, cand.ResourceID, cand.Date)
	if err != nil {
		return nil, fmt.Errorf("resource appointment scan failed: %w", err)
	}

	var conflicts []models.Conflict
	for _, appt := range appts {
		if appt.ID == cand.ExcludeAppointmentID {
			continue
		}
		existing, err := appointmentSpan(appt)
		if err != nil {
			return nil, err
		}
		if existing.overlaps(candidate) {
			conflicts = append(conflicts, models.Conflict{
				Kind:                     models.ConflictResourceUnavailable,
				Message:                  fmt.Sprintf("resource already in use %s-%s", appt.StartTime, appt.EndTime),
				ResourceID:               cand.ResourceID,
				ConflictingAppointmentID: appt.ID,
			})
		}
	}
	return conflicts, nil
}

// checkClient runs regardless of staff or resource: a client cannot be in two
// places at once even with different staff.
func (se *DefaultSchedulingEngine) checkClient(ctx context.Context, cand models.CandidateSlot, candidate span) ([]models.Conflict, error) {
	appts, err := se.Appointments.FindActiveByClient(ctx, cand.ClientID, cand.Date)
	if err != nil {
		return nil, fmt.Errorf("client appointment scan failed: %w", err)
	}

	var conflicts []models.Conflict
	for _, appt := range appts {
		if appt.ID == cand.ExcludeAppointmentID {
			continue
		}
		existing, err := appointmentSpan(appt)
		if err != nil {
			return nil, err
		}
		if existing.overlaps(candidate) {
			conflicts = append(conflicts, models.Conflict{
				Kind:                     models.ConflictClientDoubleBooking,
				Message:                  fmt.Sprintf("client already has an appointment %s-%s", appt.StartTime, appt.EndTime),
				ConflictingAppointmentID: appt.ID,
			})
		}
	}
	return conflicts, nil
}

func (se *DefaultSchedulingEngine) checkBusinessHours(ctx context.Context, cand models.CandidateSlot, candidate span) ([]models.Conflict, error) {
	hours, err := se.Schedules.FindOperatingHours(ctx, cand.BranchID, cand.Date)
	if err != nil {
		return nil, fmt.Errorf("operating hours lookup failed: %w", err)
	}
	if hours == nil || !hours.IsOpen {
		return []models.Conflict{{
			Kind:    models.ConflictBusinessHours,
			Message: "branch is closed on this date",
		}}, nil
	}

	open, err := spanOf(hours.OpenTime, hours.CloseTime)
	if err != nil {
		return nil, err
	}
	if !open.contains(candidate) {
		return []models.Conflict{{
			Kind:    models.ConflictBusinessHours,
			Message: fmt.Sprintf("requested time is outside business hours %s-%s", hours.OpenTime, hours.CloseTime),
		}}, nil
	}
	return nil, nil
}
