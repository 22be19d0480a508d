package scheduling

import (
	"context"
	"sort"

	"schedly/models"
	"schedly/utils"
)

// GetAvailableSlots generates candidate slots for one staff member, or for
// every eligible staff member in browse mode (StaffID empty). Output is
// deterministic for the same inputs and never mutates persisted state.
func (se *DefaultSchedulingEngine) GetAvailableSlots(ctx context.Context, req models.AvailabilityRequest) ([]models.TimeSlot, error) {
	if req.Duration <= 0 {
		return nil, ValidationError{Field: "duration", Reason: "must be positive"}
	}
	if _, err := utils.ParseDate(req.Date); err != nil {
		return nil, ValidationError{Field: "date", Reason: err.Error()}
	}
	granularity := req.Granularity
	if granularity <= 0 {
		granularity = se.granularity()
	}

	staffIDs := req.StaffIDs
	if req.StaffID != "" {
		staffIDs = []string{req.StaffID}
	}
	if len(staffIDs) == 0 {
		var err error
		staffIDs, err = se.Schedules.ListStaffForBranch(ctx, req.BranchID)
		if err != nil {
			return nil, err
		}
	}

	var slots []models.TimeSlot
	for _, staffID := range staffIDs {
		staffSlots, err := se.staffDaySlots(ctx, req.BranchID, staffID, req.Date, req.Duration, granularity)
		if err != nil {
			return nil, err
		}
		slots = append(slots, staffSlots...)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].StartTime == slots[j].StartTime {
			return slots[i].StaffID < slots[j].StaffID
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots, nil
}

// staffDaySlots walks one staff member's effective working window for the
// date in granularity steps. Candidates that would extend past the window's
// end are not emitted.
func (se *DefaultSchedulingEngine) staffDaySlots(ctx context.Context, branchID, staffID, date string, duration, granularity int) ([]models.TimeSlot, error) {
	sched, err := se.Schedules.FindWorkingSchedule(ctx, staffID, branchID, date)
	if err != nil {
		return nil, err
	}
	if sched == nil || !sched.IsWorking {
		return []models.TimeSlot{wholeDaySlot(date, staffID, "not working")}, nil
	}

	timeOff, err := se.Schedules.FindApprovedTimeOff(ctx, staffID, date)
	if err != nil {
		return nil, err
	}
	if timeOff != nil {
		return []models.TimeSlot{wholeDaySlot(date, staffID, "time off")}, nil
	}

	window, err := spanOf(sched.StartTime, sched.EndTime)
	if err != nil {
		return nil, err
	}
	breaks, err := breakSpans(sched.Breaks, window)
	if err != nil {
		return nil, err
	}

	appts, err := se.Appointments.FindActiveByStaff(ctx, staffID, date)
	if err != nil {
		return nil, err
	}
	booked := make([]span, 0, len(appts))
	for _, appt := range appts {
		s, err := appointmentSpan(appt)
		if err != nil {
			return nil, err
		}
		booked = append(booked, s)
	}

	var slots []models.TimeSlot
	for t := window.start; t+duration <= window.end; t += granularity {
		candidate := span{start: t, end: t + duration}
		slot := models.TimeSlot{
			Date:      date,
			StartTime: utils.FormatClock(candidate.start),
			EndTime:   utils.FormatClock(candidate.end),
			Available: true,
			StaffID:   staffID,
		}
		if hit := firstOverlap(candidate, breaks); hit {
			slot.Available = false
			slot.Reasons = []string{"break"}
		} else if hit := firstOverlap(candidate, booked); hit {
			slot.Available = false
			slot.Reasons = []string{"booked"}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func firstOverlap(candidate span, against []span) bool {
	for _, s := range against {
		if candidate.overlaps(s) {
			return true
		}
	}
	return false
}

func wholeDaySlot(date, staffID, reason string) models.TimeSlot {
	return models.TimeSlot{
		Date:      date,
		StartTime: "00:00",
		EndTime:   "23:59",
		Available: false,
		StaffID:   staffID,
		Reasons:   []string{reason},
	}
}
