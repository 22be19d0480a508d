package scheduling

import (
	"context"
	"errors"
	"time"

	"schedly/models"
	"schedly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// expandSeries generates the follow-up occurrences of a recurring series
// after the first appointment has been persisted. Occurrence positions are
// fixed by the pattern; a date that is excluded or conflicted is skipped and
// the series continues. Expansion is best effort and never fails the
// already-committed original.
func (se *DefaultSchedulingEngine) expandSeries(ctx context.Context, original *models.Appointment, pattern models.RecurrencePattern, actor string) *models.RecurrenceResult {
	result := &models.RecurrenceResult{}
	logger := utils.GetLogger()

	maxOccurrences := pattern.MaxOccurrences
	if maxOccurrences <= 0 {
		maxOccurrences = models.DefaultMaxOccurrences
	}

	startDate, err := utils.ParseDate(original.Date)
	if err != nil {
		logger.Error("recurring expansion aborted: bad original date",
			zap.String("appointmentId", original.ID), zap.Error(err))
		return result
	}

	var endDate time.Time
	hasEnd := false
	if pattern.EndDate != "" {
		endDate, err = utils.ParseDate(pattern.EndDate)
		if err != nil {
			logger.Error("recurring expansion aborted: bad end date",
				zap.String("appointmentId", original.ID), zap.Error(err))
			return result
		}
		hasEnd = true
	}

	excluded := make(map[string]bool, len(pattern.ExcludeDates))
	for _, d := range pattern.ExcludeDates {
		excluded[d] = true
	}

	current := startDate
	// The original is occurrence 1.
	for occurrence := 2; occurrence <= maxOccurrences; occurrence++ {
		current = advance(current, pattern)
		if hasEnd && current.After(endDate) {
			break
		}
		date := current.Format(utils.DateLayout)
		if excluded[date] {
			continue
		}

		created, skipped := se.bookOccurrence(ctx, original, date, actor)
		if skipped != nil {
			result.Skipped = append(result.Skipped, *skipped)
			continue
		}
		result.CreatedIDs = append(result.CreatedIDs, created)
	}

	if len(result.Skipped) > 0 {
		logger.Info("recurring series partially created",
			zap.String("groupId", original.RecurringGroupID),
			zap.Int("created", len(result.CreatedIDs)),
			zap.Int("skipped", len(result.Skipped)))
	}
	return result
}

func advance(t time.Time, pattern models.RecurrencePattern) time.Time {
	switch pattern.Type {
	case models.RecurDaily:
		return t.AddDate(0, 0, pattern.Interval)
	case models.RecurWeekly:
		return t.AddDate(0, 0, 7*pattern.Interval)
	case models.RecurMonthly:
		return t.AddDate(0, pattern.Interval, 0)
	}
	return t
}

// bookOccurrence runs one series date through full conflict detection and the
// guarded insert, under the same locks as a standalone booking.
func (se *DefaultSchedulingEngine) bookOccurrence(ctx context.Context, original *models.Appointment, date, actor string) (string, *models.SkippedOccurrence) {
	now := time.Now()
	appt := &models.Appointment{
		ID:               uuid.New().String(),
		CompanyID:        original.CompanyID,
		BranchID:         original.BranchID,
		ClientID:         original.ClientID,
		StaffID:          original.StaffID,
		ResourceID:       original.ResourceID,
		Date:             date,
		StartTime:        original.StartTime,
		EndTime:          original.EndTime,
		TotalDuration:    original.TotalDuration,
		Services:         original.Services,
		Status:           original.Status,
		Notes:            original.Notes,
		RecurringGroupID: original.RecurringGroupID,
		ChangeHistory: []models.ChangeEntry{{
			Timestamp: now,
			Actor:     actor,
			Summary:   "created as part of recurring series " + original.RecurringGroupID,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	release := se.slotLocks().acquire(
		staffKey(appt.StaffID, appt.Date),
		resourceKey(appt.ResourceID, appt.Date),
		clientKey(appt.ClientID, appt.Date),
	)
	defer release()

	err := se.persistGuarded(ctx, appt, "", false)
	if err == nil {
		return appt.ID, nil
	}

	skipped := &models.SkippedOccurrence{Date: date}
	var ce ConflictError
	if errors.As(err, &ce) {
		skipped.Conflicts = ce.Conflicts
	} else {
		skipped.Error = err.Error()
	}
	return "", skipped
}
