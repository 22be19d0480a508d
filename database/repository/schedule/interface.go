package scheduleRepo

import (
	"context"

	"schedly/models"
)

// ScheduleRepository is the read side of the scheduling engine: working
// schedules (with date-pinned overrides), approved time-off, and branch
// operating hours. All lookups are per-date; a nil result with nil error
// means no record applies.
type ScheduleRepository interface {
	// FindWorkingSchedule resolves the effective record for the date: an
	// override pinned to that date wins over the weekly record for its day
	// of week whose validity window contains the date.
	FindWorkingSchedule(ctx context.Context, staffID, branchID, date string) (*models.WorkingSchedule, error)
	// FindApprovedTimeOff returns an approved absence covering the date.
	FindApprovedTimeOff(ctx context.Context, staffID, date string) (*models.TimeOff, error)
	// FindOperatingHours returns the branch hours for the date's day of week.
	FindOperatingHours(ctx context.Context, branchID, date string) (*models.DayHours, error)
	// ListStaffForBranch returns the staff ids with any schedule at a branch,
	// used by browse-mode availability.
	ListStaffForBranch(ctx context.Context, branchID string) ([]string, error)
}
