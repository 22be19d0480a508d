package scheduling

import (
	"context"
	"testing"

	"schedly/models"
)

func recurringInput(pattern models.RecurrencePattern) models.CreateAppointmentInput {
	input := baseInput()
	input.IsRecurring = true
	input.Recurrence = &pattern
	return input
}

func TestRecurringWeeklySeries(t *testing.T) {
	eng, appts := newTestEngine(seededScheduleRepo())

	result, err := eng.CreateAppointment(context.Background(), recurringInput(models.RecurrencePattern{
		Type:           models.RecurWeekly,
		Interval:       1,
		MaxOccurrences: 4,
	}), "tester")
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	if result.Recurrence == nil {
		t.Fatal("recurrence result missing")
	}
	if len(result.Recurrence.CreatedIDs) != 3 {
		t.Fatalf("created %d follow-ups, want 3", len(result.Recurrence.CreatedIDs))
	}
	if len(result.Recurrence.Skipped) != 0 {
		t.Fatalf("unexpected skips: %+v", result.Recurrence.Skipped)
	}

	group, err := appts.FindByRecurringGroup(context.Background(), result.Appointment.ID)
	if err != nil {
		t.Fatalf("FindByRecurringGroup failed: %v", err)
	}
	wantDates := []string{"2026-03-02", "2026-03-09", "2026-03-16", "2026-03-23"}
	if len(group) != len(wantDates) {
		t.Fatalf("series has %d members, want %d", len(group), len(wantDates))
	}
	for i, want := range wantDates {
		if group[i].Date != want {
			t.Errorf("series[%d].Date = %s, want %s", i, group[i].Date, want)
		}
		if group[i].StartTime != "09:00" {
			t.Errorf("series[%d].StartTime = %s, want 09:00", i, group[i].StartTime)
		}
		if group[i].RecurringGroupID != result.Appointment.ID {
			t.Errorf("series[%d] not linked to the group", i)
		}
	}
}

func TestRecurringExcludedDateConsumesPosition(t *testing.T) {
	eng, appts := newTestEngine(seededScheduleRepo())

	// Four weekly occurrences with the third date excluded: the series still
	// ends at the fourth position, leaving three appointments in total.
	result, err := eng.CreateAppointment(context.Background(), recurringInput(models.RecurrencePattern{
		Type:           models.RecurWeekly,
		Interval:       1,
		MaxOccurrences: 4,
		ExcludeDates:   []string{"2026-03-16"},
	}), "tester")
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	if len(result.Recurrence.CreatedIDs) != 2 {
		t.Fatalf("created %d follow-ups, want 2", len(result.Recurrence.CreatedIDs))
	}
	if len(result.Recurrence.Skipped) != 0 {
		t.Fatalf("excluded dates must not be reported as skipped: %+v", result.Recurrence.Skipped)
	}

	group, _ := appts.FindByRecurringGroup(context.Background(), result.Appointment.ID)
	wantDates := []string{"2026-03-02", "2026-03-09", "2026-03-23"}
	if len(group) != len(wantDates) {
		t.Fatalf("series has %d members, want %d", len(group), len(wantDates))
	}
	for i, want := range wantDates {
		if group[i].Date != want {
			t.Errorf("series[%d].Date = %s, want %s", i, group[i].Date, want)
		}
	}
}

func TestRecurringConflictSkipsAndContinues(t *testing.T) {
	eng, appts := newTestEngine(seededScheduleRepo())

	// Occupy the third occurrence's slot with another client.
	blocker := baseInput()
	blocker.ClientID = "client-2"
	blocker.Date = "2026-03-16"
	mustCreate(t, eng, blocker)

	result, err := eng.CreateAppointment(context.Background(), recurringInput(models.RecurrencePattern{
		Type:           models.RecurWeekly,
		Interval:       1,
		MaxOccurrences: 4,
	}), "tester")
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	if len(result.Recurrence.CreatedIDs) != 2 {
		t.Fatalf("created %d follow-ups, want 2", len(result.Recurrence.CreatedIDs))
	}
	if len(result.Recurrence.Skipped) != 1 {
		t.Fatalf("skipped %d dates, want 1", len(result.Recurrence.Skipped))
	}
	skipped := result.Recurrence.Skipped[0]
	if skipped.Date != "2026-03-16" {
		t.Fatalf("skipped date = %s, want 2026-03-16", skipped.Date)
	}
	if !hasKind(skipped.Conflicts, models.ConflictStaffUnavailable) {
		t.Fatalf("skipped entry carries no staff conflict: %+v", skipped)
	}

	// The occurrence after the conflicted one was still created.
	group, _ := appts.FindByRecurringGroup(context.Background(), result.Appointment.ID)
	found := false
	for _, appt := range group {
		if appt.Date == "2026-03-23" {
			found = true
		}
	}
	if !found {
		t.Fatal("series did not continue past the conflicted date")
	}
}

func TestRecurringEndDateStopsSeries(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())

	result, err := eng.CreateAppointment(context.Background(), recurringInput(models.RecurrencePattern{
		Type:           models.RecurWeekly,
		Interval:       1,
		MaxOccurrences: 10,
		EndDate:        "2026-03-10",
	}), "tester")
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	// Only 2026-03-09 fits before the end date.
	if len(result.Recurrence.CreatedIDs) != 1 {
		t.Fatalf("created %d follow-ups, want 1", len(result.Recurrence.CreatedIDs))
	}
}

func TestRecurringDailyInterval(t *testing.T) {
	eng, appts := newTestEngine(seededScheduleRepo())

	result, err := eng.CreateAppointment(context.Background(), recurringInput(models.RecurrencePattern{
		Type:           models.RecurDaily,
		Interval:       2,
		MaxOccurrences: 3,
	}), "tester")
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	group, _ := appts.FindByRecurringGroup(context.Background(), result.Appointment.ID)
	wantDates := []string{"2026-03-02", "2026-03-04", "2026-03-06"}
	if len(group) != len(wantDates) {
		t.Fatalf("series has %d members, want %d", len(group), len(wantDates))
	}
	for i, want := range wantDates {
		if group[i].Date != want {
			t.Errorf("series[%d].Date = %s, want %s", i, group[i].Date, want)
		}
	}
}

func TestRecurringMonthlyInterval(t *testing.T) {
	eng, appts := newTestEngine(seededScheduleRepo())

	result, err := eng.CreateAppointment(context.Background(), recurringInput(models.RecurrencePattern{
		Type:           models.RecurMonthly,
		Interval:       1,
		MaxOccurrences: 3,
	}), "tester")
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	group, _ := appts.FindByRecurringGroup(context.Background(), result.Appointment.ID)
	wantDates := []string{"2026-03-02", "2026-04-02", "2026-05-02"}
	if len(group) != len(wantDates) {
		t.Fatalf("series has %d members, want %d", len(group), len(wantDates))
	}
	for i, want := range wantDates {
		if group[i].Date != want {
			t.Errorf("series[%d].Date = %s, want %s", i, group[i].Date, want)
		}
	}
}

func TestRecurringValidation(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())

	_, err := eng.CreateAppointment(context.Background(), recurringInput(models.RecurrencePattern{
		Type: models.RecurWeekly, Interval: 0,
	}), "tester")
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("zero interval should be a ValidationError, got %v", err)
	}

	_, err = eng.CreateAppointment(context.Background(), recurringInput(models.RecurrencePattern{
		Type: "YEARLY", Interval: 1,
	}), "tester")
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("unknown recurrence type should be a ValidationError, got %v", err)
	}
}
