package scheduling

import (
	"context"
	"testing"

	"schedly/models"
)

func mustCreate(t *testing.T, eng *DefaultSchedulingEngine, input models.CreateAppointmentInput) *models.Appointment {
	t.Helper()
	result, err := eng.CreateAppointment(context.Background(), input, "tester")
	if err != nil {
		t.Fatalf("CreateAppointment(%s %s) failed: %v", input.Date, input.StartTime, err)
	}
	return result.Appointment
}

func candidate(startTime string, duration int) models.CandidateSlot {
	return models.CandidateSlot{
		StaffID:       testStaff,
		ClientID:      testClient,
		BranchID:      testBranch,
		Date:          testDate,
		StartTime:     startTime,
		TotalDuration: duration,
	}
}

func hasKind(conflicts []models.Conflict, kind models.ConflictKind) bool {
	for _, c := range conflicts {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func TestCheckSlotAvailabilityOpenSlot(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())

	conflicts, err := eng.CheckSlotAvailability(context.Background(), candidate("10:00", 60))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %v", conflicts)
	}
}

func TestCheckSlotAvailabilityOverlap(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())
	mustCreate(t, eng, baseInput()) // 09:00-10:00

	cases := []struct {
		name      string
		startTime string
		duration  int
		conflict  bool
	}{
		{"identical slot", "09:00", 60, true},
		{"starts inside", "09:30", 60, true},
		{"ends inside", "08:30", 60, true}, // also outside working hours
		{"covers existing", "08:45", 120, true},
		{"touching end is free", "10:00", 60, false},
		{"well clear", "14:00", 60, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cand := candidate(tc.startTime, tc.duration)
			cand.ClientID = "client-2" // isolate the staff dimension
			conflicts, err := eng.CheckSlotAvailability(context.Background(), cand)
			if err != nil {
				t.Fatalf("CheckSlotAvailability failed: %v", err)
			}
			got := hasKind(conflicts, models.ConflictStaffUnavailable)
			if got != tc.conflict {
				t.Fatalf("staff conflict = %v, want %v (conflicts: %v)", got, tc.conflict, conflicts)
			}
		})
	}
}

func TestCheckSlotAvailabilityClientDoubleBooking(t *testing.T) {
	sched := seededScheduleRepo()
	sched.staff[testBranch] = append(sched.staff[testBranch], "staff-2")
	for dow := 0; dow < 7; dow++ {
		sched.schedules = append(sched.schedules, models.WorkingSchedule{
			StaffID: "staff-2", BranchID: testBranch, DayOfWeek: dow,
			StartDate: "2026-01-01", IsWorking: true, StartTime: "09:00", EndTime: "17:00",
		})
	}
	eng, _ := newTestEngine(sched)
	mustCreate(t, eng, baseInput()) // testClient with testStaff, 09:00-10:00

	// Same client, different staff, overlapping time.
	cand := candidate("09:30", 30)
	cand.StaffID = "staff-2"
	conflicts, err := eng.CheckSlotAvailability(context.Background(), cand)
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if !hasKind(conflicts, models.ConflictClientDoubleBooking) {
		t.Fatalf("expected CLIENT_DOUBLE_BOOKING, got %v", conflicts)
	}
	if hasKind(conflicts, models.ConflictStaffUnavailable) {
		t.Fatalf("staff-2 is free, unexpected staff conflict: %v", conflicts)
	}
}

func TestCheckSlotAvailabilityAccumulatesConflicts(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())
	mustCreate(t, eng, baseInput()) // 09:00-10:00

	// Overlaps the existing booking on both staff and client dimensions.
	conflicts, err := eng.CheckSlotAvailability(context.Background(), candidate("09:00", 60))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if !hasKind(conflicts, models.ConflictStaffUnavailable) {
		t.Errorf("missing STAFF_UNAVAILABLE in %v", conflicts)
	}
	if !hasKind(conflicts, models.ConflictClientDoubleBooking) {
		t.Errorf("missing CLIENT_DOUBLE_BOOKING in %v", conflicts)
	}
}

func TestCheckSlotAvailabilityWorkingHours(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())

	// Inside the 12:00-13:00 break.
	conflicts, err := eng.CheckSlotAvailability(context.Background(), candidate("12:00", 30))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if !hasKind(conflicts, models.ConflictStaffUnavailable) {
		t.Fatalf("break time should be unavailable, got %v", conflicts)
	}

	// Spanning the break from a working stretch.
	conflicts, err = eng.CheckSlotAvailability(context.Background(), candidate("11:30", 120))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if !hasKind(conflicts, models.ConflictStaffUnavailable) {
		t.Fatalf("slot spanning a break should be unavailable, got %v", conflicts)
	}

	// After the shift ends.
	conflicts, err = eng.CheckSlotAvailability(context.Background(), candidate("16:30", 60))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if !hasKind(conflicts, models.ConflictStaffUnavailable) {
		t.Fatalf("slot past end of shift should be unavailable, got %v", conflicts)
	}
}

func TestCheckSlotAvailabilityTimeOff(t *testing.T) {
	sched := seededScheduleRepo()
	sched.timeOff = append(sched.timeOff, models.TimeOff{
		StaffID:   testStaff,
		StartDate: testDate,
		EndDate:   testDate,
		Status:    models.TimeOffApproved,
	})
	eng, _ := newTestEngine(sched)

	conflicts, err := eng.CheckSlotAvailability(context.Background(), candidate("10:00", 60))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if !hasKind(conflicts, models.ConflictStaffUnavailable) {
		t.Fatalf("approved time off should block the day, got %v", conflicts)
	}
}

func TestCheckSlotAvailabilityPendingTimeOffIgnored(t *testing.T) {
	sched := seededScheduleRepo()
	sched.timeOff = append(sched.timeOff, models.TimeOff{
		StaffID:   testStaff,
		StartDate: testDate,
		EndDate:   testDate,
		Status:    "pending",
	})
	eng, _ := newTestEngine(sched)

	conflicts, err := eng.CheckSlotAvailability(context.Background(), candidate("10:00", 60))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("pending time off must not block bookings, got %v", conflicts)
	}
}

func TestCheckSlotAvailabilityBusinessHours(t *testing.T) {
	sched := seededScheduleRepo()
	// Branch closed on the test date's day of week.
	for i := range sched.hours {
		if sched.hours[i].DayOfWeek == 1 {
			sched.hours[i].IsOpen = false
		}
	}
	eng, _ := newTestEngine(sched)

	conflicts, err := eng.CheckSlotAvailability(context.Background(), candidate("10:00", 60))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if !hasKind(conflicts, models.ConflictBusinessHours) {
		t.Fatalf("closed branch should report BUSINESS_HOURS, got %v", conflicts)
	}
}

func TestCheckSlotAvailabilityResource(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())

	input := baseInput()
	input.ResourceID = "room-1"
	mustCreate(t, eng, input) // 09:00-10:00 holding room-1

	cand := models.CandidateSlot{
		ResourceID:    "room-1",
		ClientID:      "client-2",
		BranchID:      testBranch,
		Date:          testDate,
		StartTime:     "09:30",
		TotalDuration: 60,
	}
	conflicts, err := eng.CheckSlotAvailability(context.Background(), cand)
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if !hasKind(conflicts, models.ConflictResourceUnavailable) {
		t.Fatalf("expected RESOURCE_UNAVAILABLE, got %v", conflicts)
	}
}

func TestCheckSlotAvailabilityExcludesAppointment(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())
	appt := mustCreate(t, eng, baseInput()) // 09:00-10:00

	// Re-validating the record against itself must not self-collide.
	cand := candidate("09:30", 60)
	cand.ExcludeAppointmentID = appt.ID
	conflicts, err := eng.CheckSlotAvailability(context.Background(), cand)
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("excluded appointment must not conflict with itself, got %v", conflicts)
	}
}

func TestCancelledAppointmentFreesSlot(t *testing.T) {
	eng, _ := newTestEngine(seededScheduleRepo())
	appt := mustCreate(t, eng, baseInput())

	if _, err := eng.CancelAppointment(context.Background(), appt.ID, "client called", "tester"); err != nil {
		t.Fatalf("CancelAppointment failed: %v", err)
	}

	conflicts, err := eng.CheckSlotAvailability(context.Background(), candidate("09:00", 60))
	if err != nil {
		t.Fatalf("CheckSlotAvailability failed: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("cancelled appointment must free its slot, got %v", conflicts)
	}
}
