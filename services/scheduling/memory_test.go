package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"

	appointmentRepo "schedly/database/repository/appointment"
	"schedly/models"
	"schedly/utils"
)

// fakeAppointmentRepo is an in-memory AppointmentRepository. Like the Mongo
// implementation, Create and Update re-check the overlap exclusion atomically
// and return ErrSlotTaken on a lost race.
type fakeAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[string]models.Appointment)}
}

func (r *fakeAppointmentRepo) collides(appt *models.Appointment, excludeID string) (bool, error) {
	cand, err := appointmentSpan(*appt)
	if err != nil {
		return false, err
	}
	for id, other := range r.appts {
		if id == appt.ID || id == excludeID || !other.Status.Active() || other.Date != appt.Date {
			continue
		}
		sameStaff := appt.StaffID != "" && other.StaffID == appt.StaffID
		sameResource := appt.ResourceID != "" && other.ResourceID == appt.ResourceID
		sameClient := other.ClientID == appt.ClientID
		if !sameStaff && !sameResource && !sameClient {
			continue
		}
		existing, err := appointmentSpan(other)
		if err != nil {
			return false, err
		}
		if existing.overlaps(cand) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *models.Appointment, excludeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[appt.ID]; ok {
		return fmt.Errorf("duplicate appointment id %s", appt.ID)
	}
	if appt.Status.Active() {
		taken, err := r.collides(appt, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return appointmentRepo.ErrSlotTaken
		}
	}
	r.appts[appt.ID] = *appt
	return nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[appt.ID]; !ok {
		return appointmentRepo.ErrNotFound
	}
	if appt.Status.Active() {
		taken, err := r.collides(appt, "")
		if err != nil {
			return err
		}
		if taken {
			return appointmentRepo.ErrSlotTaken
		}
	}
	r.appts[appt.ID] = *appt
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	out := appt
	return &out, nil
}

func (r *fakeAppointmentRepo) findActive(match func(models.Appointment) bool) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.appts {
		if appt.Status.Active() && match(appt) {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

func (r *fakeAppointmentRepo) FindActiveByStaff(_ context.Context, staffID, date string) ([]models.Appointment, error) {
	return r.findActive(func(a models.Appointment) bool {
		return a.StaffID == staffID && a.Date == date
	}), nil
}

func (r *fakeAppointmentRepo) FindActiveByResource(_ context.Context, resourceID, date string) ([]models.Appointment, error) {
	return r.findActive(func(a models.Appointment) bool {
		return a.ResourceID == resourceID && a.Date == date
	}), nil
}

func (r *fakeAppointmentRepo) FindActiveByClient(_ context.Context, clientID, date string) ([]models.Appointment, error) {
	return r.findActive(func(a models.Appointment) bool {
		return a.ClientID == clientID && a.Date == date
	}), nil
}

func (r *fakeAppointmentRepo) FindByBranchDay(_ context.Context, branchID, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.appts {
		if appt.BranchID == branchID && appt.Date == date {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *fakeAppointmentRepo) FindByRecurringGroup(_ context.Context, groupID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.appts {
		if appt.RecurringGroupID == groupID {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appts)
}

// fakeScheduleRepo is an in-memory ScheduleRepository with the same override
// precedence and validity-window rules as the Mongo implementation.
type fakeScheduleRepo struct {
	schedules []models.WorkingSchedule
	timeOff   []models.TimeOff
	hours     []models.DayHours
	staff     map[string][]string
}

func (r *fakeScheduleRepo) FindWorkingSchedule(_ context.Context, staffID, branchID, date string) (*models.WorkingSchedule, error) {
	for i := range r.schedules {
		s := r.schedules[i]
		if s.StaffID == staffID && s.BranchID == branchID && s.OverrideDate == date {
			return &s, nil
		}
	}
	dow, err := utils.Weekday(date)
	if err != nil {
		return nil, err
	}
	for i := range r.schedules {
		s := r.schedules[i]
		if s.StaffID != staffID || s.BranchID != branchID || s.OverrideDate != "" || s.DayOfWeek != dow {
			continue
		}
		if s.StartDate != "" && date < s.StartDate {
			continue
		}
		if s.EndDate != "" && date > s.EndDate {
			continue
		}
		return &s, nil
	}
	return nil, nil
}

func (r *fakeScheduleRepo) FindApprovedTimeOff(_ context.Context, staffID, date string) (*models.TimeOff, error) {
	for i := range r.timeOff {
		t := r.timeOff[i]
		if t.StaffID == staffID && t.Status == models.TimeOffApproved &&
			t.StartDate <= date && date <= t.EndDate {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeScheduleRepo) FindOperatingHours(_ context.Context, branchID, date string) (*models.DayHours, error) {
	dow, err := utils.Weekday(date)
	if err != nil {
		return nil, err
	}
	for i := range r.hours {
		h := r.hours[i]
		if h.BranchID == branchID && h.DayOfWeek == dow {
			return &h, nil
		}
	}
	return nil, nil
}

func (r *fakeScheduleRepo) ListStaffForBranch(_ context.Context, branchID string) ([]string, error) {
	return r.staff[branchID], nil
}

const (
	testCompany = "comp-1"
	testBranch  = "branch-1"
	testStaff   = "staff-1"
	testClient  = "client-1"

	// A Monday; the weekly recurrence tests step through the following Mondays.
	testDate = "2026-03-02"
)

// seededScheduleRepo returns a schedule repo where testStaff works 09:00-17:00
// every day with a 12:00-13:00 break, at a branch open 08:00-20:00.
func seededScheduleRepo() *fakeScheduleRepo {
	r := &fakeScheduleRepo{staff: map[string][]string{testBranch: {testStaff}}}
	for dow := 0; dow < 7; dow++ {
		r.schedules = append(r.schedules, models.WorkingSchedule{
			ID:        fmt.Sprintf("ws-%d", dow),
			StaffID:   testStaff,
			BranchID:  testBranch,
			DayOfWeek: dow,
			StartDate: "2026-01-01",
			IsWorking: true,
			StartTime: "09:00",
			EndTime:   "17:00",
			Breaks:    []models.BreakInterval{{StartTime: "12:00", EndTime: "13:00"}},
		})
		r.hours = append(r.hours, models.DayHours{
			BranchID:  testBranch,
			DayOfWeek: dow,
			IsOpen:    true,
			OpenTime:  "08:00",
			CloseTime: "20:00",
		})
	}
	return r
}

func newTestEngine(sched *fakeScheduleRepo) (*DefaultSchedulingEngine, *fakeAppointmentRepo) {
	appts := newFakeAppointmentRepo()
	return NewDefaultSchedulingEngine(appts, sched, nil, nil), appts
}

func baseInput() models.CreateAppointmentInput {
	return models.CreateAppointmentInput{
		CompanyID:     testCompany,
		BranchID:      testBranch,
		ClientID:      testClient,
		StaffID:       testStaff,
		Date:          testDate,
		StartTime:     "09:00",
		TotalDuration: 60,
		Services:      []models.ServiceItem{{ServiceID: "svc-cut", Duration: 60, Price: 40}},
	}
}
