package models

// BreakInterval is a pause inside a working or operating window, "HH:MM" bounds.
type BreakInterval struct {
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
}

// WorkingSchedule describes when a staff member works at a branch.
//
// A weekly record applies to every date matching DayOfWeek inside the
// [StartDate, EndDate] validity window (empty EndDate = open-ended). A record
// with OverrideDate set is pinned to that single date and takes precedence
// over the weekly record for it.
type WorkingSchedule struct {
	ID           string          `bson:"id" json:"id"`
	StaffID      string          `bson:"staffId" json:"staffId"`
	BranchID     string          `bson:"branchId" json:"branchId"`
	DayOfWeek    int             `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartDate    string          `bson:"startDate" json:"startDate"`
	EndDate      string          `bson:"endDate,omitempty" json:"endDate,omitempty"`
	OverrideDate string          `bson:"overrideDate,omitempty" json:"overrideDate,omitempty"`
	IsWorking    bool            `bson:"isWorking" json:"isWorking"`
	StartTime    string          `bson:"startTime" json:"startTime"`
	EndTime      string          `bson:"endTime" json:"endTime"`
	Breaks       []BreakInterval `bson:"breaks,omitempty" json:"breaks,omitempty"`
}

// TimeOff is a staff absence over an inclusive date range. Only approved
// time-off blocks bookings, and it blocks the whole day.
type TimeOff struct {
	ID        string `bson:"id" json:"id"`
	StaffID   string `bson:"staffId" json:"staffId"`
	StartDate string `bson:"startDate" json:"startDate"`
	EndDate   string `bson:"endDate" json:"endDate"`
	Status    string `bson:"status" json:"status"` // "pending", "approved", "rejected"
	Reason    string `bson:"reason,omitempty" json:"reason,omitempty"`
}

const TimeOffApproved = "approved"

// DayHours is a branch's operating window for one day of the week,
// independent of any staff schedule.
type DayHours struct {
	BranchID  string          `bson:"branchId" json:"branchId"`
	DayOfWeek int             `bson:"dayOfWeek" json:"dayOfWeek"`
	IsOpen    bool            `bson:"isOpen" json:"isOpen"`
	OpenTime  string          `bson:"openTime" json:"openTime"`
	CloseTime string          `bson:"closeTime" json:"closeTime"`
	Breaks    []BreakInterval `bson:"breaks,omitempty" json:"breaks,omitempty"`
}
