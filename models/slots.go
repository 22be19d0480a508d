package models

// TimeSlot is a candidate interval produced by the availability calculator.
// It is a computed view, never a stored entity.
type TimeSlot struct {
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Available bool     `json:"available"`
	StaffID   string   `json:"staffId,omitempty"`
	Reasons   []string `json:"reasons,omitempty"`
}

// AvailabilityRequest asks for bookable slots for one staff member (or, in
// browse mode, a set of eligible staff) on a single date.
type AvailabilityRequest struct {
	BranchID    string   `json:"branchId"`
	StaffID     string   `json:"staffId,omitempty"`
	StaffIDs    []string `json:"staffIds,omitempty"` // browse mode; used when StaffID is empty
	Date        string   `json:"date"`
	Duration    int      `json:"duration"`              // minutes
	Granularity int      `json:"granularity,omitempty"` // minutes between candidate starts, default 30
}
