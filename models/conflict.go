package models

// ConflictKind classifies why a candidate slot cannot be booked.
type ConflictKind string

const (
	ConflictStaffUnavailable    ConflictKind = "STAFF_UNAVAILABLE"
	ConflictResourceUnavailable ConflictKind = "RESOURCE_UNAVAILABLE"
	ConflictClientDoubleBooking ConflictKind = "CLIENT_DOUBLE_BOOKING"
	ConflictBusinessHours       ConflictKind = "BUSINESS_HOURS"
)

// Conflict is returned synchronously by the conflict detector; it is never
// persisted.
type Conflict struct {
	Kind                     ConflictKind `json:"kind"`
	Message                  string       `json:"message"`
	StaffID                  string       `json:"staffId,omitempty"`
	ResourceID               string       `json:"resourceId,omitempty"`
	ConflictingAppointmentID string       `json:"conflictingAppointmentId,omitempty"`
}

// CandidateSlot is a fully-formed booking attempt handed to the conflict
// detector. ExcludeAppointmentID is set when re-validating an update so the
// record does not collide with itself.
type CandidateSlot struct {
	StaffID              string `json:"staffId,omitempty"`
	ResourceID           string `json:"resourceId,omitempty"`
	ClientID             string `json:"clientId"`
	BranchID             string `json:"branchId"`
	Date                 string `json:"date"`
	StartTime            string `json:"startTime"`
	TotalDuration        int    `json:"totalDuration"`
	ExcludeAppointmentID string `json:"excludeAppointmentId,omitempty"`
}
