package models

// CreateAppointmentInput is the payload for booking a new appointment.
// StaffEntered bookings start CONFIRMED; client-facing ones start PENDING.
type CreateAppointmentInput struct {
	CompanyID     string             `json:"companyId"`
	BranchID      string             `json:"branchId"`
	ClientID      string             `json:"clientId"`
	StaffID       string             `json:"staffId,omitempty"`
	ResourceID    string             `json:"resourceId,omitempty"`
	Date          string             `json:"date"`
	StartTime     string             `json:"startTime"`
	TotalDuration int                `json:"totalDuration"`
	Services      []ServiceItem      `json:"services"`
	Notes         string             `json:"notes,omitempty"`
	StaffEntered  bool               `json:"staffEntered,omitempty"`
	IsRecurring   bool               `json:"isRecurring,omitempty"`
	Recurrence    *RecurrencePattern `json:"recurrence,omitempty"`
}

// UpdateAppointmentInput carries a partial update; nil fields are unchanged.
type UpdateAppointmentInput struct {
	Date          *string        `json:"date,omitempty"`
	StartTime     *string        `json:"startTime,omitempty"`
	StaffID       *string        `json:"staffId,omitempty"`
	ResourceID    *string        `json:"resourceId,omitempty"`
	TotalDuration *int           `json:"totalDuration,omitempty"`
	Services      *[]ServiceItem `json:"services,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

// RescheduleInput moves an appointment to a new slot. The original record is
// marked RESCHEDULED and a fresh record is created at the new slot.
type RescheduleInput struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	StaffID   string `json:"staffId,omitempty"` // empty keeps the original staff
}

// CreateAppointmentResult pairs the persisted appointment with the outcome of
// recurring expansion, when one was requested.
type CreateAppointmentResult struct {
	Appointment *Appointment      `json:"appointment"`
	Recurrence  *RecurrenceResult `json:"recurrence,omitempty"`
}
