package models

// ReminderPayload is the body of a queued reminder task.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	CompanyID     string `json:"companyId"`
	BranchID      string `json:"branchId"`
	ClientID      string `json:"clientId"`
	Channel       string `json:"channel"` // "sms", "whatsapp", "email"
	FireDate      string `json:"fireDate"`
	Title         string `json:"title"`
	Body          string `json:"body"`
}

// RealtimeEvent is broadcast to connected clients when an appointment changes.
type RealtimeEvent struct {
	CompanyID string `json:"companyId"`
	BranchID  string `json:"branchId"`
	Type      string `json:"type"` // e.g. "appointment.created"
	Payload   any    `json:"payload"`
}
