package models

import "time"

// AppointmentStatus enumerates the lifecycle states of an appointment.
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "PENDING"
	StatusConfirmed   AppointmentStatus = "CONFIRMED"
	StatusArrived     AppointmentStatus = "ARRIVED"
	StatusInProgress  AppointmentStatus = "IN_PROGRESS"
	StatusCompleted   AppointmentStatus = "COMPLETED"
	StatusCancelled   AppointmentStatus = "CANCELLED"
	StatusNoShow      AppointmentStatus = "NO_SHOW"
	StatusRescheduled AppointmentStatus = "RESCHEDULED"
)

// Active reports whether the status still occupies its slot for conflict purposes.
func (s AppointmentStatus) Active() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusArrived, StatusInProgress:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from the status.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

// ServiceItem is one line of the ordered service list on an appointment.
type ServiceItem struct {
	ServiceID string  `bson:"serviceId" json:"serviceId"`
	Duration  int     `bson:"duration" json:"duration"` // minutes
	Price     float64 `bson:"price" json:"price"`
}

// ChangeEntry is one record in an appointment's append-only change history.
type ChangeEntry struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Actor     string    `bson:"actor" json:"actor"`
	Summary   string    `bson:"summary" json:"summary"`
}

// Appointment is a time-boxed booking of a staff member (and optionally a
// resource) for a client at a branch. StartTime/EndTime are "HH:MM" wall
// time local to the branch; EndTime is always StartTime plus TotalDuration.
type Appointment struct {
	ID            string            `bson:"id" json:"id"`
	CompanyID     string            `bson:"companyId" json:"companyId"`
	BranchID      string            `bson:"branchId" json:"branchId"`
	ClientID      string            `bson:"clientId" json:"clientId"`
	StaffID       string            `bson:"staffId,omitempty" json:"staffId,omitempty"`
	ResourceID    string            `bson:"resourceId,omitempty" json:"resourceId,omitempty"`
	Date          string            `bson:"date" json:"date"`           // "2006-01-02"
	StartTime     string            `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime       string            `bson:"endTime" json:"endTime"`     // "HH:MM"
	TotalDuration int               `bson:"totalDuration" json:"totalDuration"` // minutes
	Services      []ServiceItem     `bson:"services" json:"services"`
	Status        AppointmentStatus `bson:"status" json:"status"`
	Notes         string            `bson:"notes,omitempty" json:"notes,omitempty"`

	// RecurringGroupID points at the first appointment of the series.
	RecurringGroupID string `bson:"recurringGroupId,omitempty" json:"recurringGroupId,omitempty"`
	// RescheduledTo points at the successor appointment once this record is RESCHEDULED.
	RescheduledTo string `bson:"rescheduledTo,omitempty" json:"rescheduledTo,omitempty"`

	CancelReason string     `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CancelledBy  string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelledAt  *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	ChangeHistory []ChangeEntry `bson:"changeHistory" json:"changeHistory"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}
