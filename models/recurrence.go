package models

// RecurrenceType is the unit a recurring series advances by.
type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "DAILY"
	RecurWeekly  RecurrenceType = "WEEKLY"
	RecurMonthly RecurrenceType = "MONTHLY"
)

// DefaultMaxOccurrences caps a series when the pattern sets no explicit limit.
// The original appointment counts as occurrence one.
const DefaultMaxOccurrences = 52

// RecurrencePattern describes how follow-up occurrences are generated from
// the first appointment of a series.
type RecurrencePattern struct {
	Type           RecurrenceType `json:"type"`
	Interval       int            `json:"interval"` // >= 1
	EndDate        string         `json:"endDate,omitempty"`
	MaxOccurrences int            `json:"maxOccurrences,omitempty"`
	ExcludeDates   []string       `json:"excludeDates,omitempty"`
}

// SkippedOccurrence records a series date that could not be booked and why.
type SkippedOccurrence struct {
	Date      string     `json:"date"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// RecurrenceResult is the outcome of expanding a series: ids of the created
// occurrences (the original excluded) plus every date that was skipped.
// Expansion is best effort; a skipped date never aborts the series.
type RecurrenceResult struct {
	CreatedIDs []string            `json:"createdIds"`
	Skipped    []SkippedOccurrence `json:"skipped,omitempty"`
}
