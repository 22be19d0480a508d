package scheduling

import (
	"sort"

	"schedly/models"
	"schedly/utils"
)

// span is a half-open [start, end) interval in minutes from midnight.
type span struct {
	start int
	end   int
}

// overlaps is the single overlap rule used everywhere in the engine:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && e1 > s2. Touching endpoints
// (back-to-back appointments) do not overlap.
func (s span) overlaps(other span) bool {
	return s.start < other.end && s.end > other.start
}

// contains reports whether other fits entirely inside s.
func (s span) contains(other span) bool {
	return other.start >= s.start && other.end <= s.end
}

func spanOf(startTime, endTime string) (span, error) {
	start, err := utils.ParseClock(startTime)
	if err != nil {
		return span{}, err
	}
	end, err := utils.ParseClock(endTime)
	if err != nil {
		return span{}, err
	}
	return span{start: start, end: end}, nil
}

func spanFrom(startTime string, duration int) (span, error) {
	start, err := utils.ParseClock(startTime)
	if err != nil {
		return span{}, err
	}
	return span{start: start, end: start + duration}, nil
}

func appointmentSpan(appt models.Appointment) (span, error) {
	return spanOf(appt.StartTime, appt.EndTime)
}

// breakSpans parses and sorts a schedule's break intervals, clamped to the
// working window.
func breakSpans(breaks []models.BreakInterval, window span) ([]span, error) {
	spans := make([]span, 0, len(breaks))
	for _, b := range breaks {
		s, err := spanOf(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		if s.start < window.start {
			s.start = window.start
		}
		if s.end > window.end {
			s.end = window.end
		}
		if s.start < s.end {
			spans = append(spans, s)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans, nil
}

// workingSubWindows returns the contiguous working stretches of a schedule
// after subtracting its breaks, sorted by start.
func workingSubWindows(sched *models.WorkingSchedule) ([]span, error) {
	window, err := spanOf(sched.StartTime, sched.EndTime)
	if err != nil {
		return nil, err
	}
	breaks, err := breakSpans(sched.Breaks, window)
	if err != nil {
		return nil, err
	}

	var windows []span
	cursor := window.start
	for _, b := range breaks {
		if b.start > cursor {
			windows = append(windows, span{start: cursor, end: b.start})
		}
		if b.end > cursor {
			cursor = b.end
		}
	}
	if cursor < window.end {
		windows = append(windows, span{start: cursor, end: window.end})
	}
	return windows, nil
}
