// Package recurrence implements calendar-day math for recurring services:
// date normalization, frequency intervals, day-of-week constraints, and
// weekend avoidance. Everything here is pure; persistence and batching live
// in the schedule service layer.
package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the wire format for calendar days.
const DateFormat = "2006-01-02"

// Normalize truncates a timestamp to its UTC calendar day. Idempotent:
// Normalize(Normalize(t)) == Normalize(t).
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized calendar day.
// Returns false for empty or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return Normalize(t), true
}

// Today returns the current UTC calendar day.
func Today() time.Time {
	return Normalize(time.Now().UTC())
}

// FormatDate renders a calendar day as YYYY-MM-DD. Zero time renders as the
// empty string rather than a bogus date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

// Quarter returns the compliance-report quarter label for a date,
// e.g. "Q1 2024" for any day in January through March 2024.
func Quarter(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d %d", q, t.Year())
}

// DaysBetween returns the whole calendar days from a to b (negative when b
// precedes a). Both inputs are normalized first so time-of-day never skews
// the count.
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)) / (24 * time.Hour))
}

// DaysOverdue returns how many days past due a scheduled date is, as of the
// given day. Today and future dates are 0, never negative.
func DaysOverdue(scheduled, today time.Time) int {
	d := DaysBetween(scheduled, today)
	if d < 0 {
		return 0
	}
	return d
}

// ParseWeekday maps a weekday name (any case, surrounding space ignored) to
// time.Weekday. Returns false for empty or unrecognized names.
func ParseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	}
	return time.Sunday, false
}
