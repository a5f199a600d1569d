package recurrence

import (
	"errors"
	"time"
)

// ErrNoProgress reports a projection whose next occurrence failed to advance
// past the previous one. It aborts projection for that service only; callers
// log it and continue with the rest of the fleet.
var ErrNoProgress = errors.New("recurrence projection made no progress")

// frequencyDays maps the fixed frequency vocabulary to calendar-day intervals.
// Unknown frequencies cannot be projected.
var frequencyDays = map[string]int{
	"weekly":         7,
	"every-2-weeks":  14,
	"every-4-weeks":  28,
	"every-8-weeks":  56,
	"every-3-months": 90,
	"every-4-months": 120,
	"every-6-months": 180,
	"annually":       365,
}

// frequencyOrder lists the vocabulary in ascending interval order for the API.
var frequencyOrder = []string{
	"weekly",
	"every-2-weeks",
	"every-4-weeks",
	"every-8-weeks",
	"every-3-months",
	"every-4-months",
	"every-6-months",
	"annually",
}

// FrequencyDays returns the day interval for a frequency, or false when the
// frequency is not part of the fixed vocabulary.
func FrequencyDays(frequency string) (int, bool) {
	days, ok := frequencyDays[frequency]
	return days, ok
}

// Frequencies returns the full frequency vocabulary in interval order.
func Frequencies() []string {
	out := make([]string, len(frequencyOrder))
	copy(out, frequencyOrder)
	return out
}

// IsValidFrequency reports whether the frequency is part of the vocabulary.
func IsValidFrequency(frequency string) bool {
	_, ok := frequencyDays[frequency]
	return ok
}

// NextOccurrence computes the next service date after lastDate:
//
//  1. Add the frequency interval in calendar days.
//  2. If a day constraint is set, advance one day at a time until the weekday
//     matches. This only ever moves the date later.
//  3. Weekend avoidance: Saturday shifts back to Friday, Sunday forward to
//     Monday. This runs after constraint resolution, so a constraint that
//     targets Saturday or Sunday is moved off that day. Flagged for product
//     clarification; see DESIGN.md.
//
// Returns false when the frequency is unknown.
func NextOccurrence(lastDate time.Time, frequency, dayConstraint string) (time.Time, bool) {
	days, ok := frequencyDays[frequency]
	if !ok {
		return time.Time{}, false
	}

	next := Normalize(lastDate).AddDate(0, 0, days)

	if target, ok := ParseWeekday(dayConstraint); ok {
		for next.Weekday() != target {
			next = next.AddDate(0, 0, 1)
		}
	}

	switch next.Weekday() {
	case time.Saturday:
		next = next.AddDate(0, 0, -1)
	case time.Sunday:
		next = next.AddDate(0, 0, 1)
	}

	return next, true
}

// ProjectSequence repeatedly applies NextOccurrence starting from startDate,
// collecting every occurrence up to and including horizonEnd. The sequence is
// recomputed on each call, never memoized, and is strictly increasing; a
// non-advancing occurrence returns ErrNoProgress with the dates gathered so
// far discarded.
func ProjectSequence(startDate time.Time, frequency, dayConstraint string, horizonEnd time.Time) ([]time.Time, error) {
	if _, ok := frequencyDays[frequency]; !ok {
		return nil, nil
	}

	horizon := Normalize(horizonEnd)
	current := Normalize(startDate)

	var dates []time.Time
	for {
		next, ok := NextOccurrence(current, frequency, dayConstraint)
		if !ok {
			return nil, nil
		}
		if !next.After(current) {
			return nil, ErrNoProgress
		}
		if next.After(horizon) {
			return dates, nil
		}
		dates = append(dates, next)
		current = next
	}
}
