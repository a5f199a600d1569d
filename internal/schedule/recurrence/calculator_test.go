package recurrence

import (
	"testing"
	"time"
)

func TestFrequencyDays(t *testing.T) {
	cases := map[string]int{
		"weekly":         7,
		"every-2-weeks":  14,
		"every-4-weeks":  28,
		"every-8-weeks":  56,
		"every-3-months": 90,
		"every-4-months": 120,
		"every-6-months": 180,
		"annually":       365,
	}
	for freq, want := range cases {
		got, ok := FrequencyDays(freq)
		if !ok || got != want {
			t.Fatalf("%s: expected %d days, got %d ok=%v", freq, want, got, ok)
		}
	}

	if _, ok := FrequencyDays("fortnightly"); ok {
		t.Fatal("unknown frequency should not resolve")
	}
	if _, ok := FrequencyDays(""); ok {
		t.Fatal("empty frequency should not resolve")
	}
}

func TestNextOccurrenceWeeklyFromMonday(t *testing.T) {
	// 2024-01-01 is a Monday; +7 lands on Monday, no adjustment.
	got, ok := NextOccurrence(date(2024, 1, 1), "weekly", "")
	if !ok || got != date(2024, 1, 8) {
		t.Fatalf("expected 2024-01-08, got %v ok=%v", got, ok)
	}
}

func TestNextOccurrenceWeeklyFromFriday(t *testing.T) {
	// 2024-01-05 is a Friday; +7 lands on Friday, no adjustment.
	got, ok := NextOccurrence(date(2024, 1, 5), "weekly", "")
	if !ok || got != date(2024, 1, 12) {
		t.Fatalf("expected 2024-01-12, got %v ok=%v", got, ok)
	}
}

func TestNextOccurrenceSaturdayShiftsToFriday(t *testing.T) {
	// 2024-01-06 is a Saturday; +7 = 2024-01-13 (Saturday) -> 2024-01-12 (Friday).
	got, ok := NextOccurrence(date(2024, 1, 6), "weekly", "")
	if !ok || got != date(2024, 1, 12) {
		t.Fatalf("expected 2024-01-12, got %v ok=%v", got, ok)
	}
	if got.Weekday() != time.Friday {
		t.Fatalf("expected Friday, got %v", got.Weekday())
	}
}

func TestNextOccurrenceSundayShiftsToMonday(t *testing.T) {
	// 2024-01-07 is a Sunday; +7 = 2024-01-14 (Sunday) -> 2024-01-15 (Monday).
	got, ok := NextOccurrence(date(2024, 1, 7), "weekly", "")
	if !ok || got != date(2024, 1, 15) {
		t.Fatalf("expected 2024-01-15, got %v ok=%v", got, ok)
	}
}

func TestNextOccurrenceDayConstraintMovesLaterOnly(t *testing.T) {
	// +7 from Monday 2024-01-01 is Monday 2024-01-08; constraint Thursday
	// advances to 2024-01-11, never backward to 2024-01-04.
	got, ok := NextOccurrence(date(2024, 1, 1), "weekly", "Thursday")
	if !ok || got != date(2024, 1, 11) {
		t.Fatalf("expected 2024-01-11, got %v ok=%v", got, ok)
	}
}

func TestNextOccurrenceUnknownFrequency(t *testing.T) {
	if _, ok := NextOccurrence(date(2024, 1, 1), "whenever", ""); ok {
		t.Fatal("unknown frequency should not produce an occurrence")
	}
}

func TestNextOccurrenceNeverLandsOnWeekend(t *testing.T) {
	// Sweep a year of start dates across all frequencies without a day
	// constraint; no computed occurrence may fall on Saturday or Sunday.
	start := date(2024, 1, 1)
	for _, freq := range Frequencies() {
		for i := 0; i < 366; i++ {
			got, ok := NextOccurrence(start.AddDate(0, 0, i), freq, "")
			if !ok {
				t.Fatalf("%s: unexpected failure", freq)
			}
			if wd := got.Weekday(); wd == time.Saturday || wd == time.Sunday {
				t.Fatalf("%s from %v: landed on %v", freq, start.AddDate(0, 0, i), wd)
			}
		}
	}
}

func TestProjectSequenceStrictlyIncreasing(t *testing.T) {
	dates, err := ProjectSequence(date(2024, 1, 1), "every-2-weeks", "", date(2024, 6, 30))
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	if len(dates) == 0 {
		t.Fatal("expected occurrences within horizon")
	}
	prev := date(2024, 1, 1)
	for _, d := range dates {
		if !d.After(prev) {
			t.Fatalf("sequence not strictly increasing: %v after %v", d, prev)
		}
		if d.After(date(2024, 6, 30)) {
			t.Fatalf("occurrence %v exceeds horizon", d)
		}
		prev = d
	}
}

func TestProjectSequenceWeeklyCount(t *testing.T) {
	// Weekly from Monday 2024-01-01 to 2024-03-31: twelve Mondays,
	// Jan 8 through Mar 25.
	dates, err := ProjectSequence(date(2024, 1, 1), "weekly", "", date(2024, 3, 31))
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	if len(dates) != 12 {
		t.Fatalf("expected 12 occurrences, got %d", len(dates))
	}
	if dates[0] != date(2024, 1, 8) {
		t.Fatalf("first occurrence expected 2024-01-08, got %v", dates[0])
	}
}

func TestProjectSequenceUnknownFrequencyYieldsNothing(t *testing.T) {
	dates, err := ProjectSequence(date(2024, 1, 1), "whenever", "", date(2024, 12, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("expected no occurrences, got %d", len(dates))
	}
}

func TestProjectSequenceHorizonBeforeFirstOccurrence(t *testing.T) {
	dates, err := ProjectSequence(date(2024, 1, 1), "annually", "", date(2024, 6, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("expected no occurrences before horizon, got %d", len(dates))
	}
}
