package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeStripsTimeOfDay(t *testing.T) {
	in := time.Date(2024, 2, 10, 17, 45, 12, 999, time.UTC)
	got := Normalize(in)
	if got != date(2024, 2, 10) {
		t.Fatalf("expected 2024-02-10 midnight, got %v", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC),
		time.Date(1999, 12, 31, 12, 0, 0, 0, time.UTC),
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %v: %v != %v", in, once, twice)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-02-10")
	if !ok || got != date(2024, 2, 10) {
		t.Fatalf("expected 2024-02-10, got %v ok=%v", got, ok)
	}

	if _, ok := ParseDate(""); ok {
		t.Fatal("empty string should not parse")
	}
	if _, ok := ParseDate("02/10/2024"); ok {
		t.Fatal("non-ISO format should not parse")
	}
	if _, ok := ParseDate("not-a-date"); ok {
		t.Fatal("garbage should not parse")
	}
}

func TestFormatDateZeroIsEmpty(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
	if got := FormatDate(date(2024, 2, 10)); got != "2024-02-10" {
		t.Fatalf("expected 2024-02-10, got %q", got)
	}
}

func TestQuarter(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{date(2024, 1, 1), "Q1 2024"},
		{date(2024, 2, 10), "Q1 2024"},
		{date(2024, 3, 31), "Q1 2024"},
		{date(2024, 4, 1), "Q2 2024"},
		{date(2024, 9, 30), "Q3 2024"},
		{date(2024, 12, 31), "Q4 2024"},
	}
	for _, tc := range cases {
		if got := Quarter(tc.in); got != tc.want {
			t.Fatalf("quarter of %v: expected %q, got %q", tc.in, tc.want, got)
		}
	}
	if got := Quarter(time.Time{}); got != "" {
		t.Fatalf("expected empty quarter for zero time, got %q", got)
	}
}

func TestDaysOverdue(t *testing.T) {
	today := date(2024, 2, 10)

	if got := DaysOverdue(date(2024, 2, 1), today); got != 9 {
		t.Fatalf("expected 9 days overdue, got %d", got)
	}
	if got := DaysOverdue(today, today); got != 0 {
		t.Fatalf("expected 0 for today, got %d", got)
	}
	if got := DaysOverdue(date(2024, 3, 1), today); got != 0 {
		t.Fatalf("expected 0 for future date, got %d", got)
	}
}

func TestParseWeekday(t *testing.T) {
	if wd, ok := ParseWeekday("Tuesday"); !ok || wd != time.Tuesday {
		t.Fatalf("expected Tuesday, got %v ok=%v", wd, ok)
	}
	if wd, ok := ParseWeekday("  friday "); !ok || wd != time.Friday {
		t.Fatalf("expected Friday, got %v ok=%v", wd, ok)
	}
	if _, ok := ParseWeekday(""); ok {
		t.Fatal("empty name should not parse")
	}
	if _, ok := ParseWeekday("Funday"); ok {
		t.Fatal("unknown name should not parse")
	}
}
