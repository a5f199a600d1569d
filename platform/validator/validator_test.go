package validator

import "testing"

func TestWeekdayTag(t *testing.T) {
	v := New()

	cases := []struct {
		value string
		valid bool
	}{
		{"", true},
		{"Tuesday", true},
		{"tuesday", true},
		{"  Friday  ", true},
		{"Funday", false},
		{"2024-01-01", false},
	}
	for _, tc := range cases {
		err := v.Var(tc.value, "weekday")
		if tc.valid && err != nil {
			t.Errorf("%q should be a valid weekday: %v", tc.value, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("%q should be rejected", tc.value)
		}
	}
}
