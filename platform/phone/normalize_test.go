package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(518) 555-0123", "+15185550123"},
		{"518-555-0123", "+15185550123"},
		{"+1 518 555 0123", "+15185550123"},
		{"", ""},
		{"  ", ""},
		// Unparseable input passes through trimmed.
		{"front desk", "front desk"},
	}
	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
