package printing

import "testing"

func TestFormatDisplayDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "2024-01-05T10:30:00Z", want: "05 Jan 2024"},
		{in: "2024-01-05T10:30:00.123456Z", want: "05 Jan 2024"},
		{in: "2024-12-31T23:59:59+04:00", want: "31 Dec 2024"},
		{in: "2024-03-09T08:00:00", want: "09 Mar 2024"},
		{in: "2024-03-09 08:00:00", want: "09 Mar 2024"},
		{in: "2024-03-09", want: "09 Mar 2024"},
		{in: "  2024-03-09  ", want: "09 Mar 2024"},
		{in: "", want: ""},
		{in: "not-a-date", want: ""},
		{in: "2024-13-45", want: ""},
		{in: "Invalid Date", want: ""},
	}
	for _, tc := range cases {
		if got := FormatDisplayDate(tc.in); got != tc.want {
			t.Fatalf("FormatDisplayDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDisplayDatePAbsent(t *testing.T) {
	if p := FormatDisplayDateP("garbage"); p != nil {
		t.Fatalf("expected nil for unparsable input, got %q", *p)
	}
	if p := FormatDisplayDateP("2024-01-05"); p == nil || *p != "05 Jan 2024" {
		t.Fatalf("expected formatted pointer, got %v", p)
	}
}
