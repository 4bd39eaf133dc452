package models

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"17:30", 1050, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClockOverlap(t *testing.T) {
	cases := []struct {
		name                   string
		aStart, aEnd           int
		bStart, bEnd           int
		want                   bool
	}{
		{"disjoint", 540, 720, 780, 900, false},
		{"back to back", 540, 720, 720, 900, false},
		{"partial", 540, 720, 700, 900, true},
		{"contained", 540, 900, 600, 700, true},
		{"identical", 540, 720, 540, 720, true},
	}
	for _, tc := range cases {
		if got := ClockOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: ClockOverlap = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		date   string
		monday string
		sunday string
	}{
		{"2024-01-01", "2024-01-01", "2024-01-07"}, // a Monday
		{"2024-01-03", "2024-01-01", "2024-01-07"},
		{"2024-01-07", "2024-01-01", "2024-01-07"}, // a Sunday
		{"2024-01-08", "2024-01-08", "2024-01-14"},
	}
	for _, tc := range cases {
		mon, sun, err := WeekBounds(tc.date)
		if err != nil {
			t.Errorf("WeekBounds(%q): unexpected error %v", tc.date, err)
			continue
		}
		if mon != tc.monday || sun != tc.sunday {
			t.Errorf("WeekBounds(%q) = %s..%s, want %s..%s", tc.date, mon, sun, tc.monday, tc.sunday)
		}
	}
}

func TestLeaveCovers(t *testing.T) {
	l := LeaveRequest{StartDate: "2024-01-05", EndDate: "2024-01-10"}
	if !l.Covers("2024-01-05") || !l.Covers("2024-01-10") || !l.Covers("2024-01-07") {
		t.Errorf("Expected inclusive range to cover its bounds")
	}
	if l.Covers("2024-01-04") || l.Covers("2024-01-11") {
		t.Errorf("Expected dates outside the range to be excluded")
	}
}
