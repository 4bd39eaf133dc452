package models

import (
	"fmt"
	"time"
)

// Wire layouts. Dates and clock times travel as strings at the boundary
// and compare correctly as strings within a day.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate parses a "2006-01-02" date string
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want %s", s, DateLayout)
	}
	return t, nil
}

// ParseClock converts a "15:04" clock string to minutes since midnight
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want %s", s, ClockLayout)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockOverlap reports whether [aStart, aEnd) and [bStart, bEnd) overlap,
// all in minutes since midnight
func ClockOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// HoursBetween returns the span between two valid clock strings in hours
func HoursBetween(start, end string) float64 {
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	return float64(e-s) / 60.0
}

// ISOWeekOf returns the ISO year and week number of a date string
func ISOWeekOf(date string) (year, week int, err error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, 0, err
	}
	year, week = t.ISOWeek()
	return year, week, nil
}

// WeekBounds returns the Monday and Sunday of the ISO week containing date,
// both inclusive, as date strings
func WeekBounds(date string) (monday, sunday string, err error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", "", err
	}
	// time.Weekday is Sunday-based; shift so Monday = 0
	offset := (int(t.Weekday()) + 6) % 7
	mon := t.AddDate(0, 0, -offset)
	return mon.Format(DateLayout), mon.AddDate(0, 0, 6).Format(DateLayout), nil
}
