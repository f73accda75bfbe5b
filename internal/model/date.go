package model

import (
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "January 2, 2006"

	// InvalidDate is what views show for a date string that does not parse.
	InvalidDate = "Invalid date"
)

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
// Day arithmetic is done in UTC so DST never shifts a difference by an hour.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func FormatDate(t time.Time) string {
	return DateOnly(t).Format(DateLayout)
}

// DateOnly drops the time-of-day, keeping the calendar date in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, days int) time.Time {
	return DateOnly(t).AddDate(0, 0, days)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns b-a in whole calendar days. It works on Unix seconds so spans
// longer than time.Duration can hold (about 292 years) stay exact.
func DaysBetween(a, b time.Time) int {
	return int((DateOnly(b).Unix() - DateOnly(a).Unix()) / secondsPerDay)
}

// AddDaysString adds days to a YYYY-MM-DD string. ok is false when s does not parse.
func AddDaysString(s string, days int) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return FormatDate(AddDays(t, days)), true
}

// DisplayDate renders s as "April 1, 2024", or InvalidDate.
func DisplayDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return InvalidDate
	}
	return t.Format(DisplayLayout)
}

func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
