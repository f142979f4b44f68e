package utils

import (
	"strings"
	"time"
	_ "time/tzdata"
)

const layoutDate = "2006-01-02"

// ParseDateIn parses YYYY-MM-DD as midnight in loc.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), loc)
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayWindow returns [from 00:00, to+1 day 00:00) in loc. The end is computed
// with AddDate so DST transitions keep local midnight.
func DayWindow(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(from, loc)
	end := StartOfDay(to, loc).AddDate(0, 0, 1)
	return start, end
}

// FormatDate formats t as YYYY-MM-DD in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutDate)
}

// FormatDateTime formats t as "YYYY-MM-DD HH:MM" in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04")
}
