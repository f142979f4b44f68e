package utils

import (
	"testing"
	"time"
)

func TestDayWindowAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 2024-03-31 is the spring-forward day in Madrid (23 hours long).
	day, err := ParseDateIn("2024-03-31", loc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	start, end := DayWindow(day, day, loc)
	if got := end.Sub(start); got != 23*time.Hour {
		t.Fatalf("window length got %s want 23h", got)
	}
	if end.In(loc).Hour() != 0 {
		t.Fatalf("end not at local midnight: %s", end)
	}
}

func TestDayWindowRange(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Madrid")
	from, _ := ParseDateIn("2025-06-01", loc)
	to, _ := ParseDateIn("2025-06-03", loc)
	start, end := DayWindow(from, to, loc)
	if FormatDate(start, loc) != "2025-06-01" || FormatDate(end, loc) != "2025-06-04" {
		t.Fatalf("unexpected window %s - %s", start, end)
	}
	// Madrid is UTC+2 in June.
	if start.UTC().Hour() != 22 {
		t.Fatalf("start in UTC got %s", start.UTC())
	}
}
