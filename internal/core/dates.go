package core

import (
	"time"
)

var germanWeekdays = [...]string{
	"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag",
}

// WeekdayName returns the German name of the weekday of t in Location.
func WeekdayName(t time.Time) string {
	return germanWeekdays[t.In(Location).Weekday()]
}

// FormatDateTime renders t as "DD.MM.YYYY HH:MM" in Location.
func FormatDateTime(t time.Time) string {
	return t.In(Location).Format("02.01.2006 15:04")
}

// FormatDate renders t as "DD.MM.YYYY" in Location.
func FormatDate(t time.Time) string {
	return t.In(Location).Format(LayoutDate)
}

// ClockTime renders the wall clock time of t as "HH:MM:SS" in Location.
func ClockTime(t time.Time) string {
	return t.In(Location).Format("15:04:05")
}

// NextMondayNoon returns 12:00 on the first Monday strictly after the day of
// t. A Monday therefore maps to the Monday one week later.
func NextMondayNoon(t time.Time) time.Time {
	t = t.In(Location)
	days := (8 - int(t.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	d := t.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, Location)
}

// EndOfDay extends a date given without a time of day to the last
// millisecond of that day. Timestamps with a time of day are returned as is.
func EndOfDay(t time.Time) time.Time {
	if ClockTime(t) != "00:00:00" {
		return t
	}
	return t.Add(24*time.Hour - time.Millisecond)
}
