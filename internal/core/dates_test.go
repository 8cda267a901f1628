package core

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := ParseTime(s)
	if err != nil {
		t.Fatalf("ParseTime(%q): %v", s, err)
	}
	return ts
}

func TestNextMondayNoon(t *testing.T) {
	monday := mustParse(t, "14.11.2016 12:00:00")

	tests := []struct {
		input string
		want  time.Time
	}{
		{"11.11.2016 17:48:13", monday},
		{"12.11.2016 12:01:02", monday},
		{"13.11.2016 23:59:59", monday},
		{"14.11.2016 23:59:59", monday.AddDate(0, 0, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NextMondayNoon(mustParse(t, tt.input)); !got.Equal(tt.want) {
				t.Errorf("NextMondayNoon(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNextMondayNoon_AcrossDSTChange(t *testing.T) {
	// Summer time ends on 27.10.2024.
	got := NextMondayNoon(mustParse(t, "26.10.2024 18:00:00"))
	want := mustParse(t, "28.10.2024 12:00:00")
	if !got.Equal(want) {
		t.Errorf("NextMondayNoon() = %v, want %v", got, want)
	}
}

func TestWeekdayName(t *testing.T) {
	if got := WeekdayName(mustParse(t, "11.11.2016 17:48:13")); got != "Freitag" {
		t.Errorf("WeekdayName() = %q, want Freitag", got)
	}
	if got := WeekdayName(mustParse(t, "14.11.2016 12:00:00")); got != "Montag" {
		t.Errorf("WeekdayName() = %q, want Montag", got)
	}
}

func TestEndOfDay(t *testing.T) {
	day := mustParse(t, "01.03.2025")
	if got, want := EndOfDay(day), mustParse(t, "01.03.2025 23:59:59").Add(999*time.Millisecond); !got.Equal(want) {
		t.Errorf("EndOfDay(date) = %v, want %v", got, want)
	}

	withTime := mustParse(t, "01.03.2025 18:00:00")
	if got := EndOfDay(withTime); !got.Equal(withTime) {
		t.Errorf("EndOfDay(timestamp) = %v, want unchanged", got)
	}
}

func TestFormatting(t *testing.T) {
	ts := mustParse(t, "05.10.2024 18:30:00")
	if got := FormatDateTime(ts); got != "05.10.2024 18:30" {
		t.Errorf("FormatDateTime() = %q", got)
	}
	if got := FormatDate(ts); got != "05.10.2024" {
		t.Errorf("FormatDate() = %q", got)
	}
	if got := ClockTime(ts); got != "18:30:00" {
		t.Errorf("ClockTime() = %q", got)
	}
}
