package checks

import (
	"testing"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/core/coretest"
)

// onTime is a regular Saturday match entered and confirmed in time.
func onTime(extra core.Record) core.Record {
	rec := core.Record{
		"staffelcode":                       "01-015",
		"datum_verbandsansetzung":           "14.09.2024 18:00:00",
		"spieldatum":                        "14.09.2024 18:00:00",
		"mannschaftsergebnis_eintragedatum": "14.09.2024 21:00:00",
		"mannschaftsergebnis_user":          "Max Muster",
		"detailergebnis_eintragedatum":      "14.09.2024 21:05:00",
		"detailergebnis_user":               "Max Muster",
		"ergebnisbestaetigt_datum":          "16.09.2024 09:00:00",
		"ergebnisbestaetigt_user":           "Stefan Staffel",
	}
	for k, v := range extra {
		rec[k] = v
	}
	return rec
}

func TestSchedule(t *testing.T) {
	tests := []struct {
		name      string
		tm        core.Record
		now       string
		lastDates map[string]string
		prepare   func(f *coretest.Fixture)
		want      []string
	}{
		{
			name: "regular match",
			tm:   onTime(nil),
		},
		{
			name: "adult league not on saturday evening",
			tm: onTime(core.Record{
				"datum_verbandsansetzung":           "13.09.2024 20:00:00",
				"spieldatum":                        "13.09.2024 20:00:00",
				"mannschaftsergebnis_eintragedatum": "13.09.2024 22:00:00",
				"detailergebnis_eintragedatum":      "13.09.2024 22:00:00",
			}),
			want: []string{"Verbandsansetzung nicht Samstag 18:00, sondern Freitag 13.09.2024 20:00 (§45.2a SpO)"},
		},
		{
			name: "youth league at wrong time",
			tm: onTime(core.Record{
				"staffelcode":             "02-003",
				"datum_verbandsansetzung": "14.09.2024 14:00:00",
			}),
			want: []string{"Verbandsansetzung nicht Samstag 15:00, sondern Samstag 14.09.2024 14:00 (§45.2b SpO)"},
		},
		{
			name: "top league has no fixed slot",
			tm: onTime(core.Record{
				"staffelcode":             "01-002",
				"datum_verbandsansetzung": "15.09.2024 12:00:00",
			}),
		},
		{
			name: "moved past last match day",
			tm: onTime(core.Record{
				"datum_verbandsansetzung":           "26.04.2025 18:00:00",
				"spieldatum":                        "03.05.2025 18:00:00",
				"mannschaftsergebnis_eintragedatum": "03.05.2025 21:00:00",
				"detailergebnis_eintragedatum":      "03.05.2025 21:00:00",
				"ergebnisbestaetigt_datum":          "05.05.2025 09:00:00",
			}),
			lastDates: map[string]string{core.TierO19: "30.04.2025"},
			want:      []string{"Spiel auf 03.05.2025 18:00:00 verlegt, nach letztem Spieltag 30.04.2025 23:59 (§46.1e SpO)"},
		},
		{
			name: "team result before match",
			tm: onTime(core.Record{
				"mannschaftsergebnis_eintragedatum": "13.09.2024 10:00:00",
				"detailergebnis_eintragedatum":      "14.09.2024 17:50:00",
			}),
			want: []string{"Mannschaftsergebnis vor Spieldatum eingetragen (13.09.2024 10:00:00 vor 14.09.2024 18:00:00) - nicht eingetragene Vorverlegung?"},
		},
		{
			name: "detail result before grace window",
			tm: onTime(core.Record{
				"detailergebnis_eintragedatum": "14.09.2024 17:40:00",
			}),
			want: []string{"Detailergebnis vor Spieldatum eingetragen (14.09.2024 17:40:00 vor 14.09.2024 18:00:00) - nicht eingetragene Vorverlegung?"},
		},
		{
			name: "weekend match entered within monday grace minute",
			tm: onTime(core.Record{
				"detailergebnis_eintragedatum": "16.09.2024 12:00:30",
				"ergebnisbestaetigt_datum":     "17.09.2024 09:00:00",
			}),
		},
		{
			name: "weekend match entered after monday noon",
			tm: onTime(core.Record{
				"detailergebnis_eintragedatum": "16.09.2024 12:01:00",
				"ergebnisbestaetigt_datum":     "17.09.2024 09:00:00",
			}),
			want: []string{"Detailergebnis zu spät eingetragen: Spiel am Samstag, 14.09.2024 18:00:00, aber erst eingetragen am Montag, 16.09.2024 12:01"},
		},
		{
			name: "weekday match entered after two days",
			tm: onTime(core.Record{
				"spieldatum":                        "18.09.2024 20:00:00",
				"mannschaftsergebnis_eintragedatum": "18.09.2024 22:00:00",
				"detailergebnis_eintragedatum":      "20.09.2024 20:30:00",
				"ergebnisbestaetigt_datum":          "21.09.2024 09:00:00",
			}),
			want: []string{"Detailergebnis zu spät eingetragen: Spiel am Mittwoch, 18.09.2024 20:00:00, aber erst eingetragen am Freitag, 20.09.2024 20:30"},
		},
		{
			name: "never entered",
			tm: onTime(core.Record{
				"detailergebnis_eintragedatum": "",
				"ergebnisbestaetigt_datum":     "",
			}),
			want: []string{"Detailergebnis zu spät eingetragen: Spiel um Samstag, 14.09.2024 18:00:00, aber noch nicht eingetragen (Termin nicht aktuell, Nachverlegung oder Spiel endgültig ausgefallen?)"},
		},
		{
			name: "late penalty note excuses lateness",
			tm: onTime(core.Record{
				"detailergebnis_eintragedatum": "",
				"ergebnisbestaetigt_datum":     "",
			}),
			prepare: func(f *coretest.Fixture) {
				f.Note("TM1", "Stefan Staffel", "17.09.2024 10:00:00", "f24 verhängt")
			},
		},
		{
			name: "admin changed result",
			tm: onTime(core.Record{
				"detailergebnis_eintragedatum": "",
				"mannschaftsergebnis_user":     "Admin (A)",
			}),
		},
		{
			name: "default win skips entry checks",
			tm: onTime(core.Record{
				"flag_ok_gegen_team2":          "true",
				"detailergebnis_eintragedatum": "",
			}),
		},
		{
			name: "top league entered after six hours",
			tm: onTime(core.Record{
				"staffelcode":                  "01-001",
				"detailergebnis_eintragedatum": "15.09.2024 01:00:00",
			}),
			want: []string{"Detailergebnis zu spät eingetragen: Spiel um 14.09.2024 18:00:00, aber erst eingetragen um 15.09.2024 01:00 (vgl. §4.1 Anlage 6 SpO)"},
		},
		{
			name: "top league never entered",
			tm: onTime(core.Record{
				"staffelcode":                  "01-001",
				"detailergebnis_eintragedatum": "",
			}),
			now:  "15.09.2024 08:00:00",
			want: []string{"Detailergebnis zu spät eingetragen: Spiel um 14.09.2024 18:00:00, aber immer noch nicht eingetragen (vgl. §4.1 Anlage 6 SpO)"},
		},
		{
			name: "unplayed match only checks the fixture",
			tm: onTime(core.Record{
				"datum_verbandsansetzung":      "13.09.2024 20:00:00",
				"spieldatum":                   "",
				"detailergebnis_eintragedatum": "",
			}),
			want: []string{"Verbandsansetzung nicht Samstag 18:00, sondern Freitag 13.09.2024 20:00 (§45.2a SpO)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			if now == "" {
				now = "01.06.2025 12:00:00"
			}
			season := testSeason(t, now)
			season.LastDates = tt.lastDates

			f := league().TeamMatch("TM1", "T1", "T2", tt.tm)
			if tt.prepare != nil {
				tt.prepare(f)
			}
			assertMessages(t, run(t, checkSchedule, season, f), tt.want...)
		})
	}
}

func TestSchedule_WithdrawnTeamSkipsDeadlines(t *testing.T) {
	f := league().
		Team("T3", "SC Rückzug 1", "01-0003", "01-015", core.Record{"Status": core.WithdrawnStatus}).
		TeamMatch("TM1", "T1", "T3", onTime(core.Record{"detailergebnis_eintragedatum": ""}))
	assertMessages(t, run(t, checkSchedule, testSeason(t, "01.06.2025 12:00:00"), f))
}

func TestSchedule_LateReview(t *testing.T) {
	unconfirmed := onTime(core.Record{
		"detailergebnis_eintragedatum": "14.09.2024 20:00:00",
		"ergebnisbestaetigt_datum":     "",
		"ergebnisbestaetigt_user":      "",
	})
	const msg = "BC Musterstadt 1 - TV Beispiel 1 noch nicht vom StB bearbeitet (Spiel am Samstag, 14.09.2024 18:00:00, Detailergebnis eingetragen am Samstag, 14.09.2024 20:00)"

	tests := []struct {
		name    string
		now     string
		prepare func(f *coretest.Fixture)
		want    []string
	}{
		{
			name: "still within review period",
			now:  "18.09.2024 12:00:00",
		},
		{
			name: "overdue",
			now:  "20.09.2024 12:00:00",
			want: []string{msg},
		},
		{
			name: "any note counts as review",
			now:  "20.09.2024 12:00:00",
			prepare: func(f *coretest.Fixture) {
				f.Note("TM1", "Stefan Staffel", "15.09.2024 10:00:00", "geprüft")
			},
		},
		{
			name: "comment of the StB after entry",
			now:  "20.09.2024 12:00:00",
			prepare: func(f *coretest.Fixture) {
				f.Comment("TM1", "Stefan Staffel (StB)", "15.09.2024 10:00:00", "Bitte Spielbericht hochladen")
			},
		},
		{
			name: "comment of the StB before entry",
			now:  "20.09.2024 12:00:00",
			prepare: func(f *coretest.Fixture) {
				f.Comment("TM1", "Stefan Staffel", "14.09.2024 19:00:00", "Spielverlegung ok")
			},
			want: []string{msg},
		},
		{
			name: "comment of someone else",
			now:  "20.09.2024 12:00:00",
			prepare: func(f *coretest.Fixture) {
				f.Comment("TM1", "Max Muster", "15.09.2024 10:00:00", "Spielbericht folgt")
			},
			want: []string{msg},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := league().
				Group("01-015", "Stefan", "Staffel", "stb@example.org").
				TeamMatch("TM1", "T1", "T2", unconfirmed)
			if tt.prepare != nil {
				tt.prepare(f)
			}
			ps := run(t, checkSchedule, testSeason(t, tt.now), f)
			assertMessages(t, ps, tt.want...)
			for _, p := range ps {
				if p.Type != core.TypeLateNote || p.TeamMatch2ID != "TM1" || p.TeamMatchID != "TM1" {
					t.Errorf("problem = %+v, want latenote for TM1", p)
				}
			}
		})
	}
}

func TestReportDeadline(t *testing.T) {
	tests := []struct {
		played string
		want   string
	}{
		{"14.09.2024 18:00:00", "16.09.2024 12:00:59"},
		{"15.09.2024 11:00:00", "16.09.2024 12:00:59"},
		{"18.09.2024 20:00:00", "20.09.2024 20:00:00"},
	}
	for _, tt := range tests {
		got := ReportDeadline(mustTime(t, tt.played))
		if got.Truncate(1e9).Format(core.LayoutDateTime) != tt.want {
			t.Errorf("ReportDeadline(%s) = %s, want %s", tt.played, got.Format(core.LayoutDateTime), tt.want)
		}
	}
}
