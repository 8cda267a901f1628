package checks

import (
	"strconv"
	"strings"
	"testing"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/core/coretest"
)

const msgNotDocumented = `Spielaufgabe im 1. HE, aber kein Eintrag im Feld "Spielaufgabe" (§65.7.1 SpO)`

// singles returns a played singles match between M1 and M2 with games given
// as "home:away".
func singles(extra core.Record, games ...string) core.Record {
	rec := core.Record{
		"team1spieler1spielerid": "M1",
		"team2spieler1spielerid": "M2",
		"setcount":               strconv.Itoa(len(games)),
	}
	for i, g := range games {
		home, away, _ := strings.Cut(g, ":")
		rec["set"+strconv.Itoa(i+1)+"team1"] = home
		rec["set"+strconv.Itoa(i+1)+"team2"] = away
	}
	for k, v := range extra {
		rec[k] = v
	}
	return rec
}

func TestResignation_PlayerMatch(t *testing.T) {
	tests := []struct {
		name    string
		match   core.Record
		prepare func(f *coretest.Fixture)
		want    []string
	}{
		{
			name: "documented resignation with winner",
			match: singles(core.Record{"flag_aufgabe_team1": "true"}, "5:21", "3:21"),
			prepare: func(f *coretest.Fixture) {
				f.MatchField("TM1", FieldResignation, "1. HE: Aufgabe bei 5:21 3:11, Wade")
			},
		},
		{
			name: "comment documents resignation",
			match: singles(core.Record{"flag_aufgabe_team2": "true"}, "21:5", "21:3"),
			prepare: func(f *coretest.Fixture) {
				f.Comment("TM1", "Max Muster", "15.09.2024 10:00:00", "Spieler war KRANK")
			},
		},
		{
			name: "penalty note documents resignation",
			match: singles(core.Record{"flag_aufgabe_team2": "true"}, "21:5", "21:3"),
			prepare: func(f *coretest.Fixture) {
				f.Note("TM1", "StB", "15.09.2024 10:00:00", "F28-Spielaufgabe")
			},
		},
		{
			name: "undocumented and undecided",
			match: singles(core.Record{"flag_aufgabe_team1": "true"}, "5:11"),
			want: []string{
				msgNotDocumented,
				"Bei Aufgabe muss der Punktestand zum Gewinn(z.B. 21) ergänzt werden",
			},
		},
		{
			name: "resigning side without players",
			match: singles(core.Record{"flag_aufgabe_team1": "true", "team1spieler1spielerid": ""}),
			prepare: func(f *coretest.Fixture) {
				f.MatchField("TM1", FieldSpecialEvents, "Spieler fehlte")
			},
			want: []string{"Aufgebende Seite hat keine Spieler (nicht gespielt?)"},
		},
		{
			name: "resigning side already won",
			match: singles(core.Record{"flag_aufgabe_team1": "true"}, "21:15", "21:10"),
			prepare: func(f *coretest.Fixture) {
				f.MatchField("TM1", FieldResignation, "HE aufgegeben")
			},
			want: []string{"Aufgebende Seite (BC Musterstadt 1) hatte bereits gewonnen"},
		},
		{
			name:  "no resignation flag",
			match: singles(nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := league().
				TeamMatch("TM1", "T1", "T2", nil).
				PlayerMatch("PM1", "TM1", tt.match)
			if tt.prepare != nil {
				tt.prepare(f)
			}
			ps := run(t, checkResignation, nil, f)
			assertMessages(t, ps, tt.want...)
			for _, p := range ps {
				if p.MatchID != "PM1" || p.TeamMatchID != "TM1" {
					t.Errorf("problem refs = %s/%s, want TM1/PM1", p.TeamMatchID, p.MatchID)
				}
			}
		})
	}
}

func TestResignation_NotPlayedMatchesSkipped(t *testing.T) {
	f := league().
		TeamMatch("TM1", "T1", "T2", nil).
		PlayerMatch("PM1", "TM1", singles(core.Record{"flag_aufgabe_team1": "true", "flag_keinspiel_keinspieler_team1": "true"})).
		MatchField("TM1", FieldResignation, "nicht angetreten")
	assertMessages(t, run(t, checkResignation, nil, f))
}

func TestResignation_TextField(t *testing.T) {
	const msgUnflagged = "Eintrag im Textfeld Spielaufgabe, aber im Detailbericht keine Spiele als aufgegeben gekennzeichnet"

	tests := []struct {
		name    string
		tmExtra core.Record
		pmExtra core.Record
		backup  string
		text    string
		want    []string
	}{
		{
			name: "no flag anywhere",
			text: "Aufgabe im 2. HE",
			want: []string{msgUnflagged},
		},
		{
			name:    "player match flagged as not played",
			text:    "3. HE nicht gespielt",
			pmExtra: core.Record{"flag_keinspiel_keinespieler": "true"},
		},
		{
			name:    "team match rescored",
			text:    "Nichtantritt",
			tmExtra: core.Record{"flag_umwertung_gegen_team2": "true"},
		},
		{
			name:   "backup player explains entry",
			text:   "Ersatzspieler Carl Test eingesetzt",
			backup: "Carl Test, Dora Demo",
		},
		{
			name:   "backup player not named",
			text:   "Ersatzspieler eingesetzt",
			backup: "Carl Test",
			want:   []string{msgUnflagged},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := league().
				TeamMatch("TM1", "T1", "T2", tt.tmExtra).
				PlayerMatch("PM1", "TM1", tt.pmExtra).
				MatchField("TM1", FieldResignation, tt.text)
			if tt.backup != "" {
				f.MatchField("TM1", FieldBackupPlayers, tt.backup)
			}
			ps := run(t, checkResignation, nil, f)
			assertMessages(t, ps, tt.want...)
			for _, p := range ps {
				if p.TeamMatchID != "TM1" || p.MatchID != "" {
					t.Errorf("problem refs = %s/%s, want TM1 only", p.TeamMatchID, p.MatchID)
				}
			}
		})
	}
}
