// Package coretest builds raw season snapshots for tests.
//
// Records are filled with valid defaults for every typed column so a test
// only spells out the cells it cares about.
package coretest

import (
	"testing"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

var teamMatchFlags = []string{
	"flag_ok_gegen_team1",
	"flag_ok_gegen_team2",
	"flag_umwertung_gegen_team1",
	"flag_umwertung_gegen_team2",
	"flag_umwertung_gegen_team1_beide",
	"flag_umwertung_gegen_team2_beide",
	"flag_umwertung_gegen_beide",
}

var playerMatchFlags = []string{
	"flag_keinspiel_keinespieler",
	"flag_keinspiel_keinspieler_team1",
	"flag_keinspiel_keinspieler_team2",
	"flag_aufgabe_team1",
	"flag_aufgabe_team2",
	"flag_umwertung_gegen_team1",
	"flag_umwertung_gegen_team2",
}

// Fixture accumulates raw table rows.
type Fixture struct {
	raw   core.RawTables
	names map[string]string
}

// New returns an empty fixture.
func New() *Fixture {
	return &Fixture{
		raw:   make(core.RawTables),
		names: make(map[string]string),
	}
}

func (f *Fixture) add(table string, rec core.Record) *Fixture {
	f.raw[table] = append(f.raw[table], rec)
	return f
}

func merge(base, extra core.Record) core.Record {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// Player adds a player.
func (f *Fixture) Player(id, first, last, sex string) *Fixture {
	return f.add(core.TablePlayers, core.Record{
		"spielerid": id,
		"vorname":   first,
		"name":      last,
		"sex":       sex,
	})
}

// Club adds a club.
func (f *Fixture) Club(code, name, region string) *Fixture {
	return f.add(core.TableClubs, core.Record{
		"code":   code,
		"name":   name,
		"XTPID":  "X" + code,
		"region": region,
	})
}

// Team adds a team of a club in a draw. extra may set "Status".
func (f *Fixture) Team(code, name, club, draw string, extra core.Record) *Fixture {
	f.names[code] = name
	return f.add(core.TableTeams, merge(core.Record{
		"code":     code,
		"name":     name,
		"clubcode": club,
		"DrawID":   draw,
		"Status":   "",
	}, extra))
}

// TeamMatch adds a team match between two teams. Team names are taken from
// earlier Team calls; all flags default to "false".
func (f *Fixture) TeamMatch(id, team1, team2 string, extra core.Record) *Fixture {
	rec := core.Record{
		"matchid":     id,
		"team1id":     team1,
		"team2id":     team2,
		"team1name":   f.names[team1],
		"team2name":   f.names[team2],
		"staffelcode": "01-015",
		"eventname":   "O19-NRW-VL-001",
	}
	for _, flag := range teamMatchFlags {
		rec[flag] = "false"
	}
	return f.add(core.TableTeamMatches, merge(rec, extra))
}

// PlayerMatch adds a discipline of a team match. All flags default to
// "false"; scores and players are empty.
func (f *Fixture) PlayerMatch(id, teamMatch string, extra core.Record) *Fixture {
	rec := core.Record{
		"matchid":     id,
		"teammatchid": teamMatch,
		"disziplin":   "HE",
		"matchtypeno": "1",
	}
	for _, flag := range playerMatchFlags {
		rec[flag] = "false"
	}
	return f.add(core.TablePlayerMatches, merge(rec, extra))
}

// MatchField sets a labelled free-text field of a team match.
func (f *Fixture) MatchField(teamMatch, label, value string) *Fixture {
	return f.add(core.TableMatchFields, core.Record{
		"matchid": teamMatch,
		"feld":    label,
		"wert":    value,
	})
}

// Note adds a reviewer note.
func (f *Fixture) Note(teamMatch, user, at, text string) *Fixture {
	return f.add(core.TableNotes, annotation(teamMatch, user, at, text))
}

// Comment adds a comment.
func (f *Fixture) Comment(teamMatch, user, at, text string) *Fixture {
	return f.add(core.TableComments, annotation(teamMatch, user, at, text))
}

func annotation(teamMatch, user, at, text string) core.Record {
	return core.Record{
		"matchid":   teamMatch,
		"benutzer":  user,
		"zeitpunkt": at,
		"text":      text,
	}
}

// Group assigns a reviewing official to a group code.
func (f *Fixture) Group(code, first, last, email string) *Fixture {
	return f.add(core.TableGroups, core.Record{
		"staffelcode": code,
		"stb_vorname": first,
		"stb_name":    last,
		"stb_email":   email,
	})
}

// Raw returns the accumulated tables. Required tables are always present.
func (f *Fixture) Raw() core.RawTables {
	for _, name := range core.RequiredTables {
		if _, ok := f.raw[name]; !ok {
			f.raw[name] = []core.Record{}
		}
	}
	return f.raw
}

// Build builds the repository and fails the test on error.
func (f *Fixture) Build(t testing.TB) *core.Repository {
	t.Helper()
	repo, err := core.Build(f.Raw())
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	return repo
}

// Collect runs a check sequence and fails the test on error.
func Collect(t testing.TB, seq core.Problems) []core.Problem {
	t.Helper()
	ps, err := core.Collect(seq)
	if err != nil {
		t.Fatalf("Collect() unexpected error: %v", err)
	}
	return ps
}

// Messages returns the messages of problems in order.
func Messages(ps []core.Problem) []string {
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.Message
	}
	return res
}
