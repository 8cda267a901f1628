package checks

import (
	"reflect"
	"testing"
	"time"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/core/coretest"
)

// league returns a fixture with two clubs, one team each in draw D1, and
// four players.
func league() *coretest.Fixture {
	return coretest.New().
		Club("01-0001", "BC Musterstadt", "NRW").
		Club("01-0002", "TV Beispiel", "NRW").
		Team("T1", "BC Musterstadt 1", "01-0001", "01-015", nil).
		Team("T2", "TV Beispiel 1", "01-0002", "01-015", nil).
		Player("M1", "Max", "Muster", core.SexMale).
		Player("F1", "Erika", "Muster", core.SexFemale).
		Player("M2", "Ben", "Beispiel", core.SexMale).
		Player("F2", "Clara", "Beispiel", core.SexFemale)
}

func testSeason(t *testing.T, now string) *core.Season {
	t.Helper()
	ts, err := core.ParseTime(now)
	if err != nil {
		t.Fatalf("ParseTime(%q): %v", now, err)
	}
	return &core.Season{Key: "test", TournamentID: "TID", Now: ts}
}

func run(t *testing.T, check core.CheckFunc, season *core.Season, f *coretest.Fixture) []core.Problem {
	t.Helper()
	if season == nil {
		season = &core.Season{Now: time.Date(2025, 6, 1, 0, 0, 0, 0, core.Location)}
	}
	return coretest.Collect(t, check(season, f.Build(t)))
}

func assertMessages(t *testing.T, ps []core.Problem, want ...string) {
	t.Helper()
	got := coretest.Messages(ps)
	if len(want) == 0 {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("messages:\n got  %q\n want %q", got, want)
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := core.ParseTime(s)
	if err != nil {
		t.Fatalf("ParseTime(%q): %v", s, err)
	}
	return ts
}
