package report

import (
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/core/coretest"
)

func testRepo(t *testing.T) *core.Repository {
	t.Helper()
	return coretest.New().
		Club("C1", "BC Musterstadt", "N2").
		Club("C2", "TV Beispiel", "").
		Team("T1", "BC Musterstadt 1", "C1", "01-015", nil).
		Team("T2", "TV Beispiel 1", "C2", "01-015", nil).
		Group("01-015", "Stefan", "Staffel", "stb@example.org").
		TeamMatch("TM10", "T1", "T2", core.Record{
			"eventname":                "O19-S1-BL-001",
			"ergebnisbestaetigt_datum": "16.09.2024 09:00:00",
		}).
		TeamMatch("TM9", "T2", "T1", core.Record{"eventname": "O19-N1-BL-001"}).
		PlayerMatch("PM1", "TM10", core.Record{"disziplin": "GD", "matchtypeno": "2"}).
		Build(t)
}

func TestProblemID(t *testing.T) {
	a := ProblemID("Spiel verlegt")
	b := ProblemID("Spiel verlegt")
	if a != b {
		t.Error("identical messages got different ids")
	}
	if len(a) != 128 {
		t.Errorf("len(id) = %d, want 128 hex characters", len(a))
	}
	if a == ProblemID("Spiel verlegt.") {
		t.Error("different messages got the same id")
	}
}

func TestEnrich(t *testing.T) {
	repo := testRepo(t)
	season := &core.Season{TournamentID: "ABC-123"}
	problems := []core.Problem{
		{Message: "tm", TeamMatchID: "TM10", TeamMatch2ID: "TM9", MatchID: "PM1"},
		{Message: "vrl", Type: core.TypeVRL, ClubCode: "C2", VRLTypeID: "9"},
		{Message: "fixed", Type: core.TypeFixed, ClubCode: "C1", TeamMatchID: "TM9"},
		{Message: "plain", Hint: "Kennung \"F1\" statt F01/F37?"},
	}
	if err := Enrich(season, repo, problems, Options{}); err != nil {
		t.Fatalf("Enrich() unexpected error: %v", err)
	}

	tm := problems[0]
	if tm.TeamMatch == nil || tm.TeamMatch.ID != "TM10" {
		t.Errorf("TeamMatch = %v, want TM10", tm.TeamMatch)
	}
	if want := "https://www.turnier.de/sport/teammatch.aspx?id=ABC-123&match=TM10"; tm.TeamMatchURL != want || tm.TurnierURL != want {
		t.Errorf("urls = %q / %q, want %q", tm.TeamMatchURL, tm.TurnierURL, want)
	}
	if want := "https://www.turnier.de/sport/teammatch.aspx?id=ABC-123&match=TM9"; tm.Turnier2URL != want {
		t.Errorf("Turnier2URL = %q, want %q", tm.Turnier2URL, want)
	}
	if tm.StB == nil || tm.StB.Name() != "Stefan Staffel" {
		t.Errorf("StB = %v", tm.StB)
	}
	if tm.Region != "S1" || tm.MatchName != "2. GD" || tm.Match == nil {
		t.Errorf("region/match = %q/%q/%v", tm.Region, tm.MatchName, tm.Match)
	}
	if tm.ID != ProblemID("tm") {
		t.Error("ID not set from message")
	}

	vrl := problems[1]
	if vrl.Header != "VRL 9 von (C2) TV Beispiel" || vrl.ClubName != "TV Beispiel" {
		t.Errorf("vrl header = %q, club = %q", vrl.Header, vrl.ClubName)
	}
	if vrl.Region != core.RegionOther {
		t.Errorf("vrl region = %q, want club region fallback", vrl.Region)
	}
	if want := "https://www.turnier.de/sport/clubranking.aspx?id=ABC-123&cid=XC2"; vrl.TurnierURL != want {
		t.Errorf("vrl url = %q, want %q", vrl.TurnierURL, want)
	}

	fixed := problems[2]
	if fixed.Region != RegionFixed || fixed.TeamMatch == nil || fixed.TurnierVRLURL == "" {
		t.Errorf("fixed = %+v", fixed)
	}

	if problems[3].Region != "" || problems[3].ID == "" {
		t.Errorf("plain problem enriched unexpectedly: %+v", problems[3])
	}
	if problems[3].ID != ProblemID("plain") {
		t.Error("hint changed the problem id")
	}
}

func TestEnrich_MissingReferenceIsFatal(t *testing.T) {
	repo := testRepo(t)
	err := Enrich(&core.Season{}, repo, []core.Problem{{Message: "x", TeamMatchID: "nope"}}, Options{})
	if !errors.Is(err, core.ErrDataIntegrity) {
		t.Fatalf("Enrich() error = %v, want data integrity", err)
	}
}

func TestFinalize(t *testing.T) {
	repo := testRepo(t)
	season := &core.Season{
		Key:          "2024",
		TournamentID: "T",
		Ignore:       []string{ProblemID("ignored")},
	}
	seq := core.Emit(
		core.Problem{Message: "unconfirmed", TeamMatchID: "TM9"},
		core.Problem{Message: "ignored"},
		core.Problem{Message: "confirmed", TeamMatchID: "TM10"},
		core.Problem{Message: "general", Type: "info"},
	)

	r, err := Finalize(season, repo, seq, Options{})
	if err != nil {
		t.Fatalf("Finalize() unexpected error: %v", err)
	}
	if r.Season != "2024" || r.CreatedAt.IsZero() || r.RunID.String() == "" {
		t.Errorf("report metadata = %+v", r)
	}

	got := coretest.Messages(r.Problems)
	want := []string{"general", "confirmed", "unconfirmed", "ignored"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	colors := []string{ColorOther, ColorConfirmed, ColorUnconfirmed, ColorIgnored}
	for i, p := range r.Problems {
		if p.Color != colors[i] {
			t.Errorf("%s: color = %q, want %q", p.Message, p.Color, colors[i])
		}
	}
	if len(r.Active()) != 3 {
		t.Errorf("Active() = %d problems, want 3", len(r.Active()))
	}
}

func TestFinalize_PropagatesSequenceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Finalize(&core.Season{}, testRepo(t), core.Concat(core.Emit(core.Problem{Message: "a"}), core.Fail(boom)), Options{})
	if !errors.Is(err, boom) {
		t.Errorf("Finalize() error = %v, want boom", err)
	}
}

func TestSort(t *testing.T) {
	confirmed := &core.TeamMatch{Confirmed: time.Now()}
	open := &core.TeamMatch{}

	problems := []core.Problem{
		{Message: "ignored", Ignored: true},
		{Message: "b-open", TeamMatchID: "1", TeamMatch: open, TurnierURL: "u?match=10"},
		{Message: "a-open", TeamMatchID: "1", TeamMatch: open, TurnierURL: "u?match=10"},
		{Message: "open-9", TeamMatchID: "2", TeamMatch: open, TurnierURL: "u?match=9"},
		{Message: "no-url", TeamMatchID: "3", TeamMatch: open},
		{Message: "z-first", Type: "x"},
		{Message: "conf", TeamMatchID: "4", TeamMatch: confirmed, TurnierURL: "u?match=99"},
		{Message: "a-second", Type: "x"},
	}

	Sort(problems)
	want := []string{"z-first", "a-second", "conf", "no-url", "open-9", "a-open", "b-open", "ignored"}
	got := coretest.Messages(problems)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sort() = %v, want %v", got, want)
		}
	}

	Sort(problems)
	again := coretest.Messages(problems)
	for i := range got {
		if got[i] != again[i] {
			t.Fatalf("second Sort() changed order: %v", again)
		}
	}
}

func TestNatCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"match=9", "match=10", -1},
		{"match=10", "match=9", 1},
		{"a", "a", 0},
		{"a", "ab", -1},
		{"teammatch.aspx?id=T&match=1019", "teammatch.aspx?id=T&match=998", 1},
		{"id=2&match=1", "id=10&match=1", -1},
		{"abc", "abd", -1},
	}
	for _, tt := range tests {
		if got := natCompare(tt.a, tt.b); got != tt.want {
			t.Errorf("natCompare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := natCompare(tt.b, tt.a); got != -tt.want {
			t.Errorf("natCompare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
		}
	}
}
