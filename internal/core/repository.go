package core

// repository.go builds the immutable, cross-referenced view of a season.
//
// Build is a pure function of the raw tables: it parses every typed cell,
// resolves team, team-match and player references, builds the id indices and derives
// the active/played subsets. The result is never mutated afterwards, so all
// checks can share it without locking.

import (
	"fmt"
	"sort"
	"strings"
)

// Repository is the typed, indexed model of one season snapshot.
type Repository struct {
	players       map[string]*Player
	teams         map[string]*Team
	teamList      []*Team
	clubs         map[string]*Club
	teamMatches   map[string]*TeamMatch
	tmList        []*TeamMatch
	playerMatches map[string]*PlayerMatch
	pmList        []*PlayerMatch

	pmsByTeamMatch map[string][]*PlayerMatch
	tmsByTeam      map[string][]*TeamMatch
	matchFields    map[string]map[string]string
	notes          map[string][]Annotation
	comments       map[string][]Annotation
	stbByGroup     map[string]*StB

	activeTeamMatches   []*TeamMatch
	activePlayerMatches []*PlayerMatch
	playedPlayerMatches []*PlayerMatch
}

// Build turns raw tables into a Repository. It fails with a
// *MalformedFieldError when a typed cell does not parse and with a
// *DataIntegrityError when a team or team-match reference does not resolve.
func Build(raw RawTables) (*Repository, error) {
	r := &Repository{
		players:        make(map[string]*Player),
		teams:          make(map[string]*Team),
		clubs:          make(map[string]*Club),
		teamMatches:    make(map[string]*TeamMatch),
		playerMatches:  make(map[string]*PlayerMatch),
		pmsByTeamMatch: make(map[string][]*PlayerMatch),
		tmsByTeam:      make(map[string][]*TeamMatch),
		matchFields:    make(map[string]map[string]string),
		notes:          make(map[string][]Annotation),
		comments:       make(map[string][]Annotation),
		stbByGroup:     make(map[string]*StB),
	}

	r.indexPlayers(raw[TablePlayers])
	r.indexTeams(raw[TableTeams])
	r.indexClubs(raw[TableClubs])
	r.indexGroups(raw[TableGroups])
	r.indexMatchFields(raw[TableMatchFields])

	var err error
	if r.notes, err = indexAnnotations(TableNotes, raw[TableNotes]); err != nil {
		return nil, err
	}
	if r.comments, err = indexAnnotations(TableComments, raw[TableComments]); err != nil {
		return nil, err
	}
	if err := r.indexTeamMatches(raw[TableTeamMatches]); err != nil {
		return nil, err
	}
	if err := r.indexPlayerMatches(raw[TablePlayerMatches]); err != nil {
		return nil, err
	}
	r.derive()

	return r, nil
}

func (r *Repository) indexPlayers(rows []Record) {
	for _, rec := range rows {
		p := &Player{
			ID:        rec["spielerid"],
			FirstName: rec["vorname"],
			LastName:  rec["name"],
			Sex:       rec["sex"],
		}
		r.players[p.ID] = p
	}
}

func (r *Repository) indexTeams(rows []Record) {
	for _, rec := range rows {
		t := &Team{
			Code:     rec["code"],
			Name:     rec["name"],
			ClubCode: rec["clubcode"],
			DrawID:   rec["DrawID"],
			Status:   rec["Status"],
		}
		r.teams[t.Code] = t
		r.teamList = append(r.teamList, t)
	}
}

func (r *Repository) indexClubs(rows []Record) {
	for _, rec := range rows {
		c := &Club{
			Code:   rec["code"],
			Name:   rec["name"],
			XTPID:  rec["XTPID"],
			Region: rec["region"],
		}
		r.clubs[c.Code] = c
	}
}

func (r *Repository) indexGroups(rows []Record) {
	for _, rec := range rows {
		if rec["stb_name"] == "" && rec["stb_vorname"] == "" {
			continue
		}
		r.stbByGroup[rec["staffelcode"]] = &StB{
			FirstName: rec["stb_vorname"],
			LastName:  rec["stb_name"],
			Email:     rec["stb_email"],
		}
	}
}

func (r *Repository) indexMatchFields(rows []Record) {
	for _, rec := range rows {
		id := rec["matchid"]
		fields := r.matchFields[id]
		if fields == nil {
			fields = make(map[string]string)
			r.matchFields[id] = fields
		}
		fields[rec["feld"]] = rec["wert"]
	}
}

func indexAnnotations(table string, rows []Record) (map[string][]Annotation, error) {
	res := make(map[string][]Annotation)
	for i, rec := range rows {
		rr := newRowReader(table, i+1, rec)
		a := Annotation{
			TeamMatchID: rr.text("matchid"),
			User:        rr.text("benutzer"),
			At:          rr.stamp("zeitpunkt"),
			Text:        rr.text("text"),
		}
		if rr.err != nil {
			return nil, rr.err
		}
		res[a.TeamMatchID] = append(res[a.TeamMatchID], a)
	}
	return res, nil
}

func (r *Repository) indexTeamMatches(rows []Record) error {
	for i, rec := range rows {
		rr := newRowReader(TableTeamMatches, i+1, rec)
		tm := &TeamMatch{
			ID:              rr.text("matchid"),
			Team1ID:         rr.text("team1id"),
			Team2ID:         rr.text("team2id"),
			Team1Name:       rr.text("team1name"),
			Team2Name:       rr.text("team2name"),
			GroupCode:       rr.text("staffelcode"),
			GroupName:       rr.text("staffelname"),
			EventName:       rr.text("eventname"),
			Scheduled:       rr.stamp("datum_verbandsansetzung"),
			Played:          rr.stamp("spieldatum"),
			PlayedText:      rr.text("spieldatum"),
			TeamEntered:     rr.stamp("mannschaftsergebnis_eintragedatum"),
			TeamEnteredBy:   rr.text("mannschaftsergebnis_user"),
			TeamEnteredText: rr.text("mannschaftsergebnis_eintragedatum"),
			DetailEntered:   rr.stamp("detailergebnis_eintragedatum"),
			DetailEnteredBy: rr.text("detailergebnis_user"),
			DetailText:      rr.text("detailergebnis_eintragedatum"),
			Confirmed:       rr.stamp("ergebnisbestaetigt_datum"),
			ConfirmedBy:     rr.text("ergebnisbestaetigt_user"),
			DefaultAgainst: [2]bool{
				rr.flag("flag_ok_gegen_team1"),
				rr.flag("flag_ok_gegen_team2"),
			},
			RescoredAgainst: [2]bool{
				rr.flag("flag_umwertung_gegen_team1"),
				rr.flag("flag_umwertung_gegen_team2"),
			},
			RescoredBothGames: [2]bool{
				rr.flag("flag_umwertung_gegen_team1_beide"),
				rr.flag("flag_umwertung_gegen_team2_beide"),
			},
			RescoredAgainstAll: rr.flag("flag_umwertung_gegen_beide"),
		}
		if rr.err != nil {
			return rr.err
		}

		if _, ok := r.teams[tm.Team1ID]; !ok {
			return missing(KindTeam, tm.Team1ID, "team1 of teammatch "+tm.ID)
		}
		if _, ok := r.teams[tm.Team2ID]; !ok {
			return missing(KindTeam, tm.Team2ID, "team2 of teammatch "+tm.ID)
		}

		r.teamMatches[tm.ID] = tm
		r.tmList = append(r.tmList, tm)
		r.tmsByTeam[tm.Team1ID] = append(r.tmsByTeam[tm.Team1ID], tm)
		if tm.Team2ID != tm.Team1ID {
			r.tmsByTeam[tm.Team2ID] = append(r.tmsByTeam[tm.Team2ID], tm)
		}
	}

	for _, tms := range r.tmsByTeam {
		sort.SliceStable(tms, func(i, j int) bool {
			return tms[i].Played.Before(tms[j].Played)
		})
	}
	return nil
}

func (r *Repository) indexPlayerMatches(rows []Record) error {
	for i, rec := range rows {
		rr := newRowReader(TablePlayerMatches, i+1, rec)
		pm := &PlayerMatch{
			ID:          rr.text("matchid"),
			TeamMatchID: rr.text("teammatchid"),
			Discipline:  rr.text("disziplin"),
			MatchTypeNo: rr.number("matchtypeno"),
			Winner:      rr.number("winner"),
			SetCount:    rr.number("setcount"),
			Scores: [3][2]int{
				{rr.number("set1team1"), rr.number("set1team2")},
				{rr.number("set2team1"), rr.number("set2team2")},
				{rr.number("set3team1"), rr.number("set3team2")},
			},
			Players: [2][2]string{
				{rr.text("team1spieler1spielerid"), rr.text("team1spieler2spielerid")},
				{rr.text("team2spieler1spielerid"), rr.text("team2spieler2spielerid")},
			},
			NoPlayers: rr.flag("flag_keinspiel_keinespieler"),
			NoPlayerSide: [2]bool{
				rr.flag("flag_keinspiel_keinspieler_team1"),
				rr.flag("flag_keinspiel_keinspieler_team2"),
			},
			Resigned: [2]bool{
				rr.flag("flag_aufgabe_team1"),
				rr.flag("flag_aufgabe_team2"),
			},
			RescoredAgainst: [2]bool{
				rr.flag("flag_umwertung_gegen_team1"),
				rr.flag("flag_umwertung_gegen_team2"),
			},
		}
		if rr.err != nil {
			return rr.err
		}
		if _, ok := r.teamMatches[pm.TeamMatchID]; !ok {
			return missing(KindTeamMatch, pm.TeamMatchID, "playermatch "+pm.ID)
		}
		for s, ids := range pm.Players {
			for k, id := range ids {
				if id == "" {
					continue
				}
				if _, ok := r.players[id]; !ok {
					return missing(KindPlayer, id, fmt.Sprintf("team%d player%d of playermatch %s", s+1, k+1, pm.ID))
				}
			}
		}

		r.playerMatches[pm.ID] = pm
		r.pmList = append(r.pmList, pm)
		r.pmsByTeamMatch[pm.TeamMatchID] = append(r.pmsByTeamMatch[pm.TeamMatchID], pm)
	}
	return nil
}

// derive computes the active and played subsets.
func (r *Repository) derive() {
	active := make(map[string]bool, len(r.tmList))
	for _, tm := range r.tmList {
		t1 := r.teams[tm.Team1ID]
		t2 := r.teams[tm.Team2ID]
		if t1.Status != "" || t2.Status != "" || tm.DefaultWin() {
			continue
		}
		r.activeTeamMatches = append(r.activeTeamMatches, tm)
		active[tm.ID] = true
	}

	for _, pm := range r.pmList {
		if !active[pm.TeamMatchID] {
			continue
		}
		r.activePlayerMatches = append(r.activePlayerMatches, pm)
		if !pm.NotPlayed() {
			r.playedPlayerMatches = append(r.playedPlayerMatches, pm)
		}
	}
}

// Player returns the player with the given id.
func (r *Repository) Player(id string) (*Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, missing(KindPlayer, id, "")
	}
	return p, nil
}

// Team returns the team with the given code.
func (r *Repository) Team(code string) (*Team, error) {
	t, ok := r.teams[code]
	if !ok {
		return nil, missing(KindTeam, code, "")
	}
	return t, nil
}

// Club returns the club with the given code.
func (r *Repository) Club(code string) (*Club, error) {
	c, ok := r.clubs[code]
	if !ok {
		return nil, missing(KindClub, code, "")
	}
	return c, nil
}

// TeamMatch returns the team match with the given id.
func (r *Repository) TeamMatch(id string) (*TeamMatch, error) {
	tm, ok := r.teamMatches[id]
	if !ok {
		return nil, missing(KindTeamMatch, id, "")
	}
	return tm, nil
}

// PlayerMatch returns the player match with the given id.
func (r *Repository) PlayerMatch(id string) (*PlayerMatch, error) {
	pm, ok := r.playerMatches[id]
	if !ok {
		return nil, missing(KindPlayerMatch, id, "")
	}
	return pm, nil
}

// PlayerMatchesOf returns the player matches of a team match in table order.
// A known team match without player matches yields an empty slice.
func (r *Repository) PlayerMatchesOf(teamMatchID string) ([]*PlayerMatch, error) {
	if _, ok := r.teamMatches[teamMatchID]; !ok {
		return nil, missing(KindTeamMatch, teamMatchID, "")
	}
	return r.pmsByTeamMatch[teamMatchID], nil
}

// TeamMatchesOfTeam returns all team matches of a team ordered by play date,
// or nil when the team has none.
func (r *Repository) TeamMatchesOfTeam(code string) []*TeamMatch {
	return r.tmsByTeam[code]
}

// MatchField returns the labelled free-text field of a team match, or "".
func (r *Repository) MatchField(teamMatchID, label string) string {
	return r.matchFields[teamMatchID][label]
}

// Notes returns the reviewer notes of a team match.
func (r *Repository) Notes(teamMatchID string) []Annotation {
	return r.notes[teamMatchID]
}

// Note returns the first reviewer note whose text satisfies pred.
func (r *Repository) Note(teamMatchID string, pred func(text string) bool) (Annotation, bool) {
	return firstMatching(r.notes[teamMatchID], pred)
}

// Comments returns the comments of a team match.
func (r *Repository) Comments(teamMatchID string) []Annotation {
	return r.comments[teamMatchID]
}

// Comment returns the first comment whose text satisfies pred.
func (r *Repository) Comment(teamMatchID string, pred func(text string) bool) (Annotation, bool) {
	return firstMatching(r.comments[teamMatchID], pred)
}

func firstMatching(as []Annotation, pred func(string) bool) (Annotation, bool) {
	for _, a := range as {
		if pred(a.Text) {
			return a, true
		}
	}
	return Annotation{}, false
}

// StB returns the reviewing official of a team match, or nil if the group
// has none assigned.
func (r *Repository) StB(tm *TeamMatch) *StB {
	return r.stbByGroup[tm.GroupCode]
}

// Region returns the region a team match is reviewed in.
func (r *Repository) Region(tm *TeamMatch) string {
	return RegionOfEvent(tm.EventName)
}

// ClubRegion returns the region of a club.
func (r *Repository) ClubRegion(code string) (string, error) {
	c, err := r.Club(code)
	if err != nil {
		return "", err
	}
	if c.Region == "" {
		return RegionOther, nil
	}
	return c.Region, nil
}

// Teams returns all teams in table order.
func (r *Repository) Teams() []*Team { return r.teamList }

// TeamMatches returns all team matches in table order.
func (r *Repository) TeamMatches() []*TeamMatch { return r.tmList }

// PlayerMatches returns all player matches in table order.
func (r *Repository) PlayerMatches() []*PlayerMatch { return r.pmList }

// ActiveTeamMatches returns team matches without withdrawn teams or default wins.
func (r *Repository) ActiveTeamMatches() []*TeamMatch { return r.activeTeamMatches }

// ActivePlayerMatches returns player matches of active team matches.
func (r *Repository) ActivePlayerMatches() []*PlayerMatch { return r.activePlayerMatches }

// PlayedPlayerMatches returns active player matches that were actually played.
func (r *Repository) PlayedPlayerMatches() []*PlayerMatch { return r.playedPlayerMatches }

// Regions in their preferred presentation order.
const (
	RegionNRW   = "NRW"
	RegionOther = "Sonstiges"
)

// RegionOrder is the preferred order of regions in grouped reports.
var RegionOrder = []string{RegionNRW, "N1", "N2", "S1", "S2", RegionOther}

// RegionOfEvent derives the region from an event name such as
// "O19-N1-BK-001"; events without a region token belong to RegionOther.
func RegionOfEvent(eventName string) string {
	tokens := strings.FieldsFunc(eventName, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, tok := range tokens {
		for _, reg := range RegionOrder[:5] {
			if strings.EqualFold(tok, reg) {
				return reg
			}
		}
	}
	return RegionOther
}
