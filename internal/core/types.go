package core

import (
	"strconv"
	"time"
)

// Record is one row of a raw export table, keyed by column header.
type Record map[string]string

// RawTables holds the untyped export tables of one season snapshot, keyed by
// table name ("players", "teammatches", ...).
type RawTables map[string][]Record

// Raw table names.
const (
	TablePlayers       = "players"
	TableTeams         = "teams"
	TableClubs         = "clubs"
	TableTeamMatches   = "teammatches"
	TablePlayerMatches = "playermatches"
	TableMatchFields   = "matchfields"
	TableNotes         = "notes"
	TableComments      = "comments"
	TableGroups        = "groups"
	TableClubRanking   = "clubranking"
	TableLocations     = "locations"
	TablePlayerTeam    = "playerteam"
)

// AllTables lists every table a season snapshot may contain.
var AllTables = []string{
	TablePlayers,
	TableTeams,
	TableClubs,
	TableTeamMatches,
	TablePlayerMatches,
	TableMatchFields,
	TableNotes,
	TableComments,
	TableGroups,
	TableClubRanking,
	TableLocations,
	TablePlayerTeam,
}

// RequiredTables must be present for Build to succeed.
var RequiredTables = []string{
	TablePlayers,
	TableTeams,
	TableTeamMatches,
	TablePlayerMatches,
}

// Side identifies the home (1) or away (2) team of a match.
type Side int

const (
	Team1 Side = 1
	Team2 Side = 2
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return 3 - s
}

func (s Side) idx() int {
	return int(s) - 1
}

// Sex values used in the players table.
const (
	SexMale   = "M"
	SexFemale = "F"
)

// WithdrawnStatus is the team status of a withdrawn team.
const WithdrawnStatus = "Mannschaftsrückzug"

// Player is a registered player.
type Player struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Sex       string `json:"sex"`
}

// Name returns "First Last".
func (p *Player) Name() string {
	return p.FirstName + " " + p.LastName
}

// Team is a team entered in a group.
type Team struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	ClubCode string `json:"clubcode"`
	DrawID   string `json:"draw_id"`
	Status   string `json:"status,omitempty"`
}

// Withdrawn reports whether the team has been withdrawn from the league.
func (t *Team) Withdrawn() bool {
	return t.Status == WithdrawnStatus
}

// Club is a member club.
type Club struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	XTPID  string `json:"xtpid"`
	Region string `json:"region"`
}

// StB is the reviewing official of a group.
type StB struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email,omitempty"`
}

// Name returns "First Last".
func (s *StB) Name() string {
	return s.FirstName + " " + s.LastName
}

// TeamMatch is a fixture between two teams.
type TeamMatch struct {
	ID        string `json:"matchid"`
	Team1ID   string `json:"team1id"`
	Team2ID   string `json:"team2id"`
	Team1Name string `json:"team1name"`
	Team2Name string `json:"team2name"`
	GroupCode string `json:"staffelcode"`
	GroupName string `json:"staffelname,omitempty"`
	EventName string `json:"eventname,omitempty"`

	// Scheduled is the date set by the association, Played the actual date.
	Scheduled     time.Time `json:"scheduled"`
	Played        time.Time `json:"played"`
	PlayedText    string    `json:"spieldatum"`
	TeamEntered   time.Time `json:"team_entered,omitempty"`
	TeamEnteredBy string    `json:"team_entered_by,omitempty"`
	// TeamEnteredText keeps the raw entry timestamp for messages.
	TeamEnteredText string    `json:"-"`
	DetailEntered   time.Time `json:"detail_entered,omitempty"`
	DetailEnteredBy string    `json:"detail_entered_by,omitempty"`
	DetailText      string    `json:"-"`
	Confirmed       time.Time `json:"confirmed,omitempty"`
	ConfirmedBy     string    `json:"confirmed_by,omitempty"`

	DefaultAgainst     [2]bool `json:"default_against"`      // flag_ok_gegen_team{1,2}
	RescoredAgainst    [2]bool `json:"rescored_against"`     // flag_umwertung_gegen_team{1,2}
	RescoredBothGames  [2]bool `json:"rescored_both_games"`  // flag_umwertung_gegen_team{1,2}_beide
	RescoredAgainstAll bool    `json:"rescored_against_all"` // flag_umwertung_gegen_beide
}

// TeamID returns the team code of the given side.
func (tm *TeamMatch) TeamID(s Side) string {
	if s == Team1 {
		return tm.Team1ID
	}
	return tm.Team2ID
}

// TeamName returns the team name of the given side.
func (tm *TeamMatch) TeamName(s Side) string {
	if s == Team1 {
		return tm.Team1Name
	}
	return tm.Team2Name
}

// DefaultWin reports whether the match was awarded without being played.
func (tm *TeamMatch) DefaultWin() bool {
	return tm.DefaultAgainst[0] || tm.DefaultAgainst[1]
}

// IsConfirmed reports whether the StB confirmed the result.
func (tm *TeamMatch) IsConfirmed() bool {
	return !tm.Confirmed.IsZero()
}

// String renders the match as "Home - Away".
func (tm *TeamMatch) String() string {
	return tm.Team1Name + " - " + tm.Team2Name
}

// PlayerMatch is a single discipline inside a team match.
type PlayerMatch struct {
	ID          string `json:"matchid"`
	TeamMatchID string `json:"teammatchid"`
	Discipline  string `json:"disziplin"`
	MatchTypeNo int    `json:"matchtypeno"`
	Winner      int    `json:"winner"`
	SetCount    int    `json:"setcount"`

	// Scores[game][side] holds points, games 0..2.
	Scores [3][2]int `json:"scores"`
	// Players[side][slot] holds player ids, empty when the slot is unused.
	Players [2][2]string `json:"players"`

	NoPlayers       bool    `json:"no_players"`        // flag_keinspiel_keinespieler
	NoPlayerSide    [2]bool `json:"no_player_side"`    // flag_keinspiel_keinspieler_team{1,2}
	Resigned        [2]bool `json:"resigned"`          // flag_aufgabe_team{1,2}
	RescoredAgainst [2]bool `json:"rescored_against"`  // flag_umwertung_gegen_team{1,2}
}

// ResignedBy reports whether the given side gave up the match.
func (pm *PlayerMatch) ResignedBy(s Side) bool {
	return pm.Resigned[s.idx()]
}

// Player returns the player id in slot 1 or 2 of the given side.
func (pm *PlayerMatch) Player(s Side, slot int) string {
	return pm.Players[s.idx()][slot-1]
}

// NotPlayed reports whether any "not played" variant is flagged.
func (pm *PlayerMatch) NotPlayed() bool {
	return pm.NoPlayers || pm.NoPlayerSide[0] || pm.NoPlayerSide[1]
}

// Irregular reports whether any flag documents an irregular outcome.
func (pm *PlayerMatch) Irregular() bool {
	return pm.Resigned[0] || pm.Resigned[1] || pm.NotPlayed() ||
		pm.RescoredAgainst[0] || pm.RescoredAgainst[1]
}

// Name renders the discipline, e.g. "1. HE".
func (pm *PlayerMatch) Name() string {
	if pm.MatchTypeNo != 0 {
		return strconv.Itoa(pm.MatchTypeNo) + ". " + pm.Discipline
	}
	return pm.Discipline
}

// Annotation is a timestamped free-text entry attached to a team match,
// either a reviewer note or a comment.
type Annotation struct {
	TeamMatchID string    `json:"matchid"`
	User        string    `json:"benutzer"`
	At          time.Time `json:"zeitpunkt"`
	Text        string    `json:"text"`
}

// Problem is a single reported rule breach.
//
// Checks fill Message and the optional references; the finalizer fills the
// remaining fields.
type Problem struct {
	Message      string `json:"message"`
	TeamMatchID  string `json:"teammatch_id,omitempty"`
	TeamMatch2ID string `json:"teammatch2_id,omitempty"`
	MatchID      string `json:"match_id,omitempty"`
	Type         string `json:"type,omitempty"`
	ClubCode     string `json:"clubcode,omitempty"`
	VRLTypeID    string `json:"vrl_typeid,omitempty"`
	// Hint is shown next to the message but not part of the problem id.
	Hint         string `json:"hint,omitempty"`

	ID            string       `json:"id,omitempty"`
	Ignored       bool         `json:"ignored,omitempty"`
	Color         string       `json:"color,omitempty"`
	Region        string       `json:"region,omitempty"`
	TeamMatch     *TeamMatch   `json:"teammatch,omitempty"`
	Match         *PlayerMatch `json:"match,omitempty"`
	MatchName     string       `json:"match_name,omitempty"`
	StB           *StB         `json:"stb,omitempty"`
	ClubName      string       `json:"club_name,omitempty"`
	Header        string       `json:"header,omitempty"`
	TeamMatchURL  string       `json:"teammatch_url,omitempty"`
	TurnierURL    string       `json:"turnier_url,omitempty"`
	Turnier2URL   string       `json:"turnier2_url,omitempty"`
	TurnierVRLURL string       `json:"turnier_vrl_url,omitempty"`
}

// Problem types with dedicated presentation.
const (
	TypeVRL           = "vrl"
	TypeFixed         = "fixed"
	TypeLateNote      = "latenote"
	TypeInternalError = "internal-error"
)
