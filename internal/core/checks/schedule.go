package checks

import (
	"regexp"
	"strings"
	"time"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

func init() {
	core.Register(core.CheckDefinition{
		Name:        "schedule",
		Description: "Fixture slots, last match day and result reporting deadlines",
		Run:         checkSchedule,
	})
}

const (
	// Some teams enter their line-up shortly before the start.
	entryGraceBefore = 15 * time.Minute
	// Detail results of OL/RL matches are due six hours after the start.
	reportOLRL = 6 * time.Hour
	// The regulations say 12:00, not 12:00:00.
	mondayGrace = time.Minute - time.Millisecond
	// Weekday matches are due two days later.
	reportWeekday = 48 * time.Hour
)

var lateNoteRegex = regexp.MustCompile(`[fF](?:04|24|38)`)

// Required fixture slots per league type.
var fixtureSlots = map[string]struct {
	clock string
	rule  string
}{
	core.LeagueO19:  {clock: "18:00:00", rule: "§45.2a SpO"},
	core.LeagueU19:  {clock: "15:00:00", rule: "§45.2b SpO"},
	core.LeagueMini: {clock: "15:00:00", rule: "§45.2b SpO"},
}

func checkSchedule(season *core.Season, repo *core.Repository) core.Problems {
	return core.FlatMap(repo.TeamMatches(), func(tm *core.TeamMatch) core.Problems {
		return checkTeamMatchSchedule(season, repo, tm)
	})
}

func checkTeamMatchSchedule(season *core.Season, repo *core.Repository, tm *core.TeamMatch) core.Problems {
	return func(yield func(core.Problem, error) bool) {
		emit := func(msg string) bool {
			return yield(core.Problem{TeamMatchID: tm.ID, Message: msg}, nil)
		}

		olrl := core.IsOLRL(tm.GroupCode)
		if msg, ok := slotViolation(tm, olrl); ok && !emit(msg) {
			return
		}

		if tm.Played.IsZero() {
			return
		}
		played := tm.Played

		if lastText := season.LastDate(core.Tier(tm.GroupCode)); lastText != "" {
			last, err := core.ParseTime(lastText)
			if err != nil {
				yield(core.Problem{}, seasonFieldError(err, "lastdate_"+core.Tier(tm.GroupCode)))
				return
			}
			last = core.EndOfDay(last)
			if played.After(last) {
				msg := "Spiel auf " + tm.PlayedText + " verlegt, nach letztem Spieltag " +
					core.FormatDateTime(last) + " (§46.1e SpO)"
				if !emit(msg) {
					return
				}
			}
		}

		if tm.DefaultWin() || tm.RescoredAgainstAll {
			return
		}

		entered := tm.DetailEntered
		if !tm.TeamEntered.IsZero() && tm.TeamEntered.Before(played) {
			msg := "Mannschaftsergebnis vor Spieldatum eingetragen (" + tm.TeamEnteredText +
				" vor " + tm.PlayedText + ") - nicht eingetragene Vorverlegung?"
			if !emit(msg) {
				return
			}
		}
		if !entered.IsZero() && entered.Before(played.Add(-entryGraceBefore)) {
			msg := "Detailergebnis vor Spieldatum eingetragen (" + tm.DetailText +
				" vor " + tm.PlayedText + ") - nicht eingetragene Vorverlegung?"
			if !emit(msg) {
				return
			}
		}

		if _, ok := repo.Note(tm.ID, lateNoteRegex.MatchString); ok {
			return
		}
		if strings.HasSuffix(tm.TeamEnteredBy, "(A)") {
			// changed by an admin
			return
		}
		for _, id := range []string{tm.Team1ID, tm.Team2ID} {
			team, err := repo.Team(id)
			if err != nil {
				yield(core.Problem{}, err)
				return
			}
			if team.Withdrawn() {
				return
			}
		}

		now := season.Now
		if olrl {
			var msg string
			switch {
			case !entered.IsZero() && played.Add(reportOLRL).Before(entered):
				msg = "Detailergebnis zu spät eingetragen: Spiel um " + tm.PlayedText +
					", aber erst eingetragen um " + core.FormatDateTime(entered) + " (vgl. §4.1 Anlage 6 SpO)"
			case entered.IsZero() && played.Add(reportOLRL).Before(now):
				msg = "Detailergebnis zu spät eingetragen: Spiel um " + tm.PlayedText +
					", aber immer noch nicht eingetragen (vgl. §4.1 Anlage 6 SpO)"
			}
			if msg != "" && !emit(msg) {
				return
			}
		}

		reportUntil := ReportDeadline(played)
		if !entered.IsZero() {
			if reportUntil.Before(entered) {
				msg := "Detailergebnis zu spät eingetragen: Spiel am " + core.WeekdayName(played) + ", " + tm.PlayedText +
					", aber erst eingetragen am " + core.WeekdayName(entered) + ", " + core.FormatDateTime(entered)
				if !emit(msg) {
					return
				}
			}
		} else if reportUntil.Before(now) {
			msg := "Detailergebnis zu spät eingetragen: Spiel um " + core.WeekdayName(played) + ", " + tm.PlayedText +
				", aber noch nicht eingetragen (Termin nicht aktuell, Nachverlegung oder Spiel endgültig ausgefallen?)"
			if !emit(msg) {
				return
			}
		}

		review := 48 * time.Hour
		if olrl {
			review = 24 * time.Hour
		}
		if entered.IsZero() || tm.IsConfirmed() || !reportUntil.Add(review).Before(now) {
			return
		}
		if len(repo.Notes(tm.ID)) > 0 || stbCommentedSince(repo, tm, entered) {
			return
		}
		yield(core.Problem{
			TeamMatchID:  tm.ID,
			TeamMatch2ID: tm.ID,
			Type:         core.TypeLateNote,
			Message: tm.String() + " noch nicht vom StB bearbeitet (Spiel am " + core.WeekdayName(played) + ", " +
				tm.PlayedText + ", Detailergebnis eingetragen am " + core.WeekdayName(entered) + ", " +
				core.FormatDateTime(entered) + ")",
		}, nil)
	}
}

// slotViolation compares the fixture set by the association with the
// required weekday and time of the league. OL/RL matches have no fixed slot.
func slotViolation(tm *core.TeamMatch, olrl bool) (string, bool) {
	if tm.Scheduled.IsZero() {
		return "", false
	}
	lt := core.LeagueType(tm.GroupCode)
	slot, ok := fixtureSlots[lt]
	if !ok || (olrl && lt == core.LeagueO19) {
		return "", false
	}
	if tm.Scheduled.In(core.Location).Weekday() == time.Saturday && core.ClockTime(tm.Scheduled) == slot.clock {
		return "", false
	}
	return "Verbandsansetzung nicht Samstag " + slot.clock[:5] + ", sondern " +
		core.WeekdayName(tm.Scheduled) + " " + core.FormatDateTime(tm.Scheduled) + " (" + slot.rule + ")", true
}

// ReportDeadline returns the last instant a detail result of a match played
// at played may be entered: Monday noon after a weekend match, 48 hours
// after any other match.
func ReportDeadline(played time.Time) time.Time {
	switch played.In(core.Location).Weekday() {
	case time.Saturday, time.Sunday:
		return core.NextMondayNoon(played).Add(mondayGrace)
	default:
		return played.Add(reportWeekday)
	}
}

// stbCommentedSince reports whether the group's StB commented on the match
// at or after the given instant.
func stbCommentedSince(repo *core.Repository, tm *core.TeamMatch, since time.Time) bool {
	stb := repo.StB(tm)
	if stb == nil {
		return false
	}
	name := stb.Name()
	for _, c := range repo.Comments(tm.ID) {
		if strings.HasPrefix(c.User, name) && !c.At.Before(since) {
			return true
		}
	}
	return false
}

func seasonFieldError(err error, field string) error {
	if mf, ok := err.(*core.MalformedFieldError); ok {
		mf.Table = "season"
		mf.Field = field
	}
	return err
}
