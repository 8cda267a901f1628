package checks

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

func init() {
	core.Register(core.CheckDefinition{
		Name:        "resignation",
		Description: "Resigned games are documented, played and scored to a win for the opponent",
		Run:         checkResignation,
	})
}

// Labels of the free-text fields of the match report.
const (
	FieldResignation   = "Spielaufgabe (Spielstand bei Aufgabe, Grund), Nichtantritt"
	FieldSpecialEvents = "weitere 'Besondere Vorkommnisse' lt. Original-Spielbericht"
	FieldBackupPlayers = "vorgesehene Ersatzspieler (NUR Verbandsliga aufwärts, § 58 SpO)"
)

var (
	resignCommentRegex = regexp.MustCompile(`(?i)krank|verletz|aufgegeben|Aufgabe`)
	resignNoteRegex    = regexp.MustCompile(`F(?:20|28)-`)
)

func checkResignation(_ *core.Season, repo *core.Repository) core.Problems {
	return core.Concat(
		core.FlatMap(repo.PlayedPlayerMatches(), func(pm *core.PlayerMatch) core.Problems {
			return core.Concat(
				checkResignedSide(repo, pm, core.Team1),
				checkResignedSide(repo, pm, core.Team2),
			)
		}),
		core.FlatMap(repo.TeamMatches(), func(tm *core.TeamMatch) core.Problems {
			return checkResignationText(repo, tm)
		}),
	)
}

func checkResignedSide(repo *core.Repository, pm *core.PlayerMatch, side core.Side) core.Problems {
	return func(yield func(core.Problem, error) bool) {
		if !pm.ResignedBy(side) {
			return
		}

		problem := func(msg string) core.Problem {
			return core.Problem{
				TeamMatchID: pm.TeamMatchID,
				MatchID:     pm.ID,
				Message:     msg,
			}
		}

		if !resignationDocumented(repo, pm) {
			msg := "Spielaufgabe im " + pm.Name() + `, aber kein Eintrag im Feld "Spielaufgabe" (§65.7.1 SpO)`
			if !yield(problem(msg), nil) {
				return
			}
		}

		if pm.Player(side, 1) == "" {
			yield(problem("Aufgebende Seite hat keine Spieler (nicht gespielt?)"), nil)
			return
		}

		winner := core.MatchWinner(pm)
		if winner == side.Other() {
			return
		}

		tm, err := repo.TeamMatch(pm.TeamMatchID)
		if err != nil {
			yield(core.Problem{}, err)
			return
		}
		msg := "Aufgebende Seite (" + tm.TeamName(side) + ") hatte bereits gewonnen"
		if winner == 0 {
			msg = "Bei Aufgabe muss der Punktestand zum Gewinn(z.B. 21) ergänzt werden"
		}
		yield(problem(msg), nil)
	}
}

// resignationDocumented reports whether a resignation is backed by the
// report fields, a comment or an already imposed penalty.
func resignationDocumented(repo *core.Repository, pm *core.PlayerMatch) bool {
	if repo.MatchField(pm.TeamMatchID, FieldResignation) != "" {
		return true
	}
	if repo.MatchField(pm.TeamMatchID, FieldSpecialEvents) != "" {
		return true
	}
	if _, ok := repo.Comment(pm.TeamMatchID, resignCommentRegex.MatchString); ok {
		return true
	}
	_, ok := repo.Note(pm.TeamMatchID, resignNoteRegex.MatchString)
	return ok
}

// checkResignationText flags a filled resignation field that no flag of the
// match corroborates. A backup player named in the field explains it.
func checkResignationText(repo *core.Repository, tm *core.TeamMatch) core.Problems {
	return func(yield func(core.Problem, error) bool) {
		resigned := repo.MatchField(tm.ID, FieldResignation)
		if resigned == "" {
			return
		}

		if backup := repo.MatchField(tm.ID, FieldBackupPlayers); backup != "" {
			for _, name := range core.ExtractNames(backup) {
				if strings.Contains(resigned, name) {
					return
				}
			}
		}

		if teamMatchIrregular(tm) {
			return
		}
		pms, err := repo.PlayerMatchesOf(tm.ID)
		if err != nil {
			yield(core.Problem{}, err)
			return
		}
		for _, pm := range pms {
			if pm.Irregular() {
				return
			}
		}

		yield(core.Problem{
			TeamMatchID: tm.ID,
			Message:     "Eintrag im Textfeld Spielaufgabe, aber im Detailbericht keine Spiele als aufgegeben gekennzeichnet",
		}, nil)
	}
}

func teamMatchIrregular(tm *core.TeamMatch) bool {
	return tm.DefaultWin() ||
		tm.RescoredAgainst[0] || tm.RescoredAgainst[1] ||
		tm.RescoredBothGames[0] || tm.RescoredBothGames[1] ||
		tm.RescoredAgainstAll
}
