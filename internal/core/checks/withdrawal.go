package checks

import (
	"github.com/JonMunkholm/krotoncheck/internal/core"
)

func init() {
	core.Register(core.CheckDefinition{
		Name:        "withdrawal",
		Description: "Teams defaulting three times are marked as withdrawn",
		Run:         checkWithdrawal,
	})
}

// forcedWithdrawalDefaults is the number of defaults after which a team is
// withdrawn from the league.
const forcedWithdrawalDefaults = 3

func checkWithdrawal(_ *core.Season, repo *core.Repository) core.Problems {
	return core.FlatMap(repo.Teams(), func(team *core.Team) core.Problems {
		if team.Withdrawn() {
			return core.None()
		}
		tms := repo.TeamMatchesOfTeam(team.Code)
		forced := ForcedWithdrawal(team.Code, tms)
		if forced == nil {
			return core.None()
		}
		if tms[len(tms)-1].ID == forced.ID {
			// a default in the final match does not lead to withdrawal
			return core.None()
		}
		return core.Emit(core.Problem{
			TeamMatchID: forced.ID,
			Message: "(" + team.Code + ") " + team.Name + " hat am " + core.FormatDate(forced.Played) +
				" zum dritten Mal kampflos aufgegeben, ist aber nicht als zurückgezogen markiert (§68.2b SpO)",
		})
	})
}

// ForcedWithdrawal returns the match in which a team defaulted for the third
// time, or nil. tms must be ordered by play date.
func ForcedWithdrawal(teamCode string, tms []*core.TeamMatch) *core.TeamMatch {
	defaults := 0
	for _, tm := range tms {
		side := core.Team1
		if tm.Team1ID != teamCode {
			side = core.Team2
		}
		if !tm.DefaultAgainst[side-1] {
			continue
		}
		defaults++
		if defaults == forcedWithdrawalDefaults {
			return tm
		}
	}
	return nil
}
