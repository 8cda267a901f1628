package checks

import (
	"fmt"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

func init() {
	core.Register(core.CheckDefinition{
		Name:        "mixed_gender",
		Description: "Mixed doubles slots hold a man in slot 1 and a woman in slot 2",
		Run:         checkMixedGender,
	})
}

const disciplineMixed = "GD"

func checkMixedGender(_ *core.Season, repo *core.Repository) core.Problems {
	return core.FlatMap(repo.ActivePlayerMatches(), func(pm *core.PlayerMatch) core.Problems {
		if pm.Discipline != disciplineMixed {
			return core.None()
		}
		return core.Concat(
			checkGenderSlot(repo, pm, core.Team1, 1, core.SexMale),
			checkGenderSlot(repo, pm, core.Team1, 2, core.SexFemale),
			checkGenderSlot(repo, pm, core.Team2, 1, core.SexMale),
			checkGenderSlot(repo, pm, core.Team2, 2, core.SexFemale),
		)
	})
}

func checkGenderSlot(repo *core.Repository, pm *core.PlayerMatch, side core.Side, slot int, expected string) core.Problems {
	return func(yield func(core.Problem, error) bool) {
		id := pm.Player(side, slot)
		if id == "" {
			// slot not used
			return
		}
		p, err := repo.Player(id)
		if err != nil {
			yield(core.Problem{}, err)
			return
		}
		if p.Sex == expected {
			return
		}
		tm, err := repo.TeamMatch(pm.TeamMatchID)
		if err != nil {
			yield(core.Problem{}, err)
			return
		}

		who := "eine Dame"
		if expected == core.SexMale {
			who = "ein Herr"
		}
		yield(core.Problem{
			TeamMatchID: pm.TeamMatchID,
			MatchID:     pm.ID,
			Message: fmt.Sprintf("Der %d. Spieler im Mixed von %s (%s) sollte %s sein - Spieler vertauscht?",
				slot, tm.TeamName(side), p.Name(), who),
		}, nil)
	}
}
