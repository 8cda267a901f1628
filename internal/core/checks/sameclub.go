package checks

import (
	"github.com/JonMunkholm/krotoncheck/internal/core"
)

func init() {
	core.Register(core.CheckDefinition{
		Name:        "same_club",
		Description: "Two teams of one club in a group play each other first in every round",
		Run:         checkSameClub,
	})
}

func checkSameClub(_ *core.Season, repo *core.Repository) core.Problems {
	return core.FlatMap(sameClubTeams(repo.Teams()), func(team *core.Team) core.Problems {
		return checkSameClubTeam(repo, team)
	})
}

// sameClubTeams returns the teams sharing their group with another team of
// the same club, grouped by draw and club in order of first appearance. Youth
// groups with three or more teams of one club are exempt.
func sameClubTeams(teams []*core.Team) []*core.Team {
	type clubKey struct{ draw, club string }
	var order []clubKey
	byClub := make(map[clubKey][]*core.Team)
	for _, t := range teams {
		k := clubKey{t.DrawID, t.ClubCode}
		if _, ok := byClub[k]; !ok {
			order = append(order, k)
		}
		byClub[k] = append(byClub[k], t)
	}

	// Order by first appearance of the draw, then of the club within it.
	var draws []string
	seenDraw := make(map[string]bool)
	for _, k := range order {
		if !seenDraw[k.draw] {
			seenDraw[k.draw] = true
			draws = append(draws, k.draw)
		}
	}

	var res []*core.Team
	for _, draw := range draws {
		for _, k := range order {
			if k.draw != draw {
				continue
			}
			group := byClub[k]
			if core.IsYouth(draw) && len(group) > 2 {
				continue
			}
			if len(group) > 1 {
				res = append(res, group...)
			}
		}
	}
	return res
}

func checkSameClubTeam(repo *core.Repository, team *core.Team) core.Problems {
	return func(yield func(core.Problem, error) bool) {
		for _, round := range Rounds(team.Code, repo.TeamMatchesOfTeam(team.Code)) {
			var playedOther *core.TeamMatch
			for _, tm := range round {
				otherID := tm.Team1ID
				if otherID == team.Code {
					otherID = tm.Team2ID
				}
				other, err := repo.Team(otherID)
				if err != nil {
					yield(core.Problem{}, err)
					return
				}

				if other.ClubCode != team.ClubCode {
					if playedOther == nil {
						playedOther = tm
					}
					continue
				}
				if playedOther == nil {
					continue
				}
				msg := "Zwei Mannschaften eines Vereins sollten immer zuerst gegeneinander spielen (§35.5 SpO). " +
					tm.String() + " wurde erst " + core.FormatDateTime(tm.Played) + " gespielt, nach " +
					playedOther.String() + " am " + core.FormatDateTime(playedOther.Played) + "."
				if !yield(core.Problem{TeamMatchID: tm.ID, Message: msg}, nil) {
					return
				}
			}
		}
	}
}

// Rounds splits the matches of a team, ordered by play date, into rounds: a
// new round starts as soon as an opponent comes up again.
func Rounds(teamCode string, tms []*core.TeamMatch) [][]*core.TeamMatch {
	var rounds [][]*core.TeamMatch
	var current []*core.TeamMatch
	seen := make(map[string]bool)
	for _, tm := range tms {
		other := tm.Team1ID
		if other == teamCode {
			other = tm.Team2ID
		}
		if seen[other] {
			rounds = append(rounds, current)
			current = nil
			seen = make(map[string]bool)
		}
		seen[other] = true
		current = append(current, tm)
	}
	if len(current) > 0 {
		rounds = append(rounds, current)
	}
	return rounds
}
