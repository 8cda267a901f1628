package core

// IsGameWinner reports whether a side with score candidate has won a game
// against other under the rally point rules: 21 with at least a two point
// lead, extended to a two point lead above 21, capped at 30:29.
func IsGameWinner(candidate, other int) bool {
	switch {
	case candidate == 21:
		return other < 20
	case candidate > 21 && candidate <= 30 && other == candidate-2:
		return true
	default:
		return candidate == 30 && other == 29
	}
}

// GameWinner returns the side that won game (0-based) of a player match, or 0
// when the game is not decided.
func GameWinner(pm *PlayerMatch, game int) Side {
	p1, p2 := pm.Scores[game][0], pm.Scores[game][1]
	if IsGameWinner(p1, p2) {
		return Team1
	}
	if IsGameWinner(p2, p1) {
		return Team2
	}
	return 0
}

// MatchWinner returns the side that won two games first, or 0 when no winner
// follows from the recorded scores. Counting stops at the first undecided
// game.
func MatchWinner(pm *PlayerMatch) Side {
	var games [2]int
	for i := 0; i < pm.SetCount && i < len(pm.Scores); i++ {
		w := GameWinner(pm, i)
		if w == 0 {
			break
		}
		games[w.idx()]++
		if games[0] == 2 {
			return Team1
		}
		if games[1] == 2 {
			return Team2
		}
	}
	return 0
}
