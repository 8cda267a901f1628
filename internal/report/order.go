package report

import (
	"slices"
	"strings"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

// Sort orders problems for flat rendering:
//
//  1. ignored problems last
//  2. problems without a team match first, in arrival order
//  3. results confirmed by the StB before unconfirmed ones
//  4. problems without a link before linked ones, links in natural order
//  5. by message
//
// The sort is stable, so sorting twice yields the same order.
func Sort(problems []core.Problem) {
	slices.SortStableFunc(problems, func(a, b core.Problem) int {
		return compare(&a, &b)
	})
}

func compare(a, b *core.Problem) int {
	if c := compareBool(a.Ignored, b.Ignored); c != 0 {
		return c
	}

	aTM, bTM := a.TeamMatchID != "", b.TeamMatchID != ""
	if c := compareBool(aTM, bTM); c != 0 {
		return c
	}
	if !aTM {
		return 0
	}

	if a.TeamMatch != nil && b.TeamMatch != nil {
		if c := compareBool(!a.TeamMatch.IsConfirmed(), !b.TeamMatch.IsConfirmed()); c != 0 {
			return c
		}
	}

	if c := compareBool(a.TurnierURL != "", b.TurnierURL != ""); c != 0 {
		return c
	}
	if a.TurnierURL != "" {
		if c := natCompare(a.TurnierURL, b.TurnierURL); c != 0 {
			return c
		}
	}

	return strings.Compare(a.Message, b.Message)
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
