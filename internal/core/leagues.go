package core

import (
	"regexp"
	"strings"
)

// League types derived from a group code.
const (
	LeagueO19  = "O19"
	LeagueU19  = "U19"
	LeagueMini = "Mini"
)

// olrlRegex matches the groups of the two top leagues (OL and RL).
var olrlRegex = regexp.MustCompile(`^01-00[123]$`)

// leaguePrefixes maps the prefix of a group code to its league type.
var leaguePrefixes = map[string]string{
	"01": LeagueO19,
	"02": LeagueU19,
	"03": LeagueMini,
}

// LeagueType returns the league type of a group code such as "01-015", or ""
// for codes outside the known leagues.
func LeagueType(groupCode string) string {
	prefix, _, ok := strings.Cut(groupCode, "-")
	if !ok {
		return ""
	}
	return leaguePrefixes[prefix]
}

// IsYouth reports whether a group code belongs to a youth league.
func IsYouth(groupCode string) bool {
	lt := LeagueType(groupCode)
	return lt == LeagueU19 || lt == LeagueMini
}

// IsOLRL reports whether a group code belongs to the top leagues.
func IsOLRL(groupCode string) bool {
	return olrlRegex.MatchString(groupCode)
}

// Tier returns the tier used for last eligible dates.
func Tier(groupCode string) string {
	switch {
	case IsOLRL(groupCode):
		return TierOLRL
	case LeagueType(groupCode) == LeagueO19:
		return TierO19
	default:
		return TierU19
	}
}
