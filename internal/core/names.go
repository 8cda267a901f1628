package core

import (
	"regexp"
	"strings"
)

var (
	parenRegex     = regexp.MustCompile(`\([^)]*\)`)
	nameSepRegex   = regexp.MustCompile(`[,;/\n\r]+|\s+(?:und|u\.)\s+|\s+&\s+`)
	enumerateRegex = regexp.MustCompile(`^(?:\d+[.)]|-|\*)\s*`)
	letterRegex    = regexp.MustCompile(`\pL`)
)

// ExtractNames splits a free-text list of players ("Anna Muster (2.), Ben
// Beispiel und Carl Test") into trimmed names. Parenthesized remarks and list
// markers are dropped; fragments shorter than three characters or without a
// letter are not names.
func ExtractNames(text string) []string {
	text = parenRegex.ReplaceAllString(text, " ")
	var names []string
	for _, part := range nameSepRegex.Split(text, -1) {
		part = strings.TrimSpace(part)
		part = enumerateRegex.ReplaceAllString(part, "")
		part = strings.Join(strings.Fields(part), " ")
		if len([]rune(part)) < 3 || !letterRegex.MatchString(part) {
			continue
		}
		names = append(names, part)
	}
	return names
}
