package checks

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

func init() {
	core.Register(core.CheckDefinition{
		Name:        "default_win",
		Description: "Matches won by default carry the F01 or F37 penalty note",
		Run:         checkDefaultWin,
	})
}

// Penalty codes for a team not turning up.
var penaltyCodes = []string{"F01", "F37"}

var (
	penaltyRegex     = regexp.MustCompile(`F(?:01|37)`)
	letterORegex     = regexp.MustCompile(`FO1`)
	otherPenaltyRe   = regexp.MustCompile(`F13`)
	genericPenaltyRe = regexp.MustCompile(`OG|Ordnungsgebühr`)
	wellFormedCodeRe = regexp.MustCompile(`^F[0-9]{2}$`)
	codeLikeRe       = regexp.MustCompile(`^\pL+[0-9]+$`)
)

func checkDefaultWin(_ *core.Season, repo *core.Repository) core.Problems {
	return core.FlatMap(repo.TeamMatches(), func(tm *core.TeamMatch) core.Problems {
		if !tm.DefaultWin() {
			return core.None()
		}
		if _, ok := repo.Note(tm.ID, penaltyRegex.MatchString); ok {
			return core.None()
		}

		hasNote := func(re *regexp.Regexp) bool {
			_, ok := repo.Note(tm.ID, re.MatchString)
			return ok
		}
		containsO := hasNote(letterORegex)
		containsF13 := hasNote(otherPenaltyRe)
		containsOG := hasNote(genericPenaltyRe)

		against := "Gastmannschaft (" + tm.Team2Name + ")"
		if tm.DefaultAgainst[0] {
			against = "Heimmannschaft (" + tm.Team1Name + ")"
		}

		var sb strings.Builder
		sb.WriteString("Mannschaftsspiel ohne Kampf, aber Ordnungsgebühr F01 oder F37 gegen ")
		sb.WriteString(against)
		sb.WriteString(" fehlt.")
		if containsO {
			sb.WriteString(" (F01 mit o statt Null geschrieben?)")
		}
		if containsOG && !containsF13 {
			sb.WriteString(" (Ordnungsgebühr-Kennung F01/F37 vergessen?)")
		}
		if containsF13 {
			sb.WriteString(" (Ordnungsgebühr F13 verhängt)")
		}
		var hints []string
		for _, token := range mistypedCodes(repo.Notes(tm.ID)) {
			hints = append(hints, `Kennung "`+token+`" statt F01/F37?`)
		}

		return core.Emit(core.Problem{
			TeamMatchID: tm.ID,
			Message:     sb.String(),
			Hint:        strings.Join(hints, " "),
		})
	})
}

// mistypedCodes returns the distinct note tokens one edit away from a
// penalty code. Only letter-digit tokens qualify; FO1 and well-formed codes
// such as F13 are annotated separately or a deliberate different penalty.
func mistypedCodes(notes []core.Annotation) []string {
	var res []string
	seen := make(map[string]bool)
	for _, n := range notes {
		tokens := strings.FieldsFunc(n.Text, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, tok := range tokens {
			if seen[tok] || tok == "FO1" || !codeLikeRe.MatchString(tok) || wellFormedCodeRe.MatchString(tok) {
				continue
			}
			for _, code := range penaltyCodes {
				if levenshtein.ComputeDistance(strings.ToUpper(tok), code) <= 1 {
					seen[tok] = true
					res = append(res, tok)
					break
				}
			}
		}
	}
	return res
}
