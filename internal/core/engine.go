package core

import "time"

// Evaluate builds the repository from raw tables and runs every registered
// check against it. A build failure is yielded as the only element.
func Evaluate(season *Season, raw RawTables) Problems {
	return func(yield func(Problem, error) bool) {
		repo, err := Build(raw)
		if err != nil {
			yield(Problem{}, err)
			return
		}
		for p, err := range Run(season, repo, All()...) {
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}

// Run evaluates the given checks in order against a built repository. Checks
// are consumed lazily: nothing runs until the sequence is iterated.
func Run(season *Season, repo *Repository, defs ...CheckDefinition) Problems {
	season = resolveNow(season)
	return FlatMap(defs, func(def CheckDefinition) Problems {
		return def.Run(season, repo)
	})
}

// resolveNow pins an unset evaluation instant to the current time so every
// check of one run sees the same "now".
func resolveNow(season *Season) *Season {
	if season == nil {
		return &Season{Now: time.Now()}
	}
	if !season.Now.IsZero() {
		return season
	}
	s := *season
	s.Now = time.Now()
	return &s
}
