// Package core provides the rule engine for season match-record audits.
//
// This package contains the domain model and all check logic, independent of
// any storage, transport or rendering layer. It can be used by the HTTP
// service, the CLI or tests without modification.
//
// # Architecture
//
// The package is organized around three concepts:
//
//   - Repository: an immutable, typed and indexed view of one season
//     snapshot, built once per run by [Build].
//   - Check Registry: rule checks registered at init time via [Register].
//   - Problems: lazy sequences of rule breaches, see [Problems].
//
// # Repository
//
// [Build] parses every typed cell with a strict grammar and resolves team and
// team-match references. Any inconsistency aborts the build:
//
//	repo, err := core.Build(raw)
//	var die *core.DataIntegrityError
//	if errors.As(err, &die) {
//	    // die.Kind, die.ID name the missing entity
//	}
//
// # Check Registry
//
// Checks live in the checks subpackage and register themselves:
//
//	core.Register(core.CheckDefinition{
//	    Name:        "mixed_gender",
//	    Description: "Mixed doubles slots hold players of the expected sex",
//	    Run:         checkMixedGender,
//	})
//
// A check receives the season and the repository and returns a [Problems]
// sequence. Rule breaches are yielded as problems; only a structural failure
// (a missing entity) is yielded as an error, which ends the run.
//
// # Evaluation
//
// [Evaluate] is the engine entry point. It is deterministic for a fixed
// [Season.Now] and has no side effects; ordering, identity and presentation of
// the problems are left to the report package.
package core
