// Package checks registers the rule checks with the core registry.
// Import this package to ensure all checks are registered.
//
// Messages are addressed to the league officials and therefore in German;
// they double as the identity of a problem on ignore lists, so their wording
// must stay stable.
package checks

// Each check file uses init() to register its check.
