package configcatalog

import (
	"path/filepath"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/artexis10/endstate/internal/domain/manifest"
)

var folder = cases.Fold(language.Und)

func foldCase(s string) string { return folder.String(s) }

// Discoveries is the observed-install evidence matchesForApps compares
// module patterns against.
type Discoveries struct {
	ExeNames             []string
	UninstallDisplayNames []string
}

// MatchReason records why a module matched: which field matched, the
// pattern, and the observed value.
type MatchReason struct {
	Field   string // "winget" | "exe" | "uninstallDisplayName"
	Pattern string
	Value   string
}

// ModuleMatch is one module's match result.
type ModuleMatch struct {
	ModuleID string
	Reasons  []MatchReason
}

// MatchesForApps compares each catalog module's match patterns against
// installed winget ids and discovered exe names / uninstall display
// names, returning only modules with at least one match, sorted by
// module id for determinism (spec.md §4.5).
func (c *Catalog) MatchesForApps(wingetIDs []string, disc Discoveries) []ModuleMatch {
	modules := c.All()

	results := make([]ModuleMatch, 0, len(modules))
	for _, m := range modules {
		var reasons []MatchReason
		reasons = append(reasons, matchAll("winget", m.Matches.Winget, wingetIDs)...)
		reasons = append(reasons, matchAll("exe", m.Matches.Exe, disc.ExeNames)...)
		reasons = append(reasons, matchAll("uninstallDisplayName", m.Matches.UninstallDisplayName, disc.UninstallDisplayNames)...)

		if len(reasons) > 0 {
			results = append(results, ModuleMatch{ModuleID: m.ID, Reasons: reasons})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ModuleID < results[j].ModuleID })
	return results
}

func matchAll(field string, patterns, values []string) []MatchReason {
	var reasons []MatchReason
	for _, p := range patterns {
		for _, v := range values {
			if matchesPattern(p, v) {
				reasons = append(reasons, MatchReason{Field: field, Pattern: p, Value: v})
			}
		}
	}
	return reasons
}

// matchesPattern performs case-insensitive glob (via "*") or exact
// matching, folding both sides the locale-independent way (the same
// normalization discover/suggestions.go uses for fuzzy title matching).
func matchesPattern(pattern, value string) bool {
	p := foldCase(pattern)
	v := foldCase(value)
	if ok, err := filepath.Match(p, v); err == nil && ok {
		return true
	}
	return p == v
}
