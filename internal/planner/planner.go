// Package planner diffs an expanded manifest against an observed
// installed set and emits a deterministic, ordered action list (C7).
//
// Grounded on internal/domain/execution.Planner: the teacher's
// Check-then-Plan-per-step loop over a topologically sorted StepGraph
// generalizes directly to one pass over apps, then restores, then
// verifies, in manifest order -- no topological sort is needed here
// since spec.md defines the output order explicitly rather than via a
// dependency graph.
package planner

import (
	"sort"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

// Summary tallies the plan by action kind (spec.md §4.6).
type Summary struct {
	Install int `json:"install"`
	Skip    int `json:"skip"`
	Restore int `json:"restore"`
	Verify  int `json:"verify"`
}

// Plan is the planner's output: an ordered action list plus its
// summary.
type Plan struct {
	Actions []state.Action `json:"actions"`
	Summary Summary        `json:"summary"`
}

// ActivePlatform selects which App.Refs key is consulted when emitting
// app actions.
type ActivePlatform string

// Planner holds the inputs needed to plan against one manifest: the
// active platform tag and the driver name actions are attributed to.
type Planner struct {
	platform ActivePlatform
	driver   string
}

// New creates a Planner for the given platform tag and driver name.
func New(platform ActivePlatform, driverName string) *Planner {
	return &Planner{platform: platform, driver: driverName}
}

// Plan builds the ordered action list: apps-in-manifest-order, then
// restores-in-expanded-order, then verifies-in-expanded-order
// (spec.md §4.6 "Ordering guarantees"). observedInstalled is the
// driver's current listInstalled() snapshot, taken once by the caller
// per spec.md §4.7's stability requirement.
func (p *Planner) Plan(m manifest.Manifest, observedInstalled []string) Plan {
	observed := make(map[string]bool, len(observedInstalled))
	for _, ref := range observedInstalled {
		observed[ref] = true
	}

	var actions []state.Action
	var summary Summary

	for _, app := range m.Apps {
		ref := app.Refs[string(p.platform)]
		a := state.Action{Type: state.ActionApp, ID: app.ID, Ref: ref, Driver: p.driver}
		switch {
		case ref == "":
			// An app with no ref for the active platform is a warning,
			// not an error (spec.md §3): skip it rather than handing
			// the driver an empty ref it would reject.
			a.Status = state.StatusSkip
			a.Reason = "no ref for platform " + string(p.platform)
			summary.Skip++
		case observed[ref]:
			a.Status = state.StatusSkip
			a.Reason = "already installed"
			summary.Skip++
		default:
			a.Status = state.StatusInstall
			summary.Install++
		}
		actions = append(actions, a)
	}

	for _, r := range m.Restore {
		actions = append(actions, state.Action{
			Type:        state.ActionRestore,
			RestoreType: string(r.Type),
			Source:      r.Source,
			Target:      r.Target,
			Backup:      r.Backup,
			Status:      state.StatusRestore,
		})
		summary.Restore++
	}

	for _, v := range m.Verify {
		actions = append(actions, state.Action{
			Type:       state.ActionVerify,
			VerifyType: string(v.Type),
			Path:       v.Path,
			Command:    v.Command,
			Status:     state.StatusVerify,
		})
		summary.Verify++
	}

	return Plan{Actions: actions, Summary: summary}
}

// KnownPlatforms lists the refs key spellings spec.md's App.Refs
// mapping is expected to use; exported so callers (capture, doctor) can
// validate a manifest without importing the platform package directly.
func KnownPlatforms() []string {
	platforms := []string{"windows", "wsl", "linux", "darwin"}
	sort.Strings(platforms)
	return platforms
}
