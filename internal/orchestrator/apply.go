package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/events"
	"github.com/artexis10/endstate/internal/planner"
	"github.com/artexis10/endstate/internal/restore"
	"github.com/artexis10/endstate/internal/state"
	"github.com/artexis10/endstate/internal/verify"
)

// ApplyOptions configures the apply and apply-from-plan commands.
type ApplyOptions struct {
	ManifestPath  string // used by Apply; ignored by ApplyFromPlan
	PlanPath      string // used by ApplyFromPlan; ignored by Apply
	PayloadRoot   string
	DryRun        bool
	EnableRestore bool
}

// ApplyData is the apply command's successful payload.
type ApplyData struct {
	Plan     planner.Plan `json:"plan"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Apply expands the manifest, plans against one observed-installed
// snapshot, then executes the plan (spec.md §4.1, §5).
func (o *Orchestrator) Apply(ctx context.Context, opts ApplyOptions) Envelope {
	const command = "apply"
	runID := o.newRunID()

	m, classified := o.loadExpandedManifest(opts.ManifestPath)
	if classified != nil {
		return o.fail(command, runID, classified)
	}

	observed, classified := o.observedInstalled(ctx)
	if classified != nil {
		return o.fail(command, runID, classified)
	}

	p := planner.New(o.platform, o.driverName).Plan(m, observed)
	return o.execute(ctx, command, runID, m, p, opts.ManifestPath, opts)
}

// ApplyFromPlan executes a previously saved plan without re-expanding or
// re-planning the manifest (spec.md §6's `apply --plan` surface). Since
// the persisted Plan does not carry full RestoreItem/VerifyItem fidelity
// (it is the planner's report shape, not the manifest itself), restore
// and verify steps execute against the plan's own recorded fields
// directly, skipping the manifest-level dispatch Apply otherwise uses.
func (o *Orchestrator) ApplyFromPlan(ctx context.Context, opts ApplyOptions) Envelope {
	const command = "apply-from-plan"
	runID := o.newRunID()

	p, err := planner.Load(o.stateRoot, filenameStem(opts.PlanPath))
	if err != nil {
		return o.fail(command, runID, newError(ErrPlanNotFound, "failed to load plan", err))
	}

	return o.executePlanActions(ctx, command, runID, p, filepath.Dir(opts.PlanPath), opts)
}

func filenameStem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// execute runs a freshly planned manifest's actions: apps through the
// worker pool, then restores and verifies sequentially in plan order
// (spec.md §5's "restores and verifies do not share the pool").
func (o *Orchestrator) execute(ctx context.Context, command, runID string, m manifest.Manifest, p planner.Plan, manifestPath string, opts ApplyOptions) Envelope {
	o.runApps(ctx, runID, p.Actions, opts.DryRun)

	var warnings []string
	if opts.EnableRestore {
		warnings = o.runRestoresFromManifest(runID, m.Restore, p.Actions, filepath.Dir(manifestPath), opts)
	}

	o.runVerifies(ctx, p.Actions)

	p.Summary = tallyFromActions(p.Actions)

	rec := state.Record{
		RunID:     runID,
		Timestamp: o.now().UTC(),
		Command:   command,
		DryRun:    opts.DryRun,
		Manifest:  state.ManifestRef{Path: manifestPath, ExpandedHash: m.ExpandedHash},
		Actions:   p.Actions,
	}
	rec.Tally()
	if err := o.store.SaveRecord(rec); err != nil {
		return o.fail(command, runID, newError(ErrInternal, "failed to save run record", err))
	}

	o.publish(events.Event{RunID: runID, Kind: events.KindSummary, Summary: &events.SummaryFields{
		Success: rec.Summary.Success, Skipped: rec.Summary.Skipped, Failed: rec.Summary.Failed,
	}})

	if rec.Summary.Failed > 0 {
		return o.fail(command, runID, newError(ErrInstallFailed,
			fmt.Sprintf("%d action(s) failed", rec.Summary.Failed), nil).
			WithDetail(ApplyData{Plan: p, Warnings: warnings}))
	}
	return o.ok(command, runID, ApplyData{Plan: p, Warnings: warnings})
}

// executePlanActions runs a loaded plan's own actions without manifest
// fidelity: apps install by ref/driver as recorded, restores run by the
// minimal RestoreItem the plan's Action carries, verifies by the
// minimal VerifyItem its Action carries.
func (o *Orchestrator) executePlanActions(ctx context.Context, command, runID string, p planner.Plan, baseDir string, opts ApplyOptions) Envelope {
	o.runApps(ctx, runID, p.Actions, opts.DryRun)

	var warnings []string
	if opts.EnableRestore {
		items := make([]manifest.RestoreItem, 0, len(p.Actions))
		var restoreActions []*state.Action
		for i := range p.Actions {
			a := &p.Actions[i]
			if a.Type != state.ActionRestore {
				continue
			}
			items = append(items, manifest.RestoreItem{
				Type:   manifest.RestoreType(a.RestoreType),
				Source: a.Source,
				Target: a.Target,
				Backup: a.Backup,
			})
			restoreActions = append(restoreActions, a)
		}
		warnings = o.applyRestoreItems(runID, items, restoreActions, baseDir, opts)
	}

	o.runVerifies(ctx, p.Actions)
	p.Summary = tallyFromActions(p.Actions)

	rec := state.Record{
		RunID:     runID,
		Timestamp: o.now().UTC(),
		Command:   command,
		DryRun:    opts.DryRun,
		Actions:   p.Actions,
	}
	rec.Tally()
	if err := o.store.SaveRecord(rec); err != nil {
		return o.fail(command, runID, newError(ErrInternal, "failed to save run record", err))
	}

	if rec.Summary.Failed > 0 {
		return o.fail(command, runID, newError(ErrInstallFailed,
			fmt.Sprintf("%d action(s) failed", rec.Summary.Failed), nil).
			WithDetail(ApplyData{Plan: p, Warnings: warnings}))
	}
	return o.ok(command, runID, ApplyData{Plan: p, Warnings: warnings})
}

func tallyFromActions(actions []state.Action) planner.Summary {
	var s planner.Summary
	for _, a := range actions {
		switch a.Type {
		case state.ActionApp:
			if a.Status == state.StatusSuccess || a.Status == state.StatusDryRun {
				s.Install++
			} else if a.Status == state.StatusSkip || a.Status == state.StatusSkipped {
				s.Skip++
			}
		case state.ActionRestore:
			s.Restore++
		case state.ActionVerify:
			s.Verify++
		}
	}
	return s
}

// runApps dispatches every pending app-install action through a bounded
// worker pool (default size 1, spec.md §5). Each goroutine writes only
// to its own action index, so no synchronization beyond the WaitGroup
// and the semaphore is needed.
func (o *Orchestrator) runApps(ctx context.Context, runID string, actions []state.Action, dryRun bool) {
	size := o.parallelInstalls
	if size <= 0 {
		size = 1
	}
	sem := make(chan struct{}, size)
	var wg sync.WaitGroup

	for i := range actions {
		if actions[i].Type != state.ActionApp || actions[i].Status != state.StatusInstall {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			o.installApp(ctx, runID, &actions[idx], dryRun)
		}(i)
	}
	wg.Wait()
}

func (o *Orchestrator) installApp(ctx context.Context, runID string, a *state.Action, dryRun bool) {
	o.publish(events.Event{RunID: runID, Kind: events.KindAppStarted,
		Item: &events.ItemFields{Type: "app", ID: a.ID, Status: "running"}})

	if dryRun {
		a.Status = state.StatusDryRun
		o.publish(events.Event{RunID: runID, Kind: events.KindAppCompleted,
			Item: &events.ItemFields{Type: "app", ID: a.ID, Status: string(a.Status)}})
		return
	}

	d, ok := o.drivers.Lookup(a.Driver)
	if !ok {
		a.Status = state.StatusFailed
		a.Error = fmt.Sprintf("no driver registered under %q", a.Driver)
	} else if result, err := d.Install(ctx, a.Ref); err != nil {
		a.Status = state.StatusFailed
		a.Error = err.Error()
	} else if result.Success {
		a.Status = state.StatusSuccess
	} else {
		a.Status = state.StatusFailed
		a.Error = result.Error
	}

	o.publish(events.Event{RunID: runID, Kind: events.KindAppCompleted,
		Item: &events.ItemFields{Type: "app", ID: a.ID, Status: string(a.Status), Message: a.Error}})
}

// runRestoresFromManifest applies every manifest.RestoreItem against the
// matching restore action in plan order (planner.Plan emits restore
// actions in the same order as m.Restore, per spec.md §4.6's ordering
// guarantee).
func (o *Orchestrator) runRestoresFromManifest(runID string, items []manifest.RestoreItem, actions []state.Action, manifestDir string, opts ApplyOptions) []string {
	restoreActions := make([]*state.Action, 0, len(items))
	for i := range actions {
		if actions[i].Type == state.ActionRestore {
			restoreActions = append(restoreActions, &actions[i])
		}
	}
	return o.applyRestoreItems(runID, items, restoreActions, manifestDir, opts)
}

func (o *Orchestrator) applyRestoreItems(runID string, items []manifest.RestoreItem, actions []*state.Action, baseDir string, opts ApplyOptions) []string {
	applier := restore.NewApplier()
	journal := state.Journal{RunID: runID}
	var warnings []string

	for i, item := range items {
		ropts := restore.Options{
			RunID:       runID,
			ManifestDir: baseDir,
			PayloadRoot: opts.PayloadRoot,
			DryRun:      opts.DryRun,
			Resolver:    o.resolver,
			Store:       o.store,
		}
		entry, itemWarnings, err := applier.Apply(item, ropts)
		warnings = append(warnings, itemWarnings...)
		journal.Entries = append(journal.Entries, entry)

		if i >= len(actions) {
			continue
		}
		a := actions[i]
		switch entry.Action {
		case state.JournalRestored:
			a.Status = state.StatusSuccess
		case state.JournalSkippedUpToDate, state.JournalSkippedMissingSource:
			a.Status = state.StatusSkipped
			a.Reason = string(entry.Action)
		case state.JournalFailed:
			a.Status = state.StatusFailed
			a.Error = entry.Error
		}
		if err != nil && a.Status != state.StatusFailed {
			a.Status = state.StatusFailed
			a.Error = err.Error()
		}
	}

	if !opts.DryRun {
		_ = o.store.SaveJournal(journal)
	}
	return warnings
}

func (o *Orchestrator) runVerifies(ctx context.Context, actions []state.Action) {
	for i := range actions {
		a := &actions[i]
		if a.Type != state.ActionVerify {
			continue
		}
		verifier, ok := o.verifiers.Lookup(a.VerifyType)
		if !ok {
			a.Status = state.StatusFailed
			a.Error = fmt.Sprintf("no verifier registered for %q", a.VerifyType)
			continue
		}
		result, err := verifier.Check(ctx, verify.Args{Path: o.resolver.Expand(a.Path, ""), Command: a.Command})
		if err != nil {
			a.Status = state.StatusFailed
			a.Error = err.Error()
			continue
		}
		if result.Success {
			a.Status = state.StatusSuccess
			// command-succeeds is declared but not evaluated (internal/verify.CommandSucceeds);
			// surface its not-implemented marker instead of silently passing (spec.md §9).
			if a.VerifyType == "command-succeeds" {
				a.Reason = result.Message
			}
		} else {
			a.Status = state.StatusFailed
			a.Error = result.Message
		}
	}
}
