package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/artexis10/endstate/internal/state"
)

// RestoreOptions configures the standalone restore command.
type RestoreOptions struct {
	ManifestPath string
	PayloadRoot  string
	DryRun       bool
}

// RestoreData is the restore command's successful payload.
type RestoreData struct {
	Actions  []state.Action `json:"actions"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Restore applies every restore item in the expanded manifest,
// independent of an app-install apply (spec.md §6's `restore --manifest
// --enable-restore` surface). The `--enable-restore` flag is enforced by
// the CLI layer; reaching this method already implies the caller opted
// in.
func (o *Orchestrator) Restore(_ context.Context, opts RestoreOptions) Envelope {
	const command = "restore"
	runID := o.newRunID()

	m, classified := o.loadExpandedManifest(opts.ManifestPath)
	if classified != nil {
		return o.fail(command, runID, classified)
	}

	actions := make([]state.Action, 0, len(m.Restore))
	for _, r := range m.Restore {
		actions = append(actions, state.Action{
			Type:        state.ActionRestore,
			RestoreType: string(r.Type),
			Source:      r.Source,
			Target:      r.Target,
			Backup:      r.Backup,
			Status:      state.StatusRestore,
		})
	}

	warnings := o.runRestoresFromManifest(runID, m.Restore, actions, filepath.Dir(opts.ManifestPath), ApplyOptions{
		PayloadRoot: opts.PayloadRoot,
		DryRun:      opts.DryRun,
	})

	rec := state.Record{
		RunID:     runID,
		Timestamp: o.now().UTC(),
		Command:   command,
		DryRun:    opts.DryRun,
		Manifest:  state.ManifestRef{Path: opts.ManifestPath, ExpandedHash: m.ExpandedHash},
		Actions:   actions,
	}
	rec.Tally()
	if err := o.store.SaveRecord(rec); err != nil {
		return o.fail(command, runID, newError(ErrInternal, "failed to save run record", err))
	}

	data := RestoreData{Actions: actions, Warnings: warnings}
	if rec.Summary.Failed > 0 {
		return o.fail(command, runID, newError(ErrRestoreFailed, "one or more restore items failed", nil).WithDetail(data))
	}
	return o.ok(command, runID, data)
}
