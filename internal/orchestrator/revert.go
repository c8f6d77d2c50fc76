package orchestrator

import (
	"context"

	"github.com/artexis10/endstate/internal/revert"
	"github.com/artexis10/endstate/internal/state"
)

// RevertOptions configures the revert command.
type RevertOptions struct {
	RevertedRunID string
	DryRun        bool
}

// RevertData is the revert command's successful payload.
type RevertData struct {
	RevertedRunID string         `json:"revertedRunId"`
	Actions       []state.Action `json:"actions"`
}

// Revert undoes a prior restore run by replaying its journal in reverse
// (spec.md §4.9).
func (o *Orchestrator) Revert(_ context.Context, opts RevertOptions) Envelope {
	const command = "revert"
	runID := o.newRunID()

	rec, err := revert.Revert(revert.Options{
		RunID:         runID,
		RevertedRunID: opts.RevertedRunID,
		Store:         o.store,
		DryRun:        opts.DryRun,
		Clock:         o.clock,
	})
	if err != nil {
		return o.fail(command, runID, newError(ErrRunNotFound, "failed to revert run", err))
	}

	if rec.Summary.Failed > 0 {
		return o.fail(command, runID, newError(ErrRestoreFailed, "one or more journal entries could not be reverted", nil).
			WithDetail(RevertData{RevertedRunID: rec.RevertedRunID, Actions: rec.Actions}))
	}
	return o.ok(command, runID, RevertData{RevertedRunID: rec.RevertedRunID, Actions: rec.Actions})
}
