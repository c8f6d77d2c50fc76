package orchestrator

import (
	"context"

	"github.com/artexis10/endstate/internal/state"
)

// VerifyOptions configures the standalone verify command.
type VerifyOptions struct {
	ManifestPath string
}

// VerifyData is the verify command's successful payload.
type VerifyData struct {
	Actions []state.Action `json:"actions"`
	Summary struct {
		Success int `json:"success"`
		Failed  int `json:"failed"`
	} `json:"summary"`
}

// Verify runs every verify item in the expanded manifest, independent of
// apply (spec.md §6's `verify --manifest` surface).
func (o *Orchestrator) Verify(ctx context.Context, opts VerifyOptions) Envelope {
	const command = "verify"
	runID := o.newRunID()

	m, classified := o.loadExpandedManifest(opts.ManifestPath)
	if classified != nil {
		return o.fail(command, runID, classified)
	}

	actions := make([]state.Action, 0, len(m.Verify))
	for _, v := range m.Verify {
		actions = append(actions, state.Action{
			Type:       state.ActionVerify,
			VerifyType: string(v.Type),
			Path:       v.Path,
			Command:    v.Command,
			Status:     state.StatusVerify,
		})
	}

	o.runVerifies(ctx, actions)

	rec := state.Record{
		RunID:    runID,
		Timestamp: o.now().UTC(),
		Command:  command,
		Manifest: state.ManifestRef{Path: opts.ManifestPath, ExpandedHash: m.ExpandedHash},
		Actions:  actions,
	}
	rec.Tally()
	if err := o.store.SaveRecord(rec); err != nil {
		return o.fail(command, runID, newError(ErrInternal, "failed to save run record", err))
	}

	data := VerifyData{Actions: actions}
	data.Summary.Success = rec.Summary.Success
	data.Summary.Failed = rec.Summary.Failed

	if rec.Summary.Failed > 0 {
		return o.fail(command, runID, newError(ErrVerifyFailed, "one or more verify items failed", nil).WithDetail(data))
	}
	return o.ok(command, runID, data)
}
