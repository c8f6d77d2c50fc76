package orchestrator

import (
	"context"
	"fmt"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/planner"
)

// PlanOptions configures the plan command.
type PlanOptions struct {
	ManifestPath string
}

// PlanData is the plan command's successful payload.
type PlanData struct {
	Plan         planner.Plan `json:"plan"`
	ExpandedHash string       `json:"expandedHash"`
}

// loadExpandedManifest loads and expands the manifest at path against
// o.catalog, the one seam every command that consumes a manifest shares.
func (o *Orchestrator) loadExpandedManifest(path string) (manifest.Manifest, *Error) {
	m, err := manifest.Load(path, manifest.LoadOptions{Catalog: o.catalog})
	if err != nil {
		return manifest.Manifest{}, wrapManifestError(err)
	}
	return m, nil
}

// observedInstalled takes one stable listInstalled() snapshot from the
// named driver (spec.md §4.7's stability requirement).
func (o *Orchestrator) observedInstalled(ctx context.Context) ([]string, *Error) {
	d, ok := o.drivers.Lookup(o.driverName)
	if !ok {
		return nil, newError(ErrWingetNotAvailable,
			fmt.Sprintf("no driver registered under %q", o.driverName), nil)
	}
	if !d.Available(ctx) {
		return nil, newError(ErrWingetNotAvailable,
			fmt.Sprintf("driver %q reports unavailable", o.driverName), nil)
	}
	refs, err := d.ListInstalled(ctx)
	if err != nil {
		return nil, newError(ErrInternal, "failed to list installed packages", err)
	}
	return refs, nil
}

// Plan runs the plan command: expand the manifest, diff it against one
// observed-installed snapshot, and persist the resulting plan under
// plans/<runId>.json.
func (o *Orchestrator) Plan(ctx context.Context, opts PlanOptions) Envelope {
	const command = "plan"
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

	if err := planner.Save(o.stateRoot, runID, p); err != nil {
		return o.fail(command, runID, newError(ErrInternal, "failed to save plan", err))
	}

	return o.ok(command, runID, PlanData{Plan: p, ExpandedHash: m.ExpandedHash})
}
