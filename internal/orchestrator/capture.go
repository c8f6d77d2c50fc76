package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/artexis10/endstate/internal/bundle"
	"github.com/artexis10/endstate/internal/configcatalog"
	"github.com/artexis10/endstate/internal/domain/manifest"
)

// CaptureOptions configures the capture command (spec.md §6's `capture`
// surface). Only the toggles that change the produced manifest's
// content are modeled here; purely cosmetic CLI flags (`--minimize`,
// `--include-*-template`) are a presentation concern left to the CLI
// layer.
type CaptureOptions struct {
	OutManifestPath string
	Name            string

	// WithConfig turns on config-module matching/capture. ConfigModules,
	// when non-empty, pins the exact module ids to include instead of
	// auto-matching against the driver's export and discovered evidence.
	WithConfig    bool
	ConfigModules []string
	PayloadOut    string

	// BundleOut, when set, also packages the captured manifest and
	// payload into a zip via internal/bundle.
	BundleOut string

	// Discoveries feeds exe-name / uninstall-display-name evidence into
	// config-module matching; populated by the caller (the reference
	// CLI shells out to OS-specific discovery, which is outside this
	// package's scope).
	Discoveries configcatalog.Discoveries
}

// CaptureData is the capture command's successful payload.
type CaptureData struct {
	Manifest              manifest.Manifest `json:"manifest"`
	CaptureWarnings       []string          `json:"captureWarnings,omitempty"`
	ConfigModulesIncluded []string          `json:"configModulesIncluded,omitempty"`
	ConfigModulesSkipped  []string          `json:"configModulesSkipped,omitempty"`
	BundlePath            string            `json:"bundlePath,omitempty"`
}

// Capture builds a manifest from the active driver's export and,
// optionally, matched config modules' capture files, writing the result
// to OutManifestPath (and, if BundleOut is set, a zip bundle alongside
// it).
func (o *Orchestrator) Capture(ctx context.Context, opts CaptureOptions) Envelope {
	const command = "capture"
	runID := o.newRunID()

	d, ok := o.drivers.Lookup(o.driverName)
	if !ok {
		return o.fail(command, runID, newError(ErrWingetNotAvailable,
			fmt.Sprintf("no driver registered under %q", o.driverName), nil))
	}
	if !d.Available(ctx) {
		return o.fail(command, runID, newError(ErrWingetNotAvailable,
			fmt.Sprintf("driver %q reports unavailable", o.driverName), nil))
	}

	exportPath := filepath.Join(os.TempDir(), "endstate-export-"+runID+".json")
	defer os.Remove(exportPath)

	capture, err := d.Export(ctx, exportPath)
	if err != nil {
		return o.fail(command, runID, newError(ErrInternal, "driver export failed", err))
	}
	if len(capture.Refs) == 0 {
		return o.fail(command, runID, newError(ErrWingetCaptureEmpty, "driver export returned no packages", nil))
	}

	var warnings []string
	for _, w := range capture.Warnings {
		warnings = append(warnings, string(w))
	}

	m := manifest.Manifest{
		Version:  1,
		Name:     opts.Name,
		Captured: o.now().UTC(),
		Apps:     buildApps(capture.Refs, string(o.platform)),
	}

	data := CaptureData{CaptureWarnings: warnings}

	if opts.WithConfig {
		included, skipped, capWarnings, classified := o.captureConfigModules(&m, opts, capture.Refs)
		if classified != nil {
			return o.fail(command, runID, classified)
		}
		data.ConfigModulesIncluded = included
		data.ConfigModulesSkipped = skipped
		data.CaptureWarnings = append(data.CaptureWarnings, capWarnings...)
	}

	hash, err := manifest.Hash(m)
	if err != nil {
		return o.fail(command, runID, newError(ErrInternal, "failed to hash manifest", err))
	}
	m.ExpandedHash = hash

	manifestBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return o.fail(command, runID, newError(ErrInternal, "failed to encode manifest", err))
	}
	if opts.OutManifestPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.OutManifestPath), 0o755); err != nil {
			return o.fail(command, runID, newError(ErrInternal, "failed to create manifest directory", err))
		}
		if err := os.WriteFile(opts.OutManifestPath, manifestBytes, 0o644); err != nil {
			return o.fail(command, runID, newError(ErrInternal, "failed to write manifest", err))
		}
	}

	data.Manifest = m

	if opts.BundleOut != "" {
		result, err := bundle.CreateBundle(bundle.CreateOptions{
			Catalog:         o.catalog,
			ManifestPath:    opts.OutManifestPath,
			ZipPath:         opts.BundleOut,
			WingetIDs:       capture.Refs,
			Discoveries:     opts.Discoveries,
			CaptureWarnings: data.CaptureWarnings,
			MachineName:     o.machineName,
			EndstateVersion: o.cliVersion,
			Clock:           o.clock,
		})
		if err != nil {
			return o.fail(command, runID, newError(ErrInternal, "failed to create bundle", err))
		}
		data.BundlePath = opts.BundleOut
		data.CaptureWarnings = append(data.CaptureWarnings, result.Metadata.CaptureWarnings...)
	}

	return o.ok(command, runID, data)
}

// buildApps turns a flat ref list into one App per ref, keyed to the
// capturing machine's platform tag under App.Refs so the planner's
// per-platform lookup (spec.md §4.6, keyed by ActivePlatform) resolves
// it on a later `apply` run against the same platform.
func buildApps(refs []string, platformTag string) []manifest.App {
	apps := make([]manifest.App, 0, len(refs))
	for _, ref := range refs {
		apps = append(apps, manifest.App{
			ID:   ref,
			Refs: map[string]string{platformTag: ref},
		})
	}
	return apps
}

// captureConfigModules matches config modules against the captured
// winget ids and any supplied discoveries (or, if opts.ConfigModules is
// set, uses that explicit id list instead), then copies their capture
// files into opts.PayloadOut and records the matched module ids in
// m.ConfigModules.
func (o *Orchestrator) captureConfigModules(m *manifest.Manifest, opts CaptureOptions, wingetIDs []string) (included, skipped, warnings []string, classified *Error) {
	if o.catalog == nil {
		return nil, nil, nil, newError(ErrInvalidArgument, "--with-config requires a config module catalog", nil)
	}

	var selected []manifest.ConfigModule
	if len(opts.ConfigModules) > 0 {
		for _, id := range opts.ConfigModules {
			mod, ok := o.catalog.Lookup(id)
			if !ok {
				skipped = append(skipped, id)
				continue
			}
			selected = append(selected, mod)
			included = append(included, id)
		}
	} else {
		for _, match := range o.catalog.MatchesForApps(wingetIDs, opts.Discoveries) {
			mod, ok := o.catalog.Lookup(match.ModuleID)
			if !ok {
				continue
			}
			selected = append(selected, mod)
			included = append(included, match.ModuleID)
		}
	}

	m.ConfigModules = included

	if opts.PayloadOut == "" {
		return included, skipped, nil, nil
	}

	result, err := configcatalog.CaptureFiles(selected, opts.PayloadOut)
	if err != nil {
		return nil, nil, nil, newError(ErrInternal, "failed to capture config module files", err)
	}
	for _, missing := range result.Missing {
		warnings = append(warnings, "missing capture file: "+missing)
	}
	return included, skipped, warnings, nil
}
