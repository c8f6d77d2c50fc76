package orchestrator

import (
	"context"

	"github.com/artexis10/endstate/internal/bundle"
	"github.com/artexis10/endstate/internal/domain/manifest"
)

// ValidateBundleOptions configures the validate-bundle command. BundlePath
// is optional; when empty only the manifest is validated.
type ValidateBundleOptions struct {
	ManifestPath string
	BundlePath   string
}

// ValidateBundleData is the validate-bundle command's successful payload.
type ValidateBundleData struct {
	ManifestWarnings []string         `json:"manifestWarnings,omitempty"`
	BundleChecked    bool             `json:"bundleChecked"`
	HasConfigs       bool             `json:"hasConfigs,omitempty"`
	Metadata         *bundle.Metadata `json:"metadata,omitempty"`
}

// ValidateBundle checks that a manifest parses and, when a bundle path is
// given, that the zip extracts cleanly and carries a manifest of its own.
func (o *Orchestrator) ValidateBundle(_ context.Context, opts ValidateBundleOptions) Envelope {
	const command = "validate-bundle"
	runID := o.newRunID()

	warnings, err := manifest.ValidateProfile(opts.ManifestPath)
	if err != nil {
		return o.fail(command, runID, wrapManifestError(err))
	}

	data := ValidateBundleData{ManifestWarnings: warnings}
	if opts.BundlePath == "" {
		return o.ok(command, runID, data)
	}

	handle, err := bundle.ExpandBundle(opts.BundlePath)
	if err != nil {
		return o.fail(command, runID, newError(ErrManifestParseError, "bundle failed to expand", err).
			WithRemediation("confirm the bundle was produced by a compatible capture and is not truncated"))
	}
	defer handle.Close()

	if _, err := manifest.ValidateProfile(handle.ManifestPath); err != nil {
		return o.fail(command, runID, wrapManifestError(err).WithDetail("manifest.jsonc inside the bundle failed validation"))
	}

	data.BundleChecked = true
	data.HasConfigs = handle.HasConfigs
	data.Metadata = &handle.Metadata
	return o.ok(command, runID, data)
}
