// Package bundle implements the bundle packager (C10): staging a
// manifest plus a captured config payload into a single zip, and the
// reverse operation of expanding one back into a working directory.
//
// Grounded on internal/adapters/lockfile's defensive temp-file-then-
// rename Save: the same stage-to-a-scratch-location-then-atomic-rename
// shape, generalized here from one lockfile to a whole staging
// directory zipped in one pass. No third-party zip library appears
// anywhere in the example pack as a packaging primitive, so this stays
// on stdlib archive/zip.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/artexis10/endstate/internal/configcatalog"
	"github.com/artexis10/endstate/internal/domain/manifest"
)

const (
	manifestFileName = "manifest.jsonc"
	metadataFileName = "metadata.json"
	configsDirName   = "configs"
	schemaVersion    = "1.0"
)

// Metadata is metadata.json's shape (spec.md §4.11 step 5).
type Metadata struct {
	SchemaVersion         string    `json:"schemaVersion"`
	CapturedAt            time.Time `json:"capturedAt"`
	MachineName           string    `json:"machineName"`
	EndstateVersion       string    `json:"endstateVersion"`
	ConfigModulesIncluded []string  `json:"configModulesIncluded"`
	ConfigModulesSkipped  []string  `json:"configModulesSkipped"`
	CaptureWarnings       []string  `json:"captureWarnings,omitempty"`
}

// CreateOptions carries createBundle's inputs.
type CreateOptions struct {
	Catalog         *configcatalog.Catalog
	ManifestPath    string
	ZipPath         string
	WingetIDs       []string
	Discoveries     configcatalog.Discoveries
	CaptureWarnings []string
	MachineName     string
	EndstateVersion string
	// Clock is overridable for tests; defaults to time.Now.
	Clock func() time.Time
}

// CreateResult reports what createBundle actually did, for the caller
// to surface to the user.
type CreateResult struct {
	Metadata Metadata
	Capture  configcatalog.CaptureResult
}

// CreateBundle stages a manifest plus a captured config payload into a
// temp directory, then zips it to ZipPath via a staged "<path>.tmp" file
// and an atomic rename (spec.md §4.11).
func CreateBundle(opts CreateOptions) (CreateResult, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	expanded, err := manifest.Load(opts.ManifestPath, manifest.LoadOptions{Catalog: opts.Catalog})
	if err != nil {
		return CreateResult{}, fmt.Errorf("bundle: load manifest: %w", err)
	}

	staging, err := os.MkdirTemp("", "endstate-bundle-*")
	if err != nil {
		return CreateResult{}, fmt.Errorf("bundle: create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	matches := opts.Catalog.MatchesForApps(opts.WingetIDs, opts.Discoveries)
	matchedIDs := make([]string, 0, len(matches))
	selection := make([]manifest.ConfigModule, 0, len(matches))
	for _, match := range matches {
		mod, ok := opts.Catalog.Lookup(match.ModuleID)
		if !ok {
			continue
		}
		matchedIDs = append(matchedIDs, match.ModuleID)
		selection = append(selection, mod)
	}

	configsDir := filepath.Join(staging, configsDirName)
	captureResult, err := configcatalog.CaptureFiles(selection, configsDir)
	if err != nil {
		return CreateResult{}, fmt.Errorf("bundle: capture config files: %w", err)
	}

	rewriteRestoreSources(&expanded, selection, captureResult, configsDir)

	manifestBytes, err := json.MarshalIndent(expanded, "", "  ")
	if err != nil {
		return CreateResult{}, fmt.Errorf("bundle: marshal staged manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, manifestFileName), manifestBytes, 0o644); err != nil {
		return CreateResult{}, fmt.Errorf("bundle: write staged manifest: %w", err)
	}

	included := captureResult.ModulesCaptured
	skipped := moduleIDsNotIn(matchedIDs, included)

	meta := Metadata{
		SchemaVersion:         schemaVersion,
		CapturedAt:            opts.Clock().UTC(),
		MachineName:           opts.MachineName,
		EndstateVersion:       opts.EndstateVersion,
		ConfigModulesIncluded: included,
		ConfigModulesSkipped:  skipped,
		CaptureWarnings:       opts.CaptureWarnings,
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return CreateResult{}, fmt.Errorf("bundle: marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, metadataFileName), metaBytes, 0o644); err != nil {
		return CreateResult{}, fmt.Errorf("bundle: write metadata: %w", err)
	}

	tmpZip := opts.ZipPath + ".tmp"
	if err := zipDir(staging, tmpZip); err != nil {
		os.Remove(tmpZip)
		return CreateResult{}, fmt.Errorf("bundle: zip staging dir: %w", err)
	}
	if err := os.Rename(tmpZip, opts.ZipPath); err != nil {
		os.Remove(tmpZip)
		return CreateResult{}, fmt.Errorf("bundle: rename staged zip: %w", err)
	}

	return CreateResult{Metadata: meta, Capture: captureResult}, nil
}

// rewriteRestoreSources points every module-sourced restore item's
// Source at its captured payload path (configs/<moduleId>/<dest>), for
// every module-relative file that capture actually copied into
// configsDir. Items whose file was skipped or reported missing keep
// their original source unchanged, since nothing was staged for them.
//
// A restore item expanded from a config module is matched to the
// capture file it corresponds to by convention: the item's Source
// equals that capture file's Dest. This is the bundling convention a
// module author follows when its restore and capture.files entries
// describe the same payload.
func rewriteRestoreSources(m *manifest.Manifest, selection []manifest.ConfigModule, result configcatalog.CaptureResult, configsDir string) {
	copied := make(map[string]bool, len(result.Copied))
	for _, p := range result.Copied {
		copied[p] = true
	}

	for i := range m.Restore {
		item := &m.Restore[i]
		if item.FromModule == "" {
			continue
		}
		mod, ok := findModule(selection, item.FromModule)
		if !ok {
			continue
		}
		for _, f := range mod.Capture.Files {
			if f.Dest != item.Source {
				continue
			}
			if !copied[filepath.Join(configsDir, mod.ID, f.Dest)] {
				continue
			}
			item.Source = filepath.ToSlash(filepath.Join(configsDirName, mod.ID, f.Dest))
			break
		}
	}
}

func findModule(selection []manifest.ConfigModule, id string) (manifest.ConfigModule, bool) {
	for _, mod := range selection {
		if mod.ID == id {
			return mod, true
		}
	}
	return manifest.ConfigModule{}, false
}

func moduleIDsNotIn(all, exclude []string) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var out []string
	for _, id := range all {
		if !excluded[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Handle is an expanded bundle's cleanup handle, returned by ExpandBundle.
type Handle struct {
	ManifestPath string
	HasConfigs   bool
	Metadata     Metadata

	dir string
}

// Close removes the temp directory ExpandBundle extracted into.
func (h Handle) Close() error {
	if h.dir == "" {
		return nil
	}
	return os.RemoveAll(h.dir)
}

// ExpandBundle extracts zipPath into a fresh temp directory and reports
// its manifest path, whether it carries a configs payload, and its
// metadata (spec.md §4.11). Callers must Close the returned Handle.
func ExpandBundle(zipPath string) (Handle, error) {
	dir, err := os.MkdirTemp("", "endstate-expand-*")
	if err != nil {
		return Handle{}, fmt.Errorf("bundle: create expand dir: %w", err)
	}

	if err := unzipDir(zipPath, dir); err != nil {
		os.RemoveAll(dir)
		return Handle{}, fmt.Errorf("bundle: extract %s: %w", zipPath, err)
	}

	handle := Handle{
		ManifestPath: filepath.Join(dir, manifestFileName),
		dir:          dir,
	}

	if info, err := os.Stat(filepath.Join(dir, configsDirName)); err == nil && info.IsDir() {
		handle.HasConfigs = true
	}

	if metaBytes, err := os.ReadFile(filepath.Join(dir, metadataFileName)); err == nil {
		if err := json.Unmarshal(metaBytes, &handle.Metadata); err != nil {
			os.RemoveAll(dir)
			return Handle{}, fmt.Errorf("bundle: parse metadata.json: %w", err)
		}
	}

	return handle, nil
}

// ResolveProfile probes profilesDir for name in the order <name>.zip,
// <name>/manifest.jsonc, <name>.jsonc; the first found wins (spec.md
// §4.11).
func ResolveProfile(name, profilesDir string) (string, error) {
	candidates := []string{
		filepath.Join(profilesDir, name+".zip"),
		filepath.Join(profilesDir, name, "manifest.jsonc"),
		filepath.Join(profilesDir, name+".jsonc"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("bundle: no profile named %q found under %s", name, profilesDir)
}
