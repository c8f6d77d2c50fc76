// Package restore implements the restorer (C8): applying one typed
// RestoreItem against a target host, with backup-before-write, an
// idempotence comparator, and journal population.
//
// Grounded on internal/provider/files.CopyStep for the read-compare-
// backup-write sequence and its mtime/size idempotence check, and on
// internal/domain/merge.ThreeWayMerge for the general shape of a merge
// engine -- retargeted here from base/ours/theirs text merging to
// structural json/ini merge, since a restore item has no "base" text,
// only a source and a target.
package restore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/pathresolve"
	"github.com/artexis10/endstate/internal/security"
	"github.com/artexis10/endstate/internal/state"
)

// idempotenceWindow is the mtime tolerance used when comparing an
// existing target against its source.
const idempotenceWindow = 2 * time.Second

// Options carries the per-run context every Apply call needs.
type Options struct {
	RunID       string
	ManifestDir string
	PayloadRoot string // optional; preferred over ManifestDir when set
	DryRun      bool
	Resolver    *pathresolve.Resolver
	Store       *state.Store
}

// Applier resolves and dispatches RestoreItems through a Registry.
type Applier struct {
	registry *Registry
}

// NewApplier creates an Applier backed by the default registry (copy,
// merge/json, merge/ini, append). Callers that need a custom restore
// type can build their own Registry and construct an Applier with it
// via NewApplierWithRegistry.
func NewApplier() *Applier {
	return &Applier{registry: NewRegistry()}
}

// NewApplierWithRegistry creates an Applier backed by a caller-supplied
// registry, e.g. one with additional registered kinds.
func NewApplierWithRegistry(reg *Registry) *Applier {
	return &Applier{registry: reg}
}

// Apply resolves source/target, checks admin privilege, computes
// sensitive-path warnings, and dispatches to the registered handler for
// item's type (and, for merge items, its format). It always returns a
// JournalEntry describing the outcome; callers decide whether to persist
// it (a dry run's entry is never written to the journal store).
func (a *Applier) Apply(item manifest.RestoreItem, opts Options) (state.JournalEntry, []string, error) {
	entry := state.JournalEntry{
		Kind:            dispatchKey(item),
		Source:          item.Source,
		Target:          item.Target,
		BackupRequested: item.WantsBackup(),
	}

	if item.RequiresAdmin && !IsElevated() {
		entry.Action = state.JournalFailed
		entry.Error = ErrPrivilegeRequired.Error()
		return entry, nil, ErrPrivilegeRequired
	}

	target := resolveRelative(opts.Resolver, item.Target, opts.ManifestDir)
	entry.TargetPath = target
	entry.TargetExistedBefore = pathExists(target)

	warnings := sensitiveWarnings(target)

	resolvedSource, found := resolveSource(item.Source, opts)
	entry.ResolvedSourcePath = resolvedSource
	if !found {
		entry.Action = state.JournalSkippedMissingSource
		return entry, warnings, nil
	}

	handler, ok := a.registry.Lookup(dispatchKey(item))
	if !ok {
		entry.Action = state.JournalFailed
		entry.Error = ErrUnknownRestoreType.Error()
		return entry, warnings, ErrUnknownRestoreType
	}

	if err := handler(&entry, resolvedSource, target, item, opts); err != nil {
		entry.Action = state.JournalFailed
		entry.Error = err.Error()
		return entry, warnings, err
	}
	return entry, warnings, nil
}

// dispatchKey returns the registry key for item: the bare type for copy
// and append, "merge/<format>" for merge.
func dispatchKey(item manifest.RestoreItem) string {
	if item.Type == manifest.RestoreMerge {
		return string(item.Type) + "/" + string(item.Format)
	}
	return string(item.Type)
}

// resolveSource tries payloadRoot first (if set and the file exists
// there), otherwise manifestDir, per the restorer's source resolution
// order. Returns the resolved absolute path and whether it exists.
func resolveSource(source string, opts Options) (string, bool) {
	if opts.PayloadRoot != "" {
		candidate := resolveRelative(opts.Resolver, source, opts.PayloadRoot)
		if pathExists(candidate) {
			return candidate, true
		}
	}
	candidate := resolveRelative(opts.Resolver, source, opts.ManifestDir)
	if pathExists(candidate) {
		return candidate, true
	}
	return candidate, false
}

// resolveRelative expands logical tokens, host env vars, and a leading
// ~ via Resolver.Expand, then joins the result onto base when it is
// still relative. Resolver.Expand only joins baseDir itself for paths
// already spelled "./..." or "../...", so plain relative source/target
// expressions ("src.txt", "configs/app.json") need this extra join.
func resolveRelative(r *pathresolve.Resolver, path, base string) string {
	expanded := r.Expand(path, "")
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Clean(filepath.Join(base, expanded))
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// sensitiveWarnings returns a one-element warning slice when target
// matches the shared sensitive-path deny list, nil otherwise.
func sensitiveWarnings(target string) []string {
	if pattern := security.MatchingPattern(target); pattern != "" {
		return []string{fmt.Sprintf("target %q matches sensitive-path pattern %q", target, pattern)}
	}
	return nil
}

// maybeBackup backs up target into the run's backup tree when the item
// wants a backup, the target exists, and this is not a dry run. It
// records backupCreated/backupPath on entry.
func maybeBackup(entry *state.JournalEntry, target string, item manifest.RestoreItem, opts Options) error {
	if opts.DryRun || !item.WantsBackup() || !entry.TargetExistedBefore {
		return nil
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	var path string
	if info.IsDir() {
		path, err = opts.Store.WriteBackupTree(opts.RunID, target, target)
	} else {
		path, err = opts.Store.WriteBackup(opts.RunID, target, target)
	}
	if err != nil {
		return err
	}
	entry.BackupCreated = true
	entry.BackupPath = path
	return nil
}

func withinIdempotenceWindow(a, b time.Time) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= idempotenceWindow
}
