package restore

import (
	"bytes"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

// applyMergeINI implements `merge`/`ini`: load target first (so its
// comments and section order survive), then overlay every section/key
// from source with source precedence. Missing target starts from an
// empty ini.File.
func applyMergeINI(entry *state.JournalEntry, resolvedSource, target string, item manifest.RestoreItem, opts Options) error {
	sourceCfg, err := ini.Load(resolvedSource)
	if err != nil {
		return err
	}

	var targetCfg *ini.File
	if entry.TargetExistedBefore {
		targetCfg, err = ini.Load(target)
		if err != nil {
			return err
		}
	} else {
		targetCfg = ini.Empty()
	}

	// Round-trip target through the library's own writer before
	// overlaying source, so the idempotence comparison below isn't
	// thrown off by formatting the original file on disk never had
	// (alignment, blank lines) but ini.v1's writer always produces.
	var before bytes.Buffer
	if _, err := targetCfg.WriteTo(&before); err != nil {
		return err
	}

	for _, section := range sourceCfg.Sections() {
		destSection, err := targetCfg.NewSection(section.Name())
		if err != nil {
			return err
		}
		for _, key := range section.Keys() {
			destSection.Key(key.Name()).SetValue(key.Value())
		}
	}

	var buf bytes.Buffer
	if _, err := targetCfg.WriteTo(&buf); err != nil {
		return err
	}
	merged := buf.Bytes()

	if entry.TargetExistedBefore && bytes.Equal(before.Bytes(), merged) {
		entry.Action = state.JournalSkippedUpToDate
		return nil
	}

	if opts.DryRun {
		entry.Action = state.JournalRestored
		return nil
	}

	if err := maybeBackup(entry, target, item, opts); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(target, merged, 0o644); err != nil {
		return err
	}

	entry.Action = state.JournalRestored
	return nil
}
