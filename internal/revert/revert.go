// Package revert implements the reverter (C9): undoing a prior restore
// run by replaying its journal in reverse.
//
// Grounded on internal/domain/snapshot.Manager.Restore: the teacher's
// snapshot-set-by-id restore-then-delete flow generalizes directly to
// journal-driven, reverse-order entry processing. This package is built
// as a consumer of the restorer's (C8) backup-tree primitives on
// internal/state.Store, not a parallel implementation of them.
package revert

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/artexis10/endstate/internal/state"
)

// Options carries the inputs one Revert call needs.
type Options struct {
	// RunID is the new run id this revert executes under; its own
	// safety backups land in the backup tree at this id.
	RunID string
	// RevertedRunID is the prior restore run whose journal is replayed.
	RevertedRunID string
	Store         *state.Store
	// DryRun computes and classifies each entry's outcome without taking
	// a safety backup or touching the target (spec.md §6: "revert
	// --dry-run").
	DryRun bool
	// Clock is overridable for tests; defaults to time.Now.
	Clock func() time.Time
}

// EntryOutcome is one journal entry's revert result.
type EntryOutcome struct {
	Entry    state.JournalEntry
	Reverted bool
	Error    string
	// Reason explains why an entry was skipped.
	Reason   string
}

// Revert loads the journal for opts.RevertedRunID, processes its entries
// in reverse order, and saves a new run record for opts.RunID keyed to
// RevertedRunID. A failure on one entry is recorded and does not stop
// processing of the remaining entries (spec.md §4.9: "no cross-entry
// rollback"). The run record is always saved, dry run or not, mirroring
// the restorer and applier; only the per-entry file writes are skipped
// when opts.DryRun is set.
func Revert(opts Options) (state.Record, error) {
	journal, err := opts.Store.LoadJournal(opts.RevertedRunID)
	if err != nil {
		return state.Record{}, err
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	var actions []state.Action
	for i := len(journal.Entries) - 1; i >= 0; i-- {
		outcome := revertEntry(opts, journal.Entries[i])
		actions = append(actions, outcomeToAction(outcome, opts.DryRun))
	}

	record := state.Record{
		RunID:         opts.RunID,
		Timestamp:     opts.Clock().UTC(),
		Command:       "revert",
		RevertedRunID: opts.RevertedRunID,
		Actions:       actions,
	}
	record.Tally()

	if err := opts.Store.SaveRecord(record); err != nil {
		return state.Record{}, err
	}
	return record, nil
}

func outcomeToAction(o EntryOutcome, dryRun bool) state.Action {
	a := state.Action{
		Type:        state.ActionRestore,
		RestoreType: o.Entry.Kind,
		Source:      o.Entry.Source,
		Target:      o.Entry.Target,
		Error:       o.Error,
	}
	switch {
	case o.Error != "":
		a.Status = state.StatusFailed
	case o.Reverted && dryRun:
		a.Status = state.StatusDryRun
	case o.Reverted:
		a.Status = state.StatusSuccess
	default:
		a.Status = state.StatusSkipped
		a.Reason = o.Reason
	}
	return a
}

// revertEntry applies the reverse of one journal entry (spec.md §4.9):
// restore from backup when one was created, delete when the target
// didn't exist before the original restore, otherwise skip. When
// opts.DryRun is set, the same branches are classified but no safety
// backup is taken and no target is touched.
func revertEntry(opts Options, e state.JournalEntry) EntryOutcome {
	if e.Action != state.JournalRestored {
		return EntryOutcome{Entry: e, Reason: "entry was not a restore; nothing to revert"}
	}

	if e.BackupCreated && e.BackupPath != "" {
		if pathExists(e.BackupPath) {
			if opts.DryRun {
				return EntryOutcome{Entry: e, Reverted: true}
			}
			if err := safetyBackup(opts, e.TargetPath); err != nil {
				return EntryOutcome{Entry: e, Error: err.Error()}
			}
			if err := restorePath(e.BackupPath, e.TargetPath); err != nil {
				return EntryOutcome{Entry: e, Error: err.Error()}
			}
			return EntryOutcome{Entry: e, Reverted: true}
		}
	}

	if !e.TargetExistedBefore {
		if opts.DryRun {
			return EntryOutcome{Entry: e, Reverted: true}
		}
		if err := safetyBackup(opts, e.TargetPath); err != nil {
			return EntryOutcome{Entry: e, Error: err.Error()}
		}
		if err := os.RemoveAll(e.TargetPath); err != nil {
			return EntryOutcome{Entry: e, Error: err.Error()}
		}
		return EntryOutcome{Entry: e, Reverted: true}
	}

	return EntryOutcome{Entry: e, Error: "no backup available and target existed before restore"}
}

// safetyBackup copies the current state of target into the revert's own
// backup tree before mutating it, so a revert is itself reversible. A
// missing target is not an error: there is nothing to protect.
func safetyBackup(opts Options, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		_, err = opts.Store.WriteBackupTree(opts.RunID, target, target)
	} else {
		_, err = opts.Store.WriteBackup(opts.RunID, target, target)
	}
	return err
}

// restorePath copies backupPath over target, replacing it entirely.
func restorePath(backupPath, target string) error {
	info, err := os.Stat(backupPath)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := os.RemoveAll(target); err != nil {
			return err
		}
		return copyDir(backupPath, target)
	}
	return copyFile(backupPath, target, info.Mode())
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var errNotRegular = errors.New("revert: backup entry is not a regular file or directory")

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			return relErr
		}
		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type().IsRegular():
			info, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}
			return copyFile(path, target, info.Mode())
		default:
			return errNotRegular
		}
	})
}
