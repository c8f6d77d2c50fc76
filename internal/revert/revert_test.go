package revert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artexis10/endstate/internal/state"
)

func TestRevert_RestoresFromBackupWhenPresent(t *testing.T) {
	stateRoot := t.TempDir()
	store := state.New(stateRoot)
	target := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))
	backupPath, err := store.WriteBackup("run-1", target, target)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(target, []byte("restored-by-earlier-run"), 0o644))

	journal := state.Journal{RunID: "run-1", Entries: []state.JournalEntry{
		{
			Kind: "copy", Target: target, TargetPath: target,
			TargetExistedBefore: true, BackupCreated: true, BackupPath: backupPath,
			Action: state.JournalRestored,
		},
	}}
	require.NoError(t, store.SaveJournal(journal))

	record, err := Revert(Options{RunID: "run-2", RevertedRunID: "run-1", Store: store})
	require.NoError(t, err)

	assert.Equal(t, "run-1", record.RevertedRunID)
	assert.Equal(t, 1, record.Summary.Success)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestRevert_DeletesTargetWhenItDidNotExistBefore(t *testing.T) {
	stateRoot := t.TempDir()
	store := state.New(stateRoot)
	target := filepath.Join(t.TempDir(), "new.txt")
	require.NoError(t, os.WriteFile(target, []byte("created-by-earlier-run"), 0o644))

	journal := state.Journal{RunID: "run-1", Entries: []state.JournalEntry{
		{
			Kind: "copy", Target: target, TargetPath: target,
			TargetExistedBefore: false, BackupCreated: false,
			Action: state.JournalRestored,
		},
	}}
	require.NoError(t, store.SaveJournal(journal))

	record, err := Revert(Options{RunID: "run-2", RevertedRunID: "run-1", Store: store})
	require.NoError(t, err)

	assert.Equal(t, 1, record.Summary.Success)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRevert_SkipsWhenNoBackupAndTargetExistedBefore(t *testing.T) {
	stateRoot := t.TempDir()
	store := state.New(stateRoot)
	target := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("overwritten"), 0o644))

	journal := state.Journal{RunID: "run-1", Entries: []state.JournalEntry{
		{
			Kind: "copy", Target: target, TargetPath: target,
			TargetExistedBefore: true, BackupCreated: false,
			Action: state.JournalRestored,
		},
	}}
	require.NoError(t, store.SaveJournal(journal))

	record, err := Revert(Options{RunID: "run-2", RevertedRunID: "run-1", Store: store})
	require.NoError(t, err)

	require.Len(t, record.Actions, 1)
	assert.Equal(t, state.StatusFailed, record.Actions[0].Status)
	assert.Contains(t, record.Actions[0].Error, "no backup available")
}

func TestRevert_NonRestoredEntriesAreSkipped(t *testing.T) {
	stateRoot := t.TempDir()
	store := state.New(stateRoot)

	journal := state.Journal{RunID: "run-1", Entries: []state.JournalEntry{
		{Kind: "copy", Target: "/tmp/whatever", Action: state.JournalSkippedUpToDate},
	}}
	require.NoError(t, store.SaveJournal(journal))

	record, err := Revert(Options{RunID: "run-2", RevertedRunID: "run-1", Store: store})
	require.NoError(t, err)

	require.Len(t, record.Actions, 1)
	assert.Equal(t, state.StatusSkipped, record.Actions[0].Status)
}

func TestRevert_ProcessesEntriesInReverseOrder(t *testing.T) {
	stateRoot := t.TempDir()
	store := state.New(stateRoot)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	require.NoError(t, os.WriteFile(first, []byte("created-1"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("created-2"), 0o644))

	journal := state.Journal{RunID: "run-1", Entries: []state.JournalEntry{
		{Kind: "copy", Target: first, TargetPath: first, TargetExistedBefore: false, Action: state.JournalRestored},
		{Kind: "copy", Target: second, TargetPath: second, TargetExistedBefore: false, Action: state.JournalRestored},
	}}
	require.NoError(t, store.SaveJournal(journal))

	record, err := Revert(Options{RunID: "run-2", RevertedRunID: "run-1", Store: store})
	require.NoError(t, err)

	require.Len(t, record.Actions, 2)
	assert.Equal(t, second, record.Actions[0].Target)
	assert.Equal(t, first, record.Actions[1].Target)
}

func TestRevert_ContinuesAfterOneEntryFails(t *testing.T) {
	stateRoot := t.TempDir()
	store := state.New(stateRoot)
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.txt")
	stuck := filepath.Join(dir, "stuck.txt")
	require.NoError(t, os.WriteFile(ok, []byte("created"), 0o644))
	require.NoError(t, os.WriteFile(stuck, []byte("existing"), 0o644))

	journal := state.Journal{RunID: "run-1", Entries: []state.JournalEntry{
		{Kind: "copy", Target: stuck, TargetPath: stuck, TargetExistedBefore: true, BackupCreated: false, Action: state.JournalRestored},
		{Kind: "copy", Target: ok, TargetPath: ok, TargetExistedBefore: false, Action: state.JournalRestored},
	}}
	require.NoError(t, store.SaveJournal(journal))

	record, err := Revert(Options{RunID: "run-2", RevertedRunID: "run-1", Store: store})
	require.NoError(t, err)

	require.Len(t, record.Actions, 2)
	assert.Equal(t, state.StatusSuccess, record.Actions[0].Status)
	assert.Equal(t, state.StatusFailed, record.Actions[1].Status)
	_, statErr := os.Stat(ok)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRevert_DryRunLeavesTargetUntouched(t *testing.T) {
	stateRoot := t.TempDir()
	store := state.New(stateRoot)
	target := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))
	backupPath, err := store.WriteBackup("run-1", target, target)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(target, []byte("restored-by-earlier-run"), 0o644))

	journal := state.Journal{RunID: "run-1", Entries: []state.JournalEntry{
		{
			Kind: "copy", Target: target, TargetPath: target,
			TargetExistedBefore: true, BackupCreated: true, BackupPath: backupPath,
			Action: state.JournalRestored,
		},
	}}
	require.NoError(t, store.SaveJournal(journal))

	record, err := Revert(Options{RunID: "run-2", RevertedRunID: "run-1", Store: store, DryRun: true})
	require.NoError(t, err)

	require.Len(t, record.Actions, 1)
	assert.Equal(t, state.StatusDryRun, record.Actions[0].Status)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "restored-by-earlier-run", string(data))
}

func TestRevert_RestoresDirectoryFromBackupTree(t *testing.T) {
	stateRoot := t.TempDir()
	store := state.New(stateRoot)
	target := filepath.Join(t.TempDir(), "configdir")
	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.txt"), []byte("original-a"), 0o644))

	backupPath, err := store.WriteBackupTree("run-1", target, target)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(target, "a.txt"), []byte("changed-a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "b.txt"), []byte("added-b"), 0o644))

	journal := state.Journal{RunID: "run-1", Entries: []state.JournalEntry{
		{
			Kind: "copy", Target: target, TargetPath: target,
			TargetExistedBefore: true, BackupCreated: true, BackupPath: backupPath,
			Action: state.JournalRestored,
		},
	}}
	require.NoError(t, store.SaveJournal(journal))

	_, err = Revert(Options{RunID: "run-2", RevertedRunID: "run-1", Store: store})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(target, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "original-a", string(data))
	_, statErr := os.Stat(filepath.Join(target, "b.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
