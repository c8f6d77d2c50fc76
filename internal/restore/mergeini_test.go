package restore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

func TestApplyMergeINI_UnionsSectionsAndKeysWithSourcePrecedence(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.ini")
	target := filepath.Join(dir, "target.ini")
	require.NoError(t, os.WriteFile(src, []byte("[profile work]\nregion = us-east-1\n"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("; personal profile\n[profile personal]\nregion = us-west-2\n"), 0o644))

	opts := newTestOptions(t, dir)
	item := manifest.RestoreItem{Type: manifest.RestoreMerge, Format: manifest.MergeFormatINI, Source: "src.ini", Target: target}
	entry, _, err := NewApplier().Apply(item, opts)
	require.NoError(t, err)
	assert.Equal(t, state.JournalRestored, entry.Action)
	assert.True(t, entry.BackupCreated)

	merged, err := ini.Load(target)
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", merged.Section("profile personal").Key("region").String())
	assert.Equal(t, "us-east-1", merged.Section("profile work").Key("region").String())
}

func TestApplyMergeINI_SkipsWhenAlreadyMerged(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.ini")
	target := filepath.Join(dir, "target.ini")
	require.NoError(t, os.WriteFile(src, []byte("[default]\nregion = us-east-1\n"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("[default]\nregion = us-east-1\n"), 0o644))

	opts := newTestOptions(t, dir)
	item := manifest.RestoreItem{Type: manifest.RestoreMerge, Format: manifest.MergeFormatINI, Source: "src.ini", Target: target}
	entry, _, err := NewApplier().Apply(item, opts)
	require.NoError(t, err)
	assert.Equal(t, state.JournalSkippedUpToDate, entry.Action)
}
