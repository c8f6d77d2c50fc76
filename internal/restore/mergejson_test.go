package restore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

func TestApplyMergeJSON_ArrayStrategyConcat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	target := filepath.Join(dir, "target.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"a": [1, 2]}`), 0o644))
	require.NoError(t, os.WriteFile(target, []byte(`{"a": [3]}`), 0o644))

	opts := newTestOptions(t, dir)
	item := manifest.RestoreItem{
		Type: manifest.RestoreMerge, Format: manifest.MergeFormatJSON,
		Source: "src.json", Target: target, ArrayStrategy: manifest.ArrayConcat,
	}
	entry, _, err := NewApplier().Apply(item, opts)
	require.NoError(t, err)
	assert.Equal(t, state.JournalRestored, entry.Action)
	assert.True(t, entry.BackupCreated)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []any{float64(3), float64(1), float64(2)}, got["a"])
}

func TestApplyMergeJSON_ArrayStrategyReplaceIsDefault(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	target := filepath.Join(dir, "target.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"a": [1, 2]}`), 0o644))
	require.NoError(t, os.WriteFile(target, []byte(`{"a": [3]}`), 0o644))

	opts := newTestOptions(t, dir)
	item := manifest.RestoreItem{Type: manifest.RestoreMerge, Format: manifest.MergeFormatJSON, Source: "src.json", Target: target}
	_, _, err := NewApplier().Apply(item, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []any{float64(1), float64(2)}, got["a"])
}

func TestApplyMergeJSON_MissingTargetCountsAsEmptyObject(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"a": 1}`), 0o644))

	opts := newTestOptions(t, dir)
	target := filepath.Join(dir, "new.json")
	item := manifest.RestoreItem{Type: manifest.RestoreMerge, Format: manifest.MergeFormatJSON, Source: "src.json", Target: target}
	entry, _, err := NewApplier().Apply(item, opts)
	require.NoError(t, err)
	assert.Equal(t, state.JournalRestored, entry.Action)
	assert.False(t, entry.BackupCreated)
	assert.FileExists(t, target)
}

func TestApplyMergeJSON_SkipsWhenAlreadyMerged(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	target := filepath.Join(dir, "target.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"a": 1}`), 0o644))
	require.NoError(t, os.WriteFile(target, []byte(`{"a": 1, "b": 2}`), 0o644))

	opts := newTestOptions(t, dir)
	item := manifest.RestoreItem{Type: manifest.RestoreMerge, Format: manifest.MergeFormatJSON, Source: "src.json", Target: target}
	entry, _, err := NewApplier().Apply(item, opts)
	require.NoError(t, err)
	assert.Equal(t, state.JournalSkippedUpToDate, entry.Action)
}

func TestDeepMergeJSON_ObjectKeysUnionWithSourcePrecedence(t *testing.T) {
	target := map[string]any{"a": 1, "b": 2}
	source := map[string]any{"b": 20, "c": 3}
	merged := deepMergeJSON(target, source, manifest.ArrayReplace)
	assert.Equal(t, map[string]any{"a": 1, "b": 20, "c": 3}, merged)
}
