package restore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/pathresolve"
	"github.com/artexis10/endstate/internal/state"
)

func newTestOptions(t *testing.T, manifestDir string) Options {
	t.Helper()
	stateRoot := t.TempDir()
	return Options{
		RunID:       "run-1",
		ManifestDir: manifestDir,
		Resolver:    pathresolve.New(nil),
		Store:       state.New(stateRoot),
	}
}

func TestApply_CopyMissingSourceIsSkippedNotFailed(t *testing.T) {
	dir := t.TempDir()
	opts := newTestOptions(t, dir)

	item := manifest.RestoreItem{Type: manifest.RestoreCopy, Source: "nope.txt", Target: filepath.Join(dir, "out.txt")}
	entry, _, err := NewApplier().Apply(item, opts)

	require.NoError(t, err)
	assert.Equal(t, state.JournalSkippedMissingSource, entry.Action)
}

func TestApply_RequiresAdminFailsWithoutElevation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.txt"), []byte("x"), 0o644))
	opts := newTestOptions(t, dir)

	old := IsElevated
	IsElevated = func() bool { return false }
	defer func() { IsElevated = old }()

	item := manifest.RestoreItem{Type: manifest.RestoreCopy, Source: "src.txt", Target: filepath.Join(dir, "out.txt"), RequiresAdmin: true}
	entry, _, err := NewApplier().Apply(item, opts)

	require.ErrorIs(t, err, ErrPrivilegeRequired)
	assert.Equal(t, state.JournalFailed, entry.Action)
}

func TestApply_SensitiveTargetReportsWarning(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.txt"), []byte("x"), 0o644))
	opts := newTestOptions(t, dir)

	item := manifest.RestoreItem{Type: manifest.RestoreCopy, Source: "src.txt", Target: filepath.Join(dir, ".aws", "credentials")}
	_, warnings, err := NewApplier().Apply(item, opts)

	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "sensitive-path")
}

func TestApply_PayloadRootPreferredOverManifestDir(t *testing.T) {
	manifestDir := t.TempDir()
	payloadRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(manifestDir, "shared.txt"), []byte("from-manifest"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(payloadRoot, "shared.txt"), []byte("from-payload"), 0o644))

	opts := newTestOptions(t, manifestDir)
	opts.PayloadRoot = payloadRoot

	target := filepath.Join(manifestDir, "out.txt")
	item := manifest.RestoreItem{Type: manifest.RestoreCopy, Source: "shared.txt", Target: target}
	_, _, err := NewApplier().Apply(item, opts)
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "from-payload", string(got))
}
