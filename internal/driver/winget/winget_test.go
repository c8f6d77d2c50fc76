package winget

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artexis10/endstate/internal/ports"
)

func TestAvailable_TrueWhenVersionSucceeds(t *testing.T) {
	runner := ports.NewMockCommandRunner()
	runner.AddResult("winget", []string{"--version"}, ports.CommandResult{ExitCode: 0, Stdout: "v1.6.1573"})

	d := New(runner, nil)
	assert.True(t, d.Available(context.Background()))
}

func TestVersionFloorMet_ComparesSemver(t *testing.T) {
	runner := ports.NewMockCommandRunner()
	runner.AddResult("winget", []string{"--version"}, ports.CommandResult{ExitCode: 0, Stdout: "v1.2.0"})

	d := New(runner, nil)
	met, version, err := d.VersionFloorMet(context.Background())
	require.NoError(t, err)
	assert.False(t, met)
	assert.Equal(t, "v1.2.0", version)
}

func TestListInstalled_ParsesIDColumn(t *testing.T) {
	runner := ports.NewMockCommandRunner()
	runner.AddResult("winget", []string{"list", "--accept-source-agreements"}, ports.CommandResult{
		ExitCode: 0,
		Stdout: "Name              Id                      Version\n" +
			"-----------------------------------------------\n" +
			"Git               Git.Git                 2.44.0\n" +
			"Visual Studio Code Microsoft.VisualStudioCode 1.85.0\n",
	})

	d := New(runner, nil)
	ids, err := d.ListInstalled(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ids, "Git.Git")
}

func TestInstall_RejectsInvalidID(t *testing.T) {
	runner := ports.NewMockCommandRunner()
	d := New(runner, nil)

	result, err := d.Install(context.Background(), "; rm -rf /")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestInstall_Success(t *testing.T) {
	runner := ports.NewMockCommandRunner()
	runner.AddResult("winget", []string{
		"install", "--id", "Git.Git", "--exact", "--accept-source-agreements", "--accept-package-agreements", "--silent",
	}, ports.CommandResult{ExitCode: 0})

	d := New(runner, nil)
	result, err := d.Install(context.Background(), "Git.Git")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestExport_FallsBackToListOnFailure(t *testing.T) {
	runner := ports.NewMockCommandRunner()
	runner.AddResult("winget", []string{"list", "--accept-source-agreements"}, ports.CommandResult{
		ExitCode: 0, Stdout: "Name Id Version\n---\nGit Git.Git 2.44.0\n",
	})
	// no mock result registered for "export ..." -> Run returns an error

	d := New(runner, nil)
	capture, err := d.Export(context.Background(), "out.json")
	require.NoError(t, err)
	require.Len(t, capture.Warnings, 1)
	assert.Contains(t, capture.Refs, "Git.Git")
}

func TestExport_ParsesPackageIdentifiersOnSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Sources": [{"Packages": [
			{"PackageIdentifier": "Git.Git"},
			{"PackageIdentifier": "Microsoft.VisualStudioCode"}
		]}]
	}`), 0o644))

	runner := ports.NewMockCommandRunner()
	runner.AddResult("winget", []string{"export", "-o", path, "--accept-source-agreements"}, ports.CommandResult{ExitCode: 0})

	d := New(runner, nil)
	capture, err := d.Export(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, capture.Warnings)
	assert.Equal(t, []string{"Git.Git", "Microsoft.VisualStudioCode"}, capture.Refs)
}
