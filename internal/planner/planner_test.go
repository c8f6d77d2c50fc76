package planner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

func TestPlan_AppsRestoresVerifiesInOrder(t *testing.T) {
	m := manifest.Manifest{
		Apps: []manifest.App{
			{ID: "git", Refs: map[string]string{"windows": "Git.Git"}},
			{ID: "vscode", Refs: map[string]string{"windows": "Microsoft.VisualStudioCode"}},
		},
		Restore: []manifest.RestoreItem{{Type: manifest.RestoreCopy, Source: "a", Target: "b"}},
		Verify:  []manifest.VerifyItem{{Type: manifest.VerifyFileExists, Path: "b"}},
	}

	p := New("windows", "winget")
	plan := p.Plan(m, []string{"Git.Git"})

	require.Len(t, plan.Actions, 4)
	assert.Equal(t, state.ActionApp, plan.Actions[0].Type)
	assert.Equal(t, state.StatusSkip, plan.Actions[0].Status)
	assert.Equal(t, state.ActionApp, plan.Actions[1].Type)
	assert.Equal(t, state.StatusInstall, plan.Actions[1].Status)
	assert.Equal(t, state.ActionRestore, plan.Actions[2].Type)
	assert.Equal(t, state.ActionVerify, plan.Actions[3].Type)

	assert.Equal(t, Summary{Install: 1, Skip: 1, Restore: 1, Verify: 1}, plan.Summary)
}

func TestPlan_AppWithNoRefForPlatformIsSkippedNotInstalled(t *testing.T) {
	m := manifest.Manifest{
		Apps: []manifest.App{
			{ID: "only-on-linux", Refs: map[string]string{"linux": "ripgrep"}},
		},
	}

	p := New("windows", "winget")
	plan := p.Plan(m, nil)

	require.Len(t, plan.Actions, 1)
	a := plan.Actions[0]
	assert.Equal(t, state.StatusSkip, a.Status)
	assert.Empty(t, a.Ref)
	assert.Contains(t, a.Reason, "no ref for platform")
	assert.Equal(t, Summary{Skip: 1}, plan.Summary)
}

func TestSaveAndLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	plan := Plan{Actions: []state.Action{{Type: state.ActionApp, ID: "git", Status: state.StatusInstall}}}

	require.NoError(t, Save(dir, "run-1", plan))
	loaded, err := Load(dir, "run-1")
	require.NoError(t, err)
	assert.Equal(t, plan.Actions, loaded.Actions)
	assert.FileExists(t, filepath.Join(dir, "plans", "run-1.json"))
}
