package bundle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artexis10/endstate/internal/configcatalog"
	"github.com/artexis10/endstate/internal/domain/manifest"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func writeModule(t *testing.T, modulesDir, dirName, content string) {
	t.Helper()
	moduleDir := filepath.Join(modulesDir, dirName)
	require.NoError(t, os.MkdirAll(moduleDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, configcatalog.ModuleFileName), []byte(content), 0o644))
}

func setupGitModule(t *testing.T) (modulesDir, hostGitconfig string) {
	t.Helper()
	modulesDir = t.TempDir()
	hostDir := t.TempDir()
	hostGitconfig = filepath.Join(hostDir, "gitconfig")
	require.NoError(t, os.WriteFile(hostGitconfig, []byte("[user]\n\tname = Test\n"), 0o644))

	writeModule(t, modulesDir, "git", `{
		"id": "git.config",
		"displayName": "Git",
		"matches": { "winget": ["Git.Git"] },
		"restore": [ { "type": "copy", "source": "gitconfig", "target": "~/.gitconfig" } ],
		"capture": { "files": [ { "source": "`+filepath.ToSlash(hostGitconfig)+`", "dest": "gitconfig" } ] }
	}`)
	return modulesDir, hostGitconfig
}

func writeManifest(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": 1,
		"name": "test-profile",
		"apps": [],
		"restore": [],
		"verify": [],
		"configModules": ["git.config"]
	}`), 0o644))
}

func TestCreateBundle_CapturesMatchedModuleAndRewritesSource(t *testing.T) {
	modulesDir, _ := setupGitModule(t)
	catalog := configcatalog.New(modulesDir)

	manifestPath := filepath.Join(t.TempDir(), "manifest.jsonc")
	writeManifest(t, manifestPath)

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	result, err := CreateBundle(CreateOptions{
		Catalog:         catalog,
		ManifestPath:    manifestPath,
		ZipPath:         zipPath,
		WingetIDs:       []string{"Git.Git"},
		MachineName:     "test-host",
		EndstateVersion: "0.0.0-test",
		Clock:           fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"git.config"}, result.Metadata.ConfigModulesIncluded)
	assert.Empty(t, result.Metadata.ConfigModulesSkipped)
	assert.Equal(t, "1.0", result.Metadata.SchemaVersion)

	_, statErr := os.Stat(zipPath)
	require.NoError(t, statErr)
	_, tmpStatErr := os.Stat(zipPath + ".tmp")
	assert.True(t, os.IsNotExist(tmpStatErr))

	handle, err := ExpandBundle(zipPath)
	require.NoError(t, err)
	defer handle.Close()

	assert.True(t, handle.HasConfigs)
	assert.Equal(t, "test-host", handle.Metadata.MachineName)

	raw, err := os.ReadFile(handle.ManifestPath)
	require.NoError(t, err)
	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(raw, &m))
	require.Len(t, m.Restore, 1)
	assert.Equal(t, "configs/git.config/gitconfig", m.Restore[0].Source)

	payload, err := os.ReadFile(filepath.Join(filepath.Dir(handle.ManifestPath), "configs", "git.config", "gitconfig"))
	require.NoError(t, err)
	assert.Contains(t, string(payload), "[user]")
}

func TestCreateBundle_UnmatchedModuleIsNeitherIncludedNorSkipped(t *testing.T) {
	modulesDir, _ := setupGitModule(t)
	catalog := configcatalog.New(modulesDir)

	manifestPath := filepath.Join(t.TempDir(), "manifest.jsonc")
	writeManifest(t, manifestPath)

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	result, err := CreateBundle(CreateOptions{
		Catalog:      catalog,
		ManifestPath: manifestPath,
		ZipPath:      zipPath,
		WingetIDs:    []string{"SomeOther.App"},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Metadata.ConfigModulesIncluded)
	assert.Empty(t, result.Metadata.ConfigModulesSkipped)
}

func TestResolveProfile_ProbesInOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "work.jsonc"), []byte("{}"), 0o644))

	path, err := ResolveProfile("work", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "work.jsonc"), path)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "work"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "work", "manifest.jsonc"), []byte("{}"), 0o644))

	path, err = ResolveProfile("work", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "work", "manifest.jsonc"), path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "work.zip"), []byte("PK\x03\x04"), 0o644))
	path, err = ResolveProfile("work", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "work.zip"), path)
}

func TestResolveProfile_NoneFoundIsError(t *testing.T) {
	_, err := ResolveProfile("missing", t.TempDir())
	assert.Error(t, err)
}
