package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_EmptyManifest(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "manifest.jsonc")
	writeFile(t, p, `{ "version": 1, "name": "empty" }`)

	m, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "empty", m.Name)
	assert.Empty(t, m.Apps)
	assert.Empty(t, m.Restore)
	assert.NotEmpty(t, m.ExpandedHash)
	assert.Len(t, m.ExpandedHash, 16)
}

func TestLoad_IncludeAppendsAfterIncluder(t *testing.T) {
	dir := t.TempDir()
	included := filepath.Join(dir, "base.jsonc")
	writeFile(t, included, `{
		"version": 1,
		"restore": [ { "type": "copy", "source": "a", "target": "b" } ]
	}`)

	root := filepath.Join(dir, "root.jsonc")
	writeFile(t, root, `{
		"version": 1,
		"name": "root",
		"includes": ["base.jsonc"],
		"restore": [ { "type": "copy", "source": "x", "target": "y" } ]
	}`)

	m, err := Load(root, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, m.Restore, 2)
	assert.Equal(t, "x", m.Restore[0].Source)
	assert.Equal(t, "a", m.Restore[1].Source)
}

func TestLoad_IncludeCycleFails(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jsonc")
	b := filepath.Join(dir, "b.jsonc")
	writeFile(t, a, `{ "version": 1, "includes": ["b.jsonc"] }`)
	writeFile(t, b, `{ "version": 1, "includes": ["a.jsonc"] }`)

	_, err := Load(a, LoadOptions{})
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeIncludeCycle, le.Code)
}

func TestLoad_SelfIncludeFails(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jsonc")
	writeFile(t, a, `{ "version": 1, "includes": ["a.jsonc"] }`)

	_, err := Load(a, LoadOptions{})
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeIncludeCycle, le.Code)
}

func TestLoad_BundlesAndRecipesOrdering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bundles", "core.jsonc"), `{
		"version": 1,
		"restore": [ { "type": "copy", "source": "bundle", "target": "bundle-out" } ]
	}`)
	writeFile(t, filepath.Join(dir, "recipes", "git.jsonc"), `{
		"version": 1,
		"restore": [ { "type": "copy", "source": "recipe", "target": "recipe-out" } ]
	}`)

	root := filepath.Join(dir, "profiles", "root.jsonc")
	writeFile(t, root, `{
		"version": 1,
		"bundles": ["core"],
		"recipes": ["git"],
		"restore": [ { "type": "copy", "source": "inline", "target": "inline-out" } ]
	}`)

	m, err := Load(root, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, m.Restore, 3)
	assert.Equal(t, "bundle", m.Restore[0].Source)
	assert.Equal(t, "recipe", m.Restore[1].Source)
	assert.Equal(t, "inline", m.Restore[2].Source)
}

type fakeCatalog struct {
	modules map[string]ConfigModule
}

func (f fakeCatalog) Lookup(id string) (ConfigModule, bool) {
	m, ok := f.modules[id]
	return m, ok
}

func (f fakeCatalog) KnownIDs() []string {
	ids := make([]string, 0, len(f.modules))
	for id := range f.modules {
		ids = append(ids, id)
	}
	return ids
}

func TestLoad_ConfigModuleExpansionTagsProvenance(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "manifest.jsonc")
	writeFile(t, p, `{
		"version": 1,
		"configModules": ["git.config"]
	}`)

	cat := fakeCatalog{modules: map[string]ConfigModule{
		"git.config": {
			ID: "git.config",
			Restore: []RestoreItem{
				{Type: RestoreCopy, Source: "gitconfig", Target: "~/.gitconfig"},
			},
		},
	}}

	m, err := Load(p, LoadOptions{Catalog: cat})
	require.NoError(t, err)
	require.Len(t, m.Restore, 1)
	assert.Equal(t, "git.config", m.Restore[0].FromModule)
}

func TestLoad_UnknownConfigModuleFails(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "manifest.jsonc")
	writeFile(t, p, `{ "version": 1, "configModules": ["nope"] }`)

	_, err := Load(p, LoadOptions{Catalog: fakeCatalog{modules: map[string]ConfigModule{}}})
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeModuleNotFound, le.Code)
}

func TestValidateProfile_WarnsOnMissingAppID(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "manifest.jsonc")
	writeFile(t, p, `{ "version": 1, "apps": [ { "id": "git" }, { "refs": {} } ] }`)

	warnings, err := ValidateProfile(p)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
}
