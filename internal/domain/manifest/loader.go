package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ModuleLookup is the catalog-facing seam Load uses to expand
// configModules without importing the catalog package directly (the
// catalog, in turn, depends on this package's ConfigModule type).
type ModuleLookup interface {
	Lookup(id string) (ConfigModule, bool)
	KnownIDs() []string
}

// MaxIncludeDepth bounds the include graph's recursion depth,
// independent of the cycle check (a long chain without a cycle could
// otherwise recurse unbounded).
const MaxIncludeDepth = 64

// LoadOptions configures Load. Catalog may be nil if the manifest is
// known not to reference any configModules; Load fails if it does and
// Catalog is nil.
type LoadOptions struct {
	Catalog ModuleLookup
}

// Load reads, parses, include-resolves, bundle/recipe/module-expands,
// normalizes, and hashes the manifest at path (spec.md §4.4 steps 1-7).
func Load(path string, opts LoadOptions) (Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Manifest{}, newLoadError(ErrCodeNotFound, path, "cannot resolve manifest path", err)
	}

	m, err := loadIncludeGraph(abs, map[string]bool{}, 0)
	if err != nil {
		return Manifest{}, err
	}

	m = Normalize(m)

	if err := expandBundlesAndRecipes(&m, abs); err != nil {
		return Manifest{}, err
	}

	if err := expandConfigModules(&m, opts.Catalog); err != nil {
		return Manifest{}, err
	}

	hash, err := Hash(m)
	if err != nil {
		return Manifest{}, newLoadError(ErrCodeInvalid, abs, "failed to hash expanded manifest", err)
	}
	m.ExpandedHash = hash

	return m, nil
}

// loadIncludeGraph parses absPath and recursively folds in its includes,
// detecting cycles via the visiting set and bounding depth via depth.
func loadIncludeGraph(absPath string, visiting map[string]bool, depth int) (Manifest, error) {
	if depth > MaxIncludeDepth {
		return Manifest{}, newLoadError(ErrCodeDepthExceeded, absPath, "include depth limit exceeded", ErrMaxIncludeDepth)
	}
	if visiting[absPath] {
		return Manifest{}, newLoadError(ErrCodeIncludeCycle, absPath, "include cycle detected at "+absPath, nil)
	}
	visiting[absPath] = true
	defer delete(visiting, absPath)

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Manifest{}, newLoadError(ErrCodeNotFound, absPath, "manifest file not found", err)
	}

	self, err := Parse(data, absPath)
	if err != nil {
		return Manifest{}, err
	}

	result := self
	result.Includes = nil

	baseDir := filepath.Dir(absPath)
	for _, inc := range self.Includes {
		incPath := inc
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(baseDir, incPath)
		}
		incPath, err = filepath.Abs(incPath)
		if err != nil {
			return Manifest{}, newLoadError(ErrCodeIncludeNotFound, incPath, "cannot resolve include path", err)
		}

		included, err := loadIncludeGraph(incPath, visiting, depth+1)
		if err != nil {
			return Manifest{}, err
		}

		result = mergeIncluded(result, included)
	}

	return result, nil
}

// mergeIncluded folds included into includer per spec.md §4.4 step 3:
// array fields are appended after the includer's; scalar fields are kept
// from the includer when set, otherwise taken from the include.
func mergeIncluded(includer, included Manifest) Manifest {
	out := includer

	out.Apps = append(append([]App(nil), includer.Apps...), included.Apps...)
	out.Restore = append(append([]RestoreItem(nil), includer.Restore...), included.Restore...)
	out.Verify = append(append([]VerifyItem(nil), includer.Verify...), included.Verify...)
	out.Bundles = append(append([]string(nil), includer.Bundles...), included.Bundles...)
	out.Recipes = append(append([]string(nil), includer.Recipes...), included.Recipes...)
	out.ConfigModules = append(append([]string(nil), includer.ConfigModules...), included.ConfigModules...)
	out.ExcludeConfigs = append(append([]string(nil), includer.ExcludeConfigs...), included.ExcludeConfigs...)

	if out.Version == 0 {
		out.Version = included.Version
	}
	if out.Name == "" {
		out.Name = included.Name
	}
	if out.Captured.IsZero() {
		out.Captured = included.Captured
	}

	return out
}

// expandBundlesAndRecipes implements spec.md §4.4 step 5: locate the
// repository root by walking up from the manifest until a directory
// containing both bundles/ and recipes/ is found, then append the
// referenced restore arrays in order bundle-recipes -> manifest-recipes
// -> inline-restore.
func expandBundlesAndRecipes(m *Manifest, manifestAbsPath string) error {
	if len(m.Bundles) == 0 && len(m.Recipes) == 0 {
		return nil
	}

	root, err := findRepoRoot(filepath.Dir(manifestAbsPath))
	if err != nil {
		return newLoadError(ErrCodeBundleNotFound, manifestAbsPath, err.Error(), err)
	}

	var bundleRestore, recipeRestore []RestoreItem

	for _, id := range m.Bundles {
		frag, err := loadFragment(root, "bundles", id)
		if err != nil {
			return newLoadError(ErrCodeBundleNotFound, id, "bundle not found", err)
		}
		bundleRestore = append(bundleRestore, frag.Restore...)
	}

	for _, id := range m.Recipes {
		frag, err := loadFragment(root, "recipes", id)
		if err != nil {
			return newLoadError(ErrCodeRecipeNotFound, id, "recipe not found", err)
		}
		recipeRestore = append(recipeRestore, frag.Restore...)
	}

	inline := m.Restore
	combined := make([]RestoreItem, 0, len(bundleRestore)+len(recipeRestore)+len(inline))
	combined = append(combined, bundleRestore...)
	combined = append(combined, recipeRestore...)
	combined = append(combined, inline...)
	m.Restore = combined

	return nil
}

// findRepoRoot walks up from dir until it finds a directory containing
// both a bundles/ and a recipes/ subdirectory.
func findRepoRoot(dir string) (string, error) {
	for {
		if isDir(filepath.Join(dir, "bundles")) && isDir(filepath.Join(dir, "recipes")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no ancestor directory contains both bundles/ and recipes/")
		}
		dir = parent
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// loadFragment resolves id under root/kind/ trying common manifest
// extensions, then parses it as a manifest fragment.
func loadFragment(root, kind, id string) (Manifest, error) {
	candidates := []string{
		filepath.Join(root, kind, id),
		filepath.Join(root, kind, id+".jsonc"),
		filepath.Join(root, kind, id+".json"),
		filepath.Join(root, kind, id+".yaml"),
		filepath.Join(root, kind, id+".yml"),
	}
	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err != nil {
			continue
		}
		return Parse(data, c)
	}
	return Manifest{}, fmt.Errorf("%s: no file found among %v", id, candidates)
}

// expandConfigModules implements spec.md §4.4 step 6: append each
// referenced module's restore/verify items, tagged with _fromModule,
// skipping anything in excludeConfigs and failing with the full list of
// known ids if any referenced id is unknown. A module is expanded at
// most once (invariant 5).
func expandConfigModules(m *Manifest, catalog ModuleLookup) error {
	if len(m.ConfigModules) == 0 {
		return nil
	}
	if catalog == nil {
		return newLoadError(ErrCodeModuleNotFound, "", "manifest references configModules but no catalog was supplied", nil)
	}

	excluded := m.excludeSet()
	seen := map[string]bool{}

	for _, id := range m.ConfigModules {
		if excluded[id] || seen[id] {
			continue
		}
		seen[id] = true

		mod, ok := catalog.Lookup(id)
		if !ok {
			known := catalog.KnownIDs()
			sort.Strings(known)
			return newLoadError(ErrCodeModuleNotFound, id,
				fmt.Sprintf("unknown config module %q; known ids: %v", id, known), nil)
		}

		for _, r := range mod.Restore {
			r.FromModule = id
			m.Restore = append(m.Restore, r)
		}
		for _, v := range mod.Verify {
			v.FromModule = id
			m.Verify = append(m.Verify, v)
		}
	}

	return nil
}

// ValidateProfile implements spec.md §4.4's validateProfile(path) entry
// point for external consumers: file exists, parses, version is 1 (or
// absent), apps is an array, and app entries lacking an id produce
// warnings rather than errors.
func ValidateProfile(path string) (warnings []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newLoadError(ErrCodeNotFound, path, "manifest file not found", err)
	}

	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	if m.Version != 0 && m.Version != 1 {
		return nil, newLoadError(ErrCodeInvalid, path, fmt.Sprintf("unsupported manifest version %d", m.Version), nil)
	}

	for i, app := range m.Apps {
		if app.ID == "" {
			warnings = append(warnings, fmt.Sprintf("apps[%d] is missing an id", i))
		}
	}

	return warnings, nil
}
