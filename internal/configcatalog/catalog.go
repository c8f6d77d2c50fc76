// Package configcatalog is the in-memory, lazily populated index of
// config modules on disk (C4): schema validation, discovery-to-module
// matching, and capture-file collection.
//
// Grounded on internal/domain/catalog.Catalog (presets/capability packs
// generalized to config modules) and catalog/external_loader.go's
// disk-scan-and-parse pattern.
package configcatalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/jsonc"
)

// ModuleFileName is the required filename for a config module on disk.
const ModuleFileName = "module.jsonc"

// Catalog errors.
var (
	ErrInvalidModule = errors.New("config module is invalid")
)

// Catalog is the aggregate root for config modules discovered on disk.
// It is scanned lazily on first Lookup/KnownIDs/All call and cached for
// the life of the process (spec.md's "Lifecycle" note), with explicit
// invalidation via Clear.
type Catalog struct {
	root string

	mu       sync.Mutex
	scanned  bool
	modules  map[string]manifest.ConfigModule
	warnings []string
}

// New creates a Catalog that scans root (recursively) for module.jsonc
// files on first access.
func New(root string) *Catalog {
	return &Catalog{root: root, modules: make(map[string]manifest.ConfigModule)}
}

// Clear drops the cached scan, forcing the next access to re-scan disk.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanned = false
	c.modules = make(map[string]manifest.ConfigModule)
	c.warnings = nil
}

// Warnings returns non-fatal issues accumulated during the last scan:
// duplicate module ids and module files that could not be loaded.
// Missing capture files are not listed here; CaptureFiles reports those.
func (c *Catalog) Warnings() []string {
	c.ensureScanned()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Lookup implements manifest.ModuleLookup.
func (c *Catalog) Lookup(id string) (manifest.ConfigModule, bool) {
	c.ensureScanned()
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modules[id]
	return m, ok
}

// KnownIDs implements manifest.ModuleLookup.
func (c *Catalog) KnownIDs() []string {
	c.ensureScanned()
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.modules))
	for id := range c.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every known module, sorted by id.
func (c *Catalog) All() []manifest.ConfigModule {
	c.ensureScanned()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]manifest.ConfigModule, 0, len(c.modules))
	for _, m := range c.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) ensureScanned() {
	c.mu.Lock()
	if c.scanned {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	found, warnings := scanModules(c.root)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanned {
		return // a concurrent scan already finished
	}
	c.modules = found
	c.warnings = warnings
	c.scanned = true
}

// scanModules walks root for module.jsonc files, parses and validates
// each, and keeps the first definition on id collision.
func scanModules(root string) (map[string]manifest.ConfigModule, []string) {
	modules := make(map[string]manifest.ConfigModule)
	var warnings []string

	if root == "" {
		return modules, warnings
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		if d.IsDir() || d.Name() != ModuleFileName {
			return nil
		}

		mod, parseErr := loadModuleFile(path)
		if parseErr != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, parseErr))
			return nil
		}

		if _, exists := modules[mod.ID]; exists {
			warnings = append(warnings, fmt.Sprintf("%s: duplicate module id %q, keeping first definition", path, mod.ID))
			return nil
		}

		modules[mod.ID] = mod
		return nil
	})

	return modules, warnings
}

// loadModuleFile parses and schema-validates a single module.jsonc file.
func loadModuleFile(path string) (manifest.ConfigModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest.ConfigModule{}, err
	}

	v, err := jsonc.Parse(data, path, jsonc.DefaultDepthLimit)
	if err != nil {
		return manifest.ConfigModule{}, err
	}

	var mod manifest.ConfigModule
	if err := decodeModule(jsonc.ToInterface(v), &mod); err != nil {
		return manifest.ConfigModule{}, err
	}

	if err := validateModule(mod); err != nil {
		return manifest.ConfigModule{}, err
	}

	mod.FilePath = path
	mod.ModuleDir = filepath.Dir(path)
	return mod, nil
}

func validateModule(m manifest.ConfigModule) error {
	if m.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidModule)
	}
	if m.DisplayName == "" {
		return fmt.Errorf("%w: %s: displayName is required", ErrInvalidModule, m.ID)
	}
	if m.Matches.Empty() {
		return fmt.Errorf("%w: %s: matches must populate at least one of winget/exe/uninstallDisplayName", ErrInvalidModule, m.ID)
	}
	switch m.Sensitivity {
	case "", manifest.SensitivityLow, manifest.SensitivityMedium, manifest.SensitivityHigh,
		manifest.SensitivitySensitive, manifest.SensitivityMachineBound:
	default:
		return fmt.Errorf("%w: %s: unknown sensitivity %q", ErrInvalidModule, m.ID, m.Sensitivity)
	}
	return nil
}
