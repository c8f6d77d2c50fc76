// Package manifest implements the profile (manifest) data model and loader
// (C3 in SPEC_FULL.md): parsing, include resolution, bundle/recipe/config
// module expansion, normalization, and content hashing.
//
// Grounded on internal/domain/config (Manifest/Loader/Merger) in the
// teacher, generalized from "manifest + named layers merged by scalar
// precedence" to spec.md's include graph plus bundle/recipe/catalog
// expansion producing one flat, ordered restore/verify list.
package manifest

import "time"

// App is a declared application entry: an id and a platform → package
// reference mapping.
type App struct {
	ID   string            `json:"id" yaml:"id"`
	Refs map[string]string `json:"refs" yaml:"refs"`
}

// RestoreType is the tagged-variant discriminator for a RestoreItem.
type RestoreType string

const (
	RestoreCopy   RestoreType = "copy"
	RestoreMerge  RestoreType = "merge"
	RestoreAppend RestoreType = "append"
)

// MergeFormat selects the structural merge strategy for RestoreMerge items.
type MergeFormat string

const (
	MergeFormatJSON MergeFormat = "json"
	MergeFormatINI  MergeFormat = "ini"
)

// ArrayStrategy controls how JSON arrays combine during a merge restore.
type ArrayStrategy string

const (
	ArrayReplace ArrayStrategy = "replace"
	ArrayConcat  ArrayStrategy = "concat"
)

// NewlineStyle controls line-ending behavior for append restores.
type NewlineStyle string

const (
	NewlineAuto NewlineStyle = "auto"
	NewlineLF   NewlineStyle = "lf"
	NewlineCRLF NewlineStyle = "crlf"
)

// RestoreItem is a typed file-operation instruction (spec.md §3).
type RestoreItem struct {
	Type          RestoreType   `json:"type" yaml:"type"`
	Source        string        `json:"source" yaml:"source"`
	Target        string        `json:"target" yaml:"target"`
	Backup        *bool         `json:"backup,omitempty" yaml:"backup,omitempty"`
	RequiresAdmin bool          `json:"requiresAdmin,omitempty" yaml:"requiresAdmin,omitempty"`
	Format        MergeFormat   `json:"format,omitempty" yaml:"format,omitempty"`
	ArrayStrategy ArrayStrategy `json:"arrayStrategy,omitempty" yaml:"arrayStrategy,omitempty"`
	Dedupe        bool          `json:"dedupe,omitempty" yaml:"dedupe,omitempty"`
	Newline       NewlineStyle  `json:"newline,omitempty" yaml:"newline,omitempty"`

	// FromModule records provenance when this item was expanded from a
	// config module (spec.md §4.4 step 6). Excluded from the expanded
	// hash per invariant (3) (internal "_" fields excluded).
	FromModule string `json:"_fromModule,omitempty" yaml:"-"`
}

// WantsBackup reports the effective backup flag: true unless explicitly
// set to false.
func (r RestoreItem) WantsBackup() bool {
	return r.Backup == nil || *r.Backup
}

// VerifyType is the tagged-variant discriminator for a VerifyItem.
type VerifyType string

const (
	VerifyFileExists      VerifyType = "file-exists"
	VerifyCommandExists   VerifyType = "command-exists"
	VerifyCommandSucceeds VerifyType = "command-succeeds"
)

// VerifyItem is a typed post-condition check (spec.md §3).
type VerifyItem struct {
	Type       VerifyType `json:"type" yaml:"type"`
	Path       string     `json:"path,omitempty" yaml:"path,omitempty"`
	Command    string     `json:"command,omitempty" yaml:"command,omitempty"`
	FromModule string     `json:"_fromModule,omitempty" yaml:"-"`
}

// CaptureFile is one module capture source/dest pairing.
type CaptureFile struct {
	Source   string `json:"source" yaml:"source"`
	Dest     string `json:"dest" yaml:"dest"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// ModuleSensitivity classifies how cautiously a config module's data
// should be treated during capture and bundling.
type ModuleSensitivity string

const (
	SensitivityLow          ModuleSensitivity = "low"
	SensitivityMedium       ModuleSensitivity = "medium"
	SensitivityHigh         ModuleSensitivity = "high"
	SensitivitySensitive    ModuleSensitivity = "sensitive"
	SensitivityMachineBound ModuleSensitivity = "machineBound"
)

// MatchSet holds the glob-or-exact patterns a config module is matched by.
type MatchSet struct {
	Winget               []string `json:"winget,omitempty" yaml:"winget,omitempty"`
	Exe                  []string `json:"exe,omitempty" yaml:"exe,omitempty"`
	UninstallDisplayName []string `json:"uninstallDisplayName,omitempty" yaml:"uninstallDisplayName,omitempty"`
}

// Empty reports whether no match pattern was populated.
func (m MatchSet) Empty() bool {
	return len(m.Winget) == 0 && len(m.Exe) == 0 && len(m.UninstallDisplayName) == 0
}

// CaptureSpec describes the files a config module wants captured.
type CaptureSpec struct {
	Files        []CaptureFile `json:"files,omitempty" yaml:"files,omitempty"`
	ExcludeGlobs []string      `json:"excludeGlobs,omitempty" yaml:"excludeGlobs,omitempty"`
}

// SensitiveSpec lists path patterns a module forbids capturing, ever.
type SensitiveSpec struct {
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// ConfigModule is a reusable bundle of restore/verify/capture recipes for
// one piece of software (spec.md §3).
type ConfigModule struct {
	ID          string            `json:"id" yaml:"id"`
	DisplayName string            `json:"displayName" yaml:"displayName"`
	Matches     MatchSet          `json:"matches" yaml:"matches"`
	Restore     []RestoreItem     `json:"restore,omitempty" yaml:"restore,omitempty"`
	Verify      []VerifyItem      `json:"verify,omitempty" yaml:"verify,omitempty"`
	Capture     CaptureSpec       `json:"capture,omitempty" yaml:"capture,omitempty"`
	Sensitivity ModuleSensitivity `json:"sensitivity,omitempty" yaml:"sensitivity,omitempty"`
	Sensitive   SensitiveSpec     `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`

	// FilePath and ModuleDir are provenance, not part of the declared
	// schema; set by the catalog loader for relative-path resolution.
	FilePath  string `json:"-" yaml:"-"`
	ModuleDir string `json:"-" yaml:"-"`
}

// Manifest is the root end-state document (the "Profile").
type Manifest struct {
	Version        int           `json:"version" yaml:"version"`
	Name           string        `json:"name" yaml:"name"`
	Captured       time.Time     `json:"captured,omitempty" yaml:"captured,omitempty"`
	Apps           []App         `json:"apps" yaml:"apps"`
	Restore        []RestoreItem `json:"restore" yaml:"restore"`
	Verify         []VerifyItem  `json:"verify" yaml:"verify"`
	Includes       []string      `json:"includes,omitempty" yaml:"includes,omitempty"`
	Bundles        []string      `json:"bundles,omitempty" yaml:"bundles,omitempty"`
	Recipes        []string      `json:"recipes,omitempty" yaml:"recipes,omitempty"`
	ConfigModules  []string      `json:"configModules,omitempty" yaml:"configModules,omitempty"`
	ExcludeConfigs []string      `json:"excludeConfigs,omitempty" yaml:"excludeConfigs,omitempty"`

	// ExpandedHash is attached by Load after full expansion (spec.md §4.4
	// step 7); empty on a freshly parsed, unexpanded document.
	ExpandedHash string `json:"-" yaml:"-"`
}

// Clone returns a deep-enough copy for safe independent mutation during
// expansion (slices are copied; Manifest itself is never mutated after
// Load returns, per the "immutable expanded manifest" design note).
func (m Manifest) Clone() Manifest {
	c := m
	c.Apps = append([]App(nil), m.Apps...)
	c.Restore = append([]RestoreItem(nil), m.Restore...)
	c.Verify = append([]VerifyItem(nil), m.Verify...)
	c.Includes = append([]string(nil), m.Includes...)
	c.Bundles = append([]string(nil), m.Bundles...)
	c.Recipes = append([]string(nil), m.Recipes...)
	c.ConfigModules = append([]string(nil), m.ConfigModules...)
	c.ExcludeConfigs = append([]string(nil), m.ExcludeConfigs...)
	return c
}

// excludeSet returns ExcludeConfigs as a lookup set.
func (m Manifest) excludeSet() map[string]bool {
	set := make(map[string]bool, len(m.ExcludeConfigs))
	for _, id := range m.ExcludeConfigs {
		set[id] = true
	}
	return set
}
