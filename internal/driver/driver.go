// Package driver defines the package-manager driver contract (C6) the
// planner and applier dispatch against, pluggable by name.
//
// Grounded on compiler.Provider/ports.CommandRunner in the teacher: a
// driver here plays the role provider.Compile+Step.Apply play there,
// collapsed into the narrower install/list/export surface spec.md
// names instead of the teacher's full step-graph compiler.
package driver

import "context"

// InstallResult is the outcome of a single install(ref) call.
type InstallResult struct {
	Success bool
	Error   string
}

// ExportWarning marks a known, recoverable degradation during export.
type ExportWarning string

// ExportWarningFallbackUsed is attached when export() falls back to
// list() after the native export invocation failed (spec.md §4.7).
const ExportWarningFallbackUsed ExportWarning = "WINGET_EXPORT_FAILED_FALLBACK_USED"

// Capture is the structured result of export(), consumed by the capture
// path.
type Capture struct {
	Refs     []string
	Warnings []ExportWarning
}

// Driver is any package-manager integration satisfying this contract.
// listInstalled must be stable between calls within a single run (the
// planner diffs against one snapshot of it).
type Driver interface {
	Name() string
	Available(ctx context.Context) bool
	ListInstalled(ctx context.Context) ([]string, error)
	Install(ctx context.Context, ref string) (InstallResult, error)
	Export(ctx context.Context, path string) (Capture, error)
}

// Registry looks up a Driver by name (spec.md: "pluggable by name").
type Registry struct {
	drivers map[string]Driver
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register adds d under d.Name(), overwriting any prior registration
// for that name.
func (r *Registry) Register(d Driver) {
	r.drivers[d.Name()] = d
}

// Lookup returns the driver registered under name.
func (r *Registry) Lookup(name string) (Driver, bool) {
	d, ok := r.drivers[name]
	return d, ok
}

// Names returns every registered driver name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	return names
}
