package restore

import (
	"sync"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

// Handler applies one restore item once source/target have been resolved
// and the privilege check has passed. It populates action/backup fields
// on entry and returns an error on failure; Apply fills in entry.Action =
// failed and entry.Error from the returned error, so handlers only need
// to set state.JournalRestored or state.JournalSkippedUpToDate on
// success.
type Handler func(entry *state.JournalEntry, resolvedSource, target string, item manifest.RestoreItem, opts Options) error

// Registry maps a dispatch key ("copy", "append", "merge/json", …) to its
// Handler, so a caller can register a new restore kind without touching
// a fixed switch statement.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns a Registry pre-populated with the four restore
// kinds the manifest schema defines.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(string(manifest.RestoreCopy), applyCopy)
	r.Register(string(manifest.RestoreMerge)+"/"+string(manifest.MergeFormatJSON), applyMergeJSON)
	r.Register(string(manifest.RestoreMerge)+"/"+string(manifest.MergeFormatINI), applyMergeINI)
	r.Register(string(manifest.RestoreAppend), applyAppend)
	return r
}

// Register adds or replaces the handler for kind.
func (r *Registry) Register(kind string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

// Lookup returns the handler registered for kind, if any.
func (r *Registry) Lookup(kind string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}
