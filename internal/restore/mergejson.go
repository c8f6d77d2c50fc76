package restore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

// applyMergeJSON implements `merge`/`json`: deep-merge source over
// target (scalar source wins, object keys union with source precedence,
// arrays combine per arrayStrategy), skipping the write when the merged
// document already equals the existing target.
func applyMergeJSON(entry *state.JournalEntry, resolvedSource, target string, item manifest.RestoreItem, opts Options) error {
	sourceDoc, err := readJSONDoc(resolvedSource)
	if err != nil {
		return err
	}

	var targetDoc any = map[string]any{}
	if entry.TargetExistedBefore {
		targetDoc, err = readJSONDoc(target)
		if err != nil {
			return err
		}
	}

	merged := deepMergeJSON(targetDoc, sourceDoc, item.ArrayStrategy)
	mergedBytes, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	mergedBytes = append(mergedBytes, '\n')

	if entry.TargetExistedBefore {
		existing, err := os.ReadFile(target)
		if err != nil {
			return err
		}
		if jsonEquivalent(existing, mergedBytes) {
			entry.Action = state.JournalSkippedUpToDate
			return nil
		}
	}

	if opts.DryRun {
		entry.Action = state.JournalRestored
		return nil
	}

	if err := maybeBackup(entry, target, item, opts); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(target, mergedBytes, 0o644); err != nil {
		return err
	}

	entry.Action = state.JournalRestored
	return nil
}

func readJSONDoc(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// deepMergeJSON merges source over target: scalars and arrays from
// source replace target's value (arrays concatenate target-then-source
// when arrayStrategy is "concat"); objects union keys recursively with
// source precedence.
func deepMergeJSON(target, source any, arrayStrategy manifest.ArrayStrategy) any {
	switch s := source.(type) {
	case map[string]any:
		t, _ := target.(map[string]any)
		merged := make(map[string]any, len(t)+len(s))
		for k, v := range t {
			merged[k] = v
		}
		for k, v := range s {
			if existing, ok := merged[k]; ok {
				merged[k] = deepMergeJSON(existing, v, arrayStrategy)
			} else {
				merged[k] = v
			}
		}
		return merged
	case []any:
		if arrayStrategy == manifest.ArrayConcat {
			if t, ok := target.([]any); ok {
				combined := make([]any, 0, len(t)+len(s))
				combined = append(combined, t...)
				combined = append(combined, s...)
				return combined
			}
		}
		return s
	default:
		return s
	}
}

// jsonEquivalent compares two JSON documents structurally rather than
// byte-for-byte, so re-running a merge over an already-merged target
// (with different key order or whitespace) still reports up to date.
func jsonEquivalent(a, b []byte) bool {
	if bytes.Equal(a, b) {
		return true
	}
	var da, db any
	if err := json.Unmarshal(a, &da); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return false
	}
	// encoding/json's Marshal sorts map keys, so re-marshaling after
	// unmarshaling canonicalizes key order for a structural comparison.
	ca, err := json.Marshal(da)
	if err != nil {
		return false
	}
	cb, err := json.Marshal(db)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}
