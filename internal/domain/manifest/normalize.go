package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Normalize applies the documented defaults to a freshly parsed manifest:
// version defaults to 1, name defaults to "", and nil slices become empty
// (never null) so downstream JSON encodings are stable.
func Normalize(m Manifest) Manifest {
	out := m.Clone()
	if out.Version == 0 {
		out.Version = 1
	}
	if out.Apps == nil {
		out.Apps = []App{}
	}
	if out.Restore == nil {
		out.Restore = []RestoreItem{}
	}
	if out.Verify == nil {
		out.Verify = []VerifyItem{}
	}
	if out.Includes == nil {
		out.Includes = []string{}
	}
	if out.Bundles == nil {
		out.Bundles = []string{}
	}
	if out.Recipes == nil {
		out.Recipes = []string{}
	}
	if out.ConfigModules == nil {
		out.ConfigModules = []string{}
	}
	if out.ExcludeConfigs == nil {
		out.ExcludeConfigs = []string{}
	}
	return out
}

// Hash computes the expanded-manifest content hash: SHA-256 over the
// manifest's JSON representation with map keys sorted and any field whose
// JSON name starts with "_" removed, truncated to 16 hex characters
// (spec.md §3 invariant 3).
func Hash(m Manifest) (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	scrubbed := scrubInternal(generic)

	canonical, err := marshalSorted(scrubbed)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])[:16], nil
}

// scrubInternal recursively drops any object key that starts with "_".
func scrubInternal(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if strings.HasPrefix(k, "_") {
				continue
			}
			out[k] = scrubInternal(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = scrubInternal(val)
		}
		return out
	default:
		return t
	}
}

// marshalSorted renders v to JSON with object keys in sorted order at
// every level. encoding/json already sorts map[string]any keys, but we
// walk and re-encode explicitly so the guarantee doesn't depend on that
// implementation detail persisting across Go versions.
func marshalSorted(v any) ([]byte, error) {
	var b strings.Builder
	if err := writeSorted(&b, v); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeSorted(b *strings.Builder, v any) error {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			b.Write(kb)
			b.WriteByte(':')
			if err := writeSorted(b, t[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
		return nil
	case []any:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeSorted(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	default:
		eb, err := json.Marshal(t)
		if err != nil {
			return err
		}
		b.Write(eb)
		return nil
	}
}
