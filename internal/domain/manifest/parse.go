package manifest

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/artexis10/endstate/internal/jsonc"
)

// Parse decodes manifest bytes at path into a Manifest. Files named
// *.json or *.jsonc are parsed as JSON-with-comments; anything else
// (.yaml/.yml, or no extension) is parsed as the YAML subset.
func Parse(data []byte, path string) (Manifest, error) {
	if isJSONPath(path) {
		return parseJSONC(data, path)
	}
	return parseYAML(data, path)
}

func isJSONPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return true
	default:
		return false
	}
}

// parseJSONC delegates comment-stripping, trailing-comma tolerance, and
// depth checking to the jsonc package, then round-trips the ordered tree
// through encoding/json into the typed Manifest. The round trip discards
// key order, which is fine here: order only matters for merge-json restore
// targets (internal/restore), not for the manifest document itself.
func parseJSONC(data []byte, path string) (Manifest, error) {
	v, err := jsonc.Parse(data, path, jsonc.DefaultDepthLimit)
	if err != nil {
		return Manifest{}, newLoadError(ErrCodeParse, path, "failed to parse manifest", err)
	}
	plain := jsonc.ToInterface(v)
	raw, err := json.Marshal(plain)
	if err != nil {
		return Manifest{}, newLoadError(ErrCodeParse, path, "failed to normalize parsed manifest", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, newLoadError(ErrCodeInvalid, path, "manifest does not match expected schema", err)
	}
	return m, nil
}
