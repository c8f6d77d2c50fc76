package manifest

import (
	"gopkg.in/yaml.v3"
)

// parseYAML decodes a manifest written in the YAML subset (spec.md §3):
// plain scalars, sequences, and mappings -- no anchors/aliases, tags, or
// merge keys. Grounded on config.ParseManifest's yaml.Unmarshal-into-
// typed-struct pattern.
func parseYAML(data []byte, path string) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, newLoadError(ErrCodeParse, path, "failed to parse manifest", err)
	}
	return m, nil
}
