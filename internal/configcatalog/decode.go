package configcatalog

import (
	"encoding/json"

	"github.com/artexis10/endstate/internal/domain/manifest"
)

// decodeModule round-trips the ordered jsonc tree through encoding/json
// into the typed ConfigModule, the same way internal/domain/manifest
// decodes JSONC manifests.
func decodeModule(plain any, out *manifest.ConfigModule) error {
	raw, err := json.Marshal(plain)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
