package configcatalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/security"
)

// CaptureResult is captureFiles' return value (spec.md §4.5).
type CaptureResult struct {
	Copied          []string
	Skipped         []string
	Missing         []string
	ModulesCaptured []string
}

// CaptureFiles copies each selected module's capture.files into
// payloadRoot, honoring excludeGlobs, the module's own sensitive.files
// deny list, and the global internal/security deny list. Missing
// non-optional files produce warnings (returned as Missing entries),
// not errors.
func CaptureFiles(selection []manifest.ConfigModule, payloadRoot string) (CaptureResult, error) {
	var result CaptureResult

	for _, mod := range selection {
		captured := false
		for _, f := range mod.Capture.Files {
			srcAbs := f.Source
			if !filepath.IsAbs(srcAbs) && mod.ModuleDir != "" {
				srcAbs = filepath.Join(mod.ModuleDir, srcAbs)
			}

			if excludedByGlob(f.Source, mod.Capture.ExcludeGlobs) {
				result.Skipped = append(result.Skipped, srcAbs)
				continue
			}
			if matchesAny(f.Source, mod.Sensitive.Files) || security.IsSensitive(srcAbs) {
				result.Skipped = append(result.Skipped, srcAbs)
				continue
			}

			if _, err := os.Stat(srcAbs); err != nil {
				if f.Optional {
					result.Skipped = append(result.Skipped, srcAbs)
				} else {
					result.Missing = append(result.Missing, srcAbs)
				}
				continue
			}

			destAbs := filepath.Join(payloadRoot, mod.ID, f.Dest)
			if err := copyFile(srcAbs, destAbs); err != nil {
				return result, fmt.Errorf("capture %s: %w", srcAbs, err)
			}
			result.Copied = append(result.Copied, destAbs)
			captured = true
		}
		if captured {
			result.ModulesCaptured = append(result.ModulesCaptured, mod.ID)
		}
	}

	return result, nil
}

func excludedByGlob(path string, globs []string) bool {
	return matchesAny(path, globs)
}

func matchesAny(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, err := filepath.Match(p, path); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
