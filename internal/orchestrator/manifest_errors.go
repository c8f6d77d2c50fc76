package orchestrator

import (
	"errors"

	"github.com/artexis10/endstate/internal/domain/manifest"
)

// wrapManifestError classifies a manifest load/parse/validate failure
// into the envelope's closed taxonomy.
func wrapManifestError(err error) *Error {
	var loadErr *manifest.LoadError
	if errors.As(err, &loadErr) {
		switch loadErr.Code {
		case manifest.ErrCodeNotFound:
			return newError(ErrManifestNotFound, loadErr.Error(), err)
		case manifest.ErrCodeParse:
			return newError(ErrManifestParseError, loadErr.Error(), err)
		default:
			return newError(ErrManifestValidationError, loadErr.Error(), err)
		}
	}
	return newError(ErrManifestValidationError, err.Error(), err)
}
