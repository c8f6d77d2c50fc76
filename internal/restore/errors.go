package restore

import "errors"

// ErrSourceNotFound names a restore source missing from both the payload
// root and the manifest directory. Apply does not return it: a missing
// source yields a skipped_missing_source entry and a nil error.
var ErrSourceNotFound = errors.New("restore: source not found")

// ErrPrivilegeRequired is returned when an action's requiresAdmin flag is
// set and the current process is not elevated.
var ErrPrivilegeRequired = errors.New("restore: elevated privileges required")

// ErrUnknownRestoreType is returned when no handler is registered for a
// restore item's type/format combination.
var ErrUnknownRestoreType = errors.New("restore: no handler registered for this type")
