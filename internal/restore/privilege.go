package restore

// IsElevated reports whether the current process holds elevated (root or
// Administrator) privileges. Replaced in tests; platform-specific default
// implementations live in privilege_unix.go and privilege_windows.go.
var IsElevated = defaultIsElevated
