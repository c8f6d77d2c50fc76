// Package security holds the sensitive-path deny list consulted by the
// restorer (C8, warns when a restore target matches) and the catalog
// capture path (C4, refuses to capture matching files even when a module
// requests them).
//
// Grounded on the capture path exclusions the teacher hard-codes per
// provider in internal/app/dotfiles_capture.go (ssh keys, git credentials,
// shell history) — generalized here into one shared, glob-based list
// instead of one exclude slice per provider.
package security

import "path/filepath"

// DenyPatterns lists the globs (each matched against a path, a path
// suffix, or a base name) that mark a path as sensitive.
var DenyPatterns = []string{
	".ssh/id_*",
	".ssh/*.pem",
	".ssh/*.key",
	".ssh/known_hosts",
	".ssh/authorized_keys",
	".aws/credentials",
	".aws/config",
	"*.pem",
	"*.key",
	"*_rsa",
	"*_ed25519",
	"*_ecdsa",
	".gnupg/*",
	".netrc",
	".npmrc",
	"credentials",
	"credentials.json",
	"*.credentials",
	".git-credentials",
	"*token*",
	"*secret*",
	"*password*",
}

// IsSensitive reports whether any segment of path, or its base name,
// matches one of the deny patterns.
func IsSensitive(path string) bool {
	return MatchingPattern(path) != ""
}

// MatchingPattern returns the first deny pattern that matches path, or ""
// if none match. Matching is attempted against the full slash-normalized
// path, each path suffix starting at a separator, and the base name alone,
// so both "~/.ssh/id_rsa" and a bare "id_rsa" capture source are caught.
func MatchingPattern(path string) string {
	norm := filepath.ToSlash(path)
	base := filepath.Base(norm)

	candidates := []string{norm, base}
	for i := 0; i < len(norm); i++ {
		if norm[i] == '/' {
			candidates = append(candidates, norm[i+1:])
		}
	}

	for _, pattern := range DenyPatterns {
		for _, c := range candidates {
			if ok, _ := filepath.Match(pattern, c); ok {
				return pattern
			}
		}
	}
	return ""
}
