// Package pathresolve expands logical path tokens, environment variables,
// and home-relative paths into absolute, platform-native paths, and derives
// backup-tree-safe paths from them.
//
// It exists as its own component because the manifest loader, the restorer,
// the reverter, and the bundle packager all need identical expansion
// semantics; drift between two copies of "resolve a path" breaks restore and
// revert in ways that are very hard to notice.
package pathresolve

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/artexis10/endstate/internal/domain/platform"
)

// Resolver expands path expressions for a target platform.
type Resolver struct {
	plat *platform.Platform
	home string
}

// New creates a Resolver for the given platform. A nil platform falls back
// to platform.Detect().
func New(plat *platform.Platform) *Resolver {
	if plat == nil {
		plat, _ = platform.Detect()
	}
	return &Resolver{plat: plat}
}

// Home returns the absolute home directory, caching the lookup.
func (r *Resolver) Home() string {
	if r.home != "" {
		return r.home
	}
	if h, err := os.UserHomeDir(); err == nil {
		r.home = h
		return h
	}
	return ""
}

// logicalToken maps a `${token}` name to an environment variable fallback
// chain and an OS-specific default suffix joined onto home.
type logicalToken struct {
	envVars []string
	posix   string // joined onto home when no env var is set
	windows string // joined onto home when no env var is set
}

var logicalTokens = map[string]logicalToken{
	"home":            {envVars: []string{"HOME", "USERPROFILE"}},
	"appdata":         {envVars: []string{"APPDATA"}, posix: ".config", windows: "AppData/Roaming"},
	"localappdata":    {envVars: []string{"LOCALAPPDATA"}, posix: ".local/share", windows: "AppData/Local"},
	"config":          {envVars: []string{"XDG_CONFIG_HOME"}, posix: ".config", windows: "AppData/Roaming"},
	"cache":           {envVars: []string{"XDG_CACHE_HOME"}, posix: ".cache", windows: "AppData/Local/Temp"},
	"temp":            {envVars: []string{"TEMP", "TMPDIR", "TMP"}, posix: "", windows: ""},
	"programfiles":    {envVars: []string{"PROGRAMFILES"}, posix: "/usr/local", windows: "AppData/Local/Programs"},
	"programdata":     {envVars: []string{"PROGRAMDATA"}, posix: "/usr/share", windows: "AppData/Roaming"},
}

var tokenPattern = regexp.MustCompile(`\$\{([a-zA-Z]+)\}`)

// Expand resolves path expressions in this order: logical ${tokens}, then
// %ENV% / $ENV host environment variables, then a leading ~, then, if
// baseDir is non-empty and the remainder starts with ./ or ../, joins and
// canonicalizes against baseDir. The result uses host-native separators.
func (r *Resolver) Expand(path string, baseDir string) string {
	if path == "" {
		return path
	}

	expanded := tokenPattern.ReplaceAllStringFunc(path, func(m string) string {
		name := strings.ToLower(tokenPattern.FindStringSubmatch(m)[1])
		return r.expandLogicalToken(name)
	})

	expanded = expandHostEnvVars(expanded)

	if strings.HasPrefix(expanded, "~/") || expanded == "~" {
		expanded = filepath.Join(r.Home(), strings.TrimPrefix(expanded, "~"))
	}

	if baseDir != "" && (strings.HasPrefix(expanded, "./") || strings.HasPrefix(expanded, "../")) {
		expanded = filepath.Join(baseDir, expanded)
	}

	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded)
	}
	return filepath.Clean(filepath.FromSlash(expanded))
}

func (r *Resolver) expandLogicalToken(name string) string {
	tok, ok := logicalTokens[name]
	if !ok {
		return "${" + name + "}"
	}
	for _, env := range tok.envVars {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	suffix := tok.posix
	if r.plat != nil && r.plat.IsWindows() {
		suffix = tok.windows
	}
	if suffix == "" {
		return r.Home()
	}
	return filepath.ToSlash(filepath.Join(r.Home(), suffix))
}

// hostEnvPattern matches %NAME% (Windows) host environment variable
// references; $NAME / ${NAME} (posix) references go through os.Expand.
var hostEnvPattern = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

func expandHostEnvVars(path string) string {
	path = hostEnvPattern.ReplaceAllStringFunc(path, func(m string) string {
		name := hostEnvPattern.FindStringSubmatch(m)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return m
	})
	return os.Expand(path, func(name string) string {
		// Do not swallow a bare "$" or shell-style positional tokens that
		// were never meant as env var references.
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return "$" + name
	})
}

// IsAbsolute reports whether path is already an absolute path.
func (r *Resolver) IsAbsolute(path string) bool {
	return filepath.IsAbs(path)
}

// driveLetterPattern matches a leading Windows drive letter, e.g. "C:".
var driveLetterPattern = regexp.MustCompile(`^[A-Za-z]:`)

// ToBackupPath derives the relative path under a run's backup tree for an
// absolute target path: strip any drive letter, strip leading separators,
// and replace remaining colons, so the result never contains a drive
// letter, a leading separator, or a colon (see spec invariant on backup
// path normalization).
func ToBackupPath(absPath string) string {
	p := strings.ReplaceAll(filepath.ToSlash(absPath), "\\", "/")
	p = driveLetterPattern.ReplaceAllString(p, "")
	p = strings.TrimLeft(p, "/")
	p = strings.ReplaceAll(p, ":", "_")
	return filepath.FromSlash(p)
}
