// Package winget is the reference driver.Driver implementation backing
// Windows Package Manager, adapted from the teacher's compiler.Provider
// (internal/provider/winget) down to the narrower driver.Driver contract.
package winget

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/artexis10/endstate/internal/domain/platform"
	"github.com/artexis10/endstate/internal/driver"
	"github.com/artexis10/endstate/internal/ports"
	"github.com/artexis10/endstate/internal/validation"
)

// MinVersion is the lowest winget --version this driver is known to
// work against; versions below it still run but Available logs nothing
// extra -- the check exists so a caller can surface a clearer upgrade
// hint than a cryptic command failure.
const MinVersion = "v1.4.0"

// versionProbeTimeout bounds each `winget --version` invocation.
const versionProbeTimeout = 5 * time.Second

// Driver backs driver.Driver with the winget CLI.
type Driver struct {
	runner   ports.CommandRunner
	platform *platform.Platform
}

// New creates a winget Driver.
func New(runner ports.CommandRunner, plat *platform.Platform) *Driver {
	return &Driver{runner: runner, platform: plat}
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return "winget" }

func (d *Driver) command() string {
	if d.platform != nil && d.platform.IsWSL() {
		return "winget.exe"
	}
	return "winget"
}

// Available implements driver.Driver.
func (d *Driver) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()
	result, err := d.runner.Run(ctx, d.command(), "--version")
	return err == nil && result.Success()
}

// VersionFloorMet reports whether the installed winget version is at
// least MinVersion, using golang.org/x/mod/semver the way the teacher's
// security.IsOutdated compares provider versions.
func (d *Driver) VersionFloorMet(ctx context.Context) (bool, string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()
	result, err := d.runner.Run(ctx, d.command(), "--version")
	if err != nil {
		return false, "", err
	}
	v := normalizeVersion(strings.TrimSpace(result.Stdout))
	if !semver.IsValid(v) {
		return false, v, nil
	}
	return semver.Compare(v, MinVersion) >= 0, v, nil
}

func normalizeVersion(raw string) string {
	v := strings.TrimPrefix(raw, "v")
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// ListInstalled implements driver.Driver: one ref string per installed
// package id.
func (d *Driver) ListInstalled(ctx context.Context) ([]string, error) {
	result, err := d.runner.Run(ctx, d.command(), "list", "--accept-source-agreements")
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, fmt.Errorf("winget list failed: %s", result.Stderr)
	}
	return parseListIDs(result.Stdout), nil
}

// parseListIDs extracts package ids from `winget list` output. winget's
// columnar text format has no stable delimiter, so this takes the
// second whitespace-separated field of each data row -- the same
// heuristic PackageStep.InstalledVersion uses to locate a package's
// version column.
func parseListIDs(output string) []string {
	var ids []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if strings.HasPrefix(fields[0], "-") || strings.EqualFold(fields[0], "Name") {
			continue
		}
		ids = append(ids, fields[1])
	}
	return ids
}

// Install implements driver.Driver.
func (d *Driver) Install(ctx context.Context, ref string) (driver.InstallResult, error) {
	if err := validation.ValidateWingetID(ref); err != nil {
		return driver.InstallResult{Success: false, Error: err.Error()}, nil
	}

	args := []string{"install", "--id", ref, "--exact", "--accept-source-agreements", "--accept-package-agreements", "--silent"}
	result, err := d.runner.Run(ctx, d.command(), args...)
	if err != nil {
		return driver.InstallResult{}, err
	}
	if !result.Success() {
		return driver.InstallResult{Success: false, Error: strings.TrimSpace(result.Stderr)}, nil
	}
	return driver.InstallResult{Success: true}, nil
}

// Export implements driver.Driver. winget export produces a structured
// JSON package list; if that invocation fails, Export falls back to
// ListInstalled and attaches ExportWarningFallbackUsed rather than
// failing the capture run outright.
func (d *Driver) Export(ctx context.Context, path string) (driver.Capture, error) {
	result, err := d.runner.Run(ctx, d.command(), "export", "-o", path, "--accept-source-agreements")
	if err == nil && result.Success() {
		refs, parseErr := parseExportFile(path)
		if parseErr == nil {
			return driver.Capture{Refs: refs}, nil
		}
	}

	refs, listErr := d.ListInstalled(ctx)
	if listErr != nil {
		if err != nil {
			return driver.Capture{}, err
		}
		return driver.Capture{}, listErr
	}
	return driver.Capture{
		Refs:     refs,
		Warnings: []driver.ExportWarning{driver.ExportWarningFallbackUsed},
	}, nil
}

// wingetExportFile mirrors the subset of `winget export`'s JSON shape
// this driver cares about: the package identifier of every entry under
// every source.
type wingetExportFile struct {
	Sources []struct {
		Packages []struct {
			PackageIdentifier string `json:"PackageIdentifier"`
		} `json:"Packages"`
	} `json:"Sources"`
}

// parseExportFile reads winget's exported package list and flattens it
// to one ref per package identifier, in file order.
func parseExportFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f wingetExportFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	var refs []string
	for _, src := range f.Sources {
		for _, pkg := range src.Packages {
			if pkg.PackageIdentifier != "" {
				refs = append(refs, pkg.PackageIdentifier)
			}
		}
	}
	return refs, nil
}

var _ driver.Driver = (*Driver)(nil)
