// Package machineid derives the machine-name component that keys run
// records, backup trees, and bundle metadata (spec.md §3's run record
// `runId`, §4.11's `metadata.json.machineName`).
//
// Grounded on arkeep-io/arkeep/agent's metrics package, the one place in
// the retrieved pack that names github.com/shirou/gopsutil as the house
// library for host introspection; that file stubs the call out with a
// TODO, so this package is the first real wiring of it in this repo.
package machineid

import (
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Detect returns the local host's name via gopsutil, falling back to a
// fixed placeholder if the platform call fails (capture must still
// produce a manifest on a host gopsutil can't introspect). The caller
// passes the result straight into state.NewRunID, which normalizes it
// for the run id, and into bundle metadata, which stores it as given.
func Detect() string {
	info, err := host.Info()
	if err != nil || info.Hostname == "" {
		return "unknown-host"
	}
	return strings.TrimSpace(info.Hostname)
}
