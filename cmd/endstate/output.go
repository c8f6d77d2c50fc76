package main

import (
	"fmt"
	"os"

	"github.com/artexis10/endstate/internal/orchestrator"
)

// printHuman renders env as a short, human-readable summary -- the
// plain-text mode every command falls back to when --json is not given
// (spec.md §1 puts full console rendering out of scope; this is just
// enough to make the CLI usable without a dedicated renderer attached).
func printHuman(env orchestrator.Envelope) {
	if !env.Success {
		fmt.Fprintf(os.Stderr, "%s failed: %s\n", env.Command, env.Error.Message)
		if env.Error.Remediation != "" {
			fmt.Fprintf(os.Stderr, "  remediation: %s\n", env.Error.Remediation)
		}
		return
	}

	switch d := env.Data.(type) {
	case orchestrator.PlanData:
		fmt.Printf("run %s: install=%d skip=%d restore=%d verify=%d\n",
			env.RunID, d.Plan.Summary.Install, d.Plan.Summary.Skip, d.Plan.Summary.Restore, d.Plan.Summary.Verify)
		if len(d.Plan.Actions) == 0 {
			fmt.Println("No changes.")
		}
	case orchestrator.ApplyData:
		s := d.Plan.Summary
		fmt.Printf("run %s: install=%d skip=%d restore=%d verify=%d\n", env.RunID, s.Install, s.Skip, s.Restore, s.Verify)
		for _, w := range d.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
	case orchestrator.CaptureData:
		fmt.Printf("captured %d apps\n", len(d.Manifest.Apps))
		for _, w := range d.CaptureWarnings {
			fmt.Printf("warning: %s\n", w)
		}
		if d.BundlePath != "" {
			fmt.Printf("bundle written to %s\n", d.BundlePath)
		}
	case orchestrator.RestoreData:
		fmt.Printf("restore run %s: %d item(s)\n", env.RunID, len(d.Actions))
		for _, w := range d.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
	case orchestrator.RevertData:
		fmt.Printf("reverted run %s: %d item(s)\n", d.RevertedRunID, len(d.Actions))
	case orchestrator.VerifyData:
		fmt.Printf("verify run %s: success=%d failed=%d\n", env.RunID, d.Summary.Success, d.Summary.Failed)
	case orchestrator.ReportData:
		for _, rec := range d.Records {
			fmt.Printf("%s  %s  success=%d skipped=%d failed=%d\n",
				rec.RunID, rec.Command, rec.Summary.Success, rec.Summary.Skipped, rec.Summary.Failed)
		}
	case orchestrator.DiffData:
		if d.Identical {
			fmt.Println("files are identical")
		} else {
			fmt.Print(d.Unified)
		}
	case orchestrator.DoctorData:
		for _, c := range d.Checks {
			fmt.Printf("[%s] %s: %s\n", c.Status, c.Name, c.Detail)
		}
	case orchestrator.ValidateBundleData:
		fmt.Println("manifest and bundle validated")
		for _, w := range d.ManifestWarnings {
			fmt.Printf("warning: %s\n", w)
		}
	case orchestrator.CapabilitiesData:
		fmt.Printf("endstate %s (schema %s)\n", d.CLIVersion, d.SchemaVersion)
		fmt.Printf("commands: %v\n", d.Commands)
		fmt.Printf("drivers: %v\n", d.Drivers)
	default:
		fmt.Printf("%s ok (run %s)\n", env.Command, env.RunID)
	}
}
