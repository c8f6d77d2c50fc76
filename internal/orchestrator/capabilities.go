package orchestrator

import "context"

// CapabilitiesOptions configures the capabilities command. Currently
// empty; kept as a named type for signature symmetry with the other
// command methods.
type CapabilitiesOptions struct{}

// CapabilitiesData is the capabilities command's successful payload: a
// static schema/command/feature matrix (spec.md §6's
// `capabilities --json`), useful for a caller that wants to know what a
// given build supports before invoking it.
type CapabilitiesData struct {
	SchemaVersion string   `json:"schemaVersion"`
	CLIVersion    string   `json:"cliVersion"`
	Commands      []string `json:"commands"`
	Drivers       []string `json:"drivers"`
	VerifyTypes   []string `json:"verifyTypes"`
	RestoreTypes  []string `json:"restoreTypes"`
}

var capabilityCommands = []string{
	"capture", "plan", "apply", "apply-from-plan", "restore", "revert",
	"verify", "report", "diff", "doctor", "validate-bundle", "capabilities",
}

var capabilityVerifyTypes = []string{"file-exists", "command-exists", "command-succeeds"}

var capabilityRestoreTypes = []string{"copy", "merge/json", "merge/ini", "append"}

// Capabilities reports the command surface, registered drivers, and
// known verify/restore item types a caller can rely on.
func (o *Orchestrator) Capabilities(_ context.Context, _ CapabilitiesOptions) Envelope {
	const command = "capabilities"
	runID := o.newRunID()

	return o.ok(command, runID, CapabilitiesData{
		SchemaVersion: EnvelopeSchemaVersion,
		CLIVersion:    o.cliVersion,
		Commands:      capabilityCommands,
		Drivers:       o.drivers.Names(),
		VerifyTypes:   capabilityVerifyTypes,
		RestoreTypes:  capabilityRestoreTypes,
	})
}
