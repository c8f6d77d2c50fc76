package orchestrator

import "time"

// EnvelopeSchemaVersion is the envelope's own schema version (spec.md
// §4.1), independent of a manifest's schema version.
const EnvelopeSchemaVersion = "1.0"

// Envelope is the one typed wrapper every Orchestrator method returns.
type Envelope struct {
	SchemaVersion string    `json:"schemaVersion"`
	CLIVersion    string    `json:"cliVersion"`
	Command       string    `json:"command"`
	RunID         string    `json:"runId,omitempty"`
	TimestampUTC  time.Time `json:"timestampUtc"`
	Success       bool      `json:"success"`
	Data          any       `json:"data,omitempty"`
	Error         *Error    `json:"error,omitempty"`
}

// ok builds a successful envelope.
func (o *Orchestrator) ok(command, runID string, data any) Envelope {
	return Envelope{
		SchemaVersion: EnvelopeSchemaVersion,
		CLIVersion:    o.cliVersion,
		Command:       command,
		RunID:         runID,
		TimestampUTC:  o.now().UTC(),
		Success:       true,
		Data:          data,
	}
}

// fail builds a failed envelope from err, coercing a plain error into an
// *Error tagged ErrInternal when the caller didn't already classify it.
func (o *Orchestrator) fail(command, runID string, err error) Envelope {
	envErr, ok := err.(*Error)
	if !ok {
		envErr = newError(ErrInternal, err.Error(), err)
	}
	return Envelope{
		SchemaVersion: EnvelopeSchemaVersion,
		CLIVersion:    o.cliVersion,
		Command:       command,
		RunID:         runID,
		TimestampUTC:  o.now().UTC(),
		Success:       false,
		Error:         envErr,
	}
}
