package orchestrator

import (
	"context"
	"os"
	"path/filepath"
)

// DoctorCheckStatus is the outcome of a single doctor check.
type DoctorCheckStatus string

const (
	DoctorOK   DoctorCheckStatus = "ok"
	DoctorWarn DoctorCheckStatus = "warn"
	DoctorFail DoctorCheckStatus = "fail"
)

// DoctorCheck is one diagnostic entry in a doctor report.
type DoctorCheck struct {
	Name   string            `json:"name"`
	Status DoctorCheckStatus `json:"status"`
	Detail string            `json:"detail,omitempty"`
}

// DoctorData is the doctor command's successful payload.
type DoctorData struct {
	Checks  []DoctorCheck `json:"checks"`
	Healthy bool          `json:"healthy"`
}

// DoctorOptions configures the doctor command. Currently empty; kept as
// a named type so the signature matches every other command method.
type DoctorOptions struct{}

// Doctor probes the environment an orchestrator run depends on: a
// writable state root, a registered and available driver, and a
// reachable config-module catalog (spec.md §6's `doctor --json`).
// Unlike the teacher's drift-detecting doctor, this checks that the
// machinery apply/capture need is present, not that prior config has
// drifted — endstate has no compiled "expected state" to diff against
// outside of a manifest the caller must name separately.
func (o *Orchestrator) Doctor(ctx context.Context, _ DoctorOptions) Envelope {
	const command = "doctor"
	runID := o.newRunID()

	checks := []DoctorCheck{
		o.checkStateRootWritable(),
		o.checkDriver(ctx),
		o.checkCatalog(),
	}

	healthy := true
	for _, c := range checks {
		if c.Status == DoctorFail {
			healthy = false
		}
	}

	return o.ok(command, runID, DoctorData{Checks: checks, Healthy: healthy})
}

func (o *Orchestrator) checkStateRootWritable() DoctorCheck {
	if o.stateRoot == "" {
		return DoctorCheck{Name: "state-root", Status: DoctorFail, Detail: "no state root configured"}
	}
	if err := os.MkdirAll(o.stateRoot, 0o755); err != nil {
		return DoctorCheck{Name: "state-root", Status: DoctorFail, Detail: err.Error()}
	}
	probe := filepath.Join(o.stateRoot, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return DoctorCheck{Name: "state-root", Status: DoctorFail, Detail: err.Error()}
	}
	_ = os.Remove(probe)
	return DoctorCheck{Name: "state-root", Status: DoctorOK, Detail: o.stateRoot}
}

func (o *Orchestrator) checkDriver(ctx context.Context) DoctorCheck {
	if o.driverName == "" {
		return DoctorCheck{Name: "driver", Status: DoctorWarn, Detail: "no default driver configured"}
	}
	d, ok := o.drivers.Lookup(o.driverName)
	if !ok {
		return DoctorCheck{Name: "driver", Status: DoctorFail, Detail: "driver " + o.driverName + " is not registered"}
	}
	if !d.Available(ctx) {
		return DoctorCheck{Name: "driver", Status: DoctorFail, Detail: "driver " + o.driverName + " reported unavailable"}
	}
	return DoctorCheck{Name: "driver", Status: DoctorOK, Detail: o.driverName}
}

func (o *Orchestrator) checkCatalog() DoctorCheck {
	if o.catalog == nil {
		return DoctorCheck{Name: "config-catalog", Status: DoctorWarn, Detail: "no config module catalog configured"}
	}
	return DoctorCheck{Name: "config-catalog", Status: DoctorOK}
}
