package orchestrator

import (
	"context"

	"github.com/artexis10/endstate/internal/state"
)

// ReportOptions selects which run record(s) to report (spec.md §6).
// Exactly one selector should be set by the caller; RunID takes
// precedence over Latest, which takes precedence over Last.
type ReportOptions struct {
	RunID  string
	Latest bool
	Last   int
}

// ReportData is the report command's successful payload.
type ReportData struct {
	Records []state.Record `json:"records"`
}

// Report loads one or more previously persisted run records.
func (o *Orchestrator) Report(_ context.Context, opts ReportOptions) Envelope {
	const command = "report"
	runID := o.newRunID()

	switch {
	case opts.RunID != "":
		rec, err := o.store.LoadRecord(opts.RunID)
		if err != nil {
			return o.fail(command, runID, newError(ErrRunNotFound, "failed to load run record", err))
		}
		return o.ok(command, runID, ReportData{Records: []state.Record{rec}})

	case opts.Latest:
		ids, err := o.store.ListRecords()
		if err != nil {
			return o.fail(command, runID, newError(ErrInternal, "failed to list run records", err))
		}
		if len(ids) == 0 {
			return o.fail(command, runID, newError(ErrRunNotFound, "no run records exist", nil))
		}
		rec, err := o.store.LoadRecord(ids[0])
		if err != nil {
			return o.fail(command, runID, newError(ErrRunNotFound, "failed to load latest run record", err))
		}
		return o.ok(command, runID, ReportData{Records: []state.Record{rec}})

	case opts.Last > 0:
		ids, err := o.store.ListRecords()
		if err != nil {
			return o.fail(command, runID, newError(ErrInternal, "failed to list run records", err))
		}
		if len(ids) > opts.Last {
			ids = ids[:opts.Last]
		}
		records := make([]state.Record, 0, len(ids))
		for _, id := range ids {
			rec, err := o.store.LoadRecord(id)
			if err != nil {
				return o.fail(command, runID, newError(ErrInternal, "failed to load run record "+id, err))
			}
			records = append(records, rec)
		}
		return o.ok(command, runID, ReportData{Records: records})

	default:
		return o.fail(command, runID, newError(ErrInvalidArgument, "report requires one of --run-id, --latest, or --last N", nil))
	}
}
