package orchestrator

import (
	"context"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffOptions configures the diff command.
type DiffOptions struct {
	FileA string
	FileB string
}

// DiffData is the diff command's successful payload.
type DiffData struct {
	FileA    string `json:"fileA"`
	FileB    string `json:"fileB"`
	Unified  string `json:"unified"`
	Identical bool  `json:"identical"`
}

// Diff produces a unified text diff between two files (spec.md §6's
// `diff --file-a --file-b` surface). Any file type is accepted; the
// comparison is line-oriented, not structure-aware.
func (o *Orchestrator) Diff(_ context.Context, opts DiffOptions) Envelope {
	const command = "diff"
	runID := o.newRunID()

	a, err := os.ReadFile(opts.FileA)
	if err != nil {
		return o.fail(command, runID, newError(ErrInvalidArgument, "failed to read file-a", err))
	}
	b, err := os.ReadFile(opts.FileB)
	if err != nil {
		return o.fail(command, runID, newError(ErrInvalidArgument, "failed to read file-b", err))
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: opts.FileA,
		ToFile:   opts.FileB,
		Context:  3,
	}
	unified, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return o.fail(command, runID, newError(ErrInternal, "failed to compute diff", err))
	}

	return o.ok(command, runID, DiffData{
		FileA:     opts.FileA,
		FileB:     opts.FileB,
		Unified:   unified,
		Identical: unified == "",
	})
}
