// Package verify implements the verifier contract (part of C6/C7's
// surface, spec.md §4.7): post-condition checks run after apply.
package verify

import (
	"context"
	"os"
	"os/exec"

	"github.com/artexis10/endstate/internal/ports"
)

// Result is a verifier's outcome.
type Result struct {
	Success bool
	Message string
}

// Verifier checks one post-condition.
type Verifier interface {
	Check(ctx context.Context, args Args) (Result, error)
}

// Args carries whichever fields a given verifier kind consumes; unused
// fields are left zero.
type Args struct {
	Path    string
	Command string
}

// FileExists verifies that a path exists on disk.
type FileExists struct{}

func (FileExists) Check(_ context.Context, args Args) (Result, error) {
	if _, err := os.Stat(args.Path); err != nil {
		if os.IsNotExist(err) {
			return Result{Success: false, Message: "path does not exist: " + args.Path}, nil
		}
		return Result{}, err
	}
	return Result{Success: true, Message: "path exists"}, nil
}

// CommandExists verifies that a command is resolvable on PATH.
type CommandExists struct{}

func (CommandExists) Check(_ context.Context, args Args) (Result, error) {
	if _, err := exec.LookPath(args.Command); err != nil {
		return Result{Success: false, Message: "command not found in PATH: " + args.Command}, nil
	}
	return Result{Success: true, Message: "command found in PATH"}, nil
}

// CommandSucceeds is declared but not yet implemented (spec.md §9 Open
// Question, resolved as choice (b)): it never runs args.Command, and
// always reports success with an explicit not-implemented marker rather
// than silently passing a production check it never evaluated. The
// Runner field exists so a future implementation has somewhere to land
// without changing the Verifier interface.
type CommandSucceeds struct {
	Runner ports.CommandRunner
}

func (CommandSucceeds) Check(_ context.Context, _ Args) (Result, error) {
	return Result{Success: true, Message: "not-implemented: command-succeeds is not evaluated"}, nil
}

// Registry looks up a Verifier by kind.
type Registry struct {
	verifiers map[string]Verifier
}

// NewRegistry creates a Registry pre-populated with the three reference
// verifier kinds.
func NewRegistry(runner ports.CommandRunner) *Registry {
	return &Registry{verifiers: map[string]Verifier{
		"file-exists":      FileExists{},
		"command-exists":   CommandExists{},
		"command-succeeds": CommandSucceeds{Runner: runner},
	}}
}

// Lookup returns the verifier registered under kind.
func (r *Registry) Lookup(kind string) (Verifier, bool) {
	v, ok := r.verifiers[kind]
	return v, ok
}
