package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/adapters/command"
	"github.com/artexis10/endstate/internal/adapters/logging"
	"github.com/artexis10/endstate/internal/configcatalog"
	"github.com/artexis10/endstate/internal/domain/platform"
	"github.com/artexis10/endstate/internal/driver"
	"github.com/artexis10/endstate/internal/driver/winget"
	"github.com/artexis10/endstate/internal/events"
	"github.com/artexis10/endstate/internal/machineid"
	"github.com/artexis10/endstate/internal/orchestrator"
	"github.com/artexis10/endstate/internal/pathresolve"
	"github.com/artexis10/endstate/internal/planner"
	"github.com/artexis10/endstate/internal/ports"
	"github.com/artexis10/endstate/internal/state"
)

// version is overwritten by -ldflags "-X main.version=..." at build time
// (the teacher's own version.go pattern, kept verbatim).
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var (
	flagStateRoot   string
	flagDriver      string
	flagMachineName string
	flagCatalogRoot string
	flagJSON        bool
	flagEvents      string
	flagParallel    int
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "endstate",
	Short:         "Converge a workstation to a declared end-state",
	Long:          `endstate provisions a workstation to a declared end-state: a named set of applications, configuration files, and invariants captured in a profile and converged onto target machines.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	home, _ := os.UserHomeDir()
	defaultStateRoot := filepath.Join(home, ".endstate")

	rootCmd.PersistentFlags().StringVar(&flagStateRoot, "state-root", defaultStateRoot, "root directory for run records, backups, journals, and plans")
	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", "winget", "name of the package-manager driver to use")
	rootCmd.PersistentFlags().StringVar(&flagMachineName, "machine-name", "", "machine name to key run ids with (default: detected host name)")
	rootCmd.PersistentFlags().StringVar(&flagCatalogRoot, "catalog-root", "", "directory of module.jsonc config modules (default: <state-root>/catalog)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print the command's envelope as JSON instead of a human summary")
	rootCmd.PersistentFlags().StringVar(&flagEvents, "events", "", "stream progress events to stderr in the given format (jsonl)")
	rootCmd.PersistentFlags().IntVar(&flagParallel, "parallel", 1, "app-install worker pool size (1 = sequential)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(versionCmd, captureCmd, planCmd, applyCmd, applyFromPlanCmd,
		restoreCmd, revertCmd, verifyCmd, reportCmd, diffCmd, doctorCmd,
		validateBundleCmd, capabilitiesCmd)
}

// Execute runs the root command and returns the process exit code
// (spec.md §6: 0 success, 1 validation/input error, 2 operational
// failure, 3 internal error).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		// A RunE error at this layer means argument parsing or a
		// pre-flight CLI check failed before any Orchestrator method
		// ran, so it is an input error (spec.md §6 exit code 1), never
		// the internal-error code an Orchestrator envelope would carry.
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return lastExitCode
}

// errEnableRestoreRequired guards the restore command's explicit
// `--enable-restore` opt-in (spec.md §6: "restore --manifest
// --enable-restore") before any file is touched.
var errEnableRestoreRequired = errors.New("restore requires --enable-restore to confirm intent")

// lastExitCode is set by emit() after the one command that ran this
// process produces its envelope; cobra's RunE only reports a plain
// error, not the richer exit-code taxonomy spec.md §6 wants.
var lastExitCode int

// buildOrchestrator wires an Orchestrator from the persistent flags: the
// real command runner, the winget driver, the zap-or-console logger, the
// detected or overridden machine name, and (when --events jsonl is set) a
// JSONL event sink writing to stderr.
func buildOrchestrator() (*orchestrator.Orchestrator, error) {
	plat, err := platform.Detect()
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	runner := command.NewRealRunner()

	logger, err := loggerFor(flagVerbose, flagJSON)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	drivers := driver.NewRegistry()
	drivers.Register(winget.New(runner, plat))

	catalogRoot := flagCatalogRoot
	if catalogRoot == "" {
		catalogRoot = filepath.Join(flagStateRoot, "catalog")
	}
	catalog := configcatalog.New(catalogRoot)

	machineName := flagMachineName
	if machineName == "" {
		machineName = machineid.Detect()
	}

	var sink events.Sink = events.NopSink{}
	if flagEvents == "jsonl" {
		sink = events.NewJSONLSink(os.Stderr)
	}

	cfg := orchestrator.Config{
		StateRoot:        flagStateRoot,
		Platform:         planner.ActivePlatform(plat.OS()),
		DriverName:       flagDriver,
		MachineName:      machineName,
		CLIVersion:       version,
		Drivers:          drivers,
		Catalog:          catalog,
		Runner:           runner,
		Logger:           logger,
		Sink:             sink,
		Resolver:         pathresolve.New(plat),
		ParallelInstalls: flagParallel,
	}
	return orchestrator.New(cfg), nil
}

// loggerFor picks the logger backend per --json: structured zap JSON
// logging for machine-readable runs, the teacher's plain ConsoleLogger
// for the human-readable default.
func loggerFor(verbose, jsonFormat bool) (ports.Logger, error) {
	if jsonFormat {
		zl, err := logging.NewZapLogger(true)
		if err != nil {
			return nil, err
		}
		if verbose {
			zl.SetLevel(0)
		}
		return zl, nil
	}
	opts := []logging.ConsoleLoggerOption{logging.WithOutput(os.Stderr)}
	if verbose {
		opts = append(opts, logging.WithLevel(0))
	}
	return logging.NewConsoleLogger(opts...), nil
}

// emit prints env per --json and sets lastExitCode per spec.md §6's exit
// code contract.
func emit(env orchestrator.Envelope) {
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(env)
	} else {
		printHuman(env)
	}
	lastExitCode = exitCodeFor(env)
}

func exitCodeFor(env orchestrator.Envelope) int {
	if !env.Success {
		if env.Error != nil && env.Error.Code == orchestrator.ErrInternal {
			return 3
		}
		switch {
		case env.Error != nil && isInputError(env.Error.Code):
			return 1
		default:
			return 2
		}
	}
	if actionsFailed(env.Data) {
		return 2
	}
	return 0
}

func isInputError(code orchestrator.ErrCode) bool {
	switch code {
	case orchestrator.ErrManifestNotFound, orchestrator.ErrManifestParseError,
		orchestrator.ErrManifestValidationError, orchestrator.ErrInvalidArgument,
		orchestrator.ErrSchemaIncompatible, orchestrator.ErrPlanNotFound,
		orchestrator.ErrPlanParseError, orchestrator.ErrRunNotFound:
		return true
	}
	return false
}

// actionsFailed reports whether any action embedded in a successful
// envelope's data terminated with state.StatusFailed -- the "partial
// failure" case spec.md §7 calls out separately from envelope.success.
func actionsFailed(data any) bool {
	var actions []state.Action
	switch d := data.(type) {
	case orchestrator.ApplyData:
		actions = d.Plan.Actions
	case orchestrator.RestoreData:
		actions = d.Actions
	case orchestrator.VerifyData:
		actions = d.Actions
	case orchestrator.RevertData:
		actions = d.Actions
	default:
		return false
	}
	for _, a := range actions {
		if a.Status == state.StatusFailed {
			return true
		}
	}
	return false
}

func runCommand(cmd *cobra.Command, fn func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope) error {
	o, err := buildOrchestrator()
	if err != nil {
		return err
	}
	env := fn(cmd.Context(), o)
	emit(env)
	return nil
}
