package orchestrator

import (
	"time"

	"github.com/artexis10/endstate/internal/configcatalog"
	"github.com/artexis10/endstate/internal/driver"
	"github.com/artexis10/endstate/internal/events"
	"github.com/artexis10/endstate/internal/pathresolve"
	"github.com/artexis10/endstate/internal/planner"
	"github.com/artexis10/endstate/internal/ports"
	"github.com/artexis10/endstate/internal/state"
	"github.com/artexis10/endstate/internal/verify"
)

// Config wires an Orchestrator's collaborators (spec.md §4.1). Every
// field has a zero-value-safe default except StateRoot.
type Config struct {
	StateRoot   string
	Platform    planner.ActivePlatform
	DriverName  string
	MachineName string
	CLIVersion  string

	Drivers  *driver.Registry
	Catalog  *configcatalog.Catalog
	Runner   ports.CommandRunner
	Logger   ports.Logger
	Sink     events.Sink
	Resolver *pathresolve.Resolver

	// ParallelInstalls bounds the app-install worker pool; <= 0 means
	// sequential (spec.md §5's default).
	ParallelInstalls int

	// Clock is overridable for tests; defaults to time.Now.
	Clock func() time.Time
}

// Orchestrator exposes one method per command (spec.md §4.1), dispatching
// to the planner, restorer, reverter, verifier, and bundle packager and
// wrapping every result in an Envelope.
type Orchestrator struct {
	stateRoot   string
	platform    planner.ActivePlatform
	driverName  string
	machineName string
	cliVersion  string

	drivers  *driver.Registry
	catalog  *configcatalog.Catalog
	runner   ports.CommandRunner
	logger   ports.Logger
	sink     events.Sink
	resolver *pathresolve.Resolver
	store    *state.Store
	verifiers *verify.Registry

	parallelInstalls int
	clock            func() time.Time
}

// New builds an Orchestrator from cfg, filling every collaborator left
// nil with its dependency-free default.
func New(cfg Config) *Orchestrator {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Drivers == nil {
		cfg.Drivers = driver.NewRegistry()
	}
	if cfg.Runner == nil {
		cfg.Runner = ports.NewRealCommandRunner()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = pathresolve.New(nil)
	}
	if cfg.Sink == nil {
		cfg.Sink = events.NopSink{}
	}
	if cfg.CLIVersion == "" {
		cfg.CLIVersion = "dev"
	}

	return &Orchestrator{
		stateRoot:        cfg.StateRoot,
		platform:         cfg.Platform,
		driverName:       cfg.DriverName,
		machineName:      cfg.MachineName,
		cliVersion:       cfg.CLIVersion,
		drivers:          cfg.Drivers,
		catalog:          cfg.Catalog,
		runner:           cfg.Runner,
		logger:           cfg.Logger,
		sink:             cfg.Sink,
		resolver:         cfg.Resolver,
		store:            state.New(cfg.StateRoot),
		verifiers:        verify.NewRegistry(cfg.Runner),
		parallelInstalls: cfg.ParallelInstalls,
		clock:            cfg.Clock,
	}
}

func (o *Orchestrator) now() time.Time { return o.clock() }

func (o *Orchestrator) newRunID() string {
	return state.NewRunID(o.now(), o.machineName)
}

func (o *Orchestrator) publish(e events.Event) {
	e.TS = o.now().UTC()
	o.sink.Publish(e)
}
