// Package app provides the application context for cargo-sync.
// It allows dependency injection for testing.
package app

import (
	"github.com/firefly-engineering/cargo-sync/internal/cargo"
	"github.com/firefly-engineering/cargo-sync/internal/config"
	"github.com/firefly-engineering/cargo-sync/internal/conceal"
	"github.com/firefly-engineering/cargo-sync/internal/journal"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/syncer"
	"github.com/firefly-engineering/cargo-sync/internal/system"
	"github.com/firefly-engineering/cargo-sync/internal/vcs"
)

// App holds the application dependencies
type App struct {
	// Config is the loaded configuration
	Config *config.Config

	// FS is used for every manifest and lockfile operation
	FS system.FileSystem

	// Exec runs git, jj and cargo
	Exec system.CommandExecutor
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets the configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithFS sets a custom file system
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Exec = exec
	}
}

// New creates a new App with the given options.
// Unset dependencies fall back to the defaults.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Config == nil {
		app.Config = config.Default()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Exec == nil {
		app.Exec = system.DefaultExecutor()
	}

	return app
}

// Cargo returns the cargo metadata runner described by the configuration.
func (a *App) Cargo() (*cargo.Command, error) {
	extra, err := a.Config.CargoArguments()
	if err != nil {
		return nil, err
	}
	cmd := cargo.NewCommand(a.Exec, a.Config.CargoBinary(), extra)
	if a.Config.ConcealStrategy() == conceal.StrategyFlag {
		cmd.StandaloneFlag = a.Config.StandaloneFlag
	}
	return cmd, nil
}

// Journal returns the run journal, or nil when journaling is disabled or
// has no usable directory.
func (a *App) Journal() *journal.Logger {
	if !a.Config.Journal {
		return nil
	}
	dir, err := a.Config.JournalPath()
	if err != nil {
		logging.Debug("journal disabled", "error", err)
		return nil
	}
	return journal.NewLogger(dir)
}

// Runner builds a synchronization runner from the application dependencies.
func (a *App) Runner(opts ...syncer.Option) (*syncer.Runner, error) {
	cmd, err := a.Cargo()
	if err != nil {
		return nil, err
	}

	base := []syncer.Option{
		syncer.WithStrategy(a.Config.ConcealStrategy()),
		syncer.WithJournal(a.Journal()),
	}
	return syncer.NewRunner(a.FS, vcs.NewGate(a.FS, a.Exec), cmd, append(base, opts...)...), nil
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
