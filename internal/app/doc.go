// Package app provides the application context for cargo-sync.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config *config.Config          // Loaded configuration
//	    FS     system.FileSystem       // Manifest and lockfile access
//	    Exec   system.CommandExecutor  // git, jj and cargo
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New(app.WithConfig(cfg))
//
//	// Testing with an in-memory workspace
//	a := app.New(
//	    app.WithFS(mockFS),
//	    app.WithExecutor(mockExec),
//	)
//
// Runner assembles a syncer.Runner from these dependencies.
package app
