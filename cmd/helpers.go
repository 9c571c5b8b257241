package cmd

import (
	"os"
	"path/filepath"

	"github.com/firefly-engineering/cargo-sync/internal/app"
	"github.com/firefly-engineering/cargo-sync/internal/config"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
)

// loadConfig loads the configuration into the default app. An explicit
// --config must exist; the default location is optional.
func loadConfig() error {
	path := configPath
	required := path != ""
	if !required {
		p, err := config.DefaultPath()
		if err != nil {
			logging.Debug("no default config location", "error", err)
			return nil
		}
		path = p
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return errors.ConfigError("failed to load configuration", err)
	}
	app.Default.Config = cfg
	logging.Debug("configuration loaded", "path", path)
	return nil
}

// startDir returns the directory the workspace is resolved from.
func startDir() (string, error) {
	dir := manifestDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Filesystem("failed to determine the current directory", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Filesystem("invalid --manifest-dir", err)
	}
	return abs, nil
}
