package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/cargo-sync/internal/conceal"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
)

const (
	AppDirName        = "cargo-sync"
	DefaultConfigName = "config.toml"
	DefaultCargo      = "cargo"

	// CargoEnvVar is set by cargo when it runs an external subcommand.
	CargoEnvVar = "CARGO"
)

// Config holds the settings read from config.toml. Command-line flags
// override these values.
type Config struct {
	Cargo          string `toml:"cargo"`           // cargo binary; empty means $CARGO, then "cargo"
	CargoArgs      string `toml:"cargo_args"`      // extra arguments, shell-quoted
	Offline        bool   `toml:"offline"`         // pass --offline to cargo
	SortMembers    bool   `toml:"sort_members"`    // sync members by name instead of cargo's order
	Strategy       string `toml:"strategy"`        // "rename" (default) or "flag"
	StandaloneFlag string `toml:"standalone_flag"` // cargo flag used by the "flag" strategy
	Journal        bool   `toml:"journal"`         // record runs in the journal
	JournalDir     string `toml:"journal_dir"`     // defaults to the user cache dir
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Strategy: string(conceal.StrategyRename),
		Journal:  true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cargo-sync/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppDirName, DefaultConfigName), nil
}

// Load reads the configuration at path on top of Default. A missing file is
// not an error unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			logging.Debug("no config file, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logging.Warn("unknown config key", "path", path, "key", key.String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the Config is valid.
func (c *Config) Validate() error {
	switch conceal.Strategy(c.Strategy) {
	case "", conceal.StrategyRename:
	case conceal.StrategyFlag:
		if c.StandaloneFlag == "" {
			return fmt.Errorf("strategy %q requires standalone_flag", c.Strategy)
		}
	default:
		return fmt.Errorf("invalid strategy: %s (must be rename or flag)", c.Strategy)
	}

	if _, err := shellquote.Split(c.CargoArgs); err != nil {
		return fmt.Errorf("invalid cargo_args: %w", err)
	}

	return nil
}

// ConcealStrategy returns the configured strategy, defaulting to rename.
func (c *Config) ConcealStrategy() conceal.Strategy {
	if c.Strategy == "" {
		return conceal.StrategyRename
	}
	return conceal.Strategy(c.Strategy)
}

// CargoBinary returns the cargo binary to run.
func (c *Config) CargoBinary() string {
	if c.Cargo != "" {
		return c.Cargo
	}
	if env := os.Getenv(CargoEnvVar); env != "" {
		return env
	}
	return DefaultCargo
}

// CargoArguments returns the extra arguments forwarded to every cargo
// metadata call, including --offline when enabled.
func (c *Config) CargoArguments() ([]string, error) {
	args, err := shellquote.Split(c.CargoArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid cargo_args: %w", err)
	}
	if c.Offline && !contains(args, "--offline") {
		args = append(args, "--offline")
	}
	return args, nil
}

// JournalPath returns the directory holding the run journal.
func (c *Config) JournalPath() (string, error) {
	if c.JournalDir != "" {
		return c.JournalDir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(dir, AppDirName), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
