package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/firefly-engineering/cargo-sync/internal/conceal"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ConcealStrategy() != conceal.StrategyRename {
		t.Errorf("ConcealStrategy() = %q, want rename", cfg.ConcealStrategy())
	}
	if !cfg.Journal {
		t.Error("journal should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
cargo = "/opt/cargo"
cargo_args = "--locked --config 'net.retry=5'"
offline = true
sort_members = true
journal = false
journal_dir = "/tmp/journal"
`)

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Cargo != "/opt/cargo" {
		t.Errorf("Cargo = %q", cfg.Cargo)
	}
	if !cfg.Offline || !cfg.SortMembers {
		t.Errorf("Offline = %v, SortMembers = %v", cfg.Offline, cfg.SortMembers)
	}
	if cfg.Journal {
		t.Error("Journal should be false")
	}
	// unset keys keep their defaults
	if cfg.Strategy != string(conceal.StrategyRename) {
		t.Errorf("Strategy = %q, want default", cfg.Strategy)
	}

	args, err := cfg.CargoArguments()
	if err != nil {
		t.Fatalf("CargoArguments failed: %v", err)
	}
	want := []string{"--locked", "--config", "net.retry=5", "--offline"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("CargoArguments() = %v, want %v", args, want)
	}

	dir, err := cfg.JournalPath()
	if err != nil || dir != "/tmp/journal" {
		t.Errorf("JournalPath() = %q, %v", dir, err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := Load(missing, false)
	if err != nil {
		t.Fatalf("optional missing config should load defaults: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}

	if _, err := Load(missing, true); err == nil {
		t.Error("required missing config should fail")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "cargo = \n")

	if _, err := Load(path, false); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_UnknownKeyIgnored(t *testing.T) {
	path := writeConfig(t, "colour = \"blue\"\n")

	if _, err := Load(path, true); err != nil {
		t.Errorf("unknown keys should not fail loading: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"rename", Config{Strategy: "rename"}, false},
		{"flag with flag", Config{Strategy: "flag", StandaloneFlag: "-Zno-workspace"}, false},
		{"flag without flag", Config{Strategy: "flag"}, true},
		{"unknown strategy", Config{Strategy: "copy"}, true},
		{"unbalanced quotes", Config{CargoArgs: "--config 'oops"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCargoBinary(t *testing.T) {
	t.Setenv(CargoEnvVar, "")
	if got := (&Config{}).CargoBinary(); got != DefaultCargo {
		t.Errorf("CargoBinary() = %q, want %q", got, DefaultCargo)
	}

	t.Setenv(CargoEnvVar, "/home/me/.cargo/bin/cargo")
	if got := (&Config{}).CargoBinary(); got != "/home/me/.cargo/bin/cargo" {
		t.Errorf("CargoBinary() = %q, want $CARGO", got)
	}

	if got := (&Config{Cargo: "/opt/cargo"}).CargoBinary(); got != "/opt/cargo" {
		t.Errorf("CargoBinary() = %q, want configured binary", got)
	}
}

func TestCargoArguments_OfflineNotDuplicated(t *testing.T) {
	cfg := &Config{CargoArgs: "--offline", Offline: true}

	args, err := cfg.CargoArguments()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(args, []string{"--offline"}) {
		t.Errorf("CargoArguments() = %v", args)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/test")

	path, err := DefaultPath()
	if err != nil {
		t.Skipf("no user config dir on this platform: %v", err)
	}
	if filepath.Base(path) != DefaultConfigName || filepath.Base(filepath.Dir(path)) != AppDirName {
		t.Errorf("DefaultPath() = %q", path)
	}
}
