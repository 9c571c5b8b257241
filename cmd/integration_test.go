package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/cargo-sync/internal/app"
	"github.com/firefly-engineering/cargo-sync/internal/testutil"
)

// These tests run the real cargo and git against a throwaway workspace.
// Set CARGO_SYNC_INTEGRATION_TESTS=1 to enable them.

func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("CARGO_SYNC_INTEGRATION_TESTS") == "" {
		t.Skip("set CARGO_SYNC_INTEGRATION_TESTS=1 to run integration tests")
	}
	for _, bin := range []string{"cargo", "git"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not found in PATH, skipping test", bin)
		}
	}
}

func runIn(t *testing.T, dir, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("%s %s failed: %s: %v", name, strings.Join(args, " "), output, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// setupCargoWorkspace creates a committed workspace whose member a carries
// a lockfile that no longer matches the root one.
func setupCargoWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	testutil.WriteCargoWorkspace(t, dir)
	runIn(t, dir, "cargo", "generate-lockfile", "--offline")

	stale := "# This file is automatically @generated by Cargo.\nversion = 3\n\n[[package]]\nname = \"a\"\nversion = \"0.0.1\"\n"
	if err := os.WriteFile(filepath.Join(dir, "a", "Cargo.lock"), []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}

	runIn(t, dir, "git", "init")
	runIn(t, dir, "git", "config", "user.email", "test@test.com")
	runIn(t, dir, "git", "config", "user.name", "Test User")
	runIn(t, dir, "git", "add", ".")
	runIn(t, dir, "git", "commit", "-m", "Initial commit")

	return dir
}

func TestIntegration_WorkspaceSync(t *testing.T) {
	requireIntegration(t)
	dir := setupCargoWorkspace(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("CARGO", "")

	original := app.Default
	app.SetDefault(app.New())
	t.Cleanup(func() { app.SetDefault(original) })

	manifest := readFile(t, filepath.Join(dir, "Cargo.toml"))

	if _, stderr, err := executeCommand("workspace-sync", "--offline", "--manifest-dir", dir); err != nil {
		t.Fatalf("workspace-sync failed: %v\n%s", err, stderr)
	}

	aLock := readFile(t, filepath.Join(dir, "a", "Cargo.lock"))
	if !strings.Contains(aLock, "name = \"a\"") || !strings.Contains(aLock, "name = \"b\"") {
		t.Errorf("member a lockfile should list a and b:\n%s", aLock)
	}
	if strings.Contains(aLock, "0.0.1") {
		t.Errorf("member a lockfile is still stale:\n%s", aLock)
	}

	bLock := readFile(t, filepath.Join(dir, "b", "Cargo.lock"))
	if !strings.Contains(bLock, "name = \"b\"") || strings.Contains(bLock, "name = \"a\"") {
		t.Errorf("member b lockfile should list only b:\n%s", bLock)
	}

	if got := readFile(t, filepath.Join(dir, "Cargo.toml")); got != manifest {
		t.Errorf("workspace manifest changed:\n%s", got)
	}

	// The first run dirtied the tree, and a second run changes nothing.
	if _, _, err := executeCommand("workspace-sync", "--offline", "--manifest-dir", dir); err == nil {
		t.Error("second run should refuse the dirty tree")
	}
	if _, stderr, err := executeCommand("workspace-sync", "--offline", "--allow-dirty", "--manifest-dir", dir); err != nil {
		t.Fatalf("workspace-sync --allow-dirty failed: %v\n%s", err, stderr)
	}
	if got := readFile(t, filepath.Join(dir, "a", "Cargo.lock")); got != aLock {
		t.Error("second run should leave member a unchanged")
	}
	if got := readFile(t, filepath.Join(dir, "b", "Cargo.lock")); got != bLock {
		t.Error("second run should leave member b unchanged")
	}
}
