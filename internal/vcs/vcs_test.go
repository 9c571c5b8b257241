package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	syncerrors "github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/system"
)

// requireGit skips the test if git is not available
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH, skipping test")
	}
}

func setupGitRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)
	tmpDir := t.TempDir()

	cmd := exec.Command("git", "init", tmpDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to init git repo: %s: %v", output, err)
	}

	exec.Command("git", "-C", tmpDir, "config", "user.email", "test@test.com").Run()
	exec.Command("git", "-C", tmpDir, "config", "user.name", "Test User").Run()

	testFile := filepath.Join(tmpDir, "Cargo.toml")
	if err := os.WriteFile(testFile, []byte("[workspace]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	exec.Command("git", "-C", tmpDir, "add", ".").Run()
	cmd = exec.Command("git", "-C", tmpDir, "commit", "-m", "Initial commit")
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to create initial commit: %s: %v", output, err)
	}

	return tmpDir
}

func TestBackend_Interface(t *testing.T) {
	var _ Backend = &GitBackend{}
	var _ Backend = &JJBackend{}
}

func TestBackend_Names(t *testing.T) {
	if Git().Name() != "git" {
		t.Errorf("Git().Name() = %q", Git().Name())
	}
	if JJ().Name() != "jj" {
		t.Errorf("JJ().Name() = %q", JJ().Name())
	}
}

func TestDetectBackend(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		path  string
		want  string
	}{
		{"git at root", []string{"/repo/.git"}, "/repo", "git"},
		{"git worktree file", []string{"/repo/.git"}, "/repo/crates/a", "git"},
		{"jj colocated wins", []string{"/repo/.git", "/repo/.jj/repo"}, "/repo", "jj"},
		{"nearest repo wins", []string{"/outer/.jj/repo", "/outer/inner/.git"}, "/outer/inner/ws", "git"},
		{"no repo", nil, "/plain/dir", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFS := system.NewMockFS()
			for _, f := range tt.files {
				mockFS.AddFile(f, nil, 0644)
			}

			b := DetectBackend(mockFS, tt.path)
			got := ""
			if b != nil {
				got = b.Name()
			}
			if got != tt.want {
				t.Errorf("DetectBackend(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestGate_Check(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		err        error
		allowDirty bool
		wantErr    bool
	}{
		{"clean tree", "", nil, false, false},
		{"whitespace only is clean", "\n", nil, false, false},
		{"dirty tree", " M a/Cargo.lock\n", nil, false, true},
		{"dirty tree allowed", " M a/Cargo.lock\n", nil, true, false},
		{"status failure is dirty", "", errors.New("not a git repository"), false, true},
		{"status failure allowed", "", errors.New("not a git repository"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFS := system.NewMockFS()
			mockFS.AddFile("/ws/.git", nil, 0644)
			mockExec := system.NewMockExecutor()
			mockExec.AddResponse("git status", []byte(tt.output), tt.err)

			err := NewGate(mockFS, mockExec).Check(context.Background(), "/ws", tt.allowDirty)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && syncerrors.GetExitCode(err) != syncerrors.ExitPrecondition {
				t.Errorf("exit code = %d, want %d", syncerrors.GetExitCode(err), syncerrors.ExitPrecondition)
			}
		})
	}
}

func TestGate_CheckInterrupted(t *testing.T) {
	mockFS := system.NewMockFS()
	mockFS.AddFile("/ws/.git", nil, 0644)
	mockExec := system.NewMockExecutor()
	mockExec.AddResponse("git status", nil, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewGate(mockFS, mockExec).Check(ctx, "/ws", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := syncerrors.GetExitCode(err); code != syncerrors.ExitGeneralError {
		t.Errorf("exit code = %d, want %d", code, syncerrors.ExitGeneralError)
	}
	if strings.Contains(err.Error(), "dirty") {
		t.Errorf("an interrupt must not be reported as a dirty tree: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled: %v", err)
	}
}

func TestGate_AllowDirtySkipsStatus(t *testing.T) {
	mockExec := system.NewMockExecutor()

	if err := NewGate(system.NewMockFS(), mockExec).Check(context.Background(), "/ws", true); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(mockExec.Commands) != 0 {
		t.Errorf("expected no commands, got %v", mockExec.Commands)
	}
}

func TestGate_UsesJJInJJRepo(t *testing.T) {
	mockFS := system.NewMockFS()
	mockFS.AddFile("/ws/.jj/repo", nil, 0644)
	mockExec := system.NewMockExecutor()

	NewGate(mockFS, mockExec).Dirty(context.Background(), "/ws")

	cmd, ok := mockExec.LastCommand()
	if !ok {
		t.Fatal("no command recorded")
	}
	if cmd.Name != "jj" || cmd.Dir != "/ws" {
		t.Errorf("command = %+v, want jj in /ws", cmd)
	}
}

func TestGate_RealGit(t *testing.T) {
	repo := setupGitRepo(t)
	gate := NewGate(system.DefaultFS(), system.NewOSExecutor(nil))
	ctx := context.Background()

	if gate.Dirty(ctx, repo) {
		t.Fatal("fresh repo should be clean")
	}

	if err := os.WriteFile(filepath.Join(repo, "Cargo.toml"), []byte("[workspace]\nmembers = []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if !gate.Dirty(ctx, repo) {
		t.Error("modified repo should be dirty")
	}
}

func TestGate_RealGit_NotARepo(t *testing.T) {
	requireGit(t)
	gate := NewGate(system.DefaultFS(), system.NewOSExecutor(nil))

	// git refuses outside a repository, which must count as dirty
	if !gate.Dirty(context.Background(), t.TempDir()) {
		t.Error("non-repository should be treated as dirty")
	}
}
