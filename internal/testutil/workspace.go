package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/firefly-engineering/cargo-sync/internal/system"
)

const (
	// Root is the root of the fake workspace.
	Root = "/ws"

	MemberA = "/ws/a"
	MemberB = "/ws/b"
)

// FakeWorkspace is an in-memory workspace with simulated git and cargo.
type FakeWorkspace struct {
	FS   *system.MockFS
	Exec *system.MockExecutor

	// Status is what `git status --short` prints.
	Status string

	// Metadata is the workspace-scope cargo output.
	Metadata []byte

	// Pruned maps a member directory to the lockfile the standalone cargo
	// call writes there.
	Pruned map[string][]byte

	// FailIn makes the standalone cargo call fail in this directory.
	FailIn string

	// OnRefresh, when set, runs at each standalone cargo call.
	OnRefresh func(dir string)

	mu        sync.Mutex
	concealed []bool
}

// NewFakeWorkspace creates the two-member workspace with a clean git tree.
// Member a carries a stale lockfile, member b an up-to-date one.
func NewFakeWorkspace(t *testing.T) *FakeWorkspace {
	t.Helper()

	w := &FakeWorkspace{
		FS:       system.NewMockFS(),
		Exec:     system.NewMockExecutor(),
		Metadata: Metadata(),
		Pruned: map[string][]byte{
			MemberA: SyncedMemberLock(),
			MemberB: IndependentMemberLock(),
		},
	}

	w.FS.AddFile(Root+"/.git", nil, 0644)
	w.FS.AddFile(Root+"/Cargo.toml", []byte("[workspace]\nmembers = [\"a\", \"b\"]\n"), 0644)
	w.FS.AddFile(Root+"/Cargo.lock", RootLock(), 0644)
	w.FS.AddFile(MemberA+"/Cargo.toml", []byte("[package]\nname = \"a\"\nversion = \"0.1.0\"\n"), 0644)
	w.FS.AddFile(MemberA+"/Cargo.lock", StaleMemberLock(), 0644)
	w.FS.AddFile(MemberB+"/Cargo.toml", []byte("[package]\nname = \"b\"\nversion = \"0.1.0\"\n"), 0644)
	w.FS.AddFile(MemberB+"/Cargo.lock", IndependentMemberLock(), 0644)

	w.Exec.Handler = w.handle
	return w
}

// Lockfile returns the current lockfile of a member directory.
func (w *FakeWorkspace) Lockfile(dir string) string {
	data, _ := w.FS.GetFile(filepath.Join(dir, "Cargo.lock"))
	return string(data)
}

// Refreshes returns, for each standalone cargo call so far, whether the root
// manifest was concealed at the time.
func (w *FakeWorkspace) Refreshes() []bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]bool(nil), w.concealed...)
}

func (w *FakeWorkspace) handle(cmd system.MockCommand) (system.MockResponse, bool) {
	switch {
	case cmd.Name == "git":
		return system.MockResponse{Output: []byte(w.Status)}, true

	case cmd.Name == "cargo" && len(cmd.Args) > 0 && cmd.Args[0] == "metadata":
		if contains(cmd.Args, "--no-deps") {
			return system.MockResponse{Output: w.Metadata}, true
		}
		return w.refresh(cmd), true
	}
	return system.MockResponse{}, false
}

func (w *FakeWorkspace) refresh(cmd system.MockCommand) system.MockResponse {
	w.mu.Lock()
	w.concealed = append(w.concealed, !w.FS.Exists(Root+"/Cargo.toml"))
	w.mu.Unlock()

	if w.OnRefresh != nil {
		w.OnRefresh(cmd.Dir)
	}

	if cmd.Dir == w.FailIn {
		return system.MockResponse{Err: &system.CommandError{
			Dir:      cmd.Dir,
			Name:     cmd.Name,
			Args:     cmd.Args,
			ExitCode: 101,
			Stderr:   "error: failed to select a version for the requirement `dep = \"^0.9\"`",
		}}
	}

	if data, ok := w.Pruned[cmd.Dir]; ok {
		w.FS.WriteFile(filepath.Join(cmd.Dir, "Cargo.lock"), data, 0644)
	}
	return system.MockResponse{Output: []byte("{}")}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// WriteCargoWorkspace writes a workspace with members a and b under dir,
// where a depends on b by path. It needs no registry access.
func WriteCargoWorkspace(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"Cargo.toml": "[workspace]\nmembers = [\"a\", \"b\"]\nresolver = \"2\"\n",
		"a/Cargo.toml": strings.Join([]string{
			"[package]",
			"name = \"a\"",
			"version = \"0.1.0\"",
			"edition = \"2021\"",
			"",
			"[dependencies]",
			"b = { path = \"../b\" }",
			"",
		}, "\n"),
		"a/src/lib.rs": "pub fn a() -> u32 { b::b() + 1 }\n",
		"b/Cargo.toml": "[package]\nname = \"b\"\nversion = \"0.1.0\"\nedition = \"2021\"\n",
		"b/src/lib.rs": "pub fn b() -> u32 { 1 }\n",
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}
