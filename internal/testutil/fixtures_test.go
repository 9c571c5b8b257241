package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/cargo-sync/internal/cargo"
	"github.com/firefly-engineering/cargo-sync/internal/lockfile"
)

func TestFixturesParse(t *testing.T) {
	for _, name := range []string{"root.lock", "a_stale.lock", "a_synced.lock", "b.lock"} {
		t.Run(name, func(t *testing.T) {
			if _, err := lockfile.Parse(MustFixture(name)); err != nil {
				t.Errorf("Parse(%s) error: %v", name, err)
			}
		})
	}

	ws, err := cargo.ParseMetadata(Metadata())
	if err != nil {
		t.Fatalf("ParseMetadata error: %v", err)
	}
	if ws.RootPath != Root || len(ws.Members) != 2 {
		t.Errorf("workspace = %+v", ws)
	}
}

func TestStaleLockDiffersOnlyByChecksum(t *testing.T) {
	before, _ := lockfile.Parse(StaleMemberLock())
	after, _ := lockfile.Parse(SyncedMemberLock())

	changes := lockfile.Diff(before, after)
	if len(changes) != 1 || changes[0].Kind != lockfile.ChangeChecksum || changes[0].Name != "dep" {
		t.Errorf("changes = %+v, want one checksum change for dep", changes)
	}
}

func TestFakeWorkspace_Refresh(t *testing.T) {
	w := NewFakeWorkspace(t)
	cmd := cargo.NewCommand(w.Exec, "cargo", nil)

	if err := cmd.Refresh(context.Background(), cargo.Member{Name: "a", Directory: MemberA}); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if w.Lockfile(MemberA) != string(SyncedMemberLock()) {
		t.Error("refresh should write the pruned lockfile")
	}
	if got := w.Refreshes(); len(got) != 1 || got[0] {
		t.Errorf("Refreshes() = %v, want one call with the manifest visible", got)
	}

	w.FailIn = MemberB
	if err := cmd.Refresh(context.Background(), cargo.Member{Name: "b", Directory: MemberB}); err == nil {
		t.Error("expected failure in FailIn directory")
	}
}

func TestWriteCargoWorkspace(t *testing.T) {
	dir := t.TempDir()
	WriteCargoWorkspace(t, dir)

	for _, name := range []string{"Cargo.toml", "a/Cargo.toml", "b/src/lib.rs"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if len(bytes.TrimSpace(data)) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
