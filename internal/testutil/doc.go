// Package testutil provides test fixtures and utilities.
//
// It embeds a two-member workspace (members a and b) as cargo metadata
// output and lockfiles, and builds on it:
//
//	ws := testutil.NewFakeWorkspace(t)
//	runner := syncer.NewRunner(ws.FS, vcs.NewGate(ws.FS, ws.Exec), cargo.NewCommand(ws.Exec, "cargo", nil))
//
// FakeWorkspace keeps the files in a system.MockFS and answers git and
// cargo through a system.MockExecutor. The standalone cargo call writes the
// member's pruned lockfile, as cargo would.
//
// For tests that need the real tools, WriteCargoWorkspace lays out a
// dependency-free workspace on disk.
package testutil
