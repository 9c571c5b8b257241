package vcs

import (
	"context"
	"strings"

	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/system"
)

// DirtyMessage is the diagnostic shown when the gate refuses to proceed.
const DirtyMessage = "Running this command with a dirty working directory is unwise. " +
	"Either commit pending changes (so you can see what changes this program makes) " +
	"or run again with the --allow-dirty flag."

// Gate refuses to let a run proceed on a dirty working tree.
type Gate struct {
	fs   system.FileSystem
	exec system.CommandExecutor
}

// NewGate creates a gate using the given filesystem and executor.
func NewGate(fs system.FileSystem, exec system.CommandExecutor) *Gate {
	return &Gate{fs: fs, exec: exec}
}

// Check returns nil when the run may proceed. The status query only runs
// when allowDirty is false.
func (g *Gate) Check(ctx context.Context, dir string, allowDirty bool) error {
	if allowDirty {
		logging.Debug("skipping working tree check", "dir", dir)
		return nil
	}
	dirty := g.Dirty(ctx, dir)
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ExitGeneralError, "working tree check interrupted", err)
	}
	if dirty {
		return errors.Precondition(DirtyMessage)
	}
	return nil
}

// Dirty reports whether the working tree at dir has uncommitted changes.
// Any failure to get an answer counts as dirty.
func (g *Gate) Dirty(ctx context.Context, dir string) bool {
	backend := DetectBackend(g.fs, dir)
	if backend == nil {
		// Let git produce its own "not a git repository" failure.
		backend = Git()
	}

	name, args := backend.StatusCommand()
	logging.Debug("checking working tree", "backend", backend.Name(), "dir", dir)

	out, err := g.exec.Run(ctx, dir, name, args...)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		logging.UserWarning("failed checking %s working dir: %v", backend.Name(), err)
		return true
	}

	return strings.TrimSpace(string(out)) != ""
}
