// Package conceal hides the workspace manifest so that cargo, run inside a
// member directory, resolves that member as a standalone package.
package conceal

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/system"
)

// HiddenName is the file name the workspace manifest is renamed to.
const HiddenName = "_Cargo_sync_temp.toml"

// State is the visibility of the workspace manifest.
type State int

const (
	Visible State = iota
	Hidden
)

func (s State) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "visible"
}

// Strategy selects how standalone resolution is obtained.
type Strategy string

const (
	// StrategyRename hides the workspace manifest for the duration of the run.
	StrategyRename Strategy = "rename"

	// StrategyFlag relies on a cargo flag instead and never touches the manifest.
	StrategyFlag Strategy = "flag"
)

// open guards against a second transaction in the same process.
var (
	openMu sync.Mutex
	open   bool
)

// Transaction is one hide/restore cycle of the workspace manifest.
type Transaction struct {
	fs           system.FileSystem
	strategy     Strategy
	OriginalPath string
	HiddenPath   string
	state        State
}

// HiddenPathFor returns the sentinel path next to manifestPath.
func HiddenPathFor(manifestPath string) string {
	return filepath.Join(filepath.Dir(manifestPath), HiddenName)
}

// Begin hides the manifest at manifestPath. With StrategyFlag nothing is
// renamed but the transaction is still tracked.
func Begin(fs system.FileSystem, manifestPath string, strategy Strategy) (*Transaction, error) {
	openMu.Lock()
	defer openMu.Unlock()
	if open {
		return nil, errors.New(errors.ExitGeneralError, "a manifest concealment transaction is already open")
	}

	tx := &Transaction{
		fs:           fs,
		strategy:     strategy,
		OriginalPath: manifestPath,
		HiddenPath:   HiddenPathFor(manifestPath),
		state:        Visible,
	}

	if strategy == StrategyRename {
		if fs.Exists(tx.HiddenPath) {
			return nil, errors.Filesystem(
				fmt.Sprintf("refusing to hide workspace manifest: %s already exists", tx.HiddenPath), nil)
		}
		if err := fs.Rename(tx.OriginalPath, tx.HiddenPath); err != nil {
			return nil, errors.Filesystem("failed to rename workspace root Cargo.toml", err)
		}
		logging.Debug("workspace manifest hidden", "from", tx.OriginalPath, "to", tx.HiddenPath)
	}

	tx.state = Hidden
	open = true
	return tx, nil
}

// State returns the current visibility of the manifest.
func (t *Transaction) State() State {
	return t.state
}

// End restores the manifest. Calling End on a restored transaction is a no-op.
// If the rename back fails the transaction stays open and End may be retried.
func (t *Transaction) End() error {
	if t.state == Visible {
		return nil
	}

	if t.strategy == StrategyRename {
		if err := t.fs.Rename(t.HiddenPath, t.OriginalPath); err != nil {
			logging.Error("workspace manifest left hidden", "path", t.HiddenPath, "error", err)
			return errors.Filesystem(
				fmt.Sprintf("failed to rename back workspace root Cargo.toml (it is still at %s)", t.HiddenPath), err)
		}
		logging.Debug("workspace manifest restored", "path", t.OriginalPath)
	}

	t.state = Visible
	openMu.Lock()
	open = false
	openMu.Unlock()
	return nil
}

// Forget releases the in-process guard of a transaction whose End failed.
// The hidden manifest stays on disk, where FindLeftover reports it and
// Restore can put it back.
func (t *Transaction) Forget() {
	if t.state == Visible {
		return
	}
	openMu.Lock()
	open = false
	openMu.Unlock()
}
