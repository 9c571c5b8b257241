package conceal

import (
	"fmt"
	"path/filepath"

	"github.com/firefly-engineering/cargo-sync/internal/cargo"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/system"
)

// FindLeftover walks up from dir and returns the first hidden manifest left
// behind by an interrupted run, or "" if there is none.
func FindLeftover(fs system.FileSystem, dir string) string {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, HiddenName)
		if fs.Exists(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// CheckNoLeftover fails if an interrupted run left a hidden manifest on the
// path from dir to the filesystem root. Such a workspace must not be
// resolved: cargo would silently see a different project layout.
func CheckNoLeftover(fs system.FileSystem, dir string) error {
	leftover := FindLeftover(fs, dir)
	if leftover == "" {
		return nil
	}
	return errors.Precondition(fmt.Sprintf(
		"found %s left behind by an interrupted run; the workspace manifest is still hidden. "+
			"Run `cargo-sync restore` (or rename it back to %s) before syncing again",
		leftover, filepath.Join(filepath.Dir(leftover), cargo.ManifestName)))
}

// Restore renames a leftover hidden manifest back to Cargo.toml. It returns
// the restored manifest path, or "" when nothing needed restoring.
func Restore(fs system.FileSystem, dir string) (string, error) {
	hidden := FindLeftover(fs, dir)
	if hidden == "" {
		return "", nil
	}

	manifest := filepath.Join(filepath.Dir(hidden), cargo.ManifestName)
	if fs.Exists(manifest) {
		return "", errors.Precondition(fmt.Sprintf(
			"both %s and %s exist; resolve which one is the workspace manifest by hand", manifest, hidden))
	}

	if err := fs.Rename(hidden, manifest); err != nil {
		return "", errors.Filesystem("failed to restore workspace manifest", err)
	}
	logging.Debug("restored leftover workspace manifest", "path", manifest)
	return manifest, nil
}
