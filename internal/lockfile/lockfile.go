// Package lockfile reads Cargo.lock files and compares them, so a run can
// report what it changed in each member.
package lockfile

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/cargo-sync/internal/system"
)

// File is a parsed Cargo.lock.
type File struct {
	Version  int       `toml:"version"`
	Packages []Package `toml:"package"`
}

// Package is one [[package]] entry.
type Package struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Checksum     string   `toml:"checksum"`
	Dependencies []string `toml:"dependencies"`
}

// Parse parses Cargo.lock content.
func Parse(data []byte) (*File, error) {
	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("parsing lockfile: %w", err)
	}
	return &f, nil
}

// Load reads and parses a lockfile. A missing file is returned as a nil
// File with a nil error, since members may not have a lockfile yet.
func Load(fs system.FileSystem, path string) (*File, error) {
	if !fs.Exists(path) {
		return nil, nil
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
