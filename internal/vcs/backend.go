// Package vcs reports whether a workspace has uncommitted changes, for the
// version control systems cargo-sync knows about.
package vcs

import (
	"path/filepath"

	"github.com/firefly-engineering/cargo-sync/internal/system"
)

// Backend describes how to ask a version control system for a short status
type Backend interface {
	// Name returns the backend name (e.g., "jj", "git")
	Name() string

	// IsRepo checks if path is the top of a repository for this backend
	IsRepo(fs system.FileSystem, path string) bool

	// StatusCommand returns the program and arguments that print a short
	// status of the working copy. Empty output means clean.
	StatusCommand() (string, []string)
}

// GitBackend queries git with `git status --short`
type GitBackend struct{}

// Git returns the git backend
func Git() Backend {
	return &GitBackend{}
}

func (b *GitBackend) Name() string {
	return "git"
}

func (b *GitBackend) IsRepo(fs system.FileSystem, path string) bool {
	// .git can be a directory (normal repo) or a file (worktree)
	return fs.Exists(filepath.Join(path, ".git"))
}

func (b *GitBackend) StatusCommand() (string, []string) {
	return "git", []string{"status", "--short"}
}

// JJBackend queries jj (Jujutsu) for the working-copy change summary
type JJBackend struct{}

// JJ returns the jj backend
func JJ() Backend {
	return &JJBackend{}
}

func (b *JJBackend) Name() string {
	return "jj"
}

func (b *JJBackend) IsRepo(fs system.FileSystem, path string) bool {
	return fs.Exists(filepath.Join(path, ".jj", "repo"))
}

func (b *JJBackend) StatusCommand() (string, []string) {
	return "jj", []string{"diff", "--summary"}
}

// DetectBackend walks up from path and returns the backend of the nearest
// enclosing repository, or nil if there is none.
// Checks jj first at each level (since colocated jj repos also contain .git).
func DetectBackend(fs system.FileSystem, path string) Backend {
	backends := []Backend{JJ(), Git()}

	dir := filepath.Clean(path)
	for {
		for _, b := range backends {
			if b.IsRepo(fs, dir) {
				return b
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}
