package cargo

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// ManifestName is the file name of a package or workspace manifest.
	ManifestName = "Cargo.toml"

	// LockfileName is the file name of a lockfile.
	LockfileName = "Cargo.lock"

	// MinMembers is the smallest workspace worth synchronizing.
	MinMembers = 2
)

// Member is one package of the workspace.
type Member struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
	ManifestPath string `json:"manifestPath" yaml:"manifestPath"`
	Directory    string `json:"directory" yaml:"directory"`
}

// LockfilePath returns the member's own lockfile path.
func (m Member) LockfilePath() string {
	return filepath.Join(m.Directory, LockfileName)
}

// Workspace describes a resolved Cargo workspace.
type Workspace struct {
	RootPath     string
	ManifestPath string
	LockfilePath string
	Members      []Member
}

// NewWorkspace builds a descriptor rooted at root. Member directories are
// the parent of each manifest and must lie inside root.
func NewWorkspace(root string, members []Member) (*Workspace, error) {
	if root == "" {
		return nil, fmt.Errorf("workspace root is empty")
	}
	root = filepath.Clean(root)

	ws := &Workspace{
		RootPath:     root,
		ManifestPath: filepath.Join(root, ManifestName),
		LockfilePath: filepath.Join(root, LockfileName),
		Members:      make([]Member, 0, len(members)),
	}

	for _, m := range members {
		if m.ManifestPath == "" {
			return nil, fmt.Errorf("member %s has no manifest path", m.ID)
		}
		dir, err := memberDirectory(root, m.ManifestPath)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", m.Name, err)
		}
		m.Directory = dir
		ws.Members = append(ws.Members, m)
	}

	return ws, nil
}

// memberDirectory returns the parent of manifestPath as cargo reports it,
// rejecting paths that escape root. Symlinks are kept as they are.
func memberDirectory(root, manifestPath string) (string, error) {
	dir := filepath.Dir(filepath.Clean(manifestPath))

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", fmt.Errorf("manifest %s is not under workspace root %s: %w", manifestPath, root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("manifest %s is outside workspace root %s", manifestPath, root)
	}
	return dir, nil
}

// Validate enforces the invariants a run depends on.
func (w *Workspace) Validate() error {
	if len(w.Members) < MinMembers {
		return fmt.Errorf("no point in running this program without multiple workspace members (found %d)", len(w.Members))
	}
	seen := make(map[string]bool, len(w.Members))
	for _, m := range w.Members {
		if seen[m.ID] {
			return fmt.Errorf("duplicate workspace member id %s", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// Member returns the member with the given package name.
func (w *Workspace) Member(name string) (Member, bool) {
	for _, m := range w.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// MemberNames returns member names in workspace order.
func (w *Workspace) MemberNames() []string {
	names := make([]string, len(w.Members))
	for i, m := range w.Members {
		names[i] = m.Name
	}
	return names
}

// SortedByName returns a copy of members ordered by name, then id.
func SortedByName(members []Member) []Member {
	sorted := make([]Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
