package cargo

import (
	"context"
	"encoding/json"
	"fmt"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/system"
)

// ResolutionScope selects how cargo sees the directory it runs in.
type ResolutionScope int

const (
	// ScopeWorkspace resolves the whole workspace without dependencies.
	ScopeWorkspace ResolutionScope = iota

	// ScopeStandalone resolves a single member as its own project, which
	// rewrites that member's lockfile.
	ScopeStandalone
)

func (s ResolutionScope) String() string {
	switch s {
	case ScopeWorkspace:
		return "workspace"
	case ScopeStandalone:
		return "standalone"
	default:
		return fmt.Sprintf("ResolutionScope(%d)", int(s))
	}
}

// metadata is the subset of `cargo metadata --format-version 1` we read.
type metadata struct {
	Packages         []packageMetadata `json:"packages"`
	WorkspaceMembers []string          `json:"workspace_members"`
	WorkspaceRoot    string            `json:"workspace_root"`
}

type packageMetadata struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Version      string `json:"version"`
	ManifestPath string `json:"manifest_path"`
}

// Command runs cargo metadata.
type Command struct {
	exec system.CommandExecutor

	// Cargo is the cargo binary.
	Cargo string

	// Extra is forwarded to every invocation (e.g. --offline).
	Extra []string

	// StandaloneFlag, when set, is appended to standalone-scope invocations.
	StandaloneFlag string
}

// NewCommand creates a metadata command runner.
func NewCommand(exec system.CommandExecutor, cargo string, extra []string) *Command {
	if cargo == "" {
		cargo = "cargo"
	}
	return &Command{exec: exec, Cargo: cargo, Extra: extra}
}

// Args returns the cargo arguments for the given scope.
func (c *Command) Args(scope ResolutionScope) []string {
	args := []string{"metadata", "--format-version", "1"}
	if scope == ScopeWorkspace {
		args = append(args, "--no-deps")
	}
	args = append(args, c.Extra...)
	if scope == ScopeStandalone && c.StandaloneFlag != "" {
		args = append(args, c.StandaloneFlag)
	}
	return args
}

// Run invokes cargo metadata in dir and returns its standard output.
func (c *Command) Run(ctx context.Context, dir string, scope ResolutionScope) ([]byte, error) {
	args := c.Args(scope)
	logging.Debug("running cargo",
		"scope", scope.String(),
		"dir", dir,
		"cmd", shellquote.Join(append([]string{c.Cargo}, args...)...))
	return c.exec.Run(ctx, dir, c.Cargo, args...)
}

// Locate runs the workspace-scope call in dir and builds the descriptor
// without checking it is worth synchronizing.
func (c *Command) Locate(ctx context.Context, dir string) (*Workspace, error) {
	out, err := c.Run(ctx, dir, ScopeWorkspace)
	if err != nil {
		return nil, errors.CollaboratorFailed("cargo metadata failed", err)
	}
	return ParseMetadata(out)
}

// Resolve is Locate plus the invariants a run depends on, such as the
// minimum member count.
func (c *Command) Resolve(ctx context.Context, dir string) (*Workspace, error) {
	ws, err := c.Locate(ctx, dir)
	if err != nil {
		return nil, err
	}

	if err := ws.Validate(); err != nil {
		logging.Debug("workspace rejected", "members", ws.MemberNames())
		return nil, errors.Precondition(err.Error())
	}

	return ws, nil
}

// Refresh runs the standalone-scope call in a member directory. Only its
// side effect on the member lockfile matters.
func (c *Command) Refresh(ctx context.Context, member Member) error {
	if _, err := c.Run(ctx, member.Directory, ScopeStandalone); err != nil {
		return errors.CollaboratorFailed(
			fmt.Sprintf("failed to run cargo metadata in workspace member %s", member.Name), err)
	}
	return nil
}

// ParseMetadata parses workspace-scope metadata output. Members follow the
// order of the packages list, restricted to workspace members.
func ParseMetadata(data []byte) (*Workspace, error) {
	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.MalformedOutput("failed to parse cargo metadata output", err)
	}

	if meta.WorkspaceRoot == "" {
		return nil, errors.MalformedOutput("cargo metadata output has no workspace_root", nil)
	}
	if meta.WorkspaceMembers == nil {
		return nil, errors.MalformedOutput("cargo metadata output has no workspace_members", nil)
	}

	isMember := make(map[string]bool, len(meta.WorkspaceMembers))
	for _, id := range meta.WorkspaceMembers {
		isMember[id] = true
	}

	found := make(map[string]bool, len(meta.WorkspaceMembers))
	var members []Member
	for _, pkg := range meta.Packages {
		if !isMember[pkg.ID] {
			continue
		}
		if pkg.Name == "" {
			return nil, errors.MalformedOutput(fmt.Sprintf("workspace member %s has no name", pkg.ID), nil)
		}
		found[pkg.ID] = true
		members = append(members, Member{
			ID:           pkg.ID,
			Name:         pkg.Name,
			Version:      pkg.Version,
			ManifestPath: pkg.ManifestPath,
		})
	}

	for _, id := range meta.WorkspaceMembers {
		if !found[id] {
			return nil, errors.MalformedOutput(fmt.Sprintf("workspace member %s missing from packages", id), nil)
		}
	}

	ws, err := NewWorkspace(meta.WorkspaceRoot, members)
	if err != nil {
		return nil, errors.MalformedOutput("invalid workspace layout in cargo metadata output", err)
	}
	return ws, nil
}
