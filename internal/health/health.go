package health

import (
	"context"
	"fmt"
	"time"

	"github.com/firefly-engineering/cargo-sync/internal/cargo"
	"github.com/firefly-engineering/cargo-sync/internal/conceal"
	"github.com/firefly-engineering/cargo-sync/internal/journal"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/system"
	"github.com/firefly-engineering/cargo-sync/internal/vcs"
)

// Status represents the readiness of a workspace
type Status string

const (
	StatusReady      Status = "ready"
	StatusDirty      Status = "dirty"
	StatusConcealed  Status = "concealed"
	StatusUnresolved Status = "unresolved"
)

// now is replaced in tests.
var now = time.Now

// CheckResult contains the results of health checks
type CheckResult struct {
	Workspace    string    `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	Leftover     string    `json:"leftover,omitempty" yaml:"leftover,omitempty"`
	Members      []string  `json:"members,omitempty" yaml:"members,omitempty"`
	RootLockfile bool      `json:"rootLockfile" yaml:"rootLockfile"`
	VCS          string    `json:"vcs,omitempty" yaml:"vcs,omitempty"`
	Clean        bool      `json:"clean" yaml:"clean"`
	LastRun      time.Time `json:"lastRun,omitzero" yaml:"lastRun,omitempty"`
	LastRunAgo   string    `json:"lastRunAgo,omitempty" yaml:"lastRunAgo,omitempty"`
	Problems     []string  `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// Summary returns a summary health status.
func (r *CheckResult) Summary() Status {
	switch {
	case r.Leftover != "":
		return StatusConcealed
	case len(r.Problems) > 0:
		return StatusUnresolved
	case !r.Clean:
		return StatusDirty
	default:
		return StatusReady
	}
}

// Checker inspects workspaces.
type Checker struct {
	fs      system.FileSystem
	gate    *vcs.Gate
	cargo   *cargo.Command
	journal *journal.Logger
}

// NewChecker creates a checker. logger may be nil when no journal is kept.
func NewChecker(fs system.FileSystem, exec system.CommandExecutor, cmd *cargo.Command, logger *journal.Logger) *Checker {
	return &Checker{
		fs:      fs,
		gate:    vcs.NewGate(fs, exec),
		cargo:   cmd,
		journal: logger,
	}
}

// Check performs all health checks for the workspace containing dir.
// Checks that depend on an earlier one are skipped when it fails.
func (c *Checker) Check(ctx context.Context, dir string) *CheckResult {
	result := &CheckResult{}

	// cargo cannot see the workspace while its manifest is hidden
	if leftover := conceal.FindLeftover(c.fs, dir); leftover != "" {
		result.Leftover = leftover
		return result
	}

	ws, err := c.cargo.Locate(ctx, dir)
	if err != nil {
		result.Problems = append(result.Problems, err.Error())
		return result
	}
	result.Workspace = ws.RootPath
	result.Members = ws.MemberNames()

	if err := ws.Validate(); err != nil {
		result.Problems = append(result.Problems, err.Error())
	}

	result.RootLockfile = c.fs.Exists(ws.LockfilePath)
	if !result.RootLockfile {
		result.Problems = append(result.Problems, fmt.Sprintf("%s does not exist", ws.LockfilePath))
	}

	if backend := vcs.DetectBackend(c.fs, ws.RootPath); backend != nil {
		result.VCS = backend.Name()
	}
	result.Clean = !c.gate.Dirty(ctx, ws.RootPath)

	result.LastRun = c.lastRun(ws.RootPath)
	if !result.LastRun.IsZero() {
		result.LastRunAgo = formatDuration(now().Sub(result.LastRun))
	}

	return result
}

func (c *Checker) lastRun(root string) time.Time {
	if c.journal == nil {
		return time.Time{}
	}
	events, err := c.journal.Events(root)
	if err != nil {
		logging.Debug("failed to read run journal", "workspace", root, "error", err)
		return time.Time{}
	}
	runs := journal.Runs(events, 1)
	if len(runs) == 0 {
		return time.Time{}
	}
	return runs[0].Started()
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
