package syncer

import (
	"time"

	"github.com/firefly-engineering/cargo-sync/internal/cargo"
	"github.com/firefly-engineering/cargo-sync/internal/lockfile"
)

// RunOptions holds the options of one synchronization run.
type RunOptions struct {
	// StartDir is where the workspace is resolved from
	StartDir string

	// AllowDirty bypasses the working tree check
	AllowDirty bool

	// SortMembers synchronizes members by name instead of cargo's order
	SortMembers bool

	// Packages limits the run to the named members (optional)
	Packages []string
}

// Outcome is the result of synchronizing one member.
type Outcome string

const (
	// OutcomeSynchronized means the member lockfile was rewritten
	OutcomeSynchronized Outcome = "synchronized"

	// OutcomeFailed means copying or resolving failed for this member
	OutcomeFailed Outcome = "failed"

	// OutcomeSkipped means an earlier member failed and this one was not touched
	OutcomeSkipped Outcome = "skipped"
)

// MemberReport is the result for one member.
type MemberReport struct {
	Member  cargo.Member      `json:"member" yaml:"member"`
	Outcome Outcome           `json:"outcome" yaml:"outcome"`
	Error   string            `json:"error,omitempty" yaml:"error,omitempty"`
	Changes []lockfile.Change `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// RunReport summarizes a run.
type RunReport struct {
	RunID        string         `json:"runId" yaml:"runId"`
	Workspace    string         `json:"workspace" yaml:"workspace"`
	StartedAt    time.Time      `json:"startedAt" yaml:"startedAt"`
	Duration     time.Duration  `json:"duration" yaml:"duration"`
	Members      []MemberReport `json:"members" yaml:"members"`
	Error        string         `json:"error,omitempty" yaml:"error,omitempty"`
	RestoreError string         `json:"restoreError,omitempty" yaml:"restoreError,omitempty"`
}

// Count returns the number of members with the given outcome.
func (r *RunReport) Count(outcome Outcome) int {
	n := 0
	for _, m := range r.Members {
		if m.Outcome == outcome {
			n++
		}
	}
	return n
}

// Succeeded reports whether every member was synchronized and the manifest
// was restored.
func (r *RunReport) Succeeded() bool {
	return r.Error == "" && r.RestoreError == "" && r.Count(OutcomeSynchronized) == len(r.Members)
}
