package syncer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/firefly-engineering/cargo-sync/internal/cargo"
	"github.com/firefly-engineering/cargo-sync/internal/conceal"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/journal"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/system"
	"github.com/firefly-engineering/cargo-sync/internal/vcs"
)

// PickFunc lets the caller narrow the members of a run, e.g. interactively.
type PickFunc func(root string, members []cargo.Member) ([]cargo.Member, error)

// Runner drives a full synchronization run.
type Runner struct {
	fs       system.FileSystem
	gate     *vcs.Gate
	cargo    *cargo.Command
	strategy conceal.Strategy
	journal  *journal.Logger
	pick     PickFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithStrategy sets the concealment strategy (rename by default).
func WithStrategy(s conceal.Strategy) Option {
	return func(r *Runner) {
		r.strategy = s
	}
}

// WithJournal records run events to logger.
func WithJournal(logger *journal.Logger) Option {
	return func(r *Runner) {
		r.journal = logger
	}
}

// WithPicker narrows the selected members before concealment.
func WithPicker(pick PickFunc) Option {
	return func(r *Runner) {
		r.pick = pick
	}
}

// NewRunner creates a Runner.
func NewRunner(fs system.FileSystem, gate *vcs.Gate, cmd *cargo.Command, opts ...Option) *Runner {
	r := &Runner{
		fs:       fs,
		gate:     gate,
		cargo:    cmd,
		strategy: conceal.StrategyRename,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one synchronization. Nothing on disk is modified unless
// every precondition holds. Once the manifest is concealed it is always
// restored; a restore failure is reported along with any member failure,
// which stays the primary error.
//
// The report is nil only when the run failed before selecting members.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	startDir := filepath.Clean(opts.StartDir)
	logging.Debug("starting workspace sync", "dir", startDir, "allowDirty", opts.AllowDirty)

	if err := conceal.CheckNoLeftover(r.fs, startDir); err != nil {
		return nil, err
	}

	if err := r.gate.Check(ctx, startDir, opts.AllowDirty); err != nil {
		return nil, err
	}

	ws, err := r.cargo.Resolve(ctx, startDir)
	if err != nil {
		return nil, err
	}
	logging.Debug("workspace resolved", "root", ws.RootPath, "members", ws.MemberNames())

	if err := conceal.CheckNoLeftover(r.fs, ws.RootPath); err != nil {
		return nil, err
	}

	if !r.fs.Exists(ws.LockfilePath) {
		return nil, errors.Precondition(fmt.Sprintf(
			"workspace root has no %s at %s; run `cargo generate-lockfile` first", cargo.LockfileName, ws.LockfilePath))
	}

	members, err := r.selectMembers(ws, opts)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:     uuid.NewString(),
		Workspace: ws.RootPath,
		StartedAt: time.Now(),
	}
	recorder := journal.NewRecorder(r.journal, report.RunID, ws.RootPath)
	recorder.Record(journal.EventRunStart, "", strings.Join(memberNames(members), ","))

	finish := func(err error) (*RunReport, error) {
		report.Duration = time.Since(report.StartedAt)
		outcome := "ok"
		if err != nil {
			outcome = "failed"
		}
		recorder.Record(journal.EventRunEnd, "", outcome)
		return report, err
	}

	tx, err := conceal.Begin(r.fs, ws.ManifestPath, r.strategy)
	if err != nil {
		report.Members = skipped(members)
		report.Error = err.Error()
		return finish(err)
	}
	recorder.Record(journal.EventConceal, "", string(r.strategy))

	reports, loopErr := NewSynchronizer(r.fs, r.cargo, recorder).SyncAll(ctx, ws, members)
	report.Members = reports
	if loopErr != nil {
		report.Error = loopErr.Error()
	}

	restoreErr := tx.End()
	if restoreErr != nil {
		report.RestoreError = restoreErr.Error()
		recorder.Record(journal.EventRestoreFailed, "", restoreErr.Error())
		tx.Forget()
		if loopErr != nil {
			logging.Error("workspace manifest was not restored after a failed sync",
				"hidden", tx.HiddenPath, "error", restoreErr)
		}
	} else {
		recorder.Record(journal.EventRestore, "", "")
	}

	return finish(errors.WithRestoreFailure(loopErr, restoreErr))
}

// selectMembers applies the package filter, ordering and picker.
func (r *Runner) selectMembers(ws *cargo.Workspace, opts RunOptions) ([]cargo.Member, error) {
	members := ws.Members
	if len(opts.Packages) > 0 {
		members = make([]cargo.Member, 0, len(opts.Packages))
		seen := make(map[string]bool)
		for _, name := range opts.Packages {
			if seen[name] {
				continue
			}
			seen[name] = true
			m, ok := ws.Member(name)
			if !ok {
				return nil, errors.Precondition(fmt.Sprintf(
					"package %s is not a member of the workspace (members: %s)",
					name, strings.Join(ws.MemberNames(), ", ")))
			}
			members = append(members, m)
		}
	}

	if opts.SortMembers {
		members = cargo.SortedByName(members)
	}

	if r.pick != nil {
		picked, err := r.pick(ws.RootPath, members)
		if err != nil {
			return nil, err
		}
		members = picked
	}

	if len(members) == 0 {
		return nil, errors.Precondition("no workspace members selected")
	}

	// Hiding the root manifest would hide this member's own manifest too.
	if r.strategy == conceal.StrategyRename {
		for _, m := range members {
			if m.Directory == ws.RootPath {
				return nil, errors.Precondition(fmt.Sprintf(
					"workspace member %s lives in the workspace root, whose manifest is hidden while syncing; "+
						"exclude it with --package or use strategy = \"flag\"", m.Name))
			}
		}
	}
	return members, nil
}

func skipped(members []cargo.Member) []MemberReport {
	reports := make([]MemberReport, len(members))
	for i, m := range members {
		reports[i] = MemberReport{Member: m, Outcome: OutcomeSkipped}
	}
	return reports
}

func memberNames(members []cargo.Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}
