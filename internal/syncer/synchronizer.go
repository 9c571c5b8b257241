package syncer

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/cargo-sync/internal/cargo"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/journal"
	"github.com/firefly-engineering/cargo-sync/internal/lockfile"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/system"
)

// Synchronizer copies the root lockfile into members and lets cargo prune it.
// The workspace manifest must already be concealed.
type Synchronizer struct {
	fs       system.FileSystem
	cargo    *cargo.Command
	recorder *journal.Recorder
}

// NewSynchronizer creates a Synchronizer. recorder may be nil.
func NewSynchronizer(fs system.FileSystem, cmd *cargo.Command, recorder *journal.Recorder) *Synchronizer {
	return &Synchronizer{fs: fs, cargo: cmd, recorder: recorder}
}

// SyncAll synchronizes members in order and stops at the first failure.
// The returned reports cover every member; those after a failure are skipped.
// Members synchronized before a failure keep their new lockfile.
func (s *Synchronizer) SyncAll(ctx context.Context, ws *cargo.Workspace, members []cargo.Member) ([]MemberReport, error) {
	reports := make([]MemberReport, len(members))
	for i, m := range members {
		reports[i] = MemberReport{Member: m, Outcome: OutcomeSkipped}
	}

	for i, m := range members {
		if err := ctx.Err(); err != nil {
			return reports, errors.Wrap(errors.ExitGeneralError, "synchronization interrupted", err)
		}

		logging.UserInfo("Syncing %s", m.Directory)
		changes, err := s.syncMember(ctx, ws, m)
		if err != nil {
			reports[i].Outcome = OutcomeFailed
			reports[i].Error = err.Error()
			s.recorder.Record(journal.EventMemberFailed, m.Name, err.Error())
			return reports, err
		}

		reports[i].Outcome = OutcomeSynchronized
		reports[i].Changes = changes
		s.recorder.Record(journal.EventMemberSynced, m.Name, fmt.Sprintf("%d changes", len(changes)))
		logging.Debug("member synchronized", "member", m.Name, "changes", len(changes))
	}

	return reports, nil
}

func (s *Synchronizer) syncMember(ctx context.Context, ws *cargo.Workspace, m cargo.Member) ([]lockfile.Change, error) {
	lockPath := m.LockfilePath()
	before := s.loadLock(lockPath)

	if err := s.fs.CopyFile(ws.LockfilePath, lockPath); err != nil {
		return nil, errors.Filesystem(
			fmt.Sprintf("failed to copy %s to workspace member %s", ws.LockfilePath, m.Name), err)
	}

	if err := s.cargo.Refresh(ctx, m); err != nil {
		return nil, err
	}

	return lockfile.Diff(before, s.loadLock(lockPath)), nil
}

// loadLock reads a lockfile for the change report only, so a missing or
// unreadable file is an empty lockfile rather than an error.
func (s *Synchronizer) loadLock(path string) *lockfile.File {
	f, err := lockfile.Load(s.fs, path)
	if err != nil {
		logging.Warn("cannot read lockfile for change report", "path", path, "error", err)
		return nil
	}
	return f
}
