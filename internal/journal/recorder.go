package journal

import (
	"github.com/firefly-engineering/cargo-sync/internal/logging"
)

// Recorder logs the events of a single run. A nil *Recorder discards
// everything, and write failures are only logged: the journal must never
// change the outcome of a run.
type Recorder struct {
	logger    *Logger
	runID     string
	workspace string
}

// NewRecorder returns a recorder for one run. A nil logger gives a nil recorder.
func NewRecorder(logger *Logger, runID, workspace string) *Recorder {
	if logger == nil {
		return nil
	}
	return &Recorder{logger: logger, runID: runID, workspace: workspace}
}

// Record appends one event for the run.
func (r *Recorder) Record(eventType EventType, member, details string) {
	if r == nil {
		return
	}
	err := r.logger.Log(Event{
		RunID:     r.runID,
		Type:      eventType,
		Workspace: r.workspace,
		Member:    member,
		Details:   details,
	})
	if err != nil {
		logging.Warn("failed to write journal", "error", err)
	}
}
