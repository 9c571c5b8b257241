// Package journal records synchronization runs as JSON Lines (JSONL) files,
// one per workspace, so an operator can see what a run touched and where it
// stopped.
package journal

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EventType classifies a run event.
type EventType string

const (
	EventRunStart      EventType = "run-start"
	EventConceal       EventType = "conceal"
	EventMemberSynced  EventType = "member-synced"
	EventMemberFailed  EventType = "member-failed"
	EventRestore       EventType = "restore"
	EventRestoreFailed EventType = "restore-failed"
	EventRunEnd        EventType = "run-end"
)

// Event represents a single journal entry.
type Event struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	RunID     string    `json:"runId" yaml:"runId"`
	Type      EventType `json:"type" yaml:"type"`
	Workspace string    `json:"workspace" yaml:"workspace"`
	Member    string    `json:"member,omitempty" yaml:"member,omitempty"`
	Details   string    `json:"details,omitempty" yaml:"details,omitempty"`
}

// Logger writes and reads journal events.
// Events are stored in {dir}/{hash of workspace root}.events.jsonl.
type Logger struct {
	dir string
}

// NewLogger creates a new journal rooted at dir.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir}
}

// eventPath returns the path to the JSONL event log for a workspace.
func (l *Logger) eventPath(workspace string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(workspace)))
	return filepath.Join(l.dir, hex.EncodeToString(sum[:8])+".events.jsonl")
}

// Log appends an event to the workspace's journal.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path := l.eventPath(event.Workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// Events reads all events for a workspace in chronological order.
func (l *Logger) Events(workspace string) ([]Event, error) {
	path := l.eventPath(workspace)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading journal: %w", err)
	}

	return events, nil
}

// Remove deletes the journal for a workspace.
func (l *Logger) Remove(workspace string) error {
	path := l.eventPath(workspace)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Run is the events of one run, in order.
type Run struct {
	ID     string  `json:"id" yaml:"id"`
	Events []Event `json:"events" yaml:"events"`
}

// Started returns the time of the run's first event.
func (r Run) Started() time.Time {
	if len(r.Events) == 0 {
		return time.Time{}
	}
	return r.Events[0].Timestamp
}

// Finished reports whether the run reached its end event.
func (r Run) Finished() bool {
	for _, e := range r.Events {
		if e.Type == EventRunEnd {
			return true
		}
	}
	return false
}

// Runs groups events by run id, keeping first-seen order, and returns at
// most the last limit runs (all when limit <= 0).
func Runs(events []Event, limit int) []Run {
	var runs []Run
	pos := make(map[string]int)
	for _, e := range events {
		i, ok := pos[e.RunID]
		if !ok {
			i = len(runs)
			pos[e.RunID] = i
			runs = append(runs, Run{ID: e.RunID})
		}
		runs[i].Events = append(runs[i].Events, e)
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	return runs
}
