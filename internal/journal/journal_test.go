package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLogger_LogAndEvents(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir)

	now := time.Now().Truncate(time.Millisecond)

	events := []Event{
		{Timestamp: now, RunID: "r1", Type: EventRunStart, Workspace: "/ws", Details: "2 members"},
		{Timestamp: now.Add(time.Second), RunID: "r1", Type: EventConceal, Workspace: "/ws"},
		{Timestamp: now.Add(2 * time.Second), RunID: "r1", Type: EventMemberSynced, Workspace: "/ws", Member: "a"},
		{Timestamp: now.Add(3 * time.Second), RunID: "r1", Type: EventRunEnd, Workspace: "/ws"},
	}

	for _, e := range events {
		if err := logger.Log(e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	result, err := logger.Events("/ws")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	if len(result) != len(events) {
		t.Fatalf("got %d events, want %d", len(result), len(events))
	}

	for i, e := range result {
		if e.Type != events[i].Type {
			t.Errorf("event %d: type = %q, want %q", i, e.Type, events[i].Type)
		}
		if e.Member != events[i].Member {
			t.Errorf("event %d: member = %q, want %q", i, e.Member, events[i].Member)
		}
		if e.Details != events[i].Details {
			t.Errorf("event %d: details = %q, want %q", i, e.Details, events[i].Details)
		}
	}
}

func TestLogger_EventsEmpty(t *testing.T) {
	logger := NewLogger(t.TempDir())

	result, err := logger.Events("/nonexistent")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("got %d events, want 0", len(result))
	}
}

func TestLogger_WorkspacesAreSeparate(t *testing.T) {
	logger := NewLogger(t.TempDir())

	logger.Log(Event{RunID: "r1", Type: EventRunStart, Workspace: "/ws1"})
	logger.Log(Event{RunID: "r2", Type: EventRunStart, Workspace: "/ws2"})
	logger.Log(Event{RunID: "r3", Type: EventRunStart, Workspace: "/ws1/"})

	result, err := logger.Events("/ws1")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("got %d events, want 2", len(result))
	}
	for _, e := range result {
		if e.RunID == "r2" {
			t.Error("event from another workspace leaked in")
		}
	}
}

func TestLogger_SetsTimestamp(t *testing.T) {
	logger := NewLogger(t.TempDir())

	before := time.Now()
	if err := logger.Log(Event{RunID: "r1", Type: EventRunEnd, Workspace: "/ws"}); err != nil {
		t.Fatal(err)
	}

	result, _ := logger.Events("/ws")
	if len(result) != 1 {
		t.Fatalf("got %d events, want 1", len(result))
	}
	if result[0].Timestamp.Before(before.Add(-time.Second)) {
		t.Errorf("timestamp not set: %v", result[0].Timestamp)
	}
}

func TestLogger_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir)

	logger.Log(Event{RunID: "r1", Type: EventRunStart, Workspace: "/ws"})

	f, err := os.OpenFile(logger.eventPath("/ws"), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("not json\n\n")
	f.Close()

	logger.Log(Event{RunID: "r1", Type: EventRunEnd, Workspace: "/ws"})

	result, err := logger.Events("/ws")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("got %d events, want 2", len(result))
	}
}

func TestLogger_Remove(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir)

	logger.Log(Event{RunID: "r1", Type: EventRunStart, Workspace: "/ws"})

	if err := logger.Remove("/ws"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.events.jsonl"))
	if len(matches) != 0 {
		t.Errorf("journal files remain: %v", matches)
	}

	if err := logger.Remove("/ws"); err != nil {
		t.Errorf("Remove of missing journal failed: %v", err)
	}
}

func TestRuns(t *testing.T) {
	events := []Event{
		{RunID: "r1", Type: EventRunStart},
		{RunID: "r1", Type: EventRunEnd},
		{RunID: "r2", Type: EventRunStart},
		{RunID: "r2", Type: EventConceal},
		{RunID: "r3", Type: EventRunStart},
		{RunID: "r3", Type: EventRunEnd},
	}

	runs := Runs(events, 0)
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if !runs[0].Finished() || runs[1].Finished() {
		t.Error("r1 should be finished, r2 should not")
	}
	if len(runs[1].Events) != 2 {
		t.Errorf("r2 has %d events, want 2", len(runs[1].Events))
	}

	last := Runs(events, 2)
	if len(last) != 2 || last[0].ID != "r2" || last[1].ID != "r3" {
		t.Errorf("Runs(limit=2) = %+v", last)
	}
}

func TestRecorder_Nil(t *testing.T) {
	rec := NewRecorder(nil, "r1", "/ws")
	if rec != nil {
		t.Fatal("nil logger should give a nil recorder")
	}
	// must not panic
	rec.Record(EventRunStart, "", "")
}

func TestRecorder_Record(t *testing.T) {
	logger := NewLogger(t.TempDir())
	rec := NewRecorder(logger, "r1", "/ws")

	rec.Record(EventMemberFailed, "b", "cargo exited with status 101")

	result, _ := logger.Events("/ws")
	if len(result) != 1 {
		t.Fatalf("got %d events, want 1", len(result))
	}
	e := result[0]
	if e.RunID != "r1" || e.Member != "b" || e.Type != EventMemberFailed {
		t.Errorf("event = %+v", e)
	}
}
