package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/cargo-sync/internal/health"
	"github.com/firefly-engineering/cargo-sync/internal/journal"
	"github.com/firefly-engineering/cargo-sync/internal/lockfile"
	"github.com/firefly-engineering/cargo-sync/internal/syncer"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	changeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(4)
	summaryStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

func outcomeIcon(o syncer.Outcome) string {
	switch o {
	case syncer.OutcomeSynchronized:
		return okStyle.Render("✓")
	case syncer.OutcomeFailed:
		return failStyle.Render("✗")
	default:
		return skipStyle.Render("○")
	}
}

// shortChecksum keeps checksums readable in change lines.
func shortChecksum(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func describeChange(ch lockfile.Change) string {
	var line string
	switch ch.Kind {
	case lockfile.ChangeAdded:
		line = fmt.Sprintf("+ %s %s", ch.Name, ch.To)
	case lockfile.ChangeRemoved:
		line = fmt.Sprintf("- %s %s", ch.Name, ch.From)
	case lockfile.ChangeUpdated:
		line = fmt.Sprintf("~ %s %s → %s", ch.Name, ch.From, ch.To)
	case lockfile.ChangeChecksum:
		line = fmt.Sprintf("~ %s checksum %s → %s", ch.Name, shortChecksum(ch.From), shortChecksum(ch.To))
	default:
		line = fmt.Sprintf("? %s", ch.Name)
	}
	return changeStyle.Render(line)
}

// RenderReport writes a human-readable run report.
func RenderReport(w io.Writer, report *syncer.RunReport) {
	if report == nil {
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Workspace "+report.Workspace))

	for _, m := range report.Members {
		name := m.Member.Name
		if m.Outcome == syncer.OutcomeSkipped {
			name = skipStyle.Render(name + " (skipped)")
		}
		fmt.Fprintf(w, "%s %s\n", outcomeIcon(m.Outcome), name)

		if m.Outcome == syncer.OutcomeSynchronized && len(m.Changes) == 0 {
			fmt.Fprintln(w, changeStyle.Render("up to date"))
		}
		for _, ch := range m.Changes {
			fmt.Fprintln(w, describeChange(ch))
		}
	}

	summary := fmt.Sprintf("%d synchronized, %d failed, %d skipped in %s",
		report.Count(syncer.OutcomeSynchronized),
		report.Count(syncer.OutcomeFailed),
		report.Count(syncer.OutcomeSkipped),
		report.Duration.Round(time.Millisecond))
	fmt.Fprintln(w, summaryStyle.Render(summary))

	if report.RestoreError != "" {
		fmt.Fprintln(w, failStyle.Render("workspace manifest NOT restored: "+report.RestoreError))
	}
}

// RenderHistory writes one block per journaled run, oldest first.
func RenderHistory(w io.Writer, workspace string, runs []journal.Run) {
	if len(runs) == 0 {
		fmt.Fprintf(w, "No runs recorded for %s.\n", workspace)
		return
	}

	fmt.Fprintln(w, titleStyle.Render("History of "+workspace))

	for _, run := range runs {
		status := "ok"
		var synced, failed []string
		for _, e := range run.Events {
			switch e.Type {
			case journal.EventMemberSynced:
				synced = append(synced, e.Member)
			case journal.EventMemberFailed:
				failed = append(failed, e.Member)
			case journal.EventRestoreFailed:
				status = "manifest not restored"
			case journal.EventRunEnd:
				if e.Details != "ok" && status == "ok" {
					status = "failed"
				}
			}
		}
		if !run.Finished() {
			status = "interrupted"
		}
		style := okStyle
		if status != "ok" {
			style = failStyle
		}

		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%s  %s  %s\n", run.Started().Local().Format("2006-01-02 15:04:05"), skipStyle.Render(id), style.Render(status))
		if len(synced) > 0 {
			fmt.Fprintln(w, changeStyle.Render("synchronized: "+strings.Join(synced, ", ")))
		}
		if len(failed) > 0 {
			fmt.Fprintln(w, changeStyle.Render("failed: "+strings.Join(failed, ", ")))
		}
	}
}

// RenderStatus writes the result of a workspace health check.
func RenderStatus(w io.Writer, result *health.CheckResult) {
	status := result.Summary()
	style := failStyle
	if status == health.StatusReady {
		style = okStyle
	}

	if result.Workspace != "" {
		fmt.Fprintln(w, titleStyle.Render("Workspace "+result.Workspace))
	}
	fmt.Fprintf(w, "Status:   %s\n", style.Render(string(status)))

	if result.Leftover != "" {
		fmt.Fprintf(w, "Hidden:   %s (run cargo-sync restore)\n", result.Leftover)
		return
	}
	if len(result.Members) > 0 {
		fmt.Fprintf(w, "Members:  %s\n", strings.Join(result.Members, ", "))
	}
	if result.Workspace != "" {
		vcsName := result.VCS
		if vcsName == "" {
			vcsName = "none"
		}
		tree := "clean"
		if !result.Clean {
			tree = "dirty"
		}
		fmt.Fprintf(w, "VCS:      %s (%s)\n", vcsName, tree)
	}
	if !result.LastRun.IsZero() {
		fmt.Fprintf(w, "Last run: %s ago\n", result.LastRunAgo)
	}
	for _, p := range result.Problems {
		fmt.Fprintln(w, failStyle.Render("✗ "+p))
	}
}
