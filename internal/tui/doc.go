// Package tui provides terminal user interface components for cargo-sync.
//
// # Member Picker
//
// The picker lists the workspace members and lets the user choose which
// ones to synchronize. Every member starts selected:
//
//	result, err := tui.RunPicker(ws.Members, ws.RootPath)
//	switch result.Action {
//	case tui.ActionConfirm:
//	    // Synchronize result.Members
//	case tui.ActionQuit:
//	    // Abort without touching the workspace
//	}
//
// Keys: space toggles the highlighted member, a toggles all, enter
// confirms, q or esc quits.
//
// # Reports
//
// RenderReport and RenderHistory print a run report and the journal of past
// runs with lipgloss styles. Colors are dropped when the output is not a
// terminal.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
