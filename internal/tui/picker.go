package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/cargo-sync/internal/cargo"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionConfirm
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action  Action
	Members []cargo.Member
}

// memberItem implements list.Item for member display
type memberItem struct {
	member   cargo.Member
	relDir   string
	selected bool
}

func (i memberItem) Title() string {
	box := "[ ]"
	if i.selected {
		box = "[x]"
	}
	return box + " " + i.member.Name
}

func (i memberItem) Description() string {
	version := i.member.Version
	if version == "" {
		version = "?"
	}
	return fmt.Sprintf("%s | %s", version, truncatePath(i.relDir, 40))
}

func (i memberItem) FilterValue() string {
	return i.member.Name
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the member picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a member picker. root is used to show member
// directories relative to the workspace.
func NewPicker(members []cargo.Member, root string) Model {
	items := make([]list.Item, len(members))
	for i, m := range members {
		rel, err := filepath.Rel(root, m.Directory)
		if err != nil {
			rel = m.Directory
		}
		items[i] = memberItem{member: m, relDir: rel, selected: true}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "cargo-sync - Select Members"
	l.SetShowStatusBar(true)
	// Toggling writes back by index, which must not be a filtered index.
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case " ", "space":
			idx := m.list.Index()
			if item, ok := m.list.SelectedItem().(memberItem); ok {
				item.selected = !item.selected
				return m, m.list.SetItem(idx, item)
			}
			return m, nil

		case "a":
			m.toggleAll()
			return m, nil

		case "enter":
			m.result = PickerResult{Action: ActionConfirm, Members: m.Selected()}
			m.quitting = true
			return m, tea.Quit

		case "q", "esc", "ctrl+c":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleAll selects every member, or clears all when all are selected.
func (m *Model) toggleAll() {
	items := m.list.Items()
	all := len(m.Selected()) == len(items)
	for i, it := range items {
		if item, ok := it.(memberItem); ok {
			item.selected = !all
			items[i] = item
		}
	}
	m.list.SetItems(items)
}

// Selected returns the selected members in list order.
func (m Model) Selected() []cargo.Member {
	var members []cargo.Member
	for _, it := range m.list.Items() {
		if item, ok := it.(memberItem); ok && item.selected {
			members = append(members, item.member)
		}
	}
	return members
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render(fmt.Sprintf("%d selected  [space] Toggle  [a] All  [enter] Sync  [q] Quit", len(m.Selected())))

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive member picker
func RunPicker(members []cargo.Member, root string) (PickerResult, error) {
	if len(members) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(members, root)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// PickMembers runs the picker as a syncer pick hook. Quitting the picker
// aborts the run before anything is modified.
func PickMembers(root string, members []cargo.Member) ([]cargo.Member, error) {
	result, err := RunPicker(members, root)
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "member picker failed", err)
	}
	if result.Action != ActionConfirm {
		return nil, errors.New(errors.ExitGeneralError, "member selection cancelled")
	}
	return result.Members, nil
}
