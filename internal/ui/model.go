package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is a read-only bubbletea program: it never issues a command back
// into the kernel, it only renders whatever Snapshot it was last handed.
type Model struct {
	snapshot Snapshot
	history  viewport.Model
	width    int
	height   int
	ready    bool
}

// NewModel constructs the initial model from the first available
// snapshot.
func NewModel(snapshot Snapshot) Model {
	return Model{snapshot: snapshot}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		historyHeight := m.height - m.headerHeight()
		if historyHeight < 1 {
			historyHeight = 1
		}
		if !m.ready {
			m.history = viewport.New(m.width, historyHeight)
			m.ready = true
		} else {
			m.history.Width = m.width
			m.history.Height = historyHeight
		}
		m.history.SetContent(renderHistory(m.snapshot.History))
		return m, nil

	case refreshMsg:
		m.snapshot = msg.snapshot
		if m.ready {
			m.history.SetContent(renderHistory(m.snapshot.History))
		}
		return m, nil

	case quitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) headerHeight() int {
	return 4 + len(m.snapshot.Components) + len(m.snapshot.Plugins)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("kernel host"))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("components"))
	b.WriteString("\n")
	for _, name := range m.snapshot.Components {
		fmt.Fprintf(&b, "  %s\n", name)
	}

	b.WriteString(headerStyle.Render("plugins"))
	b.WriteString("\n")
	for _, p := range m.snapshot.Plugins {
		fmt.Fprintf(&b, "  %-24s %s\n", p.ID, stateStyle(p.State).Render(p.State))
	}

	b.WriteString(headerStyle.Render("recent activity"))
	b.WriteString("\n")
	if m.ready {
		b.WriteString(m.history.View())
	} else {
		b.WriteString(renderHistory(m.snapshot.History))
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("q: quit"))
	return b.String()
}

func renderHistory(entries []HistoryEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("no activity yet")
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-22s %s\n", e.Kind, e.Detail)
	}
	return b.String()
}
