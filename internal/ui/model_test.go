package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestModelRendersComponentsPluginsAndHistory(t *testing.T) {
	m := NewModel(Snapshot{
		Components: []string{"audit_trail"},
		Plugins:    []PluginStatus{{ID: "reposync", State: "Initialized"}},
		History:    []HistoryEntry{{Kind: "plugin.initialized", Detail: "plugin_id=reposync"}},
	})

	view := m.View()
	require.Contains(t, view, "audit_trail")
	require.Contains(t, view, "reposync")
	require.Contains(t, view, "plugin.initialized")
}

func TestModelUpdateRefreshReplacesSnapshot(t *testing.T) {
	m := NewModel(Snapshot{})
	updated, cmd := m.Update(refreshMsg{snapshot: Snapshot{Components: []string{"ui_bridge"}}})
	require.Nil(t, cmd)

	view := updated.(Model).View()
	require.Contains(t, view, "ui_bridge")
}

func TestModelUpdateQuitMessageQuits(t *testing.T) {
	m := NewModel(Snapshot{})
	_, cmd := m.Update(quitMsg{})
	require.NotNil(t, cmd)

	msg := cmd()
	_, ok := msg.(tea.QuitMsg)
	require.True(t, ok)
}

func TestModelUpdateKeyQQuits(t *testing.T) {
	m := NewModel(Snapshot{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)

	msg := cmd()
	_, ok := msg.(tea.QuitMsg)
	require.True(t, ok)
}
