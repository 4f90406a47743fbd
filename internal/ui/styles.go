package ui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("99")
	successColor = lipgloss.Color("42")
	failureColor = lipgloss.Color("196")
	mutedColor   = lipgloss.Color("245")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			PaddingLeft(1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	stateStyles = map[string]lipgloss.Style{
		"Initialized": lipgloss.NewStyle().Foreground(successColor).Bold(true),
		"Enabled":     lipgloss.NewStyle().Foreground(primaryColor),
		"Failed":      lipgloss.NewStyle().Foreground(failureColor).Bold(true),
		"Disabled":    mutedStyle,
		"Registered":  mutedStyle,
	}

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(mutedColor).
			PaddingTop(1).
			MarginTop(1)
)

func stateStyle(state string) lipgloss.Style {
	if s, ok := stateStyles[state]; ok {
		return s
	}
	return mutedStyle
}
