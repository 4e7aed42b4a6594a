package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	user      lipgloss.Style
	assistant lipgloss.Style
	errorMsg  lipgloss.Style
	meta      lipgloss.Style
	badge     lipgloss.Style
	statusOK  lipgloss.Style
	statusBad lipgloss.Style
	bar       lipgloss.Style
	panel     lipgloss.Style
	hint      lipgloss.Style
}

func newTheme() theme {
	return theme{
		user:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		errorMsg:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		badge:     lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("114")).Padding(0, 1),
		statusOK:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		statusBad: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		bar:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		hint: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
