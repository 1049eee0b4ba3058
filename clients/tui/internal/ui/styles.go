package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title   lipgloss.Style
	Error   lipgloss.Style
	Cursor  lipgloss.Style
	Done    lipgloss.Style
	Pending lipgloss.Style
	Muted   lipgloss.Style
	Frame   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		Cursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		Done:    lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#6C7086")),
		Pending: lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Frame:   lipgloss.NewStyle().Padding(1, 2),
	}
}
