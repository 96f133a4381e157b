package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/chaz8081/gardnr/internal/tech"
)

var (
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

// ecosystemColors tints component technologies in the detail pane.
var ecosystemColors = map[tech.Ecosystem]lipgloss.Color{
	tech.Python: lipgloss.Color("4"),
	tech.Node:   lipgloss.Color("2"),
	tech.Rust:   lipgloss.Color("1"),
}

func techStyle(eco tech.Ecosystem) lipgloss.Style {
	if c, ok := ecosystemColors[eco]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return mutedStyle
}
