package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	width := m.width
	if width < 1 {
		width = 96
	}

	listWidth, previewWidth, stacked := m.layoutWidths(width)

	var body string
	if stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderList(listWidth), m.renderPreview(previewWidth))
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(listWidth), m.renderPreview(previewWidth))
	}

	footerWidth := contentWidthForStyle(width, footerStyle)
	footer := footerStyle.Width(footerWidth).Render(m.footerText())

	if m.confirmDelete {
		rec, _ := m.selected()
		modalWidth := contentWidthForStyle(width, modalStyle)
		prompt := fmt.Sprintf("Delete %s and everything in %s?\n- y: delete  n/esc: cancel", rec.Name, rec.Dir())
		return lipgloss.JoinVertical(lipgloss.Left, body, footer, "", modalStyle.Width(modalWidth).Render(prompt))
	}

	if m.showHelp {
		helpWidth := contentWidthForStyle(width, modalStyle)
		help := modalStyle.Width(helpWidth).Render("Help\n- up/down: move cursor\n- r: refresh\n- d: delete project\n- q: quit\n- esc: close help")
		return lipgloss.JoinVertical(lipgloss.Left, body, footer, "", help)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m model) renderList(width int) string {
	if len(m.rows) == 0 {
		return panelStyle.Width(width).Render(mutedStyle.Render("no projects"))
	}
	lines := make([]string, 0, len(m.rows))
	for i, rec := range m.rows {
		item := rec.ID + "  " + rec.Name
		line := "  " + item
		if i == m.cursor {
			line = selectedStyle.Render("> " + item)
		}
		lines = append(lines, line)
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m model) renderPreview(width int) string {
	if m.detailErr != nil {
		return panelStyle.Width(width).Render(warnStyle.Render(m.detailErr.Error()))
	}
	if m.detail == nil {
		return panelStyle.Width(width).Render(mutedStyle.Render("select a project"))
	}

	rec := m.detail.Record
	lines := []string{
		selectedStyle.Render(rec.Name),
		mutedStyle.Render(rec.Dir()),
		"created " + rec.CreatedAt.Local().Format("2006-01-02 15:04"),
	}
	if !m.detail.Exists {
		lines = append(lines, warnStyle.Render("directory missing"))
	}
	lines = append(lines, "")
	for _, c := range m.detail.Components {
		lines = append(lines, fmt.Sprintf("%s  %s  %s", c.Component.Name, techStyle(c.Class.Ecosystem).Render(c.Component.Tech), mutedStyle.Render(c.Disk.String())))
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m model) layoutWidths(totalWidth int) (list int, preview int, stacked bool) {
	frame := styleFrameWidth(panelStyle)
	if totalWidth < (frame*2)+30 {
		content := totalWidth - frame
		if content < 1 {
			content = 1
		}
		return content, content, true
	}

	available := totalWidth - (frame * 2)
	list = available * 2 / 5
	preview = available - list
	return list, preview, false
}

func contentWidthForStyle(totalWidth int, style lipgloss.Style) int {
	content := totalWidth - styleFrameWidth(style)
	if content < 1 {
		return 1
	}
	return content
}

func (m model) footerText() string {
	text := "up/down: move  r: refresh  d: delete  q: quit  ?: help"
	if m.statusMessage == "" {
		return text
	}
	return text + "  |  " + m.statusMessage
}

func styleFrameWidth(style lipgloss.Style) int {
	return lipgloss.Width(style.Width(1).Render("x")) - 1
}
