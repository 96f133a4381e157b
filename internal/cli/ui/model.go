package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaz8081/gardnr/internal/engine"
	"github.com/chaz8081/gardnr/internal/store"
)

type model struct {
	rows          []store.Record
	cursor        int
	showHelp      bool
	confirmDelete bool
	width         int
	keys          keyMap
	statusMessage string

	detail    *engine.ProjectStatus
	detailErr error

	listProjects  func() []store.Record
	projectStatus func(id string) (*engine.ProjectStatus, error)
	deleteProject func(id string) error
}

func newModel() model {
	return model{
		width: 96,
		keys:  defaultKeyMap(),
	}
}

func (model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.confirmDelete {
			return m, tea.Quit
		}

		if m.confirmDelete {
			switch {
			case key.Matches(msg, m.keys.Confirm):
				m.confirmDelete = false
				m.deleteSelected()
			case key.Matches(msg, m.keys.Cancel):
				m.confirmDelete = false
				m.statusMessage = "delete cancelled"
			}
			return m, nil
		}

		if key.Matches(msg, m.keys.Help) {
			m.showHelp = true
			return m, nil
		}

		if m.showHelp {
			if key.Matches(msg, m.keys.CloseHelp) {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.CursorDown):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.loadDetail()
			}
		case key.Matches(msg, m.keys.CursorUp):
			if m.cursor > 0 {
				m.cursor--
				m.loadDetail()
			}
		case key.Matches(msg, m.keys.Refresh):
			m.refreshRows()
		case key.Matches(msg, m.keys.Delete):
			if _, ok := m.selected(); ok && m.deleteProject != nil {
				m.confirmDelete = true
			}
		}
	}

	return m, nil
}

func (m model) selected() (store.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return store.Record{}, false
	}
	return m.rows[m.cursor], true
}

// refreshRows reloads the project list and keeps the cursor in range.
func (m *model) refreshRows() {
	if m.listProjects == nil {
		return
	}
	m.rows = m.listProjects()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.loadDetail()
}

func (m *model) loadDetail() {
	m.detail, m.detailErr = nil, nil
	rec, ok := m.selected()
	if !ok || m.projectStatus == nil {
		return
	}
	m.detail, m.detailErr = m.projectStatus(rec.ID)
}

func (m *model) deleteSelected() {
	rec, ok := m.selected()
	if !ok {
		return
	}
	if err := m.deleteProject(rec.ID); err != nil {
		m.statusMessage = fmt.Sprintf("delete failed: %v", err)
		return
	}
	m.statusMessage = fmt.Sprintf("deleted %s (%s)", rec.Name, rec.ID)
	m.refreshRows()
}
