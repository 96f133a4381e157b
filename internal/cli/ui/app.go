// Package ui is the interactive project browser behind "gardnr status".
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaz8081/gardnr/internal/engine"
)

var newProjectService = NewService

func newRuntimeModel(mgr *engine.Manager) model {
	m := newModel()
	svc := newProjectService(mgr)

	m.listProjects = svc.ListProjects
	m.projectStatus = svc.ProjectStatus
	m.deleteProject = svc.DeleteProject
	m.refreshRows()
	if len(m.rows) == 0 {
		m.statusMessage = "no projects yet; run gardnr create"
	}
	return m
}

// Run opens the browser and blocks until the user quits.
func Run(mgr *engine.Manager) error {
	p := tea.NewProgram(newRuntimeModel(mgr))
	_, err := p.Run()
	return err
}
