package ui

import (
	"github.com/chaz8081/gardnr/internal/engine"
	"github.com/chaz8081/gardnr/internal/store"
)

// Service is what the browser needs from the project manager.
type Service struct {
	list   func() []store.Record
	status func(id string) (*engine.ProjectStatus, error)
	remove func(id string) error
}

// NewService adapts a manager for the browser.
func NewService(mgr *engine.Manager) *Service {
	return &Service{
		list:   mgr.Store.List,
		status: mgr.Status,
		remove: func(id string) error {
			_, err := mgr.Delete(id)
			return err
		},
	}
}

func (s *Service) ListProjects() []store.Record { return s.list() }

func (s *Service) ProjectStatus(id string) (*engine.ProjectStatus, error) { return s.status(id) }

func (s *Service) DeleteProject(id string) error { return s.remove(id) }
