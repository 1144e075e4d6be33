// Package api implements the read-only serve-mode REST API using chi.
package api

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fennhauser/werkbank/internal/project"
	"github.com/fennhauser/werkbank/internal/storage"
)

// Service resolves API queries against the storage engine.
type Service struct {
	store *storage.Storage[*project.Project]
}

// NewService creates a new API service.
func NewService(store *storage.Storage[*project.Project]) *Service {
	return &Service{store: store}
}

// ProjectItem is one record in a list response.
type ProjectItem struct {
	Name      string    `json:"name"`
	Ident     string    `json:"ident"`
	Dir       string    `json:"dir"`
	Prefix    string    `json:"prefix,omitempty"`
	Index     string    `json:"index,omitempty"`
	Year      int       `json:"year,omitempty"`
	Manager   string    `json:"manager,omitempty"`
	Canceled  bool      `json:"canceled"`
	Ready     bool      `json:"ready"`
	GitStatus string    `json:"git_status,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListProjects opens the records selected by dir and optional search
// terms, sorted by record index.
func (s *Service) ListProjects(dir storage.StorageDir, terms []string) ([]ProjectItem, error) {
	projects, err := s.store.OpenProjects(storage.SelectDirAndSearch(dir, terms...))
	if err != nil {
		return nil, err
	}
	projects.SortByIndex()

	items := make([]ProjectItem, 0, len(projects))
	for _, p := range projects {
		items = append(items, toItem(p))
	}
	return items, nil
}

func toItem(p *project.Project) ProjectItem {
	item := ProjectItem{
		Name:     p.Name(),
		Ident:    p.Ident(),
		Dir:      p.Dir(),
		Prefix:   p.Prefix(),
		Manager:  p.Manager(),
		Canceled: p.Canceled(),
		Ready:    p.ReadyForArchive(),
	}
	if idx, ok := p.Index(); ok {
		item.Index = idx
	}
	if year, ok := p.Year(); ok {
		item.Year = year
	}
	if st := p.GitStatus(); st != "" {
		item.GitStatus = string(st)
	}
	if info, err := os.Stat(p.File()); err == nil {
		item.UpdatedAt = info.ModTime()
	}
	return item
}

// Years lists the years with an archive partition.
func (s *Service) Years() ([]int, error) {
	return s.store.ListYears()
}

// Paths returns the configured storage layout.
func (s *Service) Paths() storage.Paths {
	return s.store.Paths()
}

// TemplateNames lists available creation templates. A store without
// templates yields an empty list, not an error.
func (s *Service) TemplateNames() ([]string, error) {
	names, err := s.store.ListTemplateNames()
	if errors.Is(err, storage.ErrTemplateNotFound) {
		return []string{}, nil
	}
	return names, err
}

// ParseDir maps the query-string directory selector onto a StorageDir.
func ParseDir(name string, year int) (storage.StorageDir, error) {
	switch name {
	case "", "working":
		return storage.DirWorking, nil
	case "all":
		return storage.DirAll, nil
	case "archive":
		return storage.DirArchive(year), nil
	case "year":
		return storage.DirYear(year), nil
	default:
		return storage.StorageDir{}, fmt.Errorf("unknown dir %q", name)
	}
}
