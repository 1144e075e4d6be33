package storage

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// OpenProjects resolves a Selection into an opened record collection.
//
// A search-driven selection with no hits fails with NothingFoundError;
// a search-driven selection without terms opens the whole directory.
// The zero-value Selection never resolves.
func (s *Storage[R]) OpenProjects(sel Selection) (ProjectList[R], error) {
	switch sel.kind {
	case selDirAndSearch:
		if len(sel.terms) == 0 {
			return s.OpenProjectsDir(sel.dir)
		}
		projects, err := s.SearchProjectsAny(sel.dir, sel.terms)
		if err != nil {
			return nil, err
		}
		if len(projects) == 0 {
			return nil, &NothingFoundError{Terms: sel.terms}
		}
		return projects, nil
	case selDir:
		return s.OpenProjectsDir(sel.dir)
	case selPaths:
		return s.openPaths(sel.paths), nil
	default:
		return nil, fmt.Errorf("storage: cannot open uninitialized selection: %w", ErrBadChoice)
	}
}

// OpenProjectsDir opens every record under a StorageDir.
//
// DirYear is the one recursive case: it opens the year's archive
// partition plus the working directory and keeps only records whose
// declared year matches, since the working set need not all belong to
// that year.
func (s *Storage[R]) OpenProjectsDir(dir StorageDir) (ProjectList[R], error) {
	s.logger.Debug("opening projects", slog.String("dir", dir.String()))

	if dir.kind == kindYear {
		archived, err := s.OpenProjectsDir(DirArchive(dir.year))
		if err != nil {
			return nil, err
		}
		working, err := s.OpenProjectsDir(DirWorking)
		if err != nil {
			return nil, err
		}
		return append(archived, working...).FilterByYear(dir.year), nil
	}

	folders, err := s.ListProjectFolders(dir)
	if err != nil {
		return nil, err
	}
	return s.openPaths(folders), nil
}

// OpenWorkingDirProjects opens the whole working set.
func (s *Storage[R]) OpenWorkingDirProjects() (ProjectList[R], error) {
	return s.OpenProjectsDir(DirWorking)
}

// OpenAllArchivedProjects opens every archive partition, keyed and
// ordered by year.
func (s *Storage[R]) OpenAllArchivedProjects() (ProjectsByYear[R], error) {
	years, err := s.ListYears()
	if err != nil {
		return ProjectsByYear[R]{}, err
	}
	grouped := ProjectsByYear[R]{
		Years:  years,
		ByYear: make(map[Year]ProjectList[R], len(years)),
	}
	for _, year := range years {
		projects, err := s.OpenProjectsDir(DirArchive(year))
		if err != nil {
			return ProjectsByYear[R]{}, err
		}
		grouped.ByYear[year] = projects
	}
	return grouped, nil
}

// OpenAllProjects opens the working set and every archive partition.
func (s *Storage[R]) OpenAllProjects() (Projects[R], error) {
	working, err := s.OpenWorkingDirProjects()
	if err != nil {
		return Projects[R]{}, err
	}
	archived, err := s.OpenAllArchivedProjects()
	if err != nil {
		return Projects[R]{}, err
	}
	return Projects[R]{Working: working, Archive: archived}, nil
}

// openPaths opens a batch of candidate paths across the worker pool.
// Opening is best-effort at the batch level: a failing path is logged
// and dropped so one bad record does not abort the rest. Result order
// is unspecified.
//
// When a repository is attached, every opened record is annotated with
// its version-control status in a second pass that neither reorders
// nor drops entries.
func (s *Storage[R]) openPaths(paths []string) ProjectList[R] {
	if len(paths) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		projects = make(ProjectList[R], 0, len(paths))
	)
	open := func(path string) {
		defer wg.Done()
		record, err := s.openProject(path)
		if err != nil {
			s.logger.Warn("storage: skipping unreadable record",
				slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		mu.Lock()
		projects = append(projects, record)
		mu.Unlock()
	}

	pool, err := ants.NewPool(min(s.workers, len(paths)))
	if err != nil {
		// Degrade to sequential opening; the batch must still load.
		s.logger.Warn("storage: worker pool unavailable", slog.String("error", err.Error()))
		for _, path := range paths {
			wg.Add(1)
			open(path)
		}
	} else {
		defer pool.Release()
		for _, path := range paths {
			wg.Add(1)
			if err := pool.Submit(func() { open(path) }); err != nil {
				open(path)
			}
		}
		wg.Wait()
	}

	if s.repo != nil {
		for _, record := range projects {
			record.SetGitStatus(s.repo.Status(record.Dir()))
		}
	}
	return projects
}

// openProject opens a single path: directories through the record
// type's folder routine, files through its file routine.
func (s *Storage[R]) openProject(path string) (R, error) {
	var zero R
	info, err := os.Stat(path)
	if err != nil {
		return zero, err
	}
	if info.IsDir() {
		return s.opener.OpenFolder(path)
	}
	return s.opener.OpenFile(path)
}
