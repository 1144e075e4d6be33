package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ArchiveProject moves a record directory from wherever it currently
// resides into archive/<year>. The archived directory is named
// "<prefix>_<ident>" when the record declares a prefix, else "<ident>".
//
// Returns the pair [old path, new path]. The version-control
// side-channel is notified best-effort: a staging failure is logged
// but never rolls back the move.
func (s *Storage[R]) ArchiveProject(project R, year Year) ([]string, error) {
	s.logger.Debug("archiving project",
		slog.String("project", project.ShortDesc()), slog.Int("year", year))

	name := project.Ident()
	if prefix := project.Prefix(); prefix != "" {
		name = prefix + "_" + name
	}

	partition, err := s.CreateArchive(year)
	if err != nil {
		return nil, err
	}
	source := project.Dir()
	target := filepath.Join(partition, name)

	if err := os.Rename(source, target); err != nil {
		return nil, fmt.Errorf("storage: archive %s: %w", project.ShortDesc(), err)
	}
	s.logger.Info("project archived",
		slog.String("project", project.ShortDesc()), slog.String("target", target))

	moved := []string{source, target}
	s.stageAdvisory(moved)
	return moved, nil
}

// ArchiveProjectsIf archives every working record matching any of the
// search terms. The confirmation predicate is evaluated once up front
// and produces a force flag: records not reporting themselves ready are
// archived anyway when forced, otherwise skipped with a warning.
//
// year selects the target partition; pass 0 to use each record's own
// inferred year. Fails with ErrProjectDoesNotExist when the search
// yields no matches at all.
func (s *Storage[R]) ArchiveProjectsIf(terms []string, year Year, confirm func() bool) ([]string, error) {
	projects, err := s.SearchProjectsAny(DirWorking, terms)
	if err != nil {
		return nil, err
	}
	force := confirm()

	if len(projects) == 0 {
		return nil, ErrProjectDoesNotExist
	}

	var moved []string
	for _, project := range projects {
		if force {
			s.logger.Warn("archiving by force", slog.String("project", project.ShortDesc()))
		}
		if !project.ReadyForArchive() && !force {
			s.logger.Warn("project is not ready to be archived",
				slog.String("project", project.ShortDesc()))
			continue
		}
		target := year
		if target == 0 {
			inferred, ok := project.Year()
			if !ok {
				return nil, fmt.Errorf("storage: cannot infer archive year for %q", project.Ident())
			}
			target = inferred
		}
		pair, err := s.ArchiveProject(project, target)
		if err != nil {
			return nil, err
		}
		moved = append(moved, pair...)
	}

	s.stageAdvisory(moved)
	return moved, nil
}

// UnarchiveProject moves an archived record back into the working
// directory and notifies the version-control side-channel.
func (s *Storage[R]) UnarchiveProject(project R) (string, error) {
	old := project.Dir()
	target, err := s.unarchiveDir(old)
	if err != nil {
		return "", err
	}
	s.stageAdvisory([]string{old, target})
	return target, nil
}

// UnarchiveProjectDir moves the record directory at archivedDir back
// into the working directory and notifies the version-control
// side-channel.
func (s *Storage[R]) UnarchiveProjectDir(archivedDir string) (string, error) {
	target, err := s.unarchiveDir(archivedDir)
	if err != nil {
		return "", err
	}
	s.stageAdvisory([]string{archivedDir, target})
	return target, nil
}

// UnarchiveProjects moves every record under archive/<year> matching
// any of the search terms back into the working directory, then
// notifies the side-channel once with the full batch of moved paths.
func (s *Storage[R]) UnarchiveProjects(year Year, terms []string) ([]string, error) {
	projects, err := s.SearchProjectsAny(DirArchive(year), terms)
	if err != nil {
		return nil, err
	}

	var moved []string
	for _, project := range projects {
		s.logger.Info("unarchiving project", slog.String("project", project.ShortDesc()))
		old := project.Dir()
		target, err := s.unarchiveDir(old)
		if err != nil {
			return nil, err
		}
		moved = append(moved, old, target)
	}

	s.stageAdvisory(moved)
	return moved, nil
}

// unarchiveDir performs the validated rename out of the archive.
//
// All three structural preconditions must hold at once: the source is
// a descendant of the archive root, it is not the archive root itself,
// and its parent directory name parses as a year.
func (s *Storage[R]) unarchiveDir(archivedDir string) (string, error) {
	s.logger.Debug("unarchiving directory", slog.String("dir", archivedDir))

	childOfArchive := strings.HasPrefix(archivedDir, s.archive+string(os.PathSeparator))
	archiveItself := filepath.Clean(archivedDir) == filepath.Clean(s.archive)
	_, parentErr := strconv.Atoi(filepath.Base(filepath.Dir(archivedDir)))

	if !childOfArchive || archiveItself || parentErr != nil {
		return "", ErrInvalidDirStructure
	}

	name, err := s.projectName(archivedDir)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.working, name)
	if _, err := os.Stat(target); err == nil {
		return "", ErrProjectFileExists
	}

	if err := os.Rename(archivedDir, target); err != nil {
		return "", fmt.Errorf("storage: unarchive %s: %w", archivedDir, err)
	}
	s.logger.Info("project unarchived",
		slog.String("from", archivedDir), slog.String("to", target))
	return target, nil
}

// DeleteProjectIf removes a record directory once the confirmation
// predicate allows it. With a repository attached the removal must
// also be staged; a staging failure is fatal even though the
// filesystem delete already happened. That asymmetry is deliberate:
// the index must never silently drift from the tree.
func (s *Storage[R]) DeleteProjectIf(project R, confirm func() bool) error {
	s.logger.Debug("deleting project", slog.String("dir", project.Dir()))
	if err := project.DeleteDirIf(confirm); err != nil {
		return err
	}
	if s.repo != nil {
		if err := s.repo.Add([]string{project.Dir()}); err != nil {
			return fmt.Errorf("%w: %v", ErrGitProcessFailed, err)
		}
	}
	return nil
}

// stageAdvisory stages moved paths when a repository is attached.
// Failures are logged, never propagated; staging after a move is
// advisory.
func (s *Storage[R]) stageAdvisory(paths []string) {
	if s.repo == nil || len(paths) == 0 {
		return
	}
	if err := s.repo.Add(paths); err != nil {
		s.logger.Warn("storage: staging moved paths failed", slog.String("error", err.Error()))
	}
}
