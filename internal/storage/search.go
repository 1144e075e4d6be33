package storage

import (
	"log/slog"
	"strconv"
	"strings"
)

// SearchProjects opens every record under dir, sorts the set by record
// index, and filters it against term.
//
// A term of the form "N<digits>" is a 1-based position into the sorted
// list; any other term is a case-insensitive substring match. Note that
// this opens all records under dir.
func (s *Storage[R]) SearchProjects(dir StorageDir, term string) (ProjectList[R], error) {
	s.logger.Debug("searching projects",
		slog.String("term", term), slog.String("dir", dir.String()))

	position := parsePositional(term)
	projects, err := s.OpenProjectsDir(dir)
	if err != nil {
		return nil, err
	}
	projects.SortByIndex()

	lowered := strings.ToLower(term)
	var matched ProjectList[R]
	for i, p := range projects {
		if (position > 0 && position == i+1) || p.MatchesSearch(lowered) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// SearchProjectsAny unions SearchProjects over each term, preserving
// per-term order. Results are not deduplicated: a record matching
// several terms appears once per matching term.
func (s *Storage[R]) SearchProjectsAny(dir StorageDir, terms []string) (ProjectList[R], error) {
	var projects ProjectList[R]
	for _, term := range terms {
		found, err := s.SearchProjects(dir, term)
		if err != nil {
			return nil, err
		}
		projects = append(projects, found...)
	}
	return projects, nil
}

// parsePositional parses an "N<digits>" index token. Returns 0 when
// term is not a positional lookup.
func parsePositional(term string) int {
	if !strings.HasPrefix(term, "N") {
		return 0
	}
	n, err := strconv.Atoi(term[1:])
	if err != nil || n < 1 {
		return 0
	}
	return n
}
