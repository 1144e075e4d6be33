// Package vcs implements the git side-channel for the storage engine.
//
// The engine only ever stages paths after a move or delete and asks for
// the per-file status shown in listings. Repository internals are never
// inspected; everything goes through the git binary.
package vcs

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// FileStatus describes the index state of a single record directory.
type FileStatus string

// Possible file statuses, derived from `git status --porcelain`.
const (
	StatusUnknown   FileStatus = "unknown"
	StatusClean     FileStatus = "clean"
	StatusModified  FileStatus = "modified"
	StatusAdded     FileStatus = "added"
	StatusDeleted   FileStatus = "deleted"
	StatusUntracked FileStatus = "untracked"
	StatusConflict  FileStatus = "conflict"
)

// ErrNotARepository is returned when the storage root is not inside a
// git working tree.
var ErrNotARepository = errors.New("vcs: not a git repository")

// Git wraps a git working tree rooted at or above the storage root.
type Git struct {
	root   string // working tree root reported by git
	logger *slog.Logger
}

// New discovers the git working tree containing path.
func New(path string, logger *slog.Logger) (*Git, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("vcs: resolve path: %w", err)
	}

	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = abs
	out, err := cmd.Output()
	if err != nil {
		return nil, ErrNotARepository
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return nil, ErrNotARepository
	}
	return &Git{root: root, logger: logger}, nil
}

// Root returns the working tree root.
func (g *Git) Root() string {
	return g.root
}

// Add stages the given paths in the index. Paths that no longer exist
// on disk are staged as deletions (git add --all).
func (g *Git) Add(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--all", "--"}, paths...)
	cmd := exec.Command("git", args...)
	cmd.Dir = g.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("vcs: git add failed: %w\n%s", err, strings.TrimSpace(string(out)))
	}
	g.logger.Debug("vcs: staged paths", slog.Int("count", len(paths)))
	return nil
}

// Commit records the current index with the given message.
func (g *Git) Commit(message string) error {
	cmd := exec.Command("git", "commit", "-m", message)
	cmd.Dir = g.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("vcs: git commit failed: %w\n%s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Status returns the index state of path. Failures degrade to
// StatusUnknown; status is an annotation, never a hard dependency.
func (g *Git) Status(path string) FileStatus {
	cmd := exec.Command("git", "status", "--porcelain", "--", path)
	cmd.Dir = g.root
	out, err := cmd.Output()
	if err != nil {
		g.logger.Debug("vcs: status failed", slog.String("path", path), slog.String("error", err.Error()))
		return StatusUnknown
	}
	return ParsePorcelain(string(out))
}

// ParsePorcelain maps `git status --porcelain` output to a FileStatus.
// Empty output means the path is tracked and unchanged.
func ParsePorcelain(out string) FileStatus {
	line := strings.TrimRight(out, "\n")
	if line == "" {
		return StatusClean
	}
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if len(line) < 2 {
		return StatusUnknown
	}
	x, y := line[0], line[1]
	switch {
	case x == '?' || y == '?':
		return StatusUntracked
	case x == 'U' || y == 'U' || (x == 'A' && y == 'A') || (x == 'D' && y == 'D'):
		return StatusConflict
	case x == 'A':
		return StatusAdded
	case x == 'D' || y == 'D':
		return StatusDeleted
	case x == 'M' || y == 'M' || x == 'R' || y == 'R':
		return StatusModified
	}
	return StatusUnknown
}
