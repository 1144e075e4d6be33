package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFaultyConfig indicates a required configuration key is missing.
	ErrFaultyConfig = errors.New("storage: faulty config")

	// ErrStoragePathNotAbsolute indicates the storage root resolved to a
	// relative path.
	ErrStoragePathNotAbsolute = errors.New("storage: path is not absolute")

	// ErrInvalidDirStructure indicates the expected directory layout is
	// missing, or an unarchive source fails its structural preconditions.
	ErrInvalidDirStructure = errors.New("storage: invalid directory structure")

	// ErrTemplateNotFound indicates no template file matches the
	// requested name or extension.
	ErrTemplateNotFound = errors.New("storage: template not found")

	// ErrProjectDirExists indicates the target directory of a create is
	// already occupied.
	ErrProjectDirExists = errors.New("storage: project directory already exists")

	// ErrProjectFileExists indicates the target of an unarchive is
	// already occupied.
	ErrProjectFileExists = errors.New("storage: project file already exists")

	// ErrProjectDoesNotExist indicates a lookup or search-driven batch
	// found nothing.
	ErrProjectDoesNotExist = errors.New("storage: project does not exist")

	// ErrNoWorkingDir indicates the working directory was absent at
	// creation time.
	ErrNoWorkingDir = errors.New("storage: working directory does not exist")

	// ErrBadChoice indicates a StorageDir variant unsupported by the
	// called operation.
	ErrBadChoice = errors.New("storage: unsupported directory choice")

	// ErrBadProjectFileName indicates a record file with no valid name stem.
	ErrBadProjectFileName = errors.New("storage: bad project file name")

	// ErrGitProcessFailed indicates version-control staging failed during
	// a deletion.
	ErrGitProcessFailed = errors.New("storage: git process failed")

	// ErrRepoUninitialized indicates a version-control accessor was
	// called with no repository attached.
	ErrRepoUninitialized = errors.New("storage: repository not initialized")

	// ErrNothingFound indicates a search-based selection returned zero
	// records.
	ErrNothingFound = errors.New("storage: nothing found")
)

// FaultyConfigError reports which configuration key was missing.
type FaultyConfigError struct {
	Key string
}

func (e *FaultyConfigError) Error() string {
	return fmt.Sprintf("storage: faulty config: missing key %q", e.Key)
}

func (e *FaultyConfigError) Unwrap() error { return ErrFaultyConfig }

// NothingFoundError carries the search terms that matched nothing.
type NothingFoundError struct {
	Terms []string
}

func (e *NothingFoundError) Error() string {
	return fmt.Sprintf("storage: nothing found for %q", strings.Join(e.Terms, ", "))
}

func (e *NothingFoundError) Unwrap() error { return ErrNothingFound }
