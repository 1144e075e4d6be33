// Package storage implements the directory-per-record store.
//
// Records live in a fixed layout under an absolute root:
//
//	root/
//	  working/<slug>/<slug>.<ext>        current records
//	  archive/<year>/<[prefix_]slug>/    archived records, by year
//	  templates/*.<template-ext>         creation templates
//	  extras/*                           free-form attachments
//
// The engine is generic over the record type: it consumes records
// exclusively through the Storable capability set and constructs them
// through an Opener. Moves between working and archive are plain
// directory renames; a single controlling process per invocation is
// assumed.
package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// Storage manages the record store rooted at an absolute path.
type Storage[R Storable] struct {
	root      string
	working   string
	archive   string
	templates string
	extras    string

	opener  Opener[R]
	repo    Repository
	logger  *slog.Logger
	workers int
}

// Option configures a Storage.
type Option[R Storable] func(*Storage[R])

// WithRepository attaches a version-control side-channel. Moves and
// deletes are staged in it, and opened records are annotated with
// their status.
func WithRepository[R Storable](repo Repository) Option[R] {
	return func(s *Storage[R]) {
		s.repo = repo
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger[R Storable](logger *slog.Logger) Option[R] {
	return func(s *Storage[R]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers sets the batch-open worker pool size. Default is
// runtime.NumCPU(), minimum 1.
func WithWorkers[R Storable](n int) Option[R] {
	return func(s *Storage[R]) {
		if n >= 1 {
			s.workers = n
		}
	}
}

// WithDirNames overrides the names of the four sub-areas under root.
// Empty names keep their defaults.
func WithDirNames[R Storable](working, archive, templates, extras string) Option[R] {
	return func(s *Storage[R]) {
		if working != "" {
			s.working = filepath.Join(s.root, working)
		}
		if archive != "" {
			s.archive = filepath.Join(s.root, archive)
		}
		if templates != "" {
			s.templates = filepath.Join(s.root, templates)
		}
		if extras != "" {
			s.extras = filepath.Join(s.root, extras)
		}
	}
}

// New creates a Storage rooted at root. The root must be absolute;
// existence is checked separately by HealthCheck.
func New[R Storable](root string, opener Opener[R], opts ...Option[R]) (*Storage[R], error) {
	if !filepath.IsAbs(root) {
		return nil, ErrStoragePathNotAbsolute
	}
	s := &Storage[R]{
		root:      root,
		working:   filepath.Join(root, "working"),
		archive:   filepath.Join(root, "archive"),
		templates: filepath.Join(root, "templates"),
		extras:    filepath.Join(root, "extras"),
		opener:    opener,
		logger:    slog.Default(),
		workers:   max(runtime.NumCPU(), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug("storage initialized", slog.String("root", root))
	return s, nil
}

// Paths is a snapshot of the configured layout.
type Paths struct {
	Storage   string `json:"storage"`
	Working   string `json:"working"`
	Archive   string `json:"archive"`
	Templates string `json:"templates"`
	Extras    string `json:"extras"`
}

// RootDir returns the storage root.
func (s *Storage[R]) RootDir() string { return s.root }

// WorkingDir returns the working directory.
func (s *Storage[R]) WorkingDir() string { return s.working }

// ArchiveDir returns the archive root.
func (s *Storage[R]) ArchiveDir() string { return s.archive }

// TemplatesDir returns the template directory.
func (s *Storage[R]) TemplatesDir() string { return s.templates }

// ExtrasDir returns the extras directory.
func (s *Storage[R]) ExtrasDir() string { return s.extras }

// Paths returns all configured paths of this Storage.
func (s *Storage[R]) Paths() Paths {
	return Paths{
		Storage:   s.root,
		Working:   s.working,
		Archive:   s.archive,
		Templates: s.templates,
		Extras:    s.extras,
	}
}

// Repository returns the attached repository, or nil.
func (s *Storage[R]) Repository() Repository { return s.repo }

// GetRepository returns the attached repository or ErrRepoUninitialized.
func (s *Storage[R]) GetRepository() (Repository, error) {
	if s.repo == nil {
		return nil, ErrRepoUninitialized
	}
	return s.repo, nil
}

// HealthCheck verifies that root, working, archive and template
// directories all exist. Missing directories are logged as warnings and
// the check fails as a whole.
func (s *Storage[R]) HealthCheck() error {
	ok := true
	for _, dir := range []string{s.root, s.working, s.archive, s.templates} {
		if _, err := os.Stat(dir); err != nil {
			s.logger.Warn("storage: directory does not exist", slog.String("path", dir))
			ok = false
		}
	}
	if !ok {
		return ErrInvalidDirStructure
	}
	return nil
}

// CreateDirs creates the basic directory structure under root.
// Directories that already exist are left alone; calling this twice is
// a no-op.
func (s *Storage[R]) CreateDirs() error {
	if !filepath.IsAbs(s.root) {
		return ErrStoragePathNotAbsolute
	}
	for _, dir := range []string{s.root, s.working, s.archive, s.templates} {
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.Mkdir(dir, 0o755); err != nil {
			return fmt.Errorf("storage: create %s: %w", dir, err)
		}
	}
	return nil
}

// CreateArchive creates the archive partition for a year and returns
// its path. Creating an existing partition is a no-op.
func (s *Storage[R]) CreateArchive(year Year) (string, error) {
	partition := filepath.Join(s.archive, strconv.Itoa(year))
	if _, err := os.Stat(s.archive); err != nil {
		return "", fmt.Errorf("storage: archive root missing: %w", ErrInvalidDirStructure)
	}
	if _, err := os.Stat(partition); err == nil {
		return partition, nil
	}
	if err := os.Mkdir(partition, 0o755); err != nil {
		return "", fmt.Errorf("storage: create archive %d: %w", year, err)
	}
	return partition, nil
}

// ListExtraFiles lists the files in the extras directory.
func (s *Storage[R]) ListExtraFiles() ([]string, error) {
	return listDir(s.extras)
}

// ExtraFile returns the path of the extra file with the given name.
func (s *Storage[R]) ExtraFile(name string) string {
	return filepath.Join(s.extras, name)
}

// ListTemplateFiles lists template files, filtered by the template
// extension. Fails with ErrTemplateNotFound when none exist.
func (s *Storage[R]) ListTemplateFiles() ([]string, error) {
	ext := s.opener.TemplateExtension()
	entries, err := listDir(s.templates)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, p := range entries {
		if strings.TrimPrefix(filepath.Ext(p), ".") == ext {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil, ErrTemplateNotFound
	}
	return files, nil
}

// ListTemplateNames lists the names (file stems) of all templates.
func (s *Storage[R]) ListTemplateNames() ([]string, error) {
	files, err := s.ListTemplateFiles()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = stem(f)
	}
	return names, nil
}

// TemplateFile returns the path of the template with the given name.
func (s *Storage[R]) TemplateFile(name string) (string, error) {
	files, err := s.ListTemplateFiles()
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if stem(f) == name {
			return f, nil
		}
	}
	return "", ErrTemplateNotFound
}

// ListArchives lists every archive partition directory.
func (s *Storage[R]) ListArchives() ([]string, error) {
	return listDir(s.archive)
}

// ListYears lists the years for which an archive partition exists, in
// ascending order.
func (s *Storage[R]) ListYears() ([]Year, error) {
	partitions, err := s.ListArchives()
	if err != nil {
		return nil, err
	}
	var years []Year
	for _, p := range partitions {
		if y, err := strconv.Atoi(filepath.Base(p)); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years, nil
}

// CreateProject instantiates a template into a new record directory in
// the working set. The directory is named by the slugified record name
// and receives a copy of the instantiated record file.
func (s *Storage[R]) CreateProject(name, templateName string, fill map[string]string) (R, error) {
	var zero R
	s.logger.Debug("creating project",
		slog.String("name", name), slog.String("template", templateName))

	if _, err := os.Stat(s.working); err != nil {
		return zero, ErrNoWorkingDir
	}
	slugged := slug.Make(name)
	projectDir := filepath.Join(s.working, slugged)
	if _, err := os.Stat(projectDir); err == nil {
		return zero, ErrProjectDirExists
	}

	templatePath, err := s.TemplateFile(templateName)
	if err != nil {
		return zero, err
	}
	record, err := s.opener.FromTemplate(name, templatePath, fill)
	if err != nil {
		return zero, err
	}

	targetFile := filepath.Join(projectDir, slugged+"."+s.opener.FileExtension())
	if err := os.Mkdir(projectDir, 0o755); err != nil {
		return zero, fmt.Errorf("storage: create project dir: %w", err)
	}
	if err := copyFile(record.File(), targetFile); err != nil {
		return zero, err
	}
	record.SetFile(targetFile)
	s.logger.Info("project created",
		slog.String("name", name), slog.String("dir", projectDir))
	return record, nil
}

// ProjectDir locates the directory of a record by name. Only the
// working directory and a single archive partition can be addressed;
// anything else is ErrBadChoice.
func (s *Storage[R]) ProjectDir(name string, dir StorageDir) (string, error) {
	slugged := slug.Make(name)
	switch dir.kind {
	case kindWorking:
		path := filepath.Join(s.working, slugged)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", ErrProjectDoesNotExist
	case kindArchive:
		return s.projectDirFromArchive(slugged, dir.year)
	default:
		return "", ErrBadChoice
	}
}

func (s *Storage[R]) projectDirFromArchive(slugged string, year Year) (string, error) {
	files, err := s.ListProjectFiles(DirArchive(year))
	if err != nil {
		return "", err
	}
	want := slugged + "." + s.opener.FileExtension()
	for _, f := range files {
		if filepath.Base(f) == want {
			return filepath.Dir(f), nil
		}
	}
	return "", ErrProjectDoesNotExist
}

// ProjectFilePath locates the record file inside a record directory:
// the first file carrying the record extension. A directory without
// one is not a valid record.
func (s *Storage[R]) ProjectFilePath(dir string) (string, error) {
	entries, err := listDir(dir)
	if err != nil {
		return "", err
	}
	ext := s.opener.FileExtension()
	for _, p := range entries {
		if strings.TrimPrefix(filepath.Ext(p), ".") == ext {
			return p, nil
		}
	}
	return "", ErrProjectDoesNotExist
}

// projectName derives the record name from the record file stem.
func (s *Storage[R]) projectName(dir string) (string, error) {
	file, err := s.ProjectFilePath(dir)
	if err != nil {
		return "", err
	}
	name := stem(file)
	if name == "" {
		return "", ErrBadProjectFileName
	}
	return name, nil
}

// ListProjectFolders enumerates record directories under the given
// StorageDir. For DirAll this is the union of every archive partition
// plus the working directory.
func (s *Storage[R]) ListProjectFolders(dir StorageDir) ([]string, error) {
	switch dir.kind {
	case kindWorking:
		return listDir(s.working)
	case kindArchive:
		// A missing partition is an empty partition.
		folders, err := listDir(filepath.Join(s.archive, strconv.Itoa(dir.year)))
		if err != nil {
			return nil, nil
		}
		return folders, nil
	case kindAll:
		years, err := s.ListYears()
		if err != nil {
			return nil, err
		}
		var all []string
		for _, y := range years {
			folders, err := listDir(filepath.Join(s.archive, strconv.Itoa(y)))
			if err != nil {
				return nil, err
			}
			all = append(all, folders...)
		}
		working, err := listDir(s.working)
		if err != nil {
			return nil, err
		}
		return append(all, working...), nil
	default:
		return nil, ErrBadChoice
	}
}

// ListEmptyProjectDirs lists record directories without a record file.
func (s *Storage[R]) ListEmptyProjectDirs(dir StorageDir) ([]string, error) {
	folders, err := s.ListProjectFolders(dir)
	if err != nil {
		return nil, err
	}
	var empty []string
	for _, folder := range folders {
		if _, err := s.ProjectFilePath(folder); err != nil {
			empty = append(empty, folder)
		}
	}
	return empty, nil
}

// ListProjectFiles lists the record file of every record directory
// under dir. A directory without a record file fails the listing.
func (s *Storage[R]) ListProjectFiles(dir StorageDir) ([]string, error) {
	folders, err := s.ListProjectFolders(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(folders))
	for _, folder := range folders {
		file, err := s.ProjectFilePath(folder)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// FilterProjectFiles lists record files under dir that pass the filter.
// Directories without a record file are skipped.
func (s *Storage[R]) FilterProjectFiles(dir StorageDir, keep func(path string) bool) ([]string, error) {
	folders, err := s.ListProjectFolders(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, folder := range folders {
		file, err := s.ProjectFilePath(folder)
		if err != nil {
			continue
		}
		if keep(file) {
			files = append(files, file)
		}
	}
	return files, nil
}

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("storage: open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", dst, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("storage: copy to %s: %w", dst, err)
	}
	return out.Sync()
}
