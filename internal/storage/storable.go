package storage

import "github.com/fennhauser/werkbank/internal/vcs"

// Storable is the capability set the engine requires from a record.
//
// The engine never looks inside the record file; it only moves, lists
// and matches records through these methods.
type Storable interface {
	// Ident is the record's identity, normally the file stem of its
	// record file.
	Ident() string

	// ShortDesc is a human-readable one-liner for log messages.
	ShortDesc() string

	// Dir is the directory the record currently resides in.
	Dir() string

	// File is the path to the record file inside Dir.
	File() string

	// SetFile repoints the record at a new record file after a copy or
	// move.
	SetFile(path string)

	// Prefix is an optional numeric/alphanumeric sequence tag (for
	// example an invoice number) prepended to the directory name on
	// archiving. Empty means no prefix.
	Prefix() string

	// Year is the year the record belongs to, if it declares one.
	Year() (int, bool)

	// Index is the record's sortable index, if it has one. Records
	// without an index sort last.
	Index() (string, bool)

	// MatchesSearch reports whether the record matches a lowercased
	// free-text term.
	MatchesSearch(term string) bool

	// ReadyForArchive reports whether the record considers itself done.
	ReadyForArchive() bool

	// DeleteDirIf removes the record directory when confirm returns true.
	DeleteDirIf(confirm func() bool) error

	// SetGitStatus attaches the version-control status annotation.
	SetGitStatus(status vcs.FileStatus)
}

// Opener constructs records of a concrete type. The engine holds an
// Opener instead of depending on any concrete record implementation.
type Opener[R Storable] interface {
	// FileExtension is the extension of record files, without the dot.
	FileExtension() string

	// TemplateExtension is the extension of template files, without the dot.
	TemplateExtension() string

	// FromTemplate instantiates a new record from a template file,
	// substituting fill values. The returned record points at a
	// temporary file until the engine copies it into place.
	FromTemplate(name, templatePath string, fill map[string]string) (R, error)

	// OpenFolder opens the record contained in a record directory.
	OpenFolder(path string) (R, error)

	// OpenFile opens a record file directly.
	OpenFile(path string) (R, error)
}

// Repository is the version-control side-channel consumed by the
// engine. Add stages paths after moves and deletes; Status annotates
// opened records.
type Repository interface {
	Add(paths []string) error
	Status(path string) vcs.FileStatus
}
