// Package project implements the YAML-backed record type managed by
// the storage engine.
//
// A record file looks like:
//
//	project:
//	  name: Birthday Party
//	  manager: Charlie
//	invoice:
//	  number: R007
//	  date: 2024-10-08
//	  payed: 2024-10-20
//	event:
//	  date: 2024-10-08
//	canceled: false
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fennhauser/werkbank/internal/vcs"
)

// ErrNotConfirmed is returned when a confirmation predicate rejects a
// deletion.
var ErrNotConfirmed = errors.New("project: deletion not confirmed")

// dateLayout is the on-disk date format.
const dateLayout = "2006-01-02"

type fileData struct {
	Project struct {
		Name    string `yaml:"name"`
		Manager string `yaml:"manager"`
	} `yaml:"project"`
	Invoice struct {
		Number string `yaml:"number"`
		Date   string `yaml:"date"`
		Payed  string `yaml:"payed"`
	} `yaml:"invoice"`
	Event struct {
		Date string `yaml:"date"`
	} `yaml:"event"`
	Canceled bool `yaml:"canceled"`
}

// Project is one opened record.
type Project struct {
	file      string
	data      fileData
	gitStatus vcs.FileStatus
}

func parse(path string, raw []byte) (*Project, error) {
	var data fileData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("project: parse %s: %w", path, err)
	}
	return &Project{file: path, data: data}, nil
}

// Ident returns the record identity, the file stem of the record file.
func (p *Project) Ident() string {
	base := filepath.Base(p.file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Name returns the human-readable project name, falling back to the
// identity when the file declares none.
func (p *Project) Name() string {
	if p.data.Project.Name != "" {
		return p.data.Project.Name
	}
	return p.Ident()
}

// ShortDesc returns a one-line description for log output.
func (p *Project) ShortDesc() string {
	if year, ok := p.Year(); ok {
		return fmt.Sprintf("%s (%d)", p.Name(), year)
	}
	return p.Name()
}

// Dir returns the directory the record resides in.
func (p *Project) Dir() string { return filepath.Dir(p.file) }

// File returns the path of the record file.
func (p *Project) File() string { return p.file }

// SetFile repoints the record at a new record file.
func (p *Project) SetFile(path string) { p.file = path }

// Manager returns the responsible person, if declared.
func (p *Project) Manager() string { return p.data.Project.Manager }

// Prefix returns the invoice number, used as the archive directory
// prefix. Empty when the project was never invoiced.
func (p *Project) Prefix() string { return p.data.Invoice.Number }

// Index returns the sortable index: the invoice number when present.
func (p *Project) Index() (string, bool) {
	if p.data.Invoice.Number == "" {
		return "", false
	}
	return p.data.Invoice.Number, true
}

// InvoiceDate returns the invoice date, if declared and well-formed.
func (p *Project) InvoiceDate() (time.Time, bool) {
	return parseDate(p.data.Invoice.Date)
}

// EventDate returns the event date, if declared and well-formed.
func (p *Project) EventDate() (time.Time, bool) {
	return parseDate(p.data.Event.Date)
}

// Year infers the year the project belongs to: the invoice date wins
// over the event date.
func (p *Project) Year() (int, bool) {
	if d, ok := p.InvoiceDate(); ok {
		return d.Year(), true
	}
	if d, ok := p.EventDate(); ok {
		return d.Year(), true
	}
	return 0, false
}

// Canceled reports whether the project was canceled.
func (p *Project) Canceled() bool { return p.data.Canceled }

// Payed reports whether the invoice is marked payed.
func (p *Project) Payed() bool {
	_, ok := parseDate(p.data.Invoice.Payed)
	return ok
}

// ReadyForArchive reports whether the project is done: canceled, or
// invoiced and payed.
func (p *Project) ReadyForArchive() bool {
	return p.data.Canceled || p.Payed()
}

// MatchesSearch reports whether the lowercased term occurs in the
// project's name, identity or invoice number.
func (p *Project) MatchesSearch(term string) bool {
	return strings.Contains(strings.ToLower(p.Name()), term) ||
		strings.Contains(strings.ToLower(p.Ident()), term) ||
		strings.Contains(strings.ToLower(p.data.Invoice.Number), term)
}

// DeleteDirIf removes the whole record directory when confirm allows.
func (p *Project) DeleteDirIf(confirm func() bool) error {
	if !confirm() {
		return ErrNotConfirmed
	}
	if err := os.RemoveAll(p.Dir()); err != nil {
		return fmt.Errorf("project: delete %s: %w", p.Dir(), err)
	}
	return nil
}

// SetGitStatus attaches the version-control status annotation.
func (p *Project) SetGitStatus(status vcs.FileStatus) { p.gitStatus = status }

// GitStatus returns the attached status, or StatusUnknown when status
// annotation never ran.
func (p *Project) GitStatus() vcs.FileStatus {
	if p.gitStatus == "" {
		return vcs.StatusUnknown
	}
	return p.gitStatus
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
