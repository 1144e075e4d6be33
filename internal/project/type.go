package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fennhauser/werkbank/internal/storage"
)

// Type constructs Project records. It satisfies the storage engine's
// Opener capability.
type Type struct {
	// ProjectExt is the record file extension, without the dot.
	ProjectExt string
	// TemplateExt is the template file extension, without the dot.
	TemplateExt string
}

var _ storage.Opener[*Project] = Type{}

// NewType returns a Type with the default extensions.
func NewType() Type {
	return Type{ProjectExt: "yml", TemplateExt: "tyml"}
}

// FileExtension returns the record file extension.
func (t Type) FileExtension() string { return t.ProjectExt }

// TemplateExtension returns the template file extension.
func (t Type) TemplateExtension() string { return t.TemplateExt }

// FromTemplate instantiates a record from a template file. Every
// "{{key}}" placeholder is substituted from fill; "name" and "date"
// are always available, date defaulting to today. The record points at
// a temporary file until the engine copies it into its directory.
func (t Type) FromTemplate(name, templatePath string, fill map[string]string) (*Project, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("project: read template: %w", err)
	}

	values := map[string]string{
		"name": name,
		"date": time.Now().Format(dateLayout),
	}
	for k, v := range fill {
		values[k] = v
	}
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	content := strings.NewReplacer(pairs...).Replace(string(raw))

	tmp, err := os.CreateTemp("", "werkbank-*."+t.ProjectExt)
	if err != nil {
		return nil, fmt.Errorf("project: create temp file: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("project: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("project: close temp file: %w", err)
	}

	record, err := parse(tmp.Name(), []byte(content))
	if err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	return record, nil
}

// OpenFile opens a record file directly.
func (t Type) OpenFile(path string) (*Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: open %s: %w", path, err)
	}
	return parse(path, raw)
}

// OpenFolder opens the record contained in a record directory: the
// first file carrying the record extension.
func (t Type) OpenFolder(path string) (*Project, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("project: open folder %s: %w", path, err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.TrimPrefix(filepath.Ext(e.Name()), ".") == t.ProjectExt {
			return t.OpenFile(filepath.Join(path, e.Name()))
		}
	}
	return nil, fmt.Errorf("project: no .%s file in %s: %w",
		t.ProjectExt, path, storage.ErrProjectDoesNotExist)
}
