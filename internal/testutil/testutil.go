// Package testutil provides shared test helpers for setting up record
// stores.
package testutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/fennhauser/werkbank/internal/project"
	"github.com/fennhauser/werkbank/internal/storage"
)

// Record describes one test record to place in a store.
type Record struct {
	Name          string
	InvoiceNumber string
	InvoiceDate   string
	Payed         string
	EventDate     string
	Canceled      bool
}

// YAML renders the record file content.
func (r Record) YAML() string {
	out := "project:\n  name: " + r.Name + "\n"
	if r.InvoiceNumber != "" || r.InvoiceDate != "" || r.Payed != "" {
		out += "invoice:\n"
		if r.InvoiceNumber != "" {
			out += "  number: " + r.InvoiceNumber + "\n"
		}
		if r.InvoiceDate != "" {
			out += "  date: " + r.InvoiceDate + "\n"
		}
		if r.Payed != "" {
			out += "  payed: " + r.Payed + "\n"
		}
	}
	if r.EventDate != "" {
		out += "event:\n  date: " + r.EventDate + "\n"
	}
	if r.Canceled {
		out += "canceled: true\n"
	}
	return out
}

// TestStore creates a temporary store with the full directory layout
// and a quiet logger.
func TestStore(t *testing.T, opts ...storage.Option[*project.Project]) *storage.Storage[*project.Project] {
	t.Helper()
	root := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	all := append([]storage.Option[*project.Project]{
		storage.WithLogger[*project.Project](logger),
	}, opts...)
	store, err := storage.New(root, project.NewType(), all...)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.CreateDirs(); err != nil {
		t.Fatal(err)
	}
	return store
}

// WriteWorking places a record into the working directory under a
// directory named by ident, and returns the record directory.
func WriteWorking(t *testing.T, store *storage.Storage[*project.Project], ident string, rec Record) string {
	t.Helper()
	dir := filepath.Join(store.WorkingDir(), ident)
	writeRecord(t, dir, ident, rec)
	return dir
}

// WriteArchived places a record into archive/<year>, optionally with
// an index prefix on the directory name, and returns the record
// directory.
func WriteArchived(t *testing.T, store *storage.Storage[*project.Project], year int, ident string, rec Record) string {
	t.Helper()
	partition := filepath.Join(store.ArchiveDir(), strconv.Itoa(year))
	if err := os.MkdirAll(partition, 0o755); err != nil {
		t.Fatal(err)
	}
	dirName := ident
	if rec.InvoiceNumber != "" {
		dirName = rec.InvoiceNumber + "_" + ident
	}
	dir := filepath.Join(partition, dirName)
	writeRecord(t, dir, ident, rec)
	return dir
}

// WriteTemplate places a template file into the templates directory.
func WriteTemplate(t *testing.T, store *storage.Storage[*project.Project], name, content string) string {
	t.Helper()
	path := filepath.Join(store.TemplatesDir(), name+".tyml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// DefaultTemplate is a minimal template for creation tests.
const DefaultTemplate = "project:\n  name: {{name}}\nevent:\n  date: {{date}}\n"

func writeRecord(t *testing.T, dir, ident string, rec Record) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, fmt.Sprintf("%s.yml", ident))
	if err := os.WriteFile(file, []byte(rec.YAML()), 0o644); err != nil {
		t.Fatal(err)
	}
}
