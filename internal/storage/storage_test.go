package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fennhauser/werkbank/internal/project"
	"github.com/fennhauser/werkbank/internal/storage"
	"github.com/fennhauser/werkbank/internal/testutil"
)

func TestNewRequiresAbsoluteRoot(t *testing.T) {
	_, err := storage.New("relative/path", project.NewType())
	if !errors.Is(err, storage.ErrStoragePathNotAbsolute) {
		t.Fatalf("err = %v, want ErrStoragePathNotAbsolute", err)
	}
}

func TestCreateDirsIdempotent(t *testing.T) {
	store := testutil.TestStore(t)
	if err := store.CreateDirs(); err != nil {
		t.Fatalf("second CreateDirs: %v", err)
	}
	if err := store.HealthCheck(); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestHealthCheckMissingDir(t *testing.T) {
	store := testutil.TestStore(t)
	if err := os.Remove(store.WorkingDir()); err != nil {
		t.Fatal(err)
	}
	if err := store.HealthCheck(); !errors.Is(err, storage.ErrInvalidDirStructure) {
		t.Fatalf("err = %v, want ErrInvalidDirStructure", err)
	}
}

func TestCreateArchiveIdempotent(t *testing.T) {
	store := testutil.TestStore(t)
	first, err := store.CreateArchive(2024)
	if err != nil {
		t.Fatalf("CreateArchive: %v", err)
	}
	second, err := store.CreateArchive(2024)
	if err != nil {
		t.Fatalf("second CreateArchive: %v", err)
	}
	if first != second {
		t.Errorf("partitions differ: %q vs %q", first, second)
	}
	if filepath.Base(first) != "2024" {
		t.Errorf("partition = %q, want year-named directory", first)
	}
}

func TestCreateProject(t *testing.T) {
	store := testutil.TestStore(t)
	testutil.WriteTemplate(t, store, "default", testutil.DefaultTemplate)

	p, err := store.CreateProject("Birthday Party", "default", nil)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	want := filepath.Join(store.WorkingDir(), "birthday-party", "birthday-party.yml")
	if p.File() != want {
		t.Errorf("file = %q, want %q", p.File(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("record file missing: %v", err)
	}

	opened, err := project.NewType().OpenFile(want)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if opened.Name() != "Birthday Party" {
		t.Errorf("name = %q, want placeholder substituted", opened.Name())
	}
}

func TestCreateProjectConflict(t *testing.T) {
	store := testutil.TestStore(t)
	testutil.WriteTemplate(t, store, "default", testutil.DefaultTemplate)

	if _, err := store.CreateProject("Birthday Party", "default", nil); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	_, err := store.CreateProject("Birthday Party", "default", nil)
	if !errors.Is(err, storage.ErrProjectDirExists) {
		t.Fatalf("err = %v, want ErrProjectDirExists", err)
	}
}

func TestCreateProjectNoWorkingDir(t *testing.T) {
	store, err := storage.New(t.TempDir(), project.NewType())
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.CreateProject("x", "default", nil)
	if !errors.Is(err, storage.ErrNoWorkingDir) {
		t.Fatalf("err = %v, want ErrNoWorkingDir", err)
	}
}

func TestCreateProjectMissingTemplate(t *testing.T) {
	store := testutil.TestStore(t)
	_, err := store.CreateProject("x", "nope", nil)
	if !errors.Is(err, storage.ErrTemplateNotFound) {
		t.Fatalf("err = %v, want ErrTemplateNotFound", err)
	}
}

func TestTemplateNames(t *testing.T) {
	store := testutil.TestStore(t)

	if _, err := store.ListTemplateNames(); !errors.Is(err, storage.ErrTemplateNotFound) {
		t.Fatalf("err = %v, want ErrTemplateNotFound on empty dir", err)
	}

	testutil.WriteTemplate(t, store, "default", testutil.DefaultTemplate)
	testutil.WriteTemplate(t, store, "workshop", testutil.DefaultTemplate)
	// Wrong extension is not a template.
	other := filepath.Join(store.TemplatesDir(), "readme.txt")
	if err := os.WriteFile(other, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := store.ListTemplateNames()
	if err != nil {
		t.Fatalf("ListTemplateNames: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("names = %v, want 2 entries", names)
	}

	if _, err := store.TemplateFile("workshop"); err != nil {
		t.Errorf("TemplateFile(workshop): %v", err)
	}
	if _, err := store.TemplateFile("readme"); !errors.Is(err, storage.ErrTemplateNotFound) {
		t.Errorf("err = %v, want ErrTemplateNotFound for non-template", err)
	}
}

func TestListYearsSorted(t *testing.T) {
	store := testutil.TestStore(t)
	for _, y := range []int{2025, 2019, 2023} {
		if _, err := store.CreateArchive(y); err != nil {
			t.Fatal(err)
		}
	}
	years, err := store.ListYears()
	if err != nil {
		t.Fatalf("ListYears: %v", err)
	}
	want := []int{2019, 2023, 2025}
	if len(years) != len(want) {
		t.Fatalf("years = %v, want %v", years, want)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("years = %v, want %v", years, want)
		}
	}
}

func TestListProjectFoldersMissingPartition(t *testing.T) {
	store := testutil.TestStore(t)
	folders, err := store.ListProjectFolders(storage.DirArchive(1999))
	if err != nil {
		t.Fatalf("ListProjectFolders: %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("folders = %v, want empty for missing partition", folders)
	}
}

func TestListProjectFoldersBadChoice(t *testing.T) {
	store := testutil.TestStore(t)
	if _, err := store.ListProjectFolders(storage.DirTemplates); !errors.Is(err, storage.ErrBadChoice) {
		t.Fatalf("err = %v, want ErrBadChoice", err)
	}
}

func TestListEmptyProjectDirs(t *testing.T) {
	store := testutil.TestStore(t)
	testutil.WriteWorking(t, store, "real", testutil.Record{Name: "Real"})
	empty := filepath.Join(store.WorkingDir(), "husk")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}

	dirs, err := store.ListEmptyProjectDirs(storage.DirWorking)
	if err != nil {
		t.Fatalf("ListEmptyProjectDirs: %v", err)
	}
	if len(dirs) != 1 || dirs[0] != empty {
		t.Errorf("dirs = %v, want [%s]", dirs, empty)
	}
}

func TestProjectDir(t *testing.T) {
	store := testutil.TestStore(t)
	working := testutil.WriteWorking(t, store, "birthday-party", testutil.Record{Name: "Birthday Party"})
	archived := testutil.WriteArchived(t, store, 2024, "workshop", testutil.Record{
		Name:          "Workshop",
		InvoiceNumber: "R001",
		InvoiceDate:   "2024-03-01",
	})

	got, err := store.ProjectDir("Birthday Party", storage.DirWorking)
	if err != nil {
		t.Fatalf("ProjectDir(working): %v", err)
	}
	if got != working {
		t.Errorf("dir = %q, want %q", got, working)
	}

	got, err = store.ProjectDir("workshop", storage.DirArchive(2024))
	if err != nil {
		t.Fatalf("ProjectDir(archive): %v", err)
	}
	if got != archived {
		t.Errorf("dir = %q, want %q", got, archived)
	}

	if _, err := store.ProjectDir("nope", storage.DirWorking); !errors.Is(err, storage.ErrProjectDoesNotExist) {
		t.Errorf("err = %v, want ErrProjectDoesNotExist", err)
	}
	if _, err := store.ProjectDir("x", storage.DirAll); !errors.Is(err, storage.ErrBadChoice) {
		t.Errorf("err = %v, want ErrBadChoice", err)
	}
}

func TestExtras(t *testing.T) {
	store := testutil.TestStore(t)
	if err := os.MkdirAll(store.ExtrasDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(store.ExtrasDir(), "logo.svg")
	if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := store.ListExtraFiles()
	if err != nil {
		t.Fatalf("ListExtraFiles: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("files = %v, want [%s]", files, path)
	}
	if store.ExtraFile("logo.svg") != path {
		t.Errorf("ExtraFile = %q, want %q", store.ExtraFile("logo.svg"), path)
	}
}

func TestGetRepositoryUninitialized(t *testing.T) {
	store := testutil.TestStore(t)
	if _, err := store.GetRepository(); !errors.Is(err, storage.ErrRepoUninitialized) {
		t.Fatalf("err = %v, want ErrRepoUninitialized", err)
	}
}
