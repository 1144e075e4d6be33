package vcs

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestParsePorcelain(t *testing.T) {
	cases := []struct {
		name string
		out  string
		want FileStatus
	}{
		{"clean", "", StatusClean},
		{"untracked", "?? working/birthday-party/\n", StatusUntracked},
		{"added", "A  working/birthday-party/birthday-party.yml\n", StatusAdded},
		{"modified", " M working/birthday-party/birthday-party.yml\n", StatusModified},
		{"staged modified", "M  working/a.yml\n", StatusModified},
		{"renamed", "R  old -> new\n", StatusModified},
		{"deleted", " D working/a.yml\n", StatusDeleted},
		{"conflict", "UU working/a.yml\n", StatusConflict},
		{"both added", "AA working/a.yml\n", StatusConflict},
		{"garbage", "x", StatusUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParsePorcelain(tc.out); got != tc.want {
				t.Errorf("ParsePorcelain(%q) = %q, want %q", tc.out, got, tc.want)
			}
		})
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// initRepo creates a throwaway repository with one committed file.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init")
	if err := os.WriteFile(filepath.Join(dir, "seed.txt"), []byte("seed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "seed.txt")
	run("commit", "-m", "seed")
	return dir
}

func TestNewOutsideRepository(t *testing.T) {
	requireGit(t)
	// os.TempDir may itself live under a repository in odd setups, so
	// force an isolated HOME-less directory.
	dir := t.TempDir()
	g, err := New(dir, nil)
	if err == nil {
		// Tolerate environments where tmp is inside a repo.
		t.Skipf("temp dir unexpectedly inside a repository at %s", g.Root())
	}
	if err != ErrNotARepository {
		t.Errorf("err = %v, want ErrNotARepository", err)
	}
}

func TestAddAndStatus(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	g, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if st := g.Status("seed.txt"); st != StatusClean {
		t.Errorf("committed file status = %q, want clean", st)
	}

	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if st := g.Status("note.txt"); st != StatusUntracked {
		t.Errorf("new file status = %q, want untracked", st)
	}

	if err := g.Add([]string{path}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if st := g.Status("note.txt"); st != StatusAdded {
		t.Errorf("staged file status = %q, want added", st)
	}
}

func TestAddStagesDeletions(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	g, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "seed.txt")); err != nil {
		t.Fatal(err)
	}
	if err := g.Add([]string{filepath.Join(dir, "seed.txt")}); err != nil {
		t.Fatalf("Add after remove: %v", err)
	}
	if st := g.Status("seed.txt"); st != StatusDeleted {
		t.Errorf("removed file status = %q, want deleted", st)
	}
}
