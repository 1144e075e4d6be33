package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type event struct {
	kind string
	path string
}

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	events := make(chan event, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{dir}, slog.Default(), func(kind, path string) {
			events <- event{kind: kind, path: path}
		})
	}()

	// The watcher needs a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(dir, "record.yml")
	if err := os.WriteFile(target, []byte("project:\n  name: X\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.path != target {
			t.Errorf("path = %q, want %q", ev.path, target)
		}
		if ev.kind != "created" && ev.kind != "updated" {
			t.Errorf("kind = %q", ev.kind)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event observed")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatchIgnoresHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	events := make(chan event, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = Watch(ctx, []string{dir}, slog.Default(), func(kind, path string) {
			events <- event{kind: kind, path: path}
		})
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v for hidden file", ev)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchToleratesMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "not-yet")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{missing}, slog.Default(), nil)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
