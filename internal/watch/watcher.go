// Package watch observes the record store and reports changes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called for every observed store change.
// kind is one of "created", "updated", "deleted", "moved".
type EventCallback func(kind, path string)

// Watch starts an fsnotify watcher over the given directories (the
// working set and the archive) and reports file changes until ctx is
// cancelled. Hidden entries are ignored. New directories created at
// runtime — freshly created record directories and archive partitions —
// are added to the watch list automatically.
func Watch(ctx context.Context, dirs []string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range dirs {
		if err := addDirsRecursive(w, dir); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.Any("dirs", dirs))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			path := ev.Name
			if hidden(path) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, path); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", path),
							slog.String("error", addErr.Error()))
					}
				}
			}

			switch {
			case ev.Op&fsnotify.Create != 0:
				emit(cb, "created", path)
			case ev.Op&fsnotify.Write != 0:
				emit(cb, "updated", path)
			case ev.Op&fsnotify.Remove != 0:
				emit(cb, "deleted", path)
			case ev.Op&fsnotify.Rename != 0:
				emit(cb, "moved", path)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}

func emit(cb EventCallback, kind, path string) {
	if cb != nil {
		cb(kind, path)
	}
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// addDirsRecursive registers root and all its non-hidden
// subdirectories with the watcher. A missing root is not an error; the
// directory may simply not have been created yet.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return nil
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() || hidden(p) {
			return nil
		}
		return w.Add(p)
	})
}
