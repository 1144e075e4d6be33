package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveRoot interprets the configured base path and storage
// subdirectory name into an absolute root directory.
//
// A leading "~" is substituted with the user's home directory; a path
// that is still relative afterwards is joined onto the current working
// directory. Fails only when the home directory is required but cannot
// be determined.
func ResolveRoot(basePath, storageName string) (string, error) {
	p := filepath.Join(basePath, storageName)

	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: resolve home directory: %w", err)
		}
		p = home + strings.TrimPrefix(p, "~")
	}

	if !filepath.IsAbs(p) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("storage: resolve working directory: %w", err)
		}
		p = filepath.Join(cwd, p)
	}

	return filepath.Clean(p), nil
}

// listDir returns the immediate children of path, excluding hidden
// entries (names beginning with a dot).
func listDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", path, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(path, e.Name()))
	}
	return out, nil
}
