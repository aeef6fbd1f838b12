package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/episodes/internal/episode"
)

// WriteFile saves the export as FileName inside dir and returns its path.
// The file is written to a temporary name first and renamed into place, so
// a failed export never leaves a truncated file behind.
func WriteFile(dir string, episodes []episode.Episode) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".episodes-*.csv")
	if err != nil {
		return "", fmt.Errorf("export: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, episodes); err != nil {
		tmp.Close()
		return "", fmt.Errorf("export: write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("export: close temp file: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("export: rename: %w", err)
	}
	return path, nil
}
