package markers

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// loadDocument reads and parses a centralized backup document.
func loadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, path, err)
	}
	return &doc, nil
}

// loadMigrationDocument reads and parses a migration document.
func loadMigrationDocument(path string) (*MigrationDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	var doc MigrationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, path, err)
	}
	return &doc, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// probeWritable verifies a directory accepts writes by creating and removing
// a throwaway temp file.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDestinationNotWritable, dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

// sidecarPath computes where an episode's sidecar document lives: next to the
// video file, or mirrored under customRoot/<SanitizedSeries>/Season NN/ when
// a custom root is configured.
func sidecarPath(entry Entry, customRoot string) (string, error) {
	if entry.FilePath == "" {
		return "", fmt.Errorf("episode %q has no file path", entry.EpisodeName)
	}
	stem := strings.TrimSuffix(filepath.Base(entry.FilePath), filepath.Ext(entry.FilePath))
	name := stem + SidecarSuffix

	if customRoot == "" {
		return filepath.Join(filepath.Dir(entry.FilePath), name), nil
	}
	seasonDir := fmt.Sprintf("Season %02d", entry.SeasonNumber)
	return filepath.Join(customRoot, sanitizeName(entry.SeriesName), seasonDir, name), nil
}

// writeSidecar persists a single entry next to its media file (or in the
// mirrored custom tree), creating directories as needed.
func writeSidecar(entry Entry, customRoot string) (string, error) {
	path, err := sidecarPath(entry, customRoot)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create sidecar directory: %w", err)
	}
	if err := writeJSON(path, entry); err != nil {
		return "", err
	}
	return path, nil
}

// scanSidecars walks the given roots collecting every parseable sidecar
// entry. Unparseable files are reported through the onError callback and
// skipped; they never abort the scan.
func scanSidecars(roots []string, onError func(path string, err error)) ([]Entry, error) {
	var entries []Entry
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, root)
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, SidecarSuffix) {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				onError(path, err)
				return nil
			}
			var entry Entry
			if err := json.Unmarshal(data, &entry); err != nil {
				onError(path, err)
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}
	return entries, nil
}

// sanitizeName makes a string safe for use as a directory name.
func sanitizeName(name string) string {
	if name == "" {
		return "Unknown"
	}
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*', 0:
			return '_'
		}
		return r
	}, name)
	sanitized = strings.TrimRight(strings.TrimSpace(sanitized), ".")
	if sanitized == "" {
		return "Unknown"
	}
	return sanitized
}
