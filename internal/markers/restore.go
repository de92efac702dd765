package markers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vmunix/metaport/internal/progress"
)

// RestoreOptions selects the restore source and write behavior. Exactly one
// of DocumentPath or ScanRoots must be set.
type RestoreOptions struct {
	// DocumentPath is a centralized backup document.
	DocumentPath string
	// ScanRoots are folders searched recursively for *.intro.json sidecars.
	ScanRoots []string
	// OverwriteExisting applies markers even to episodes that already have
	// marker chapters.
	OverwriteExisting bool
	// Match controls the resolution cascade.
	Match MatchOptions
}

// RestoreResult is the terminal outcome of one restore run. Unresolved
// entries are counted, never fatal.
type RestoreResult struct {
	Success       bool
	Cancelled     bool
	Message       string
	ItemsRestored int
	ItemsSkipped  int
	ItemsNotFound int
	Errors        []string
}

// Restore loads entries from the source, resolves each against the catalog,
// and writes the merged chapter lists back. Only a missing source or a
// corrupt top-level document is a hard failure.
func (s *Service) Restore(ctx context.Context, opts RestoreOptions) (*RestoreResult, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	s.tracker.Begin("restore", 0)
	defer s.tracker.Finish("Restore complete")

	entries, err := s.loadRestoreEntries(opts)
	if err != nil {
		return nil, err
	}
	s.tracker.SetTotal(len(entries))
	s.log.Info("marker restore started", "entries", len(entries), "overwrite", opts.OverwriteExisting)

	result := &RestoreResult{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			s.tracker.Finish("Restore cancelled")
			result.Cancelled = true
			result.Message = "Restore cancelled"
			return result, nil
		}

		label := fmt.Sprintf("%s S%02dE%02d", entry.SeriesName, entry.SeasonNumber, entry.EpisodeNumber)
		s.tracker.Advance(progress.Delta{Processed: 1, CurrentItem: label})

		episode, err := s.resolver.Resolve(entry, opts.Match)
		if err != nil {
			if errors.Is(err, ErrEpisodeNotFound) {
				result.ItemsNotFound++
				s.tracker.Advance(progress.Delta{Failed: 1})
				s.tracker.Log("Episode not found: %s", label)
				continue
			}
			return nil, fmt.Errorf("resolve %s: %w", label, err)
		}

		chapters, err := s.catalog.Chapters(episode.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("read chapters for %s: %v", label, err))
			s.tracker.Advance(progress.Delta{Failed: 1})
			continue
		}

		merged, outcome := ApplyMarkers(chapters, entry, opts.OverwriteExisting, s.log)
		if outcome == SkippedHasExisting {
			result.ItemsSkipped++
			s.tracker.Advance(progress.Delta{Skipped: 1})
			s.tracker.Log("Skipping %s - already has intro markers", label)
			continue
		}

		if err := s.catalog.SaveChapters(episode.ID, merged); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("save chapters for %s: %v", label, err))
			s.tracker.Advance(progress.Delta{Failed: 1})
			continue
		}

		result.ItemsRestored++
		s.tracker.Advance(progress.Delta{Succeeded: 1})
		s.tracker.Log("Restored %d markers for %s", len(entry.Markers), label)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Restore complete: %d restored, %d skipped, %d not found",
		result.ItemsRestored, result.ItemsSkipped, result.ItemsNotFound)
	s.tracker.Log("%s", result.Message)
	s.log.Info("marker restore finished",
		"restored", result.ItemsRestored, "skipped", result.ItemsSkipped, "not_found", result.ItemsNotFound)
	return result, nil
}

// loadRestoreEntries pools entries from the centralized document or a
// sidecar scan, depending on the source mode.
func (s *Service) loadRestoreEntries(opts RestoreOptions) ([]Entry, error) {
	centralized := opts.DocumentPath != ""
	scan := len(opts.ScanRoots) > 0
	if centralized == scan {
		return nil, ErrInvalidSource
	}

	if centralized {
		if _, err := os.Stat(opts.DocumentPath); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, opts.DocumentPath)
		}
		doc, err := loadDocument(opts.DocumentPath)
		if err != nil {
			return nil, err
		}
		s.tracker.Log("Found %d entries in backup from %s",
			len(doc.Entries), doc.CreatedAt.Format("2006-01-02 15:04:05"))
		return doc.Entries, nil
	}

	entries, err := scanSidecars(opts.ScanRoots, func(path string, err error) {
		s.tracker.Log("Skipping unreadable sidecar %s: %v", path, err)
		s.log.Warn("sidecar skipped", "path", path, "error", err)
	})
	if err != nil {
		return nil, err
	}
	s.tracker.Log("Found %d sidecar entries under %d roots", len(entries), len(opts.ScanRoots))
	return entries, nil
}
