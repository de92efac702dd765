package markers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmunix/metaport/internal/catalog"
	"github.com/vmunix/metaport/internal/progress"
)

// BackupOptions selects the episode scope and destination for a backup run.
type BackupOptions struct {
	// SeriesIDs selects individual series; takes precedence over LibraryIDs.
	SeriesIDs []int64
	// LibraryIDs selects whole libraries. Empty scope means every episode.
	LibraryIDs []int64

	// DestinationPath is the centralized .json document path. Ignored when
	// PerEpisode is set.
	DestinationPath string
	// PerEpisode writes one sidecar document per episode instead of a
	// centralized document.
	PerEpisode bool
	// SidecarRoot mirrors sidecars into <root>/<Series>/Season NN/ instead
	// of placing them next to the media files.
	SidecarRoot string
}

// BackupResult is the terminal outcome of one backup run.
type BackupResult struct {
	Success            bool
	Cancelled          bool
	Message            string
	TotalItems         int
	ItemsBackedUp      int
	ItemsFailed        int
	ValidationWarnings []string
}

// Backup scans the scoped episodes, extracts intro markers, and persists
// them. Centralized runs merge into any existing document (upsert per
// episode) and validate the written file afterwards. Per-item extraction
// failures are counted, never fatal.
func (s *Service) Backup(ctx context.Context, opts BackupOptions) (*BackupResult, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	s.tracker.Begin("backup", 0)
	defer s.tracker.Finish("Backup complete")

	if err := s.validateBackupDestination(opts); err != nil {
		return nil, err
	}

	episodes, err := s.resolveScope(opts)
	if err != nil {
		return nil, err
	}
	s.tracker.SetTotal(len(episodes))
	s.tracker.Log("Found %d episodes to process", len(episodes))
	s.log.Info("marker backup started", "episodes", len(episodes), "per_episode", opts.PerEpisode)

	var existing []Entry
	if !opts.PerEpisode {
		existing = s.loadExistingEntries(opts.DestinationPath)
	}

	result := &BackupResult{TotalItems: len(episodes)}
	entries := existing

	for _, ep := range episodes {
		if err := ctx.Err(); err != nil {
			s.tracker.Finish("Backup cancelled")
			result.Cancelled = true
			result.Message = "Backup cancelled"
			return result, nil
		}

		s.tracker.Advance(progress.Delta{Processed: 1, CurrentItem: ep.Name})

		chapters, err := s.catalog.Chapters(ep.ID)
		if err != nil {
			result.ItemsFailed++
			s.tracker.Advance(progress.Delta{Failed: 1})
			s.tracker.Log("Failed to read chapters for %s: %v", ep.Name, err)
			s.log.Warn("chapter read failed", "episode", ep.Name, "error", err)
			continue
		}

		markers := ExtractMarkers(chapters)
		if len(markers) == 0 {
			s.tracker.Advance(progress.Delta{Skipped: 1})
			continue
		}

		entry := EntryFromItem(ep, s.loadSeries(ep), markers)

		if opts.PerEpisode {
			path, err := writeSidecar(entry, opts.SidecarRoot)
			if err != nil {
				result.ItemsFailed++
				s.tracker.Advance(progress.Delta{Failed: 1})
				s.tracker.Log("Failed to write sidecar for %s: %v", ep.Name, err)
				continue
			}
			s.tracker.Log("Sidecar: %s → %s", ep.Name, path)
		} else {
			entries = upsertEntry(entries, entry)
		}

		result.ItemsBackedUp++
		s.tracker.Advance(progress.Delta{Succeeded: 1})
	}

	if !opts.PerEpisode {
		doc := &Document{
			SchemaVersion:      SchemaVersion,
			CreatedAt:          time.Now().UTC(),
			TotalEpisodeCount:  len(episodes),
			MarkedEpisodeCount: result.ItemsBackedUp,
			Entries:            entries,
		}
		if err := writeJSON(opts.DestinationPath, doc); err != nil {
			return nil, fmt.Errorf("write backup document: %w", err)
		}
		result.ValidationWarnings = s.validateWritten(opts.DestinationPath, len(entries))
	}

	result.Success = true
	result.Message = fmt.Sprintf(
		"Successfully backed up %d episodes with intro markers out of %d total episodes",
		result.ItemsBackedUp, result.TotalItems)
	s.tracker.Log("%s", result.Message)
	s.log.Info("marker backup finished",
		"backed_up", result.ItemsBackedUp, "total", result.TotalItems, "failed", result.ItemsFailed)
	return result, nil
}

// validateBackupDestination fails fast before any scan work when the
// destination cannot possibly accept the run's output.
func (s *Service) validateBackupDestination(opts BackupOptions) error {
	if opts.PerEpisode {
		if opts.SidecarRoot == "" {
			return nil // sidecars land next to media files, probed per write
		}
		if err := os.MkdirAll(opts.SidecarRoot, 0755); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDestinationNotWritable, opts.SidecarRoot, err)
		}
		return probeWritable(opts.SidecarRoot)
	}

	if opts.DestinationPath == "" {
		return ErrNoDestination
	}
	if !strings.EqualFold(filepath.Ext(opts.DestinationPath), ".json") {
		return fmt.Errorf("%w: %s", ErrDestinationNotJSON, opts.DestinationPath)
	}
	dir := filepath.Dir(opts.DestinationPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDestinationNotWritable, dir, err)
	}
	return probeWritable(dir)
}

// resolveScope expands the option scope to a concrete episode set. Explicit
// series win over libraries; an empty scope means the whole catalog.
func (s *Service) resolveScope(opts BackupOptions) ([]*catalog.Item, error) {
	ancestorIDs := opts.SeriesIDs
	if len(ancestorIDs) == 0 {
		ancestorIDs = opts.LibraryIDs
	}
	if len(ancestorIDs) == 0 {
		eps, err := s.catalog.AllEpisodes()
		if err != nil {
			return nil, fmt.Errorf("resolve scope: %w", err)
		}
		return eps, nil
	}

	var episodes []*catalog.Item
	seen := make(map[int64]bool)
	for _, id := range ancestorIDs {
		eps, err := s.catalog.EpisodesUnder(id)
		if err != nil {
			return nil, fmt.Errorf("resolve scope under %d: %w", id, err)
		}
		for _, ep := range eps {
			if !seen[ep.ID] {
				seen[ep.ID] = true
				episodes = append(episodes, ep)
			}
		}
	}
	return episodes, nil
}

// loadExistingEntries seeds the entry list from a prior document so a re-run
// merges instead of starting from scratch. A malformed existing file is a
// warning, not a failure.
func (s *Service) loadExistingEntries(path string) []Entry {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	doc, err := loadDocument(path)
	if err != nil {
		s.tracker.Log("Could not load existing backup: %v. Starting fresh.", err)
		s.log.Warn("existing backup unreadable, starting fresh", "path", path, "error", err)
		return nil
	}
	s.tracker.Log("Loaded existing backup with %d entries", len(doc.Entries))
	return doc.Entries
}

// upsertEntry replaces any prior entry for the same episode id or the same
// non-empty file path, then appends the new entry.
func upsertEntry(entries []Entry, entry Entry) []Entry {
	kept := entries[:0]
	for _, e := range entries {
		if e.EpisodeID == entry.EpisodeID {
			continue
		}
		if entry.FilePath != "" && e.FilePath == entry.FilePath {
			continue
		}
		kept = append(kept, e)
	}
	return append(kept, entry)
}

// loadSeries returns the episode's parent series, or nil when it cannot be
// loaded; entry construction degrades to "Unknown" in that case.
func (s *Service) loadSeries(ep *catalog.Item) *catalog.Item {
	if ep.SeriesID == nil {
		return nil
	}
	series, err := s.catalog.Item(*ep.SeriesID)
	if err != nil {
		s.log.Warn("series lookup failed", "episode", ep.Name, "error", err)
		return nil
	}
	return series
}

// validateWritten re-reads the document just written and records non-fatal
// warnings: entry count drift, entries without markers, entries missing
// every external id.
func (s *Service) validateWritten(path string, expectedEntries int) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		w := fmt.Sprintf(format, args...)
		warnings = append(warnings, w)
		s.tracker.ValidationError("%s", w)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		warn("Validation: could not re-read backup file: %v", err)
		return warnings
	}
	if len(data) == 0 {
		warn("Validation: backup file is empty")
		return warnings
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		warn("Validation: backup file does not deserialize: %v", err)
		return warnings
	}

	if len(doc.Entries) != expectedEntries {
		warn("Validation: expected %d entries, found %d", expectedEntries, len(doc.Entries))
	}
	emptyMarkers := 0
	missingIDs := 0
	for _, e := range doc.Entries {
		if len(e.Markers) == 0 {
			emptyMarkers++
		}
		if e.ExternalIDs.Empty() {
			missingIDs++
		}
	}
	if emptyMarkers > 0 {
		warn("Validation: %d entries have no markers", emptyMarkers)
	}
	if missingIDs > 0 {
		warn("Validation: %d entries have no external ids", missingIDs)
	}
	return warnings
}
