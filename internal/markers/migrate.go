package markers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vmunix/metaport/internal/catalog"
	"github.com/vmunix/metaport/internal/progress"
)

// MigrationExportResult is the terminal outcome of a migration export.
type MigrationExportResult struct {
	Success       bool
	Cancelled     bool
	Message       string
	TotalEpisodes int
	RowsExported  int
}

// MigrationImportResult is the terminal outcome of a migration import.
type MigrationImportResult struct {
	Success       bool
	Cancelled     bool
	Message       string
	ItemsImported int
	ItemsSkipped  int
	ItemsNotFound int
}

// ExportMigration scans the entire catalog (never scoped) and writes a
// migration document: one row per episode with markers, internal ids
// stripped, offsets collapsed to nullable scalars.
func (s *Service) ExportMigration(ctx context.Context, destPath string) (*MigrationExportResult, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	s.tracker.Begin("migration-export", 0)
	defer s.tracker.Finish("Migration export complete")

	if destPath == "" {
		return nil, ErrNoDestination
	}

	episodes, err := s.catalog.AllEpisodes()
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	s.tracker.SetTotal(len(episodes))
	s.log.Info("migration export started", "episodes", len(episodes), "dest", destPath)

	result := &MigrationExportResult{TotalEpisodes: len(episodes)}
	var rows []MigrationRow

	for _, ep := range episodes {
		if err := ctx.Err(); err != nil {
			s.tracker.Finish("Migration export cancelled")
			result.Cancelled = true
			result.Message = "Migration export cancelled"
			return result, nil
		}

		s.tracker.Advance(progress.Delta{Processed: 1, CurrentItem: ep.Name})

		chapters, err := s.catalog.Chapters(ep.ID)
		if err != nil {
			s.tracker.Advance(progress.Delta{Failed: 1})
			s.tracker.Log("Failed to read chapters for %s: %v", ep.Name, err)
			continue
		}
		markers := ExtractMarkers(chapters)
		if len(markers) == 0 {
			s.tracker.Advance(progress.Delta{Skipped: 1})
			continue
		}

		entry := EntryFromItem(ep, s.loadSeries(ep), markers)
		row := MigrationRow{
			SeriesName:        entry.SeriesName,
			ExternalIDs:       entry.ExternalIDs,
			ExternalEpisodeID: entry.ExternalEpisodeID,
			SeasonNumber:      entry.SeasonNumber,
			EpisodeNumber:     entry.EpisodeNumber,
		}
		for _, m := range markers {
			offset := m.StartOffset
			switch catalog.MarkerKind(m.MarkerKind) {
			case catalog.MarkerIntroStart:
				row.IntroStart = &offset
			case catalog.MarkerIntroEnd:
				row.IntroEnd = &offset
			}
		}
		rows = append(rows, row)
		result.RowsExported++
		s.tracker.Advance(progress.Delta{Succeeded: 1})
	}

	doc := &MigrationDocument{
		SchemaVersion: SchemaVersion,
		CreatedAt:     time.Now().UTC(),
		Rows:          rows,
	}
	if err := writeJSON(destPath, doc); err != nil {
		return nil, fmt.Errorf("write migration document: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Exported %d migration rows from %d episodes",
		result.RowsExported, result.TotalEpisodes)
	s.tracker.Log("%s", result.Message)
	s.log.Info("migration export finished", "rows", result.RowsExported)
	return result, nil
}

// ImportMigration loads a migration document and applies its rows through
// the shared resolution cascade: episode-level external id first, then
// series-level external id plus season/episode number. Nil and zero offsets
// are both treated as "marker absent".
func (s *Service) ImportMigration(ctx context.Context, srcPath string, overwrite bool, match MatchOptions) (*MigrationImportResult, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	s.tracker.Begin("migration-import", 0)
	defer s.tracker.Finish("Migration import complete")

	if _, err := os.Stat(srcPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, srcPath)
	}
	doc, err := loadMigrationDocument(srcPath)
	if err != nil {
		return nil, err
	}
	s.tracker.SetTotal(len(doc.Rows))
	s.log.Info("migration import started", "rows", len(doc.Rows), "overwrite", overwrite)

	result := &MigrationImportResult{}
	for _, row := range doc.Rows {
		if err := ctx.Err(); err != nil {
			s.tracker.Finish("Migration import cancelled")
			result.Cancelled = true
			result.Message = "Migration import cancelled"
			return result, nil
		}

		label := fmt.Sprintf("%s S%02dE%02d", row.SeriesName, row.SeasonNumber, row.EpisodeNumber)
		s.tracker.Advance(progress.Delta{Processed: 1, CurrentItem: label})

		entry := entryFromMigrationRow(row)
		if len(entry.Markers) == 0 {
			result.ItemsSkipped++
			s.tracker.Advance(progress.Delta{Skipped: 1})
			continue
		}

		episode, err := s.resolver.Resolve(entry, match)
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
			s.tracker.Advance(progress.Delta{Failed: 1})
			s.tracker.Log("Failed to read chapters for %s: %v", label, err)
			continue
		}
		merged, outcome := ApplyMarkers(chapters, entry, overwrite, s.log)
		if outcome == SkippedHasExisting {
			result.ItemsSkipped++
			s.tracker.Advance(progress.Delta{Skipped: 1})
			continue
		}
		if err := s.catalog.SaveChapters(episode.ID, merged); err != nil {
			s.tracker.Advance(progress.Delta{Failed: 1})
			s.tracker.Log("Failed to save chapters for %s: %v", label, err)
			continue
		}

		result.ItemsImported++
		s.tracker.Advance(progress.Delta{Succeeded: 1})
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migration import complete: %d imported, %d skipped, %d not found",
		result.ItemsImported, result.ItemsSkipped, result.ItemsNotFound)
	s.tracker.Log("%s", result.Message)
	s.log.Info("migration import finished",
		"imported", result.ItemsImported, "skipped", result.ItemsSkipped, "not_found", result.ItemsNotFound)
	return result, nil
}

// entryFromMigrationRow synthesizes a backup entry from a migration row so
// both paths share the resolver and codec. Markers are synthesized only for
// present, non-zero offsets.
func entryFromMigrationRow(row MigrationRow) Entry {
	entry := Entry{
		SeriesName:        row.SeriesName,
		ExternalIDs:       row.ExternalIDs,
		ExternalEpisodeID: row.ExternalEpisodeID,
		SeasonNumber:      row.SeasonNumber,
		EpisodeNumber:     row.EpisodeNumber,
	}
	if row.IntroStart != nil && *row.IntroStart > 0 {
		entry.Markers = append(entry.Markers, Marker{
			Name:        "IntroStart",
			StartOffset: *row.IntroStart,
			MarkerKind:  string(catalog.MarkerIntroStart),
		})
	}
	if row.IntroEnd != nil && *row.IntroEnd > 0 {
		entry.Markers = append(entry.Markers, Marker{
			Name:        "IntroEnd",
			StartOffset: *row.IntroEnd,
			MarkerKind:  string(catalog.MarkerIntroEnd),
		})
	}
	return entry
}
