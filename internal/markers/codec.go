package markers

import (
	"log/slog"
	"sort"

	"github.com/vmunix/metaport/internal/catalog"
)

// ExtractMarkers filters an item's chapters down to the persistable intro
// markers, in original chapter order.
func ExtractMarkers(chapters []catalog.Chapter) []Marker {
	var markers []Marker
	for _, c := range chapters {
		if c.Marker != catalog.MarkerIntroStart && c.Marker != catalog.MarkerIntroEnd {
			continue
		}
		markers = append(markers, Marker{
			Name:        c.Name,
			StartOffset: c.Start.Milliseconds(),
			MarkerKind:  string(c.Marker),
		})
	}
	return markers
}

// EntryFromItem snapshots episode and series identity into a backup entry.
// series may be nil when the parent could not be loaded.
func EntryFromItem(episode, series *catalog.Item, markers []Marker) Entry {
	entry := Entry{
		SeriesName:        "Unknown",
		EpisodeName:       episode.Name,
		EpisodeID:         episode.ID,
		FilePath:          episode.Path,
		ExternalEpisodeID: episode.ProviderID("Tvdb"),
		Markers:           markers,
	}
	if episode.Season != nil {
		entry.SeasonNumber = *episode.Season
	}
	if episode.Episode != nil {
		entry.EpisodeNumber = *episode.Episode
	}
	if series != nil {
		entry.SeriesName = series.Name
		entry.SeriesID = series.ID
		entry.ExternalIDs = ExternalIDs{
			Tvdb: series.ProviderID("Tvdb"),
			Tmdb: series.ProviderID("Tmdb"),
			Imdb: series.ProviderID("Imdb"),
		}
	}
	return entry
}

// ApplyOutcome reports what ApplyMarkers did with one entry.
type ApplyOutcome int

const (
	// Applied means the chapter list was modified and must be saved.
	Applied ApplyOutcome = iota
	// SkippedHasExisting means the item already had markers and overwrite was off.
	SkippedHasExisting
)

// HasMarkers reports whether any chapter carries a non-None marker kind.
func HasMarkers(chapters []catalog.Chapter) bool {
	for _, c := range chapters {
		if c.Marker != catalog.MarkerNone && c.Marker != "" {
			return true
		}
	}
	return false
}

// ApplyMarkers merges an entry's markers into a chapter list. When overwrite
// is false and the list already has any marker chapter, nothing is applied
// (all-or-nothing per item). Each marker updates an existing chapter within
// a one-second tolerance window or appends a new one; the returned list is
// sorted by start offset. Unrecognized marker kinds are logged and skipped.
func ApplyMarkers(chapters []catalog.Chapter, entry Entry, overwrite bool, log *slog.Logger) ([]catalog.Chapter, ApplyOutcome) {
	if !overwrite && HasMarkers(chapters) {
		return chapters, SkippedHasExisting
	}

	merged := append([]catalog.Chapter(nil), chapters...)
	for _, m := range entry.Markers {
		kind, ok := catalog.ParseMarkerKind(m.MarkerKind)
		if !ok {
			log.Warn("skipping marker with unrecognized kind",
				"kind", m.MarkerKind, "episode", entry.EpisodeName)
			continue
		}

		updated := false
		for idx := range merged {
			delta := merged[idx].Start - m.Start()
			if delta < 0 {
				delta = -delta
			}
			if delta < markerTolerance {
				merged[idx].Name = m.Name
				merged[idx].Marker = kind
				updated = true
				break
			}
		}
		if !updated {
			merged = append(merged, catalog.Chapter{
				Name:   m.Name,
				Start:  m.Start(),
				Marker: kind,
			})
		}
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Start < merged[b].Start
	})
	return merged, Applied
}
