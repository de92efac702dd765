package markers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/metaport/internal/catalog"
)

func TestExtractMarkers_FiltersKinds(t *testing.T) {
	chapters := []catalog.Chapter{
		{Name: "Intro End", Start: 90 * time.Second, Marker: catalog.MarkerIntroEnd},
		{Name: "Chapter 1", Start: 0, Marker: catalog.MarkerNone},
		{Name: "Credits", Start: 40 * time.Minute, Marker: catalog.MarkerCreditsStart},
		{Name: "Intro Start", Start: 30 * time.Second, Marker: catalog.MarkerIntroStart},
	}

	markers := ExtractMarkers(chapters)
	require.Len(t, markers, 2, "only IntroStart/IntroEnd persist")
	// Original chapter order is preserved.
	assert.Equal(t, "IntroEnd", markers[0].MarkerKind)
	assert.Equal(t, int64(90000), markers[0].StartOffset)
	assert.Equal(t, "IntroStart", markers[1].MarkerKind)
}

func TestEntryFromItem_SnapshotsIdentity(t *testing.T) {
	series := &catalog.Item{
		ID:   7,
		Kind: catalog.KindSeries,
		Name: "The Show",
		ProviderIDs: map[string]string{
			"Tvdb": "111", "Tmdb": "222", "Imdb": "tt333",
		},
	}
	episode := &catalog.Item{
		ID:          42,
		Kind:        catalog.KindEpisode,
		SeriesID:    &series.ID,
		Name:        "Pilot",
		Path:        "/tv/The Show/Season 01/S01E01.mkv",
		Season:      ptr(1),
		Episode:     ptr(1),
		ProviderIDs: map[string]string{"Tvdb": "999111"},
	}

	entry := EntryFromItem(episode, series, []Marker{{MarkerKind: "IntroStart", StartOffset: 1000}})
	assert.Equal(t, "The Show", entry.SeriesName)
	assert.Equal(t, int64(7), entry.SeriesID)
	assert.Equal(t, ExternalIDs{Tvdb: "111", Tmdb: "222", Imdb: "tt333"}, entry.ExternalIDs)
	assert.Equal(t, "999111", entry.ExternalEpisodeID)
	assert.Equal(t, 1, entry.SeasonNumber)
	assert.Equal(t, int64(42), entry.EpisodeID)
}

func TestEntryFromItem_NilSeries(t *testing.T) {
	episode := &catalog.Item{ID: 1, Kind: catalog.KindEpisode, Name: "Orphan"}
	entry := EntryFromItem(episode, nil, nil)
	assert.Equal(t, "Unknown", entry.SeriesName)
	assert.True(t, entry.ExternalIDs.Empty())
}

func TestApplyMarkers_UpdatesWithinTolerance(t *testing.T) {
	chapters := []catalog.Chapter{
		{Name: "Chapter 2", Start: 30500 * time.Millisecond, Marker: catalog.MarkerNone},
		{Name: "Chapter 1", Start: 0, Marker: catalog.MarkerNone},
	}
	entry := Entry{Markers: []Marker{
		{Name: "Intro Start", StartOffset: 30000, MarkerKind: "IntroStart"},
	}}

	merged, outcome := ApplyMarkers(chapters, entry, true, testLogger())
	require.Equal(t, Applied, outcome)
	require.Len(t, merged, 2, "chapter within 1s window is updated, not duplicated")
	// Re-sorted by start offset.
	assert.Equal(t, time.Duration(0), merged[0].Start)
	assert.Equal(t, catalog.MarkerIntroStart, merged[1].Marker)
	assert.Equal(t, "Intro Start", merged[1].Name)
}

func TestApplyMarkers_AppendsOutsideTolerance(t *testing.T) {
	chapters := []catalog.Chapter{
		{Name: "Chapter 1", Start: 0, Marker: catalog.MarkerNone},
	}
	entry := Entry{Markers: []Marker{
		{Name: "Intro End", StartOffset: 95000, MarkerKind: "IntroEnd"},
		{Name: "Intro Start", StartOffset: 31000, MarkerKind: "IntroStart"},
	}}

	merged, outcome := ApplyMarkers(chapters, entry, true, testLogger())
	require.Equal(t, Applied, outcome)
	require.Len(t, merged, 3)
	// Sorted by start offset after merge.
	assert.Equal(t, catalog.MarkerNone, merged[0].Marker)
	assert.Equal(t, catalog.MarkerIntroStart, merged[1].Marker)
	assert.Equal(t, catalog.MarkerIntroEnd, merged[2].Marker)
}

func TestApplyMarkers_SkipsWhenExistingAndNoOverwrite(t *testing.T) {
	chapters := introChapters(30*time.Second, 90*time.Second)
	entry := Entry{Markers: []Marker{
		{Name: "New Start", StartOffset: 10000, MarkerKind: "IntroStart"},
	}}

	merged, outcome := ApplyMarkers(chapters, entry, false, testLogger())
	assert.Equal(t, SkippedHasExisting, outcome)
	assert.Equal(t, chapters, merged, "all-or-nothing: nothing applied")
}

func TestApplyMarkers_UnknownKindSkipped(t *testing.T) {
	entry := Entry{Markers: []Marker{
		{Name: "Weird", StartOffset: 5000, MarkerKind: "RecapStart"},
		{Name: "Intro Start", StartOffset: 30000, MarkerKind: "IntroStart"},
	}}

	merged, outcome := ApplyMarkers(nil, entry, true, testLogger())
	require.Equal(t, Applied, outcome)
	require.Len(t, merged, 1, "unrecognized kind is skipped, rest of entry applies")
	assert.Equal(t, catalog.MarkerIntroStart, merged[0].Marker)
}
