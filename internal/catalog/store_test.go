package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSeries inserts a library, a series with provider ids, one season, and
// the requested number of episodes. Returns the series and its episodes.
func seedSeries(t *testing.T, s *Store, name string, providerIDs map[string]string, episodes int) (*Item, []*Item) {
	t.Helper()

	lib := &Item{Kind: KindLibrary, Name: "TV", Path: "/media/tv"}
	require.NoError(t, s.AddItem(lib))

	series := &Item{
		Kind:        KindSeries,
		LibraryID:   &lib.ID,
		Name:        name,
		Path:        "/media/tv/" + name,
		ProviderIDs: providerIDs,
	}
	require.NoError(t, s.AddItem(series))

	season := &Item{
		Kind:      KindSeason,
		LibraryID: &lib.ID,
		SeriesID:  &series.ID,
		Name:      "Season 1",
		Path:      "/media/tv/" + name + "/Season 01",
		Season:    ptr(1),
	}
	require.NoError(t, s.AddItem(season))

	var eps []*Item
	for n := 1; n <= episodes; n++ {
		ep := &Item{
			Kind:      KindEpisode,
			LibraryID: &lib.ID,
			SeriesID:  &series.ID,
			Name:      "Episode " + string(rune('0'+n)),
			Path:      "/media/tv/" + name + "/Season 01/ep" + string(rune('0'+n)) + ".mkv",
			Season:    ptr(1),
			Episode:   ptr(n),
		}
		require.NoError(t, s.AddItem(ep))
		eps = append(eps, ep)
	}
	return series, eps
}

func TestStore_ItemRoundTrip(t *testing.T) {
	s := NewStore(setupTestDB(t))

	premiered := time.Date(2008, 1, 20, 0, 0, 0, 0, time.UTC)
	item := &Item{
		Kind:            KindMovie,
		Name:            "Test Movie",
		OriginalTitle:   "Der Testfilm",
		SortName:        "Test Movie",
		Overview:        "A movie about tests.",
		Year:            2008,
		Premiered:       &premiered,
		RuntimeMinutes:  112,
		CommunityRating: ptr(7.8),
		OfficialRating:  "PG-13",
		Genres:          []string{"Drama", "Thriller"},
		Studios:         []string{"Test Studios"},
		Path:            "/media/movies/Test Movie (2008)/movie.mkv",
		ProviderIDs:     map[string]string{"Imdb": "tt0123456", "Tmdb": "4242"},
	}
	require.NoError(t, s.AddItem(item))
	require.NotZero(t, item.ID)

	got, err := s.Item(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Movie", got.Name)
	assert.Equal(t, []string{"Drama", "Thriller"}, got.Genres)
	assert.Equal(t, "tt0123456", got.ProviderID("Imdb"))
	require.NotNil(t, got.Premiered)
	assert.Equal(t, 2008, got.Premiered.Year())
	require.NotNil(t, got.CommunityRating)
	assert.InDelta(t, 7.8, *got.CommunityRating, 0.001)
}

func TestStore_ItemNotFound(t *testing.T) {
	s := NewStore(setupTestDB(t))

	_, err := s.Item(9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ItemByPath("/nowhere/at/all.mkv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_EpisodeByProviderID(t *testing.T) {
	s := NewStore(setupTestDB(t))
	_, eps := seedSeries(t, s, "Show", map[string]string{"Tvdb": "77777"}, 2)

	require.NoError(t, s.SetProviderID(eps[1].ID, "Tvdb", "111222"))

	got, err := s.EpisodeByProviderID("Tvdb", "111222")
	require.NoError(t, err)
	assert.Equal(t, eps[1].ID, got.ID)

	_, err = s.EpisodeByProviderID("Tvdb", "000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_EpisodesByNumberAndUnder(t *testing.T) {
	s := NewStore(setupTestDB(t))
	seriesA, _ := seedSeries(t, s, "Alpha", map[string]string{"Tvdb": "1"}, 3)
	seedSeries(t, s, "Beta", map[string]string{"Tvdb": "2"}, 2)

	byNumber, err := s.EpisodesByNumber(1, 2)
	require.NoError(t, err)
	assert.Len(t, byNumber, 2, "S01E02 exists in both series")

	under, err := s.EpisodesUnder(seriesA.ID)
	require.NoError(t, err)
	assert.Len(t, under, 3)

	all, err := s.AllEpisodes()
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStore_CollectionContainment(t *testing.T) {
	s := NewStore(setupTestDB(t))

	movie := &Item{Kind: KindMovie, Name: "Part One", Path: "/media/movies/one.mkv"}
	require.NoError(t, s.AddItem(movie))
	collection := &Item{Kind: KindCollection, Name: "The Parts"}
	require.NoError(t, s.AddItem(collection))
	require.NoError(t, s.AddCollectionItem(collection.ID, movie.ID))

	members, err := s.CollectionItems(collection.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, movie.ID, members[0].ID)

	// Membership is not a parent/child link.
	under, err := s.DescendantsOf(collection.ID)
	require.NoError(t, err)
	assert.Empty(t, under)

	cols, err := s.AllCollections()
	require.NoError(t, err)
	assert.Len(t, cols, 1)
}

func TestStore_ChaptersRoundTrip(t *testing.T) {
	s := NewStore(setupTestDB(t))
	_, eps := seedSeries(t, s, "Show", nil, 1)

	chapters := []Chapter{
		{Name: "Intro Start", Start: 30 * time.Second, Marker: MarkerIntroStart},
		{Name: "Intro End", Start: 90 * time.Second, Marker: MarkerIntroEnd},
		{Name: "Chapter 1", Start: 0, Marker: MarkerNone},
	}
	require.NoError(t, s.SaveChapters(eps[0].ID, chapters))

	got, err := s.Chapters(eps[0].ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, MarkerIntroStart, got[0].Marker)
	assert.Equal(t, 30*time.Second, got[0].Start)

	// Saving again replaces, never appends.
	require.NoError(t, s.SaveChapters(eps[0].ID, chapters[:1]))
	got, err = s.Chapters(eps[0].ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_Images(t *testing.T) {
	s := NewStore(setupTestDB(t))
	movie := &Item{Kind: KindMovie, Name: "Pic", Path: "/media/movies/pic.mkv"}
	require.NoError(t, s.AddItem(movie))

	require.NoError(t, s.AddImage(movie.ID, Image{Kind: ImagePrimary, Path: "/meta/pic/poster.jpg"}))
	require.NoError(t, s.AddImage(movie.ID, Image{Kind: ImageBackdrop, Index: 1, Path: "/meta/pic/backdrop1.jpg"}))

	images, err := s.Images(movie.ID)
	require.NoError(t, err)
	assert.Len(t, images, 2)
}

func TestParseMarkerKind(t *testing.T) {
	for _, valid := range []string{"None", "IntroStart", "IntroEnd", "CreditsStart"} {
		k, ok := ParseMarkerKind(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, MarkerKind(valid), k)
	}
	_, ok := ParseMarkerKind("ChapterStart")
	assert.False(t, ok)
}
