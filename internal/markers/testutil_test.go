package markers

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/metaport/internal/catalog"
	"github.com/vmunix/metaport/internal/migrations"
	"github.com/vmunix/metaport/internal/progress"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStore(t *testing.T) *catalog.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err, "open db")
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err, "apply schema")
	return catalog.NewStore(db)
}

func newTestService(t *testing.T) (*Service, *catalog.Store) {
	t.Helper()
	store := setupStore(t)
	return NewService(store, progress.NewTracker(500), testLogger()), store
}

func ptr[T any](v T) *T {
	return &v
}

// seedShow inserts a series with provider ids and numbered episodes under a
// shared TV library. Episode paths follow tvRoot/<name>/Season 01/SxxExx.mkv.
func seedShow(t *testing.T, store *catalog.Store, name, tvRoot string, providerIDs map[string]string, episodes int) (*catalog.Item, []*catalog.Item) {
	t.Helper()

	lib := &catalog.Item{Kind: catalog.KindLibrary, Name: "TV", Path: tvRoot}
	require.NoError(t, store.AddItem(lib))

	series := &catalog.Item{
		Kind:        catalog.KindSeries,
		LibraryID:   &lib.ID,
		Name:        name,
		Path:        tvRoot + "/" + name,
		ProviderIDs: providerIDs,
	}
	require.NoError(t, store.AddItem(series))

	var eps []*catalog.Item
	for n := 1; n <= episodes; n++ {
		ep := &catalog.Item{
			Kind:      catalog.KindEpisode,
			LibraryID: &lib.ID,
			SeriesID:  &series.ID,
			Name:      fmt.Sprintf("%s Episode %d", name, n),
			Path:      fmt.Sprintf("%s/%s/Season 01/S01E%02d.mkv", tvRoot, name, n),
			Season:    ptr(1),
			Episode:   ptr(n),
		}
		require.NoError(t, store.AddItem(ep))
		eps = append(eps, ep)
	}
	return series, eps
}

// introChapters builds a chapter list carrying an intro start/end pair.
func introChapters(start, end time.Duration) []catalog.Chapter {
	return []catalog.Chapter{
		{Name: "Chapter 1", Start: 0, Marker: catalog.MarkerNone},
		{Name: "Intro Start", Start: start, Marker: catalog.MarkerIntroStart},
		{Name: "Intro End", Start: end, Marker: catalog.MarkerIntroEnd},
	}
}
