package export

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/metaport/internal/catalog"
	"github.com/vmunix/metaport/internal/migrations"
	"github.com/vmunix/metaport/internal/progress"
)

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

func newTestPipeline(t *testing.T) (*Pipeline, *catalog.Store) {
	t.Helper()
	store := setupStore(t)
	return NewPipeline(store, progress.NewTracker(1000), testLogger()), store
}

func ptr[T any](v T) *T {
	return &v
}

// allEnabled returns options with every output and field switched on.
func allEnabled() Options {
	return Options{
		NFO: NFOOptions{
			Enabled: true, Overwrite: true,
			IncludePlot: true, IncludeTitles: true, IncludeRating: true,
			IncludeYear: true, IncludeMpaa: true, IncludeGenres: true,
			IncludeStudios: true, IncludeProviderIDs: true, IncludeDates: true,
			IncludeRuntime: true, IncludeChapters: true, IncludeMarkerKinds: true,
		},
		Artwork: ArtworkOptions{
			Enabled: true, Overwrite: true,
			Poster: true, Backdrop: true, Logo: true, Banner: true,
			Thumb: true, Art: true, Disc: true,
		},
	}
}

// seedMovie creates a movie library rooted in a real temp directory, one
// movie with a media file on disk, and a poster image.
func seedMovie(t *testing.T, store *catalog.Store, name string) (lib, movie *catalog.Item, posterSrc string) {
	t.Helper()
	root := t.TempDir()

	library := &catalog.Item{Kind: catalog.KindLibrary, Name: "Movies", Path: root}
	require.NoError(t, store.AddItem(library))

	movieDir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(movieDir, 0755))
	moviePath := filepath.Join(movieDir, name+".mkv")
	require.NoError(t, os.WriteFile(moviePath, []byte("video"), 0644))

	item := &catalog.Item{
		Kind:            catalog.KindMovie,
		LibraryID:       &library.ID,
		Name:            name,
		Overview:        "A film about files.",
		Year:            2021,
		Premiered:       ptr(time.Date(2021, 6, 4, 0, 0, 0, 0, time.UTC)),
		RuntimeMinutes:  104,
		CommunityRating: ptr(7.8),
		OfficialRating:  "PG-13",
		Genres:          []string{"Drama"},
		Studios:         []string{"Somewhere Pictures"},
		Path:            moviePath,
		ProviderIDs:     map[string]string{"Imdb": "tt0000001", "Tmdb": "42"},
	}
	require.NoError(t, store.AddItem(item))

	// Poster source image lives outside the library tree, as server-managed
	// artwork does.
	posterSrc = filepath.Join(t.TempDir(), "primary.jpg")
	require.NoError(t, os.WriteFile(posterSrc, []byte("jpegdata"), 0644))
	require.NoError(t, store.AddImage(item.ID, catalog.Image{Kind: catalog.ImagePrimary, Path: posterSrc}))

	return library, item, posterSrc
}

// seedShow creates a TV library with a series, one season, and numbered
// episodes whose media files exist on disk.
func seedShow(t *testing.T, store *catalog.Store, name string, episodes int) (lib, series *catalog.Item, eps []*catalog.Item) {
	t.Helper()
	root := t.TempDir()

	library := &catalog.Item{Kind: catalog.KindLibrary, Name: "TV", Path: root}
	require.NoError(t, store.AddItem(library))

	seriesDir := filepath.Join(root, name)
	seasonDir := filepath.Join(seriesDir, "Season 01")
	require.NoError(t, os.MkdirAll(seasonDir, 0755))

	series = &catalog.Item{
		Kind:        catalog.KindSeries,
		LibraryID:   &library.ID,
		Name:        name,
		Path:        seriesDir,
		Status:      "Continuing",
		ProviderIDs: map[string]string{"Tvdb": "100"},
	}
	require.NoError(t, store.AddItem(series))

	season := &catalog.Item{
		Kind:      catalog.KindSeason,
		LibraryID: &library.ID,
		SeriesID:  &series.ID,
		Name:      "Season 1",
		Path:      seasonDir,
		Season:    ptr(1),
	}
	require.NoError(t, store.AddItem(season))

	for n := 1; n <= episodes; n++ {
		epPath := filepath.Join(seasonDir, fmt.Sprintf("S01E%02d.mkv", n))
		require.NoError(t, os.WriteFile(epPath, []byte("video"), 0644))
		ep := &catalog.Item{
			Kind:      catalog.KindEpisode,
			LibraryID: &library.ID,
			SeriesID:  &series.ID,
			Name:      fmt.Sprintf("%s Episode %d", name, n),
			Path:      epPath,
			Season:    ptr(1),
			Episode:   ptr(n),
		}
		require.NoError(t, store.AddItem(ep))
		eps = append(eps, ep)
	}
	return library, series, eps
}

// snapshotTree lists every file under root with its size, for
// before/after comparisons.
func snapshotTree(t *testing.T, root string) map[string]int64 {
	t.Helper()
	files := make(map[string]int64)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files[path] = info.Size()
		}
		return nil
	})
	require.NoError(t, err)
	return files
}
