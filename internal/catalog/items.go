package catalog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const itemColumns = `id, kind, library_id, series_id, name, original_title, sort_name, overview,
	year, premiered, runtime_minutes, community_rating, official_rating, genres, studios,
	status, collection_type, path, season, episode`

const dateLayout = "2006-01-02"

func joinList(parts []string) string {
	return strings.Join(parts, "|")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*Item, error) {
	i := &Item{}
	var premiered sql.NullString
	var genres, studios string
	err := s.Scan(
		&i.ID, &i.Kind, &i.LibraryID, &i.SeriesID, &i.Name, &i.OriginalTitle, &i.SortName,
		&i.Overview, &i.Year, &premiered, &i.RuntimeMinutes, &i.CommunityRating,
		&i.OfficialRating, &genres, &studios, &i.Status, &i.CollectionType, &i.Path,
		&i.Season, &i.Episode,
	)
	if err != nil {
		return nil, err
	}
	if premiered.Valid && premiered.String != "" {
		t, err := time.Parse(dateLayout, premiered.String)
		if err != nil {
			return nil, fmt.Errorf("parse premiered date for item %d: %w", i.ID, err)
		}
		i.Premiered = &t
	}
	i.Genres = splitList(genres)
	i.Studios = splitList(studios)
	i.ProviderIDs = map[string]string{}
	return i, nil
}

func attachProviderIDs(q querier, items []*Item) error {
	if len(items) == 0 {
		return nil
	}
	byID := make(map[int64]*Item, len(items))
	placeholders := make([]string, 0, len(items))
	args := make([]any, 0, len(items))
	for _, i := range items {
		byID[i.ID] = i
		placeholders = append(placeholders, "?")
		args = append(args, i.ID)
	}

	rows, err := q.Query(
		"SELECT item_id, provider, value FROM provider_ids WHERE item_id IN ("+strings.Join(placeholders, ",")+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("load provider ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var itemID int64
		var provider, value string
		if err := rows.Scan(&itemID, &provider, &value); err != nil {
			return fmt.Errorf("scan provider id: %w", err)
		}
		if i, ok := byID[itemID]; ok {
			i.ProviderIDs[provider] = value
		}
	}
	return rows.Err()
}

func getItem(q querier, query string, args ...any) (*Item, error) {
	i, err := scanItem(q.QueryRow(query, args...))
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	if err := attachProviderIDs(q, []*Item{i}); err != nil {
		return nil, err
	}
	return i, nil
}

func listItems(q querier, query string, args ...any) ([]*Item, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer func() { _ = rows.Close() }()

	var items []*Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	if err := attachProviderIDs(q, items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem inserts a new item and its provider ids. Sets ID on the struct.
func (s *Store) AddItem(i *Item) error {
	var premiered any
	if i.Premiered != nil {
		premiered = i.Premiered.Format(dateLayout)
	}
	result, err := s.db.Exec(`
		INSERT INTO items (kind, library_id, series_id, name, original_title, sort_name, overview,
			year, premiered, runtime_minutes, community_rating, official_rating, genres, studios,
			status, collection_type, path, season, episode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.Kind, i.LibraryID, i.SeriesID, i.Name, i.OriginalTitle, i.SortName, i.Overview,
		i.Year, premiered, i.RuntimeMinutes, i.CommunityRating, i.OfficialRating,
		joinList(i.Genres), joinList(i.Studios), i.Status, i.CollectionType, i.Path,
		i.Season, i.Episode,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	i.ID = id

	for provider, value := range i.ProviderIDs {
		if _, err := s.db.Exec(
			"INSERT INTO provider_ids (item_id, provider, value) VALUES (?, ?, ?)",
			i.ID, provider, value,
		); err != nil {
			return fmt.Errorf("insert provider id %s for item %d: %w", provider, i.ID, mapSQLiteError(err))
		}
	}
	return nil
}

// SetProviderID records or replaces an external catalog id on an item.
func (s *Store) SetProviderID(itemID int64, provider, value string) error {
	if _, err := s.db.Exec(
		"INSERT OR REPLACE INTO provider_ids (item_id, provider, value) VALUES (?, ?, ?)",
		itemID, provider, value,
	); err != nil {
		return fmt.Errorf("set provider id %s for item %d: %w", provider, itemID, mapSQLiteError(err))
	}
	return nil
}

// Item retrieves an item by internal id.
// Returns ErrNotFound if the item does not exist.
func (s *Store) Item(id int64) (*Item, error) {
	i, err := getItem(s.db, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return i, nil
}

// ItemByPath retrieves an item by its filesystem path.
// Returns ErrNotFound if no item has that path.
func (s *Store) ItemByPath(path string) (*Item, error) {
	i, err := getItem(s.db, "SELECT "+itemColumns+" FROM items WHERE path = ?", path)
	if err != nil {
		return nil, fmt.Errorf("get item by path %q: %w", path, err)
	}
	return i, nil
}

// EpisodeByProviderID finds the episode whose provider-id map carries the
// exact (provider, value) pair. Returns ErrNotFound when no episode matches.
func (s *Store) EpisodeByProviderID(provider, value string) (*Item, error) {
	i, err := getItem(s.db, `
		SELECT `+itemColumns+` FROM items
		WHERE kind = 'episode' AND id IN (
			SELECT item_id FROM provider_ids WHERE provider = ? AND value = ?
		)`, provider, value)
	if err != nil {
		return nil, fmt.Errorf("get episode by %s id %q: %w", provider, value, err)
	}
	return i, nil
}

// EpisodesByNumber lists all episodes with the given season and episode number,
// across every series.
func (s *Store) EpisodesByNumber(season, episode int) ([]*Item, error) {
	items, err := listItems(s.db,
		"SELECT "+itemColumns+" FROM items WHERE kind = 'episode' AND season = ? AND episode = ? ORDER BY id",
		season, episode,
	)
	if err != nil {
		return nil, fmt.Errorf("list episodes S%02dE%02d: %w", season, episode, err)
	}
	return items, nil
}

// EpisodesUnder lists the episodes descending from an ancestor item, which may
// be a series or a library root.
func (s *Store) EpisodesUnder(ancestorID int64) ([]*Item, error) {
	items, err := listItems(s.db,
		"SELECT "+itemColumns+" FROM items WHERE kind = 'episode' AND (series_id = ? OR library_id = ?) ORDER BY id",
		ancestorID, ancestorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list episodes under %d: %w", ancestorID, err)
	}
	return items, nil
}

// AllEpisodes lists every episode in the catalog.
func (s *Store) AllEpisodes() ([]*Item, error) {
	items, err := listItems(s.db, "SELECT "+itemColumns+" FROM items WHERE kind = 'episode' ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list all episodes: %w", err)
	}
	return items, nil
}

// AllSeries lists every series in the catalog.
func (s *Store) AllSeries() ([]*Item, error) {
	items, err := listItems(s.db, "SELECT "+itemColumns+" FROM items WHERE kind = 'series' ORDER BY sort_name, name")
	if err != nil {
		return nil, fmt.Errorf("list all series: %w", err)
	}
	return items, nil
}

// Libraries lists the library roots.
func (s *Store) Libraries() ([]*Item, error) {
	items, err := listItems(s.db, "SELECT "+itemColumns+" FROM items WHERE kind = 'library' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	return items, nil
}

// ItemsUnder lists items of the given kinds belonging to a library.
func (s *Store) ItemsUnder(libraryID int64, kinds []Kind) ([]*Item, error) {
	if len(kinds) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(kinds))
	args := []any{libraryID}
	for _, k := range kinds {
		placeholders = append(placeholders, "?")
		args = append(args, k)
	}
	items, err := listItems(s.db,
		"SELECT "+itemColumns+" FROM items WHERE library_id = ? AND kind IN ("+strings.Join(placeholders, ",")+") ORDER BY id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list items under library %d: %w", libraryID, err)
	}
	return items, nil
}

// DescendantsOf lists the seasons and episodes of a series.
func (s *Store) DescendantsOf(seriesID int64) ([]*Item, error) {
	items, err := listItems(s.db,
		"SELECT "+itemColumns+" FROM items WHERE series_id = ? AND kind IN ('season', 'episode') ORDER BY id",
		seriesID,
	)
	if err != nil {
		return nil, fmt.Errorf("list descendants of %d: %w", seriesID, err)
	}
	return items, nil
}

// CollectionItems lists the members of a collection. Collections use a
// containment table rather than the parent/child relationship.
func (s *Store) CollectionItems(collectionID int64) ([]*Item, error) {
	items, err := listItems(s.db, `
		SELECT `+itemColumns+` FROM items
		WHERE id IN (SELECT item_id FROM collection_items WHERE collection_id = ?)
		ORDER BY id`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list collection items for %d: %w", collectionID, err)
	}
	return items, nil
}

// AddCollectionItem records membership of an item in a collection.
func (s *Store) AddCollectionItem(collectionID, itemID int64) error {
	if _, err := s.db.Exec(
		"INSERT INTO collection_items (collection_id, item_id) VALUES (?, ?)",
		collectionID, itemID,
	); err != nil {
		return fmt.Errorf("insert collection item: %w", mapSQLiteError(err))
	}
	return nil
}

// AllCollections lists every collection in the catalog, regardless of library.
func (s *Store) AllCollections() ([]*Item, error) {
	items, err := listItems(s.db, "SELECT "+itemColumns+" FROM items WHERE kind = 'collection' ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return items, nil
}
