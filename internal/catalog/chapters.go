package catalog

import (
	"fmt"
	"time"
)

// Chapters returns the chapter list for an item in stored order.
func (s *Store) Chapters(itemID int64) ([]Chapter, error) {
	rows, err := s.db.Query(
		"SELECT name, start_ms, marker_kind FROM chapters WHERE item_id = ? ORDER BY idx",
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chapters for item %d: %w", itemID, mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var chapters []Chapter
	for rows.Next() {
		var c Chapter
		var startMs int64
		if err := rows.Scan(&c.Name, &startMs, &c.Marker); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		c.Start = time.Duration(startMs) * time.Millisecond
		chapters = append(chapters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chapters: %w", err)
	}
	return chapters, nil
}

// SaveChapters replaces the full chapter list for an item. Callers are
// responsible for ordering; stored order is preserved on read.
func (s *Store) SaveChapters(itemID int64, chapters []Chapter) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM chapters WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("clear chapters for item %d: %w", itemID, mapSQLiteError(err))
	}
	for idx, c := range chapters {
		if _, err := tx.Exec(
			"INSERT INTO chapters (item_id, idx, name, start_ms, marker_kind) VALUES (?, ?, ?, ?, ?)",
			itemID, idx, c.Name, c.Start.Milliseconds(), c.Marker,
		); err != nil {
			return fmt.Errorf("insert chapter %d for item %d: %w", idx, itemID, mapSQLiteError(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chapters for item %d: %w", itemID, err)
	}
	return nil
}
