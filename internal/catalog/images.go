package catalog

import (
	"fmt"
)

// Images returns the artwork references for an item, ordered by kind and index.
func (s *Store) Images(itemID int64) ([]Image, error) {
	rows, err := s.db.Query(
		"SELECT kind, idx, path FROM images WHERE item_id = ? ORDER BY kind, idx",
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list images for item %d: %w", itemID, mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Kind, &img.Index, &img.Path); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return images, nil
}

// AddImage records an artwork file reference for an item.
func (s *Store) AddImage(itemID int64, img Image) error {
	if _, err := s.db.Exec(
		"INSERT INTO images (item_id, kind, idx, path) VALUES (?, ?, ?, ?)",
		itemID, img.Kind, img.Index, img.Path,
	); err != nil {
		return fmt.Errorf("insert image for item %d: %w", itemID, mapSQLiteError(err))
	}
	return nil
}
