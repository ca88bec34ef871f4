package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/CodeGza/alma-fotografia/internal/models"
)

// ListPhotos returns a gallery's photos ordered by display order ascending.
// When subset is non-empty only those photo ids are returned, still in the
// gallery's display order, not the subset's order. Zero matches is an empty
// slice, not an error.
func (s *Service) ListPhotos(ctx context.Context, galleryID uuid.UUID, subset []uuid.UUID) ([]models.Photo, error) {
	query :=
		`SELECT id, gallery_id, display_order, source_url, COALESCE(file_name, '')
		 FROM photos
		 WHERE gallery_id = $1
		 ORDER BY display_order ASC
		 `

	rows, err := s.db.QueryContext(ctx, query, galleryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(&p.ID, &p.GalleryID, &p.DisplayOrder, &p.SourceURL, &p.FileName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return FilterPhotos(photos, subset), nil
}

// FilterPhotos keeps only the photos whose id appears in subset, preserving
// the input order. A nil or empty subset keeps everything.
func FilterPhotos(photos []models.Photo, subset []uuid.UUID) []models.Photo {
	if len(subset) == 0 {
		return photos
	}

	wanted := make(map[uuid.UUID]struct{}, len(subset))
	for _, id := range subset {
		wanted[id] = struct{}{}
	}

	filtered := photos[:0:0]
	for _, p := range photos {
		if _, ok := wanted[p.ID]; ok {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
