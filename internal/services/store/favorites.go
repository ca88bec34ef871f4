package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/CodeGza/alma-fotografia/pkg/utils"
)

// ListFavoritePhotoIDs returns the ids of photos the given client marked as
// favorites in a gallery. The email is normalized (trimmed, lower-cased)
// before the lookup, matching how the portal stores it.
func (s *Service) ListFavoritePhotoIDs(ctx context.Context, galleryID uuid.UUID, clientEmail string) ([]uuid.UUID, error) {
	query :=
		`SELECT photo_id
		 FROM favorites
		 WHERE gallery_id = $1 AND client_email = $2
		 `

	rows, err := s.db.QueryContext(ctx, query, galleryID, utils.NormalizeEmail(clientEmail))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}
