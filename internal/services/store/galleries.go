package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/CodeGza/alma-fotografia/internal/errs"
	"github.com/CodeGza/alma-fotografia/internal/models"
)

// GetGallery loads a single gallery by id. An unknown id maps to
// errs.ErrGalleryNotFound.
func (s *Service) GetGallery(ctx context.Context, id uuid.UUID) (*models.Gallery, error) {
	query :=
		`SELECT id, title, slug, allow_downloads, COALESCE(download_pin, ''), created_at
		 FROM galleries
		 WHERE id = $1
		 `

	gallery := &models.Gallery{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&gallery.ID,
		&gallery.Title,
		&gallery.Slug,
		&gallery.AllowDownloads,
		&gallery.DownloadPin,
		&gallery.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrGalleryNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return gallery, nil
}
