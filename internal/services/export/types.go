// Package export implements the bulk gallery export pipeline: access check,
// photo enumeration, batched concurrent fetching and ZIP assembly.
package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/CodeGza/alma-fotografia/internal/models"
)

// Request describes a single export invocation. PhotoIDs, when non-empty,
// restricts the export to that subset (the favorites variant); the gallery's
// display order still decides the final ordering, not the subset's order.
type Request struct {
	GalleryID uuid.UUID
	Pin       string
	PhotoIDs  []uuid.UUID
}

// Result is the fully materialized archive plus its response metadata.
type Result struct {
	ExportID    uuid.UUID
	FileName    string
	Data        []byte
	Size        int
	PhotoCount  int
	Exported    int
	GallerySlug string
	Elapsed     time.Duration
}

// Item is one photo prepared for fetching: the resolved URL and the
// precomputed archive entry name. Index is the photo's position in the global
// export ordering, assigned before dispatch so batch boundaries and fetch
// completion order cannot affect entry numbering.
type Item struct {
	Photo    models.Photo
	Index    int
	FetchURL string
	FileName string
}

// Outcome is the per-item fetch result: Data on success, Err otherwise.
// Failures are values here, never panics, so a bad item cannot take down the
// rest of its batch.
type Outcome struct {
	Index    int
	PhotoID  uuid.UUID
	FileName string
	Data     []byte
	Err      error
}

// OK reports whether the fetch succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// GalleryStore is the collaborator contract for gallery lookups.
type GalleryStore interface {
	GetGallery(ctx context.Context, id uuid.UUID) (*models.Gallery, error)
}

// PhotoStore lists a gallery's photos ordered by display order, optionally
// filtered to a subset of photo ids. An empty result is not an error.
type PhotoStore interface {
	ListPhotos(ctx context.Context, galleryID uuid.UUID, subset []uuid.UUID) ([]models.Photo, error)
}

// ItemFetcher fetches a single prepared item. Implementations must honor the
// context and report failures through the outcome, not by panicking.
type ItemFetcher interface {
	Fetch(ctx context.Context, item Item) Outcome
}
