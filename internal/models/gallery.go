package models

import (
	"time"

	"github.com/google/uuid"
)

// Gallery is the portal's gallery record as seen by the export service.
// The CRUD side of the portal owns these rows; here they are read-only.
type Gallery struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	AllowDownloads bool      `json:"allow_downloads"`
	DownloadPin    string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// PinProtected reports whether the gallery requires a download PIN.
func (g *Gallery) PinProtected() bool {
	return g.DownloadPin != ""
}
