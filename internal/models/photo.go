package models

import "github.com/google/uuid"

// Photo is a single exportable item of a gallery. DisplayOrder is unique per
// gallery and drives both UI sequencing and archive entry numbering; it is
// assigned at upload time and never recomputed during an export.
type Photo struct {
	ID           uuid.UUID `json:"id"`
	GalleryID    uuid.UUID `json:"gallery_id"`
	DisplayOrder int       `json:"display_order"`
	SourceURL    string    `json:"source_url"`
	FileName     string    `json:"file_name,omitempty"`
}
