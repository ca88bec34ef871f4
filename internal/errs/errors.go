// Package errs defines the error taxonomy shared between the export services
// and the HTTP layer. Handlers translate these into status codes in one place;
// everything below them wraps with %w and stays transport-agnostic.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrGalleryNotFound covers both an unknown gallery id and a gallery
	// with zero eligible photos.
	ErrGalleryNotFound = errors.New("gallery not found")
	ErrNoPhotos        = errors.New("gallery has no exportable photos")

	ErrDownloadsDisabled = errors.New("downloads are disabled for this gallery")
	ErrInvalidPin        = errors.New("invalid download pin")

	// Per-item fetch failures. These never abort an export; they are carried
	// inside outcomes so the rest of the batch keeps going.
	ErrFetchTimeout = errors.New("fetch timed out")
	ErrFetchFailed  = errors.New("fetch failed")

	// ErrNothingFetched is returned when every single fetch of a non-empty
	// photo set failed. Shipping an empty archive would look like success to
	// the client, so it is treated as an internal failure instead.
	ErrNothingFetched = errors.New("no photos could be fetched")

	// ErrExportTimeout fires when the whole pipeline run exceeds its deadline.
	ErrExportTimeout = errors.New("export deadline exceeded")
)

// ValidationError marks client-fixable input problems (missing or malformed
// request parameters). Always mapped to 400, never retried server-side.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
