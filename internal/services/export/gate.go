package export

import (
	"crypto/subtle"

	"github.com/CodeGza/alma-fotografia/internal/errs"
	"github.com/CodeGza/alma-fotografia/internal/models"
)

// Authorize decides whether an export of the gallery may proceed. Rules are
// evaluated in order and short-circuit on the first failure: the gallery must
// exist, downloads must be enabled, and when a PIN is set the provided one
// must match exactly (case-sensitive). Pure function, no side effects.
func Authorize(g *models.Gallery, providedPin string) error {
	if g == nil {
		return errs.ErrGalleryNotFound
	}
	if !g.AllowDownloads {
		return errs.ErrDownloadsDisabled
	}
	if g.PinProtected() {
		// Constant-time compare; the PIN is stored in plaintext so this is
		// the one hardening we can do without changing stored data.
		if subtle.ConstantTimeCompare([]byte(g.DownloadPin), []byte(providedPin)) != 1 {
			return errs.ErrInvalidPin
		}
	}
	return nil
}
