package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CodeGza/alma-fotografia/internal/config"
	"github.com/CodeGza/alma-fotografia/internal/models"
	"github.com/CodeGza/alma-fotografia/internal/services/activity"
	"github.com/CodeGza/alma-fotografia/internal/services/export"
	"github.com/CodeGza/alma-fotografia/internal/services/notify"
	"github.com/CodeGza/alma-fotografia/pkg/utils"
)

const (
	galleryParamKey = "gallery"
	pinParamKey     = "pin"
	emailParamKey   = "email"
)

// Exporter runs one full export and returns the materialized archive.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (*export.Result, error)
}

// FavoriteStore resolves the favorites-only photo subset for a client.
type FavoriteStore interface {
	ListFavoritePhotoIDs(ctx context.Context, galleryID uuid.UUID, clientEmail string) ([]uuid.UUID, error)
}

// Pinger reports backing-database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ExportHandler struct {
	exporter  Exporter
	favorites FavoriteStore
	db        Pinger
	activity  *activity.Recorder
	notifier  *notify.Publisher
	logger    *zap.Logger
	config    *config.Config
}

func NewExportHandler(
	exporter Exporter,
	favorites FavoriteStore,
	db Pinger,
	activity *activity.Recorder,
	notifier *notify.Publisher,
	logger *zap.Logger,
	config *config.Config,
) *ExportHandler {
	return &ExportHandler{
		exporter:  exporter,
		favorites: favorites,
		db:        db,
		activity:  activity,
		notifier:  notifier,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

// ExportGallery builds and returns the full-gallery archive.
func (h *ExportHandler) ExportGallery(c *gin.Context) {
	req, err := h.parseExportRequest(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.runExport(c, req)
}

// ExportFavorites builds an archive restricted to the photos the given
// client marked as favorites.
func (h *ExportHandler) ExportFavorites(c *gin.Context) {
	req, err := h.parseExportRequest(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	email := utils.NormalizeEmail(c.Query(emailParamKey))
	if email == "" {
		h.respondError(c, http.StatusBadRequest, "client email is required")
		return
	}

	ids, err := h.favorites.ListFavoritePhotoIDs(c.Request.Context(), req.GalleryID, email)
	if err != nil {
		h.logger.Error("Favorites lookup failed", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to look up favorites")
		return
	}
	if len(ids) == 0 {
		h.respondError(c, http.StatusNotFound, "no favorite photos for this client")
		return
	}

	req.PhotoIDs = ids
	h.runExport(c, req)
}

// HealthCheck reports the state of the backing services.
func (h *ExportHandler) HealthCheck(c *gin.Context) {
	services := h.serviceHealth(c.Request.Context())
	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

// GetStats returns the recorded export activity.
func (h *ExportHandler) GetStats(c *gin.Context) {
	if h.activity == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Activity tracking not configured")
		return
	}

	snapshot, err := h.activity.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read export stats", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to read export stats")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    snapshot,
	})
}
