package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CodeGza/alma-fotografia/internal/errs"
	"github.com/CodeGza/alma-fotografia/internal/models"
	"github.com/CodeGza/alma-fotografia/internal/services/export"
	"github.com/CodeGza/alma-fotografia/internal/services/notify"
)

// === REQUEST PARSING ===

func (h *ExportHandler) parseExportRequest(c *gin.Context) (export.Request, error) {
	raw := c.Query(galleryParamKey)
	if raw == "" {
		return export.Request{}, errs.Validation("gallery id is required")
	}

	galleryID, err := uuid.Parse(raw)
	if err != nil {
		return export.Request{}, errs.Validation("invalid gallery id: %s", raw)
	}

	return export.Request{
		GalleryID: galleryID,
		Pin:       c.Query(pinParamKey),
	}, nil
}

// === EXPORT FLOW ===

func (h *ExportHandler) runExport(c *gin.Context, req export.Request) {
	result, err := h.exporter.Export(c.Request.Context(), req)
	if err != nil {
		h.respondExportError(c, req, err)
		return
	}

	h.recordExport(c.Request.Context(), req, result)
	h.respondArchive(c, result)
}

// recordExport notes the export in Redis and publishes the completion event.
// Both are best-effort: the archive is already built, failures here only get
// logged.
func (h *ExportHandler) recordExport(ctx context.Context, req export.Request, result *export.Result) {
	if h.activity != nil {
		h.activity.RecordExport(ctx, req.GalleryID.String(), result.Exported, result.Size)
	}

	if h.notifier != nil {
		event := notify.ExportEvent{
			ExportID:     result.ExportID.String(),
			GalleryID:    req.GalleryID.String(),
			GallerySlug:  result.GallerySlug,
			PhotoCount:   result.PhotoCount,
			Exported:     result.Exported,
			ArchiveBytes: result.Size,
			CompletedAt:  time.Now(),
		}
		if err := h.notifier.PublishExported(ctx, event); err != nil {
			h.logger.Warn("Failed to publish export event",
				zap.String("export_id", result.ExportID.String()),
				zap.Error(err),
			)
		}
	}
}

// === RESPONSE HANDLING ===

func (h *ExportHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func (h *ExportHandler) respondExportError(c *gin.Context, req export.Request, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Gallery export failed",
			zap.String("gallery_id", req.GalleryID.String()),
			zap.Error(err),
		)
		h.respondError(c, status, "Failed to export gallery")
		return
	}

	h.respondError(c, status, err.Error())
}

func (h *ExportHandler) respondArchive(c *gin.Context, result *export.Result) {
	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Header("Content-Length", strconv.Itoa(result.Size))
	c.Data(http.StatusOK, "application/zip", result.Data)
}

// statusFromError maps the error taxonomy onto HTTP statuses in one place.
func statusFromError(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrGalleryNotFound), errors.Is(err, errs.ErrNoPhotos):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrDownloadsDisabled), errors.Is(err, errs.ErrInvalidPin):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// === UTILITY METHODS ===

func (h *ExportHandler) serviceHealth(ctx context.Context) map[string]string {
	services := make(map[string]string)

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			services["postgres"] = "unhealthy: " + err.Error()
		} else {
			services["postgres"] = "healthy"
		}
	} else {
		services["postgres"] = "not configured"
	}

	if h.activity != nil {
		services["redis"] = h.activity.Health(ctx)
	} else {
		services["redis"] = "not configured"
	}

	if h.notifier != nil {
		services["rabbitmq"] = "healthy"
	} else {
		services["rabbitmq"] = "not configured"
	}

	return services
}

func (h *ExportHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
