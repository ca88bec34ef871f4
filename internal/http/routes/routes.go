package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CodeGza/alma-fotografia/internal/http/handlers"
	"github.com/CodeGza/alma-fotografia/internal/http/middleware"
)

type Router struct {
	exportHandler *handlers.ExportHandler
	logger        *zap.Logger
}

func NewRouter(
	exportHandler *handlers.ExportHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		exportHandler: exportHandler,
		logger:        logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.exportHandler.HealthCheck)
		v1.GET("/stats", r.exportHandler.GetStats)

		exports := v1.Group("/export")
		{
			exports.GET("", r.exportHandler.ExportGallery)
			exports.GET("/favorites", r.exportHandler.ExportFavorites)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Gallery export service is running",
		})
	})

	return router
}
