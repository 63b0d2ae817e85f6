package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"emergency-alert-service/internal/config"
	"emergency-alert-service/internal/logging"
)

func NewRouter(h *Handler, hub *Hub, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))
	r.Use(CORSMiddleware())

	api := r.Group(cfg.API.BasePath)
	{
		// Devices
		api.POST("/register", h.RegisterDevice)
		api.GET("/devices", h.GetDevices)

		// Alerts
		api.GET("/alerts/me/:device_token", h.GetAlertsForDevice)

		// Utilities
		api.POST("/translate", h.TranslateBatch)

		// Live alert stream
		api.GET("/ws/:device_token", hub.Serve)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
