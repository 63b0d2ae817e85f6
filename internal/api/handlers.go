package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"emergency-alert-service/internal/logging"
	"emergency-alert-service/internal/models"
)

// Store is the persistence surface the HTTP handlers need.
type Store interface {
	UpsertDevice(ctx context.Context, dev models.DeviceCreate) (*models.Device, error)
	GetDeviceByToken(ctx context.Context, token string) (*models.Device, error)
	ListAllDevices(ctx context.Context) ([]models.Device, error)
	GetRecentAlerts(ctx context.Context, limit int) ([]models.Alert, error)
}

// Translator translates text for the history and ad-hoc endpoints.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

const historyLimit = 5

type Handler struct {
	store         Store
	translator    Translator
	logger        *logging.Logger
	canonicalLang string
}

func NewHandler(store Store, translator Translator, canonicalLang string, logger *logging.Logger) *Handler {
	return &Handler{
		store:         store,
		translator:    translator,
		logger:        logger,
		canonicalLang: canonicalLang,
	}
}

// RegisterDevice creates a device, or updates language and location when the
// token is already registered.
func (h *Handler) RegisterDevice(c *gin.Context) {
	var in models.DeviceCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Errorf("Invalid request body for device registration: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	dev, err := h.store.UpsertDevice(c.Request.Context(), in)
	if err != nil {
		h.logger.Errorf("Failed to register device %s: %v", in.DeviceToken, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device"})
		return
	}

	h.logger.Infof("Registered device %s (language %s)", dev.DeviceToken, dev.Language)
	c.JSON(http.StatusOK, dev)
}

func (h *Handler) GetDevices(c *gin.Context) {
	devices, err := h.store.ListAllDevices(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list devices: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list devices"})
		return
	}
	if devices == nil {
		devices = []models.Device{}
	}
	c.JSON(http.StatusOK, devices)
}

// GetAlertsForDevice returns the most recent alerts translated into the
// device's preferred language.
func (h *Handler) GetAlertsForDevice(c *gin.Context) {
	token := c.Param("device_token")

	device, err := h.store.GetDeviceByToken(c.Request.Context(), token)
	if err != nil {
		h.logger.Errorf("Failed to look up device %s: %v", token, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up device"})
		return
	}
	if device == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}

	alerts, err := h.store.GetRecentAlerts(c.Request.Context(), historyLimit)
	if err != nil {
		h.logger.Errorf("Failed to get alerts for device %s: %v", token, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alerts"})
		return
	}

	display := make([]models.AlertDisplay, 0, len(alerts))
	for _, a := range alerts {
		translated := a.Message
		if device.Language != h.canonicalLang {
			translated = h.translator.Translate(c.Request.Context(), a.Message, device.Language)
		}
		display = append(display, models.AlertDisplay{
			ID:                a.ID,
			AlertID:           a.AlertID,
			Message:           a.Message,
			TranslatedMessage: translated,
			Severity:          a.Severity,
			Timestamp:         a.Timestamp.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, display)
}

// TranslateBatch translates a list of texts to a target language.
func (h *Handler) TranslateBatch(c *gin.Context) {
	var in models.TranslationRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Errorf("Invalid request body for translation: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	out := models.TranslationResponse{Translations: make([]string, 0, len(in.Texts))}
	for _, text := range in.Texts {
		out.Translations = append(out.Translations, h.translator.Translate(c.Request.Context(), text, in.TargetLang))
	}
	c.JSON(http.StatusOK, out)
}
