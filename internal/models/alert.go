package models

import (
	"time"

	"github.com/google/uuid"
)

// RawAlert is a single alert as normalized from the external feed. It is
// transient: the feed client builds it, the ingestion pipeline consumes it.
type RawAlert struct {
	ID       string `json:"id"`
	Message  string `json:"messageText"`
	Severity string `json:"severity"`
}

// Alert is a persisted alert record. AlertID is the source-assigned
// identifier and the dedupe key; at most one row per AlertID ever exists.
// Message is stored verbatim in the canonical language.
type Alert struct {
	ID        uuid.UUID `json:"id"`
	AlertID   string    `json:"alert_id"`
	Message   string    `json:"message"`
	Language  string    `json:"language"`
	Severity  string    `json:"severity,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertDisplay is an Alert shaped for the history endpoint, carrying the
// message translated into the requesting device's preferred language.
type AlertDisplay struct {
	ID                uuid.UUID `json:"id"`
	AlertID           string    `json:"alert_id"`
	Message           string    `json:"message"`
	TranslatedMessage string    `json:"translated_message"`
	Severity          string    `json:"severity"`
	Timestamp         string    `json:"timestamp"`
}

// TranslationRequest is the body of the ad-hoc translation endpoint.
type TranslationRequest struct {
	Texts      []string `json:"texts" binding:"required"`
	TargetLang string   `json:"target_lang" binding:"required"`
}

// TranslationResponse carries translations in the same order as the request.
type TranslationResponse struct {
	Translations []string `json:"translations"`
}
