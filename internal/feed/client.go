// Package feed fetches archived IPAWS alerts from the OpenFEMA API and
// normalizes them for ingestion.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"emergency-alert-service/internal/logging"
	"emergency-alert-service/internal/models"
)

// feedResponse mirrors the OpenFEMA response envelope.
type feedResponse struct {
	IpawsArchivedAlerts []feedAlert `json:"IpawsArchivedAlerts"`
}

type feedAlert struct {
	ID          string `json:"id"`
	MessageText string `json:"messageText"`
	Severity    string `json:"severity"`
}

// Client fetches a bounded window of recent alerts from the external feed.
// It never surfaces an error to its caller: a failed fetch is reported as an
// empty batch so the pipeline treats it like a quiet cycle.
type Client struct {
	http   *resty.Client
	url    string
	topN   int
	logger *logging.Logger
}

func NewClient(url string, topN int, logger *logging.Logger) *Client {
	return &Client{
		http:   resty.New().SetTimeout(15 * time.Second),
		url:    url,
		topN:   topN,
		logger: logger,
	}
}

// FetchNewAlerts requests the topN most recent alerts with non-null message
// text and returns them oldest-first. Records missing an id or message text
// are dropped; a missing severity defaults to "Unknown".
func (c *Client) FetchNewAlerts(ctx context.Context) []models.RawAlert {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("$top", fmt.Sprintf("%d", c.topN)).
		SetQueryParam("$filter", "messageText ne null").
		Get(c.url)
	if err != nil {
		c.logger.Errorf("Could not fetch alerts from feed: %v", err)
		return nil
	}
	if resp.IsError() {
		c.logger.Errorf("Feed returned status %d", resp.StatusCode())
		return nil
	}

	var body feedResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		c.logger.Errorf("Could not parse feed response: %v", err)
		return nil
	}

	alerts := make([]models.RawAlert, 0, len(body.IpawsArchivedAlerts))
	for _, a := range body.IpawsArchivedAlerts {
		if a.ID == "" || a.MessageText == "" {
			continue
		}
		severity := a.Severity
		if severity == "" {
			severity = "Unknown"
		}
		alerts = append(alerts, models.RawAlert{
			ID:       a.ID,
			Message:  a.MessageText,
			Severity: severity,
		})
	}

	// The feed returns most-recent-first; reverse so the pipeline ingests
	// and notifies in event order.
	for i, j := 0, len(alerts)-1; i < j; i, j = i+1, j-1 {
		alerts[i], alerts[j] = alerts[j], alerts[i]
	}
	return alerts
}
