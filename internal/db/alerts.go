package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"emergency-alert-service/internal/models"
)

// FindAlertByExternalID looks up an alert by its source-assigned id.
// Returns (nil, nil) when no such alert has been ingested yet.
func (d *DB) FindAlertByExternalID(ctx context.Context, alertID string) (*models.Alert, error) {
	query := `
    SELECT id, alert_id, message, language, COALESCE(severity, ''), timestamp
    FROM alerts
    WHERE alert_id = $1`

	var a models.Alert
	err := d.Pool.QueryRow(ctx, query, alertID).Scan(
		&a.ID, &a.AlertID, &a.Message, &a.Language, &a.Severity, &a.Timestamp,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find alert %s: %w", alertID, err)
	}
	return &a, nil
}

// InsertAlert persists a new alert record. The insert is race-tolerant: a
// concurrent insert for the same alert_id loses to the unique constraint and
// is reported as inserted=false rather than an error.
func (d *DB) InsertAlert(ctx context.Context, alertID, message, language, severity string) (*models.Alert, bool, error) {
	a := models.Alert{
		ID:        uuid.New(),
		AlertID:   alertID,
		Message:   message,
		Language:  language,
		Severity:  severity,
		Timestamp: time.Now(),
	}

	query := `
    INSERT INTO alerts (id, alert_id, message, language, severity, timestamp)
    VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
    ON CONFLICT (alert_id) DO NOTHING`

	tag, err := d.Pool.Exec(ctx, query,
		a.ID, a.AlertID, a.Message, a.Language, a.Severity, a.Timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert alert %s: %w", alertID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, false, nil
	}
	return &a, true, nil
}

// GetRecentAlerts returns the most recently ingested alerts, newest first.
func (d *DB) GetRecentAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	query := `
    SELECT id, alert_id, message, language, COALESCE(severity, ''), timestamp
    FROM alerts
    ORDER BY timestamp DESC
    LIMIT $1`

	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent alerts: %w", err)
	}
	defer rows.Close()

	var list []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.AlertID, &a.Message, &a.Language, &a.Severity, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
