package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"emergency-alert-service/internal/models"
)

// UpsertDevice registers a device, or updates language and location when the
// token is already registered.
func (d *DB) UpsertDevice(ctx context.Context, dev models.DeviceCreate) (*models.Device, error) {
	query := `
    INSERT INTO devices (device_token, language, latitude, longitude)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (device_token) DO UPDATE
        SET language = EXCLUDED.language,
            latitude = EXCLUDED.latitude,
            longitude = EXCLUDED.longitude
    RETURNING id, device_token, language, latitude, longitude`

	var out models.Device
	err := d.Pool.QueryRow(ctx, query, dev.DeviceToken, dev.Language, dev.Latitude, dev.Longitude).Scan(
		&out.ID, &out.DeviceToken, &out.Language, &out.Latitude, &out.Longitude,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device %s: %w", dev.DeviceToken, err)
	}
	return &out, nil
}

// GetDeviceByToken returns (nil, nil) when the token is not registered.
func (d *DB) GetDeviceByToken(ctx context.Context, token string) (*models.Device, error) {
	query := `
    SELECT id, device_token, language, latitude, longitude
    FROM devices
    WHERE device_token = $1`

	var dev models.Device
	err := d.Pool.QueryRow(ctx, query, token).Scan(
		&dev.ID, &dev.DeviceToken, &dev.Language, &dev.Latitude, &dev.Longitude,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get device %s: %w", token, err)
	}
	return &dev, nil
}

// ListAllDevices returns every registered device.
func (d *DB) ListAllDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := d.Pool.Query(ctx, `
    SELECT id, device_token, language, latitude, longitude
    FROM devices
    ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var list []models.Device
	for rows.Next() {
		var dev models.Device
		if err := rows.Scan(&dev.ID, &dev.DeviceToken, &dev.Language, &dev.Latitude, &dev.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		list = append(list, dev)
	}
	return list, rows.Err()
}
