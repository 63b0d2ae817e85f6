package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(dsn string) (*DB, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	d.Pool.Close()
}

// EnsureSchema creates the alerts and devices tables if they do not exist.
// The UNIQUE constraint on alert_id is what makes duplicate-insert races
// fail closed: two cycles can never create two rows for one alert_id.
func (d *DB) EnsureSchema(ctx context.Context) error {
	schema := `
    CREATE TABLE IF NOT EXISTS alerts (
        id UUID PRIMARY KEY,
        alert_id TEXT NOT NULL UNIQUE,
        message TEXT NOT NULL,
        language TEXT NOT NULL,
        severity TEXT,
        timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
    );
    CREATE TABLE IF NOT EXISTS devices (
        id SERIAL PRIMARY KEY,
        device_token TEXT NOT NULL UNIQUE,
        language TEXT NOT NULL DEFAULT 'en',
        latitude DOUBLE PRECISION,
        longitude DOUBLE PRECISION
    );`
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
