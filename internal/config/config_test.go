package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/alerts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.fema.gov/api/open/v1/IpawsArchivedAlerts", cfg.Feed.URL)
	assert.Equal(t, 10, cfg.Feed.TopN)
	assert.Equal(t, 60*time.Second, cfg.Ingest.Interval)
	assert.Equal(t, "en", cfg.Ingest.CanonicalLng)
	assert.Equal(t, "notifications.log", cfg.Notify.LogFile)
	assert.Equal(t, ":8080", cfg.API.Port)
	assert.Equal(t, "/api/v0", cfg.API.BasePath)
	assert.Equal(t, "logs", cfg.Logging.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/alerts")
	t.Setenv("FEED_URL", "http://feed.test/alerts")
	t.Setenv("FEED_TOP_N", "50")
	t.Setenv("POLL_INTERVAL", "5m")
	t.Setenv("CANONICAL_LANGUAGE", "en-US")
	t.Setenv("API_PORT", ":9000")
	t.Setenv("KAFKA_BROKER", "broker:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://feed.test/alerts", cfg.Feed.URL)
	assert.Equal(t, 50, cfg.Feed.TopN)
	assert.Equal(t, 5*time.Minute, cfg.Ingest.Interval)
	assert.Equal(t, "en-US", cfg.Ingest.CanonicalLng)
	assert.Equal(t, ":9000", cfg.API.Port)
	assert.Equal(t, "broker:9092", cfg.Kafka.Broker)
	assert.Equal(t, "alert_injection", cfg.Kafka.Topic)
}
