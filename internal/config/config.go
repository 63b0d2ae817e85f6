package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	DB struct {
		DSN string
	}
	Feed struct {
		URL  string
		TopN int
	}
	Ingest struct {
		Interval     time.Duration
		CanonicalLng string
	}
	Translate struct {
		APIKey string
		APIURL string
	}
	Notify struct {
		LogFile string
	}
	Telegram struct {
		BotToken  string
		RateLimit int
	}
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	API struct {
		Port     string
		BasePath string
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Database DSN
	cfg.DB.DSN = os.Getenv("DB_DSN")

	// Alert feed settings
	cfg.Feed.URL = os.Getenv("FEED_URL")
	if n, err := strconv.Atoi(os.Getenv("FEED_TOP_N")); err == nil {
		cfg.Feed.TopN = n
	}

	// Ingestion settings
	if d, err := time.ParseDuration(os.Getenv("POLL_INTERVAL")); err == nil {
		cfg.Ingest.Interval = d
	}
	cfg.Ingest.CanonicalLng = os.Getenv("CANONICAL_LANGUAGE")

	// Translation provider settings
	cfg.Translate.APIKey = os.Getenv("TRANSLATE_API_KEY")
	cfg.Translate.APIURL = os.Getenv("TRANSLATE_API_URL")

	// Delivery log settings
	cfg.Notify.LogFile = os.Getenv("NOTIFY_LOG")

	// Telegram settings
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if r, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_LIMIT")); err == nil {
		cfg.Telegram.RateLimit = r
	}

	// Kafka settings (optional alert injection source)
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Logging settings
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Feed.URL == "" {
		cfg.Feed.URL = "https://www.fema.gov/api/open/v1/IpawsArchivedAlerts"
	}
	if cfg.Feed.TopN == 0 {
		cfg.Feed.TopN = 10
	}
	if cfg.Ingest.Interval == 0 {
		cfg.Ingest.Interval = 60 * time.Second
	}
	if cfg.Ingest.CanonicalLng == "" {
		cfg.Ingest.CanonicalLng = "en"
	}
	if cfg.Translate.APIURL == "" {
		cfg.Translate.APIURL = "https://api-free.deepl.com/v2/translate"
	}
	if cfg.Notify.LogFile == "" {
		cfg.Notify.LogFile = "notifications.log"
	}
	if cfg.Telegram.RateLimit == 0 {
		cfg.Telegram.RateLimit = 5
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "alert_injection"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "emergency-alert-service"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
