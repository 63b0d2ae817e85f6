package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"emergency-alert-service/internal/api"
	"emergency-alert-service/internal/config"
	"emergency-alert-service/internal/db"
	"emergency-alert-service/internal/feed"
	"emergency-alert-service/internal/ingest"
	"emergency-alert-service/internal/kafka"
	"emergency-alert-service/internal/logging"
	"emergency-alert-service/internal/notify"
	"emergency-alert-service/internal/translate"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config load failed:", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatal("Logger init failed:", err)
	}

	// Connect to DB
	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		log.Fatal("DB connect failed:", err)
	}
	defer dbConn.Close()
	if err := dbConn.EnsureSchema(context.Background()); err != nil {
		logger.Errorf("Schema setup failed: %v", err)
		log.Fatal("Schema setup failed:", err)
	}

	// Translation gateway: real provider only when an API key is configured,
	// otherwise every call uses the mock fallback.
	var provider translate.Provider
	if cfg.Translate.APIKey != "" {
		provider = translate.NewDeepLProvider(cfg.Translate.APIURL, cfg.Translate.APIKey)
	}
	gateway := translate.NewGateway(provider, logger)

	// Delivery sink, optionally with real Telegram delivery
	sink := notify.NewSink(cfg.Notify.LogFile, logger)
	if cfg.Telegram.BotToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.RateLimit, logger)
		if err != nil {
			logger.Errorf("Telegram init failed, continuing without it: %v", err)
		} else {
			sink = sink.WithTelegram(tg)
		}
	}

	// Ingestion pipeline
	source := feed.NewClient(cfg.Feed.URL, cfg.Feed.TopN, logger)
	pipeline := ingest.New(dbConn, source, gateway, sink, cfg.Ingest.CanonicalLng, cfg.Ingest.Interval, logger)

	hub := api.NewHub(logger)
	pipeline.SetBroadcaster(hub)

	var wg sync.WaitGroup
	pipeline.Start(&wg)

	// Optional Kafka alert injection
	ctx, cancel := context.WithCancel(context.Background())
	var consumer *kafka.Consumer
	if cfg.Kafka.Broker != "" {
		consumer = kafka.NewConsumer(kafka.Config{
			Broker:  cfg.Kafka.Broker,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, pipeline, logger)
		consumer.Start(ctx, &wg)
	}

	// Start API server
	h := api.NewHandler(dbConn, gateway, cfg.Ingest.CanonicalLng, logger)
	r := api.NewRouter(h, hub, logger, cfg)
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := r.Run(cfg.API.Port); err != nil {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	cancel()
	pipeline.Stop()
	if consumer != nil {
		consumer.Close()
	}
	wg.Wait()
	logger.Infof("Service stopped")
}
