// Package kafka consumes externally injected alerts and feeds them through
// the same ingestion path as the polled feed.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"

	"emergency-alert-service/internal/ingest"
	"emergency-alert-service/internal/logging"
	"emergency-alert-service/internal/models"
)

type Config struct {
	Broker  string
	Topic   string
	GroupID string
}

// Consumer reads alert messages from Kafka and hands them to the pipeline.
// Invalid messages are logged and skipped; the consumer never stops over a
// single bad message.
type Consumer struct {
	reader   *kafka.Reader
	pipeline *ingest.Pipeline
	logger   *logging.Logger
}

func NewConsumer(cfg Config, pipeline *ingest.Pipeline, logger *logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	return &Consumer{reader: reader, pipeline: pipeline, logger: logger}
}

func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started on topic %s", c.reader.Config().Topic)

		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				// EOF means the reader was closed during shutdown.
				if ctx.Err() != nil || errors.Is(err, io.EOF) {
					c.logger.Infof("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}

			raw, ok := c.parse(msg.Value)
			if !ok {
				continue
			}
			c.pipeline.Ingest(ctx, []models.RawAlert{raw})
		}
	}()
}

// parse validates one injected alert message.
func (c *Consumer) parse(value []byte) (models.RawAlert, bool) {
	var in struct {
		ID          string `json:"id"`
		MessageText string `json:"messageText"`
		Severity    string `json:"severity"`
	}
	if err := json.Unmarshal(value, &in); err != nil {
		c.logger.Errorf("Unmarshal message failed: %v", err)
		return models.RawAlert{}, false
	}
	if in.ID == "" || in.MessageText == "" {
		c.logger.Errorf("Invalid message: missing id or messageText")
		return models.RawAlert{}, false
	}
	severity := in.Severity
	if severity == "" {
		severity = "Unknown"
	}
	return models.RawAlert{ID: in.ID, Message: in.MessageText, Severity: severity}, true
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}
