// Package ingest contains the alert ingestion pipeline: fetch from the feed,
// deduplicate against the store, persist in the canonical language, and fan
// each new alert out to every registered device.
package ingest

import (
	"context"
	"sync"
	"time"

	"emergency-alert-service/internal/logging"
	"emergency-alert-service/internal/models"
)

// Store is the persistence surface the pipeline depends on. It must enforce
// alert_id uniqueness; InsertAlert reports inserted=false when a concurrent
// insert for the same alert_id already won.
type Store interface {
	FindAlertByExternalID(ctx context.Context, alertID string) (*models.Alert, error)
	InsertAlert(ctx context.Context, alertID, message, language, severity string) (*models.Alert, bool, error)
	ListAllDevices(ctx context.Context) ([]models.Device, error)
}

// Source fetches new alerts, oldest-first. A failed fetch is indistinguishable
// from a quiet feed: the source logs and returns an empty batch.
type Source interface {
	FetchNewAlerts(ctx context.Context) []models.RawAlert
}

// Translator translates text into a target language, falling back to a mock
// translation instead of failing.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

// Sink performs one best-effort delivery. It never fails to the caller.
type Sink interface {
	Deliver(ctx context.Context, deviceToken, message string)
}

// Broadcaster pushes a newly ingested alert to live subscribers.
type Broadcaster interface {
	Broadcast(alert models.Alert)
}

// Pipeline runs the ingestion cycle on a fixed cadence. Cycles never overlap:
// the next tick starts only after the previous cycle has finished.
type Pipeline struct {
	store       Store
	source      Source
	translator  Translator
	sink        Sink
	broadcaster Broadcaster
	logger      *logging.Logger

	canonicalLang string
	interval      time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup
}

func New(store Store, source Source, translator Translator, sink Sink, canonicalLang string, interval time.Duration, logger *logging.Logger) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		store:         store,
		source:        source,
		translator:    translator,
		sink:          sink,
		logger:        logger,
		canonicalLang: canonicalLang,
		interval:      interval,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// SetBroadcaster wires an optional live fan-out for ingested alerts.
func (p *Pipeline) SetBroadcaster(b Broadcaster) {
	p.broadcaster = b
}

// Start launches the polling loop on a dedicated goroutine. The first cycle
// runs immediately, then one per interval.
func (p *Pipeline) Start(wg *sync.WaitGroup) {
	p.wg = wg
	wg.Add(1)
	go p.loop()
}

// Stop cancels the loop. The in-flight cycle finishes before the goroutine
// exits; callers wait on the WaitGroup passed to Start.
func (p *Pipeline) Stop() {
	p.cancel()
}

func (p *Pipeline) loop() {
	defer p.wg.Done()

	p.logger.Infof("Ingestion pipeline started, polling every %s", p.interval)
	p.RunCycle(p.ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			p.logger.Infof("Ingestion pipeline stopped")
			return
		case <-ticker.C:
			p.RunCycle(p.ctx)
		}
	}
}

// RunCycle executes one fetch/dedupe/persist/fan-out cycle. Any panic is
// recovered here so a broken cycle can never take the loop down.
func (p *Pipeline) RunCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("Ingestion cycle panicked: %v", r)
		}
	}()

	p.logger.Debugf("Checking for new alerts...")
	alerts := p.source.FetchNewAlerts(ctx)
	if len(alerts) == 0 {
		p.logger.Infof("No new alerts found")
		return
	}
	p.Ingest(ctx, alerts)
	p.logger.Debugf("Finished checking for alerts")
}

// Ingest runs the dedupe/persist/fan-out path for a batch of raw alerts, in
// the order given. It is also the entry point for alerts injected over Kafka.
func (p *Pipeline) Ingest(ctx context.Context, alerts []models.RawAlert) {
	for _, raw := range alerts {
		p.processAlert(ctx, raw)
	}
}

// processAlert ingests a single alert. Each alert is its own unit of work: a
// store or delivery fault here is logged and the caller moves on to the next
// alert.
func (p *Pipeline) processAlert(ctx context.Context, raw models.RawAlert) {
	// The source should have filtered these already.
	if raw.ID == "" {
		return
	}

	existing, err := p.store.FindAlertByExternalID(ctx, raw.ID)
	if err != nil {
		p.logger.Errorf("Dedupe lookup for alert %s failed: %v", raw.ID, err)
		return
	}
	if existing != nil {
		// Already ingested: no new record, no re-notification.
		return
	}

	p.logger.Infof("Processing new alert: %s", raw.ID)

	alert, inserted, err := p.store.InsertAlert(ctx, raw.ID, raw.Message, p.canonicalLang, raw.Severity)
	if err != nil {
		p.logger.Errorf("Persist alert %s failed: %v", raw.ID, err)
		return
	}
	if !inserted {
		// Lost an insert race: treat exactly like a dedupe hit.
		p.logger.Debugf("Alert %s inserted concurrently elsewhere, skipping fan-out", raw.ID)
		return
	}

	if p.broadcaster != nil {
		p.broadcaster.Broadcast(*alert)
	}

	devices, err := p.store.ListAllDevices(ctx)
	if err != nil {
		p.logger.Errorf("Device enumeration for alert %s failed: %v", raw.ID, err)
		return
	}

	for _, device := range devices {
		message := raw.Message
		if device.Language != p.canonicalLang {
			message = p.translator.Translate(ctx, raw.Message, device.Language)
		}
		p.sink.Deliver(ctx, device.DeviceToken, message)
	}
}
