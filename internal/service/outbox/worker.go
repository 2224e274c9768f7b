// Package outbox публикует события заказов, накопленные в transactional outbox.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

const (
	defaultPollInterval   = 1 * time.Second
	defaultBatchSize      = 100
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 50 * time.Millisecond
	maxRetryDelay         = 5 * time.Second
)

// workerMetrics - метрики публикации outbox.
type workerMetrics struct {
	attempts      *prometheus.CounterVec
	pending       prometheus.Gauge
	oldestPending prometheus.Gauge
}

func newWorkerMetrics(registerer prometheus.Registerer) *workerMetrics {
	m := &workerMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodorder_outbox_publish_attempts_total",
			Help: "Total number of outbox publish attempts grouped by result.",
		}, []string{"result"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foodorder_outbox_pending_records",
			Help: "Current number of pending records in transactional outbox.",
		}),
		oldestPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foodorder_outbox_oldest_pending_age_seconds",
			Help: "Age in seconds of the oldest pending outbox record.",
		}),
	}
	if registerer == nil {
		return m
	}
	m.attempts = registerOrReuse(registerer, m.attempts)
	m.pending = registerOrReuse(registerer, m.pending)
	m.oldestPending = registerOrReuse(registerer, m.oldestPending)
	return m
}

func registerOrReuse[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return collector
}

// Config задаёт параметры outbox worker.
type Config struct {
	Logger *log.Entry
	// DeadLetter получает сообщения, которые не удалось опубликовать за MaxAttempts.
	DeadLetter     domain.OutboxPublisher
	Registerer     prometheus.Registerer
	PollInterval   time.Duration
	BatchSize      int
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

// Option настраивает Worker.
type Option func(*Config)

// WithLogger задаёт logger для воркера.
func WithLogger(logger *log.Entry) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}

// WithDeadLetter задаёт publisher для сообщений, исчерпавших попытки.
func WithDeadLetter(publisher domain.OutboxPublisher) Option {
	return func(cfg *Config) { cfg.DeadLetter = publisher }
}

// WithRegisterer задаёт реестр prometheus. По умолчанию DefaultRegisterer.
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(cfg *Config) { cfg.Registerer = registerer }
}

// WithPollInterval задаёт частоту опроса outbox.
func WithPollInterval(interval time.Duration) Option {
	return func(cfg *Config) { cfg.PollInterval = interval }
}

// WithBatchSize задаёт размер батча из outbox.
func WithBatchSize(batchSize int) Option {
	return func(cfg *Config) { cfg.BatchSize = batchSize }
}

// WithMaxAttempts задаёт число попыток публикации одного сообщения.
func WithMaxAttempts(maxAttempts int) Option {
	return func(cfg *Config) { cfg.MaxAttempts = maxAttempts }
}

// WithRetryBaseDelay задаёт базовую задержку exponential backoff.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(cfg *Config) { cfg.RetryBaseDelay = delay }
}

// Report - итог одного цикла опроса.
type Report struct {
	Sent   int
	Failed int
}

// Worker публикует pending-сообщения из outbox в брокер.
type Worker struct {
	repo       domain.OutboxRepository
	publisher  domain.OutboxPublisher
	deadLetter domain.OutboxPublisher
	logger     *log.Entry
	metrics    *workerMetrics
	cfg        Config
}

// NewWorker создаёт outbox worker.
func NewWorker(repo domain.OutboxRepository, publisher domain.OutboxPublisher, options ...Option) *Worker {
	cfg := Config{
		Registerer:     prometheus.DefaultRegisterer,
		PollInterval:   defaultPollInterval,
		BatchSize:      defaultBatchSize,
		MaxAttempts:    defaultMaxAttempts,
		RetryBaseDelay: defaultRetryBaseDelay,
	}
	for _, option := range options {
		option(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = log.WithField("component", "outbox-worker")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryBaseDelay < 0 {
		cfg.RetryBaseDelay = 0
	}

	return &Worker{
		repo:       repo,
		publisher:  publisher,
		deadLetter: cfg.DeadLetter,
		logger:     cfg.Logger,
		metrics:    newWorkerMetrics(cfg.Registerer),
		cfg:        cfg,
	}
}

// Run опрашивает outbox до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.repo == nil || w.publisher == nil {
		w.logger.Warn("outbox worker is disabled: repo or publisher is nil")
		return
	}

	w.logger.WithFields(log.Fields{
		"poll_interval": w.cfg.PollInterval.String(),
		"batch_size":    w.cfg.BatchSize,
	}).Info("outbox worker started")

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		w.ProcessOnce(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessOnce публикует один батч pending-сообщений.
func (w *Worker) ProcessOnce(ctx context.Context) Report {
	var report Report
	if ctx.Err() != nil {
		return report
	}

	w.refreshBacklog()
	defer w.refreshBacklog()

	messages, err := w.repo.PullPending(w.cfg.BatchSize)
	if err != nil {
		w.logger.WithError(err).Warn("failed to pull pending outbox messages")
		return report
	}

	for _, msg := range messages {
		if ctx.Err() != nil {
			return report
		}
		entry := w.logger.WithFields(log.Fields{
			"outbox_id":  msg.ID,
			"event_type": msg.EventType,
			"order_id":   msg.AggregateID,
		})

		if err := w.publishWithRetry(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return report
			}
			report.Failed++
			w.metrics.attempts.WithLabelValues("failed").Inc()
			entry.WithError(err).Error("outbox publish failed after retries")

			if dlErr := w.sendToDeadLetter(ctx, msg, err); dlErr != nil {
				w.metrics.attempts.WithLabelValues("dead_letter_failed").Inc()
				entry.WithError(dlErr).Warn("failed to publish to dead letter topic")
			}
			if markErr := w.repo.MarkFailed(msg.ID); markErr != nil {
				entry.WithError(markErr).Warn("failed to mark outbox message as failed")
			}
			continue
		}

		report.Sent++
		if err := w.repo.MarkSent(msg.ID); err != nil {
			entry.WithError(err).Warn("failed to mark outbox message as sent")
		}
	}

	return report
}

func (w *Worker) publishWithRetry(ctx context.Context, msg domain.OutboxMessage) error {
	var lastErr error
	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		lastErr = w.publisher.Publish(ctx, msg)
		if lastErr == nil {
			w.metrics.attempts.WithLabelValues("sent").Inc()
			return nil
		}
		w.metrics.attempts.WithLabelValues("retry_error").Inc()

		if attempt == w.cfg.MaxAttempts {
			break
		}
		if delay := w.backoff(attempt); delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("publish failed after %d attempts: %w", w.cfg.MaxAttempts, lastErr)
}

// backoff удваивает базовую задержку на каждой попытке, не превышая maxRetryDelay.
func (w *Worker) backoff(attempt int) time.Duration {
	delay := w.cfg.RetryBaseDelay
	for i := 1; i < attempt && delay > 0 && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

func (w *Worker) refreshBacklog() {
	stats, err := w.repo.Stats()
	if err != nil {
		w.logger.WithError(err).Warn("failed to collect outbox backlog stats")
		return
	}

	w.metrics.pending.Set(float64(stats.PendingCount))
	if stats.PendingCount == 0 || stats.OldestPendingAt.IsZero() {
		w.metrics.oldestPending.Set(0)
		return
	}
	w.metrics.oldestPending.Set(max(time.Since(stats.OldestPendingAt).Seconds(), 0))
}

// deadLetterEnvelope - содержимое сообщения в dead letter топике.
type deadLetterEnvelope struct {
	OutboxID     string          `json:"outbox_id"`
	EventType    string          `json:"event_type"`
	OrderID      string          `json:"order_id"`
	Payload      json.RawMessage `json:"payload"`
	PublishError string          `json:"publish_error"`
	FailedAt     time.Time       `json:"failed_at"`
}

func (w *Worker) sendToDeadLetter(ctx context.Context, msg domain.OutboxMessage, publishErr error) error {
	if w.deadLetter == nil {
		return nil
	}

	payload := msg.Payload
	if !json.Valid(payload) {
		payload = nil
	}
	body, err := json.Marshal(deadLetterEnvelope{
		OutboxID:     msg.ID,
		EventType:    msg.EventType,
		OrderID:      msg.AggregateID,
		Payload:      payload,
		PublishError: publishErr.Error(),
		FailedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal dead letter envelope: %w", err)
	}

	dead := msg
	dead.Payload = body
	if err := w.deadLetter.Publish(ctx, dead); err != nil {
		return fmt.Errorf("publish to dead letter: %w", err)
	}
	return nil
}
