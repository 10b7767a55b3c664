package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tenlog/config"
	"tenlog/internal/messaging/consumer"
	"tenlog/internal/messaging/producer"
	"tenlog/internal/models"
	"tenlog/storage/store"
)

// Worker consumes normalized envelopes from its dedicated consumer and drives
// each one through the processing pipeline: simulate workload, redact,
// persist, ack. It is stateless across deliveries; redelivering the same
// envelope any number of times is safe because the store write is an
// idempotent overwrite keyed by (tenant_id, log_id).
//
// Each Worker owns exactly one consumer. Kafka group commits are
// watermark-based: if multiple goroutines shared one reader, an ack for a
// later offset would commit past an earlier nacked one and lose its
// redelivery. Horizontal scaling comes from running more consumers
// (kafka_consumer.count), each wrapped by its own Worker.
type Worker struct {
	processingConfig   config.ProcessingConfig
	retryBackoff       time.Duration // Parsed from processingConfig.RetryBackoff
	consumerRetryDelay time.Duration // Parsed from processingConfig.ConsumerRetryDelay

	cost     CostFunc
	logger   *log.Logger
	store    store.Store
	consumer consumer.Consumer
	dlq      producer.Producer // Optional dead-letter publisher, may be nil
}

// New creates a new Worker instance. dlq may be nil, in which case exhausted
// messages are nacked back to the queue instead of being dead-lettered.
func New(cfg config.ProcessingConfig, cost CostFunc, logger *log.Logger, s store.Store, c consumer.Consumer, dlq producer.Producer) *Worker {
	if cfg.MaxDeliveryAttempts <= 0 {
		cfg.MaxDeliveryAttempts = 1
	}

	// Parse time duration strings
	retryBackoff, err := time.ParseDuration(cfg.RetryBackoff)
	if err != nil {
		logger.Printf("Warning: Invalid retry_backoff '%s', using default 1s", cfg.RetryBackoff)
		retryBackoff = 1 * time.Second
	}

	consumerRetryDelay, err := time.ParseDuration(cfg.ConsumerRetryDelay)
	if err != nil {
		logger.Printf("Warning: Invalid consumer_retry_delay '%s', using default 5s", cfg.ConsumerRetryDelay)
		consumerRetryDelay = 5 * time.Second
	}

	return &Worker{
		processingConfig:   cfg,
		retryBackoff:       retryBackoff,
		consumerRetryDelay: consumerRetryDelay,
		cost:               cost,
		logger:             logger,
		store:              s,
		consumer:           c,
		dlq:                dlq,
	}
}

// Run consumes from the worker's dedicated consumer until the context is
// cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Printf("Starting worker (MaxDeliveryAttempts: %d)", w.processingConfig.MaxDeliveryAttempts)
	w.consumeLoop(ctx)
	w.logger.Println("Worker stopped.")
}

// consumeLoop is the worker's single consume loop. Exactly one goroutine
// reads from the consumer, so offset commits happen in delivery order.
func (w *Worker) consumeLoop(ctx context.Context) {
	for {
		env, ack, err := w.consumer.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				w.logger.Println("Worker: Context cancelled, stopping.")
				return
			}
			if errors.Is(err, consumer.ErrMalformedMessage) {
				// Per-message defect, already skipped by the consumer; the
				// connection is fine, so move straight to the next message
				continue
			}
			// Only back off on real transport errors
			w.logger.Printf("Worker: Consumer error: %v", err)
			w.sleep(ctx, w.consumerRetryDelay)
			continue
		}
		if env == nil {
			continue
		}

		w.processAndAck(ctx, env, ack)
	}
}

// processAndAck retries a delivery in-process up to the configured attempt
// budget, then either dead-letters it (if a DLQ producer is configured) or
// nacks it so the queue redelivers per its own policy.
func (w *Worker) processAndAck(ctx context.Context, env *models.LogEnvelope, ack func(success bool)) {
	var lastErr error
	for attempt := 1; attempt <= w.processingConfig.MaxDeliveryAttempts; attempt++ {
		if ctx.Err() != nil {
			// Shutting down mid-delivery: leave the message for redelivery
			ack(false)
			return
		}

		lastErr = w.processEnvelope(ctx, env)
		if lastErr == nil {
			ack(true)
			return
		}

		w.logger.Printf("Worker: Attempt %d/%d failed for (tenant_id: %s, log_id: %s): %v",
			attempt, w.processingConfig.MaxDeliveryAttempts, env.TenantID, env.LogID, lastErr)
		if attempt < w.processingConfig.MaxDeliveryAttempts {
			w.sleep(ctx, w.retryBackoff)
		}
	}

	if w.dlq != nil {
		if dlqErr := w.dlq.Publish(ctx, env); dlqErr != nil {
			w.logger.Printf("Worker: Failed to dead-letter (tenant_id: %s, log_id: %s): %v. Nacking for redelivery.",
				env.TenantID, env.LogID, dlqErr)
			ack(false)
			return
		}
		w.logger.Printf("Worker: Dead-lettered (tenant_id: %s, log_id: %s) after %d attempts, last error: %v",
			env.TenantID, env.LogID, w.processingConfig.MaxDeliveryAttempts, lastErr)
		ack(true)
		return
	}

	// No DLQ configured: hand the message back to the queue
	ack(false)
}

// processEnvelope runs one delivery attempt through the pipeline states:
// simulating -> redacting -> persisting. Any error propagates so the
// delivery is reported as failed; nothing is swallowed.
func (w *Worker) processEnvelope(ctx context.Context, env *models.LogEnvelope) error {
	if err := env.Validate(); err != nil {
		return fmt.Errorf("unprocessable envelope: %w", err)
	}

	// Simulate CPU-bound work proportional to payload size (bounded by the
	// cost function's cap)
	if err := simulateWork(ctx, w.cost, env.Text); err != nil {
		return fmt.Errorf("workload simulation interrupted: %w", err)
	}

	modified := Redact(env.Text)

	rec := &models.ProcessedLog{
		Source:       env.Source,
		OriginalText: env.Text,
		ModifiedData: modified,
		ProcessedAt:  time.Now().UTC(),
	}

	if err := w.store.WriteProcessedLog(ctx, env.TenantID, env.LogID, rec); err != nil {
		return fmt.Errorf("store write failed: %w", err)
	}

	return nil
}

// sleep waits for d or until the context is cancelled.
func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
