package producer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"tenlog/config"
	"tenlog/internal/models"
)

// Kafka header keys carrying envelope metadata alongside the raw text payload.
// The worker reconstructs the envelope from these, so both sides must agree.
const (
	HeaderTenantID = "tenant_id"
	HeaderLogID    = "log_id"
	HeaderSource   = "source"
)

// KafkaProducer implements the Producer interface
type KafkaProducer struct {
	writer *kafka.Writer
	logger *log.Logger
	topic  string
}

// NewKafkaProducer creates a new KafkaProducer
func NewKafkaProducer(cfg config.KafkaProducerConfig, logger *log.Logger) (*KafkaProducer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New("kafka producer configuration incomplete: both brokers and topic are required")
	}

	// Set defaults for batch settings if not configured
	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = 100 // Default batch size
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = 100 * time.Millisecond // Default batch timeout
	}

	batchBytes := cfg.BatchBytes
	if batchBytes == 0 {
		batchBytes = 5 * 1024 * 1024 // Default 5MB
	}

	// Parse required_acks setting
	var requiredAcks kafka.RequiredAcks
	switch cfg.RequiredAcks {
	case "none":
		requiredAcks = kafka.RequireNone
	case "one":
		requiredAcks = kafka.RequireOne
	case "all":
		requiredAcks = kafka.RequireAll
	default:
		requiredAcks = kafka.RequireOne // Default to wait for leader
	}

	// Set async default if not configured
	asyncMode := cfg.Async
	if !cfg.Async && cfg.RequiredAcks == "" {
		asyncMode = true // Default to async mode
	}

	// Set timeouts if not configured
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 5 * time.Second
	}

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 5 * time.Second
	}

	// Configure Kafka Writer
	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{}, // Keyed by tenant: a tenant's logs stay on one partition

		BatchSize:    batchSize,
		BatchTimeout: batchTimeout,
		BatchBytes:   int64(batchBytes),

		// Reliability settings
		RequiredAcks: requiredAcks,
		Async:        asyncMode,

		// Performance settings
		WriteTimeout: writeTimeout,
		ReadTimeout:  readTimeout,

		// Error handling
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Printf("Kafka Writer Error: "+msg, args...)
		}),
	}

	logger.Printf("Kafka producer created, connected to Brokers: %v, Topic: %s", cfg.Brokers, cfg.Topic)

	return &KafkaProducer{
		writer: w,
		logger: logger,
		topic:  cfg.Topic,
	}, nil
}

// envelopeToMessage converts an envelope to the wire format: the normalized
// text is the message value, tenant/log/source ride as headers.
func envelopeToMessage(env *models.LogEnvelope) (kafka.Message, error) {
	if err := env.Validate(); err != nil {
		return kafka.Message{}, fmt.Errorf("refusing to publish invalid envelope: %w", err)
	}

	return kafka.Message{
		Key:   []byte(env.TenantID),
		Value: []byte(env.Text),
		Headers: []kafka.Header{
			{Key: HeaderTenantID, Value: []byte(env.TenantID)},
			{Key: HeaderLogID, Value: []byte(env.LogID)},
			{Key: HeaderSource, Value: []byte(env.Source)},
		},
	}, nil
}

// Publish sends a single envelope
func (p *KafkaProducer) Publish(ctx context.Context, env *models.LogEnvelope) error {
	kafkaMsg, err := envelopeToMessage(env)
	if err != nil {
		return err
	}

	// Send message
	err = p.writer.WriteMessages(ctx, kafkaMsg)
	if err != nil {
		// This error is usually local errors like buffer full or context cancellation
		p.logger.Printf("Failed to send Kafka message to buffer (tenant_id: %s, log_id: %s): %v", env.TenantID, env.LogID, err)
		return fmt.Errorf("failed to write to Kafka buffer: %w", err)
	}

	return nil
}

// PublishBatch sends log envelopes in batch to the configured topic
func (p *KafkaProducer) PublishBatch(ctx context.Context, envs []*models.LogEnvelope) error {
	if len(envs) == 0 {
		return nil
	}

	kafkaMsgs := make([]kafka.Message, len(envs))
	for i, env := range envs {
		msg, err := envelopeToMessage(env)
		if err != nil {
			return err
		}
		kafkaMsgs[i] = msg
	}

	// Send messages in batch
	err := p.writer.WriteMessages(ctx, kafkaMsgs...)
	if err != nil {
		p.logger.Printf("Failed to send Kafka messages in batch (count: %d): %v", len(envs), err)
		return fmt.Errorf("failed to batch write to Kafka buffer: %w", err)
	}

	p.logger.Printf("Successfully added %d Kafka messages to send queue (Topic: %s)", len(envs), p.topic)
	return nil
}

// Close closes the producer
func (p *KafkaProducer) Close() error {
	p.logger.Println("Closing Kafka producer (and flushing buffer)...")
	return p.writer.Close() // Close will attempt to send remaining messages in buffer
}

var _ Producer = (*KafkaProducer)(nil) // Compile-time interface check
