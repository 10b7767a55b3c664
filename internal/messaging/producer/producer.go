package producer

import (
	"context"
	"tenlog/internal/models"
)

// Producer defines the interface for message queue producer
type Producer interface {
	// Publish sends a single log envelope to the configured topic
	Publish(ctx context.Context, env *models.LogEnvelope) error

	// PublishBatch sends log envelopes in batch to the configured topic
	PublishBatch(ctx context.Context, envs []*models.LogEnvelope) error

	// Close closes the producer connection
	Close() error
}
