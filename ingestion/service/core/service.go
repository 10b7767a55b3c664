package service

import (
	"context"
	"fmt"
	"log"

	"tenlog/internal/messaging/producer"
	"tenlog/internal/models"
)

// AcceptResult defines the return information after a submission is accepted
type AcceptResult struct {
	TenantID string
	LogID    string
}

// Service encapsulates the core business logic of the ingestion gateway.
// It owns envelope construction and publication; it never touches storage and
// never waits on downstream processing.
type Service struct {
	producer producer.Producer
	logger   *log.Logger
}

// NewService creates a new Service instance
func NewService(p producer.Producer, l *log.Logger) *Service {
	return &Service{
		producer: p,
		logger:   l,
	}
}

// Submit publishes a normalized envelope to the queue and acknowledges
// acceptance. The envelope's (tenant_id, log_id) pair is final at this point:
// it must not change across redeliveries of the same logical submission.
func (s *Service) Submit(ctx context.Context, env *models.LogEnvelope) (*AcceptResult, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	if err := s.producer.Publish(ctx, env); err != nil {
		s.logger.Printf("Service: Failed to publish envelope (tenant_id: %s, log_id: %s): %v", env.TenantID, env.LogID, err)
		return nil, fmt.Errorf("failed to publish log submission: %w", err)
	}

	return &AcceptResult{
		TenantID: env.TenantID,
		LogID:    env.LogID,
	}, nil
}
