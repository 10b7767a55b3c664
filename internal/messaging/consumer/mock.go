package consumer

import (
	"context"
	"errors"
	"log"
	"tenlog/internal/models"
)

// MockConsumer simulates an at-least-once queue with an in-memory channel.
// A nack re-queues the envelope, so redelivery behaviour can be exercised
// without a broker.
type MockConsumer struct {
	logger    *log.Logger
	envelopes chan *models.LogEnvelope
}

// PredefinedEnvelopes stores the envelopes loaded at startup when the worker
// runs against the mock queue.
var PredefinedEnvelopes []*models.LogEnvelope

// init generates fixed test data when the package is loaded.
func init() {
	PredefinedEnvelopes = []*models.LogEnvelope{
		{
			TenantID: "acme",
			LogID:    "a1b1c1d1-e1f1-1111-2222-1234567890ab",
			Text:     "User 555-0199 accessed the dashboard",
			Source:   models.SourceJSONUpload,
		},
		{
			TenantID: "beta_inc",
			LogID:    "a2b2c2d2-e2f2-3333-4444-abcdef123456",
			Text:     "Support called back on 555-123-4567",
			Source:   models.SourceTextUpload,
		},
		// Envelope 3 repeats envelope 1's key (simulates a redelivered message)
		{
			TenantID: "acme",
			LogID:    "a1b1c1d1-e1f1-1111-2222-1234567890ab",
			Text:     "User 555-0199 accessed the dashboard",
			Source:   models.SourceJSONUpload,
		},
	}
}

// NewMockConsumer creates a MockConsumer and loads predefined envelopes.
func NewMockConsumer(logger *log.Logger) *MockConsumer {
	mc := NewEmptyMockConsumer(logger, len(PredefinedEnvelopes)+5)
	logger.Println("[MockConsumer] Initializing with predefined envelopes...")
	for _, env := range PredefinedEnvelopes {
		mc.envelopes <- env
		logger.Printf("[MockConsumer] Added predefined envelope: tenant_id=%s log_id=%s", env.TenantID, env.LogID)
	}
	logger.Println("[MockConsumer] Predefined envelopes loaded")
	return mc
}

// NewEmptyMockConsumer creates a MockConsumer without preloaded envelopes.
// Tests feed it through Enqueue.
func NewEmptyMockConsumer(logger *log.Logger, buffer int) *MockConsumer {
	return &MockConsumer{
		logger:    logger,
		envelopes: make(chan *models.LogEnvelope, buffer),
	}
}

// Enqueue delivers an envelope to the mock queue.
func (m *MockConsumer) Enqueue(env *models.LogEnvelope) {
	m.envelopes <- env
}

// Consume reads envelopes from the channel.
func (m *MockConsumer) Consume(ctx context.Context) (env *models.LogEnvelope, ack func(success bool), err error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case env := <-m.envelopes:
		if env == nil {
			m.logger.Println("[MockConsumer] Envelope channel closed")
			return nil, nil, errors.New("envelope channel closed")
		}
		m.logger.Printf("[MockConsumer] Consumed envelope: tenant_id=%s log_id=%s", env.TenantID, env.LogID)

		ackCallback := func(success bool) {
			if success {
				m.logger.Printf("[MockConsumer] ACK received for envelope: log_id=%s", env.LogID)
			} else {
				m.logger.Printf("[MockConsumer] NACK received for envelope: log_id=%s. Re-queueing (mock)", env.LogID)
				select {
				case m.envelopes <- env:
					m.logger.Printf("[MockConsumer] Envelope re-queued: log_id=%s", env.LogID)
				default:
					m.logger.Printf("[MockConsumer] Warning: Failed to re-queue envelope (channel full?): log_id=%s", env.LogID)
				}
			}
		}
		return env, ackCallback, nil
	}
}

// Close closes the envelope channel.
func (m *MockConsumer) Close() error {
	m.logger.Println("[MockConsumer] Closing...")
	close(m.envelopes)
	return nil
}

var _ Consumer = (*MockConsumer)(nil)
