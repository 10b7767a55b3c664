package consumer

import (
	"context"
	"errors"
	"tenlog/internal/models"
)

// ErrMalformedMessage reports a message that cannot be turned into a valid
// envelope. The consumer has already disposed of it (committed the offset),
// so callers should move on to the next message rather than back off.
var ErrMalformedMessage = errors.New("malformed queue message")

// Consumer defines the interface for message queue consumers.
type Consumer interface {
	// Consume blocks until a message is received or the context is cancelled.
	// It returns the envelope, an acknowledgement callback, and any error that occurred.
	// The ack callback: ack(true) for successful processing (message will be deleted);
	// ack(false) for temporary failure (message will be redelivered).
	Consume(ctx context.Context) (env *models.LogEnvelope, ack func(success bool), err error)

	// Close gracefully shuts down the consumer connection.
	Close() error
}
