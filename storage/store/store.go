package store

import (
	"context"

	"tenlog/internal/models"
)

// Store defines the persistence interface for processed logs.
//
// WriteProcessedLog is an idempotent overwrite: it never reads before writing
// and never merges, so delivering the same envelope N times leaves the exact
// same final state as delivering it once. Keys are always scoped by tenant.
type Store interface {
	// WriteProcessedLog unconditionally overwrites the record at
	// (tenantID, logID) with rec. All-or-nothing per attempt.
	WriteProcessedLog(ctx context.Context, tenantID, logID string, rec *models.ProcessedLog) error

	// Close releases the underlying connections.
	Close()
}
