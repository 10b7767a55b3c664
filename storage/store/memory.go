package store

import (
	"context"
	"fmt"
	"sync"

	"tenlog/internal/models"
)

// MemoryStore is an in-memory Store used by tests and local runs without a
// database. Records are keyed by the same tenant-scoped document path the
// pipeline derives everywhere: tenants/{tenant_id}/processed_logs/{log_id}.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.ProcessedLog
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*models.ProcessedLog),
	}
}

// WriteProcessedLog overwrites the record at the derived key.
func (m *MemoryStore) WriteProcessedLog(ctx context.Context, tenantID, logID string, rec *models.ProcessedLog) error {
	if tenantID == "" || logID == "" {
		return fmt.Errorf("refusing to write record without tenant_id and log_id")
	}

	cp := *rec
	m.mu.Lock()
	m.records[models.StorageKey(tenantID, logID)] = &cp
	m.mu.Unlock()
	return nil
}

// Get returns the record for (tenantID, logID), if any.
func (m *MemoryStore) Get(tenantID, logID string) (*models.ProcessedLog, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[models.StorageKey(tenantID, logID)]
	return rec, ok
}

// Len reports the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Keys returns every storage key currently held, in no particular order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	return keys
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() {}

var _ Store = (*MemoryStore)(nil)
