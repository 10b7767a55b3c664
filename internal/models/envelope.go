package models

import (
	"fmt"
	"time"
)

// Source records which ingestion path produced an envelope.
type Source string

const (
	SourceJSONUpload Source = "json_upload"
	SourceTextUpload Source = "text_upload"
)

// ParseSource maps a wire value back to a Source. Unrecognized values fall
// back to "unknown" rather than failing, so a record never loses its payload
// over a bad provenance tag.
func ParseSource(s string) Source {
	switch Source(s) {
	case SourceJSONUpload, SourceTextUpload:
		return Source(s)
	default:
		return Source("unknown")
	}
}

// LogEnvelope is the unified internal representation of a log submission.
// It is built once by the ingestion gateway and travels gateway -> queue ->
// worker; downstream components never see the original wire shape.
//
// (TenantID, LogID) is the idempotency key: it determines exactly one storage
// location and is immutable once assigned, so any number of redeliveries of
// the same logical submission land on the same record.
type LogEnvelope struct {
	TenantID string `json:"tenant_id"`
	LogID    string `json:"log_id"`
	Text     string `json:"text"`
	Source   Source `json:"source"`
}

// Validate checks the invariants every envelope must hold before it may be
// published or processed.
func (e *LogEnvelope) Validate() error {
	if e.TenantID == "" {
		return fmt.Errorf("envelope is missing tenant_id")
	}
	if e.LogID == "" {
		return fmt.Errorf("envelope is missing log_id")
	}
	return nil
}

// ProcessedLog is the persisted result of processing one envelope. Exactly one
// record exists per (tenant_id, log_id); redeliveries overwrite it in place.
type ProcessedLog struct {
	Source       Source    `json:"source"`
	OriginalText string    `json:"original_text"`
	ModifiedData string    `json:"modified_data"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// StorageKey derives the tenant-scoped document path for a processed log.
// It is a pure function of (tenantID, logID): equal inputs always address the
// same record, and keys for distinct tenants can never collide because the
// tenant segment prefixes the path.
func StorageKey(tenantID, logID string) string {
	return fmt.Sprintf("tenants/%s/processed_logs/%s", tenantID, logID)
}
