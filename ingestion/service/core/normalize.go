package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"tenlog/internal/models"

	"github.com/google/uuid"
)

// Validation errors surfaced synchronously to the submitter. Nothing is
// published when either is returned.
var (
	// ErrInvalidPayload indicates a JSON body that cannot be parsed or is
	// missing required fields.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrMissingTenant indicates a text submission without the tenant header.
	ErrMissingTenant = errors.New("missing tenant")
)

// jsonSubmission is the expected shape of an application/json request body.
type jsonSubmission struct {
	TenantID *string `json:"tenant_id"`
	LogID    string  `json:"log_id"`
	Text     *string `json:"text"`
}

// NormalizeJSON converts a JSON request body into the unified envelope.
//
// Required fields: tenant_id (string), text (string). log_id is optional and
// generated when absent. Any other shape fails with ErrInvalidPayload.
func NormalizeJSON(body []byte) (*models.LogEnvelope, error) {
	var sub jsonSubmission
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON body", ErrInvalidPayload)
	}

	if sub.TenantID == nil || *sub.TenantID == "" {
		return nil, fmt.Errorf("%w: field 'tenant_id' is required and must be a string", ErrInvalidPayload)
	}
	if sub.Text == nil || *sub.Text == "" {
		return nil, fmt.Errorf("%w: field 'text' is required and must be a string", ErrInvalidPayload)
	}

	logID := sub.LogID
	if logID == "" {
		logID = uuid.NewString()
	}

	return &models.LogEnvelope{
		TenantID: *sub.TenantID,
		LogID:    logID,
		Text:     *sub.Text,
		Source:   models.SourceJSONUpload,
	}, nil
}

// NormalizeText converts a raw text/plain body into the unified envelope.
// The tenant comes from the X-Tenant-ID header; the whole body is the text.
// A log_id is always generated on this path.
func NormalizeText(tenantID string, body []byte) (*models.LogEnvelope, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: header 'X-Tenant-ID' is required for text/plain payloads", ErrMissingTenant)
	}

	return &models.LogEnvelope{
		TenantID: tenantID,
		LogID:    uuid.NewString(),
		Text:     string(body),
		Source:   models.SourceTextUpload,
	}, nil
}
