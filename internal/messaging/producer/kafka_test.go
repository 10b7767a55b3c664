package producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenlog/internal/models"
)

func TestEnvelopeToMessage(t *testing.T) {
	env := &models.LogEnvelope{
		TenantID: "acme",
		LogID:    "123",
		Text:     "User 555-0199 accessed the dashboard",
		Source:   models.SourceJSONUpload,
	}

	msg, err := envelopeToMessage(env)
	require.NoError(t, err)

	assert.Equal(t, []byte("acme"), msg.Key)
	assert.Equal(t, []byte("User 555-0199 accessed the dashboard"), msg.Value)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "acme", headers[HeaderTenantID])
	assert.Equal(t, "123", headers[HeaderLogID])
	assert.Equal(t, "json_upload", headers[HeaderSource])
}

func TestEnvelopeToMessageRejectsInvalidEnvelope(t *testing.T) {
	_, err := envelopeToMessage(&models.LogEnvelope{TenantID: "acme"})
	assert.Error(t, err)

	_, err = envelopeToMessage(&models.LogEnvelope{LogID: "123"})
	assert.Error(t, err)
}
