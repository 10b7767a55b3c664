package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "tenlog/ingestion/service/core"
	"tenlog/internal/models"
)

// recordingProducer captures published envelopes in memory.
type recordingProducer struct {
	mu        sync.Mutex
	published []*models.LogEnvelope
	failWith  error
}

func (p *recordingProducer) Publish(ctx context.Context, env *models.LogEnvelope) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, env)
	return nil
}

func (p *recordingProducer) PublishBatch(ctx context.Context, envs []*models.LogEnvelope) error {
	for _, env := range envs {
		if err := p.Publish(ctx, env); err != nil {
			return err
		}
	}
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func (p *recordingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func newTestHandler(t *testing.T) (*LogHandler, *recordingProducer) {
	t.Helper()
	prod := &recordingProducer{}
	logger := log.New(io.Discard, "", 0)
	svc := core.NewService(prod, logger)
	return NewLogHandler(svc, logger, 0), prod
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestIngestJSONSubmission(t *testing.T) {
	h, prod := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/ingest",
		strings.NewReader(`{"tenant_id":"acme","log_id":"123","text":"User 555-0199 accessed the dashboard"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, "acme", body["tenant_id"])
	assert.Equal(t, "123", body["log_id"])

	require.Equal(t, 1, prod.count())
	env := prod.published[0]
	assert.Equal(t, "acme", env.TenantID)
	assert.Equal(t, "123", env.LogID)
	assert.Equal(t, models.SourceJSONUpload, env.Source)
}

func TestIngestTextSubmission(t *testing.T) {
	h, prod := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/ingest",
		strings.NewReader("User 555-0199 accessed the dashboard via text upload"))
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set(TenantHeader, "beta_inc")
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, "beta_inc", body["tenant_id"])
	assert.NotEmpty(t, body["log_id"])

	require.Equal(t, 1, prod.count())
	env := prod.published[0]
	assert.Equal(t, models.SourceTextUpload, env.Source)
	assert.Equal(t, "User 555-0199 accessed the dashboard via text upload", env.Text)
}

func TestIngestValidationFailurePublishesNothing(t *testing.T) {
	h, prod := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/ingest",
		strings.NewReader(`{"tenant_id":"acme"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "text")
	assert.Equal(t, 0, prod.count())
}

func TestIngestMissingTenantHeader(t *testing.T) {
	h, prod := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader("some text"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, prod.count())
}

func TestIngestUnsupportedContentType(t *testing.T) {
	h, prod := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader("<log/>"))
	req.Header.Set("Content-Type", "application/xml")
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, prod.count())
}

func TestIngestMethodNotAllowed(t *testing.T) {
	h, prod := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/ingest", nil)
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 0, prod.count())
}

func TestIngestOversizedBodyRejected(t *testing.T) {
	prod := &recordingProducer{}
	logger := log.New(io.Discard, "", 0)
	h := NewLogHandler(core.NewService(prod, logger), logger, 16)

	req := httptest.NewRequest(http.MethodPost, "/ingest",
		strings.NewReader("this text is definitely longer than sixteen bytes"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set(TenantHeader, "acme")
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, prod.count())
}

func TestIngestOversizedChunkedBodyRejected(t *testing.T) {
	prod := &recordingProducer{}
	logger := log.New(io.Discard, "", 0)
	h := NewLogHandler(core.NewService(prod, logger), logger, 16)

	// Chunked transfer: the length is unknown up front, so the limit must be
	// enforced while reading, not from Content-Length
	req := httptest.NewRequest(http.MethodPost, "/ingest",
		strings.NewReader("this text is definitely longer than sixteen bytes"))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set(TenantHeader, "acme")
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, prod.count())
}

func TestIngestPublishFailure(t *testing.T) {
	h, prod := newTestHandler(t)
	prod.failWith = errors.New("broker unavailable")

	req := httptest.NewRequest(http.MethodPost, "/ingest",
		strings.NewReader(`{"tenant_id":"acme","text":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
}
