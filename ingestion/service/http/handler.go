package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	core "tenlog/ingestion/service/core"
	"tenlog/internal/models"
)

// TenantHeader carries the tenant identifier for text/plain submissions
const TenantHeader = "X-Tenant-ID"

// LogHandler encapsulates the logic for handling HTTP log submissions
type LogHandler struct {
	svc          *core.Service
	logger       *log.Logger
	maxBodyBytes int64
}

// NewLogHandler creates a new LogHandler
func NewLogHandler(s *core.Service, l *log.Logger, maxBodyBytes int64) *LogHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 10 * 1024 * 1024 // 10MB limit
	}
	return &LogHandler{svc: s, logger: l, maxBodyBytes: maxBodyBytes}
}

// Ingest handles POST /ingest requests.
// Dispatches on Content-Type: application/json bodies carry tenant_id and
// text inline; text/plain bodies are the text verbatim with the tenant in
// the X-Tenant-ID header. Either way the reply is 202 with the assigned
// (tenant_id, log_id), sent as soon as the envelope is queued.
func (h *LogHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.ContentLength > h.maxBodyBytes {
		h.respondError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	// Read one byte past the limit so chunked bodies with unknown length are
	// rejected rather than silently truncated
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes+1))
	if err != nil {
		h.logger.Printf("HTTP Handler: Failed to read request body: %v", err)
		h.respondError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if int64(len(body)) > h.maxBodyBytes {
		h.respondError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	// Normalize based on Content-Type (substring match tolerates charset
	// parameters such as "application/json; charset=utf-8")
	contentType := r.Header.Get("Content-Type")
	env, err := h.normalize(contentType, r.Header.Get(TenantHeader), body)
	if err != nil {
		h.logger.Printf("HTTP Handler: Validation failed: %v", err)
		h.respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Submit(r.Context(), env)
	if err != nil {
		h.logger.Printf("HTTP Handler: Service layer processing failed: %v", err)
		h.respondError(w, "Failed to accept log submission", http.StatusBadGateway)
		return
	}

	// Success response (HTTP 202 Accepted)
	respPayload := map[string]interface{}{
		"status":    "accepted",
		"tenant_id": result.TenantID,
		"log_id":    result.LogID,
	}

	h.respondJSON(w, respPayload, http.StatusAccepted)
}

// normalize selects the ingestion path for the declared content type
func (h *LogHandler) normalize(contentType, tenantHeader string, body []byte) (*models.LogEnvelope, error) {
	switch {
	case strings.Contains(contentType, "application/json"):
		return core.NormalizeJSON(body)
	case strings.Contains(contentType, "text/plain"):
		return core.NormalizeText(tenantHeader, body)
	default:
		return nil, errors.New("unsupported Content-Type: use application/json or text/plain")
	}
}

// HealthCheck handles GET /health requests
func (h *LogHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339Nano),
		"service":   "ingestion-gateway",
	}

	h.respondJSON(w, resp, http.StatusOK)
}

// respondJSON sends JSON response
func (h *LogHandler) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("HTTP Handler: Failed to encode JSON response: %v", err)
		// Cannot send error to client at this point
	}
}

// respondError sends error response
func (h *LogHandler) respondError(w http.ResponseWriter, message string, statusCode int) {
	errorResp := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}

	h.respondJSON(w, errorResp, statusCode)
}
