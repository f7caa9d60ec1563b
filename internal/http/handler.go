package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/davidbz/tollgate/internal/config"
	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
	"github.com/davidbz/tollgate/internal/policy"
)

const (
	serviceName    = "X402 Hugging Face Inference API"
	serviceVersion = "1.0.0"
)

// Handler handles HTTP requests.
type Handler struct {
	engine     *domain.PricingEngine
	inference  *domain.InferenceService
	tasks      domain.TaskRegistry
	router     domain.Router
	policies   *policy.Manager
	adminToken string
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	engine *domain.PricingEngine,
	inference *domain.InferenceService,
	tasks domain.TaskRegistry,
	router domain.Router,
	policies *policy.Manager,
	pricingConfig *config.PricingConfig,
) *Handler {
	return &Handler{
		engine:     engine,
		inference:  inference,
		tasks:      tasks,
		router:     router,
		policies:   policies,
		adminToken: pricingConfig.AdminToken,
	}
}

// HandleRoot describes the service.
func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":        serviceName,
		"version":     serviceVersion,
		"description": "HuggingFace-compatible API with X402 micropayments",
		"usage": map[string]string{
			"endpoint": "POST /models/{org}/{model}",
			"example":  "POST /models/distilbert/distilbert-base-uncased-finetuned-sst-2-english",
			"body":     `{ "inputs": "I love this!" }`,
			"tasks":    "GET /v1/tasks",
		},
		"pricing": "GET /pricing",
		"payment": map[string]string{
			"network":  "Base (mainnet or Sepolia testnet)",
			"currency": "USDC",
			"protocol": "X402",
		},
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// HandleNotFound answers unknown routes.
func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Not Found",
		"message": fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path),
		"hint":    "Use POST /models/{org}/{model}",
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status is already written; an encode failure means the client went away.
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message, Message: ""})
}

// readBody reads the request body, mapping an exceeded body limit to 413.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Body == nil {
		return nil, true
	}

	body, err := io.ReadAll(r.Body)
	if err == nil {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return nil, false
	}

	observability.FromContext(r.Context()).Warn("failed to read request body", observability.Error(err))
	writeError(w, http.StatusBadRequest, "failed to read request body")
	return nil, false
}

// writeUpstream relays a successful upstream response.
func writeUpstream(w http.ResponseWriter, resp *domain.InferenceResponse, fallbackType string) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = fallbackType
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
