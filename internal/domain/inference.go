package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/tollgate/internal/observability"
)

// InferenceService orchestrates calls to the inference backend.
type InferenceService struct {
	client   InferenceClient
	embedder EmbeddingGenerator
}

// NewInferenceService creates a new inference service (DI constructor).
// The embedder is optional; without it embeddings go through the client.
func NewInferenceService(client InferenceClient, embedder EmbeddingGenerator) *InferenceService {
	return &InferenceService{
		client:   client,
		embedder: embedder,
	}
}

// Infer forwards a request to the backend and returns its response unchanged.
func (s *InferenceService) Infer(ctx context.Context, req *InferenceRequest) (*InferenceResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	logger := observability.FromContext(ctx)
	logger.Info("forwarding inference request",
		observability.String("backend", s.client.Name()),
		observability.String("model", req.Model),
		observability.Int("request_bytes", len(req.Body)))

	response, err := s.client.Infer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	if !response.OK() {
		logger.Warn("upstream returned an error",
			observability.Int("status", response.StatusCode))
	}

	return response, nil
}

// Embed produces embeddings for the inputs. A single input yields a single
// vector, a list yields a list, mirroring the feature-extraction pipeline.
func (s *InferenceService) Embed(ctx context.Context, model string, inputs []string, single bool) (*InferenceResponse, error) {
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}

	if len(inputs) == 0 {
		return nil, errors.New("inputs cannot be empty")
	}

	if s.embedder == nil {
		return s.embedViaClient(ctx, model, inputs, single)
	}

	observability.FromContext(ctx).Info("generating embeddings",
		observability.String("generator", s.embedder.Name()),
		observability.Int("inputs", len(inputs)))

	vectors, err := s.embedder.Embed(ctx, model, inputs)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(inputs) {
		return nil, fmt.Errorf("embedding failed: got %d vectors for %d inputs", len(vectors), len(inputs))
	}

	var payload interface{} = vectors
	if single {
		payload = vectors[0]
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embeddings: %w", err)
	}

	return &InferenceResponse{
		StatusCode:  http.StatusOK,
		ContentType: "application/json",
		Body:        body,
	}, nil
}

func (s *InferenceService) embedViaClient(ctx context.Context, model string, inputs []string, single bool) (*InferenceResponse, error) {
	var payload struct {
		Inputs interface{} `json:"inputs"`
	}
	payload.Inputs = inputs
	if single {
		payload.Inputs = inputs[0]
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	return s.Infer(ctx, &InferenceRequest{
		Model:       model,
		Task:        "embeddings",
		ContentType: "application/json",
		Body:        body,
	})
}
