// Package echo provides a testing inference backend that echoes back its input.
// It implements the domain.InferenceClient interface without making external
// calls, giving deterministic responses for local development.
package echo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

const clientName = "echo"

// Client implements domain.InferenceClient for echo testing.
type Client struct {
	name string
}

// Response is the JSON document the echo backend returns.
type Response struct {
	Model       string `json:"model"`
	Task        string `json:"task,omitempty"`
	ContentType string `json:"contentType"`
	Bytes       int    `json:"bytes"`
	Tokens      int    `json:"tokens"`
	Echo        string `json:"echo,omitempty"`
}

// NewClient creates a new echo client.
// No configuration is required as this backend operates entirely in-memory.
func NewClient() *Client {
	return &Client{
		name: clientName,
	}
}

// Infer returns a description of the request instead of calling a model.
func (c *Client) Infer(ctx context.Context, req *domain.InferenceRequest) (*domain.InferenceResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echoing request")

	response := Response{
		Model:       req.Model,
		Task:        req.Task,
		ContentType: req.ContentType,
		Bytes:       len(req.Body),
		Tokens:      0,
		Echo:        "",
	}

	if isText(req.ContentType) {
		response.Echo = string(req.Body)
		response.Tokens = countTokens(response.Echo)
	}

	body, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to encode echo response: %w", err)
	}

	logger.Debug("echo completed", observability.Int("tokens", response.Tokens))

	return &domain.InferenceResponse{
		StatusCode:  http.StatusOK,
		ContentType: "application/json",
		Body:        body,
	}, nil
}

// Name returns the client identifier.
func (c *Client) Name() string {
	return c.name
}

func isText(contentType string) bool {
	return contentType == "" ||
		strings.HasPrefix(contentType, "application/json") ||
		strings.HasPrefix(contentType, "text/")
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Fields(content))
}
