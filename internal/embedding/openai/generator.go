package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const modelPlaceholder = "{model}"

// Generator generates embeddings through an OpenAI-compatible endpoint.
type Generator struct {
	client  openai.Client
	baseURL string
}

// NewGenerator creates a new embedding generator.
func NewGenerator(config *Config) (*Generator, error) {
	if config == nil {
		return nil, errors.New("embedding config cannot be nil")
	}
	if config.APIKey == "" {
		return nil, errors.New("embedding API key is required")
	}
	if config.BaseURL == "" {
		return nil, errors.New("embedding base URL cannot be empty")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	if config.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	return &Generator{
		client:  openai.NewClient(opts...),
		baseURL: config.BaseURL,
	}, nil
}

// Embed returns one vector per input, in input order.
func (g *Generator) Embed(ctx context.Context, model string, inputs []string) ([][]float64, error) {
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}
	if len(inputs) == 0 {
		return nil, errors.New("inputs cannot be empty")
	}

	//nolint:exhaustruct // OpenAI SDK struct has many optional fields
	resp, err := g.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: inputs,
		},
		Model: openai.EmbeddingModel(model),
	}, option.WithBaseURL(g.urlFor(model)))
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(resp.Data))
	}

	vectors := make([][]float64, len(resp.Data))
	for _, item := range resp.Data {
		if item.Index < 0 || int(item.Index) >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	return vectors, nil
}

// Name returns the generator identifier.
func (g *Generator) Name() string {
	return "openai"
}

func (g *Generator) urlFor(model string) string {
	url := strings.ReplaceAll(g.baseURL, modelPlaceholder, model)
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url
}
