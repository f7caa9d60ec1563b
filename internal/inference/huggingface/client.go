// Package huggingface forwards inference calls to the Hugging Face Inference
// router. Responses are returned as-is, including upstream error statuses.
package huggingface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

const (
	clientName         = "huggingface"
	defaultContentType = "application/json"
)

// Client implements domain.InferenceClient for Hugging Face.
type Client struct {
	token   string
	baseURL string
	http    *retryablehttp.Client
}

// NewClient creates a new Hugging Face client.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("huggingface config cannot be nil")
	}
	if config.Token == "" {
		return nil, errors.New("HF_TOKEN is required")
	}
	if config.BaseURL == "" {
		return nil, errors.New("huggingface base URL cannot be empty")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(config.Timeout) * time.Second
	retryClient.RetryMax = config.MaxRetries
	retryClient.Logger = retryLogger{name: clientName}
	// Hand the last upstream response back instead of a generic error so the
	// caller can relay the status.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		token:   config.Token,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		http:    retryClient,
	}, nil
}

// Infer posts the request body to {baseURL}/{model}.
func (c *Client) Infer(ctx context.Context, req *domain.InferenceRequest) (*domain.InferenceResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.modelURL(req.Model), bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", contentType)

	logger := observability.FromContext(ctx)
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read huggingface response: %w", err)
	}

	logger.Info("huggingface call completed",
		observability.String("model", req.Model),
		observability.Int("status", resp.StatusCode),
		observability.Int("response_bytes", len(body)),
		observability.Duration("duration", time.Since(start)))

	responseType := resp.Header.Get("Content-Type")
	if responseType == "" {
		responseType = defaultContentType
	}

	return &domain.InferenceResponse{
		StatusCode:  resp.StatusCode,
		ContentType: responseType,
		Body:        body,
	}, nil
}

// Name returns the client identifier.
func (c *Client) Name() string {
	return clientName
}

func (c *Client) modelURL(model string) string {
	return c.baseURL + "/" + strings.TrimLeft(model, "/")
}

// retryLogger adapts zap to retryablehttp.LeveledLogger. The global logger is
// resolved per call since the client may be built before InitLogger runs.
type retryLogger struct {
	name string
}

func (l retryLogger) sugar() *zap.SugaredLogger {
	return observability.FromContext(context.Background()).Named(l.name).Sugar()
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar().Errorw(msg, keysAndValues...)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar().Infow(msg, keysAndValues...)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar().Debugw(msg, keysAndValues...)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar().Warnw(msg, keysAndValues...)
}
