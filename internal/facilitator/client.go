package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

const maxErrorBodyBytes = 4096

// authorizer adds credentials to an outgoing facilitator request.
type authorizer interface {
	Authorize(req *http.Request) error
}

// Client talks to an x402 facilitator over HTTP. Calls are never retried: a
// repeated settle could move funds twice.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       authorizer
}

// SupportedKind is one scheme/network pair a facilitator can process.
type SupportedKind struct {
	X402Version int    `json:"x402Version"`
	Scheme      string `json:"scheme"`
	Network     string `json:"network"`
}

// SupportedResponse lists the kinds a facilitator supports.
type SupportedResponse struct {
	Kinds []SupportedKind `json:"kinds"`
}

type paymentRequest struct {
	X402Version         int                        `json:"x402Version"`
	PaymentPayload      domain.PaymentProof        `json:"paymentPayload"`
	PaymentRequirements domain.PaymentRequirements `json:"paymentRequirements"`
}

// NewClient creates a facilitator client (DI constructor).
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("facilitator config cannot be nil")
	}

	baseURL := cfg.URL
	var auth authorizer
	if cfg.UsesCDP() {
		signer, err := newCDPSigner(cfg.CDPKeyID, cfg.CDPKeySecret)
		if err != nil {
			return nil, err
		}
		baseURL = CDPURL
		auth = signer
	}

	if baseURL == "" {
		return nil, errors.New("facilitator URL cannot be empty")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		auth: auth,
	}, nil
}

// URL returns the facilitator base URL in use.
func (c *Client) URL() string {
	return c.baseURL
}

// Verify asks the facilitator whether the payment would settle.
func (c *Client) Verify(
	ctx context.Context,
	proof domain.PaymentProof,
	requirements domain.PaymentRequirements,
) (*domain.VerifyResult, error) {
	var result domain.VerifyResult
	status, err := c.post(ctx, "/verify", newPaymentRequest(proof, requirements), &result)
	if err != nil {
		return nil, fmt.Errorf("verify failed: %w", err)
	}

	// Facilitators report rejections with a 4xx status and a regular body.
	if status >= http.StatusBadRequest && result.InvalidReason == "" {
		return nil, fmt.Errorf("verify failed: facilitator returned status %d", status)
	}
	if status >= http.StatusBadRequest {
		result.IsValid = false
	}

	return &result, nil
}

// Settle asks the facilitator to execute the payment.
func (c *Client) Settle(
	ctx context.Context,
	proof domain.PaymentProof,
	requirements domain.PaymentRequirements,
) (*domain.SettleResult, error) {
	var result domain.SettleResult
	status, err := c.post(ctx, "/settle", newPaymentRequest(proof, requirements), &result)
	if err != nil {
		return nil, fmt.Errorf("settle failed: %w", err)
	}

	if status >= http.StatusBadRequest && result.ErrorReason == "" {
		return nil, fmt.Errorf("settle failed: facilitator returned status %d", status)
	}
	if status >= http.StatusBadRequest {
		result.Success = false
	}

	return &result, nil
}

// Supported lists the scheme/network pairs the facilitator accepts.
func (c *Client) Supported(ctx context.Context) (*SupportedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/supported", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var result SupportedResponse
	status, err := c.do(req, &result)
	if err != nil {
		return nil, fmt.Errorf("supported failed: %w", err)
	}
	if status >= http.StatusBadRequest {
		return nil, fmt.Errorf("supported failed: facilitator returned status %d", status)
	}
	return &result, nil
}

func newPaymentRequest(proof domain.PaymentProof, requirements domain.PaymentRequirements) paymentRequest {
	return paymentRequest{
		X402Version:         domain.X402Version,
		PaymentPayload:      proof,
		PaymentRequirements: requirements,
	}
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) (int, error) {
	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		if err := c.auth.Authorize(req); err != nil {
			return 0, err
		}
	}

	logger := observability.FromContext(req.Context())
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request to facilitator failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read facilitator response: %w", err)
	}

	logger.Debug("facilitator call completed",
		observability.String("path", req.URL.Path),
		observability.Int("status", resp.StatusCode),
		observability.Duration("duration", time.Since(start)))

	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return resp.StatusCode, fmt.Errorf("facilitator returned status %d: %s",
				resp.StatusCode, truncate(string(raw), maxErrorBodyBytes))
		}
		return resp.StatusCode, fmt.Errorf("failed to decode facilitator response: %w", err)
	}

	return resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
