package payment

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/tollgate/internal/domain"
)

// x402 HTTP headers.
const (
	HeaderPaymentSignature = "PAYMENT-SIGNATURE"
	HeaderPaymentLegacy    = "X-Payment"
	HeaderPaymentRequired  = "PAYMENT-REQUIRED"
	HeaderPriceCharged     = "X-Price-Charged"
	HeaderPriceSource      = "X-Price-Source"
	HeaderTransaction      = "X-Payment-Transaction"
	HeaderNetwork          = "X-Payment-Network"
	HeaderExposeHeaders    = "Access-Control-Expose-Headers"
)

// ErrInvalidPaymentHeader is returned when a payment header cannot be decoded.
var ErrInvalidPaymentHeader = errors.New("invalid payment header")

// ExposedHeaders lists the payment headers browsers must be allowed to read.
func ExposedHeaders() []string {
	return []string{HeaderPaymentRequired, HeaderPriceCharged, HeaderPriceSource, HeaderTransaction, HeaderNetwork}
}

// EncodePaymentRequired serializes a challenge. It returns the base64 header
// value and the JSON body, which carry the same document.
func EncodePaymentRequired(doc *domain.PaymentRequired) (string, []byte, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode payment requirements: %w", err)
	}
	return base64.StdEncoding.EncodeToString(body), body, nil
}

// DecodePaymentRequired parses a PAYMENT-REQUIRED header value.
func DecodePaymentRequired(header string) (*domain.PaymentRequired, error) {
	raw, err := decodeBase64(header)
	if err != nil {
		return nil, err
	}

	var doc domain.PaymentRequired
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPaymentHeader, err)
	}
	return &doc, nil
}

// EncodePaymentProof produces the header value a client sends with its payment.
func EncodePaymentProof(proof domain.PaymentProof) (string, error) {
	raw, err := json.Marshal(proof)
	if err != nil {
		return "", fmt.Errorf("failed to encode payment payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodePaymentProof decodes a PAYMENT-SIGNATURE or X-Payment header value.
// The payload must be a JSON object.
func DecodePaymentProof(header string) (domain.PaymentProof, error) {
	raw, err := decodeBase64(header)
	if err != nil {
		return domain.PaymentProof{}, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		return domain.PaymentProof{}, fmt.Errorf("%w: payload is not a JSON object", ErrInvalidPaymentHeader)
	}

	proof, err := domain.NewPaymentProof(raw)
	if err != nil {
		return domain.PaymentProof{}, fmt.Errorf("%w: %w", ErrInvalidPaymentHeader, err)
	}
	return proof, nil
}

func decodeBase64(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidPaymentHeader)
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		// Some clients strip padding.
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(value, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", ErrInvalidPaymentHeader)
	}
	return raw, nil
}
