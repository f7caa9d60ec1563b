package domain

import (
	"encoding/json"
	"errors"
)

// x402 protocol constants.
const (
	X402Version              = 2
	SchemeExact              = "exact"
	DefaultMaxTimeoutSeconds = 60
	PaymentRequiredError     = "Payment required"
	ResourceMimeType         = "application/json"
)

// PaymentRequirements describes the single payment option the gateway accepts.
type PaymentRequirements struct {
	Scheme            string     `json:"scheme"`
	Network           string     `json:"network"`
	Asset             string     `json:"asset"`
	Amount            string     `json:"amount"`
	PayTo             string     `json:"payTo"`
	MaxTimeoutSeconds int        `json:"maxTimeoutSeconds"`
	Extra             AssetExtra `json:"extra"`
}

// AssetExtra carries the EIP-712 domain of the payment token.
type AssetExtra struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ResourceInfo identifies what is being paid for.
type ResourceInfo struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// PaymentRequired is the challenge document returned with HTTP 402.
type PaymentRequired struct {
	X402Version int                   `json:"x402Version"`
	Error       string                `json:"error"`
	Resource    ResourceInfo          `json:"resource"`
	Accepts     []PaymentRequirements `json:"accepts"`
}

// PaymentProof is the client-supplied signed payment payload. The gateway does
// not interpret it beyond forwarding it to the facilitator.
type PaymentProof struct {
	raw json.RawMessage
}

// NewPaymentProof wraps a raw JSON payment payload.
func NewPaymentProof(raw []byte) (PaymentProof, error) {
	if !json.Valid(raw) {
		return PaymentProof{raw: nil}, errors.New("payment payload is not valid JSON")
	}
	return PaymentProof{raw: append(json.RawMessage(nil), raw...)}, nil
}

// Raw returns the payload bytes.
func (p PaymentProof) Raw() json.RawMessage {
	return p.raw
}

// MarshalJSON emits the payload unchanged.
func (p PaymentProof) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// VerifyResult is the facilitator's answer to a verify call.
type VerifyResult struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
	Payer         string `json:"payer,omitempty"`
}

// SettleResult is the facilitator's answer to a settle call.
type SettleResult struct {
	Success     bool   `json:"success"`
	ErrorReason string `json:"errorReason,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Network     string `json:"network,omitempty"`
	Payer       string `json:"payer,omitempty"`
}

// PaymentContext is attached to the request context once a payment is verified.
type PaymentContext struct {
	Amount          string
	Source          string
	Payer           string
	TransactionHash string
}
