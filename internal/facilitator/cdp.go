package facilitator

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CDPURL is the Coinbase Developer Platform x402 facilitator.
const CDPURL = "https://api.cdp.coinbase.com/platform/v2/x402"

const (
	cdpIssuer      = "cdp"
	cdpTokenTTL    = 2 * time.Minute
	cdpNonceLength = 16
)

// cdpClaims is the JWT body CDP expects for REST calls.
type cdpClaims struct {
	URIs []string `json:"uris"`
	jwt.RegisteredClaims
}

// cdpSigner authorizes requests with a short-lived JWT per call. Secrets are
// either a base64 Ed25519 key (seed or seed+public) or a PEM EC key.
type cdpSigner struct {
	keyID  string
	method jwt.SigningMethod
	key    interface{}
	now    func() time.Time
}

func newCDPSigner(keyID, secret string) (*cdpSigner, error) {
	if keyID == "" {
		return nil, errors.New("CDP key id cannot be empty")
	}

	secret = strings.TrimSpace(secret)
	if strings.Contains(secret, "PRIVATE KEY") {
		key, err := jwt.ParseECPrivateKeyFromPEM([]byte(strings.ReplaceAll(secret, `\n`, "\n")))
		if err != nil {
			return nil, fmt.Errorf("failed to parse CDP EC key: %w", err)
		}
		return &cdpSigner{keyID: keyID, method: jwt.SigningMethodES256, key: key, now: time.Now}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode CDP Ed25519 key: %w", err)
	}

	var key ed25519.PrivateKey
	switch len(raw) {
	case ed25519.PrivateKeySize:
		key = ed25519.PrivateKey(raw)
	case ed25519.SeedSize:
		key = ed25519.NewKeyFromSeed(raw)
	default:
		return nil, fmt.Errorf("CDP Ed25519 key must be %d or %d bytes, got %d",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}

	return &cdpSigner{keyID: keyID, method: jwt.SigningMethodEdDSA, key: key, now: time.Now}, nil
}

// Authorize sets a bearer JWT bound to the request method, host and path.
func (s *cdpSigner) Authorize(req *http.Request) error {
	token, err := s.token(req.Method, req.URL.Host+req.URL.Path)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (s *cdpSigner) token(method, hostPath string) (string, error) {
	nonce := make([]byte, cdpNonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := s.now()
	claims := cdpClaims{
		URIs: []string{method + " " + hostPath},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cdpIssuer,
			Subject:   s.keyID,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cdpTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	token.Header["kid"] = s.keyID
	token.Header["nonce"] = hex.EncodeToString(nonce)

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign CDP token: %w", err)
	}
	return signed, nil
}
