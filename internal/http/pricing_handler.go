package http

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

const currencyUSDC = "USDC"

type priceResponse struct {
	Price       string `json:"price"`
	PriceUSD    string `json:"priceUsd"`
	Currency    string `json:"currency"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
}

type calculateResponse struct {
	Price     string                `json:"price"`
	PriceUSD  string                `json:"priceUsd"`
	Currency  string                `json:"currency"`
	Breakdown domain.PriceBreakdown `json:"breakdown"`
}

// HandlePricing returns the price of a request with no endpoint or category.
func (h *Handler) HandlePricing(w http.ResponseWriter, _ *http.Request) {
	result := h.engine.CalculatePrice(domain.PricingInput{}, "", "")

	writeJSON(w, http.StatusOK, priceResponse{
		Price:       result.Price,
		PriceUSD:    domain.FormatUSD(result.Price),
		Currency:    currencyUSDC,
		Source:      result.Breakdown.Source,
		Description: result.Breakdown.Description,
	})
}

// HandleCalculate previews the price of a request body for an endpoint or category.
// An empty or malformed body is priced as having no parameters.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
	}

	query := r.URL.Query()
	result := h.engine.CalculatePrice(domain.ParsePricingInput(body), query.Get("endpoint"), query.Get("category"))

	writeJSON(w, http.StatusOK, calculateResponse{
		Price:     result.Price,
		PriceUSD:  domain.FormatUSD(result.Price),
		Currency:  currencyUSDC,
		Breakdown: result.Breakdown,
	})
}

// HandleGetPolicy returns the active pricing policy.
func (h *Handler) HandleGetPolicy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.policies.Policy())
}

// HandlePutPolicy replaces the pricing policy. It requires the admin bearer token.
func (h *Handler) HandlePutPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	if h.adminToken == "" {
		writeError(w, http.StatusForbidden, "policy updates are disabled")
		return
	}

	if !h.authorizedAdmin(r) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="pricing"`)
		writeError(w, http.StatusUnauthorized, "invalid admin token")
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var update domain.PricingPolicy
	if err := json.Unmarshal(body, &update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid policy document", Message: err.Error()})
		return
	}

	if err := update.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid policy", Message: err.Error()})
		return
	}

	if err := h.policies.Apply(ctx, &update); err != nil {
		logger.Error("pricing policy update failed", observability.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "policy update failed", Message: err.Error()})
		return
	}

	logger.Info("pricing policy updated",
		observability.String("default_price", update.DefaultPrice),
		observability.Int("endpoints", len(update.Endpoints)))

	writeJSON(w, http.StatusOK, h.policies.Policy())
}

func (h *Handler) authorizedAdmin(r *http.Request) bool {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(h.adminToken)) == 1
}
