package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

const verificationFailedError = "Payment verification failed"

// RouteOptions configures pricing for one protected route.
type RouteOptions struct {
	// ServiceDescription overrides the configured resource description.
	ServiceDescription string

	// EndpointFunc returns the endpoint key used for per-endpoint pricing.
	EndpointFunc func(r *http.Request) string

	// CategoryFunc returns the category used when no endpoint price applies.
	CategoryFunc func(r *http.Request) string
}

// Gate enforces x402 payment on protected routes.
type Gate struct {
	cfg         Config
	pricer      domain.PriceCalculator
	facilitator domain.Facilitator
	events      domain.EventPublisher
	metrics     *observability.PaymentMetrics
}

// NewGate creates a payment gate (DI constructor).
func NewGate(
	cfg *Config,
	pricer domain.PriceCalculator,
	facilitator domain.Facilitator,
	events domain.EventPublisher,
	metrics *observability.PaymentMetrics,
) *Gate {
	return &Gate{
		cfg:         *cfg,
		pricer:      pricer,
		facilitator: facilitator,
		events:      events,
		metrics:     metrics,
	}
}

// Middleware returns the payment middleware for a route.
func (g *Gate) Middleware(opts RouteOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := paymentHeader(r)
			input := domain.ParsePricingInput(bufferBody(r))

			var endpoint, category string
			if opts.EndpointFunc != nil {
				endpoint = opts.EndpointFunc(r)
			}
			if opts.CategoryFunc != nil {
				category = opts.CategoryFunc(r)
			}

			price := g.pricer.CalculatePrice(input, endpoint, category)

			ctx = observability.WithEndpoint(ctx, endpoint)
			ctx = observability.WithPriceSource(ctx, price.Breakdown.Source)
			r = r.WithContext(ctx)

			if header == "" {
				g.challenge(w, r, opts, price)
				return
			}

			g.serveWithPayment(w, r, next, header, price)
		})
	}
}

func (g *Gate) challenge(w http.ResponseWriter, r *http.Request, opts RouteOptions, price domain.PriceCalculationResult) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	requirements, err := g.requirements(price.Price)
	if err != nil {
		logger.Error("cannot build payment requirements", observability.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Reason: ""})
		return
	}

	doc := &domain.PaymentRequired{
		X402Version: domain.X402Version,
		Error:       domain.PaymentRequiredError,
		Resource: domain.ResourceInfo{
			URL:         requestURL(r),
			Description: g.description(opts),
			MimeType:    domain.ResourceMimeType,
		},
		Accepts: []domain.PaymentRequirements{requirements},
	}

	encoded, body, err := EncodePaymentRequired(doc)
	if err != nil {
		logger.Error("cannot encode payment challenge", observability.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Reason: ""})
		return
	}

	g.metrics.ObserveChallenge(price.Breakdown.Source)
	logger.Info("payment required",
		observability.String("price", price.Price),
		observability.String("network", requirements.Network))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderPaymentRequired, encoded)
	w.Header().Set(HeaderExposeHeaders, HeaderPaymentRequired)
	w.WriteHeader(http.StatusPaymentRequired)
	_, _ = w.Write(body)
}

func (g *Gate) serveWithPayment(
	w http.ResponseWriter,
	r *http.Request,
	next http.Handler,
	header string,
	price domain.PriceCalculationResult,
) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	proof, err := DecodePaymentProof(header)
	if err != nil {
		logger.Warn("payment header rejected", observability.Error(err))
		writeJSON(w, http.StatusPaymentRequired, errorBody{Error: err.Error(), Reason: ""})
		return
	}

	requirements, err := g.requirements(price.Price)
	if err != nil {
		logger.Error("cannot build payment requirements", observability.Error(err))
		writeJSON(w, http.StatusPaymentRequired, errorBody{Error: err.Error(), Reason: ""})
		return
	}

	verification, err := g.facilitator.Verify(ctx, proof, requirements)
	if err != nil {
		g.metrics.ObserveVerification(observability.ResultError)
		logger.Error("payment verification errored", observability.Error(err))
		writeJSON(w, http.StatusPaymentRequired, errorBody{Error: err.Error(), Reason: ""})
		return
	}

	if !verification.IsValid {
		g.metrics.ObserveVerification(observability.ResultInvalid)
		g.publish(ctx, observability.EventPaymentRejected, map[string]interface{}{
			"amount": price.Price,
			"reason": verification.InvalidReason,
			"payer":  verification.Payer,
		})
		writeJSON(w, http.StatusPaymentRequired, errorBody{
			Error:  verificationFailedError,
			Reason: verification.InvalidReason,
		})
		return
	}

	g.metrics.ObserveVerification(observability.ResultValid)
	g.publish(ctx, observability.EventPaymentVerified, map[string]interface{}{
		"amount": price.Price,
		"payer":  verification.Payer,
	})

	payment := &domain.PaymentContext{
		Amount:          price.Price,
		Source:          price.Breakdown.Source,
		Payer:           verification.Payer,
		TransactionHash: "",
	}
	ctx = WithPaymentContext(ctx, payment)

	recorder := newBufferedResponse()
	recorder.Header().Set(HeaderPriceCharged, price.Price)
	recorder.Header().Set(HeaderPriceSource, price.Breakdown.Source)

	recovered := serveRecovering(next, recorder, r.WithContext(ctx))

	// Settlement must outlive a client disconnect once the work is done.
	g.settle(context.WithoutCancel(ctx), proof, requirements, recorder, payment)

	if recovered != nil {
		panic(recovered)
	}

	if err := recorder.flushTo(w); err != nil {
		logger.Warn("failed to write response", observability.Error(err))
	}
}

func (g *Gate) settle(
	ctx context.Context,
	proof domain.PaymentProof,
	requirements domain.PaymentRequirements,
	recorder *bufferedResponse,
	payment *domain.PaymentContext,
) {
	logger := observability.FromContext(ctx)

	result, err := g.facilitator.Settle(ctx, proof, requirements)
	switch {
	case err != nil:
		g.metrics.ObserveSettlement(observability.ResultError, payment.Source, payment.Amount)
		logger.Error("payment settlement errored", observability.Error(err))
		g.publish(ctx, observability.EventPaymentSettleFailed, map[string]interface{}{
			"amount": payment.Amount,
			"error":  err.Error(),
		})
	case !result.Success:
		g.metrics.ObserveSettlement(observability.ResultFailed, payment.Source, payment.Amount)
		logger.Warn("payment settlement failed", observability.String("reason", result.ErrorReason))
		g.publish(ctx, observability.EventPaymentSettleFailed, map[string]interface{}{
			"amount": payment.Amount,
			"reason": result.ErrorReason,
		})
	default:
		payment.TransactionHash = result.Transaction
		recorder.Header().Set(HeaderTransaction, result.Transaction)
		recorder.Header().Set(HeaderNetwork, result.Network)
		g.metrics.ObserveSettlement(observability.ResultSuccess, payment.Source, payment.Amount)
		g.publish(ctx, observability.EventPaymentSettled, map[string]interface{}{
			"amount":      payment.Amount,
			"transaction": result.Transaction,
			"network":     result.Network,
			"payer":       result.Payer,
			"status_code": recorder.statusCode,
		})
	}
}

func (g *Gate) requirements(amount string) (domain.PaymentRequirements, error) {
	asset, err := AssetAddress(g.cfg.Network)
	if err != nil {
		return domain.PaymentRequirements{}, err
	}

	return domain.PaymentRequirements{
		Scheme:            domain.SchemeExact,
		Network:           g.cfg.Network,
		Asset:             asset,
		Amount:            amount,
		PayTo:             g.cfg.PayTo,
		MaxTimeoutSeconds: domain.DefaultMaxTimeoutSeconds,
		Extra: domain.AssetExtra{
			Name:    usdcName,
			Version: usdcVersion,
		},
	}, nil
}

func (g *Gate) description(opts RouteOptions) string {
	if opts.ServiceDescription != "" {
		return opts.ServiceDescription
	}
	return g.cfg.ServiceDescription
}

func (g *Gate) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if g.events == nil {
		return
	}
	g.events.Publish(ctx, eventType, data)
}

// serveRecovering runs the handler and returns the panic value, if any, so
// settlement still happens before the panic propagates.
func serveRecovering(next http.Handler, w http.ResponseWriter, r *http.Request) (recovered interface{}) {
	defer func() {
		recovered = recover()
	}()
	next.ServeHTTP(w, r)
	return nil
}

func paymentHeader(r *http.Request) string {
	if value := r.Header.Get(HeaderPaymentSignature); value != "" {
		return value
	}
	return r.Header.Get(HeaderPaymentLegacy)
}

// bufferBody reads the request body for pricing and puts it back for the handler.
func bufferBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		// The handler sees the same read error after the bytes that did arrive.
		r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), failingReader{err: err}))
		return nil
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body
}

type failingReader struct {
	err error
}

func (f failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.RequestURI())
}

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
