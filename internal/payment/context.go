package payment

import (
	"context"

	"github.com/davidbz/tollgate/internal/domain"
)

type contextKey struct{}

// WithPaymentContext attaches a verified payment to the context.
func WithPaymentContext(ctx context.Context, payment *domain.PaymentContext) context.Context {
	return context.WithValue(ctx, contextKey{}, payment)
}

// FromContext returns the verified payment for the request, if any.
func FromContext(ctx context.Context) (*domain.PaymentContext, bool) {
	payment, ok := ctx.Value(contextKey{}).(*domain.PaymentContext)
	return payment, ok && payment != nil
}
