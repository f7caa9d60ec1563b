package observability_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/tollgate/internal/observability"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	observability.SetLogger(zap.New(core))
	t.Cleanup(func() { observability.SetLogger(nil) })
	return logs
}

func TestFromContext_AddsRequestFields(t *testing.T) {
	logs := observeLogs(t)

	ctx := observability.WithRequestID(context.Background(), "req-1")
	ctx = observability.WithTask(ctx, "fill-mask")
	ctx = observability.WithModel(ctx, "google-bert/bert-base-uncased")
	observability.FromContext(ctx).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "req-1", fields["request_id"])
	require.Equal(t, "fill-mask", fields["task"])
	require.Equal(t, "google-bert/bert-base-uncased", fields["model"])
	require.NotContains(t, fields, "trace_id")
}

func TestEventBus_Publish(t *testing.T) {
	logs := observeLogs(t)

	bus := observability.NewEventBus()
	bus.Publish(observability.WithEndpoint(context.Background(), "acme/model"),
		observability.EventPaymentSettled, map[string]interface{}{
			"transaction": "0xtx",
			"amount":      "5000",
		})

	entries := logs.FilterMessage(observability.EventPaymentSettled).All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	require.Equal(t, observability.EventPaymentSettled, fields["event"])
	require.Equal(t, "0xtx", fields["transaction"])
	require.Equal(t, "5000", fields["amount"])
	require.Equal(t, "acme/model", fields["endpoint"])
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { observability.SetLogger(nil) })

	logger, err := observability.InitLogger("debug")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = observability.InitLogger("chatty")
	require.ErrorContains(t, err, "invalid log level")
}

func TestGenerateIDs(t *testing.T) {
	require.Len(t, observability.GenerateTraceID(), 32)
	require.Len(t, observability.GenerateSpanID(), 16)
	require.NotEqual(t, observability.GenerateRequestID(), observability.GenerateRequestID())
}

func TestPaymentMetrics_ObserveSettlement(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewPaymentMetrics(registry)

	metrics.ObserveSettlement(observability.ResultSuccess, "default", "10000")
	metrics.ObserveSettlement(observability.ResultSuccess, "default", "2500")
	metrics.ObserveSettlement(observability.ResultFailed, "default", "10000")
	metrics.ObserveVerification(observability.ResultInvalid)

	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(`
# HELP tollgate_payment_charged_atomic_total Total settled amount in atomic units by price source
# TYPE tollgate_payment_charged_atomic_total counter
tollgate_payment_charged_atomic_total{source="default"} 12500
# HELP tollgate_payment_settlements_total Total number of payment settlements by result
# TYPE tollgate_payment_settlements_total counter
tollgate_payment_settlements_total{result="failed"} 1
tollgate_payment_settlements_total{result="success"} 2
# HELP tollgate_payment_verifications_total Total number of payment verifications by result
# TYPE tollgate_payment_verifications_total counter
tollgate_payment_verifications_total{result="invalid"} 1
`), "tollgate_payment_charged_atomic_total", "tollgate_payment_settlements_total", "tollgate_payment_verifications_total"))

	var nilMetrics *observability.PaymentMetrics
	require.NotPanics(t, func() { nilMetrics.ObserveChallenge("default") })
}
