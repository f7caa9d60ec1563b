package huggingface_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/inference/huggingface"
	"github.com/davidbz/tollgate/internal/observability"
)

func newTestClient(t *testing.T, retries int, handler http.HandlerFunc) *huggingface.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := huggingface.NewClient(&huggingface.Config{
		Token:      "hf_test",
		BaseURL:    server.URL + "/models/",
		Timeout:    5,
		MaxRetries: retries,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name   string
		config *huggingface.Config
	}{
		{name: "nil config", config: nil},
		{name: "missing token", config: &huggingface.Config{Token: "", BaseURL: "http://hf"}},
		{name: "missing base URL", config: &huggingface.Config{Token: "hf", BaseURL: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := huggingface.NewClient(tt.config)
			require.Error(t, err)
			require.Nil(t, client)
		})
	}
}

func TestClient_Infer(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards body with auth and content type", func(t *testing.T) {
		client := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/models/acme/classifier", r.URL.Path)
			require.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.JSONEq(t, `{"inputs":"I love this!"}`, string(body))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[[{"label":"POSITIVE","score":0.99}]]`))
		})

		resp, err := client.Infer(ctx, &domain.InferenceRequest{
			Model:       "acme/classifier",
			Task:        "text-classification",
			ContentType: "",
			Body:        []byte(`{"inputs":"I love this!"}`),
		})
		require.NoError(t, err)
		require.True(t, resp.OK())
		require.Equal(t, "application/json", resp.ContentType)
		require.JSONEq(t, `[[{"label":"POSITIVE","score":0.99}]]`, string(resp.Body))
	})

	t.Run("binary payloads keep their content type", func(t *testing.T) {
		client := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "audio/wav", r.Header.Get("Content-Type"))
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		})

		resp, err := client.Infer(ctx, &domain.InferenceRequest{
			Model:       "acme/audio",
			ContentType: "audio/wav",
			Body:        []byte{1, 2, 3},
		})
		require.NoError(t, err)
		require.Equal(t, "image/png", resp.ContentType)
		require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, resp.Body)
	})

	t.Run("upstream errors pass through", func(t *testing.T) {
		client := newTestClient(t, 0, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Model not found"}`))
		})

		resp, err := client.Infer(ctx, &domain.InferenceRequest{Model: "acme/missing"})
		require.NoError(t, err)
		require.False(t, resp.OK())
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.JSONEq(t, `{"error":"Model not found"}`, string(resp.Body))
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, 1, func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.Equal(t, `{"inputs":"x"}`, string(body))

			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		})

		resp, err := client.Infer(ctx, &domain.InferenceRequest{Model: "acme/model", Body: []byte(`{"inputs":"x"}`)})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("rejects missing model", func(t *testing.T) {
		client := newTestClient(t, 0, func(http.ResponseWriter, *http.Request) {
			t.Fatal("upstream must not be called")
		})

		_, err := client.Infer(ctx, &domain.InferenceRequest{Model: ""})
		require.Error(t, err)
	})
}

func TestClient_Name(t *testing.T) {
	client, err := huggingface.NewClient(&huggingface.Config{Token: "hf", BaseURL: "http://hf", Timeout: 1})
	require.NoError(t, err)
	require.Equal(t, "huggingface", client.Name())
}

func TestClient_RetryLogsUseCurrentLogger(t *testing.T) {
	client := newTestClient(t, 0, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Installed after the client exists, as InitLogger may be.
	core, logs := observer.New(zapcore.DebugLevel)
	observability.SetLogger(zap.New(core))
	t.Cleanup(func() { observability.SetLogger(nil) })

	_, err := client.Infer(context.Background(), &domain.InferenceRequest{
		Model:       "acme/classifier",
		Task:        "",
		ContentType: "",
		Body:        []byte(`{}`),
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("performing request").All()
	require.NotEmpty(t, entries)
	require.Equal(t, "huggingface", entries[0].LoggerName)
}
