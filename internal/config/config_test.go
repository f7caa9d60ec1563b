package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/tollgate/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 120, cfg.Server.WriteTimeout)
		require.Equal(t, int64(26214400), cfg.Server.MaxBodyBytes)
		require.Equal(t, "eip155:8453", cfg.Payment.Network)
		require.Empty(t, cfg.Payment.PayTo)
		require.Equal(t, "https://x402.org/facilitator", cfg.Facilitator.URL)
		require.False(t, cfg.Facilitator.UsesCDP())
		require.Equal(t, "10000", cfg.Pricing.DefaultPrice)
		require.Empty(t, cfg.Pricing.AdminToken)
		require.Equal(t, config.BackendHuggingFace, cfg.Inference.Backend)
		require.Equal(t, "https://router.huggingface.co/hf-inference/models", cfg.HuggingFace.BaseURL)
		require.Equal(t, 2, cfg.HuggingFace.MaxRetries)
		require.False(t, cfg.Embeddings.Enabled)
		require.False(t, cfg.Redis.Enabled())
		require.Equal(t, "tollgate:pricing:policy", cfg.Redis.PolicyKey)
		require.Contains(t, cfg.CORS.ExposedHeaders, "PAYMENT-REQUIRED")
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("PAYMENT_NETWORK", "eip155:84532")
		t.Setenv("PAYMENT_ADDRESS", "0x209693Bc6afc0C5328bA36FaF03C514EF312287C")
		t.Setenv("CDP_API_KEY_ID", "key-id")
		t.Setenv("CDP_API_KEY_SECRET", "secret")
		t.Setenv("DEFAULT_PRICE", "5000")
		t.Setenv("HF_TOKEN", "hf_test")
		t.Setenv("EMBEDDINGS_ENABLED", "true")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("INFERENCE_BACKEND", "echo")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, "eip155:84532", cfg.Payment.Network)
		require.Equal(t, "0x209693Bc6afc0C5328bA36FaF03C514EF312287C", cfg.Payment.PayTo)
		require.True(t, cfg.Facilitator.UsesCDP())
		require.Equal(t, "5000", cfg.Pricing.DefaultPrice)
		require.Equal(t, "hf_test", cfg.HuggingFace.Token)
		require.Equal(t, "hf_test", cfg.Embeddings.APIKey)
		require.True(t, cfg.Embeddings.Enabled)
		require.True(t, cfg.Redis.Enabled())
		require.Equal(t, config.BackendEcho, cfg.Inference.Backend)
	})

	t.Run("should expose sub-configs for injection", func(t *testing.T) {
		os.Clearenv()

		cfg := config.Load()
		deps := config.ParseDependenciesConfig(cfg)

		require.Same(t, &cfg.Server, deps.Server)
		require.Same(t, &cfg.Payment, deps.Payment)
		require.Same(t, &cfg.Redis, deps.Redis)
	})
}
