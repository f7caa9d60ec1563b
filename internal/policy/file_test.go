package policy_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/policy"
)

const yamlPolicy = `
defaultPrice: "20000"
endpoints:
  black-forest-labs/FLUX.1-dev:
    basePrice: "40000"
    description: Text to image generation
    parameterMultipliers:
      num_images: true
    parameterAdditions:
      hd: "5000"
  MIT/ast-finetuned-audioset-10-10-0.4593:
    basePrice: "3000"
categories:
  images:
    basePrice: "25000"
`

func writePolicyFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml keeps model ids intact", func(t *testing.T) {
		path := filepath.Join(dir, "pricing.yaml")
		writePolicyFile(t, path, yamlPolicy)

		loaded, err := policy.NewFileSource(path).Load()
		require.NoError(t, err)
		require.Equal(t, "20000", loaded.DefaultPrice)

		flux, ok := loaded.Endpoints["black-forest-labs/FLUX.1-dev"]
		require.True(t, ok)
		require.Equal(t, "40000", flux.BasePrice)
		require.True(t, flux.ParameterMultipliers["num_images"])
		require.Equal(t, "5000", flux.ParameterAdditions["hd"])

		_, ok = loaded.Endpoints["MIT/ast-finetuned-audioset-10-10-0.4593"]
		require.True(t, ok)
		require.Equal(t, "25000", loaded.Categories["images"].BasePrice)
	})

	t.Run("json is accepted", func(t *testing.T) {
		path := filepath.Join(dir, "pricing.json")
		writePolicyFile(t, path, `{"defaultPrice":"1","endpoints":{"a/b":{"basePrice":"2"}}}`)

		loaded, err := policy.NewFileSource(path).Load()
		require.NoError(t, err)
		require.Equal(t, "2", loaded.Endpoints["a/b"].BasePrice)
	})

	t.Run("invalid amounts are rejected", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		writePolicyFile(t, path, "defaultPrice: \"0.5\"\n")

		_, err := policy.NewFileSource(path).Load()
		require.ErrorContains(t, err, "invalid policy file")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		writePolicyFile(t, path, "defaultPrice: [unclosed\n")

		_, err := policy.NewFileSource(path).Load()
		require.ErrorContains(t, err, "failed to parse policy file")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := policy.NewFileSource(filepath.Join(dir, "absent.yaml")).Load()
		require.ErrorContains(t, err, "failed to read policy file")
	})
}

func TestFileSource_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	writePolicyFile(t, path, `defaultPrice: "1"`)
	source := policy.NewFileSource(path)

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan *domain.PricingPolicy, 16)
	done := make(chan error, 1)
	go func() {
		done <- source.Watch(ctx, func(p *domain.PricingPolicy) { updates <- p })
	}()

	// Invalid edits never reach the callback.
	writePolicyFile(t, path, `defaultPrice: "-1"`)

	var received *domain.PricingPolicy
	require.Eventually(t, func() bool {
		writePolicyFile(t, path, `defaultPrice: "777"`)
		select {
		case received = <-updates:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
	require.Equal(t, "777", received.DefaultPrice)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
