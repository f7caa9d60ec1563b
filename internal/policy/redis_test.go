package policy_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/policy"
)

const (
	testKey     = "tollgate:pricing:policy"
	testChannel = "tollgate:pricing:updates"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *policy.RedisStore) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := policy.NewRedisStore(client, testKey, testChannel)
	require.NoError(t, err)
	return server, store
}

func storedPolicy() *domain.PricingPolicy {
	return &domain.PricingPolicy{
		DefaultPrice: "12345",
		Endpoints: map[string]domain.EndpointPricing{
			"acme/model": {
				BasePrice:            "100",
				Description:          "Acme",
				ParameterMultipliers: map[string]bool{"n": true},
				ParameterAdditions:   map[string]string{"hd": "10"},
			},
		},
		Categories: map[string]domain.CategoryPricing{
			"images": {BasePrice: "500", Description: ""},
		},
	}
}

func TestNewRedisStore_Validation(t *testing.T) {
	_, err := policy.NewRedisStore(nil, testKey, testChannel)
	require.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	_, err = policy.NewRedisStore(client, "", testChannel)
	require.Error(t, err)
}

func TestRedisStore_LoadAndSave(t *testing.T) {
	ctx := context.Background()
	server, store := newTestStore(t)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrPolicyNotFound)

	require.NoError(t, store.Save(ctx, storedPolicy()))
	require.True(t, server.Exists(testKey))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, storedPolicy(), loaded)

	err = store.Save(ctx, &domain.PricingPolicy{DefaultPrice: "abc"})
	require.ErrorContains(t, err, "refusing to store invalid policy")

	// A corrupt value is reported, not applied.
	require.NoError(t, server.Set(testKey, `{"defaultPrice":"-3"}`))
	_, err = store.Load(ctx)
	require.ErrorContains(t, err, "stored policy is invalid")
}

func TestRedisStore_Subscribe(t *testing.T) {
	server, store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *domain.PricingPolicy, 4)
	done := make(chan error, 1)
	go func() {
		done <- store.Subscribe(ctx, func(p *domain.PricingPolicy) { updates <- p })
	}()

	require.Eventually(t, func() bool {
		return server.PubSubNumSub(testChannel)[testChannel] == 1
	}, 5*time.Second, 10*time.Millisecond)

	server.Publish(testChannel, "not json")
	require.NoError(t, store.Save(context.Background(), storedPolicy()))

	select {
	case received := <-updates:
		require.Equal(t, storedPolicy(), received)
	case <-time.After(5 * time.Second):
		t.Fatal("no policy update received")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not stop")
	}
	require.Empty(t, updates)
}
