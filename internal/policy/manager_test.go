package policy_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/mocks"
	"github.com/davidbz/tollgate/internal/observability"
	"github.com/davidbz/tollgate/internal/policy"
)

func newEngine() *domain.PricingEngine {
	return domain.NewPricingEngine(&domain.PricingPolicy{DefaultPrice: "1000"})
}

func TestManager_Bootstrap(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	writePolicyFile(t, path, `defaultPrice: "2000"`)

	t.Run("built-in policy without sources", func(t *testing.T) {
		engine := newEngine()
		manager := policy.NewManager(engine, nil, nil, nil)

		require.NoError(t, manager.Bootstrap(ctx))
		require.Equal(t, "1000", manager.Policy().DefaultPrice)
	})

	t.Run("file overrides built-in", func(t *testing.T) {
		engine := newEngine()
		manager := policy.NewManager(engine, nil, policy.NewFileSource(path), nil)

		require.NoError(t, manager.Bootstrap(ctx))
		require.Equal(t, "2000", engine.Policy().DefaultPrice)
	})

	t.Run("stored policy overrides file", func(t *testing.T) {
		store := mocks.NewMockPolicyStore(t)
		store.EXPECT().Load(mock.Anything).Return(&domain.PricingPolicy{DefaultPrice: "3000"}, nil)

		engine := newEngine()
		manager := policy.NewManager(engine, store, policy.NewFileSource(path), nil)

		require.NoError(t, manager.Bootstrap(ctx))
		require.Equal(t, "3000", engine.Policy().DefaultPrice)
	})

	t.Run("empty store keeps file policy", func(t *testing.T) {
		store := mocks.NewMockPolicyStore(t)
		store.EXPECT().Load(mock.Anything).Return(nil, domain.ErrPolicyNotFound)

		engine := newEngine()
		manager := policy.NewManager(engine, store, policy.NewFileSource(path), nil)

		require.NoError(t, manager.Bootstrap(ctx))
		require.Equal(t, "2000", engine.Policy().DefaultPrice)
	})

	t.Run("store failure", func(t *testing.T) {
		store := mocks.NewMockPolicyStore(t)
		store.EXPECT().Load(mock.Anything).Return(nil, errors.New("connection refused"))

		manager := policy.NewManager(newEngine(), store, nil, nil)
		require.ErrorContains(t, manager.Bootstrap(ctx), "connection refused")
	})

	t.Run("invalid built-in default price", func(t *testing.T) {
		for _, price := range []string{"0.01", "abc", ""} {
			engine := domain.NewPricingEngine(&domain.PricingPolicy{DefaultPrice: price})
			manager := policy.NewManager(engine, nil, nil, nil)

			require.ErrorContains(t, manager.Bootstrap(ctx), "invalid default pricing policy", price)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		writePolicyFile(t, bad, `defaultPrice: "free"`)

		manager := policy.NewManager(newEngine(), nil, policy.NewFileSource(bad), nil)
		require.Error(t, manager.Bootstrap(ctx))
	})
}

func TestManager_Apply(t *testing.T) {
	ctx := context.Background()
	update := &domain.PricingPolicy{
		DefaultPrice: "5000",
		Endpoints: map[string]domain.EndpointPricing{
			"acme/model": {BasePrice: "9000"},
		},
	}

	t.Run("activates, stores and announces", func(t *testing.T) {
		store := mocks.NewMockPolicyStore(t)
		store.EXPECT().Save(mock.Anything, update).Return(nil)

		events := mocks.NewMockEventPublisher(t)
		events.EXPECT().
			Publish(mock.Anything, observability.EventPricingPolicyUpdated, mock.Anything).
			Run(func(_ context.Context, _ string, data map[string]interface{}) {
				require.Equal(t, policy.OriginAdmin, data["origin"])
				require.Equal(t, "5000", data["default_price"])
				require.Equal(t, 1, data["endpoints"])
			}).
			Return()

		engine := newEngine()
		manager := policy.NewManager(engine, store, nil, events)

		require.NoError(t, manager.Apply(ctx, update))
		require.Equal(t, "9000", engine.Policy().Endpoints["acme/model"].BasePrice)
	})

	t.Run("invalid policy leaves engine untouched", func(t *testing.T) {
		engine := newEngine()
		manager := policy.NewManager(engine, mocks.NewMockPolicyStore(t), nil, mocks.NewMockEventPublisher(t))

		err := manager.Apply(ctx, &domain.PricingPolicy{DefaultPrice: "-1"})
		require.ErrorContains(t, err, "invalid pricing policy")
		require.Equal(t, "1000", engine.Policy().DefaultPrice)
	})

	t.Run("store failure is reported after local apply", func(t *testing.T) {
		store := mocks.NewMockPolicyStore(t)
		store.EXPECT().Save(mock.Anything, update).Return(errors.New("readonly replica"))

		engine := newEngine()
		manager := policy.NewManager(engine, store, nil, nil)

		err := manager.Apply(ctx, update)
		require.ErrorContains(t, err, "readonly replica")
		require.Equal(t, "5000", engine.Policy().DefaultPrice)
	})
}

func TestManager_Run_FollowsStore(t *testing.T) {
	store := mocks.NewMockPolicyStore(t)
	store.EXPECT().
		Subscribe(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, onChange func(*domain.PricingPolicy)) error {
			onChange(&domain.PricingPolicy{DefaultPrice: "4242"})
			return nil
		})

	events := mocks.NewMockEventPublisher(t)
	events.EXPECT().
		Publish(mock.Anything, observability.EventPricingPolicyUpdated, mock.MatchedBy(func(data map[string]interface{}) bool {
			return data["origin"] == policy.OriginStore
		})).
		Return()

	engine := newEngine()
	manager := policy.NewManager(engine, store, nil, events)

	require.NoError(t, manager.Run(context.Background()))
	require.Equal(t, "4242", engine.Policy().DefaultPrice)
}

func TestManager_Run_PropagatesStoreError(t *testing.T) {
	store := mocks.NewMockPolicyStore(t)
	store.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(errors.New("subscription lost"))

	manager := policy.NewManager(newEngine(), store, nil, nil)
	require.ErrorContains(t, manager.Run(context.Background()), "subscription lost")
}

func TestManager_Run_FileEdits(t *testing.T) {
	stored := &domain.PricingPolicy{DefaultPrice: "12345"}

	run := func(t *testing.T, manager *policy.Manager) {
		t.Helper()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- manager.Run(ctx) }()
		t.Cleanup(func() {
			cancel()
			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("run did not stop")
			}
		})
	}

	blockingSubscribe := func(ctx context.Context, _ func(*domain.PricingPolicy)) error {
		<-ctx.Done()
		return nil
	}

	t.Run("stored policy wins over file edits", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pricing.yaml")
		writePolicyFile(t, path, `defaultPrice: "111"`)

		checked := make(chan struct{}, 64)
		store := mocks.NewMockPolicyStore(t)
		store.EXPECT().Subscribe(mock.Anything, mock.Anything).RunAndReturn(blockingSubscribe)
		store.EXPECT().Load(mock.Anything).RunAndReturn(func(context.Context) (*domain.PricingPolicy, error) {
			checked <- struct{}{}
			return stored, nil
		})

		engine := domain.NewPricingEngine(stored)
		run(t, policy.NewManager(engine, store, policy.NewFileSource(path), nil))

		require.Eventually(t, func() bool {
			writePolicyFile(t, path, `defaultPrice: "222"`)
			select {
			case <-checked:
				return true
			default:
				return false
			}
		}, 5*time.Second, 50*time.Millisecond)
		require.Equal(t, "12345", engine.Policy().DefaultPrice)
	})

	t.Run("store unavailable skips file edits", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pricing.yaml")
		writePolicyFile(t, path, `defaultPrice: "111"`)

		checked := make(chan struct{}, 64)
		store := mocks.NewMockPolicyStore(t)
		store.EXPECT().Subscribe(mock.Anything, mock.Anything).RunAndReturn(blockingSubscribe)
		store.EXPECT().Load(mock.Anything).RunAndReturn(func(context.Context) (*domain.PricingPolicy, error) {
			checked <- struct{}{}
			return nil, errors.New("connection refused")
		})

		engine := domain.NewPricingEngine(stored)
		run(t, policy.NewManager(engine, store, policy.NewFileSource(path), nil))

		require.Eventually(t, func() bool {
			writePolicyFile(t, path, `defaultPrice: "222"`)
			select {
			case <-checked:
				return true
			default:
				return false
			}
		}, 5*time.Second, 50*time.Millisecond)
		require.Equal(t, "12345", engine.Policy().DefaultPrice)
	})

	t.Run("empty store follows file edits", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pricing.yaml")
		writePolicyFile(t, path, `defaultPrice: "111"`)

		store := mocks.NewMockPolicyStore(t)
		store.EXPECT().Subscribe(mock.Anything, mock.Anything).RunAndReturn(blockingSubscribe)
		store.EXPECT().Load(mock.Anything).Return(nil, domain.ErrPolicyNotFound)

		events := mocks.NewMockEventPublisher(t)
		events.EXPECT().
			Publish(mock.Anything, observability.EventPricingPolicyUpdated, mock.MatchedBy(func(data map[string]interface{}) bool {
				return data["origin"] == policy.OriginFile
			})).
			Return()

		engine := domain.NewPricingEngine(&domain.PricingPolicy{DefaultPrice: "111"})
		run(t, policy.NewManager(engine, store, policy.NewFileSource(path), events))

		require.Eventually(t, func() bool {
			writePolicyFile(t, path, `defaultPrice: "222"`)
			return engine.Policy().DefaultPrice == "222"
		}, 5*time.Second, 50*time.Millisecond)
	})
}
