package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

// RedisStore persists the active policy in Redis and broadcasts updates over
// pub/sub so every replica swaps to the same policy.
type RedisStore struct {
	client  *redis.Client
	key     string
	channel string
}

// NewRedisStore creates a Redis-backed policy store.
func NewRedisStore(client *redis.Client, key, channel string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if key == "" || channel == "" {
		return nil, errors.New("redis policy key and channel are required")
	}

	return &RedisStore{
		client:  client,
		key:     key,
		channel: channel,
	}, nil
}

// Load returns the stored policy.
func (s *RedisStore) Load(ctx context.Context) (*domain.PricingPolicy, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return decodePolicy(raw)
}

// Save stores the policy and publishes it in one transaction.
func (s *RedisStore) Save(ctx context.Context, policy *domain.PricingPolicy) error {
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid policy: %w", err)
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to encode policy: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key, raw, 0)
		pipe.Publish(ctx, s.channel, raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}

	return nil
}

// Subscribe delivers every valid published policy to onChange until ctx is done.
func (s *RedisStore) Subscribe(ctx context.Context, onChange func(*domain.PricingPolicy)) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before listening.
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}

	logger := observability.FromContext(ctx).With(observability.String("channel", s.channel))
	logger.Info("subscribed to pricing policy updates")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			policy, err := decodePolicy([]byte(msg.Payload))
			if err != nil {
				logger.Warn("ignoring invalid policy update", observability.Error(err))
				continue
			}
			onChange(policy)
		}
	}
}

func decodePolicy(raw []byte) (*domain.PricingPolicy, error) {
	var policy domain.PricingPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return nil, fmt.Errorf("failed to decode policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("stored policy is invalid: %w", err)
	}
	return &policy, nil
}
