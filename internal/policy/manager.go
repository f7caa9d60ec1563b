// Package policy loads, persists and hot-swaps the pricing policy used by the
// pricing engine.
package policy

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

// Policy origins reported in events and logs.
const (
	OriginDefault = "default"
	OriginFile    = "file"
	OriginStore   = "store"
	OriginAdmin   = "admin"
)

// Manager owns policy changes. Every update is validated before the engine
// swaps to it.
type Manager struct {
	engine *domain.PricingEngine
	store  domain.PolicyStore
	file   *FileSource
	events domain.EventPublisher
}

// NewManager creates a policy manager. store and file are optional.
func NewManager(
	engine *domain.PricingEngine,
	store domain.PolicyStore,
	file *FileSource,
	events domain.EventPublisher,
) *Manager {
	return &Manager{
		engine: engine,
		store:  store,
		file:   file,
		events: events,
	}
}

// Bootstrap loads the initial policy: the file overrides the built-in policy,
// and a policy stored by an admin update overrides both.
func (m *Manager) Bootstrap(ctx context.Context) error {
	logger := observability.FromContext(ctx)
	origin := OriginDefault

	if m.file != nil {
		policy, err := m.file.Load()
		if err != nil {
			return err
		}
		m.engine.UpdatePolicy(policy)
		origin = OriginFile
	}

	if m.store != nil {
		policy, err := m.store.Load(ctx)
		switch {
		case errors.Is(err, domain.ErrPolicyNotFound):
		case err != nil:
			return fmt.Errorf("failed to load stored policy: %w", err)
		default:
			m.engine.UpdatePolicy(policy)
			origin = OriginStore
		}
	}

	active := m.engine.Policy()
	if err := active.Validate(); err != nil {
		return fmt.Errorf("invalid %s pricing policy: %w", origin, err)
	}

	logger.Info("pricing policy loaded",
		observability.String("origin", origin),
		observability.String("default_price", active.DefaultPrice),
		observability.Int("endpoints", len(active.Endpoints)),
		observability.Int("categories", len(active.Categories)))

	return nil
}

// Apply validates and activates a policy, then shares it through the store.
func (m *Manager) Apply(ctx context.Context, policy *domain.PricingPolicy) error {
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("invalid pricing policy: %w", err)
	}

	m.engine.UpdatePolicy(policy)

	if m.store != nil {
		if err := m.store.Save(ctx, policy); err != nil {
			return fmt.Errorf("policy applied locally but not shared: %w", err)
		}
	}

	m.publish(ctx, OriginAdmin, policy)
	return nil
}

// Policy returns a copy of the active policy.
func (m *Manager) Policy() *domain.PricingPolicy {
	return m.engine.Policy()
}

// Run follows the policy file and the store until ctx is done. File edits are
// ignored while the store holds a policy.
func (m *Manager) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	if m.file != nil {
		group.Go(func() error {
			return m.file.Watch(groupCtx, func(policy *domain.PricingPolicy) {
				m.applyFile(groupCtx, policy)
			})
		})
	}

	if m.store != nil {
		group.Go(func() error {
			return m.store.Subscribe(groupCtx, func(policy *domain.PricingPolicy) {
				m.engine.UpdatePolicy(policy)
				m.publish(groupCtx, OriginStore, policy)
			})
		})
	}

	return group.Wait()
}

func (m *Manager) applyFile(ctx context.Context, policy *domain.PricingPolicy) {
	if m.store != nil {
		_, err := m.store.Load(ctx)
		switch {
		case errors.Is(err, domain.ErrPolicyNotFound):
		case err != nil:
			observability.FromContext(ctx).Warn("pricing policy file change skipped, store unavailable",
				observability.Error(err))
			return
		default:
			observability.FromContext(ctx).Info("pricing policy file change ignored, stored policy takes precedence",
				observability.String("policy_file", m.file.Path()))
			return
		}
	}

	m.engine.UpdatePolicy(policy)
	m.publish(ctx, OriginFile, policy)
}

func (m *Manager) publish(ctx context.Context, origin string, policy *domain.PricingPolicy) {
	if m.events == nil {
		return
	}
	m.events.Publish(ctx, observability.EventPricingPolicyUpdated, map[string]interface{}{
		"origin":        origin,
		"default_price": policy.DefaultPrice,
		"endpoints":     len(policy.Endpoints),
		"categories":    len(policy.Categories),
	})
}
