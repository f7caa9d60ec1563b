package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davidbz/tollgate/internal/config"
	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/embedding/openai"
	"github.com/davidbz/tollgate/internal/facilitator"
	"github.com/davidbz/tollgate/internal/http"
	"github.com/davidbz/tollgate/internal/http/middleware"
	"github.com/davidbz/tollgate/internal/inference/echo"
	"github.com/davidbz/tollgate/internal/inference/huggingface"
	"github.com/davidbz/tollgate/internal/observability"
	"github.com/davidbz/tollgate/internal/payment"
	"github.com/davidbz/tollgate/internal/policy"
	"github.com/davidbz/tollgate/internal/routing"
	"github.com/davidbz/tollgate/internal/task"
)

const startupProbeTimeout = 5 * time.Second

func main() {
	container := buildContainer()

	if err := container.Invoke(run); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func run(
	_ *zap.Logger,
	server *http.Server,
	manager *policy.Manager,
	facilitatorClient *facilitator.Client,
	paymentCfg *payment.Config,
	serverCfg *config.ServerConfig,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := observability.FromContext(ctx)

	if err := manager.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to load pricing policy: %w", err)
	}

	probeFacilitator(ctx, facilitatorClient, paymentCfg)

	logger.Info("payment gateway configured",
		observability.String("network", paymentCfg.Network),
		observability.String("pay_to", paymentCfg.PayTo),
		observability.String("facilitator", facilitatorClient.URL()))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(server.Start)

	group.Go(func() error {
		return manager.Run(groupCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(serverCfg.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// probeFacilitator logs whether the facilitator advertises the configured
// network. Failures are logged, not fatal.
func probeFacilitator(ctx context.Context, client *facilitator.Client, cfg *payment.Config) {
	logger := observability.FromContext(ctx)

	probeCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	defer cancel()

	supported, err := client.Supported(probeCtx)
	if err != nil {
		logger.Warn("facilitator capabilities unavailable", observability.Error(err))
		return
	}

	for _, kind := range supported.Kinds {
		if kind.Network == cfg.Network && kind.Scheme == domain.SchemeExact {
			return
		}
	}
	logger.Warn("facilitator does not advertise the configured network",
		observability.String("network", cfg.Network))
}

//nolint:funlen // Container wiring reads best as one list.
func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(func(cfg *config.Config) (*zap.Logger, error) {
		return observability.InitLogger(cfg.LogLevel)
	}); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(observability.NewMetricsRegistry); err != nil {
		log.Fatalf("Failed to provide metrics registry: %v", err)
	}
	if err := container.Provide(observability.NewHTTPMetrics); err != nil {
		log.Fatalf("Failed to provide HTTP metrics: %v", err)
	}
	if err := container.Provide(observability.NewPaymentMetrics); err != nil {
		log.Fatalf("Failed to provide payment metrics: %v", err)
	}
	if err := container.Provide(func() domain.EventPublisher {
		return observability.NewEventBus()
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Pricing
	if err := container.Provide(func(cfg *config.PricingConfig) *domain.PricingEngine {
		defaults := domain.DefaultPricingPolicy()
		defaults.DefaultPrice = cfg.DefaultPrice
		return domain.NewPricingEngine(defaults)
	}); err != nil {
		log.Fatalf("Failed to provide pricing engine: %v", err)
	}
	if err := container.Provide(func(engine *domain.PricingEngine) domain.PriceCalculator {
		return engine
	}); err != nil {
		log.Fatalf("Failed to provide price calculator: %v", err)
	}
	if err := container.Provide(newRedisClient); err != nil {
		log.Fatalf("Failed to provide redis client: %v", err)
	}
	if err := container.Provide(newPolicyStore); err != nil {
		log.Fatalf("Failed to provide policy store: %v", err)
	}
	if err := container.Provide(func(cfg *config.PricingConfig) *policy.FileSource {
		if cfg.PolicyFile == "" {
			return nil
		}
		return policy.NewFileSource(cfg.PolicyFile)
	}); err != nil {
		log.Fatalf("Failed to provide policy file: %v", err)
	}
	if err := container.Provide(policy.NewManager); err != nil {
		log.Fatalf("Failed to provide policy manager: %v", err)
	}

	// Payment
	if err := container.Provide(func(cfg *facilitator.Config) (*facilitator.Client, error) {
		return facilitator.NewClient(cfg)
	}); err != nil {
		log.Fatalf("Failed to provide facilitator client: %v", err)
	}
	if err := container.Provide(func(client *facilitator.Client) domain.Facilitator {
		return client
	}); err != nil {
		log.Fatalf("Failed to provide facilitator: %v", err)
	}
	if err := container.Provide(func(
		cfg *payment.Config,
		pricer domain.PriceCalculator,
		fac domain.Facilitator,
		events domain.EventPublisher,
		metrics *observability.PaymentMetrics,
	) (*payment.Gate, error) {
		if err := payment.ValidateConfig(*cfg); err != nil {
			return nil, fmt.Errorf("invalid payment configuration: %w", err)
		}
		payTo, err := payment.NormalizePayee(cfg.PayTo)
		if err != nil {
			return nil, err
		}
		cfg.PayTo = payTo
		return payment.NewGate(cfg, pricer, fac, events, metrics), nil
	}); err != nil {
		log.Fatalf("Failed to provide payment gate: %v", err)
	}

	// Inference
	if err := container.Provide(newInferenceClient); err != nil {
		log.Fatalf("Failed to provide inference client: %v", err)
	}
	if err := container.Provide(newEmbeddingGenerator); err != nil {
		log.Fatalf("Failed to provide embedding generator: %v", err)
	}
	if err := container.Provide(domain.NewInferenceService); err != nil {
		log.Fatalf("Failed to provide inference service: %v", err)
	}

	// Tasks
	if err := container.Provide(func() (domain.TaskRegistry, error) {
		return task.NewDefaultRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide task registry: %v", err)
	}
	if err := container.Provide(func(registry domain.TaskRegistry) domain.Router {
		return routing.NewRouter(registry)
	}); err != nil {
		log.Fatalf("Failed to provide router: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// newRedisClient returns nil when no Redis address is configured.
func newRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), startupProbeTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// newPolicyStore must return an untyped nil when Redis is off so the manager
// sees no store.
func newPolicyStore(cfg *config.RedisConfig, client *redis.Client) (domain.PolicyStore, error) {
	if client == nil {
		return nil, nil
	}
	return policy.NewRedisStore(client, cfg.PolicyKey, cfg.PolicyChannel)
}

func newInferenceClient(cfg *config.InferenceConfig, hfCfg *huggingface.Config) (domain.InferenceClient, error) {
	switch cfg.Backend {
	case config.BackendEcho:
		return echo.NewClient(), nil
	case config.BackendHuggingFace:
		return huggingface.NewClient(hfCfg)
	default:
		return nil, fmt.Errorf("unknown inference backend %q", cfg.Backend)
	}
}

// newEmbeddingGenerator returns nil unless embeddings are enabled; the
// inference service then proxies embeddings like any other task.
func newEmbeddingGenerator(cfg *openai.Config) (domain.EmbeddingGenerator, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return openai.NewGenerator(cfg)
}
