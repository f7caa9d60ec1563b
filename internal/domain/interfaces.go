package domain

import "context"

// Facilitator verifies and settles x402 payments on behalf of the gateway.
type Facilitator interface {
	// Verify checks that the proof satisfies the requirements without moving funds.
	Verify(ctx context.Context, proof PaymentProof, requirements PaymentRequirements) (*VerifyResult, error)

	// Settle executes the payment on-chain.
	Settle(ctx context.Context, proof PaymentProof, requirements PaymentRequirements) (*SettleResult, error)
}

// InferenceClient calls an upstream inference backend.
type InferenceClient interface {
	// Infer posts the request body to the model and returns the raw upstream response.
	Infer(ctx context.Context, req *InferenceRequest) (*InferenceResponse, error)

	// Name returns the backend identifier.
	Name() string
}

// EmbeddingGenerator produces embedding vectors for text inputs.
type EmbeddingGenerator interface {
	// Embed returns one vector per input.
	Embed(ctx context.Context, model string, inputs []string) ([][]float64, error)

	// Name returns the generator identifier.
	Name() string
}

// TaskRegistry manages the task catalog.
type TaskRegistry interface {
	// Register adds a task to the catalog.
	Register(ctx context.Context, task Task) error

	// Get retrieves a task by name.
	Get(ctx context.Context, name string) (Task, error)

	// List returns all tasks sorted by name.
	List(ctx context.Context) []Task

	// ProhibitedReason reports why a task is refused, if it is.
	ProhibitedReason(ctx context.Context, name string) (string, bool)

	// Prohibited returns the refused tasks sorted by name.
	Prohibited(ctx context.Context) []ProhibitedTask
}

// PolicyStore persists pricing policies so replicas share updates.
type PolicyStore interface {
	// Load returns the stored policy or ErrPolicyNotFound.
	Load(ctx context.Context) (*PricingPolicy, error)

	// Save stores the policy and notifies subscribers.
	Save(ctx context.Context, policy *PricingPolicy) error

	// Subscribe calls onChange for every published policy until ctx is done.
	Subscribe(ctx context.Context, onChange func(*PricingPolicy)) error
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// Router resolves the model a task call is served by.
type Router interface {
	// Route returns the model key for the request.
	Route(ctx context.Context, req *RouteRequest) (string, error)
}
