package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/tollgate/internal/domain"
)

// TaskRouter resolves the model that serves a task call.
type TaskRouter struct {
	registry domain.TaskRegistry
}

// NewRouter creates a new router.
func NewRouter(registry domain.TaskRegistry) *TaskRouter {
	return &TaskRouter{
		registry: registry,
	}
}

// Route returns "org/model" when both path segments are given, otherwise the
// task's default model. Prohibited tasks fail with ErrProhibitedTask.
func (r *TaskRouter) Route(ctx context.Context, req *domain.RouteRequest) (string, error) {
	if req == nil {
		return "", errors.New("route request cannot be nil")
	}

	if req.Task == "" {
		return "", errors.New("task name is required")
	}

	if reason, refused := r.registry.ProhibitedReason(ctx, req.Task); refused {
		return "", fmt.Errorf("%w: %s: %s", domain.ErrProhibitedTask, req.Task, reason)
	}

	task, err := r.registry.Get(ctx, req.Task)
	if err != nil {
		return "", err
	}

	if req.Org != "" && req.Model != "" {
		return req.Org + "/" + req.Model, nil
	}

	return task.DefaultModel, nil
}
