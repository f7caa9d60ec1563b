package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/tollgate/internal/domain"
)

// Registry implements the TaskRegistry interface.
type Registry struct {
	mu         sync.RWMutex
	tasks      map[string]domain.Task
	prohibited map[string]string
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:         sync.RWMutex{},
		tasks:      make(map[string]domain.Task),
		prohibited: make(map[string]string),
	}
}

// NewDefaultRegistry creates a registry holding the built-in catalog.
func NewDefaultRegistry() (*Registry, error) {
	registry := NewRegistry()
	ctx := context.Background()

	for _, t := range DefaultTasks() {
		if err := registry.Register(ctx, t); err != nil {
			return nil, err
		}
	}

	for name, reason := range DefaultProhibited() {
		if err := registry.Prohibit(name, reason); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Register adds a task to the registry.
func (r *Registry) Register(_ context.Context, t domain.Task) error {
	if t.Name == "" {
		return errors.New("task name cannot be empty")
	}

	if t.DefaultModel == "" {
		return fmt.Errorf("task %s has no default model", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[t.Name]; exists {
		return fmt.Errorf("task %s already registered", t.Name)
	}

	if _, refused := r.prohibited[t.Name]; refused {
		return fmt.Errorf("task %s is prohibited", t.Name)
	}

	r.tasks[t.Name] = t
	return nil
}

// Prohibit marks a task as refused with the given reason.
func (r *Registry) Prohibit(name, reason string) error {
	if name == "" {
		return errors.New("task name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[name]; exists {
		return fmt.Errorf("task %s is registered and cannot be prohibited", name)
	}

	r.prohibited[name] = reason
	return nil
}

// Get retrieves a task by name.
func (r *Registry) Get(_ context.Context, name string) (domain.Task, error) {
	if name == "" {
		return domain.Task{}, errors.New("task name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tasks[name]
	if !exists {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, name)
	}

	return t, nil
}

// List returns all tasks sorted by name.
func (r *Registry) List(_ context.Context) []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks
}

// ProhibitedReason reports why a task is refused.
func (r *Registry) ProhibitedReason(_ context.Context, name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reason, refused := r.prohibited[name]
	return reason, refused
}

// Prohibited returns the refused tasks sorted by name.
func (r *Registry) Prohibited(_ context.Context) []domain.ProhibitedTask {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ProhibitedTask, 0, len(r.prohibited))
	for name, reason := range r.prohibited {
		out = append(out, domain.ProhibitedTask{Name: name, Reason: reason})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
