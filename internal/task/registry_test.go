package task_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/task"
)

func TestNewDefaultRegistry(t *testing.T) {
	ctx := context.Background()
	registry, err := task.NewDefaultRegistry()
	require.NoError(t, err)

	tasks := registry.List(ctx)
	require.Len(t, tasks, 10)
	for i := 1; i < len(tasks); i++ {
		require.Less(t, tasks[i-1].Name, tasks[i].Name)
	}

	prohibited := registry.Prohibited(ctx)
	require.Len(t, prohibited, 6)
	require.Equal(t, "chat-completion", prohibited[0].Name)

	reason, refused := registry.ProhibitedReason(ctx, "text-generation")
	require.True(t, refused)
	require.Equal(t, "Output length is unpredictable", reason)

	_, refused = registry.ProhibitedReason(ctx, task.TextClassification)
	require.False(t, refused)
}

func TestDefaultTasks_AreAllPriced(t *testing.T) {
	engine := domain.NewPricingEngine(domain.DefaultPricingPolicy())

	for _, tt := range task.DefaultTasks() {
		t.Run(tt.Name, func(t *testing.T) {
			_, ok := engine.EndpointPricing(tt.DefaultModel)
			require.True(t, ok, "default model %s has no price", tt.DefaultModel)
		})
	}
}

func TestRegistry_Get(t *testing.T) {
	ctx := context.Background()
	registry, err := task.NewDefaultRegistry()
	require.NoError(t, err)

	fillMask, err := registry.Get(ctx, task.FillMask)
	require.NoError(t, err)
	require.Equal(t, task.MaskToken, fillMask.RequiredToken)
	require.Equal(t, domain.InputJSON, fillMask.Input)

	imageToImage, err := registry.Get(ctx, task.ImageToImage)
	require.NoError(t, err)
	require.Equal(t, domain.InputBinary, imageToImage.Input)
	require.True(t, imageToImage.BinaryOutput)

	_, err = registry.Get(ctx, "text-generation")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = registry.Get(ctx, "")
	require.Error(t, err)
}

func TestRegistry_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(*task.Registry)
		task    domain.Task
		wantErr string
	}{
		{
			name: "new task",
			task: domain.Task{Name: "depth-estimation", DefaultModel: "acme/depth"},
		},
		{
			name:    "empty name",
			task:    domain.Task{Name: "", DefaultModel: "acme/depth"},
			wantErr: "name cannot be empty",
		},
		{
			name:    "no default model",
			task:    domain.Task{Name: "depth-estimation"},
			wantErr: "no default model",
		},
		{
			name: "duplicate",
			setup: func(r *task.Registry) {
				require.NoError(t, r.Register(ctx, domain.Task{Name: "depth-estimation", DefaultModel: "acme/a"}))
			},
			task:    domain.Task{Name: "depth-estimation", DefaultModel: "acme/b"},
			wantErr: "already registered",
		},
		{
			name: "prohibited",
			setup: func(r *task.Registry) {
				require.NoError(t, r.Prohibit("text-generation", "unbounded"))
			},
			task:    domain.Task{Name: "text-generation", DefaultModel: "acme/gpt"},
			wantErr: "is prohibited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := task.NewRegistry()
			if tt.setup != nil {
				tt.setup(registry)
			}

			err := registry.Register(ctx, tt.task)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := registry.Get(ctx, tt.task.Name)
			require.NoError(t, err)
			require.Equal(t, tt.task, got)
		})
	}
}

func TestRegistry_ProhibitRegisteredTask(t *testing.T) {
	registry := task.NewRegistry()
	require.NoError(t, registry.Register(context.Background(), domain.Task{Name: "x", DefaultModel: "acme/x"}))

	require.Error(t, registry.Prohibit("x", "changed my mind"))
	require.Error(t, registry.Prohibit("", "no name"))
}
