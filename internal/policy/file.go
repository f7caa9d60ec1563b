package policy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

// FileSource reads a pricing policy from a YAML or JSON file and reloads it
// when the file changes.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed policy source.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path: filepath.Clean(path),
	}
}

// Path returns the watched file.
func (f *FileSource) Path() string {
	return f.path
}

// Load reads and validates the policy file.
func (f *FileSource) Load() (*domain.PricingPolicy, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var policy domain.PricingPolicy
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", f.path, err)
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy file %s: %w", f.path, err)
	}

	return &policy, nil
}

// Watch reloads the file on every write and calls onChange with each valid
// policy. Invalid edits are logged and ignored. It blocks until ctx is done.
func (f *FileSource) Watch(ctx context.Context, onChange func(*domain.PricingPolicy)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and config mounts replace the file.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(f.path), err)
	}

	logger := observability.FromContext(ctx).With(observability.String("policy_file", f.path))
	logger.Info("watching pricing policy file")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			policy, loadErr := f.Load()
			if loadErr != nil {
				logger.Warn("pricing policy reload ignored", observability.Error(loadErr))
				continue
			}
			logger.Info("pricing policy reloaded", observability.String("op", event.Op.String()))
			onChange(policy)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(watchErr, fsnotify.ErrEventOverflow) {
				logger.Warn("file watcher overflow", observability.Error(watchErr))
				continue
			}
			return fmt.Errorf("file watcher failed: %w", watchErr)
		}
	}
}
