package capabilities

import (
	"context"
	"sync"
	"time"

	"orquestra/pkg/errors"
)

// Observer receives the outcome of every Execute call. Lets callers attach
// instrumentation without this package importing it.
type Observer func(name string, duration time.Duration, err error)

// Registry is a thread-safe name → Capability map.
type Registry struct {
	caps     map[string]Capability
	mu       sync.RWMutex
	observer Observer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		caps: make(map[string]Capability),
	}
}

// Register adds a capability to the registry, replacing any existing entry
// with the same name.
func (r *Registry) Register(name string, c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caps[name] = c
}

// SetObserver installs a callback invoked after every Execute.
func (r *Registry) SetObserver(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = obs
}

// Get retrieves a capability by name.
func (r *Registry) Get(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caps[name]
	return c, ok
}

// List returns the names of all registered capabilities.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	return names
}

// Execute runs a capability by name. An unregistered name reports
// ErrCapabilityUnavailable rather than panicking, so a hallucinated call
// from the model degrades into an error the agent loop can feed back.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error) {
	start := time.Now()

	c, ok := r.Get(name)
	if !ok {
		err := errors.Wrapf(errors.ErrCapabilityUnavailable, "no capability registered as %q", name)
		r.observe(name, time.Since(start), err)
		return nil, err
	}

	result, err := c.Execute(ctx, args)
	r.observe(name, time.Since(start), err)
	return result, err
}

func (r *Registry) observe(name string, duration time.Duration, err error) {
	r.mu.RLock()
	obs := r.observer
	r.mu.RUnlock()
	if obs != nil {
		obs(name, duration, err)
	}
}
