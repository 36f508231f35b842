package services

import (
	"context"
	"sort"
	"sync"
)

// Registry manages the checkers consulted by the readiness probe
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewRegistry creates a new checker registry
func NewRegistry() *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker to the registry
func (r *Registry) Register(name string, checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Get retrieves a checker by name
func (r *Registry) Get(name string) Checker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.checkers[name]
}

// List returns all registered checker names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheckAll checks health of all registered checkers
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make(map[string]error)
	for name, checker := range r.checkers {
		results[name] = checker.HealthCheck(ctx)
	}
	return results
}

// Unregister removes a checker from the registry
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}
