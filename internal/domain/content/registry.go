package content

import (
	"fmt"
	"sync"
)

// Registry maps content IDs to factories so hosts can register a
// descriptor once and reference it by ID in start and swap commands.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty content registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register stores a blueprint-backed factory under the given ID.
// Re-registering an ID replaces the descriptor; sessions already showing
// the old content keep it until the next swap.
func (r *Registry) Register(contentID string, blueprint map[string]interface{}) error {
	if contentID == "" {
		return fmt.Errorf("content id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[contentID] = func() Renderable {
		return &Blueprint{ID: contentID, Spec: blueprint}
	}
	return nil
}

// RegisterFactory stores a custom factory under the given ID
func (r *Registry) RegisterFactory(contentID string, factory Factory) error {
	if contentID == "" {
		return fmt.Errorf("content id must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[contentID] = factory
	return nil
}

// Get resolves a factory by content ID
func (r *Registry) Get(contentID string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[contentID]
	return f, ok
}

// Remove forgets a content descriptor
func (r *Registry) Remove(contentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[contentID]; !ok {
		return false
	}
	delete(r.factories, contentID)
	return true
}

// IDs returns all registered content IDs
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for contentID := range r.factories {
		ids = append(ids, contentID)
	}
	return ids
}
