package view

import (
	"sync"
	"time"

	"github.com/glasswing/pipcore/internal/shared/types"
)

// Registry tracks host-reported views by ID.
//
// The host owns its views; the registry holds geometry snapshots only.
// The session core looks views up by ID and never pins them: when the
// host removes a view, any ID the session still holds simply stops
// resolving. This keeps view lifetime bounded by the host, not by the
// session.
type Registry struct {
	mu    sync.RWMutex
	views map[string]types.View
}

// NewRegistry creates an empty view registry
func NewRegistry() *Registry {
	return &Registry{views: make(map[string]types.View)}
}

// Put registers or updates a view from a host report
func (r *Registry) Put(report types.ViewReport) types.View {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := types.View{
		ID:        report.ID,
		WindowID:  report.WindowID,
		Frame:     report.Frame,
		UpdatedAt: time.Now(),
	}
	r.views[v.ID] = v
	return v
}

// Get retrieves a view by ID
func (r *Registry) Get(id string) (types.View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[id]
	return v, ok
}

// Remove forgets a view. Returns false if the view was unknown.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.views[id]; !ok {
		return false
	}
	delete(r.views, id)
	return true
}

// List returns snapshots of all registered views
func (r *Registry) List() []types.View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.View, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	return out
}

// Count returns the number of registered views
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}
