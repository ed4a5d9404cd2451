package content

import (
	"sync"

	"github.com/glasswing/pipcore/internal/shared/types"
)

// Container hosts the embedded renderable inside a stable object.
//
// The platform controller points at one container for the whole session;
// swapping what the floating window shows goes through Replace, never
// through tearing the controller down. The invariant is exactly one
// embedded child after any call sequence: a swap detaches the old child
// in will-move → remove → clear-parent order before the new one is
// embedded pinned to the container's bounds.
//
// A container may receive content before it is realized (before its own
// surface exists); the embed is deferred and flushed by Realize.
type Container struct {
	mu       sync.Mutex
	realized bool
	bounds   types.Rect
	child    Renderable
	pending  Factory
}

// NewContainer creates a container with optional initial content.
// A nil factory leaves the container empty until the first Replace.
func NewContainer(initial Factory) *Container {
	c := &Container{}
	if initial != nil {
		c.Replace(initial)
	}
	return c
}

// Replace swaps the embedded content. Before realization the factory is
// stored and the embed deferred; afterwards the current child is detached
// and the new content embedded immediately. Calling Replace while the
// container is being displayed is safe: the child slot is exchanged
// atomically, so content is never duplicated or leaked.
func (c *Container) Replace(factory Factory) {
	c.mu.Lock()
	if !c.realized {
		c.pending = factory
		c.mu.Unlock()
		return
	}
	old := c.detachLocked()
	c.embedLocked(factory)
	c.mu.Unlock()

	_ = old // detached child is released; host side drops its surface
}

// Realize marks the container's own surface as created and flushes any
// deferred embed. Idempotent.
func (c *Container) Realize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.realized {
		return
	}
	c.realized = true
	if c.pending != nil {
		factory := c.pending
		c.pending = nil
		c.embedLocked(factory)
	}
}

// detachLocked removes the current child in teardown order:
// will-move(nil), remove from view, clear parent.
func (c *Container) detachLocked() Renderable {
	old := c.child
	if old == nil {
		return nil
	}
	if lc, ok := old.(Lifecycle); ok {
		lc.WillMove(nil)
	}
	c.child = nil
	if lc, ok := old.(Lifecycle); ok {
		lc.DidMove(nil)
	}
	return old
}

// embedLocked builds and pins new content as the single child.
func (c *Container) embedLocked(factory Factory) {
	if factory == nil {
		return
	}
	next := factory()
	if next == nil {
		return
	}
	if lc, ok := next.(Lifecycle); ok {
		lc.WillMove(c)
	}
	c.child = next
	if lc, ok := next.(Lifecycle); ok {
		lc.DidMove(c)
	}
}

// Child returns the embedded renderable, nil when empty
func (c *Container) Child() Renderable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.child
}

// ChildCount returns the number of embedded children (0 or 1)
func (c *Container) ChildCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.child != nil {
		return 1
	}
	return 0
}

// Realized reports whether the container's surface exists
func (c *Container) Realized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.realized
}

// SetBounds updates the container's bounds; the child stays pinned
func (c *Container) SetBounds(bounds types.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bounds = bounds
}

// Bounds returns the container's bounds
func (c *Container) Bounds() types.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}
