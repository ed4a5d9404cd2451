package anchor

import (
	"sync"

	"github.com/glasswing/pipcore/internal/shared/id"
	"github.com/glasswing/pipcore/internal/shared/types"
)

// Surface is the invisible on-screen surface whose frame the platform
// uses as the source and target of the floating-window animation.
//
// A surface renders nothing, is excluded from accessibility, and ignores
// input unless explicitly made interactive. Its identity is stable for
// the lifetime of the owning session: only the frame is ever mutated,
// because the platform animates badly against a source view that churns
// mid-flight. The hosting window is referenced by ID only; the surface
// never keeps a host window alive.
type Surface struct {
	mu          sync.Mutex
	id          id.SurfaceID
	windowID    string
	frame       types.Rect
	interactive bool
}

// NewSurface creates an unattached surface. Until Attach is called the
// surface is not part of any window and the platform cannot use it; every
// operation stays a silent no-op from the platform's point of view, which
// is the contract for a caller that forgot to attach.
func NewSurface() *Surface {
	return &Surface{id: id.NewSurfaceID()}
}

// ID returns the surface's stable identifier
func (s *Surface) ID() id.SurfaceID {
	return s.id
}

// Attach joins the surface to a window's view tree. Re-attaching to a
// different window moves the surface; the identity is unchanged.
func (s *Surface) Attach(windowID string) {
	if windowID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowID = windowID
}

// Detach removes the surface from its window. The frame is kept so a
// later re-attach restores the previous geometry.
func (s *Surface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowID = ""
}

// Attached reports whether the surface is part of a window
func (s *Surface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windowID != ""
}

// WindowID returns the hosting window's ID, empty when detached
func (s *Surface) WindowID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windowID
}

// Reposition updates the surface's frame in window coordinates.
// Idempotent; safe to call on every layout pass of the tracked view.
func (s *Surface) Reposition(frame types.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
}

// Frame returns the current frame in window coordinates
func (s *Surface) Frame() types.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetInteractive opts the surface into receiving input. Off by default.
func (s *Surface) SetInteractive(interactive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactive = interactive
}

// Interactive reports whether the surface receives input
func (s *Surface) Interactive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interactive
}
