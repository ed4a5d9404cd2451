package anchor

import (
	"testing"

	"github.com/glasswing/pipcore/internal/shared/types"
)

func TestNewSurfaceUnattached(t *testing.T) {
	s := NewSurface()

	if s.Attached() {
		t.Error("new surface must not be attached")
	}
	if s.Interactive() {
		t.Error("new surface must not be interactive")
	}
	if s.ID() == "" {
		t.Error("surface must have an ID")
	}
}

func TestAttachEmptyWindowIsNoop(t *testing.T) {
	s := NewSurface()

	s.Attach("")
	if s.Attached() {
		t.Error("attach with empty window ID must be a no-op")
	}
}

func TestRepositionIdempotent(t *testing.T) {
	s := NewSurface()
	frame := types.Rect{X: 4, Y: 8, Width: 100, Height: 56}

	s.Reposition(frame)
	s.Reposition(frame)
	s.Reposition(frame)

	if s.Frame() != frame {
		t.Errorf("expected frame %+v, got %+v", frame, s.Frame())
	}
}

func TestIdentityStableAcrossMoves(t *testing.T) {
	s := NewSurface()
	orig := s.ID()

	s.Attach("window-a")
	s.Reposition(types.Rect{Width: 10, Height: 10})
	s.Attach("window-b")
	s.Reposition(types.Rect{Width: 20, Height: 20})

	if s.ID() != orig {
		t.Error("surface identity must never change")
	}
	if s.WindowID() != "window-b" {
		t.Errorf("expected window-b, got %s", s.WindowID())
	}
}

func TestDetachKeepsFrame(t *testing.T) {
	s := NewSurface()
	frame := types.Rect{X: 1, Y: 2, Width: 3, Height: 4}

	s.Attach("main")
	s.Reposition(frame)
	s.Detach()

	if s.Attached() {
		t.Error("expected detached")
	}
	if s.Frame() != frame {
		t.Error("detach must not clear the frame")
	}
}
