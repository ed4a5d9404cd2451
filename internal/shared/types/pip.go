package types

import "time"

// SessionState represents PiP session lifecycle states
type SessionState string

const (
	StateUninitialized      SessionState = "uninitialized"
	StateAnchorPending      SessionState = "anchor_pending"
	StateReady              SessionState = "ready"
	StateActive             SessionState = "active"
	StateStoppingForRestore SessionState = "stopping_for_restore"
	StateRestorePending     SessionState = "restore_pending"
)

// Rect is a rectangle in window coordinates
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether the rectangle has no extent.
func (r Rect) IsZero() bool {
	return r.Width == 0 && r.Height == 0
}

// Size represents preferred floating-window dimensions
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// View is a host-reported view: the service tracks geometry by ID and
// never owns the underlying host object.
type View struct {
	ID        string    `json:"id"`
	WindowID  string    `json:"window_id,omitempty"` // empty until the view is on screen
	Frame     Rect      `json:"frame"`               // in window coordinates
	UpdatedAt time.Time `json:"updated_at"`
}

// HasWindow reports whether the view is part of a visible window.
func (v View) HasWindow() bool {
	return v.WindowID != ""
}

// Stats contains session manager statistics
type Stats struct {
	State          SessionState `json:"state"`
	Active         bool         `json:"active"`
	Restoring      bool         `json:"restoring"`
	HasController  bool         `json:"has_controller"`
	AnchorRect     *Rect        `json:"anchor_rect,omitempty"`
	AnchorViewID   *string      `json:"anchor_view_id,omitempty"`
	ContentID      *string      `json:"content_id,omitempty"`
	StartAttempts  int          `json:"start_attempts"`
	RestoresServed int          `json:"restores_served"`
}
