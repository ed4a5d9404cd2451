// Package platform defines the contract with the OS picture-in-picture
// primitive.
//
// The service treats the platform as a black box: a driver constructs a
// controller from an anchor surface and a content container, the
// controller accepts start/stop commands and answers feasibility queries,
// and lifecycle progress arrives as a closed set of events delivered to a
// registered sink. The session core applies those events as state-machine
// transitions; no other callback surface exists.
package platform

import (
	"github.com/glasswing/pipcore/internal/domain/anchor"
	"github.com/glasswing/pipcore/internal/domain/content"
	"github.com/glasswing/pipcore/internal/shared/types"
)

// EventType enumerates the platform's lifecycle events
type EventType string

const (
	EventWillStart        EventType = "will-start"
	EventDidStart         EventType = "did-start"
	EventWillStop         EventType = "will-stop"
	EventDidStop          EventType = "did-stop"
	EventRestoreRequested EventType = "restore-requested"
	EventFailedToStart    EventType = "failed-to-start"
)

// RestoreFunc completes a user-initiated restore negotiation. The
// platform holds the floating window's closing animation until it is
// invoked; restored reports whether the host presented a destination.
type RestoreFunc func(restored bool)

// Event is a single platform lifecycle notification
type Event struct {
	Type EventType

	// Err is set for EventFailedToStart
	Err error

	// Complete is set for EventRestoreRequested
	Complete RestoreFunc
}

// Sink receives driver events. Events arrive on driver goroutines; the
// receiver serializes them itself.
type Sink func(Event)

// Controller is a live platform PiP controller. Exclusively owned by one
// session; constructed once and mutated in place via its surface and
// container, never recreated.
type Controller interface {
	// Start asks the platform to present the floating window. Success is
	// confirmed asynchronously by will-start/did-start events.
	Start() error

	// Stop asks the platform to dismiss the floating window
	Stop() error

	// Possible reports whether a start could succeed right now
	Possible() bool

	// Suspended reports whether the platform paused the session
	Suspended() bool

	// SetPreferredSize hints the floating window's dimensions
	SetPreferredSize(size types.Size)
}

// Driver constructs controllers for one platform
type Driver interface {
	// Supported reports whether this device can do PiP at all.
	// Advisory: an unsupported driver still hands out controllers, which
	// then fail at start the same way any other start failure does.
	Supported() bool

	// NewController builds a controller bound to the given anchor surface
	// and content container, delivering lifecycle events to sink.
	NewController(surface *anchor.Surface, container *content.Container, sink Sink) (Controller, error)
}
