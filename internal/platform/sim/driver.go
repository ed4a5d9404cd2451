// Package sim provides a simulated platform PiP driver.
//
// The simulator honors the full platform contract — asynchronous
// lifecycle events, feasibility gating, user-initiated restores — without
// any OS dependency. It backs development setups and the session core's
// tests, with knobs for start latency, forced feasibility, and forced
// start failure.
package sim

import (
	"errors"
	"sync"
	"time"

	"github.com/glasswing/pipcore/internal/domain/anchor"
	"github.com/glasswing/pipcore/internal/domain/content"
	"github.com/glasswing/pipcore/internal/platform"
	"github.com/glasswing/pipcore/internal/shared/types"
)

// ErrNoController is returned when a trigger fires before any controller exists
var ErrNoController = errors.New("sim: no controller constructed")

// Driver simulates the platform PiP service
type Driver struct {
	mu           sync.Mutex
	supported    bool
	startLatency time.Duration
	controller   *Controller
}

// Option configures the simulated driver
type Option func(*Driver)

// WithStartLatency sets the delay between a start command and the
// will-start event
func WithStartLatency(d time.Duration) Option {
	return func(drv *Driver) { drv.startLatency = d }
}

// WithSupported overrides device support detection
func WithSupported(supported bool) Option {
	return func(drv *Driver) { drv.supported = supported }
}

// NewDriver creates a simulated driver
func NewDriver(opts ...Option) *Driver {
	d := &Driver{supported: true, startLatency: 10 * time.Millisecond}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Supported implements platform.Driver
func (d *Driver) Supported() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.supported
}

// NewController implements platform.Driver. Realizes the container, as
// the real platform does when it first displays the controller's surface.
func (d *Driver) NewController(surface *anchor.Surface, container *content.Container, sink platform.Sink) (platform.Controller, error) {
	if surface == nil || container == nil {
		return nil, errors.New("sim: controller needs an anchor surface and a content container")
	}

	container.Realize()

	c := &Controller{
		surface:      surface,
		container:    container,
		sink:         sink,
		startLatency: d.startLatency,
	}

	d.mu.Lock()
	d.controller = c
	d.mu.Unlock()
	return c, nil
}

// Controller returns the last constructed controller, for test scripting
func (d *Driver) Controller() *Controller {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.controller
}

// TriggerRestore simulates the user tapping the floating window to
// return to the app. The completion outcome is recorded on the
// controller for assertions.
func (d *Driver) TriggerRestore() error {
	c := d.Controller()
	if c == nil {
		return ErrNoController
	}
	c.triggerRestore()
	return nil
}

// Controller is a simulated platform PiP controller
type Controller struct {
	mu           sync.Mutex
	surface      *anchor.Surface
	container    *content.Container
	sink         platform.Sink
	startLatency time.Duration

	active        bool
	suspended     bool
	preferred     types.Size
	failNext      error
	forcePossible *bool

	restoreResults []bool
}

// Possible reports start feasibility: the anchor must be attached with a
// laid-out frame and the container must have content embedded.
func (c *Controller) Possible() bool {
	c.mu.Lock()
	if c.forcePossible != nil {
		v := *c.forcePossible
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	return c.surface.Attached() &&
		!c.surface.Frame().IsZero() &&
		c.container.ChildCount() > 0
}

// Suspended implements platform.Controller
func (c *Controller) Suspended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suspended
}

// SetPreferredSize implements platform.Controller
func (c *Controller) SetPreferredSize(size types.Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preferred = size
}

// PreferredSize returns the last hinted size
func (c *Controller) PreferredSize() types.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preferred
}

// Start implements platform.Controller. Lifecycle events are emitted on
// a separate goroutine, matching the real platform's asynchronous
// confirmation.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return nil
	}
	failErr := c.failNext
	c.failNext = nil
	latency := c.startLatency
	c.mu.Unlock()

	go func() {
		if latency > 0 {
			time.Sleep(latency)
		}
		if failErr != nil {
			c.emit(platform.Event{Type: platform.EventFailedToStart, Err: failErr})
			return
		}
		c.emit(platform.Event{Type: platform.EventWillStart})
		c.mu.Lock()
		c.active = true
		c.mu.Unlock()
		c.emit(platform.Event{Type: platform.EventDidStart})
	}()
	return nil
}

// Stop implements platform.Controller
func (c *Controller) Stop() error {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return nil
	}
	c.active = false
	c.mu.Unlock()

	go func() {
		c.emit(platform.Event{Type: platform.EventWillStop})
		c.emit(platform.Event{Type: platform.EventDidStop})
	}()
	return nil
}

// Active reports whether the simulated floating window is shown
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// FailNextStart forces the next start command to end in failed-to-start
func (c *Controller) FailNextStart(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = err
}

// ForcePossible overrides the feasibility predicate; nil restores the
// real predicate
func (c *Controller) ForcePossible(possible *bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forcePossible = possible
}

// RestoreResults returns the outcomes reported through restore completions
func (c *Controller) RestoreResults() []bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bool, len(c.restoreResults))
	copy(out, c.restoreResults)
	return out
}

func (c *Controller) triggerRestore() {
	complete := func(restored bool) {
		c.mu.Lock()
		c.restoreResults = append(c.restoreResults, restored)
		c.mu.Unlock()
		if restored {
			// A successful restore dismisses the window into the app.
			c.Stop()
		}
	}
	go c.emit(platform.Event{Type: platform.EventRestoreRequested, Complete: complete})
}

func (c *Controller) emit(ev platform.Event) {
	if c.sink != nil {
		c.sink(ev)
	}
}
