package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/glasswing/pipcore/internal/domain/anchor"
	"github.com/glasswing/pipcore/internal/domain/content"
	"github.com/glasswing/pipcore/internal/domain/view"
	"github.com/glasswing/pipcore/internal/infrastructure/config"
	"github.com/glasswing/pipcore/internal/infrastructure/logging"
	"github.com/glasswing/pipcore/internal/infrastructure/monitoring"
	"github.com/glasswing/pipcore/internal/infrastructure/sched"
	"github.com/glasswing/pipcore/internal/platform"
	"github.com/glasswing/pipcore/internal/shared/types"
)

// Retry task names; one pending loop per concern
const (
	taskAttachAnchor = "attach-anchor"
	taskStart        = "start"
)

// Manager orchestrates the PiP session lifecycle
type Manager struct {
	mu sync.Mutex

	driver  platform.Driver
	views   *view.Registry
	cfg     config.PiPConfig
	sched   *sched.Scheduler
	logger  *logging.Logger
	metrics *monitoring.Metrics

	state      types.SessionState // Protected by mu
	controller platform.Controller
	surface    *anchor.Surface
	container  *content.Container

	defaultContent content.Factory
	anchorViewID   string
	preferred      types.Size
	pendingRestore platform.RestoreFunc

	supported      bool
	startAttempts  int
	restoresServed int
	closed         bool

	onActive           func(bool)
	onRestoring        func(bool)
	onRestoreRequested func()
}

// StartOptions parameterizes a start attempt
type StartOptions struct {
	// Content overrides the manager's default content for this start.
	// Nil falls back to the default.
	Content content.Factory

	// PreferredSize hints the floating window's dimensions
	PreferredSize *types.Size
}

// NewManager creates a session manager bound to a platform driver and the
// host view registry. Device support is probed once here; non-support is
// advisory and only logged.
func NewManager(driver platform.Driver, views *view.Registry, cfg config.PiPConfig) *Manager {
	m := &Manager{
		driver:  driver,
		views:   views,
		cfg:     cfg,
		sched:   sched.New(),
		logger:  logging.NewNop(),
		metrics: monitoring.NewMetrics(),
		state:   types.StateUninitialized,
	}
	m.supported = driver.Supported()
	if cfg.PreferredWidth > 0 && cfg.PreferredHeight > 0 {
		m.preferred = types.Size{Width: cfg.PreferredWidth, Height: cfg.PreferredHeight}
	}
	return m
}

// WithLogger attaches a logger to the manager
func (m *Manager) WithLogger(logger *logging.Logger) *Manager {
	m.logger = logger.Component("session")
	if !m.supported {
		m.logger.Warn("picture-in-picture not supported on this device",
			zap.Error(ErrPlatformUnsupported))
	}
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithDefaultContent sets the content used when a start names none
func (m *Manager) WithDefaultContent(factory content.Factory) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultContent = factory
	return m
}

// OnActiveChanged registers the observable isActive hook
func (m *Manager) OnActiveChanged(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onActive = fn
}

// OnRestoringChanged registers the observable isRestoring hook
func (m *Manager) OnRestoringChanged(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRestoring = fn
}

// OnRestoreRequested registers the restore notification hook; the host
// reacts by navigating toward a destination anchor and then calling
// CompleteRestore.
func (m *Manager) OnRestoreRequested(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRestoreRequested = fn
}

// Supported reports whether the device can do PiP (advisory)
func (m *Manager) Supported() bool {
	return m.supported
}

// IsActive reports whether the floating window is shown. The window
// stays up through a restore negotiation, so the restore states count
// as active.
func (m *Manager) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return activeState(m.state)
}

// IsRestoring reports whether a restore negotiation is underway
func (m *Manager) IsRestoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return restoringState(m.state)
}

// State returns the current session state
func (m *Manager) State() types.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// HasController reports whether the platform controller exists
func (m *Manager) HasController() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller != nil
}

func activeState(s types.SessionState) bool {
	return s == types.StateActive || s == types.StateStoppingForRestore || s == types.StateRestorePending
}

func restoringState(s types.SessionState) bool {
	return s == types.StateStoppingForRestore || s == types.StateRestorePending
}

// AttachAnchor starts tracking a host view as the session's anchor. If
// the view has no window yet, attachment is retried cooperatively until
// the host's layout pass provides one; the attempt budget is bounded and
// exhaustion is reported, not spun on. Once windowed, the persistent
// surface is created or reused, repositioned over the view, and the
// platform controller is constructed lazily (with placeholder content if
// none is configured yet).
func (m *Manager) AttachAnchor(viewID string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.anchorViewID = viewID
	var notify []func()
	if m.state == types.StateUninitialized {
		notify = m.transitionLocked(types.StateAnchorPending)
	}
	m.mu.Unlock()
	runAll(notify)

	if m.tryAttach(viewID) {
		return
	}

	m.logger.Debug("anchor view not windowed yet, scheduling retries",
		zap.String("view_id", viewID))
	m.sched.Retry(taskAttachAnchor, sched.Settings{
		Interval:    m.cfg.AnchorRetryInterval,
		MaxAttempts: m.cfg.AnchorRetryMax,
		OnGiveUp: func(attempts int) {
			m.logger.Error("anchor view never acquired a window",
				zap.String("view_id", viewID),
				zap.Int("attempts", attempts),
				zap.Error(ErrAnchorTimedOut))
		},
	}, func() bool { return m.tryAttach(viewID) })
}

// tryAttach returns true when the attach concern is settled: the view is
// windowed and attached, or the attempt has been superseded.
func (m *Manager) tryAttach(viewID string) bool {
	v, ok := m.views.Get(viewID)
	if !ok || !v.HasWindow() {
		return false
	}

	m.mu.Lock()
	if m.closed || m.anchorViewID != viewID {
		m.mu.Unlock()
		return true
	}
	notify := m.attachLocked(v)
	m.mu.Unlock()
	runAll(notify)
	return true
}

// attachLocked positions the surface over a windowed view and constructs
// the controller if it does not exist yet. Must hold mu.
func (m *Manager) attachLocked(v types.View) []func() {
	if m.surface == nil {
		m.surface = anchor.NewSurface()
	}
	m.surface.Attach(v.WindowID)
	m.surface.Reposition(v.Frame)

	if m.container == nil {
		factory := m.defaultContent
		if factory == nil {
			factory = content.Placeholder()
		}
		m.container = content.NewContainer(factory)
	}

	if m.controller == nil {
		ctrl, err := m.driver.NewController(m.surface, m.container, m.handleEvent)
		if err != nil {
			m.logger.Error("failed to construct platform controller", zap.Error(err))
			return nil
		}
		m.controller = ctrl
		if m.preferred != (types.Size{}) {
			ctrl.SetPreferredSize(m.preferred)
		}
		m.logger.Info("platform controller constructed",
			zap.String("surface_id", m.surface.ID().String()),
			zap.String("view_id", v.ID))
	}

	if m.state == types.StateUninitialized || m.state == types.StateAnchorPending {
		return m.transitionLocked(types.StateReady)
	}
	return nil
}

// Start resolves content (explicit, else default), lands the swap and
// preferred size on the controller before any feasibility check, and then
// starts the session. When the platform is not ready yet the start is
// deferred on a fixed backoff with a bounded budget; exhaustion surfaces
// as a reported timeout. Success itself is confirmed asynchronously by
// the platform's will-start event, never by this call.
func (m *Manager) Start(opts StartOptions) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}

	factory := opts.Content
	if factory == nil {
		factory = m.defaultContent
	}
	if factory == nil {
		m.mu.Unlock()
		m.logger.Warn("start attempted with no content configured",
			zap.Error(ErrNoContentConfigured))
		m.metrics.StartFailures.WithLabelValues("no_content").Inc()
		return ErrNoContentConfigured
	}

	// Land the swap before the feasibility check so it takes effect even
	// when the start itself is deferred.
	if m.container == nil {
		m.container = content.NewContainer(factory)
	} else {
		m.container.Replace(factory)
		m.metrics.ContentSwaps.Inc()
	}
	if opts.PreferredSize != nil {
		m.preferred = *opts.PreferredSize
		if m.controller != nil {
			m.controller.SetPreferredSize(m.preferred)
		}
	}
	m.mu.Unlock()

	if m.tryStart() {
		return nil
	}

	m.logger.Debug("start not possible yet, scheduling retries")
	m.sched.Retry(taskStart, sched.Settings{
		Interval:    m.cfg.StartRetryInterval,
		MaxAttempts: m.cfg.StartRetryMax,
		OnGiveUp: func(attempts int) {
			m.logger.Error("start never became possible",
				zap.Int("attempts", attempts),
				zap.Error(ErrStartTimedOut))
			m.metrics.StartFailures.WithLabelValues("timed_out").Inc()
		},
	}, m.tryStart)
	return nil
}

// tryStart returns true when the start concern is settled: the command
// was issued, the session is already (or still) in a state where starting
// is moot, or the attempt failed terminally.
func (m *Manager) tryStart() bool {
	m.mu.Lock()
	if m.closed || activeState(m.state) {
		m.mu.Unlock()
		return true
	}
	ctrl := m.controller
	m.mu.Unlock()

	if ctrl == nil {
		// Controller is constructed by anchor attachment; keep waiting.
		return false
	}
	if !ctrl.Possible() {
		m.metrics.StartRetries.Inc()
		return false
	}

	m.mu.Lock()
	m.startAttempts++
	m.mu.Unlock()
	m.metrics.StartAttempts.Inc()

	if err := ctrl.Start(); err != nil {
		// Terminal for this attempt; reported, not retried.
		m.logger.Error("platform rejected start", zap.Error(err))
		m.metrics.StartFailures.WithLabelValues("rejected").Inc()
	}
	return true
}

// Stop requests the platform dismiss the floating window. No-op without
// a controller. Rejected while a restore negotiation is pending: the
// stored continuation must be resolved by CompleteRestore first.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if m.controller == nil {
		m.mu.Unlock()
		return nil
	}
	if restoringState(m.state) {
		m.mu.Unlock()
		m.logger.Warn("stop rejected during restore negotiation",
			zap.Error(ErrRestoreInProgress))
		return ErrRestoreInProgress
	}
	ctrl := m.controller
	m.mu.Unlock()

	m.sched.Cancel(taskStart)
	return ctrl.Stop()
}

// UpdateContent stores factory as the new default content and, while the
// session is active, performs a live in-place swap. The controller
// identity never changes; an active window is not interrupted.
func (m *Manager) UpdateContent(factory content.Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultContent = factory
	if factory != nil && m.container != nil && activeState(m.state) {
		m.container.Replace(factory)
		m.metrics.ContentSwaps.Inc()
	}
}

// ViewUpdated tells the session that a host view's geometry changed.
// When the view is the current anchor the persistent surface follows it;
// reports for other views are ignored. Safe to call on every layout pass.
func (m *Manager) ViewUpdated(viewID string) {
	m.mu.Lock()
	anchorID := m.anchorViewID
	m.mu.Unlock()

	if anchorID == "" || anchorID != viewID {
		return
	}
	m.tryAttach(viewID)
}

// CompleteRestore finishes a pending restore: the persistent surface is
// repositioned onto the destination view exactly as AttachAnchor does,
// the stored continuation is invoked with success and cleared, and the
// session returns to ready. With no pending restore this is a no-op.
func (m *Manager) CompleteRestore(viewID string) {
	m.mu.Lock()
	if m.pendingRestore == nil {
		m.mu.Unlock()
		m.logger.Debug("complete-restore with no pending restore, ignoring")
		return
	}

	if v, ok := m.views.Get(viewID); ok && v.HasWindow() {
		m.anchorViewID = viewID
		if m.surface == nil {
			m.surface = anchor.NewSurface()
		}
		m.surface.Attach(v.WindowID)
		m.surface.Reposition(v.Frame)
	} else {
		m.logger.Warn("restore destination view not resolvable, keeping previous anchor",
			zap.String("view_id", viewID))
	}

	complete := m.pendingRestore
	m.pendingRestore = nil
	m.restoresServed++
	notify := m.transitionLocked(types.StateReady)
	m.mu.Unlock()

	m.metrics.RestoresServed.Inc()
	complete(true)
	runAll(notify)

	m.logger.Info("restore completed", zap.String("view_id", viewID))
}

// handleEvent applies a platform lifecycle event as a state transition.
// Events arrive on driver goroutines.
func (m *Manager) handleEvent(ev platform.Event) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	var notify []func()
	switch ev.Type {
	case platform.EventWillStart:
		notify = m.transitionLocked(types.StateActive)

	case platform.EventDidStart:
		// Window confirmed on screen; will-start already moved us.

	case platform.EventWillStop:
		// Dismissal in progress; wait for did-stop.

	case platform.EventDidStop:
		if m.state == types.StateActive {
			notify = m.transitionLocked(types.StateReady)
		}

	case platform.EventRestoreRequested:
		if m.pendingRestore != nil {
			// A negotiation is already underway. Keep the first
			// continuation; the second requester is refused.
			m.mu.Unlock()
			m.logger.Warn("restore requested while one is already pending, rejecting")
			if ev.Complete != nil {
				ev.Complete(false)
			}
			return
		}
		m.pendingRestore = ev.Complete
		notify = append(notify, m.transitionLocked(types.StateStoppingForRestore)...)
		notify = append(notify, m.transitionLocked(types.StateRestorePending)...)
		if fn := m.onRestoreRequested; fn != nil {
			notify = append(notify, fn)
		}

	case platform.EventFailedToStart:
		m.logger.Error("platform failed to start session", zap.Error(ev.Err))
		m.metrics.StartFailures.WithLabelValues("platform").Inc()
		// Terminal for this attempt; state stays as it was (ready).
	}
	m.mu.Unlock()

	runAll(notify)
}

// transitionLocked moves the state machine and returns the observer
// notifications to run after the lock is released. Must hold mu.
func (m *Manager) transitionLocked(to types.SessionState) []func() {
	from := m.state
	if from == to {
		return nil
	}
	m.state = to

	m.metrics.RecordTransition(string(from), string(to))
	m.logger.Debug("session transition",
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	var notify []func()
	if wasActive, isActive := activeState(from), activeState(to); wasActive != isActive {
		if isActive {
			m.metrics.SessionActive.Set(1)
		} else {
			m.metrics.SessionActive.Set(0)
		}
		if fn := m.onActive; fn != nil {
			notify = append(notify, func() { fn(isActive) })
		}
	}
	if wasRestoring, isRestoring := restoringState(from), restoringState(to); wasRestoring != isRestoring {
		if fn := m.onRestoring; fn != nil {
			notify = append(notify, func() { fn(isRestoring) })
		}
	}
	return notify
}

// Stats returns a snapshot of the session
func (m *Manager) Stats() types.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := types.Stats{
		State:          m.state,
		Active:         activeState(m.state),
		Restoring:      restoringState(m.state),
		HasController:  m.controller != nil,
		StartAttempts:  m.startAttempts,
		RestoresServed: m.restoresServed,
	}
	if m.anchorViewID != "" {
		viewID := m.anchorViewID
		s.AnchorViewID = &viewID
	}
	if m.surface != nil {
		rect := m.surface.Frame()
		s.AnchorRect = &rect
	}
	if m.container != nil {
		if child := m.container.Child(); child != nil {
			contentID := child.ContentID()
			s.ContentID = &contentID
		}
	}
	return s
}

// AnchorRect returns the surface's current frame, zero when no surface
// exists yet
func (m *Manager) AnchorRect() types.Rect {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.surface == nil {
		return types.Rect{}
	}
	return m.surface.Frame()
}

// Close releases the session: retry tasks are cancelled so no stale
// attempt can resurrect state, the controller is stopped, and owned
// resources are dropped. A pending restore continuation is resolved with
// failure rather than orphaned.
func (m *Manager) Close() error {
	m.sched.Close()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	ctrl := m.controller
	complete := m.pendingRestore
	m.pendingRestore = nil
	m.controller = nil
	m.surface = nil
	m.container = nil
	m.mu.Unlock()

	if complete != nil {
		complete(false)
	}
	if ctrl != nil {
		return ctrl.Stop()
	}
	return nil
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
