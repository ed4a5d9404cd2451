package sim

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glasswing/pipcore/internal/domain/anchor"
	"github.com/glasswing/pipcore/internal/domain/content"
	"github.com/glasswing/pipcore/internal/platform"
	"github.com/glasswing/pipcore/internal/shared/types"
)

type eventLog struct {
	mu     sync.Mutex
	events []platform.Event
}

func (l *eventLog) sink(ev platform.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) typesSeen() []platform.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]platform.EventType, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Type
	}
	return out
}

func (l *eventLog) last() (platform.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return platform.Event{}, false
	}
	return l.events[len(l.events)-1], true
}

func newController(t *testing.T, log *eventLog) (*Driver, *Controller) {
	t.Helper()

	d := NewDriver(WithStartLatency(0))
	surface := anchor.NewSurface()
	surface.Attach("main")
	surface.Reposition(types.Rect{Width: 100, Height: 60})

	container := content.NewContainer(content.Placeholder())
	ctrl, err := d.NewController(surface, container, log.sink)
	require.NoError(t, err)
	return d, ctrl.(*Controller)
}

func TestControllerNeedsSurfaceAndContainer(t *testing.T) {
	d := NewDriver()
	_, err := d.NewController(nil, nil, nil)
	assert.Error(t, err)
}

func TestStartEmitsLifecycle(t *testing.T) {
	log := &eventLog{}
	_, ctrl := newController(t, log)

	require.True(t, ctrl.Possible())
	require.NoError(t, ctrl.Start())

	require.Eventually(t, ctrl.Active, time.Second, time.Millisecond)
	seen := log.typesSeen()
	require.Len(t, seen, 2)
	assert.Equal(t, platform.EventWillStart, seen[0])
	assert.Equal(t, platform.EventDidStart, seen[1])
}

func TestFailNextStart(t *testing.T) {
	log := &eventLog{}
	_, ctrl := newController(t, log)

	startErr := errors.New("session policy denied")
	ctrl.FailNextStart(startErr)
	require.NoError(t, ctrl.Start())

	require.Eventually(t, func() bool {
		ev, ok := log.last()
		return ok && ev.Type == platform.EventFailedToStart
	}, time.Second, time.Millisecond)

	ev, _ := log.last()
	assert.ErrorIs(t, ev.Err, startErr)
	assert.False(t, ctrl.Active())
}

func TestPossiblePredicate(t *testing.T) {
	d := NewDriver(WithStartLatency(0))
	surface := anchor.NewSurface()
	container := content.NewContainer(nil)

	ctrl, err := d.NewController(surface, container, nil)
	require.NoError(t, err)

	assert.False(t, ctrl.Possible(), "detached empty surface cannot start")

	surface.Attach("main")
	assert.False(t, ctrl.Possible(), "zero frame cannot start")

	surface.Reposition(types.Rect{Width: 10, Height: 10})
	assert.False(t, ctrl.Possible(), "empty container cannot start")

	container.Replace(content.Placeholder())
	assert.True(t, ctrl.Possible())
}

func TestTriggerRestore(t *testing.T) {
	log := &eventLog{}
	d, ctrl := newController(t, log)

	require.NoError(t, ctrl.Start())
	require.Eventually(t, ctrl.Active, time.Second, time.Millisecond)

	require.NoError(t, d.TriggerRestore())

	var restoreEv platform.Event
	require.Eventually(t, func() bool {
		ev, ok := log.last()
		if ok && ev.Type == platform.EventRestoreRequested {
			restoreEv = ev
			return true
		}
		return false
	}, time.Second, time.Millisecond)

	require.NotNil(t, restoreEv.Complete)
	restoreEv.Complete(true)

	require.Eventually(t, func() bool { return !ctrl.Active() }, time.Second, time.Millisecond)
	assert.Equal(t, []bool{true}, ctrl.RestoreResults())
}

func TestTriggerRestoreWithoutController(t *testing.T) {
	d := NewDriver()
	assert.ErrorIs(t, d.TriggerRestore(), ErrNoController)
}
