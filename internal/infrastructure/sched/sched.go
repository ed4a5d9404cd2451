package sched

import (
	"sync"
	"time"
)

// Settings configures a retry task
type Settings struct {
	// Interval is the delay between attempts
	Interval time.Duration
	// MaxAttempts bounds the task; a task never runs forever
	MaxAttempts int
	// OnGiveUp is called once when MaxAttempts is exhausted
	OnGiveUp func(attempts int)
}

func (s *Settings) withDefaults() {
	if s.Interval <= 0 {
		s.Interval = 50 * time.Millisecond
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = 20
	}
}

// Scheduler runs named, cancellable, bounded retry tasks.
//
// A task retries a predicate on a fixed interval until the predicate
// reports success or the attempt budget is exhausted. Scheduling a task
// under a name that is already pending replaces the pending task, so at
// most one retry loop exists per concern. A retry that fires after its
// owner cancelled it or closed the scheduler is a no-op.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]*task
	closed bool
}

type task struct {
	timer     *time.Timer
	attempts  int
	cancelled bool
}

// New creates an empty scheduler
func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]*task)}
}

// Retry schedules fn to run after settings.Interval and keep rescheduling
// until fn returns true or MaxAttempts is reached. fn must be safe to call
// from a timer goroutine.
func (s *Scheduler) Retry(name string, settings Settings, fn func() bool) {
	settings.withDefaults()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if prev, ok := s.tasks[name]; ok {
		prev.cancelled = true
		prev.timer.Stop()
	}

	t := &task{}
	t.timer = time.AfterFunc(settings.Interval, func() {
		s.fire(name, t, settings, fn)
	})
	s.tasks[name] = t
	s.mu.Unlock()
}

func (s *Scheduler) fire(name string, t *task, settings Settings, fn func() bool) {
	s.mu.Lock()
	if t.cancelled || s.closed {
		s.mu.Unlock()
		return
	}
	t.attempts++
	attempts := t.attempts
	s.mu.Unlock()

	if fn() {
		s.remove(name, t)
		return
	}

	if attempts >= settings.MaxAttempts {
		s.remove(name, t)
		if settings.OnGiveUp != nil {
			settings.OnGiveUp(attempts)
		}
		return
	}

	s.mu.Lock()
	if !t.cancelled && !s.closed {
		t.timer.Reset(settings.Interval)
	}
	s.mu.Unlock()
}

func (s *Scheduler) remove(name string, t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Only remove if the slot still belongs to this task; it may have been
	// replaced by a newer Retry under the same name.
	if cur, ok := s.tasks[name]; ok && cur == t {
		delete(s.tasks, name)
	}
}

// Cancel stops a pending task. Returns false if no task is pending.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[name]
	if !ok {
		return false
	}
	t.cancelled = true
	t.timer.Stop()
	delete(s.tasks, name)
	return true
}

// Pending returns the number of scheduled tasks
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close cancels all tasks; the scheduler accepts no further work.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for name, t := range s.tasks {
		t.cancelled = true
		t.timer.Stop()
		delete(s.tasks, name)
	}
}
