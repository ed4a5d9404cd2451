package sched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceeds(t *testing.T) {
	s := New()
	defer s.Close()

	var calls int32
	done := make(chan struct{})
	s.Retry("attach", Settings{Interval: 5 * time.Millisecond, MaxAttempts: 10}, func() bool {
		if atomic.AddInt32(&calls, 1) == 3 {
			close(done)
			return true
		}
		return false
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("retry never succeeded")
	}

	assert.Eventually(t, func() bool { return s.Pending() == 0 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetryGivesUp(t *testing.T) {
	s := New()
	defer s.Close()

	gaveUp := make(chan int, 1)
	s.Retry("start", Settings{
		Interval:    time.Millisecond,
		MaxAttempts: 4,
		OnGiveUp:    func(attempts int) { gaveUp <- attempts },
	}, func() bool { return false })

	select {
	case attempts := <-gaveUp:
		assert.Equal(t, 4, attempts)
	case <-time.After(time.Second):
		t.Fatal("task never gave up")
	}
	assert.Equal(t, 0, s.Pending())
}

func TestCancel(t *testing.T) {
	s := New()
	defer s.Close()

	var calls int32
	s.Retry("attach", Settings{Interval: 50 * time.Millisecond, MaxAttempts: 10}, func() bool {
		atomic.AddInt32(&calls, 1)
		return false
	})

	require.True(t, s.Cancel("attach"))
	assert.False(t, s.Cancel("attach"), "second cancel should find nothing")

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "cancelled task must not fire")
}

func TestReplaceByName(t *testing.T) {
	s := New()
	defer s.Close()

	var first, second int32
	s.Retry("start", Settings{Interval: 30 * time.Millisecond, MaxAttempts: 5}, func() bool {
		atomic.AddInt32(&first, 1)
		return false
	})
	s.Retry("start", Settings{Interval: 5 * time.Millisecond, MaxAttempts: 5}, func() bool {
		atomic.AddInt32(&second, 1)
		return true
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&second) == 1 && s.Pending() == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first), "replaced task must not fire")
}

func TestCloseStopsEverything(t *testing.T) {
	s := New()

	var calls int32
	s.Retry("a", Settings{Interval: 20 * time.Millisecond, MaxAttempts: 100}, func() bool {
		atomic.AddInt32(&calls, 1)
		return false
	})
	s.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	// Scheduling after close is a no-op.
	s.Retry("b", Settings{Interval: time.Millisecond, MaxAttempts: 1}, func() bool { return true })
	assert.Equal(t, 0, s.Pending())
}
