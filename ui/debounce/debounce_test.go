package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock fires timers synchronously when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.fired = true
		c.mu.Unlock()
		next.f()
	}
}

func newFake[T any](delay time.Duration, cb func(T)) (*Debouncer[T], *fakeClock) {
	clock := &fakeClock{}
	d := New(delay, cb)
	d.after = clock.AfterFunc
	return d, clock
}

type recorder struct {
	calls []string
	at    []time.Duration
	clock *fakeClock
}

func (r *recorder) record(s string) {
	r.calls = append(r.calls, s)
	r.at = append(r.at, r.clock.now)
}

func TestBurstCollapsesToLastArgument(t *testing.T) {
	rec := &recorder{}
	d, clock := newFake(500*time.Millisecond, rec.record)
	rec.clock = clock

	d.Call("a")
	clock.Advance(50 * time.Millisecond)
	d.Call("ac")
	clock.Advance(50 * time.Millisecond)
	d.Call("acm")
	clock.Advance(50 * time.Millisecond)
	d.Call("acme")

	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, rec.calls, "nothing fires before the quiet period elapses")

	clock.Advance(time.Millisecond)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "acme", rec.calls[0])
	assert.Equal(t, 650*time.Millisecond, rec.at[0])

	clock.Advance(time.Second)
	assert.Len(t, rec.calls, 1, "callback fires exactly once")
}

func TestCallbackSwapTakesEffectForPendingCall(t *testing.T) {
	var first, second []int
	d, clock := newFake(100*time.Millisecond, func(v int) { first = append(first, v) })

	d.Call(1)
	d.SetCallback(func(v int) { second = append(second, v) })
	clock.Advance(100 * time.Millisecond)

	assert.Empty(t, first)
	assert.Equal(t, []int{1}, second)
}

func TestSetDelayCancelsPendingCall(t *testing.T) {
	var got []string
	d, clock := newFake(500*time.Millisecond, func(s string) { got = append(got, s) })

	d.Call("stale")
	require.True(t, d.IsActive())

	d.SetDelay(200 * time.Millisecond)
	assert.False(t, d.IsActive(), "changing the delay drops the pending call")

	clock.Advance(time.Second)
	assert.Empty(t, got)

	d.Call("fresh")
	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"fresh"}, got)
	assert.Equal(t, 200*time.Millisecond, d.Delay())
}

func TestSetDelaySameValueKeepsPendingCall(t *testing.T) {
	var got []string
	d, clock := newFake(100*time.Millisecond, func(s string) { got = append(got, s) })

	d.Call("kept")
	d.SetDelay(100 * time.Millisecond)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"kept"}, got)
}

func TestCancelIsIdempotent(t *testing.T) {
	var got []string
	d, clock := newFake(100*time.Millisecond, func(s string) { got = append(got, s) })

	d.Cancel()
	d.Call("x")
	d.Cancel()
	d.Cancel()
	clock.Advance(time.Second)

	assert.Empty(t, got)
	assert.False(t, d.IsActive())
}

func TestFlushRunsPendingCallImmediately(t *testing.T) {
	var got []string
	d, clock := newFake(100*time.Millisecond, func(s string) { got = append(got, s) })

	assert.False(t, d.Flush(), "nothing pending")

	d.Call("now")
	assert.True(t, d.Flush())
	assert.Equal(t, []string{"now"}, got)

	clock.Advance(time.Second)
	assert.Equal(t, []string{"now"}, got, "flushed call is not delivered twice")
}

func TestRealTimerDelivers(t *testing.T) {
	done := make(chan string, 1)
	d := New(10*time.Millisecond, func(s string) { done <- s })

	d.Call("first")
	d.Call("second")

	select {
	case got := <-done:
		assert.Equal(t, "second", got)
	case <-time.After(time.Second):
		t.Fatal("debounced callback never fired")
	}
}
