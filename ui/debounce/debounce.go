package debounce

import (
	"sync"
	"time"
)

// timer is the subset of *time.Timer the debouncer needs.
type timer interface {
	Stop() bool
}

// afterFunc matches time.AfterFunc; swapped out in tests.
type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Debouncer delays a callback until calls have settled. Only the argument of the
// last call in a burst is delivered.
type Debouncer[T any] struct {
	mutex    sync.Mutex
	delay    time.Duration
	callback func(T)
	after    afterFunc

	timer   timer
	pending bool
	arg     T
	// seq identifies the current schedule so a timer that already fired
	// but lost the race with Cancel does nothing.
	seq uint64
}

// New creates a new debouncer with the specified delay and callback
func New[T any](delay time.Duration, callback func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:    delay,
		callback: callback,
		after:    realAfterFunc,
	}
}

// Call schedules the callback with arg after the delay.
// If Call is invoked again before the delay expires, the previous call is cancelled.
func (d *Debouncer[T]) Call(arg T) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopLocked()
	d.arg = arg
	d.pending = true
	d.seq++
	seq := d.seq
	d.timer = d.after(d.delay, func() { d.fire(seq) })
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mutex.Lock()
	if !d.pending || seq != d.seq {
		d.mutex.Unlock()
		return
	}
	arg := d.arg
	callback := d.callback
	d.pending = false
	d.timer = nil
	d.mutex.Unlock()

	if callback != nil {
		callback(arg)
	}
}

// stopLocked cancels the pending schedule. Caller holds the mutex.
func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	var zero T
	d.arg = zero
}

// Cancel stops any pending call. Safe to call repeatedly.
func (d *Debouncer[T]) Cancel() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopLocked()
}

// Flush cancels the timer and runs a pending call immediately. Returns false if
// nothing was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mutex.Lock()
	if !d.pending {
		d.mutex.Unlock()
		return false
	}
	arg := d.arg
	callback := d.callback
	d.stopLocked()
	d.mutex.Unlock()

	if callback != nil {
		callback(arg)
	}
	return true
}

// SetCallback replaces the callback. A pending call delivers to the new one.
func (d *Debouncer[T]) SetCallback(callback func(T)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.callback = callback
}

// SetDelay changes the delay for future calls. Changing the delay drops any
// pending call.
func (d *Debouncer[T]) SetDelay(delay time.Duration) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if delay == d.delay {
		return
	}
	d.stopLocked()
	d.delay = delay
}

// Delay returns the current delay.
func (d *Debouncer[T]) Delay() time.Duration {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.delay
}

// IsActive returns true if there is a pending call
func (d *Debouncer[T]) IsActive() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.pending
}
