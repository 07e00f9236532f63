package player

import "time"

// Clock schedules timer callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// timer is a cancel-and-restart debounce. At most one callback is live; a
// callback that lost a race with reset or stop sees a stale generation and
// must do nothing. Callers serialize access with the controller mutex.
type timer struct {
	clock Clock
	gen   uint64
	live  Stopper
}

func (t *timer) reset(d time.Duration, fn func(gen uint64)) {
	t.stop()
	gen := t.gen
	t.live = t.clock.AfterFunc(d, func() { fn(gen) })
}

func (t *timer) stop() {
	t.gen++
	if t.live != nil {
		t.live.Stop()
		t.live = nil
	}
}

// fire reports whether gen is the live callback and, if so, retires it.
func (t *timer) fire(gen uint64) bool {
	if gen != t.gen || t.live == nil {
		return false
	}
	t.live = nil
	return true
}

func (t *timer) pending() bool {
	return t.live != nil
}
