package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tessro/reel/internal/core"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

// Advance moves time forward, firing due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.stopped = true
		c.now = next.at
		c.mu.Unlock()
		next.fn()
	}
}

func (c *fakeClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type call struct {
	name string
	arg  float64
}

type fakeMedia struct {
	mu     sync.Mutex
	calls  []call
	fail   map[string]error
	events chan core.Event
	closed bool
}

var errRejected = errors.New("request rejected")

func newFakeMedia() *fakeMedia {
	return &fakeMedia{
		fail:   map[string]error{},
		events: make(chan core.Event, 16),
	}
}

func (m *fakeMedia) record(name string, arg float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{name: name, arg: arg})
	return m.fail[name]
}

func (m *fakeMedia) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.name
	}
	return out
}

func (m *fakeMedia) last() call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return call{}
	}
	return m.calls[len(m.calls)-1]
}

func (m *fakeMedia) count(name string) int {
	n := 0
	for _, c := range m.names() {
		if c == name {
			n++
		}
	}
	return n
}

func (m *fakeMedia) Load(ctx context.Context, src core.Source) error { return m.record("load", 0) }
func (m *fakeMedia) Play(ctx context.Context) error                  { return m.record("play", 0) }
func (m *fakeMedia) Pause(ctx context.Context) error                 { return m.record("pause", 0) }
func (m *fakeMedia) Seek(ctx context.Context, s float64) error       { return m.record("seek", s) }
func (m *fakeMedia) SetVolume(ctx context.Context, v float64) error  { return m.record("volume", v) }
func (m *fakeMedia) RequestFullscreen(ctx context.Context) error {
	return m.record("request-fullscreen", 0)
}
func (m *fakeMedia) ExitFullscreen(ctx context.Context) error { return m.record("exit-fullscreen", 0) }
func (m *fakeMedia) Events() <-chan core.Event                { return m.events }

func (m *fakeMedia) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
