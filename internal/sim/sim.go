// Package sim provides a simulated media element that plays a virtual clip,
// downloads it at a fixed rate and stalls when playback outruns the buffer.
package sim

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/tessro/reel/internal/core"
)

// resumeAhead is how much buffered media must be ahead of the playhead
// before a stalled playback resumes.
const resumeAhead = 2.0

// Options configures a simulated medium.
type Options struct {
	Duration   float64       // clip length in seconds
	BufferRate float64       // media seconds downloaded per wall second
	Tick       time.Duration // update interval; zero disables the internal ticker
	Fullscreen bool          // accept fullscreen requests
}

// Media is a simulated core.Media.
type Media struct {
	opts   Options
	events chan core.Event
	done   chan struct{}
	wg     sync.WaitGroup
	sendMu sync.RWMutex // held for writing while events is closed

	mu         sync.Mutex
	src        core.Source
	loaded     bool
	playing    bool
	stalled    bool
	ended      bool
	pos        float64
	volume     float64
	fullscreen bool
	ranges     []core.BufferedRange
	closed     bool
}

// New creates a simulated medium and starts its ticker.
func New(opts Options) *Media {
	m := &Media{
		opts:   opts,
		events: make(chan core.Event, 64),
		done:   make(chan struct{}),
		volume: 1,
	}
	if opts.Tick > 0 {
		m.wg.Add(1)
		go m.loop()
	}
	return m
}

func (m *Media) loop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.Step(m.opts.Tick)
		}
	}
}

// Events implements core.Media.
func (m *Media) Events() <-chan core.Event {
	return m.events
}

// Load implements core.Media.
func (m *Media) Load(ctx context.Context, src core.Source) error {
	m.mu.Lock()
	m.src = src
	m.loaded = true
	m.playing = false
	m.stalled = false
	m.ended = false
	m.pos = 0
	m.ranges = []core.BufferedRange{{Start: 0, End: 0}}
	evs := []core.Event{{Kind: core.EventLoadStarted}, core.TimeUpdate(0, m.opts.Duration)}
	m.mu.Unlock()
	return m.emit(ctx, evs...)
}

// Play implements core.Media.
func (m *Media) Play(ctx context.Context) error {
	m.mu.Lock()
	if !m.loaded || m.playing {
		m.mu.Unlock()
		return nil
	}
	if m.ended {
		m.ended = false
		m.pos = 0
	}
	m.playing = true
	m.mu.Unlock()
	return m.emit(ctx, core.Event{Kind: core.EventPlaying})
}

// Pause implements core.Media.
func (m *Media) Pause(ctx context.Context) error {
	m.mu.Lock()
	if !m.playing {
		m.mu.Unlock()
		return nil
	}
	m.playing = false
	m.mu.Unlock()
	return m.emit(ctx, core.Event{Kind: core.EventPaused})
}

// Seek implements core.Media.
func (m *Media) Seek(ctx context.Context, seconds float64) error {
	m.mu.Lock()
	m.pos = lo.Clamp(seconds, 0, m.opts.Duration)
	m.ended = false
	if _, ok := m.covering(); !ok {
		m.ranges = append(m.ranges, core.BufferedRange{Start: m.pos, End: m.pos})
		sort.Slice(m.ranges, func(i, j int) bool { return m.ranges[i].Start < m.ranges[j].Start })
	}
	evs := []core.Event{
		core.TimeUpdate(m.pos, m.opts.Duration),
		core.BufferedUpdate(m.rangesCopy(), m.pos, m.opts.Duration),
	}
	m.mu.Unlock()
	return m.emit(ctx, evs...)
}

// SetVolume implements core.Media.
func (m *Media) SetVolume(ctx context.Context, level float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
	return nil
}

// Volume returns the last level set.
func (m *Media) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// RequestFullscreen implements core.Media.
func (m *Media) RequestFullscreen(ctx context.Context) error {
	return m.setFullscreen(ctx, true)
}

// ExitFullscreen implements core.Media.
func (m *Media) ExitFullscreen(ctx context.Context) error {
	return m.setFullscreen(ctx, false)
}

func (m *Media) setFullscreen(ctx context.Context, on bool) error {
	if !m.opts.Fullscreen {
		return errFullscreen
	}
	m.mu.Lock()
	if m.fullscreen == on {
		m.mu.Unlock()
		return nil
	}
	m.fullscreen = on
	m.mu.Unlock()
	return m.emit(ctx, core.FullscreenChange(on))
}

// Step advances the simulation by dt of wall time.
func (m *Media) Step(dt time.Duration) {
	m.mu.Lock()
	if !m.loaded || m.closed {
		m.mu.Unlock()
		return
	}
	evs := m.stepLocked(dt.Seconds())
	m.mu.Unlock()
	_ = m.emit(context.Background(), evs...)
}

func (m *Media) stepLocked(dt float64) []core.Event {
	var evs []core.Event
	d := m.opts.Duration

	// Download extends the range under the playhead.
	if i, ok := m.covering(); ok && m.ranges[i].End < d {
		m.ranges[i].End = lo.Clamp(m.ranges[i].End+m.opts.BufferRate*dt, 0, d)
		m.mergeRanges()
		evs = append(evs, core.BufferedUpdate(m.rangesCopy(), m.pos, d))
	}

	if !m.playing {
		return evs
	}

	end := m.bufferedEnd()
	if m.stalled {
		if end-m.pos >= resumeAhead || end >= d {
			m.stalled = false
			evs = append(evs, core.Event{Kind: core.EventResumed})
		} else {
			return evs
		}
	}

	m.pos = lo.Clamp(m.pos+dt, 0, end)
	evs = append(evs, core.TimeUpdate(m.pos, d))

	switch {
	case m.pos >= d:
		m.playing = false
		m.ended = true
		evs = append(evs, core.Event{Kind: core.EventEnded})
	case m.pos >= end:
		m.stalled = true
		evs = append(evs, core.Event{Kind: core.EventStalled})
	}
	return evs
}

func (m *Media) covering() (int, bool) {
	_, i, ok := lo.FindIndexOf(m.ranges, func(r core.BufferedRange) bool {
		return r.Contains(m.pos)
	})
	return i, ok
}

func (m *Media) bufferedEnd() float64 {
	if i, ok := m.covering(); ok {
		return m.ranges[i].End
	}
	return m.pos
}

// mergeRanges joins ranges that grew into each other.
func (m *Media) mergeRanges() {
	merged := m.ranges[:1]
	for _, r := range m.ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			last.End = max(last.End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	m.ranges = merged
}

func (m *Media) rangesCopy() []core.BufferedRange {
	return append([]core.BufferedRange(nil), m.ranges...)
}

func (m *Media) emit(ctx context.Context, evs ...core.Event) error {
	m.sendMu.RLock()
	defer m.sendMu.RUnlock()

	select {
	case <-m.done:
		return nil
	default:
	}
	for _, ev := range evs {
		select {
		case m.events <- ev:
		case <-m.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close stops the ticker and closes the event channel.
func (m *Media) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.done)
	m.wg.Wait()

	m.sendMu.Lock()
	close(m.events)
	m.sendMu.Unlock()
	return nil
}
