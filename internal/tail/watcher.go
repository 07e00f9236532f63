// Package tail turns the stream of session snapshots into discrete playback
// events and formats them as log lines.
package tail

import (
	"context"
	"math"
	"time"

	"github.com/tessro/reel/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventSourceChange EventType = iota
	EventSourceComplete
	EventSourceSkip
	EventPlay
	EventPause
	EventEnded
	EventSeek
	EventBufferingStart
	EventBufferingEnd
	EventVolumeChange
	EventFullscreenChange
	EventControlsShown
	EventControlsHidden
)

// seekJump is the smallest playhead jump reported as a seek. Regular
// playback advances by less than this between two snapshots.
const seekJump = 2.0

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Session
	Current   *core.Session
}

// Source publishes session snapshots.
type Source interface {
	Snapshot() core.Session
	Subscribe(fn func(core.Session)) func()
}

// Watcher follows a session source and emits events for each change.
type Watcher struct {
	source    Source
	snapshots chan core.Session
	events    chan Event
	done      chan struct{}
}

// NewWatcher creates a new session watcher.
func NewWatcher(source Source) *Watcher {
	return &Watcher{
		source:    source,
		snapshots: make(chan core.Session, 64),
		events:    make(chan Event, 16),
		done:      make(chan struct{}),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start follows the source until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.events)

	unsubscribe := w.source.Subscribe(func(s core.Session) {
		select {
		case w.snapshots <- s:
		default:
			// Drop; the next snapshot is diffed against the last one seen.
		}
	})
	defer unsubscribe()

	initial := w.source.Snapshot()
	prev := &initial
	if !w.emit(ctx, diffSessions(nil, prev)) {
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case s := <-w.snapshots:
			if s.ID == prev.ID && s.Seq <= prev.Seq {
				continue
			}
			curr := s
			if !w.emit(ctx, diffSessions(prev, &curr)) {
				return ctx.Err()
			}
			prev = &curr
		}
	}
}

func (w *Watcher) emit(ctx context.Context, events []Event) bool {
	for _, e := range events {
		select {
		case w.events <- e:
		case <-ctx.Done():
			return false
		case <-w.done:
			return true
		}
	}
	return true
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffSessions compares two snapshots and returns detected events.
func diffSessions(prev, curr *core.Session) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var events []Event
	add := func(t EventType) {
		events = append(events, Event{
			Type:      t,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	// First snapshot - no previous state
	if prev == nil {
		if curr.HasSource() {
			add(EventSourceChange)
		}
		return events
	}

	if sourceChanged(prev, curr) {
		switch {
		case prev.HasSource() && wasCompleted(prev):
			add(EventSourceComplete)
		case prev.HasSource():
			add(EventSourceSkip)
		}
		if curr.HasSource() {
			add(EventSourceChange)
		}
		return events
	}

	if !prev.IsPlaying && curr.IsPlaying {
		add(EventPlay)
	} else if prev.IsPlaying && !curr.IsPlaying {
		if curr.Ended {
			add(EventEnded)
		} else {
			add(EventPause)
		}
	} else if !prev.Ended && curr.Ended {
		add(EventEnded)
	}

	if seeked(prev, curr) {
		add(EventSeek)
	}

	if !prev.IsBuffering && curr.IsBuffering {
		add(EventBufferingStart)
	} else if prev.IsBuffering && !curr.IsBuffering {
		add(EventBufferingEnd)
	}

	if prev.Volume != curr.Volume {
		add(EventVolumeChange)
	}

	if prev.IsFullscreen != curr.IsFullscreen {
		add(EventFullscreenChange)
	}

	if !prev.ControlsVisible && curr.ControlsVisible {
		add(EventControlsShown)
	} else if prev.ControlsVisible && !curr.ControlsVisible {
		add(EventControlsHidden)
	}

	return events
}

// sourceChanged returns true if a new session started.
func sourceChanged(prev, curr *core.Session) bool {
	return prev.ID != curr.ID
}

// wasCompleted returns true if the media likely finished rather than being replaced.
func wasCompleted(s *core.Session) bool {
	if s.Ended {
		return true
	}
	if s.Duration == 0 {
		return false
	}
	// Consider completed if progress is >= 95% of duration
	return s.CurrentTime >= s.Duration*0.95
}

// seeked returns true if the playhead jumped rather than advanced.
func seeked(prev, curr *core.Session) bool {
	delta := curr.CurrentTime - prev.CurrentTime
	return delta < 0 || math.Abs(delta) >= seekJump
}
