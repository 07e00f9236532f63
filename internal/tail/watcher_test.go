package tail

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tessro/reel/internal/core"
)

func session(id string, seq uint64) core.Session {
	return core.Session{
		ID:              id,
		Seq:             seq,
		Source:          core.NewSource("clip.mp4", ""),
		Loaded:          true,
		Duration:        100,
		Volume:          1,
		ControlsVisible: true,
	}
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func assertTypes(t *testing.T, got []Event, want ...EventType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", types(got), want)
	}
	for i := range want {
		if got[i].Type != want[i] {
			t.Errorf("event[%d] = %v, want %v", i, got[i].Type, want[i])
		}
	}
}

func TestDiffFirstSnapshot(t *testing.T) {
	s := session("a", 0)
	assertTypes(t, diffSessions(nil, &s), EventSourceChange)

	empty := core.Session{ID: "a"}
	assertTypes(t, diffSessions(nil, &empty))
}

func TestDiffPlayPause(t *testing.T) {
	prev, curr := session("a", 1), session("a", 2)
	curr.IsPlaying = true
	assertTypes(t, diffSessions(&prev, &curr), EventPlay)

	prev, curr = curr, session("a", 3)
	assertTypes(t, diffSessions(&prev, &curr), EventPause)
}

func TestDiffEnded(t *testing.T) {
	prev, curr := session("a", 1), session("a", 2)
	prev.IsPlaying = true
	prev.CurrentTime = 99
	curr.CurrentTime = 100
	curr.Ended = true
	assertTypes(t, diffSessions(&prev, &curr), EventEnded)
}

func TestDiffSeek(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		seek     bool
	}{
		{"playback tick", 10, 10.25, false},
		{"jump forward", 10, 40, true},
		{"jump back", 10, 9.5, true},
		{"skip forward", 10, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, curr := session("a", 1), session("a", 2)
			prev.CurrentTime, curr.CurrentTime = tt.from, tt.to
			events := diffSessions(&prev, &curr)
			if tt.seek {
				assertTypes(t, events, EventSeek)
			} else {
				assertTypes(t, events)
			}
		})
	}
}

func TestDiffBufferingVolumeFullscreenControls(t *testing.T) {
	prev, curr := session("a", 1), session("a", 2)
	curr.IsBuffering = true
	curr.Volume = 0.5
	curr.IsFullscreen = true
	curr.ControlsVisible = false
	assertTypes(t, diffSessions(&prev, &curr),
		EventBufferingStart, EventVolumeChange, EventFullscreenChange, EventControlsHidden)

	prev, curr = curr, curr
	curr.Seq = 3
	curr.IsBuffering = false
	curr.ControlsVisible = true
	assertTypes(t, diffSessions(&prev, &curr), EventBufferingEnd, EventControlsShown)
}

func TestDiffSourceChange(t *testing.T) {
	t.Run("replaced early", func(t *testing.T) {
		prev, curr := session("a", 5), session("b", 6)
		prev.CurrentTime = 10
		assertTypes(t, diffSessions(&prev, &curr), EventSourceSkip, EventSourceChange)
	})

	t.Run("replaced near the end", func(t *testing.T) {
		prev, curr := session("a", 5), session("b", 6)
		prev.CurrentTime = 97
		assertTypes(t, diffSessions(&prev, &curr), EventSourceComplete, EventSourceChange)
	})

	t.Run("replaced after ending", func(t *testing.T) {
		prev, curr := session("a", 5), session("b", 6)
		prev.Ended = true
		assertTypes(t, diffSessions(&prev, &curr), EventSourceComplete, EventSourceChange)
	})
}

// fakeSource is a session publisher driven by the test.
type fakeSource struct {
	mu         sync.Mutex
	snap       core.Session
	subs       []func(core.Session)
	subscribed chan struct{}
}

func newFakeSource(s core.Session) *fakeSource {
	return &fakeSource{snap: s, subscribed: make(chan struct{})}
}

func (f *fakeSource) Snapshot() core.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) Subscribe(fn func(core.Session)) func() {
	f.mu.Lock()
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
	close(f.subscribed)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs = nil
	}
}

func (f *fakeSource) publish(s core.Session) {
	f.mu.Lock()
	f.snap = s
	subs := append([]func(core.Session){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

func next(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case e, ok := <-w.Events():
		if !ok {
			t.Fatal("events closed")
		}
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestWatcherFollowsSource(t *testing.T) {
	src := newFakeSource(session("a", 1))
	w := NewWatcher(src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	if e := next(t, w); e.Type != EventSourceChange {
		t.Fatalf("first event = %v, want source_change", e.Type)
	}
	<-src.subscribed

	playing := session("a", 2)
	playing.IsPlaying = true

	stale := session("a", 1)
	stale.Volume = 0.1

	src.publish(playing)
	src.publish(stale)
	paused := session("a", 3)
	paused.CurrentTime = 1
	src.publish(paused)

	if e := next(t, w); e.Type != EventPlay {
		t.Errorf("event = %v, want play", e.Type)
	}
	if e := next(t, w); e.Type != EventPause {
		t.Errorf("event = %v, want pause (stale snapshot should be skipped)", e.Type)
	}

	w.Stop()
	if err := <-errCh; err != nil {
		t.Errorf("Start() error = %v", err)
	}
}
