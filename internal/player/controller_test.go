package player

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/tessro/reel/internal/core"
)

var demo = core.Source{URI: "/videos/demo.mp4", Title: "demo"}

func newTestController(t *testing.T, opts ...Option) (*Controller, *fakeClock, *fakeMedia) {
	t.Helper()
	clock := newFakeClock()
	media := newFakeMedia()
	logger, _ := logtest.NewNullLogger()
	opts = append([]Option{WithClock(clock), WithSyncCommands(), WithLogger(logger)}, opts...)
	c := New(media, demo, opts...)
	c.OnLoadStarted()
	t.Cleanup(func() { _ = c.Close() })
	return c, clock, media
}

func TestSetVolumeClamps(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{-100, 0},
		{1.7, 1},
		{42, 1},
		{0.3, 0.3},
		{math.NaN(), 0},
	}

	c, _, media := newTestController(t)
	for _, tt := range tests {
		c.SetVolume(tt.in)
		if got := c.Snapshot().Volume; got != tt.want {
			t.Errorf("SetVolume(%v) volume = %v, want %v", tt.in, got, tt.want)
		}
		if got := media.last(); got.name != "volume" || got.arg != tt.want {
			t.Errorf("SetVolume(%v) media call = %+v, want volume %v", tt.in, got, tt.want)
		}
	}
}

func TestSkipStaysInRange(t *testing.T) {
	c, _, _ := newTestController(t)
	c.OnTimeUpdate(30, 120)

	for _, delta := range []float64{-1000, -31, -10, 0, 10, 89, 91, 1e9, math.Inf(1), math.Inf(-1)} {
		c.Skip(delta)
		got := c.Snapshot().CurrentTime
		if got < 0 || got > 120 {
			t.Errorf("Skip(%v) currentTime = %v, want within [0,120]", delta, got)
		}
	}
}

func TestSkipWithUnknownDuration(t *testing.T) {
	c, _, _ := newTestController(t)
	c.Skip(10)
	if got := c.Snapshot().CurrentTime; got != 0 {
		t.Errorf("currentTime = %v, want 0 with unknown duration", got)
	}
}

func TestToggleMuteRestoresFullVolume(t *testing.T) {
	c, _, _ := newTestController(t)
	c.SetVolume(0.4)

	c.ToggleMute()
	if got := c.Snapshot().Volume; got != 0 {
		t.Fatalf("after mute volume = %v, want 0", got)
	}
	if s := c.Snapshot(); !s.Muted() {
		t.Error("Muted() = false after mute")
	}

	c.ToggleMute()
	if got := c.Snapshot().Volume; got != 1 {
		t.Errorf("after unmute volume = %v, want 1", got)
	}
}

func TestFlashRestartsOnSecondToggle(t *testing.T) {
	c, clock, _ := newTestController(t)

	c.TogglePlay()
	clock.Advance(300 * time.Millisecond)
	if !c.Snapshot().ShowBigPlayFlash {
		t.Error("flash hidden at t=300ms")
	}

	clock.Advance(100 * time.Millisecond)
	c.TogglePlay()

	clock.Advance(500 * time.Millisecond)
	if !c.Snapshot().ShowBigPlayFlash {
		t.Error("flash hidden at t=900ms after second toggle at t=400ms")
	}

	clock.Advance(100 * time.Millisecond)
	if c.Snapshot().ShowBigPlayFlash {
		t.Error("flash still shown at t=1000ms")
	}
}

func TestControlsHideAfterAutoHide(t *testing.T) {
	c, clock, _ := newTestController(t)
	c.TogglePlay()

	clock.Advance(2999 * time.Millisecond)
	if !c.Snapshot().ControlsVisible {
		t.Fatal("controls hidden before 3000ms")
	}

	clock.Advance(time.Millisecond)
	if c.Snapshot().ControlsVisible {
		t.Error("controls visible at 3000ms while playing")
	}
}

func TestControlsAlwaysVisibleWhilePaused(t *testing.T) {
	c, clock, _ := newTestController(t)

	for i := 0; i < 5; i++ {
		clock.Advance(5 * time.Second)
		if !c.Snapshot().ControlsVisible {
			t.Fatalf("controls hidden while paused after %ds", (i+1)*5)
		}
	}

	c.TogglePlay()
	clock.Advance(4 * time.Second)
	c.TogglePlay()
	if !c.Snapshot().ControlsVisible {
		t.Error("controls hidden right after pausing")
	}
	clock.Advance(10 * time.Second)
	if !c.Snapshot().ControlsVisible {
		t.Error("controls hidden while paused")
	}
}

func TestInteractionCancelsEarlierTimer(t *testing.T) {
	c, clock, _ := newTestController(t)
	c.TogglePlay()

	clock.Advance(2 * time.Second)
	c.Interact()
	if n := clock.live(); n != 1 {
		t.Errorf("live timers = %d, want 1", n)
	}

	clock.Advance(1500 * time.Millisecond)
	if !c.Snapshot().ControlsVisible {
		t.Fatal("stale timer hid controls after a later interaction")
	}

	clock.Advance(1500 * time.Millisecond)
	if c.Snapshot().ControlsVisible {
		t.Error("controls visible 3000ms after last interaction")
	}
}

func TestHoverSampledAtExpiry(t *testing.T) {
	c, clock, _ := newTestController(t)
	c.TogglePlay()

	clock.Advance(time.Second)
	c.PointerEnter()
	clock.Advance(5 * time.Second)
	if !c.Snapshot().ControlsVisible {
		t.Fatal("controls hidden while hovering")
	}

	c.PointerLeave()
	if c.Snapshot().ControlsVisible {
		t.Error("controls still visible after leaving while playing")
	}
}

func TestHoverReadWhenCountdownFires(t *testing.T) {
	c, clock, _ := newTestController(t)
	c.TogglePlay()

	setHover := func(on bool) {
		c.mu.Lock()
		c.s.Hovering = on
		c.mu.Unlock()
	}

	clock.Advance(time.Second)
	setHover(true)
	clock.Advance(3 * time.Second)
	if !c.Snapshot().ControlsVisible {
		t.Fatal("controls hidden although hovering when the countdown fired")
	}

	c.Interact()
	clock.Advance(time.Second)
	setHover(false)
	clock.Advance(2 * time.Second)
	if c.Snapshot().ControlsVisible {
		t.Error("controls visible although not hovering when the countdown fired")
	}
}

func TestCoarsePointerIgnoresHover(t *testing.T) {
	c, clock, _ := newTestController(t, WithPointer(core.PointerCoarse))
	c.TogglePlay()
	c.PointerEnter()
	if c.Snapshot().Hovering {
		t.Fatal("coarse pointer recorded hover")
	}
	clock.Advance(3 * time.Second)
	if c.Snapshot().ControlsVisible {
		t.Error("controls visible after auto-hide on coarse pointer")
	}
}

func TestSetPointerDropsHover(t *testing.T) {
	c, _, _ := newTestController(t)
	c.PointerEnter()
	if !c.Snapshot().Hovering {
		t.Fatal("fine pointer should hover")
	}

	c.SetPointer(core.PointerCoarse)
	s := c.Snapshot()
	if s.Pointer != core.PointerCoarse {
		t.Errorf("Pointer = %q, want coarse", s.Pointer)
	}
	if s.Hovering {
		t.Error("switching to a coarse pointer should drop hover")
	}

	seq := s.Seq
	c.SetPointer("")
	c.SetPointer(core.PointerCoarse)
	if c.Snapshot().Seq != seq {
		t.Error("empty or unchanged pointer should not publish")
	}
}

func TestCoarsePointerAfterHoverExpiry(t *testing.T) {
	c, clock, _ := newTestController(t)
	c.TogglePlay()
	c.PointerEnter()
	clock.Advance(4 * time.Second)
	if !c.Snapshot().ControlsVisible {
		t.Fatal("controls hidden while hovering")
	}

	c.SetPointer(core.PointerCoarse)
	if !c.Snapshot().ControlsVisible {
		t.Fatal("controls hidden right after switching pointer")
	}
	clock.Advance(30 * time.Second)
	s := c.Snapshot()
	if !s.IsPlaying || s.Hovering || s.ControlsVisible {
		t.Errorf("playing=%v hovering=%v controls=%v, want controls hidden after idle", s.IsPlaying, s.Hovering, s.ControlsVisible)
	}
}

func TestSeekAndSkipScenario(t *testing.T) {
	c, _, media := newTestController(t)
	c.OnTimeUpdate(0, 120)

	c.SeekToFraction(0.5)
	if got := c.Snapshot().CurrentTime; got != 60 {
		t.Fatalf("after SeekToFraction(0.5) currentTime = %v, want 60", got)
	}
	if got := media.last(); got.name != "seek" || got.arg != 60 {
		t.Errorf("media call = %+v, want seek 60", got)
	}

	c.Skip(-70)
	if got := c.Snapshot().CurrentTime; got != 0 {
		t.Errorf("after Skip(-70) currentTime = %v, want 0", got)
	}
}

func TestSeekToFractionClamps(t *testing.T) {
	c, _, _ := newTestController(t)
	c.OnTimeUpdate(0, 200)

	c.SeekToFraction(1.5)
	if got := c.Snapshot().CurrentTime; got != 200 {
		t.Errorf("SeekToFraction(1.5) = %v, want 200", got)
	}
	c.SeekToFraction(-1)
	if got := c.Snapshot().CurrentTime; got != 0 {
		t.Errorf("SeekToFraction(-1) = %v, want 0", got)
	}
	if s := c.Snapshot(); s.ProgressFraction() != 0 {
		t.Errorf("ProgressFraction() = %v, want 0", s.ProgressFraction())
	}
}

func TestBufferedRanges(t *testing.T) {
	c, _, _ := newTestController(t)
	ranges := []core.BufferedRange{{Start: 0, End: 30}, {Start: 40, End: 100}}

	c.OnBufferedRangeUpdate(ranges, 50, 100)
	if got := c.Snapshot().BufferedFraction; got != 1.0 {
		t.Fatalf("bufferedFraction = %v, want 1.0", got)
	}

	c.OnBufferedRangeUpdate(ranges, 20, 100)
	if got := c.Snapshot().BufferedFraction; got != 0.3 {
		t.Fatalf("bufferedFraction = %v, want 0.3", got)
	}

	c.OnBufferedRangeUpdate(ranges, 35, 100)
	if got := c.Snapshot().BufferedFraction; got != 0.3 {
		t.Errorf("bufferedFraction in gap = %v, want unchanged 0.3", got)
	}

	c.OnBufferedRangeUpdate(ranges, 10, 0)
	if got := c.Snapshot().BufferedFraction; got != 0 {
		t.Errorf("bufferedFraction with unknown duration = %v, want 0", got)
	}
}

func TestDurationSetOnce(t *testing.T) {
	c, _, _ := newTestController(t)
	c.OnTimeUpdate(0, 0)
	if got := c.Snapshot().Duration; got != 0 {
		t.Fatalf("duration = %v, want 0 before metadata", got)
	}
	c.OnTimeUpdate(5, 120)
	c.OnTimeUpdate(6, 240)
	s := c.Snapshot()
	if s.Duration != 120 {
		t.Errorf("duration = %v, want 120", s.Duration)
	}
	if s.CurrentTime != 6 {
		t.Errorf("currentTime = %v, want 6", s.CurrentTime)
	}
}

func TestBufferingSignals(t *testing.T) {
	c, _, _ := newTestController(t)
	c.OnStalled()
	if !c.Snapshot().IsBuffering {
		t.Fatal("IsBuffering = false after stall")
	}
	c.OnResumed()
	if c.Snapshot().IsBuffering {
		t.Error("IsBuffering = true after resume")
	}
}

func TestTogglePlayWithoutSource(t *testing.T) {
	clock := newFakeClock()
	media := newFakeMedia()
	c := New(media, core.Source{}, WithClock(clock), WithSyncCommands())
	defer c.Close()

	c.TogglePlay()
	s := c.Snapshot()
	if s.IsPlaying || s.ShowBigPlayFlash {
		t.Errorf("TogglePlay without source changed state: %+v", s)
	}
	if media.count("play") != 0 {
		t.Error("play sent without a source")
	}
}

func TestFullscreenFollowsNativeSignal(t *testing.T) {
	clock := newFakeClock()
	media := newFakeMedia()
	logger, hook := logtest.NewNullLogger()
	c := New(media, demo, WithClock(clock), WithSyncCommands(), WithLogger(logger))
	defer c.Close()

	c.ToggleFullscreen()
	if media.last().name != "request-fullscreen" {
		t.Fatalf("last call = %q, want request-fullscreen", media.last().name)
	}
	if c.Snapshot().IsFullscreen {
		t.Fatal("fullscreen set before native signal")
	}

	c.OnFullscreenChange(true)
	if !c.Snapshot().IsFullscreen {
		t.Fatal("fullscreen not mirrored")
	}

	c.ToggleFullscreen()
	if media.last().name != "exit-fullscreen" {
		t.Errorf("last call = %q, want exit-fullscreen", media.last().name)
	}

	c.OnFullscreenChange(false)
	media.fail["request-fullscreen"] = errRejected
	c.ToggleFullscreen()
	if c.Snapshot().IsFullscreen {
		t.Error("failed request changed fullscreen state")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Data["command"] != "request-fullscreen" {
		t.Errorf("failure not logged: %+v", entry)
	}
}

func TestCommandOrder(t *testing.T) {
	c, _, media := newTestController(t)
	c.OnTimeUpdate(0, 100)
	c.TogglePlay()
	c.SeekToFraction(0.25)

	want := []string{"load", "volume", "play", "seek"}
	if got := media.names(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if s := c.Snapshot(); !s.IsPlaying || s.CurrentTime != 25 {
		t.Errorf("state = playing:%v time:%v, want playing at 25", s.IsPlaying, s.CurrentTime)
	}
}

func TestAsyncCommandOrder(t *testing.T) {
	media := newFakeMedia()
	logger, _ := logtest.NewNullLogger()
	c := New(media, demo, WithClock(newFakeClock()), WithLogger(logger))
	c.OnLoadStarted()
	c.OnTimeUpdate(0, 100)
	c.TogglePlay()
	c.Skip(10)
	c.TogglePlay()

	// Close drains the queue before returning.
	_ = c.Close()

	want := []string{"load", "volume", "play", "seek", "pause"}
	if got := media.names(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if !media.closed {
		t.Error("media not closed")
	}
}

func TestDoubleTap(t *testing.T) {
	c, _, media := newTestController(t, WithPointer(core.PointerCoarse))
	c.OnTimeUpdate(50, 120)

	c.DoubleTap(10, 400)
	if got := c.Snapshot().CurrentTime; got != 40 {
		t.Errorf("left double tap currentTime = %v, want 40", got)
	}
	c.DoubleTap(300, 400)
	c.DoubleTap(200, 400)
	if got := c.Snapshot().CurrentTime; got != 60 {
		t.Errorf("right double taps currentTime = %v, want 60", got)
	}
	if media.count("request-fullscreen") != 0 {
		t.Error("coarse double tap requested fullscreen")
	}

	c.SetPointer(core.PointerFine)
	c.DoubleTap(10, 400)
	if media.last().name != "request-fullscreen" {
		t.Errorf("fine double tap call = %q, want request-fullscreen", media.last().name)
	}
}

func TestTapTogglesPlay(t *testing.T) {
	c, _, _ := newTestController(t, WithPointer(core.PointerCoarse))
	c.Tap()
	if !c.Snapshot().IsPlaying {
		t.Fatal("tap did not start playback")
	}
	c.Tap()
	if c.Snapshot().IsPlaying {
		t.Error("second tap did not pause")
	}
}

func TestNativePlaybackSignals(t *testing.T) {
	c, clock, _ := newTestController(t)

	c.OnPlaying()
	if !c.Snapshot().IsPlaying {
		t.Fatal("OnPlaying did not set IsPlaying")
	}
	clock.Advance(3 * time.Second)
	if c.Snapshot().ControlsVisible {
		t.Error("controls not hidden after native playback start")
	}

	c.OnEnded()
	s := c.Snapshot()
	if s.IsPlaying || !s.Ended || !s.ControlsVisible {
		t.Errorf("after end: playing=%v ended=%v controls=%v", s.IsPlaying, s.Ended, s.ControlsVisible)
	}

	c.TogglePlay()
	if c.Snapshot().Ended {
		t.Error("Ended still set after replay")
	}
	c.OnPaused()
	if c.Snapshot().IsPlaying {
		t.Error("OnPaused did not clear IsPlaying")
	}
}

func TestSubscribe(t *testing.T) {
	c, _, _ := newTestController(t)

	var got []core.Session
	unsubscribe := c.Subscribe(func(s core.Session) {
		got = append(got, s)
	})

	c.SetVolume(0.5)
	c.OnStalled()
	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if got[1].Seq <= got[0].Seq {
		t.Errorf("Seq not increasing: %d then %d", got[0].Seq, got[1].Seq)
	}

	c.OnStalled() // no change
	if len(got) != 2 {
		t.Errorf("notified without a change")
	}

	unsubscribe()
	unsubscribe()
	c.SetVolume(0.2)
	if len(got) != 2 {
		t.Errorf("notified after unsubscribe")
	}
}

func TestCloseCancelsTimers(t *testing.T) {
	clock := newFakeClock()
	media := newFakeMedia()
	c := New(media, demo, WithClock(clock), WithSyncCommands())

	notified := 0
	c.Subscribe(func(core.Session) { notified++ })
	c.TogglePlay()
	before := c.Snapshot()
	notified = 0

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if n := clock.live(); n != 0 {
		t.Errorf("live timers after close = %d, want 0", n)
	}

	clock.Advance(10 * time.Second)
	c.SetVolume(0.1)
	c.OnTimeUpdate(5, 10)

	if notified != 0 {
		t.Errorf("notified %d times after close", notified)
	}
	if after := c.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("state changed after close:\nbefore %+v\nafter  %+v", before, after)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestLoadStartsFreshSession(t *testing.T) {
	c, _, media := newTestController(t)
	first := c.Snapshot().ID
	c.OnTimeUpdate(30, 120)
	c.SetVolume(0.6)

	next := core.Source{URI: "/videos/next.mp4", Title: "next"}
	c.Load(next)
	s := c.Snapshot()
	if s.ID == first {
		t.Error("session ID reused after Load")
	}
	if s.Duration != 0 || s.CurrentTime != 0 || s.Source != next {
		t.Errorf("session not reset: %+v", s)
	}
	if s.Volume != 0.6 {
		t.Errorf("volume = %v, want 0.6 carried over", s.Volume)
	}
	if media.count("load") != 2 {
		t.Errorf("load calls = %d, want 2", media.count("load"))
	}
}

func TestLoadDropsPreviousSourceSignals(t *testing.T) {
	c, _, _ := newTestController(t)
	c.OnTimeUpdate(50, 120)
	c.TogglePlay()

	c.Load(core.Source{URI: "/videos/next.mp4", Title: "next"})
	c.OnTimeUpdate(50.5, 120)
	c.OnBufferedRangeUpdate([]core.BufferedRange{{Start: 0, End: 90}}, 50.5, 120)
	c.OnEnded()
	s := c.Snapshot()
	if s.Duration != 0 || s.CurrentTime != 0 || s.BufferedFraction != 0 || s.Ended {
		t.Fatalf("previous source leaked into new session: %+v", s)
	}

	c.OnLoadStarted()
	c.OnTimeUpdate(0, 300)
	if got := c.Snapshot().Duration; got != 300 {
		t.Fatalf("duration = %v, want 300", got)
	}
	c.SeekToFraction(0.9)
	if got := c.Snapshot().CurrentTime; got != 270 {
		t.Errorf("SeekToFraction(0.9) = %v, want 270", got)
	}
}

func TestLoadStartedResetsAfterBackToBackLoads(t *testing.T) {
	c, _, _ := newTestController(t)

	c.Load(core.Source{URI: "/videos/a.mp4"})
	c.Load(core.Source{URI: "/videos/b.mp4"})

	// a starts and reports before b replaces it.
	c.OnLoadStarted()
	c.OnTimeUpdate(3, 45)
	c.OnLoadStarted()
	c.OnTimeUpdate(0, 600)

	s := c.Snapshot()
	if s.Source.URI != "/videos/b.mp4" || s.Duration != 600 || s.CurrentTime != 0 {
		t.Errorf("session = %s at %v/%v, want b at 0/600", s.Source.URI, s.CurrentTime, s.Duration)
	}
}

func TestTimersAfterLoad(t *testing.T) {
	c, clock, _ := newTestController(t)
	c.TogglePlay()

	clock.Advance(100 * time.Millisecond)
	c.Load(core.Source{URI: "/videos/next.mp4"})
	c.OnLoadStarted()
	if s := c.Snapshot(); s.ShowBigPlayFlash || s.IsPlaying {
		t.Fatalf("flash=%v playing=%v after Load, want both cleared", s.ShowBigPlayFlash, s.IsPlaying)
	}
	if n := clock.live(); n != 1 {
		t.Errorf("live timers after Load = %d, want 1", n)
	}

	clock.Advance(100 * time.Millisecond)
	c.TogglePlay()
	clock.Advance(450 * time.Millisecond)
	if !c.Snapshot().ShowBigPlayFlash {
		t.Error("flash cut short by a timer from before Load")
	}

	clock.Advance(2 * time.Second)
	if !c.Snapshot().ControlsVisible {
		t.Fatal("controls hidden early by a countdown from before Load")
	}
	clock.Advance(550 * time.Millisecond)
	if c.Snapshot().ControlsVisible {
		t.Error("controls visible 3000ms after playing the new source")
	}
}

func TestRunPumpsEvents(t *testing.T) {
	c, _, media := newTestController(t)

	media.events <- core.Event{Kind: core.EventLoadStarted}
	media.events <- core.TimeUpdate(12, 60)
	media.events <- core.BufferedUpdate([]core.BufferedRange{{Start: 0, End: 30}}, 12, 60)
	media.events <- core.Event{Kind: core.EventStalled}
	media.events <- core.FullscreenChange(true)
	close(media.events)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	s := c.Snapshot()
	if s.CurrentTime != 12 || s.Duration != 60 || s.BufferedFraction != 0.5 || !s.IsBuffering || !s.IsFullscreen {
		t.Errorf("unexpected state after events: %+v", s)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
