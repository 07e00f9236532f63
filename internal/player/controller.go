// Package player implements the media controller: the single source of truth
// for one media element's playback state and the display state derived from it.
package player

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tessro/reel/internal/core"
)

type subscriber struct {
	id int
	fn func(core.Session)
}

// Controller mediates playback commands and derives display state.
//
// All state transitions are serialized; timer expiries and media events enter
// through the same lock as user commands, so each call runs to completion
// before the next is applied.
type Controller struct {
	media core.Media
	opts  options
	cmds  *commandQueue

	mu       sync.Mutex
	s        core.Session
	shown    bool // controls forced up by a recent interaction
	loading  bool // load sent, media has not reported it yet
	controls timer
	flash    timer
	subs     []subscriber
	nextSub  int
	closed   bool
}

// New creates a controller for media, attaching src when it is non-zero.
func New(media core.Media, src core.Source, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		media:    media,
		opts:     o,
		cmds:     newCommandQueue(o.log, o.sync),
		shown:    true,
		controls: timer{clock: o.clock},
		flash:    timer{clock: o.clock},
	}
	c.s = core.Session{
		Volume:  o.volume,
		Pointer: o.pointer,
	}
	c.attach(src)
	c.send("volume", func(ctx context.Context) error {
		return media.SetVolume(ctx, o.volume)
	})
	return c
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() core.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func(core.Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.subs = lo.Reject(c.subs, func(s subscriber, _ int) bool {
				return s.id == id
			})
		})
	}
}

// Close cancels all timers, stops sending commands and releases the media.
// Every later call on the controller is a no-op.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.controls.stop()
	c.flash.stop()
	c.subs = nil
	c.mu.Unlock()

	c.cmds.close()
	return c.media.Close()
}

// Load attaches a new source, starting a fresh session. Volume and pointer
// class carry over.
func (c *Controller) Load(src core.Source) {
	c.update(func() bool {
		c.attach(src)
		c.interactLocked()
		return true
	})
}

// TogglePlay starts playback when paused and pauses it when playing. It is a
// no-op when no source is loaded.
func (c *Controller) TogglePlay() {
	c.update(func() bool {
		if !c.s.Loaded {
			return false
		}
		if c.s.IsPlaying {
			c.s.IsPlaying = false
			c.send("pause", c.media.Pause)
		} else {
			c.s.IsPlaying = true
			c.s.Ended = false
			c.send("play", c.media.Play)
		}
		c.s.ShowBigPlayFlash = true
		c.flash.reset(c.opts.flash, c.flashExpired)
		c.interactLocked()
		return true
	})
}

// SeekToFraction seeks to f*duration, with f clamped to [0,1].
func (c *Controller) SeekToFraction(f float64) {
	c.update(func() bool {
		c.seekLocked(clampUnit(f) * c.s.Duration)
		c.interactLocked()
		return true
	})
}

// Skip moves the playhead by delta seconds, clamped to [0,duration].
func (c *Controller) Skip(delta float64) {
	c.update(func() bool {
		c.seekLocked(c.s.CurrentTime + delta)
		c.interactLocked()
		return true
	})
}

// SetVolume sets the volume, clamped to [0,1]. Zero means muted.
func (c *Controller) SetVolume(v float64) {
	c.update(func() bool {
		c.setVolumeLocked(clampUnit(v))
		c.interactLocked()
		return true
	})
}

// ToggleMute mutes a non-zero volume and restores a zero volume to full.
// The volume before muting is not remembered.
func (c *Controller) ToggleMute() {
	c.update(func() bool {
		if c.s.Volume > 0 {
			c.setVolumeLocked(0)
		} else {
			c.setVolumeLocked(1)
		}
		c.interactLocked()
		return true
	})
}

// ToggleFullscreen asks the media to enter or leave fullscreen. The session
// only changes when the media reports the change.
func (c *Controller) ToggleFullscreen() {
	c.update(func() bool {
		if c.s.IsFullscreen {
			c.send("exit-fullscreen", c.media.ExitFullscreen)
		} else {
			c.send("request-fullscreen", c.media.RequestFullscreen)
		}
		c.interactLocked()
		return true
	})
}

// Interact records pointer movement or a touch: controls come up and the
// auto-hide countdown restarts.
func (c *Controller) Interact() {
	c.update(func() bool {
		c.interactLocked()
		return true
	})
}

// PointerEnter marks the pointer as hovering the player. Ignored on coarse pointers.
func (c *Controller) PointerEnter() {
	c.update(func() bool {
		if !c.s.Pointer.CanHover() || c.s.Hovering {
			return false
		}
		c.s.Hovering = true
		c.interactLocked()
		return true
	})
}

// PointerLeave clears hover. Leaving while playing hides the controls at once.
func (c *Controller) PointerLeave() {
	c.update(func() bool {
		if !c.s.Pointer.CanHover() || !c.s.Hovering {
			return false
		}
		c.s.Hovering = false
		if c.s.IsPlaying {
			c.shown = false
			c.controls.stop()
		}
		return true
	})
}

// SetPointer switches the input device class. Switching to a coarse pointer
// drops any hover state and restarts the auto-hide countdown.
func (c *Controller) SetPointer(p core.Pointer) {
	c.update(func() bool {
		if p == "" || p == c.s.Pointer {
			return false
		}
		c.s.Pointer = p
		if !p.CanHover() && c.s.Hovering {
			c.s.Hovering = false
			c.interactLocked()
		}
		return true
	})
}

func (c *Controller) attach(src core.Source) {
	c.s.ID = uuid.NewString()
	c.s.Source = src
	c.s.Loaded = !src.IsZero()
	c.s.IsPlaying = false
	c.s.Ended = false
	c.s.CurrentTime = 0
	c.s.Duration = 0
	c.s.BufferedFraction = 0
	c.s.IsBuffering = false
	c.s.ShowBigPlayFlash = false
	c.flash.stop()
	c.loading = c.s.Loaded

	if c.s.Loaded {
		c.send("load", func(ctx context.Context) error {
			return c.media.Load(ctx, src)
		})
	}
}

func (c *Controller) seekLocked(t float64) {
	c.s.CurrentTime = clampTime(t, c.s.Duration)
	if !c.s.Loaded {
		return
	}
	pos := c.s.CurrentTime
	c.send("seek", func(ctx context.Context) error {
		return c.media.Seek(ctx, pos)
	})
}

func (c *Controller) setVolumeLocked(v float64) {
	c.s.Volume = v
	c.send("volume", func(ctx context.Context) error {
		return c.media.SetVolume(ctx, v)
	})
}

// interactLocked forces controls visible and restarts the auto-hide countdown.
func (c *Controller) interactLocked() {
	c.shown = true
	c.controls.reset(c.opts.autoHide, c.controlsExpired)
}

// controlsExpired hides the controls if, at expiry, playback is active and the
// pointer is not hovering.
func (c *Controller) controlsExpired(gen uint64) {
	c.update(func() bool {
		if !c.controls.fire(gen) {
			return false
		}
		if c.s.IsPlaying && !c.s.Hovering {
			c.shown = false
			return true
		}
		return false
	})
}

func (c *Controller) flashExpired(gen uint64) {
	c.update(func() bool {
		if !c.flash.fire(gen) {
			return false
		}
		c.s.ShowBigPlayFlash = false
		return true
	})
}

func (c *Controller) send(name string, run func(ctx context.Context) error) {
	c.cmds.submit(name, run)
}

func (c *Controller) snapshotLocked() core.Session {
	s := c.s
	s.ControlsVisible = !c.s.IsPlaying || c.shown
	return s
}

// update applies fn under the lock and, if it reports a change, publishes a
// snapshot to subscribers after the lock is released.
func (c *Controller) update(fn func() bool) {
	c.mu.Lock()
	if c.closed || !fn() {
		c.mu.Unlock()
		return
	}
	c.s.Seq++
	snap := c.snapshotLocked()
	subs := append([]subscriber(nil), c.subs...)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}
