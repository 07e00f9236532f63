package player

import (
	"context"
	"math"

	"github.com/tessro/reel/internal/core"
)

// OnLoadStarted marks the point where the media begins reporting for the most
// recently loaded source. Position, duration and buffering start over.
func (c *Controller) OnLoadStarted() {
	c.update(func() bool {
		changed := c.loading || c.s.CurrentTime != 0 || c.s.Duration != 0 ||
			c.s.BufferedFraction != 0 || c.s.IsBuffering || c.s.Ended
		c.loading = false
		c.s.CurrentTime = 0
		c.s.Duration = 0
		c.s.BufferedFraction = 0
		c.s.IsBuffering = false
		c.s.Ended = false
		return changed
	})
}

// OnTimeUpdate applies the media's time-update signal. The first positive
// duration is kept for the lifetime of the source. Updates that arrive while
// a load is pending belong to the previous source and are dropped.
func (c *Controller) OnTimeUpdate(currentTime, duration float64) {
	c.update(func() bool {
		if c.loading {
			return false
		}
		changed := false
		if c.s.Duration == 0 && duration > 0 && !math.IsInf(duration, 0) {
			c.s.Duration = duration
			changed = true
		}
		if t := clampTime(currentTime, c.s.Duration); t != c.s.CurrentTime {
			c.s.CurrentTime = t
			changed = true
		}
		return changed
	})
}

// OnBufferedRangeUpdate recomputes the buffered fraction from the end of the
// range covering currentTime. With no covering range the fraction is left as is.
func (c *Controller) OnBufferedRangeUpdate(ranges []core.BufferedRange, currentTime, duration float64) {
	c.update(func() bool {
		if c.loading {
			return false
		}
		r, ok := coveringRange(ranges, currentTime).Get()
		if !ok {
			return false
		}
		f := fraction(r.End, duration)
		if f == c.s.BufferedFraction {
			return false
		}
		c.s.BufferedFraction = f
		return true
	})
}

// OnStalled marks playback as waiting for data.
func (c *Controller) OnStalled() {
	c.update(func() bool {
		if c.s.IsBuffering {
			return false
		}
		c.s.IsBuffering = true
		return true
	})
}

// OnResumed clears the buffering state.
func (c *Controller) OnResumed() {
	c.update(func() bool {
		if !c.s.IsBuffering {
			return false
		}
		c.s.IsBuffering = false
		return true
	})
}

// OnPaused reconciles the session with a native pause.
func (c *Controller) OnPaused() {
	c.update(func() bool {
		if !c.s.IsPlaying {
			return false
		}
		c.s.IsPlaying = false
		return true
	})
}

// OnPlaying reconciles the session with native playback starting. Playback
// that starts without a command still gets a fresh auto-hide countdown.
func (c *Controller) OnPlaying() {
	c.update(func() bool {
		if c.s.IsPlaying || !c.s.Loaded {
			return false
		}
		c.s.IsPlaying = true
		c.s.Ended = false
		c.interactLocked()
		return true
	})
}

// OnEnded marks the media as finished. It is ignored while a load is pending.
func (c *Controller) OnEnded() {
	c.update(func() bool {
		if c.loading || (c.s.Ended && !c.s.IsPlaying) {
			return false
		}
		c.s.IsPlaying = false
		c.s.Ended = true
		c.s.IsBuffering = false
		return true
	})
}

// OnFullscreenChange mirrors the native fullscreen state.
func (c *Controller) OnFullscreenChange(on bool) {
	c.update(func() bool {
		if c.s.IsFullscreen == on {
			return false
		}
		c.s.IsFullscreen = on
		return true
	})
}

// Handle routes a native media event to its callback.
func (c *Controller) Handle(ev core.Event) {
	switch ev.Kind {
	case core.EventTimeUpdate:
		c.OnTimeUpdate(ev.CurrentTime, ev.Duration)
	case core.EventBufferedRanges:
		c.OnBufferedRangeUpdate(ev.Ranges, ev.CurrentTime, ev.Duration)
	case core.EventStalled:
		c.OnStalled()
	case core.EventResumed:
		c.OnResumed()
	case core.EventPaused:
		c.OnPaused()
	case core.EventPlaying:
		c.OnPlaying()
	case core.EventEnded:
		c.OnEnded()
	case core.EventFullscreenChange:
		c.OnFullscreenChange(ev.Fullscreen)
	case core.EventLoadStarted:
		c.OnLoadStarted()
	default:
		c.opts.log.WithField("kind", ev.Kind).Debug("ignoring unknown media event")
	}
}

// Run feeds media events into the controller until ctx is done or the media
// closes its event channel.
func (c *Controller) Run(ctx context.Context) error {
	events := c.media.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.Handle(ev)
		}
	}
}
