package player

import "github.com/tessro/reel/internal/core"

// Tap handles a single tap or click on the player area. On both pointer
// classes it toggles playback; on coarse pointers it lands on the full-cover
// layer rather than the media itself.
func (c *Controller) Tap() {
	c.TogglePlay()
}

// DoubleTap handles a double tap at horizontal offset x within a player of the
// given width. Coarse pointers skip backward on the left half and forward on
// the right half; fine pointers toggle fullscreen.
func (c *Controller) DoubleTap(x, width float64) {
	if c.pointer() != core.PointerCoarse {
		c.ToggleFullscreen()
		return
	}
	if width <= 0 {
		return
	}
	if x < width/2 {
		c.Skip(-c.opts.skipStep)
	} else {
		c.Skip(c.opts.skipStep)
	}
}

// SkipStep returns the configured skip distance in seconds.
func (c *Controller) SkipStep() float64 {
	return c.opts.skipStep
}

func (c *Controller) pointer() core.Pointer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Pointer
}
