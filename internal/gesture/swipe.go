package gesture

import "time"

// Direction is the outcome of a swipe.
type Direction int

const (
	None Direction = iota
	Next
	Prev
)

func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	default:
		return "none"
	}
}

// Thresholds decide when a released drag counts as a swipe. Offset is in
// pixels (or cells), Velocity in the same unit per second.
type Thresholds struct {
	Offset   float64
	Velocity float64
}

// DefaultThresholds match a 50px travel or a 500px/s flick.
var DefaultThresholds = Thresholds{Offset: 50, Velocity: 500}

// Classify maps a released drag to a direction. Dragging left advances.
func (t Thresholds) Classify(offset, velocity float64) Direction {
	switch {
	case offset < -t.Offset || velocity < -t.Velocity:
		return Next
	case offset > t.Offset || velocity > t.Velocity:
		return Prev
	default:
		return None
	}
}

// Carousel is an index over Count items that swipes step through without
// wrapping around.
type Carousel struct {
	Index      int
	Count      int
	Thresholds Thresholds
}

// NewCarousel creates a carousel positioned on the first item.
func NewCarousel(count int, t Thresholds) *Carousel {
	return &Carousel{Count: count, Thresholds: t}
}

// Release classifies a finished drag and steps the index. It reports the
// direction taken; a swipe past either end is a no-op.
func (c *Carousel) Release(offset, velocity float64) Direction {
	switch c.Thresholds.Classify(offset, velocity) {
	case Next:
		if c.Index < c.Count-1 {
			c.Index++
			return Next
		}
	case Prev:
		if c.Index > 0 {
			c.Index--
			return Prev
		}
	}
	return None
}

type sample struct {
	x  float64
	at time.Time
}

// velocityWindow bounds how far back samples count toward release velocity.
const velocityWindow = 100 * time.Millisecond

// Drag tracks one pointer drag and reports its travel and release velocity.
type Drag struct {
	start   float64
	samples []sample
	active  bool
}

// Start begins a drag at x.
func (d *Drag) Start(x float64, at time.Time) {
	d.start = x
	d.samples = append(d.samples[:0], sample{x: x, at: at})
	d.active = true
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.active
}

// Move records a pointer position.
func (d *Drag) Move(x float64, at time.Time) {
	if !d.active {
		return
	}
	d.samples = append(d.samples, sample{x: x, at: at})
	d.trim(at)
}

// End finishes the drag at x and returns the total offset and the release
// velocity in units per second.
func (d *Drag) End(x float64, at time.Time) (offset, velocity float64) {
	if !d.active {
		return 0, 0
	}
	d.Move(x, at)
	d.active = false

	offset = x - d.start
	first := d.samples[0]
	if dt := at.Sub(first.at).Seconds(); dt > 0 {
		velocity = (x - first.x) / dt
	}
	return offset, velocity
}

func (d *Drag) trim(now time.Time) {
	cut := 0
	for cut < len(d.samples)-1 && now.Sub(d.samples[cut].at) > velocityWindow {
		cut++
	}
	d.samples = d.samples[cut:]
}
