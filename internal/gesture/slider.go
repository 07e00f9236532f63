// Package gesture maps pointer drags onto values: a clamped position for
// sliders and a step for swipe carousels.
package gesture

import (
	"math"

	"github.com/samber/lo"
)

// Bounds is the horizontal extent of a drag target.
type Bounds struct {
	Left  float64
	Width float64
}

// Project maps x onto the bounds as a fraction in [0,1].
func (b Bounds) Project(x float64) float64 {
	if b.Width <= 0 || math.IsNaN(x) {
		return 0
	}
	return lo.Clamp((x-b.Left)/b.Width, 0, 1)
}

// Slider is a draggable handle, such as a before/after comparison divider
// or a seek bar.
type Slider struct {
	Bounds   Bounds
	position float64
	dragging bool
}

// NewSlider creates a slider centred within b.
func NewSlider(b Bounds) *Slider {
	return &Slider{Bounds: b, position: 0.5}
}

// Position returns the handle position in [0,1].
func (s *Slider) Position() float64 {
	return s.position
}

// SetPosition places the handle directly, clamped to [0,1].
func (s *Slider) SetPosition(f float64) {
	if math.IsNaN(f) {
		f = 0
	}
	s.position = lo.Clamp(f, 0, 1)
}

// Dragging reports whether a drag is in progress.
func (s *Slider) Dragging() bool {
	return s.dragging
}

// Begin starts a drag at x and moves the handle there.
func (s *Slider) Begin(x float64) float64 {
	s.dragging = true
	s.position = s.Bounds.Project(x)
	return s.position
}

// Move follows the pointer while dragging. Moves outside a drag are ignored.
func (s *Slider) Move(x float64) (float64, bool) {
	if !s.dragging {
		return s.position, false
	}
	s.position = s.Bounds.Project(x)
	return s.position, true
}

// End finishes the drag.
func (s *Slider) End() float64 {
	s.dragging = false
	return s.position
}
