package player

import (
	"math"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tessro/reel/internal/core"
)

// clampUnit clamps v to [0,1]. NaN maps to 0.
func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return lo.Clamp(v, 0, 1)
}

// clampTime clamps t to [0,duration]. An unknown (zero) duration pins t to 0.
func clampTime(t, duration float64) float64 {
	if math.IsNaN(t) || math.IsNaN(duration) || duration <= 0 {
		return 0
	}
	return lo.Clamp(t, 0, duration)
}

// fraction divides by duration, treating a zero duration as unknown.
func fraction(t, duration float64) float64 {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0
	}
	return clampUnit(t / duration)
}

func coveringRange(ranges []core.BufferedRange, t float64) mo.Option[core.BufferedRange] {
	r, ok := lo.Find(ranges, func(r core.BufferedRange) bool {
		return r.Contains(t)
	})
	if !ok {
		return mo.None[core.BufferedRange]()
	}
	return mo.Some(r)
}
