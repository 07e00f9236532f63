package player

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tessro/reel/internal/core"
)

const (
	// DefaultAutoHide is how long controls stay up after the last interaction while playing.
	DefaultAutoHide = 3000 * time.Millisecond
	// DefaultFlash is how long the big play/pause icon shows after a toggle.
	DefaultFlash = 600 * time.Millisecond
	// DefaultSkipStep is the seek distance for skip buttons and double taps, in seconds.
	DefaultSkipStep = 10.0
)

type options struct {
	clock    Clock
	log      logrus.FieldLogger
	autoHide time.Duration
	flash    time.Duration
	skipStep float64
	pointer  core.Pointer
	volume   float64
	sync     bool
}

func defaultOptions() options {
	return options{
		clock:    realClock{},
		log:      logrus.StandardLogger().WithField("component", "player"),
		autoHide: DefaultAutoHide,
		flash:    DefaultFlash,
		skipStep: DefaultSkipStep,
		pointer:  core.PointerFine,
		volume:   1,
	}
}

// Option configures a Controller.
type Option func(*options)

// WithClock replaces the wall clock used for timers.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger used for media command failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithAutoHide sets the controls auto-hide delay.
func WithAutoHide(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.autoHide = d
		}
	}
}

// WithFlash sets how long the big play/pause icon stays up.
func WithFlash(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.flash = d
		}
	}
}

// WithSkipStep sets the double-tap skip distance in seconds.
func WithSkipStep(seconds float64) Option {
	return func(o *options) {
		if seconds > 0 {
			o.skipStep = seconds
		}
	}
}

// WithPointer sets the input device class.
func WithPointer(p core.Pointer) Option {
	return func(o *options) {
		if p != "" {
			o.pointer = p
		}
	}
}

// WithVolume sets the initial volume; it is clamped to [0,1].
func WithVolume(v float64) Option {
	return func(o *options) {
		o.volume = clampUnit(v)
	}
}

// WithSyncCommands sends media commands on the calling goroutine instead of
// the command worker.
func WithSyncCommands() Option {
	return func(o *options) {
		o.sync = true
	}
}
