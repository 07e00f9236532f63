package core

import "time"

// Session is a snapshot of one media element's playback state.
type Session struct {
	ID     string `json:"id"`
	Seq    uint64 `json:"seq"`
	Source Source `json:"source"`
	Loaded bool   `json:"loaded"`

	IsPlaying        bool    `json:"is_playing"`
	Ended            bool    `json:"ended"`
	CurrentTime      float64 `json:"current_time"`
	Duration         float64 `json:"duration"`
	BufferedFraction float64 `json:"buffered_fraction"`
	Volume           float64 `json:"volume"`
	IsBuffering      bool    `json:"is_buffering"`
	IsFullscreen     bool    `json:"is_fullscreen"`

	ShowBigPlayFlash bool    `json:"show_big_play_flash"`
	ControlsVisible  bool    `json:"controls_visible"`
	Hovering         bool    `json:"hovering"`
	Pointer          Pointer `json:"pointer"`
}

// HasSource returns true if a source is attached.
func (s Session) HasSource() bool {
	return s.Loaded
}

// ProgressFraction returns playback progress in [0,1], 0 when the duration is unknown.
func (s Session) ProgressFraction() float64 {
	if s.Duration <= 0 {
		return 0
	}
	f := s.CurrentTime / s.Duration
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// Muted returns true if the volume is zero.
func (s Session) Muted() bool {
	return s.Volume == 0
}

// Position returns the current time as a duration.
func (s Session) Position() time.Duration {
	return Seconds(s.CurrentTime)
}

// Length returns the media duration as a duration.
func (s Session) Length() time.Duration {
	return Seconds(s.Duration)
}

// Seconds converts fractional seconds to a time.Duration.
func Seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
