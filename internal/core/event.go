package core

import "fmt"

// EventKind identifies a native media signal.
type EventKind int

const (
	EventTimeUpdate EventKind = iota
	EventBufferedRanges
	EventStalled
	EventResumed
	EventPaused
	EventPlaying
	EventEnded
	EventFullscreenChange
	EventLoadStarted
)

func (k EventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "timeupdate"
	case EventBufferedRanges:
		return "progress"
	case EventStalled:
		return "waiting"
	case EventResumed:
		return "resumed"
	case EventPaused:
		return "pause"
	case EventPlaying:
		return "playing"
	case EventEnded:
		return "ended"
	case EventFullscreenChange:
		return "fullscreenchange"
	case EventLoadStarted:
		return "loadstart"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a single native media signal. Media emits EventLoadStarted once a
// new source begins loading; signals before it belong to the previous source.
type Event struct {
	Kind        EventKind
	CurrentTime float64
	Duration    float64
	Ranges      []BufferedRange
	Fullscreen  bool
}

// BufferedRange is a contiguous interval of media time that can play without stalling.
type BufferedRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether t falls inside the range, bounds included.
func (r BufferedRange) Contains(t float64) bool {
	return r.Start <= t && t <= r.End
}

// TimeUpdate builds a time-update event.
func TimeUpdate(current, duration float64) Event {
	return Event{Kind: EventTimeUpdate, CurrentTime: current, Duration: duration}
}

// BufferedUpdate builds a buffered-ranges event.
func BufferedUpdate(ranges []BufferedRange, current, duration float64) Event {
	return Event{Kind: EventBufferedRanges, Ranges: ranges, CurrentTime: current, Duration: duration}
}

// FullscreenChange builds a fullscreen-change event.
func FullscreenChange(on bool) Event {
	return Event{Kind: EventFullscreenChange, Fullscreen: on}
}
