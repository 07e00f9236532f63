package mpv

import (
	"encoding/json"

	"github.com/tessro/reel/internal/core"
)

// Observed property IDs.
const (
	propTimePos = iota + 1
	propDuration
	propPause
	propPausedForCache
	propEOFReached
	propFullscreen
	propCacheState
)

var observed = []struct {
	id   int
	name string
}{
	{propTimePos, "time-pos"},
	{propDuration, "duration"},
	{propPause, "pause"},
	{propPausedForCache, "paused-for-cache"},
	{propEOFReached, "eof-reached"},
	{propFullscreen, "fullscreen"},
	{propCacheState, "demuxer-cache-state"},
}

type cacheState struct {
	SeekableRanges []core.BufferedRange `json:"seekable-ranges"`
}

// translator turns mpv events into media events. mpv reports position and
// duration separately, so the last known value of each is carried along.
type translator struct {
	pos      float64
	duration float64
}

func (t *translator) translate(m message) []core.Event {
	switch m.Event {
	case "start-file":
		t.pos, t.duration = 0, 0
		return []core.Event{{Kind: core.EventLoadStarted}}
	case "end-file":
		if m.Reason == "eof" {
			return []core.Event{{Kind: core.EventEnded}}
		}
		return nil
	case "property-change":
		return t.property(m.Name, m.Data)
	default:
		return nil
	}
}

func (t *translator) property(name string, data json.RawMessage) []core.Event {
	switch name {
	case "time-pos":
		v, ok := decode[float64](data)
		if !ok {
			return nil
		}
		t.pos = v
		return []core.Event{core.TimeUpdate(t.pos, t.duration)}

	case "duration":
		v, ok := decode[float64](data)
		if !ok {
			t.duration = 0
			return nil
		}
		t.duration = v
		return []core.Event{core.TimeUpdate(t.pos, t.duration)}

	case "pause":
		v, ok := decode[bool](data)
		if !ok {
			return nil
		}
		if v {
			return []core.Event{{Kind: core.EventPaused}}
		}
		return []core.Event{{Kind: core.EventPlaying}}

	case "paused-for-cache":
		v, ok := decode[bool](data)
		if !ok {
			return nil
		}
		if v {
			return []core.Event{{Kind: core.EventStalled}}
		}
		return []core.Event{{Kind: core.EventResumed}}

	case "eof-reached":
		if v, ok := decode[bool](data); ok && v {
			return []core.Event{{Kind: core.EventEnded}}
		}
		return nil

	case "fullscreen":
		v, ok := decode[bool](data)
		if !ok {
			return nil
		}
		return []core.Event{core.FullscreenChange(v)}

	case "demuxer-cache-state":
		v, ok := decode[cacheState](data)
		if !ok {
			return nil
		}
		return []core.Event{core.BufferedUpdate(v.SeekableRanges, t.pos, t.duration)}
	}
	return nil
}

// decode unmarshals a property value. A missing or null value (property
// unavailable) reports false.
func decode[T any](data json.RawMessage) (T, bool) {
	var v T
	if len(data) == 0 || string(data) == "null" {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}
