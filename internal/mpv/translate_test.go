package mpv

import (
	"encoding/json"
	"testing"

	"github.com/tessro/reel/internal/core"
)

func propertyChange(name, data string) message {
	m := message{Event: "property-change", Name: name}
	if data != "" {
		m.Data = json.RawMessage(data)
	}
	return m
}

func TestTranslateProperties(t *testing.T) {
	tests := []struct {
		name string
		msg  message
		want []core.EventKind
	}{
		{"pause true", propertyChange("pause", "true"), []core.EventKind{core.EventPaused}},
		{"pause false", propertyChange("pause", "false"), []core.EventKind{core.EventPlaying}},
		{"cache stall", propertyChange("paused-for-cache", "true"), []core.EventKind{core.EventStalled}},
		{"cache resume", propertyChange("paused-for-cache", "false"), []core.EventKind{core.EventResumed}},
		{"eof reached", propertyChange("eof-reached", "true"), []core.EventKind{core.EventEnded}},
		{"eof cleared", propertyChange("eof-reached", "false"), nil},
		{"fullscreen", propertyChange("fullscreen", "true"), []core.EventKind{core.EventFullscreenChange}},
		{"time-pos", propertyChange("time-pos", "12.5"), []core.EventKind{core.EventTimeUpdate}},
		{"time-pos unavailable", propertyChange("time-pos", ""), nil},
		{"time-pos null", propertyChange("time-pos", "null"), nil},
		{"unknown property", propertyChange("volume", "50"), nil},
		{"end-file eof", message{Event: "end-file", Reason: "eof"}, []core.EventKind{core.EventEnded}},
		{"end-file stop", message{Event: "end-file", Reason: "stop"}, nil},
		{"start-file", message{Event: "start-file"}, []core.EventKind{core.EventLoadStarted}},
		{"other event", message{Event: "idle"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr translator
			got := tr.translate(tt.msg)
			if len(got) != len(tt.want) {
				t.Fatalf("translate() = %d events, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Kind != tt.want[i] {
					t.Errorf("event[%d] = %v, want %v", i, got[i].Kind, tt.want[i])
				}
			}
		})
	}
}

func TestTranslateCarriesPositionAndDuration(t *testing.T) {
	var tr translator

	tr.translate(propertyChange("duration", "120"))
	evs := tr.translate(propertyChange("time-pos", "30"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	if evs[0].CurrentTime != 30 || evs[0].Duration != 120 {
		t.Errorf("time update = (%v, %v), want (30, 120)", evs[0].CurrentTime, evs[0].Duration)
	}

	evs = tr.translate(propertyChange("demuxer-cache-state", `{"seekable-ranges":[{"start":0,"end":45.5}],"cache-end":45.5}`))
	if len(evs) != 1 || evs[0].Kind != core.EventBufferedRanges {
		t.Fatalf("cache state = %v, want one buffered event", evs)
	}
	ev := evs[0]
	if len(ev.Ranges) != 1 || ev.Ranges[0].End != 45.5 {
		t.Errorf("Ranges = %v, want [{0 45.5}]", ev.Ranges)
	}
	if ev.CurrentTime != 30 || ev.Duration != 120 {
		t.Errorf("buffered update at (%v, %v), want (30, 120)", ev.CurrentTime, ev.Duration)
	}
}

func TestTranslateStartFileResets(t *testing.T) {
	var tr translator
	tr.translate(propertyChange("duration", "120"))
	tr.translate(propertyChange("time-pos", "30"))

	evs := tr.translate(message{Event: "start-file"})
	if len(evs) != 1 || evs[0].Kind != core.EventLoadStarted {
		t.Fatalf("start-file = %v, want one loadstart", evs)
	}
	evs = tr.translate(propertyChange("time-pos", "1"))
	if evs[0].Duration != 0 {
		t.Errorf("Duration after start-file = %v, want 0", evs[0].Duration)
	}
}

func TestTranslateDurationUnavailable(t *testing.T) {
	var tr translator
	tr.translate(propertyChange("duration", "120"))
	if evs := tr.translate(propertyChange("duration", "null")); evs != nil {
		t.Errorf("null duration produced %v", evs)
	}
	if tr.duration != 0 {
		t.Errorf("duration = %v, want 0", tr.duration)
	}
}
