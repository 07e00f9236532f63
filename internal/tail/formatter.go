package tail

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	// Timestamp
	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	// Emoji
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}

	// Event description
	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if e.Current != nil {
		data.Title = e.Current.Source.Title
		data.URI = e.Current.Source.URI
		data.Position = FormatClock(e.Current.CurrentTime)
		data.Duration = FormatClock(e.Current.Duration)
		data.Volume = volumePercent(e.Current.Volume)
		data.Fullscreen = e.Current.IsFullscreen
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type       string
	Emoji      string
	Timestamp  time.Time
	Time       string
	Title      string
	URI        string
	Position   string
	Duration   string
	Volume     int
	Fullscreen bool
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventSourceChange:
		if e.Current != nil && e.Current.HasSource() {
			return fmt.Sprintf("Loaded: %s", e.Current.Source.Title)
		}
		return "Source changed"

	case EventSourceComplete:
		if e.Previous != nil && e.Previous.HasSource() {
			return fmt.Sprintf("Finished: %s", e.Previous.Source.Title)
		}
		return "Source completed"

	case EventSourceSkip:
		if e.Previous != nil && e.Previous.HasSource() {
			return fmt.Sprintf("Skipped: %s at %s",
				e.Previous.Source.Title,
				FormatClock(e.Previous.CurrentTime))
		}
		return "Source skipped"

	case EventPlay:
		if e.Current != nil {
			return fmt.Sprintf("Playing at %s", FormatClock(e.Current.CurrentTime))
		}
		return "Playing"

	case EventPause:
		if e.Current != nil {
			return fmt.Sprintf("Paused at %s", FormatClock(e.Current.CurrentTime))
		}
		return "Paused"

	case EventEnded:
		return "Ended"

	case EventSeek:
		if e.Previous != nil && e.Current != nil {
			return fmt.Sprintf("Seek: %s -> %s",
				FormatClock(e.Previous.CurrentTime),
				FormatClock(e.Current.CurrentTime))
		}
		return "Seek"

	case EventBufferingStart:
		return "Buffering"

	case EventBufferingEnd:
		return "Buffered"

	case EventVolumeChange:
		if e.Current != nil {
			if e.Current.Muted() {
				return "Muted"
			}
			return fmt.Sprintf("Volume: %d%%", volumePercent(e.Current.Volume))
		}
		return "Volume changed"

	case EventFullscreenChange:
		if e.Current != nil && e.Current.IsFullscreen {
			return "Entered fullscreen"
		}
		return "Left fullscreen"

	case EventControlsShown:
		return "Controls shown"

	case EventControlsHidden:
		return "Controls hidden"

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventSourceChange:
		return "🎬"
	case EventSourceComplete:
		return "✅"
	case EventSourceSkip:
		return "⏭️"
	case EventPlay:
		return "▶️"
	case EventPause:
		return "⏸️"
	case EventEnded:
		return "⏹️"
	case EventSeek:
		return "⏩"
	case EventBufferingStart:
		return "⏳"
	case EventBufferingEnd:
		return "📶"
	case EventVolumeChange:
		return "🔊"
	case EventFullscreenChange:
		return "🖥️"
	case EventControlsShown, EventControlsHidden:
		return "🎛️"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventSourceChange:
		return "source_change"
	case EventSourceComplete:
		return "source_complete"
	case EventSourceSkip:
		return "source_skip"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	case EventSeek:
		return "seek"
	case EventBufferingStart:
		return "buffering_start"
	case EventBufferingEnd:
		return "buffering_end"
	case EventVolumeChange:
		return "volume_change"
	case EventFullscreenChange:
		return "fullscreen_change"
	case EventControlsShown:
		return "controls_shown"
	case EventControlsHidden:
		return "controls_hidden"
	default:
		return "unknown"
	}
}

// String returns the event type name.
func (t EventType) String() string {
	return eventTypeName(t)
}

// FormatClock renders seconds as m:ss, or h:mm:ss from an hour up.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func volumePercent(v float64) int {
	return int(v*100 + 0.5)
}
