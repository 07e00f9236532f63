package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is a set of colors for one terminal background.
type Palette struct {
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
	Buffered  lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
}

// Dark suits dark terminal backgrounds.
var Dark = Palette{
	Primary:   lipgloss.Color("#7C3AED"), // Purple
	Accent:    lipgloss.Color("#10B981"), // Green
	Warning:   lipgloss.Color("#F59E0B"), // Amber
	Error:     lipgloss.Color("#EF4444"), // Red
	Border:    lipgloss.Color("#4B5563"),
	Buffered:  lipgloss.Color("#9CA3AF"),
	Text:      lipgloss.Color("#F9FAFB"),
	TextMuted: lipgloss.Color("#9CA3AF"),
	TextDim:   lipgloss.Color("#6B7280"),
}

// Light suits light terminal backgrounds.
var Light = Palette{
	Primary:   lipgloss.Color("#6D28D9"),
	Accent:    lipgloss.Color("#047857"),
	Warning:   lipgloss.Color("#B45309"),
	Error:     lipgloss.Color("#B91C1C"),
	Border:    lipgloss.Color("#D1D5DB"),
	Buffered:  lipgloss.Color("#6B7280"),
	Text:      lipgloss.Color("#111827"),
	TextMuted: lipgloss.Color("#4B5563"),
	TextDim:   lipgloss.Color("#9CA3AF"),
}

var current = Dark

// Text styles
var (
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Label       lipgloss.Style
	Highlight   lipgloss.Style
	Muted       lipgloss.Style
	Dim         lipgloss.Style
	Playing     lipgloss.Style
	Paused      lipgloss.Style
	ErrorText   lipgloss.Style
	Flash       lipgloss.Style
	BorderStyle lipgloss.Style

	FocusedBorder lipgloss.Style
)

func init() {
	apply(Dark)
}

// Use selects the palette for theme: "dark", "light", or "auto" to follow
// the terminal background.
func Use(theme string) {
	switch theme {
	case "light":
		apply(Light)
	case "dark":
		apply(Dark)
	default:
		if lipgloss.HasDarkBackground() {
			apply(Dark)
		} else {
			apply(Light)
		}
	}
}

func apply(p Palette) {
	current = p

	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Text)
	Subtitle = lipgloss.NewStyle().Foreground(p.TextMuted)
	Label = lipgloss.NewStyle().Foreground(p.TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Muted = lipgloss.NewStyle().Foreground(p.TextMuted)
	Dim = lipgloss.NewStyle().Foreground(p.TextDim)
	Playing = lipgloss.NewStyle().Foreground(p.Accent)
	Paused = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorText = lipgloss.NewStyle().Foreground(p.Error)
	Flash = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary)
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar renders played, buffered-ahead and remaining segments.
// Fractions are in [0,1]; buffered below played is drawn as played.
func ProgressBar(played, buffered float64, width int) string {
	if width <= 0 {
		return ""
	}
	p := cells(played, width)
	b := cells(buffered, width)
	if b < p {
		b = p
	}

	playedStyle := lipgloss.NewStyle().Foreground(current.Primary)
	bufferedStyle := lipgloss.NewStyle().Foreground(current.Buffered)
	emptyStyle := lipgloss.NewStyle().Foreground(current.Border)

	return playedStyle.Render(strings.Repeat("━", p)) +
		bufferedStyle.Render(strings.Repeat("━", b-p)) +
		emptyStyle.Render(strings.Repeat("─", width-b))
}

func cells(f float64, width int) int {
	n := int(f * float64(width))
	if n > width {
		return width
	}
	if n < 0 {
		return 0
	}
	return n
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// VolumeIcon returns an icon for a volume level in [0,1].
func VolumeIcon(v float64) string {
	switch {
	case v == 0:
		return "🔇"
	case v < 0.34:
		return "🔈"
	case v < 0.67:
		return "🔉"
	default:
		return "🔊"
	}
}
