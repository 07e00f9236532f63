package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/reel/internal/tui/styles"
)

// maxActivity bounds how many entries the activity log keeps.
const maxActivity = 50

// ActivityEntry is one formatted playback event.
type ActivityEntry struct {
	Line string
	At   time.Time
}

// Activity displays recent playback events, newest first.
type Activity struct {
	entries []ActivityEntry
	now     func() time.Time
}

// NewActivity creates a new Activity component
func NewActivity() *Activity {
	return &Activity{now: time.Now}
}

// Add records an entry at the front of the log.
func (h *Activity) Add(e ActivityEntry) {
	h.entries = append([]ActivityEntry{e}, h.entries...)
	if len(h.entries) > maxActivity {
		h.entries = h.entries[:maxActivity]
	}
}

// Entries returns the log, newest first.
func (h *Activity) Entries() []ActivityEntry {
	return h.entries
}

// Render renders the activity panel
func (h *Activity) Render(width, height int, focused bool) string {
	title := styles.PanelTitle("Activity", focused)

	var content string
	if len(h.entries) == 0 {
		content = styles.Muted.Render("Nothing yet")
	} else {
		content = h.renderEntries(width-4, height-2)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (h *Activity) renderEntries(width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for i, entry := range h.entries {
		if i >= maxLines {
			break
		}

		// Time ago (right-aligned)
		timeAgo := formatTimeAgo(h.now().Sub(entry.At), entry.At)
		timeWidth := len(timeAgo)

		text := truncate(entry.Line, width-timeWidth-1)
		padding := max(width-lipgloss.Width(text)-timeWidth, 1)

		line := fmt.Sprintf("%s%s%s",
			text,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(timeAgo))

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatTimeAgo(d time.Duration, t time.Time) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return t.Format("Jan 2")
}
