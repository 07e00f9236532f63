package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/tui/styles"
)

// Playlist displays the list of sources with the current one highlighted.
type Playlist struct {
	offset int
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// ScrollDown scrolls the list down
func (q *Playlist) ScrollDown() {
	q.offset++
}

// ScrollUp scrolls the list up
func (q *Playlist) ScrollUp() {
	if q.offset > 0 {
		q.offset--
	}
}

// Render renders the playlist panel
func (q *Playlist) Render(pl *core.Playlist, width, height int, focused bool) string {
	title := styles.PanelTitle("Playlist", focused)

	var content string
	if pl.IsEmpty() {
		content = styles.Muted.Render("Playlist is empty")
	} else {
		content = q.renderPlaylist(pl, width-4, height-2)
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

func (q *Playlist) renderPlaylist(pl *core.Playlist, width, maxLines int) string {
	sources := pl.Sources

	// Keep the current entry in view
	visibleCount := max(maxLines-1, 1) // Leave room for "more" indicator
	if pl.CurrentIndex < q.offset {
		q.offset = pl.CurrentIndex
	}
	if pl.CurrentIndex >= q.offset+visibleCount {
		q.offset = pl.CurrentIndex - visibleCount + 1
	}
	if q.offset >= len(sources) {
		q.offset = 0
	}

	start := q.offset
	end := min(start+visibleCount, len(sources))

	lines := make([]string, 0, end-start+1)

	// Fixed overhead: "XX. " (4) + "▶ " or "  " (2)
	const overhead = 6

	for i := start; i < end; i++ {
		src := sources[i]
		num := fmt.Sprintf("%2d.", i+1)
		title := truncate(src.Title, width-overhead)

		var line string
		if i == pl.CurrentIndex {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s", num, title))
		} else {
			line = fmt.Sprintf("%s   %s", styles.Dim.Render(num), title)
		}
		lines = append(lines, line)
	}

	if end < len(sources) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(sources)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
