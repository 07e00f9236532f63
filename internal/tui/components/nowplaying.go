package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/tail"
	"github.com/tessro/reel/internal/tui/styles"
)

// Rows of the player panel content, counted from the first content line.
const (
	rowVideo     = 2
	chromeRows   = 5 // title, blank, blank, progress, controls
	minVideoRows = 3
	progressGap  = 1 // blank row between video and progress
	minBarCells  = 10
)

// PlayerView is everything the player panel draws.
type PlayerView struct {
	Session core.Session
	Spinner string  // buffering spinner frame
	Seeking bool    // a seek-bar drag is in progress
	Preview float64 // seek-bar handle position while seeking
}

// NowPlaying displays the media area and its control bar.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// VideoRows returns how many rows the media area gets in a panel of the
// given inner height.
func VideoRows(height int) int {
	return max(height-chromeRows, minVideoRows)
}

// VideoTop returns the content row where the media area starts.
func VideoTop() int {
	return rowVideo
}

// ProgressRow returns the content row of the seek bar.
func ProgressRow(height int) int {
	return rowVideo + VideoRows(height) + progressGap
}

// SeekBar returns the content column and width of the seek bar for a panel
// of the given content width.
func SeekBar(s core.Session, width int) (x, w int) {
	cur, total := timeLabels(s)
	x = lipgloss.Width(cur) + 1
	w = max(width-x-lipgloss.Width(total)-1, minBarCells)
	return x, w
}

// Render renders the player panel. width and height are the panel's inner size.
func (n *NowPlaying) Render(v PlayerView, width, height int, focused bool) string {
	content := width - 2 // padding
	title := styles.PanelTitle(panelTitle(v.Session), focused)

	video := n.renderVideo(v, content, VideoRows(height))

	progress, controls := "", ""
	if v.Session.ControlsVisible || v.Seeking {
		progress = n.renderProgress(v, content)
		controls = n.renderControls(v.Session, content)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		video,
		"",
		progress,
		controls,
	))
}

func panelTitle(s core.Session) string {
	if !s.HasSource() {
		return "Player"
	}
	return s.Source.Title
}

func (n *NowPlaying) renderVideo(v PlayerView, width, rows int) string {
	s := v.Session

	var center string
	switch {
	case !s.HasSource():
		center = styles.Muted.Render("No source loaded")
	case s.ShowBigPlayFlash:
		center = styles.Flash.Render(flashIcon(s.IsPlaying))
	case s.IsBuffering:
		center = v.Spinner + styles.Muted.Render(" buffering")
	case s.Ended:
		center = styles.Muted.Render("⟲ ended")
	case !s.IsPlaying:
		center = styles.Paused.Render("▶")
		if s.Source.Poster != "" {
			center += "\n" + styles.Dim.Render(truncate(s.Source.Poster, width))
		}
	}

	return lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, center)
}

func flashIcon(playing bool) string {
	if playing {
		return "▶"
	}
	return "⏸"
}

func timeLabels(s core.Session) (cur, total string) {
	return tail.FormatClock(s.CurrentTime), tail.FormatClock(s.Duration)
}

func (n *NowPlaying) renderProgress(v PlayerView, width int) string {
	s := v.Session
	cur, total := timeLabels(s)
	played := s.ProgressFraction()
	if v.Seeking {
		played = v.Preview
		cur = tail.FormatClock(v.Preview * s.Duration)
	}
	_, w := SeekBar(s, width)
	return fmt.Sprintf("%s %s %s", cur, styles.ProgressBar(played, s.BufferedFraction, w), total)
}

func (n *NowPlaying) renderControls(s core.Session, width int) string {
	left := styles.StatusIcon(s.IsPlaying)
	if s.IsBuffering {
		left += styles.Dim.Render(" ⏳")
	}

	vol := fmt.Sprintf("%s %d%%", styles.VolumeIcon(s.Volume), int(s.Volume*100+0.5))
	right := []string{styles.Muted.Render(vol)}
	if s.IsFullscreen {
		right = append(right, styles.Highlight.Render("⛶"))
	}
	rightText := strings.Join(right, " ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(rightText), 1)
	return left + strings.Repeat(" ", gap) + rightText
}
