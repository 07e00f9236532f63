package tui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/gesture"
	"github.com/tessro/reel/internal/tui/components"
)

// Player panel content starts inside the border and one cell of padding.
const (
	contentX = 2
	contentY = 1
)

// geometry locates the player panel's regions in screen cells.
type geometry struct {
	leftWidth    int
	playerHeight int
}

func (m Model) geometry() geometry {
	return geometry{
		leftWidth:    m.width * 65 / 100,
		playerHeight: m.height - 1, // status bar
	}
}

func (g geometry) inner() int {
	return g.playerHeight - 2
}

func (g geometry) contentWidth() int {
	return g.leftWidth - 4
}

func (g geometry) inPlayer(x, y int) bool {
	return x >= 0 && x < g.leftWidth && y >= 0 && y < g.playerHeight
}

func (g geometry) videoTop() int {
	return contentY + components.VideoTop()
}

func (g geometry) inVideo(x, y int) bool {
	top := g.videoTop()
	return x >= contentX && x < contentX+g.contentWidth() &&
		y >= top && y < top+components.VideoRows(g.inner())
}

func (g geometry) seekRow() int {
	return contentY + components.ProgressRow(g.inner())
}

func (g geometry) seekBounds(s core.Session) gesture.Bounds {
	x, w := components.SeekBar(s, g.contentWidth())
	return gesture.Bounds{Left: float64(contentX + x), Width: float64(w)}
}

func (g geometry) onSeekBar(s core.Session, x, y int) bool {
	if y != g.seekRow() {
		return false
	}
	b := g.seekBounds(s)
	fx := float64(x)
	return fx >= b.Left && fx < b.Left+b.Width
}

func px(cells int) float64 {
	return float64(cells * cellPixels)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.width == 0 {
		return m, nil
	}

	g := m.geometry()
	inPlayer := g.inPlayer(msg.X, msg.Y)
	now := m.now()

	switch msg.Action {
	case tea.MouseActionMotion:
		m.trackHover(inPlayer)
		if m.seek.Dragging() {
			m.seek.Move(float64(msg.X))
			return m, nil
		}
		if m.drag.Active() {
			m.drag.Move(px(msg.X), now)
		}
		if inPlayer && m.session.Pointer.CanHover() {
			m.ctrl.Interact()
		}
		return m, nil

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inPlayer {
			return m, nil
		}
		if !m.session.Pointer.CanHover() {
			m.ctrl.Interact()
		}
		if m.session.ControlsVisible && g.onSeekBar(m.session, msg.X, msg.Y) {
			m.seek.Bounds = g.seekBounds(m.session)
			m.seek.Begin(float64(msg.X))
			return m, nil
		}
		if g.inVideo(msg.X, msg.Y) {
			m.drag.Start(px(msg.X), now)
			m.pressX = msg.X
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.seek.Dragging() {
			m.ctrl.SeekToFraction(m.seek.End())
			return m, nil
		}
		if !m.drag.Active() {
			return m, nil
		}
		offset, velocity := m.drag.End(px(msg.X), now)
		if int(math.Abs(float64(msg.X-m.pressX))) > tapSlop {
			m.swipe(offset, velocity)
			return m, nil
		}
		return m.tap(m.pressX-contentX, g.contentWidth(), now)
	}

	return m, nil
}

// trackHover turns pointer positions into enter and leave notifications.
func (m *Model) trackHover(inside bool) {
	switch {
	case inside && !m.hovering:
		m.hovering = true
		m.ctrl.PointerEnter()
	case !inside && m.hovering:
		m.hovering = false
		m.ctrl.PointerLeave()
	}
}

// swipe steps the playlist when a drag across the media area is long or
// fast enough.
func (m *Model) swipe(offset, velocity float64) {
	if m.carousel.Release(offset, velocity) == gesture.None {
		return
	}
	if m.playlist.Select(m.carousel.Index) {
		m.ctrl.Load(*m.playlist.Current())
	}
}

// tap fires a double tap immediately. A single tap is deferred until the
// double-tap window passes without a second one.
func (m Model) tap(x, width int, now time.Time) (tea.Model, tea.Cmd) {
	m.tapID++
	if m.tapPending && now.Sub(m.lastTapAt) <= doubleTapWindow {
		m.tapPending = false
		m.ctrl.DoubleTap(float64(x), float64(width))
		return m, nil
	}

	m.tapPending = true
	m.lastTapAt = now
	id := m.tapID
	return m, tea.Tick(doubleTapWindow, func(time.Time) tea.Msg {
		return tapMsg{id: id}
	})
}
