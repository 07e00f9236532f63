// Package tui renders a playback session in the terminal and forwards key
// and mouse input to the media controller.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/gesture"
	"github.com/tessro/reel/internal/tail"
	"github.com/tessro/reel/internal/tui/components"
	"github.com/tessro/reel/internal/tui/styles"
)

const (
	volumeStep      = 0.05
	doubleTapWindow = 300 * time.Millisecond
	cellPixels      = 8 // rough width of a terminal cell, for swipe thresholds
	tapSlop         = 1 // cells a press may travel and still count as a tap
)

// Controller is the playback surface the UI drives.
type Controller interface {
	Snapshot() core.Session
	Subscribe(fn func(core.Session)) func()
	TogglePlay()
	SeekToFraction(f float64)
	Skip(delta float64)
	SetVolume(v float64)
	ToggleMute()
	ToggleFullscreen()
	Interact()
	PointerEnter()
	PointerLeave()
	Tap()
	DoubleTap(x, width float64)
	Load(src core.Source)
	SkipStep() float64
}

// Options configures the player UI.
type Options struct {
	Playlist   *core.Playlist
	Thresholds gesture.Thresholds
	Theme      string
}

// Model is the main TUI model
type Model struct {
	ctrl   Controller
	box    *mailbox
	width  int
	height int

	session  core.Session
	playlist *core.Playlist
	carousel *gesture.Carousel

	// Pointer state
	seek     *gesture.Slider
	drag     *gesture.Drag
	pressX   int
	hovering bool

	// Single taps wait out the double-tap window before they fire.
	tapID      int
	tapPending bool
	lastTapAt  time.Time

	// Components
	nowPlaying   *components.NowPlaying
	playlistView *components.Playlist
	activityView *components.Activity
	activity     <-chan tail.Event
	formatter    *tail.Formatter

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	showHelp bool
	now      func() time.Time
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(ctrl Controller, opts Options) Model {
	pl := opts.Playlist
	if pl == nil {
		pl = &core.Playlist{}
	}
	if opts.Thresholds == (gesture.Thresholds{}) {
		opts.Thresholds = gesture.DefaultThresholds
	}
	carousel := gesture.NewCarousel(pl.Len(), opts.Thresholds)
	carousel.Index = pl.CurrentIndex

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Highlight

	return Model{
		ctrl:         ctrl,
		box:          newMailbox(),
		session:      ctrl.Snapshot(),
		playlist:     pl,
		carousel:     carousel,
		seek:         gesture.NewSlider(gesture.Bounds{}),
		drag:         &gesture.Drag{},
		nowPlaying:   components.NewNowPlaying(),
		playlistView: components.NewPlaylist(),
		activityView: components.NewActivity(),
		formatter:    tail.NewFormatter(tail.WithEmoji(true)),
		keys:         newKeyMap(),
		help:         help.New(),
		spinner:      sp,
		now:          time.Now,
	}
}

// Messages
type sessionMsg core.Session
type activityMsg tail.Event
type tapMsg struct{ id int }

// Commands
func (m Model) waitForSession() tea.Cmd {
	box := m.box
	return func() tea.Msg {
		s, ok := box.take()
		if !ok {
			return nil
		}
		return sessionMsg(s)
	}
}

func (m Model) waitForActivity() tea.Cmd {
	ch := m.activity
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return activityMsg(e)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForSession(),
		m.waitForActivity(),
		m.spinner.Tick,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case sessionMsg:
		s := core.Session(msg)
		if s.Seq >= m.session.Seq {
			ended := !m.session.Ended && s.Ended && s.ID == m.session.ID
			m.session = s
			if ended && m.step(1) {
				m.ctrl.TogglePlay()
			}
		}
		return m, m.waitForSession()

	case activityMsg:
		e := tail.Event(msg)
		m.activityView.Add(components.ActivityEntry{
			Line: m.formatter.Format(e),
			At:   e.Timestamp,
		})
		return m, m.waitForActivity()

	case tapMsg:
		if msg.id == m.tapID && m.tapPending {
			m.tapPending = false
			m.ctrl.Tap()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.help):
		m.showHelp = true
	case key.Matches(msg, m.keys.playPause):
		m.ctrl.TogglePlay()
	case key.Matches(msg, m.keys.back):
		m.ctrl.Skip(-m.ctrl.SkipStep())
	case key.Matches(msg, m.keys.forward):
		m.ctrl.Skip(m.ctrl.SkipStep())
	case key.Matches(msg, m.keys.volumeUp):
		m.ctrl.SetVolume(m.ctrl.Snapshot().Volume + volumeStep)
	case key.Matches(msg, m.keys.volumeDown):
		m.ctrl.SetVolume(m.ctrl.Snapshot().Volume - volumeStep)
	case key.Matches(msg, m.keys.mute):
		m.ctrl.ToggleMute()
	case key.Matches(msg, m.keys.fullscreen):
		m.ctrl.ToggleFullscreen()
	case key.Matches(msg, m.keys.next):
		m.step(1)
	case key.Matches(msg, m.keys.prev):
		m.step(-1)
	case key.Matches(msg, m.keys.seekTo):
		m.ctrl.SeekToFraction(float64(msg.Runes[0]-'0') / 10)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.box.close()
	return m, tea.Quit
}

// step moves delta entries through the playlist and loads the result. It
// reports false at either end of the playlist.
func (m *Model) step(delta int) bool {
	i := m.carousel.Index + delta
	if !m.playlist.Select(i) {
		return false
	}
	m.carousel.Index = i
	m.ctrl.Load(*m.playlist.Current())
	return true
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Main layout: two columns
	// Left: Player
	// Right: Playlist (top), Activity (bottom)
	g := m.geometry()
	rightWidth := m.width - g.leftWidth
	topHeight := g.playerHeight / 2
	bottomHeight := g.playerHeight - topHeight

	view := components.PlayerView{
		Session: m.session,
		Spinner: m.spinner.View(),
		Seeking: m.seek.Dragging(),
		Preview: m.seek.Position(),
	}
	player := m.nowPlaying.Render(view, g.leftWidth-2, g.playerHeight-2, m.hovering)
	playlist := m.playlistView.Render(m.playlist, rightWidth-2, topHeight-2, false)
	activity := m.activityView.Render(rightWidth-2, bottomHeight-2, false)

	rightCol := lipgloss.JoinVertical(lipgloss.Left, playlist, activity)
	main := lipgloss.JoinHorizontal(lipgloss.Top, player, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(m.help.View(m.keys))
}

func (m Model) renderHelp() string {
	title := styles.Title.Render("reel - Keyboard & Mouse")

	mouse := styles.Dim.Render(`click         play/pause
double-click  fullscreen (touch: skip ±` + tail.FormatClock(m.ctrl.SkipStep()) + `)
drag bar      seek
swipe video   next/previous source`)

	full := m.help.FullHelpView(m.keys.FullHelp())
	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		full,
		"",
		mouse,
		"",
		styles.Dim.Render("Press ? or Esc to close"),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(content))
}

// Run starts the TUI application and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl Controller, opts Options) error {
	styles.Use(opts.Theme)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctrl, opts)

	watcher := tail.NewWatcher(ctrl)
	model.activity = watcher.Events()
	go func() { _ = watcher.Start(ctx) }()

	unsubscribe := ctrl.Subscribe(model.box.put)
	defer unsubscribe()
	defer model.box.close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
