package mpv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tessro/reel/internal/config"
	"github.com/tessro/reel/internal/core"
)

const quitGrace = 3 * time.Second

// Options configures how mpv is started.
type Options struct {
	Binary       string
	Socket       string
	Args         []string
	StartTimeout time.Duration
	Window       bool // open a video window even before a file loads
	Log          logrus.FieldLogger
}

// OptionsFromConfig builds Options from the [mpv] config section.
func OptionsFromConfig(cfg config.MPVConfig, log logrus.FieldLogger) Options {
	return Options{
		Binary:       cfg.Binary,
		Socket:       cfg.Socket,
		Args:         cfg.Args,
		StartTimeout: cfg.StartTimeout(),
		Window:       true,
		Log:          log,
	}
}

// Media is a core.Media backed by an mpv process.
type Media struct {
	conn   *conn
	proc   *process // nil when attached to an mpv reel did not start
	log    logrus.FieldLogger
	events chan core.Event
	done   chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// Start launches mpv and connects to its IPC socket.
func Start(ctx context.Context, opts Options) (*Media, error) {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.StartTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.StartTimeout)
		defer cancel()
	}

	proc, err := launch(ctx, opts)
	if err != nil {
		return nil, err
	}
	m, err := attach(ctx, proc.socket, opts.Log)
	if err != nil {
		proc.stop(0)
		return nil, err
	}
	m.proc = proc
	m.log.WithField("socket", proc.socket).Info("mpv started")
	return m, nil
}

// Attach connects to an mpv already listening on socket.
func Attach(ctx context.Context, socket string, log logrus.FieldLogger) (*Media, error) {
	return attach(ctx, socket, log)
}

func attach(ctx context.Context, socket string, log logrus.FieldLogger) (*Media, error) {
	if log == nil {
		log = logrus.StandardLogger().WithField("component", "mpv")
	}
	c, err := dial(ctx, socket, log)
	if err != nil {
		return nil, err
	}

	for _, p := range observed {
		if _, err := c.command(ctx, "observe_property", p.id, p.name); err != nil {
			_ = c.close()
			return nil, fmt.Errorf("observe %s: %w", p.name, err)
		}
	}

	m := &Media{
		conn:   c,
		log:    log,
		events: make(chan core.Event, 64),
		done:   make(chan struct{}),
	}
	m.wg.Add(1)
	go m.pump()
	return m, nil
}

// pump translates IPC events until the connection closes.
func (m *Media) pump() {
	defer m.wg.Done()
	defer close(m.events)

	var tr translator
	for msg := range m.conn.events {
		for _, ev := range tr.translate(msg) {
			select {
			case m.events <- ev:
			case <-m.done:
				return
			}
		}
	}
}

// Events implements core.Media.
func (m *Media) Events() <-chan core.Event {
	return m.events
}

// Load implements core.Media. mpv is paused before the file is replaced so
// the new source starts paused.
func (m *Media) Load(ctx context.Context, src core.Source) error {
	target, err := validateTarget(src.URI)
	if err != nil {
		return err
	}
	if err := m.set(ctx, "pause", true); err != nil {
		return err
	}
	if src.Title != "" {
		if err := m.set(ctx, "force-media-title", src.Title); err != nil {
			m.log.WithError(err).Debug("could not set media title")
		}
	}
	_, err = m.conn.command(ctx, "loadfile", target, "replace")
	return err
}

// Play implements core.Media.
func (m *Media) Play(ctx context.Context) error {
	return m.set(ctx, "pause", false)
}

// Pause implements core.Media.
func (m *Media) Pause(ctx context.Context) error {
	return m.set(ctx, "pause", true)
}

// Seek implements core.Media.
func (m *Media) Seek(ctx context.Context, seconds float64) error {
	_, err := m.conn.command(ctx, "seek", seconds, "absolute")
	return err
}

// SetVolume implements core.Media. mpv volume runs from 0 to 100.
func (m *Media) SetVolume(ctx context.Context, level float64) error {
	return m.set(ctx, "volume", level*100)
}

// RequestFullscreen implements core.Media.
func (m *Media) RequestFullscreen(ctx context.Context) error {
	return m.set(ctx, "fullscreen", true)
}

// ExitFullscreen implements core.Media.
func (m *Media) ExitFullscreen(ctx context.Context) error {
	return m.set(ctx, "fullscreen", false)
}

func (m *Media) set(ctx context.Context, property string, value any) error {
	_, err := m.conn.command(ctx, "set_property", property, value)
	return err
}

// Close quits mpv if reel started it, then tears down the connection.
func (m *Media) Close() error {
	m.closeOnce.Do(func() {
		if m.proc != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			if _, err := m.conn.command(ctx, "quit"); err != nil {
				m.log.WithError(err).Debug("quit command failed")
			}
			cancel()
		}
		close(m.done)
		_ = m.conn.close()
		m.wg.Wait()
		if m.proc != nil {
			m.proc.stop(quitGrace)
		}
	})
	return nil
}
