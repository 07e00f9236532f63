package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tessro/reel/internal/config"
	"github.com/tessro/reel/internal/core"
	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/gesture"
	"github.com/tessro/reel/internal/logging"
	"github.com/tessro/reel/internal/mpv"
	"github.com/tessro/reel/internal/player"
	"github.com/tessro/reel/internal/sim"
	"github.com/tessro/reel/internal/tui"
	"github.com/tessro/reel/internal/wizard"
)

var (
	playBackend     string
	playPoster      string
	playPointer     string
	playHeadless    bool
	playSimDuration float64
	playDir         string
	playNoEmoji     bool
	playTimestamp   bool
	playFormat      string
)

var playCmd = &cobra.Command{
	Use:   "play [sources...]",
	Short: "Play one or more videos",
	Long: `Play files or URLs in the terminal player. Several sources form a
playlist; swipe across the video or press n/p to move through it.

Without arguments, a picker lists the videos in the current directory.
When stdout is not a terminal, or with --headless, playback events are
printed as lines instead.

Examples:
  reel play movie.mkv
  reel play intro.mp4 talk.mp4 outro.mp4
  reel play --backend sim --sim-duration 30 demo.mp4
  reel play --headless https://example.com/clip.webm`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playBackend, "backend", "b", "", "playback backend: mpv or sim (default from config)")
	playCmd.Flags().StringVar(&playPoster, "poster", "", "poster image shown before playback starts")
	playCmd.Flags().StringVar(&playPointer, "pointer", "", "pointer class: fine or coarse (default from config)")
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "print playback events instead of starting the UI")
	playCmd.Flags().Float64Var(&playSimDuration, "sim-duration", 0, "clip length in seconds for the sim backend")
	playCmd.Flags().StringVarP(&playDir, "dir", "d", ".", "directory the picker lists when no source is given")
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji in headless output")
	playCmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps in headless output")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom headless line template")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	headless := playHeadless || !isatty.IsTerminal(os.Stdout.Fd())

	sources, err := resolveSources(args, playPoster, headless)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return nil
	}

	closer, err := setupLogging(!headless)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	pointer, err := core.ParsePointer(lo.Ternary(playPointer != "", playPointer, cfg.Player.Pointer))
	if err != nil {
		return err
	}

	// Handle Ctrl+C gracefully
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	backend := lo.Ternary(playBackend != "", playBackend, cfg.Player.Backend)
	media, err := openMedia(ctx, backend, cfg)
	if err != nil {
		return err
	}

	pl := &core.Playlist{Sources: sources}
	ctrl := player.New(media, *pl.Current(), playerOptions(cfg.Player, pointer)...)
	defer func() { _ = ctrl.Close() }()

	log := logging.For("cli")
	go func() {
		if err := ctrl.Run(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("media event pump stopped")
		}
	}()

	log.WithFields(logrus.Fields{
		"backend": backend,
		"sources": len(sources),
		"pointer": pointer,
	}).Info("starting playback")

	if headless {
		return runHeadless(ctx, ctrl, pl, cmd.OutOrStdout(), headlessFormatter())
	}
	return tui.Run(ctx, ctrl, tui.Options{
		Playlist: pl,
		Thresholds: gesture.Thresholds{
			Offset:   cfg.Gesture.OffsetThreshold,
			Velocity: cfg.Gesture.VelocityThreshold,
		},
		Theme: cfg.TUI.Theme,
	})
}

// resolveSources turns arguments into sources, falling back to the picker
// when none are given and a terminal is available. A cancelled picker
// yields no sources and no error.
func resolveSources(args []string, poster string, headless bool) ([]core.Source, error) {
	if !wizard.NeedsSource(args) {
		return lo.Map(args, func(arg string, _ int) core.Source {
			return core.NewSource(arg, poster)
		}), nil
	}

	interactive := wizard.NewInteractive(playDir)
	interactive.SetEnabled(!headless)
	if !interactive.CanInteract() {
		return nil, reelerrors.ErrNoSource
	}

	picked, err := interactive.PromptSources()
	if err != nil {
		return nil, fmt.Errorf("pick source: %w", err)
	}
	return lo.Map(picked, func(s core.Source, _ int) core.Source {
		s.Poster = poster
		return s
	}), nil
}

// openMedia creates the media element for backend.
func openMedia(ctx context.Context, backend string, c *config.Config) (core.Media, error) {
	switch backend {
	case "sim":
		duration := c.Sim.Duration
		if playSimDuration > 0 {
			duration = playSimDuration
		}
		return sim.New(sim.Options{
			Duration:   duration,
			BufferRate: c.Sim.BufferRate,
			Tick:       c.Sim.Tick(),
			Fullscreen: false,
		}), nil
	case "", "mpv":
		m, err := mpv.Start(ctx, mpv.OptionsFromConfig(c.MPV, logging.For("mpv")))
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (must be mpv or sim)", backend)
	}
}

// playerOptions maps the [player] section onto controller options.
func playerOptions(c config.PlayerConfig, pointer core.Pointer) []player.Option {
	opts := []player.Option{
		player.WithLogger(logging.For("player")),
		player.WithPointer(pointer),
		player.WithVolume(c.Volume),
	}
	if d := c.AutoHide(); d > 0 {
		opts = append(opts, player.WithAutoHide(d))
	}
	if d := c.Flash(); d > 0 {
		opts = append(opts, player.WithFlash(d))
	}
	if c.SkipSeconds > 0 {
		opts = append(opts, player.WithSkipStep(c.SkipSeconds))
	}
	return opts
}
