package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/tail"
)

// headlessPlayer is the part of the controller headless playback drives.
type headlessPlayer interface {
	tail.Source
	TogglePlay()
	Load(src core.Source)
}

func headlessFormatter() *tail.Formatter {
	return tail.NewFormatter(
		tail.WithEmoji(!playNoEmoji),
		tail.WithTimestamp(playTimestamp),
		tail.WithTemplate(playFormat),
	)
}

// runHeadless plays the playlist start to finish, printing one line per
// playback event. It returns when the last entry ends or ctx is done.
func runHeadless(ctx context.Context, p headlessPlayer, pl *core.Playlist, out io.Writer, formatter *tail.Formatter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := tail.NewWatcher(p)
	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	p.TogglePlay()

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			fmt.Fprintln(out, formatter.Format(event))

			if event.Type != tail.EventEnded {
				continue
			}
			if !pl.Select(pl.CurrentIndex + 1) {
				return nil
			}
			p.Load(*pl.Current())
			p.TogglePlay()

		case err := <-errCh:
			if err == context.Canceled {
				return nil
			}
			return err
		}
	}
}
