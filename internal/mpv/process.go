package mpv

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	reelerrors "github.com/tessro/reel/internal/errors"
)

const socketPollInterval = 50 * time.Millisecond

type process struct {
	cmd    *exec.Cmd
	socket string
	exited chan struct{}
}

// socketPath returns the configured socket or a fresh one in the temp dir.
func socketPath(configured string) string {
	if configured != "" {
		return configured
	}
	return filepath.Join(os.TempDir(), "reel-"+uuid.NewString()[:8]+".sock")
}

// buildArgs returns the mpv command line. mpv starts idle and paused; sources
// arrive later through loadfile.
func buildArgs(socket string, window bool, extra []string) []string {
	args := []string{
		"--idle=yes",
		"--pause=yes",
		"--no-terminal",
		"--really-quiet",
		"--keep-open=no",
		"--input-ipc-server=" + socket,
	}
	if window {
		args = append(args, "--force-window=yes")
	}
	return append(args, extra...)
}

func launch(ctx context.Context, opts Options) (*process, error) {
	bin, err := exec.LookPath(opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reelerrors.ErrMpvNotFound, opts.Binary)
	}

	p := &process{
		socket: socketPath(opts.Socket),
		exited: make(chan struct{}),
	}
	_ = os.Remove(p.socket)

	p.cmd = exec.Command(bin, buildArgs(p.socket, opts.Window, opts.Args)...)
	p.cmd.SysProcAttr = sysProcAttr()
	if err := p.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}
	go func() {
		_ = p.cmd.Wait()
		close(p.exited)
	}()

	if err := p.waitForSocket(ctx); err != nil {
		p.kill()
		return nil, err
	}
	return p, nil
}

// waitForSocket polls until mpv accepts connections on its IPC socket.
func (p *process) waitForSocket(ctx context.Context) error {
	ticker := time.NewTicker(socketPollInterval)
	defer ticker.Stop()

	for {
		conn, err := net.Dial("unix", p.socket)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		select {
		case <-p.exited:
			return fmt.Errorf("mpv exited before socket %s was ready", p.socket)
		case <-ctx.Done():
			return fmt.Errorf("socket %s not ready: %w", p.socket, reelerrors.ErrIPCTimeout)
		case <-ticker.C:
		}
	}
}

// stop waits up to grace for mpv to exit, then kills it and removes the socket.
func (p *process) stop(grace time.Duration) {
	select {
	case <-p.exited:
	case <-time.After(grace):
		p.kill()
		<-p.exited
	}
	_ = os.Remove(p.socket)
}

func (p *process) kill() {
	select {
	case <-p.exited:
	default:
		_ = killProcess(p.cmd)
	}
}

// validateTarget rejects sources mpv would misread as flags or that use a
// scheme reel does not hand to mpv.
func validateTarget(uri string) (string, error) {
	s := strings.TrimSpace(uri)
	if s == "" {
		return "", reelerrors.ErrNoSource
	}
	if strings.ContainsAny(s, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in %q", s)
	}
	if strings.HasPrefix(s, "-") {
		return "", fmt.Errorf("source %q looks like a flag", s)
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("invalid url: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file", "rtsp", "rtmp":
			return s, nil
		default:
			return "", fmt.Errorf("unsupported url scheme: %s", u.Scheme)
		}
	}
	return filepath.Clean(s), nil
}
