package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tessro/reel/internal/config"
	reelerrors "github.com/tessro/reel/internal/errors"
)

const (
	versionProbeTimeout = 3 * time.Second
	maxDetailWidth      = 72
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that playback dependencies are available",
	Long: `Verify that the mpv binary can be found and report where configuration
is read from and whether stdout is a terminal.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkResult is one line of the check report.
type checkResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), versionProbeTimeout)
	defer cancel()

	mpvResult, mpvErr := checkMPV(ctx, cfg.MPV.Binary)
	results := []checkResult{
		mpvResult,
		checkConfigFile(),
		checkTerminal(),
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		if err := printJSON(out, results); err != nil {
			return err
		}
	} else {
		writeCheckTable(out, results)
	}
	return mpvErr
}

func writeCheckTable(out io.Writer, results []checkResult) {
	table := NewTableWriter(out, "", "CHECK", "DETAIL")
	for _, r := range results {
		table.Row(StatusIcon(r.OK), r.Name, TruncateString(r.Detail, maxDetailWidth))
	}
	table.Flush()
}

func checkMPV(ctx context.Context, binary string) (checkResult, error) {
	if binary == "" {
		binary = "mpv"
	}
	res := checkResult{Name: "mpv"}

	path, err := exec.LookPath(binary)
	if err != nil {
		res.Detail = fmt.Sprintf("%s not found in PATH", binary)
		return res, reelerrors.WithSuggestion(
			fmt.Errorf("%s: %w", binary, reelerrors.ErrMpvNotFound),
			installHint(),
		)
	}

	res.OK = true
	res.Detail = path
	if v := mpvVersion(ctx, path); v != "" {
		res.Detail = fmt.Sprintf("%s (%s)", v, path)
	}
	return res, nil
}

// mpvVersion returns the first line of `mpv --version`, or "" if it fails.
func mpvVersion(ctx context.Context, path string) string {
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return ""
	}
	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		return sc.Text()
	}
	return ""
}

func installHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install mpv with 'brew install mpv', or set mpv.binary in ~/.reelrc"
	case "windows":
		return "Install mpv with 'scoop install mpv', or set mpv.binary in ~/.reelrc"
	default:
		return "Install mpv with your package manager (e.g. 'sudo apt install mpv'), or set mpv.binary in ~/.reelrc"
	}
}

func checkConfigFile() checkResult {
	path := cfgFile
	if path == "" {
		path = config.FindPath()
	}
	if path == "" {
		return checkResult{Name: "config", OK: true, Detail: "defaults (no config file)"}
	}
	return checkResult{Name: "config", OK: true, Detail: path}
}

func checkTerminal() checkResult {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return checkResult{Name: "terminal", OK: true, Detail: "interactive"}
	}
	return checkResult{Name: "terminal", OK: false, Detail: "not a terminal, play falls back to --headless"}
}
