package wizard

import (
	"os"

	"github.com/tessro/reel/internal/core"
	"golang.org/x/term"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
	dir     string
}

// NewInteractive creates a new interactive handler that browses dir.
func NewInteractive(dir string) *Interactive {
	if dir == "" {
		dir = "."
	}
	return &Interactive{
		enabled: true,
		dir:     dir,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptSources launches the source picker over the configured directory.
// Returns nil if cancelled or not interactive.
func (i *Interactive) PromptSources() ([]core.Source, error) {
	if !i.CanInteract() {
		return nil, nil
	}
	sources, err := FindMedia(i.dir)
	if err != nil {
		return nil, err
	}
	return RunPicker(sources)
}

// NeedsSource returns true if a source argument is required but missing.
func NeedsSource(args []string) bool {
	return len(args) == 0
}
