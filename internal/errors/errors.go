package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNoSource              = errors.New("no source given")
	ErrMpvNotFound           = errors.New("mpv not found")
	ErrIPCClosed             = errors.New("mpv ipc connection closed")
	ErrIPCTimeout            = errors.New("mpv ipc timeout")
	ErrFullscreenUnsupported = errors.New("fullscreen not supported")
	ErrNotTerminal           = errors.New("stdout is not a terminal")
	ErrConfigNotFound        = errors.New("config file not found")
	ErrInvalidConfig         = errors.New("invalid configuration")
)

// ReelError wraps an error with a user-friendly suggestion.
type ReelError struct {
	Err        error
	Suggestion string
}

func (e *ReelError) Error() string {
	return e.Err.Error()
}

func (e *ReelError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &ReelError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a ReelError with suggestion
	var reelErr *ReelError
	if errors.As(err, &reelErr) && reelErr.Suggestion != "" {
		return reelErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrNoSource) {
		return "Pass a file path or URL: reel play <source>"
	}

	// mpv errors
	if errors.Is(err, ErrMpvNotFound) || strings.Contains(errStr, "executable file not found") {
		return "Install mpv or set mpv.binary in ~/.reelrc. Run 'reel check' to verify"
	}
	if errors.Is(err, ErrIPCClosed) || errors.Is(err, ErrIPCTimeout) ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "broken pipe") {
		return "mpv stopped responding. Try again, or use --backend sim to test without mpv"
	}

	if errors.Is(err, ErrNotTerminal) {
		return "Run in a terminal, or pass --headless to print playback events"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'reel config init' to create a default configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
