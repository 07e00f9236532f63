package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Gesture.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gesture: %w", err))
	}
	if err := c.MPV.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("mpv: %w", err))
	}
	if err := c.Sim.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sim: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	switch c.Backend {
	case "", "mpv", "sim":
		// valid
	default:
		return fmt.Errorf("invalid backend: %s (must be mpv or sim)", c.Backend)
	}
	switch c.Pointer {
	case "", "fine", "coarse":
		// valid
	default:
		return fmt.Errorf("invalid pointer: %s (must be fine or coarse)", c.Pointer)
	}
	if c.AutoHideMS < 0 || c.FlashMS < 0 {
		return errors.New("auto_hide_ms and flash_ms must be non-negative")
	}
	if c.SkipSeconds < 0 {
		return errors.New("skip_seconds must be non-negative")
	}
	if c.Volume < 0 || c.Volume > 1 {
		return errors.New("volume must be between 0 and 1")
	}
	return nil
}

// Validate checks GestureConfig for errors.
func (c *GestureConfig) Validate() error {
	if c.OffsetThreshold < 0 || c.VelocityThreshold < 0 {
		return errors.New("thresholds must be non-negative")
	}
	return nil
}

// Validate checks MPVConfig for errors.
func (c *MPVConfig) Validate() error {
	if c.StartTimeoutMS < 0 {
		return errors.New("start_timeout_ms must be non-negative")
	}
	return nil
}

// Validate checks SimConfig for errors.
func (c *SimConfig) Validate() error {
	if c.Duration < 0 {
		return errors.New("duration must be non-negative")
	}
	if c.BufferRate < 0 {
		return errors.New("buffer_rate must be non-negative")
	}
	if c.TickMS < 0 {
		return errors.New("tick_ms must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
