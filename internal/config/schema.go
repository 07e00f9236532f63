package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Player  PlayerConfig  `toml:"player" json:"player"`
	Gesture GestureConfig `toml:"gesture" json:"gesture"`
	MPV     MPVConfig     `toml:"mpv" json:"mpv"`
	Sim     SimConfig     `toml:"sim" json:"sim"`
	TUI     TUIConfig     `toml:"tui" json:"tui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// PlayerConfig holds media controller settings.
type PlayerConfig struct {
	Backend     string  `toml:"backend" json:"backend"`
	AutoHideMS  int     `toml:"auto_hide_ms" json:"auto_hide_ms"`
	FlashMS     int     `toml:"flash_ms" json:"flash_ms"`
	SkipSeconds float64 `toml:"skip_seconds" json:"skip_seconds"`
	Pointer     string  `toml:"pointer" json:"pointer"`
	Volume      float64 `toml:"volume" json:"volume"`
}

// AutoHide returns the controls auto-hide delay.
func (c PlayerConfig) AutoHide() time.Duration {
	return time.Duration(c.AutoHideMS) * time.Millisecond
}

// Flash returns how long the big play/pause icon is shown.
func (c PlayerConfig) Flash() time.Duration {
	return time.Duration(c.FlashMS) * time.Millisecond
}

// GestureConfig holds swipe thresholds for drag gestures, in terminal cells.
type GestureConfig struct {
	OffsetThreshold   float64 `toml:"offset_threshold" json:"offset_threshold"`
	VelocityThreshold float64 `toml:"velocity_threshold" json:"velocity_threshold"`
}

// MPVConfig holds settings for the mpv backend.
type MPVConfig struct {
	Binary         string   `toml:"binary" json:"binary"`
	Socket         string   `toml:"socket" json:"socket"`
	Args           []string `toml:"args" json:"args"`
	StartTimeoutMS int      `toml:"start_timeout_ms" json:"start_timeout_ms"`
}

// StartTimeout returns how long to wait for the IPC socket to appear.
func (c MPVConfig) StartTimeout() time.Duration {
	return time.Duration(c.StartTimeoutMS) * time.Millisecond
}

// SimConfig holds settings for the simulated backend.
type SimConfig struct {
	Duration   float64 `toml:"duration" json:"duration"`
	BufferRate float64 `toml:"buffer_rate" json:"buffer_rate"`
	TickMS     int     `toml:"tick_ms" json:"tick_ms"`
}

// Tick returns the simulated media's update interval.
func (c SimConfig) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `toml:"theme" json:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
	JSON  bool   `toml:"json" json:"json"`
}
