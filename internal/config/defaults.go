package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			Backend:     "mpv",
			AutoHideMS:  3000,
			FlashMS:     600,
			SkipSeconds: 10,
			Pointer:     "fine",
			Volume:      1,
		},
		Gesture: GestureConfig{
			OffsetThreshold:   50,
			VelocityThreshold: 500,
		},
		MPV: MPVConfig{
			Binary:         "mpv",
			StartTimeoutMS: 5000,
		},
		Sim: SimConfig{
			Duration:   120,
			BufferRate: 4,
			TickMS:     250,
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values that must be positive.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Player
	if c.Player.Backend == "" {
		c.Player.Backend = d.Player.Backend
	}
	if c.Player.AutoHideMS == 0 {
		c.Player.AutoHideMS = d.Player.AutoHideMS
	}
	if c.Player.FlashMS == 0 {
		c.Player.FlashMS = d.Player.FlashMS
	}
	if c.Player.SkipSeconds == 0 {
		c.Player.SkipSeconds = d.Player.SkipSeconds
	}
	if c.Player.Pointer == "" {
		c.Player.Pointer = d.Player.Pointer
	}

	// Gesture
	if c.Gesture.OffsetThreshold == 0 {
		c.Gesture.OffsetThreshold = d.Gesture.OffsetThreshold
	}
	if c.Gesture.VelocityThreshold == 0 {
		c.Gesture.VelocityThreshold = d.Gesture.VelocityThreshold
	}

	// MPV
	if c.MPV.Binary == "" {
		c.MPV.Binary = d.MPV.Binary
	}
	if c.MPV.StartTimeoutMS == 0 {
		c.MPV.StartTimeoutMS = d.MPV.StartTimeoutMS
	}

	// Sim
	if c.Sim.Duration == 0 {
		c.Sim.Duration = d.Sim.Duration
	}
	if c.Sim.BufferRate == 0 {
		c.Sim.BufferRate = d.Sim.BufferRate
	}
	if c.Sim.TickMS == 0 {
		c.Sim.TickMS = d.Sim.TickMS
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
