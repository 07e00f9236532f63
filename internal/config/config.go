package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.reelrc, $XDG_CONFIG_HOME/reel/config.toml, ~/.config/reel/config.toml
func Load() (*Config, error) {
	path := findConfigFile()
	if path == "" {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific file path. Keys the file
// leaves out keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath returns the path `config init` writes to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reelrc"
	}
	return filepath.Join(home, ".reelrc")
}

// FindPath returns the config file Load would read, or "" if none exists.
func FindPath() string {
	return findConfigFile()
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".reelrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "reel", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Player
	if v := os.Getenv("REEL_PLAYER_BACKEND"); v != "" {
		cfg.Player.Backend = v
	}
	if v := os.Getenv("REEL_PLAYER_POINTER"); v != "" {
		cfg.Player.Pointer = v
	}
	if v := os.Getenv("REEL_PLAYER_AUTO_HIDE_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.AutoHideMS = i
		}
	}
	if v := os.Getenv("REEL_PLAYER_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Player.Volume = f
		}
	}

	// MPV
	if v := os.Getenv("REEL_MPV_BINARY"); v != "" {
		cfg.MPV.Binary = v
	}
	if v := os.Getenv("REEL_MPV_SOCKET"); v != "" {
		cfg.MPV.Socket = v
	}

	// TUI
	if v := os.Getenv("REEL_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Log
	if v := os.Getenv("REEL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REEL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
