package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/tessro/reel/internal/config"
	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/wizard"
)

var configInitInteractive bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing reel configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration values, including defaults and REEL_* overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file with default values.

With --interactive, prompts for the most common settings first.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
` + settableKeysHelp() + `
Examples:
  reel config set player.backend sim
  reel config set player.volume 0.5
  reel config set tui.theme dark`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitInteractive, "interactive", "i", false, "prompt for settings")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
)

// settableKeys lists the keys `config set` accepts and how their values parse.
var settableKeys = map[string]valueKind{
	"player.backend":             kindString,
	"player.auto_hide_ms":        kindInt,
	"player.flash_ms":            kindInt,
	"player.skip_seconds":        kindFloat,
	"player.pointer":             kindString,
	"player.volume":              kindFloat,
	"gesture.offset_threshold":   kindFloat,
	"gesture.velocity_threshold": kindFloat,
	"mpv.binary":                 kindString,
	"mpv.socket":                 kindString,
	"mpv.start_timeout_ms":       kindInt,
	"sim.duration":               kindFloat,
	"sim.buffer_rate":            kindFloat,
	"sim.tick_ms":                kindInt,
	"tui.theme":                  kindString,
	"log.level":                  kindString,
	"log.file":                   kindString,
	"log.json":                   kindBool,
}

func settableKeysHelp() string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s\n", k)
	}
	return b.String()
}

// parseValue converts a command-line value to the type stored under key.
func parseValue(key, value string) (any, error) {
	kind, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q (run 'reel config set --help' for the list)", key)
	}
	switch kind {
	case kindInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return i, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be a number for %s", key)
		}
		return f, nil
	case kindBool:
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return nil, fmt.Errorf("value must be true or false for %s", key)
	default:
		return value, nil
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if JSONOutput() {
		return printJSON(out, cfg)
	}

	encoder := toml.NewEncoder(out)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return printJSON(out, map[string]any{
			"path":   path,
			"exists": exists,
		})
	}
	if exists {
		fmt.Fprintln(out, path)
	} else {
		fmt.Fprintf(out, "%s (not created yet)\n", path)
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", configPath, reelerrors.ErrConfigNotFound)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	newCfg := config.Default()
	if configInitInteractive {
		if !wizard.IsTerminal() {
			return reelerrors.ErrNotTerminal
		}
		if err := promptConfig(newCfg); err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
	}

	if err := writeConfigFile(configPath, newCfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return printJSON(out, map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}
	fmt.Fprintf(out, "Created config file: %s\n", configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Run 'reel check' to make sure mpv is installed")
	fmt.Fprintln(out, "  2. Run 'reel play <file>' to start watching")
	return nil
}

// promptConfig asks for the settings most people change.
func promptConfig(c *config.Config) error {
	volume := strconv.FormatFloat(c.Player.Volume, 'f', -1, 64)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Playback backend").
				Description("mpv plays real files; sim plays a virtual clip for testing").
				Options(
					huh.NewOption("mpv", "mpv"),
					huh.NewOption("sim", "sim"),
				).
				Value(&c.Player.Backend),
			huh.NewSelect[string]().
				Title("Pointer").
				Description("coarse behaves like a touch screen: double taps skip instead of going fullscreen").
				Options(
					huh.NewOption("fine (mouse)", "fine"),
					huh.NewOption("coarse (touch)", "coarse"),
				).
				Value(&c.Player.Pointer),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("auto", "auto"),
					huh.NewOption("dark", "dark"),
					huh.NewOption("light", "light"),
				).
				Value(&c.TUI.Theme),
			huh.NewInput().
				Title("Initial volume").
				Description("0 to 1").
				Value(&volume).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(s, 64)
					if err != nil || v < 0 || v > 1 {
						return fmt.Errorf("enter a number between 0 and 1")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(volume, 64)
	if err != nil {
		return err
	}
	c.Player.Volume = v
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := config.FindPath(); p != "" {
		return p
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", configPath, reelerrors.ErrConfigNotFound)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	updated, err := setConfigValue(data, key, value)
	if err != nil {
		return err
	}

	if err := writeConfigFile(configPath, updated); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return printJSON(out, map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}

// setConfigValue applies key=value to the raw TOML in data and returns the
// updated document. The result must still validate.
func setConfigValue(data []byte, key, value string) (map[string]any, error) {
	typed, err := parseValue(key, value)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	check := config.Default()
	if _, err := toml.Decode(buf.String(), check); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", reelerrors.ErrInvalidConfig, err)
	}
	return raw, nil
}

func writeConfigFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := encodeConfig(f, v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func encodeConfig(w io.Writer, v any) error {
	_, _ = fmt.Fprintln(w, "# Reel Configuration")
	_, _ = fmt.Fprintln(w, "")

	encoder := toml.NewEncoder(w)
	encoder.Indent = "  "
	return encoder.Encode(v)
}
