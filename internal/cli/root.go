package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessro/reel/internal/config"
	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/logging"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Play video from the terminal",
	Long:  `Reel is a terminal front-end for video playback, driving mpv or a simulated player.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.reelrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		if _, statErr := os.Stat(cfgFile); os.IsNotExist(statErr) {
			return fmt.Errorf("%s: %w", cfgFile, reelerrors.ErrConfigNotFound)
		}
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", reelerrors.ErrInvalidConfig, err)
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	return nil
}

// setupLogging configures logrus for a command. quiet discards log output
// when no log file is set, so the terminal UI keeps the screen.
func setupLogging(quiet bool) (io.Closer, error) {
	return logging.Setup(cfg.Log, quiet)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, reelerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
