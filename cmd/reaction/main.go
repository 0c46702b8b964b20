// reaction is a coin-operated reaction-time cabinet for the terminal.
//
// Usage:
//
//	reaction play            - Play on the local terminal
//	reaction serve           - Start SSH server for remote play
//	reaction config          - Print the effective configuration
//
// Global flags:
//
//	--config <path>    - Path to a config YAML
//	--preset <name>    - Timing preset: easy, normal, hard
//	--tick-rate <hz>   - Override the tick rate (default: 100)
//	--seed <value>     - Set RNG seed for reproducible cue delays
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-reaction/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagTickRate int
	flagSeed     int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reaction",
	Short: "Reaction Machine - test your reflexes in the terminal",
	Long: `Reaction Machine is a coin-operated reaction-time cabinet.

Insert a coin, wait for the timer to start, then hit GO/STOP as fast as
you can. Three rounds are played and the average is shown at the end.
Pressing before the timer starts ends the game.

Available commands:
  play     - Play on the local terminal
  serve    - Start SSH server for remote play
  config   - Print the effective configuration

Examples:
  reaction play
  reaction play --preset hard
  reaction serve --ssh :2222
  reaction config --preset easy`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Timing preset: easy, normal, hard")
	rootCmd.PersistentFlags().IntVar(&flagTickRate, "tick-rate", 0, "Tick rate override (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the effective configuration from the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyPreset(&cfg, config.Preset(flagPreset)); err != nil {
		return cfg, err
	}
	if flagTickRate > 0 {
		cfg.Timing.TickRate = flagTickRate
	}
	if err := cfg.Timing.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// logLevel parses the configured level, falling back to info.
func logLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
