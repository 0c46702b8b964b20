package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-reaction/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration the cabinet would run with, after the config
file, REACTION_* environment variables, --preset and --tick-rate are applied.

Examples:
  reaction config
  reaction config --preset hard > ~/.reaction/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
