package config

import (
	_ "embed"
)

//go:embed defaults/reaction.yaml
var defaultReactionYAML []byte

// DefaultConfig returns the default cabinet configuration.
func DefaultConfig() Config {
	return Config{
		Timing: TimingConfig{
			TickRate:       100,
			ReadyTimeout:   1000,
			RunningTimeout: 200,
			ResultHold:     300,
			AverageHold:    500,
			DelayMin:       100,
			DelayMax:       250,
		},
		Server: ServerConfig{
			Address:            ":23235",
			IdleTimeoutMinutes: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultReactionYAML
}
