// Package config provides YAML-based cabinet configuration loading,
// environment overrides and timing presets.
package config

import (
	"errors"
	"fmt"
)

// Config contains all configuration for the reaction cabinet.
type Config struct {
	Timing TimingConfig `yaml:"timing"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// TimingConfig defines the tick driver rate and every state threshold, in ticks.
type TimingConfig struct {
	TickRate       int `yaml:"tick_rate"       env:"REACTION_TICK_RATE"`
	ReadyTimeout   int `yaml:"ready_timeout"   env:"REACTION_READY_TIMEOUT"`
	RunningTimeout int `yaml:"running_timeout" env:"REACTION_RUNNING_TIMEOUT"`
	ResultHold     int `yaml:"result_hold"     env:"REACTION_RESULT_HOLD"`
	AverageHold    int `yaml:"average_hold"    env:"REACTION_AVERAGE_HOLD"`
	DelayMin       int `yaml:"delay_min"       env:"REACTION_DELAY_MIN"`
	DelayMax       int `yaml:"delay_max"       env:"REACTION_DELAY_MAX"`
}

// ServerConfig defines the SSH cabinet server.
type ServerConfig struct {
	Address            string `yaml:"address"              env:"REACTION_SSH_ADDR"`
	HostKeyPath        string `yaml:"host_key"             env:"REACTION_HOST_KEY"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes" env:"REACTION_IDLE_TIMEOUT"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level" env:"REACTION_LOG_LEVEL"` // debug, info, warn, error
}

// Preset represents a named timing preset.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// ErrInvalidTiming is wrapped by every timing validation failure.
var ErrInvalidTiming = errors.New("invalid timing")

// Validate checks that the timing can drive a playable game.
// The cue only fires when the tick count equals the delay exactly,
// so a delay below one tick would never fire.
func (t TimingConfig) Validate() error {
	if t.TickRate < 1 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidTiming, t.TickRate)
	}
	thresholds := []struct {
		name  string
		value int
	}{
		{"ready_timeout", t.ReadyTimeout},
		{"running_timeout", t.RunningTimeout},
		{"result_hold", t.ResultHold},
		{"average_hold", t.AverageHold},
	}
	for _, th := range thresholds {
		if th.value < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidTiming, th.name, th.value)
		}
	}
	if t.DelayMin < 1 {
		return fmt.Errorf("%w: delay_min must be at least 1, got %d", ErrInvalidTiming, t.DelayMin)
	}
	if t.DelayMax < t.DelayMin {
		return fmt.Errorf("%w: delay_max %d is below delay_min %d", ErrInvalidTiming, t.DelayMax, t.DelayMin)
	}
	return nil
}

// ApplyPreset modifies the timing windows for a preset.
// Normal leaves the configured values untouched.
func ApplyPreset(cfg *Config, preset Preset) error {
	switch preset {
	case "", PresetNormal:
		return nil
	case PresetEasy:
		// Longer windows: more time to react and read results.
		cfg.Timing.RunningTimeout = 300
		cfg.Timing.ResultHold = 400
		cfg.Timing.DelayMin = 150
		cfg.Timing.DelayMax = 250
	case PresetHard:
		// Wider, less predictable cue and a tighter timeout.
		cfg.Timing.RunningTimeout = 100
		cfg.Timing.ResultHold = 200
		cfg.Timing.DelayMin = 50
		cfg.Timing.DelayMax = 400
	default:
		return fmt.Errorf("config: unknown preset %q (want easy, normal or hard)", preset)
	}
	return nil
}
