// Package config provides YAML-based bot configuration loading and
// strategy preset management.
package config

import (
	"time"

	"github.com/vovakirdan/bubblebot/internal/planner"
)

// BotConfig contains all configuration for the bot and its drivers.
type BotConfig struct {
	Planner planner.Config `yaml:"planner"`
	Runner  RunnerConfig   `yaml:"runner"`
	Sim     SimConfig      `yaml:"sim"`
	Remote  RemoteConfig   `yaml:"remote"`
	Detect  DetectConfig   `yaml:"detect"`
}

// RunnerConfig defines the observe-plan-act loop parameters.
type RunnerConfig struct {
	MaxRounds          int           `yaml:"max_rounds"`
	ShotCooldown       time.Duration `yaml:"shot_cooldown"`        // Minimum time between two shots
	SettleDelay        time.Duration `yaml:"settle_delay"`         // Wait after a shot for the board to settle
	RetryDelay         time.Duration `yaml:"retry_delay"`          // Wait after a failed observation
	IdleDelay          time.Duration `yaml:"idle_delay"`           // Wait after a round without a target
	AimDistance        int           `yaml:"aim_distance"`         // Look-ahead for aim points, in pixels
	MaxObserveFailures int           `yaml:"max_observe_failures"` // Consecutive failures tolerated
	MaxIdleRounds      int           `yaml:"max_idle_rounds"`      // Consecutive no-target rounds tolerated
	Debug              bool          `yaml:"debug"`
	DebugDir           string        `yaml:"debug_dir"`
}

// SimConfig defines the simulated game board.
type SimConfig struct {
	Seed          int64 `yaml:"seed"`
	Width         int   `yaml:"width"`
	Height        int   `yaml:"height"`
	Rows          int   `yaml:"rows"`
	Cols          int   `yaml:"cols"`
	Radius        int   `yaml:"radius"`
	MaxHits       int   `yaml:"max_hits"`
	ShooterOffset int   `yaml:"shooter_offset"` // Shooter distance above the floor
	DriftEvery    int   `yaml:"drift_every"`    // Lower the board one row every N shots, 0 = never
}

// RemoteConfig defines the websocket bridge.
type RemoteConfig struct {
	Addr         string        `yaml:"addr"`
	Path         string        `yaml:"path"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DetectConfig defines the screen detection thresholds of the desktop driver.
type DetectConfig struct {
	HueMin        int    `yaml:"hue_min"`
	HueMax        int    `yaml:"hue_max"`
	SatMin        int    `yaml:"sat_min"`
	ValMin        int    `yaml:"val_min"`
	MinArea       int    `yaml:"min_area"` // Contours smaller than this are noise
	MinRadius     int    `yaml:"min_radius"`
	MaxRadius     int    `yaml:"max_radius"`
	MinAreaWidth  int    `yaml:"min_area_width"` // Smaller play areas fall back to the screen centre
	MinAreaHeight int    `yaml:"min_area_height"`
	ShooterOffset int    `yaml:"shooter_offset"`
	StopKey       string `yaml:"stop_key"` // Global hotkey that aborts the bot
}

// StrategyPreset represents a named scoring strategy.
type StrategyPreset string

const (
	StrategyBalanced StrategyPreset = "balanced"
	StrategyCleanup  StrategyPreset = "cleanup"
	StrategyChain    StrategyPreset = "chain"
	StrategySniper   StrategyPreset = "sniper"
	StrategyFixed    StrategyPreset = "fixed"
)

// Presets lists the known strategy presets in display order.
func Presets() []StrategyPreset {
	return []StrategyPreset{StrategyBalanced, StrategyCleanup, StrategyChain, StrategySniper, StrategyFixed}
}

// IsFixedPreset returns true if the preset leaves the loaded policy untouched.
func IsFixedPreset(preset StrategyPreset) bool {
	return preset == StrategyFixed
}
