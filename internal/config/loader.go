package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override loaded values.
const (
	EnvMaxRounds    = "BUBBLEBOT_MAX_ROUNDS"
	EnvShotCooldown = "BUBBLEBOT_SHOT_COOLDOWN"
	EnvAimDistance  = "BUBBLEBOT_AIM_DISTANCE"
	EnvDebug        = "BUBBLEBOT_DEBUG"
)

// Load loads bot configuration.
// Search order: customPath -> ~/.bubblebot/configs/bot.yaml -> ./configs/bot.yaml -> embedded default
//
// Files are decoded over the defaults, so a file only needs the keys it changes.
func Load(customPath string) (BotConfig, error) {
	cfg := DefaultBotConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("bot.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			candidate := DefaultBotConfig()
			if err := yaml.Unmarshal(data, &candidate); err == nil {
				return candidate, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "bot.yaml")); err == nil {
		candidate := DefaultBotConfig()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBotYAML, &cfg); err != nil {
		return DefaultBotConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bubblebot", "configs", filename)
}

// ApplyEnv overrides runner settings from the environment. Unset variables
// are ignored; malformed ones are reported.
func ApplyEnv(cfg *BotConfig) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *BotConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMaxRounds); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("config: %s=%q: expected a non-negative integer", EnvMaxRounds, v)
		}
		cfg.Runner.MaxRounds = n
	}

	if v, ok := lookup(EnvShotCooldown); ok {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvShotCooldown, v, err)
		}
		cfg.Runner.ShotCooldown = d
	}

	if v, ok := lookup(EnvAimDistance); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("config: %s=%q: expected a positive integer", EnvAimDistance, v)
		}
		cfg.Runner.AimDistance = n
	}

	if v, ok := lookup(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvDebug, v, err)
		}
		cfg.Runner.Debug = b
	}
	return nil
}

// parseSeconds accepts a Go duration ("1500ms") or plain seconds ("2.5").
func parseSeconds(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("negative duration")
		}
		return d, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("expected seconds or a duration")
	}
	return time.Duration(f * float64(time.Second)), nil
}

// ApplyPreset modifies the scoring policy based on a strategy preset.
func ApplyPreset(cfg *BotConfig, preset StrategyPreset) error {
	if IsFixedPreset(preset) {
		return nil
	}

	policy := &cfg.Planner.Policy
	base := DefaultBotConfig().Planner.Policy
	basis := policy.HeightBasis

	// Adjust weights based on strategy
	switch preset {
	case StrategyBalanced:
		*policy = base
	case StrategyCleanup:
		*policy = base
		policy.HitWeight = 25
		policy.ChainWeight = 2
	case StrategyChain:
		*policy = base
		policy.ChainWeight = 20
		policy.ChainRadiusFactor = 2
	case StrategySniper:
		*policy = base
		policy.DirectBonus = 60
		policy.HeightWeight = 40
	default:
		return fmt.Errorf("config: unknown preset %q", preset)
	}

	policy.HeightBasis = basis
	return nil
}
