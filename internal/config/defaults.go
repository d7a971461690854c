package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/bubblebot/internal/planner"
)

//go:embed defaults/bot.yaml
var defaultBotYAML []byte

// DefaultBotConfig returns the default bot configuration.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		Planner: planner.DefaultConfig(),
		Runner: RunnerConfig{
			MaxRounds:          50,
			ShotCooldown:       2 * time.Second,
			SettleDelay:        3 * time.Second,
			RetryDelay:         time.Second,
			IdleDelay:          2 * time.Second,
			AimDistance:        200,
			MaxObserveFailures: 10,
			MaxIdleRounds:      5,
			DebugDir:           "screenshots",
		},
		Sim: SimConfig{
			Seed:          1,
			Width:         800,
			Height:        600,
			Rows:          4,
			Cols:          8,
			Radius:        20,
			MaxHits:       3,
			ShooterOffset: 50,
		},
		Remote: RemoteConfig{
			Addr:         ":8765",
			Path:         "/ws",
			WriteTimeout: 5 * time.Second,
		},
		Detect: DetectConfig{
			HueMin:        0,
			HueMax:        10,
			SatMin:        50,
			ValMin:        50,
			MinArea:       100,
			MinRadius:     15,
			MaxRadius:     40,
			MinAreaWidth:  200,
			MinAreaHeight: 300,
			ShooterOffset: 50,
			StopKey:       "f10",
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultBotYAML
}
