// bubblebot plans and fires shots in a bubble shooter.
//
// Usage:
//
//	bubblebot plan <snapshot>      - Pick the best shot for a recorded board
//	bubblebot play                 - Run the bot loop against a driver
//	bubblebot watch                - Watch the bot play in the terminal
//	bubblebot serve                - Start SSH server for remote watching
//	bubblebot boards <command>     - Manage stored board fixtures
//	bubblebot drivers              - List available drivers
//
// Global flags:
//
//	--config <path>    - Bot config YAML (default: search order, then embedded)
//	--preset <name>    - Scoring preset: balanced, cleanup, chain, sniper, fixed
//	--log-level <lvl>  - Log level (default: info)
//	--db <path>        - Board fixture database (default: ~/.bubblebot/boards.db)
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblebot/internal/config"

	// Import drivers to register them
	_ "github.com/vovakirdan/bubblebot/internal/drivers"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagLogLevel string
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bubblebot",
	Short: "Bubble shooter bot - trajectory planning and shot selection",
	Long: `bubblebot looks at a bubble shooter board, simulates candidate shots
under gravity with wall bounces, and fires the best one.

Available commands:
  plan     - Pick the best shot for a recorded board
  play     - Run the bot loop against a driver
  watch    - Watch the bot play a simulated game in the terminal
  serve    - Start SSH server for remote watching
  boards   - Manage stored board fixtures
  drivers  - List available drivers

Examples:
  bubblebot plan board.yaml --render
  bubblebot play --driver sim --rounds 20
  bubblebot play --driver remote --addr :8765
  bubblebot watch --preset chain
  bubblebot boards import level1 board.yaml`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to bot config YAML")
	presets := make([]string, 0, len(config.Presets()))
	for _, p := range config.Presets() {
		presets = append(presets, string(p))
	}
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Scoring preset: "+strings.Join(presets, ", "))
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bubblebot/boards.db", "Path to board fixture database")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(driversCmd)
}

// loadConfig resolves the bot config from file, environment and preset.
func loadConfig() (config.BotConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if flagPreset != "" {
		if err := config.ApplyPreset(&cfg, config.StrategyPreset(flagPreset)); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Planner.Validate()
}

// newLogger creates the shared logger at the requested level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bubblebot",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// exitOnError prints err and exits when it is non-nil.
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
