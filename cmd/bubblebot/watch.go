package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/platform/tui"
)

var (
	watchDriver   driverFlags
	flagInterval  time.Duration
	flagWatchLogs string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the bot play in the terminal",
	Long: `Open an interactive viewer that steps the bot and draws the board with
the chosen aim ray.

Controls:
  Space/N   - Step one round
  A         - Toggle autoplay
  R         - Reset the game
  Ctrl+S    - Save the board as text to ~/.bubblebot/screenshots
  ?         - Toggle help
  Q/Ctrl+C  - Quit

Examples:
  bubblebot watch
  bubblebot watch --seed 42 --interval 200ms
  bubblebot watch --driver db --board level1
  bubblebot watch --preset sniper --log-file bot.log`,
	Run: runWatch,
}

func init() {
	watchDriver.register(watchCmd, "sim")
	watchCmd.Flags().DurationVar(&flagInterval, "interval", 400*time.Millisecond, "Delay between autoplay steps")
	watchCmd.Flags().StringVar(&flagWatchLogs, "log-file", "", "Write bot logs to this file")
}

func runWatch(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	exitOnError(err)

	// The viewer owns the terminal; logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if flagWatchLogs != "" {
		f, openErr := os.OpenFile(flagWatchLogs, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		exitOnError(openErr)
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "bubblebot"})
	if level, lvlErr := log.ParseLevel(flagLogLevel); lvlErr == nil {
		logger.SetLevel(level)
	}

	p, err := planner.New(cfg.Planner)
	exitOnError(err)

	d, err := watchDriver.open(cfg, logger)
	exitOnError(err)
	defer d.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if d.Serve != nil {
		go func() {
			if serveErr := d.Serve(ctx); serveErr != nil {
				logger.Error("driver service stopped", "error", serveErr)
			}
		}()
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	var shotDir string
	if home, homeErr := os.UserHomeDir(); homeErr == nil {
		shotDir = filepath.Join(home, ".bubblebot", "screenshots")
	}

	runner := bot.NewRunner(p, d.Source, d.Actuator, tui.WatchRunnerConfig(cfg.Runner), logger)
	model := tui.NewWatchModel(tui.WatchOptions{
		Runner:        runner,
		Source:        d.Source,
		Reset:         d.Reset,
		AimDistance:   cfg.Runner.AimDistance,
		Interval:      flagInterval,
		Context:       ctx,
		ScreenshotDir: shotDir,
	}, width, height)

	exitOnError(tui.Run(model))
}
