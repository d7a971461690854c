package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/platform/tui"
	"github.com/vovakirdan/bubblebot/internal/registry"
)

// driverFlags selects and configures a driver.
type driverFlags struct {
	driver string
	path   string
	board  string
	addr   string
	seed   int64
}

func (f *driverFlags) register(cmd *cobra.Command, defaultDriver string) {
	cmd.Flags().StringVar(&f.driver, "driver", defaultDriver, "Driver: see 'bubblebot drivers'")
	cmd.Flags().StringVar(&f.path, "path", "", "Snapshot file or directory (file driver)")
	cmd.Flags().StringVar(&f.board, "board", "", "Stored board name (db driver)")
	cmd.Flags().StringVar(&f.addr, "addr", "", "Listen address (remote driver)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Board seed (sim driver, 0 = from config)")
}

// open creates the selected driver with flag overrides applied to cfg.
func (f *driverFlags) open(cfg config.BotConfig, logger *log.Logger) (*registry.Driver, error) {
	if !registry.Exists(f.driver) {
		return nil, fmt.Errorf("unknown driver %q (run 'bubblebot drivers' to list them)", f.driver)
	}
	if f.seed != 0 {
		cfg.Sim.Seed = f.seed
	}
	if f.addr != "" {
		cfg.Remote.Addr = f.addr
	}

	return registry.Create(f.driver, registry.Options{
		Config: cfg,
		Path:   f.path,
		Board:  f.board,
		DBPath: flagDBPath,
		Logger: logger.WithPrefix(f.driver),
	})
}

var (
	playDriver driverFlags
	flagRounds int
	flagDebug  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the bot loop against a driver",
	Long: `Observe the board, plan a shot, aim and fire, round after round.

The loop stops when the board is cleared, the round limit is reached, too
many observations fail in a row, or no target is reachable for too long.

Drivers:
  sim      - Built-in simulated game
  file     - Replay recorded snapshots (--path); shots are only logged
  db       - Replay a stored board in the simulator (--board)
  remote   - Websocket bridge for an instrumented game client (--addr)
  desktop  - Screen capture + mouse (binaries built with -tags desktop)

Examples:
  bubblebot play
  bubblebot play --driver sim --seed 7 --rounds 20
  bubblebot play --driver file --path ./frames
  bubblebot play --driver db --board level1
  bubblebot play --driver remote --addr :8765 --debug`,
	Run: runPlay,
}

func init() {
	playDriver.register(playCmd, "sim")
	playCmd.Flags().IntVar(&flagRounds, "rounds", -1, "Round limit (default from config, 0 = unlimited)")
	playCmd.Flags().BoolVar(&flagDebug, "debug", false, "Write an ASCII frame per round into the debug directory")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger := newLogger()

	cfg, err := loadConfig()
	exitOnError(err)
	if flagRounds >= 0 {
		cfg.Runner.MaxRounds = flagRounds
	}
	if flagDebug {
		cfg.Runner.Debug = true
	}

	p, err := planner.New(cfg.Planner)
	exitOnError(err)

	d, err := playDriver.open(cfg, logger)
	exitOnError(err)
	defer d.Shutdown()

	runner := bot.NewRunner(p, d.Source, d.Actuator, cfg.Runner, logger)
	runner.Frame = tui.DebugFrame

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := runLoop(ctx, runner, d)

	fmt.Printf("Rounds: %d  Shots: %d  Failures: %d  Cleared: %v\n",
		sum.Rounds, sum.Shots, sum.Failures, sum.Cleared)

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("Interrupted.")
	case errors.Is(err, bot.ErrIdle):
		fmt.Println("Stopped: no reachable target for too long.")
	default:
		exitOnError(err)
	}
}

// runLoop runs the bot next to the driver's background service, if any.
// The service stops when the bot does.
func runLoop(ctx context.Context, runner *bot.Runner, d *registry.Driver) (bot.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if d.Serve != nil {
		g.Go(func() error { return d.Serve(gctx) })
	}

	var sum bot.Summary
	g.Go(func() error {
		defer cancel()
		var err error
		sum, err = runner.Run(gctx)
		return err
	})

	return sum, g.Wait()
}
