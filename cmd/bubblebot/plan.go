package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/platform/tui"
	"github.com/vovakirdan/bubblebot/internal/snapshot"
)

var (
	flagDistance int
	flagRender   bool
)

var planCmd = &cobra.Command{
	Use:   "plan <snapshot>",
	Short: "Pick the best shot for a recorded board",
	Long: `Run one planning call on a YAML or JSON snapshot and print the chosen
shot and the point to aim at.

Snapshot format:
  play_area: {x: 0, y: 0, width: 800, height: 600}
  shooter: {x: 400, y: 500}
  bubbles:
    - {x: 200, y: 150, r: 25, hits: 2}
    - {x: 300, y: 200, r: 20, hits: 1}

Examples:
  bubblebot plan board.yaml
  bubblebot plan board.json --render --distance 300`,
	Args: cobra.ExactArgs(1),
	Run:  runPlan,
}

func init() {
	planCmd.Flags().IntVar(&flagDistance, "distance", 0, "Aim point distance in pixels (default from config)")
	planCmd.Flags().BoolVar(&flagRender, "render", false, "Print an ASCII rendering of the board")
}

func runPlan(_ *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err)

	snap, err := snapshot.LoadFile(args[0])
	exitOnError(err)

	p, err := planner.New(cfg.Planner)
	exitOnError(err)

	shot, err := p.Plan(snap)
	exitOnError(err)

	distance := cfg.Runner.AimDistance
	if flagDistance > 0 {
		distance = flagDistance
	}

	if flagRender {
		fmt.Println(tui.DebugFrame(snap, shot, distance))
		fmt.Println()
	}

	if shot == nil {
		fmt.Printf("No reachable target among %d bubbles.\n", len(snap.Bubbles))
		return
	}

	aim := planner.AimPoint(snap.Shooter, shot.Angle, distance)
	fmt.Printf("Target:  bubble #%d at (%d, %d) r=%d hits=%d\n",
		shot.Index, shot.Target.X, shot.Target.Y, shot.Target.Radius, shot.Target.HitCount)
	fmt.Printf("Kind:    %s\n", shot.Kind)
	fmt.Printf("Angle:   %.2f° (%.4f rad)\n", shot.Angle*180/math.Pi, shot.Angle)
	fmt.Printf("Score:   %.1f\n", shot.Score)
	fmt.Printf("Aim at:  (%d, %d), %d px from the shooter\n", aim.X, aim.Y, distance)
}
