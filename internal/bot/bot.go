// Package bot runs the observe-plan-act loop that drives a bubble shooter:
// a Source produces board snapshots, the planner picks a shot and an
// Actuator carries it out.
package bot

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

//go:generate go tool mockgen -destination=./mocks/bot_mock.go -package=mocks . Source,Actuator

// Source observes the game and reports its current state.
type Source interface {
	// Snapshot blocks until a fresh observation is available.
	Snapshot(ctx context.Context) (planner.Snapshot, error)
}

// Actuator performs a shot in the game.
type Actuator interface {
	// Aim points the shooter at cmd.Aim and fires.
	Aim(ctx context.Context, cmd Command) error
}

// Command is one shot handed to an Actuator. It carries a screen point on
// the chosen ray, never a raw angle.
type Command struct {
	ID      uuid.UUID
	Round   int
	Shooter core.Point       // Where the projectile leaves from
	Aim     core.Point       // Point to aim at
	Target  planner.Bubble   // Resolved target, for logging
	Kind    planner.ShotKind // Direct or bounced
	Score   float64
}

// String returns a short human-readable description of the command.
func (c Command) String() string {
	return fmt.Sprintf("round %d: aim (%d, %d) at bubble (%d, %d) hits=%d %s score=%.1f",
		c.Round, c.Aim.X, c.Aim.Y, c.Target.X, c.Target.Y, c.Target.HitCount, c.Kind, c.Score)
}

// LogActuator only logs the commands it receives. It serves drivers that
// replay recorded boards and dry runs.
type LogActuator struct {
	Logger *log.Logger
}

// Aim logs cmd and always succeeds.
func (a LogActuator) Aim(ctx context.Context, cmd Command) error {
	if a.Logger == nil {
		return nil
	}
	a.Logger.Info("shot",
		"id", cmd.ID,
		"round", cmd.Round,
		"aim_x", cmd.Aim.X,
		"aim_y", cmd.Aim.Y,
		"target_x", cmd.Target.X,
		"target_y", cmd.Target.Y,
		"hits", cmd.Target.HitCount,
		"kind", cmd.Kind,
		"score", cmd.Score,
	)
	return nil
}
