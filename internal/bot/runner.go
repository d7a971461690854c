package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

var (
	// ErrObserveFailures stops Run after too many consecutive failed rounds.
	ErrObserveFailures = errors.New("bot: too many consecutive failed observations")
	// ErrIdle stops Run after too many consecutive rounds without a target.
	ErrIdle = errors.New("bot: too many rounds without a shot")
)

// RoundOutcome describes how one round ended.
type RoundOutcome int

const (
	RoundShot          RoundOutcome = iota // A shot was fired
	RoundNoTarget                          // Nothing reachable this round
	RoundNoSnapshot                        // The source failed to observe the board
	RoundMalformed                         // The snapshot could not be planned against
	RoundActuateFailed                     // The actuator rejected the command
	RoundCleared                           // No bubbles left
)

// String returns a human-readable name for the outcome.
func (o RoundOutcome) String() string {
	switch o {
	case RoundShot:
		return "shot"
	case RoundNoTarget:
		return "no target"
	case RoundNoSnapshot:
		return "no snapshot"
	case RoundMalformed:
		return "malformed snapshot"
	case RoundActuateFailed:
		return "actuation failed"
	case RoundCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Failed reports whether the outcome counts toward the failure limit.
func (o RoundOutcome) Failed() bool {
	return o == RoundNoSnapshot || o == RoundMalformed || o == RoundActuateFailed
}

// Report is the result of one round.
type Report struct {
	Round    int
	Outcome  RoundOutcome
	Bubbles  int              // Bubbles seen on the board
	Snapshot planner.Snapshot // What was observed, if anything
	Shot     *planner.Shot    // Chosen shot, if any
	Command  *Command         // What the actuator received, if anything
	Err      error            // Cause of a failed round
}

// Summary totals a Run.
type Summary struct {
	Rounds   int
	Shots    int
	Failures int
	Cleared  bool
	Last     Report
}

// FrameFunc renders a round for the debug frame dump.
type FrameFunc func(snap planner.Snapshot, shot *planner.Shot, aimDistance int) string

// Runner drives a game through a Source and an Actuator.
type Runner struct {
	planner  *planner.Planner
	source   Source
	actuator Actuator
	pacer    *Pacer
	cfg      config.RunnerConfig
	logger   *log.Logger

	// Frame renders debug frames when cfg.Debug is set.
	Frame FrameFunc

	round int
	sleep func(context.Context, time.Duration) error
}

// NewRunner creates a runner. A nil logger discards log output.
func NewRunner(p *planner.Planner, src Source, act Actuator, cfg config.RunnerConfig, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		planner:  p,
		source:   src,
		actuator: act,
		pacer:    NewPacer(cfg.ShotCooldown),
		cfg:      cfg,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

// Round returns the number of rounds played so far.
func (r *Runner) Round() int {
	return r.round
}

// Step plays a single round: observe, plan, aim, fire. Round-level problems
// are reported in the Report; the error is non-nil only when ctx ends.
func (r *Runner) Step(ctx context.Context) (Report, error) {
	r.round++
	rep := Report{Round: r.round}

	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return rep, ctxErr
		}
		rep.Outcome = RoundNoSnapshot
		rep.Err = err
		r.logger.Warn("could not observe the board", "round", r.round, "error", err)
		return rep, nil
	}
	rep.Snapshot = snap
	rep.Bubbles = len(snap.Bubbles)

	if len(snap.Bubbles) == 0 {
		rep.Outcome = RoundCleared
		r.logger.Info("no bubbles left", "round", r.round)
		r.writeFrame(snap, nil)
		return rep, nil
	}

	shot, err := r.planner.Plan(snap)
	if err != nil {
		rep.Outcome = RoundMalformed
		rep.Err = err
		r.logger.Warn("skipping snapshot", "round", r.round, "error", err)
		return rep, nil
	}
	r.writeFrame(snap, shot)

	if shot == nil {
		rep.Outcome = RoundNoTarget
		r.logger.Info("no reachable target", "round", r.round, "bubbles", rep.Bubbles)
		return rep, nil
	}
	rep.Shot = shot

	cmd := Command{
		ID:      uuid.New(),
		Round:   r.round,
		Shooter: snap.Shooter,
		Aim:     planner.AimPoint(snap.Shooter, shot.Angle, r.cfg.AimDistance),
		Target:  shot.Target,
		Kind:    shot.Kind,
		Score:   shot.Score,
	}
	rep.Command = &cmd

	r.logger.Debug("planned shot",
		"round", r.round,
		"target_x", shot.Target.X,
		"target_y", shot.Target.Y,
		"hits", shot.Target.HitCount,
		"kind", shot.Kind,
		"score", shot.Score,
	)

	if err := r.pacer.Wait(ctx); err != nil {
		return rep, err
	}
	if err := r.actuator.Aim(ctx, cmd); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return rep, ctxErr
		}
		rep.Outcome = RoundActuateFailed
		rep.Err = fmt.Errorf("bot: aim round %d: %w", r.round, err)
		r.logger.Warn("shot failed", "round", r.round, "error", err)
		return rep, nil
	}
	r.pacer.Mark()

	rep.Outcome = RoundShot
	return rep, nil
}

// Run plays rounds until the board is cleared, MaxRounds is reached (0 means
// no limit), a failure limit trips or ctx ends.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	failures, idle := 0, 0

	for r.cfg.MaxRounds <= 0 || sum.Rounds < r.cfg.MaxRounds {
		rep, err := r.Step(ctx)
		sum.Rounds++
		sum.Last = rep
		if err != nil {
			return sum, err
		}

		var delay time.Duration
		switch {
		case rep.Outcome == RoundCleared:
			sum.Cleared = true
			r.logger.Info("board cleared", "rounds", sum.Rounds, "shots", sum.Shots)
			return sum, nil

		case rep.Outcome == RoundShot:
			sum.Shots++
			failures, idle = 0, 0
			delay = r.cfg.SettleDelay

		case rep.Outcome == RoundNoTarget:
			failures = 0
			idle++
			if idle > r.cfg.MaxIdleRounds {
				return sum, ErrIdle
			}
			delay = r.cfg.IdleDelay

		case rep.Outcome.Failed():
			sum.Failures++
			failures++
			if failures > r.cfg.MaxObserveFailures {
				return sum, fmt.Errorf("%w: last: %v", ErrObserveFailures, rep.Err)
			}
			delay = r.cfg.RetryDelay
		}

		if err := r.sleep(ctx, delay); err != nil {
			return sum, err
		}
	}

	r.logger.Info("round limit reached", "rounds", sum.Rounds, "shots", sum.Shots)
	return sum, nil
}

// writeFrame dumps an ASCII rendering of the round when debugging.
func (r *Runner) writeFrame(snap planner.Snapshot, shot *planner.Shot) {
	if !r.cfg.Debug || r.Frame == nil {
		return
	}

	dir := r.cfg.DebugDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.logger.Warn("cannot create debug directory", "dir", dir, "error", err)
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("round_%03d.txt", r.round))
	frame := r.Frame(snap, shot, r.cfg.AimDistance)
	if err := os.WriteFile(path, []byte(frame), 0o644); err != nil {
		r.logger.Warn("cannot write debug frame", "path", path, "error", err)
	}
}
