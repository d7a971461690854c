// Package sim implements a simulated bubble shooter. It serves both as a
// bot Source and Actuator, so the whole loop can run without a real game.
package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

// ErrGameOver is returned by Aim once the board has reached the shooter.
var ErrGameOver = errors.New("sim: game over")

// Result describes what a single shot did.
type Result struct {
	Angle   float64
	Outcome planner.Outcome    // How the flight ended
	Path    planner.Trajectory // Flight up to the hit, if any
	Hit     bool
	Target  planner.Bubble // The bubble that was hit, before the hit
	Cleared bool           // The hit removed the bubble
}

// Game is a simulated board. It is safe for concurrent use.
type Game struct {
	mu      sync.Mutex
	cfg     config.SimConfig
	sim     *planner.Simulator
	area    core.Rect
	shooter core.Point
	initial []planner.Bubble
	bubbles []planner.Bubble
	shots   int
	last    *Result
}

// New creates a game with a randomly generated board.
func New(cfg config.SimConfig, physics planner.Physics) *Game {
	rng := rand.New(rand.NewSource(cfg.Seed))
	return newGame(cfg, physics, GenerateBoard(cfg, rng))
}

// NewFromBoard creates a game from an ASCII board (see ParseBoard).
func NewFromBoard(cfg config.SimConfig, physics planner.Physics, lines []string) *Game {
	return newGame(cfg, physics, ParseBoard(cfg, lines))
}

// NewFromSnapshot creates a game that replays a recorded board. The
// snapshot's play area and shooter replace the configured geometry.
func NewFromSnapshot(snap planner.Snapshot, physics planner.Physics, driftEvery int) *Game {
	cfg := config.SimConfig{
		Width:      snap.PlayArea.W,
		Height:     snap.PlayArea.H,
		DriftEvery: driftEvery,
	}
	g := newGame(cfg, physics, snap.Bubbles)
	g.area = snap.PlayArea
	g.shooter = snap.Shooter
	return g
}

func newGame(cfg config.SimConfig, physics planner.Physics, bubbles []planner.Bubble) *Game {
	g := &Game{
		cfg:     cfg,
		sim:     planner.NewSimulator(physics),
		area:    core.NewRect(0, 0, cfg.Width, cfg.Height),
		shooter: core.Pt(cfg.Width/2, cfg.Height-cfg.ShooterOffset),
		initial: append([]planner.Bubble(nil), bubbles...),
	}
	g.bubbles = append([]planner.Bubble(nil), bubbles...)
	return g
}

// Reset restores the board the game started with.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.bubbles = append(g.bubbles[:0], g.initial...)
	g.shots = 0
	g.last = nil
}

// Snapshot returns the current board.
func (g *Game) Snapshot(ctx context.Context) (planner.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return planner.Snapshot{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(), nil
}

// Current returns the current board without a context.
func (g *Game) Current() planner.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() planner.Snapshot {
	return planner.Snapshot{
		Bubbles:  append([]planner.Bubble(nil), g.bubbles...),
		Shooter:  g.shooter,
		PlayArea: g.area,
	}
}

// Aim fires toward cmd.Aim from the game's own shooter.
func (g *Game) Aim(ctx context.Context, cmd bot.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.overLocked() {
		return ErrGameOver
	}
	g.fireLocked(planner.AngleTo(g.shooter, cmd.Aim))
	return nil
}

// Fire shoots at angle and applies the hit, if any.
func (g *Game) Fire(angle float64) Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fireLocked(angle)
}

func (g *Game) fireLocked(angle float64) Result {
	res := g.resolve(angle)
	if res.Hit {
		res.Cleared = g.applyHit(res.Target)
	}

	g.shots++
	if g.cfg.DriftEvery > 0 && g.shots%g.cfg.DriftEvery == 0 {
		g.driftLocked()
	}

	g.last = &res
	return res
}

// resolve finds the bubble the projectile reaches first along its flight.
func (g *Game) resolve(angle float64) Result {
	res := Result{Angle: angle}
	best := -1

	for _, b := range g.bubbles {
		path, outcome := g.sim.Simulate(g.shooter, angle, g.area, b)
		at := firstContact(path, b, outcome)
		if at < 0 {
			continue
		}
		if best < 0 || at < best {
			best = at
			res.Hit = true
			res.Target = b
			res.Path = path[:at+1]
			res.Outcome = planner.OutcomeHit
		}
	}

	if !res.Hit {
		// A zero-radius target is never reached, so this is the free flight.
		res.Path, res.Outcome = g.sim.Simulate(g.shooter, angle, g.area, planner.Bubble{})
	}
	return res
}

// firstContact returns the index of the first path point touching b, or -1.
func firstContact(path planner.Trajectory, b planner.Bubble, outcome planner.Outcome) int {
	r := float64(b.Radius)
	c := b.Center()
	for i, p := range path {
		if p.Dist(c) <= r {
			return i
		}
	}
	if outcome == planner.OutcomeHit && len(path) > 0 {
		return len(path) - 1
	}
	return -1
}

// applyHit takes one hit off the first bubble equal to target and removes
// it at zero. It reports whether the bubble was removed.
func (g *Game) applyHit(target planner.Bubble) bool {
	for i, b := range g.bubbles {
		if b != target {
			continue
		}
		if b.HitCount <= 1 {
			g.bubbles = append(g.bubbles[:i], g.bubbles[i+1:]...)
			return true
		}
		g.bubbles[i].HitCount--
		return false
	}
	return false
}

// driftLocked lowers every bubble by one grid row.
func (g *Game) driftLocked() {
	_, step := cellSize(g.cfg)
	if step <= 0 {
		step = 2 * g.maxRadiusLocked()
	}
	for i := range g.bubbles {
		g.bubbles[i].Y += step
	}
}

func (g *Game) maxRadiusLocked() int {
	r := 1
	for _, b := range g.bubbles {
		r = max(r, b.Radius)
	}
	return r
}

// Over reports whether a bubble has reached the shooter's row.
func (g *Game) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.overLocked()
}

func (g *Game) overLocked() bool {
	for _, b := range g.bubbles {
		if b.Y+b.Radius >= g.shooter.Y {
			return true
		}
	}
	return false
}

// Shots returns how many shots have been fired.
func (g *Game) Shots() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shots
}

// Remaining returns how many bubbles are left.
func (g *Game) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.bubbles)
}

// Last returns the result of the most recent shot, or nil.
func (g *Game) Last() *Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return nil
	}
	res := *g.last
	return &res
}
