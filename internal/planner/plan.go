package planner

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/bubblebot/internal/core"
)

// ErrInvalidConfig is returned by New for configurations the planner cannot run with.
var ErrInvalidConfig = errors.New("planner: invalid config")

// Sweep is the discretized set of launch angles tried for bounced shots,
// in degrees, both ends inclusive.
type Sweep struct {
	MinDeg  float64 `yaml:"min_deg"`
	MaxDeg  float64 `yaml:"max_deg"`
	StepDeg float64 `yaml:"step_deg"`
}

// DefaultSweep returns -80..80 degrees in 5 degree steps.
func DefaultSweep() Sweep {
	return Sweep{MinDeg: -80, MaxDeg: 80, StepDeg: 5}
}

// Angles returns the sweep's angles in radians, from MinDeg upward.
func (s Sweep) Angles() []float64 {
	if s.StepDeg <= 0 || s.MaxDeg < s.MinDeg {
		return nil
	}
	n := int(math.Floor((s.MaxDeg-s.MinDeg)/s.StepDeg+1e-9)) + 1
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = (s.MinDeg + float64(i)*s.StepDeg) / 180 * math.Pi
	}
	return angles
}

// Config bundles everything a Planner needs.
type Config struct {
	Physics Physics `yaml:"physics"`
	Policy  Policy  `yaml:"policy"`
	Sweep   Sweep   `yaml:"sweep"`
	Workers int     `yaml:"workers"` // >1 evaluates candidate bubbles concurrently
}

// DefaultConfig returns the reference physics, policy and sweep.
func DefaultConfig() Config {
	return Config{
		Physics: DefaultPhysics(),
		Policy:  DefaultPolicy(),
		Sweep:   DefaultSweep(),
		Workers: 1,
	}
}

// Validate reports configuration values the planner cannot run with.
func (c Config) Validate() error {
	p := c.Physics
	switch {
	case p.LaunchSpeed <= 0:
		return fmt.Errorf("%w: launch_speed must be positive", ErrInvalidConfig)
	case p.TimeStep <= 0:
		return fmt.Errorf("%w: time_step must be positive", ErrInvalidConfig)
	case p.Gravity < 0:
		return fmt.Errorf("%w: gravity must not be negative", ErrInvalidConfig)
	case p.BounceDamping <= 0 || p.BounceDamping >= 1:
		return fmt.Errorf("%w: bounce_damping must be in (0, 1)", ErrInvalidConfig)
	case p.MaxBounces < 0:
		return fmt.Errorf("%w: max_bounces must not be negative", ErrInvalidConfig)
	case p.MaxSteps <= 0:
		return fmt.Errorf("%w: max_steps must be positive", ErrInvalidConfig)
	}

	s := c.Sweep
	if s.StepDeg <= 0 || s.MinDeg > s.MaxDeg || s.MinDeg < -90 || s.MaxDeg > 90 {
		return fmt.Errorf("%w: sweep must satisfy -90 <= min_deg <= max_deg <= 90 with step_deg > 0", ErrInvalidConfig)
	}

	w := c.Policy
	if w.HitWeight < 0 || w.HeightWeight < 0 || w.DirectBonus < 0 || w.ChainWeight < 0 || w.ChainRadiusFactor < 0 {
		return fmt.Errorf("%w: policy weights must not be negative", ErrInvalidConfig)
	}
	switch w.HeightBasis {
	case "", HeightBasisBoard, HeightBasisPlayArea:
	default:
		return fmt.Errorf("%w: unknown height_basis %q", ErrInvalidConfig, w.HeightBasis)
	}
	return nil
}

// Shot is the planner's answer: where to aim and what it should hit.
type Shot struct {
	Angle  float64  // Radians, 0 = straight up, positive = rightward
	Target Bubble   // The bubble the shot is meant to hit
	Index  int      // Target's position in Snapshot.Bubbles
	Score  float64  // Desirability under the policy
	Kind   ShotKind // Direct or bounced
}

// Planner selects the best shot for a snapshot. A Planner holds only
// immutable configuration and is safe for concurrent use.
type Planner struct {
	sim       *Simulator
	evaluator Evaluator
	angles    []float64
	workers   int
}

// New creates a planner from cfg.
func New(cfg Config) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Planner{
		sim:       NewSimulator(cfg.Physics),
		evaluator: NewEvaluator(cfg.Policy),
		angles:    cfg.Sweep.Angles(),
		workers:   workers,
	}, nil
}

// DirectAngle returns the launch angle that points straight at target.
// It reports false when the target is level with or below the shooter.
func DirectAngle(shooter core.Point, target Bubble) (float64, bool) {
	dx := float64(target.X - shooter.X)
	dy := float64(target.Y - shooter.Y)
	if dy >= 0 {
		return 0, false
	}

	angle := math.Atan2(dx, -dy)
	if math.Abs(angle) > math.Pi/2 {
		return 0, false
	}
	return angle, true
}

// BouncedAngles returns every sweep angle whose simulated flight passes
// within target's radius, in sweep order.
func (p *Planner) BouncedAngles(snap Snapshot, target Bubble) []float64 {
	var hits []float64
	for _, a := range p.angles {
		path, _ := p.sim.Simulate(snap.Shooter, a, snap.PlayArea, target)
		if path != nil && path.Hits(target) {
			hits = append(hits, a)
		}
	}
	return hits
}

// Plan returns the highest scoring shot for snap, or nil when no bubble can
// be reached. Ties keep the earliest candidate in search order (prioritized
// bubbles, direct before bounced, sweep order among bounced).
func (p *Planner) Plan(snap Snapshot) (*Shot, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	if len(snap.Bubbles) == 0 {
		return nil, nil
	}

	order := Prioritize(snap.Bubbles)
	results := make([]*Shot, len(order))

	if p.workers > 1 && len(order) > 1 {
		var g errgroup.Group
		g.SetLimit(p.workers)
		for pos, idx := range order {
			g.Go(func() error {
				results[pos] = p.bestFor(snap, idx)
				return nil
			})
		}
		_ = g.Wait() // bestFor never fails
	} else {
		for pos, idx := range order {
			results[pos] = p.bestFor(snap, idx)
		}
	}

	// Reduce in prioritized order so ties resolve the same way regardless
	// of completion order.
	var best *Shot
	for _, s := range results {
		if s == nil {
			continue
		}
		if best == nil || s.Score > best.Score {
			best = s
		}
	}
	return best, nil
}

// bestFor returns the best shot at snap.Bubbles[idx], or nil.
func (p *Planner) bestFor(snap Snapshot, idx int) *Shot {
	target := snap.Bubbles[idx]
	var best *Shot

	consider := func(angle float64, kind ShotKind) {
		score := p.evaluator.Score(target, snap, kind)
		if best == nil || score > best.Score {
			best = &Shot{Angle: angle, Target: target, Index: idx, Score: score, Kind: kind}
		}
	}

	if angle, ok := DirectAngle(snap.Shooter, target); ok {
		consider(angle, ShotDirect)
	}
	for _, angle := range p.BouncedAngles(snap, target) {
		consider(angle, ShotBounced)
	}
	return best
}
