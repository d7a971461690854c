package planner

import (
	"math"

	"github.com/vovakirdan/bubblebot/internal/core"
)

// Physics holds the constants of the simplified projectile model.
// Units are pixels and seconds.
type Physics struct {
	LaunchSpeed   float64 `yaml:"launch_speed"`   // Initial speed along the launch angle
	Gravity       float64 `yaml:"gravity"`        // Downward acceleration
	TimeStep      float64 `yaml:"time_step"`      // Integration step (0.016 = 60 FPS)
	BounceDamping float64 `yaml:"bounce_damping"` // Horizontal speed kept after a wall bounce
	MaxBounces    int     `yaml:"max_bounces"`    // Bounces allowed before the path is abandoned
	MaxSteps      int     `yaml:"max_steps"`      // Hard cap on integration steps
}

// DefaultPhysics returns the physics constants the planner was tuned with.
func DefaultPhysics() Physics {
	return Physics{
		LaunchSpeed:   500,
		Gravity:       9.81,
		TimeStep:      0.016,
		BounceDamping: 0.8,
		MaxBounces:    3,
		MaxSteps:      1000,
	}
}

// Outcome describes how a simulated flight ended.
type Outcome int

const (
	OutcomeHit          Outcome = iota // Reached the target's bounding box
	OutcomeCeiling                     // Left the play area through the ceiling
	OutcomeFloor                       // Fell below the floor
	OutcomeBounceLimit                 // Bounced more than MaxBounces times
	OutcomeStepLimit                   // Ran out of integration steps
	OutcomeInvalidAngle                // Angle outside [-π/2, π/2] or not finite
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeCeiling:
		return "ceiling"
	case OutcomeFloor:
		return "floor"
	case OutcomeBounceLimit:
		return "bounce-limit"
	case OutcomeStepLimit:
		return "step-limit"
	case OutcomeInvalidAngle:
		return "invalid-angle"
	default:
		return "unknown"
	}
}

// Trajectory is the ordered list of sampled integer positions of one flight,
// starting at the launch point.
type Trajectory []core.Point

// Hits reports whether any sampled point lies within the bubble's radius of
// its center.
func (t Trajectory) Hits(b Bubble) bool {
	r := float64(b.Radius)
	c := b.Center()
	for _, p := range t {
		if p.Dist(c) <= r {
			return true
		}
	}
	return false
}

// Simulator advances projectiles under Physics. It is stateless between
// calls and safe for concurrent use.
type Simulator struct {
	physics Physics
}

// NewSimulator creates a simulator with the given physics constants.
func NewSimulator(p Physics) *Simulator {
	return &Simulator{physics: p}
}

// Simulate flies a projectile from origin at angle (0 = straight up, positive
// = rightward) through area. The left and right walls reflect it, losing
// speed by BounceDamping. The flight stops early once it enters the target's
// bounding box; target is only a stopping hint, not a constraint.
//
// OutcomeHit and OutcomeCeiling return the traversed path (at least two
// points; a flight that leaves through the ceiling on its first step has no
// path). Every other outcome is infeasible and returns nil.
func (s *Simulator) Simulate(origin core.Point, angle float64, area core.Rect, target Bubble) (Trajectory, Outcome) {
	if !core.Finite(angle) || math.Abs(angle) > math.Pi/2 {
		return nil, OutcomeInvalidAngle
	}

	p := s.physics
	xMin, xMax := float64(area.Left()), float64(area.Right())
	yMin, yMax := float64(area.Top()), float64(area.Bottom())
	tx, ty, tr := float64(target.X), float64(target.Y), float64(target.Radius)

	x, y := float64(origin.X), float64(origin.Y)
	vx := p.LaunchSpeed * math.Sin(angle)
	vy := -p.LaunchSpeed * math.Cos(angle) // y grows downward

	path := Trajectory{core.Pt(int(x), int(y))}
	bounces := 0

	for step := 1; ; step++ {
		if step > p.MaxSteps {
			return nil, OutcomeStepLimit
		}

		x += vx * p.TimeStep
		y += vy * p.TimeStep
		vy += p.Gravity * p.TimeStep

		if x < xMin || x > xMax {
			vx = -vx * p.BounceDamping
			x = core.ClampF(x, xMin, xMax)
			bounces++
			if bounces > p.MaxBounces {
				return nil, OutcomeBounceLimit
			}
		}

		if y > yMax {
			return nil, OutcomeFloor
		}
		if y < yMin {
			if len(path) < 2 {
				return nil, OutcomeCeiling
			}
			return path, OutcomeCeiling
		}

		path = append(path, core.Pt(int(x), int(y)))

		if math.Abs(x-tx) < tr && math.Abs(y-ty) < tr {
			return path, OutcomeHit
		}
	}
}
