package planner

import "math"

// ShotKind distinguishes how a shot reaches its target.
type ShotKind int

const (
	ShotDirect  ShotKind = iota // Straight line from the shooter
	ShotBounced                 // Found by the simulated angle sweep
)

// String returns a human-readable name for the shot kind.
func (k ShotKind) String() string {
	switch k {
	case ShotDirect:
		return "direct"
	case ShotBounced:
		return "bounced"
	default:
		return "unknown"
	}
}

// HeightBasis selects what a target's height is normalized against.
type HeightBasis string

const (
	// HeightBasisBoard divides by the lowest bubble's Y coordinate.
	HeightBasisBoard HeightBasis = "board"
	// HeightBasisPlayArea measures height from the floor over the play area height.
	HeightBasisPlayArea HeightBasis = "play_area"
)

// Policy holds the tunable scoring weights:
//
//	score = (HitCeiling - hits)*HitWeight + height*HeightWeight
//	      + DirectBonus (direct shots only) + chain*ChainWeight
type Policy struct {
	HitCeiling        float64     `yaml:"hit_ceiling"`
	HitWeight         float64     `yaml:"hit_weight"`
	HeightWeight      float64     `yaml:"height_weight"`
	DirectBonus       float64     `yaml:"direct_bonus"`
	ChainWeight       float64     `yaml:"chain_weight"`
	ChainRadiusFactor float64     `yaml:"chain_radius_factor"` // Neighbor threshold as a multiple of r1+r2
	HeightBasis       HeightBasis `yaml:"height_basis"`
}

// DefaultPolicy returns the balanced scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		HitCeiling:        10,
		HitWeight:         10,
		HeightWeight:      20,
		DirectBonus:       15,
		ChainWeight:       5,
		ChainRadiusFactor: 1.5,
		HeightBasis:       HeightBasisBoard,
	}
}

// Evaluator scores shots under a Policy.
type Evaluator struct {
	policy Policy
}

// NewEvaluator creates an evaluator for the given policy.
func NewEvaluator(p Policy) Evaluator {
	return Evaluator{policy: p}
}

// Score rates a shot at target, given the whole snapshot it was taken from.
func (e Evaluator) Score(target Bubble, snap Snapshot, kind ShotKind) float64 {
	height := e.HeightFactor(target, snap)
	chain := e.ChainPotential(target, snap.Bubbles)
	return e.Combine(target.HitCount, height, chain, kind)
}

// Combine applies the policy weights to already computed factors.
func (e Evaluator) Combine(hitCount int, height float64, chain int, kind ShotKind) float64 {
	p := e.policy
	score := (p.HitCeiling - float64(hitCount)) * p.HitWeight
	score += height * p.HeightWeight
	if kind == ShotDirect {
		score += p.DirectBonus
	}
	score += float64(chain) * p.ChainWeight
	return score
}

// HeightFactor returns how high target sits: 0 for the lowest bubble on the
// board, approaching 1 toward the top of the screen.
func (e Evaluator) HeightFactor(target Bubble, snap Snapshot) float64 {
	if e.policy.HeightBasis == HeightBasisPlayArea {
		h := float64(snap.PlayArea.H)
		if h <= 0 {
			return 0
		}
		return float64(snap.PlayArea.Bottom()-target.Y) / h
	}

	maxY := target.Y
	for _, b := range snap.Bubbles {
		if b.Y > maxY {
			maxY = b.Y
		}
	}
	if maxY <= 0 {
		return 0
	}
	return float64(maxY-target.Y) / float64(maxY)
}

// ChainPotential counts the bubbles close enough to target to be dislodged
// with it. Bubbles equal in value to target are not counted.
func (e Evaluator) ChainPotential(target Bubble, bubbles []Bubble) int {
	count := 0
	for _, b := range bubbles {
		if b == target {
			continue
		}
		d := math.Hypot(float64(b.X-target.X), float64(b.Y-target.Y))
		if d < float64(target.Radius+b.Radius)*e.policy.ChainRadiusFactor {
			count++
		}
	}
	return count
}
