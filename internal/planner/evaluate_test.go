package planner

import (
	"image/color"
	"math"
	"testing"

	"github.com/vovakirdan/bubblebot/internal/core"
)

func TestCombineMonotonic(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())

	tests := []struct {
		name          string
		better, worse float64
	}{
		{
			name:   "fewer hits",
			better: e.Combine(1, 0.5, 0, ShotBounced),
			worse:  e.Combine(2, 0.5, 0, ShotBounced),
		},
		{
			name:   "higher target",
			better: e.Combine(2, 0.6, 0, ShotBounced),
			worse:  e.Combine(2, 0.5, 0, ShotBounced),
		},
		{
			name:   "direct over bounced",
			better: e.Combine(2, 0.5, 1, ShotDirect),
			worse:  e.Combine(2, 0.5, 1, ShotBounced),
		},
		{
			name:   "more neighbours",
			better: e.Combine(2, 0.5, 2, ShotDirect),
			worse:  e.Combine(2, 0.5, 1, ShotDirect),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.better <= tt.worse {
				t.Errorf("Combine() = %v, expected more than %v", tt.better, tt.worse)
			}
		})
	}
}

func TestCombineReferenceWeights(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())

	// (10-2)*10 + 0.25*20 + 15 + 1*5
	got := e.Combine(2, 0.25, 1, ShotDirect)
	if got != 105 {
		t.Errorf("Combine() = %v, expected 105", got)
	}
}

func TestScoreDirectBonus(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	snap := Snapshot{
		Bubbles: []Bubble{
			{X: 200, Y: 150, Radius: 25, HitCount: 2},
			{X: 300, Y: 200, Radius: 20, HitCount: 1},
		},
		Shooter:  core.Pt(400, 500),
		PlayArea: testArea,
	}

	direct := e.Score(snap.Bubbles[0], snap, ShotDirect)
	bounced := e.Score(snap.Bubbles[0], snap, ShotBounced)
	if direct-bounced != DefaultPolicy().DirectBonus {
		t.Errorf("Score() direct %v bounced %v, expected difference %v", direct, bounced, DefaultPolicy().DirectBonus)
	}
}

func TestHeightFactor(t *testing.T) {
	bubbles := []Bubble{
		{X: 100, Y: 100, Radius: 10, HitCount: 1},
		{X: 200, Y: 200, Radius: 10, HitCount: 1},
		{X: 300, Y: 400, Radius: 10, HitCount: 1},
	}

	tests := []struct {
		name     string
		basis    HeightBasis
		area     core.Rect
		bubbles  []Bubble
		target   Bubble
		expected float64
	}{
		{
			name:     "lowest bubble",
			basis:    HeightBasisBoard,
			area:     testArea,
			bubbles:  bubbles,
			target:   bubbles[2],
			expected: 0,
		},
		{
			name:     "top bubble",
			basis:    HeightBasisBoard,
			area:     testArea,
			bubbles:  bubbles,
			target:   bubbles[0],
			expected: 0.75,
		},
		{
			name:     "board on the top row",
			basis:    HeightBasisBoard,
			area:     testArea,
			bubbles:  []Bubble{{X: 10, Y: 0, Radius: 5}, {X: 30, Y: 0, Radius: 5}},
			target:   Bubble{X: 10, Y: 0, Radius: 5},
			expected: 0,
		},
		{
			name:     "play area basis",
			basis:    HeightBasisPlayArea,
			area:     core.NewRect(0, 100, 800, 500),
			bubbles:  bubbles,
			target:   Bubble{X: 10, Y: 350, Radius: 5},
			expected: 0.5,
		},
		{
			name:     "play area floor",
			basis:    HeightBasisPlayArea,
			area:     core.NewRect(0, 100, 800, 500),
			bubbles:  bubbles,
			target:   Bubble{X: 10, Y: 600, Radius: 5},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DefaultPolicy()
			policy.HeightBasis = tt.basis
			e := NewEvaluator(policy)

			got := e.HeightFactor(tt.target, Snapshot{Bubbles: tt.bubbles, PlayArea: tt.area})
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("HeightFactor() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestChainPotential(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	target := Bubble{X: 100, Y: 100, Radius: 10, HitCount: 1}

	tests := []struct {
		name     string
		bubbles  []Bubble
		expected int
	}{
		{
			name:     "alone",
			bubbles:  []Bubble{target},
			expected: 0,
		},
		{
			name: "inside and outside the threshold",
			bubbles: []Bubble{
				target,
				{X: 125, Y: 100, Radius: 10, HitCount: 1},
				{X: 131, Y: 100, Radius: 10, HitCount: 1},
				{X: 100, Y: 70, Radius: 10, HitCount: 4},
			},
			expected: 1,
		},
		{
			name: "equal value is not a neighbour",
			bubbles: []Bubble{
				target,
				target,
				{X: 100, Y: 100, Radius: 10, HitCount: 1, Color: color.RGBA{R: 255, A: 255}},
			},
			expected: 1,
		},
		{
			name: "larger neighbour reaches further",
			bubbles: []Bubble{
				target,
				{X: 150, Y: 100, Radius: 30, HitCount: 2},
			},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ChainPotential(target, tt.bubbles); got != tt.expected {
				t.Errorf("ChainPotential() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestShotKindString(t *testing.T) {
	if got := ShotDirect.String(); got != "direct" {
		t.Errorf("ShotDirect.String() = %q, expected %q", got, "direct")
	}
	if got := ShotBounced.String(); got != "bounced" {
		t.Errorf("ShotBounced.String() = %q, expected %q", got, "bounced")
	}
}
