// Package planner is the trajectory planning and shot selection engine.
//
// Given a Snapshot of the board it orders candidate bubbles, simulates direct
// and wall-bounced projectile paths under simplified physics, scores every
// viable shot and returns the single best one. Every call is a pure function
// of its inputs: no I/O, no logging, no state carried between calls.
package planner

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/vovakirdan/bubblebot/internal/core"
)

// ErrMalformedSnapshot is returned when a snapshot cannot be planned against.
// It is fatal to the current cycle only.
var ErrMalformedSnapshot = errors.New("planner: malformed snapshot")

// Bubble is a target on the board. Bubbles have no identity beyond their
// value; two equal bubbles in one snapshot are legal.
type Bubble struct {
	X, Y     int        // Center
	Radius   int        // Radius in pixels
	HitCount int        // Remaining hits to clear
	Color    color.RGBA // Appearance tag, opaque to the planner
}

// Center returns the bubble's center as a point.
func (b Bubble) Center() core.Point {
	return core.Pt(b.X, b.Y)
}

// Snapshot is one observation of the game, produced by a perception source.
type Snapshot struct {
	Bubbles  []Bubble
	Shooter  core.Point   // Projectile origin for this call
	InFlight []core.Point // Projectiles already travelling; informational only
	PlayArea core.Rect    // Walls at Left/Right, ceiling at Top, floor at Bottom
}

// Validate reports whether the snapshot can be planned against.
// The returned error wraps ErrMalformedSnapshot.
func (s Snapshot) Validate() error {
	if s.PlayArea.Empty() {
		return fmt.Errorf("%w: play area %dx%d has no extent", ErrMalformedSnapshot, s.PlayArea.W, s.PlayArea.H)
	}
	if !s.PlayArea.Encloses(s.Shooter) {
		return fmt.Errorf("%w: shooter (%d, %d) outside play area %+v",
			ErrMalformedSnapshot, s.Shooter.X, s.Shooter.Y, s.PlayArea)
	}
	for i, b := range s.Bubbles {
		if b.Radius <= 0 {
			return fmt.Errorf("%w: bubble %d has radius %d", ErrMalformedSnapshot, i, b.Radius)
		}
		if b.HitCount < 0 {
			return fmt.Errorf("%w: bubble %d has hit count %d", ErrMalformedSnapshot, i, b.HitCount)
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Bubbles = append([]Bubble(nil), s.Bubbles...)
	out.InFlight = append([]core.Point(nil), s.InFlight...)
	return out
}
