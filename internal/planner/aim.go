package planner

import (
	"math"

	"github.com/vovakirdan/bubblebot/internal/core"
)

// AimPoint projects angle from origin by distance pixels, using the same
// convention as the simulator (0 = straight up, positive = rightward).
// Actuators receive this point instead of the raw angle.
func AimPoint(origin core.Point, angle float64, distance int) core.Point {
	d := float64(distance)
	x := float64(origin.X) + d*math.Sin(angle)
	y := float64(origin.Y) - d*math.Cos(angle) // y grows downward
	return core.Pt(int(x), int(y))
}

// AngleTo is the inverse of AimPoint: the launch angle that points from
// origin toward p. Points level with or below origin map to ±π/2.
func AngleTo(origin, p core.Point) float64 {
	dx := float64(p.X - origin.X)
	dy := float64(origin.Y - p.Y)
	if dy <= 0 {
		switch {
		case dx > 0:
			return math.Pi / 2
		case dx < 0:
			return -math.Pi / 2
		default:
			return 0
		}
	}
	return math.Atan2(dx, dy)
}
