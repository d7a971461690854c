// Package desktop drives a bubble shooter running on the local desktop:
// it captures the screen, detects bubbles with OpenCV and shoots with the
// mouse. Capture and detection need cgo and are built with the "desktop"
// tag; the heuristics in this file are plain Go.
package desktop

import (
	"image"

	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/core"
)

// HitCountFromRatio estimates a bubble's hit count from the share of bright
// pixels in its thresholded centre. More digit strokes mean more white.
func HitCountFromRatio(ratio float64) int {
	switch {
	case ratio < 0.1:
		return 1
	case ratio < 0.2:
		return 2
	case ratio < 0.3:
		return 3
	default:
		return core.Clamp(int(ratio*10), 1, 9)
	}
}

// PlayArea picks the play area from the largest contour's bounds. Bounds
// smaller than the configured minimum fall back to the centre half of the
// screen.
func PlayArea(bounds image.Rectangle, found bool, screen image.Rectangle, cfg config.DetectConfig) core.Rect {
	if found && bounds.Dx() >= cfg.MinAreaWidth && bounds.Dy() >= cfg.MinAreaHeight {
		return core.NewRect(bounds.Min.X, bounds.Min.Y, bounds.Dx(), bounds.Dy())
	}
	w, h := screen.Dx(), screen.Dy()
	return core.NewRect(screen.Min.X+w/4, screen.Min.Y+h/4, w/2, h/2)
}

// Shooter returns the shooter position: bottom centre of the play area,
// raised by the configured offset.
func Shooter(area core.Rect, cfg config.DetectConfig) core.Point {
	return core.Pt(area.X+area.W/2, area.Bottom()-cfg.ShooterOffset)
}

// RadiusInRange reports whether r is an acceptable bubble radius.
func RadiusInRange(r float64, cfg config.DetectConfig) bool {
	return r >= float64(cfg.MinRadius) && r <= float64(cfg.MaxRadius)
}

// centreBox returns the square of half the radius around (x, y), clipped
// to bounds.
func centreBox(x, y, radius int, bounds image.Rectangle) image.Rectangle {
	half := radius / 2
	return image.Rect(x-half, y-half, x+half, y+half).Intersect(bounds)
}
