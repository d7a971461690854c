//go:build desktop

package desktop

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

// Detector turns a BGR screenshot into a snapshot.
type Detector struct {
	cfg config.DetectConfig
}

// NewDetector creates a detector.
func NewDetector(cfg config.DetectConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Detect finds the play area, the bubbles inside it, the shooter and any
// projectiles in flight. Coordinates are in screenshot pixels.
func (d *Detector) Detect(img gocv.Mat) planner.Snapshot {
	screen := image.Rect(0, 0, img.Cols(), img.Rows())
	bounds, found := d.largestContour(img)
	area := PlayArea(bounds, found, screen, d.cfg)

	rect := image.Rect(area.X, area.Y, area.Right(), area.Bottom()).Intersect(screen)
	region := img.Region(rect)
	defer region.Close()

	return planner.Snapshot{
		Bubbles:  d.bubbles(region, rect.Min),
		Shooter:  Shooter(area, d.cfg),
		InFlight: d.projectiles(region, rect.Min),
		PlayArea: area,
	}
}

// largestContour returns the bounds of the largest edge contour.
func (d *Detector) largestContour(img gocv.Mat) (image.Rectangle, bool) {
	gray := gocv.NewMat()
	blurred := gocv.NewMat()
	edges := gocv.NewMat()
	defer gray.Close()
	defer blurred.Close()
	defer edges.Close()

	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(gray, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)
	gocv.Canny(blurred, &edges, 50, 150)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return image.Rectangle{}, false
	}

	best, bestArea := 0, -1.0
	for i := range contours.Size() {
		if a := gocv.ContourArea(contours.At(i)); a > bestArea {
			best, bestArea = i, a
		}
	}
	return gocv.BoundingRect(contours.At(best)), true
}

// bubbles thresholds region in HSV and keeps round contours of bubble size.
func (d *Detector) bubbles(region gocv.Mat, offset image.Point) []planner.Bubble {
	hsv := gocv.NewMat()
	mask := gocv.NewMat()
	defer hsv.Close()
	defer mask.Close()

	gocv.CvtColor(region, &hsv, gocv.ColorBGRToHSV)
	lower := gocv.NewScalar(float64(d.cfg.HueMin), float64(d.cfg.SatMin), float64(d.cfg.ValMin), 0)
	upper := gocv.NewScalar(float64(d.cfg.HueMax), 255, 255, 0)
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var bubbles []planner.Bubble
	for i := range contours.Size() {
		contour := contours.At(i)
		if gocv.ContourArea(contour) < float64(d.cfg.MinArea) {
			continue
		}

		x, y, radius := gocv.MinEnclosingCircle(contour)
		if !RadiusInRange(float64(radius), d.cfg) {
			continue
		}

		cx, cy, r := int(x), int(y), int(radius)
		bubbles = append(bubbles, planner.Bubble{
			X:        cx + offset.X,
			Y:        cy + offset.Y,
			Radius:   r,
			HitCount: hitCount(region, cx, cy, r),
			Color:    meanColor(region, cx, cy, r),
		})
	}
	return bubbles
}

// hitCount reads the digit on a bubble from the white ratio of its
// Otsu-thresholded centre.
func hitCount(region gocv.Mat, x, y, radius int) int {
	box := centreBox(x, y, radius, image.Rect(0, 0, region.Cols(), region.Rows()))
	if box.Empty() {
		return 1
	}

	centre := region.Region(box)
	gray := gocv.NewMat()
	thresh := gocv.NewMat()
	defer centre.Close()
	defer gray.Close()
	defer thresh.Close()

	gocv.CvtColor(centre, &gray, gocv.ColorBGRToGray)
	gocv.Threshold(gray, &thresh, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	total := thresh.Total()
	if total == 0 {
		return 1
	}
	return HitCountFromRatio(float64(gocv.CountNonZero(thresh)) / float64(total))
}

// meanColor averages the pixels inside the bubble's circle.
func meanColor(region gocv.Mat, x, y, radius int) color.RGBA {
	mask := gocv.Zeros(region.Rows(), region.Cols(), gocv.MatTypeCV8UC1)
	defer mask.Close()
	gocv.Circle(&mask, image.Pt(x, y), radius, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	mean := region.MeanWithMask(mask)
	// Channels are BGR.
	return color.RGBA{R: uint8(mean.Val3), G: uint8(mean.Val2), B: uint8(mean.Val1), A: 255}
}

// projectiles finds small bright circles.
func (d *Detector) projectiles(region gocv.Mat, offset image.Point) []core.Point {
	gray := gocv.NewMat()
	circles := gocv.NewMat()
	defer gray.Close()
	defer circles.Close()

	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)
	gocv.HoughCirclesWithParams(gray, &circles, gocv.HoughGradient, 1, 20, 50, 30, 3, 10)

	var points []core.Point
	for i := 0; i < circles.Cols(); i++ {
		v := circles.GetVecfAt(0, i)
		if len(v) < 2 {
			continue
		}
		points = append(points, core.Pt(int(v[0])+offset.X, int(v[1])+offset.Y))
	}
	return points
}
