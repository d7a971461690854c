package core

import "image/color"

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined terminal colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// palette holds reference RGB values for the colors a bubble tag can map to.
var palette = []struct {
	c   Color
	rgb color.RGBA
}{
	{ColorRed, color.RGBA{R: 220, G: 40, B: 40, A: 255}},
	{ColorGreen, color.RGBA{R: 40, G: 180, B: 60, A: 255}},
	{ColorYellow, color.RGBA{R: 230, G: 210, B: 40, A: 255}},
	{ColorBlue, color.RGBA{R: 40, G: 80, B: 220, A: 255}},
	{ColorMagenta, color.RGBA{R: 200, G: 50, B: 200, A: 255}},
	{ColorCyan, color.RGBA{R: 40, G: 200, B: 210, A: 255}},
	{ColorWhite, color.RGBA{R: 230, G: 230, B: 230, A: 255}},
	{ColorOrange, color.RGBA{R: 240, G: 140, B: 30, A: 255}},
	{ColorGray, color.RGBA{R: 128, G: 128, B: 128, A: 255}},
}

// NearestColor maps an arbitrary RGB tag to the closest terminal color.
// A zero value (fully transparent black) maps to ColorDefault.
func NearestColor(c color.RGBA) Color {
	if c == (color.RGBA{}) {
		return ColorDefault
	}

	best := ColorDefault
	bestDist := -1
	for _, p := range palette {
		dr := int(c.R) - int(p.rgb.R)
		dg := int(c.G) - int(p.rgb.G)
		db := int(c.B) - int(p.rgb.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best = p.c
			bestDist = d
		}
	}
	return best
}
