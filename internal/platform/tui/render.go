package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

// Debug frame size in cells.
const (
	frameWidth  = 80
	frameHeight = 30
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// boardView maps play area pixels onto the inside of a bordered screen.
type boardView struct {
	area   core.Rect
	inner  core.Rect
	sx, sy float64
}

func newBoardView(dst *core.Screen, area core.Rect) boardView {
	inner := core.NewRect(1, 1, max(dst.Width()-2, 1), max(dst.Height()-2, 1))
	v := boardView{area: area, inner: inner, sx: 1, sy: 1}
	if area.W > 0 {
		v.sx = float64(inner.W) / float64(area.W)
	}
	if area.H > 0 {
		v.sy = float64(inner.H) / float64(area.H)
	}
	return v
}

// cell returns the screen cell for a play area point.
func (v boardView) cell(p core.Point) (int, int) {
	x := v.inner.X + int(float64(p.X-v.area.X)*v.sx)
	y := v.inner.Y + int(float64(p.Y-v.area.Y)*v.sy)
	return core.Clamp(x, v.inner.Left(), v.inner.Right()-1), core.Clamp(y, v.inner.Top(), v.inner.Bottom()-1)
}

// RenderBoard draws snap into dst: walls, bubbles labelled with their hit
// count, the shooter and, when shot is set, the aim ray out to aimDistance
// pixels (or to the target when aimDistance is not positive).
func RenderBoard(dst *core.Screen, snap planner.Snapshot, shot *planner.Shot, aimDistance int) {
	dst.Clear()
	dst.DrawBox(core.NewRect(0, 0, dst.Width(), dst.Height()), core.ColorGray)

	v := newBoardView(dst, snap.PlayArea)

	if shot != nil {
		dist := aimDistance
		if dist <= 0 {
			dist = int(snap.Shooter.Dist(shot.Target.Center()))
		}
		drawRay(dst, v, snap.Shooter, planner.AimPoint(snap.Shooter, shot.Angle, dist))
	}

	for i, b := range snap.Bubbles {
		targeted := shot != nil && shot.Index == i
		drawBubble(dst, v, b, targeted)
	}

	for _, p := range snap.InFlight {
		x, y := v.cell(p)
		dst.SetColored(x, y, '•', core.ColorBrightCyan)
	}

	x, y := v.cell(snap.Shooter)
	dst.SetColored(x, y, '▲', core.ColorBrightGreen)
}

func drawBubble(dst *core.Screen, v boardView, b planner.Bubble, targeted bool) {
	c := core.NearestColor(b.Color)
	if c == core.ColorDefault {
		c = core.ColorWhite
	}
	if targeted {
		c = core.ColorBrightRed
	}

	cx, cy := v.cell(b.Center())
	rx := float64(b.Radius) * v.sx
	ry := float64(b.Radius) * v.sy
	if rx >= 1 && ry >= 1 {
		for dy := -int(ry); dy <= int(ry); dy++ {
			for dx := -int(rx); dx <= int(rx); dx++ {
				nx, ny := float64(dx)/rx, float64(dy)/ry
				if nx*nx+ny*ny <= 1 && v.inner.Contains(cx+dx, cy+dy) {
					dst.SetColored(cx+dx, cy+dy, 'o', c)
				}
			}
		}
	}
	dst.SetColored(cx, cy, hitRune(b.HitCount), c)
}

func hitRune(hits int) rune {
	switch {
	case hits <= 0:
		return '0'
	case hits <= 9:
		return rune('0' + hits)
	default:
		return '+'
	}
}

// drawRay draws a dotted line between two play area points.
func drawRay(dst *core.Screen, v boardView, from, to core.Point) {
	x0, y0 := v.cell(from)
	x1, y1 := v.cell(to)

	dx := core.Abs(x1 - x0)
	dy := -core.Abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		dst.SetColored(x0, y0, '·', core.ColorYellow)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DebugFrame renders a round as plain text. It matches bot.FrameFunc.
func DebugFrame(snap planner.Snapshot, shot *planner.Shot, aimDistance int) string {
	screen := core.NewScreen(frameWidth, frameHeight)
	RenderBoard(screen, snap, shot, aimDistance)
	return screen.String()
}
