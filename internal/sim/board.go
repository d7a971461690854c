package sim

import (
	"image/color"
	"math/rand"
	"strings"

	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

// bubbleColors are the tags handed out to generated bubbles.
var bubbleColors = []color.RGBA{
	{R: 220, G: 40, B: 40, A: 255},
	{R: 40, G: 180, B: 60, A: 255},
	{R: 230, G: 210, B: 40, A: 255},
	{R: 40, G: 80, B: 220, A: 255},
	{R: 200, G: 50, B: 200, A: 255},
	{R: 40, G: 200, B: 210, A: 255},
}

// cellSize returns the horizontal and vertical pitch of the bubble grid.
func cellSize(cfg config.SimConfig) (w, h int) {
	cols := max(cfg.Cols, 1)
	return cfg.Width / cols, 2*cfg.Radius + cfg.Radius/2
}

// cellCenter returns the centre of grid cell (row, col). Odd rows are
// shifted a quarter cell to the right.
func cellCenter(cfg config.SimConfig, row, col int) (x, y int) {
	cw, ch := cellSize(cfg)
	x = col*cw + cw/2
	if row%2 == 1 {
		x += cw / 4
	}
	y = cfg.Radius*2 + row*ch
	return x, y
}

// GenerateBoard fills cfg.Rows rows of cfg.Cols bubbles with random hit counts.
func GenerateBoard(cfg config.SimConfig, rng *rand.Rand) []planner.Bubble {
	maxHits := max(cfg.MaxHits, 1)
	bubbles := make([]planner.Bubble, 0, cfg.Rows*cfg.Cols)
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			x, y := cellCenter(cfg, row, col)
			bubbles = append(bubbles, planner.Bubble{
				X:        x,
				Y:        y,
				Radius:   cfg.Radius,
				HitCount: 1 + rng.Intn(maxHits),
				Color:    bubbleColors[rng.Intn(len(bubbleColors))],
			})
		}
	}
	return bubbles
}

// ParseBoard creates bubbles from an ASCII map laid over the grid.
// Characters:
//
//	'.' or ' ' = empty cell
//	'1'-'9'    = bubble with that many hits left
//	'#'        = bubble with cfg.MaxHits hits left
func ParseBoard(cfg config.SimConfig, lines []string) []planner.Bubble {
	var bubbles []planner.Bubble
	for row, line := range lines {
		line = strings.TrimRight(line, " ")
		for col, ch := range line {
			hits := 0
			switch {
			case ch >= '1' && ch <= '9':
				hits = int(ch - '0')
			case ch == '#':
				hits = max(cfg.MaxHits, 1)
			default:
				continue
			}
			x, y := cellCenter(cfg, row, col)
			bubbles = append(bubbles, planner.Bubble{
				X:        x,
				Y:        y,
				Radius:   cfg.Radius,
				HitCount: hits,
				Color:    bubbleColors[(row+col)%len(bubbleColors)],
			})
		}
	}
	return bubbles
}
