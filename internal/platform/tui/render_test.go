package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

// 42x32 cells leave a 40x30 interior, 1/20 of an 800x600 play area.
func boardScreen() *core.Screen {
	return core.NewScreen(42, 32)
}

func singleBubble(hits int) planner.Snapshot {
	return planner.Snapshot{
		Bubbles:  []planner.Bubble{{X: 400, Y: 300, Radius: 20, HitCount: hits}},
		Shooter:  core.Pt(400, 500),
		PlayArea: core.NewRect(0, 0, 800, 600),
	}
}

func TestRenderBoard(t *testing.T) {
	screen := boardScreen()
	snap := singleBubble(2)
	shot := &planner.Shot{Angle: 0, Target: snap.Bubbles[0], Index: 0}

	RenderBoard(screen, snap, shot, 200)

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"top left corner", 0, 0, '┌'},
		{"bottom right corner", 41, 31, '┘'},
		{"hit count", 21, 16, '2'},
		{"bubble body", 20, 16, 'o'},
		{"shooter", 21, 26, '▲'},
		{"aim ray", 21, 21, '·'},
		{"empty", 5, 5, ' '},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := screen.Get(tt.x, tt.y); got != tt.want {
				t.Errorf("Get(%d, %d) = %q, expected %q", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if c := screen.GetCell(21, 16).Color; c != core.ColorBrightRed {
		t.Errorf("target color = %v, expected %v", c, core.ColorBrightRed)
	}
}

func TestRenderBoardClipsBubblesToBorder(t *testing.T) {
	screen := boardScreen()
	snap := planner.Snapshot{
		Bubbles:  []planner.Bubble{{X: 0, Y: 300, Radius: 100, HitCount: 1}},
		Shooter:  core.Pt(400, 500),
		PlayArea: core.NewRect(0, 0, 800, 600),
	}

	RenderBoard(screen, snap, nil, 0)

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"left border", 0, 16, '│'},
		{"hit count on the wall", 1, 16, '1'},
		{"bubble body", 2, 16, 'o'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := screen.Get(tt.x, tt.y); got != tt.want {
				t.Errorf("Get(%d, %d) = %q, expected %q", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderBoardWithoutShot(t *testing.T) {
	screen := boardScreen()
	RenderBoard(screen, singleBubble(1), nil, 200)

	if strings.ContainsRune(screen.String(), '·') {
		t.Error("RenderBoard() drew an aim ray without a shot")
	}
	if c := screen.GetCell(21, 16).Color; c != core.ColorWhite {
		t.Errorf("untagged bubble color = %v, expected %v", c, core.ColorWhite)
	}
}

func TestHitRune(t *testing.T) {
	tests := []struct {
		hits int
		want rune
	}{
		{0, '0'},
		{1, '1'},
		{9, '9'},
		{12, '+'},
	}

	for _, tt := range tests {
		if got := hitRune(tt.hits); got != tt.want {
			t.Errorf("hitRune(%d) = %q, expected %q", tt.hits, got, tt.want)
		}
	}
}

func TestDebugFrame(t *testing.T) {
	frame := DebugFrame(singleBubble(3), nil, 0)

	lines := strings.Split(frame, "\n")
	if len(lines) != frameHeight {
		t.Fatalf("DebugFrame() = %d lines, expected %d", len(lines), frameHeight)
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != frameWidth {
			t.Errorf("line %d has %d cells, expected %d", i, n, frameWidth)
		}
	}
	if !strings.ContainsRune(frame, '3') {
		t.Error("DebugFrame() lost the hit count")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	screen := core.NewScreen(4, 1)
	screen.DrawText(0, 0, "ab")
	screen.SetColored(2, 0, 'c', core.ColorRed)

	out := RenderScreen(screen)
	for _, r := range "abc" {
		if !strings.ContainsRune(out, r) {
			t.Errorf("RenderScreen() = %q, missing %q", out, r)
		}
	}
}
