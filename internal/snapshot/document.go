// Package snapshot reads and writes board snapshots as YAML or JSON
// documents, and replays recorded documents as a bot source.
package snapshot

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

// ErrBadColor is returned for colors that are not #rrggbb.
var ErrBadColor = errors.New("snapshot: bad color")

// Document is the on-disk and on-the-wire form of a snapshot.
//
//	play_area: {x: 0, y: 0, width: 800, height: 600}
//	shooter: {x: 400, y: 500}
//	bubbles:
//	  - {x: 200, y: 150, r: 25, hits: 2, color: "#dc2828"}
type Document struct {
	PlayArea    Area     `yaml:"play_area" json:"play_area"`
	Shooter     Point    `yaml:"shooter" json:"shooter"`
	Bubbles     []Bubble `yaml:"bubbles" json:"bubbles"`
	Projectiles []Point  `yaml:"projectiles,omitempty" json:"projectiles,omitempty"`
}

// Area is a play area rectangle.
type Area struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Point is a screen position.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Bubble is one bubble entry.
type Bubble struct {
	X     int    `yaml:"x" json:"x"`
	Y     int    `yaml:"y" json:"y"`
	R     int    `yaml:"r" json:"r"`
	Hits  int    `yaml:"hits" json:"hits"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// FromSnapshot converts a planner snapshot into a document.
func FromSnapshot(s planner.Snapshot) Document {
	doc := Document{
		PlayArea: Area{X: s.PlayArea.X, Y: s.PlayArea.Y, Width: s.PlayArea.W, Height: s.PlayArea.H},
		Shooter:  Point{X: s.Shooter.X, Y: s.Shooter.Y},
		Bubbles:  make([]Bubble, 0, len(s.Bubbles)),
	}
	for _, b := range s.Bubbles {
		doc.Bubbles = append(doc.Bubbles, Bubble{
			X:     b.X,
			Y:     b.Y,
			R:     b.Radius,
			Hits:  b.HitCount,
			Color: FormatColor(b.Color),
		})
	}
	for _, p := range s.InFlight {
		doc.Projectiles = append(doc.Projectiles, Point{X: p.X, Y: p.Y})
	}
	return doc
}

// Snapshot converts the document into a planner snapshot. It checks colors
// only; geometry is left to planner validation.
func (d Document) Snapshot() (planner.Snapshot, error) {
	s := planner.Snapshot{
		PlayArea: core.NewRect(d.PlayArea.X, d.PlayArea.Y, d.PlayArea.Width, d.PlayArea.Height),
		Shooter:  core.Pt(d.Shooter.X, d.Shooter.Y),
		Bubbles:  make([]planner.Bubble, 0, len(d.Bubbles)),
	}
	for i, b := range d.Bubbles {
		c, err := ParseColor(b.Color)
		if err != nil {
			return planner.Snapshot{}, fmt.Errorf("snapshot: bubble %d: %w", i, err)
		}
		s.Bubbles = append(s.Bubbles, planner.Bubble{
			X:        b.X,
			Y:        b.Y,
			Radius:   b.R,
			HitCount: b.Hits,
			Color:    c,
		})
	}
	for _, p := range d.Projectiles {
		s.InFlight = append(s.InFlight, core.Pt(p.X, p.Y))
	}
	return s, nil
}

// Decode parses a YAML or JSON document.
func Decode(data []byte) (planner.Snapshot, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return planner.Snapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	return doc.Snapshot()
}

// Encode renders s as a YAML document.
func Encode(s planner.Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(FromSnapshot(s))
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return data, nil
}

// LoadFile reads and decodes a snapshot document.
func LoadFile(path string) (planner.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return planner.Snapshot{}, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	s, err := Decode(data)
	if err != nil {
		return planner.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseColor parses "#rrggbb". The empty string is the zero color.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{}, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// FormatColor renders c as "#rrggbb", or "" for the zero color.
func FormatColor(c color.RGBA) string {
	if c == (color.RGBA{}) {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
