package tappy

import (
	"math"

	"github.com/vovakirdan/tui-tappy/internal/core"
)

// Side says which boundary an obstacle is mounted on.
type Side int

const (
	SideTop    Side = iota // Hangs from the ceiling
	SideBottom             // Stands on the floor
)

// String returns the side name.
func (s Side) String() string {
	if s == SideTop {
		return "top"
	}
	return "bottom"
}

// SideSource picks the mounting side of each new obstacle.
// *rand.Rand satisfies it.
type SideSource interface {
	Intn(n int) int
}

// Obstacle is one rock on the track. Pos is the sprite's top-left corner.
type Obstacle struct {
	Pos    core.Position
	Side   Side
	Passed bool // Whether the plane has flown past it (for scoring)
}

// Layout holds the geometry an obstacle is placed against.
type Layout struct {
	CanvasH float64 // Canvas height
	Ceiling float64 // Ceiling thickness
	Floor   float64 // Floor thickness
	SpriteW float64 // Obstacle sprite width
	SpriteH float64 // Obstacle sprite height
}

// Track is the scrolling, self-pruning sequence of obstacles.
// Order is spawn order, which is also left-to-right screen order.
type Track struct {
	obstacles []Obstacle
	sides     SideSource
	baseSpeed float64 // Units per second at scroll speed 1.0
	layout    Layout
}

// NewTrack creates an empty track.
func NewTrack(sides SideSource, baseSpeed float64) *Track {
	return &Track{
		obstacles: make([]Obstacle, 0, 8),
		sides:     sides,
		baseSpeed: baseSpeed,
	}
}

// SetLayout fixes the geometry used to place new obstacles.
func (t *Track) SetLayout(l Layout) {
	t.layout = l
}

// Layout returns the placement geometry.
func (t *Track) Layout() Layout {
	return t.layout
}

// Len returns the number of obstacles on the track.
func (t *Track) Len() int {
	return len(t.obstacles)
}

// Obstacles returns a copy of the current obstacles.
func (t *Track) Obstacles() []Obstacle {
	out := make([]Obstacle, len(t.obstacles))
	copy(out, t.obstacles)
	return out
}

// RetireOffscreen removes every obstacle whose x is below thresholdX,
// keeping the rest in order. Returns how many were removed.
func (t *Track) RetireOffscreen(thresholdX float64) int {
	kept := t.obstacles[:0]
	for _, o := range t.obstacles {
		if o.Pos.X >= thresholdX {
			kept = append(kept, o)
		}
	}
	removed := len(t.obstacles) - len(kept)
	clear(t.obstacles[len(kept):])
	t.obstacles = kept
	return removed
}

// Advance scrolls every obstacle left by the distance covered in dt.
func (t *Track) Advance(dt, scrollSpeed float64) {
	dx := dt * t.baseSpeed * scrollSpeed
	for i := range t.obstacles {
		t.obstacles[i].Pos.X -= dx
	}
}

// SpawnIfNeeded places the first obstacle at canvasW, or appends one spacing
// to the right of the last obstacle once that one has scrolled to
// canvasW-spacing or further left. Reports whether an obstacle was added.
func (t *Track) SpawnIfNeeded(canvasW, spacing float64) bool {
	if len(t.obstacles) == 0 {
		t.spawn(canvasW)
		return true
	}

	last := t.obstacles[len(t.obstacles)-1]
	if last.Pos.X <= canvasW-spacing {
		t.spawn(last.Pos.X + spacing)
		return true
	}
	return false
}

// MarkPassed flags obstacles whose right edge is left of planeX and returns
// how many were newly passed.
func (t *Track) MarkPassed(planeX float64) int {
	passed := 0
	for i := range t.obstacles {
		o := &t.obstacles[i]
		if !o.Passed && o.Pos.X+t.layout.SpriteW < planeX {
			o.Passed = true
			passed++
		}
	}
	return passed
}

func (t *Track) spawn(x float64) {
	side := SideTop
	if t.sides.Intn(2) == 1 {
		side = SideBottom
	}
	t.obstacles = append(t.obstacles, Obstacle{
		Pos:  core.Position{X: x, Y: t.placeY(side)},
		Side: side,
	})
}

// placeY keeps the visible edge flush with the boundary the obstacle is
// mounted on.
func (t *Track) placeY(side Side) float64 {
	if side == SideTop {
		return t.layout.Ceiling
	}
	return t.layout.CanvasH - t.layout.Floor - t.layout.SpriteH
}

// Rect returns the obstacle's bounding box in whole cells.
func (o Obstacle) Rect(l Layout) core.Rect {
	return core.NewRect(int(math.Floor(o.Pos.X)), int(math.Floor(o.Pos.Y)), int(l.SpriteW), int(l.SpriteH))
}
