package tappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-tappy/internal/assets"
	"github.com/vovakirdan/tui-tappy/internal/core"
	"github.com/vovakirdan/tui-tappy/internal/engine"
)

// Atlas tile names.
const (
	tileRockUp   = "rock_up"
	tileRockDown = "rock_down"
	tileCeiling  = "ceiling"
	tileGround   = "ground"
	tileTitle    = "title"
	tileTap      = "tap"
	tileGetReady = "get_ready"
	tileGameOver = "game_over"
)

// planeFrames is the number of distinct plane sprites.
const planeFrames = 3

var countdownTiles = []string{"countdown_3", "countdown_2", "countdown_1", "countdown_go"}

var requiredTiles = append([]string{
	"plane_1", "plane_2", "plane_3",
	tileRockUp, tileRockDown, tileCeiling, tileGround,
	tileTitle, tileTap, tileGetReady, tileGameOver,
}, countdownTiles...)

// planeTile maps an animation frame onto one of the plane sprites, each shown
// for an equal share of the cycle.
func planeTile(frame int) string {
	return fmt.Sprintf("plane_%d", 1+frame/20%planeFrames)
}

// countdownIndex truncates elapsed seconds to a countdown sprite, clamped so
// an oversized step can never run past the last sprite.
func countdownIndex(elapsed float64) int {
	return core.Clamp(int(elapsed), 0, len(countdownTiles)-1)
}

// Draw paints the live phase. A rejected draw call leaves the frame
// inconsistent with the simulation, so it panics.
func (g *Game) Draw(r engine.Renderer) {
	if g.phase == nil {
		return
	}
	canvas := g.canvas.Bounds()
	r.ClearRect(canvas)

	switch p := g.phase.(type) {
	case *Waiting:
		g.drawTerrain(r, canvas, 0)
		g.drawCentered(r, canvas, tileTitle, canvas.H/3)
		g.drawCentered(r, canvas, tileTap, canvas.H/3+2)
	case *GetReady:
		g.drawTerrain(r, canvas, 0)
		g.drawSprite(r, planeTile(0), g.startCenter(canvas))
		g.drawCentered(r, canvas, tileGetReady, canvas.H/3)
		g.drawCentered(r, canvas, countdownTiles[countdownIndex(p.TimeElapsed)], canvas.H/3+2)
	case *Playing:
		scene := Scene{
			Layout:        p.Track.Layout(),
			Plane:         g.startCenter(canvas),
			PlaneFrame:    p.PlaneFrame,
			Obstacles:     p.Track.obstacles,
			TerrainOffset: p.TerrainOffset,
		}
		if p.Plane != nil {
			scene.Plane = p.world.PositionOf(*p.Plane)
		}
		g.drawScene(r, canvas, scene)
	case *GameOver:
		g.drawScene(r, canvas, p.Final)
		if p.FramesElapsed >= g.cfg.GameOver.GraceFrames {
			g.drawCentered(r, canvas, tileGameOver, canvas.H/3)
			g.drawCentered(r, canvas, tileTap, canvas.H/3+2)
		}
	}
}

func (g *Game) drawScene(r engine.Renderer, canvas core.Rect, s Scene) {
	for _, o := range s.Obstacles {
		name := tileRockDown
		if o.Side == SideBottom {
			name = tileRockUp
		}
		g.mustDraw(r, g.mustTile(name).Region, o.Rect(s.Layout))
	}
	g.drawTerrain(r, canvas, s.TerrainOffset)
	g.drawSprite(r, planeTile(s.PlaneFrame), s.Plane)
}

// drawTerrain tiles the ceiling and ground across the canvas, shifted left
// by offset.
func (g *Game) drawTerrain(r engine.Renderer, canvas core.Rect, offset float64) {
	ceiling := g.mustTile(tileCeiling)
	ground := g.mustTile(tileGround)
	ceilH := g.cfg.Boundaries.Ceiling
	floorH := g.cfg.Boundaries.Floor

	if ceilH > 0 {
		start := -int(wrapOffset(offset, float64(ceiling.Region.W)))
		for x := start; x < canvas.W; x += ceiling.Region.W {
			g.mustDraw(r, ceiling.Region, core.NewRect(x, 0, ceiling.Region.W, ceilH))
		}
	}
	if floorH > 0 {
		start := -int(wrapOffset(offset, float64(ground.Region.W)))
		for x := start; x < canvas.W; x += ground.Region.W {
			g.mustDraw(r, ground.Region, core.NewRect(x, canvas.H-floorH, ground.Region.W, floorH))
		}
	}
}

// drawSprite draws a tile centered on center.
func (g *Game) drawSprite(r engine.Renderer, name string, center core.Position) {
	t := g.mustTile(name)
	x := int(math.Round(center.X - float64(t.Region.W)/2))
	y := int(math.Round(center.Y - float64(t.Region.H)/2))
	g.mustDraw(r, t.Region, core.NewRect(x, y, t.Region.W, t.Region.H))
}

// drawCentered draws a tile horizontally centered at row y.
func (g *Game) drawCentered(r engine.Renderer, canvas core.Rect, name string, y int) {
	t := g.mustTile(name)
	x := (canvas.W - t.Region.W) / 2
	g.mustDraw(r, t.Region, core.NewRect(x, y, t.Region.W, t.Region.H))
}

// startCenter is where the plane waits before its body exists.
func (g *Game) startCenter(canvas core.Rect) core.Position {
	plane := g.mustTile(planeTile(0)).Region
	return core.NewRect(g.cfg.Plane.X, (canvas.H-plane.H)/2, plane.W, plane.H).Center()
}

func (g *Game) mustDraw(r engine.Renderer, src, dst core.Rect) {
	if err := r.DrawImage(g.atlas.Image, src, dst); err != nil {
		panic(fmt.Sprintf("tappy: draw rejected: %v", err))
	}
}

func (g *Game) mustTile(name string) assets.Tile {
	t, err := g.atlas.Tile(name)
	if err != nil {
		panic(fmt.Sprintf("tappy: %v", err))
	}
	return t
}
