// Package tappy implements Tappy Plane: a plane flies through a scrolling
// field of rocks while gravity pulls it down and the player's trigger pushes
// it up.
//
// The session is a state machine over four phases. Each tick samples the
// trigger once, advances the live phase and, when a transition fires,
// replaces the phase wholesale.
package tappy

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tappy/internal/assets"
	"github.com/vovakirdan/tui-tappy/internal/config"
	"github.com/vovakirdan/tui-tappy/internal/core"
	"github.com/vovakirdan/tui-tappy/internal/physics"
)

// countdownEpsilon absorbs the rounding error of summing fixed steps, so 240
// steps of 1/60 s reach a 4 s countdown on the 240th step.
const countdownEpsilon = 1e-9

// Input is the sampled trigger. *core.Trigger satisfies it.
type Input interface {
	Pressed() bool
}

// Canvas reports the drawable area. *core.Screen satisfies it.
type Canvas interface {
	Bounds() core.Rect
}

// Options configures a Game.
type Options struct {
	Config config.TappyConfig
	Input  Input
	Canvas Canvas
	Assets assets.Provider // Defaults to the embedded atlas
	Sides  SideSource      // Picks obstacle mounting sides
	Logger *log.Logger     // Defaults to discarding output

	// newWorld builds the physics world of each run. Tests swap it out.
	newWorld func(physics.Config) physicsWorld
}

// Game is one Tappy Plane session.
type Game struct {
	cfg      config.TappyConfig
	input    Input
	canvas   Canvas
	provider assets.Provider
	sides    SideSource
	log      *log.Logger
	newWorld func(physics.Config) physicsWorld

	atlas *assets.Atlas
	phase Phase
	ticks int
}

// New creates a session. Initialize must run before the first Update.
func New(opts Options) *Game {
	g := &Game{
		cfg:      opts.Config,
		input:    opts.Input,
		canvas:   opts.Canvas,
		provider: opts.Assets,
		sides:    opts.Sides,
		log:      opts.Logger,
		newWorld: opts.newWorld,
	}
	if g.provider == nil {
		g.provider = assets.Embedded()
	}
	if g.log == nil {
		g.log = log.New(io.Discard)
	}
	if g.newWorld == nil {
		g.newWorld = func(cfg physics.Config) physicsWorld {
			return physics.NewWorld(cfg)
		}
	}
	return g
}

// Initialize loads the atlas and enters the Waiting phase.
func (g *Game) Initialize(ctx context.Context) error {
	if g.input == nil || g.canvas == nil || g.sides == nil {
		return fmt.Errorf("tappy: input, canvas and side source are required")
	}
	atlas, err := assets.Load(ctx, g.provider, g.cfg.Assets.Atlas)
	if err != nil {
		return fmt.Errorf("tappy: load atlas: %w", err)
	}
	for _, name := range requiredTiles {
		if _, err := atlas.Tile(name); err != nil {
			return fmt.Errorf("tappy: %w", err)
		}
	}

	g.atlas = atlas
	g.phase = &Waiting{}
	g.log.Debug("session ready", "atlas", g.cfg.Assets.Atlas)
	return nil
}

// Phase returns the live phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Ticks returns the number of simulation ticks run.
func (g *Game) Ticks() int {
	return g.ticks
}

// Update advances the session by one fixed step of dt seconds.
func (g *Game) Update(dt float64) {
	g.tick(g.input.Pressed(), dt)
}

// tick runs one simulation step with an already sampled trigger.
func (g *Game) tick(pressed bool, dt float64) {
	if g.phase == nil {
		panic("tappy: update before Initialize")
	}
	g.ticks++

	next := g.advance(pressed, dt)
	if next == nil {
		return
	}
	g.log.Debug("phase change", "from", g.phase.Kind(), "to", next.Kind(), "tick", g.ticks)
	g.phase = next
}

// advance updates the live phase in place and returns its replacement, or
// nil to stay.
func (g *Game) advance(pressed bool, dt float64) Phase {
	switch p := g.phase.(type) {
	case *Waiting:
		if pressed {
			return newGetReady(g.cfg.Scroll.Speed)
		}
	case *GetReady:
		p.TimeElapsed += dt
		if p.TimeElapsed >= g.cfg.Countdown.Seconds-countdownEpsilon {
			if !g.roomy(g.canvas.Bounds()) {
				// Hold on the last countdown frame until the terminal grows.
				if !p.Held {
					g.log.Warn("canvas too small to play", "canvas", g.canvas.Bounds())
				}
				p.TimeElapsed = g.cfg.Countdown.Seconds
				p.Held = true
				return nil
			}
			return &Playing{
				ScrollSpeed: p.ScrollSpeed,
				Track:       NewTrack(g.sides, g.cfg.Scroll.BaseSpeed),
			}
		}
	case *Playing:
		return g.play(p, pressed, dt)
	case *GameOver:
		p.FramesElapsed = min(p.FramesElapsed+1, g.cfg.GameOver.FrameCap)
		if pressed {
			return newGetReady(g.cfg.Scroll.Speed)
		}
	default:
		panic(fmt.Sprintf("tappy: unknown phase %T", g.phase))
	}
	return nil
}

// play runs one Playing tick.
func (g *Game) play(p *Playing, pressed bool, dt float64) Phase {
	if p.Plane == nil {
		g.buildWorld(p)
	} else if pressed {
		p.world.ApplyImpulse(*p.Plane, g.cfg.Physics.FlapImpulse)
	}

	p.world.Step()
	pos := p.world.PositionOf(*p.Plane)

	p.PlaneFrame = (p.PlaneFrame + 1) % g.cfg.Plane.AnimationFrames

	layout := p.Track.Layout()
	p.Track.RetireOffscreen(-(layout.SpriteW + g.cfg.Obstacles.OffscreenMargin))
	p.Track.Advance(dt, p.ScrollSpeed)
	p.Track.SpawnIfNeeded(p.geom.canvasW, g.cfg.Obstacles.Spacing)
	p.Score += p.Track.MarkPassed(pos.X - p.geom.planeW/2)

	p.TerrainOffset = wrapOffset(p.TerrainOffset+dt*g.cfg.Scroll.BaseSpeed*p.ScrollSpeed, p.geom.terrainW)

	crashed := p.geom.outside(pos.Y)
	if !crashed && g.cfg.Hazards.Lethal {
		p.hazards.sync(p.Track.obstacles, layout)
		crashed = p.hazards.hits(pos)
	}
	if !crashed {
		return nil
	}

	g.log.Debug("crash", "y", pos.Y, "top", p.geom.top, "bottom", p.geom.bottom, "score", p.Score)
	return &GameOver{Final: p.scene(pos)}
}

// buildWorld resolves the run's geometry from the canvas and creates the
// physics world, its boundary colliders and the plane body.
func (g *Game) buildWorld(p *Playing) {
	canvas := g.canvas.Bounds()
	plane := g.mustTile(planeTile(0)).Region
	rock := g.mustTile(tileRockUp).Region
	terrain := g.mustTile(tileGround).Region

	ceiling := g.cfg.Boundaries.Ceiling
	floor := g.cfg.Boundaries.Floor
	top, bottom := g.band(canvas.H, plane.H)

	start := core.NewRect(g.cfg.Plane.X, (canvas.H-plane.H)/2, plane.W, plane.H)
	p.geom = geometry{
		canvasW:    float64(canvas.W),
		canvasH:    float64(canvas.H),
		planeW:     float64(plane.W),
		planeH:     float64(plane.H),
		planeStart: start,
		terrainW:   float64(terrain.W),
		top:        top,
		bottom:     bottom,
	}

	// Rocks are stretched to a fixed share of the play field so the gap
	// stays the same difficulty on any terminal height.
	field := canvas.H - ceiling - floor
	rockH := max(1, int(math.Round(float64(field)*g.cfg.Obstacles.HeightRatio)))
	p.Track.SetLayout(Layout{
		CanvasH: float64(canvas.H),
		Ceiling: float64(ceiling),
		Floor:   float64(floor),
		SpriteW: float64(rock.W),
		SpriteH: float64(rockH),
	})

	p.world = g.newWorld(physics.Config{
		Gravity:  g.cfg.Physics.Gravity,
		Timestep: g.cfg.FixedStep(),
		BodyMass: g.cfg.Physics.BodyMass,
		Damping:  g.cfg.Physics.Damping,
	})

	// Boundary slabs extend a full canvas height away from the play field so
	// a fast body cannot tunnel through a thin boundary.
	p.world.AddStaticCollider(core.NewRect(0, ceiling-canvas.H, canvas.W, canvas.H))
	p.world.AddStaticCollider(core.NewRect(0, canvas.H-floor, canvas.W, canvas.H))
	body := p.world.AddDynamicBody(start)
	p.Plane = &body

	p.hazards = newHazardField(canvas.W, canvas.H, int(math.Ceil(g.cfg.Obstacles.Spacing))+rock.W, p.geom.planeW, p.geom.planeH)
}

// band returns the range the plane center must stay within. The tolerance
// shrinks it so a plane resting on a boundary collider is outside.
func (g *Game) band(canvasH, planeH int) (top, bottom float64) {
	halfH := float64(planeH) / 2
	tolerance := g.cfg.Boundaries.Tolerance
	top = float64(g.cfg.Boundaries.Ceiling) + halfH + tolerance
	bottom = float64(canvasH-g.cfg.Boundaries.Floor) - halfH - tolerance
	return top, bottom
}

// roomy reports whether canvas can host a run: the band must not be empty,
// and the first rock must spawn at least one obstacle spacing to the right
// of the plane.
func (g *Game) roomy(canvas core.Rect) bool {
	plane := g.mustTile(planeTile(0)).Region
	minW := float64(g.cfg.Plane.X+plane.W) + g.cfg.Obstacles.Spacing
	if float64(canvas.W) < minW {
		return false
	}
	top, bottom := g.band(canvas.H, plane.H)
	return top < bottom
}

// scene freezes the drawable state of a run.
func (p *Playing) scene(plane core.Position) Scene {
	return Scene{
		Plane:         plane,
		PlaneFrame:    p.PlaneFrame,
		Obstacles:     p.Track.Obstacles(),
		Layout:        p.Track.Layout(),
		TerrainOffset: p.TerrainOffset,
		Score:         p.Score,
	}
}

// wrapOffset folds v into [0, width).
func wrapOffset(v, width float64) float64 {
	if width <= 0 {
		return 0
	}
	v = math.Mod(v, width)
	if v < 0 {
		v += width
	}
	if v >= width {
		v = 0
	}
	return v
}

// Snapshot is an immutable view of the session for hosts and tests.
type Snapshot struct {
	Kind          Kind
	Ticks         int
	Countdown     int  // Index into the countdown sprites during GetReady
	Plane         core.Position
	HasPlane      bool // Plane holds a physics position
	Obstacles     []Obstacle
	TerrainOffset float64
	Score         int
	FramesElapsed int
	BannerVisible bool // Game over banner is showing
	TooSmall      bool // The canvas cannot host a run
}

// Snapshot captures the current session state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{Ticks: g.ticks}
	if g.phase == nil {
		return s
	}
	s.Kind = g.phase.Kind()

	switch p := g.phase.(type) {
	case *Waiting:
		s.TooSmall = !g.roomy(g.canvas.Bounds())
	case *GetReady:
		s.Countdown = countdownIndex(p.TimeElapsed)
		s.TooSmall = !g.roomy(g.canvas.Bounds())
	case *Playing:
		s.Obstacles = p.Track.Obstacles()
		s.TerrainOffset = p.TerrainOffset
		s.Score = p.Score
		if p.Plane != nil {
			s.Plane = p.world.PositionOf(*p.Plane)
			s.HasPlane = true
		}
	case *GameOver:
		s.Plane = p.Final.Plane
		s.HasPlane = true
		s.Obstacles = p.Final.Obstacles
		s.TerrainOffset = p.Final.TerrainOffset
		s.Score = p.Final.Score
		s.FramesElapsed = p.FramesElapsed
		s.BannerVisible = p.FramesElapsed >= g.cfg.GameOver.GraceFrames
	}
	return s
}
