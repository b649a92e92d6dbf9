package tappy

import (
	"github.com/vovakirdan/tui-tappy/internal/core"
	"github.com/vovakirdan/tui-tappy/internal/physics"
)

// Kind identifies a phase without exposing its payload.
type Kind int

const (
	KindWaiting Kind = iota
	KindGetReady
	KindPlaying
	KindGameOver
)

// String returns the phase name.
func (k Kind) String() string {
	switch k {
	case KindWaiting:
		return "Waiting"
	case KindGetReady:
		return "GetReady"
	case KindPlaying:
		return "Playing"
	case KindGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Phase is the live state of a session. The set of phases is closed: only
// the four payload types below implement it.
type Phase interface {
	Kind() Kind
	isPhase()
}

// Waiting is the title screen.
type Waiting struct{}

// GetReady counts down before play starts.
type GetReady struct {
	ScrollSpeed float64
	TimeElapsed float64 // Seconds since the countdown began
	Held        bool    // Countdown finished but the canvas is too small
}

// Playing is an active run. The physics world belongs to this payload and
// is dropped with it.
type Playing struct {
	PlaneFrame    int     // Propeller animation frame
	ScrollSpeed   float64 // Constant for the run
	TerrainOffset float64 // Always within [0, terrain tile width)
	Score         int     // Obstacles passed
	Track         *Track
	Plane         *physics.BodyHandle // nil until the first tick

	world   physicsWorld
	hazards *hazardField
	geom    geometry
}

// GameOver follows a crash. Final is a frozen copy of the last frame of play,
// kept for drawing only.
type GameOver struct {
	FramesElapsed int
	Final         Scene
}

// Scene is what a renderer needs to paint the play field.
type Scene struct {
	Plane         core.Position // Plane center
	PlaneFrame    int
	Obstacles     []Obstacle
	Layout        Layout // Obstacle geometry
	TerrainOffset float64
	Score         int
}

func (*Waiting) Kind() Kind  { return KindWaiting }
func (*GetReady) Kind() Kind { return KindGetReady }
func (*Playing) Kind() Kind  { return KindPlaying }
func (*GameOver) Kind() Kind { return KindGameOver }

func (*Waiting) isPhase()  {}
func (*GetReady) isPhase() {}
func (*Playing) isPhase()  {}
func (*GameOver) isPhase() {}

// newGetReady starts a countdown at the session's constant scroll speed.
func newGetReady(scrollSpeed float64) *GetReady {
	return &GetReady{ScrollSpeed: scrollSpeed}
}

// geometry is resolved from the canvas and the atlas on the first Playing
// tick and stays fixed for the rest of the run.
type geometry struct {
	canvasW, canvasH float64
	planeW, planeH   float64
	planeStart       core.Rect
	terrainW         float64
	top, bottom      float64 // Band the plane center must stay within
}

// outside reports whether y has left the playable band.
func (g geometry) outside(y float64) bool {
	return y < g.top || y > g.bottom
}

// physicsWorld is the part of *physics.World a Playing phase drives.
type physicsWorld interface {
	AddStaticCollider(region core.Rect) physics.ColliderHandle
	AddDynamicBody(region core.Rect) physics.BodyHandle
	Step()
	ApplyImpulse(h physics.BodyHandle, vertical float64)
	PositionOf(h physics.BodyHandle) core.Position
}

var _ physicsWorld = (*physics.World)(nil)
