// Package physics owns the rigid-body simulation of one play session.
// Bodies and colliders live in the World's arena and are addressed by
// copyable handles, never by pointers, so game state can refer to them
// without sharing the engine's storage.
package physics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/tui-tappy/internal/core"
)

// Config holds the constants a World is built with.
type Config struct {
	Gravity  float64 // Downward acceleration in units per second squared
	Timestep float64 // Seconds advanced by a single Step
	BodyMass float64 // Mass of dynamic bodies
	Damping  float64 // Fraction of velocity kept per second; 0 or 1 disables damping
}

// DefaultConfig returns a 60 Hz world with gravity pulling downwards.
func DefaultConfig() Config {
	return Config{
		Gravity:  98.1,
		Timestep: 1.0 / 60.0,
		BodyMass: 1.0,
	}
}

// worldSeq hands out world identities. Handles remember the identity of the
// world that minted them.
var worldSeq atomic.Uint64

// BodyHandle names a dynamic body inside a World.
type BodyHandle struct {
	world uint64
	index int
}

// ColliderHandle names a static collider inside a World.
type ColliderHandle struct {
	world uint64
	index int
}

// World wraps a Chipmunk2D space. It is not safe for concurrent use; the
// game loop is its only caller.
type World struct {
	id        uint64
	cfg       Config
	space     *cp.Space
	bodies    []*cp.Body
	colliders []*cp.Shape
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	if cfg.Timestep <= 0 {
		cfg.Timestep = DefaultConfig().Timestep
	}
	if cfg.BodyMass <= 0 {
		cfg.BodyMass = DefaultConfig().BodyMass
	}

	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})
	if cfg.Damping > 0 && cfg.Damping < 1 {
		space.SetDamping(cfg.Damping)
	}

	return &World{
		id:    worldSeq.Add(1),
		cfg:   cfg,
		space: space,
	}
}

// Timestep returns the fixed step size in seconds.
func (w *World) Timestep() float64 {
	return w.cfg.Timestep
}

// AddStaticCollider inserts an immovable box centered on region.
func (w *World) AddStaticCollider(region core.Rect) ColliderHandle {
	w.mustExist()

	body := cp.NewStaticBody()
	body.SetPosition(toVector(region.Center()))
	w.space.AddBody(body)

	shape := cp.NewBox(body, float64(region.W), float64(region.H), 0)
	shape.SetElasticity(0)
	shape.SetFriction(0)
	w.space.AddShape(shape)

	w.colliders = append(w.colliders, shape)
	return ColliderHandle{world: w.id, index: len(w.colliders) - 1}
}

// AddDynamicBody inserts a gravity-driven body centered on region with a box
// collider of the same size. Horizontal translation and rotation are locked
// and the collider does not bounce.
func (w *World) AddDynamicBody(region core.Rect) BodyHandle {
	w.mustExist()

	// Infinite moment of inertia: contacts can never spin the body.
	body := cp.NewBody(w.cfg.BodyMass, math.Inf(1))
	body.SetPosition(toVector(region.Center()))
	body.SetVelocityUpdateFunc(lockHorizontal)
	w.space.AddBody(body)

	shape := cp.NewBox(body, float64(region.W), float64(region.H), 0)
	shape.SetElasticity(0)
	shape.SetFriction(0)
	w.space.AddShape(shape)

	w.bodies = append(w.bodies, body)
	return BodyHandle{world: w.id, index: len(w.bodies) - 1}
}

// Step advances the simulation by exactly one fixed timestep.
func (w *World) Step() {
	w.mustExist()
	w.space.Step(w.cfg.Timestep)
}

// ApplyImpulse applies an instantaneous vertical impulse to the body and
// wakes it. Negative values push upwards.
func (w *World) ApplyImpulse(h BodyHandle, vertical float64) {
	body := w.body(h)
	body.Activate()
	body.ApplyImpulseAtWorldPoint(cp.Vector{X: 0, Y: vertical}, body.Position())
}

// PositionOf returns the current center of the body.
func (w *World) PositionOf(h BodyHandle) core.Position {
	return fromVector(w.body(h).Position())
}

// VelocityOf returns the current velocity of the body.
func (w *World) VelocityOf(h BodyHandle) core.Position {
	return fromVector(w.body(h).Velocity())
}

// Bodies returns the number of dynamic bodies in the arena.
func (w *World) Bodies() int {
	return len(w.bodies)
}

// Colliders returns the number of static colliders in the arena.
func (w *World) Colliders() int {
	return len(w.colliders)
}

// body resolves a handle. A handle minted by another world means the caller
// kept it past the end of its session; continuing would read the wrong body.
func (w *World) body(h BodyHandle) *cp.Body {
	w.mustExist()
	if h.world != w.id {
		panic(fmt.Sprintf("physics: body handle from world %d used in world %d", h.world, w.id))
	}
	if h.index < 0 || h.index >= len(w.bodies) {
		panic(fmt.Sprintf("physics: body handle %d out of range", h.index))
	}
	return w.bodies[h.index]
}

func (w *World) mustExist() {
	if w == nil || w.space == nil {
		panic("physics: world not constructed")
	}
}

// lockHorizontal integrates velocity as usual and then pins the x component
// to zero, so the body only ever moves vertically.
func lockHorizontal(body *cp.Body, gravity cp.Vector, damping, dt float64) {
	cp.BodyUpdateVelocity(body, gravity, damping, dt)
	body.SetVelocity(0, body.Velocity().Y)
}

func toVector(p core.Position) cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}

func fromVector(v cp.Vector) core.Position {
	return core.Position{X: v.X, Y: v.Y}
}
