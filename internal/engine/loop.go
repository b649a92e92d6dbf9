// Package engine runs a game on a fixed timestep. Host frame callbacks arrive
// at whatever cadence the host manages; the loop turns the elapsed time into
// whole simulation ticks and draws exactly once per callback.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tappy/internal/core"
)

var (
	// ErrNoRenderer is returned by Start when no drawing surface is given.
	ErrNoRenderer = errors.New("engine: no renderer")
	// ErrNoFrameSource is returned by Start when no frame scheduler is given.
	ErrNoFrameSource = errors.New("engine: no frame source")
)

// DefaultTickRate is the number of simulation ticks per second.
const DefaultTickRate = 60

// Game is driven by the loop.
type Game interface {
	// Initialize runs once before the first frame. It is the loop's only
	// suspension point (asset loading).
	Initialize(ctx context.Context) error
	// Update advances the simulation by dt seconds.
	Update(dt float64)
	// Draw paints the latest state.
	Draw(r Renderer)
}

// Renderer is the drawing surface.
type Renderer interface {
	ClearRect(region core.Rect)
	DrawImage(img *core.Image, src, dst core.Rect) error
}

// FrameSource delivers animation callbacks. Timestamps are monotonic
// milliseconds.
type FrameSource interface {
	Now() (float64, error)
	RequestFrame(cb func(timestamp float64)) error
}

// Stats describes loop progress.
type Stats struct {
	Ticks       int     // Simulation ticks run
	Frames      int     // Draw calls made
	Accumulated float64 // Milliseconds not yet consumed by a tick
}

// Loop is a running fixed-timestep loop.
type Loop struct {
	game     Game
	renderer Renderer
	frames   FrameSource
	log      *log.Logger

	step        float64 // Fixed step in milliseconds
	lastFrame   float64
	accumulated float64
	stats       Stats
}

// Option configures Start.
type Option func(*Loop)

// WithTickRate sets the number of ticks per second.
func WithTickRate(rate float64) Option {
	return func(l *Loop) {
		if rate > 0 {
			l.step = 1000 / rate
		}
	}
}

// WithLogger sets the loop logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.log = logger
		}
	}
}

// Start initializes game and requests the first frame. Any failure here is
// fatal: the loop is not started.
func Start(ctx context.Context, game Game, renderer Renderer, frames FrameSource, opts ...Option) (*Loop, error) {
	if renderer == nil {
		return nil, ErrNoRenderer
	}
	if frames == nil {
		return nil, ErrNoFrameSource
	}

	l := &Loop{
		game:     game,
		renderer: renderer,
		frames:   frames,
		log:      log.New(io.Discard),
		step:     1000.0 / DefaultTickRate,
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := game.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("engine: initialize game: %w", err)
	}

	now, err := frames.Now()
	if err != nil {
		return nil, fmt.Errorf("engine: read clock: %w", err)
	}
	l.lastFrame = now

	if err := frames.RequestFrame(l.frame); err != nil {
		return nil, fmt.Errorf("engine: request first frame: %w", err)
	}

	l.log.Info("loop started", "step_ms", l.step)
	return l, nil
}

// frame is the animation callback.
func (l *Loop) frame(timestamp float64) {
	elapsed := timestamp - l.lastFrame
	if elapsed < 0 {
		elapsed = 0
	}
	l.accumulated += elapsed

	for l.accumulated >= l.step {
		l.game.Update(l.step / 1000)
		l.accumulated -= l.step
		l.stats.Ticks++
	}

	l.game.Draw(l.renderer)
	l.stats.Frames++
	l.lastFrame = timestamp

	if err := l.frames.RequestFrame(l.frame); err != nil {
		panic(fmt.Sprintf("engine: request frame: %v", err))
	}
}

// Stats returns loop progress.
func (l *Loop) Stats() Stats {
	s := l.stats
	s.Accumulated = l.accumulated
	return s
}
