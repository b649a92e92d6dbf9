// Package tui hosts the game in a terminal through Bubble Tea. It acts as the
// loop's frame source, feeds keyboard, mouse and focus events into the
// trigger, and presents the screen buffer with lipgloss styling.
package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is delivered when a requested frame is due.
type TickMsg time.Time

// errFramePending is returned when a second frame is requested before the
// first one fired.
var errFramePending = errors.New("tui: frame already requested")

// teaFrames implements engine.FrameSource on top of tea.Tick. A requested
// callback is parked until the next TickMsg arrives.
type teaFrames struct {
	start    time.Time
	interval time.Duration
	pending  func(timestamp float64)
}

// newTeaFrames creates a frame source firing at most rate times per second.
func newTeaFrames(rate int, start time.Time) *teaFrames {
	if rate <= 0 {
		rate = 60
	}
	return &teaFrames{
		start:    start,
		interval: time.Second / time.Duration(rate),
	}
}

// Now returns milliseconds since the source was created.
func (f *teaFrames) Now() (float64, error) {
	return f.stamp(time.Now()), nil
}

// RequestFrame parks cb until the next tick.
func (f *teaFrames) RequestFrame(cb func(timestamp float64)) error {
	if f.pending != nil {
		return errFramePending
	}
	f.pending = cb
	return nil
}

// deliver fires the parked callback, if any, with the tick's timestamp.
func (f *teaFrames) deliver(at time.Time) bool {
	cb := f.pending
	if cb == nil {
		return false
	}
	f.pending = nil
	cb(f.stamp(at))
	return true
}

// tickCmd schedules the next frame.
func (f *teaFrames) tickCmd() tea.Cmd {
	return tea.Tick(f.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (f *teaFrames) stamp(t time.Time) float64 {
	return float64(t.Sub(f.start)) / float64(time.Millisecond)
}
