package core

import "time"

// Action represents a semantic host action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionFlap              // Space, W, Up - the one in-game trigger
	ActionQuit              // Q, Ctrl+C - exit the program/session
	ActionScreenshot        // Ctrl+S - dump the screen buffer to a file
	ActionDebug             // F3 - toggle the loop statistics line
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionFlap:
		return "Flap"
	case ActionQuit:
		return "Quit"
	case ActionScreenshot:
		return "Screenshot"
	case ActionDebug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// Trigger is the single boolean "is the trigger held" cell. The host writes
// it from input events and the game samples it once per tick; presses are
// not queued.
//
// Pointer buttons give real hold semantics through Press and Release.
// Terminals never report key releases, so keys use Latch, which keeps the
// trigger pressed for a short window after the last key event.
type Trigger struct {
	held     bool
	latchEnd time.Time
	now      func() time.Time
}

// NewTrigger creates a released trigger. A nil clock means time.Now.
func NewTrigger(now func() time.Time) *Trigger {
	if now == nil {
		now = time.Now
	}
	return &Trigger{now: now}
}

// Press holds the trigger until Release.
func (t *Trigger) Press() {
	t.held = true
}

// Release lets go of the trigger, including any pending latch.
func (t *Trigger) Release() {
	t.held = false
	t.latchEnd = time.Time{}
}

// Latch keeps the trigger pressed for d from now. Repeated key events extend
// the window.
func (t *Trigger) Latch(d time.Duration) {
	end := t.now().Add(d)
	if end.After(t.latchEnd) {
		t.latchEnd = end
	}
}

// Pressed samples the trigger.
func (t *Trigger) Pressed() bool {
	if t.held {
		return true
	}
	return !t.latchEnd.IsZero() && t.now().Before(t.latchEnd)
}
