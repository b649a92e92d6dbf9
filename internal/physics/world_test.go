package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-tappy/internal/core"
)

func testConfig() Config {
	return Config{
		Gravity:  60,
		Timestep: 1.0 / 60.0,
		BodyMass: 1,
	}
}

func TestGravityPullsBodyDown(t *testing.T) {
	w := NewWorld(testConfig())
	h := w.AddDynamicBody(core.NewRect(10, 10, 4, 2))

	start := w.PositionOf(h)
	if start.X != 12 || start.Y != 11 {
		t.Fatalf("Body should start at region center (12, 11), got (%v, %v)", start.X, start.Y)
	}

	for i := 0; i < 30; i++ {
		w.Step()
	}

	pos := w.PositionOf(h)
	if pos.Y <= start.Y {
		t.Errorf("Gravity should move the body down, y went from %v to %v", start.Y, pos.Y)
	}
	if w.VelocityOf(h).Y <= 0 {
		t.Errorf("Velocity should point down after falling, got %v", w.VelocityOf(h).Y)
	}
}

func TestImpulsePushesBodyUp(t *testing.T) {
	w := NewWorld(testConfig())
	h := w.AddDynamicBody(core.NewRect(0, 50, 2, 2))

	w.ApplyImpulse(h, -30)
	w.Step()

	if v := w.VelocityOf(h).Y; v >= 0 {
		t.Errorf("Upward impulse should give negative velocity, got %v", v)
	}
	if y := w.PositionOf(h).Y; y >= 51 {
		t.Errorf("Body should have moved up from 51, got %v", y)
	}
}

func TestHorizontalTranslationLocked(t *testing.T) {
	w := NewWorld(testConfig())
	h := w.AddDynamicBody(core.NewRect(20, 0, 2, 2))

	// A slanted floor would push a free body sideways; use a plain floor and
	// many impulses to make sure nothing leaks into x.
	w.AddStaticCollider(core.NewRect(0, 30, 100, 2))
	for i := 0; i < 240; i++ {
		if i%20 == 0 {
			w.ApplyImpulse(h, -5)
		}
		w.Step()
	}

	if x := w.PositionOf(h).X; x != 21 {
		t.Errorf("Body x should stay at 21, got %v", x)
	}
	if vx := w.VelocityOf(h).X; vx != 0 {
		t.Errorf("Body x velocity should stay zero, got %v", vx)
	}
}

func TestStaticColliderStopsBody(t *testing.T) {
	w := NewWorld(testConfig())
	h := w.AddDynamicBody(core.NewRect(5, 0, 2, 2))
	w.AddStaticCollider(core.NewRect(0, 20, 40, 2))

	for i := 0; i < 600; i++ {
		w.Step()
	}

	// Floor top is y=20, body half height is 1: resting center near 19
	y := w.PositionOf(h).Y
	if math.Abs(y-19) > 0.5 {
		t.Errorf("Body should rest on the floor near y=19, got %v", y)
	}
	if math.Abs(w.VelocityOf(h).Y) > 1 {
		t.Errorf("Resting body should have settled, velocity %v", w.VelocityOf(h).Y)
	}
}

func TestArenaCounts(t *testing.T) {
	w := NewWorld(testConfig())
	w.AddStaticCollider(core.NewRect(0, 0, 10, 1))
	w.AddStaticCollider(core.NewRect(0, 20, 10, 1))
	w.AddDynamicBody(core.NewRect(2, 5, 2, 2))

	if w.Colliders() != 2 {
		t.Errorf("Expected 2 colliders, got %d", w.Colliders())
	}
	if w.Bodies() != 1 {
		t.Errorf("Expected 1 body, got %d", w.Bodies())
	}
}

func TestDeterministicStepping(t *testing.T) {
	run := func() core.Position {
		w := NewWorld(testConfig())
		h := w.AddDynamicBody(core.NewRect(8, 8, 3, 2))
		w.AddStaticCollider(core.NewRect(0, 30, 80, 2))
		for i := 0; i < 200; i++ {
			if i%25 == 0 {
				w.ApplyImpulse(h, -12)
			}
			w.Step()
		}
		return w.PositionOf(h)
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("Identical runs diverged: %+v vs %+v", a, b)
	}
}

func TestHandleFromReplacedWorldPanics(t *testing.T) {
	old := NewWorld(testConfig())
	h := old.AddDynamicBody(core.NewRect(0, 0, 2, 2))

	fresh := NewWorld(testConfig())
	fresh.AddDynamicBody(core.NewRect(0, 0, 2, 2))

	defer func() {
		if recover() == nil {
			t.Error("Using a handle from another world should panic")
		}
	}()
	fresh.PositionOf(h)
}

func TestNilWorldPanics(t *testing.T) {
	var w *World

	defer func() {
		if recover() == nil {
			t.Error("Adding a body to a nil world should panic")
		}
	}()
	w.AddDynamicBody(core.NewRect(0, 0, 1, 1))
}

func TestNewWorldFillsDefaults(t *testing.T) {
	w := NewWorld(Config{Gravity: 10})

	if w.Timestep() != DefaultConfig().Timestep {
		t.Errorf("Zero timestep should fall back to %v, got %v", DefaultConfig().Timestep, w.Timestep())
	}
}
