package tappy

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-tappy/internal/config"
	"github.com/vovakirdan/tui-tappy/internal/core"
	"github.com/vovakirdan/tui-tappy/internal/physics"
)

const dt = 1.0 / 60.0

// recordingWorld stands in for the physics world. Positions follow a script
// indexed by the number of steps taken; impulses are recorded with the step
// count at the time they were applied.
type recordingWorld struct {
	script    []float64
	start     core.Position
	steps     int
	impulses  []int
	bodies    int
	colliders int
}

func (w *recordingWorld) AddStaticCollider(core.Rect) physics.ColliderHandle {
	w.colliders++
	return physics.ColliderHandle{}
}

func (w *recordingWorld) AddDynamicBody(region core.Rect) physics.BodyHandle {
	w.bodies++
	w.start = region.Center()
	return physics.BodyHandle{}
}

func (w *recordingWorld) Step() { w.steps++ }

func (w *recordingWorld) ApplyImpulse(physics.BodyHandle, float64) {
	w.impulses = append(w.impulses, w.steps)
}

func (w *recordingWorld) PositionOf(physics.BodyHandle) core.Position {
	if len(w.script) == 0 || w.steps == 0 {
		return w.start
	}
	i := min(w.steps, len(w.script)) - 1
	return core.Position{X: w.start.X, Y: w.script[i]}
}

func testConfig() config.TappyConfig {
	cfg := config.DefaultTappyConfig()
	cfg.Hazards.Lethal = false
	return cfg
}

// newTestGame builds an initialized game on an 80x24 canvas. A non-nil
// world replaces the physics engine for every run.
func newTestGame(t *testing.T, cfg config.TappyConfig, world func() physicsWorld) *Game {
	t.Helper()
	return newSizedGame(t, cfg, core.NewScreen(80, 24), 42, world)
}

// newSizedGame builds an initialized game on the given canvas.
func newSizedGame(t *testing.T, cfg config.TappyConfig, canvas *core.Screen, seed int64, world func() physicsWorld) *Game {
	t.Helper()
	opts := Options{
		Config: cfg,
		Input:  core.NewTrigger(nil),
		Canvas: canvas,
		Sides:  rand.New(rand.NewSource(seed)),
	}
	if world != nil {
		opts.newWorld = func(physics.Config) physicsWorld { return world() }
	}
	g := New(opts)
	if err := g.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return g
}

// startPlaying jumps straight into a fresh Playing phase.
func startPlaying(g *Game) {
	g.phase = &Playing{ScrollSpeed: 1, Track: NewTrack(g.sides, g.cfg.Scroll.BaseSpeed)}
}

func TestWaitingNeverTransitionsWithoutInput(t *testing.T) {
	g := newTestGame(t, testConfig(), nil)

	for i := range 10000 {
		g.tick(false, dt)
		if g.Phase().Kind() != KindWaiting {
			t.Fatalf("tick %d: phase = %v, want Waiting", i+1, g.Phase().Kind())
		}
	}
}

func TestScenarioCountdownToPlaying(t *testing.T) {
	g := newTestGame(t, testConfig(), nil)

	g.tick(true, dt)
	if g.Phase().Kind() != KindGetReady {
		t.Fatalf("tick 1: phase = %v, want GetReady", g.Phase().Kind())
	}
	ready := g.Phase().(*GetReady)
	if ready.ScrollSpeed != 1.0 || ready.TimeElapsed != 0 {
		t.Errorf("GetReady = %+v, want speed 1.0 and no elapsed time", ready)
	}

	for tick := 2; tick <= 240; tick++ {
		g.tick(false, dt)
		if g.Phase().Kind() != KindGetReady {
			t.Fatalf("tick %d: phase = %v, want GetReady", tick, g.Phase().Kind())
		}
	}

	g.tick(false, dt)
	if g.Phase().Kind() != KindPlaying {
		t.Fatalf("tick 241: phase = %v, want Playing", g.Phase().Kind())
	}
	p := g.Phase().(*Playing)
	if p.Plane != nil || p.world != nil {
		t.Error("Playing must start without a physics world or plane handle")
	}
	if p.Track.Len() != 0 {
		t.Errorf("Playing must start with an empty track, got %d obstacles", p.Track.Len())
	}
}

func TestGetReadyLastsExactlyCountdownTicksRegardlessOfInput(t *testing.T) {
	g := newTestGame(t, testConfig(), nil)
	g.phase = newGetReady(1.0)

	want := int(math.Ceil(4.0 / dt))
	for i := 1; i < want; i++ {
		g.tick(i%3 == 0, dt)
		if g.Phase().Kind() != KindGetReady {
			t.Fatalf("left GetReady after %d ticks, want %d", i, want)
		}
	}
	g.tick(true, dt)
	if g.Phase().Kind() != KindPlaying {
		t.Fatalf("still %v after %d ticks", g.Phase().Kind(), want)
	}
}

func TestImpulseOnlyWhenPressedAndBodyExists(t *testing.T) {
	world := &recordingWorld{}
	g := newTestGame(t, testConfig(), func() physicsWorld { return world })
	startPlaying(g)

	presses := []bool{true, true, false, true, false, false, true}
	for _, pressed := range presses {
		g.tick(pressed, dt)
	}

	// The first tick creates the body and must not flap even though pressed.
	want := []int{1, 3, 6}
	if len(world.impulses) != len(want) {
		t.Fatalf("impulses before steps %v, want %v", world.impulses, want)
	}
	for i := range want {
		if world.impulses[i] != want[i] {
			t.Errorf("impulses before steps %v, want %v", world.impulses, want)
			break
		}
	}
	if world.steps != len(presses) {
		t.Errorf("steps = %d, want one per tick (%d)", world.steps, len(presses))
	}
}

func TestWorldBuiltLazilyOnce(t *testing.T) {
	builds := 0
	world := &recordingWorld{}
	g := newTestGame(t, testConfig(), func() physicsWorld {
		builds++
		return world
	})
	startPlaying(g)

	for range 30 {
		g.tick(false, dt)
	}

	if builds != 1 {
		t.Errorf("world built %d times, want 1", builds)
	}
	if world.bodies != 1 || world.colliders != 2 {
		t.Errorf("bodies=%d colliders=%d, want 1 and 2", world.bodies, world.colliders)
	}
	if p := g.Phase().(*Playing); p.Plane == nil {
		t.Error("plane handle should exist after the first tick")
	}
}

func TestGameOverFiresOnCrossingTickBelow(t *testing.T) {
	// 80x24 canvas, 3-row plane, floor 2, tolerance 0.5: bottom = 20.
	world := &recordingWorld{script: []float64{12, 15, 18, 19.99, 20, 20.01, 21}}
	g := newTestGame(t, testConfig(), func() physicsWorld { return world })
	startPlaying(g)

	for tick := 1; tick <= 5; tick++ {
		g.tick(false, dt)
		if g.Phase().Kind() != KindPlaying {
			t.Fatalf("tick %d: phase = %v, want Playing", tick, g.Phase().Kind())
		}
	}

	g.tick(false, dt)
	over, ok := g.Phase().(*GameOver)
	if !ok {
		t.Fatalf("tick 6: phase = %v, want GameOver", g.Phase().Kind())
	}
	if over.FramesElapsed != 0 {
		t.Errorf("FramesElapsed = %d, want 0", over.FramesElapsed)
	}
	if over.Final.Plane.Y != 20.01 {
		t.Errorf("final plane y = %v, want the crossing position 20.01", over.Final.Plane.Y)
	}
}

func TestGameOverFiresOnCrossingTickAbove(t *testing.T) {
	// Ceiling 1, half height 1.5, tolerance 0.5: top = 3.
	world := &recordingWorld{script: []float64{8, 5, 3, 2.99}}
	g := newTestGame(t, testConfig(), func() physicsWorld { return world })
	startPlaying(g)

	for range 3 {
		g.tick(true, dt)
	}
	if g.Phase().Kind() != KindPlaying {
		t.Fatalf("phase = %v before crossing, want Playing", g.Phase().Kind())
	}
	g.tick(true, dt)
	if g.Phase().Kind() != KindGameOver {
		t.Fatalf("phase = %v on crossing tick, want GameOver", g.Phase().Kind())
	}
}

func TestScenarioFallToGameOver(t *testing.T) {
	cfg := testConfig()
	g := newTestGame(t, cfg, nil)
	startPlaying(g)

	top := float64(cfg.Boundaries.Ceiling) + 1.5 + cfg.Boundaries.Tolerance
	bottom := 24 - float64(cfg.Boundaries.Floor) - 1.5 - cfg.Boundaries.Tolerance

	var over *GameOver
	for tick := 1; tick <= 60*60; tick++ {
		g.tick(false, dt)
		if p, ok := g.Phase().(*GameOver); ok {
			over = p
			break
		}
	}
	if over == nil {
		t.Fatal("plane never fell out of the band")
	}

	y := over.Final.Plane.Y
	if y >= top && y <= bottom {
		t.Errorf("transition position y=%v lies inside [%v, %v]", y, top, bottom)
	}
	if y < bottom {
		t.Errorf("plane should leave through the floor, y=%v", y)
	}
}

func TestScenarioFlappingKeepsPlaneAloft(t *testing.T) {
	g := newTestGame(t, testConfig(), nil)
	startPlaying(g)

	// Flap whenever the plane sinks below the middle of the canvas.
	for tick := range 60 * 10 {
		g.tick(g.Snapshot().Plane.Y > 11.5, dt)
		if g.Phase().Kind() != KindPlaying {
			t.Fatalf("crashed on tick %d at %+v", tick+1, g.Snapshot().Plane)
		}
	}
}

func TestGameOverSaturatesAndRestarts(t *testing.T) {
	g := newTestGame(t, testConfig(), nil)
	g.phase = &GameOver{}

	g.tick(false, dt)
	if s := g.Snapshot(); s.FramesElapsed != 1 || !s.BannerVisible {
		t.Errorf("after 1 frame: %+v, want banner visible", s)
	}
	for range 100 {
		g.tick(false, dt)
	}
	if s := g.Snapshot(); s.FramesElapsed != 2 {
		t.Errorf("FramesElapsed = %d, want saturated at 2", s.FramesElapsed)
	}

	g.tick(true, dt)
	ready, ok := g.Phase().(*GetReady)
	if !ok {
		t.Fatalf("phase = %v, want GetReady", g.Phase().Kind())
	}
	if ready.ScrollSpeed != 1.0 || ready.TimeElapsed != 0 {
		t.Errorf("GetReady = %+v", ready)
	}
}

func TestBannerHiddenOnFirstGameOverFrame(t *testing.T) {
	g := newTestGame(t, testConfig(), nil)
	g.phase = &GameOver{}

	if g.Snapshot().BannerVisible {
		t.Error("banner should wait for the grace frame")
	}
}

func TestRestartBuildsFreshWorld(t *testing.T) {
	var worlds []*recordingWorld
	g := newTestGame(t, testConfig(), func() physicsWorld {
		w := &recordingWorld{script: []float64{30}}
		worlds = append(worlds, w)
		return w
	})

	g.tick(true, dt)
	for g.Phase().Kind() != KindGameOver {
		g.tick(false, dt)
	}
	g.tick(true, dt)
	for g.Phase().Kind() != KindGameOver {
		g.tick(false, dt)
	}

	if len(worlds) != 2 {
		t.Fatalf("worlds built = %d, want one per run", len(worlds))
	}
	if worlds[0].steps != 1 || worlds[1].steps != 1 {
		t.Errorf("each run should step its own world once, got %d and %d", worlds[0].steps, worlds[1].steps)
	}
}

func TestTerrainOffsetStaysWrapped(t *testing.T) {
	g := newTestGame(t, testConfig(), func() physicsWorld { return &recordingWorld{} })
	startPlaying(g)

	tile, _ := g.atlas.Tile(tileGround)
	width := float64(tile.Region.W)

	for range 60 * 120 {
		g.tick(false, dt)
		off := g.Phase().(*Playing).TerrainOffset
		if off < 0 || off >= width {
			t.Fatalf("terrain offset %v outside [0, %v)", off, width)
		}
	}
}

func TestWrapOffset(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for range 10000 {
		v := (rng.Float64() - 0.5) * 1e7
		w := 1 + rng.Float64()*20
		got := wrapOffset(v, w)
		if got < 0 || got >= w {
			t.Fatalf("wrapOffset(%v, %v) = %v", v, w, got)
		}
	}
	if got := wrapOffset(-1e-20, 8); got < 0 || got >= 8 {
		t.Errorf("tiny negative wrapped to %v", got)
	}
}

func TestObstaclesScrollAndScore(t *testing.T) {
	g := newTestGame(t, testConfig(), func() physicsWorld { return &recordingWorld{} })
	startPlaying(g)

	for range 60 * 6 {
		g.tick(false, dt)
	}

	p := g.Phase().(*Playing)
	if p.Track.Len() == 0 {
		t.Fatal("track should hold obstacles after six seconds")
	}
	if p.Score == 0 {
		t.Error("the plane should have passed an obstacle after six seconds")
	}
	obs := p.Track.Obstacles()
	for _, o := range obs {
		if o.Pos.X < -(p.Track.Layout().SpriteW + testConfig().Obstacles.OffscreenMargin + 1) {
			t.Errorf("obstacle at x=%v should have been retired", o.Pos.X)
		}
	}
}

func TestLethalHazardEndsRun(t *testing.T) {
	cfg := testConfig()
	cfg.Hazards.Lethal = true

	sides := fixedSides{int(SideTop)}
	opts := Options{
		Config:   cfg,
		Input:    core.NewTrigger(nil),
		Canvas:   core.NewScreen(80, 24),
		Sides:    &sides,
		newWorld: func(physics.Config) physicsWorld { return &recordingWorld{} },
	}
	g := New(opts)
	if err := g.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	startPlaying(g)

	for range 60 * 6 {
		g.tick(false, dt)
		if g.Phase().Kind() == KindGameOver {
			return
		}
	}
	t.Fatal("a plane holding still in front of a rock should crash")
}

func TestRoomyCanvas(t *testing.T) {
	g := newTestGame(t, config.DefaultTappyConfig(), nil)

	// Plane x 10, plane width 8, spacing 32: 50 columns. Plane height 3,
	// ceiling 1, floor 2, tolerance 0.5: the band is empty below 8 rows.
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, true},
		{50, 24, true},
		{49, 24, false},
		{16, 24, false},
		{80, 8, true},
		{80, 7, false},
	}
	for _, tc := range tests {
		if got := g.roomy(core.NewRect(0, 0, tc.w, tc.h)); got != tc.want {
			t.Errorf("roomy(%dx%d) = %v, want %v", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestCountdownHoldsOnNarrowCanvas(t *testing.T) {
	screen := core.NewScreen(30, 24)
	g := newSizedGame(t, config.DefaultTappyConfig(), screen, 1, nil)

	if !g.Snapshot().TooSmall {
		t.Error("a 30 column canvas should be reported too small")
	}

	g.tick(true, dt)
	for tick := range 60 * 60 {
		g.tick(false, dt)
		if g.Phase().Kind() != KindGetReady {
			t.Fatalf("tick %d: phase = %v, want GetReady on a narrow canvas", tick+2, g.Phase().Kind())
		}
	}
	ready := g.Phase().(*GetReady)
	if !ready.Held {
		t.Error("countdown should be marked held")
	}
	if ready.TimeElapsed != g.cfg.Countdown.Seconds {
		t.Errorf("held countdown at %v, want %v", ready.TimeElapsed, g.cfg.Countdown.Seconds)
	}
	if snap := g.Snapshot(); !snap.TooSmall || snap.Countdown != len(countdownTiles)-1 {
		t.Errorf("snapshot = %+v, want too small on the last countdown frame", snap)
	}

	// Growing the terminal releases the hold on the next tick.
	screen.Resize(80, 24)
	g.tick(false, dt)
	if g.Phase().Kind() != KindPlaying {
		t.Fatalf("phase = %v after resize, want Playing", g.Phase().Kind())
	}
	if g.Snapshot().TooSmall {
		t.Error("a playing session is never too small")
	}
}

func TestCountdownHoldsOnShortCanvas(t *testing.T) {
	g := newSizedGame(t, config.DefaultTappyConfig(), core.NewScreen(80, 7), 1, nil)

	g.tick(true, dt)
	for range 60 * 10 {
		g.tick(false, dt)
	}
	if g.Phase().Kind() != KindGetReady {
		t.Errorf("phase = %v, want GetReady when the band is empty", g.Phase().Kind())
	}
}

func TestNarrowestCanvasLeavesThroughBand(t *testing.T) {
	cfg := config.DefaultTappyConfig()
	top := float64(cfg.Boundaries.Ceiling) + 1.5 + cfg.Boundaries.Tolerance
	bottom := 24 - float64(cfg.Boundaries.Floor) - 1.5 - cfg.Boundaries.Tolerance

	// With lethal rocks on the narrowest playable canvas, a plane left alone
	// still reaches the floor before the first rock reaches it.
	for seed := int64(1); seed <= 10; seed++ {
		g := newSizedGame(t, cfg, core.NewScreen(50, 24), seed, nil)
		g.tick(true, dt)

		var over *GameOver
		for range 60 * 60 {
			g.tick(false, dt)
			if p, ok := g.Phase().(*GameOver); ok {
				over = p
				break
			}
		}
		if over == nil {
			t.Fatalf("seed %d: plane never crashed", seed)
		}
		if y := over.Final.Plane.Y; y >= top && y <= bottom {
			t.Errorf("seed %d: crashed at y=%v inside [%v, %v]", seed, y, top, bottom)
		}
	}
}

func TestUpdateSamplesInput(t *testing.T) {
	trigger := core.NewTrigger(nil)
	g := New(Options{
		Config: testConfig(),
		Input:  trigger,
		Canvas: core.NewScreen(80, 24),
		Sides:  rand.New(rand.NewSource(1)),
	})
	if err := g.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	g.Update(dt)
	if g.Phase().Kind() != KindWaiting {
		t.Fatal("released trigger should not start the game")
	}
	trigger.Press()
	g.Update(dt)
	if g.Phase().Kind() != KindGetReady {
		t.Fatal("pressed trigger should start the countdown")
	}
}

func TestInitializeRequiresCollaborators(t *testing.T) {
	g := New(Options{Config: testConfig()})
	if err := g.Initialize(context.Background()); err == nil {
		t.Error("expected error without input, canvas and side source")
	}
}

func TestInitializeBadAtlas(t *testing.T) {
	cfg := testConfig()
	cfg.Assets.Atlas = "missing.json"
	g := New(Options{
		Config: cfg,
		Input:  core.NewTrigger(nil),
		Canvas: core.NewScreen(80, 24),
		Sides:  rand.New(rand.NewSource(1)),
	})
	if err := g.Initialize(context.Background()); err == nil {
		t.Error("expected error for missing atlas")
	}
	if g.Phase() != nil {
		t.Error("no phase should exist when assets fail to load")
	}
}

func TestUpdateBeforeInitializePanics(t *testing.T) {
	g := New(Options{Config: testConfig()})
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	g.tick(false, dt)
}

func TestCountdownIndexClamped(t *testing.T) {
	cases := map[float64]int{0: 0, 0.99: 0, 1: 1, 3.5: 3, 4: 3, 250: 3, -1: 0}
	for elapsed, want := range cases {
		if got := countdownIndex(elapsed); got != want {
			t.Errorf("countdownIndex(%v) = %d, want %d", elapsed, got, want)
		}
	}
}

func TestPlaneTileCycle(t *testing.T) {
	want := map[int]string{0: "plane_1", 19: "plane_1", 20: "plane_2", 40: "plane_3", 59: "plane_3"}
	for frame, name := range want {
		if got := planeTile(frame); got != name {
			t.Errorf("planeTile(%d) = %s, want %s", frame, got, name)
		}
	}
}

func TestDeterminismWithSameSeed(t *testing.T) {
	run := func() Snapshot {
		g := newTestGame(t, testConfig(), nil)
		g.tick(true, dt)
		for range 60 * 8 {
			g.tick(g.Snapshot().Plane.Y > 12, dt)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a.Kind != b.Kind || a.Plane != b.Plane || a.Score != b.Score || len(a.Obstacles) != len(b.Obstacles) {
		t.Errorf("runs diverged:\n%+v\n%+v", a, b)
	}
}
