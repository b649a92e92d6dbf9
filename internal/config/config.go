// Package config provides YAML-based game configuration loading for the
// tappy plane game.
package config

import (
	"errors"
	"fmt"
)

// TappyConfig contains all configuration for the Tappy Plane game.
type TappyConfig struct {
	Loop       TappyLoop       `yaml:"loop"`
	Physics    TappyPhysics    `yaml:"physics"`
	Plane      TappyPlane      `yaml:"plane"`
	Countdown  TappyCountdown  `yaml:"countdown"`
	Scroll     TappyScroll     `yaml:"scroll"`
	Obstacles  TappyObstacles  `yaml:"obstacles"`
	Boundaries TappyBoundaries `yaml:"boundaries"`
	GameOver   TappyGameOver   `yaml:"game_over"`
	Hazards    TappyHazards    `yaml:"hazards"`
	Input      TappyInput      `yaml:"input"`
	Assets     TappyAssets     `yaml:"assets"`
}

// TappyLoop defines the fixed simulation rate.
type TappyLoop struct {
	FramesPerSecond float64 `yaml:"frames_per_second"`
}

// TappyPhysics defines physics parameters for the plane body.
type TappyPhysics struct {
	Gravity     float64 `yaml:"gravity"`      // Downward acceleration, cells/s^2
	FlapImpulse float64 `yaml:"flap_impulse"` // Impulse per tick while pressed (negative = up)
	BodyMass    float64 `yaml:"body_mass"`
	Damping     float64 `yaml:"damping"` // Fraction of velocity kept per second
}

// TappyPlane defines where the plane flies and how it animates.
type TappyPlane struct {
	X               int `yaml:"x"`                // Left edge of the plane, cells
	AnimationFrames int `yaml:"animation_frames"` // Ticks in one propeller cycle
}

// TappyCountdown defines the get-ready countdown.
type TappyCountdown struct {
	Seconds float64 `yaml:"seconds"`
}

// TappyScroll defines horizontal scrolling.
type TappyScroll struct {
	BaseSpeed float64 `yaml:"base_speed"` // Cells per second at speed 1.0
	Speed     float64 `yaml:"speed"`      // Constant multiplier for a session
}

// TappyObstacles defines obstacle spawning.
type TappyObstacles struct {
	Spacing         float64 `yaml:"spacing"`          // Horizontal distance between obstacles
	OffscreenMargin float64 `yaml:"offscreen_margin"` // Extra distance past the left edge before pruning
	HeightRatio     float64 `yaml:"height_ratio"`     // Share of the play field height an obstacle covers
}

// TappyBoundaries defines the ceiling and floor colliders.
type TappyBoundaries struct {
	Ceiling   int     `yaml:"ceiling"`   // Ceiling thickness, cells
	Floor     int     `yaml:"floor"`     // Floor thickness, cells
	Tolerance float64 `yaml:"tolerance"` // Contact slop absorbed by the band check
}

// TappyGameOver defines the post-crash grace period.
type TappyGameOver struct {
	GraceFrames int `yaml:"grace_frames"` // Frames before the banner shows
	FrameCap    int `yaml:"frame_cap"`    // frames_elapsed saturates here
}

// TappyHazards toggles obstacle collisions.
type TappyHazards struct {
	Lethal bool `yaml:"lethal"`
}

// TappyInput defines input handling.
type TappyInput struct {
	HoldWindowMS int `yaml:"hold_window_ms"` // How long a key press keeps the trigger held
}

// TappyAssets locates the sprite atlas.
type TappyAssets struct {
	Atlas string `yaml:"atlas"`
}

// FixedStep returns the simulation step in seconds.
func (c TappyConfig) FixedStep() float64 {
	return 1.0 / c.Loop.FramesPerSecond
}

// Validate checks that the configuration can drive a session.
func (c TappyConfig) Validate() error {
	var errs []error
	if c.Loop.FramesPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("loop.frames_per_second must be positive, got %v", c.Loop.FramesPerSecond))
	}
	if c.Physics.BodyMass <= 0 {
		errs = append(errs, fmt.Errorf("physics.body_mass must be positive, got %v", c.Physics.BodyMass))
	}
	if c.Physics.Damping < 0 || c.Physics.Damping > 1 {
		errs = append(errs, fmt.Errorf("physics.damping must be within [0, 1], got %v", c.Physics.Damping))
	}
	if c.Plane.AnimationFrames <= 0 {
		errs = append(errs, fmt.Errorf("plane.animation_frames must be positive, got %d", c.Plane.AnimationFrames))
	}
	if c.Countdown.Seconds < 0 {
		errs = append(errs, fmt.Errorf("countdown.seconds must not be negative, got %v", c.Countdown.Seconds))
	}
	if c.Scroll.BaseSpeed <= 0 {
		errs = append(errs, fmt.Errorf("scroll.base_speed must be positive, got %v", c.Scroll.BaseSpeed))
	}
	if c.Scroll.Speed <= 0 {
		errs = append(errs, fmt.Errorf("scroll.speed must be positive, got %v", c.Scroll.Speed))
	}
	if c.Obstacles.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("obstacles.spacing must be positive, got %v", c.Obstacles.Spacing))
	}
	if c.Obstacles.HeightRatio <= 0 || c.Obstacles.HeightRatio >= 1 {
		errs = append(errs, fmt.Errorf("obstacles.height_ratio must be within (0, 1), got %v", c.Obstacles.HeightRatio))
	}
	if c.Boundaries.Ceiling < 0 || c.Boundaries.Floor < 0 {
		errs = append(errs, errors.New("boundaries must not be negative"))
	}
	if c.Boundaries.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("boundaries.tolerance must not be negative, got %v", c.Boundaries.Tolerance))
	}
	if c.GameOver.FrameCap < c.GameOver.GraceFrames {
		errs = append(errs, fmt.Errorf("game_over.frame_cap (%d) must be at least grace_frames (%d)", c.GameOver.FrameCap, c.GameOver.GraceFrames))
	}
	if c.Assets.Atlas == "" {
		errs = append(errs, errors.New("assets.atlas must be set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid tappy config: %w", errors.Join(errs...))
	}
	return nil
}
