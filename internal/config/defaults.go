package config

import (
	_ "embed"
)

//go:embed defaults/tappy.yaml
var defaultTappyYAML []byte

// DefaultTappyConfig returns the default Tappy Plane configuration.
func DefaultTappyConfig() TappyConfig {
	return TappyConfig{
		Loop: TappyLoop{
			FramesPerSecond: 60,
		},
		Physics: TappyPhysics{
			Gravity:     45.0,
			FlapImpulse: -1.6,
			BodyMass:    1.0,
			Damping:     0.6,
		},
		Plane: TappyPlane{
			X:               10,
			AnimationFrames: 60,
		},
		Countdown: TappyCountdown{
			Seconds: 4.0,
		},
		Scroll: TappyScroll{
			BaseSpeed: 20.0,
			Speed:     1.0,
		},
		Obstacles: TappyObstacles{
			Spacing:         32,
			OffscreenMargin: 2,
			HeightRatio:     0.6,
		},
		Boundaries: TappyBoundaries{
			Ceiling:   1,
			Floor:     2,
			Tolerance: 0.5,
		},
		GameOver: TappyGameOver{
			GraceFrames: 1,
			FrameCap:    2,
		},
		Hazards: TappyHazards{
			Lethal: true,
		},
		Input: TappyInput{
			HoldWindowMS: 180,
		},
		Assets: TappyAssets{
			Atlas: "tappy.json",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for the game.
func GetDefaultYAML() []byte {
	return defaultTappyYAML
}
