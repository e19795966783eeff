package config

import (
	_ "embed"
)

//go:embed defaults/clamcatch.yaml
var defaultCatchYAML []byte

// DefaultCatchConfig returns the built-in Clam Catch configuration.
// Values are the browser original's (800x600 px field, gravity 300,
// speeds 100..200, clam speed 350) rescaled to an 80x24 terminal.
func DefaultCatchConfig() CatchConfig {
	return CatchConfig{
		Field: CatchField{
			HUDRows:      1,
			GroundOffset: 1,
		},
		Physics: CatchPhysics{
			Gravity:     12,
			AvatarSpeed: 35,
		},
		Spawn: CatchSpawn{
			IntervalMS:   1000,
			MinFallSpeed: 4,
			MaxFallSpeed: 8,
			Mode:         SpawnOffScreen,
			OffscreenMin: 2,
			OffscreenMax: 4,
			ObjectWidth:  3,
		},
		Avatar: CatchAvatar{
			Width:     8,
			OpenAngle: 90,
			OpenMS:    500,
			HoldTicks: 9,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 40,
			},
			Scaling: ScalingConfig{
				IntervalReductionMS: 500,
				MinIntervalMS:       350,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "clamcatch", "clamcatch_classic":
		return defaultCatchYAML
	default:
		return nil
	}
}
