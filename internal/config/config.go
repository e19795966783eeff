// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Spawn modes. On-screen objects appear on the top row; off-screen objects
// start above the visible field and fall into view.
const (
	SpawnOnScreen  = "onscreen"
	SpawnOffScreen = "offscreen"
)

// CatchConfig contains all configuration for Clam Catch.
type CatchConfig struct {
	Field      CatchField       `yaml:"field"`
	Physics    CatchPhysics     `yaml:"physics"`
	Spawn      CatchSpawn       `yaml:"spawn"`
	Avatar     CatchAvatar      `yaml:"avatar"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// CatchField describes the play field layout inside the terminal.
type CatchField struct {
	HUDRows      int `yaml:"hud_rows"`      // Rows reserved at the top for score text
	GroundOffset int `yaml:"ground_offset"` // Rows between the clam bottom and the screen edge
}

// CatchPhysics holds speeds in cells per second.
type CatchPhysics struct {
	Gravity     float64 `yaml:"gravity"`      // Downward acceleration, cells/s²
	AvatarSpeed float64 `yaml:"avatar_speed"` // Horizontal clam speed, cells/s
}

// CatchSpawn controls falling object creation.
type CatchSpawn struct {
	IntervalMS   int     `yaml:"interval_ms"`
	MinFallSpeed float64 `yaml:"min_fall_speed"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	Mode         string  `yaml:"mode"`
	OffscreenMin float64 `yaml:"offscreen_min"` // Cells above the field, nearest
	OffscreenMax float64 `yaml:"offscreen_max"` // Cells above the field, farthest
	ObjectWidth  int     `yaml:"object_width"`
}

// CatchAvatar controls the clam.
type CatchAvatar struct {
	Width     int     `yaml:"width"`
	OpenAngle float64 `yaml:"open_angle"` // Lid angle in degrees while showing a catch
	OpenMS    int     `yaml:"open_ms"`
	HoldTicks int     `yaml:"hold_ticks"` // Ticks a direction key stays held after its last repeat
}

// Interval returns the base spawn interval.
func (s CatchSpawn) Interval() time.Duration {
	return time.Duration(s.IntervalMS) * time.Millisecond
}

// OpenDuration returns how long the lid stays open after a catch.
func (a CatchAvatar) OpenDuration() time.Duration {
	return time.Duration(a.OpenMS) * time.Millisecond
}

// Validate reports the first setting that would make the game unplayable.
func (c CatchConfig) Validate() error {
	var errs []error
	if c.Spawn.IntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("spawn.interval_ms must be positive, got %d", c.Spawn.IntervalMS))
	}
	if c.Spawn.MinFallSpeed < 0 || c.Spawn.MaxFallSpeed < c.Spawn.MinFallSpeed {
		errs = append(errs, fmt.Errorf("spawn fall speed range [%g, %g] is invalid",
			c.Spawn.MinFallSpeed, c.Spawn.MaxFallSpeed))
	}
	switch c.Spawn.Mode {
	case SpawnOnScreen:
	case SpawnOffScreen:
		if c.Spawn.OffscreenMin < 0 || c.Spawn.OffscreenMax < c.Spawn.OffscreenMin {
			errs = append(errs, fmt.Errorf("spawn offscreen range [%g, %g] is invalid",
				c.Spawn.OffscreenMin, c.Spawn.OffscreenMax))
		}
	default:
		errs = append(errs, fmt.Errorf("spawn.mode %q is not %q or %q", c.Spawn.Mode, SpawnOnScreen, SpawnOffScreen))
	}
	if c.Spawn.ObjectWidth <= 0 {
		errs = append(errs, errors.New("spawn.object_width must be positive"))
	}
	if c.Avatar.Width <= 0 {
		errs = append(errs, errors.New("avatar.width must be positive"))
	}
	if c.Avatar.OpenMS < 0 {
		errs = append(errs, errors.New("avatar.open_ms must not be negative"))
	}
	if c.Physics.AvatarSpeed <= 0 {
		errs = append(errs, errors.New("physics.avatar_speed must be positive"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	IntervalReductionMS int `yaml:"interval_reduction_ms"` // Spawn interval cut at max difficulty
	MinIntervalMS       int `yaml:"min_interval_ms"`       // Spawn interval never drops below this
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown strings map to "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
