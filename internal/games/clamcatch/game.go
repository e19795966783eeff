// Package clamcatch implements Clam Catch: a clam slides along the sea
// floor catching falling beavers for points. Catching a stone ends the run.
//
// The package is split the way the game is wired: a rule Controller that
// owns the session, a World that plays the part of the physics and timer
// engine, and the Game adapter that turns platform input into engine
// events and draws the result.
package clamcatch

import (
	"github.com/vovakirdan/clamcatch/internal/config"
	"github.com/vovakirdan/clamcatch/internal/core"
	"github.com/vovakirdan/clamcatch/internal/registry"
)

// Minimum terminal size the game can be played in.
const (
	MinScreenW = 24
	MinScreenH = 12
)

// Variant selects one of the registered rule sets.
type Variant struct {
	ID          string
	Title       string
	Description string

	// Scenes enables the title and game-over scenes. Without them the game
	// starts immediately and game over is shown in the HUD text.
	Scenes bool

	// SpawnMode overrides the configured spawn mode when set.
	SpawnMode string
}

var (
	// Standard is the full game with title and game-over scenes.
	Standard = Variant{
		ID:          "clamcatch",
		Title:       "Clam Catch",
		Description: "Catch falling beavers, avoid the stones",
		Scenes:      true,
	}

	// Classic starts straight away and drops objects from the top row.
	Classic = Variant{
		ID:          "clamcatch_classic",
		Title:       "Clam Catch Classic",
		Description: "No frills: objects appear on screen, R restarts",
		SpawnMode:   config.SpawnOnScreen,
	}
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// LoadConfig loads the configuration the next Reset will use, with the
// CLI preset applied. The error reports a bad --config file; the returned
// config is still usable.
func LoadConfig() (config.CatchConfig, error) {
	cfg, err := config.LoadCatch(configPath)
	config.ApplyCatchPreset(&cfg, difficultyPreset)
	return cfg, err
}

// Game adapts the controller and world to the platform's Game interface.
type Game struct {
	variant Variant
	runtime core.RuntimeConfig
	cfg     config.CatchConfig

	world *World
	ctrl  *Controller

	paused   bool // player pause, separate from the game-over physics pause
	held     int  // held direction: -1, 0, +1
	holdLeft int  // ticks until the held direction is released

	screenTooSmall bool
}

// New creates a game of the given variant.
func New(v Variant) *Game {
	return &Game{variant: v, cfg: config.DefaultCatchConfig()}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.variant.Title
}

// Description returns a one-line blurb for listings.
func (g *Game) Description() string {
	return g.variant.Description
}

// Reset builds a fresh world and controller for the given screen.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = config.DefaultCatchConfig()
		config.ApplyCatchPreset(&cfg, difficultyPreset)
	}
	g.ResetWithConfig(runtime, cfg)
}

// ResetWithConfig is Reset with an explicit configuration. Replays and
// tests use it to avoid depending on config files.
func (g *Game) ResetWithConfig(runtime core.RuntimeConfig, cfg config.CatchConfig) {
	if g.variant.SpawnMode != "" {
		cfg.Spawn.Mode = g.variant.SpawnMode
	}
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}

	g.runtime = runtime
	g.cfg = cfg
	g.paused = false
	g.held = 0
	g.holdLeft = 0
	g.screenTooSmall = runtime.ScreenW < MinScreenW || runtime.ScreenH < MinScreenH

	fieldW := runtime.ScreenW
	fieldH := max(runtime.ScreenH-cfg.Field.HUDRows, 1)

	g.world = NewWorld(WorldConfig{
		Width:        fieldW,
		Height:       fieldH,
		GroundOffset: cfg.Field.GroundOffset,
		AvatarWidth:  cfg.Avatar.Width,
		ObjectWidth:  cfg.Spawn.ObjectWidth,
		Gravity:      cfg.Physics.Gravity,
		TickRate:     runtime.TickRate,
	})
	g.ctrl = NewController(RulesFromConfig(cfg, fieldW, g.variant.Scenes), g.world, runtime.Seed)
	g.world.SetHandler(g.ctrl)

	if g.variant.Scenes {
		g.world.ChangeScene(SceneTitle)
		return
	}
	g.ctrl.OnStart()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.world == nil || g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.world.Scene() == ScenePlay && !g.ctrl.Session().Over {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.updateHeld(in)
	g.handleButtons(in)

	g.world.Step(g.held)
	return core.StepResult{State: g.State()}
}

// updateHeld keeps a direction pressed for a few ticks after each key
// event, since terminals report repeats but never a release.
func (g *Game) updateHeld(in core.InputFrame) {
	left, right := in.Has(core.ActionLeft), in.Has(core.ActionRight)
	switch {
	case left && !right:
		g.held, g.holdLeft = -1, g.cfg.Avatar.HoldTicks
	case right && !left:
		g.held, g.holdLeft = 1, g.cfg.Avatar.HoldTicks
	case left && right:
		g.held, g.holdLeft = 0, 0
	default:
		if g.holdLeft > 0 {
			g.holdLeft--
		}
		if g.holdLeft == 0 {
			g.held = 0
		}
	}
}

// handleButtons maps keys and clicks to start and restart requests.
func (g *Game) handleButtons(in core.InputFrame) {
	switch g.world.Scene() {
	case SceneTitle:
		if in.Has(core.ActionConfirm) || g.clicked(in, g.startButton()) {
			g.ctrl.OnStart()
		}
	case SceneGameOver:
		if in.Has(core.ActionRestart) || in.Has(core.ActionConfirm) || g.clicked(in, g.restartButton()) {
			g.ctrl.OnRestartRequested()
		}
	case ScenePlay:
		if g.ctrl.Session().Over && in.Has(core.ActionRestart) {
			g.ctrl.OnRestartRequested()
		}
	}
}

func (g *Game) clicked(in core.InputFrame, button core.Rect) bool {
	for _, p := range in.Clicks {
		if button.Contains(p.X, p.Y) {
			return true
		}
	}
	return false
}

// startButton returns the Start button in screen coordinates.
func (g *Game) startButton() core.Rect {
	return layoutDialog(g.runtime.ScreenW, g.runtime.ScreenH, startLabel).button
}

// restartButton returns the Restart button in screen coordinates.
func (g *Game) restartButton() core.Rect {
	return layoutDialog(g.runtime.ScreenW, g.runtime.ScreenH, restartLabel).button
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{}
	}
	s := g.ctrl.Session()
	return core.GameState{
		Score:    s.Score,
		GameOver: s.Over,
		Paused:   g.paused,
		Idle:     g.world.Scene() == SceneTitle,
	}
}

// Config returns the configuration of the current run.
func (g *Game) Config() config.CatchConfig {
	return g.cfg
}

// Register both variants with the registry
func init() {
	registry.Register(Standard.ID, func() registry.Game {
		return New(Standard)
	})
	registry.Register(Classic.ID, func() registry.Game {
		return New(Classic)
	})
}
