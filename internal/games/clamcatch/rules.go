package clamcatch

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/clamcatch/internal/config"
	"github.com/vovakirdan/clamcatch/internal/core"
)

// GameSession is the state of one play-through.
type GameSession struct {
	Score   int
	Over    bool
	AvatarX float64
}

// Rules is the immutable configuration the controller works from.
type Rules struct {
	FieldWidth   int
	ObjectWidth  int
	MinFallSpeed float64
	MaxFallSpeed float64
	SpawnMode    string
	OffscreenMin float64
	OffscreenMax float64

	AvatarSpeed   float64
	OpenAngle     float64
	OpenDuration  time.Duration
	SpawnInterval time.Duration

	// GameOverScene switches to a dedicated scene on game over. Without it
	// the final score is only shown in the HUD text.
	GameOverScene bool

	Difficulty config.DifficultyConfig
}

// RulesFromConfig derives Rules from a loaded config for a field of the given width.
func RulesFromConfig(cfg config.CatchConfig, fieldWidth int, gameOverScene bool) Rules {
	return Rules{
		FieldWidth:    fieldWidth,
		ObjectWidth:   cfg.Spawn.ObjectWidth,
		MinFallSpeed:  cfg.Spawn.MinFallSpeed,
		MaxFallSpeed:  cfg.Spawn.MaxFallSpeed,
		SpawnMode:     cfg.Spawn.Mode,
		OffscreenMin:  cfg.Spawn.OffscreenMin,
		OffscreenMax:  cfg.Spawn.OffscreenMax,
		AvatarSpeed:   cfg.Physics.AvatarSpeed,
		OpenAngle:     cfg.Avatar.OpenAngle,
		OpenDuration:  cfg.Avatar.OpenDuration(),
		SpawnInterval: cfg.Spawn.Interval(),
		GameOverScene: gameOverScene,
		Difficulty:    cfg.Difficulty,
	}
}

// Controller holds the gameplay rules: it owns the session and decides
// what happens on spawn ticks, catches and restarts. Everything visible
// is delegated to the Engine.
type Controller struct {
	rules      Rules
	engine     Engine
	rng        *rand.Rand
	difficulty *config.DifficultyManager

	session  GameSession
	started  bool
	interval time.Duration
	frames   int
	spawned  int
	lidTimer TimerID
}

// NewController creates a controller. The seed drives every random choice.
func NewController(rules Rules, engine Engine, seed int64) *Controller {
	return &Controller{
		rules:      rules,
		engine:     engine,
		rng:        rand.New(rand.NewSource(seed)),
		difficulty: config.NewDifficultyManager(rules.Difficulty),
	}
}

// Session returns a copy of the current session.
func (c *Controller) Session() GameSession {
	return c.session
}

// Started reports whether a session has begun.
func (c *Controller) Started() bool {
	return c.started
}

// FinalScore returns the score of a finished session.
func (c *Controller) FinalScore() (int, bool) {
	return c.session.Score, c.session.Over
}

// Spawned returns how many objects this session has spawned.
func (c *Controller) Spawned() int {
	return c.spawned
}

// SpawnInterval returns the current spawn timer period.
func (c *Controller) SpawnInterval() time.Duration {
	return c.interval
}

// OnStart begins the first session.
func (c *Controller) OnStart() {
	if c.started {
		return
	}
	c.begin()
}

// OnRestartRequested starts a fresh session after game over.
func (c *Controller) OnRestartRequested() {
	if !c.session.Over {
		return
	}
	c.begin()
}

func (c *Controller) begin() {
	c.started = true
	c.session = GameSession{}
	c.frames = 0
	c.spawned = 0
	c.lidTimer = 0

	c.engine.CancelAll()
	c.engine.ClearObjects()
	c.engine.ResumePhysics()
	c.engine.SetAvatarTint(core.ColorDefault)
	c.engine.SetLidAngle(0)
	c.engine.SetAvatarVelocity(0)
	c.engine.CenterAvatar()

	c.interval = c.difficulty.SpawnInterval(c.rules.SpawnInterval, 0, 0)
	c.engine.StartSpawnTimer(c.interval)
	c.engine.SetText(scoreText(0))
	c.engine.ChangeScene(ScenePlay)
}

// OnUpdate steers the avatar from the held direction.
func (c *Controller) OnUpdate(dir int, avatarX float64) {
	c.session.AvatarX = avatarX
	if !c.started || c.session.Over {
		return
	}
	c.frames++

	switch {
	case dir < 0:
		c.engine.SetAvatarVelocity(-c.rules.AvatarSpeed)
	case dir > 0:
		c.engine.SetAvatarVelocity(c.rules.AvatarSpeed)
	default:
		c.engine.SetAvatarVelocity(0)
	}
}

// OnSpawnTick drops one beaver or stone.
func (c *Controller) OnSpawnTick() {
	if !c.started || c.session.Over {
		return
	}

	kind := Beneficial
	if c.rng.Intn(2) == 1 {
		kind = Harmful
	}

	span := float64(max(c.rules.FieldWidth-c.rules.ObjectWidth, 0))
	x := c.rng.Float64() * span

	y := 0.0
	if c.rules.SpawnMode == config.SpawnOffScreen {
		y = -(c.rules.OffscreenMin + c.rng.Float64()*(c.rules.OffscreenMax-c.rules.OffscreenMin))
	}

	vy := c.rules.MinFallSpeed + c.rng.Float64()*(c.rules.MaxFallSpeed-c.rules.MinFallSpeed)

	c.engine.SpawnObject(FallingObject{
		Kind:      kind,
		X:         x,
		Y:         y,
		VelocityY: vy,
	})
	c.spawned++

	c.retime()
}

// OnCatch applies the effect of the clam closing on an object.
func (c *Controller) OnCatch(obj FallingObject) {
	if !c.started || c.session.Over {
		return
	}

	c.engine.DestroyObject(obj.ID)

	switch obj.Kind {
	case Beneficial:
		c.session.Score++
		c.engine.SetText(scoreText(c.session.Score))
		c.openLid()
		c.retime()

	case Harmful:
		c.session.Over = true
		c.engine.PausePhysics()
		c.engine.SetAvatarVelocity(0)
		c.engine.SetAvatarTint(core.ColorRed)
		c.engine.StopSpawnTimer()
		c.engine.SetText(fmt.Sprintf("Game Over! Final Score: %d", c.session.Score))
		if c.rules.GameOverScene {
			c.engine.ChangeScene(SceneGameOver)
		}
	}
}

// openLid shows the open clam and schedules it to close again. A catch
// while the lid is already open restarts the countdown.
func (c *Controller) openLid() {
	if c.lidTimer != 0 {
		c.engine.Cancel(c.lidTimer)
	}
	c.engine.SetLidAngle(c.rules.OpenAngle)
	c.lidTimer = c.engine.After(c.rules.OpenDuration, func() {
		c.lidTimer = 0
		c.engine.SetLidAngle(0)
	})
}

// retime pushes a new spawn period to the engine when difficulty changed it.
func (c *Controller) retime() {
	if !c.difficulty.IsEnabled() || c.session.Over {
		return
	}
	next := c.difficulty.SpawnInterval(c.rules.SpawnInterval, c.session.Score, c.frames)
	if next != c.interval {
		c.interval = next
		c.engine.StartSpawnTimer(next)
	}
}

func scoreText(score int) string {
	return fmt.Sprintf("Score: %d", score)
}
