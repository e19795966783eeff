package clamcatch

import (
	"time"

	"github.com/vovakirdan/clamcatch/internal/core"
)

// Kind distinguishes falling objects.
type Kind int

const (
	Beneficial Kind = iota // Beaver: worth a point
	Harmful                // Stone: ends the session
)

// String returns the sprite name for the kind.
func (k Kind) String() string {
	switch k {
	case Beneficial:
		return "beaver"
	case Harmful:
		return "stone"
	default:
		return "unknown"
	}
}

// ObjectID identifies a live falling object inside the world.
type ObjectID uint64

// TimerID identifies a pending one-shot delayed call.
type TimerID uint64

// FallingObject is a beaver or stone dropping towards the clam.
// Coordinates are field cells; Y grows downwards and 0 is the top row of
// the play field, so negative Y is above the visible area.
type FallingObject struct {
	ID        ObjectID
	Kind      Kind
	X         float64
	Y         float64
	VelocityY float64 // cells per second
}

// Scene names what the player is looking at.
type Scene string

const (
	SceneTitle    Scene = "title"
	ScenePlay     Scene = "play"
	SceneGameOver Scene = "gameover"
)

// Engine is the set of commands the rule controller issues. The World
// implements it; tests use a recording fake.
type Engine interface {
	SpawnObject(obj FallingObject) ObjectID
	DestroyObject(id ObjectID)
	ClearObjects()

	SetAvatarVelocity(vx float64)
	CenterAvatar()
	SetLidAngle(degrees float64)
	SetAvatarTint(c core.Color)

	PausePhysics()
	ResumePhysics()

	StartSpawnTimer(every time.Duration)
	StopSpawnTimer()
	After(delay time.Duration, fn func()) TimerID
	Cancel(id TimerID)
	CancelAll()

	SetText(text string)
	ChangeScene(scene Scene)
}

// Handler receives the events the world delivers.
type Handler interface {
	// OnUpdate runs once per simulated frame with the held direction
	// (-1 left, 0 none, +1 right) and the avatar's current x.
	OnUpdate(dir int, avatarX float64)

	// OnSpawnTick runs each time the repeating spawn timer fires.
	OnSpawnTick()

	// OnCatch runs when the avatar's lid overlaps a falling object.
	OnCatch(obj FallingObject)

	// OnStart begins a session from the title scene.
	OnStart()

	// OnRestartRequested runs when the player presses the restart button.
	OnRestartRequested()
}
