package clamcatch

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/vovakirdan/clamcatch/internal/core"
)

// Lid spring tuning: fast and critically damped so the lid snaps open
// without wobbling past the target.
const (
	lidFrequency = 14.0
	lidDamping   = 1.0
)

type body struct {
	FallingObject
	dead bool
}

// World is the tick-driven harness the controller plays in. It moves the
// avatar and falling objects, detects overlaps, runs timers and keeps the
// visual state (lid angle, tint, text, scene) the renderer reads.
type World struct {
	width        int // play field width in cells
	height       int // play field height in cells
	groundOffset int
	avatarWidth  int
	objectWidth  int
	gravity      float64
	dt           float64

	handler Handler
	sched   *Scheduler

	avatarX  float64
	avatarVX float64

	lidTarget float64
	lidShown  float64
	lidVel    float64
	spring    harmonica.Spring

	tint   core.Color
	text   string
	scene  Scene
	paused bool

	objects []*body
	nextID  ObjectID
	ticks   uint64
}

// WorldConfig sizes a World.
type WorldConfig struct {
	Width        int
	Height       int
	GroundOffset int
	AvatarWidth  int
	ObjectWidth  int
	Gravity      float64
	TickRate     int
}

// NewWorld creates an empty world. Call SetHandler before stepping it.
func NewWorld(cfg WorldConfig) *World {
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	w := &World{
		width:        max(cfg.Width, 1),
		height:       max(cfg.Height, 1),
		groundOffset: max(cfg.GroundOffset, 0),
		avatarWidth:  max(cfg.AvatarWidth, 1),
		objectWidth:  max(cfg.ObjectWidth, 1),
		gravity:      cfg.Gravity,
		dt:           1.0 / float64(tickRate),
		sched:        NewScheduler(tickRate),
		spring:       harmonica.NewSpring(harmonica.FPS(tickRate), lidFrequency, lidDamping),
		scene:        ScenePlay,
	}
	w.CenterAvatar()
	return w
}

// SetHandler connects the world's callbacks.
func (w *World) SetHandler(h Handler) {
	w.handler = h
}

// Width returns the play field width.
func (w *World) Width() int { return w.width }

// Height returns the play field height.
func (w *World) Height() int { return w.height }

// AvatarRow returns the field row of the clam's bottom shell.
func (w *World) AvatarRow() int {
	return w.height - 1 - w.groundOffset
}

// LidRow returns the field row of the clam's lid, the catching surface.
func (w *World) LidRow() int {
	return w.AvatarRow() - 1
}

// LidRect returns the avatar's collision volume.
func (w *World) LidRect() core.Rect {
	return core.RectAt(w.avatarX, float64(w.LidRow()), w.avatarWidth, 1)
}

// Step advances the world by one tick with the held input direction.
func (w *World) Step(dir int) {
	w.ticks++

	if w.sched.Advance() && w.handler != nil {
		w.handler.OnSpawnTick()
	}

	if !w.paused {
		if w.handler != nil {
			w.handler.OnUpdate(dir, w.avatarX)
		}
		w.moveAvatar()
		w.moveObjects()
	}

	w.lidShown, w.lidVel = w.spring.Update(w.lidShown, w.lidVel, w.lidTarget)
}

func (w *World) moveAvatar() {
	maxX := float64(max(w.width-w.avatarWidth, 0))
	w.avatarX = core.ClampF(w.avatarX+w.avatarVX*w.dt, 0, maxX)
}

// moveObjects integrates falling objects, reports overlaps in spawn order
// and drops whatever left the field or was destroyed.
func (w *World) moveObjects() {
	lid := w.LidRect()

	for _, b := range w.objects {
		if b.dead {
			continue
		}
		if w.paused {
			// A harmful catch earlier in this tick froze the world
			break
		}
		prevY := b.Y
		b.VelocityY += w.gravity * w.dt
		b.Y += b.VelocityY * w.dt

		if sweptRect(b.X, prevY, b.Y, w.objectWidth).Intersects(lid) && w.handler != nil {
			w.handler.OnCatch(b.FallingObject)
		}
	}

	kept := w.objects[:0]
	for _, b := range w.objects {
		if b.dead || b.Y >= float64(w.height) {
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(w.objects); i++ {
		w.objects[i] = nil
	}
	w.objects = kept
}

// sweptRect covers every row an object passed through during the tick so
// fast objects cannot skip over the one-row lid.
func sweptRect(x, fromY, toY float64, width int) core.Rect {
	top := math.Floor(math.Min(fromY, toY))
	bottom := math.Floor(math.Max(fromY, toY))
	return core.RectAt(x, top, width, int(bottom-top)+1)
}

// Objects returns a copy of the live falling objects in spawn order.
func (w *World) Objects() []FallingObject {
	out := make([]FallingObject, 0, len(w.objects))
	for _, b := range w.objects {
		if !b.dead {
			out = append(out, b.FallingObject)
		}
	}
	return out
}

// AvatarX returns the clam's left edge.
func (w *World) AvatarX() float64 { return w.avatarX }

// AvatarWidth returns the clam width in cells.
func (w *World) AvatarWidth() int { return w.avatarWidth }

// ObjectWidth returns the falling object sprite width in cells.
func (w *World) ObjectWidth() int { return w.objectWidth }

// LidAngle returns the animated lid angle in degrees.
func (w *World) LidAngle() float64 { return w.lidShown }

// LidTarget returns the last requested lid angle.
func (w *World) LidTarget() float64 { return w.lidTarget }

// Tint returns the avatar tint.
func (w *World) Tint() core.Color { return w.tint }

// Text returns the HUD text.
func (w *World) Text() string { return w.text }

// Scene returns the current scene.
func (w *World) Scene() Scene { return w.scene }

// Paused reports whether physics is paused.
func (w *World) Paused() bool { return w.paused }

// SpawnTimerActive reports whether the spawn timer is running.
func (w *World) SpawnTimerActive() bool { return w.sched.Repeating() }

// PendingCalls returns the number of delayed calls not yet run.
func (w *World) PendingCalls() int { return w.sched.Pending() }

// Ticks returns the number of steps taken.
func (w *World) Ticks() uint64 { return w.ticks }

// Engine implementation.

// SpawnObject adds a falling object and returns its new ID.
func (w *World) SpawnObject(obj FallingObject) ObjectID {
	w.nextID++
	obj.ID = w.nextID
	maxX := float64(max(w.width-w.objectWidth, 0))
	obj.X = core.ClampF(obj.X, 0, maxX)
	w.objects = append(w.objects, &body{FallingObject: obj})
	return obj.ID
}

// DestroyObject removes an object. It disappears from Objects at once.
func (w *World) DestroyObject(id ObjectID) {
	for _, b := range w.objects {
		if b.ID == id {
			b.dead = true
			return
		}
	}
}

// ClearObjects removes every falling object.
func (w *World) ClearObjects() {
	for _, b := range w.objects {
		b.dead = true
	}
	w.objects = w.objects[:0]
}

// SetAvatarVelocity sets the clam's horizontal speed in cells per second.
func (w *World) SetAvatarVelocity(vx float64) { w.avatarVX = vx }

// CenterAvatar puts the clam in the middle of the field.
func (w *World) CenterAvatar() {
	w.avatarX = float64(max(w.width-w.avatarWidth, 0)) / 2
}

// SetLidAngle sets the lid's target angle; the spring animates towards it.
func (w *World) SetLidAngle(degrees float64) { w.lidTarget = degrees }

// SetAvatarTint colors the whole clam. ColorDefault removes the tint.
func (w *World) SetAvatarTint(c core.Color) { w.tint = c }

// PausePhysics freezes avatar and object motion. Timers keep running.
func (w *World) PausePhysics() { w.paused = true }

// ResumePhysics unfreezes motion.
func (w *World) ResumePhysics() { w.paused = false }

// StartSpawnTimer (re)starts the repeating spawn timer.
func (w *World) StartSpawnTimer(every time.Duration) { w.sched.StartRepeating(every) }

// StopSpawnTimer cancels the spawn timer.
func (w *World) StopSpawnTimer() { w.sched.StopRepeating() }

// After schedules a one-shot delayed call.
func (w *World) After(delay time.Duration, fn func()) TimerID { return w.sched.After(delay, fn) }

// Cancel drops a pending delayed call.
func (w *World) Cancel(id TimerID) { w.sched.Cancel(id) }

// CancelAll drops every pending delayed call and the spawn timer.
func (w *World) CancelAll() { w.sched.Reset() }

// SetText sets the HUD text.
func (w *World) SetText(text string) { w.text = text }

// ChangeScene switches scenes.
func (w *World) ChangeScene(scene Scene) { w.scene = scene }

var _ Engine = (*World)(nil)
