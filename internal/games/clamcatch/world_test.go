package clamcatch

import (
	"math"
	"testing"
	"time"
)

// recordingHandler collects world events and destroys caught objects.
type recordingHandler struct {
	world      *World
	catches    []FallingObject
	spawnTicks int
	updates    int
	lastDir    int
	pauseOn    Kind
}

func (h *recordingHandler) OnUpdate(dir int, _ float64) {
	h.updates++
	h.lastDir = dir
}

func (h *recordingHandler) OnSpawnTick() { h.spawnTicks++ }

func (h *recordingHandler) OnCatch(obj FallingObject) {
	h.catches = append(h.catches, obj)
	h.world.DestroyObject(obj.ID)
	if obj.Kind == h.pauseOn {
		h.world.PausePhysics()
	}
}

func (h *recordingHandler) OnStart()            {}
func (h *recordingHandler) OnRestartRequested() {}

func newTestWorld(t *testing.T) (*World, *recordingHandler) {
	t.Helper()
	w := NewWorld(WorldConfig{
		Width:        40,
		Height:       20,
		GroundOffset: 1,
		AvatarWidth:  8,
		ObjectWidth:  3,
		Gravity:      0,
		TickRate:     60,
	})
	h := &recordingHandler{world: w, pauseOn: -1}
	w.SetHandler(h)
	return w, h
}

func TestWorldLayout(t *testing.T) {
	w, _ := newTestWorld(t)

	if w.AvatarRow() != 18 || w.LidRow() != 17 {
		t.Errorf("avatar row %d lid row %d, expected 18 and 17", w.AvatarRow(), w.LidRow())
	}
	if w.AvatarX() != 16 {
		t.Errorf("avatar should start centered at 16, got %v", w.AvatarX())
	}
}

func TestWorldDeliversCatch(t *testing.T) {
	w, h := newTestWorld(t)
	w.SpawnObject(FallingObject{Kind: Beneficial, X: 18, Y: 10, VelocityY: 60})

	for range 20 {
		w.Step(0)
	}

	if len(h.catches) != 1 {
		t.Fatalf("%d catches, expected 1", len(h.catches))
	}
	if h.catches[0].Kind != Beneficial || h.catches[0].ID != 1 {
		t.Errorf("unexpected catch %+v", h.catches[0])
	}
	if len(w.Objects()) != 0 {
		t.Error("caught object should be gone")
	}
}

func TestWorldFastObjectDoesNotTunnel(t *testing.T) {
	w, h := newTestWorld(t)
	// Ten rows per tick: it never lands exactly on the lid row
	w.SpawnObject(FallingObject{Kind: Harmful, X: 17, Y: 0.5, VelocityY: 600})

	for range 5 {
		w.Step(0)
	}
	if len(h.catches) != 1 {
		t.Errorf("%d catches, expected the swept check to find 1", len(h.catches))
	}
}

func TestWorldMissedObjectIsRemoved(t *testing.T) {
	w, h := newTestWorld(t)
	w.SpawnObject(FallingObject{Kind: Beneficial, X: 0, Y: -3, VelocityY: 120})

	for range 30 {
		w.Step(0)
	}

	if len(h.catches) != 0 {
		t.Errorf("object beside the clam should not be caught, got %d", len(h.catches))
	}
	if len(w.Objects()) != 0 {
		t.Error("object below the field should be removed")
	}
}

func TestWorldAvatarClampedToBounds(t *testing.T) {
	w, h := newTestWorld(t)

	w.SetAvatarVelocity(-3000)
	w.Step(-1)
	if w.AvatarX() != 0 {
		t.Errorf("avatar x = %v, expected 0", w.AvatarX())
	}
	if h.lastDir != -1 {
		t.Errorf("handler saw direction %d", h.lastDir)
	}

	w.SetAvatarVelocity(3000)
	w.Step(1)
	if w.AvatarX() != 32 {
		t.Errorf("avatar x = %v, expected 32", w.AvatarX())
	}
}

func TestWorldPauseFreezesMotionNotTimers(t *testing.T) {
	w, h := newTestWorld(t)
	w.SpawnObject(FallingObject{Kind: Beneficial, X: 0, Y: 2, VelocityY: 60})
	w.StartSpawnTimer(100 * time.Millisecond)
	closed := false
	w.After(50*time.Millisecond, func() { closed = true })

	w.PausePhysics()
	for range 12 {
		w.Step(1)
	}

	if got := w.Objects()[0].Y; got != 2 {
		t.Errorf("object moved while paused, y = %v", got)
	}
	if h.updates != 0 {
		t.Errorf("OnUpdate ran %d times while paused", h.updates)
	}
	if !closed {
		t.Error("delayed calls should run while paused")
	}
	if h.spawnTicks != 2 {
		t.Errorf("spawn timer fired %d times, expected 2", h.spawnTicks)
	}

	w.ResumePhysics()
	w.Step(0)
	if w.Objects()[0].Y <= 2 {
		t.Error("object should fall again after resume")
	}
}

func TestWorldSpawnTimerPeriod(t *testing.T) {
	w, h := newTestWorld(t)
	w.StartSpawnTimer(time.Second)

	for range 59 {
		w.Step(0)
	}
	if h.spawnTicks != 0 {
		t.Fatalf("timer fired early")
	}
	w.Step(0)
	if h.spawnTicks != 1 {
		t.Errorf("timer should fire on tick 60, fired %d times", h.spawnTicks)
	}

	w.StopSpawnTimer()
	for range 120 {
		w.Step(0)
	}
	if h.spawnTicks != 1 {
		t.Error("stopped timer kept firing")
	}
}

func TestWorldStopsOverlapsAfterPause(t *testing.T) {
	w, h := newTestWorld(t)
	h.pauseOn = Harmful

	w.SpawnObject(FallingObject{Kind: Harmful, X: 16, Y: 16.5, VelocityY: 60})
	w.SpawnObject(FallingObject{Kind: Beneficial, X: 20, Y: 16.5, VelocityY: 60})
	w.Step(0)

	if len(h.catches) != 1 || h.catches[0].Kind != Harmful {
		t.Errorf("only the first overlap should be delivered, got %+v", h.catches)
	}
}

func TestWorldFreezesObjectsAfterHarmfulCatch(t *testing.T) {
	w, h := newTestWorld(t)
	h.pauseOn = Harmful

	w.SpawnObject(FallingObject{Kind: Harmful, X: 16, Y: 16.9, VelocityY: 60})
	w.SpawnObject(FallingObject{Kind: Beneficial, X: 0, Y: 5, VelocityY: 60})
	w.SpawnObject(FallingObject{Kind: Beneficial, X: 30, Y: 19.5, VelocityY: 60})
	w.Step(0)

	if !w.Paused() {
		t.Fatal("harmful catch should pause physics")
	}
	objs := w.Objects()
	if len(objs) != 2 {
		t.Fatalf("%d objects left, expected both beavers kept in place", len(objs))
	}
	if objs[0].Y != 5 || objs[1].Y != 19.5 {
		t.Errorf("objects moved after the pause: %+v", objs)
	}
}

func TestWorldLidSpring(t *testing.T) {
	w, _ := newTestWorld(t)
	w.SetLidAngle(90)

	w.Step(0)
	if w.LidAngle() <= 0 || w.LidAngle() >= 90 {
		t.Errorf("lid should be on its way after one tick, angle = %v", w.LidAngle())
	}
	for range 60 {
		w.Step(0)
	}
	if math.Abs(w.LidAngle()-90) > 1 {
		t.Errorf("lid should settle near 90, angle = %v", w.LidAngle())
	}
	if w.LidTarget() != 90 {
		t.Errorf("LidTarget() = %v", w.LidTarget())
	}
}

func TestWorldClearObjects(t *testing.T) {
	w, _ := newTestWorld(t)
	w.SpawnObject(FallingObject{Kind: Beneficial, X: 100, Y: 1})
	w.SpawnObject(FallingObject{Kind: Harmful, X: 4, Y: 1})

	objs := w.Objects()
	if len(objs) != 2 || objs[0].X != 37 {
		t.Fatalf("spawned objects %+v, expected x clamped to 37", objs)
	}

	w.ClearObjects()
	if len(w.Objects()) != 0 {
		t.Error("ClearObjects left objects behind")
	}
}
