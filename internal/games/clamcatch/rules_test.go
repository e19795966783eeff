package clamcatch

import (
	"testing"
	"time"

	"github.com/vovakirdan/clamcatch/internal/config"
	"github.com/vovakirdan/clamcatch/internal/core"
)

// fakeEngine records the commands the controller issues.
type fakeEngine struct {
	objects   map[ObjectID]FallingObject
	spawned   []FallingObject
	destroyed []ObjectID
	nextID    ObjectID

	velocity float64
	centered int
	lid      float64
	tint     core.Color
	paused   bool

	timerOn     bool
	interval    time.Duration
	timerStarts int

	delayed   map[TimerID]func()
	nextTimer TimerID

	text  string
	scene Scene
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		objects: make(map[ObjectID]FallingObject),
		delayed: make(map[TimerID]func()),
		scene:   SceneTitle,
	}
}

func (e *fakeEngine) SpawnObject(obj FallingObject) ObjectID {
	e.nextID++
	obj.ID = e.nextID
	e.objects[obj.ID] = obj
	e.spawned = append(e.spawned, obj)
	return obj.ID
}

func (e *fakeEngine) DestroyObject(id ObjectID) {
	delete(e.objects, id)
	e.destroyed = append(e.destroyed, id)
}

func (e *fakeEngine) ClearObjects()                { clear(e.objects) }
func (e *fakeEngine) SetAvatarVelocity(vx float64) { e.velocity = vx }
func (e *fakeEngine) CenterAvatar()                { e.centered++ }
func (e *fakeEngine) SetLidAngle(degrees float64)  { e.lid = degrees }
func (e *fakeEngine) SetAvatarTint(c core.Color)   { e.tint = c }
func (e *fakeEngine) PausePhysics()                { e.paused = true }
func (e *fakeEngine) ResumePhysics()               { e.paused = false }
func (e *fakeEngine) StopSpawnTimer()              { e.timerOn = false }
func (e *fakeEngine) SetText(text string)          { e.text = text }
func (e *fakeEngine) ChangeScene(scene Scene)      { e.scene = scene }
func (e *fakeEngine) Cancel(id TimerID)            { delete(e.delayed, id) }

func (e *fakeEngine) StartSpawnTimer(every time.Duration) {
	e.timerOn = true
	e.interval = every
	e.timerStarts++
}

func (e *fakeEngine) After(_ time.Duration, fn func()) TimerID {
	e.nextTimer++
	e.delayed[e.nextTimer] = fn
	return e.nextTimer
}

func (e *fakeEngine) CancelAll() {
	clear(e.delayed)
	e.timerOn = false
}

// fireDelayed runs every pending delayed call.
func (e *fakeEngine) fireDelayed() {
	calls := e.delayed
	e.delayed = make(map[TimerID]func())
	for _, fn := range calls {
		fn()
	}
}

func testRules() Rules {
	return Rules{
		FieldWidth:    80,
		ObjectWidth:   3,
		MinFallSpeed:  4,
		MaxFallSpeed:  8,
		SpawnMode:     config.SpawnOnScreen,
		OffscreenMin:  2,
		OffscreenMax:  4,
		AvatarSpeed:   35,
		OpenAngle:     90,
		OpenDuration:  500 * time.Millisecond,
		SpawnInterval: time.Second,
		GameOverScene: true,
	}
}

func startedController(t *testing.T, rules Rules) (*Controller, *fakeEngine) {
	t.Helper()
	e := newFakeEngine()
	c := NewController(rules, e, 7)
	c.OnStart()
	return c, e
}

func TestSpawnTickCreatesOneObject(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		minY, maxY float64
	}{
		{"on screen", config.SpawnOnScreen, 0, 0},
		{"off screen", config.SpawnOffScreen, -4, -2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := testRules()
			rules.SpawnMode = tc.mode
			c, e := startedController(t, rules)

			kinds := make(map[Kind]int)
			for i := 1; i <= 500; i++ {
				c.OnSpawnTick()
				if len(e.spawned) != i {
					t.Fatalf("tick %d: %d objects spawned, expected %d", i, len(e.spawned), i)
				}
				obj := e.spawned[i-1]
				kinds[obj.Kind]++

				if obj.Kind != Beneficial && obj.Kind != Harmful {
					t.Errorf("unexpected kind %v", obj.Kind)
				}
				if obj.VelocityY < rules.MinFallSpeed || obj.VelocityY > rules.MaxFallSpeed {
					t.Errorf("fall speed %v outside [%v, %v]", obj.VelocityY, rules.MinFallSpeed, rules.MaxFallSpeed)
				}
				if obj.X < 0 || obj.X > float64(rules.FieldWidth-rules.ObjectWidth) {
					t.Errorf("x %v outside the field", obj.X)
				}
				if obj.Y < tc.minY || obj.Y > tc.maxY {
					t.Errorf("y %v outside [%v, %v]", obj.Y, tc.minY, tc.maxY)
				}
			}

			if kinds[Beneficial] == 0 || kinds[Harmful] == 0 {
				t.Errorf("both kinds should appear, got %v", kinds)
			}
			if c.Spawned() != 500 {
				t.Errorf("Spawned() = %d, expected 500", c.Spawned())
			}
		})
	}
}

func TestCatchSequenceScenario(t *testing.T) {
	c, e := startedController(t, testRules())

	for want := 1; want <= 3; want++ {
		id := e.SpawnObject(FallingObject{Kind: Beneficial})
		c.OnCatch(FallingObject{ID: id, Kind: Beneficial})

		if got := c.Session().Score; got != want {
			t.Fatalf("score after catch %d = %d", want, got)
		}
		if e.text != scoreText(want) {
			t.Errorf("text = %q, expected %q", e.text, scoreText(want))
		}
		if _, ok := e.objects[id]; ok {
			t.Error("caught object should be destroyed")
		}
	}

	id := e.SpawnObject(FallingObject{Kind: Harmful})
	c.OnCatch(FallingObject{ID: id, Kind: Harmful})

	s := c.Session()
	if !s.Over {
		t.Fatal("stone catch should end the session")
	}
	if score, over := c.FinalScore(); score != 3 || !over {
		t.Errorf("FinalScore() = %d, %v", score, over)
	}
	if e.text != "Game Over! Final Score: 3" {
		t.Errorf("text = %q", e.text)
	}
	if e.timerOn {
		t.Error("spawn timer should be stopped")
	}
	if !e.paused {
		t.Error("physics should be paused")
	}
	if e.tint != core.ColorRed {
		t.Errorf("tint = %v, expected red", e.tint)
	}
	if e.scene != SceneGameOver {
		t.Errorf("scene = %q, expected gameover", e.scene)
	}
}

func TestNothingChangesAfterGameOver(t *testing.T) {
	c, e := startedController(t, testRules())

	c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Beneficial}), Kind: Beneficial})
	c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Harmful}), Kind: Harmful})

	spawned := len(e.spawned)
	c.OnSpawnTick()
	c.OnCatch(FallingObject{ID: 99, Kind: Beneficial})
	c.OnCatch(FallingObject{ID: 100, Kind: Harmful})
	c.OnUpdate(1, 10)

	if len(e.spawned) != spawned {
		t.Error("no objects should spawn after game over")
	}
	if s := c.Session(); s.Score != 1 || !s.Over {
		t.Errorf("session changed after game over: %+v", s)
	}
	if e.velocity != 0 {
		t.Errorf("avatar should not move after game over, velocity = %v", e.velocity)
	}
}

func TestRestart(t *testing.T) {
	c, e := startedController(t, testRules())

	c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Beneficial}), Kind: Beneficial})
	c.OnRestartRequested()
	if c.Session().Score != 1 {
		t.Fatal("restart before game over should be ignored")
	}

	e.SpawnObject(FallingObject{Kind: Beneficial})
	c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Harmful}), Kind: Harmful})
	c.OnRestartRequested()

	s := c.Session()
	if s.Score != 0 || s.Over {
		t.Errorf("restart should reset the session, got %+v", s)
	}
	if !e.timerOn || e.interval != time.Second {
		t.Errorf("spawning should resume at the base interval, on=%v interval=%v", e.timerOn, e.interval)
	}
	if e.paused || e.tint != core.ColorDefault || e.lid != 0 {
		t.Errorf("avatar should be reset: paused=%v tint=%v lid=%v", e.paused, e.tint, e.lid)
	}
	if len(e.objects) != 0 || len(e.delayed) != 0 {
		t.Errorf("restart should clear objects and delayed calls, %d objects %d calls", len(e.objects), len(e.delayed))
	}
	if e.text != "Score: 0" || e.scene != ScenePlay {
		t.Errorf("text=%q scene=%q", e.text, e.scene)
	}
	if e.centered != 2 {
		t.Errorf("avatar should be recentered on each start, centered %d times", e.centered)
	}

	c.OnSpawnTick()
	if c.Spawned() != 1 {
		t.Errorf("spawn count should restart from zero, got %d", c.Spawned())
	}
}

func TestStartOnlyOnce(t *testing.T) {
	c, e := startedController(t, testRules())
	c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Beneficial}), Kind: Beneficial})

	c.OnStart()
	if c.Session().Score != 1 {
		t.Error("a second OnStart should not reset a running session")
	}
	if e.timerStarts != 1 {
		t.Errorf("spawn timer started %d times", e.timerStarts)
	}
}

func TestEventsBeforeStartAreIgnored(t *testing.T) {
	e := newFakeEngine()
	c := NewController(testRules(), e, 1)

	c.OnSpawnTick()
	c.OnCatch(FallingObject{ID: 1, Kind: Beneficial})
	c.OnRestartRequested()

	if c.Started() || len(e.spawned) != 0 || c.Session().Score != 0 {
		t.Errorf("controller acted before start: started=%v spawned=%d", c.Started(), len(e.spawned))
	}
}

func TestLidOpensAndCloses(t *testing.T) {
	c, e := startedController(t, testRules())

	c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Beneficial}), Kind: Beneficial})
	if e.lid != 90 {
		t.Fatalf("lid = %v after catch, expected 90", e.lid)
	}

	c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Beneficial}), Kind: Beneficial})
	if len(e.delayed) != 1 {
		t.Fatalf("a catch while open should replace the close call, %d pending", len(e.delayed))
	}

	e.fireDelayed()
	if e.lid != 0 {
		t.Errorf("lid = %v after delay, expected 0", e.lid)
	}
}

func TestOnUpdateSetsVelocity(t *testing.T) {
	tests := []struct {
		dir  int
		want float64
	}{
		{-1, -35},
		{0, 0},
		{1, 35},
		{5, 35},
	}

	c, e := startedController(t, testRules())
	for _, tc := range tests {
		c.OnUpdate(tc.dir, 12.5)
		if e.velocity != tc.want {
			t.Errorf("OnUpdate(%d) velocity = %v, expected %v", tc.dir, e.velocity, tc.want)
		}
		if c.Session().AvatarX != 12.5 {
			t.Errorf("session avatar x = %v", c.Session().AvatarX)
		}
	}
}

func TestWithoutGameOverScene(t *testing.T) {
	rules := testRules()
	rules.GameOverScene = false
	c, e := startedController(t, rules)

	c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Harmful}), Kind: Harmful})
	if e.scene != ScenePlay {
		t.Errorf("scene = %q, expected to stay in play", e.scene)
	}
	if e.text != "Game Over! Final Score: 0" {
		t.Errorf("text = %q", e.text)
	}
}

func TestDifficultyShortensSpawnInterval(t *testing.T) {
	rules := testRules()
	rules.Difficulty = config.DefaultCatchConfig().Difficulty
	c, e := startedController(t, rules)

	first := c.SpawnInterval()
	for range rules.Difficulty.Progression.MaxAt {
		c.OnCatch(FallingObject{ID: e.SpawnObject(FallingObject{Kind: Beneficial}), Kind: Beneficial})
	}

	if c.SpawnInterval() >= first {
		t.Errorf("interval should shrink with score: %v -> %v", first, c.SpawnInterval())
	}
	if e.interval != c.SpawnInterval() {
		t.Errorf("engine timer %v does not match controller %v", e.interval, c.SpawnInterval())
	}
	if c.SpawnInterval() < time.Duration(rules.Difficulty.Scaling.MinIntervalMS)*time.Millisecond {
		t.Errorf("interval %v below the floor", c.SpawnInterval())
	}
}

func TestSameSeedSameSpawns(t *testing.T) {
	c1, e1 := startedController(t, testRules())
	c2, e2 := startedController(t, testRules())

	for range 50 {
		c1.OnSpawnTick()
		c2.OnSpawnTick()
	}
	for i := range e1.spawned {
		if e1.spawned[i] != e2.spawned[i] {
			t.Fatalf("spawn %d differs: %+v vs %+v", i, e1.spawned[i], e2.spawned[i])
		}
	}
}
