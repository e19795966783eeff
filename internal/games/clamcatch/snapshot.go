package clamcatch

// Snapshot contains the observable game state for replays and tests.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick       uint64  `msgpack:"tick"`
	Scene      string  `msgpack:"scene"`
	Score      int     `msgpack:"score"`
	Over       bool    `msgpack:"over"`
	Paused     bool    `msgpack:"paused"`
	AvatarX    float64 `msgpack:"avatar_x"`
	LidAngle   float64 `msgpack:"lid_angle"` // requested angle, not the animated one
	Objects    int     `msgpack:"objects"`
	Spawned    int     `msgpack:"spawned"`
	SpawnTimer bool    `msgpack:"spawn_timer"`
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.world == nil {
		return Snapshot{}
	}
	s := g.ctrl.Session()
	return Snapshot{
		Tick:       g.world.Ticks(),
		Scene:      string(g.world.Scene()),
		Score:      s.Score,
		Over:       s.Over,
		Paused:     g.paused,
		AvatarX:    g.world.AvatarX(),
		LidAngle:   g.world.LidTarget(),
		Objects:    len(g.world.Objects()),
		Spawned:    g.ctrl.Spawned(),
		SpawnTimer: g.world.SpawnTimerActive(),
	}
}
