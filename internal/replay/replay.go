// Package replay records and plays back Clam Catch sessions.
//
// A recording is the seed, screen size, game configuration and the
// non-empty input frames of a run, plus the final snapshot. Because the
// simulation is deterministic, re-running the inputs must reproduce the
// snapshot exactly; Verify checks that.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/clamcatch/internal/config"
	"github.com/vovakirdan/clamcatch/internal/core"
	"github.com/vovakirdan/clamcatch/internal/games/clamcatch"
	"github.com/vovakirdan/clamcatch/internal/registry"
)

// FormatVersion is bumped whenever the encoding changes incompatibly.
const FormatVersion = 1

// Sentinel errors.
var (
	ErrMismatch    = errors.New("replay: final state mismatch")
	ErrVersion     = errors.New("replay: unsupported format version")
	ErrUnsupported = errors.New("replay: game does not support replays")
)

// Click is a pointer click in screen cells.
type Click struct {
	X int `msgpack:"x"`
	Y int `msgpack:"y"`
}

// Frame is the input of one tick. Only ticks with input are stored.
type Frame struct {
	Tick    uint64        `msgpack:"t"`
	Actions []core.Action `msgpack:"a,omitempty"`
	Clicks  []Click       `msgpack:"c,omitempty"`
}

// Recording is a complete replay file.
type Recording struct {
	Version    int                `msgpack:"version"`
	ID         string             `msgpack:"id"`
	GameID     string             `msgpack:"game"`
	Player     string             `msgpack:"player,omitempty"`
	Seed       int64              `msgpack:"seed"`
	ScreenW    int                `msgpack:"w"`
	ScreenH    int                `msgpack:"h"`
	TickRate   int                `msgpack:"fps"`
	Config     config.CatchConfig `msgpack:"config"`
	Ticks      uint64             `msgpack:"ticks"`
	Frames     []Frame            `msgpack:"frames"`
	Final      clamcatch.Snapshot `msgpack:"final"`
	RecordedAt time.Time          `msgpack:"recorded_at"`
}

// Runtime returns the runtime config the recording was made with.
func (r *Recording) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  r.ScreenW,
		ScreenH:  r.ScreenH,
		TickRate: r.TickRate,
		Seed:     r.Seed,
	}
}

// Recorder accumulates input frames while a game runs.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording for a game that was just reset with
// runtime and cfg.
func NewRecorder(gameID, player string, runtime core.RuntimeConfig, cfg config.CatchConfig) *Recorder {
	return &Recorder{rec: Recording{
		Version:    FormatVersion,
		ID:         uuid.NewString(),
		GameID:     gameID,
		Player:     player,
		Seed:       runtime.Seed,
		ScreenW:    runtime.ScreenW,
		ScreenH:    runtime.ScreenH,
		TickRate:   runtime.TickRate,
		Config:     cfg,
		RecordedAt: time.Now().UTC(),
	}}
}

// ID returns the recording's UUID.
func (r *Recorder) ID() string {
	return r.rec.ID
}

// Ticks returns the number of frames recorded so far.
func (r *Recorder) Ticks() uint64 {
	return r.rec.Ticks
}

// Record stores the input passed to one Step call.
func (r *Recorder) Record(in core.InputFrame) {
	tick := r.rec.Ticks
	r.rec.Ticks++
	if in.Empty() {
		return
	}

	f := Frame{Tick: tick}
	for a, on := range in.Actions {
		if on {
			f.Actions = append(f.Actions, a)
		}
	}
	// Map order is random; keep files byte-stable
	slices.Sort(f.Actions)
	for _, p := range in.Clicks {
		f.Clicks = append(f.Clicks, Click{X: p.X, Y: p.Y})
	}
	r.rec.Frames = append(r.rec.Frames, f)
}

// Finish seals the recording with the game's final snapshot.
func (r *Recorder) Finish(final clamcatch.Snapshot) *Recording {
	rec := r.rec
	rec.Frames = slices.Clone(r.rec.Frames)
	rec.Final = final
	return &rec
}

// Encode writes a recording as msgpack.
func Encode(w io.Writer, rec *Recording) error {
	if err := msgpack.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Decode reads a msgpack recording.
func Decode(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return &rec, nil
}

// Save writes a recording to path, creating parent directories.
func Save(path string, rec *Recording) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("replay: cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: cannot create %s: %w", path, err)
	}
	if err := Encode(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// DefaultDir returns ~/.arcade/replays, or ./replays without a home directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "replays"
	}
	return filepath.Join(home, ".arcade", "replays")
}

// FileName returns the file name used for a recording: <game>_<id>.replay.
func FileName(gameID, id string) string {
	return fmt.Sprintf("%s_%s.replay", gameID, id)
}

// DefaultPath returns where a recording is saved unless told otherwise.
func DefaultPath(rec *Recording) string {
	return filepath.Join(DefaultDir(), FileName(rec.GameID, rec.ID))
}

// Player steps a fresh game through a recording's inputs.
type Player struct {
	rec  *Recording
	game *clamcatch.Game
	tick uint64
	next int // index of the next stored frame
}

// NewPlayer creates the recorded game and resets it exactly as recorded.
func NewPlayer(rec *Recording) (*Player, error) {
	g, err := registry.Create(rec.GameID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	game, ok := g.(*clamcatch.Game)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, rec.GameID)
	}
	game.ResetWithConfig(rec.Runtime(), rec.Config)
	return &Player{rec: rec, game: game}, nil
}

// Game returns the game being replayed, for rendering.
func (p *Player) Game() *clamcatch.Game {
	return p.game
}

// Done reports whether every recorded tick has been played.
func (p *Player) Done() bool {
	return p.tick >= p.rec.Ticks
}

// Tick returns the number of ticks played so far.
func (p *Player) Tick() uint64 {
	return p.tick
}

// Total returns the number of ticks in the recording.
func (p *Player) Total() uint64 {
	return p.rec.Ticks
}

// Step plays one recorded tick. It returns false once the recording is over.
func (p *Player) Step() bool {
	if p.Done() {
		return false
	}

	in := core.NewInputFrame()
	if p.next < len(p.rec.Frames) && p.rec.Frames[p.next].Tick == p.tick {
		f := p.rec.Frames[p.next]
		for _, a := range f.Actions {
			in.Set(a)
		}
		for _, c := range f.Clicks {
			in.Click(c.X, c.Y)
		}
		p.next++
	}

	p.game.Step(in)
	p.tick++
	return true
}

// Verify replays a recording headlessly and compares the final snapshot.
func Verify(rec *Recording) (clamcatch.Snapshot, error) {
	p, err := NewPlayer(rec)
	if err != nil {
		return clamcatch.Snapshot{}, err
	}
	for p.Step() {
	}

	got := p.game.Snapshot()
	if got != rec.Final {
		return got, fmt.Errorf("%w: recorded %+v, replayed %+v", ErrMismatch, rec.Final, got)
	}
	return got, nil
}
