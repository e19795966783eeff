package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/clamcatch/internal/core"
	"github.com/vovakirdan/clamcatch/internal/games/clamcatch"
	"github.com/vovakirdan/clamcatch/internal/replay"
	"github.com/vovakirdan/clamcatch/internal/storage"
)

// fakeGame ends after overAt steps and restarts on ActionRestart.
type fakeGame struct {
	overAt int
	score  int
	steps  int
	resets int
	last   core.InputFrame
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.last = in.Clone()
	if g.State().GameOver && in.Has(core.ActionRestart) {
		g.steps = 0
	} else {
		g.steps++
	}
	return core.StepResult{State: g.State()}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "fake")
}

func (g *fakeGame) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.overAt > 0 && g.steps >= g.overAt,
	}
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// isolateHome keeps config lookups and screenshots inside a temp dir.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
}

func send(m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(GameModel), cmd
}

func ticks(m GameModel, n int) GameModel {
	for range n {
		m, _ = send(m, TickMsg{})
	}
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestGameModelSavesRunOnGameOver(t *testing.T) {
	store := openTestStore(t)
	game := &fakeGame{overAt: 3, score: 5}
	m := NewGameModel(game, testRuntime(), Options{Store: store, Player: "alice"})

	m = ticks(m, 6)

	if !m.State().GameOver {
		t.Fatal("game should be over")
	}
	scores, err := store.TopScores("fake", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected one saved run, got %d", len(scores))
	}
	run := scores[0]
	if run.Player != "alice" || run.Score != 5 || run.Ticks != 3 || run.RunID == "" {
		t.Errorf("unexpected run %+v", run)
	}
	if run.ReplayPath != "" {
		t.Errorf("nothing was recorded, got replay path %q", run.ReplayPath)
	}
}

func TestGameModelSkipsZeroScores(t *testing.T) {
	store := openTestStore(t)
	m := NewGameModel(&fakeGame{overAt: 1}, testRuntime(), Options{Store: store})

	ticks(m, 3)

	if scores, _ := store.TopScores("fake", 10); len(scores) != 0 {
		t.Errorf("zero scores should not be stored, got %d", len(scores))
	}
}

func TestGameModelRestartStartsNewRun(t *testing.T) {
	store := openTestStore(t)
	game := &fakeGame{overAt: 3, score: 2}
	m := NewGameModel(game, testRuntime(), Options{Store: store})

	m = ticks(m, 3)
	m, _ = send(m, runeKey('r'))
	m = ticks(m, 1)
	if m.State().GameOver {
		t.Fatal("restart should leave the game-over state")
	}
	m = ticks(m, 3)
	if !m.State().GameOver {
		t.Fatal("second run should be over")
	}

	scores, _ := store.AllScores("fake")
	if len(scores) != 2 {
		t.Fatalf("expected two runs, got %d", len(scores))
	}
	if scores[0].RunID == scores[1].RunID {
		t.Error("each run needs its own run ID")
	}
	if game.resets != 1 {
		t.Errorf("restart is handled by the game, expected 1 reset, got %d", game.resets)
	}
}

func TestGameModelForwardsInput(t *testing.T) {
	game := &fakeGame{}
	m := NewGameModel(game, testRuntime(), Options{})

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = send(m, tea.MouseMsg{X: 3, Y: 9, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = ticks(m, 1)

	if !game.last.Has(core.ActionLeft) {
		t.Error("left should reach the game")
	}
	if len(game.last.Clicks) != 1 || game.last.Clicks[0] != (core.Point{X: 3, Y: 9}) {
		t.Errorf("click should reach the game, got %+v", game.last.Clicks)
	}

	ticks(m, 1)
	if !game.last.Empty() {
		t.Error("input should be cleared after each tick")
	}
}

func TestGameModelBackToMenu(t *testing.T) {
	game := &fakeGame{overAt: 2}
	m := NewGameModel(game, testRuntime(), Options{})

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.BackToMenu() {
		t.Fatal("back should be ignored while the game runs")
	}

	m = ticks(m, 2)
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEscape})
	if !m.BackToMenu() {
		t.Error("back should work after game over")
	}
	if isQuit(cmd) {
		t.Error("embedded models must not quit the program on back")
	}
}

func TestGameModelBackFromTitle(t *testing.T) {
	isolateHome(t)
	m := NewGameModel(clamcatch.New(clamcatch.Standard), testRuntime(), Options{})
	m = ticks(m, 3)

	if !m.State().Idle {
		t.Fatal("standard variant should wait on its title screen")
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEscape})
	if !m.BackToMenu() {
		t.Error("back should work before a run starts")
	}
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(&fakeGame{}, testRuntime(), Options{})

	m, cmd := send(m, runeKey('q'))
	if !m.IsQuitting() || !isQuit(cmd) {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestGameModelResize(t *testing.T) {
	game := &fakeGame{overAt: 5}
	m := NewGameModel(game, testRuntime(), Options{})

	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if game.resets != 1 {
		t.Errorf("same size should not reset, got %d resets", game.resets)
	}

	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if game.resets != 2 {
		t.Errorf("resize should reset a running game, got %d resets", game.resets)
	}

	m = ticks(m, 5)
	send(m, tea.WindowSizeMsg{Width: 90, Height: 30})
	if game.resets != 2 {
		t.Errorf("resize should keep the game-over screen, got %d resets", game.resets)
	}
}

func TestGameModelView(t *testing.T) {
	m := NewGameModel(&fakeGame{}, core.RuntimeConfig{ScreenW: 10, ScreenH: 2}, Options{})

	if !strings.HasPrefix(m.View(), "fake") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestGameModelRecordsReplay(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()

	m := NewGameModel(clamcatch.New(clamcatch.Classic), testRuntime(), Options{
		Player:    "bob",
		Record:    true,
		ReplayDir: dir,
	})

	for i := range 240 {
		switch {
		case i%40 < 15:
			m, _ = send(m, tea.KeyMsg{Type: tea.KeyLeft})
		case i%40 < 30:
			m, _ = send(m, tea.KeyMsg{Type: tea.KeyRight})
		}
		m, _ = send(m, TickMsg{})
	}
	m, _ = send(m, runeKey('q'))

	path := m.ReplayPath()
	if filepath.Dir(path) != dir {
		t.Fatalf("replay path %q is not in %q", path, dir)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("replay not written: %v", err)
	}

	rec, err := replay.Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if rec.Ticks != 240 || rec.Player != "bob" || rec.GameID != clamcatch.Classic.ID {
		t.Errorf("unexpected recording header: ticks %d, player %q, game %q", rec.Ticks, rec.Player, rec.GameID)
	}
	if _, err := replay.Verify(rec); err != nil {
		t.Errorf("recorded session should replay exactly: %v", err)
	}
}

func TestSessionModelFlow(t *testing.T) {
	isolateHome(t)
	store := openTestStore(t)

	s := NewSessionModel("session-1", testRuntime(), Options{Store: store, Player: "carol"})
	step := func(msg tea.Msg) tea.Cmd {
		next, cmd := s.Update(msg)
		s = next.(SessionModel)
		return cmd
	}

	// Tab opens the scoreboard, esc returns
	if isQuit(step(tea.KeyMsg{Type: tea.KeyTab})) || s.scoreboard == nil {
		t.Fatal("tab should open the scoreboard without quitting")
	}
	if isQuit(step(tea.KeyMsg{Type: tea.KeyEscape})) || s.scoreboard != nil {
		t.Fatal("esc should return to the menu without quitting")
	}

	// Down selects the classic variant
	step(tea.KeyMsg{Type: tea.KeyDown})
	if isQuit(step(tea.KeyMsg{Type: tea.KeyEnter})) || s.gameModel == nil {
		t.Fatal("enter should start a game without quitting")
	}
	if s.gameModel.game.ID() != clamcatch.Classic.ID {
		t.Errorf("started %q", s.gameModel.game.ID())
	}

	step(runeKey('p'))
	step(TickMsg{})
	if !s.gameModel.State().Paused {
		t.Fatal("p should pause the game")
	}
	if isQuit(step(tea.KeyMsg{Type: tea.KeyEscape})) || s.gameModel != nil {
		t.Fatal("esc while paused should go back to the menu")
	}

	if !isQuit(step(runeKey('q'))) {
		t.Error("q in the menu should end the session")
	}
	if s.ID() != "session-1" {
		t.Errorf("ID() = %q", s.ID())
	}
}
