package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/clamcatch/internal/config"
	"github.com/vovakirdan/clamcatch/internal/core"
	"github.com/vovakirdan/clamcatch/internal/games/clamcatch"
	"github.com/vovakirdan/clamcatch/internal/registry"
	"github.com/vovakirdan/clamcatch/internal/replay"
	"github.com/vovakirdan/clamcatch/internal/storage"
)

// Options carries the session-wide collaborators of a GameModel.
type Options struct {
	Store     *storage.Store // nil disables score saving
	Logger    *log.Logger    // nil discards logs
	Player    string         // recorded with every run
	Record    bool           // write a replay of the session
	ReplayDir string         // defaults to replay.DefaultDir()
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// recordable is implemented by games whose sessions can be replayed.
type recordable interface {
	Snapshot() clamcatch.Snapshot
	Config() config.CatchConfig
}

// GameModel is the Bubble Tea model that runs a single game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	log        *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper

	runID      string
	runTicks   int
	recorder   *replay.Recorder
	replayPath string

	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
	standalone bool // Own program: leaving the game ends it
}

// NewGameModel resets game and wraps it in a model.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts Options) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts,
		log:        opts.logger().With("game", game.ID()),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
	m.resetGame()
	return m
}

// resetGame starts a fresh run, and a fresh recording when enabled.
func (m *GameModel) resetGame() {
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.runID = uuid.NewString()
	m.runTicks = 0
	m.recorder = nil
	m.replayPath = ""

	r, ok := m.game.(recordable)
	if !m.opts.Record || !ok {
		return
	}
	m.recorder = replay.NewRecorder(m.game.ID(), m.opts.Player, m.config, r.Config())
	dir := m.opts.ReplayDir
	if dir == "" {
		dir = replay.DefaultDir()
	}
	m.replayPath = filepath.Join(dir, replay.FileName(m.game.ID(), m.recorder.ID()))
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.saveReplay()
		return m, tea.Quit
	}

	// Back to menu only when nothing is in motion
	if action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused || m.gameState.Idle) {
		m.backToMenu = true
		m.saveReplay()
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if msg.Width == m.config.ScreenW && msg.Height == m.config.ScreenH {
		return m, nil
	}

	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// The field depends on the screen size, so a live run restarts
	if !m.gameState.GameOver {
		m.resetGame()
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	wasOver := m.gameState.GameOver

	result := m.game.Step(m.inputFrame)
	if m.recorder != nil {
		m.recorder.Record(m.inputFrame)
	}
	m.gameState = result.State
	m.runTicks++

	// Restarted from the game-over screen
	if wasOver && !m.gameState.GameOver {
		m.scoreSaved = false
		m.runID = uuid.NewString()
		m.runTicks = 0
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.scoreSaved = true
		m.finishRun()
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// finishRun persists a finished run and its replay.
func (m *GameModel) finishRun() {
	m.saveReplay()

	m.log.Info("run finished",
		"run", m.runID,
		"player", m.opts.Player,
		"score", m.gameState.Score,
		"ticks", m.runTicks,
	)

	if m.opts.Store == nil || m.gameState.Score <= 0 {
		return
	}
	_, err := m.opts.Store.SaveRun(storage.ScoreEntry{
		RunID:      m.runID,
		GameID:     m.game.ID(),
		Player:     m.opts.Player,
		Score:      m.gameState.Score,
		Ticks:      m.runTicks,
		ReplayPath: m.replayPath,
	})
	if err != nil {
		m.log.Error("could not save score", "run", m.runID, "err", err)
	}
}

// saveReplay writes the session recording so far. Later calls overwrite it.
func (m *GameModel) saveReplay() {
	if m.recorder == nil || m.recorder.Ticks() == 0 {
		return
	}
	r, ok := m.game.(recordable)
	if !ok {
		return
	}

	rec := m.recorder.Finish(r.Snapshot())
	if err := replay.Save(m.replayPath, rec); err != nil {
		m.log.Error("could not save replay", "path", m.replayPath, "err", err)
		return
	}
	m.log.Debug("replay saved", "path", m.replayPath, "ticks", rec.Ticks)
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("could not create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("could not save screenshot", "err", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state after the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// ReplayPath returns where the session recording is written, if any.
func (m GameModel) ReplayPath() string {
	return m.replayPath
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// GameResult reports how a game session ended.
type GameResult struct {
	BackToMenu bool
	State      core.GameState
	ReplayPath string
	Config     core.RuntimeConfig
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (GameResult, error) {
	model := NewGameModel(game, cfg, opts)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Buttons are clickable
	)

	finalModel, err := p.Run()
	if err != nil {
		return GameResult{Config: cfg}, err
	}

	m, ok := finalModel.(GameModel)
	if !ok {
		return GameResult{Config: cfg}, nil
	}
	return GameResult{
		BackToMenu: m.BackToMenu(),
		State:      m.State(),
		ReplayPath: m.ReplayPath(),
		Config:     m.config,
	}, nil
}
