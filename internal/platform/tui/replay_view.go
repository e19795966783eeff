package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/clamcatch/internal/core"
	"github.com/vovakirdan/clamcatch/internal/replay"
)

const maxReplaySpeed = 8

// ReplayKeyMap defines the key bindings of the replay viewer.
type ReplayKeyMap struct {
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Step   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Faster, k.Slower, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Step}, {k.Faster, k.Slower}, {k.Quit}}
}

// DefaultReplayKeyMap returns default key bindings.
func DefaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "=", "right"),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "left"),
			key.WithHelp("-", "slower"),
		),
		Step: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "step"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplayModel plays a recording back at the recorded tick rate.
// The game renders at its recorded size; a status line sits below it.
type ReplayModel struct {
	rec      *replay.Recording
	player   *replay.Player
	screen   *core.Screen
	keys     ReplayKeyMap
	help     help.Model
	speed    int
	paused   bool
	quitting bool
}

// NewReplayModel creates a viewer for rec.
func NewReplayModel(rec *replay.Recording) (ReplayModel, error) {
	p, err := replay.NewPlayer(rec)
	if err != nil {
		return ReplayModel{}, err
	}
	return ReplayModel{
		rec:    rec,
		player: p,
		screen: core.NewScreen(rec.ScreenW, rec.ScreenH),
		keys:   DefaultReplayKeyMap(),
		help:   help.New(),
		speed:  1,
	}, nil
}

// Init starts the tick loop.
func (m ReplayModel) Init() tea.Cmd {
	return tickCmd(m.tickRate())
}

func (m ReplayModel) tickRate() int {
	if m.rec.TickRate <= 0 {
		return 60
	}
	return m.rec.TickRate
}

// Update handles messages.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Faster):
			m.speed = min(m.speed*2, maxReplaySpeed)
		case key.Matches(msg, m.keys.Slower):
			m.speed = max(m.speed/2, 1)
		case key.Matches(msg, m.keys.Step):
			if m.paused {
				m.player.Step()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			for range m.speed {
				if !m.player.Step() {
					break
				}
			}
		}
		return m, tickCmd(m.tickRate())
	}

	return m, nil
}

// Status returns the one-line playback summary.
func (m ReplayModel) Status() string {
	state := "playing"
	switch {
	case m.player.Done():
		state = "finished"
	case m.paused:
		state = "paused"
	}

	who := m.rec.Player
	if who == "" {
		who = "anonymous"
	}
	return fmt.Sprintf("Replay %s by %s  tick %d/%d  x%d  %s",
		m.rec.GameID, who, m.player.Tick(), m.player.Total(), m.speed, state)
}

// View renders the replayed game and the status line.
func (m ReplayModel) View() string {
	if m.quitting {
		return ""
	}

	m.player.Game().Render(m.screen)

	status := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.Status())
	return RenderScreen(m.screen) + "\n" + status + "\n" + m.help.View(m.keys)
}

// RunReplay plays a recording in the terminal.
func RunReplay(rec *replay.Recording) error {
	model, err := NewReplayModel(rec)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
