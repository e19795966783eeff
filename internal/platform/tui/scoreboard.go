package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/clamcatch/internal/registry"
	"github.com/vovakirdan/clamcatch/internal/storage"
)

const boardRows = 100

// boardMode selects which runs the scoreboard lists.
type boardMode int

const (
	boardTop boardMode = iota
	boardRecent
)

func (b boardMode) String() string {
	if b == boardRecent {
		return "RECENT RUNS"
	}
	return "HIGH SCORES"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Variant key.Binding
	Mode    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Variant, k.Mode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Variant, k.Mode},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Variant: key.NewBinding(key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"), key.WithHelp("tab/←/→", "variant")),
		Mode:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "top/recent")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists finished runs per variant, either best first or
// newest first.
type ScoreboardModel struct {
	variants  []registry.GameInfo
	current   int
	mode      boardMode
	store     *storage.Store
	runs      []storage.ScoreEntry
	stats     *storage.GameStats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard showing the first variant's best runs.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		variants: registry.List(),
		store:    store,
		keys:     DefaultScoreboardKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
	m.help.Width = width
	m.table = m.newTable()
	m.reload()
	return m
}

func (m *ScoreboardModel) newTable() table.Model {
	playerW := 12
	if m.width > 70 {
		playerW = min(m.width-52, 24)
	}
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Player", Width: playerW},
		{Title: "Ticks", Width: 8},
		{Title: "When", Width: 16},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("130")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *ScoreboardModel) variantID() string {
	if len(m.variants) == 0 {
		return ""
	}
	return m.variants[m.current].ID
}

// reload fetches runs and stats for the current variant and mode.
func (m *ScoreboardModel) reload() {
	m.runs, m.stats = nil, nil
	id := m.variantID()
	if m.store != nil && id != "" {
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
		var err error
		if m.mode == boardRecent {
			m.runs, err = m.recentRuns(id)
		} else {
			m.runs, err = m.store.TopScores(id, boardRows)
		}
		if err != nil {
			m.runs = nil
		}
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		when := "-"
		if !r.CreatedAt.IsZero() {
			when = humanize.Time(r.CreatedAt)
		}
		rows[i] = table.Row{
			fmt.Sprint(i + 1),
			humanize.Comma(int64(r.Score)),
			player,
			humanize.Comma(int64(r.Ticks)),
			when,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// recentRuns keeps the newest runs belonging to one variant.
func (m *ScoreboardModel) recentRuns(id string) ([]storage.ScoreEntry, error) {
	all, err := m.store.RecentRuns(boardRows * 4)
	if err != nil {
		return nil, err
	}
	var out []storage.ScoreEntry
	for _, r := range all {
		if r.GameID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Variant):
			if n := len(m.variants); n > 0 {
				step := 1
				if s := msg.String(); s == "shift+tab" || s == "left" || s == "h" {
					step = n - 1
				}
				m.current = (m.current + step) % n
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.Mode):
			m.mode = 1 - m.mode
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("216"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(centerText(titleStyle.Render(m.mode.String()), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")
	if line := m.statsLine(); line != "" {
		b.WriteString(centerText(dimStyle.Render(line), m.width))
	}
	b.WriteString("\n\n")

	if len(m.runs) == 0 {
		empty := dimStyle.Italic(true).Padding(1, 4).
			Render("No runs recorded yet.\nCatch a beaver to get on the board!")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(empty)))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(m.table.View())))
		if line := m.selectedLine(); line != "" {
			b.WriteString("\n")
			b.WriteString(centerText(dimStyle.Render(line), m.width))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders one tab per variant with the current one highlighted.
func (m ScoreboardModel) tabs() string {
	active := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("130")).
		Padding(0, 1)
	idle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)

	parts := make([]string, len(m.variants))
	for i, v := range m.variants {
		if i == m.current {
			parts[i] = active.Render(v.Title)
		} else {
			parts[i] = idle.Render(v.Title)
		}
	}
	return strings.Join(parts, " ")
}

// statsLine summarizes the current variant's runs.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("%s runs  |  %d players  |  avg %.1f  |  last played %s",
		humanize.Comma(int64(m.stats.GamesCount)),
		m.stats.Players,
		m.stats.AvgScore,
		humanize.Time(m.stats.LastPlayed),
	)
}

// selectedLine names the highlighted run and its replay file.
func (m ScoreboardModel) selectedLine() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return ""
	}
	r := m.runs[i]
	if r.RunID == "" {
		return ""
	}
	if r.ReplayPath == "" {
		return "run " + r.RunID
	}
	return fmt.Sprintf("run %s  |  clamcatch replay --run %s", r.RunID, r.RunID)
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard as its own program.
// It returns true when the user went back to the menu.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
