package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blockstage/internal/storage"
)

// History layout constants
const (
	maxRuns     = 100 // Max runs to load
	allProjects = ""  // Tab value meaning every project
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextProject key.Binding
	PrevProject key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextProject, k.PrevProject, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextProject, k.PrevProject},
		{k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextProject: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next project"),
		),
		PrevProject: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev project"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the run history screen.
type HistoryModel struct {
	projects []string // allProjects first, then names in order
	cursor   int
	store    *storage.Store
	runs     []storage.RunRecord
	stats    map[string]*storage.ProjectStats
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	err      error
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		projects: []string{allProjects},
		store:    store,
		keys:     DefaultHistoryKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}

	if stats, err := store.AllProjectStats(); err != nil {
		m.err = err
	} else {
		m.stats = stats
		names := make([]string, 0, len(stats))
		for name := range stats {
			names = append(names, name)
		}
		slices.Sort(names)
		m.projects = append(m.projects, names...)
	}

	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Project", Width: 14},
		{Title: "Outcome", Width: 10},
		{Title: "Actors", Width: 6},
		{Title: "Steps", Width: 6},
		{Title: "Swaps", Width: 6},
		{Title: "Time", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)), // Title, tabs, stats, help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads runs for the current project tab.
func (m *HistoryModel) loadRuns() {
	runs, err := m.store.RecentRuns(m.projects[m.cursor], maxRuns)
	if err != nil {
		m.err = err
		runs = nil
	}
	m.runs = runs

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = runRow(r)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func runRow(r storage.RunRecord) table.Row {
	name := r.Project
	if name == "" {
		name = "(scratch)"
	}
	return table.Row{
		r.CreatedAt.Format("Jan 02 15:04"),
		name,
		r.Outcome,
		fmt.Sprintf("%d", r.Actors),
		fmt.Sprintf("%d", r.Steps),
		fmt.Sprintf("%d", r.Collisions),
		fmt.Sprintf("%.1fs", r.Duration.Seconds()),
	}
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextProject):
			m.cursor = (m.cursor + 1) % len(m.projects)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevProject):
			m.cursor = (m.cursor - 1 + len(m.projects)) % len(m.projects)
			m.loadRuns()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadRuns()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.MarginBottom(1).Render("RUN HISTORY"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(statusStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m HistoryModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := activeStyle.Padding(0, 1)

	tabs := make([]string, len(m.projects))
	for i, p := range m.projects {
		name := p
		if name == allProjects {
			name = "all"
		}
		name = truncate(name, 12)
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(" " + name + " ")
		}
	}

	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 && m.width > 0 {
		// Just show the current project with arrows
		name := m.projects[m.cursor]
		if name == allProjects {
			name = "all"
		}
		line = fmt.Sprintf("< %s >", name)
	}
	return line
}

func (m HistoryModel) renderStats() string {
	p := m.projects[m.cursor]
	if p == allProjects {
		return dimStyle.Render(fmt.Sprintf("%d project(s)", len(m.projects)-1))
	}
	ps, ok := m.stats[p]
	if !ok {
		return ""
	}
	return dimStyle.Render(fmt.Sprintf("%d runs, %d completed, %d swaps, %.1f avg steps, last %s",
		ps.Runs, ps.Completed, ps.Collisions, ps.AvgSteps, ps.LastRun.Format("Jan 02 15:04")))
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nPlay a project to record one!")
	}

	return m.table.View()
}

// RunHistory runs the history screen until the user quits.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
