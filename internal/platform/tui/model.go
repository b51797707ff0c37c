package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/engine"
	"github.com/vovakirdan/tui-blockstage/internal/program"
	"github.com/vovakirdan/tui-blockstage/internal/project"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// Layout constants
const (
	sidebarWidth  = 38
	sidebarInnerW = sidebarWidth - 4 // Minus border and padding
	minStageW     = 20
	minStageH     = 8
	chromeHeight  = 3                      // Status line + help bar
	maxFrameDelta = 250 * time.Millisecond // Longer gaps are treated as a stall
)

// StageOptions configures a StageModel.
type StageOptions struct {
	Project     string // Name used when saving
	SavePath    string // ctrl+s target; "" disables saving
	TickRate    int
	TrailPoints int // Newest trail points drawn per actor
}

// StageModel is the Bubble Tea model for the stage view and editor.
type StageModel struct {
	rt    *engine.Runtime
	store *stage.Store
	opts  StageOptions

	screen *core.Screen
	keys   StageKeyMap
	help   help.Model
	input  textinput.Model

	width    int
	height   int
	cursor   int             // Top-level block under the cursor
	nest     bool            // Palette keys add into the container at the cursor
	editing  program.BlockID // Block whose inputs are being edited, 0 when none
	lastTick time.Time
	status   string
	quitting bool
}

// NewStageModel creates a stage model driving rt.
func NewStageModel(rt *engine.Runtime, opts StageOptions, width, height int) StageModel {
	in := textinput.New()
	in.Prompt = "inputs> "
	in.CharLimit = 120

	m := StageModel{
		rt:     rt,
		store:  rt.Store(),
		opts:   opts,
		screen: core.NewScreen(minStageW, minStageH),
		keys:   DefaultStageKeyMap(),
		help:   help.New(),
		input:  in,
	}
	m.resize(width, height)
	return m
}

// Init starts the tick loop.
func (m StageModel) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles messages and updates the model state.
func (m StageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing != 0 {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m *StageModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.screen.Resize(max(minStageW, width-sidebarWidth-1), max(minStageH, height-chromeHeight))
}

// handleTick advances the runtime by the wall time since the last frame.
func (m StageModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := tickInterval(m.opts.TickRate)
	if !m.lastTick.IsZero() {
		dt = min(max(now.Sub(m.lastTick), 0), maxFrameDelta)
	}
	m.lastTick = now

	m.rt.Tick(dt)
	m.clampCursor()

	return m, tickCmd(m.opts.TickRate)
}

// handleKey processes keyboard input.
func (m StageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.store.Selected()
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.rt.StopAll()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Play):
		if n := m.rt.PlayAll(); n == 0 {
			m.status = "nothing to run"
		} else {
			m.status = fmt.Sprintf("running %d actor(s)", n)
		}

	case key.Matches(msg, m.keys.Stop):
		m.rt.StopAll()
		m.status = "stopped"

	case key.Matches(msg, m.keys.NextActor):
		m.cycleActor(1)

	case key.Matches(msg, m.keys.PrevActor):
		m.cycleActor(-1)

	case key.Matches(msg, m.keys.AddActor):
		a := m.store.AddActor()
		m.cursor = 0
		m.status = "added " + a.Name

	case key.Matches(msg, m.keys.DelActor):
		m.report(m.store.DeleteActor(sel))
		m.cursor = 0

	case key.Matches(msg, m.keys.Palette):
		m.appendFromPalette(sel, msg.String())

	case key.Matches(msg, m.keys.Nest):
		m.nest = !m.nest

	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()

	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()

	case key.Matches(msg, m.keys.MoveUp):
		if err := m.store.ReorderBlock(sel, m.cursor, m.cursor-1); m.report(err) {
			m.cursor--
		}

	case key.Matches(msg, m.keys.MoveDown):
		if err := m.store.ReorderBlock(sel, m.cursor, m.cursor+1); m.report(err) {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Edit):
		if b := m.blockAtCursor(); b != nil {
			m.editing = b.ID
			m.input.SetValue(formatInputs(b, m.store.Catalog()))
			m.input.CursorEnd()
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.Remove):
		if b := m.blockAtCursor(); b != nil {
			m.report(m.store.RemoveBlock(sel, b.ID))
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Duplicate):
		if b := m.blockAtCursor(); b != nil {
			if _, err := m.store.DuplicateBlock(sel, b.ID); m.report(err) {
				m.cursor++
			}
		}

	case key.Matches(msg, m.keys.Clear):
		if m.report(m.store.ClearProgram(sel)) {
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.Save):
		m.save()
	}

	return m, nil
}

// handleEditKey routes keys to the input line while editing.
func (m StageModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = 0
		m.input.Blur()
		return m, nil

	case "enter":
		err := applyInputs(m.store, m.store.Selected(), m.editing, m.input.Value())
		m.report(err)
		m.editing = 0
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *StageModel) cycleActor(dir int) {
	ids := m.store.IDs()
	if len(ids) == 0 {
		return
	}
	cur := 0
	for i, id := range ids {
		if id == m.store.Selected() {
			cur = i
			break
		}
	}
	next := (cur + dir + len(ids)) % len(ids)
	//nolint:errcheck // id comes from the store's own list
	m.store.SelectActor(ids[next])
	m.cursor = 0
}

func (m *StageModel) appendFromPalette(sel stage.ActorID, k string) {
	idx, ok := paletteIndex(k)
	types := m.store.Catalog().All()
	if !ok || idx >= len(types) {
		return
	}
	typeID := types[idx].ID

	if b := m.blockAtCursor(); m.nest && b != nil && b.Container {
		_, err := m.store.SubmitChild(sel, b.ID, typeID, nil)
		if m.report(err) {
			m.status = fmt.Sprintf("added %s inside %s", typeID, b.Type)
		}
		return
	}

	if _, err := m.store.SubmitBlock(sel, typeID, nil); m.report(err) {
		a, _ := m.store.Actor(sel)
		m.cursor = a.Program.Len() - 1
		m.status = "added " + typeID
	}
}

func (m *StageModel) blockAtCursor() *program.Block {
	a, ok := m.store.Actor(m.store.Selected())
	if !ok || m.cursor < 0 || m.cursor >= a.Program.Len() {
		return nil
	}
	return a.Program[m.cursor]
}

func (m *StageModel) clampCursor() {
	a, ok := m.store.Actor(m.store.Selected())
	if !ok || a.Program.Len() == 0 {
		m.cursor = 0
		return
	}
	m.cursor = core.Clamp(m.cursor, 0, a.Program.Len()-1)
}

// report shows err in the status line and returns true when err is nil.
func (m *StageModel) report(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, stage.ErrActorBusy):
		m.status = "actor is running, stop it first"
	default:
		m.status = err.Error()
	}
	return false
}

func (m *StageModel) save() {
	if m.opts.SavePath == "" {
		m.status = "no project file to save to"
		return
	}
	if err := project.Export(m.opts.Project, m.store).Save(m.opts.SavePath); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + m.opts.SavePath
}

// View renders the current state to a string for display.
func (m StageModel) View() string {
	if m.quitting {
		return ""
	}

	actors := m.store.Actors()
	DrawStage(m.screen, m.store.Bounds(), actors, m.store.Selected(), m.opts.TrailPoints)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderScreen(m.screen),
		" ",
		m.renderSidebar(actors),
	)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	switch {
	case m.editing != 0:
		b.WriteString(m.input.View())
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

func (m StageModel) renderSidebar(actors []stage.Actor) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Actors"))
	b.WriteString("\n")

	cat := m.store.Catalog()
	sel := m.store.Selected()
	var selected *stage.Actor
	for i, a := range actors {
		cursor := "  "
		if a.ID == sel {
			cursor = "> "
			selected = &actors[i]
		}
		line := cursor + colorStyles[a.Color].Render("●") + " " + a.Name
		if a.Running && a.Step != stage.NoStep {
			progress := fmt.Sprintf(" %d/%d", a.Step+1, a.Program.Len())
			if a.Step < a.Program.Len() {
				progress += " " + blockLabel(a.Program[a.Step], cat)
			}
			line += runningStyle.Render(truncate(progress, sidebarInnerW-len(a.Name)-4))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if selected != nil {
		b.WriteString("\n")
		title := "Program: " + selected.Name
		if m.nest {
			title += " [nest]"
		}
		b.WriteString(titleStyle.Render(truncate(title, sidebarInnerW)))
		b.WriteString("\n")
		if selected.Program.Len() == 0 {
			b.WriteString(dimStyle.Render("empty: press 1-9 to add"))
			b.WriteString("\n")
		}
		for i, blk := range selected.Program {
			b.WriteString(m.renderBlockLine(blk, i, selected, cat))
		}

		b.WriteString("\n")
		b.WriteString(dimStyle.Render(paletteLegend(cat)))
	}

	return panelStyle.Width(sidebarWidth - 2).Render(b.String())
}

func (m StageModel) renderBlockLine(blk *program.Block, i int, a *stage.Actor, cat *blocks.Catalog) string {
	var b strings.Builder
	marker := "  "
	if a.Running && a.Step == i {
		marker = "▶ "
	}
	line := truncate(fmt.Sprintf("%s%d. %s", marker, i+1, blockLabel(blk, cat)), sidebarInnerW)
	if i == m.cursor {
		line = activeStyle.Render(line)
	}
	b.WriteString(line)
	b.WriteString("\n")

	for _, child := range blk.Children {
		b.WriteString(dimStyle.Render(truncate("     └ "+blockLabel(child, cat), sidebarInnerW)))
		b.WriteString("\n")
	}
	return b.String()
}

func paletteLegend(cat *blocks.Catalog) string {
	var parts []string
	for i, bt := range cat.All() {
		if i >= 9 {
			break
		}
		parts = append(parts, fmt.Sprintf("%d %s", i+1, bt.ID))
	}
	return wrap(strings.Join(parts, "  "), sidebarInnerW)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func wrap(s string, width int) string {
	var lines []string
	var line string
	for _, word := range strings.Split(s, "  ") {
		switch {
		case line == "":
			line = word
		case len(line)+2+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += "  " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Run starts the Bubble Tea program for the stage and blocks until the
// user quits. Any running actors are stopped on exit.
func Run(rt *engine.Runtime, opts StageOptions, width, height int) error {
	defer rt.StopAll()

	p := tea.NewProgram(
		NewStageModel(rt, opts, width, height),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
