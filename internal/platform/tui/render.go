package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorPink:    lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// headingGlyphs point in the eight compass directions, starting at +X and
// turning clockwise (screen Y grows downward).
var headingGlyphs = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

func headingGlyph(deg float64) rune {
	i := int((core.NormalizeDegrees(deg)+22.5)/45) % len(headingGlyphs)
	return headingGlyphs[i]
}

// stageView maps stage pixels onto a cell grid inside a frame.
type stageView struct {
	screen *core.Screen
	bounds core.Bounds
}

// cell converts a stage point to a screen cell inside the frame border.
func (v stageView) cell(p core.Vec) (int, int) {
	w := v.screen.Width() - 2
	h := v.screen.Height() - 2
	if w <= 0 || h <= 0 {
		return -1, -1
	}
	x := int((p.X - v.bounds.MinX) / v.bounds.Width() * float64(w))
	y := int((p.Y - v.bounds.MinY) / v.bounds.Height() * float64(h))
	return 1 + core.Clamp(x, 0, w-1), 1 + core.Clamp(y, 0, h-1)
}

// DrawStage renders the stage frame, trails, actors and speech into s.
// trailPoints caps how many of each actor's newest trail points are drawn.
func DrawStage(s *core.Screen, bounds core.Bounds, actors []stage.Actor, selected stage.ActorID, trailPoints int) {
	s.Clear()
	s.DrawBox(0, 0, s.Width(), s.Height(), core.ColorGray)
	v := stageView{screen: s, bounds: bounds}

	for _, a := range actors {
		trail := a.Trail
		if trailPoints >= 0 && len(trail) > trailPoints {
			trail = trail[len(trail)-trailPoints:]
		}
		for _, p := range trail {
			x, y := v.cell(p)
			s.SetColored(x, y, '·', a.Color)
		}
	}

	for _, a := range actors {
		x, y := v.cell(a.Center())
		body := '●'
		if a.ID == selected {
			body = '◉'
		}
		s.SetColored(x, y, body, a.Color)
		s.SetColored(x+1, y, headingGlyph(a.Heading), a.Color)

		if a.Message != "" {
			bubble := "\"" + a.Message + "\""
			if a.Thought {
				bubble = "(" + a.Message + ")"
			}
			s.DrawText(x, y-1, bubble, core.ColorWhite)
		}
	}
}
