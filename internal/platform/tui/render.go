package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minebombers/internal/core"
)

var colorStyles = func() [core.NumColors]lipgloss.Style {
	var styles [core.NumColors]lipgloss.Style
	for i := range styles {
		styles[i] = lipgloss.NewStyle()
		if code := core.Color(i).ANSI(); code != "" {
			styles[i] = styles[i].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(colorStyles) {
		return colorStyles[c]
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen to styled terminal output. Runs of cells
// sharing a color are rendered with one style.
func RenderScreen(s *core.Screen) string {
	rows := make([]string, s.Height())
	var line, run strings.Builder
	for y := range rows {
		line.Reset()
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width() && s.GetCell(x, y).Color == color; x++ {
				run.WriteRune(s.GetCell(x, y).Rune)
			}
			line.WriteString(styleFor(color).Render(run.String()))
		}
		rows[y] = line.String()
	}
	return strings.Join(rows, "\n")
}
