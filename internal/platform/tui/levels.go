package tui

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minebombers/internal/gamedir"
)

const (
	levelColumns  = 8
	levelRowsShow = 16
)

// LevelsModel picks the tournament levels, one per round. Slot 0 stands
// for a random map; the others are the level files of the installation.
type LevelsModel struct {
	levels   []string
	rounds   int
	cursor   int
	selected []bool
	picked   []string
	rng      *rand.Rand
	err      error
	done     bool
}

// NewLevelsModel lists the levels of dir. The seed drives F1.
func NewLevelsModel(dir *gamedir.Dir, rounds int, seed int64) LevelsModel {
	m := LevelsModel{rounds: rounds, rng: rand.New(rand.NewSource(seed))}
	if dir != nil {
		m.levels, m.err = dir.Levels()
	}
	m.selected = make([]bool, len(m.levels)+1)
	return m
}

func (m LevelsModel) update(msg tea.KeyMsg) LevelsModel {
	if len(m.levels) == 0 {
		m.done = true
		return m
	}
	switch msg.String() {
	case "esc":
		m.done = true
	case "enter":
		if len(m.picked) < m.rounds {
			m.pick(m.cursor)
		}
	case "left":
		if m.cursor%levelColumns != 0 {
			m.cursor--
		}
	case "right":
		if m.cursor%levelColumns != levelColumns-1 && m.cursor < len(m.levels) {
			m.cursor++
		}
	case "up":
		if m.cursor >= levelColumns {
			m.cursor -= levelColumns
		}
	case "down":
		if m.cursor+levelColumns <= len(m.levels) {
			m.cursor += levelColumns
		}
	case "f1":
		m.randomize()
	}
	return m
}

func (m *LevelsModel) pick(slot int) {
	name := ""
	if slot > 0 {
		name = m.levels[slot-1]
	}
	m.picked = append(m.picked, name)
	m.selected[slot] = true
}

// randomize replaces the picks with a shuffled run of the levels, repeating
// them when there are more rounds than levels.
func (m *LevelsModel) randomize() {
	m.picked = m.picked[:0]
	clear(m.selected)
	order := m.rng.Perm(len(m.levels))
	for len(m.picked) < m.rounds {
		m.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order[:min(m.rounds-len(m.picked), len(order))] {
			m.pick(idx + 1)
		}
	}
}

func (m LevelsModel) view(width int) string {
	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("LOAD LEVELS"), width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		msg := "No maps to load!"
		if m.err != nil {
			msg = "Cannot list maps: " + m.err.Error()
		}
		b.WriteString(centerText(msg, width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Press any key to return to the options", width))
		b.WriteString("\n")
		return b.String()
	}

	cellStyle := lipgloss.NewStyle().Width(10)
	pickedStyle := cellStyle.Foreground(lipgloss.Color("208"))
	cursorStyle := cellStyle.Background(lipgloss.Color("130")).Foreground(lipgloss.Color("229"))

	fmt.Fprintf(&b, "%s\n\n", centerText(fmt.Sprintf("Picked %d of %d rounds", len(m.picked), m.rounds), width))
	first := max(0, m.cursor/levelColumns-levelRowsShow/2)
	total := len(m.levels) + 1
	for row := first; row < first+levelRowsShow && row*levelColumns < total; row++ {
		cells := make([]string, 0, levelColumns)
		for slot := row * levelColumns; slot < min(total, (row+1)*levelColumns); slot++ {
			name := "RANDOM"
			if slot > 0 {
				name = strings.TrimSuffix(strings.ToUpper(m.levels[slot-1]), strings.ToUpper(filepath.Ext(m.levels[slot-1])))
			}
			style := cellStyle
			switch {
			case slot == m.cursor:
				style = cursorStyle
			case m.selected[slot]:
				style = pickedStyle
			}
			cells = append(cells, style.Render(name))
		}
		b.WriteString(centerStyled(lipgloss.JoinHorizontal(lipgloss.Top, cells...), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText("Arrows: Move  |  Enter: Pick  |  F1: Random picks  |  Esc: Done", width))
	b.WriteString("\n")
	return b.String()
}
