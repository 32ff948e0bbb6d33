package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
)

// RedefineModel asks for every control of the four players in turn. Esc
// keeps the current key and F10 stops early, keeping what was assigned.
type RedefineModel struct {
	keys    config.KeysConfig
	before  config.KeysConfig
	player  int
	control int
	message string
	done    bool
}

// NewRedefineModel starts at the first control of player 1.
func NewRedefineModel(keys config.KeysConfig) RedefineModel {
	var m RedefineModel
	for i := range core.MaxPlayers {
		p := keys.Player(i)
		m.keys.Players = append(m.keys.Players, p)
		m.before.Players = append(m.before.Players, p)
	}
	return m
}

func (m RedefineModel) update(msg tea.KeyMsg) RedefineModel {
	if m.done {
		return m
	}
	key := normalizeKey(msg)
	m.message = ""
	switch key {
	case "f10":
		m.done = true
		return m
	case "esc":
	default:
		if control, ok := config.ReservedKeys[key]; ok {
			m.message = fmt.Sprintf("%q is reserved for %s", key, control)
			return m
		}
		// a key moves from the control that held it
		for i := range m.keys.Players {
			for j, bound := range m.keys.Players[i].List() {
				if strings.EqualFold(bound, key) && (i != m.player || j != m.control) {
					m.keys.Players[i].Set(j, "")
					m.message = fmt.Sprintf("%q taken from player %d %s", key, i+1, core.PlayerActions[j])
				}
			}
		}
		m.keys.Players[m.player].Set(m.control, key)
	}

	m.control++
	if m.control == len(core.PlayerActions) {
		m.control = 0
		m.player++
	}
	if m.player == core.MaxPlayers {
		m.done = true
	}
	return m
}

// changed reports whether any binding differs from the starting ones.
func (m RedefineModel) changed() bool {
	for i := range m.keys.Players {
		if m.keys.Players[i] != m.before.Players[i] {
			return true
		}
	}
	return false
}

func (m RedefineModel) view(width int) string {
	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("130"))

	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("REDEFINE KEYS"), width))
	b.WriteString("\n\n")
	for i, p := range m.keys.Players {
		for j, key := range p.List() {
			if key == "" {
				key = "-"
			}
			line := fmt.Sprintf("Player %d %-8s: %-10s", i+1, core.PlayerActions[j], strings.ToUpper(key))
			if i == m.player && j == m.control {
				line = activeStyle.Render(line)
			}
			b.WriteString(centerStyled(line, width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(centerText(m.message, width))
		b.WriteString("\n")
	}
	b.WriteString(centerText("Press a key  |  Esc: Keep  |  F10: Done", width))
	b.WriteString("\n")
	return b.String()
}
