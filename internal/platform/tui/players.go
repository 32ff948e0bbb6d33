package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/world"
)

const maxNameLen = 24

// playersFocus is the part of the players screen taking keys.
type playersFocus int

const (
	focusSlots playersFocus = iota
	focusRoster
	focusName
)

// PlayersModel assigns roster entries to the player slots before a game.
// The left column holds the slots and a Play entry; the right one lists the
// roster.
type PlayersModel struct {
	dir     *gamedir.Dir
	roster  *gamedir.Roster
	ids     gamedir.Identities
	players int
	slot    int // len(ids) is the Play entry
	focus   playersFocus
	arrow   int // roster entry under the cursor
	name    []byte
	claim   bool // a finished name is taken by the current slot
	message string
	width   int
	height  int
	err     error
	done    bool
	aborted bool

	standalone bool
}

// NewPlayersModel loads the roster and the last identities of dir.
func NewPlayersModel(dir *gamedir.Dir, players, width, height int) PlayersModel {
	m := PlayersModel{
		dir:     dir,
		roster:  &gamedir.Roster{},
		ids:     gamedir.NoIdentities,
		players: min(max(players, 1), len(gamedir.NoIdentities)),
		width:   width,
		height:  height,
	}
	m.slot = len(m.ids)
	if dir != nil {
		m.ids = dir.Identities()
		if r, err := dir.Roster(); err != nil {
			m.err = err
		} else {
			m.roster = r
		}
	}
	return m
}

// Init initializes the players model.
func (m PlayersModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the players screen.
func (m PlayersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.message = ""
		switch m.focus {
		case focusName:
			m.updateName(msg)
		case focusRoster:
			m.updateRoster(msg)
		default:
			return m.updateSlots(msg)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m PlayersModel) updateSlots(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down":
		m.slot++
		if m.slot > len(m.ids) {
			m.slot = 0
		} else if m.slot < len(m.ids) && m.slot >= m.players {
			m.slot = len(m.ids)
		}
	case "up":
		if m.slot == 0 {
			m.slot = len(m.ids)
		} else {
			m.slot = min(m.slot-1, m.players-1)
		}
	case "esc":
		if m.allSelected() {
			return m.finish(false)
		}
		m.message = "Every player needs a name"
	case "f10", "ctrl+c":
		return m.finish(true)
	case "enter", "right":
		if m.slot == len(m.ids) {
			if m.allSelected() {
				return m.finish(false)
			}
			m.message = "Every player needs a name"
			return m, nil
		}
		m.focus = focusRoster
		m.arrow = max(m.ids[m.slot], 0)
	default:
		if m.slot < len(m.ids) && typedText(msg) != "" {
			// typing on a slot creates a new roster entry for it
			m.arrow = gamedir.RosterSize - 1
			if free := slices.IndexFunc(m.roster.Players[:], func(s *world.Stats) bool { return s == nil }); free >= 0 {
				m.arrow = free
			}
			m.focus = focusRoster
			m.startName(msg, true)
		}
	}
	return m, nil
}

func (m *PlayersModel) updateRoster(msg tea.KeyMsg) {
	switch msg.String() {
	case "down":
		m.arrow = (m.arrow + 1) % gamedir.RosterSize
	case "up":
		m.arrow = (m.arrow + gamedir.RosterSize - 1) % gamedir.RosterSize
	case "left":
		if m.roster.Players[m.arrow] != nil {
			m.take(m.arrow)
		}
		m.focus = focusSlots
	case "esc", "f10":
		m.focus = focusSlots
	case "backspace", "delete":
		m.roster.Remove(m.arrow)
		for i, id := range m.ids {
			if id == m.arrow {
				m.ids[i] = -1
			}
		}
	case "enter":
		m.startName(msg, false)
	default:
		if typedText(msg) != "" {
			m.startName(msg, false)
		}
	}
}

// take assigns roster entry idx to the current slot unless another slot
// holds it.
func (m *PlayersModel) take(idx int) {
	for i, id := range m.ids[:m.players] {
		if id == idx && i != m.slot {
			m.message = fmt.Sprintf("%s already plays as player %d", m.roster.Players[idx].Name, i+1)
			return
		}
	}
	m.ids[m.slot] = idx
}

// startName begins typing a name for the roster entry under the cursor,
// seeded with the typed key if any.
func (m *PlayersModel) startName(msg tea.KeyMsg, claim bool) {
	m.focus = focusName
	m.claim = claim
	m.name = m.name[:0]
	m.appendName(typedText(msg))
}

func (m *PlayersModel) updateName(msg tea.KeyMsg) {
	switch msg.String() {
	case "enter", "esc":
		m.finishName()
	case "backspace", "delete":
		if len(m.name) > 0 {
			m.name = m.name[:len(m.name)-1]
		}
	default:
		m.appendName(typedText(msg))
	}
}

func (m *PlayersModel) appendName(text string) {
	for _, r := range text {
		if r >= ' ' && r < 0x7f && len(m.name) < maxNameLen {
			m.name = append(m.name, byte(r))
		}
	}
}

// finishName stores the typed name as a fresh roster entry. An empty name
// leaves the entry as it was.
func (m *PlayersModel) finishName() {
	m.focus = focusRoster
	name := strings.TrimSpace(string(m.name))
	if name == "" {
		return
	}
	m.roster.Players[m.arrow] = &world.Stats{Name: name}
	if m.claim {
		m.take(m.arrow)
	}
}

func (m PlayersModel) allSelected() bool {
	for _, id := range m.ids[:m.players] {
		if id < 0 || m.roster.Players[id] == nil {
			return false
		}
	}
	return true
}

// finish saves the identities and the roster and leaves the screen.
func (m PlayersModel) finish(aborted bool) (tea.Model, tea.Cmd) {
	m.done, m.aborted = true, aborted
	if m.dir != nil {
		if err := m.dir.SaveIdentities(m.ids); err != nil {
			m.err = err
		} else if err := m.dir.SaveRoster(m.roster); err != nil {
			m.err = err
		}
	}
	if m.standalone {
		return m, tea.Quit
	}
	return m, nil
}

// typedText returns the printable text of a key press.
func typedText(msg tea.KeyMsg) string {
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		return string(msg.Runes)
	}
	return ""
}

// View renders the slots and the roster side by side.
func (m PlayersModel) View() string {
	if m.done && m.standalone {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("130"))
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var left strings.Builder
	for i := range m.ids {
		line := fmt.Sprintf("Player %d: ", i+1)
		switch {
		case i >= m.players:
			line += "-"
		case m.ids[i] >= 0 && m.roster.Players[m.ids[i]] != nil:
			line += m.roster.Players[m.ids[i]].Name
		default:
			line += "?"
		}
		if i == m.slot && m.focus == focusSlots {
			line = activeStyle.Render(line)
		}
		left.WriteString(line + "\n")
	}
	play := "PLAY"
	if m.slot == len(m.ids) && m.focus == focusSlots {
		play = activeStyle.Render(play)
	}
	left.WriteString("\n" + play + "\n")
	if s := m.highlighted(); s != nil {
		fmt.Fprintf(&left, "\nTournaments %d (won %d)\nRounds %d (won %d)\nTreasures %d\nMoney $%d\nDeaths %d\n",
			s.Tournaments, s.TournamentsWins, s.Rounds, s.RoundsWins, s.TreasuresCollected, s.TotalMoney, s.Deaths)
	}

	var right strings.Builder
	first := max(0, min(m.arrow-8, gamedir.RosterSize-16))
	for i := first; i < first+16; i++ {
		name := ""
		if s := m.roster.Players[i]; s != nil {
			name = s.Name
		}
		if m.focus == focusName && i == m.arrow {
			name = string(m.name) + "_"
		}
		line := fmt.Sprintf("%2d %-*s", i+1, maxNameLen, name)
		if m.focus != focusSlots && i == m.arrow {
			line = activeStyle.Render(line)
		}
		right.WriteString(line + "\n")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("SELECT PLAYERS"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerStyled(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(left.String()), "  ", panelStyle.Render(right.String())), m.width))
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(centerText(m.message, m.width) + "\n")
	}
	if m.err != nil {
		b.WriteString(centerText("Roster error: "+m.err.Error(), m.width) + "\n")
	}
	help := "Up/Down: Move  |  Enter: Roster  |  Type: New player  |  Esc: Play  |  F10: Cancel"
	if m.focus != focusSlots {
		help = "Up/Down: Move  |  Left: Pick  |  Enter: Rename  |  Del: Delete  |  Esc: Back"
	}
	b.WriteString(centerText(help, m.width) + "\n")
	return b.String()
}

// highlighted is the roster entry whose statistics are shown.
func (m PlayersModel) highlighted() *world.Stats {
	if m.focus != focusSlots {
		return m.roster.Players[m.arrow]
	}
	if m.slot < m.players && m.ids[m.slot] >= 0 {
		return m.roster.Players[m.ids[m.slot]]
	}
	return nil
}

// RunPlayers runs the players screen for a game of n players. It returns
// false when the players aborted with F10.
func RunPlayers(dir *gamedir.Dir, n, width, height int) (bool, error) {
	model := NewPlayersModel(dir, n, width, height)
	model.standalone = true

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(PlayersModel)
	if !ok {
		return false, nil
	}
	return !m.aborted, m.err
}
