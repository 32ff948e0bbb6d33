package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minebombers/internal/gamedir"
)

// InfoModel shows what the installation holds. Any key returns.
type InfoModel struct {
	lines      []string
	width      int
	done       bool
	standalone bool
}

// NewInfoModel reads the registration, levels and roster of dir.
func NewInfoModel(dir *gamedir.Dir, width int) InfoModel {
	m := InfoModel{width: width}
	if dir == nil {
		m.lines = []string{"No game directory"}
		return m
	}

	owner := "Unregistered copy"
	if name := dir.Registered(); name != "" {
		owner = "Registered to " + name
	}
	m.lines = append(m.lines, owner, "", "Game directory: "+dir.Path())

	if levels, err := dir.Levels(); err != nil {
		m.lines = append(m.lines, "Levels: "+err.Error())
	} else {
		m.lines = append(m.lines, fmt.Sprintf("Tournament levels: %d", len(levels)))
	}
	campaign := 0
	for dir.HasCampaignLevel(campaign + 1) {
		campaign++
	}
	m.lines = append(m.lines, fmt.Sprintf("Campaign levels: %d", campaign))

	if r, err := dir.Roster(); err != nil {
		m.lines = append(m.lines, "Roster: "+err.Error())
	} else {
		n := 0
		for _, p := range r.Players {
			if p != nil {
				n++
			}
		}
		m.lines = append(m.lines, fmt.Sprintf("Roster players: %d of %d", n, gamedir.RosterSize))
	}
	return m
}

// Init initializes the info model.
func (m InfoModel) Init() tea.Cmd {
	return nil
}

// Update returns on any key.
func (m InfoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.done = true
		if m.standalone {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View renders the information page.
func (m InfoModel) View() string {
	if m.done && m.standalone {
		return ""
	}
	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("MineBombers 3.11"), m.width))
	b.WriteString("\n\n")
	for _, line := range m.lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText("Press any key", m.width))
	b.WriteString("\n")
	return b.String()
}

// RunInfo runs the information page.
func RunInfo(dir *gamedir.Dir, width int) error {
	model := NewInfoModel(dir, width)
	model.standalone = true
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
