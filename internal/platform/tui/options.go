package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/gamedir"
)

// Entries of the options screen, top to bottom.
const (
	optCash = iota
	optTreasures
	optRounds
	optRoundTime
	optPlayers
	optSpeed
	optBombDamage
	optDarkness
	optFreeMarket
	optSelling
	optWinner
	optRedefineKeys
	optLoadLevels
	optMainMenu
	optCount
)

var optionTitles = [optCount]string{
	"Cash", "Treasures", "Rounds", "Round time", "Players", "Speed",
	"Bomb damage", "Darkness", "Free market", "Selling", "Winner",
	"Redefine keys", "Load levels", "Main menu",
}

const maxRoundTime = 22*time.Minute + 40*time.Second

// adjustOption moves one setting a step up or down. The speed setting is a
// delay, so raising the shown percentage lowers it.
func adjustOption(o *gamedir.Options, item int, up bool) {
	step := -1
	if up {
		step = 1
	}
	switch item {
	case optCash:
		o.Cash = core.Clamp(o.Cash+100*step, 0, 2650)
	case optTreasures:
		o.Treasures = core.Clamp(o.Treasures+step, 0, 75)
	case optRounds:
		o.Rounds = core.Clamp(o.Rounds+step, 1, 55)
	case optRoundTime:
		o.RoundTime = min(max(o.RoundTime+time.Duration(step)*15*time.Second, 0), maxRoundTime)
	case optPlayers:
		o.Players = core.Clamp(o.Players+step, 1, core.MaxPlayers)
	case optSpeed:
		o.Speed = core.Clamp(o.Speed-step, 0, 33)
	case optBombDamage:
		o.BombDamage = core.Clamp(o.BombDamage+step, 0, 100)
	case optDarkness:
		o.Darkness = !o.Darkness
	case optFreeMarket:
		o.FreeMarket = !o.FreeMarket
	case optSelling:
		o.Selling = !o.Selling
	case optWinner:
		if o.Win == gamedir.WinByMoney {
			o.Win = gamedir.WinByWins
		} else {
			o.Win = gamedir.WinByMoney
		}
	}
}

// optionValue formats a setting for display; entries that open another
// screen have no value.
func optionValue(o gamedir.Options, item int) string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	switch item {
	case optCash:
		return fmt.Sprintf("$%d", o.Cash)
	case optTreasures:
		return fmt.Sprint(o.Treasures)
	case optRounds:
		return fmt.Sprint(o.Rounds)
	case optRoundTime:
		secs := int(o.RoundTime / time.Second)
		return fmt.Sprintf("%d:%02d min", secs/60, secs%60)
	case optPlayers:
		return fmt.Sprint(o.Players)
	case optSpeed:
		return fmt.Sprintf("%d%%", o.TickPercent())
	case optBombDamage:
		return fmt.Sprintf("%d%%", o.BombDamage)
	case optDarkness:
		return onOff(o.Darkness)
	case optFreeMarket:
		return onOff(o.FreeMarket)
	case optSelling:
		return onOff(o.Selling)
	case optWinner:
		return o.Win.String()
	}
	return ""
}

// optionsScreen is the page shown by the options model.
type optionsScreen int

const (
	screenOptions optionsScreen = iota
	screenKeys
	screenLevels
)

// OptionsSetup is what the options screen edits.
type OptionsSetup struct {
	Dir     *gamedir.Dir
	Options gamedir.Options
	Keys    config.KeysConfig
	// Levels are tournament levels picked earlier in this session.
	Levels []string
	// SaveKeys stores redefined keys; nil keeps them in memory only.
	SaveKeys func(config.KeysConfig) error
}

// OptionsModel is the Bubble Tea model for the options screen and the key
// and level screens it opens.
type OptionsModel struct {
	setup      OptionsSetup
	cursor     int
	screen     optionsScreen
	redefine   RedefineModel
	picker     LevelsModel
	width      int
	height     int
	err        error
	done       bool
	standalone bool
}

// NewOptionsModel creates the options screen.
func NewOptionsModel(setup OptionsSetup, width, height int) OptionsModel {
	setup.Options.Clamp()
	return OptionsModel{setup: setup, width: width, height: height}
}

// Init initializes the options model.
func (m OptionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the options screen.
func (m OptionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.screen {
		case screenKeys:
			m.redefine = m.redefine.update(msg)
			if m.redefine.done {
				m.screen = screenOptions
				if m.redefine.changed() {
					m.setup.Keys = m.redefine.keys
					if m.setup.SaveKeys != nil {
						m.err = m.setup.SaveKeys(m.setup.Keys)
					}
				}
			}
			return m, nil

		case screenLevels:
			m.picker = m.picker.update(msg)
			if m.picker.done {
				m.screen = screenOptions
				m.setup.Levels = m.picker.picked
			}
			return m, nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m OptionsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch normalizeKey(msg) {
	case "up", "k":
		m.cursor = (m.cursor + optCount - 1) % optCount
	case "down", "j":
		m.cursor = (m.cursor + 1) % optCount
	case "left", "h":
		adjustOption(&m.setup.Options, m.cursor, false)
	case "right", "l":
		adjustOption(&m.setup.Options, m.cursor, true)
	case "d":
		m.setup.Options = gamedir.DefaultOptions()
	case "enter":
		switch m.cursor {
		case optRedefineKeys:
			m.redefine = NewRedefineModel(m.setup.Keys)
			m.screen = screenKeys
		case optLoadLevels:
			m.picker = NewLevelsModel(m.setup.Dir, m.setup.Options.Rounds, time.Now().UnixNano())
			m.screen = screenLevels
		case optMainMenu:
			return m.finish()
		}
	case "esc", "ctrl+c":
		return m.finish()
	}
	return m, nil
}

// finish stores the options and leaves the screen.
func (m OptionsModel) finish() (tea.Model, tea.Cmd) {
	if m.setup.Dir != nil {
		if err := m.setup.Dir.SaveOptions(m.setup.Options); err != nil {
			m.err = err
		}
	}
	m.done = true
	if m.standalone {
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current page.
func (m OptionsModel) View() string {
	if m.done && m.standalone {
		return ""
	}
	switch m.screen {
	case screenKeys:
		return m.redefine.view(m.width)
	case screenLevels:
		return m.picker.view(m.width)
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("OPTIONS"), m.width))
	b.WriteString("\n\n")

	for i, title := range optionTitles {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-14s %12s", cursor, title, optionValue(m.setup.Options, i))
		if i == optLoadLevels && len(m.setup.Levels) > 0 {
			line = fmt.Sprintf("%s%-14s %9d set", cursor, title, len(m.setup.Levels))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(centerText("Cannot save: "+m.err.Error(), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText("Up/Down: Select  |  Left/Right: Change  |  D: Defaults  |  Esc: Back", m.width))
	b.WriteString("\n")
	return b.String()
}

// Result returns the edited settings.
func (m OptionsModel) Result() OptionsSetup {
	return m.setup
}

// Err returns the last save error.
func (m OptionsModel) Err() error {
	return m.err
}

// RunOptions runs the options screen and returns the edited settings. The
// options are saved to the installation on the way out.
func RunOptions(setup OptionsSetup, width, height int) (OptionsSetup, error) {
	model := NewOptionsModel(setup, width, height)
	model.standalone = true

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return setup, err
	}
	m, ok := finalModel.(OptionsModel)
	if !ok {
		return setup, nil
	}
	return m.Result(), m.Err()
}
