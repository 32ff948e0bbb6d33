package tui

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/game"
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/multiplayer"
	"github.com/vovakirdan/minebombers/internal/spy"
	"github.com/vovakirdan/minebombers/internal/storage"
)

// Menu entries that are not game modes.
const (
	MenuOnline  = "online"
	MenuScores  = "scores"
	MenuOptions = "options"
	MenuInfo    = "info"
	MenuQuit    = "quit"
)

const (
	titleHeight   = 14 // rows of the title picture
	titleMinWidth = 40
)

// MenuItem is a selectable entry of the main menu.
type MenuItem struct {
	ID    string // mode ID or one of the Menu* entries
	Title string
	// Multi marks modes played by 2-4 local players.
	Multi bool
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	players   int
	width     int
	height    int
	best      int // best campaign cash
	title     image.Image
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates the main menu. The Online entry is offered only when
// online is set, i.e. over SSH. Options and Info edit the installation and
// are offered only locally.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, online bool) MenuModel {
	items := []MenuItem{
		{ID: game.ModeCampaign, Title: "Campaign"},
		{ID: game.ModeTournament, Title: "Tournament", Multi: true},
		{ID: game.ModeDeathmatch, Title: "Deathmatch", Multi: true},
	}
	if online {
		items = append(items, MenuItem{ID: MenuOnline, Title: "Online Deathmatch"})
	}
	items = append(items, MenuItem{ID: MenuScores, Title: "High Scores"})
	if !online && cfg.GameDir != "" {
		items = append(items,
			MenuItem{ID: MenuOptions, Title: "Options"},
			MenuItem{ID: MenuInfo, Title: "Info"},
		)
	}
	items = append(items, MenuItem{ID: MenuQuit, Title: "Quit"})

	m := MenuModel{
		items:     items,
		players:   max(multiplayer.MinPlayers, min(cfg.Players, core.MaxPlayers)),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(config.KeysConfig{}),
	}
	if store != nil {
		//nolint:errcheck // zero when there are no scores
		m.best, _ = store.HighScore(game.ModeCampaign)
	}
	if cfg.GameDir != "" {
		if img, err := spy.Load(filepath.Join(cfg.GameDir, gamedir.TitleFile)); err == nil {
			m.title = img
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if m.items[m.cursor].Multi && m.players > multiplayer.MinPlayers {
			m.players--
		}

	case MenuActionRight:
		if m.items[m.cursor].Multi && m.players < core.MaxPlayers {
			m.players++
		}

	case MenuActionScoreboard:
		selected := MenuItem{ID: MenuScores}
		m.selected = &selected
		return m, tea.Quit

	case MenuActionSelect:
		selected := m.items[m.cursor]
		if selected.ID == MenuQuit {
			m.quitting = true
			return m, tea.Quit
		}
		m.selected = &selected
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	if m.title != nil && m.width >= titleMinWidth && m.height >= titleHeight+len(m.items)+8 {
		// 4:3 picture in cells twice as tall as wide
		pic := core.NewScreen(min(m.width, titleHeight*8/3), titleHeight)
		spy.Draw(pic, m.title)
		for _, line := range strings.Split(RenderScreen(pic), "\n") {
			b.WriteString(strings.Repeat(" ", max(0, (m.width-pic.Width())/2)))
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
		b.WriteString(centerStyled(titleStyle.Render("M I N E B O M B E R S"), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText("MineBombers 3.11", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Title
		if item.Multi {
			line += fmt.Sprintf("  < %d players >", m.players)
		}
		if item.ID == game.ModeCampaign && m.best > 0 {
			line += fmt.Sprintf("  (best $%d)", m.best)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Players  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Players returns the chosen number of local players.
func (m MenuModel) Players() int {
	return m.players
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// centerStyled centers text that contains escape sequences.
func centerStyled(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	// Mode is the selected game mode or MenuOnline; empty otherwise.
	Mode            string
	Players         int
	Config          core.RuntimeConfig
	WantsScoreboard bool
	WantsOptions    bool
	WantsInfo       bool
	Quit            bool
}

// RunMenu runs the local main menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, cfg, false)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.result(), nil
}

func (m MenuModel) result() MenuResult {
	result := MenuResult{Config: m.Config(), Players: m.players}
	switch {
	case m.quitting || m.selected == nil:
		result.Quit = true
	case m.selected.ID == MenuScores:
		result.WantsScoreboard = true
	case m.selected.ID == MenuOptions:
		result.WantsOptions = true
	case m.selected.ID == MenuInfo:
		result.WantsInfo = true
	default:
		result.Mode = m.selected.ID
	}
	return result
}
