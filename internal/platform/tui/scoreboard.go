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
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/minebombers/internal/game"
	"github.com/vovakirdan/minebombers/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the board list sidebar
	sidebarWidth       = 24  // Width of the board list sidebar
	maxScores          = 100 // Max rows to load
)

// boardRoster is the board of PLAYERS.DAT statistics.
const boardRoster = "roster"

// board is one page of the scoreboard.
type board struct {
	ID    string
	Title string
}

var boards = []board{
	{ID: game.ModeCampaign, Title: "Campaign"},
	{ID: game.ModeTournament, Title: "Tournaments"},
	{ID: game.ModeDeathmatch, Title: "Online Matches"},
	{ID: boardRoster, Title: "Roster"},
}

// boardColumns lists the columns of every board. The last column takes the
// remaining width.
var boardColumns = map[string][]table.Column{
	game.ModeCampaign: {
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 20},
		{Title: "Level", Width: 6},
		{Title: "Cash", Width: 8},
		{Title: "Date", Width: 14},
	},
	game.ModeTournament: {
		{Title: "Date", Width: 13},
		{Title: "Rounds", Width: 7},
		{Title: "Win by", Width: 7},
		{Title: "Winner", Width: 18},
		{Title: "Standings", Width: 20},
	},
	game.ModeDeathmatch: {
		{Title: "Date", Width: 13},
		{Title: "Players", Width: 8},
		{Title: "Scores", Width: 16},
		{Title: "Time", Width: 7},
		{Title: "Result", Width: 20},
	},
	boardRoster: {
		{Title: "Name", Width: 20},
		{Title: "Tourn.", Width: 7},
		{Title: "Won", Width: 5},
		{Title: "Rounds", Width: 7},
		{Title: "Won", Width: 5},
		{Title: "Treasures", Width: 10},
		{Title: "Money", Width: 10},
	},
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Back      key.Binding
	Quit      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
	Details   key.Binding
	Clear     key.Binding
	Confirm   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.PrevBoard, k.Details, k.Clear, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextBoard, k.PrevBoard},
		{k.Details, k.Clear, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev board"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next board"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev board"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "match details"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear campaign scores"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	cursor      int            // Currently selected board
	store       *storage.Store // Score storage
	rows        []table.Row
	rowKeys     []string // match IDs of the online board rows
	stats       *storage.ModeStats
	loadErr     error
	detail      *matchDetail // open match of the online board
	clearing    bool         // waiting for the clear to be confirmed
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	standalone  bool
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show the board list sidebar
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a table with the columns of the current board.
func (m *ScoreboardModel) createTable() table.Model {
	src := boardColumns[boards[m.cursor].ID]
	columns := make([]table.Column, len(src))
	copy(columns, src)

	// Calculate available width for table
	tableWidth := m.width - 6 // Margins and borders
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	used := 0
	for _, c := range columns[:len(columns)-1] {
		used += c.Width + 2
	}
	last := &columns[len(columns)-1]
	last.Width = max(last.Width, tableWidth-used)

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("130")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the rows and statistics of the current board.
func (m *ScoreboardModel) load() {
	m.rows, m.rowKeys, m.stats, m.loadErr = nil, nil, nil, nil
	m.detail, m.clearing = nil, false
	if m.store != nil {
		id := boards[m.cursor].ID
		m.rows, m.rowKeys, m.loadErr = boardRows(m.store, id)
		if id != boardRoster && m.loadErr == nil {
			m.stats, m.loadErr = m.store.GetModeStats(id)
		}
	}
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

// boardRows formats the stored records of a board. Rows of the online
// board are keyed by their match ID.
func boardRows(store *storage.Store, id string) ([]table.Row, []string, error) {
	var (
		rows []table.Row
		keys []string
	)
	switch id {
	case game.ModeCampaign:
		scores, err := store.TopScores(id, maxScores)
		if err != nil {
			return nil, nil, err
		}
		for i, s := range scores {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				s.Player,
				fmt.Sprintf("%d", s.Level),
				"$" + humanize.Comma(int64(s.Cash)),
				s.CreatedAt.Format("Jan 02 15:04"),
			})
		}

	case game.ModeTournament:
		entries, err := store.RecentTournaments(maxScores)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range entries {
			standings := make([]string, len(e.Players))
			for i, p := range e.Players {
				standings[i] = fmt.Sprintf("%s $%d", p.Name, p.Cash)
			}
			rows = append(rows, table.Row{
				e.CreatedAt.Format("Jan 02 15:04"),
				fmt.Sprintf("%d", e.Rounds),
				e.WinCondition,
				e.Winner,
				strings.Join(standings, ", "),
			})
		}

	case game.ModeDeathmatch:
		matches, err := store.RecentOnlineMatches(maxScores)
		if err != nil {
			return nil, nil, err
		}
		for _, r := range matches {
			scores := make([]string, len(r.Scores))
			for i, s := range r.Scores {
				scores[i] = fmt.Sprintf("%d", s)
			}
			result := r.EndReason
			if r.WinnerSession != "" {
				if slot := slices.Index(r.Sessions, r.WinnerSession); slot >= 0 {
					result = fmt.Sprintf("P%d won, %s", slot+1, strings.ToLower(r.EndReason))
				}
			}
			keys = append(keys, r.MatchID)
			rows = append(rows, table.Row{
				r.CreatedAt.Format("Jan 02 15:04"),
				fmt.Sprintf("%d", len(r.Sessions)),
				strings.Join(scores, " / "),
				fmt.Sprintf("%d:%02d", r.Duration/60, r.Duration%60),
				result,
			})
		}

	case boardRoster:
		roster, err := store.Roster()
		if err != nil {
			return nil, nil, err
		}
		for _, st := range roster {
			rows = append(rows, table.Row{
				st.Name,
				fmt.Sprintf("%d", st.Tournaments),
				fmt.Sprintf("%d", st.TournamentsWins),
				fmt.Sprintf("%d", st.Rounds),
				fmt.Sprintf("%d", st.RoundsWins),
				fmt.Sprintf("%d", st.TreasuresCollected),
				fmt.Sprintf("$%d", st.TotalMoney),
			})
		}
	}
	return rows, keys, nil
}

// matchDetail is an online match with the record of each of its players.
type matchDetail struct {
	match   *storage.OnlineMatchResult
	played  []int // matches played by the session of each slot
	won     []int // matches won by the session of each slot
	histErr error
}

// loadMatchDetail reads a match and the history of its players.
func loadMatchDetail(store *storage.Store, matchID string) (*matchDetail, error) {
	match, err := store.OnlineMatchByID(matchID)
	if err != nil || match == nil {
		return nil, err
	}
	d := &matchDetail{
		match:  match,
		played: make([]int, len(match.Sessions)),
		won:    make([]int, len(match.Sessions)),
	}
	for i, session := range match.Sessions {
		history, err := store.PlayerMatchHistory(session, maxScores)
		if err != nil {
			d.histErr = err
			break
		}
		d.played[i] = len(history)
		for _, h := range history {
			if h.WinnerSession == session {
				d.won[i]++
			}
		}
	}
	return d, nil
}

func (d *matchDetail) view() string {
	var b strings.Builder
	r := d.match
	fmt.Fprintf(&b, "Match %s\n", r.MatchID)
	fmt.Fprintf(&b, "%s, %d:%02d, %s\n\n",
		r.CreatedAt.Format("Jan 02 15:04"), r.Duration/60, r.Duration%60, strings.ToLower(r.EndReason))
	for i, session := range r.Sessions {
		mark := "  "
		if session == r.WinnerSession {
			mark = "* "
		}
		fmt.Fprintf(&b, "%sP%d %-10s $%-6d played %d, won %d\n",
			mark, i+1, shortSession(session), r.Scores[i], d.played[i], d.won[i])
	}
	if d.histErr != nil {
		b.WriteString("\nCannot load history: " + d.histErr.Error())
	}
	return b.String()
}

// shortSession abbreviates a session ID for display.
func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.clearing {
			m.clearing = false
			if key.Matches(msg, m.keys.Confirm) && m.store != nil {
				if err := m.store.ClearScores(game.ModeCampaign); err != nil {
					m.loadErr = err
					return m, nil
				}
				m.load()
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back) && m.detail != nil:
			m.detail = nil
			return m, nil

		case key.Matches(msg, m.keys.Details):
			cur := m.table.Cursor()
			if m.store != nil && cur >= 0 && cur < len(m.rowKeys) {
				d, err := loadMatchDetail(m.store, m.rowKeys[cur])
				if err != nil {
					m.loadErr = err
				} else {
					m.detail = d
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.clearing = boards[m.cursor].ID == game.ModeCampaign && len(m.rows) > 0
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextBoard), key.Matches(msg, m.keys.Right):
			m.cursor = (m.cursor + 1) % len(boards)
			m.table = m.createTable()
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard), key.Matches(msg, m.keys.Left):
			m.cursor = (m.cursor + len(boards) - 1) % len(boards)
			m.table = m.createTable()
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("HIGH SCORES - %s", boards[m.cursor].Title)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with a sidebar listing the boards
// and the statistics of the current one.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Boards\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, bd := range boards {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + bd.Title))
		sidebar.WriteString("\n")
	}

	if st := m.stats; st != nil && st.GamesCount > 0 {
		sidebar.WriteString("\n")
		fmt.Fprintf(&sidebar, "Games: %d\n", st.GamesCount)
		fmt.Fprintf(&sidebar, "Best:  $%s\n", humanize.Comma(int64(st.HighScore)))
		fmt.Fprintf(&sidebar, "Avg:   $%.0f\n", st.AvgScore)
		if st.BestLevel > 0 {
			fmt.Fprintf(&sidebar, "Level: %d\n", st.BestLevel)
		}
		if !st.LastPlayed.IsZero() {
			fmt.Fprintf(&sidebar, "Last:  %s\n", humanize.Time(st.LastPlayed))
		}
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ",
		tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the scoreboard with board tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("130")).
		Padding(0, 1)

	tabs := make([]string, len(boards))
	for i, bd := range boards {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(bd.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + bd.Title + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		// Just show current board with arrows
		tabLine = fmt.Sprintf("< %s >", boards[m.cursor].Title)
	}
	b.WriteString(centerStyled(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Score database unavailable.")
	case m.loadErr != nil:
		return emptyStyle.Render("Cannot load scores:\n" + m.loadErr.Error())
	case m.detail != nil:
		return m.detail.view()
	case m.clearing:
		return emptyStyle.Render("Clear all campaign scores? (y/n)")
	case len(m.rows) == 0:
		return emptyStyle.Render("Nothing recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// Board returns the ID of the current board.
func (m ScoreboardModel) Board() string {
	return boards[m.cursor].ID
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
