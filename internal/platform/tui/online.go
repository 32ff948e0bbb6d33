package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/game"
	"github.com/vovakirdan/minebombers/internal/multiplayer"
)

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for players
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Joined or joining, waiting for the host
	OnlineStateInMatch                          // In active match
	OnlineStateMatchEnded                       // Match has ended
)

const joinCodeLength = 6

// OnlineLobbyModel handles the online flow: lobby, match and results.
// Session events are delivered by the owner of the event channel.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	keyMapper   *KeyMapper
	mode        string
	session     multiplayer.SessionHandle
	coordinator *multiplayer.Coordinator

	// Lobby state
	lobbyCode string
	names     []string
	message   string

	// Join state
	joinCodeInput string

	// Match state
	matchID  multiplayer.MatchID
	side     core.PlayerID
	screen   *core.Screen
	snapshot *game.DeathmatchSnapshot
	ended    multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	mode string,
	session multiplayer.SessionHandle,
	coordinator *multiplayer.Coordinator,
	keys config.KeysConfig,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(keys),
		mode:        mode,
		session:     session,
		coordinator: coordinator,
		screen:      core.NewScreen(width, height),
	}
}

// waitForEvent returns a command that waits for the next coordinator event.
func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return nil
		}
		return evt
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case multiplayer.SessionEvent:
		return m.handleEvent(msg), nil
	}
	return m, nil
}

func (m OnlineLobbyModel) handleEvent(evt multiplayer.SessionEvent) OnlineLobbyModel {
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = e.Code
		m.names = []string{m.session.Name()}
		m.side = core.Player1
		m.message = ""
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.lobbyCode = e.Code
		m.side = e.Side
		m.names = e.Names
		m.message = ""
	case multiplayer.LobbyPlayerLeftEvent:
		m.side = e.Side
		m.names = e.Names
	case multiplayer.LobbyErrorEvent:
		m.message = e.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			if m.names == nil {
				m.state = OnlineStateJoinEnterCode
			}
		case OnlineStateInMatch:
			m.state = OnlineStateChooseMode
		}
	case multiplayer.MatchStartedEvent:
		m.matchID = e.MatchID
		m.side = e.Side
		m.snapshot = nil
		m.message = ""
		m.state = OnlineStateInMatch
	case multiplayer.SnapshotEvent:
		if e.MatchID != m.matchID || m.state != OnlineStateInMatch {
			break
		}
		if snap, ok := e.Snapshot.(game.DeathmatchSnapshot); ok {
			m.snapshot = &snap
		}
	case multiplayer.MatchEndedEvent:
		if m.state == OnlineStateInMatch && e.MatchID == m.matchID {
			m.ended = e
			m.state = OnlineStateMatchEnded
			break
		}
		// the host closed the lobby
		if m.state == OnlineStateJoinWaiting {
			m.resetLobby()
			m.message = e.Reason.String()
			m.state = OnlineStateChooseMode
		}
	}
	return m
}

func (m *OnlineLobbyModel) resetLobby() {
	m.lobbyCode = ""
	m.names = nil
	m.side = 0
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	case OnlineStateMatchEnded:
		return m.handleEndedKey(msg)
	}

	return m, nil
}

// leave tells the coordinator this session is gone from its lobby or match.
func (m *OnlineLobbyModel) leave() {
	id := m.session.ID()
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: id, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: id, Code: m.lobbyCode})
	case OnlineStateInMatch:
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: id, MatchID: m.matchID})
	}
	m.resetLobby()
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch normalizeKey(msg) {
	case "h", "1":
		m.message = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.session.ID(),
			Mode:      m.mode,
		})
	case "j", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.message = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch normalizeKey(msg) {
	case "s", "enter":
		m.coordinator.Send(multiplayer.StartMatchMsg{
			SessionID: m.session.ID(),
			Code:      m.lobbyCode,
		})
	case "esc", "b":
		m.leave()
		m.state = OnlineStateChooseMode
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		m.message = ""
	case "enter":
		if len(m.joinCodeInput) == joinCodeLength {
			m.state = OnlineStateJoinWaiting
			m.message = ""
			m.names = nil
			m.lobbyCode = m.joinCodeInput
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.session.ID(),
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// join codes are base32: A-Z and 2-7
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLength {
			c := strings.ToUpper(key)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7') {
				m.joinCodeInput += string(c)
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateJoinEnterCode
	}
	return m, nil
}

// handleMatchKey forwards the round controls of any local binding to the
// player's own slot. Back leaves the match.
func (m OnlineLobbyModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		m.leave()
		m.backToMenu = true
		return m, nil
	case !action.IsPlayerAction():
		return m, nil
	}

	in := core.NewInputFrame()
	in.Set(action)
	m.coordinator.Send(multiplayer.PlayerInputMsg{
		MatchID: m.matchID,
		Player:  m.side,
		Input:   in,
	})
	return m, nil
}

func (m OnlineLobbyModel) handleEndedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		m.resetLobby()
		m.state = OnlineStateChooseMode
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewJoinWaiting()
	case OnlineStateInMatch:
		return m.viewMatch()
	case OnlineStateMatchEnded:
		return m.viewMatchEnded()
	}
	return m.viewChooseMode()
}

func (m OnlineLobbyModel) writeMessage(b *strings.Builder) {
	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.message, m.width))
		b.WriteString("\n")
	}
}

func (m OnlineLobbyModel) writeMembers(b *strings.Builder) {
	for i := range core.MaxPlayers {
		name := "-"
		if i < len(m.names) {
			name = m.names[i]
		}
		line := fmt.Sprintf("P%d  %-16s", i+1, name)
		if core.PlayerFromIndex(i) == m.side && i < len(m.names) {
			line += " (you)"
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
}

func (m OnlineLobbyModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ONLINE DEATHMATCH", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose an option:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a game", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a game", m.width))
	b.WriteString("\n")
	m.writeMessage(&b)
	b.WriteString("\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with the other players:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	m.writeMembers(&b)
	m.writeMessage(&b)
	b.WriteString("\n")
	b.WriteString(centerText("S: Start (2+ players)  |  Esc: Cancel", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the game code:", m.width))
	b.WriteString("\n\n")

	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < joinCodeLength {
		codeDisplay += "_" + strings.Repeat(" ", joinCodeLength-1-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(centerText("Error: "+m.message, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	if m.names == nil {
		b.WriteString(centerText("CONNECTING", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(fmt.Sprintf("Joining game: %s", m.joinCodeInput), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Please wait...", m.width))
	} else {
		b.WriteString(centerText(fmt.Sprintf("LOBBY %s", m.lobbyCode), m.width))
		b.WriteString("\n\n")
		m.writeMembers(&b)
		b.WriteString("\n")
		b.WriteString(centerText("Waiting for the host to start...", m.width))
	}
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Leave", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewMatch() string {
	if m.snapshot == nil {
		return "\n" + centerText("Get ready!", m.width)
	}
	game.RenderSnapshot(m.screen, *m.snapshot)
	return RenderScreen(m.screen)
}

func (m OnlineLobbyModel) viewMatchEnded() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("MATCH OVER", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.ended.Reason.String(), m.width))
	b.WriteString("\n\n")

	switch m.ended.Winner {
	case 0:
		b.WriteString(centerText("Draw!", m.width))
	case m.side:
		b.WriteString(centerText("You win!", m.width))
	default:
		winner := m.ended.Winner.String()
		if idx := m.ended.Winner.Index(); idx < len(m.names) {
			winner = m.names[idx]
		}
		b.WriteString(centerText(winner+" wins", m.width))
	}
	b.WriteString("\n\n")

	for i, score := range m.ended.Scores {
		name := core.PlayerFromIndex(i).String()
		if i < len(m.names) {
			name = m.names[i]
		}
		b.WriteString(centerText(fmt.Sprintf("%-16s $%d", name, score), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Play again  |  Esc: Menu  |  Q: Quit", m.width))

	return b.String()
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a match was started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which player slot this session plays.
func (m OnlineLobbyModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}
