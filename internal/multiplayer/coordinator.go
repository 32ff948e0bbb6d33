package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minebombers/internal/core"
)

// Lobby is a waiting room for a match. Members[0] is the host; the slot of a
// member is its index plus one.
type Lobby struct {
	Code      string
	Mode      string
	Members   []SessionHandle
	CreatedAt time.Time
}

// Host returns the session that created the lobby.
func (l *Lobby) Host() SessionHandle {
	return l.Members[0]
}

// Names returns the member names by slot.
func (l *Lobby) Names() []string {
	names := make([]string, len(l.Members))
	for i, m := range l.Members {
		names[i] = m.Name()
	}
	return names
}

func (l *Lobby) indexOf(id SessionID) int {
	return slices.IndexFunc(l.Members, func(s SessionHandle) bool { return s.ID() == id })
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before a lobby without guests expires
	TickRate      int           // Game tick rate (Hz)
	CleanupPeriod time.Duration // How often to clean up expired lobbies
	MaxPlayers    int           // A full lobby starts its match
	ScreenW       int
	ScreenH       int
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
		MaxPlayers:    core.MaxPlayers,
		ScreenW:       80,
		ScreenH:       50,
	}
}

// GameFactory creates game instances for matches. Names holds the player
// names by slot.
type GameFactory func(mode string, cfg core.RuntimeConfig, names []string) (OnlineGame, error)

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID       string
	Mode          string
	Sessions      []string // by player slot
	Scores        []int    // by player slot
	WinnerSession string
	EndReason     string
	DurationSecs  int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	log         *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // matchID -> match

	// Track which session is in which lobby/match
	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	// Message channel for async processing
	msgChan chan CoordinatorMessage
	done    chan struct{}
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	if cfg.MaxPlayers < MinPlayers || cfg.MaxPlayers > core.MaxPlayers {
		cfg.MaxPlayers = core.MaxPlayers
	}
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		log:          log.Default(),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger replaces the default logger.
func (c *Coordinator) SetLogger(l *log.Logger) {
	c.log = l
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and every running match.
func (c *Coordinator) Stop() {
	close(c.done)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.matches {
		m.Stop()
	}
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case StartMatchMsg:
		c.handleStartMatch(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		Mode:      msg.Mode,
		Members:   []SessionHandle{session},
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.log.Info("lobby created", "code", code, "mode", msg.Mode)
	session.Send(LobbyCreatedEvent{Code: code, Mode: msg.Mode})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if len(lobby.Members) >= c.config.MaxPlayers {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}

	lobby.Members = append(lobby.Members, session)
	c.sessionLobby[msg.SessionID] = code

	names := lobby.Names()
	for i, m := range lobby.Members {
		m.Send(LobbyJoinedEvent{
			Code:  code,
			Side:  core.PlayerFromIndex(i),
			Names: names,
		})
	}

	if len(lobby.Members) == c.config.MaxPlayers {
		c.startMatch(lobby)
	}
}

func (c *Coordinator) handleStartMatch(msg StartMatchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists || lobby.Host().ID() != msg.SessionID {
		return
	}
	if len(lobby.Members) < MinPlayers {
		lobby.Host().Send(LobbyErrorEvent{Message: "Waiting for opponents"})
		return
	}
	c.startMatch(lobby)
}

// startMatch must be called with the lock held.
func (c *Coordinator) startMatch(lobby *Lobby) {
	matchID := NewMatchID()

	cfg := core.RuntimeConfig{
		ScreenW:  c.config.ScreenW,
		ScreenH:  c.config.ScreenH,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
		Players:  len(lobby.Members),
	}

	game, err := c.gameFactory(lobby.Mode, cfg, lobby.Names())
	if err != nil {
		c.log.Error("cannot create game", "mode", lobby.Mode, "err", err)
		for _, m := range lobby.Members {
			m.Send(LobbyErrorEvent{Message: "Failed to create game"})
		}
		return
	}

	match := NewOnlineMatch(matchID, lobby.Code, lobby.Mode, game, slices.Clone(lobby.Members), c.config.TickRate)
	c.matches[matchID] = match
	for _, m := range lobby.Members {
		delete(c.sessionLobby, m.ID())
		c.sessionMatch[m.ID()] = matchID
	}
	delete(c.lobbies, lobby.Code)

	for i, m := range lobby.Members {
		m.Send(MatchStartedEvent{
			MatchID: matchID,
			Side:    core.PlayerFromIndex(i),
			Players: len(lobby.Members),
			Code:    lobby.Code,
		})
	}
	c.log.Info("match started", "match", matchID, "code", lobby.Code, "players", len(lobby.Members))

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}

	sessions := make([]string, len(match.Sessions()))
	for i, s := range match.Sessions() {
		sessions[i] = string(s.ID())
	}

	if c.resultSaver != nil {
		winnerSession := ""
		if idx := result.Winner.Index(); idx >= 0 && idx < len(sessions) {
			winnerSession = sessions[idx]
		}

		tickRate := max(1, c.config.TickRate)
		data := MatchResultData{
			MatchID:       string(matchID),
			Mode:          match.Mode(),
			Sessions:      sessions,
			Scores:        result.Scores,
			WinnerSession: winnerSession,
			EndReason:     result.Reason.String(),
			DurationSecs:  int(result.Ticks / uint64(tickRate)), //nolint:gosec // tickRate is clamped positive
		}
		go func() {
			if err := c.resultSaver.SaveMatchResult(data); err != nil {
				c.log.Error("cannot save match result", "match", data.MatchID, "err", err)
			}
		}()
	}

	for _, s := range match.Sessions() {
		delete(c.sessionMatch, s.ID())
	}
	delete(c.matches, matchID)

	c.log.Info("match ended", "match", matchID, "reason", result.Reason, "winner", result.Winner)
	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Scores:  result.Scores,
	}
	for _, s := range match.Sessions() {
		s.Send(endEvent)
	}
}

// closeLobby removes a lobby and tells its guests. Must be called with the lock held.
func (c *Coordinator) closeLobby(lobby *Lobby, reason MatchEndReason) {
	for _, m := range lobby.Members[1:] {
		m.Send(MatchEndedEvent{Reason: reason})
	}
	for _, m := range lobby.Members {
		delete(c.sessionLobby, m.ID())
	}
	delete(c.lobbies, lobby.Code)
}

// removeMember drops a guest from a lobby. Must be called with the lock held.
func (c *Coordinator) removeMember(lobby *Lobby, idx int) {
	delete(c.sessionLobby, lobby.Members[idx].ID())
	lobby.Members = slices.Delete(lobby.Members, idx, idx+1)
	names := lobby.Names()
	for i, m := range lobby.Members {
		m.Send(LobbyPlayerLeftEvent{
			Code:  lobby.Code,
			Side:  core.PlayerFromIndex(i),
			Names: names,
		})
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists || lobby.Host().ID() != msg.SessionID {
		return
	}
	c.closeLobby(lobby, MatchEndReasonHostLeft)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}
	c.leaveLobby(lobby, msg.SessionID)
}

// leaveLobby must be called with the lock held.
func (c *Coordinator) leaveLobby(lobby *Lobby, id SessionID) {
	switch idx := lobby.indexOf(id); {
	case idx == 0:
		c.closeLobby(lobby, MatchEndReasonHostLeft)
	case idx > 0:
		c.removeMember(lobby, idx)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.SendInput(msg.Player, msg.Input)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			c.leaveLobby(lobby, msg.SessionID)
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for code, lobby := range c.lobbies {
		// Only expire lobbies nobody joined
		if len(lobby.Members) == 1 && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host().Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host().ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code (for testing/debug).
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a match by ID (for testing/debug).
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of active lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
