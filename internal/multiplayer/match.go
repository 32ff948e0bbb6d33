package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/minebombers/internal/core"
)

// OnlineGame is the interface that modes must implement to be played online.
type OnlineGame interface {
	// Reset initializes the game state; cfg.Players is the number of sessions.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances the game by one frame using input from every player.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the current game state for network transmission.
	Snapshot() GameSnapshot

	// IsGameOver returns true if the game has ended.
	IsGameOver() bool

	// Winner returns the winning player, or 0 for a draw or a running game.
	Winner() PlayerID

	// Scores returns the score of every player by slot.
	Scores() []int

	// RemovePlayer takes the player of a slot out of the game; it can no
	// longer act or win.
	RemovePlayer(slot int)
}

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Scores  []int
	Ticks   uint64
}

// OnlineMatch is the authoritative loop of one online game. Player slots
// follow the order of the sessions.
type OnlineMatch struct {
	id       MatchID
	code     string
	mode     string
	game     OnlineGame
	sessions []SessionHandle

	// Input handling
	inputMu    sync.Mutex
	lastInputs []core.InputFrame
	inputChan  chan playerInput

	// connected tracks the slots still attached; owned by the Run goroutine.
	connected []bool

	// Match state
	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewOnlineMatch creates a new online match.
func NewOnlineMatch(
	id MatchID,
	code string,
	mode string,
	game OnlineGame,
	sessions []SessionHandle,
	tickRate int,
) *OnlineMatch {
	m := &OnlineMatch{
		id:             id,
		code:           code,
		mode:           mode,
		game:           game,
		sessions:       sessions,
		lastInputs:     make([]core.InputFrame, len(sessions)),
		inputChan:      make(chan playerInput, 64*len(sessions)),
		connected:      make([]bool, len(sessions)),
		tickRate:       max(1, tickRate),
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, len(sessions)),
	}
	for i := range sessions {
		m.lastInputs[i] = core.NewInputFrame()
		m.connected[i] = true
	}
	return m
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Mode returns the game mode identifier.
func (m *OnlineMatch) Mode() string {
	return m.mode
}

// Sessions returns the sessions by player slot.
func (m *OnlineMatch) Sessions() []SessionHandle {
	return m.sessions
}

// SendInput sends player input to the match.
// Non-blocking, uses a buffered channel.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
		// Channel full, drop input (rare under normal conditions)
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called when the match ends.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	for _, s := range m.sessions {
		go m.monitorSession(s)
	}

	for {
		select {
		case <-ticker.C:
			result, done := m.runTick()
			if done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			if result, done := m.handleDisconnect(sessionID); done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	// Inputs are consumed by the frame that reads them.
	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	for i := range m.lastInputs {
		multiInput.SetPlayer(core.PlayerFromIndex(i), m.lastInputs[i].Clone())
		m.lastInputs[i].Clear()
	}
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	m.broadcast(SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	})

	if m.game.IsGameOver() {
		return m.result(MatchEndReasonCompleted, m.game.Winner()), true
	}
	return MatchResult{}, false
}

func (m *OnlineMatch) broadcast(evt SessionEvent) {
	for i, s := range m.sessions {
		if m.connected[i] {
			s.Send(evt)
		}
	}
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Scores:  m.game.Scores(),
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			idx := pi.player.Index()
			if idx < 0 || idx >= len(m.lastInputs) {
				continue
			}
			// Merge inputs (OR together actions)
			m.lastInputs[idx].Merge(pi.input)
		default:
			return
		}
	}
}

// handleDisconnect detaches a session and removes its player from the game.
// The match goes on while at least two players remain; the last one
// standing wins otherwise.
func (m *OnlineMatch) handleDisconnect(sessionID SessionID) (MatchResult, bool) {
	remaining := -1
	count := 0
	for i, s := range m.sessions {
		if s.ID() == sessionID && m.connected[i] {
			m.connected[i] = false
			m.game.RemovePlayer(i)
		}
		if m.connected[i] {
			remaining = i
			count++
		}
	}
	if count >= MinPlayers {
		return MatchResult{}, false
	}

	var winner PlayerID
	if count == 1 {
		winner = core.PlayerFromIndex(remaining)
	}
	return m.result(MatchEndReasonDisconnect, winner), true
}

func (m *OnlineMatch) monitorSession(s SessionHandle) {
	select {
	case <-s.Done():
		m.PlayerDisconnected(s.ID())
	case <-m.done:
	}
}

// Stop gracefully stops the match.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

// Done returns a channel that closes when the match loop exits.
func (m *OnlineMatch) Done() <-chan struct{} {
	return m.done
}
