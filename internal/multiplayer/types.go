// Package multiplayer runs online deathmatches between SSH sessions: lobbies
// with join codes, a coordinator goroutine and an authoritative match loop
// that broadcasts snapshots.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/minebombers/internal/core"
)

// PlayerID is an alias to core.PlayerID for convenience.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
	Player3 = core.Player3
	Player4 = core.Player4
)

// MinPlayers is the smallest lobby that can start a match.
const MinPlayers = 2

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// NewSessionID returns a random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// MatchID uniquely identifies a game match.
type MatchID string

// NewMatchID returns a random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// MatchMode defines where the players of a match sit.
type MatchMode int

const (
	// MatchModeLocal is a game on one keyboard: campaign or hot-seat tournament.
	MatchModeLocal MatchMode = iota

	// MatchModeOnline is a deathmatch between SSH sessions.
	MatchModeOnline
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeLocal:
		return "Local"
	case MatchModeOnline:
		return "Online"
	default:
		return "Unknown"
	}
}

// MatchHandle provides access to match metadata.
type MatchHandle interface {
	ID() MatchID
	Mode() MatchMode
}

// Match is a concrete implementation of MatchHandle.
// Platform creates matches and passes handles to games.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs lists the sessions of the match by player slot.
	SessionIDs []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}

// Side returns the player slot of a session, or 0 when it is not part of
// the match.
func (m *Match) Side(id SessionID) PlayerID {
	for i, s := range m.SessionIDs {
		if s == id {
			return core.PlayerFromIndex(i)
		}
	}
	return 0
}
