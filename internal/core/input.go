package core

import "fmt"

// Action represents a semantic game action, abstracted from physical key presses.
// The first eight actions are the per-player controls of a round; the rest
// drive menus and the platform.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // walk left / shop cursor left
	ActionRight          // walk right / shop cursor right
	ActionUp             // walk up / shop cursor up
	ActionDown           // walk down / shop cursor down
	ActionStop           // stop walking
	ActionBomb           // activate selected item / buy in shop
	ActionChoose         // cycle selected item / sell in shop
	ActionRemote         // detonate own radio bombs
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // Escape - leave shop or go back to menu
	ActionRestart        // restart game after game over
	ActionQuit           // Ctrl+C - exit game/session
	ActionPause          // pause/unpause game
)

// PlayerActions lists the per-player controls in key binding order.
var PlayerActions = []Action{
	ActionLeft, ActionRight, ActionUp, ActionDown,
	ActionStop, ActionBomb, ActionChoose, ActionRemote,
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionStop:
		return "Stop"
	case ActionBomb:
		return "Bomb/Buy"
	case ActionChoose:
		return "Choose/Sell"
	case ActionRemote:
		return "Remote"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// IsPlayerAction reports whether a is one of the eight round controls.
func (a Action) IsPlayerAction() bool {
	return a >= ActionLeft && a <= ActionRemote
}

// PlayerID identifies a player slot (1-4).
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
	Player3 PlayerID = 3
	Player4 PlayerID = 4
)

// MaxPlayers is the number of player slots in a round.
const MaxPlayers = 4

// Index returns the zero-based slot index.
func (p PlayerID) Index() int {
	return int(p) - 1
}

// String returns a display name like "P1".
func (p PlayerID) String() string {
	return fmt.Sprintf("P%d", int(p))
}

// PlayerFromIndex converts a zero-based slot index to a PlayerID.
func PlayerFromIndex(idx int) PlayerID {
	return PlayerID(idx + 1)
}

// InputFrame represents the input state for a single player during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	for _, v := range f.Actions {
		if v {
			return false
		}
	}
	return true
}

// Ordered returns the triggered actions in declaration order so that
// consumers apply them deterministically.
func (f InputFrame) Ordered() []Action {
	var out []Action
	for a := ActionLeft; a <= ActionPause; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// Merge ORs the actions of other into f.
func (f *InputFrame) Merge(other InputFrame) {
	for k, v := range other.Actions {
		if v {
			f.Set(k)
		}
	}
}

// MultiInputFrame contains input from all players for a single tick.
// Platform builds this from the keyboard (hot-seat) or from network sessions.
type MultiInputFrame struct {
	// ByPlayer maps player IDs to their input frames.
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerID]InputFrame),
	}
}

// Player returns the input frame for a specific player.
// Returns an empty frame if player has no input.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if m.ByPlayer == nil {
		return NewInputFrame()
	}
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer sets the input frame for a specific player.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// Add marks a single action for a player.
func (m *MultiInputFrame) Add(id PlayerID, a Action) {
	f := m.Player(id)
	f.Set(a)
	m.SetPlayer(id, f)
}

// Any returns a frame with the actions of every player ORed together.
// Menus and the shop use it when any local player may drive them.
func (m MultiInputFrame) Any() InputFrame {
	out := NewInputFrame()
	for _, f := range m.ByPlayer {
		out.Merge(f)
	}
	return out
}

// Clear resets all player inputs for the next frame.
func (m *MultiInputFrame) Clear() {
	for id := range m.ByPlayer {
		frame := m.ByPlayer[id]
		frame.Clear()
		m.ByPlayer[id] = frame
	}
}

// Clone creates a deep copy of this multi-input frame.
func (m MultiInputFrame) Clone() MultiInputFrame {
	clone := NewMultiInputFrame()
	for id, frame := range m.ByPlayer {
		clone.ByPlayer[id] = frame.Clone()
	}
	return clone
}
