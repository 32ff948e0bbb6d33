package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
)

// binding is the control a key triggers.
type binding struct {
	player core.PlayerID
	action core.Action
}

// platformKeys are handled after the player bindings; they act for player 1.
var platformKeys = map[string]core.Action{
	"enter": core.ActionConfirm,
	"esc":   core.ActionBack,
	"p":     core.ActionPause,
	"r":     core.ActionRestart,
	"q":     core.ActionQuit,
	// arrows steer player 1 unless a player binds them
	"left":  core.ActionLeft,
	"right": core.ActionRight,
	"up":    core.ActionUp,
	"down":  core.ActionDown,
}

// KeyMapper translates Bubble Tea key messages to game actions.
// Player controls come from the config key bindings.
type KeyMapper struct {
	bindings map[string]binding
}

// NewKeyMapper creates a key mapper for the given bindings.
func NewKeyMapper(keys config.KeysConfig) *KeyMapper {
	km := &KeyMapper{bindings: make(map[string]binding)}
	for i := range min(len(keys.Players), core.MaxPlayers) {
		for j, key := range keys.Player(i).List() {
			if key == "" {
				continue
			}
			km.bindings[strings.ToLower(key)] = binding{
				player: core.PlayerFromIndex(i),
				action: core.PlayerActions[j],
			}
		}
	}
	return km
}

// normalizeKey folds single letters so Shift or Caps Lock do not matter.
func normalizeKey(msg tea.KeyMsg) string {
	key := msg.String()
	if len([]rune(key)) == 1 {
		return strings.ToLower(key)
	}
	return key
}

// MapKey translates a key message to a player and an action.
// Returns ActionNone for unbound keys; isQuit is set for quit requests.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player core.PlayerID, action core.Action, isQuit bool) {
	key := normalizeKey(msg)
	if key == "ctrl+c" {
		return core.Player1, core.ActionQuit, true
	}
	if b, ok := km.bindings[key]; ok {
		return b.player, b.action, false
	}
	if a, ok := platformKeys[key]; ok {
		return core.Player1, a, a == core.ActionQuit
	}
	return core.Player1, core.ActionNone, false
}

// MapKeyToMultiFrame adds the action of a key message to a multi-input frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Add(player, action)
	}
	return isQuit
}

// Bound returns the key of a player's control, or "" when unbound.
func (km *KeyMapper) Bound(player core.PlayerID, action core.Action) string {
	for key, b := range km.bindings {
		if b.player == player && b.action == action {
			return key
		}
	}
	return ""
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch normalizeKey(msg) {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
