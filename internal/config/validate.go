package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/gamedir"
)

// ErrDuplicateKey is returned when two controls share a key.
var ErrDuplicateKey = errors.New("config: key bound twice")

// ReservedKeys are handled by the terminal front end in every game and
// cannot be bound to player controls. The arrow keys are not reserved: a
// player binding takes precedence over them.
var ReservedKeys = map[string]string{
	"enter":  "confirm",
	"esc":    "back",
	"p":      "pause",
	"r":      "restart",
	"q":      "quit",
	"ctrl+c": "quit",
	"ctrl+s": "screenshot",
}

// Validate clamps the options to the ranges OPTIONS.CFG allows and checks
// the key bindings.
func (c *Config) Validate() error {
	g := c.Options.GameOptions()
	g.Clamp()
	c.Options = FromGameOptions(g)

	if len(c.Keys.Players) > core.MaxPlayers {
		c.Keys.Players = c.Keys.Players[:core.MaxPlayers]
	}
	if err := c.Keys.Validate(); err != nil {
		return err
	}

	if c.Server.TickRate <= 0 {
		c.Server.TickRate = Default().Server.TickRate
	}
	return nil
}

// Validate checks that no key is bound twice or to a reserved action.
func (k KeysConfig) Validate() error {
	seen := make(map[string]string, len(ReservedKeys))
	for key, control := range ReservedKeys {
		seen[key] = control
	}
	for i, p := range k.Players {
		for j, key := range p.List() {
			if key == "" {
				continue
			}
			key = strings.ToLower(key)
			control := fmt.Sprintf("player %d %s", i+1, core.PlayerActions[j])
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateKey, key, prev, control)
			}
			seen[key] = control
		}
	}
	return nil
}

// Preset is a named game speed.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// SpeedForPreset returns the speed setting of a preset. Higher values slow
// the game down.
func SpeedForPreset(p Preset) (int, bool) {
	switch p {
	case PresetEasy:
		return 16, true
	case PresetNormal:
		return gamedir.DefaultOptions().Speed, true
	case PresetHard:
		return 0, true
	default:
		return 0, false
	}
}

// ApplyPreset sets the options speed from a preset name.
func (c *Config) ApplyPreset(p Preset) error {
	speed, ok := SpeedForPreset(p)
	if !ok {
		return fmt.Errorf("config: unknown speed preset %q", p)
	}
	c.Options.Speed = speed
	return nil
}
