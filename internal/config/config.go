// Package config provides YAML-based configuration loading for MineBombers:
// match options, key bindings, the SSH server and storage.
package config

import (
	"time"

	"github.com/vovakirdan/minebombers/internal/gamedir"
)

// Config is the full settings file.
type Config struct {
	Options OptionsConfig `yaml:"options"`
	Keys    KeysConfig    `yaml:"keys"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

// OptionsConfig mirrors OPTIONS.CFG. It is used when the game directory
// has no options file of its own.
type OptionsConfig struct {
	Players    int           `yaml:"players"`
	Treasures  int           `yaml:"treasures"`
	Rounds     int           `yaml:"rounds"`
	Cash       int           `yaml:"cash"`
	RoundTime  time.Duration `yaml:"round_time"`
	Speed      int           `yaml:"speed"`
	Darkness   bool          `yaml:"darkness"`
	FreeMarket bool          `yaml:"free_market"`
	Selling    bool          `yaml:"selling"`
	Win        string        `yaml:"win"`         // "money" or "wins"
	BombDamage int           `yaml:"bomb_damage"` // percent
}

// GameOptions converts to the binary options representation.
func (o OptionsConfig) GameOptions() gamedir.Options {
	g := gamedir.Options{
		Players:    o.Players,
		Treasures:  o.Treasures,
		Rounds:     o.Rounds,
		Cash:       o.Cash,
		RoundTime:  o.RoundTime,
		Speed:      o.Speed,
		Darkness:   o.Darkness,
		FreeMarket: o.FreeMarket,
		Selling:    o.Selling,
		Win:        gamedir.WinByMoney,
		BombDamage: o.BombDamage,
	}
	if o.Win == gamedir.WinByWins.String() {
		g.Win = gamedir.WinByWins
	}
	return g
}

// FromGameOptions converts binary options to their YAML form.
func FromGameOptions(g gamedir.Options) OptionsConfig {
	return OptionsConfig{
		Players:    g.Players,
		Treasures:  g.Treasures,
		Rounds:     g.Rounds,
		Cash:       g.Cash,
		RoundTime:  g.RoundTime,
		Speed:      g.Speed,
		Darkness:   g.Darkness,
		FreeMarket: g.FreeMarket,
		Selling:    g.Selling,
		Win:        g.Win.String(),
		BombDamage: g.BombDamage,
	}
}

// KeyBindings are the terminal key names of one player's eight controls,
// as reported by Bubble Tea (e.g. "a", "tab", "left"). Empty means unbound.
type KeyBindings struct {
	Left   string `yaml:"left"`
	Right  string `yaml:"right"`
	Up     string `yaml:"up"`
	Down   string `yaml:"down"`
	Stop   string `yaml:"stop"`
	Bomb   string `yaml:"bomb"`
	Choose string `yaml:"choose"`
	Remote string `yaml:"remote"`
}

// List returns the bindings in control order: left, right, up, down, stop,
// bomb, choose, remote.
func (k KeyBindings) List() [8]string {
	return [8]string{k.Left, k.Right, k.Up, k.Down, k.Stop, k.Bomb, k.Choose, k.Remote}
}

// Set binds control i, counted in List order.
func (k *KeyBindings) Set(i int, key string) {
	fields := [8]*string{&k.Left, &k.Right, &k.Up, &k.Down, &k.Stop, &k.Bomb, &k.Choose, &k.Remote}
	if i >= 0 && i < len(fields) {
		*fields[i] = key
	}
}

// KeysConfig holds the bindings of up to four players.
type KeysConfig struct {
	Players []KeyBindings `yaml:"players"`
}

// Player returns the bindings of slot idx (0-based); missing slots are
// unbound.
func (k KeysConfig) Player(idx int) KeyBindings {
	if idx < 0 || idx >= len(k.Players) {
		return KeyBindings{}
	}
	return k.Players[idx]
}

// ServerConfig configures the SSH server.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"` // empty: ~/.minebombers/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	TickRate    int           `yaml:"tick_rate"`
}

// StorageConfig configures the score database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// Default returns the hardcoded configuration, used when even the embedded
// YAML cannot be parsed.
func Default() Config {
	return Config{
		Options: FromGameOptions(gamedir.DefaultOptions()),
		Keys: KeysConfig{Players: []KeyBindings{
			{Left: "a", Right: "d", Up: "w", Down: "s", Stop: "z", Bomb: "tab", Choose: "x", Remote: "c"},
			{Left: "j", Right: "l", Up: "i", Down: "k", Stop: "7", Bomb: "0", Choose: "8", Remote: "9"},
		}},
		Server: ServerConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
			TickRate:    50,
		},
		Storage: StorageConfig{
			DBPath: "~/.minebombers/minebombers.db",
		},
	}
}
