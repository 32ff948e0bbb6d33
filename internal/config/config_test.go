package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/minebombers/internal/gamedir"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("parse embedded: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded = %+v\nwant %+v", cfg, Default())
	}
}

func TestLoadEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Options.GameOptions() != gamedir.DefaultOptions() {
		t.Errorf("options = %+v", cfg.Options)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".minebombers")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("options:\n  rounds: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Options.Rounds != 3 || cfg.Options.Cash != 750 {
		t.Errorf("options = %+v", cfg.Options)
	}
}

func TestLoadCustomPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mb.yaml")
	data := `
options:
  players: 9
  treasures: 500
  round_time: 90s
  win: wins
  bomb_damage: 40
server:
  tick_rate: 0
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o := cfg.Options
	if o.Players != 2 || o.Treasures != 75 || o.RoundTime != 90*time.Second || o.Win != "wins" || o.BombDamage != 40 {
		t.Errorf("options = %+v", o)
	}
	if o.Rounds != 15 {
		t.Errorf("untouched rounds = %d, want default 15", o.Rounds)
	}
	if cfg.Server.TickRate != 50 {
		t.Errorf("tick rate = %d, want default 50", cfg.Server.TickRate)
	}
	if cfg.Keys.Player(1).Bomb != "0" {
		t.Errorf("player 2 keys = %+v", cfg.Keys.Player(1))
	}
}

func TestLoadCustomErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) succeeded")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("options: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad yaml) succeeded")
	}
}

func TestValidateDuplicateKeys(t *testing.T) {
	tests := []struct {
		name string
		bind func(k *KeysConfig)
		ok   bool
	}{
		{"defaults", func(*KeysConfig) {}, true},
		{"shared between players", func(k *KeysConfig) { k.Players[1].Stop = "A" }, false},
		{"pause key", func(k *KeysConfig) { k.Players[0].Bomb = "p" }, false},
		{"quit key", func(k *KeysConfig) { k.Players[1].Remote = "Q" }, false},
		{"restart key", func(k *KeysConfig) { k.Players[1].Choose = "r" }, false},
		{"screenshot key", func(k *KeysConfig) { k.Players[0].Stop = "ctrl+s" }, false},
		{"enter", func(k *KeysConfig) { k.Players[0].Bomb = "enter" }, false},
		{"arrows are free", func(k *KeysConfig) { k.Players[1].Left = "left" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.bind(&cfg.Keys)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrDuplicateKey) {
				t.Errorf("Validate() = %v, want ErrDuplicateKey", err)
			}
		})
	}
}

func TestKeysPlayer(t *testing.T) {
	k := Default().Keys
	tests := []struct {
		idx  int
		want string
	}{
		{0, "a"},
		{1, "j"},
		{2, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := k.Player(tt.idx).Left; got != tt.want {
			t.Errorf("Player(%d).Left = %q, want %q", tt.idx, got, tt.want)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset Preset
		speed  int
		ok     bool
	}{
		{PresetEasy, 16, true},
		{PresetNormal, 8, true},
		{PresetHard, 0, true},
		{"insane", 0, false},
	}
	for _, tt := range tests {
		cfg := Default()
		err := cfg.ApplyPreset(tt.preset)
		if (err == nil) != tt.ok {
			t.Errorf("ApplyPreset(%s) err = %v", tt.preset, err)
			continue
		}
		if tt.ok && cfg.Options.Speed != tt.speed {
			t.Errorf("ApplyPreset(%s) speed = %d, want %d", tt.preset, cfg.Options.Speed, tt.speed)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("round trip = %+v", cfg)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := ExpandHome("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/x.db"); got != "/abs/x.db" {
		t.Errorf("ExpandHome(abs) = %q", got)
	}
}

func TestSaveRedefinedKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := SavePath("")
	if path != filepath.Join(home, ".minebombers", "config.yaml") {
		t.Fatalf("SavePath = %q", path)
	}
	if got := SavePath("/tmp/mine.yaml"); got != "/tmp/mine.yaml" {
		t.Errorf("SavePath(custom) = %q", got)
	}

	cfg := Default()
	cfg.Keys.Players[0].Bomb = "space"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Keys.Player(0).Bomb != "space" || loaded.Keys.Player(1).Bomb != "0" {
		t.Errorf("keys = %+v", loaded.Keys)
	}

	if err := Save("", cfg); err == nil {
		t.Error("saved without a path")
	}
}

func TestKeysValidate(t *testing.T) {
	keys := Default().Keys
	if err := keys.Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	keys.Players = append(keys.Players, KeyBindings{Left: "a"})
	if err := keys.Validate(); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
}
