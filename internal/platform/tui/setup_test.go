package tui

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/gamedir"
)

// newInstall creates an installation holding the named level files.
func newInstall(t *testing.T, levels ...string) *gamedir.Dir {
	t.Helper()
	root := t.TempDir()
	for _, name := range append([]string{gamedir.TitleFile}, levels...) {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	dir, err := gamedir.Open(root)
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func keyPress(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestAdjustOption(t *testing.T) {
	tests := []struct {
		name  string
		item  int
		up    bool
		edit  func(o *gamedir.Options)
		check func(o gamedir.Options) bool
	}{
		{"cash caps at 2650", optCash, true, func(o *gamedir.Options) { o.Cash = 2600 }, func(o gamedir.Options) bool { return o.Cash == 2650 }},
		{"cash floors at 0", optCash, false, func(o *gamedir.Options) { o.Cash = 50 }, func(o gamedir.Options) bool { return o.Cash == 0 }},
		{"rounds stay at 1", optRounds, false, func(o *gamedir.Options) { o.Rounds = 1 }, func(o gamedir.Options) bool { return o.Rounds == 1 }},
		{"time caps at 22:40", optRoundTime, true, func(o *gamedir.Options) { o.RoundTime = 22*time.Minute + 30*time.Second }, func(o gamedir.Options) bool { return o.RoundTime == maxRoundTime }},
		{"time steps 15s", optRoundTime, false, nil, func(o gamedir.Options) bool { return o.RoundTime == 405*time.Second }},
		{"players cap at 4", optPlayers, true, func(o *gamedir.Options) { o.Players = 4 }, func(o gamedir.Options) bool { return o.Players == 4 }},
		{"faster lowers the delay", optSpeed, true, nil, func(o gamedir.Options) bool { return o.Speed == 7 && o.TickPercent() == 79 }},
		{"slowest is 33", optSpeed, false, func(o *gamedir.Options) { o.Speed = 33 }, func(o gamedir.Options) bool { return o.Speed == 33 }},
		{"bomb damage", optBombDamage, false, nil, func(o gamedir.Options) bool { return o.BombDamage == 99 }},
		{"darkness toggles", optDarkness, false, nil, func(o gamedir.Options) bool { return o.Darkness }},
		{"winner toggles", optWinner, true, nil, func(o gamedir.Options) bool { return o.Win == gamedir.WinByWins }},
		{"main menu has no value", optMainMenu, true, nil, func(o gamedir.Options) bool { return o == gamedir.DefaultOptions() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := gamedir.DefaultOptions()
			if tt.edit != nil {
				tt.edit(&o)
			}
			adjustOption(&o, tt.item, tt.up)
			if !tt.check(o) {
				t.Errorf("options = %+v", o)
			}
		})
	}
}

func TestOptionsScreen(t *testing.T) {
	dir := newInstall(t, "A.MNE", "B.MNE")
	var saved []config.KeysConfig
	m := NewOptionsModel(OptionsSetup{
		Dir:     dir,
		Options: gamedir.DefaultOptions(),
		Keys:    config.Default().Keys,
		SaveKeys: func(k config.KeysConfig) error {
			saved = append(saved, k)
			return nil
		},
	}, 100, 40)
	press := func(msgs ...tea.KeyMsg) {
		for _, msg := range msgs {
			next, _ := m.Update(msg)
			m = next.(OptionsModel)
		}
	}
	down := func(n int) {
		for range n {
			press(keyPress(tea.KeyDown))
		}
	}

	press(keyPress(tea.KeyRight), runeKey("d"), keyPress(tea.KeyRight))
	if got := m.Result().Options.Cash; got != 850 {
		t.Fatalf("cash = %d, want 850", got)
	}
	if !strings.Contains(m.View(), "$850") {
		t.Error("view lacks the new cash")
	}

	// redefine: keep one, hit a reserved key, move a key between controls
	down(optRedefineKeys)
	press(keyPress(tea.KeyEnter))
	if m.screen != screenKeys {
		t.Fatalf("screen = %d, want keys", m.screen)
	}
	press(runeKey("b"), keyPress(tea.KeyEsc), runeKey("p"))
	if !strings.Contains(m.View(), "reserved for pause") {
		t.Error("reserved key accepted")
	}
	press(runeKey("d"), keyPress(tea.KeyF10))
	if m.screen != screenOptions || len(saved) != 1 {
		t.Fatalf("screen = %d, saves = %d", m.screen, len(saved))
	}
	p1 := saved[0].Player(0)
	if p1.Left != "b" || p1.Right != "" || p1.Up != "d" || p1.Down != "s" {
		t.Errorf("player 1 keys = %+v", p1)
	}
	if len(saved[0].Players) != core.MaxPlayers || saved[0].Validate() != nil {
		t.Errorf("saved keys = %+v", saved[0])
	}

	// pick the random slot and A.MNE
	down(1)
	press(keyPress(tea.KeyEnter))
	if m.screen != screenLevels {
		t.Fatalf("screen = %d, want levels", m.screen)
	}
	press(keyPress(tea.KeyEnter), keyPress(tea.KeyRight), keyPress(tea.KeyEnter), keyPress(tea.KeyEsc))
	if got := m.Result().Levels; !slices.Equal(got, []string{"", "A.MNE"}) {
		t.Errorf("levels = %q", got)
	}

	down(1)
	press(keyPress(tea.KeyEnter))
	if !m.done {
		t.Fatal("main menu did not leave")
	}
	if got := dir.Options(); got.Cash != 850 {
		t.Errorf("saved cash = %d, want 850", got.Cash)
	}
}

func TestLevelPicker(t *testing.T) {
	dir := newInstall(t, "A.MNE", "B.MNE", "C.MNE")

	m := NewLevelsModel(dir, 2, 1)
	for _, k := range []tea.KeyType{tea.KeyEnter, tea.KeyRight, tea.KeyEnter, tea.KeyRight, tea.KeyEnter} {
		m = m.update(keyPress(k))
	}
	if !slices.Equal(m.picked, []string{"", "A.MNE"}) {
		t.Errorf("picked = %q, only as many as rounds", m.picked)
	}
	m = m.update(keyPress(tea.KeyDown))
	if m.cursor != 2 {
		t.Errorf("cursor moved below the last level to %d", m.cursor)
	}

	m = NewLevelsModel(dir, 5, 7)
	m = m.update(keyPress(tea.KeyF1))
	if len(m.picked) != 5 {
		t.Fatalf("random picks = %q", m.picked)
	}
	for _, name := range []string{"A.MNE", "B.MNE", "C.MNE"} {
		if !slices.Contains(m.picked, name) {
			t.Errorf("%s missing from %q", name, m.picked)
		}
	}
	if m.selected[0] {
		t.Error("random picks chose the random slot")
	}

	empty := NewLevelsModel(newInstall(t), 3, 1)
	if !strings.Contains(empty.view(80), "No maps to load!") {
		t.Error("empty view lacks the notice")
	}
	if empty = empty.update(runeKey("x")); !empty.done {
		t.Error("any key should leave an empty picker")
	}
}

func TestPlayersScreen(t *testing.T) {
	dir := newInstall(t)

	m := NewPlayersModel(dir, 2, 100, 30)
	press := func(msgs ...tea.KeyMsg) {
		for _, msg := range msgs {
			next, _ := m.Update(msg)
			m = next.(PlayersModel)
		}
	}
	typeName := func(name string) {
		for _, r := range name {
			press(runeKey(string(r)))
		}
		press(keyPress(tea.KeyEnter), keyPress(tea.KeyEsc))
	}

	press(keyPress(tea.KeyEsc))
	if m.done {
		t.Fatal("left without names")
	}

	press(keyPress(tea.KeyUp))
	typeName("Bob")
	press(keyPress(tea.KeyUp))
	typeName("Ann")
	press(keyPress(tea.KeyDown), keyPress(tea.KeyDown))
	if m.slot != len(m.ids) {
		t.Fatalf("slot = %d, want the play entry", m.slot)
	}
	press(keyPress(tea.KeyEnter))
	if !m.done || m.aborted || m.err != nil {
		t.Fatalf("done=%v aborted=%v err=%v", m.done, m.aborted, m.err)
	}

	if got := dir.Identities(); got != (gamedir.Identities{1, 0, -1, -1}) {
		t.Errorf("identities = %v", got)
	}
	roster, err := dir.Roster()
	if err != nil {
		t.Fatal(err)
	}
	if roster.Find("Bob") != 0 || roster.Find("Ann") != 1 {
		t.Errorf("roster = %v, %v", roster.Players[0], roster.Players[1])
	}

	// delete Bob, then try to give Ann to both players
	m = NewPlayersModel(dir, 2, 100, 30)
	press(keyPress(tea.KeyUp), keyPress(tea.KeyEnter))
	if m.focus != focusRoster || m.arrow != 0 {
		t.Fatalf("focus = %d arrow = %d", m.focus, m.arrow)
	}
	press(keyPress(tea.KeyDelete), keyPress(tea.KeyDown), keyPress(tea.KeyLeft))
	if !strings.Contains(m.View(), "Ann already plays as player 1") {
		t.Error("same roster player given to two slots")
	}
	press(keyPress(tea.KeyF10))
	if !m.done || !m.aborted {
		t.Fatal("F10 did not abort")
	}

	if got := dir.Identities(); got != (gamedir.Identities{1, -1, -1, -1}) {
		t.Errorf("identities = %v", got)
	}
	roster, err = dir.Roster()
	if err != nil {
		t.Fatal(err)
	}
	if roster.Find("Bob") != -1 {
		t.Error("deleted player still in the roster")
	}
}

func TestPlayersNameLimit(t *testing.T) {
	m := NewPlayersModel(nil, 1, 80, 24)
	m.slot = 0
	next, _ := m.Update(runeKey(strings.Repeat("x", 40)))
	m = next.(PlayersModel)
	if len(m.name) != maxNameLen {
		t.Errorf("name length = %d, want %d", len(m.name), maxNameLen)
	}

	// an empty name leaves the slot free
	m = NewPlayersModel(nil, 1, 80, 24)
	m.slot = 0
	for _, k := range []tea.KeyMsg{runeKey("a"), keyPress(tea.KeyBackspace), keyPress(tea.KeyEnter)} {
		next, _ = m.Update(k)
		m = next.(PlayersModel)
	}
	if m.roster.Players[0] != nil || m.ids[0] != -1 {
		t.Errorf("empty name stored: %v, id %d", m.roster.Players[0], m.ids[0])
	}
}

func TestInfoScreen(t *testing.T) {
	dir := newInstall(t, "A.MNE", "B.MNE", "LEVEL1.MNL")
	r := &gamedir.Roster{}
	r.Add("Ann")
	if err := dir.SaveRoster(r); err != nil {
		t.Fatal(err)
	}

	m := NewInfoModel(dir, 80)
	view := m.View()
	for _, want := range []string{"Unregistered copy", "Tournament levels: 2", "Campaign levels: 1", "Roster players: 1 of 32"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	next, _ := m.Update(runeKey("z"))
	if !next.(InfoModel).done {
		t.Error("key did not leave")
	}
}

func TestMenuSetupEntries(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, GameDir: newInstall(t).Path()}

	ids := func(m MenuModel) []string {
		var out []string
		for _, item := range m.items {
			out = append(out, item.ID)
		}
		return out
	}
	local := NewMenuModel(nil, cfg, false)
	if got := ids(local); !slices.Contains(got, MenuOptions) || !slices.Contains(got, MenuInfo) {
		t.Errorf("local menu = %v", got)
	}
	if got := ids(NewMenuModel(nil, cfg, true)); slices.Contains(got, MenuOptions) {
		t.Errorf("ssh menu = %v", got)
	}

	tests := []struct {
		id    string
		check func(MenuResult) bool
	}{
		{MenuOptions, func(r MenuResult) bool { return r.WantsOptions && r.Mode == "" }},
		{MenuInfo, func(r MenuResult) bool { return r.WantsInfo && r.Mode == "" }},
	}
	for _, tt := range tests {
		m := local
		m.cursor = slices.Index(ids(m), tt.id)
		next, _ := m.Update(keyPress(tea.KeyEnter))
		if res := next.(MenuModel).result(); !tt.check(res) {
			t.Errorf("%s result = %+v", tt.id, res)
		}
	}
}
