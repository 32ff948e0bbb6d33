package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/game"
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/multiplayer"
	"github.com/vovakirdan/minebombers/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper(config.Default().Keys)

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		player core.PlayerID
		action core.Action
		quit   bool
	}{
		{"p1 left", runeKey("a"), core.Player1, core.ActionLeft, false},
		{"shifted letter", runeKey("A"), core.Player1, core.ActionLeft, false},
		{"p1 bomb", tea.KeyMsg{Type: tea.KeyTab}, core.Player1, core.ActionBomb, false},
		{"p2 bomb", runeKey("0"), core.Player2, core.ActionBomb, false},
		{"p2 remote", runeKey("9"), core.Player2, core.ActionRemote, false},
		{"arrow falls back to p1", tea.KeyMsg{Type: tea.KeyUp}, core.Player1, core.ActionUp, false},
		{"confirm", tea.KeyMsg{Type: tea.KeyEnter}, core.Player1, core.ActionConfirm, false},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, core.Player1, core.ActionBack, false},
		{"pause", runeKey("p"), core.Player1, core.ActionPause, false},
		{"quit", runeKey("q"), core.Player1, core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.Player1, core.ActionQuit, true},
		{"unbound", runeKey("m"), core.Player1, core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player, action, quit := km.MapKey(tt.msg)
			if player != tt.player || action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v, %v; want %v, %v, %v",
					tt.msg.String(), player, action, quit, tt.player, tt.action, tt.quit)
			}
		})
	}

	if got := km.Bound(core.Player2, core.ActionChoose); got != "8" {
		t.Errorf("Bound(P2, Choose) = %q", got)
	}
}

func TestKeyMapperMultiFrame(t *testing.T) {
	km := NewKeyMapper(config.Default().Keys)

	multi := core.NewMultiInputFrame()
	km.MapKeyToMultiFrame(runeKey("j"), &multi)
	km.MapKeyToMultiFrame(runeKey("w"), &multi)
	if !multi.Player(core.Player2).Has(core.ActionLeft) || !multi.Player(core.Player1).Has(core.ActionUp) {
		t.Errorf("multi frame = %+v", multi)
	}
	if !km.MapKeyToMultiFrame(tea.KeyMsg{Type: tea.KeyCtrlC}, &multi) {
		t.Error("ctrl+c is not a quit request")
	}
}

func TestMenuSelection(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 100, ScreenH: 30, Players: 3}
	m := NewMenuModel(nil, cfg, false)
	if m.Players() != 3 {
		t.Fatalf("players = %d", m.Players())
	}

	press := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}

	// players only change on multi-player modes
	press(tea.KeyMsg{Type: tea.KeyRight})
	if m.Players() != 3 {
		t.Errorf("campaign changed players to %d", m.Players())
	}

	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyRight})
	press(tea.KeyMsg{Type: tea.KeyRight})
	if m.Players() != core.MaxPlayers {
		t.Errorf("players = %d, want %d", m.Players(), core.MaxPlayers)
	}
	for range 4 {
		press(tea.KeyMsg{Type: tea.KeyLeft})
	}
	if m.Players() != multiplayer.MinPlayers {
		t.Errorf("players = %d, want %d", m.Players(), multiplayer.MinPlayers)
	}

	if !strings.Contains(m.View(), "Tournament") {
		t.Error("view lacks the tournament entry")
	}

	press(tea.KeyMsg{Type: tea.KeyEnter})
	res := m.result()
	if res.Mode != game.ModeTournament || res.Players != 2 || res.Quit {
		t.Errorf("result = %+v", res)
	}
}

func TestMenuEntries(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}

	local := NewMenuModel(nil, cfg, false)
	for _, item := range local.items {
		if item.ID == MenuOnline {
			t.Error("local menu offers online play")
		}
	}

	remote := NewMenuModel(nil, cfg, true)
	found := false
	for _, item := range remote.items {
		found = found || item.ID == MenuOnline
	}
	if !found {
		t.Error("ssh menu lacks online play")
	}

	next, _ := remote.Update(tea.KeyMsg{Type: tea.KeyTab})
	if res := next.(MenuModel).result(); !res.WantsScoreboard {
		t.Errorf("tab result = %+v", res)
	}

	next, _ = remote.Update(runeKey("q"))
	if res := next.(MenuModel).result(); !res.Quit {
		t.Errorf("q result = %+v", res)
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(2, 2)
	s.SetColor(0, 0, 'a', core.ColorRed)
	s.SetColor(1, 0, 'b', core.ColorRed)
	s.SetColor(0, 1, 'c', core.ColorSand)
	s.SetColor(1, 1, 'd', core.ColorSand)

	out := RenderScreen(s)
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "ab") || !strings.Contains(out, "cd") {
		t.Errorf("RenderScreen = %q", out)
	}
}

func TestOnlineLobbyEvents(t *testing.T) {
	session := multiplayer.NewChannelSession("ann", 8)
	m := NewOnlineLobbyModel(game.ModeDeathmatch, session, nil, config.Default().Keys, 80, 50)

	m = m.handleEvent(multiplayer.LobbyCreatedEvent{Code: "ABCDEF", Mode: game.ModeDeathmatch})
	if m.State() != OnlineStateHostWaiting || m.LobbyCode() != "ABCDEF" || m.Side() != core.Player1 {
		t.Fatalf("after create: state=%v code=%q side=%v", m.State(), m.LobbyCode(), m.Side())
	}

	m = m.handleEvent(multiplayer.LobbyJoinedEvent{Code: "ABCDEF", Side: core.Player1, Names: []string{"ann", "bob"}})
	if !strings.Contains(m.View(), "bob") {
		t.Error("lobby view lacks the new member")
	}

	matchID := multiplayer.NewMatchID()
	m = m.handleEvent(multiplayer.MatchStartedEvent{MatchID: matchID, Side: core.Player1, Players: 2})
	if m.State() != OnlineStateInMatch {
		t.Fatalf("state = %v", m.State())
	}

	opts := gamedir.DefaultOptions()
	dm := game.NewDeathmatch()
	dm.Configure(game.Settings{Options: &opts})
	dm.Reset(core.RuntimeConfig{Seed: 5, TickRate: 60, Players: 2})

	// snapshots of other matches are ignored
	m = m.handleEvent(multiplayer.SnapshotEvent{MatchID: "other", Snapshot: dm.Snapshot()})
	if m.snapshot != nil {
		t.Fatal("foreign snapshot accepted")
	}
	m = m.handleEvent(multiplayer.SnapshotEvent{MatchID: matchID, Tick: 1, Snapshot: dm.Snapshot()})
	if m.snapshot == nil || m.View() == "" {
		t.Fatal("snapshot not rendered")
	}

	m = m.handleEvent(multiplayer.MatchEndedEvent{
		MatchID: matchID,
		Reason:  multiplayer.MatchEndReasonCompleted,
		Winner:  core.Player1,
		Scores:  []int{300, 100},
	})
	if m.State() != OnlineStateMatchEnded {
		t.Fatalf("state = %v", m.State())
	}
	view := m.View()
	if !strings.Contains(view, "You win!") || !strings.Contains(view, "$300") {
		t.Errorf("result view = %q", view)
	}
}

func TestOnlineHostLeft(t *testing.T) {
	session := multiplayer.NewChannelSession("bob", 8)
	m := NewOnlineLobbyModel(game.ModeDeathmatch, session, nil, config.Default().Keys, 80, 24)
	m.state = OnlineStateJoinWaiting

	m = m.handleEvent(multiplayer.LobbyJoinedEvent{Code: "XYZ234", Side: core.Player2, Names: []string{"ann", "bob"}})
	if m.State() != OnlineStateJoinWaiting || m.Side() != core.Player2 {
		t.Fatalf("state=%v side=%v", m.State(), m.Side())
	}

	m = m.handleEvent(multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonHostLeft})
	if m.State() != OnlineStateChooseMode || m.LobbyCode() != "" {
		t.Errorf("state=%v code=%q", m.State(), m.LobbyCode())
	}
	if !strings.Contains(m.View(), "Host left") {
		t.Error("reason not shown")
	}
}

func TestJoinCodeEntry(t *testing.T) {
	session := multiplayer.NewChannelSession("cid", 8)
	m := NewOnlineLobbyModel(game.ModeDeathmatch, session, nil, config.Default().Keys, 80, 24)

	next, _ := m.Update(runeKey("j"))
	m = next.(OnlineLobbyModel)
	if m.State() != OnlineStateJoinEnterCode {
		t.Fatalf("state = %v", m.State())
	}

	for _, k := range []string{"a", "b", "1", "c", "7"} {
		next, _ = m.Update(runeKey(k))
		m = next.(OnlineLobbyModel)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(OnlineLobbyModel)
	if m.joinCodeInput != "ABC" {
		t.Errorf("code = %q, want ABC", m.joinCodeInput)
	}

	// incomplete codes are not sent
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(OnlineLobbyModel).State() != OnlineStateJoinEnterCode {
		t.Error("incomplete code submitted")
	}
}

func TestScoreboardClearAndDetails(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, p := range []string{"Ann", "Bob"} {
		if _, err := store.SaveScore(game.ModeCampaign, p, 2, 300); err != nil {
			t.Fatal(err)
		}
	}
	for _, r := range []storage.OnlineMatchResult{
		{MatchID: "m-1", Mode: game.ModeDeathmatch, Sessions: []string{"s-a", "s-b"}, Scores: []int{50, 10}, WinnerSession: "s-a", EndReason: "Completed"},
		{MatchID: "m-2", Mode: game.ModeDeathmatch, Sessions: []string{"s-b", "s-c"}, Scores: []int{70, 20}, WinnerSession: "s-b", EndReason: "Completed"},
	} {
		if _, err := store.SaveOnlineMatch(r); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, 120, 40)
	press := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(ScoreboardModel)
	}

	// anything but y cancels
	press(runeKey("x"))
	if !strings.Contains(m.View(), "Clear all campaign scores") {
		t.Fatal("clear not asked")
	}
	press(runeKey("n"))
	if len(m.rows) != 2 {
		t.Fatalf("rows = %d after cancel", len(m.rows))
	}

	press(runeKey("x"))
	press(runeKey("y"))
	if len(m.rows) != 0 {
		t.Errorf("rows = %d after clear", len(m.rows))
	}
	if scores, _ := store.TopScores(game.ModeCampaign, 10); len(scores) != 0 {
		t.Errorf("stored scores = %+v", scores)
	}

	press(tea.KeyMsg{Type: tea.KeyTab})
	press(tea.KeyMsg{Type: tea.KeyTab})
	if m.Board() != game.ModeDeathmatch {
		t.Fatalf("board = %s", m.Board())
	}
	// clearing only applies to the campaign board
	press(runeKey("x"))
	if m.clearing {
		t.Error("clear offered on the online board")
	}

	// the newest match is on top: s-b played both and won one
	press(tea.KeyMsg{Type: tea.KeyEnter})
	if m.detail == nil || m.detail.match.MatchID != "m-2" {
		t.Fatalf("detail = %+v", m.detail)
	}
	if view := m.View(); !strings.Contains(view, "played 2, won 1") || !strings.Contains(view, "played 1, won 0") {
		t.Errorf("detail view = %q", view)
	}

	press(tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail != nil || m.IsGoingBack() {
		t.Errorf("esc: detail=%v back=%v", m.detail, m.IsGoingBack())
	}
}
