package multiplayer

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minebombers/internal/core"
)

type fakeSnapshot struct{ frames int }

func (fakeSnapshot) IsGameSnapshot() {}

// fakeGame ends after a fixed number of frames; player 2 wins.
type fakeGame struct {
	mu      sync.Mutex
	players int
	frames  int
	length  int
	bombs   []int
	removed []int
}

func (g *fakeGame) Reset(cfg core.RuntimeConfig) {
	g.players = cfg.Players
	g.bombs = make([]int, cfg.Players)
}

func (g *fakeGame) StepMulti(in core.MultiInputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frames++
	for i := range g.bombs {
		if in.Player(core.PlayerFromIndex(i)).Has(core.ActionBomb) {
			g.bombs[i]++
		}
	}
	return core.StepResult{}
}

func (g *fakeGame) Snapshot() GameSnapshot { return fakeSnapshot{frames: g.frames} }
func (g *fakeGame) IsGameOver() bool       { return g.length > 0 && g.frames >= g.length }
func (g *fakeGame) Winner() PlayerID       { return Player2 }

func (g *fakeGame) RemovePlayer(slot int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removed = append(g.removed, slot)
}

func (g *fakeGame) removedSlots() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int(nil), g.removed...)
}

func (g *fakeGame) Scores() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int, g.players)
	copy(out, g.bombs)
	return out
}

type recordingSaver struct {
	mu      sync.Mutex
	results []MatchResultData
}

func (s *recordingSaver) SaveMatchResult(r MatchResultData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *recordingSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

type harness struct {
	coord    *Coordinator
	registry *SessionRegistry
	saver    *recordingSaver
	games    chan *fakeGame
	names    chan []string
}

func newHarness(t *testing.T, length int) *harness {
	t.Helper()
	h := &harness{
		registry: NewSessionRegistry(),
		saver:    &recordingSaver{},
		games:    make(chan *fakeGame, 4),
		names:    make(chan []string, 4),
	}
	cfg := DefaultCoordinatorConfig()
	cfg.TickRate = 200
	h.coord = NewCoordinator(cfg, func(mode string, rc core.RuntimeConfig, names []string) (OnlineGame, error) {
		if mode != "deathmatch" {
			return nil, errors.New("unknown mode")
		}
		g := &fakeGame{length: length}
		g.Reset(rc)
		h.games <- g
		h.names <- names
		return g, nil
	}, h.registry)
	h.coord.SetResultSaver(h.saver)
	h.coord.SetLogger(log.New(io.Discard))
	h.coord.Start()
	t.Cleanup(h.coord.Stop)
	return h
}

func (h *harness) session(name string) *ChannelSession {
	s := NewChannelSession(name, 256)
	h.registry.Register(s)
	return s
}

// waitFor returns the first event of type T, skipping others.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if e, ok := evt.(T); ok {
				return e
			}
		case <-timeout:
			var zero T
			t.Fatalf("%s: timed out waiting for %T", s.Name(), zero)
			return zero
		}
	}
}

func TestLobbyFullStartsMatch(t *testing.T) {
	h := newHarness(t, 20)

	host := h.session("host")
	h.coord.Send(CreateLobbyMsg{SessionID: host.ID(), Mode: "deathmatch"})
	created := waitFor[LobbyCreatedEvent](t, host)
	if len(created.Code) != 6 {
		t.Fatalf("code = %q", created.Code)
	}

	guests := []*ChannelSession{h.session("g1"), h.session("g2"), h.session("g3")}
	for _, g := range guests {
		h.coord.Send(JoinLobbyMsg{SessionID: g.ID(), Code: created.Code})
	}

	late := h.session("late")
	h.coord.Send(JoinLobbyMsg{SessionID: late.ID(), Code: created.Code})
	if e := waitFor[LobbyErrorEvent](t, late); e.Message != "Lobby not found" {
		t.Errorf("late joiner error = %q", e.Message)
	}

	for i, s := range append([]*ChannelSession{host}, guests...) {
		started := waitFor[MatchStartedEvent](t, s)
		if started.Side != core.PlayerFromIndex(i) || started.Players != 4 {
			t.Errorf("%s: started = %+v", s.Name(), started)
		}
	}
	names := <-h.names
	if len(names) != 4 || names[0] != "host" || names[3] != "g3" {
		t.Errorf("names = %v", names)
	}

	ended := waitFor[MatchEndedEvent](t, guests[0])
	if ended.Reason != MatchEndReasonCompleted || ended.Winner != Player2 || len(ended.Scores) != 4 {
		t.Errorf("ended = %+v", ended)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.saver.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.saver.count() != 1 {
		t.Fatal("match result was not saved")
	}
	saved := h.saver.results[0]
	if saved.WinnerSession != string(guests[0].ID()) || len(saved.Sessions) != 4 || saved.Mode != "deathmatch" {
		t.Errorf("saved = %+v", saved)
	}
	if h.coord.MatchCount() != 0 || h.coord.LobbyCount() != 0 {
		t.Errorf("matches=%d lobbies=%d", h.coord.MatchCount(), h.coord.LobbyCount())
	}
}

func TestHostStartsWithTwoPlayers(t *testing.T) {
	h := newHarness(t, 0)

	host, guest := h.session("host"), h.session("guest")
	h.coord.Send(CreateLobbyMsg{SessionID: host.ID(), Mode: "deathmatch"})
	code := waitFor[LobbyCreatedEvent](t, host).Code

	h.coord.Send(StartMatchMsg{SessionID: host.ID(), Code: code})
	if e := waitFor[LobbyErrorEvent](t, host); e.Message != "Waiting for opponents" {
		t.Errorf("error = %q", e.Message)
	}

	h.coord.Send(JoinLobbyMsg{SessionID: guest.ID(), Code: code})
	joined := waitFor[LobbyJoinedEvent](t, guest)
	if joined.Side != Player2 || len(joined.Names) != 2 {
		t.Fatalf("joined = %+v", joined)
	}

	// only the host may start
	h.coord.Send(StartMatchMsg{SessionID: guest.ID(), Code: code})
	h.coord.Send(StartMatchMsg{SessionID: host.ID(), Code: code})
	started := waitFor[MatchStartedEvent](t, host)
	if started.Players != 2 {
		t.Errorf("players = %d", started.Players)
	}
	game := <-h.games

	in := core.NewInputFrame()
	in.Set(core.ActionBomb)
	h.coord.Send(PlayerInputMsg{MatchID: started.MatchID, Player: Player2, Input: in})
	deadline := time.Now().Add(2 * time.Second)
	for game.Scores()[1] == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	guest.Close()
	ended := waitFor[MatchEndedEvent](t, host)
	if ended.Reason != MatchEndReasonDisconnect || ended.Winner != Player1 {
		t.Errorf("ended = %+v", ended)
	}
	if s := game.Scores(); s[1] != 1 || s[0] != 0 {
		t.Errorf("scores = %v", s)
	}
}

func TestDisconnectRemovesPlayer(t *testing.T) {
	h := newHarness(t, 0)

	host, a, b := h.session("host"), h.session("a"), h.session("b")
	h.coord.Send(CreateLobbyMsg{SessionID: host.ID(), Mode: "deathmatch"})
	code := waitFor[LobbyCreatedEvent](t, host).Code
	h.coord.Send(JoinLobbyMsg{SessionID: a.ID(), Code: code})
	h.coord.Send(JoinLobbyMsg{SessionID: b.ID(), Code: code})
	waitFor[LobbyJoinedEvent](t, b)

	h.coord.Send(StartMatchMsg{SessionID: host.ID(), Code: code})
	if started := waitFor[MatchStartedEvent](t, host); started.Players != 3 {
		t.Fatalf("players = %d", started.Players)
	}
	game := <-h.games

	b.Close()
	deadline := time.Now().Add(2 * time.Second)
	for len(game.removedSlots()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := game.removedSlots(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("removed slots = %v, expected [2]", got)
	}

	// two players remain, the match goes on
	waitFor[SnapshotEvent](t, host)
	if h.coord.MatchCount() != 1 {
		t.Errorf("matches = %d, expected the match to continue", h.coord.MatchCount())
	}

	a.Close()
	ended := waitFor[MatchEndedEvent](t, host)
	if ended.Reason != MatchEndReasonDisconnect || ended.Winner != Player1 {
		t.Errorf("ended = %+v", ended)
	}
	if got := game.removedSlots(); len(got) != 2 || got[1] != 1 {
		t.Errorf("removed slots = %v, expected [2 1]", got)
	}
}

func TestLobbyLeaveAndCancel(t *testing.T) {
	h := newHarness(t, 0)

	host, a, b := h.session("host"), h.session("a"), h.session("b")
	h.coord.Send(CreateLobbyMsg{SessionID: host.ID(), Mode: "deathmatch"})
	code := waitFor[LobbyCreatedEvent](t, host).Code
	h.coord.Send(JoinLobbyMsg{SessionID: a.ID(), Code: code})
	h.coord.Send(JoinLobbyMsg{SessionID: b.ID(), Code: code})
	waitFor[LobbyJoinedEvent](t, b)

	h.coord.Send(LeaveLobbyMsg{SessionID: a.ID(), Code: code})
	left := waitFor[LobbyPlayerLeftEvent](t, b)
	if left.Side != Player2 || len(left.Names) != 2 || left.Names[1] != "b" {
		t.Errorf("left = %+v", left)
	}

	h.coord.Send(CancelLobbyMsg{SessionID: host.ID(), Code: code})
	if e := waitFor[MatchEndedEvent](t, b); e.Reason != MatchEndReasonHostLeft {
		t.Errorf("reason = %v", e.Reason)
	}
	deadline := time.Now().Add(time.Second)
	for h.coord.LobbyCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.coord.LobbyCount() != 0 {
		t.Error("lobby was not removed")
	}
}

func TestUnknownModeFailsToStart(t *testing.T) {
	h := newHarness(t, 0)

	host, guest := h.session("host"), h.session("guest")
	h.coord.Send(CreateLobbyMsg{SessionID: host.ID(), Mode: "campaign"})
	code := waitFor[LobbyCreatedEvent](t, host).Code
	h.coord.Send(JoinLobbyMsg{SessionID: guest.ID(), Code: code})
	h.coord.Send(StartMatchMsg{SessionID: host.ID(), Code: code})

	if e := waitFor[LobbyErrorEvent](t, guest); e.Message != "Failed to create game" {
		t.Errorf("error = %q", e.Message)
	}
}

func TestMatchSide(t *testing.T) {
	m := NewMatch(NewMatchID(), MatchModeOnline, "a", "b", "c")
	if m.Side("c") != Player3 || m.Side("x") != 0 {
		t.Errorf("sides = %v, %v", m.Side("c"), m.Side("x"))
	}
	if m.Mode().String() != "Online" {
		t.Errorf("mode = %s", m.Mode())
	}
}

func TestJoinCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code := generateJoinCode()
		if len(code) != 6 {
			t.Fatalf("code %q", code)
		}
		for _, r := range code {
			if !(r >= 'A' && r <= 'Z') && !(r >= '2' && r <= '7') {
				t.Fatalf("code %q has %q", code, r)
			}
		}
	}
}
