package game

import (
	"fmt"

	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/multiplayer"
	"github.com/vovakirdan/minebombers/internal/registry"
	"github.com/vovakirdan/minebombers/internal/world"
)

// starterKit replaces the shop in a deathmatch.
var starterKit = map[world.Equipment]int{
	world.SmallBombItem:    30,
	world.BigBombItem:      15,
	world.DynamiteItem:     5,
	world.SmallRadioItem:   3,
	world.GrenadeItem:      2,
	world.MineItem:         3,
	world.SmallPickaxeItem: 1,
}

// Deathmatch is a single round for 2-4 players on a random map, without the
// shop. It is the mode played online.
type Deathmatch struct {
	session
	winner int // player slot, -1 for a draw
	// left marks the slots whose players quit the match.
	left []bool
}

// NewDeathmatch creates the deathmatch mode.
func NewDeathmatch() *Deathmatch {
	return &Deathmatch{winner: -1}
}

// ID returns the mode identifier.
func (g *Deathmatch) ID() string {
	return ModeDeathmatch
}

// Title returns the display name.
func (g *Deathmatch) Title() string {
	return "Deathmatch"
}

// Reset creates the players and starts the round.
func (g *Deathmatch) Reset(runtime core.RuntimeConfig) {
	g.setup(runtime)

	n := runtime.Players
	if n == 0 {
		n = 2
	}
	n = core.Clamp(n, 2, core.MaxPlayers)

	g.players = nil
	for _, name := range g.playerNames(n, nil) {
		p := world.NewPlayer(name, g.opts.Cash)
		for item, count := range starterKit {
			p.Inventory[item] += count
		}
		g.players = append(g.players, p)
	}

	g.level = nil
	if runtime.Level != "" {
		m, err := g.loadNamedLevel(runtime.Level)
		if err != nil {
			g.log.Error("cannot load level, generating one", "level", runtime.Level, "err", err)
		}
		g.level = m
	}
	if g.level == nil {
		g.level = g.randomLevel(n)
	}

	g.winner = -1
	g.left = make([]bool, n)
	g.startRound(false)
}

// RemovePlayer takes a player out of the match. They cannot win it, even on
// cash.
func (g *Deathmatch) RemovePlayer(slot int) {
	if slot < 0 || slot >= len(g.left) || g.left[slot] {
		return
	}
	g.left[slot] = true
	if g.phase == phaseRound && g.world != nil {
		g.world.RemovePlayer(slot)
	}
}

// Step advances the round with input for player 1 only.
func (g *Deathmatch) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(core.Player1, in)
	return g.StepMulti(multi)
}

// StepMulti advances the round with per-player input.
func (g *Deathmatch) StepMulti(in core.MultiInputFrame) core.StepResult {
	if g.phase != phaseRound || g.togglePause(in) {
		return core.StepResult{State: g.State()}
	}
	if g.stepRound(in) {
		g.world.EndOfRound()
		g.winner = g.decideWinner()
		g.message = g.resultLines()
		g.phase = phaseOver
	}
	return core.StepResult{State: g.State()}
}

// decideWinner returns the last player standing, or the richest player when
// the round ended otherwise. Equal cash is a draw.
func (g *Deathmatch) decideWinner() int {
	alive := -1
	for i := range g.players {
		if !g.world.Actors[i].Dead {
			if alive >= 0 {
				alive = -2
				break
			}
			alive = i
		}
	}
	if alive >= 0 {
		return alive
	}

	best, winner := -1, -1
	for i, p := range g.players {
		if g.left[i] {
			continue
		}
		switch {
		case p.Cash > best:
			best, winner = p.Cash, i
		case p.Cash == best:
			winner = -1
		}
	}
	return winner
}

func (g *Deathmatch) resultLines() []string {
	title := "DRAW"
	if g.winner >= 0 {
		title = g.players[g.winner].Stats.Name + " WINS"
	}
	lines := []string{title, ""}
	for _, i := range ranking(g.players, gamedir.WinByMoney) {
		p := g.players[i]
		lines = append(lines, fmt.Sprintf("%-18s $%d", truncate(p.Stats.Name, 18), p.Cash))
	}
	return lines
}

// IsGameOver reports whether the round has ended.
func (g *Deathmatch) IsGameOver() bool {
	return g.phase == phaseOver
}

// Winner returns the winning player, or 0 for a draw or a running round.
func (g *Deathmatch) Winner() core.PlayerID {
	if g.phase != phaseOver || g.winner < 0 {
		return 0
	}
	return core.PlayerFromIndex(g.winner)
}

// Scores returns the cash of every player by slot.
func (g *Deathmatch) Scores() []int {
	out := make([]int, len(g.players))
	for i, p := range g.players {
		out[i] = p.Cash
	}
	return out
}

// Render draws the round and the result box.
func (g *Deathmatch) Render(dst *core.Screen) {
	g.render(dst, false)
}

// State returns the current game state.
func (g *Deathmatch) State() core.GameState {
	return g.state()
}

// DeathmatchSnapshot is the state sent to online clients.
type DeathmatchSnapshot struct {
	World   world.Snapshot
	Over    bool
	Winner  int // player slot + 1, 0 for none
	Message []string
}

// IsGameSnapshot implements multiplayer.GameSnapshot.
func (DeathmatchSnapshot) IsGameSnapshot() {}

var _ multiplayer.GameSnapshot = DeathmatchSnapshot{}

// Snapshot returns the current state for network transmission.
func (g *Deathmatch) Snapshot() multiplayer.GameSnapshot {
	return DeathmatchSnapshot{
		World:   g.WorldSnapshot(),
		Over:    g.IsGameOver(),
		Winner:  int(g.Winner()),
		Message: g.message,
	}
}

// RenderSnapshot draws a snapshot received from the server.
func RenderSnapshot(dst *core.Screen, snap DeathmatchSnapshot) {
	dst.Clear()
	DrawRound(dst, &snap.World, false)
	if len(snap.Message) > 0 {
		drawMessage(dst, snap.Message...)
	}
}

var _ multiplayer.OnlineGame = (*Deathmatch)(nil)

func init() {
	registry.Register(ModeDeathmatch, func() registry.Game {
		return NewDeathmatch()
	})
}
