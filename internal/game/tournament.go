package game

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/registry"
	"github.com/vovakirdan/minebombers/internal/world"
)

// Tournament is the hot-seat mode: 2-4 players on one keyboard play the
// configured number of rounds and shop between them.
type Tournament struct {
	session

	round  int // finished rounds
	levels []string
	// levelName is the file of the current level, "" for a random map.
	levelName string
	roster    *gamedir.Roster
	result    *TournamentResult
}

// NewTournament creates the tournament mode.
func NewTournament() *Tournament {
	return &Tournament{}
}

// ID returns the mode identifier.
func (g *Tournament) ID() string {
	return ModeTournament
}

// Title returns the display name.
func (g *Tournament) Title() string {
	return "Tournament"
}

// Reset starts a new tournament.
func (g *Tournament) Reset(runtime core.RuntimeConfig) {
	g.setup(runtime)

	n := runtime.Players
	if n == 0 {
		n = g.opts.Players
	}
	n = core.Clamp(n, 2, core.MaxPlayers)

	g.roster = g.loadRoster()
	g.players = nil
	for _, name := range g.playerNames(n, g.roster) {
		g.players = append(g.players, world.NewPlayer(name, g.opts.Cash))
	}

	g.levels = nil
	if g.dir != nil && runtime.Level == "" {
		levels, err := g.dir.Levels()
		if err != nil {
			g.log.Warn("cannot list levels", "err", err)
		}
		g.levels = levels
	}

	g.round = 0
	g.result = nil
	g.nextLevel()
	g.openShop()
}

// Round returns the number of finished rounds.
func (g *Tournament) Round() int {
	return g.round
}

// Result returns the final result once the tournament is over.
func (g *Tournament) Result() *TournamentResult {
	return g.result
}

// nextLevel picks the level of the coming round: the explicit level, the
// level picked for the round, or one of the installation's levels or a
// random map with equal chance.
func (g *Tournament) nextLevel() {
	g.levelName = ""
	var m *world.LevelMap
	switch {
	case g.runtime.Level != "":
		g.levelName = g.runtime.Level
	case g.round < len(g.settings.Levels):
		g.levelName = g.settings.Levels[g.round]
	case len(g.levels) > 0:
		if idx := g.rng.Intn(len(g.levels) + 1); idx < len(g.levels) {
			g.levelName = g.levels[idx]
		}
	}
	if g.levelName != "" {
		var err error
		m, err = g.loadNamedLevel(g.levelName)
		if err != nil {
			g.log.Error("cannot load level, generating one", "level", g.levelName, "err", err)
			g.levelName = ""
		}
	}
	if m == nil {
		m = g.randomLevel(len(g.players))
	}
	g.level = m
}

func (g *Tournament) openShop() {
	caption := fmt.Sprintf("Rounds remaining: %d", g.opts.Rounds-g.round)
	g.shop = NewShop(g.players, NewPrices(g.opts.FreeMarket, g.rng), g.opts.Selling, caption, g.level)
	g.message = nil
	g.phase = phaseShop
}

// Step advances the tournament with input for player 1 only.
func (g *Tournament) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(core.Player1, in)
	return g.StepMulti(multi)
}

// StepMulti advances the tournament with per-player input.
func (g *Tournament) StepMulti(in core.MultiInputFrame) core.StepResult {
	switch g.phase {
	case phaseShop:
		g.shop.Step(in)
		if g.shop.Done() {
			g.startRound(false)
		}
	case phaseRound:
		if g.togglePause(in) {
			break
		}
		if in.Any().Has(core.ActionBack) {
			g.world.EndCounter = max(g.world.EndCounter, 101)
		}
		if g.stepRound(in) {
			g.endRound()
		}
	case phaseRoundOver:
		if confirmed(in) {
			g.nextLevel()
			g.openShop()
		}
	}
	return core.StepResult{State: g.State()}
}

func (g *Tournament) endRound() {
	g.world.EndOfRound()
	g.round++
	if g.round >= g.opts.Rounds {
		g.finish()
		return
	}
	g.message = append([]string{fmt.Sprintf("ROUND %d OF %d OVER", g.round, g.opts.Rounds), ""}, g.standings()...)
	g.message = append(g.message, "", "Press Enter to continue")
	g.phase = phaseRoundOver
}

// ranking returns player indices, best first.
func ranking(players []*world.Player, win gamedir.WinCondition) []int {
	order := make([]int, len(players))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		pa, pb := players[a], players[b]
		if win == gamedir.WinByWins {
			if c := cmp.Compare(pb.RoundsWin, pa.RoundsWin); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(pb.Cash, pa.Cash); c != 0 {
			return c
		}
		return cmp.Compare(pb.RoundsWin, pa.RoundsWin)
	})
	return order
}

func (g *Tournament) standings() []string {
	var lines []string
	for rank, i := range ranking(g.players, g.opts.Win) {
		p := g.players[i]
		lines = append(lines, fmt.Sprintf("%d. %-18s $%-7d wins %d", rank+1, truncate(p.Stats.Name, 18), p.Cash, p.RoundsWin))
	}
	return lines
}

func (g *Tournament) finish() {
	order := ranking(g.players, g.opts.Win)
	winner := g.players[order[0]]
	res := TournamentResult{
		Rounds: g.opts.Rounds,
		Win:    g.opts.Win,
		Winner: winner.Stats.Name,
	}
	for rank, i := range order {
		p := g.players[i]
		res.Players = append(res.Players, TournamentPlayer{
			Name:      p.Stats.Name,
			Cash:      p.Cash,
			RoundsWon: p.RoundsWin,
			Rank:      rank + 1,
		})
	}

	for i, p := range g.players {
		stats := p.Stats
		stats.Tournaments = 1
		if i == order[0] {
			stats.TournamentsWins = 1
		}
		res.Roster = append(res.Roster, g.mergeRoster(p, stats))
	}
	if g.dir != nil && g.roster != nil {
		if err := g.dir.SaveRoster(g.roster); err != nil {
			g.log.Error("cannot save roster", "err", err)
		}
	}
	if g.settings.Sink != nil {
		if err := g.settings.Sink.SaveTournament(res); err != nil {
			g.log.Error("cannot save tournament", "err", err)
		}
	}
	g.result = &res

	g.message = append([]string{"TOURNAMENT OVER", "Winner: " + res.Winner, ""}, g.standings()...)
	g.message = append(g.message, "", "Press R to play again")
	g.phase = phaseOver
}

// mergeRoster merges the tournament statistics of a player into their roster
// record, creating it when needed, and returns the merged record. Without a
// roster or with a full one the merge starts from empty statistics.
func (g *Tournament) mergeRoster(p *world.Player, stats world.Stats) world.Stats {
	if g.roster == nil {
		g.roster = &gamedir.Roster{}
	}
	idx := g.roster.Find(stats.Name)
	if idx < 0 {
		idx = g.roster.Add(stats.Name)
	}
	if idx < 0 {
		merged := world.Stats{Name: stats.Name}
		merged.MergeTournament(stats)
		return merged
	}
	p.RosterIndex = idx
	g.roster.Players[idx].MergeTournament(stats)
	return *g.roster.Players[idx]
}

// Render draws the shop, the round or the standings.
func (g *Tournament) Render(dst *core.Screen) {
	g.render(dst, false)
}

// State returns the current game state. The score is the leading cash.
func (g *Tournament) State() core.GameState {
	return g.state()
}

func init() {
	registry.Register(ModeTournament, func() registry.Game {
		return NewTournament()
	})
}
