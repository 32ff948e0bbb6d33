package game

import (
	"fmt"

	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/registry"
	"github.com/vovakirdan/minebombers/internal/world"
)

// CampaignLives is the number of lives a campaign starts with.
const CampaignLives = 3

// Campaign is the single player mode: LEVEL1.MNL, LEVEL2.MNL, ... with the
// shop before every level. Without an installation the levels are generated
// and the campaign only ends when the lives run out.
type Campaign struct {
	session

	levelNo int
	// fromDir is set while levels come from the installation.
	fromDir bool
	won     bool
	result  *CampaignResult
	// livesAtStart are the lives when the current round began.
	livesAtStart int
}

// NewCampaign creates the campaign mode.
func NewCampaign() *Campaign {
	return &Campaign{}
}

// ID returns the mode identifier.
func (g *Campaign) ID() string {
	return ModeCampaign
}

// Title returns the display name.
func (g *Campaign) Title() string {
	return "Campaign"
}

// Reset starts a new campaign at level 1.
func (g *Campaign) Reset(runtime core.RuntimeConfig) {
	g.setup(runtime)

	name := g.playerNames(1, g.loadRoster())[0]
	p := world.NewPlayer(name, g.opts.Cash)
	p.Lives = CampaignLives
	g.players = []*world.Player{p}

	g.levelNo = 1
	g.won = false
	g.result = nil
	g.loadLevel()
	g.openShop()
}

// Level returns the current level number.
func (g *Campaign) Level() int {
	return g.levelNo
}

// Result returns the final result once the campaign is over.
func (g *Campaign) Result() *CampaignResult {
	return g.result
}

func (g *Campaign) loadLevel() {
	var (
		m   *world.LevelMap
		err error
	)
	g.fromDir = false
	switch {
	case g.runtime.Level != "":
		m, err = g.loadNamedLevel(g.runtime.Level)
	case g.dir != nil && g.dir.HasCampaignLevel(g.levelNo):
		m, err = g.dir.CampaignLevel(g.levelNo)
		g.fromDir = err == nil
	}
	if err != nil {
		g.log.Error("cannot load level, generating one", "level", g.levelNo, "err", err)
	}
	if m == nil {
		m = g.generatedLevel()
	}
	m.KeepOneExit(g.rng)
	g.level = m
}

// generatedLevel is a random map with a single exit.
func (g *Campaign) generatedLevel() *world.LevelMap {
	m := g.randomLevel(1)
	c := m.PickRandomCoord(g.rng, func(v world.MapValue) bool {
		return v.IsSand() || v == world.Passage
	})
	m.Set(c, world.Exit)
	return m
}

// hasNextLevel reports whether the campaign continues after an exit.
func (g *Campaign) hasNextLevel() bool {
	switch {
	case g.runtime.Level != "":
		return false
	case g.fromDir:
		return g.dir.HasCampaignLevel(g.levelNo + 1)
	}
	return true
}

func (g *Campaign) openShop() {
	caption := fmt.Sprintf("Level %d   Lives %d", g.levelNo, g.players[0].Lives)
	g.shop = NewShop(g.players, NewPrices(g.opts.FreeMarket, g.rng), g.opts.Selling, caption, nil)
	g.message = nil
	g.phase = phaseShop
}

// Step advances the campaign by one frame.
func (g *Campaign) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(core.Player1, in)
	return g.StepMulti(multi)
}

// StepMulti advances the campaign with per-player input.
func (g *Campaign) StepMulti(in core.MultiInputFrame) core.StepResult {
	switch g.phase {
	case phaseShop:
		g.shop.Step(in)
		if g.shop.Done() {
			g.livesAtStart = g.players[0].Lives
			g.startRound(true)
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
			if g.world.Exited {
				g.levelNo++
				g.loadLevel()
			}
			g.openShop()
		}
	}
	return core.StepResult{State: g.State()}
}

func (g *Campaign) endRound() {
	g.world.EndOfRound()
	p := g.players[0]

	if g.world.Exited {
		if !g.hasNextLevel() {
			g.won = true
			g.finish()
			return
		}
		g.message = []string{
			fmt.Sprintf("LEVEL %d COMPLETE", g.levelNo),
			fmt.Sprintf("Cash $%d", p.Cash),
			"Press Enter to continue",
		}
		g.phase = phaseRoundOver
		return
	}

	// Every round that ends without the exit costs one life: a death, the
	// round time running out or giving up. The world takes it on death
	// unless the round was already ending.
	if p.Lives == g.livesAtStart {
		p.Lives--
	}
	if p.Lives <= 0 {
		g.finish()
		return
	}
	title := "YOU DIED"
	if !g.world.Actors[0].Dead {
		title = "LEVEL LOST"
	}
	g.message = []string{
		title,
		fmt.Sprintf("Lives left: %d", p.Lives),
		"Press Enter to retry",
	}
	g.phase = phaseRoundOver
}

func (g *Campaign) finish() {
	p := g.players[0]
	res := CampaignResult{Player: p.Stats.Name, Level: g.levelNo, Cash: p.Cash}
	g.result = &res

	title := "GAME OVER"
	if g.won {
		title = "CAMPAIGN COMPLETE"
	}
	g.message = []string{title, fmt.Sprintf("%s reached level %d with $%d", res.Player, res.Level, res.Cash)}
	if rank := g.saveHighscore(res); rank >= 0 {
		g.message = append(g.message, fmt.Sprintf("New high score! Rank %d", rank+1))
	}
	g.message = append(g.message, "Press R to play again")

	if g.settings.Sink != nil {
		if err := g.settings.Sink.SaveCampaign(res); err != nil {
			g.log.Error("cannot save campaign result", "err", err)
		}
	}
	g.phase = phaseOver
}

// saveHighscore records the result in HIGHSCOR.DAT and returns its rank,
// or -1 when it did not make the table.
func (g *Campaign) saveHighscore(res CampaignResult) int {
	if g.dir == nil || res.Cash < 0 {
		return -1
	}
	table, err := g.dir.Highscores()
	if err != nil {
		g.log.Error("cannot load high scores", "err", err)
		return -1
	}
	rank := table.Insert(gamedir.Score{Name: res.Player, Level: res.Level, Cash: uint32(res.Cash)}) //#nosec G115 -- checked above
	if rank < 0 {
		return -1
	}
	if err := g.dir.SaveHighscores(table); err != nil {
		g.log.Error("cannot save high scores", "err", err)
	}
	return rank
}

// Render draws the shop, the round or the result screen.
func (g *Campaign) Render(dst *core.Screen) {
	g.render(dst, true)
}

// State returns the current game state. The score is the player's cash.
func (g *Campaign) State() core.GameState {
	return g.state()
}

func init() {
	registry.Register(ModeCampaign, func() registry.Game {
		return NewCampaign()
	})
}
