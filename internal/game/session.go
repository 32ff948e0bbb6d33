// Package game runs the MineBombers game modes on top of the world
// simulation: the shop between rounds, level selection, round pacing and
// results. Modes register themselves with the registry.
package game

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/world"
)

// Mode identifiers used by the registry, the CLI and storage.
const (
	ModeCampaign   = "campaign"
	ModeTournament = "tournament"
	ModeDeathmatch = "deathmatch"
)

// Settings carry what a mode needs besides the runtime config.
type Settings struct {
	// Options override OPTIONS.CFG of the installation.
	Options *gamedir.Options
	// Names are used for players without a roster identity.
	Names []string
	// Levels are tournament levels picked in advance, one per round; ""
	// stands for a random map. Later rounds choose as usual.
	Levels []string
	// Sink receives finished games; may be nil.
	Sink   ResultSink
	Logger *log.Logger
}

// Configurable is implemented by modes accepting Settings. The platform
// calls Configure before Reset.
type Configurable interface {
	Configure(s Settings)
}

// CampaignResult is the outcome of a campaign.
type CampaignResult struct {
	Player string
	Level  int
	Cash   int
}

// TournamentPlayer is one participant of a finished tournament.
type TournamentPlayer struct {
	Name      string
	Cash      int
	RoundsWon int
	Rank      int
}

// TournamentResult is the outcome of a tournament.
type TournamentResult struct {
	Rounds  int
	Win     gamedir.WinCondition
	Winner  string
	Players []TournamentPlayer
	// Roster holds the merged statistics of the participants.
	Roster []world.Stats
}

// ResultSink persists finished games.
type ResultSink interface {
	SaveCampaign(r CampaignResult) error
	SaveTournament(r TournamentResult) error
}

type phase int

const (
	phaseShop phase = iota
	phaseRound
	phaseRoundOver
	phaseOver
)

func (p phase) String() string {
	switch p {
	case phaseShop:
		return "shop"
	case phaseRound:
		return "round"
	case phaseRoundOver:
		return "round over"
	}
	return "results"
}

// session is the state shared by all modes.
type session struct {
	runtime  core.RuntimeConfig
	settings Settings
	log      *log.Logger

	dir  *gamedir.Dir
	opts gamedir.Options
	rng  *rand.Rand

	players []*world.Player
	level   *world.LevelMap
	world   *world.World
	shop    *Shop

	phase  phase
	paused bool
	// speedAcc spreads world ticks over frames according to the speed option.
	speedAcc    int
	roundFrames int
	sounds      []world.SoundRequest
	message     []string
}

func (s *session) Configure(set Settings) {
	s.settings = set
}

// setup opens the installation and resolves the options.
func (s *session) setup(runtime core.RuntimeConfig) {
	s.runtime = runtime
	if s.runtime.TickRate <= 0 {
		s.runtime.TickRate = core.DefaultConfig().TickRate
	}
	s.log = s.settings.Logger
	if s.log == nil {
		s.log = log.New(io.Discard)
	}
	s.rng = rand.New(rand.NewSource(runtime.Seed)) //#nosec G404 -- deterministic gameplay

	s.dir = nil
	if runtime.GameDir != "" {
		dir, err := gamedir.Open(runtime.GameDir)
		if err != nil {
			s.log.Warn("game directory unavailable", "err", err)
		} else {
			s.dir = dir
		}
	}

	switch {
	case s.settings.Options != nil:
		s.opts = *s.settings.Options
	case s.dir != nil:
		s.opts = s.dir.Options()
	default:
		s.opts = gamedir.DefaultOptions()
	}
	s.opts.Clamp()

	s.world = nil
	s.shop = nil
	s.paused = false
	s.message = nil
	s.sounds = nil
}

// playerNames resolves n player names: the roster identity of the slot,
// then the configured name, then "Player N".
func (s *session) playerNames(n int, roster *gamedir.Roster) []string {
	ids := gamedir.NoIdentities
	if s.dir != nil {
		ids = s.dir.Identities()
	}
	names := make([]string, n)
	for i := range names {
		switch {
		case i < len(ids) && roster != nil && ids[i] >= 0 && ids[i] < gamedir.RosterSize && roster.Players[ids[i]] != nil:
			names[i] = roster.Players[ids[i]].Name
		case i < len(s.settings.Names) && s.settings.Names[i] != "":
			names[i] = s.settings.Names[i]
		default:
			names[i] = fmt.Sprintf("Player %d", i+1)
		}
	}
	return names
}

// randomLevel generates a level with corridors from the spawn corners.
func (s *session) randomLevel(players int) *world.LevelMap {
	m := world.RandomMap(s.rng, s.opts.Treasures)
	m.GenerateEntrances(s.rng, players)
	return m
}

// startRound creates the world on a copy of the current level.
func (s *session) startRound(campaign bool) {
	s.world = world.New(s.level.Clone(), s.players, world.Options{
		Darkness:   s.opts.Darkness,
		BombDamage: s.opts.BombDamage,
		Campaign:   campaign,
	}, s.rng)
	s.speedAcc = 0
	s.roundFrames = 0
	s.phase = phaseRound
}

// worldKeys maps round actions to world keys.
var worldKeys = map[core.Action]world.Key{
	core.ActionLeft:   world.KeyLeft,
	core.ActionRight:  world.KeyRight,
	core.ActionUp:     world.KeyUp,
	core.ActionDown:   world.KeyDown,
	core.ActionStop:   world.KeyStop,
	core.ActionBomb:   world.KeyBomb,
	core.ActionChoose: world.KeyChoose,
	core.ActionRemote: world.KeyRemote,
}

// stepRound feeds one frame of input into the world and advances it by as
// many ticks as the speed option allows. It reports whether the round ended.
func (s *session) stepRound(in core.MultiInputFrame) bool {
	for i := range s.players {
		for _, a := range in.Player(core.PlayerFromIndex(i)).Ordered() {
			if key, ok := worldKeys[a]; ok {
				s.world.PlayerAction(i, key)
			}
		}
	}

	s.speedAcc += s.opts.TickPercent()
	for s.speedAcc >= 100 && !s.world.IsEndOfRound() {
		s.speedAcc -= 100
		s.world.Tick()
	}
	s.sounds = append(s.sounds, s.world.DrainSounds()...)

	s.roundFrames++
	if s.opts.RoundTime > 0 && s.elapsed() >= s.opts.RoundTime && s.world.EndCounter <= 100 {
		s.world.EndCounter = 101
	}
	return s.world.IsEndOfRound()
}

// elapsed is the wall time the round has been running.
func (s *session) elapsed() time.Duration {
	return time.Duration(s.roundFrames) * time.Second / time.Duration(s.runtime.TickRate)
}

// DrainSounds returns and clears the sound effects requested since the last
// call.
func (s *session) DrainSounds() []world.SoundRequest {
	out := s.sounds
	s.sounds = nil
	return out
}

// togglePause handles the pause key; it reports whether the game is paused.
func (s *session) togglePause(in core.MultiInputFrame) bool {
	if in.Any().Has(core.ActionPause) && s.phase == phaseRound {
		s.paused = !s.paused
	}
	return s.paused
}

// confirmed reports a key that dismisses a message screen.
func confirmed(in core.MultiInputFrame) bool {
	f := in.Any()
	return f.Has(core.ActionConfirm) || f.Has(core.ActionBomb) || f.Has(core.ActionBack)
}

func (s *session) render(dst *core.Screen, campaign bool) {
	dst.Clear()
	switch s.phase {
	case phaseShop:
		if s.shop != nil {
			s.shop.Render(dst)
		}
		return
	case phaseRound, phaseRoundOver, phaseOver:
		if s.world != nil {
			snap := s.world.Snapshot()
			DrawRound(dst, &snap, campaign)
		}
	}
	if s.paused {
		drawMessage(dst, "PAUSED", "Press P to resume")
	}
	if len(s.message) > 0 {
		drawMessage(dst, s.message...)
	}
}

// leader returns the highest cash among the players.
func (s *session) leader() int {
	best := 0
	for _, p := range s.players {
		best = max(best, p.Cash)
	}
	return best
}

func (s *session) state() core.GameState {
	return core.GameState{
		Score:    s.leader(),
		GameOver: s.phase == phaseOver,
		Paused:   s.paused,
		Phase:    s.phase.String(),
	}
}

// WorldSnapshot returns the state of the current round, or an empty
// snapshot before the first one.
func (s *session) WorldSnapshot() world.Snapshot {
	if s.world == nil {
		return world.Snapshot{}
	}
	return s.world.Snapshot()
}

// loadRoster reads PLAYERS.DAT; nil without an installation.
func (s *session) loadRoster() *gamedir.Roster {
	if s.dir == nil {
		return nil
	}
	r, err := s.dir.Roster()
	if err != nil {
		s.log.Warn("cannot load roster", "err", err)
		return nil
	}
	return r
}

// loadNamedLevel loads a level file relative to the installation, or as a
// plain path without one.
func (s *session) loadNamedLevel(name string) (*world.LevelMap, error) {
	if s.dir != nil {
		return s.dir.Level(name)
	}
	return gamedir.LoadLevel(name)
}
