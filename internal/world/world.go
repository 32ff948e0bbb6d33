// Package world implements the tile world of a MineBombers round: the level
// layers, players and monsters, bombs and explosions. It is pure logic driven
// by an explicit random source, so identical seeds and inputs replay identically.
package world

import "math/rand"

// Options configure the rules of a round.
type Options struct {
	// Darkness hides the map until players see it.
	Darkness bool
	// BombDamage scales damage dealt to players in multiplayer (0..100 %).
	BombDamage int
	// Campaign switches to single player rules: lives, exits, no money split.
	Campaign bool
}

// Key is a per-player control of a round.
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyStop
	KeyBomb
	KeyChoose
	KeyRemote
)

// World is the state of one round.
type World struct {
	Level *LevelMap
	Timer TimerMap
	Hits  HitsMap
	Fog   FogMap

	Players []*Player
	// Actors holds the players first (same index as Players), then monsters
	// and clones.
	Actors []Actor

	// Flash is set for one tick after an atomic explosion.
	Flash bool
	// Shake is the remaining screen shake.
	Shake int
	// RoundCounter is incremented every tick.
	RoundCounter int
	// EndCounter grows once the round is decided; the round ends above 100.
	EndCounter int
	// Exited is set when the campaign player reaches the exit.
	Exited bool

	opts   Options
	rng    *rand.Rand
	sounds []SoundRequest
}

// New creates a round on level. Monsters are lifted off the map into actors.
// Armor is consumed into extra health.
func New(level *LevelMap, players []*Player, opts Options, rng *rand.Rand) *World {
	w := &World{
		Level:   level,
		Players: players,
		opts:    opts,
		rng:     rng,
	}
	w.Actors = w.spawnActors()

	for i, p := range players {
		a := &w.Actors[i]
		a.MaxHealth = p.InitialHealth()
		a.Health = a.MaxHealth
		a.Drilling = p.InitialDrilling()
		p.Inventory[ArmorItem] = 0
	}

	w.Timer = level.TimerMap(rng)
	w.Hits = level.HitsMap()
	w.Fog = newFogMap()
	if opts.Darkness {
		for i := range players {
			w.revealView(i)
		}
	}
	return w
}

func (w *World) spawnActors() []Actor {
	actors := make([]Actor, len(w.Players))
	for i := range actors {
		actors[i] = Actor{Kind: KindPlayer, Owner: i}
	}
	w.placePlayers(actors)

	for c := range AllCursors() {
		if kind, facing, ok := w.Level.At(c).Monster(); ok {
			actors = append(actors, newMonster(kind, facing, c))
			w.Level.Set(c, Passage)
		}
	}
	return actors
}

// Spawn corners in pixels.
var (
	topLeft     = Position{X: 15, Y: 45}
	bottomRight = Position{X: 625, Y: 465}
	bottomLeft  = Position{X: 15, Y: 465}
	topRight    = Position{X: 625, Y: 45}
)

func (w *World) placePlayers(actors []Actor) {
	switch len(actors) {
	case 0:
		return
	case 1:
		actors[0].Pos = topLeft
		return
	}

	if w.rng.Intn(2) == 0 {
		actors[0].Pos, actors[1].Pos = topLeft, bottomRight
	} else {
		actors[0].Pos, actors[1].Pos = bottomRight, topLeft
	}

	switch len(actors) {
	case 3:
		if w.rng.Intn(2) == 0 {
			actors[2].Pos = bottomLeft
		} else {
			actors[2].Pos = topRight
		}
	case 4:
		if w.rng.Intn(2) == 0 {
			actors[2].Pos, actors[3].Pos = bottomLeft, topRight
		} else {
			actors[2].Pos, actors[3].Pos = topRight, bottomLeft
		}
	}
}

// Campaign reports single player rules.
func (w *World) Campaign() bool {
	return w.opts.Campaign
}

// Darkness reports whether fog of war is enabled.
func (w *World) Darkness() bool {
	return w.opts.Darkness
}

// AlivePlayers counts players that are not dead.
func (w *World) AlivePlayers() int {
	n := 0
	for i := range w.Players {
		if !w.Actors[i].Dead {
			n++
		}
	}
	return n
}

// GoldRemaining sums the treasure value still on the map.
func (w *World) GoldRemaining() int {
	return w.Level.GoldTotal()
}

// RemovePlayer takes a player out of the round. The actor counts as dead
// for every rule from now on but no death is counted. Cash collected this
// round is lost to the survivors.
func (w *World) RemovePlayer(player int) {
	if player < 0 || player >= len(w.Players) {
		return
	}
	a := &w.Actors[player]
	a.Dead = true
	a.Moving = false
	a.Health = 0
	a.SuperDrill = 0
}

// PlayerAction applies a control key of a player.
func (w *World) PlayerAction(player int, key Key) {
	if player < 0 || player >= len(w.Players) {
		return
	}
	a := &w.Actors[player]
	p := w.Players[player]

	switch key {
	case KeyUp:
		a.Facing, a.Moving = DirUp, true
	case KeyDown:
		a.Facing, a.Moving = DirDown, true
	case KeyLeft:
		a.Facing, a.Moving = DirLeft, true
	case KeyRight:
		a.Facing, a.Moving = DirRight, true
	case KeyStop:
		a.Moving = false
	case KeyBomb:
		if !a.Dead {
			w.activateItem(player)
		}
	case KeyChoose:
		p.Selection = nextSelection(p)
	case KeyRemote:
		if a.Dead {
			return
		}
		for c := range AllCursors() {
			if isRemoteFor(w.Level.At(c), player) {
				w.Timer.Set(c, 1)
			}
		}
	}
}

// nextSelection cycles forward to the next selectable item the player owns.
func nextSelection(p *Player) Equipment {
	for i := 1; i <= EquipmentCount; i++ {
		e := Equipment((int(p.Selection) + i) % EquipmentCount)
		if e.Selectable() && p.Inventory[e] > 0 {
			return e
		}
	}
	return p.Selection
}

// Tick advances the round by one step.
func (w *World) Tick() {
	w.Flash = false

	if w.RoundCounter%18 == 0 {
		w.updateSuperDrill()
	}

	w.tickBombs()
	if w.Shake > 0 {
		w.Shake--
	}

	if w.RoundCounter%5 == 0 {
		if w.opts.Campaign {
			if len(w.Actors) > 0 && w.Actors[0].Dead {
				if w.EndCounter == 0 {
					w.Players[0].Lives--
				}
				w.EndCounter += 2
			}
		} else if w.AlivePlayers() < 2 {
			w.EndCounter += 3
		}
	}

	w.animatePlayers()

	if w.RoundCounter%2 == 0 {
		w.checkDeadPlayers()
	}

	if w.RoundCounter%5 == 0 {
		w.monstersDetectPlayers()
	}

	w.animateMonsters()

	if w.RoundCounter%20 == 0 && !w.opts.Campaign && w.GoldRemaining() == 0 {
		w.EndCounter += 20
	}
	w.RoundCounter++
}

// IsEndOfRound reports whether the round is over.
func (w *World) IsEndOfRound() bool {
	return w.Exited || w.EndCounter > 100
}

// EndOfRound applies interest and commits collected cash to the players.
func (w *World) EndOfRound() {
	for _, p := range w.Players {
		p.Cash = (107*p.Cash + 50) / 100
	}

	if w.opts.Campaign {
		for i, p := range w.Players {
			p.Cash += w.Actors[i].AccumulatedCash
		}
	} else {
		w.distributeMoney()
	}

	for i, p := range w.Players {
		p.Stats.TotalMoney += uint32(w.Actors[i].AccumulatedCash)
		w.Actors[i].AccumulatedCash = 0
		p.Stats.Rounds++
	}
}

func (w *World) distributeMoney() {
	lost := 0
	alive := 0
	for i := range w.Players {
		if w.Actors[i].Dead {
			lost += w.Actors[i].AccumulatedCash
		} else {
			alive++
		}
	}
	if alive == 1 {
		lost += w.GoldRemaining() * 2 / 5
	}

	for i, p := range w.Players {
		a := &w.Actors[i]
		if !a.Dead {
			p.Cash += lost/alive + a.AccumulatedCash
			if alive != len(w.Players) {
				p.Stats.RoundsWins++
				p.RoundsWin++
			}
		}
		if p.Cash < 100 {
			p.Cash += 150
		}
	}
}

func (w *World) animatePlayers() {
	for i := range w.Players {
		if w.Actors[i].Dead {
			continue
		}
		w.animateActor(i)
		if w.Actors[i].SuperDrill > 0 {
			w.animateActor(i)
		}
	}
}

func (w *World) checkDeadPlayers() {
	for i, p := range w.Players {
		a := &w.Actors[i]
		if a.Dead || a.Health >= 1 {
			continue
		}
		p.Stats.Deaths++
		a.Dead = true
		c := a.Cursor()
		w.play(SoundAargh, 11000, c)
		w.Level.Set(c, Blood)
	}
}

func (w *World) updateSuperDrill() {
	for i := range w.Players {
		a := &w.Actors[i]
		if a.SuperDrill > 0 {
			a.SuperDrill--
			if a.SuperDrill == 0 {
				a.Drilling -= superDrillBonus
			}
		}
	}
}

const superDrillBonus = 300

func (w *World) tickBombs() {
	for c := range AllCursors() {
		clock := w.Timer.At(c)
		switch {
		case clock == 0:
		case clock == 1:
			w.Timer.Set(c, 0)
			if out, ok := w.fuseWentOut(w.Level.At(c)); ok {
				w.Level.Set(c, out)
			} else {
				w.explodeEntity(c, 0)
			}
		default:
			w.Timer.Set(c, clock-1)
			if next, ok := bombStage(w.Level.At(c), clock); ok {
				w.Level.Set(c, next)
			}
		}
	}
}

// bombStage returns the next animation frame of a ticking bomb.
func bombStage(v MapValue, clock int) (MapValue, bool) {
	switch {
	case v == SmallBomb1 && clock <= 60:
		return SmallBomb2, true
	case v == SmallBomb2 && clock <= 30:
		return SmallBomb3, true
	case v == BigBomb1 && clock <= 60:
		return BigBomb2, true
	case v == BigBomb2 && clock <= 30:
		return BigBomb3, true
	case v == Dynamite1 && clock <= 40:
		return Dynamite2, true
	case v == Dynamite2 && clock <= 20:
		return Dynamite3, true
	case v == Napalm1:
		return Napalm2, true
	case v == Napalm2:
		return Napalm1, true
	case v == Atomic1:
		return Atomic2, true
	case v == Atomic2:
		return Atomic3, true
	case v == Atomic3:
		return Atomic1, true
	}
	return v, false
}

// fuseWentOut rolls the dice for a bomb fuse going out on its last tick.
func (w *World) fuseWentOut(v MapValue) (MapValue, bool) {
	var out MapValue
	switch v {
	case SmallBomb3:
		out = SmallBombExtinguished
	case BigBomb3:
		out = BigBombExtinguished
	case Dynamite3:
		out = DynamiteExtinguished
	case Napalm1, Napalm2:
		out = NapalmExtinguished
	default:
		return v, false
	}
	if w.rng.Intn(1000) <= 10 {
		return out, true
	}
	return v, false
}

func (w *World) activateItem(player int) {
	p := w.Players[player]
	a := &w.Actors[player]
	item := p.Selection
	if p.Inventory[item] == 0 {
		return
	}

	c := a.Cursor()
	switch item {
	case FlamethrowerItem:
		w.activateFlamethrower(c, a.Facing)
	case CloneItem:
		w.activateClone(player)
	case ExtinguisherItem:
		w.activateExtinguisher(c, a.Facing)
	case SmallPickaxeItem, LargePickaxeItem, DrillItem, ArmorItem:
		return
	case SuperDrillItem:
		if a.SuperDrill > 0 {
			return
		}
		a.SuperDrill = 10
		a.Drilling += superDrillBonus
		return
	default:
		if CannotPlaceBomb.Has(w.Level.At(c)) {
			return
		}
		w.Level.Set(c, placementValue(item, a.Facing, player))
		w.Timer.Set(c, w.placementTimer(item))
		w.Hits.Set(c, w.placementHits(item))
	}

	p.Inventory[item]--
	p.Stats.BombsDropped++
}

func placementValue(item Equipment, facing Direction, player int) MapValue {
	switch item {
	case SmallBombItem:
		return SmallBomb1
	case BigBombItem:
		return BigBomb1
	case DynamiteItem:
		return Dynamite1
	case AtomicBombItem:
		return Atomic1
	case SmallRadioItem:
		return radioFor(player%4, false)
	case LargeRadioItem:
		return radioFor(player%4, true)
	case GrenadeItem:
		return grenadeValue(facing)
	case MineItem:
		return Mine
	case NapalmItem:
		return Napalm1
	case BarrelItem:
		return Barrel
	case SmallCrucifixItem:
		return SmallCrucifixBomb
	case LargeCrucifixItem:
		return LargeCrucifixBomb
	case PlasticItem:
		return PlasticBomb
	case ExplosivePlasticItem:
		return ExplosivePlasticBomb
	case DiggerItem:
		return DiggerBomb
	case MetalWallItem:
		return MetalWallPlaced
	case TeleportItem:
		return Teleport
	case BiomassItem:
		return Biomass
	case JumpingBombItem:
		return JumpingBomb
	}
	return Passage
}

func (w *World) placementTimer(item Equipment) int {
	switch item {
	case MineItem, SmallRadioItem, LargeRadioItem, BarrelItem, TeleportItem:
		return 0
	case NapalmItem:
		return 260
	case AtomicBombItem:
		return 280
	case MetalWallItem:
		return 1
	case ExplosivePlasticItem:
		return 90
	case DynamiteItem:
		return 80
	case JumpingBombItem:
		return 80 + w.rng.Intn(80)
	case BiomassItem:
		return w.rng.Intn(80)
	case GrenadeItem:
		return 1
	}
	return 100
}

// placementHits is also the push resistance of the placed item.
func (w *World) placementHits(item Equipment) int {
	switch item {
	case JumpingBombItem:
		return 7 + w.rng.Intn(20)
	case BiomassItem:
		return 400
	case GrenadeItem:
		return 0
	}
	return 20
}

func (w *World) activateExtinguisher(c Cursor, d Direction) {
	for i := 0; i < 6; i++ {
		c = c.To(d)
		if !w.extinguishCell(c) {
			return
		}
	}
}

// extinguishCell disarms or smothers one cell. It returns false when the
// spray is blocked.
func (w *World) extinguishCell(c Cursor) bool {
	v := w.Level.At(c)
	switch {
	case ExtinguisherPassable.Has(v) && !v.IsGrenade():
		w.Timer.Set(c, 0)
		if CanExtinguish.Has(v) {
			w.Hits.Set(c, 20)
		}
		switch v {
		case Dynamite1, Dynamite2, Dynamite3:
			w.Level.Set(c, DynamiteExtinguished)
		case BigBomb1, BigBomb2, BigBomb3:
			w.Level.Set(c, BigBombExtinguished)
		case SmallBomb1, SmallBomb2, SmallBomb3:
			w.Level.Set(c, SmallBombExtinguished)
		case Napalm1, Napalm2:
			w.Level.Set(c, NapalmExtinguished)
		}
		return true
	case v.IsPassable():
		w.Level.Set(c, Smoke1)
		w.Timer.Set(c, 3)
		return true
	}
	return false
}

func (w *World) activateClone(player int) {
	owner := &w.Actors[player]
	clone := Actor{
		Kind:        KindClone,
		Facing:      DirRight,
		Moving:      true,
		MaxHealth:   100,
		Health:      100,
		Pos:         owner.Cursor().Position(),
		Drilling:    owner.Drilling,
		Animation:   1,
		Active:      true,
		Owner:       player,
		lastGrenade: -grenadeCooldown,
	}
	if owner.SuperDrill > 0 {
		clone.Drilling -= superDrillBonus
	}
	w.Actors = append(w.Actors, clone)
}
