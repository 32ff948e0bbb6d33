package world

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
)

func testWorld(t *testing.T, players int, campaign bool, setup func(m *LevelMap)) *World {
	t.Helper()
	m := EmptyMap()
	m.generateBorders()
	if setup != nil {
		setup(m)
	}
	ps := make([]*Player, players)
	for i := range ps {
		ps[i] = NewPlayer(fmt.Sprintf("p%d", i+1), 100)
	}
	return New(m, ps, Options{Campaign: campaign, BombDamage: 100}, rand.New(rand.NewSource(1)))
}

func effects(reqs []SoundRequest) []SoundEffect {
	out := make([]SoundEffect, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Effect)
	}
	return out
}

func TestNewPlacesActors(t *testing.T) {
	w := testWorld(t, 1, true, func(m *LevelMap) {
		m.Set(Cursor{Row: 10, Col: 20}, AlienUp)
	})

	if len(w.Actors) != 2 {
		t.Fatalf("actors = %d, want 2", len(w.Actors))
	}
	if got := w.Actors[0].Pos; got != (Position{X: 15, Y: 45}) {
		t.Errorf("player position = %+v, want (15,45)", got)
	}
	if got := w.Actors[0].Health; got != 100 {
		t.Errorf("player health = %d, want 100", got)
	}

	alien := w.Actors[1]
	if alien.Kind != KindAlien || alien.Facing != DirUp || alien.Health != 66 {
		t.Errorf("alien = %+v", alien)
	}
	if got := w.Level.At(Cursor{Row: 10, Col: 20}); got != Passage {
		t.Errorf("monster cell = %s, want passage", got)
	}
}

func TestNewMultiplayerCorners(t *testing.T) {
	w := testWorld(t, 4, false, nil)
	corners := []Position{topLeft, bottomRight, bottomLeft, topRight}
	for i := range w.Players {
		if !slices.Contains(corners, w.Actors[i].Pos) {
			t.Errorf("player %d at %+v, not a corner", i, w.Actors[i].Pos)
		}
	}
	for i := range w.Players {
		for j := i + 1; j < len(w.Players); j++ {
			if w.Actors[i].Pos == w.Actors[j].Pos {
				t.Errorf("players %d and %d share a corner", i, j)
			}
		}
	}
}

func TestArmorConsumed(t *testing.T) {
	m := EmptyMap()
	p := NewPlayer("tank", 0)
	p.Inventory[ArmorItem] = 2
	w := New(m, []*Player{p}, Options{Campaign: true}, rand.New(rand.NewSource(1)))

	if w.Actors[0].Health != 300 {
		t.Errorf("health = %d, want 300", w.Actors[0].Health)
	}
	if p.Inventory[ArmorItem] != 0 {
		t.Errorf("armor = %d, want 0", p.Inventory[ArmorItem])
	}
}

func TestChooseCyclesOwnedItems(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	p := w.Players[0]
	p.Inventory[DynamiteItem] = 2
	p.Inventory[MineItem] = 1
	p.Inventory[DrillItem] = 1

	want := []Equipment{DynamiteItem, MineItem, DynamiteItem}
	for i, item := range want {
		w.PlayerAction(0, KeyChoose)
		if p.Selection != item {
			t.Errorf("step %d: selection = %s, want %s", i, p.Selection, item)
		}
	}
}

func TestPlaceBomb(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	p := w.Players[0]
	p.Inventory[DynamiteItem] = 1
	p.Selection = DynamiteItem
	c := w.Actors[0].Cursor()

	w.PlayerAction(0, KeyBomb)
	if got := w.Level.At(c); got != Dynamite1 {
		t.Fatalf("cell = %s, want dynamite", got)
	}
	if got := w.Timer.At(c); got != 80 {
		t.Errorf("timer = %d, want 80", got)
	}
	if p.Inventory[DynamiteItem] != 0 || p.Stats.BombsDropped != 1 {
		t.Errorf("inventory=%d dropped=%d, want 0 and 1", p.Inventory[DynamiteItem], p.Stats.BombsDropped)
	}

	// nothing left to place
	w.Level.Set(c, Passage)
	w.PlayerAction(0, KeyBomb)
	if got := w.Level.At(c); got != Passage {
		t.Errorf("cell after empty inventory = %s, want passage", got)
	}
}

func TestSuperDrillNotConsumed(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	p := w.Players[0]
	p.Inventory[SuperDrillItem] = 1
	p.Selection = SuperDrillItem
	base := w.Actors[0].Drilling

	w.PlayerAction(0, KeyBomb)
	if w.Actors[0].Drilling != base+superDrillBonus || w.Actors[0].SuperDrill != 10 {
		t.Errorf("drilling=%d superdrill=%d", w.Actors[0].Drilling, w.Actors[0].SuperDrill)
	}
	if p.Inventory[SuperDrillItem] != 1 {
		t.Errorf("super drill count = %d, want 1", p.Inventory[SuperDrillItem])
	}

	for range 10 * 18 {
		w.Tick()
	}
	if w.Actors[0].Drilling != base || w.Actors[0].SuperDrill != 0 {
		t.Errorf("after expiry drilling=%d superdrill=%d, want %d and 0", w.Actors[0].Drilling, w.Actors[0].SuperDrill, base)
	}
}

func TestRemoteDetonation(t *testing.T) {
	w := testWorld(t, 2, false, nil)
	mine := Cursor{Row: 10, Col: 10}
	theirs := Cursor{Row: 20, Col: 20}
	w.Level.Set(mine, radioFor(0, false))
	w.Level.Set(theirs, radioFor(1, true))

	w.PlayerAction(0, KeyRemote)
	if w.Timer.At(mine) != 1 {
		t.Errorf("own radio timer = %d, want 1", w.Timer.At(mine))
	}
	if w.Timer.At(theirs) != 0 {
		t.Errorf("other radio timer = %d, want 0", w.Timer.At(theirs))
	}
}

func TestSmallBombPattern(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 10, Col: 10}
	w.Level.Set(c, SmallBomb1)

	w.explodeEntity(c, 0)

	hit := append([]Cursor{c}, c.To(DirUp), c.To(DirDown), c.To(DirLeft), c.To(DirRight))
	for _, cur := range hit {
		if w.Level.At(cur) != Explosion || w.Timer.At(cur) != 3 {
			t.Errorf("%v = %s timer %d, want explosion timer 3", cur, w.Level.At(cur), w.Timer.At(cur))
		}
	}
	if got := w.Level.At(Cursor{Row: 10, Col: 12}); got != Passage {
		t.Errorf("cell two away = %s, want passage", got)
	}
	if got := effects(w.DrainSounds()); !slices.Equal(got, []SoundEffect{SoundPikkupom}) {
		t.Errorf("sounds = %v, want [PIKKUPOM]", got)
	}
}

func TestExplodeCell(t *testing.T) {
	tests := []struct {
		name      string
		value     MapValue
		heavy     bool
		want      []MapValue
		wantHits  int
		checkHits bool
	}{
		{"heavy stone", Stone2, true, []MapValue{Explosion}, 0, false},
		{"light stone", Stone2, false, []MapValue{StoneHeavyCracked, StoneLightCracked}, 0, false},
		{"brick", Brick, false, []MapValue{BrickLightCracked}, 4000, true},
		{"cracked brick", BrickLightCracked, false, []MapValue{BrickHeavyCracked}, 2000, true},
		{"heavy cracked brick", BrickHeavyCracked, false, []MapValue{Explosion}, 0, false},
		{"sand", Sand1, false, []MapValue{Explosion}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testWorld(t, 1, true, nil)
			c := Cursor{Row: 20, Col: 20}
			w.Level.Set(c, tt.value)
			w.explodeCell(c, 50, tt.heavy, 0)

			if got := w.Level.At(c); !slices.Contains(tt.want, got) {
				t.Errorf("cell = %s, want one of %v", got, tt.want)
			}
			if tt.checkHits && w.Hits.At(c) != tt.wantHits {
				t.Errorf("hits = %d, want %d", w.Hits.At(c), tt.wantHits)
			}
		})
	}
}

func TestAtomicBomb(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 22, Col: 32}
	w.Level.Set(c, Atomic2)

	w.explodeEntity(c, 0)

	if !w.Flash || w.Shake != 10 {
		t.Errorf("flash=%v shake=%d, want true and 10", w.Flash, w.Shake)
	}
	for _, cur := range []Cursor{c, {Row: 22, Col: 44}, {Row: 10, Col: 32}, {Row: 30, Col: 38}} {
		if w.Level.At(cur) != Explosion {
			t.Errorf("%v = %s, want explosion", cur, w.Level.At(cur))
		}
	}
	if got := w.Level.At(Cursor{Row: 22, Col: 46}); got != Passage {
		t.Errorf("outside radius = %s, want passage", got)
	}
}

func TestCrucifixStopsAtMetal(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 20, Col: 20}
	w.Level.Set(c, SmallCrucifixBomb)
	w.Level.Set(Cursor{Row: 20, Col: 23}, MetalWall)

	w.explodeEntity(c, 0)

	if w.Level.At(Cursor{Row: 20, Col: 22}) != Explosion {
		t.Error("cell before the wall did not explode")
	}
	if w.Level.At(Cursor{Row: 20, Col: 24}) != Passage {
		t.Error("blast went through the metal wall")
	}
	if w.Level.At(Cursor{Row: 35, Col: 20}) != Explosion {
		t.Error("blast did not reach 15 cells down")
	}
	if w.Level.At(Cursor{Row: 36, Col: 20}) != Passage {
		t.Error("small crucifix reached past 15 cells")
	}
}

func TestGrenadeFlies(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 5, Col: 5}
	next := c.To(DirRight)
	w.Level.Set(c, GrenadeFlyingRight)
	w.Level.Set(next.To(DirRight), Brick)

	w.explodeEntity(c, 0)
	if w.Level.At(c) != Passage || w.Level.At(next) != GrenadeFlyingRight || w.Timer.At(next) != 2 {
		t.Fatalf("grenade did not move: %s -> %s", w.Level.At(c), w.Level.At(next))
	}

	w.explodeEntity(next, 0)
	if got := w.Level.At(next); got != Explosion {
		t.Errorf("blocked grenade cell = %s, want explosion", got)
	}
	if got := w.Level.At(next.To(DirRight)); got != BrickLightCracked {
		t.Errorf("brick = %s, want cracked", got)
	}
}

func TestPlasticFillsPassage(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 20, Col: 20}
	w.Level.Set(c, PlasticBomb)

	w.explodeEntity(c, 0)

	if got := w.Level.Count(func(v MapValue) bool { return v == Plastic }); got < 40 {
		t.Errorf("plastic cells = %d, want at least 40", got)
	}
	if w.Level.Count(func(v MapValue) bool { return v == TempMarker1 || v == TempMarker2 }) != 0 {
		t.Error("expansion markers left on the map")
	}
}

func TestFlamethrowerCone(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	start := Cursor{Row: 20, Col: 20}
	w.activateFlamethrower(start, DirRight)

	for c := range AllCursors() {
		if w.Level.At(c) == Explosion && c.Col < 21 {
			t.Fatalf("flame went backwards to %v", c)
		}
	}
	if w.Level.At(Cursor{Row: 20, Col: 22}) != Explosion {
		t.Error("flame did not go forward")
	}
}

func TestExtinguisher(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	p := w.Players[0]
	p.Inventory[ExtinguisherItem] = 1
	p.Selection = ExtinguisherItem
	w.PlayerAction(0, KeyRight)

	bomb := Cursor{Row: 1, Col: 3}
	w.Level.Set(bomb, SmallBomb2)
	w.Timer.Set(bomb, 50)
	w.Level.Set(Cursor{Row: 1, Col: 6}, Stone1)

	w.PlayerAction(0, KeyBomb)

	if w.Level.At(bomb) != SmallBombExtinguished || w.Timer.At(bomb) != 0 || w.Hits.At(bomb) != 20 {
		t.Errorf("bomb = %s timer %d hits %d", w.Level.At(bomb), w.Timer.At(bomb), w.Hits.At(bomb))
	}
	for _, col := range []int{2, 4, 5} {
		if got := w.Level.At(Cursor{Row: 1, Col: col}); got != Smoke1 {
			t.Errorf("col %d = %s, want smoke", col, got)
		}
	}
	if got := w.Level.At(Cursor{Row: 1, Col: 7}); got != Passage {
		t.Errorf("spray passed the stone: %s", got)
	}
	if p.Inventory[ExtinguisherItem] != 0 {
		t.Error("extinguisher not consumed")
	}
}

func TestApplyDamageScaledInMultiplayer(t *testing.T) {
	w := testWorld(t, 2, false, nil)
	w.opts.BombDamage = 50
	c := w.Actors[0].Cursor()

	if !w.applyDamageInCell(c, 60) {
		t.Error("live player not reported")
	}
	if w.Actors[0].Health != 70 {
		t.Errorf("health = %d, want 70", w.Actors[0].Health)
	}

	w.applyDamageInCell(c, 1000)
	a := w.Actors[0]
	if !a.Dead || a.Health != 0 || w.Players[0].Stats.Deaths != 1 {
		t.Errorf("dead=%v health=%d deaths=%d", a.Dead, a.Health, w.Players[0].Stats.Deaths)
	}
	if w.Level.At(c) != MonsterDying || w.Timer.At(c) != 3 {
		t.Errorf("cell = %s, want dying animation", w.Level.At(c))
	}
	if w.AlivePlayers() != 1 {
		t.Errorf("alive = %d, want 1", w.AlivePlayers())
	}
}

func TestDigSand(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 5, Col: 5}
	w.Level.Set(c, Sand1)
	w.Hits.Set(c, 22)

	for range 21 {
		w.interactMap(0, c)
	}
	if w.Level.At(c) != Sand1 || w.Hits.At(c) != 1 {
		t.Fatalf("after 21 hits: %s hits %d", w.Level.At(c), w.Hits.At(c))
	}
	w.interactMap(0, c)
	if w.Level.At(c) != Passage {
		t.Errorf("sand not dug: %s", w.Level.At(c))
	}
}

func TestDigStoneCracks(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	w.Actors[0].Drilling = 600
	c := Cursor{Row: 5, Col: 5}
	w.Level.Set(c, Stone1)
	w.Hits.Set(c, 2000)

	w.interactMap(0, c)
	if got := w.Level.At(c); got != Stone1 {
		t.Errorf("after one hit = %s, want stone", got)
	}
	w.interactMap(0, c)
	if got := w.Level.At(c); got != StoneLightCracked {
		t.Errorf("after two hits = %s, want light cracked", got)
	}
	w.interactMap(0, c)
	if got := w.Level.At(c); got != StoneHeavyCracked {
		t.Errorf("after three hits = %s, want heavy cracked", got)
	}
}

func TestPickUpTreasure(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 5, Col: 5}
	w.Level.Set(c, Diamond)

	w.interactMap(0, c)

	if w.Actors[0].AccumulatedCash != 1000 || w.Players[0].Stats.TreasuresCollected != 1 {
		t.Errorf("cash=%d collected=%d", w.Actors[0].AccumulatedCash, w.Players[0].Stats.TreasuresCollected)
	}
	if w.Level.At(c) != Passage {
		t.Errorf("treasure cell = %s, want passage", w.Level.At(c))
	}
	if got := effects(w.DrainSounds()); !slices.Equal(got, []SoundEffect{SoundKili}) {
		t.Errorf("sounds = %v", got)
	}
}

func TestPushBoulder(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	w.Actors[0].Facing = DirRight
	c := Cursor{Row: 1, Col: 2}
	w.Level.Set(c, Boulder)
	w.Hits.Set(c, 0)

	w.interactMap(0, c)

	if w.Level.At(c) != Passage || w.Level.At(c.To(DirRight)) != Boulder {
		t.Errorf("boulder not pushed: %s, %s", w.Level.At(c), w.Level.At(c.To(DirRight)))
	}
	if w.Hits.At(c.To(DirRight)) != 24 {
		t.Errorf("pushed hits = %d, want 24", w.Hits.At(c.To(DirRight)))
	}
}

func TestDoors(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	button := Cursor{Row: 5, Col: 5}
	door := Cursor{Row: 10, Col: 10}
	w.Level.Set(button, ButtonOff)
	w.Level.Set(door, Door)

	w.interactMap(0, button)
	if w.Level.At(door) != Passage || !w.Fog.At(door).OpenDoor {
		t.Fatal("door did not open")
	}
	if w.Level.At(button) != ButtonOn || w.Timer.At(button) != 40 {
		t.Fatalf("button = %s timer %d", w.Level.At(button), w.Timer.At(button))
	}

	w.Level.Set(door, Dynamite1)
	w.Timer.Set(button, 1)
	w.interactMap(0, button)
	if w.Level.At(door) != Door {
		t.Errorf("door cell = %s, want door", w.Level.At(door))
	}
	if w.Level.At(door.To(DirUp)) != Explosion {
		t.Error("dynamite in the doorway did not explode")
	}
}

func TestTeleport(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	in := Cursor{Row: 5, Col: 5}
	out := Cursor{Row: 30, Col: 40}
	w.Level.Set(in, Teleport)
	w.Level.Set(out, Teleport)

	w.interactMap(0, in)
	if got := w.Actors[0].Cursor(); got != out {
		t.Errorf("player at %v, want %v", got, out)
	}
}

func TestExitEndsCampaignRound(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 2, Col: 2}
	w.Level.Set(c, Exit)

	w.interactMap(0, c)
	if !w.IsEndOfRound() {
		t.Error("round did not end at exit")
	}
}

func TestTickSmokeChain(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 20, Col: 20}
	w.Level.Set(c, Explosion)
	w.Timer.Set(c, 3)

	want := []MapValue{Smoke1, Smoke2, Passage}
	for i, v := range want {
		for range 3 {
			w.Tick()
		}
		if got := w.Level.At(c); got != v {
			t.Errorf("stage %d = %s, want %s", i, got, v)
		}
	}
}

func TestEndOfRoundCampaign(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	w.Players[0].Cash = 0
	w.Actors[0].AccumulatedCash = 100

	w.EndOfRound()

	p := w.Players[0]
	if p.Cash != 100 || p.Stats.TotalMoney != 100 || p.Stats.Rounds != 1 {
		t.Errorf("cash=%d total=%d rounds=%d", p.Cash, p.Stats.TotalMoney, p.Stats.Rounds)
	}
	if w.Actors[0].AccumulatedCash != 0 {
		t.Error("accumulated cash not cleared")
	}
}

func TestEndOfRoundDistributesMoney(t *testing.T) {
	w := testWorld(t, 2, false, nil)
	w.Actors[0].AccumulatedCash = 200
	w.Actors[1].AccumulatedCash = 50
	w.Actors[1].Dead = true

	w.EndOfRound()

	winner, loser := w.Players[0], w.Players[1]
	if winner.Cash != 357 {
		t.Errorf("winner cash = %d, want 357", winner.Cash)
	}
	if loser.Cash != 107 {
		t.Errorf("loser cash = %d, want 107", loser.Cash)
	}
	if winner.Stats.RoundsWins != 1 || loser.Stats.RoundsWins != 0 {
		t.Errorf("round wins = %d/%d, want 1/0", winner.Stats.RoundsWins, loser.Stats.RoundsWins)
	}
	if winner.Stats.TotalMoney != 200 || loser.Stats.TotalMoney != 50 {
		t.Errorf("total money = %d/%d", winner.Stats.TotalMoney, loser.Stats.TotalMoney)
	}
}

func TestEndCounterMultiplayer(t *testing.T) {
	w := testWorld(t, 2, false, func(m *LevelMap) {
		m.Set(Cursor{Row: 20, Col: 20}, GoldCrown)
	})
	w.Actors[1].Dead = true

	for range 200 {
		w.Tick()
		if w.IsEndOfRound() {
			return
		}
	}
	t.Errorf("round did not end with one player alive, end counter %d", w.EndCounter)
}

func TestMonsterDetectsPlayerInLine(t *testing.T) {
	w := testWorld(t, 1, true, func(m *LevelMap) {
		m.Set(Cursor{Row: 1, Col: 8}, FurryLeft)
		m.Set(Cursor{Row: 30, Col: 30}, SlimeDown)
	})

	w.monstersDetectPlayers()

	if !w.Actors[1].Active {
		t.Error("furry in line of sight not activated")
	}
	if w.Actors[2].Active {
		t.Error("distant slime activated")
	}
	if got := effects(w.DrainSounds()); !slices.Equal(got, []SoundEffect{SoundKarjaisu}) {
		t.Errorf("sounds = %v", got)
	}
}

func TestInFOVSight(t *testing.T) {
	monster := Cursor{Row: 10, Col: 10}
	tests := []struct {
		player Cursor
		facing Direction
		want   bool
	}{
		{Cursor{Row: 10, Col: 14}, DirRight, true},
		{Cursor{Row: 11, Col: 14}, DirRight, true},
		{Cursor{Row: 13, Col: 12}, DirRight, false},
		{Cursor{Row: 10, Col: 6}, DirRight, false},
		{Cursor{Row: 10, Col: 18}, DirRight, false},
		{Cursor{Row: 10, Col: 6}, DirLeft, true},
		{Cursor{Row: 5, Col: 10}, DirUp, true},
		{Cursor{Row: 15, Col: 11}, DirDown, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%s", tt.player, tt.facing), func(t *testing.T) {
			if got := inFOVSight(monster, tt.player, tt.facing); got != tt.want {
				t.Errorf("inFOVSight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookAround(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	c := Cursor{Row: 20, Col: 20}
	bomb := Cursor{Row: 23, Col: 21}
	w.Level.Set(bomb, BigBomb1)
	w.Level.Set(Cursor{Row: 20, Col: 26}, BigBomb1)

	got, ok := w.lookForBombs(c)
	if !ok || got != bomb {
		t.Errorf("lookForBombs = %v %v, want %v", got, ok, bomb)
	}
	if _, ok := w.lookForBombs(Cursor{Row: 40, Col: 50}); ok {
		t.Error("found a bomb far away")
	}
}

func TestCloneJoinsActors(t *testing.T) {
	w := testWorld(t, 1, true, nil)
	p := w.Players[0]
	p.Inventory[CloneItem] = 1
	p.Selection = CloneItem

	w.PlayerAction(0, KeyBomb)

	if len(w.Actors) != 2 {
		t.Fatalf("actors = %d, want 2", len(w.Actors))
	}
	clone := w.Actors[1]
	if clone.Kind != KindClone || clone.Owner != 0 || !clone.Active || clone.Health != 100 {
		t.Errorf("clone = %+v", clone)
	}

	// a clone never hurts its owner
	w.Actors[1].Pos = w.Actors[0].Pos
	w.damagePlayers(1)
	if w.Actors[0].Health != w.Actors[0].MaxHealth {
		t.Error("clone damaged its owner")
	}
}

func runScript(seed int64) Snapshot {
	rng := rand.New(rand.NewSource(seed))
	m := RandomMap(rng, 50)
	m.GenerateEntrances(rng, 2)

	players := []*Player{NewPlayer("one", 100), NewPlayer("two", 100)}
	for _, p := range players {
		p.Inventory[SmallBombItem] = 20
		p.Inventory[DynamiteItem] = 5
	}
	w := New(m, players, Options{BombDamage: 100, Darkness: true}, rng)

	for tick := range 600 {
		switch {
		case tick%150 == 0:
			w.PlayerAction(0, KeyRight)
			w.PlayerAction(1, KeyLeft)
		case tick%150 == 75:
			w.PlayerAction(0, KeyDown)
			w.PlayerAction(1, KeyUp)
		case tick%90 == 45:
			w.PlayerAction(0, KeyBomb)
			w.PlayerAction(1, KeyChoose)
			w.PlayerAction(1, KeyBomb)
		}
		w.Tick()
	}
	return w.Snapshot()
}

func TestDeterminism(t *testing.T) {
	snap1 := runScript(2024)
	snap2 := runScript(2024)

	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	if snap1.Tick != 600 {
		t.Errorf("tick = %d, want 600", snap1.Tick)
	}
	if !slices.Equal(snap1.Level, snap2.Level) {
		t.Error("Determinism failed: levels differ")
	}
	if len(snap1.Dark) != MapRows*MapCols {
		t.Errorf("dark layer len = %d", len(snap1.Dark))
	}
}
