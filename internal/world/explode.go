package world

import "math"

// maxChain bounds how many entities may set each other off in one blast.
const maxChain = 200

// explodeEntity activates the entity in the cell: detonates bombs, advances
// smoke and death animations, grows biomass.
func (w *World) explodeEntity(c Cursor, total int) {
	if total > maxChain {
		return
	}

	v := w.Level.At(c)
	switch v {
	case MetalWall, Door:
		w.applyDamageInCell(c, 50)
	case ButtonOff, ButtonOn:
	case MetalWallPlaced:
		w.Level.Set(c, MetalWall)
		w.play(SoundPicaxe, 11000, c)
		w.Hits.Set(c, metalHits)
	case JumpingBomb:
		w.explodeJumpingBomb(c, total)
	case Barrel:
		w.explodeBarrel(c, total)
	case GrenadeFlyingRight, GrenadeFlyingLeft, GrenadeFlyingDown, GrenadeFlyingUp:
		w.grenadeFly(c, total)
	case Atomic1, Atomic2, Atomic3:
		w.explodeAtomic(c, total)

	case SmallBomb1, SmallBomb2, SmallBomb3, Mine, SmallBombExtinguished:
		w.Level.Set(c, Passage)
		w.explodePattern(c, 60, smallBombPattern, total)
		w.play(SoundPikkupom, 11000, c)
	case SmallCrucifixBomb, LargeCrucifixBomb:
		w.explodeCrucifix(c, v == SmallCrucifixBomb, total)
	case BigBomb1, BigBomb2, BigBomb3,
		SmallRadioBlue, SmallRadioRed, SmallRadioGreen, SmallRadioYellow,
		ExplosivePlastic, BigBombExtinguished:
		w.Level.Set(c, Passage)
		w.explodePattern(c, 84, bigBombPattern, total)
		w.play(SoundExplos1, 11000, c)
	case Dynamite1, Dynamite2, Dynamite3,
		BigRadioBlue, BigRadioRed, BigRadioGreen, BigRadioYellow,
		Teleport, DynamiteExtinguished:
		w.Level.Set(c, Passage)
		w.explodePattern(c, 100, dynamitePattern, total)
		w.play(SoundExplos2, 11000, c)

	case ExplosivePlasticBomb:
		w.expand(plasticExpansion{explosive: true}, c, total)
		w.play(SoundUrethan, 11000, c)
	case DiggerBomb:
		w.expand(diggerExpansion{}, c, total)
		w.play(SoundExplos5, 11000, c)
	case Napalm1, Napalm2, NapalmExtinguished:
		w.expand(napalmExpansion{}, c, total)
		w.play(SoundExplos5, 11000, c)
	case PlasticBomb:
		w.expand(plasticExpansion{}, c, total)
		w.play(SoundUrethan, 11000, c)

	case Explosion:
		w.advance(c, Smoke1, 3)
	case Smoke1:
		w.advance(c, Smoke2, 3)
	case Smoke2:
		w.advance(c, Passage, 0)
	case MonsterDying:
		w.advance(c, MonsterSmoke1, 3)
	case MonsterSmoke1:
		w.advance(c, MonsterSmoke2, 3)
	case MonsterSmoke2:
		w.advance(c, Blood, 0)
	case SlimeDying:
		w.advance(c, SlimeSmoke1, 3)
	case SlimeSmoke1:
		w.advance(c, SlimeSmoke2, 3)
	case SlimeSmoke2:
		w.advance(c, SlimeCorpse, 0)

	case Biomass:
		clock := 1 + w.rng.Intn(140)
		w.Timer.Set(c, clock)
		next := c.To(Directions[w.rng.Intn(len(Directions))])
		if w.Level.At(next).IsPassable() {
			w.Level.Set(next, Biomass)
			w.Timer.Set(next, clock)
			w.Hits.Set(next, 400)
		}
	}
}

func (w *World) advance(c Cursor, v MapValue, timer int) {
	w.Level.Set(c, v)
	w.Timer.Set(c, timer)
}

func (w *World) explodeAtomic(c Cursor, total int) {
	w.Level.Set(c, Passage)
	// The center is hit twice.
	w.explodeCell(c, 255, true, total)

	for dCol := -12; dCol <= 12; dCol++ {
		cathet := int(math.Ceil(math.Sqrt(float64(144 - dCol*dCol))))
		for dRow := -cathet; dRow <= cathet; dRow++ {
			if cur, ok := c.Offset(dRow, dCol); ok {
				w.explodeCell(cur, 255, true, total)
			}
		}
	}

	w.play(SoundExplos3, 5000, c)
	w.play(SoundExplos3, 9900, c)
	w.play(SoundExplos3, 10000, c)
	w.Flash = true
	w.Shake = min(w.Shake+10, MapRows)
}

func (w *World) explodeCrucifix(c Cursor, small bool, total int) {
	dmg, effect := 200, SoundExplos3
	if small {
		dmg, effect = 100, SoundExplos1
	}

	w.Level.Set(c, Passage)
	w.explodeCell(c, dmg, false, total)
	for _, d := range Directions {
		cur := c
		for dist := 0; !small || dist < 15; dist++ {
			next := cur.To(d)
			if next == cur || stopsCrucifix(w.Level.At(next)) {
				break
			}
			cur = next
			w.explodeCell(cur, dmg, false, total)
		}
	}
	w.play(effect, 11000, c)
}

func stopsCrucifix(v MapValue) bool {
	switch v {
	case MetalWall, Exit, Door, ButtonOff, ButtonOn:
		return true
	}
	return false
}

var jumpingBombPayloads = [3]MapValue{SmallBomb1, BigBomb1, Dynamite1}

func (w *World) explodeJumpingBomb(c Cursor, total int) {
	w.Level.Set(c, jumpingBombPayloads[w.rng.Intn(len(jumpingBombPayloads))])
	w.explodeEntity(c, total+1)

	jumps := w.Hits.At(c)
	if jumps <= 1 {
		return
	}

	next := c
	for range 6 {
		cur, ok := c.Offset(-4+w.rng.Intn(8), -4+w.rng.Intn(8))
		if !ok {
			continue
		}
		switch v := w.Level.At(cur); {
		case v == Passage, v.IsSand(), v.IsStoneCorner(), v.IsStone(), v == Boulder, v == Explosion:
			next = cur
		}
	}

	w.Level.Set(next, JumpingBomb)
	w.Hits.Set(c, 0)
	w.Hits.Set(next, jumps-1)
	w.Timer.Set(next, 1+w.rng.Intn(180))
}

func (w *World) explodeBarrel(c Cursor, total int) {
	w.advance(c, Explosion, 3)
	w.play(SoundExplos1, 11000, c)

	for range 15 - w.rng.Intn(5) {
		var center Cursor
		for {
			cur, ok := c.Offset(-10+w.rng.Intn(20), -10+w.rng.Intn(20))
			if ok {
				center = cur
				break
			}
		}
		w.explodePattern(center, 84, bigBombPattern, total)
		w.play(SoundExplos1, 11000, center)
	}
}

// grenadeFly moves a grenade one cell, or detonates it when blocked.
func (w *World) grenadeFly(c Cursor, total int) {
	v := w.Level.At(c)
	next := c.To(grenadeDirection(v))
	nv := w.Level.At(next)

	if (nv.IsPassable() || nv == v) && !w.applyDamageInCell(next, 0) {
		w.Level.Set(c, Passage)
		w.reapplyBlood(c)
		w.Level.Set(next, v)
		w.Timer.Set(next, 2)
		return
	}
	w.Level.Set(c, SmallBomb1)
	w.explodeEntity(c, total)
}

// explodeCell hits a cell with a blast. Heavy blasts pulverize stone and
// brick at once; light ones crack them.
func (w *World) explodeCell(c Cursor, dmg int, heavy bool, total int) {
	v := w.Level.At(c)
	switch {
	case ExplodableEntity.Has(v):
		w.explodeEntity(c, total)
	case v.IsStone() || v.IsStoneCorner() || v == Boulder:
		switch {
		case heavy:
			w.advance(c, Explosion, 3)
		case w.rng.Intn(2) == 0:
			w.Level.Set(c, StoneHeavyCracked)
			w.Hits.Set(c, 500)
		default:
			w.Level.Set(c, StoneLightCracked)
			w.Hits.Set(c, 1000)
		}
	case v.IsBrickLike():
		switch {
		case heavy || v == BrickHeavyCracked:
			w.advance(c, Explosion, 3)
		case v == Brick:
			w.Level.Set(c, BrickLightCracked)
			w.Hits.Set(c, 4000)
		case v == BrickLightCracked:
			w.Level.Set(c, BrickHeavyCracked)
			w.Hits.Set(c, 2000)
		}
	default:
		w.advance(c, Explosion, 3)
		w.applyDamageInCell(c, dmg)
	}
}

type offset struct{ dRow, dCol int }

var smallBombPattern = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

var bigBombPattern = append(smallBombPattern[:len(smallBombPattern):len(smallBombPattern)],
	offset{-2, 0}, offset{-1, 1}, offset{0, 2}, offset{1, 1},
	offset{2, 0}, offset{1, -1}, offset{0, -2}, offset{-1, -1},
)

var dynamitePattern = append(bigBombPattern[:len(bigBombPattern):len(bigBombPattern)],
	offset{-3, 0}, offset{-3, 1}, offset{-2, 1}, offset{-2, 2}, offset{-1, 2}, offset{-1, 3},
	offset{0, 3}, offset{1, 3}, offset{1, 2}, offset{2, 2}, offset{2, 1}, offset{3, 1},
	offset{3, 0}, offset{3, -1}, offset{2, -1}, offset{2, -2}, offset{1, -2}, offset{1, -3},
	offset{0, -3}, offset{-1, -3}, offset{-1, -2}, offset{-2, -2}, offset{-2, -1}, offset{-3, -1},
)

// explodePattern hits the center and every offset of the pattern that lands
// inside the map.
func (w *World) explodePattern(center Cursor, dmg int, pattern []offset, total int) {
	w.explodeCell(center, dmg, false, total)
	for _, o := range pattern {
		if cur, ok := center.Offset(o.dRow, o.dCol); ok {
			w.explodeCell(cur, dmg, false, total)
		}
	}
}

// expansion describes a blast that floods neighbouring cells step by step.
type expansion interface {
	markers() (MapValue, MapValue)
	limit() int
	explodesEntities() bool
	canExpand(v MapValue, next Cursor, d Direction) bool
	expanded(w *World, c Cursor)
	finalize(w *World, c Cursor, total int)
}

func (w *World) expand(e expansion, start Cursor, total int) {
	marker1, marker2 := e.markers()
	w.Level.Set(start, marker1)

	count := 0
	for count < e.limit() {
		spread := false
		for c := range InnerCursors() {
			if w.Level.At(c) != marker1 {
				continue
			}
			for _, d := range Directions {
				next := c.To(d)
				v := w.Level.At(next)
				if e.explodesEntities() && ExplodableEntity.Has(v) {
					w.explodeEntity(next, total)
				} else if e.canExpand(v, next, d) {
					w.Level.Set(next, marker2)
					count++
					spread = true
					e.expanded(w, next)
				}
			}
		}
		if !spread {
			break
		}
		for c := range AllCursors() {
			if w.Level.At(c) == marker2 {
				w.Level.Set(c, marker1)
			}
		}
	}

	for c := range AllCursors() {
		if w.Level.At(c) == marker1 {
			e.finalize(w, c, total)
		}
	}
}

type plasticExpansion struct{ explosive bool }

func (plasticExpansion) markers() (MapValue, MapValue) { return TempMarker1, TempMarker2 }
func (plasticExpansion) explodesEntities() bool        { return false }
func (plasticExpansion) expanded(*World, Cursor)       {}

func (p plasticExpansion) limit() int {
	if p.explosive {
		return 50
	}
	return 45
}

func (plasticExpansion) canExpand(v MapValue, _ Cursor, _ Direction) bool {
	return v.IsPassable()
}

func (p plasticExpansion) finalize(w *World, c Cursor, _ int) {
	w.placePlastic(c, p.explosive)
}

type diggerExpansion struct{}

func (diggerExpansion) markers() (MapValue, MapValue) { return TempMarker1, TempMarker2 }
func (diggerExpansion) limit() int                    { return 75 }
func (diggerExpansion) explodesEntities() bool        { return true }
func (diggerExpansion) expanded(*World, Cursor)       {}

func (diggerExpansion) canExpand(v MapValue, _ Cursor, _ Direction) bool {
	return v.IsStone() || v.IsStoneCorner() || v == Boulder
}

func (diggerExpansion) finalize(w *World, c Cursor, total int) {
	w.explodeCell(c, 10, true, total)
}

type napalmExpansion struct{}

func (napalmExpansion) markers() (MapValue, MapValue) { return NapalmMarker1, NapalmMarker2 }
func (napalmExpansion) limit() int                    { return 75 }
func (napalmExpansion) explodesEntities() bool        { return true }

func (napalmExpansion) canExpand(v MapValue, _ Cursor, _ Direction) bool {
	switch v {
	case Passage, Smoke1, Smoke2, Blood, Biomass, Explosion,
		MonsterDying, MonsterSmoke1, MonsterSmoke2, Plastic, SlimeCorpse:
		return true
	}
	return false
}

// expanded burns everything in the cell.
func (napalmExpansion) expanded(w *World, c Cursor) {
	w.Hits.Set(c, 0)
}

func (napalmExpansion) finalize(w *World, c Cursor, total int) {
	w.Level.Set(c, Passage)
	w.explodeCell(c, 220, true, total)
}

// flameExpansion is a cone of fire widening away from start.
type flameExpansion struct {
	start     Cursor
	direction Direction
}

func (flameExpansion) markers() (MapValue, MapValue) { return NapalmMarker1, NapalmMarker2 }
func (flameExpansion) limit() int                    { return 30 }
func (flameExpansion) explodesEntities() bool        { return true }
func (flameExpansion) expanded(*World, Cursor)       {}

func (f flameExpansion) canExpand(v MapValue, next Cursor, d Direction) bool {
	if !isFlamePassable(v) {
		return false
	}
	switch d {
	case f.direction:
		return true
	case f.direction.Reverse():
		return false
	}
	dRow, dCol := f.start.Distance(next)
	if d == DirUp || d == DirDown {
		return dRow*2 <= dCol
	}
	return dCol*2 <= dRow
}

func (flameExpansion) finalize(w *World, c Cursor, total int) {
	w.Level.Set(c, Passage)
	w.explodeCell(c, 34, true, total)
}

func isFlamePassable(v MapValue) bool {
	switch v {
	case Smoke1, Smoke2, Biomass, Explosion, MonsterDying, MonsterSmoke1, MonsterSmoke2, Plastic:
		return true
	}
	return v.IsPassable()
}

// activateFlamethrower shoots fire from c. When the next cell blocks the
// flame it starts in the shooter's own cell.
func (w *World) activateFlamethrower(c Cursor, d Direction) {
	w.play(SoundExplos4, 11000, c)
	if isFlamePassable(w.Level.At(c.To(d))) {
		c = c.To(d)
	}
	w.expand(flameExpansion{start: c, direction: d}, c, 0)
}

// placePlastic sets the final value of a plastic blob. Cells occupied by a
// player stay free.
func (w *World) placePlastic(c Cursor, explosive bool) {
	for i := range w.Players {
		if w.Actors[i].Cursor() == c {
			w.advance(c, Passage, 0)
			return
		}
	}
	w.Hits.Set(c, 400)
	if explosive {
		w.advance(c, ExplosivePlastic, 250)
	} else {
		w.advance(c, Plastic, 0)
	}
}
