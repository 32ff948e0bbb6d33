package world

// interactMap resolves an actor running into the cell c: digging, pushing,
// picking up treasure and items, triggering mines, buttons and teleports.
func (w *World) interactMap(entity int, c Cursor) {
	v := w.Level.At(c)
	isPlayer := entity < len(w.Players)
	if v.IsPassable() && isPlayer {
		w.Players[entity].Stats.MetersRan++
		if w.opts.Darkness {
			w.revealView(entity)
		}
	}

	a := &w.Actors[entity]
	switch {
	case v == Passage:
	case isDiggable(v):
		w.dig(a, c, v)
	case v.IsTreasure() || v.IsTool():
		w.pickUp(entity, c, v)
	case v == Mine:
		w.Timer.Set(c, 1)
	case Pushable.Has(v):
		w.push(a, c)
	case v == WeaponsCrate:
		w.openCrate(entity, c)
	case v == LifeItem:
		if entity == 0 {
			w.Players[0].Lives++
		}
		w.Hits.Set(c, 0)
		w.Level.Set(c, Passage)
	case v == ButtonOff:
		if w.Timer.At(c) <= 1 {
			w.openDoors()
		}
	case v == ButtonOn:
		if w.Timer.At(c) <= 1 {
			w.closeDoors()
		}
	case v == Teleport:
		w.teleport(a, c)
	case v == Exit:
		if w.opts.Campaign {
			w.Exited = true
		}
	case v == Medikit:
		if isPlayer {
			a.Health = a.MaxHealth
		}
		w.Level.Set(c, Passage)
		w.play(SoundPicaxe, 11000, c)
	}
}

func isDiggable(v MapValue) bool {
	switch v {
	case MetalWall, Biomass, Plastic, ExplosivePlastic, LightGravel, HeavyGravel:
		return true
	}
	return v.IsSand() || v.IsStoneLike() || v.IsBrickLike()
}

func (w *World) dig(a *Actor, c Cursor, v MapValue) {
	hits := w.Hits.At(c)
	switch {
	case hits == metalHits:
		return
	case hits > 1:
		hits -= a.Drilling
		w.Hits.Set(c, hits)
		switch {
		case v.IsStoneLike():
			if hits < 500 {
				w.Level.Set(c, pick(v.IsStoneCorner(), LightGravel, StoneHeavyCracked))
			} else if hits < 1000 {
				w.Level.Set(c, pick(v.IsStoneCorner(), HeavyGravel, StoneLightCracked))
			}
		case v.IsBrickLike():
			if hits <= 2000 {
				w.Level.Set(c, BrickHeavyCracked)
			} else if hits <= 4000 {
				w.Level.Set(c, BrickLightCracked)
			}
		}
	default:
		w.Hits.Set(c, 0)
		w.Level.Set(c, Passage)
	}
}

func pick(cond bool, yes, no MapValue) MapValue {
	if cond {
		return yes
	}
	return no
}

var kiliFrequencies = [3]int{10000, 12599, 14983}

func (w *World) pickUp(entity int, c Cursor, v MapValue) {
	drill := 0
	switch v {
	case SmallPickaxe:
		drill = 1
	case LargePickaxe:
		drill = 3
	case Drill:
		drill = 5
	}
	gold := v.GoldValue()

	a := &w.Actors[entity]
	if a.Kind == KindClone && a.Owner >= 0 {
		owner := &w.Actors[a.Owner]
		owner.Drilling += drill
		owner.AccumulatedCash += gold
	}
	a.Drilling += drill
	a.AccumulatedCash += gold

	if v.IsTool() {
		w.play(SoundPicaxe, 11000, c)
	} else {
		w.play(SoundKili, kiliFrequencies[w.rng.Intn(len(kiliFrequencies))], c)
		if entity < len(w.Players) {
			w.Players[entity].Stats.TreasuresCollected++
		}
	}

	w.Hits.Set(c, 0)
	w.Level.Set(c, Passage)
}

func (w *World) push(a *Actor, c Cursor) {
	target := c.To(a.Facing)
	hits := w.Hits.At(c)
	switch {
	case hits == metalHits:
	case hits > 1:
		w.Hits.Set(c, hits-a.Drilling)
	case w.Level.At(target).IsPassable() && !w.liveActorAt(target):
		w.Level.Set(target, w.Level.At(c))
		w.Timer.Set(target, w.Timer.At(c))
		w.Hits.Set(target, 24)

		w.Level.Set(c, Passage)
		w.Timer.Set(c, 0)
		w.reapplyBlood(c)
	}
}

func (w *World) liveActorAt(c Cursor) bool {
	for i := range w.Actors {
		if !w.Actors[i].Dead && w.Actors[i].Cursor() == c {
			return true
		}
	}
	return false
}

var (
	crateRare   = []Equipment{AtomicBombItem, GrenadeItem, FlamethrowerItem, CloneItem}
	crateMedium = []Equipment{NapalmItem, LargeCrucifixItem, TeleportItem, BiomassItem, ExtinguisherItem, JumpingBombItem, SuperDrillItem}
	crateCommon = []Equipment{
		SmallBombItem, BigBombItem, DynamiteItem, SmallRadioItem, LargeRadioItem, MineItem,
		BarrelItem, SmallCrucifixItem, PlasticItem, ExplosivePlasticItem, DiggerItem, MetalWallItem,
	}
)

func (w *World) openCrate(entity int, c Cursor) {
	var (
		pool []Equipment
		cnt  int
	)
	switch w.rng.Intn(5) {
	case 0:
		cnt, pool = 1+w.rng.Intn(2), crateRare
	case 1:
		cnt, pool = 1+w.rng.Intn(5), crateMedium
	default:
		cnt, pool = 3+w.rng.Intn(10), crateCommon
	}
	item := pool[w.rng.Intn(len(pool))]
	if entity < len(w.Players) {
		w.Players[entity].Inventory[item] += cnt
	}

	w.Hits.Set(c, 0)
	w.Level.Set(c, Passage)
	w.play(SoundPicaxe, 11000, c)
}

// teleport moves the actor to a random other teleport on the map.
func (w *World) teleport(a *Actor, entrance Cursor) {
	var teleports []Cursor
	entranceIdx := 0
	for c := range AllCursors() {
		if w.Level.At(c) == Teleport {
			if c == entrance {
				entranceIdx = len(teleports)
			}
			teleports = append(teleports, c)
		}
	}

	exit := 0
	if len(teleports) > 1 {
		exit = w.rng.Intn(len(teleports) - 1)
		if exit >= entranceIdx {
			exit++
		}
	}
	a.Pos = teleports[exit].Position()
}

// reapplyBlood redraws blood of dead actors lying in the cell.
func (w *World) reapplyBlood(c Cursor) {
	w.applyDamageInCell(c, 0)
}

// applyDamageInCell damages every actor in the cell. It reports whether a
// live actor was found there.
func (w *World) applyDamageInCell(c Cursor, dmg int) bool {
	foundAlive := false
	for i := range w.Actors {
		a := &w.Actors[i]
		if a.Cursor() != c {
			continue
		}

		effective := dmg
		if a.Kind == KindPlayer && !w.opts.Campaign {
			effective = dmg * w.opts.BombDamage / 100
		}
		a.Health = max(a.Health-effective, 0)

		foundAlive = foundAlive || !a.Dead
		if a.Health > 0 {
			continue
		}
		if dmg > 0 {
			w.Level.Set(c, a.Kind.deathAnimation())
			w.Timer.Set(c, 3)
		} else {
			w.Level.Set(c, a.Kind.bloodValue())
		}
		if !a.Dead {
			if i < len(w.Players) {
				w.Players[i].Stats.Deaths++
			}
			a.Dead = true
			w.play(a.Kind.deathSound(), 11000, c)
		}
	}
	return foundAlive
}

func (w *World) openDoors() {
	for c := range AllCursors() {
		switch w.Level.At(c) {
		case ButtonOff:
			w.Timer.Set(c, 40)
			w.Level.Set(c, ButtonOn)
		case Door:
			w.Level.Set(c, Passage)
			w.Fog.Ref(c).OpenDoor = true
		}
	}
}

// closeDoors shuts every opened door; bombs left in a doorway go off.
func (w *World) closeDoors() {
	for c := range AllCursors() {
		if w.Level.At(c) == ButtonOn {
			w.Timer.Set(c, 40)
			w.Level.Set(c, ButtonOff)
		} else if w.Fog.At(c).OpenDoor {
			if DoorExplodesEntity.Has(w.Level.At(c)) {
				w.explodeEntity(c, 0)
			}
			w.Level.Set(c, Door)
		}
	}
}

// animateActor moves an actor one pixel and hits the map once it is
// centered in its cell.
func (w *World) animateActor(entity int) {
	a := &w.Actors[entity]
	if !a.Moving {
		return
	}

	dx, dy := a.Pos.X%10, a.Pos.Y%10
	c := a.Cursor()
	dir := a.Facing

	var deltaDir, deltaOrth int
	var finishing, canMove bool
	switch dir {
	case DirLeft:
		deltaDir, deltaOrth, finishing, canMove = dx, dy, dx > 5, a.Pos.X > 5
	case DirRight:
		deltaDir, deltaOrth, finishing, canMove = dx, dy, dx < 5, a.Pos.X < 635
	case DirUp:
		deltaDir, deltaOrth, finishing, canMove = dy, dx, dy > 5, a.Pos.Y > 35
	case DirDown:
		deltaDir, deltaOrth, finishing, canMove = dy, dx, dy < 5, a.Pos.Y < 475
	}

	next := w.Level.At(c.To(dir))
	if canMove && deltaOrth > 3 && deltaOrth < 6 && (finishing || next.IsPassable()) {
		a.Pos.Step(dir)
	}
	if deltaOrth != 5 {
		a.Pos.CenterOrthogonal(dir)
	}

	if deltaDir == 5 {
		w.interactMap(entity, c.To(dir))
		// interactMap may grow Actors.
		a = &w.Actors[entity]
	}

	hard := deltaDir == 5 && (next.IsStoneLike() || next.IsBrickLike())
	a.Animation %= 30
	if hard && a.Animation == 16 {
		w.play(SoundPicaxe, 11000+w.rng.Intn(100), c)
	}
	a.Animation++
}

// Digging reports whether the actor is hacking at stone or brick. Renderers
// use it to pick the pickaxe sprite.
func (w *World) Digging(entity int) bool {
	a := &w.Actors[entity]
	if !a.Moving {
		return false
	}
	next := w.Level.At(a.Cursor().To(a.Facing))
	return next.IsStoneLike() || next.IsBrickLike()
}

// revealView lifts the fog in the field of view of a player.
func (w *World) revealView(entity int) {
	a := &w.Actors[entity]
	c := a.Cursor()
	facing := a.Facing

	var at Cursor
	var step Direction
	switch facing {
	case DirLeft:
		at, step = c.OffsetClamp(-20, -20), DirDown
	case DirUp:
		at, step = c.OffsetClamp(-20, -20), DirRight
	case DirRight:
		at, step = c.OffsetClamp(-20, 20), DirDown
	default:
		at, step = c.OffsetClamp(20, -20), DirRight
	}

	for range 41 {
		w.castViewRay(c, at)
		at = at.To(step)
	}

	for !c.IsOnBorder() && w.Level.At(c).IsPassable() {
		for _, d := range Directions {
			w.Fog.Ref(c.To(d)).Dark = false
		}
		c = c.To(facing)
	}
}

// castViewRay walks a Bresenham line from c towards target, revealing cells
// until something opaque blocks the view.
func (w *World) castViewRay(c, target Cursor) {
	dRow, dCol := c.Distance(target)
	vertical := dRow > dCol
	major, minor := dCol, dRow
	if vertical {
		major, minor = dRow, dCol
	}

	slope := 2*minor - major
	y := 0
	for x := 0; x <= major; x++ {
		rowDelta, colDelta := y, x
		if vertical {
			rowDelta, colDelta = x, y
		}
		cur := Cursor{
			Row: towards(c.Row, target.Row, rowDelta),
			Col: towards(c.Col, target.Col, colDelta),
		}
		w.Fog.Ref(cur).Dark = false
		if !SeeThrough.Has(w.Level.At(cur)) {
			return
		}
		if slope > 0 {
			y++
			slope -= 2 * major
		}
		slope += 2 * minor
	}
}

func towards(from, to, delta int) int {
	if to < from {
		return from - delta
	}
	return from + delta
}
