package world

// grenadeCooldown is the minimum number of ticks between two grenades thrown
// by the same actor.
const grenadeCooldown = 121

// grenadeRange is how far a grenadier sees a target to throw at.
const grenadeRange = 8

func (w *World) animateMonsters() {
	gold := w.GoldRemaining()
	for idx := len(w.Players); idx < len(w.Actors); idx++ {
		m := &w.Actors[idx]
		if !m.Active || m.Dead {
			continue
		}
		kind := m.Kind
		c := m.Cursor()

		w.damagePlayers(idx)
		if w.RoundCounter%kind.Speed() != 0 {
			w.animateActor(idx)
		}

		if w.RoundCounter%26 == 0 {
			if bomb, ok := w.lookForBombs(c); ok {
				w.Actors[idx].avoidPosition(bomb)
			} else {
				target, player, ok := w.lookForPlayers(c)
				switch {
				case ok && !(kind == KindClone && w.Actors[idx].Owner == player):
					w.headToTarget(idx, target)
					if kind == KindClone {
						w.grenadierThink(idx)
					}
				case gold > 0 && kind == KindClone:
					if treasure, ok := w.lookForGold(c); ok {
						w.headToTarget(idx, treasure)
					}
				}
				if kind == KindGrenadier {
					w.grenadierThink(idx)
				}
			}
		}

		m = &w.Actors[idx]
		if (w.RoundCounter%33 == 0 && !w.canMove(m)) || w.RoundCounter%121 == 0 {
			m.Facing = Directions[w.rng.Intn(len(Directions))]
			m.Moving = true
		}
	}
}

// damagePlayers hurts every player standing in the monster's cell. A clone
// leaves its owner alone.
func (w *World) damagePlayers(idx int) {
	m := &w.Actors[idx]
	c := m.Cursor()
	for i := range w.Players {
		if i == m.Owner && m.Kind == KindClone {
			continue
		}
		p := &w.Actors[i]
		if p.Cursor() == c {
			p.Health = max(p.Health-m.Damage(), 0)
		}
	}
}

func (w *World) monstersDetectPlayers() {
	for idx := len(w.Players); idx < len(w.Actors); idx++ {
		m := &w.Actors[idx]
		if m.Active || m.Dead {
			continue
		}
		for i := range w.Players {
			p := &w.Actors[i]
			if inProximity(m.Pos, p.Pos) ||
				w.inDirectSight(m.Cursor(), p.Cursor()) ||
				inFOVSight(m.Cursor(), p.Cursor(), m.Facing) {
				m.Active = true
				freq := 11000
				if m.Kind == KindAlien {
					freq = 10300
				}
				w.play(SoundKarjaisu, freq, m.Cursor())
				break
			}
		}
	}
}

func inProximity(a, b Position) bool {
	return abs(a.X-b.X) < 20 && abs(a.Y-b.Y) < 20
}

// inDirectSight reports two cells on one row or column with only passable
// cells between them.
func (w *World) inDirectSight(a, b Cursor) bool {
	switch {
	case a.Row == b.Row:
		for col := min(a.Col, b.Col); col <= max(a.Col, b.Col); col++ {
			if !w.Level.At(Cursor{Row: a.Row, Col: col}).IsPassable() {
				return false
			}
		}
		return true
	case a.Col == b.Col:
		for row := min(a.Row, b.Row); row <= max(a.Row, b.Row); row++ {
			if !w.Level.At(Cursor{Row: row, Col: a.Col}).IsPassable() {
				return false
			}
		}
		return true
	}
	return false
}

// inFOVSight reports whether second is inside the 90 degree, 7 cell deep
// field of view of first looking towards facing.
func inFOVSight(first, second Cursor, facing Direction) bool {
	var high, low, o1, o2 int
	switch facing {
	case DirLeft:
		high, low, o1, o2 = first.Col, second.Col, second.Row, first.Row
	case DirRight:
		high, low, o1, o2 = second.Col, first.Col, second.Row, first.Row
	case DirUp:
		high, low, o1, o2 = first.Row, second.Row, second.Col, first.Col
	default:
		high, low, o1, o2 = second.Row, first.Row, second.Col, first.Col
	}
	return high >= low && high <= low+7 && o2+low < o1+high && o1+low < o2+high
}

// lookAround scans square rings of growing radius around c and returns the
// first cell accepted by check.
func lookAround(c Cursor, dist int, check func(Cursor) bool) (Cursor, bool) {
	for d := 1; d <= dist; d++ {
		for _, dir := range [4]Direction{DirUp, DirDown, DirLeft, DirRight} {
			for i := -d; i <= d; i++ {
				var (
					cur Cursor
					ok  bool
				)
				switch dir {
				case DirUp:
					cur, ok = c.Offset(-d, i)
				case DirDown:
					cur, ok = c.Offset(d, i)
				case DirLeft:
					cur, ok = c.Offset(i, -d)
				default:
					cur, ok = c.Offset(i, d)
				}
				if ok && check(cur) {
					return cur, true
				}
			}
		}
	}
	return c, false
}

func (w *World) lookForBombs(c Cursor) (Cursor, bool) {
	return lookAround(c, 5, func(cur Cursor) bool {
		return w.Level.At(cur).IsBomb()
	})
}

// lookForPlayers returns the cell and slot of the nearest live player.
func (w *World) lookForPlayers(c Cursor) (Cursor, int, bool) {
	player := -1
	target, ok := lookAround(c, 10, func(cur Cursor) bool {
		for i := range w.Players {
			if !w.Actors[i].Dead && w.Actors[i].Cursor() == cur {
				player = i
				return true
			}
		}
		return false
	})
	return target, player, ok
}

func (w *World) lookForGold(c Cursor) (Cursor, bool) {
	return lookAround(c, 63, func(cur Cursor) bool {
		v := w.Level.At(cur)
		return v.IsTreasure() || v.IsTool()
	})
}

// dominant returns the direction from a to b along the axis with the larger
// distance, and the direction along the other axis.
func dominant(from, to Cursor) (Direction, Direction) {
	horizontal, vertical := DirRight, DirDown
	if to.Col < from.Col {
		horizontal = DirLeft
	}
	if to.Row < from.Row {
		vertical = DirUp
	}
	dRow, dCol := from.Distance(to)
	if dCol >= dRow {
		return horizontal, vertical
	}
	return vertical, horizontal
}

// avoidPosition turns the actor away from a threat.
func (a *Actor) avoidPosition(threat Cursor) {
	toward, _ := dominant(a.Cursor(), threat)
	a.Facing = toward.Reverse()
	a.Moving = true
}

// headToTarget turns the actor towards target, taking the secondary axis when
// the primary one is blocked.
func (w *World) headToTarget(idx int, target Cursor) {
	a := &w.Actors[idx]
	c := a.Cursor()
	if c == target {
		return
	}
	primary, secondary := dominant(c, target)
	a.Facing = primary
	a.Moving = true

	dRow, dCol := c.Distance(target)
	if dRow != 0 && dCol != 0 && !w.canMove(a) {
		a.Facing = secondary
	}
}

// canMove reports whether the actor can walk or dig into the cell it faces.
func (w *World) canMove(a *Actor) bool {
	next := a.Cursor().To(a.Facing)
	if next == a.Cursor() {
		return false
	}
	v := w.Level.At(next)
	if v.IsPassable() || v.IsTreasure() || v.IsTool() {
		return true
	}
	return isDiggable(v) && w.Hits.At(next) != metalHits
}

// grenadierThink throws a grenade at a live player lined up within range.
func (w *World) grenadierThink(idx int) {
	m := &w.Actors[idx]
	if w.RoundCounter-m.lastGrenade < grenadeCooldown {
		return
	}
	c := m.Cursor()
	for i := range w.Players {
		p := &w.Actors[i]
		if p.Dead || (m.Kind == KindClone && m.Owner == i) {
			continue
		}
		target := p.Cursor()
		dRow, dCol := c.Distance(target)
		if target == c || max(dRow, dCol) > grenadeRange || !w.inDirectSight(c, target) {
			continue
		}

		dir, _ := dominant(c, target)
		next := c.To(dir)
		if !w.Level.At(next).IsPassable() {
			continue
		}
		m.Facing = dir
		w.Level.Set(next, grenadeValue(dir))
		w.Timer.Set(next, 1)
		w.Hits.Set(next, 0)
		m.lastGrenade = w.RoundCounter
		return
	}
}
