package world

// ValueSet is a 256-bit membership table indexed by map value.
type ValueSet [32]byte

// Has reports whether v is in the set.
func (s *ValueSet) Has(v MapValue) bool {
	return s[v/8]>>(v&7)&1 != 0
}

func (s *ValueSet) add(values ...MapValue) {
	for _, v := range values {
		s[v/8] |= 1 << (v & 7)
	}
}

func setOf(pred func(MapValue) bool) ValueSet {
	var s ValueSet
	for v := 0; v < 256; v++ {
		if pred(MapValue(v)) {
			s.add(MapValue(v))
		}
	}
	return s
}

// DirtBorder holds values that expose a border of the surrounding dirt and stone.
var DirtBorder = ValueSet{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x04, 0x00, 0x80, 0x83, 0xF8, 0x3F, 0x88, 0xF3,
	0x0F, 0xFC, 0xFF, 0xF7, 0xFF, 0x8F, 0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Pushable holds values an actor can push into a free cell.
var Pushable = ValueSet{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x00, 0x80, 0x03, 0x98, 0x07, 0x80, 0xF1,
	0x0F, 0x7C, 0x00, 0xE0, 0x1E, 0x0C, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// CannotPlaceBomb holds values on top of which no item can be placed.
var CannotPlaceBomb = ValueSet{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x80, 0x03, 0xB8, 0x1F, 0x80, 0xF1,
	0x0F, 0x7C, 0x00, 0xF0, 0xFE, 0x0F, 0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// ExplodableEntity holds values that react to an explosion in their cell
// instead of just being blown away.
var ExplodableEntity = ValueSet{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x80, 0x03, 0xB8, 0x1F, 0x80, 0xF1,
	0x0F, 0x7C, 0x00, 0xF0, 0xFF, 0x0F, 0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// CanExtinguish holds armed bombs that an extinguisher disarms.
var CanExtinguish = setOf(func(v MapValue) bool {
	return v.IsBomb() && !v.IsGrenade()
})

// ExtinguisherPassable holds values the extinguisher spray travels through
// while disarming them. Plain passable cells are filled with smoke instead.
var ExtinguisherPassable = setOf(func(v MapValue) bool {
	return v.IsBomb() || v == Mine ||
		v == SmallBombExtinguished || v == BigBombExtinguished ||
		v == DynamiteExtinguished || v == NapalmExtinguished
})

// DoorExplodesEntity holds values that blow up when a door closes on them.
var DoorExplodesEntity = setOf(func(v MapValue) bool {
	return v.IsBomb() || v == Mine || v == Teleport ||
		v == SmallBombExtinguished || v == BigBombExtinguished ||
		v == DynamiteExtinguished || v == NapalmExtinguished
})

// SeeThrough holds values that do not block line of sight.
var SeeThrough = setOf(func(v MapValue) bool {
	switch {
	case v.IsPassable(), v.IsTreasure(), v.IsTool(), v.IsBomb():
		return true
	case v >= Smoke1 && v <= Smoke2, v >= Explosion && v <= MonsterSmoke2:
		return true
	case v >= SlimeDying && v <= SlimeSmoke2:
		return true
	}
	switch v {
	case Mine, Medikit, WeaponsCrate, LifeItem, Teleport, Exit,
		SmallBombExtinguished, BigBombExtinguished, DynamiteExtinguished, NapalmExtinguished:
		return true
	}
	return false
})
