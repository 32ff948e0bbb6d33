package world

import "fmt"

// MapValue is a single byte of a level map. Bytes outside of the named set
// are kept as is; they render as unknown tiles and behave as solid.
type MapValue uint8

const (
	Passage               MapValue = 0x30
	MetalWall             MapValue = 0x31
	Sand1                 MapValue = 0x32
	Sand2                 MapValue = 0x33
	Sand3                 MapValue = 0x34
	LightGravel           MapValue = 0x35
	HeavyGravel           MapValue = 0x36
	StoneTopLeft          MapValue = 0x37
	StoneTopRight         MapValue = 0x38
	StoneBottomRight      MapValue = 0x39
	StoneBottomLeft       MapValue = 0x41
	Boulder               MapValue = 0x42
	Stone1                MapValue = 0x43
	Stone2                MapValue = 0x44
	Stone3                MapValue = 0x45
	Stone4                MapValue = 0x46
	FurryRight            MapValue = 0x47
	FurryLeft             MapValue = 0x48
	FurryUp               MapValue = 0x49
	FurryDown             MapValue = 0x4A
	GrenadierRight        MapValue = 0x4B
	GrenadierLeft         MapValue = 0x4C
	GrenadierUp           MapValue = 0x4D
	GrenadierDown         MapValue = 0x4E
	SlimeRight            MapValue = 0x4F
	SlimeLeft             MapValue = 0x50
	SlimeUp               MapValue = 0x51
	SlimeDown             MapValue = 0x52
	AlienRight            MapValue = 0x53
	AlienLeft             MapValue = 0x54
	AlienUp               MapValue = 0x55
	AlienDown             MapValue = 0x56
	SmallBomb1            MapValue = 0x57
	BigBomb1              MapValue = 0x58
	Dynamite1             MapValue = 0x59
	NapalmMarker2         MapValue = 0x5A
	Smoke1                MapValue = 0x61
	Smoke2                MapValue = 0x62
	SmallRadioBlue        MapValue = 0x63
	BigRadioBlue          MapValue = 0x64
	Mine                  MapValue = 0x65
	Blood                 MapValue = 0x66
	SmallRadioGreen       MapValue = 0x67
	BigRadioGreen         MapValue = 0x68
	SmallRadioYellow      MapValue = 0x69
	BigRadioYellow        MapValue = 0x6A
	Exit                  MapValue = 0x6B
	Door                  MapValue = 0x6C
	Medikit               MapValue = 0x6D
	Biomass               MapValue = 0x6F
	StoneLightCracked     MapValue = 0x70
	StoneHeavyCracked     MapValue = 0x71
	Diamond               MapValue = 0x73
	SmallBomb2            MapValue = 0x77
	SmallBomb3            MapValue = 0x78
	WeaponsCrate          MapValue = 0x79
	NapalmMarker1         MapValue = 0x7A
	NapalmExtinguished    MapValue = 0x7C
	SmallBombExtinguished MapValue = 0x7D
	BigBombExtinguished   MapValue = 0x7E
	Napalm1               MapValue = 0x7F
	LargeCrucifixBomb     MapValue = 0x80
	PlasticBomb           MapValue = 0x81
	SmallRadioRed         MapValue = 0x82
	BigRadioRed           MapValue = 0x83
	Explosion             MapValue = 0x84
	MonsterDying          MapValue = 0x85
	MonsterSmoke1         MapValue = 0x86
	MonsterSmoke2         MapValue = 0x87
	TempMarker1           MapValue = 0x88
	TempMarker2           MapValue = 0x89
	SmallCrucifixBomb     MapValue = 0x8A
	BigBomb2              MapValue = 0x8B
	BigBomb3              MapValue = 0x8C
	Dynamite2             MapValue = 0x8D
	Dynamite3             MapValue = 0x8E
	SmallPickaxe          MapValue = 0x8F
	LargePickaxe          MapValue = 0x90
	Drill                 MapValue = 0x91
	GoldShield            MapValue = 0x92
	GoldEgg               MapValue = 0x93
	GoldPileCoins         MapValue = 0x94
	GoldBracelet          MapValue = 0x95
	GoldBar               MapValue = 0x96
	GoldCross             MapValue = 0x97
	GoldScepter           MapValue = 0x98
	GoldRubin             MapValue = 0x99
	GoldCrown             MapValue = 0x9A
	Plastic               MapValue = 0x9B
	Teleport              MapValue = 0x9C
	Atomic1               MapValue = 0x9D
	Atomic2               MapValue = 0x9E
	Atomic3               MapValue = 0x9F
	ExplosivePlastic      MapValue = 0xA0
	ExplosivePlasticBomb  MapValue = 0xA1
	DiggerBomb            MapValue = 0xA2
	Napalm2               MapValue = 0xA3
	Barrel                MapValue = 0xA4
	GrenadeFlyingRight    MapValue = 0xA5
	GrenadeFlyingLeft     MapValue = 0xA6
	GrenadeFlyingDown     MapValue = 0xA7
	GrenadeFlyingUp       MapValue = 0xA8
	MetalWallPlaced       MapValue = 0xA9
	DynamiteExtinguished  MapValue = 0xAA
	JumpingBomb           MapValue = 0xAB
	Brick                 MapValue = 0xAC
	BrickLightCracked     MapValue = 0xAD
	BrickHeavyCracked     MapValue = 0xAE
	SlimeCorpse           MapValue = 0xAF
	SlimeDying            MapValue = 0xB0
	SlimeSmoke1           MapValue = 0xB1
	SlimeSmoke2           MapValue = 0xB2
	LifeItem              MapValue = 0xB3
	ButtonOff             MapValue = 0xB4
	ButtonOn              MapValue = 0xB5
	Item182               MapValue = 0xB6
)

var valueNames = map[MapValue]string{
	Passage: "passage", MetalWall: "metal wall", Sand1: "sand", Sand2: "sand", Sand3: "sand",
	LightGravel: "light gravel", HeavyGravel: "heavy gravel",
	StoneTopLeft: "stone corner", StoneTopRight: "stone corner",
	StoneBottomRight: "stone corner", StoneBottomLeft: "stone corner",
	Boulder: "boulder", Stone1: "stone", Stone2: "stone", Stone3: "stone", Stone4: "stone",
	FurryRight: "furry", FurryLeft: "furry", FurryUp: "furry", FurryDown: "furry",
	GrenadierRight: "grenadier", GrenadierLeft: "grenadier", GrenadierUp: "grenadier", GrenadierDown: "grenadier",
	SlimeRight: "slime", SlimeLeft: "slime", SlimeUp: "slime", SlimeDown: "slime",
	AlienRight: "alien", AlienLeft: "alien", AlienUp: "alien", AlienDown: "alien",
	SmallBomb1: "small bomb", SmallBomb2: "small bomb", SmallBomb3: "small bomb",
	BigBomb1: "big bomb", BigBomb2: "big bomb", BigBomb3: "big bomb",
	Dynamite1: "dynamite", Dynamite2: "dynamite", Dynamite3: "dynamite",
	Smoke1: "smoke", Smoke2: "smoke", Mine: "mine", Blood: "blood",
	SmallRadioBlue: "small radio", SmallRadioRed: "small radio", SmallRadioGreen: "small radio", SmallRadioYellow: "small radio",
	BigRadioBlue: "big radio", BigRadioRed: "big radio", BigRadioGreen: "big radio", BigRadioYellow: "big radio",
	Exit: "exit", Door: "door", Medikit: "medikit", Biomass: "biomass",
	StoneLightCracked: "cracked stone", StoneHeavyCracked: "cracked stone",
	Diamond: "diamond", WeaponsCrate: "weapons crate",
	NapalmExtinguished: "napalm (out)", SmallBombExtinguished: "small bomb (out)",
	BigBombExtinguished: "big bomb (out)", DynamiteExtinguished: "dynamite (out)",
	Napalm1: "napalm", Napalm2: "napalm", LargeCrucifixBomb: "large crucifix", SmallCrucifixBomb: "small crucifix",
	PlasticBomb: "plastic bomb", Explosion: "explosion",
	MonsterDying: "dying monster", MonsterSmoke1: "smoke", MonsterSmoke2: "smoke",
	SmallPickaxe: "small pickaxe", LargePickaxe: "large pickaxe", Drill: "drill",
	GoldShield: "gold shield", GoldEgg: "gold egg", GoldPileCoins: "pile of coins", GoldBracelet: "bracelet",
	GoldBar: "gold bar", GoldCross: "gold cross", GoldScepter: "scepter", GoldRubin: "rubin", GoldCrown: "crown",
	Plastic: "plastic", Teleport: "teleport", Atomic1: "atomic bomb", Atomic2: "atomic bomb", Atomic3: "atomic bomb",
	ExplosivePlastic: "explosive plastic", ExplosivePlasticBomb: "explosive plastic bomb",
	DiggerBomb: "digger", Barrel: "barrel",
	GrenadeFlyingRight: "grenade", GrenadeFlyingLeft: "grenade", GrenadeFlyingDown: "grenade", GrenadeFlyingUp: "grenade",
	MetalWallPlaced: "metal wall (placed)", JumpingBomb: "jumping bomb",
	Brick: "brick", BrickLightCracked: "cracked brick", BrickHeavyCracked: "cracked brick",
	SlimeCorpse: "slime corpse", SlimeDying: "dying slime", SlimeSmoke1: "slime smoke", SlimeSmoke2: "slime smoke",
	LifeItem: "extra life", ButtonOff: "button", ButtonOn: "button (on)",
}

// String returns a short human-readable name.
func (v MapValue) String() string {
	if name, ok := valueNames[v]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint8(v))
}

// IsStoneLike reports stone, stone corners and cracked stone.
func (v MapValue) IsStoneLike() bool {
	return v.IsStone() || v.IsStoneCorner() || v == StoneLightCracked || v == StoneHeavyCracked
}

// IsStoneCorner reports the four rounded stone corners.
func (v MapValue) IsStoneCorner() bool {
	switch v {
	case StoneTopLeft, StoneTopRight, StoneBottomLeft, StoneBottomRight:
		return true
	}
	return false
}

// IsStone reports the four plain stone variants.
func (v MapValue) IsStone() bool {
	return v >= Stone1 && v <= Stone4
}

// IsSand reports the three sand variants.
func (v MapValue) IsSand() bool {
	return v >= Sand1 && v <= Sand3
}

// IsBrickLike reports brick in any of its crack stages.
func (v MapValue) IsBrickLike() bool {
	return v >= Brick && v <= BrickHeavyCracked
}

// IsPassable reports cells an actor can walk into.
func (v MapValue) IsPassable() bool {
	return v == Passage || v == Blood || v == SlimeCorpse
}

// IsGrenade reports a flying grenade.
func (v MapValue) IsGrenade() bool {
	return v >= GrenadeFlyingRight && v <= GrenadeFlyingUp
}

// IsBomb reports every armed explosive.
func (v MapValue) IsBomb() bool {
	switch v {
	case SmallBomb1, SmallBomb2, SmallBomb3,
		BigBomb1, BigBomb2, BigBomb3,
		Dynamite1, Dynamite2, Dynamite3,
		Napalm1, Napalm2,
		SmallCrucifixBomb, LargeCrucifixBomb,
		PlasticBomb, ExplosivePlastic, ExplosivePlasticBomb,
		Atomic1, Atomic2, Atomic3,
		DiggerBomb, Barrel,
		GrenadeFlyingRight, GrenadeFlyingLeft, GrenadeFlyingDown, GrenadeFlyingUp,
		MetalWallPlaced, JumpingBomb:
		return true
	}
	return false
}

// IsTool reports pickaxes and the drill lying on the map.
func (v MapValue) IsTool() bool {
	return v >= SmallPickaxe && v <= Drill
}

// GoldValue returns the cash value of a treasure cell.
func (v MapValue) GoldValue() int {
	switch v {
	case GoldShield:
		return 15
	case GoldEgg:
		return 25
	case GoldPileCoins:
		return 15
	case GoldBracelet:
		return 10
	case GoldBar:
		return 30
	case GoldCross:
		return 35
	case GoldScepter:
		return 50
	case GoldRubin:
		return 65
	case GoldCrown:
		return 100
	case Diamond:
		return 1000
	}
	return 0
}

// IsTreasure reports cells carrying gold.
func (v MapValue) IsTreasure() bool {
	return v.GoldValue() > 0
}

// Monster returns the monster kind and facing encoded by the cell.
func (v MapValue) Monster() (ActorKind, Direction, bool) {
	if v < FurryRight || v > AlienDown {
		return 0, 0, false
	}
	off := int(v - FurryRight)
	kinds := [4]ActorKind{KindFurry, KindGrenadier, KindSlime, KindAlien}
	return kinds[off/4], Directions[off%4], true
}

// IsMonster reports cells encoding a monster spawn.
func (v MapValue) IsMonster() bool {
	_, _, ok := v.Monster()
	return ok
}

// radioFor returns the radio bomb value colored for a player slot.
func radioFor(player int, big bool) MapValue {
	small := [4]MapValue{SmallRadioBlue, SmallRadioRed, SmallRadioGreen, SmallRadioYellow}
	large := [4]MapValue{BigRadioBlue, BigRadioRed, BigRadioGreen, BigRadioYellow}
	if big {
		return large[player]
	}
	return small[player]
}

func isRemoteFor(v MapValue, player int) bool {
	return player < 4 && (v == radioFor(player, false) || v == radioFor(player, true))
}

func grenadeValue(d Direction) MapValue {
	switch d {
	case DirLeft:
		return GrenadeFlyingLeft
	case DirUp:
		return GrenadeFlyingUp
	case DirDown:
		return GrenadeFlyingDown
	}
	return GrenadeFlyingRight
}

func grenadeDirection(v MapValue) Direction {
	switch v {
	case GrenadeFlyingLeft:
		return DirLeft
	case GrenadeFlyingUp:
		return DirUp
	case GrenadeFlyingDown:
		return DirDown
	}
	return DirRight
}
