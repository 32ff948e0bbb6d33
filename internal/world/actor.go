package world

// ActorKind is the kind of a moving entity.
type ActorKind uint8

const (
	KindFurry ActorKind = iota
	KindGrenadier
	KindSlime
	KindAlien
	KindPlayer
	KindClone
)

// String returns the kind name.
func (k ActorKind) String() string {
	switch k {
	case KindFurry:
		return "furry"
	case KindGrenadier:
		return "grenadier"
	case KindSlime:
		return "slime"
	case KindAlien:
		return "alien"
	case KindPlayer:
		return "player"
	case KindClone:
		return "clone"
	}
	return "unknown"
}

// IsMonster reports kinds driven by the monster AI (clones included).
func (k ActorKind) IsMonster() bool {
	return k != KindPlayer
}

// DrillingPower is the initial digging strength of a monster.
func (k ActorKind) DrillingPower() int {
	switch k {
	case KindFurry:
		return 5
	case KindGrenadier, KindSlime:
		return 12
	case KindAlien:
		return 52
	}
	return 1
}

// InitialHealth is the starting health of a monster.
func (k ActorKind) InitialHealth() int {
	switch k {
	case KindFurry, KindGrenadier:
		return 29
	case KindSlime:
		return 10
	case KindAlien:
		return 66
	}
	return 100
}

// Speed controls how often a monster skips a move: it moves on every tick
// except those divisible by the speed.
func (k ActorKind) Speed() int {
	switch k {
	case KindFurry:
		return 6
	case KindGrenadier:
		return 3
	case KindSlime:
		return 2
	case KindAlien:
		return 100
	}
	return 3
}

func (k ActorKind) bloodValue() MapValue {
	if k == KindSlime {
		return SlimeCorpse
	}
	return Blood
}

func (k ActorKind) deathAnimation() MapValue {
	if k == KindSlime {
		return SlimeDying
	}
	return MonsterDying
}

func (k ActorKind) deathSound() SoundEffect {
	if k == KindSlime {
		return SoundUrethan
	}
	return SoundAargh
}

// Actor is an active entity on the map: a player, a clone or a monster.
type Actor struct {
	Kind      ActorKind
	Facing    Direction
	Moving    bool
	MaxHealth int
	Health    int
	Pos       Position
	Drilling  int
	Animation int
	Dead      bool
	// Active monsters chase players; dormant ones wait to be spotted.
	Active bool
	// Owner is the player slot of a clone, -1 otherwise.
	Owner int
	// AccumulatedCash is gold picked up this round; lost on death.
	AccumulatedCash int
	// SuperDrill counts down the super drill bonus.
	SuperDrill int
	// lastGrenade is the round counter of the last grenade thrown.
	lastGrenade int
}

// Cursor returns the cell the actor is in.
func (a *Actor) Cursor() Cursor {
	return a.Pos.Cursor()
}

// Damage is the contact damage the actor deals per tick.
func (a *Actor) Damage() int {
	return max(a.Drilling/4, 1)
}

func newMonster(kind ActorKind, facing Direction, c Cursor) Actor {
	return Actor{
		Kind:        kind,
		Facing:      facing,
		Pos:         c.Position(),
		MaxHealth:   kind.InitialHealth(),
		Health:      kind.InitialHealth(),
		Drilling:    kind.DrillingPower(),
		Owner:       -1,
		lastGrenade: -grenadeCooldown,
	}
}
