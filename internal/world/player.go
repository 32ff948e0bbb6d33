package world

// HistoryLen is the number of tournament results kept per player.
const HistoryLen = 34

// Stats are the persistent statistics of a roster player.
type Stats struct {
	Name               string
	Tournaments        uint32
	TournamentsWins    uint32
	Rounds             uint32
	RoundsWins         uint32
	TreasuresCollected uint32
	TotalMoney         uint32
	BombsBought        uint32
	BombsDropped       uint32
	Deaths             uint32
	MetersRan          uint32
	History            [HistoryLen]uint8
}

// Counters returns pointers to the counters in their file order.
func (s *Stats) Counters() [10]*uint32 {
	return [10]*uint32{
		&s.Tournaments, &s.TournamentsWins, &s.Rounds, &s.RoundsWins,
		&s.TreasuresCollected, &s.TotalMoney, &s.BombsBought, &s.BombsDropped,
		&s.Deaths, &s.MetersRan,
	}
}

// MergeTournament adds the statistics gathered during one tournament and
// records its win ratio in the history ring.
func (s *Stats) MergeTournament(other Stats) {
	if other.Rounds == 0 {
		return
	}
	idx := s.Tournaments % HistoryLen
	last := (s.Tournaments + HistoryLen - 1) % HistoryLen
	ratio := uint8(129 * other.RoundsWins / other.Rounds)
	value := s.History[last]/2 + ratio/2

	theirs := other.Counters()
	for i, ptr := range s.Counters() {
		*ptr += *theirs[i]
	}
	s.History[idx] = value
}

// GlyphCheat changes how a player is drawn.
type GlyphCheat uint8

const (
	GlyphNormal GlyphCheat = iota
	GlyphSlime
	GlyphInvisible
)

// Player is the persistent part of a participant: it survives between rounds.
type Player struct {
	Stats       Stats
	RosterIndex int
	Cash        int
	Inventory   Inventory
	Selection   Equipment
	Lives       int
	RoundsWin   int
}

// NewPlayer creates a player with the starting cash and applies name cheats.
func NewPlayer(name string, cash int) *Player {
	p := &Player{Stats: Stats{Name: name}, Cash: cash, RosterIndex: -1}
	switch name {
	case "Lottery":
		p.Cash = 50000
	case "Skitso":
		for _, e := range AllEquipment() {
			switch e {
			case ArmorItem:
			case SmallPickaxeItem, LargePickaxeItem, DrillItem:
				p.Inventory[e] = 1
			default:
				p.Inventory[e] = 50
			}
		}
	case "Pyroman":
		p.Inventory[FlamethrowerItem] = 1000
	}
	return p
}

// InitialDrilling is the digging power granted by purchased tools.
func (p *Player) InitialDrilling() int {
	return 1 + p.Inventory[SmallPickaxeItem] + 3*p.Inventory[LargePickaxeItem] + 5*p.Inventory[DrillItem]
}

// InitialHealth is the round start health; armor adds 100 per piece.
func (p *Player) InitialHealth() int {
	if p.Stats.Name == "Rambo" {
		return 32000
	}
	return 100 + 100*p.Inventory[ArmorItem]
}

// Glyph returns the rendering override for cheat names.
func (p *Player) Glyph() GlyphCheat {
	switch p.Stats.Name {
	case "Invis":
		return GlyphInvisible
	case "Mutation":
		return GlyphSlime
	}
	return GlyphNormal
}
