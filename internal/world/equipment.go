package world

// Equipment is an item that can be stored in an inventory and bought in the
// shop. The order is the shop order (left to right, top to bottom).
type Equipment uint8

const (
	SmallBombItem Equipment = iota
	BigBombItem
	DynamiteItem
	AtomicBombItem
	SmallRadioItem
	LargeRadioItem
	GrenadeItem
	MineItem
	FlamethrowerItem
	NapalmItem
	BarrelItem
	SmallCrucifixItem
	LargeCrucifixItem
	PlasticItem
	ExplosivePlasticItem
	DiggerItem
	MetalWallItem
	SmallPickaxeItem
	LargePickaxeItem
	DrillItem
	TeleportItem
	CloneItem
	BiomassItem
	ExtinguisherItem
	ArmorItem
	JumpingBombItem
	SuperDrillItem
)

// EquipmentCount is the number of distinct items.
const EquipmentCount = 27

var basePrices = [EquipmentCount]int{
	1, 3, 10, 650, 15, 65, 300, 25, 500, 80, 90, 35, 145, 15, 80, 120, 50, 400, 1100, 1600, 70, 400, 50, 80, 800, 95,
	575,
}

var equipmentNames = [EquipmentCount]string{
	"Small Bomb", "Big Bomb", "Dynamite", "Atomic Bomb", "Small Radio", "Large Radio",
	"Grenade", "Mine", "Flamethrower", "Napalm", "Barrel", "Small Crucifix",
	"Large Crucifix", "Plastic", "Explosive Plastic", "Digger", "Metal Wall", "Small Pickaxe",
	"Large Pickaxe", "Drill", "Teleport", "Clone", "Biomass", "Extinguisher",
	"Armor", "Jumping Bomb", "Super Drill",
}

// AllEquipment returns every item in shop order.
func AllEquipment() []Equipment {
	out := make([]Equipment, EquipmentCount)
	for i := range out {
		out[i] = Equipment(i)
	}
	return out
}

// BasePrice is the shop price before market adjustments.
func (e Equipment) BasePrice() int {
	return basePrices[e]
}

// String returns the display name.
func (e Equipment) String() string {
	if int(e) < EquipmentCount {
		return equipmentNames[e]
	}
	return "?"
}

// Selectable reports whether the item can be chosen for activation in a round.
// Tools and armor are consumed passively.
func (e Equipment) Selectable() bool {
	switch e {
	case SmallPickaxeItem, LargePickaxeItem, DrillItem, ArmorItem:
		return false
	}
	return true
}

// Inventory counts items per kind.
type Inventory [EquipmentCount]int

// Total is the number of items of all kinds.
func (inv *Inventory) Total() int {
	n := 0
	for _, c := range inv {
		n += c
	}
	return n
}
