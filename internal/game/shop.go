package game

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/world"
)

// LeaveSlot is the shop slot after the last item. Buying it leaves the shop.
const LeaveSlot = world.EquipmentCount

const (
	shopColumns = 4
	slotWidth   = 10
	shopHalf    = 40
)

var shortNames = [world.EquipmentCount]string{
	"SmBomb", "BigBomb", "Dynamite", "Atomic", "SmRadio", "LgRadio",
	"Grenade", "Mine", "Flamer", "Napalm", "Barrel", "SmCross",
	"LgCross", "Plastic", "ExPlast", "Digger", "MetalWl", "SmPick",
	"LgPick", "Drill", "Teleport", "Clone", "Biomass", "Extingsh",
	"Armor", "JumpBomb", "SupDrill",
}

// ShortName is an item name that fits a shop slot.
func ShortName(e world.Equipment) string {
	if int(e) < world.EquipmentCount {
		return shortNames[e]
	}
	return "?"
}

// Prices are the item prices of one shop visit.
type Prices [world.EquipmentCount]int

// NewPrices draws the prices. A free market moves all prices by the same
// random factor between 71% and 130%.
func NewPrices(freeMarket bool, rng *rand.Rand) Prices {
	pct := 100
	if freeMarket {
		pct = 130 - rng.Intn(60)
	}
	var p Prices
	for _, e := range world.AllEquipment() {
		p[e] = adjustPrice(e.BasePrice(), pct)
	}
	return p
}

func adjustPrice(price, pct int) int {
	return ((price-1)*pct+50)/100 + 1
}

// SellPrice is what the shop pays back: 70% of the price.
func SellPrice(price int) int {
	return (7*price + 5) / 10
}

// moveCursor applies a cursor key to a slot index on the 4 column grid.
func moveCursor(slot int, a core.Action) int {
	switch a {
	case core.ActionRight:
		return min(slot+1, LeaveSlot)
	case core.ActionLeft:
		return max(slot, 1) - 1
	case core.ActionDown:
		return min(slot+shopColumns, LeaveSlot)
	case core.ActionUp:
		return max(slot, shopColumns) - shopColumns
	}
	return slot
}

type shopper struct {
	slot   int
	player *world.Player
	cursor int
	ready  bool
}

// Shop is a visit to the equipment shop. Players shop two at a time, the
// first of a pair on the left half of the screen.
type Shop struct {
	Prices Prices
	// Caption is shown under the title, e.g. the rounds remaining.
	Caption string
	Preview *world.LevelMap

	selling  bool
	shoppers []*shopper
	pair     int
}

// NewShop opens the shop for players.
func NewShop(players []*world.Player, prices Prices, selling bool, caption string, preview *world.LevelMap) *Shop {
	s := &Shop{
		Prices:  prices,
		Caption: caption,
		Preview: preview,
		selling: selling,
	}
	for i, p := range players {
		s.shoppers = append(s.shoppers, &shopper{slot: i, player: p})
	}
	return s
}

// Done reports whether every player has left the shop.
func (s *Shop) Done() bool {
	return s.pair >= len(s.shoppers)
}

// current returns the players shopping right now.
func (s *Shop) current() []*shopper {
	if s.Done() {
		return nil
	}
	return s.shoppers[s.pair:min(s.pair+2, len(s.shoppers))]
}

// Cursor returns the selected slot of a player.
func (s *Shop) Cursor(player int) int {
	return s.shoppers[player].cursor
}

// Step applies one frame of input. Back makes the current pair leave.
func (s *Shop) Step(in core.MultiInputFrame) {
	pair := s.current()
	if len(pair) == 0 {
		return
	}
	if in.Any().Has(core.ActionBack) {
		for _, sh := range pair {
			sh.ready = true
		}
	}
	for _, sh := range pair {
		for _, a := range in.Player(core.PlayerFromIndex(sh.slot)).Ordered() {
			s.apply(sh, a)
		}
	}

	for _, sh := range pair {
		if !sh.ready {
			return
		}
	}
	s.pair += 2
}

func (s *Shop) apply(sh *shopper, a core.Action) {
	if sh.ready {
		return
	}
	p := sh.player
	switch a {
	case core.ActionBomb:
		if sh.cursor == LeaveSlot {
			sh.ready = true
			return
		}
		if price := s.Prices[sh.cursor]; p.Cash >= price {
			p.Cash -= price
			p.Inventory[sh.cursor]++
			p.Stats.BombsBought++
		}
	case core.ActionChoose:
		if s.selling && sh.cursor != LeaveSlot && p.Inventory[sh.cursor] > 0 {
			p.Cash += SellPrice(s.Prices[sh.cursor])
			p.Inventory[sh.cursor]--
		}
	default:
		sh.cursor = moveCursor(sh.cursor, a)
	}
}

// Render draws the shop screen.
func (s *Shop) Render(dst *core.Screen) {
	dst.DrawTextCenteredColor(0, "MINEBOMBERS EQUIPMENT SHOP", core.ColorBrightYellow)
	dst.DrawTextCentered(1, s.Caption)

	y := 3
	if s.Preview != nil {
		w := world.MapCols / 2
		drawPreview(dst, s.Preview, (dst.Width()-w)/2, y, 2, 3)
		y += world.MapRows/3 + 1
	}

	for i, sh := range s.current() {
		s.renderShopper(dst, sh, i*shopHalf, y)
	}

	help := "arrows: move   bomb: buy   choose: sell   LEAVE: done"
	if !s.selling {
		help = "arrows: move   bomb: buy   LEAVE: done"
	}
	dst.DrawTextCenteredColor(dst.Height()-1, help, core.ColorGray)
}

func (s *Shop) renderShopper(dst *core.Screen, sh *shopper, x, y int) {
	p := sh.player
	color := slotColor(PlayerColors, sh.slot)
	dst.DrawTextColor(x+1, y, truncate(p.Stats.Name, shopHalf-2), color)
	dst.DrawText(x+1, y+1, fmt.Sprintf("Drilling %d", p.InitialDrilling()))
	dst.DrawTextColor(x+1, y+2, fmt.Sprintf("Cash     $%d", p.Cash), core.ColorYellow)
	if sh.cursor != LeaveSlot {
		e := world.Equipment(sh.cursor)
		dst.DrawText(x+1, y+3, fmt.Sprintf("%s: %d", e, p.Inventory[e]))
	}
	if sh.ready {
		dst.DrawTextColor(x+shopHalf-8, y, "READY", core.ColorBrightGreen)
	}

	for slot := 0; slot <= LeaveSlot; slot++ {
		sx := x + (slot%shopColumns)*slotWidth
		sy := y + 5 + (slot/shopColumns)*2
		selected := slot == sh.cursor

		name, price := "LEAVE", ""
		if slot != LeaveSlot {
			name = shortNames[slot]
			price = fmt.Sprintf("%d$", s.Prices[slot])
			if n := p.Inventory[slot]; n > 0 {
				price += fmt.Sprintf(" %d", n)
			}
		}

		nameColor := core.ColorWhite
		if selected {
			nameColor = core.ColorBrightYellow
			dst.SetColor(sx, sy, '>', color)
		}
		dst.DrawTextColor(sx+1, sy, name, nameColor)
		dst.DrawTextColor(sx+1, sy+1, truncate(price, slotWidth-1), core.ColorYellow)
	}
}
