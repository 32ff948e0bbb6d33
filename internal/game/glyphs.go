package game

import (
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/world"
)

// Glyph is how a map cell or an actor is drawn in a terminal cell.
type Glyph struct {
	Rune  rune
	Color core.Color
}

// PlayerColors are the slot colors, matching the radio bomb colors.
var PlayerColors = [core.MaxPlayers]core.Color{
	core.ColorBrightBlue,
	core.ColorBrightRed,
	core.ColorBrightGreen,
	core.ColorBrightYellow,
}

// cloneColors are the dimmer slot colors used for clones.
var cloneColors = [core.MaxPlayers]core.Color{
	core.ColorBlue,
	core.ColorRed,
	core.ColorGreen,
	core.ColorYellow,
}

var unknownGlyph = Glyph{'?', core.ColorMagenta}

var cellGlyphs = map[world.MapValue]Glyph{
	world.Passage:     {' ', core.ColorDefault},
	world.MetalWall:   {'█', core.ColorGray},
	world.Sand1:       {'░', core.ColorSand},
	world.Sand2:       {'▒', core.ColorSand},
	world.Sand3:       {'▓', core.ColorSand},
	world.LightGravel: {':', core.ColorGray},
	world.HeavyGravel: {'%', core.ColorGray},

	world.StoneTopLeft:      {'◢', core.ColorDarkGray},
	world.StoneTopRight:     {'◣', core.ColorDarkGray},
	world.StoneBottomRight:  {'◤', core.ColorDarkGray},
	world.StoneBottomLeft:   {'◥', core.ColorDarkGray},
	world.Stone1:            {'▓', core.ColorDarkGray},
	world.Stone2:            {'▓', core.ColorDarkGray},
	world.Stone3:            {'▓', core.ColorDarkGray},
	world.Stone4:            {'▓', core.ColorDarkGray},
	world.StoneLightCracked: {'▒', core.ColorDarkGray},
	world.StoneHeavyCracked: {'░', core.ColorDarkGray},
	world.Boulder:           {'O', core.ColorBrown},

	world.Brick:             {'▤', core.ColorRed},
	world.BrickLightCracked: {'▥', core.ColorRed},
	world.BrickHeavyCracked: {'▦', core.ColorRed},
	world.Door:              {'▯', core.ColorBrown},
	world.MetalWallPlaced:   {'█', core.ColorWhite},

	world.SmallBomb1: {'o', core.ColorRed},
	world.SmallBomb2: {'o', core.ColorBrightRed},
	world.SmallBomb3: {'o', core.ColorBrightYellow},
	world.BigBomb1:   {'O', core.ColorRed},
	world.BigBomb2:   {'O', core.ColorBrightRed},
	world.BigBomb3:   {'O', core.ColorBrightYellow},
	world.Dynamite1:  {'!', core.ColorRed},
	world.Dynamite2:  {'!', core.ColorBrightRed},
	world.Dynamite3:  {'!', core.ColorBrightYellow},
	world.Atomic1:    {'☢', core.ColorYellow},
	world.Atomic2:    {'☢', core.ColorBrightYellow},
	world.Atomic3:    {'☢', core.ColorBrightWhite},

	world.SmallRadioBlue:   {'r', core.ColorBrightBlue},
	world.SmallRadioRed:    {'r', core.ColorBrightRed},
	world.SmallRadioGreen:  {'r', core.ColorBrightGreen},
	world.SmallRadioYellow: {'r', core.ColorBrightYellow},
	world.BigRadioBlue:     {'R', core.ColorBrightBlue},
	world.BigRadioRed:      {'R', core.ColorBrightRed},
	world.BigRadioGreen:    {'R', core.ColorBrightGreen},
	world.BigRadioYellow:   {'R', core.ColorBrightYellow},

	world.Napalm1:              {'≈', core.ColorOrange},
	world.Napalm2:              {'≈', core.ColorBrightRed},
	world.NapalmMarker1:        {' ', core.ColorDefault},
	world.NapalmMarker2:        {' ', core.ColorDefault},
	world.SmallCrucifixBomb:    {'†', core.ColorMagenta},
	world.LargeCrucifixBomb:    {'‡', core.ColorMagenta},
	world.PlasticBomb:          {'▪', core.ColorBrightMagenta},
	world.Plastic:              {'▪', core.ColorMagenta},
	world.ExplosivePlastic:     {'▫', core.ColorBrightMagenta},
	world.ExplosivePlasticBomb: {'▪', core.ColorBrightMagenta},
	world.DiggerBomb:           {'D', core.ColorOrange},
	world.Barrel:               {'B', core.ColorOrange},
	world.JumpingBomb:          {'j', core.ColorBrightRed},
	world.GrenadeFlyingRight:   {'→', core.ColorBrightRed},
	world.GrenadeFlyingLeft:    {'←', core.ColorBrightRed},
	world.GrenadeFlyingDown:    {'↓', core.ColorBrightRed},
	world.GrenadeFlyingUp:      {'↑', core.ColorBrightRed},
	world.Mine:                 {'·', core.ColorDarkGray},

	world.NapalmExtinguished:    {'≈', core.ColorDarkGray},
	world.SmallBombExtinguished: {'o', core.ColorDarkGray},
	world.BigBombExtinguished:   {'O', core.ColorDarkGray},
	world.DynamiteExtinguished:  {'!', core.ColorDarkGray},

	world.Explosion:     {'*', core.ColorBrightYellow},
	world.Smoke1:        {'▒', core.ColorGray},
	world.Smoke2:        {'░', core.ColorGray},
	world.MonsterDying:  {'x', core.ColorRed},
	world.MonsterSmoke1: {'▒', core.ColorGray},
	world.MonsterSmoke2: {'░', core.ColorGray},
	world.SlimeDying:    {'x', core.ColorGreen},
	world.SlimeSmoke1:   {'▒', core.ColorGreen},
	world.SlimeSmoke2:   {'░', core.ColorGreen},
	world.TempMarker1:   {' ', core.ColorDefault},
	world.TempMarker2:   {' ', core.ColorDefault},
	world.Blood:         {',', core.ColorRed},
	world.SlimeCorpse:   {',', core.ColorGreen},

	world.Exit:         {'E', core.ColorBrightGreen},
	world.Medikit:      {'+', core.ColorBrightRed},
	world.Biomass:      {'&', core.ColorGreen},
	world.WeaponsCrate: {'■', core.ColorBrown},
	world.Teleport:     {'◎', core.ColorBrightCyan},
	world.LifeItem:     {'♥', core.ColorBrightRed},
	world.ButtonOff:    {'○', core.ColorCyan},
	world.ButtonOn:     {'●', core.ColorBrightCyan},
	world.Item182:      {'?', core.ColorGray},

	world.SmallPickaxe: {'t', core.ColorWhite},
	world.LargePickaxe: {'T', core.ColorWhite},
	world.Drill:        {'V', core.ColorBrightWhite},

	world.Diamond:       {'◆', core.ColorBrightCyan},
	world.GoldShield:    {'$', core.ColorYellow},
	world.GoldEgg:       {'$', core.ColorYellow},
	world.GoldPileCoins: {'$', core.ColorYellow},
	world.GoldBracelet:  {'$', core.ColorYellow},
	world.GoldBar:       {'$', core.ColorBrightYellow},
	world.GoldCross:     {'$', core.ColorBrightYellow},
	world.GoldScepter:   {'$', core.ColorBrightYellow},
	world.GoldRubin:     {'$', core.ColorBrightRed},
	world.GoldCrown:     {'$', core.ColorBrightYellow},
}

var monsterGlyphs = map[world.ActorKind]Glyph{
	world.KindFurry:     {'F', core.ColorYellow},
	world.KindGrenadier: {'G', core.ColorBrightRed},
	world.KindSlime:     {'S', core.ColorBrightGreen},
	world.KindAlien:     {'A', core.ColorBrightMagenta},
}

// CellGlyph returns the glyph of a map value. Monster spawn cells show the
// monster; unknown bytes show a question mark.
func CellGlyph(v world.MapValue) Glyph {
	if g, ok := cellGlyphs[v]; ok {
		return g
	}
	if kind, _, ok := v.Monster(); ok {
		return monsterGlyphs[kind]
	}
	return unknownGlyph
}

// ActorGlyph returns the glyph of an actor. Players and clones use the slot
// color of their owner. The second result is false for actors that are not
// drawn (dead, or invisible by name cheat).
func ActorGlyph(a world.ActorSnapshot, cheat world.GlyphCheat) (Glyph, bool) {
	if a.Dead {
		return Glyph{}, false
	}
	switch a.Kind {
	case world.KindPlayer:
		switch cheat {
		case world.GlyphInvisible:
			return Glyph{}, false
		case world.GlyphSlime:
			return monsterGlyphs[world.KindSlime], true
		}
		return Glyph{'@', slotColor(PlayerColors, a.Owner)}, true
	case world.KindClone:
		return Glyph{'@', slotColor(cloneColors, a.Owner)}, true
	}
	if g, ok := monsterGlyphs[a.Kind]; ok {
		return g, true
	}
	return unknownGlyph, true
}

func slotColor(colors [core.MaxPlayers]core.Color, slot int) core.Color {
	if slot < 0 || slot >= len(colors) {
		return core.ColorWhite
	}
	return colors[slot]
}

// nameCheat returns the glyph override a player name triggers.
func nameCheat(name string) world.GlyphCheat {
	p := world.Player{Stats: world.Stats{Name: name}}
	return p.Glyph()
}
