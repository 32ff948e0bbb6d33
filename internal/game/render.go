package game

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/world"
)

// HUD layout: one panel per player above the map.
const (
	PanelWidth = 20
	PanelRows  = 3
	healthBar  = 8
)

// viewport maps a window of the level onto the screen.
type viewport struct {
	x, y       int // screen origin
	col, row   int // first visible cell
	cols, rows int
}

// newViewport fits the map into a w×h area starting at screen row top. When
// the area is smaller than the map, the window follows focus.
func newViewport(w, h, top int, focus world.Cursor) viewport {
	v := viewport{
		cols: max(min(w, world.MapCols), 0),
		rows: max(min(h, world.MapRows), 0),
		y:    top,
	}
	v.x = (w - v.cols) / 2
	v.col = core.Clamp(focus.Col-v.cols/2, 0, world.MapCols-v.cols)
	v.row = core.Clamp(focus.Row-v.rows/2, 0, world.MapRows-v.rows)
	return v
}

// screenPos returns the screen cell of a map cell, or false if it is outside
// the window.
func (v viewport) screenPos(c world.Cursor) (int, int, bool) {
	if c.Col < v.col || c.Col >= v.col+v.cols || c.Row < v.row || c.Row >= v.row+v.rows {
		return 0, 0, false
	}
	return v.x + c.Col - v.col, v.y + c.Row - v.row, true
}

// focusOf returns the centroid of the living players, or the map center.
func focusOf(snap *world.Snapshot) world.Cursor {
	sumRow, sumCol, n := 0, 0, 0
	for _, a := range snap.Actors {
		if a.Kind != world.KindPlayer || a.Dead {
			continue
		}
		c := world.Position{X: a.X, Y: a.Y}.Cursor()
		sumRow += c.Row
		sumCol += c.Col
		n++
	}
	if n == 0 {
		return world.Cursor{Row: world.MapRows / 2, Col: world.MapCols / 2}
	}
	return world.Cursor{Row: sumRow / n, Col: sumCol / n}
}

// DrawRound draws the player panels and the visible part of the map.
func DrawRound(dst *core.Screen, snap *world.Snapshot, campaign bool) {
	drawPanels(dst, snap, campaign)

	top := PanelRows
	v := newViewport(dst.Width(), dst.Height()-top, top, focusOf(snap))
	if snap.Shake > 0 && snap.Shake%2 == 1 {
		v.x++
	}

	for row := v.row; row < v.row+v.rows; row++ {
		for col := v.col; col < v.col+v.cols; col++ {
			c := world.Cursor{Row: row, Col: col}
			x, y, _ := v.screenPos(c)
			idx := row*world.MapCols + col
			if snap.Dark != nil && snap.Dark[idx] {
				continue
			}
			g := CellGlyph(world.MapValue(snap.Level[idx]))
			if snap.Flash && g.Rune != ' ' {
				g.Color = core.ColorBrightWhite
			}
			dst.SetColor(x, y, g.Rune, g.Color)
		}
	}

	for i, a := range snap.Actors {
		c := world.Position{X: a.X, Y: a.Y}.Cursor()
		x, y, ok := v.screenPos(c)
		if !ok {
			continue
		}
		// only players stay visible in the dark
		if a.Kind != world.KindPlayer && snap.Dark != nil && snap.Dark[c.Row*world.MapCols+c.Col] {
			continue
		}
		cheat := world.GlyphNormal
		if a.Kind == world.KindPlayer && i < len(snap.Players) {
			cheat = nameCheat(snap.Players[i].Name)
		}
		if g, ok := ActorGlyph(a, cheat); ok {
			dst.SetColor(x, y, g.Rune, g.Color)
		}
	}
}

func drawPanels(dst *core.Screen, snap *world.Snapshot, campaign bool) {
	for i, p := range snap.Players {
		x := i * PanelWidth
		color := slotColor(PlayerColors, i)

		name := truncate(p.Name, PanelWidth-5)
		dst.DrawTextColor(x, 0, name, color)
		if campaign {
			dst.DrawTextColor(x+PanelWidth-5, 0, fmt.Sprintf("♥%d", max(p.Lives, 0)), core.ColorBrightRed)
		}

		if i < len(snap.Actors) && snap.Actors[i].Dead {
			dst.DrawTextColor(x, 1, "DEAD", core.ColorRed)
		} else if i < len(snap.Actors) {
			a := snap.Actors[i]
			dst.DrawTextColor(x, 1, bar(a.Health, a.MaxHealth, healthBar), core.ColorGreen)
		}
		cash := fmt.Sprintf("$%d", p.Cash)
		if p.Collected > 0 {
			cash += fmt.Sprintf("+%d", p.Collected)
		}
		dst.DrawTextColor(x+healthBar+1, 1, truncate(cash, PanelWidth-healthBar-2), core.ColorYellow)

		item := truncate(ShortName(p.Selection), 9)
		dst.DrawText(x, 2, fmt.Sprintf("%-9s x%d", item, p.Count))
	}
}

// bar renders value/total as a fixed width bar.
func bar(value, total, width int) string {
	filled := 0
	if total > 0 {
		filled = core.Clamp(value*width/total, 0, width)
	}
	if value > 0 && filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// drawMessage draws a framed message box in the center of the screen.
func drawMessage(dst *core.Screen, lines ...string) {
	w := 0
	for _, l := range lines {
		w = max(w, utf8.RuneCountInString(l))
	}
	r := core.NewRect(0, 0, dst.Width(), dst.Height()).Centered(w+4, len(lines)+2)
	dst.FillRect(r, core.Cell{Rune: ' '})
	dst.Frame(r, core.ColorBrightWhite)
	for i, l := range lines {
		x := r.X + (r.W-utf8.RuneCountInString(l))/2
		dst.DrawText(x, r.Y+1+i, l)
	}
}

// drawPreview draws a downscaled level map, sampling every sx-th column and
// sy-th row.
func drawPreview(dst *core.Screen, m *world.LevelMap, x, y, sx, sy int) {
	for row := 0; row*sy < world.MapRows; row++ {
		for col := 0; col*sx < world.MapCols; col++ {
			g := CellGlyph(m.At(world.Cursor{Row: row * sy, Col: col * sx}))
			dst.SetColor(x+col, y+row, g.Rune, g.Color)
		}
	}
}
