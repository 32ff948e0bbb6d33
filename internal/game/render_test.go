package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/world"
)

func TestCellGlyph(t *testing.T) {
	tests := []struct {
		value world.MapValue
		want  rune
	}{
		{world.Passage, ' '},
		{world.MetalWall, '█'},
		{world.Exit, 'E'},
		{world.Diamond, '◆'},
		{world.FurryLeft, 'F'},
		{world.AlienDown, 'A'},
		{world.MapValue(0xFF), '?'},
	}
	for _, tt := range tests {
		if got := CellGlyph(tt.value).Rune; got != tt.want {
			t.Errorf("CellGlyph(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestActorGlyph(t *testing.T) {
	player := world.ActorSnapshot{Kind: world.KindPlayer, Owner: 1}
	if g, ok := ActorGlyph(player, world.GlyphNormal); !ok || g.Rune != '@' || g.Color != PlayerColors[1] {
		t.Errorf("player glyph = %+v, %v", g, ok)
	}
	if _, ok := ActorGlyph(player, world.GlyphInvisible); ok {
		t.Error("invisible player should not be drawn")
	}
	if g, _ := ActorGlyph(player, world.GlyphSlime); g.Rune != 'S' {
		t.Errorf("slime cheat glyph = %q", g.Rune)
	}

	clone := world.ActorSnapshot{Kind: world.KindClone, Owner: 2}
	if g, _ := ActorGlyph(clone, world.GlyphNormal); g.Color != cloneColors[2] {
		t.Errorf("clone color = %v", g.Color)
	}

	dead := world.ActorSnapshot{Kind: world.KindGrenadier, Dead: true}
	if _, ok := ActorGlyph(dead, world.GlyphNormal); ok {
		t.Error("dead actors should not be drawn")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, total int
		want         string
	}{
		{100, 100, "████████"},
		{50, 100, "████░░░░"},
		{1, 100, "█░░░░░░░"},
		{0, 100, "░░░░░░░░"},
		{300, 100, "████████"},
		{5, 0, "█░░░░░░░"},
	}
	for _, tt := range tests {
		if got := bar(tt.value, tt.total, 8); got != tt.want {
			t.Errorf("bar(%d, %d) = %q, want %q", tt.value, tt.total, got, tt.want)
		}
	}
}

func TestViewport(t *testing.T) {
	full := newViewport(80, 47, PanelRows, world.Cursor{Row: 1, Col: 1})
	if full.cols != world.MapCols || full.rows != world.MapRows || full.x != 8 || full.col != 0 || full.row != 0 {
		t.Errorf("full viewport = %+v", full)
	}

	small := newViewport(40, 20, PanelRows, world.Cursor{Row: 44, Col: 63})
	if small.col != 24 || small.row != 25 {
		t.Fatalf("small viewport = %+v", small)
	}
	x, y, ok := small.screenPos(world.Cursor{Row: 44, Col: 63})
	if !ok || x != 39 || y != PanelRows+19 {
		t.Errorf("screenPos = (%d, %d, %v)", x, y, ok)
	}
	if _, _, ok := small.screenPos(world.Cursor{Row: 0, Col: 0}); ok {
		t.Error("top-left cell should be outside the window")
	}
}

func newTestWorld(names ...string) *world.World {
	var players []*world.Player
	for _, n := range names {
		players = append(players, world.NewPlayer(n, 750))
	}
	return world.New(world.EmptyMap(), players, world.Options{BombDamage: 100}, rand.New(rand.NewSource(7)))
}

func TestDrawRound(t *testing.T) {
	w := newTestWorld("Tester")
	snap := w.Snapshot()

	dst := core.NewScreen(80, 50)
	DrawRound(dst, &snap, true)

	// single player spawns in the top-left corner, cell (1, 1)
	cell := dst.GetCell(8+1, PanelRows+1)
	if cell.Rune != '@' || cell.Color != PlayerColors[0] {
		t.Errorf("player cell = %+v", cell)
	}
	if row := dst.Row(0); !strings.Contains(row, "Tester") || !strings.Contains(row, "♥0") {
		t.Errorf("panel row = %q", row)
	}
	if row := dst.Row(1); !strings.Contains(row, "$750") {
		t.Errorf("panel cash row = %q", row)
	}
}

func TestDrawRoundDarkness(t *testing.T) {
	w := newTestWorld("Tester")
	snap := w.Snapshot()
	snap.Dark = make([]bool, world.MapRows*world.MapCols)
	for i := range snap.Dark {
		snap.Dark[i] = true
	}
	snap.Level[10*world.MapCols+10] = byte(world.Diamond)

	dst := core.NewScreen(80, 50)
	DrawRound(dst, &snap, false)

	if r := dst.GetCell(8+10, PanelRows+10).Rune; r == '◆' {
		t.Error("fogged diamond should be hidden")
	}
	if r := dst.GetCell(8+1, PanelRows+1).Rune; r != '@' {
		t.Errorf("player should stay visible in the dark, got %q", r)
	}
}
