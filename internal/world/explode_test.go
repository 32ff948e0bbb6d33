package world

import (
	"fmt"
	"math/rand"
	"testing"
)

// seededWorld is a one player campaign world on an open map.
func seededWorld(t *testing.T, seed int64, setup func(m *LevelMap)) *World {
	t.Helper()
	m := EmptyMap()
	m.generateBorders()
	if setup != nil {
		setup(m)
	}
	return New(m, []*Player{NewPlayer("p1", 100)}, Options{Campaign: true, BombDamage: 100}, rand.New(rand.NewSource(seed)))
}

// fill sets every cell of the block between the two corners.
func fill(m *LevelMap, from, to Cursor, v MapValue) {
	for row := from.Row; row <= to.Row; row++ {
		for col := from.Col; col <= to.Col; col++ {
			m.Set(Cursor{Row: row, Col: col}, v)
		}
	}
}

func cellsOf(w *World, v MapValue) []Cursor {
	var out []Cursor
	for c := range AllCursors() {
		if w.Level.At(c) == v {
			out = append(out, c)
		}
	}
	return out
}

func TestBarrelScattersBlasts(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1999} {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			w := seededWorld(t, seed, nil)
			c := Cursor{Row: 20, Col: 30}
			w.Level.Set(c, Barrel)

			w.explodeEntity(c, 0)

			if got := w.Level.At(c); got != Explosion {
				t.Errorf("barrel cell = %s, want explosion", got)
			}
			blasts := cellsOf(w, Explosion)
			if len(blasts) < len(bigBombPattern)+1 {
				t.Errorf("explosions = %d, want at least one big bomb", len(blasts))
			}
			for _, b := range blasts {
				if dRow, dCol := c.Distance(b); dRow > 12 || dCol > 12 {
					t.Errorf("blast at %v is too far from the barrel", b)
				}
			}

			// the barrel itself plus 11 to 15 big bombs
			n := 0
			for _, e := range effects(w.DrainSounds()) {
				if e == SoundExplos1 {
					n++
				}
			}
			if n < 12 || n > 16 {
				t.Errorf("explosion sounds = %d, want 12..16", n)
			}
		})
	}
}

func TestJumpingBombHops(t *testing.T) {
	tests := []struct {
		seed     int64
		jumps    int
		wantJump bool
	}{
		{1, 5, true},
		{3, 2, true},
		{11, 27, true},
		{5, 1, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("seed%d_jumps%d", tt.seed, tt.jumps), func(t *testing.T) {
			w := seededWorld(t, tt.seed, nil)
			c := Cursor{Row: 20, Col: 30}
			w.Level.Set(c, JumpingBomb)
			w.Hits.Set(c, tt.jumps)

			w.explodeEntity(c, 0)

			bombs := cellsOf(w, JumpingBomb)
			if !tt.wantJump {
				if len(bombs) != 0 {
					t.Errorf("last jump left a bomb at %v", bombs)
				}
				if got := w.Level.At(c); got != Explosion {
					t.Errorf("landing cell = %s, want explosion", got)
				}
				return
			}

			if len(bombs) != 1 {
				t.Fatalf("jumping bombs = %v, want one", bombs)
			}
			next := bombs[0]
			if dRow, dCol := c.Distance(next); dRow > 4 || dCol > 4 {
				t.Errorf("hopped to %v, more than 4 cells away", next)
			}
			if got := w.Hits.At(next); got != tt.jumps-1 {
				t.Errorf("jumps left = %d, want %d", got, tt.jumps-1)
			}
			if timer := w.Timer.At(next); timer < 1 || timer > 180 {
				t.Errorf("timer = %d, want 1..180", timer)
			}
			if len(cellsOf(w, Explosion)) == 0 {
				t.Error("payload did not explode")
			}
		})
	}
}

func TestExpansionShapes(t *testing.T) {
	center := Cursor{Row: 20, Col: 30}
	block := func(m *LevelMap) {
		fill(m, Cursor{Row: 12, Col: 22}, Cursor{Row: 28, Col: 38}, Stone1)
	}

	// An unhindered flood grows in diamond waves until it passes 75 cells:
	// six waves make 84 plus the center.
	tests := []struct {
		name       string
		seed       int64
		bomb       MapValue
		setup      func(m *LevelMap)
		explosions int
		stones     int
	}{
		{"napalm in the open", 3, Napalm1, nil, 85, 0},
		{"napalm walled in", 4, Napalm2, block, 1, 17*17 - 1},
		{"digger through stone", 5, DiggerBomb, block, 85, 17*17 - 85},
		{"digger in the open", 6, DiggerBomb, nil, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := seededWorld(t, tt.seed, tt.setup)
			w.Level.Set(center, tt.bomb)

			w.explodeEntity(center, 0)

			blasts := cellsOf(w, Explosion)
			if len(blasts) != tt.explosions {
				t.Errorf("explosions = %d, want %d", len(blasts), tt.explosions)
			}
			for _, b := range blasts {
				if dRow, dCol := center.Distance(b); dRow+dCol > 6 {
					t.Errorf("blast at %v outside the diamond", b)
				}
			}
			if got := len(cellsOf(w, Stone1)); got != tt.stones {
				t.Errorf("stones left = %d, want %d", got, tt.stones)
			}
			markers := w.Level.Count(func(v MapValue) bool {
				return v == TempMarker1 || v == TempMarker2 || v == NapalmMarker1 || v == NapalmMarker2
			})
			if markers != 0 {
				t.Errorf("%d expansion markers left", markers)
			}
		})
	}
}

func TestBiomassGrows(t *testing.T) {
	c := Cursor{Row: 20, Col: 30}
	tests := []struct {
		name   string
		seed   int64
		walled bool
	}{
		{"open", 1, false},
		{"open", 2, false},
		{"open", 9, false},
		{"walled in", 4, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.name, tt.seed), func(t *testing.T) {
			w := seededWorld(t, tt.seed, func(m *LevelMap) {
				if tt.walled {
					fill(m, Cursor{Row: 19, Col: 29}, Cursor{Row: 21, Col: 31}, Stone1)
				}
			})
			w.Level.Set(c, Biomass)

			w.explodeEntity(c, 0)

			clock := w.Timer.At(c)
			if clock < 1 || clock > 140 {
				t.Errorf("timer = %d, want 1..140", clock)
			}
			cells := cellsOf(w, Biomass)
			if tt.walled {
				if len(cells) != 1 {
					t.Errorf("walled biomass spread to %v", cells)
				}
				return
			}
			if len(cells) != 2 {
				t.Fatalf("biomass cells = %v, want two", cells)
			}
			next := cells[0]
			if next == c {
				next = cells[1]
			}
			if dRow, dCol := c.Distance(next); dRow+dCol != 1 {
				t.Errorf("grew to %v, not a neighbour", next)
			}
			if w.Timer.At(next) != clock || w.Hits.At(next) != 400 {
				t.Errorf("new cell timer %d hits %d, want %d and 400", w.Timer.At(next), w.Hits.At(next), clock)
			}
		})
	}
}

func TestBiomassGrowsOnTick(t *testing.T) {
	w := seededWorld(t, 8, nil)
	c := Cursor{Row: 20, Col: 30}
	w.Level.Set(c, Biomass)
	w.Timer.Set(c, 1)

	w.Tick()
	if got := len(cellsOf(w, Biomass)); got < 2 {
		t.Errorf("biomass cells after its timer ran out = %d", got)
	}
}

func TestExtinguishedFuseStaysOut(t *testing.T) {
	tests := []struct {
		bomb MapValue
		want MapValue
	}{
		{SmallBomb2, SmallBombExtinguished},
		{BigBomb1, BigBombExtinguished},
		{Dynamite3, DynamiteExtinguished},
		{Napalm2, NapalmExtinguished},
	}
	for i, tt := range tests {
		t.Run(tt.bomb.String(), func(t *testing.T) {
			w := seededWorld(t, int64(i+1), nil)
			c := Cursor{Row: 10, Col: 10}
			w.Level.Set(c, tt.bomb)
			w.Timer.Set(c, 5)

			if !w.extinguishCell(c) {
				t.Fatal("spray blocked by a bomb")
			}
			for range 100 {
				w.Tick()
			}

			if got := w.Level.At(c); got != tt.want {
				t.Errorf("cell = %s, want %s", got, tt.want)
			}
			if w.Timer.At(c) != 0 || w.Hits.At(c) != 20 {
				t.Errorf("timer %d hits %d, want 0 and 20", w.Timer.At(c), w.Hits.At(c))
			}
			if n := len(cellsOf(w, Explosion)); n != 0 {
				t.Errorf("%d cells exploded", n)
			}
		})
	}
}
