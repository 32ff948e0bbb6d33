package world

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRandomMapDeterministic(t *testing.T) {
	a := RandomMap(rand.New(rand.NewSource(42)), 60)
	b := RandomMap(rand.New(rand.NewSource(42)), 60)
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same seed produced different maps")
	}

	c := RandomMap(rand.New(rand.NewSource(43)), 60)
	if bytes.Equal(a.Bytes(), c.Bytes()) {
		t.Error("different seeds produced identical maps")
	}
}

func TestRandomMapBorders(t *testing.T) {
	m := RandomMap(rand.New(rand.NewSource(5)), 30)
	for c := range AllCursors() {
		if c.IsOnBorder() && m.At(c) != MetalWall {
			t.Fatalf("border cell %v = %s, want metal wall", c, m.At(c))
		}
	}
	if m.Count(MapValue.IsStoneLike) == 0 {
		t.Error("map has no stone")
	}
	if m.GoldTotal() == 0 {
		t.Error("map has no treasure")
	}
}

func TestGenerateEntrances(t *testing.T) {
	tests := []struct {
		players int
		corners []Cursor
	}{
		{2, []Cursor{{Row: 1, Col: 1}, {Row: MapRows - 2, Col: MapCols - 2}}},
		{4, []Cursor{
			{Row: 1, Col: 1}, {Row: MapRows - 2, Col: MapCols - 2},
			{Row: 1, Col: MapCols - 2}, {Row: MapRows - 2, Col: 1},
		}},
	}
	for _, tt := range tests {
		m := RandomMap(rand.New(rand.NewSource(9)), 30)
		m.GenerateEntrances(rand.New(rand.NewSource(9)), tt.players)
		for _, c := range tt.corners {
			if m.At(c) != Passage {
				t.Errorf("players=%d: corner %v = %s, want passage", tt.players, c, m.At(c))
			}
		}
	}
}

func TestPickRandomCoord(t *testing.T) {
	m := EmptyMap()
	for c := range AllCursors() {
		if c.Col%2 == 0 {
			m.Set(c, Diamond)
		}
	}

	rng := rand.New(rand.NewSource(1))
	for range 20 {
		got := m.PickRandomCoord(rng, func(v MapValue) bool { return v == Diamond })
		if m.At(got) != Diamond {
			t.Fatalf("PickRandomCoord = %v holding %s, want a diamond", got, m.At(got))
		}
	}
}
