package world

import (
	"errors"
	"math/rand"
)

// LevelFileSize is the size of a level file: 45 rows of 64 values plus CRLF.
const LevelFileSize = MapRows * (MapCols + 2)

// ErrInvalidMap is returned for level data of the wrong size.
var ErrInvalidMap = errors.New("world: invalid map format")

// Grid is a row-major MapRows x MapCols table of values.
type Grid[V any] struct {
	data []V
}

func newGrid[V any]() Grid[V] {
	return Grid[V]{data: make([]V, MapRows*MapCols)}
}

// At returns the value at c.
func (g *Grid[V]) At(c Cursor) V {
	return g.data[c.index()]
}

// Set stores v at c.
func (g *Grid[V]) Set(c Cursor, v V) {
	g.data[c.index()] = v
}

// Ref returns a pointer to the value at c.
func (g *Grid[V]) Ref(c Cursor) *V {
	return &g.data[c.index()]
}

// Clone returns a deep copy.
func (g Grid[V]) Clone() Grid[V] {
	out := Grid[V]{data: make([]V, len(g.data))}
	copy(out.data, g.data)
	return out
}

// LevelMap is the terrain and item layer of a level.
type LevelMap struct {
	Grid[MapValue]
}

// EmptyMap returns a map filled with Passage.
func EmptyMap() *LevelMap {
	m := &LevelMap{Grid: newGrid[MapValue]()}
	for i := range m.data {
		m.data[i] = Passage
	}
	return m
}

// ParseLevel decodes a level file.
func ParseLevel(data []byte) (*LevelMap, error) {
	if len(data) != LevelFileSize {
		return nil, ErrInvalidMap
	}
	m := &LevelMap{Grid: newGrid[MapValue]()}
	for row := 0; row < MapRows; row++ {
		line := data[row*(MapCols+2):][:MapCols]
		for col, b := range line {
			m.data[row*MapCols+col] = MapValue(b)
		}
	}
	return m, nil
}

// Bytes encodes the map in level file format.
func (m *LevelMap) Bytes() []byte {
	out := make([]byte, 0, LevelFileSize)
	for row := 0; row < MapRows; row++ {
		for col := 0; col < MapCols; col++ {
			out = append(out, byte(m.data[row*MapCols+col]))
		}
		out = append(out, '\r', '\n')
	}
	return out
}

// Clone returns a deep copy of the map.
func (m *LevelMap) Clone() *LevelMap {
	return &LevelMap{Grid: m.Grid.Clone()}
}

// Count returns how many cells match pred.
func (m *LevelMap) Count(pred func(MapValue) bool) int {
	n := 0
	for _, v := range m.data {
		if pred(v) {
			n++
		}
	}
	return n
}

// GoldTotal sums the value of all treasures on the map.
func (m *LevelMap) GoldTotal() int {
	total := 0
	for _, v := range m.data {
		total += v.GoldValue()
	}
	return total
}

// KeepOneExit leaves a single randomly chosen Exit cell and turns the
// others into Passage. Campaign levels carry several candidate exits.
func (m *LevelMap) KeepOneExit(rng *rand.Rand) {
	exits := m.Count(func(v MapValue) bool { return v == Exit })
	if exits == 0 {
		return
	}
	selected := rng.Intn(exits)
	idx := 0
	for i, v := range m.data {
		if v != Exit {
			continue
		}
		if idx != selected {
			m.data[i] = Passage
		}
		idx++
	}
}

// HitsMap holds the remaining dig durability of each cell.
type HitsMap struct {
	Grid[int]
}

// TimerMap holds per-cell countdowns of bombs and animations.
type TimerMap struct {
	Grid[int]
}

// FogCell is the visibility state of a cell in dark levels.
type FogCell struct {
	Dark     bool
	OpenDoor bool
}

// FogMap tracks visibility and open doors.
type FogMap struct {
	Grid[FogCell]
}

// Hits returns the initial dig durability of a map value.
func Hits(v MapValue) int {
	switch v {
	case MetalWall:
		return metalHits
	case Sand1:
		return 22
	case Sand2:
		return 23
	case Sand3:
		return 24
	case LightGravel:
		return 108
	case HeavyGravel:
		return 347
	case StoneTopLeft, StoneTopRight, StoneBottomRight, StoneBottomLeft:
		return 1227
	case Boulder:
		return 24
	case Stone1:
		return 2000
	case Stone2:
		return 2150
	case Stone3:
		return 2200
	case Stone4:
		return 2100
	case Plastic, Biomass:
		return 400
	case StoneLightCracked:
		return 1000
	case StoneHeavyCracked:
		return 500
	case Brick:
		return 8000
	case BrickLightCracked:
		return 4000
	case BrickHeavyCracked:
		return 2000
	}
	return 0
}

// metalHits marks indestructible metal.
const metalHits = 30000

// HitsMap builds the durability layer for the map.
func (m *LevelMap) HitsMap() HitsMap {
	h := HitsMap{Grid: newGrid[int]()}
	for i, v := range m.data {
		h.data[i] = Hits(v)
	}
	return h
}

// TimerMap builds the timer layer; biomass starts growing at a random time.
func (m *LevelMap) TimerMap(rng *rand.Rand) TimerMap {
	t := TimerMap{Grid: newGrid[int]()}
	for i, v := range m.data {
		if v == Biomass {
			t.data[i] = rng.Intn(30)
		}
	}
	return t
}

func newFogMap() FogMap {
	f := FogMap{Grid: newGrid[FogCell]()}
	for i := range f.data {
		f.data[i].Dark = true
	}
	return f
}
