package world

import "math/rand"

var randomTreasures = []MapValue{
	SmallPickaxe, LargePickaxe, Drill,
	GoldShield, GoldEgg, GoldPileCoins, GoldBracelet, GoldBar,
	GoldCross, GoldScepter, GoldRubin, GoldCrown, Diamond,
}

var randomTreasureWeights = []int{18, 12, 8, 200, 200, 200, 200, 200, 180, 160, 140, 80, 3}

// RandomMap generates a level with stone chunks, gravel, treasures and a
// few random items, framed by metal walls.
func RandomMap(rng *rand.Rand, treasures int) *LevelMap {
	m := EmptyMap()
	m.generateStone(rng)
	m.finalize(rng)
	m.generateTreasures(rng, treasures)
	m.generateItems(rng)
	m.generateBorders()
	return m
}

func (m *LevelMap) generateStone(rng *rand.Rand) {
	chunks := 29 + rng.Intn(11)
	for i := 0; i < chunks; i++ {
		m.generateStoneChunk(rng)
	}
}

// stoneShapes are cell offsets (row, col) of the chunk templates.
var stoneShapes = [10][][2]int{
	{{0, 0}},
	{{0, 0}, {1, 0}},
	{{0, 0}, {-1, 0}},
	{{0, 0}, {0, 1}},
	{{0, 0}, {-1, 0}, {1, 0}},
	{{0, 0}, {-1, 0}, {1, 0}, {0, -1}},
	{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}},
	{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}},
	{{-1, 0}, {1, 0}, {0, -1}, {-1, -1}, {1, 1}, {1, -1}, {-1, 1}},
	{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, 1}, {1, -1}, {-1, 1}},
}

func (m *LevelMap) generateStoneChunk(rng *rand.Rand) {
	col := 1 + rng.Intn(MapCols-2)
	row := 1 + rng.Intn(MapRows-2)
	for {
		for _, d := range stoneShapes[rng.Intn(len(stoneShapes))] {
			r, c := row+d[0], col+d[1]
			if r >= 0 && r < MapRows && c >= 0 && c < MapCols {
				m.Set(Cursor{Row: r, Col: c}, Stone1)
			}
		}

		if rng.Intn(100) > 93+rng.Intn(10) {
			break
		}
		row = randomOffset(rng, row, MapRows)
		col = randomOffset(rng, col, MapCols)
	}
}

// randomOffset moves a coordinate by -1, 0 or 1, keeping two cells away
// from the border.
func randomOffset(rng *rand.Rand, coord, max int) int {
	switch {
	case coord < 2:
		return coord + 1
	case coord >= max-2:
		return coord - 1
	}
	return coord + 1 - rng.Intn(3)
}

func (m *LevelMap) neighbours(c Cursor) (right, down, left, up MapValue) {
	return m.At(c.To(DirRight)), m.At(c.To(DirDown)), m.At(c.To(DirLeft)), m.At(c.To(DirUp))
}

// cornerFor picks a rounded corner when two adjacent sides are solid and
// the other two are open.
func cornerFor(right, down, left, up bool, leftOpen, upOpen, rightOpen, downOpen bool) (MapValue, bool) {
	switch {
	case right && down && leftOpen && upOpen:
		return StoneTopLeft, true
	case right && up && leftOpen && downOpen:
		return StoneBottomLeft, true
	case left && down && rightOpen && upOpen:
		return StoneTopRight, true
	case left && up && rightOpen && downOpen:
		return StoneBottomRight, true
	}
	return 0, false
}

func (m *LevelMap) finalize(rng *rand.Rand) {
	// lonely stones
	for c := range InnerCursors() {
		r, d, l, u := m.neighbours(c)
		if m.At(c).IsStoneLike() && r == Passage && d == Passage && l == Passage && u == Passage {
			m.Set(c, Boulder)
		}
	}

	// passages wedged into a stone corner
	for c := range InnerCursors() {
		if m.At(c) != Passage {
			continue
		}
		r, d, l, u := m.neighbours(c)
		if v, ok := cornerFor(r == Stone1, d == Stone1, l == Stone1, u == Stone1,
			l == Passage, u == Passage, r == Passage, d == Passage); ok {
			m.Set(c, v)
		}
	}

	// rounded stone edges
	for c := range InnerCursors() {
		if m.At(c) != Stone1 {
			continue
		}
		r, d, l, u := m.neighbours(c)
		if v, ok := cornerFor(r.IsStoneLike(), d.IsStoneLike(), l.IsStoneLike(), u.IsStoneLike(),
			l == Passage, u == Passage, r == Passage, d == Passage); ok {
			m.Set(c, v)
		}
	}

	stones := []MapValue{Stone1, Stone2, Stone3, Stone4}
	sands := []MapValue{Sand1, Sand2, Sand3}
	for i, v := range m.data {
		switch v {
		case Stone1:
			m.data[i] = stones[rng.Intn(len(stones))]
		case Passage:
			m.data[i] = sands[rng.Intn(len(sands))]
		}
	}

	for i := 0; i < 300; i++ {
		c := m.PickRandomCoord(rng, MapValue.IsSand)
		if rng.Intn(2) == 0 {
			m.Set(c, LightGravel)
		} else {
			m.Set(c, HeavyGravel)
		}
	}
}

func weightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

func (m *LevelMap) generateTreasures(rng *rand.Rand, treasures int) {
	inStone := 0
	for i := 0; i < treasures; i++ {
		item := randomTreasures[weightedIndex(rng, randomTreasureWeights)]

		// after 20 treasures went into stone the rest are scattered
		if inStone > 20 {
			c := Cursor{Row: rng.Intn(MapRows), Col: rng.Intn(MapCols)}
			if m.At(c) != MetalWall {
				m.Set(c, item)
			}
			continue
		}
		m.Set(m.PickRandomCoord(rng, MapValue.IsStone), item)
		inStone++
	}
}

func (m *LevelMap) generateItems(rng *rand.Rand) {
	for rng.Intn(100) > 70 {
		m.Set(randomCoord(rng), Boulder)
	}
	for rng.Intn(100) > 70 {
		m.Set(randomCoord(rng), WeaponsCrate)
	}
	for rng.Intn(100) > 65 {
		m.Set(randomCoord(rng), Medikit)
	}
	for rng.Intn(100) > 70 {
		m.Set(randomCoord(rng), Teleport)
		m.Set(randomCoord(rng), Teleport)
	}
}

func (m *LevelMap) generateBorders() {
	for row := 0; row < MapRows; row++ {
		m.Set(Cursor{Row: row, Col: 0}, MetalWall)
		m.Set(Cursor{Row: row, Col: MapCols - 1}, MetalWall)
	}
	for col := 0; col < MapCols; col++ {
		m.Set(Cursor{Row: 0, Col: col}, MetalWall)
		m.Set(Cursor{Row: MapRows - 1, Col: col}, MetalWall)
	}
}

func randomCoord(rng *rand.Rand) Cursor {
	return Cursor{Row: 1 + rng.Intn(MapRows-2), Col: 1 + rng.Intn(MapCols-2)}
}

// PickRandomCoord scans forward from a random inner cell, wrapping around
// the map, until pred matches. After a full scan the last cursor is returned.
func (m *LevelMap) PickRandomCoord(rng *rand.Rand, pred func(MapValue) bool) Cursor {
	c := randomCoord(rng)
	for i := 0; i < MapRows*MapCols; i++ {
		if pred(m.At(c)) {
			break
		}
		if c.Col < MapCols-1 {
			c.Col++
		} else {
			c.Col = 0
			c.Row++
		}
		if c.Row > MapRows-1 {
			c = randomCoord(rng)
		}
	}
	return c
}

// GenerateEntrances carves corridors from the corners where players spawn.
// The top-right and bottom-left corners are opened for more than two players.
func (m *LevelMap) GenerateEntrances(rng *rand.Rand, players int) {
	length := func() int { return 4 + rng.Intn(6) }
	carve := func(row, col int) { m.Set(Cursor{Row: row, Col: col}, Passage) }

	// top left
	for n, col := length(), 1; col <= n; col++ {
		carve(1, col)
	}
	for n, row := length(), 1; row <= n; row++ {
		carve(row, 1)
	}

	// bottom right
	for n, col := length(), 1; col <= n; col++ {
		carve(MapRows-2, MapCols-1-col)
	}
	for n, row := length(), 1; row <= n; row++ {
		carve(MapRows-1-row, MapCols-2)
	}

	if players <= 2 {
		return
	}

	// top right
	for n, col := length(), 1; col <= n; col++ {
		carve(1, MapCols-1-col)
	}
	for n, row := length(), 1; row <= n; row++ {
		carve(row, MapCols-2)
	}

	// bottom left
	for n, col := length(), 1; col <= n; col++ {
		carve(MapRows-2, col)
	}
	for n, row := length(), 1; row <= n; row++ {
		carve(MapRows-1-row, 1)
	}
}
