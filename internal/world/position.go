package world

import "iter"

// Map dimensions in cells.
const (
	MapCols = 64
	MapRows = 45
)

// Direction is a facing direction of an actor or a flying grenade.
type Direction uint8

const (
	DirRight Direction = iota
	DirLeft
	DirUp
	DirDown
)

// Directions lists all directions in their canonical order.
var Directions = [4]Direction{DirRight, DirLeft, DirUp, DirDown}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	default:
		return DirUp
	}
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	}
	return "unknown"
}

// Position is a pixel position on the map. The center of the cell at
// row 0, column 0 is (5, 35).
type Position struct {
	X, Y int
}

// Step moves the position by one pixel.
func (p *Position) Step(d Direction) {
	switch d {
	case DirLeft:
		p.X--
	case DirRight:
		p.X++
	case DirUp:
		p.Y--
	case DirDown:
		p.Y++
	}
}

// CenterOrthogonal snaps the coordinate orthogonal to d to the cell center.
func (p *Position) CenterOrthogonal(d Direction) {
	switch d {
	case DirLeft, DirRight:
		p.Y = (p.Y/10)*10 + 5
	default:
		p.X = (p.X/10)*10 + 5
	}
}

// Cursor converts the pixel position into a map cell.
func (p Position) Cursor() Cursor {
	return Cursor{Row: (p.Y - 30) / 10, Col: p.X / 10}
}

// Cursor is a map cell coordinate.
type Cursor struct {
	Row, Col int
}

// Position returns the pixel center of the cell.
func (c Cursor) Position() Position {
	return Position{X: c.Col*10 + 5, Y: c.Row*10 + 35}
}

// To returns the neighbour cell in the given direction, staying on the map.
func (c Cursor) To(d Direction) Cursor {
	switch d {
	case DirLeft:
		if c.Col > 0 {
			c.Col--
		}
	case DirRight:
		if c.Col < MapCols-1 {
			c.Col++
		}
	case DirUp:
		if c.Row > 0 {
			c.Row--
		}
	case DirDown:
		if c.Row < MapRows-1 {
			c.Row++
		}
	}
	return c
}

// Offset shifts the cursor. The result is rejected when it lands on the
// border or outside of the map.
func (c Cursor) Offset(dRow, dCol int) (Cursor, bool) {
	row, col := c.Row+dRow, c.Col+dCol
	if row > 0 && row < MapRows-1 && col > 0 && col < MapCols-1 {
		return Cursor{Row: row, Col: col}, true
	}
	return c, false
}

// OffsetClamp shifts the cursor and clamps the result to the map.
func (c Cursor) OffsetClamp(dRow, dCol int) Cursor {
	return Cursor{
		Row: clamp(c.Row+dRow, 0, MapRows-1),
		Col: clamp(c.Col+dCol, 0, MapCols-1),
	}
}

// Distance returns the absolute row and column distance to other.
func (c Cursor) Distance(other Cursor) (int, int) {
	return abs(c.Row - other.Row), abs(c.Col - other.Col)
}

// IsOnBorder reports whether the cell is part of the outer metal frame.
func (c Cursor) IsOnBorder() bool {
	return c.Row == 0 || c.Col == 0 || c.Row == MapRows-1 || c.Col == MapCols-1
}

func (c Cursor) index() int {
	return c.Row*MapCols + c.Col
}

// AllCursors iterates over every map cell in row-major order.
func AllCursors() iter.Seq[Cursor] {
	return func(yield func(Cursor) bool) {
		for row := 0; row < MapRows; row++ {
			for col := 0; col < MapCols; col++ {
				if !yield(Cursor{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

// InnerCursors iterates over every cell that is not on the border.
func InnerCursors() iter.Seq[Cursor] {
	return func(yield func(Cursor) bool) {
		for row := 1; row < MapRows-1; row++ {
			for col := 1; col < MapCols-1; col++ {
				if !yield(Cursor{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
