package core

// Color is the foreground color of a screen cell.
type Color uint8

// Colors of map cells, actors and panels. The original palette is mapped
// onto the nearest ANSI 256-color codes.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
	ColorBrown
	ColorSand

	NumColors = iota
)

var ansiCodes = [NumColors]string{
	"", "1", "2", "3", "4", "5", "6", "7",
	"9", "10", "11", "12", "13", "14", "15",
	"208", "245", "238", "130", "180",
}

// ANSI returns the 256-color code of c, or "" for the terminal default.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}
