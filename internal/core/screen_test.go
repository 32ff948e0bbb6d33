package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(64, 45)

	if s.Width() != 64 || s.Height() != 45 {
		t.Fatalf("size = %dx%d, expected 64x45", s.Width(), s.Height())
	}
	if got := strings.Count(s.String(), " "); got != 64*45 {
		t.Errorf("blank cells = %d, expected %d", got, 64*45)
	}
}

func TestScreenSetColorClips(t *testing.T) {
	s := NewScreen(4, 3)

	tests := []struct {
		name string
		x, y int
		in   bool
	}{
		{"origin", 0, 0, true},
		{"last cell", 3, 2, true},
		{"left", -1, 0, false},
		{"right", 4, 0, false},
		{"above", 0, -1, false},
		{"below", 0, 3, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s.SetColor(tc.x, tc.y, '@', ColorOrange)
			got := s.GetCell(tc.x, tc.y)
			want := blank
			if tc.in {
				want = Cell{Rune: '@', Color: ColorOrange}
			}
			if got != want {
				t.Errorf("GetCell(%d, %d) = %+v, expected %+v", tc.x, tc.y, got, want)
			}
		})
	}
}

func TestScreenResizeKeepsContent(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawText(0, 1, "def")

	s.Resize(2, 3)
	if got := s.String(); got != "ab\nde\n  " {
		t.Errorf("after shrink/grow = %q", got)
	}

	s.Resize(4, 3)
	if got := s.Row(0); got != "ab  " {
		t.Errorf("Row(0) = %q, expected %q", got, "ab  ")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(5, 2)
	s.FillRect(NewRect(0, 0, 5, 2), Cell{Rune: '#', Color: ColorSand})

	s.Clear()
	if got := s.String(); got != "     \n     " {
		t.Errorf("after Clear = %q", got)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)

	s.DrawTextColor(7, 0, "$1500", ColorYellow)
	if got := s.Row(0); got != "       $15" {
		t.Errorf("clipped row = %q", got)
	}
	if c := s.GetCell(8, 0); c.Color != ColorYellow {
		t.Errorf("text color = %v, expected yellow", c.Color)
	}

	s.DrawTextCentered(1, "ready")
	if got := s.Row(1); got != "  ready   " {
		t.Errorf("centered row = %q", got)
	}
}

func TestScreenFrame(t *testing.T) {
	s := NewScreen(6, 4)
	r := NewRect(0, 0, 6, 4).Centered(4, 3)
	s.FillRect(r, Cell{Rune: '.'})
	s.Frame(r, ColorBrightWhite)

	expected := strings.Join([]string{
		" ┌──┐ ",
		" │..│ ",
		" └──┘ ",
		"      ",
	}, "\n")
	if got := s.String(); got != expected {
		t.Errorf("framed screen:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestScreenRowOutOfRange(t *testing.T) {
	s := NewScreen(3, 1)
	if got := s.Row(5); got != "   " {
		t.Errorf("Row(5) = %q", got)
	}
}
