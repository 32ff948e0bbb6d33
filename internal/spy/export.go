package spy

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/vovakirdan/minebombers/internal/core"
)

// Scale enlarges an image by an integer factor without smoothing.
func Scale(src image.Image, factor int) image.Image {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// EncodePNG writes img as PNG, scaled by factor.
func EncodePNG(w io.Writer, img image.Image, factor int) error {
	if err := png.Encode(w, Scale(img, factor)); err != nil {
		return fmt.Errorf("spy: encode png: %w", err)
	}
	return nil
}

// ExportPNG decodes the picture at src and writes it to dst as PNG.
func ExportPNG(src, dst string, factor int) error {
	img, err := Load(src)
	if err != nil {
		return err
	}
	f, err := os.Create(dst) //#nosec G304 -- user-chosen output path
	if err != nil {
		return fmt.Errorf("spy: create %s: %w", dst, err)
	}
	if err := EncodePNG(f, img, factor); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// terminalColors approximates the terminal palette.
var terminalColors = []struct {
	c   core.Color
	rgb color.RGBA
}{
	{core.ColorDefault, color.RGBA{0, 0, 0, 0xFF}},
	{core.ColorRed, color.RGBA{0xAA, 0, 0, 0xFF}},
	{core.ColorGreen, color.RGBA{0, 0xAA, 0, 0xFF}},
	{core.ColorBrown, color.RGBA{0x8B, 0x5A, 0x2B, 0xFF}},
	{core.ColorBlue, color.RGBA{0, 0, 0xAA, 0xFF}},
	{core.ColorMagenta, color.RGBA{0xAA, 0, 0xAA, 0xFF}},
	{core.ColorCyan, color.RGBA{0, 0xAA, 0xAA, 0xFF}},
	{core.ColorWhite, color.RGBA{0xAA, 0xAA, 0xAA, 0xFF}},
	{core.ColorDarkGray, color.RGBA{0x55, 0x55, 0x55, 0xFF}},
	{core.ColorBrightRed, color.RGBA{0xFF, 0x55, 0x55, 0xFF}},
	{core.ColorBrightGreen, color.RGBA{0x55, 0xFF, 0x55, 0xFF}},
	{core.ColorBrightYellow, color.RGBA{0xFF, 0xFF, 0x55, 0xFF}},
	{core.ColorBrightBlue, color.RGBA{0x55, 0x55, 0xFF, 0xFF}},
	{core.ColorBrightMagenta, color.RGBA{0xFF, 0x55, 0xFF, 0xFF}},
	{core.ColorBrightCyan, color.RGBA{0x55, 0xFF, 0xFF, 0xFF}},
	{core.ColorBrightWhite, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
	{core.ColorOrange, color.RGBA{0xFF, 0x87, 0, 0xFF}},
	{core.ColorSand, color.RGBA{0xD7, 0xAF, 0x5F, 0xFF}},
}

// NearestColor maps an RGB color to the closest terminal color.
func NearestColor(c color.Color) core.Color {
	r, g, b, _ := c.RGBA()
	best, bestDist := core.ColorDefault, -1
	for _, tc := range terminalColors {
		dr := int(r>>8) - int(tc.rgb.R)
		dg := int(g>>8) - int(tc.rgb.G)
		db := int(b>>8) - int(tc.rgb.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = tc.c, d
		}
	}
	return best
}

// Draw renders img into the screen using block characters: each cell
// samples the image at its center.
func Draw(s *core.Screen, img image.Image) {
	b := img.Bounds()
	w, h := s.Width(), s.Height()
	if w == 0 || h == 0 {
		return
	}
	for y := range h {
		for x := range w {
			px := b.Min.X + (2*x+1)*b.Dx()/(2*w)
			py := b.Min.Y + (2*y+1)*b.Dy()/(2*h)
			c := NearestColor(img.At(px, py))
			if c == core.ColorDefault {
				s.Set(x, y, ' ')
				continue
			}
			s.SetColor(x, y, '█', c)
		}
	}
}
