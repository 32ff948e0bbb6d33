// Package spy decodes the image formats of the original game: full-screen
// SPY pictures and PPM sprite sheets.
package spy

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
)

// Screen dimensions of every SPY picture.
const (
	Width  = 640
	Height = 480
)

const paletteSize = 768

var (
	// ErrInvalidSpy is returned for data that is not a SPY picture.
	ErrInvalidSpy = errors.New("spy: not a valid SPY file")
	// ErrInvalidPpm is returned for data that is not a PPM sprite sheet.
	ErrInvalidPpm = errors.New("spy: not a valid PPM file")
)

// DecodeSpy decodes a 640x480 SPY picture. The file is a 768-byte palette
// followed by four run-length coded bitplanes, one per bit of the 16-color
// pixel index.
func DecodeSpy(data []byte) (*image.Paletted, error) {
	if len(data) < paletteSize {
		return nil, ErrInvalidSpy
	}
	pal := decodePalette(data[:paletteSize], 16)
	r := &planeReader{data: data[paletteSize:]}

	planeLen := Width * Height / 8
	var planes [4][]byte
	for i := range planes {
		p, err := r.plane(planeLen)
		if err != nil {
			return nil, err
		}
		planes[i] = p
	}

	img := image.NewPaletted(image.Rect(0, 0, Width, Height), pal)
	for idx := range planeLen {
		for bit := 7; bit >= 0; bit-- {
			var c uint8
			for n, p := range planes {
				c |= (p[idx] >> bit & 1) << n
			}
			img.Pix[idx*8+7-bit] = c
		}
	}
	return img, nil
}

type planeReader struct {
	data []byte
	pos  int
}

func (r *planeReader) next() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrInvalidSpy
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// plane reads one bitplane. A 1 byte starts a run: value then count.
// Anything else is a literal.
func (r *planeReader) plane(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		v, err := r.next()
		if err != nil {
			return nil, err
		}
		if v != 1 {
			out = append(out, v)
			continue
		}
		if v, err = r.next(); err != nil {
			return nil, err
		}
		count, err := r.next()
		if err != nil {
			return nil, err
		}
		for range count {
			out = append(out, v)
		}
	}
	// runs may overshoot the plane
	return out[:n], nil
}

// DecodePpm decodes a PPM sprite sheet: a 128-byte header, run-length
// coded rows of 8-bit color indices, a marker byte and a trailing 768-byte
// palette.
func DecodePpm(data []byte) (*image.Paletted, error) {
	if len(data) < 128+paletteSize+1 {
		return nil, ErrInvalidPpm
	}
	fromY := int(data[6]) | int(data[7])<<8
	toY := int(data[10]) | int(data[11])<<8
	width := int(data[0x42]) | int(data[0x43])<<8
	height := toY - fromY
	if height < 0 || width == 0 {
		return nil, ErrInvalidPpm
	}

	pal := decodePalette(data[len(data)-paletteSize:], 256)
	body := data[128 : len(data)-paletteSize-1]
	img := image.NewPaletted(image.Rect(0, 0, width, height), pal)

	pos := 0
	for y := range height {
		row := img.Pix[y*img.Stride:][:width]
		x := 0
		for x < width {
			if pos >= len(body) {
				return nil, ErrInvalidPpm
			}
			v := body[pos]
			pos++
			if v&0xC0 != 0xC0 {
				row[x] = v
				x++
				continue
			}
			n := int(v & 0x3F)
			if pos >= len(body) || x+n > width {
				return nil, ErrInvalidPpm
			}
			c := body[pos]
			pos++
			for i := range n {
				row[x+i] = c
			}
			x += n
		}
	}
	return img, nil
}

func decodePalette(data []byte, n int) color.Palette {
	pal := make(color.Palette, n)
	for i := range pal {
		pal[i] = color.RGBA{R: data[i*3], G: data[i*3+1], B: data[i*3+2], A: 0xFF}
	}
	return pal
}

// Load reads a picture, choosing the decoder by file extension.
func Load(path string) (*image.Paletted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spy: read image: %w", err)
	}
	var img *image.Paletted
	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		img, err = DecodePpm(data)
	} else {
		img, err = DecodeSpy(data)
	}
	if err != nil {
		return nil, fmt.Errorf("spy: %s: %w", path, err)
	}
	return img, nil
}
