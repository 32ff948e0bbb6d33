package gamedir

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Names in the DOS data files are code page 437.

func decodeName(b []byte) string {
	s, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return strings.TrimRight(string(s), "\x00")
}

// encodeName converts a name to code page 437, replacing unmappable runes
// and truncating to max bytes.
func encodeName(name string, max int) []byte {
	out := make([]byte, 0, len(name))
	for _, r := range name {
		b, ok := charmap.CodePage437.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
		if len(out) == max {
			break
		}
	}
	return out
}
