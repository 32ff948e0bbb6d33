package gamedir

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
)

// HighscoreFile holds the campaign hall of fame.
const HighscoreFile = "HIGHSCOR.DAT"

const (
	// HighscoreSlots is the number of entries kept.
	HighscoreSlots = 10
	scoreSize      = 26
	scoreName      = 18
)

// Score is a campaign result.
type Score struct {
	Name  string
	Level int
	Cash  uint32
}

// Highscores is the table of best campaign results, best first. Empty
// slots are nil.
type Highscores struct {
	Scores [HighscoreSlots]*Score
}

// ParseHighscores decodes HIGHSCOR.DAT. Data of the wrong size yields an
// empty table.
func ParseHighscores(data []byte) *Highscores {
	h := &Highscores{}
	if len(data) != HighscoreSlots*scoreSize {
		return h
	}
	for i := range h.Scores {
		rec := data[i*scoreSize:][:scoreSize]
		n := min(int(rec[0]), 20)
		if n <= 2 {
			continue
		}
		// names carry a "1 " player prefix
		h.Scores[i] = &Score{
			Name:  decodeName(rec[3 : 3+n-2]),
			Level: int(rec[21]),
			Cash:  binary.LittleEndian.Uint32(rec[22:]),
		}
	}
	return h
}

// Bytes encodes the table in HIGHSCOR.DAT format.
func (h *Highscores) Bytes() []byte {
	out := make([]byte, 0, HighscoreSlots*scoreSize)
	for _, s := range h.Scores {
		if s == nil {
			out = append(out, make([]byte, scoreSize)...)
			continue
		}
		name := encodeName(s.Name, scoreName)
		out = append(out, byte(len(name)+2), '1', ' ')
		out = append(out, name...)
		out = append(out, make([]byte, scoreName-len(name))...)
		out = append(out, byte(min(max(s.Level, 0), 255)))
		out = binary.LittleEndian.AppendUint32(out, s.Cash)
	}
	return out
}

// Qualifies reports whether cash would enter the table.
func (h *Highscores) Qualifies(cash uint32) bool {
	last := h.Scores[HighscoreSlots-1]
	return last == nil || cash > last.Cash
}

// Insert adds a score keeping the table sorted by cash, descending. It
// returns the rank (0-based) or -1 when the score did not make the table.
func (h *Highscores) Insert(s Score) int {
	if !h.Qualifies(s.Cash) {
		return -1
	}
	entries := make([]*Score, 0, HighscoreSlots+1)
	for _, e := range h.Scores {
		if e != nil {
			entries = append(entries, e)
		}
	}
	entries = append(entries, &s)
	slices.SortStableFunc(entries, func(a, b *Score) int {
		switch {
		case a.Cash > b.Cash:
			return -1
		case a.Cash < b.Cash:
			return 1
		}
		return 0
	})

	h.Scores = [HighscoreSlots]*Score{}
	rank := -1
	for i, e := range entries {
		if i == HighscoreSlots {
			break
		}
		h.Scores[i] = e
		if e == &s {
			rank = i
		}
	}
	return rank
}

// Highscores loads HIGHSCOR.DAT. A missing file yields an empty table.
func (d *Dir) Highscores() (*Highscores, error) {
	data, err := os.ReadFile(d.File(HighscoreFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &Highscores{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gamedir: load high scores: %w", err)
	}
	return ParseHighscores(data), nil
}

// SaveHighscores writes HIGHSCOR.DAT.
func (d *Dir) SaveHighscores(h *Highscores) error {
	if err := os.WriteFile(d.File(HighscoreFile), h.Bytes(), 0o644); err != nil { //#nosec G306 -- game data, not secret
		return fmt.Errorf("gamedir: save high scores: %w", err)
	}
	return nil
}
