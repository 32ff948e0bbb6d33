package gamedir

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/vovakirdan/minebombers/internal/world"
)

// RosterFile holds the persistent player statistics.
const RosterFile = "PLAYERS.DAT"

const (
	// RosterSize is the number of roster slots.
	RosterSize = 32
	recordSize = 101
	nameField  = 24
)

// Roster is the table of known players. Empty slots are nil.
type Roster struct {
	Players [RosterSize]*world.Stats
}

// ParseRoster decodes PLAYERS.DAT. Data of the wrong size yields an empty
// roster.
func ParseRoster(data []byte) *Roster {
	r := &Roster{}
	if len(data) != RosterSize*recordSize {
		return r
	}
	for i := range r.Players {
		rec := data[i*recordSize:][:recordSize]
		// zero marks an active record
		if rec[0] != 0 {
			continue
		}
		s := &world.Stats{}
		n := min(int(rec[1]), nameField)
		s.Name = decodeName(rec[2 : 2+n])

		counters := rec[26:66]
		for j, ptr := range s.Counters() {
			*ptr = binary.LittleEndian.Uint32(counters[j*4:])
		}
		copy(s.History[:], rec[66:66+world.HistoryLen])
		r.Players[i] = s
	}
	return r
}

// Bytes encodes the roster in PLAYERS.DAT format.
func (r *Roster) Bytes() []byte {
	out := make([]byte, 0, RosterSize*recordSize)
	for _, s := range r.Players {
		if s == nil {
			out = append(out, 1)
			out = append(out, make([]byte, recordSize-1)...)
			continue
		}
		name := encodeName(s.Name, nameField)
		out = append(out, 0, byte(len(name)))
		out = append(out, name...)
		out = append(out, make([]byte, nameField-len(name))...)
		for _, ptr := range s.Counters() {
			out = binary.LittleEndian.AppendUint32(out, *ptr)
		}
		out = append(out, s.History[:]...)
		out = append(out, 0)
	}
	return out
}

// Find returns the slot of the player with the given name, or -1.
func (r *Roster) Find(name string) int {
	for i, s := range r.Players {
		if s != nil && s.Name == name {
			return i
		}
	}
	return -1
}

// Add stores a new player in the first free slot and returns it, or -1 when
// the roster is full.
func (r *Roster) Add(name string) int {
	for i, s := range r.Players {
		if s == nil {
			r.Players[i] = &world.Stats{Name: name}
			return i
		}
	}
	return -1
}

// Remove frees a slot.
func (r *Roster) Remove(idx int) {
	if idx >= 0 && idx < RosterSize {
		r.Players[idx] = nil
	}
}

// Roster loads PLAYERS.DAT. A missing file yields an empty roster.
func (d *Dir) Roster() (*Roster, error) {
	data, err := os.ReadFile(d.File(RosterFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &Roster{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gamedir: load roster: %w", err)
	}
	return ParseRoster(data), nil
}

// SaveRoster writes PLAYERS.DAT.
func (d *Dir) SaveRoster(r *Roster) error {
	if err := os.WriteFile(d.File(RosterFile), r.Bytes(), 0o644); err != nil { //#nosec G306 -- game data, not secret
		return fmt.Errorf("gamedir: save roster: %w", err)
	}
	return nil
}
