package gamedir

import (
	"fmt"
	"os"
)

// IdentitiesFile remembers which roster players took part in the last game.
const IdentitiesFile = "IDENTIFY.DAT"

// Identities holds the roster slot of each player position, -1 for none.
type Identities [4]int

// NoIdentities has every position unassigned.
var NoIdentities = Identities{-1, -1, -1, -1}

// ParseIdentities decodes IDENTIFY.DAT: one byte per position holding the
// 1-based roster slot, 0 for none.
func ParseIdentities(data []byte) Identities {
	ids := NoIdentities
	if len(data) != len(ids) {
		return ids
	}
	for i, b := range data {
		if b != 0 {
			ids[i] = min(int(b)-1, RosterSize-1)
		}
	}
	return ids
}

// Bytes encodes the identities in IDENTIFY.DAT format.
func (ids Identities) Bytes() []byte {
	out := make([]byte, len(ids))
	for i, idx := range ids {
		if idx >= 0 && idx < RosterSize {
			out[i] = byte(idx + 1)
		}
	}
	return out
}

// Identities loads IDENTIFY.DAT.
func (d *Dir) Identities() Identities {
	data, err := os.ReadFile(d.File(IdentitiesFile))
	if err != nil {
		return NoIdentities
	}
	return ParseIdentities(data)
}

// SaveIdentities writes IDENTIFY.DAT.
func (d *Dir) SaveIdentities(ids Identities) error {
	if err := os.WriteFile(d.File(IdentitiesFile), ids.Bytes(), 0o644); err != nil { //#nosec G306 -- game data, not secret
		return fmt.Errorf("gamedir: save identities: %w", err)
	}
	return nil
}
