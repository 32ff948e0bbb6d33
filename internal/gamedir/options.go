package gamedir

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"
)

// OptionsFile is the binary settings file of the original game.
const OptionsFile = "OPTIONS.CFG"

const optionsSize = 17

// WinCondition decides the tournament winner.
type WinCondition uint8

const (
	WinByMoney WinCondition = iota
	WinByWins
)

// String returns "wins" or "money".
func (w WinCondition) String() string {
	if w == WinByWins {
		return "wins"
	}
	return "money"
}

// Options are the game settings stored in OPTIONS.CFG.
type Options struct {
	Players    int
	Treasures  int
	Rounds     int
	Cash       int
	RoundTime  time.Duration
	Speed      int
	Darkness   bool
	FreeMarket bool
	Selling    bool
	Win        WinCondition
	BombDamage int
}

// DefaultOptions are used when OPTIONS.CFG is missing or malformed.
func DefaultOptions() Options {
	return Options{
		Players:    2,
		Treasures:  45,
		Rounds:     15,
		Cash:       750,
		RoundTime:  420 * time.Second,
		Speed:      8,
		Win:        WinByMoney,
		BombDamage: 100,
	}
}

// Clamp limits every field to the range the game supports.
func (o *Options) Clamp() {
	if o.Players > 4 || o.Players < 1 {
		o.Players = 2
	}
	o.Treasures = min(max(o.Treasures, 0), 75)
	o.Rounds = min(max(o.Rounds, 1), 55)
	o.Cash = min(max(o.Cash, 0), 2650)
	o.Speed = min(max(o.Speed, 0), 33)
	o.BombDamage = min(max(o.BombDamage, 0), 100)
	if o.RoundTime < 0 {
		o.RoundTime = 0
	}
}

// TickPercent is the share of frames that advance the world: each point of
// speed slows the game down by 3%.
func (o Options) TickPercent() int {
	return 100 - 3*o.Speed
}

// ParseOptions decodes OPTIONS.CFG. Data of the wrong size yields defaults.
func ParseOptions(data []byte) Options {
	if len(data) != optionsSize {
		return DefaultOptions()
	}
	le := binary.LittleEndian
	o := Options{
		Players:    int(data[0]),
		Treasures:  int(data[1]),
		Rounds:     int(le.Uint16(data[2:])),
		Cash:       int(le.Uint16(data[4:])),
		RoundTime:  ticksToDuration(le.Uint32(data[6:])),
		Speed:      int(le.Uint16(data[10:])),
		Darkness:   data[12] != 0,
		FreeMarket: data[13] != 0,
		Selling:    data[14] != 0,
		Win:        WinByMoney,
		BombDamage: int(data[16]),
	}
	if data[15] != 0 {
		o.Win = WinByWins
	}
	o.Clamp()
	return o
}

// Bytes encodes the options in OPTIONS.CFG format. Fields are expected to
// be clamped.
func (o Options) Bytes() []byte {
	le := binary.LittleEndian
	buf := make([]byte, 0, optionsSize)
	buf = append(buf, byte(o.Players), byte(o.Treasures))
	buf = le.AppendUint16(buf, uint16(o.Rounds))
	buf = le.AppendUint16(buf, uint16(o.Cash))
	buf = le.AppendUint32(buf, durationToTicks(o.RoundTime))
	buf = le.AppendUint16(buf, uint16(o.Speed))
	buf = append(buf, boolByte(o.Darkness), boolByte(o.FreeMarket), boolByte(o.Selling))
	buf = append(buf, boolByte(o.Win == WinByWins), byte(o.BombDamage))
	return buf
}

// Options reads OPTIONS.CFG; a missing or short file yields defaults.
func (d *Dir) Options() Options {
	data, err := os.ReadFile(d.File(OptionsFile))
	if err != nil {
		return DefaultOptions()
	}
	return ParseOptions(data)
}

// SaveOptions writes OPTIONS.CFG.
func (d *Dir) SaveOptions(o Options) error {
	if err := os.WriteFile(d.File(OptionsFile), o.Bytes(), 0o644); err != nil { //#nosec G306 -- game data, not secret
		return fmt.Errorf("gamedir: save options: %w", err)
	}
	return nil
}

// The original stored times in ticks of the 18.2 Hz PC timer.
func ticksToDuration(v uint32) time.Duration {
	return time.Duration(uint64(v)*10/182) * time.Second
}

func durationToTicks(d time.Duration) uint32 {
	return uint32(uint64(d/time.Second) * 182 / 10) //#nosec G115 -- round time fits
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
