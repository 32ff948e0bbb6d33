package world

// SoundEffect identifies one of the sampled effects of the game.
type SoundEffect uint8

const (
	SoundKili SoundEffect = iota
	SoundPicaxe
	SoundExplos1
	SoundExplos2
	SoundExplos3
	SoundExplos4
	SoundExplos5
	SoundAargh
	SoundKarjaisu
	SoundPikkupom
	SoundUrethan
)

// SoundEffectCount is the number of distinct effects.
const SoundEffectCount = 11

var soundNames = [SoundEffectCount]string{
	"KILI", "PICAXE", "EXPLOS1", "EXPLOS2", "EXPLOS3", "EXPLOS4", "EXPLOS5",
	"AARGH", "KARJAISU", "PIKKUPOM", "URETHAN",
}

// String returns the sample base name, e.g. "KILI".
func (s SoundEffect) String() string {
	if int(s) < SoundEffectCount {
		return soundNames[s]
	}
	return "?"
}

// SoundRequest asks the audio layer to play an effect at a playback
// frequency (Hz) from a map location (used for panning).
type SoundRequest struct {
	Effect    SoundEffect
	Frequency int
	Location  Cursor
}

// Pan maps the location column to 0 (left) .. 1 (right).
func (r SoundRequest) Pan() float64 {
	return float64(r.Location.Col) / float64(MapCols-1)
}

func (w *World) play(effect SoundEffect, frequency int, at Cursor) {
	w.sounds = append(w.sounds, SoundRequest{Effect: effect, Frequency: frequency, Location: at})
}

// DrainSounds returns and clears the queued sound requests.
func (w *World) DrainSounds() []SoundRequest {
	out := w.sounds
	w.sounds = nil
	return out
}
