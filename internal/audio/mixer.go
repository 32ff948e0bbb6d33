package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/wav"

	"github.com/vovakirdan/minebombers/internal/world"
)

// MixerRate is the output rate of the mixer.
const MixerRate beep.SampleRate = 22050

// Format is the output format of the mixer and of exported WAV files.
var Format = beep.Format{SampleRate: MixerRate, NumChannels: 2, Precision: 2}

const resampleQuality = 4

// Effects holds the loaded samples, indexed by world.SoundEffect. Missing
// files leave a nil entry.
type Effects [world.SoundEffectCount]*Sample

// LoadEffects loads <NAME>.VOC for every effect from dir. Absent files are
// logged and skipped; malformed files are an error.
func LoadEffects(dir string, logger *log.Logger) (*Effects, error) {
	var fx Effects
	for i := range fx {
		name := world.SoundEffect(i).String() + ".VOC"
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if logger != nil {
				logger.Debug("sound effect missing", "file", name)
			}
			continue
		}
		s, err := LoadSample(path)
		if err != nil {
			return nil, err
		}
		fx[i] = s
	}
	return &fx, nil
}

// Voice plays a sample at the given playback frequency, resampled to the
// mixer rate. Frequencies other than the native rate change the pitch.
func Voice(s *Sample, frequency int, pan float64) beep.Streamer {
	if frequency <= 0 {
		frequency = int(s.Rate)
	}
	var stream beep.Streamer = s.Streamer()
	if beep.SampleRate(frequency) != MixerRate {
		stream = beep.Resample(resampleQuality, beep.SampleRate(frequency), MixerRate, stream)
	}
	return &effects.Pan{Streamer: stream, Pan: pan}
}

// Mixer mixes the sounds requested by the simulation.
type Mixer struct {
	fx    *Effects
	mixer beep.Mixer
}

// NewMixer creates a mixer over the loaded effects.
func NewMixer(fx *Effects) *Mixer {
	return &Mixer{fx: fx}
}

// Play queues the requests of one tick. Requests for missing effects are
// dropped.
func (m *Mixer) Play(reqs []world.SoundRequest) {
	for _, r := range reqs {
		if int(r.Effect) >= len(m.fx) {
			continue
		}
		s := m.fx[r.Effect]
		if s == nil || len(s.Data) == 0 {
			continue
		}
		// 0..1 from the map column to -1..1
		m.mixer.Add(Voice(s, r.Frequency, 2*r.Pan()-1))
	}
}

// Active returns the number of sounds still playing.
func (m *Mixer) Active() int {
	return m.mixer.Len()
}

// Render mixes the next d of audio. Silence is produced when nothing plays.
func (m *Mixer) Render(d time.Duration) *beep.Buffer {
	buf := beep.NewBuffer(Format)
	buf.Append(beep.Take(MixerRate.N(d), &m.mixer))
	return buf
}

// Clear stops every sound.
func (m *Mixer) Clear() {
	m.mixer.Clear()
}

// EncodeWAV writes a streamer as WAV in the mixer format.
func EncodeWAV(w io.WriteSeeker, s beep.Streamer) error {
	if err := wav.Encode(w, s, Format); err != nil {
		return fmt.Errorf("audio: encode wav: %w", err)
	}
	return nil
}

// ExportWAV converts a VOC file to WAV, played at frequency Hz (0 keeps the
// sample's own rate).
func ExportWAV(src, dst string, frequency int) error {
	s, err := LoadSample(src)
	if err != nil {
		return err
	}
	f, err := os.Create(dst) //#nosec G304 -- user-chosen output path
	if err != nil {
		return fmt.Errorf("audio: create %s: %w", dst, err)
	}
	if err := EncodeWAV(f, Voice(s, frequency, 0)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
