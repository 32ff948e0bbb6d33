// Package audio turns the game's VOC sound effects into beep streams. It
// mixes the sounds a round asks for and can export them as WAV; it never
// opens an audio device.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
)

// RawRate is the playback rate assumed for headerless samples.
const RawRate = 9600

var vocMagic = []byte("Creative Voice File\x1a")

// ErrInvalidVoc is returned for malformed Creative Voice files.
var ErrInvalidVoc = errors.New("audio: not a valid VOC file")

// Sample is an unsigned 8-bit mono sound.
type Sample struct {
	Rate beep.SampleRate
	Data []byte
}

// ParseVOC decodes a sound effect. Files with a Creative Voice header are
// read block by block; anything else is taken as raw unsigned 8-bit data.
func ParseVOC(data []byte) (*Sample, error) {
	if !bytes.HasPrefix(data, vocMagic) {
		return &Sample{Rate: RawRate, Data: data}, nil
	}
	if len(data) < 26 {
		return nil, ErrInvalidVoc
	}
	pos := int(binary.LittleEndian.Uint16(data[20:]))
	s := &Sample{Rate: RawRate}

	for pos < len(data) {
		kind := data[pos]
		if kind == 0 {
			break
		}
		if pos+4 > len(data) {
			return nil, ErrInvalidVoc
		}
		size := int(data[pos+1]) | int(data[pos+2])<<8 | int(data[pos+3])<<16
		body := data[pos+4:]
		if size > len(body) {
			return nil, ErrInvalidVoc
		}
		body = body[:size]
		pos += 4 + size

		switch kind {
		case 1: // sound data
			if size < 2 {
				return nil, ErrInvalidVoc
			}
			if body[1] != 0 {
				return nil, fmt.Errorf("%w: unsupported codec %d", ErrInvalidVoc, body[1])
			}
			s.Rate = beep.SampleRate(1000000 / (256 - int(body[0])))
			s.Data = append(s.Data, body[2:]...)
		case 2: // continuation
			s.Data = append(s.Data, body...)
		}
	}
	return s, nil
}

// LoadSample reads a VOC file from disk.
func LoadSample(path string) (*Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("audio: read sample: %w", err)
	}
	s, err := ParseVOC(data)
	if err != nil {
		return nil, fmt.Errorf("audio: %s: %w", path, err)
	}
	return s, nil
}

// Duration is the sample length at its own rate.
func (s *Sample) Duration() time.Duration {
	return s.Rate.D(len(s.Data))
}

// Streamer plays the sample from the start.
func (s *Sample) Streamer() beep.StreamSeeker {
	return &sampleStreamer{data: s.Data}
}

type sampleStreamer struct {
	data []byte
	pos  int
}

func (s *sampleStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	n := 0
	for i := range samples {
		if s.pos >= len(s.data) {
			break
		}
		v := (float64(s.data[s.pos]) - 128) / 128
		samples[i] = [2]float64{v, v}
		s.pos++
		n++
	}
	return n, true
}

func (s *sampleStreamer) Err() error    { return nil }
func (s *sampleStreamer) Len() int      { return len(s.data) }
func (s *sampleStreamer) Position() int { return s.pos }

func (s *sampleStreamer) Seek(p int) error {
	if p < 0 || p > len(s.data) {
		return fmt.Errorf("audio: seek %d out of range", p)
	}
	s.pos = p
	return nil
}
