package waveform

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
)

// Common sample store errors
var (
	ErrDecode          = errors.New("malformed PCM buffer")
	ErrIndexOutOfRange = errors.New("sample index out of range")
)

// Channel selects one side of a stereo pair.
type Channel int

const (
	Left Channel = iota
	Right
)

func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// SampleFormat describes a raw PCM buffer.
type SampleFormat struct {
	SampleRate int // Hz
	Channels   int
	BitDepth   int
}

// FrameSize returns the number of bytes one interleaved frame takes.
func (f SampleFormat) FrameSize() int {
	return f.Channels * (f.BitDepth / 8)
}

// amplitudeDivisor maps int16 onto roughly [-0.5, 0.5). Waveform shapes
// depend on it.
const amplitudeDivisor = 65536

// Store holds the decoded amplitudes of the loaded track.
// Both channels always have the same length and are never modified after Load.
type Store struct {
	sampleRate int
	left       []float32
	right      []float32
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load decodes interleaved 16-bit little-endian stereo PCM, replacing any
// previously loaded data. On error the store is left untouched.
func (s *Store) Load(raw []byte, format SampleFormat) error {
	if format.Channels != 2 || format.BitDepth != 16 {
		return fmt.Errorf("%w: unsupported format %d channels, %d bits",
			ErrDecode, format.Channels, format.BitDepth)
	}
	if format.SampleRate <= 0 {
		return fmt.Errorf("%w: invalid sample rate %d", ErrDecode, format.SampleRate)
	}
	frameSize := format.FrameSize()
	if len(raw)%frameSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of frame size %d",
			ErrDecode, len(raw), frameSize)
	}

	frames := len(raw) / frameSize
	left := make([]float32, 0, frames)
	right := make([]float32, 0, frames)
	for cur := 0; cur < len(raw); cur += frameSize {
		l := int16(binary.LittleEndian.Uint16(raw[cur:]))
		r := int16(binary.LittleEndian.Uint16(raw[cur+2:]))
		left = append(left, float32(l)/amplitudeDivisor)
		right = append(right, float32(r)/amplitudeDivisor)
	}

	s.sampleRate = format.SampleRate
	s.left = left
	s.right = right

	slog.Debug("sample store loaded",
		"frames", frames,
		"sample_rate", format.SampleRate)
	return nil
}

// Len returns the number of samples per channel.
func (s *Store) Len() int {
	return len(s.left)
}

// Empty reports whether nothing has been loaded.
func (s *Store) Empty() bool {
	return len(s.left) == 0
}

// SampleRate returns the sample rate of the loaded data, 0 if empty.
func (s *Store) SampleRate() int {
	return s.sampleRate
}

// AmplitudeAt returns the normalized amplitude of channel at index.
func (s *Store) AmplitudeAt(channel Channel, index int) (float32, error) {
	if index < 0 || index >= s.Len() {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, s.Len())
	}
	switch channel {
	case Left:
		return s.left[index], nil
	case Right:
		return s.right[index], nil
	}
	return 0, fmt.Errorf("%w: unknown %s", ErrIndexOutOfRange, channel)
}
