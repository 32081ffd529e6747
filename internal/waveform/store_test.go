package waveform

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stereo16 = SampleFormat{SampleRate: 44100, Channels: 2, BitDepth: 16}

// pcm interleaves int16 values as little-endian bytes.
func pcm(values ...int16) []byte {
	raw := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(v))
	}
	return raw
}

func TestStoreLoadSplitsChannels(t *testing.T) {
	s := NewStore()
	require.True(t, s.Empty())

	require.NoError(t, s.Load(pcm(100, -100, 200, -200), stereo16))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 44100, s.SampleRate())
	assert.Equal(t, []float32{100.0 / 65536, 200.0 / 65536}, s.left)
	assert.Equal(t, []float32{-100.0 / 65536, -200.0 / 65536}, s.right)
}

func TestStoreLoadFullScale(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load(pcm(32767, -32768), stereo16))

	l, err := s.AmplitudeAt(Left, 0)
	require.NoError(t, err)
	r, err := s.AmplitudeAt(Right, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, l, 1e-4)
	assert.Equal(t, float32(-0.5), r)
}

func TestStoreMalformedBufferKeepsPreviousData(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load(pcm(1, 2, 3, 4), stereo16))

	err := s.Load([]byte{1, 2, 3, 4, 5}, stereo16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))

	assert.Equal(t, 2, s.Len())
	v, err := s.AmplitudeAt(Right, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(4)/65536, v)
}

func TestStoreMalformedBufferOnEmptyStore(t *testing.T) {
	s := NewStore()
	err := s.Load([]byte{0, 0, 0}, stereo16)
	assert.ErrorIs(t, err, ErrDecode)
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.SampleRate())
}

func TestStoreRejectsUnsupportedFormats(t *testing.T) {
	tests := []struct {
		name   string
		format SampleFormat
	}{
		{"mono", SampleFormat{SampleRate: 44100, Channels: 1, BitDepth: 16}},
		{"24 bit", SampleFormat{SampleRate: 44100, Channels: 2, BitDepth: 24}},
		{"zero rate", SampleFormat{SampleRate: 0, Channels: 2, BitDepth: 16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			err := s.Load(pcm(1, 1, 1, 1, 1, 1), tt.format)
			assert.ErrorIs(t, err, ErrDecode)
			assert.True(t, s.Empty())
		})
	}
}

func TestStoreAmplitudeAtOutOfRange(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load(pcm(1, 2), stereo16))

	for _, idx := range []int{-1, 1, 100} {
		_, err := s.AmplitudeAt(Left, idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)
	}
	_, err := s.AmplitudeAt(Channel(7), 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestStoreReplacedWholesale(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load(pcm(1, 2, 3, 4, 5, 6), stereo16))
	require.NoError(t, s.Load(pcm(9, 9), SampleFormat{SampleRate: 8000, Channels: 2, BitDepth: 16}))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 8000, s.SampleRate())
}
