package engine

import (
	"encoding/binary"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice records what would have gone to the speaker.
type fakeDevice struct {
	sync.Mutex
	inits    int
	initRate beep.SampleRate
	initSize int
	initErr  error
	played   []beep.Streamer
}

func (d *fakeDevice) Init(rate beep.SampleRate, bufferSize int) error {
	d.inits++
	d.initRate = rate
	d.initSize = bufferSize
	return d.initErr
}

func (d *fakeDevice) Play(s ...beep.Streamer) {
	d.played = append(d.played, s...)
}

// generateStereoWAV builds a 16-bit stereo WAV with frames samples per
// channel; left is +16384, right is -16384.
func generateStereoWAV(rate, frames int) []byte {
	data := make([]byte, 0, frames*4)
	for i := 0; i < frames; i++ {
		data = binary.LittleEndian.AppendUint16(data, uint16(16384))
		data = binary.LittleEndian.AppendUint16(data, uint16(0xC000)) // -16384
	}

	wav := make([]byte, 0, 44+len(data))
	wav = append(wav, "RIFF"...)
	wav = binary.LittleEndian.AppendUint32(wav, uint32(36+len(data)))
	wav = append(wav, "WAVE"...)

	wav = append(wav, "fmt "...)
	wav = binary.LittleEndian.AppendUint32(wav, 16)
	wav = binary.LittleEndian.AppendUint16(wav, 1) // PCM
	wav = binary.LittleEndian.AppendUint16(wav, 2) // stereo
	wav = binary.LittleEndian.AppendUint32(wav, uint32(rate))
	wav = binary.LittleEndian.AppendUint32(wav, uint32(rate*4))
	wav = binary.LittleEndian.AppendUint16(wav, 4)
	wav = binary.LittleEndian.AppendUint16(wav, 16)

	wav = append(wav, "data"...)
	wav = binary.LittleEndian.AppendUint32(wav, uint32(len(data)))
	return append(wav, data...)
}

func newTestEngine(t *testing.T, rate int) (*Engine, *fakeDevice, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/music/tone.wav", generateStereoWAV(8000, 800), 0644))

	opts := DefaultOptions()
	opts.SampleRate = rate
	dev := &fakeDevice{}
	return newEngine(fs, opts, dev), dev, fs
}

func TestOpenAndDecodeWAV(t *testing.T) {
	e, _, _ := newTestEngine(t, 8000)

	track, err := e.OpenAndDecode("/music/tone.wav")
	require.NoError(t, err)

	assert.Equal(t, "tone.wav", track.Name)
	assert.Equal(t, FormatWAV, track.Kind)
	assert.Equal(t, 8000, track.SampleRate)
	assert.Equal(t, 2, track.Channels)
	assert.Equal(t, 16, track.BitDepth)
	assert.Equal(t, 800, track.Frames)
	assert.Len(t, track.PCM, 800*4)
	assert.Equal(t, uint(100), e.LengthMs(track))

	left := int16(binary.LittleEndian.Uint16(track.PCM[0:]))
	right := int16(binary.LittleEndian.Uint16(track.PCM[2:]))
	assert.InDelta(t, 16384, left, 2)
	assert.InDelta(t, -16384, right, 2)
}

func TestOpenAndDecodeMissingFile(t *testing.T) {
	e, _, _ := newTestEngine(t, 8000)

	_, err := e.OpenAndDecode("/music/missing.mp3")
	assert.ErrorIs(t, err, ErrEngine)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	e, _, _ := newTestEngine(t, 8000)

	t.Run("empty", func(t *testing.T) {
		_, err := e.Decode("empty.wav", strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEngine)
	})
	t.Run("not audio", func(t *testing.T) {
		_, err := e.Decode("notes.txt", strings.NewReader("definitely not audio"))
		assert.ErrorIs(t, err, ErrEngine)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
	t.Run("truncated wav", func(t *testing.T) {
		wav := generateStereoWAV(8000, 10)[:20]
		_, err := e.Decode("broken.wav", strings.NewReader(string(wav)))
		assert.ErrorIs(t, err, ErrEngine)
	})
}

func TestLengthMsWithoutTrack(t *testing.T) {
	e, _, _ := newTestEngine(t, 8000)
	assert.Equal(t, uint(0), e.LengthMs(nil))
	assert.Equal(t, uint(0), e.LengthMs(&Track{}))
}

func TestPlayInitializesSpeakerOnce(t *testing.T) {
	e, dev, _ := newTestEngine(t, 8000)
	track, err := e.OpenAndDecode("/music/tone.wav")
	require.NoError(t, err)

	_, err = e.Play(track)
	require.NoError(t, err)
	_, err = e.Play(track)
	require.NoError(t, err)

	assert.Equal(t, 1, dev.inits)
	assert.Equal(t, beep.SampleRate(8000), dev.initRate)
	assert.Equal(t, 800, dev.initSize) // 100ms at 8kHz
	assert.Len(t, dev.played, 2)
}

func TestPlayResamplesToOutputRate(t *testing.T) {
	e, dev, _ := newTestEngine(t, 44100)
	track, err := e.OpenAndDecode("/music/tone.wav")
	require.NoError(t, err)

	_, err = e.Play(track)
	require.NoError(t, err)
	require.Len(t, dev.played, 1)
	assert.IsType(t, &beep.Resampler{}, dev.played[0])
}

func TestPlaySpeakerFailure(t *testing.T) {
	e, dev, _ := newTestEngine(t, 8000)
	dev.initErr = errors.New("no audio device")
	track, err := e.OpenAndDecode("/music/tone.wav")
	require.NoError(t, err)

	_, err = e.Play(track)
	assert.ErrorIs(t, err, ErrEngine)
	assert.Empty(t, dev.played)

	dev.initErr = nil
	_, err = e.Play(track)
	assert.NoError(t, err)
	assert.Equal(t, 2, dev.inits)
}

func TestPlayWithoutTrack(t *testing.T) {
	e, _, _ := newTestEngine(t, 8000)
	_, err := e.Play(nil)
	assert.ErrorIs(t, err, ErrEngine)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 44100, opts.SampleRate)
	assert.Equal(t, 100*time.Millisecond, opts.Buffer)
}
