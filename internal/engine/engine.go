package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/spf13/afero"
)

// Common engine errors
var (
	ErrEngine            = errors.New("audio engine error")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrChannelClosed     = fmt.Errorf("%w: channel closed", ErrEngine)
)

// Options configure the output device.
type Options struct {
	SampleRate      int           // speaker rate in Hz
	Buffer          time.Duration // speaker buffer length
	ResampleQuality int           // beep resampler quality, 1-64
}

// DefaultOptions match what the speaker is usually opened with.
func DefaultOptions() Options {
	return Options{
		SampleRate:      44100,
		Buffer:          100 * time.Millisecond,
		ResampleQuality: 4,
	}
}

// device is the audio output. The real one is the beep speaker.
type device interface {
	sync.Locker
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
}

type systemSpeaker struct{}

func (systemSpeaker) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (systemSpeaker) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (systemSpeaker) Lock()                   { speaker.Lock() }
func (systemSpeaker) Unlock()                 { speaker.Unlock() }

// Track is a fully decoded audio file.
type Track struct {
	Name       string
	Kind       Format
	PCM        []byte // interleaved signed 16-bit little-endian stereo
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
	Meta       Meta

	buffer *beep.Buffer
}

// Engine decodes files and plays them on the speaker.
type Engine struct {
	fs     afero.Fs
	opts   Options
	out    device
	inited bool
}

// New returns an engine reading files from fs.
func New(fs afero.Fs, opts Options) *Engine {
	return newEngine(fs, opts, systemSpeaker{})
}

func newEngine(fs afero.Fs, opts Options, out device) *Engine {
	slog.Debug("creating audio engine",
		"sample_rate", opts.SampleRate,
		"buffer", opts.Buffer,
		"resample_quality", opts.ResampleQuality)
	return &Engine{fs: fs, opts: opts, out: out}
}

// OpenAndDecode reads and fully decodes the file at path.
func (e *Engine) OpenAndDecode(path string) (*Track, error) {
	slog.Debug("opening audio file", "path", path)

	f, err := e.fs.Open(path)
	if err != nil {
		slog.Error("failed to open audio file", "path", path, "error", err)
		return nil, fmt.Errorf("%w: open %s: %v", ErrEngine, path, err)
	}
	defer f.Close()

	return e.Decode(filepath.Base(path), f)
}

// Decode fully decodes the audio read from r. name is only used for display.
func (e *Engine) Decode(name string, r io.Reader) (*Track, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		slog.Error("failed to read audio data", "name", name, "error", err)
		return nil, fmt.Errorf("%w: read %s: %v", ErrEngine, name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrEngine, name)
	}

	kind := DetectFormat(data)
	streamer, format, err := decodeStream(kind, data)
	if err != nil {
		slog.Error("decoder failed", "name", name, "format", kind, "error", err)
		return nil, fmt.Errorf("%w: decode %s: %w", ErrEngine, name, err)
	}
	defer streamer.Close()
	slog.Debug("decoder ready",
		"name", name,
		"format", kind,
		"sample_rate", format.SampleRate,
		"channels", format.NumChannels,
		"precision", format.Precision)

	capture := newCaptureStreamer(streamer, format.SampleRate)
	buffer := beep.NewBuffer(format)
	buffer.Append(capture)
	if err := streamer.Err(); err != nil {
		slog.Error("decoding stopped early", "name", name, "error", err)
		return nil, fmt.Errorf("%w: decode %s: %v", ErrEngine, name, err)
	}

	track := &Track{
		Name:       name,
		Kind:       kind,
		PCM:        capture.pcm,
		SampleRate: int(format.SampleRate),
		Channels:   2,
		BitDepth:   16,
		Frames:     capture.frames,
		Meta:       readMeta(data),
		buffer:     buffer,
	}

	slog.Info("decode completed",
		"name", name,
		"format", kind,
		"frames", track.Frames,
		"length_ms", e.LengthMs(track))
	return track, nil
}

// LengthMs returns the duration of track.
func (e *Engine) LengthMs(track *Track) uint {
	if track == nil || track.SampleRate <= 0 {
		return 0
	}
	return uint(beep.SampleRate(track.SampleRate).D(track.Frames).Milliseconds())
}

// Play starts track from the beginning on a new channel.
func (e *Engine) Play(track *Track) (*Channel, error) {
	if track == nil || track.buffer == nil {
		return nil, fmt.Errorf("%w: no track to play", ErrEngine)
	}
	if err := e.initOutput(); err != nil {
		return nil, err
	}

	rate := beep.SampleRate(track.SampleRate)
	ch := newChannel(e.out, rate, track.buffer.Streamer(0, track.buffer.Len()))

	var s beep.Streamer = ch.ctrl
	if out := beep.SampleRate(e.opts.SampleRate); rate != out {
		slog.Debug("resampling for output", "from", rate, "to", out)
		s = beep.Resample(e.opts.ResampleQuality, rate, out, s)
	}
	e.out.Play(s)

	slog.Info("playback started", "name", track.Name)
	return ch, nil
}

func (e *Engine) initOutput() error {
	if e.inited {
		return nil
	}
	rate := beep.SampleRate(e.opts.SampleRate)
	if err := e.out.Init(rate, rate.N(e.opts.Buffer)); err != nil {
		slog.Error("failed to initialize speaker", "sample_rate", rate, "error", err)
		return fmt.Errorf("%w: init speaker: %v", ErrEngine, err)
	}
	e.inited = true
	slog.Debug("speaker initialized", "sample_rate", rate, "buffer", e.opts.Buffer)
	return nil
}
