package engine

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Format names a container/codec the engine can decode.
type Format string

const (
	FormatUnknown Format = ""
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatFLAC    Format = "flac"
	FormatVorbis  Format = "vorbis"
)

// DetectFormat sniffs the audio format of data.
func DetectFormat(data []byte) Format {
	mtype := mimetype.Detect(data)
	slog.Debug("detected mime type", "mime", mtype.String())

	switch {
	case mtype.Is("audio/wav"):
		return FormatWAV
	case mtype.Is("audio/mpeg"):
		return FormatMP3
	case mtype.Is("audio/flac"):
		return FormatFLAC
	case mtype.Is("audio/ogg"), mtype.Is("application/ogg"):
		return FormatVorbis
	}
	return detectMagicBytes(data)
}

// detectMagicBytes covers headers mimetype does not classify, mostly MP3
// streams that start on a bare frame sync.
func detectMagicBytes(header []byte) Format {
	switch {
	case len(header) >= 12 && string(header[:4]) == "RIFF" && string(header[8:12]) == "WAVE":
		return FormatWAV
	case len(header) >= 3 && string(header[:3]) == "ID3":
		return FormatMP3
	case len(header) >= 2 && header[0] == 0xFF && (header[1]&0xF6) == 0xF2:
		return FormatMP3
	case len(header) >= 4 && string(header[:4]) == "fLaC":
		return FormatFLAC
	case len(header) >= 4 && string(header[:4]) == "OggS":
		return FormatVorbis
	}
	slog.Debug("could not determine audio type by magic bytes")
	return FormatUnknown
}

// decodeStream opens a beep decoder for data.
func decodeStream(kind Format, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	r := bytes.NewReader(data)
	switch kind {
	case FormatWAV:
		return wav.Decode(r)
	case FormatMP3:
		return mp3.Decode(io.NopCloser(r))
	case FormatFLAC:
		return flac.Decode(r)
	case FormatVorbis:
		return vorbis.Decode(io.NopCloser(r))
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
}
