package engine

import "github.com/gopxl/beep/v2"

// pcmFormat is the layout of Track.PCM: interleaved signed 16-bit stereo.
func pcmFormat(rate beep.SampleRate) beep.Format {
	return beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
}

// captureStreamer wraps another streamer and keeps a 16-bit PCM copy of
// everything that passes through it.
type captureStreamer struct {
	s      beep.Streamer
	format beep.Format
	pcm    []byte
	frames int
}

func newCaptureStreamer(s beep.Streamer, rate beep.SampleRate) *captureStreamer {
	return &captureStreamer{s: s, format: pcmFormat(rate)}
}

func (c *captureStreamer) Err() error {
	return c.s.Err()
}

func (c *captureStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = c.s.Stream(samples)
	if n == 0 {
		return n, ok
	}
	frameSize := c.format.Width()
	start := len(c.pcm)
	c.pcm = append(c.pcm, make([]byte, n*frameSize)...)
	for i := 0; i < n; i++ {
		c.format.EncodeSigned(c.pcm[start+i*frameSize:], samples[i])
	}
	c.frames += n
	return n, ok
}
