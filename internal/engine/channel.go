package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// sustain keeps a finished stream attached to the speaker, producing
// silence, so a later seek can resume it. It ends once closed.
type sustain struct {
	s      beep.Streamer
	closed bool
}

func (h *sustain) Stream(samples [][2]float64) (n int, ok bool) {
	if h.closed {
		return 0, false
	}
	n, _ = h.s.Stream(samples)
	clear(samples[n:])
	return len(samples), true
}

func (h *sustain) Err() error {
	return h.s.Err()
}

// Channel is one playing track. Its state is shared with the speaker
// goroutine and is only touched under the speaker lock.
type Channel struct {
	lock   sync.Locker
	rate   beep.SampleRate
	seeker beep.StreamSeeker
	hold   *sustain
	ctrl   *beep.Ctrl
}

func newChannel(lock sync.Locker, rate beep.SampleRate, seeker beep.StreamSeeker) *Channel {
	hold := &sustain{s: seeker}
	return &Channel{
		lock:   lock,
		rate:   rate,
		seeker: seeker,
		hold:   hold,
		ctrl:   &beep.Ctrl{Streamer: hold},
	}
}

// PositionMs returns the playback position.
func (c *Channel) PositionMs() (uint, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.hold.closed {
		return 0, ErrChannelClosed
	}
	return uint(c.rate.D(c.seeker.Position()).Milliseconds()), nil
}

// SetPositionMs seeks to ms, clamped to the end of the track.
func (c *Channel) SetPositionMs(ms uint) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.hold.closed {
		return ErrChannelClosed
	}
	n := c.rate.N(time.Duration(ms) * time.Millisecond)
	if n > c.seeker.Len() {
		n = c.seeker.Len()
	}
	if err := c.seeker.Seek(n); err != nil {
		slog.Error("seek failed", "position_ms", ms, "error", err)
		return fmt.Errorf("%w: seek to %dms: %v", ErrEngine, ms, err)
	}
	slog.Debug("channel seeked", "position_ms", ms, "sample", n)
	return nil
}

// SetPaused pauses or resumes playback.
func (c *Channel) SetPaused(paused bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.hold.closed {
		return ErrChannelClosed
	}
	c.ctrl.Paused = paused
	return nil
}

// Paused reports whether playback is paused.
func (c *Channel) Paused() (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.hold.closed {
		return false, ErrChannelClosed
	}
	return c.ctrl.Paused, nil
}

// Close detaches the channel from the speaker. Closing twice is a no-op.
func (c *Channel) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.hold.closed = true
	return nil
}
