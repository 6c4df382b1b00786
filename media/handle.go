// Package media provides the playable source handle the engine pulls audio
// from.
//
// A [Handle] belongs to the playback subsystem. A processing context binds
// to it once with [Handle.Attach]; a second attach fails with
// [ErrAlreadyAttached]. The underlying [Streamer] can be swapped at any time
// (track switch) and the handle can be paused, in which case it yields
// silence.
package media

import (
	"errors"
	"sync/atomic"
)

// ErrAlreadyAttached is returned when the handle is already bound to a
// processing context.
var ErrAlreadyAttached = errors.New("media: source already attached to a processing context")

// Streamer produces interleaved stereo float32 frames. Stream fills dst and
// returns the number of frames written; 0 means the stream has ended.
type Streamer interface {
	Stream(dst []float32) int
}

// Handle is a swappable, attach-once stereo source.
type Handle struct {
	name     string
	attached atomic.Bool
	paused   atomic.Bool
	ended    atomic.Bool
	src      atomic.Pointer[streamerBox]
}

type streamerBox struct {
	s Streamer
}

// NewHandle wraps s. name identifies the handle in logs.
func NewHandle(name string, s Streamer) *Handle {
	h := &Handle{name: name}
	h.Swap(s)
	return h
}

// Name returns the handle's name.
func (h *Handle) Name() string {
	return h.name
}

// Attach binds the handle to a processing context.
func (h *Handle) Attach() error {
	if !h.attached.CompareAndSwap(false, true) {
		return ErrAlreadyAttached
	}
	return nil
}

// Detach releases the binding so another context may attach.
func (h *Handle) Detach() {
	h.attached.Store(false)
}

// Attached reports whether a processing context holds the handle.
func (h *Handle) Attached() bool {
	return h.attached.Load()
}

// Swap replaces the underlying streamer. A nil streamer yields silence.
func (h *Handle) Swap(s Streamer) {
	h.src.Store(&streamerBox{s: s})
	h.ended.Store(false)
}

// SetPaused pauses or resumes the source. A paused handle yields silence
// without advancing the streamer.
func (h *Handle) SetPaused(paused bool) {
	h.paused.Store(paused)
}

// Paused reports whether the handle is paused.
func (h *Handle) Paused() bool {
	return h.paused.Load()
}

// Ended reports whether the current streamer ran out of frames.
func (h *Handle) Ended() bool {
	return h.ended.Load()
}

// Read fills dst with interleaved stereo frames and pads anything the
// streamer did not produce with silence. It always fills dst completely.
func (h *Handle) Read(dst []float32) {
	written := 0
	if box := h.src.Load(); box != nil && box.s != nil && !h.paused.Load() && !h.ended.Load() {
		for written < len(dst)/2 {
			n := box.s.Stream(dst[2*written:])
			if n <= 0 {
				h.ended.Store(true)
				break
			}
			written += n
		}
	}
	clear(dst[2*written:])
}
