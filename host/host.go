// Package host abstracts the platform's real-time rendering clock.
//
// A [Context] pulls interleaved stereo float32 frames from a connected
// [Renderer] on its own goroutine. Some platforms start the clock
// suspended until the user interacts; [Context.Resume] then reports
// [ErrSuspended] and must be retried later. Platforms without real-time
// processing make their [Factory] return [ErrUnsupported].
package host

import "errors"

var (
	// ErrUnsupported reports that the platform has no real-time audio
	// processing.
	ErrUnsupported = errors.New("host: real-time audio processing unsupported")

	// ErrSuspended reports that the rendering clock stays suspended, usually
	// until a user gesture.
	ErrSuspended = errors.New("host: rendering clock suspended")

	// ErrClosed reports use of a closed context.
	ErrClosed = errors.New("host: context closed")
)

// State is the rendering clock state.
type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Renderer produces interleaved stereo frames. Render must fill dst
// completely and must not block.
type Renderer interface {
	Render(dst []float32)
}

// Context is a platform rendering clock.
type Context interface {
	// SampleRate returns the clock's sample rate in Hz.
	SampleRate() int
	// State returns the current clock state.
	State() State
	// Resume starts the clock. It is a no-op when already running.
	Resume() error
	// Connect sets the renderer pulled by the clock.
	Connect(r Renderer) error
	// Close stops the clock and releases platform resources.
	Close() error
}

// Factory opens a Context at the requested sample rate.
type Factory func(sampleRate int) (Context, error)

// Unsupported is the Factory of a platform without real-time processing.
func Unsupported(int) (Context, error) {
	return nil, ErrUnsupported
}
