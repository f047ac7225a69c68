// ABOUTME: Output device abstraction
// ABOUTME: Narrow interface over the host platform's audio output
package device

import (
	"context"
	"fmt"

	"github.com/chime-audio/chime-go/internal/audio"
)

// State is the output device lifecycle state.
type State int

const (
	Suspended State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "suspended"
}

// Device is the narrow output interface the engine plays through. Device
// creation and sample-rate negotiation belong to the host platform; the
// engine only resumes it and attaches voices.
type Device interface {
	// Resume brings the device to the running state, blocking until it is
	// ready or ctx is done.
	Resume(ctx context.Context) error

	State() State
	SampleRate() int

	// NewVoice attaches a buffer to a new playback voice. The voice is not
	// audible until Start is called.
	NewVoice(buf *audio.Buffer, loop bool) (Voice, error)

	Close() error
}

// Voice is one playback instance with its own amplitude control.
type Voice interface {
	Start() error
	SetGain(g float64)
	Gain() float64

	// SetOffset skips playback to the given frame. Only meaningful before
	// Start.
	SetOffset(frames int)

	// Stop halts playback immediately. Idempotent.
	Stop()

	// Done is closed when the voice ends naturally or is stopped.
	Done() <-chan struct{}
}

// StartFailure reports a device that rejected a start request. Non-fatal:
// the instance is simply never audible.
type StartFailure struct {
	Err error
}

func (e *StartFailure) Error() string {
	return fmt.Sprintf("device rejected start: %v", e.Err)
}

func (e *StartFailure) Unwrap() error { return e.Err }
