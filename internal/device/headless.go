// ABOUTME: Headless output device
// ABOUTME: No-op implementation used when no usable audio output exists
package device

import (
	"context"
	"sync"
	"time"

	"github.com/chime-audio/chime-go/internal/audio"
)

// Headless presents the full device surface without producing sound. It
// keeps voice lifecycle semantics intact (one-shots still complete after
// their natural duration), so the engine degrades to silence instead of
// forcing callers to branch on environment.
type Headless struct {
	mu         sync.Mutex
	state      State
	sampleRate int
}

// NewHeadless creates a silent device at the given rate
func NewHeadless(sampleRate int) *Headless {
	return &Headless{sampleRate: sampleRate}
}

func (d *Headless) Resume(ctx context.Context) error {
	d.mu.Lock()
	d.state = Running
	d.mu.Unlock()
	return nil
}

func (d *Headless) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Headless) SampleRate() int { return d.sampleRate }

func (d *Headless) NewVoice(buf *audio.Buffer, loop bool) (Voice, error) {
	return &headlessVoice{
		duration: buf.Duration(),
		loop:     loop,
		gain:     1,
		done:     make(chan struct{}),
	}, nil
}

func (d *Headless) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Suspended
	return nil
}

type headlessVoice struct {
	duration time.Duration
	loop     bool

	mu       sync.Mutex
	gain     float64
	timer    *time.Timer
	done     chan struct{}
	doneOnce sync.Once
}

func (v *headlessVoice) Start() error {
	if v.loop {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.timer == nil {
		v.timer = time.AfterFunc(v.duration, func() {
			v.doneOnce.Do(func() { close(v.done) })
		})
	}
	return nil
}

func (v *headlessVoice) SetGain(g float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gain = g
}

func (v *headlessVoice) Gain() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gain
}

func (v *headlessVoice) SetOffset(frames int) {}

func (v *headlessVoice) Stop() {
	v.mu.Lock()
	if v.timer != nil {
		v.timer.Stop()
	}
	v.mu.Unlock()
	v.doneOnce.Do(func() { close(v.done) })
}

func (v *headlessVoice) Done() <-chan struct{} { return v.done }
